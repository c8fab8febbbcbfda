//go:build cgo

package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/brunobiangulo/exambank/store"
)

func fptr(v float64) *float64 { return &v }

func TestQuestionsWorkbook(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	st, err := store.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	defer st.Close()

	examID, err := st.UpsertExam(ctx, store.Exam{
		SourcePath:  "/exams/final.pdf",
		Filename:    "final.pdf",
		CourseCode:  "PHYS210",
		ContentHash: store.ContentHash("body"),
		TotalMarks:  fptr(40),
		MarksSource: "sum",
		Status:      "parsed",
	})
	if err != nil {
		t.Fatalf("upserting exam: %v", err)
	}

	if _, err := st.InsertQuestions(ctx, []store.QuestionRecord{
		{
			ExamID:          examID,
			QuestionNumber:  1,
			Text:            "State Newton's second law of motion.",
			QuestionType:    "short_answer",
			Marks:           fptr(10),
			DifficultyScore: fptr(0.25),
			Position:        0,
		},
	}); err != nil {
		t.Fatalf("inserting questions: %v", err)
	}
	if err := st.InsertCleaningReport(ctx, store.CleaningReport{
		ExamID: examID, TotalProcessed: 1, FinalCount: 1,
	}); err != nil {
		t.Fatalf("inserting report: %v", err)
	}

	outPath := filepath.Join(dir, "out.xlsx")
	if err := Questions(ctx, st, outPath); err != nil {
		t.Fatalf("exporting: %v", err)
	}

	f, err := excelize.OpenFile(outPath)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Questions")
	if err != nil {
		t.Fatalf("reading Questions sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1 data row", len(rows))
	}
	if rows[0][0] != "exam_id" {
		t.Errorf("header[0] = %q, want exam_id", rows[0][0])
	}
	if rows[1][1] != "PHYS210" {
		t.Errorf("course_code cell = %q, want PHYS210", rows[1][1])
	}

	reportRows, err := f.GetRows("Cleaning Reports")
	if err != nil {
		t.Fatalf("reading report sheet: %v", err)
	}
	if len(reportRows) != 2 {
		t.Fatalf("got %d report rows, want header + 1 data row", len(reportRows))
	}
}
