// Package export writes stored exam data to spreadsheet files for
// review outside the pipeline.
package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/brunobiangulo/exambank/store"
)

var questionHeaders = []string{
	"exam_id", "course_code", "question_number", "question_type", "marks",
	"difficulty_score", "is_sub_question", "parent_question_number", "text",
}

var reportHeaders = []string{
	"exam_id", "course_code", "total_processed", "removed_duplicate",
	"removed_too_short", "removed_invalid", "final_count",
}

// Questions writes every stored exam's questions to an .xlsx workbook:
// one Questions sheet plus a Cleaning Reports sheet.
func Questions(ctx context.Context, st *store.Store, outPath string) error {
	exams, err := st.ListExams(ctx)
	if err != nil {
		return fmt.Errorf("listing exams: %w", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetName(sheet, "Questions")
	sheet = "Questions"

	for i, h := range questionHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, exam := range exams {
		questions, err := st.QuestionsForExam(ctx, exam.ID)
		if err != nil {
			return fmt.Errorf("loading questions for exam %d: %w", exam.ID, err)
		}
		for _, q := range questions {
			values := []any{
				q.ExamID,
				exam.CourseCode,
				q.QuestionNumber,
				q.QuestionType,
				floatOrEmpty(q.Marks),
				floatOrEmpty(q.DifficultyScore),
				q.IsSubQuestion,
				intOrEmpty(q.ParentQuestionNumber),
				q.Text,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				_ = f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}
	_ = f.SetColWidth(sheet, "A", "H", 16)
	_ = f.SetColWidth(sheet, "I", "I", 80)

	if err := writeReportSheet(ctx, f, st, exams); err != nil {
		return err
	}

	if err := f.SaveAs(outPath); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeReportSheet(ctx context.Context, f *excelize.File, st *store.Store, exams []store.Exam) error {
	sheet := "Cleaning Reports"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating report sheet: %w", err)
	}

	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, exam := range exams {
		report, err := st.ReportForExam(ctx, exam.ID)
		if err != nil {
			// Exams without a report are fine: they failed before cleaning.
			continue
		}
		values := []any{
			report.ExamID,
			exam.CourseCode,
			report.TotalProcessed,
			report.RemovedDuplicate,
			report.RemovedTooShort,
			report.RemovedInvalid,
			report.FinalCount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}
	_ = f.SetColWidth(sheet, "A", "G", 18)
	return nil
}

func floatOrEmpty(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func intOrEmpty(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
