// Package exambank turns raw exam-paper text into structured, typed,
// difficulty-scored question records. The pipeline runs segmentation,
// sub-question linking, type classification, marks extraction, and
// cleaning in a fixed order; parse problems inside one exam degrade the
// result and flag it for review instead of failing the run.
package exambank

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/brunobiangulo/exambank/classify"
	"github.com/brunobiangulo/exambank/clean"
	"github.com/brunobiangulo/exambank/cover"
	"github.com/brunobiangulo/exambank/marks"
	"github.com/brunobiangulo/exambank/segment"
	"github.com/brunobiangulo/exambank/store"
)

// Exam-level review flags.
const (
	// FlagOCRNoise marks an exam where no question marker was found and
	// the whole text became a single synthetic record.
	FlagOCRNoise = "possible_ocr_noise"

	// FlagTotalOutOfRange marks an exam whose candidate total marks
	// exceeded the sanity bound and was discarded.
	FlagTotalOutOfRange = "total_marks_out_of_range"
)

// ExamDocument is the pipeline input: extracted page text plus whatever
// metadata the caller already knows. Cover may be nil; the pipeline then
// parses the first page itself.
type ExamDocument struct {
	SourcePath string
	CourseCode string
	Pages      []string
	Cover      *cover.Metadata
}

// ExamResult is the structured output for one exam.
type ExamResult struct {
	CourseCode  string
	TotalMarks  *float64
	MarksSource string
	Flags       []string
	Questions   []store.QuestionRecord
	Report      store.CleaningReport
	Cover       cover.Metadata
}

// Pipeline runs the full parse for exam documents. Safe for concurrent
// use: all state is read-only after New.
type Pipeline struct {
	cfg       Config
	cleaner   *clean.Cleaner
	extractor *marks.Extractor
	rules     []classify.Rule
	log       *slog.Logger
}

// Option customizes a Pipeline beyond what Config covers.
type Option func(*Pipeline)

// WithRules replaces the default classification ladder.
func WithRules(rules []classify.Rule) Option {
	return func(p *Pipeline) { p.rules = rules }
}

// WithLogger replaces the default slog logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// New builds a Pipeline from cfg. A nil-field Config is rejected by
// Validate; start from DefaultConfig.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cleaner, err := clean.New(clean.Config{
		NoisePatterns:       cfg.NoisePatterns,
		MinQuestionLength:   cfg.MinQuestionLength,
		MinLetterRatio:      cfg.MinLetterRatio,
		SimilarityThreshold: cfg.SimilarityThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("building cleaner: %w", err)
	}

	p := &Pipeline{
		cfg:       cfg,
		cleaner:   cleaner,
		extractor: marks.NewExtractor(cfg.StrictMarks),
		rules:     classify.DefaultRules(),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Process parses one exam document. It never returns an error: an exam
// that cannot be parsed cleanly comes back with fewer records and
// review flags, matching how a batch over hundreds of scanned papers
// has to behave.
func (p *Pipeline) Process(doc ExamDocument) *ExamResult {
	res := &ExamResult{CourseCode: doc.CourseCode}

	// Cover metadata: caller-supplied wins, else parse the first page.
	if doc.Cover != nil {
		res.Cover = *doc.Cover
	} else if len(doc.Pages) > 0 {
		res.Cover = cover.Parse(doc.Pages[0])
	}
	if res.CourseCode == "" {
		res.CourseCode = res.Cover.CourseCode
	}

	text := joinPages(doc.Pages)
	if strings.TrimSpace(text) == "" {
		p.log.Warn("exam has no extractable text", "source", doc.SourcePath)
		res.Flags = append(res.Flags, FlagOCRNoise)
		return res
	}

	// Segment and link sub-questions.
	spans := segment.LinkSubQuestions(segment.Split(text))

	records := make([]store.QuestionRecord, 0, len(spans))
	for _, s := range spans {
		q := store.QuestionRecord{
			QuestionNumber: s.Number,
			Text:           s.Text,
			IsSubQuestion:  s.IsSub,
			Marks:          p.extractor.Extract(s.Text),
		}
		if s.Synthetic {
			res.Flags = append(res.Flags, FlagOCRNoise)
			q.QualityFlags = append(q.QualityFlags, FlagOCRNoise)
		}
		if s.IsSub {
			parent := s.ParentNumber
			q.ParentQuestionNumber = &parent
			q.QuestionType = string(classify.SubQuestion)
		} else {
			q.QuestionType = string(classify.Detect(s.Text, p.rules))
		}
		records = append(records, q)
	}

	// Clean, validate, dedup.
	cleaned, report := p.cleaner.Clean(records)
	res.Report = report

	// Cleaning may have removed a parent record; a sub-question whose
	// parent no longer exists earlier in the exam becomes a normal
	// question and gets classified like one.
	mains := make(map[int]bool, len(cleaned))
	for _, q := range cleaned {
		if !q.IsSubQuestion {
			mains[q.QuestionNumber] = true
		}
	}
	for i := range cleaned {
		q := &cleaned[i]
		if !q.IsSubQuestion {
			continue
		}
		if q.ParentQuestionNumber == nil || !mains[*q.ParentQuestionNumber] ||
			*q.ParentQuestionNumber >= q.QuestionNumber {
			q.IsSubQuestion = false
			q.ParentQuestionNumber = nil
			q.QuestionType = string(classify.Detect(q.Text, p.rules))
		}
	}

	// Resolve the exam total and score difficulty from the survivors.
	perQuestion := make([]*float64, len(cleaned))
	for i := range cleaned {
		perQuestion[i] = cleaned[i].Marks
	}
	total := marks.ResolveTotal(res.Cover.TotalMarks, perQuestion, p.cfg.TotalMarksBound)
	if total.OutOfRange {
		res.Flags = append(res.Flags, FlagTotalOutOfRange)
	}
	res.TotalMarks = total.Value
	res.MarksSource = total.Source

	for i := range cleaned {
		cleaned[i].DifficultyScore = marks.Difficulty(cleaned[i].Marks, total.Value)
		cleaned[i].Position = i
	}
	res.Questions = cleaned

	p.log.Info("exam processed",
		"source", doc.SourcePath,
		"course", res.CourseCode,
		"questions", len(res.Questions),
		"removed", report.TotalProcessed-report.FinalCount,
		"flags", res.Flags)
	return res
}

// ProcessBatch parses documents concurrently with a bounded worker
// pool. Results come back in input order; a cancelled context leaves
// nil entries for unprocessed documents.
func (p *Pipeline) ProcessBatch(ctx context.Context, docs []ExamDocument) []*ExamResult {
	results := make([]*ExamResult, len(docs))
	sem := make(chan struct{}, p.cfg.Concurrency)
	var wg sync.WaitGroup

	for i := range docs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = p.Process(docs[i])
		}(i)
	}
	wg.Wait()
	return results
}

// Persist writes one exam's result to the store, replacing any earlier
// parse of the same source path. Returns the exam ID.
func (p *Pipeline) Persist(ctx context.Context, st *store.Store, doc ExamDocument, res *ExamResult) (int64, error) {
	status := "parsed"
	if len(res.Flags) > 0 {
		status = "needs_review"
	}

	examID, err := st.UpsertExam(ctx, store.Exam{
		SourcePath:  doc.SourcePath,
		Filename:    filepath.Base(doc.SourcePath),
		CourseCode:  res.CourseCode,
		ContentHash: store.ContentHash(joinPages(doc.Pages)),
		TotalMarks:  res.TotalMarks,
		MarksSource: res.MarksSource,
		ExamDate:    res.Cover.RawDate,
		Status:      status,
		Flags:       res.Flags,
	})
	if err != nil {
		return 0, fmt.Errorf("upserting exam %s: %w", doc.SourcePath, err)
	}

	// Re-parse runs replace the old questions wholesale.
	if err := st.DeleteExamData(ctx, examID); err != nil {
		return 0, fmt.Errorf("clearing old data for exam %d: %w", examID, err)
	}

	questions := make([]store.QuestionRecord, len(res.Questions))
	copy(questions, res.Questions)
	for i := range questions {
		questions[i].ExamID = examID
	}
	if _, err := st.InsertQuestions(ctx, questions); err != nil {
		return 0, fmt.Errorf("inserting questions for exam %d: %w", examID, err)
	}

	report := res.Report
	report.ExamID = examID
	if err := st.InsertCleaningReport(ctx, report); err != nil {
		return 0, fmt.Errorf("inserting cleaning report for exam %d: %w", examID, err)
	}
	return examID, nil
}

// joinPages concatenates page text with form-feed separators so page
// boundaries survive into segmentation as removable noise lines.
func joinPages(pages []string) string {
	return strings.Join(pages, "\n\f\n")
}
