// Package store persists parsed exams, question records, and cleaning
// reports in SQLite, with an FTS5 index over question text for
// downstream consumers.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Exam represents a row in the exams table.
type Exam struct {
	ID          int64    `json:"id"`
	SourcePath  string   `json:"source_path"`
	Filename    string   `json:"filename"`
	CourseCode  string   `json:"course_code,omitempty"`
	ContentHash string   `json:"content_hash"`
	TotalMarks  *float64 `json:"total_marks,omitempty"`
	MarksSource string   `json:"marks_source,omitempty"`
	ExamDate    string   `json:"exam_date,omitempty"`
	Status      string   `json:"status"`
	Flags       []string `json:"flags,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// QuestionRecord represents a row in the questions table — one parsed
// question or sub-question.
type QuestionRecord struct {
	ID                   int64    `json:"id"`
	ExamID               int64    `json:"exam_id"`
	QuestionNumber       int      `json:"question_number"`
	Text                 string   `json:"text"`
	QuestionType         string   `json:"question_type"`
	Marks                *float64 `json:"marks,omitempty"`
	DifficultyScore      *float64 `json:"difficulty_score,omitempty"`
	IsSubQuestion        bool     `json:"is_sub_question"`
	ParentQuestionNumber *int     `json:"parent_question_number,omitempty"`
	Topics               []string `json:"topics,omitempty"`
	QualityFlags         []string `json:"quality_flags,omitempty"`
	Position             int      `json:"position"`
	ContentHash          string   `json:"content_hash"`
}

// CleaningReport represents a row in the cleaning_reports table.
type CleaningReport struct {
	ExamID           int64 `json:"exam_id"`
	TotalProcessed   int   `json:"total_processed"`
	RemovedDuplicate int   `json:"removed_duplicate"`
	RemovedTooShort  int   `json:"removed_too_short"`
	RemovedInvalid   int   `json:"removed_invalid"`
	FinalCount       int   `json:"final_count"`
}

// SearchResult holds a question matched by full-text search.
type SearchResult struct {
	QuestionID   int64   `json:"question_id"`
	ExamID       int64   `json:"exam_id"`
	CourseCode   string  `json:"course_code,omitempty"`
	Text         string  `json:"text"`
	QuestionType string  `json:"question_type"`
	Score        float64 `json:"score"`
}

// Store wraps the SQLite database for all exambank persistence.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema including the FTS5 virtual table.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}

	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// --- Exam operations ---

// UpsertExam inserts or updates an exam record keyed by source path.
// Returns the exam ID.
func (s *Store) UpsertExam(ctx context.Context, exam Exam) (int64, error) {
	flags, err := marshalStrings(exam.Flags)
	if err != nil {
		return 0, fmt.Errorf("encoding flags: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO exams (source_path, filename, course_code, content_hash, total_marks, marks_source, exam_date, status, flags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_path) DO UPDATE SET
			filename = excluded.filename,
			course_code = excluded.course_code,
			content_hash = excluded.content_hash,
			total_marks = excluded.total_marks,
			marks_source = excluded.marks_source,
			exam_date = excluded.exam_date,
			status = excluded.status,
			flags = excluded.flags,
			updated_at = CURRENT_TIMESTAMP
	`, exam.SourcePath, exam.Filename, nullString(exam.CourseCode), exam.ContentHash,
		nullFloat(exam.TotalMarks), nullString(exam.MarksSource), nullString(exam.ExamDate),
		exam.Status, flags)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	// If UPSERT did an UPDATE, LastInsertId may not reflect the existing row.
	if id == 0 {
		row := s.db.QueryRowContext(ctx, "SELECT id FROM exams WHERE source_path = ?", exam.SourcePath)
		if err := row.Scan(&id); err != nil {
			return 0, err
		}
	}
	return id, nil
}

const examColumns = `id, source_path, filename, course_code, content_hash,
	total_marks, marks_source, exam_date, status, flags, created_at, updated_at`

func scanExam(row interface{ Scan(...any) error }) (*Exam, error) {
	e := &Exam{}
	var course, marksSource, examDate, flags sql.NullString
	var total sql.NullFloat64
	err := row.Scan(&e.ID, &e.SourcePath, &e.Filename, &course, &e.ContentHash,
		&total, &marksSource, &examDate, &e.Status, &flags, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.CourseCode = course.String
	e.MarksSource = marksSource.String
	e.ExamDate = examDate.String
	if total.Valid {
		v := total.Float64
		e.TotalMarks = &v
	}
	if flags.Valid && flags.String != "" {
		if err := json.Unmarshal([]byte(flags.String), &e.Flags); err != nil {
			return nil, fmt.Errorf("decoding flags: %w", err)
		}
	}
	return e, nil
}

// GetExamByPath retrieves an exam by its source path.
func (s *Store) GetExamByPath(ctx context.Context, path string) (*Exam, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+examColumns+" FROM exams WHERE source_path = ?", path)
	return scanExam(row)
}

// GetExam retrieves an exam by ID.
func (s *Store) GetExam(ctx context.Context, id int64) (*Exam, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+examColumns+" FROM exams WHERE id = ?", id)
	return scanExam(row)
}

// ListExams returns all exams ordered by creation time.
func (s *Store) ListExams(ctx context.Context) ([]Exam, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+examColumns+" FROM exams ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

// UpdateExamStatus updates just the status field.
func (s *Store) UpdateExamStatus(ctx context.Context, id int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE exams SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id)
	return err
}

// DeleteExam removes an exam; questions and reports cascade.
func (s *Store) DeleteExam(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM exams WHERE id = ?", id)
	return err
}

// DeleteExamData removes an exam's questions and reports but keeps the
// exam row, for re-parse runs.
func (s *Store) DeleteExamData(ctx context.Context, examID int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM questions WHERE exam_id = ?", examID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM cleaning_reports WHERE exam_id = ?", examID)
		return err
	})
}

// --- Question operations ---

// InsertQuestions inserts question records for one exam in a single
// transaction and returns the assigned IDs in input order.
func (s *Store) InsertQuestions(ctx context.Context, records []QuestionRecord) ([]int64, error) {
	ids := make([]int64, 0, len(records))
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO questions (exam_id, question_number, text, question_type, marks,
				difficulty_score, is_sub_question, parent_question_number, topics,
				quality_flags, position, content_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, q := range records {
			topics, err := marshalStrings(q.Topics)
			if err != nil {
				return fmt.Errorf("encoding topics: %w", err)
			}
			flags, err := marshalStrings(q.QualityFlags)
			if err != nil {
				return fmt.Errorf("encoding quality flags: %w", err)
			}
			hash := q.ContentHash
			if hash == "" {
				hash = ContentHash(q.Text)
			}
			res, err := stmt.ExecContext(ctx, q.ExamID, q.QuestionNumber, q.Text,
				q.QuestionType, nullFloat(q.Marks), nullFloat(q.DifficultyScore),
				q.IsSubQuestion, nullInt(q.ParentQuestionNumber), topics, flags,
				q.Position, hash)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// QuestionsForExam returns an exam's questions in discovery order.
func (s *Store) QuestionsForExam(ctx context.Context, examID int64) ([]QuestionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, exam_id, question_number, text, question_type, marks,
			difficulty_score, is_sub_question, parent_question_number, topics,
			quality_flags, position, content_hash
		FROM questions WHERE exam_id = ? ORDER BY position
	`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []QuestionRecord
	for rows.Next() {
		var q QuestionRecord
		var marksVal, diff sql.NullFloat64
		var parent sql.NullInt64
		var topics, flags sql.NullString
		if err := rows.Scan(&q.ID, &q.ExamID, &q.QuestionNumber, &q.Text, &q.QuestionType,
			&marksVal, &diff, &q.IsSubQuestion, &parent, &topics, &flags,
			&q.Position, &q.ContentHash); err != nil {
			return nil, err
		}
		if marksVal.Valid {
			v := marksVal.Float64
			q.Marks = &v
		}
		if diff.Valid {
			v := diff.Float64
			q.DifficultyScore = &v
		}
		if parent.Valid {
			v := int(parent.Int64)
			q.ParentQuestionNumber = &v
		}
		if topics.Valid && topics.String != "" {
			if err := json.Unmarshal([]byte(topics.String), &q.Topics); err != nil {
				return nil, fmt.Errorf("decoding topics: %w", err)
			}
		}
		if flags.Valid && flags.String != "" {
			if err := json.Unmarshal([]byte(flags.String), &q.QualityFlags); err != nil {
				return nil, fmt.Errorf("decoding quality flags: %w", err)
			}
		}
		records = append(records, q)
	}
	return records, rows.Err()
}

// SearchQuestions runs an FTS5 match over question text. Results are
// ordered by BM25 rank (best first).
func (s *Store) SearchQuestions(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id, q.exam_id, COALESCE(e.course_code, ''), q.text, q.question_type,
			bm25(questions_fts) AS rank
		FROM questions_fts
		JOIN questions q ON q.id = questions_fts.rowid
		JOIN exams e ON e.id = q.exam_id
		WHERE questions_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, ftsQuery(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.QuestionID, &r.ExamID, &r.CourseCode, &r.Text,
			&r.QuestionType, &r.Score); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// --- Cleaning report operations ---

// InsertCleaningReport stores one exam's cleaning statistics.
func (s *Store) InsertCleaningReport(ctx context.Context, r CleaningReport) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cleaning_reports (exam_id, total_processed, removed_duplicate,
			removed_too_short, removed_invalid, final_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ExamID, r.TotalProcessed, r.RemovedDuplicate, r.RemovedTooShort,
		r.RemovedInvalid, r.FinalCount)
	return err
}

// ReportForExam returns the most recent cleaning report for an exam.
func (s *Store) ReportForExam(ctx context.Context, examID int64) (*CleaningReport, error) {
	r := &CleaningReport{}
	err := s.db.QueryRowContext(ctx, `
		SELECT exam_id, total_processed, removed_duplicate, removed_too_short,
			removed_invalid, final_count
		FROM cleaning_reports WHERE exam_id = ?
		ORDER BY created_at DESC, id DESC LIMIT 1
	`, examID).Scan(&r.ExamID, &r.TotalProcessed, &r.RemovedDuplicate,
		&r.RemovedTooShort, &r.RemovedInvalid, &r.FinalCount)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// --- Helpers ---

// inTx runs fn inside a transaction, rolling back on error.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ContentHash returns the SHA-256 hex digest of text.
func ContentHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// ftsQuery quotes each term so FTS5 operators in user input cannot
// break the query.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

func marshalStrings(v []string) (string, error) {
	if len(v) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}
