package store

// schemaSQL is the DDL for all tables. The FTS5 index over question
// text backs downstream browsing and training-set queries.
const schemaSQL = `
-- Exam registry with hash-based change detection
CREATE TABLE IF NOT EXISTS exams (
    id INTEGER PRIMARY KEY,
    source_path TEXT NOT NULL UNIQUE,
    filename TEXT NOT NULL,
    course_code TEXT,
    content_hash TEXT NOT NULL,
    total_marks REAL,
    marks_source TEXT,
    exam_date TEXT,
    status TEXT DEFAULT 'pending',
    flags JSON,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Parsed question records, ordered by position within their exam
CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY,
    exam_id INTEGER NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
    question_number INTEGER NOT NULL,
    text TEXT NOT NULL,
    question_type TEXT NOT NULL,
    marks REAL,
    difficulty_score REAL,
    is_sub_question INTEGER NOT NULL DEFAULT 0,
    parent_question_number INTEGER,
    topics JSON,
    quality_flags JSON,
    position INTEGER NOT NULL,
    content_hash TEXT NOT NULL,
    UNIQUE(exam_id, question_number)
);

-- Per-exam cleaning statistics
CREATE TABLE IF NOT EXISTS cleaning_reports (
    id INTEGER PRIMARY KEY,
    exam_id INTEGER NOT NULL REFERENCES exams(id) ON DELETE CASCADE,
    total_processed INTEGER NOT NULL DEFAULT 0,
    removed_duplicate INTEGER NOT NULL DEFAULT 0,
    removed_too_short INTEGER NOT NULL DEFAULT 0,
    removed_invalid INTEGER NOT NULL DEFAULT 0,
    final_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Full-text search via FTS5
CREATE VIRTUAL TABLE IF NOT EXISTS questions_fts USING fts5(
    text,
    content='questions',
    content_rowid='id',
    tokenize='porter unicode61'
);

-- FTS triggers to keep index in sync
CREATE TRIGGER IF NOT EXISTS questions_ai AFTER INSERT ON questions BEGIN
    INSERT INTO questions_fts(rowid, text) VALUES (new.id, new.text);
END;
CREATE TRIGGER IF NOT EXISTS questions_ad AFTER DELETE ON questions BEGIN
    INSERT INTO questions_fts(questions_fts, rowid, text) VALUES ('delete', old.id, old.text);
END;
CREATE TRIGGER IF NOT EXISTS questions_au AFTER UPDATE ON questions BEGIN
    INSERT INTO questions_fts(questions_fts, rowid, text) VALUES ('delete', old.id, old.text);
    INSERT INTO questions_fts(rowid, text) VALUES (new.id, new.text);
END;

-- Indexes
CREATE INDEX IF NOT EXISTS idx_questions_exam ON questions(exam_id);
CREATE INDEX IF NOT EXISTS idx_questions_type ON questions(question_type);
CREATE INDEX IF NOT EXISTS idx_exams_course ON exams(course_code);
CREATE INDEX IF NOT EXISTS idx_exams_hash ON exams(content_hash);
CREATE INDEX IF NOT EXISTS idx_reports_exam ON cleaning_reports(exam_id);
`
