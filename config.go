package exambank

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all tunable pipeline settings. The zero value is not
// usable; start from DefaultConfig and override.
type Config struct {
	// StorageDir is the directory for the SQLite database file.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// DBName is the database filename inside StorageDir.
	DBName string `json:"db_name" yaml:"db_name"`

	// StrictMarks disables the low-confidence bare "(10)" marks pattern,
	// keeping only keyword-anchored forms like "(10 pts)".
	StrictMarks bool `json:"strict_marks" yaml:"strict_marks"`

	// TotalMarksBound is the sanity ceiling for an exam's total marks.
	TotalMarksBound float64 `json:"total_marks_bound" yaml:"total_marks_bound"`

	// MinQuestionLength is the minimum cleaned-text length for a record
	// to survive cleaning.
	MinQuestionLength int `json:"min_question_length" yaml:"min_question_length"`

	// MinLetterRatio is the minimum fraction of letter characters in a
	// surviving record.
	MinLetterRatio float64 `json:"min_letter_ratio" yaml:"min_letter_ratio"`

	// SimilarityThreshold is the token-overlap ratio at or above which a
	// later record is dropped as a near-duplicate.
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`

	// NoisePatterns override the stock noise-line patterns when non-nil.
	NoisePatterns []string `json:"noise_patterns,omitempty" yaml:"noise_patterns,omitempty"`

	// Concurrency is the number of exams processed in parallel by
	// ProcessBatch.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		StorageDir:          "data",
		DBName:              "exambank.db",
		StrictMarks:         false,
		TotalMarksBound:     300,
		MinQuestionLength:   20,
		MinLetterRatio:      0.15,
		SimilarityThreshold: 0.85,
		Concurrency:         4,
	}
}

// DBPath returns the full path to the database file.
func (c Config) DBPath() string {
	return filepath.Join(c.StorageDir, c.DBName)
}

// Validate checks configuration invariants.
func (c Config) Validate() error {
	if c.TotalMarksBound <= 0 {
		return fmt.Errorf("%w: total_marks_bound must be positive, got %v",
			ErrInvalidConfig, c.TotalMarksBound)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity_threshold must be in [0,1], got %v",
			ErrInvalidConfig, c.SimilarityThreshold)
	}
	if c.MinLetterRatio < 0 || c.MinLetterRatio > 1 {
		return fmt.Errorf("%w: min_letter_ratio must be in [0,1], got %v",
			ErrInvalidConfig, c.MinLetterRatio)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1, got %d",
			ErrInvalidConfig, c.Concurrency)
	}
	return nil
}

// LoadConfig reads a config file, JSON or YAML by extension, layered
// over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("%w: config file %s", ErrUnsupportedFormat, path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
