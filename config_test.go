package exambank

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestDBPath(t *testing.T) {
	cfg := Config{StorageDir: "data", DBName: "exambank.db"}
	want := filepath.Join("data", "exambank.db")
	if got := cfg.DBPath(); got != want {
		t.Errorf("DBPath = %q, want %q", got, want)
	}
}

func TestLoadConfigJSON(t *testing.T) {
	path := writeConfigFile(t, "config.json",
		`{"strict_marks": true, "total_marks_bound": 200, "concurrency": 8}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if !cfg.StrictMarks {
		t.Error("StrictMarks = false, want true")
	}
	if cfg.TotalMarksBound != 200 {
		t.Errorf("TotalMarksBound = %v, want 200", cfg.TotalMarksBound)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Concurrency)
	}
	// Unset fields keep defaults.
	if cfg.SimilarityThreshold != 0.85 {
		t.Errorf("SimilarityThreshold = %v, want default 0.85", cfg.SimilarityThreshold)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfigFile(t, "config.yaml",
		"strict_marks: true\nmin_question_length: 30\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if !cfg.StrictMarks {
		t.Error("StrictMarks = false, want true")
	}
	if cfg.MinQuestionLength != 30 {
		t.Errorf("MinQuestionLength = %d, want 30", cfg.MinQuestionLength)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := writeConfigFile(t, "config.json", `{"similarity_threshold": 2.0}`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadConfigUnknownExtension(t *testing.T) {
	path := writeConfigFile(t, "config.toml", "strict_marks = true")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
