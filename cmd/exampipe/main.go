// Command exampipe parses a directory of exam files into the question
// bank database.
//
// Usage:
//
//	go run -tags sqlite_fts5 ./cmd/exampipe \
//	  --input ./exams \
//	  --db ./data/exambank.db \
//	  --export ./out/questions.xlsx
package main

import (
	"context"
	"flag"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/brunobiangulo/exambank"
	"github.com/brunobiangulo/exambank/export"
	"github.com/brunobiangulo/exambank/ingest"
	"github.com/brunobiangulo/exambank/store"
)

func main() {
	var (
		inputDir    = flag.String("input", "", "Directory of exam files to parse (.pdf, .txt)")
		configPath  = flag.String("config", "", "Path to JSON or YAML config file")
		dbPath      = flag.String("db", "", "SQLite database path (overrides config)")
		exportPath  = flag.String("export", "", "Write parsed questions to this .xlsx file after the run")
		strictMarks = flag.Bool("strict-marks", false, "Require a pts/points/marks keyword for marks extraction")
		concurrency = flag.Int("concurrency", 0, "Exams processed in parallel (overrides config)")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))

	if *inputDir == "" {
		log.Fatal("--input directory is required")
	}

	cfg := exambank.DefaultConfig()
	if *configPath != "" {
		loaded, err := exambank.LoadConfig(*configPath)
		if err != nil {
			slog.Error("loading config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *strictMarks {
		cfg.StrictMarks = true
	}
	if *concurrency > 0 {
		cfg.Concurrency = *concurrency
	}

	resolvedDB := cfg.DBPath()
	if *dbPath != "" {
		resolvedDB = *dbPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := exambank.New(cfg)
	if err != nil {
		slog.Error("creating pipeline", "error", err)
		os.Exit(1)
	}

	st, err := store.New(resolvedDB)
	if err != nil {
		slog.Error("opening store", "path", resolvedDB, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	docs := loadDocuments(ctx, *inputDir)
	if len(docs) == 0 {
		slog.Error("no readable exam files found", "dir", *inputDir)
		os.Exit(1)
	}
	slog.Info("parsing exams", "count", len(docs), "db", resolvedDB)

	results := pipeline.ProcessBatch(ctx, docs)

	persisted, flagged := 0, 0
	for i, res := range results {
		if res == nil {
			continue
		}
		if _, err := pipeline.Persist(ctx, st, docs[i], res); err != nil {
			slog.Error("persisting exam", "source", docs[i].SourcePath, "error", err)
			continue
		}
		persisted++
		if len(res.Flags) > 0 {
			flagged++
		}
	}
	slog.Info("run complete", "persisted", persisted, "flagged", flagged)

	if *exportPath != "" {
		if err := export.Questions(ctx, st, *exportPath); err != nil {
			slog.Error("exporting workbook", "path", *exportPath, "error", err)
			os.Exit(1)
		}
		slog.Info("workbook written", "path", *exportPath)
	}
}

// loadDocuments walks dir and extracts page text from every supported
// file. Unreadable files are logged and skipped.
func loadDocuments(ctx context.Context, dir string) []exambank.ExamDocument {
	registry := ingest.NewRegistry()
	var docs []exambank.ExamDocument

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		pages, err := registry.ReadPages(ctx, path)
		if err != nil {
			slog.Warn("skipping file", "path", path, "error", err)
			return nil
		}
		if len(pages) == 0 {
			slog.Warn("no extractable text", "path", path)
			return nil
		}
		docs = append(docs, exambank.ExamDocument{SourcePath: path, Pages: pages})
		return nil
	})
	if err != nil {
		slog.Error("walking input directory", "dir", dir, "error", err)
	}
	return docs
}
