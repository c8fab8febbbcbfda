package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

func TestRegistryRouting(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Get("pdf"); err != nil {
		t.Errorf("Get(pdf): %v", err)
	}
	if _, err := r.Get("TXT"); err != nil {
		t.Errorf("Get should be case-insensitive: %v", err)
	}
	if _, err := r.Get("docx"); err == nil {
		t.Error("expected error for unregistered format")
	}
}

func TestRegistryReadPagesUnsupported(t *testing.T) {
	r := NewRegistry()
	if _, err := r.ReadPages(context.Background(), "exam.docx"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

type fakeReader struct{ pages []string }

func (f *fakeReader) SupportedFormats() []string { return []string{"fake"} }
func (f *fakeReader) Read(ctx context.Context, path string) ([]string, error) {
	return f.pages, nil
}

func TestRegistryCustomReader(t *testing.T) {
	r := NewRegistry()
	r.Register("fake", &fakeReader{pages: []string{"page one"}})

	pages, err := r.ReadPages(context.Background(), "exam.fake")
	if err != nil {
		t.Fatalf("ReadPages: %v", err)
	}
	if len(pages) != 1 || pages[0] != "page one" {
		t.Errorf("pages = %v", pages)
	}
}

// ---------------------------------------------------------------------------
// Text reader
// ---------------------------------------------------------------------------

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestTextReaderSplitsOnFormFeed(t *testing.T) {
	path := writeTempFile(t, "exam.txt",
		"COURSE: CS101\nCover page text.\f1. First question here.\f2. Second question here.")

	pages, err := (&TextReader{}).Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	if pages[1] != "1. First question here." {
		t.Errorf("pages[1] = %q", pages[1])
	}
}

func TestTextReaderSinglePage(t *testing.T) {
	path := writeTempFile(t, "exam.txt", "1. Only one page of text here.")

	pages, err := (&TextReader{}).Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
}

func TestTextReaderEmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.txt", "  \n ")

	pages, err := (&TextReader{}).Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("got %d pages, want 0", len(pages))
	}
}

func TestTextReaderMissingFile(t *testing.T) {
	if _, err := (&TextReader{}).Read(context.Background(), "/nonexistent/exam.txt"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// ---------------------------------------------------------------------------
// PDF reader
// ---------------------------------------------------------------------------

func TestPDFReaderMissingFile(t *testing.T) {
	if _, err := (&PDFReader{}).Read(context.Background(), "/nonexistent/exam.pdf"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
