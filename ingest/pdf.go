package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFReader extracts text from native (non-scanned) PDFs, one string
// per page. Pages that fail text extraction are skipped rather than
// failing the document; scanned pages simply come back empty.
type PDFReader struct{}

func (p *PDFReader) SupportedFormats() []string { return []string{"pdf"} }

func (p *PDFReader) Read(ctx context.Context, path string) ([]string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	pages := make([]string, 0, totalPages)

	for i := 1; i <= totalPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
