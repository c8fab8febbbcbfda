package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// TextReader handles plain text (.txt) exports. Form feeds mark page
// boundaries; a file without them is a single page.
type TextReader struct{}

func (p *TextReader) SupportedFormats() []string { return []string{"txt"} }

func (p *TextReader) Read(ctx context.Context, path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading text file: %w", err)
	}

	content := string(data)
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	var pages []string
	for _, page := range strings.Split(content, "\f") {
		page = strings.TrimSpace(page)
		if page != "" {
			pages = append(pages, page)
		}
	}
	return pages, nil
}
