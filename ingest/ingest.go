// Package ingest extracts page text from exam files. Each reader
// handles one family of formats; the registry routes by extension.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Reader extracts per-page text from one file format family.
type Reader interface {
	SupportedFormats() []string
	Read(ctx context.Context, path string) ([]string, error)
}

// Registry routes files to readers by lowercase extension.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry returns a registry with the built-in readers registered.
func NewRegistry() *Registry {
	r := &Registry{readers: make(map[string]Reader)}
	for _, rd := range []Reader{&PDFReader{}, &TextReader{}} {
		for _, f := range rd.SupportedFormats() {
			r.readers[f] = rd
		}
	}
	return r
}

// Register adds or replaces the reader for a format.
func (r *Registry) Register(format string, rd Reader) {
	r.readers[strings.ToLower(format)] = rd
}

// Get returns the reader for a format.
func (r *Registry) Get(format string) (Reader, error) {
	rd, ok := r.readers[strings.ToLower(format)]
	if !ok {
		return nil, fmt.Errorf("no reader for format: %s", format)
	}
	return rd, nil
}

// ReadPages routes path to the right reader by extension and returns
// the extracted pages.
func (r *Registry) ReadPages(ctx context.Context, path string) ([]string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	rd, err := r.Get(ext)
	if err != nil {
		return nil, err
	}
	return rd.Read(ctx, path)
}
