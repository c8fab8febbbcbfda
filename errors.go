package exambank

import "errors"

// Sentinel errors for common failure modes. Parse-stage problems inside
// one exam never surface as errors — the pipeline degrades and flags the
// exam instead — so these cover ingestion, configuration, and lookups.
var (
	// ErrNoText indicates a document yielded no extractable text at all.
	ErrNoText = errors.New("exambank: no extractable text")

	// ErrUnsupportedFormat indicates a file extension the ingester does
	// not handle.
	ErrUnsupportedFormat = errors.New("exambank: unsupported file format")

	// ErrExamNotFound indicates a lookup for an exam that is not stored.
	ErrExamNotFound = errors.New("exambank: exam not found")

	// ErrInvalidConfig indicates configuration that failed validation.
	ErrInvalidConfig = errors.New("exambank: invalid configuration")
)
