package ingest

import "fmt"

// FileFailure records why one transcript file was not stored.
type FileFailure struct {
	Path string
	Err  error
}

// Result contains the outcome of a batch ingest.
type Result struct {
	// Files is the number of transcript files considered.
	Files int

	// Stored holds the conversation IDs written to storage.
	Stored []string

	// Failures holds the files that were skipped, with reasons.
	Failures []FileFailure
}

// Summary returns a human-readable summary of the ingest result.
func (r *Result) Summary() string {
	return fmt.Sprintf("Ingest complete: %d conversations stored, %d files skipped (of %d transcript files)",
		len(r.Stored), len(r.Failures), r.Files)
}
