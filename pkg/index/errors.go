package index

import "errors"

// Sentinel errors surfaced to the transport layer so it can distinguish
// "render a not-found page" from an internal failure.
var (
	// ErrNotFound indicates the requested directory does not exist.
	ErrNotFound = errors.New("directory not found")

	// ErrNotDirectory indicates the requested path exists but is not a
	// directory and cannot be listed.
	ErrNotDirectory = errors.New("not a directory")

	// ErrForbidden indicates the requested directory exists but cannot be
	// read.
	ErrForbidden = errors.New("directory not readable")
)
