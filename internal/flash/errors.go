package flash

import (
	"fmt"
)

// FileOpenError represents a firmware image path that could not be
// opened. It always precedes any flash write.
type FileOpenError struct {
	// Path is the image path as given on the command line
	Path string
	// Underlying I/O error
	Err error
}

func (e *FileOpenError) Error() string {
	return fmt.Sprintf("failed to open image file %q: %v", e.Path, e.Err)
}

func (e *FileOpenError) Unwrap() error {
	return e.Err
}

// ImageParseError represents a malformed firmware image. Load errors
// abort the download before any flash write occurs.
type ImageParseError struct {
	// Format is the declared image format
	Format Format
	// Path is the image path, if known
	Path string
	// Underlying parse error
	Err error
}

func (e *ImageParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to load %s image %q: %v", e.Format, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to load %s image: %v", e.Format, e.Err)
}

func (e *ImageParseError) Unwrap() error {
	return e.Err
}

// ExecutionError represents a failure during the flashing sequence
// itself. The erase/program/verify work is delegated to the
// probe-access layer; no partial-flash recovery is attempted here.
type ExecutionError struct {
	// Phase is the flashing phase that failed
	Phase Phase
	// Underlying error
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("flashing failed during %s: %v", e.Phase, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
