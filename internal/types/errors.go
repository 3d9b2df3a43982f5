package types

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// MissingExtensionError is returned when a path has no file extension.
type MissingExtensionError struct {
	Path string
}

func (e *MissingExtensionError) Error() string {
	return fmt.Sprintf("%s: missing file extension", e.Path)
}

// Is reports whether target is a MissingExtensionError.
func (e *MissingExtensionError) Is(target error) bool {
	_, ok := target.(*MissingExtensionError)
	return ok
}

// UnsupportedFormatError is returned when the extension is not recognized,
// or a delimited file was opened without a usable delimiter.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// Is reports whether target is an UnsupportedFormatError.
func (e *UnsupportedFormatError) Is(target error) bool {
	_, ok := target.(*UnsupportedFormatError)
	return ok
}

// InvalidStructureError is returned in strict mode when a JSON document
// is well-formed but not an array at the top level.
type InvalidStructureError struct {
	Path   string
	Reason string
}

func (e *InvalidStructureError) Error() string {
	return fmt.Sprintf("%s: invalid structure: %s", e.Path, e.Reason)
}

// Is reports whether target is an InvalidStructureError.
func (e *InvalidStructureError) Is(target error) bool {
	_, ok := target.(*InvalidStructureError)
	return ok
}

// CorruptedFileError is returned when file content cannot be parsed:
// malformed JSON syntax, or a malformed delimited row in strict mode.
type CorruptedFileError struct {
	Err    error
	Path   string
	Reason string
	Line   int // 0 if not applicable
}

func (e *CorruptedFileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: corrupted file at line %d: %s", e.Path, e.Line, e.Reason)
	}
	return fmt.Sprintf("%s: corrupted file: %s", e.Path, e.Reason)
}

func (e *CorruptedFileError) Unwrap() error { return e.Err }

// Is reports whether target is a CorruptedFileError.
func (e *CorruptedFileError) Is(target error) bool {
	_, ok := target.(*CorruptedFileError)
	return ok
}

// DecodeError is returned when a columnar file cannot be decoded.
type DecodeError struct {
	Err    error
	Path   string
	Format Format
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode %s: %v", e.Path, e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is a DecodeError.
func (e *DecodeError) Is(target error) bool {
	_, ok := target.(*DecodeError)
	return ok
}

// IOError wraps an operating system failure while opening or reading a file.
//
// Two IOErrors are equal under errors.Is when their wrapped errors fall into
// the same class (not-exist, permission, exist, closed, unexpected EOF, or
// other). A target with a nil Err matches any IOError.
type IOError struct {
	Err  error
	Path string
	Op   string // "open", "stat", "read", "close"
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is reports whether target is an IOError of the same class.
func (e *IOError) Is(target error) bool {
	t, ok := target.(*IOError)
	if !ok {
		return false
	}
	if t.Err == nil {
		return true
	}
	return ioClass(e.Err) == ioClass(t.Err)
}

var ioClasses = []error{
	fs.ErrNotExist,
	fs.ErrPermission,
	fs.ErrExist,
	fs.ErrClosed,
	io.ErrUnexpectedEOF,
}

// ioClass returns the sentinel err belongs to, or nil for "other".
func ioClass(err error) error {
	for _, class := range ioClasses {
		if errors.Is(err, class) {
			return class
		}
	}
	return nil
}

// Warning represents a non-fatal issue encountered while reading records.
type Warning struct {
	// Stage where the warning occurred ("headers", "records")
	Stage string

	// Warning message
	Message string

	// Source line of the issue (0 if not applicable)
	Line int
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s (at line %d): %s", w.Stage, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
