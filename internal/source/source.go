// Package source provides a restartable, bounded view over an opened file.
package source

import (
	"fmt"
	"io"
	"os"

	"github.com/simonhull/tabular/internal/types"
)

// Source wraps io.ReaderAt with the file size and path used in error messages.
//
// Every call to Section starts a fresh reader at byte 0, so consumers never
// share a read position.
type Source struct {
	r    io.ReaderAt
	path string
	size int64
}

// New creates a new Source.
func New(r io.ReaderAt, size int64, path string) *Source {
	return &Source{
		r:    r,
		size: size,
		path: path,
	}
}

// Open opens path and returns a Source backed by the file handle.
// The caller owns the returned *os.File and must close it.
func Open(path string) (*Source, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &types.IOError{Path: path, Op: "open", Err: err}
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, &types.IOError{Path: path, Op: "stat", Err: err}
	}

	return New(f, stat.Size(), path), f, nil
}

// Path returns the file path associated with this source.
func (s *Source) Path() string {
	return s.path
}

// Size returns the size of the source in bytes.
func (s *Source) Size() int64 {
	return s.size
}

// ReaderAt returns the underlying random-access reader.
func (s *Source) ReaderAt() io.ReaderAt {
	return s.r
}

// Section returns a sequential reader positioned at the start of the source.
func (s *Source) Section() io.Reader {
	return &errReader{r: io.NewSectionReader(s.r, 0, s.size), path: s.path}
}

// ReadAll reads the entire source into memory.
func (s *Source) ReadAll() ([]byte, error) {
	buf := make([]byte, s.size)
	n, err := s.r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return nil, &types.IOError{Path: s.path, Op: "read", Err: err}
	}
	if int64(n) < s.size {
		return nil, &types.IOError{
			Path: s.path,
			Op:   "read",
			Err:  fmt.Errorf("short read: got %d bytes, expected %d: %w", n, s.size, io.ErrUnexpectedEOF),
		}
	}
	return buf, nil
}

// errReader converts read failures into *types.IOError so they keep their
// kind after passing through a parser.
type errReader struct {
	r    io.Reader
	path string
}

func (e *errReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && err != io.EOF {
		return n, &types.IOError{Path: e.path, Op: "read", Err: err}
	}
	return n, err
}
