package tabular

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/tabular/internal/registry"
	"github.com/simonhull/tabular/internal/source"
	"github.com/simonhull/tabular/internal/types"
)

// File represents an opened tabular file with a detected encoding.
//
// Opening a file detects its encoding and acquires the file handle; nothing
// is parsed until Headers or Records is called. Each of those calls reads
// the file from the start through its own reader, so they may be called in
// any order, any number of times, and from multiple goroutines.
//
// Always call Close() when done to release file resources:
//
//	file, err := tabular.Open("people.csv", tabular.WithDelimiter(','))
//	if err != nil {
//		return err
//	}
//	defer file.Close()
type File struct {
	// Path to the file
	Path string

	// Detected encoding (format and, for delimited text, the delimiter)
	Encoding Encoding

	// File size in bytes
	Size int64

	// Internal state (unexported)
	handle  *os.File
	src     *source.Source
	decoder registry.Decoder
	options *types.DecodeOptions
	closed  atomic.Bool
}

// Open detects the encoding of path and opens it for reading.
//
// Supported encodings: CSV and TSV (with WithDelimiter), JSON, Parquet.
//
// Detection is by file extension. Open fails with *MissingExtensionError
// when path has no extension, *UnsupportedFormatError when the extension
// is not recognized or a delimited file has no delimiter, and *IOError
// when the file cannot be opened.
//
// Example:
//
//	file, err := tabular.Open("people.json")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
//
//	headers, err := file.Headers()
func Open(path string, opts ...Option) (*File, error) {
	// Apply options
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	logger := options.decode.Logger

	enc, err := types.DetectEncoding(path, options.delimiter)
	if err != nil {
		return nil, err
	}

	decoder := registry.Get(enc.Format)
	if decoder == nil {
		return nil, &UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("no decoder available for format %s", enc.Format),
		}
	}

	src, handle, err := source.Open(path)
	if err != nil {
		return nil, err
	}

	logger.Debug("opened file",
		slog.String("path", path),
		slog.String("encoding", enc.String()),
		slog.Int64("size", src.Size()),
	)

	return &File{
		Path:     path,
		Encoding: enc,
		Size:     src.Size(),
		handle:   handle,
		src:      src,
		decoder:  decoder,
		options:  options.decode,
	}, nil
}

// Headers returns the ordered, deduplicated column names of the file.
//
// For delimited text these are the fields of the first row. For JSON they
// are the flattened leaf paths of every object, in first-seen order. For
// Parquet they are the schema's leaf columns.
func (f *File) Headers() ([]string, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	return f.decoder.Headers(f.src, f.Encoding, f.options)
}

// Records returns an iterator over the data rows of the file.
//
// Every call returns a new iterator starting at the first record. For
// delimited text the header row is not included.
//
// Example:
//
//	it, err := file.Records()
//	if err != nil {
//		return err
//	}
//	defer it.Close()
//	for rec := range it.All() {
//		fmt.Println(strings.Join(rec, " | "))
//	}
//	if err := it.Err(); err != nil {
//		return err
//	}
func (f *File) Records() (*RowIterator, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}

	rows, err := f.decoder.Rows(f.src, f.Encoding, f.options)
	if err != nil {
		return nil, err
	}
	return newRowIterator(f.Encoding.Format, rows), nil
}

// Close releases resources held by the file.
//
// After Close is called, Headers and Records return an *IOError.
// Calling Close more than once is a no-op.
func (f *File) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	if f.handle == nil {
		return nil
	}
	if err := f.handle.Close(); err != nil {
		return &IOError{Path: f.Path, Op: "close", Err: err}
	}
	return nil
}

func (f *File) checkOpen() error {
	if f.closed.Load() {
		return &IOError{Path: f.Path, Op: "read", Err: fs.ErrClosed}
	}
	return nil
}

// ReadAll opens path and returns its headers and every record.
//
// It is a convenience for small files:
//
//	headers, records, err := tabular.ReadAll("people.json")
func ReadAll(path string, opts ...Option) ([]string, []Record, error) {
	file, err := Open(path, opts...)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	headers, err := file.Headers()
	if err != nil {
		return nil, nil, err
	}

	it, err := file.Records()
	if err != nil {
		return nil, nil, err
	}
	defer it.Close()

	records, err := it.Collect()
	if err != nil {
		return nil, nil, err
	}
	return headers, records, nil
}

// OpenContext opens a file with context support for cancellation.
//
// This is a thin wrapper around Open() that checks context before starting.
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//
//	file, err := tabular.OpenContext(ctx, "data.parquet")
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path, opts...)
}

// OpenMany opens multiple files concurrently.
//
// Files are opened in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths. The same
// options apply to every file.
//
// If any file fails to open, all successfully opened files are closed
// and an error is returned.
//
// Example:
//
//	files, err := tabular.OpenMany(ctx, paths, tabular.WithDelimiter(','))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() {
//		for _, f := range files {
//			f.Close()
//		}
//	}()
func OpenMany(ctx context.Context, paths []string, opts ...Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			// Check for cancellation
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			file, err := Open(path, opts...)
			if err != nil {
				return fmt.Errorf("paths[%d]: %w", i, err)
			}

			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Close any successfully opened files
		for _, file := range results {
			if file != nil {
				file.Close()
			}
		}
		return nil, err
	}

	return results, nil
}
