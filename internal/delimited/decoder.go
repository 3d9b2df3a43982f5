// Package delimited decodes delimited text (CSV, TSV) into headers and records.
package delimited

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/simonhull/tabular/internal/registry"
	"github.com/simonhull/tabular/internal/source"
	"github.com/simonhull/tabular/internal/types"
)

// decoder implements registry.Decoder for delimited text.
type decoder struct{}

func init() {
	registry.Register(types.FormatDelimited, &decoder{})
}

// newReader returns a csv.Reader over a fresh section of src. A leading
// UTF-8 BOM is dropped and invalid UTF-8 is replaced with U+FFFD.
func newReader(src *source.Source, delimiter rune) *csv.Reader {
	r := transform.NewReader(src.Section(), unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1 // ragged rows are allowed
	return cr
}

// Headers returns the first record verbatim. An empty file has no headers.
func (d *decoder) Headers(src *source.Source, enc types.Encoding, opts *types.DecodeOptions) ([]string, error) {
	cr := newReader(src, enc.Delimiter)

	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []string{}, nil
	}
	if err != nil {
		return nil, wrapReadError(src.Path(), err)
	}

	opts.Logger.Debug("read delimited headers",
		slog.String("path", src.Path()),
		slog.Int("columns", len(headers)),
	)
	return headers, nil
}

// Rows returns a source yielding every record after the header row.
func (d *decoder) Rows(src *source.Source, enc types.Encoding, opts *types.DecodeOptions) (types.RowSource, error) {
	r := &rows{
		cr:     newReader(src, enc.Delimiter),
		path:   src.Path(),
		strict: opts.Strict,
		logger: opts.Logger,
	}

	// Consume the header row, even a malformed one.
	_, err := r.cr.Read()
	var pe *csv.ParseError
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		r.done = true
	case errors.As(err, &pe) && !r.strict:
		r.skip(pe)
	default:
		return nil, wrapReadError(r.path, err)
	}
	return r, nil
}

// rows streams records from a csv.Reader one at a time.
type rows struct {
	cr       *csv.Reader
	logger   *slog.Logger
	path     string
	warnings []types.Warning
	strict   bool
	done     bool
}

func (r *rows) Next() (types.Record, error) {
	if r.done {
		return nil, io.EOF
	}

	record, err := r.read()
	if err != nil {
		r.done = true
		return nil, err
	}
	return record, nil
}

// read returns the next well-formed record. Malformed rows are skipped with
// a warning unless strict is set.
func (r *rows) read() (types.Record, error) {
	for {
		record, err := r.cr.Read()
		if err == nil {
			return record, nil
		}

		var pe *csv.ParseError
		if !errors.As(err, &pe) || r.strict {
			return nil, wrapReadError(r.path, err)
		}
		r.skip(pe)
	}
}

func (r *rows) skip(pe *csv.ParseError) {
	r.warnings = append(r.warnings, types.Warning{
		Stage:   "records",
		Message: "skipped malformed row: " + pe.Err.Error(),
		Line:    pe.StartLine,
	})
	r.logger.Debug("skipped malformed row",
		slog.String("path", r.path),
		slog.Int("line", pe.StartLine),
		slog.Any("error", pe.Err),
	)
}

func (r *rows) Warnings() []types.Warning {
	return r.warnings
}

func (r *rows) Close() error {
	r.done = true
	return nil
}

// wrapReadError passes io.EOF and *types.IOError through and reports CSV
// syntax errors as *types.CorruptedFileError.
func wrapReadError(path string, err error) error {
	if errors.Is(err, io.EOF) {
		return io.EOF
	}

	var ioErr *types.IOError
	if errors.As(err, &ioErr) {
		return ioErr
	}

	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &types.CorruptedFileError{
			Path:   path,
			Reason: pe.Err.Error(),
			Line:   pe.StartLine,
			Err:    err,
		}
	}

	return &types.CorruptedFileError{Path: path, Reason: err.Error(), Err: err}
}
