// Package columnar decodes Parquet files into headers and records.
//
// Headers are the schema's leaf column paths. Each row renders one field per
// leaf column; a repeated leaf renders its values as a bracketed list.
package columnar

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"

	"github.com/simonhull/tabular/internal/registry"
	"github.com/simonhull/tabular/internal/source"
	"github.com/simonhull/tabular/internal/types"
)

// batchSize is the number of rows fetched per ReadRows call.
const batchSize = 128

// decoder implements registry.Decoder for Parquet files.
type decoder struct{}

func init() {
	registry.Register(types.FormatParquet, &decoder{})
}

func open(src *source.Source) (*parquet.File, error) {
	f, err := parquet.OpenFile(src.ReaderAt(), src.Size())
	if err != nil {
		return nil, decodeError(src.Path(), err)
	}
	return f, nil
}

// Headers returns one name per leaf column, joining nested paths with the
// configured separator.
func (d *decoder) Headers(src *source.Source, _ types.Encoding, opts *types.DecodeOptions) ([]string, error) {
	f, err := open(src)
	if err != nil {
		return nil, err
	}

	paths := f.Schema().Columns()
	headers := make([]string, 0, len(paths))
	for _, path := range paths {
		headers = append(headers, strings.Join(path, opts.PathSeparator))
	}

	opts.Logger.Debug("read parquet schema",
		slog.String("path", src.Path()),
		slog.Int("columns", len(headers)),
		slog.Int("row_groups", len(f.RowGroups())),
		slog.Int64("rows", f.NumRows()),
	)
	return headers, nil
}

// Rows returns a source over the first row group, or every row group when
// AllRowGroups is set.
func (d *decoder) Rows(src *source.Source, _ types.Encoding, opts *types.DecodeOptions) (types.RowSource, error) {
	f, err := open(src)
	if err != nil {
		return nil, err
	}

	groups := f.RowGroups()
	if !opts.AllRowGroups && len(groups) > 1 {
		opts.Logger.Debug("reading first row group only",
			slog.String("path", src.Path()),
			slog.Int("row_groups", len(groups)),
		)
		groups = groups[:1]
	}

	schema := f.Schema()
	paths := schema.Columns()
	leaves := make([]leafColumn, len(paths))
	for i, path := range paths {
		if leaf, ok := schema.Lookup(path...); ok {
			leaves[i] = leafColumn{
				logical:  leaf.Node.Type().LogicalType(),
				repeated: leaf.MaxRepetitionLevel > 0,
			}
		}
	}

	return &rows{
		path:     src.Path(),
		groups:   groups,
		leaves:   leaves,
		null:     opts.NullValue,
		buf:      make([]parquet.Row, batchSize),
	}, nil
}

// leafColumn is what rendering needs to know about one leaf column.
type leafColumn struct {
	logical  *format.LogicalType
	repeated bool
}

// rows walks the selected row groups in order, rendering one batch at a time.
type rows struct {
	current  parquet.Rows
	path     string
	null     string
	groups   []parquet.RowGroup
	leaves   []leafColumn
	buf      []parquet.Row
	pending  []types.Record
	done     bool
}

func (r *rows) Next() (types.Record, error) {
	for len(r.pending) == 0 {
		if r.done {
			return nil, io.EOF
		}
		if err := r.fill(); err != nil {
			r.fail()
			return nil, err
		}
	}

	rec := r.pending[0]
	r.pending = r.pending[1:]
	return rec, nil
}

// fill renders the next batch into pending, advancing to the next row group
// when the current one is drained.
func (r *rows) fill() error {
	if r.current == nil {
		if len(r.groups) == 0 {
			r.done = true
			return nil
		}
		r.current = r.groups[0].Rows()
		r.groups = r.groups[1:]
	}

	n, err := r.current.ReadRows(r.buf)
	for _, row := range r.buf[:n] {
		if rec := r.render(row); len(rec) > 0 {
			r.pending = append(r.pending, rec)
		}
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		closeErr := r.current.Close()
		r.current = nil
		if closeErr != nil {
			return decodeError(r.path, closeErr)
		}
		return nil
	default:
		return decodeError(r.path, err)
	}
}

// render converts one row into a record with a field per leaf column.
func (r *rows) render(row parquet.Row) types.Record {
	columns := make([][]parquet.Value, len(r.leaves))
	for _, v := range row {
		if c := v.Column(); c >= 0 && c < len(columns) {
			columns[c] = append(columns[c], v)
		}
	}

	rec := make(types.Record, 0, len(columns))
	for i, values := range columns {
		leaf := r.leaves[i]
		if leaf.repeated {
			rec = append(rec, r.renderList(values, leaf.logical))
			continue
		}
		if len(values) == 0 {
			rec = append(rec, r.null)
			continue
		}
		rec = append(rec, renderValue(values[0], leaf.logical, r.null))
	}
	return rec
}

func (r *rows) renderList(values []parquet.Value, logical *format.LogicalType) string {
	var b strings.Builder
	b.WriteByte('[')
	n := 0
	for _, v := range values {
		// An empty or null list is encoded as a single null value.
		if v.IsNull() {
			continue
		}
		if n > 0 {
			b.WriteString(", ")
		}
		b.WriteString(renderValue(v, logical, r.null))
		n++
	}
	b.WriteByte(']')
	return b.String()
}

func (r *rows) fail() {
	if r.current != nil {
		_ = r.current.Close()
		r.current = nil
	}
	r.groups = nil
	r.pending = nil
	r.done = true
}

func (r *rows) Warnings() []types.Warning { return nil }

func (r *rows) Close() error {
	var err error
	if r.current != nil {
		err = r.current.Close()
	}
	r.current = nil
	r.groups = nil
	r.pending = nil
	r.done = true
	if err != nil {
		return decodeError(r.path, err)
	}
	return nil
}

func decodeError(path string, err error) error {
	var ioErr *types.IOError
	if errors.As(err, &ioErr) {
		return ioErr
	}
	return &types.DecodeError{Path: path, Format: types.FormatParquet, Err: err}
}
