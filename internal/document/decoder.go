// Package document decodes JSON documents holding an array of objects.
//
// Nested objects are flattened into dotted header paths and inline record
// fields. Arrays are never expanded: they are re-serialized as compact JSON
// into the single field of their containing key.
package document

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/tidwall/gjson"

	"github.com/simonhull/tabular/internal/registry"
	"github.com/simonhull/tabular/internal/source"
	"github.com/simonhull/tabular/internal/types"
)

// decoder implements registry.Decoder for JSON documents.
type decoder struct{}

func init() {
	registry.Register(types.FormatJSON, &decoder{})
}

// Headers returns the flattened leaf paths of every object element in
// first-seen order. A document whose top level is not an array has no
// headers, or fails with *types.InvalidStructureError in strict mode.
func (d *decoder) Headers(src *source.Source, _ types.Encoding, opts *types.DecodeOptions) ([]string, error) {
	elems, err := parse(src, opts)
	if err != nil {
		return nil, err
	}

	h := newHeaderSet()
	for _, elem := range elems {
		if elem.IsObject() {
			flattenHeaders(h, elem, "", opts)
		}
	}

	opts.Logger.Debug("derived JSON headers",
		slog.String("path", src.Path()),
		slog.Int("elements", len(elems)),
		slog.Int("columns", len(h.names)),
	)
	return h.names, nil
}

// Rows returns a source flattening one array element per record.
func (d *decoder) Rows(src *source.Source, _ types.Encoding, opts *types.DecodeOptions) (types.RowSource, error) {
	elems, err := parse(src, opts)
	if err != nil {
		return nil, err
	}
	return &rows{elems: elems, opts: opts}, nil
}

// parse reads and validates the whole document and returns its top-level
// array elements.
func parse(src *source.Source, opts *types.DecodeOptions) ([]gjson.Result, error) {
	data, err := src.ReadAll()
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(data) {
		return nil, &types.CorruptedFileError{
			Path:   src.Path(),
			Reason: "invalid JSON syntax",
		}
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		if opts.Strict {
			return nil, &types.InvalidStructureError{
				Path:   src.Path(),
				Reason: fmt.Sprintf("top-level value is %s, want array", typeName(doc)),
			}
		}
		opts.Logger.Debug("top-level JSON value is not an array",
			slog.String("path", src.Path()),
			slog.String("type", typeName(doc)),
		)
		return nil, nil
	}

	return doc.Array(), nil
}

// rows flattens the parsed elements lazily, one per call to Next.
type rows struct {
	opts  *types.DecodeOptions
	elems []gjson.Result
	pos   int
}

func (r *rows) Next() (types.Record, error) {
	if r.pos >= len(r.elems) {
		return nil, io.EOF
	}

	elem := r.elems[r.pos]
	r.pos++
	return flattenRecord(make(types.Record, 0, 8), elem, r.opts), nil
}

func (r *rows) Warnings() []types.Warning { return nil }

func (r *rows) Close() error {
	r.elems = nil
	r.pos = 0
	return nil
}

func typeName(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Null:
		return "null"
	}
	if v.IsObject() {
		return "object"
	}
	return "array"
}
