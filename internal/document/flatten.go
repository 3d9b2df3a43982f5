package document

import (
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/simonhull/tabular/internal/types"
)

// member is one key/value pair of a JSON object.
type member struct {
	value gjson.Result
	key   string
	raw   string // key as written, quotes and escapes included
}

// members returns the pairs of obj in the requested order. A repeated key
// keeps the position of its first occurrence and the value of its last.
func members(obj gjson.Result, order types.KeyOrder) []member {
	var ms []member
	index := make(map[string]int)

	obj.ForEach(func(k, v gjson.Result) bool {
		if i, ok := index[k.Str]; ok {
			ms[i].value = v
			return true
		}
		index[k.Str] = len(ms)
		ms = append(ms, member{key: k.Str, raw: k.Raw, value: v})
		return true
	})

	if order == types.KeyOrderSorted {
		slices.SortFunc(ms, func(a, b member) int {
			return strings.Compare(a.key, b.key)
		})
	}
	return ms
}

// headerSet is an insertion-ordered set of column names.
type headerSet struct {
	seen  map[string]struct{}
	names []string
}

func newHeaderSet() *headerSet {
	return &headerSet{
		seen:  make(map[string]struct{}),
		names: []string{},
	}
}

func (h *headerSet) add(name string) {
	if _, ok := h.seen[name]; ok {
		return
	}
	h.seen[name] = struct{}{}
	h.names = append(h.names, name)
}

// flattenHeaders records the leaf paths of obj under prefix. Objects recurse;
// every other value, arrays included, is a leaf.
func flattenHeaders(h *headerSet, obj gjson.Result, prefix string, opts *types.DecodeOptions) {
	for _, m := range members(obj, opts.KeyOrder) {
		name := m.key
		if prefix != "" {
			name = prefix + opts.PathSeparator + m.key
		}

		if m.value.IsObject() {
			flattenHeaders(h, m.value, name, opts)
			continue
		}
		h.add(name)
	}
}

// flattenRecord appends the rendered fields of v to dst depth-first.
// An object contributes one field per leaf; any other value contributes one.
func flattenRecord(dst types.Record, v gjson.Result, opts *types.DecodeOptions) types.Record {
	if v.IsObject() {
		for _, m := range members(v, opts.KeyOrder) {
			dst = flattenRecord(dst, m.value, opts)
		}
		return dst
	}
	return append(dst, render(v, opts))
}

// render converts a non-object value to its string form.
func render(v gjson.Result, opts *types.DecodeOptions) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return renderNumber(v)
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	case gjson.Null:
		return opts.NullValue
	default:
		// arrays
		if opts.KeyOrder == types.KeyOrderDocument {
			return string(pretty.Ugly([]byte(v.Raw)))
		}
		var b strings.Builder
		writeSorted(&b, v)
		return b.String()
	}
}

// writeSorted writes v as compact JSON with the members of every nested
// object in sorted key order.
func writeSorted(b *strings.Builder, v gjson.Result) {
	switch {
	case v.IsArray():
		b.WriteByte('[')
		for i, elem := range v.Array() {
			if i > 0 {
				b.WriteByte(',')
			}
			writeSorted(b, elem)
		}
		b.WriteByte(']')
	case v.IsObject():
		b.WriteByte('{')
		for i, m := range members(v, types.KeyOrderSorted) {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(m.raw)
			b.WriteByte(':')
			writeSorted(b, m.value)
		}
		b.WriteByte('}')
	default:
		b.Write(pretty.Ugly([]byte(v.Raw)))
	}
}

// renderNumber keeps integer digits as written. Numbers with a fraction or
// exponent print in their shortest decimal form, so 1.50 and 15e-1 both
// read 1.5.
func renderNumber(v gjson.Result) string {
	if !strings.ContainsAny(v.Raw, ".eE") {
		return v.Raw
	}
	return strconv.FormatFloat(v.Num, 'f', -1, 64)
}
