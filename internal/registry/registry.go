// Package registry manages format-specific decoders for tabular files.
package registry

import (
	"maps"
	"slices"

	"github.com/simonhull/tabular/internal/source"
	"github.com/simonhull/tabular/internal/types"
)

// Decoder is the interface all format decoders implement.
//
// Both methods read the source from its start; neither depends on the other
// having been called.
type Decoder interface {
	// Headers returns the ordered, deduplicated column names.
	Headers(src *source.Source, enc types.Encoding, opts *types.DecodeOptions) ([]string, error)

	// Rows returns a fresh row source positioned at the first record.
	Rows(src *source.Source, enc types.Encoding, opts *types.DecodeOptions) (types.RowSource, error)
}

// decoders maps formats to their decoders.
var decoders = make(map[types.Format]Decoder)

// Register registers a decoder for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, decoder Decoder) {
	decoders[format] = decoder
}

// Get returns the decoder for a given format.
// Returns nil if no decoder is registered for the format.
func Get(format types.Format) Decoder {
	return decoders[format]
}

// Formats returns the registered formats in ascending order.
func Formats() []types.Format {
	return slices.Sorted(maps.Keys(decoders))
}
