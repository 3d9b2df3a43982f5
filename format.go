package tabular

import (
	"github.com/simonhull/tabular/internal/types"
)

// Format is an alias to types.Format.
// Re-exporting from internal/types to maintain public API.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown   = types.FormatUnknown
	FormatDelimited = types.FormatDelimited
	FormatJSON      = types.FormatJSON
	FormatParquet   = types.FormatParquet
)

// Encoding is an alias to types.Encoding.
type Encoding = types.Encoding

// Record is an alias to types.Record.
type Record = types.Record

// KeyOrder is an alias to types.KeyOrder.
type KeyOrder = types.KeyOrder

// Re-export key order constants.
const (
	KeyOrderSorted   = types.KeyOrderSorted
	KeyOrderDocument = types.KeyOrderDocument
)

// DetectEncoding is a wrapper around types.DetectEncoding.
//
// It classifies path by its extension alone and performs no I/O. A delimiter
// of 0 means none was given, which makes .csv and .tsv unsupported.
func DetectEncoding(path string, delimiter rune) (Encoding, error) {
	return types.DetectEncoding(path, delimiter)
}
