package tabular

import (
	"log/slog"

	"github.com/simonhull/tabular/internal/types"
)

// Option configures behavior when opening tabular files.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	file, err := tabular.Open("people.tsv",
//	    tabular.WithDelimiter('\t'),
//	    tabular.WithStrictParsing(),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	delimiter rune                 // Field separator for .csv/.tsv (0 = not given)
	decode    *types.DecodeOptions // Passed through to the format decoder
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		delimiter: 0,
		decode:    types.DefaultDecodeOptions(),
	}
}

// WithDelimiter sets the field separator for delimited text.
//
// A delimiter is required for .csv and .tsv files; without one, Open
// returns an *UnsupportedFormatError. It is ignored for JSON and Parquet.
//
// Example:
//
//	file, err := tabular.Open("people.csv", tabular.WithDelimiter(','))
func WithDelimiter(r rune) Option {
	return func(o *openOptions) {
		o.delimiter = r
	}
}

// WithStrictParsing makes shape and row problems fatal.
//
// By default, tabular is permissive: a malformed CSV row is skipped with a
// Warning, and a JSON document whose top level is not an array yields no
// headers and no records.
//
// With strict parsing enabled, a malformed CSV row ends iteration with a
// *CorruptedFileError and a non-array JSON document fails with an
// *InvalidStructureError.
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.decode.Strict = true
	}
}

// WithKeyOrder selects the order in which JSON object members are visited.
//
// The default, KeyOrderSorted, visits keys lexicographically so records of
// objects written with different key orders line up. KeyOrderDocument keeps
// the order in which keys appear in the file.
func WithKeyOrder(order KeyOrder) Option {
	return func(o *openOptions) {
		o.decode.KeyOrder = order
	}
}

// WithPathSeparator sets the string joining nested names into a header.
//
// Default is ".", producing headers like "bank.account".
func WithPathSeparator(sep string) Option {
	return func(o *openOptions) {
		o.decode.PathSeparator = sep
	}
}

// WithNullValue sets the text rendered for JSON null and Parquet null values.
//
// Default is "null".
func WithNullValue(s string) Option {
	return func(o *openOptions) {
		o.decode.NullValue = s
	}
}

// WithAllRowGroups reads every Parquet row group instead of only the first.
func WithAllRowGroups() Option {
	return func(o *openOptions) {
		o.decode.AllRowGroups = true
	}
}

// WithLogger sets the logger used for debug output while decoding.
//
// By default nothing is logged. A nil logger is ignored.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	}))
//	file, err := tabular.Open("data.json", tabular.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) {
		if logger != nil {
			o.decode.Logger = logger
		}
	}
}
