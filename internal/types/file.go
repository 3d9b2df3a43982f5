// Package types provides the core data structures shared by the tabular
// package and its format-specific decoders.
//
// This package defines Format, Encoding, Record, the decode options, the
// error kinds, and the RowSource contract every decoder's rows satisfy.
package types

import (
	"log/slog"
	"slices"
)

// Record is one logical row: an ordered sequence of string-rendered values.
type Record []string

// Equal reports whether r and other hold the same values in the same order.
func (r Record) Equal(other Record) bool {
	return slices.Equal(r, other)
}

// RowSource produces the rows of one encoding. Next returns io.EOF once the
// source is exhausted and keeps returning it afterwards.
type RowSource interface {
	Next() (Record, error)

	// Warnings returns the non-fatal issues seen so far.
	Warnings() []Warning

	// Close releases resources held by the source. Safe to call twice.
	Close() error
}

// KeyOrder selects the order in which JSON object members are visited.
type KeyOrder int

const (
	// KeyOrderSorted visits members in lexicographic key order.
	KeyOrderSorted KeyOrder = iota
	// KeyOrderDocument visits members in the order they appear in the source.
	KeyOrderDocument
)

// String returns "sorted" or "document".
func (k KeyOrder) String() string {
	if k == KeyOrderDocument {
		return "document"
	}
	return "sorted"
}

// DecodeOptions carries the resolved open options down to the decoders.
type DecodeOptions struct {
	Logger        *slog.Logger
	PathSeparator string
	NullValue     string
	KeyOrder      KeyOrder
	Strict        bool // shape and row errors become fatal
	AllRowGroups  bool
}

// DefaultDecodeOptions returns the defaults used when no option is given.
func DefaultDecodeOptions() *DecodeOptions {
	return &DecodeOptions{
		Logger:        slog.New(slog.DiscardHandler),
		PathSeparator: ".",
		NullValue:     "null",
		KeyOrder:      KeyOrderSorted,
	}
}
