package tabular

import (
	"errors"
	"io"
	"iter"

	"github.com/simonhull/tabular/internal/types"
)

// RowIterator is a single-pass iterator over the records of one file.
//
// It wraps exactly one encoding-specific row source, identified by Format.
// Once Next returns false the iterator is exhausted: it keeps returning
// false and its underlying source has been released.
//
//	for it.Next() {
//		rec := it.Record()
//		...
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type RowIterator struct {
	rows     types.RowSource
	record   Record
	err      error
	warnings []Warning
	format   Format
	done     bool
}

func newRowIterator(format Format, rows types.RowSource) *RowIterator {
	return &RowIterator{format: format, rows: rows}
}

// Format returns the format of the underlying row source.
func (it *RowIterator) Format() Format {
	return it.format
}

// Next advances to the next record. It returns false when the records are
// exhausted or an error occurred; check Err to tell them apart.
func (it *RowIterator) Next() bool {
	if it.done {
		return false
	}

	rec, err := it.rows.Next()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			it.err = err
		}
		it.release()
		return false
	}

	it.record = rec
	return true
}

// Record returns the current record. It is only valid after a call to Next
// that returned true.
func (it *RowIterator) Record() Record {
	return it.record
}

// Err returns the error that stopped iteration, or nil at a clean end.
func (it *RowIterator) Err() error {
	return it.err
}

// Warnings returns the non-fatal issues seen so far, such as skipped rows.
func (it *RowIterator) Warnings() []Warning {
	if it.done {
		return it.warnings
	}
	return it.rows.Warnings()
}

// All returns an iterator over the remaining records.
//
// Iteration stops early on error; check Err afterwards.
func (it *RowIterator) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for it.Next() {
			if !yield(it.record) {
				return
			}
		}
	}
}

// Collect drains the iterator and returns the remaining records.
func (it *RowIterator) Collect() ([]Record, error) {
	var records []Record
	for it.Next() {
		records = append(records, it.record)
	}
	return records, it.err
}

// Close stops iteration and releases the underlying source. It is safe to
// call on an exhausted iterator.
func (it *RowIterator) Close() error {
	if it.done {
		return nil
	}
	return it.release()
}

func (it *RowIterator) release() error {
	it.done = true
	it.record = nil
	it.warnings = it.rows.Warnings()

	err := it.rows.Close()
	if err != nil && it.err == nil {
		it.err = err
	}
	return err
}
