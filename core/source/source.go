// Package source defines the record source boundary consumed by the query
// engine, along with in-memory and CSV implementations of it.
//
// A Source is re-readable: every call to Rows starts a fresh pass from the
// beginning of the underlying data. Acquiring and releasing whatever backs
// the source (files, database handles) is the caller's responsibility.
package source

import "iter"

// NoHeader is the header offset used when a source has no header row.
const NoHeader = -1

// Row is a raw record paired with its offset in the original source.
type Row struct {
	Offset int
	Fields []string
}

// Source produces the raw rows of a tabular data set.
type Source interface {
	// Rows yields every row except the header row, in source order. Each call
	// starts a new pass. A non-nil error ends the pass.
	Rows() iter.Seq2[Row, error]

	// Header returns the row at the configured header offset, or an empty
	// slice when no header offset is configured.
	Header() ([]string, error)
}
