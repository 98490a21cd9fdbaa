package query

import (
	"slices"
	"strconv"
)

// Column identifies a column either by its zero-based position, by its name
// in the header, or by both.
type Column struct {
	name    string
	index   int
	byName  bool
	byIndex bool
}

// Index returns a Column addressing the given zero-based position.
func Index(i int) Column {
	return Column{index: i, byIndex: true}
}

// Name returns a Column addressing the header entry equal to name.
func Name(name string) Column {
	return Column{name: name, byName: true}
}

// ParseColumn returns a Column for user input. The value is always looked up
// as a header name first; when it is also an integer it falls back to being
// used as a position.
func ParseColumn(s string) Column {
	c := Name(s)
	if i, err := strconv.Atoi(s); err == nil {
		c.index = i
		c.byIndex = true
	}
	return c
}

// String returns the column as the user would have written it.
func (c Column) String() string {
	if c.byName {
		return strconv.Quote(c.name)
	}
	return strconv.Itoa(c.index)
}

// ResolveColumn maps a column to a concrete zero-based position.
//
// A negative position is always an ErrOutOfRange. With a non-empty header the
// column is looked up by name first, then accepted as a position if it lies
// inside the header; anything else is an ErrUnknownColumn. Without a header
// only positions can be resolved, and they are not bounds checked since rows
// may be ragged.
func ResolveColumn(col Column, header []string) (int, error) {
	if col.byIndex && col.index < 0 {
		return -1, newError("resolve column", ErrOutOfRange, "column position %d must be a positive integer or 0", col.index)
	}

	if len(header) > 0 {
		if col.byName {
			if i := slices.Index(header, col.name); i >= 0 {
				return i, nil
			}
		}
		if col.byIndex && col.index < len(header) {
			return col.index, nil
		}
		return -1, newError("resolve column", ErrUnknownColumn, "column %s does not exist in the header", col)
	}

	if col.byIndex {
		return col.index, nil
	}
	return -1, newError("resolve column", ErrUnknownColumn, "column %s cannot be resolved without a header", col)
}
