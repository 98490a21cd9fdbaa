package source

import (
	"fmt"
	"iter"
	"slices"
)

// Memory is a Source over rows already held in memory. The row offset is the
// row's index in the slice it was built from.
type Memory struct {
	rows         [][]string
	headerOffset int
}

// NewMemory creates a Memory source without a header row.
func NewMemory(rows [][]string) *Memory {
	return &Memory{rows: rows, headerOffset: NoHeader}
}

// SetHeaderOffset selects the row used as header. Use NoHeader to disable it.
func (m *Memory) SetHeaderOffset(offset int) (*Memory, error) {
	if offset < NoHeader {
		return m, fmt.Errorf("memory source: header offset %d must be %d or greater", offset, NoHeader)
	}
	m.headerOffset = offset
	return m, nil
}

// HeaderOffset returns the configured header offset.
func (m *Memory) HeaderOffset() int {
	return m.headerOffset
}

// Rows implements Source.
func (m *Memory) Rows() iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for i, fields := range m.rows {
			if i == m.headerOffset {
				continue
			}
			if !yield(Row{Offset: i, Fields: slices.Clone(fields)}, nil) {
				return
			}
		}
	}
}

// Header implements Source.
func (m *Memory) Header() ([]string, error) {
	if m.headerOffset == NoHeader {
		return []string{}, nil
	}
	if m.headerOffset >= len(m.rows) {
		return nil, fmt.Errorf("memory source: header offset %d is past the last row (%d rows)", m.headerOffset, len(m.rows))
	}
	return slices.Clone(m.rows[m.headerOffset]), nil
}
