package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
)

// bomUTF8 is the UTF-8 byte order mark stripped from the start of CSV input.
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions controls how delimited text is split into rows.
type CSVOptions struct {
	Delimiter        rune // Field delimiter, ',' when zero.
	Comment          rune // Lines starting with this rune are ignored, disabled when zero.
	LazyQuotes       bool // Allow quotes in unquoted fields.
	TrimLeadingSpace bool // Ignore leading white space in a field.
	HeaderOffset     int  // Offset of the header row, NoHeader for none.
}

// DefaultCSVOptions returns comma separated options without a header row.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ',', HeaderOffset: NoHeader}
}

// CSV is a Source over delimited text held in memory. Every pass re-parses
// the text from the start. Empty lines are skipped and do not consume an
// offset; rows may have differing field counts.
type CSV struct {
	data    []byte
	options CSVOptions
}

// NewCSV creates a CSV source over data. A leading UTF-8 byte order mark is
// ignored.
func NewCSV(data []byte, options CSVOptions) (*CSV, error) {
	if options.Delimiter == 0 {
		options.Delimiter = ','
	}
	if options.HeaderOffset < NoHeader {
		return nil, fmt.Errorf("csv source: header offset %d must be %d or greater", options.HeaderOffset, NoHeader)
	}
	if options.Delimiter == options.Comment {
		return nil, fmt.Errorf("csv source: delimiter and comment must differ")
	}
	return &CSV{data: bytes.TrimPrefix(data, bomUTF8), options: options}, nil
}

// NewCSVFromString is NewCSV for string input.
func NewCSVFromString(data string, options CSVOptions) (*CSV, error) {
	return NewCSV([]byte(data), options)
}

// NewCSVFromFile reads the file at path and creates a CSV source over it.
func NewCSVFromFile(path string, options CSVOptions) (*CSV, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("csv source: %w", err)
	}
	return NewCSV(data, options)
}

// Options returns the options the source was created with.
func (c *CSV) Options() CSVOptions {
	return c.options
}

func (c *CSV) reader() *csv.Reader {
	r := csv.NewReader(bytes.NewReader(c.data))
	r.Comma = c.options.Delimiter
	r.Comment = c.options.Comment
	r.LazyQuotes = c.options.LazyQuotes
	r.TrimLeadingSpace = c.options.TrimLeadingSpace
	r.FieldsPerRecord = -1
	return r
}

// scan yields every parsed row, header included.
func (c *CSV) scan() iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		r := c.reader()
		for offset := 0; ; offset++ {
			fields, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Row{Offset: offset}, fmt.Errorf("csv source: %w", err))
				return
			}
			if !yield(Row{Offset: offset, Fields: fields}, nil) {
				return
			}
		}
	}
}

// Rows implements Source.
func (c *CSV) Rows() iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for row, err := range c.scan() {
			if err == nil && row.Offset == c.options.HeaderOffset {
				continue
			}
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

// Header implements Source.
func (c *CSV) Header() ([]string, error) {
	if c.options.HeaderOffset == NoHeader {
		return []string{}, nil
	}
	for row, err := range c.scan() {
		if err != nil {
			return nil, err
		}
		if row.Offset == c.options.HeaderOffset {
			return row.Fields, nil
		}
	}
	return nil, fmt.Errorf("csv source: header offset %d is past the last row", c.options.HeaderOffset)
}
