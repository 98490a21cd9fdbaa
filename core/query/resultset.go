package query

import (
	"bytes"
	"iter"
	"slices"
	"strconv"

	"github.com/asaidimu/go-tabula/core/source"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResultSet is a lazy, re-iterable view of the records matching a query.
// It holds no open handles: every consuming call runs a new, independent
// pass over the record source. Apart from the offset presentation flag it is
// immutable.
type ResultSet struct {
	id             string
	src            source.Source
	override       []string
	header         []string
	headerErr      error
	headerLoaded   bool
	processor      *processor
	preserveOffset bool
	logger         *zap.Logger
}

func newResultSet(src source.Source, header []string, p *processor, logger *zap.Logger) *ResultSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultSet{
		id:             uuid.New().String(),
		src:            src,
		override:       header,
		processor:      p,
		preserveOffset: true,
		logger:         logger,
	}
}

// ID identifies the result set in log output.
func (rs *ResultSet) ID() string {
	return rs.id
}

// Header returns the header used by the result set: the header given to
// Process when there was one, the source header otherwise. It is empty when
// neither exists.
func (rs *ResultSet) Header() ([]string, error) {
	if !rs.headerLoaded {
		rs.loadHeader()
	}
	if rs.headerErr != nil {
		return nil, rs.headerErr
	}
	return slices.Clone(rs.header), nil
}

func (rs *ResultSet) loadHeader() {
	rs.headerLoaded = true
	if len(rs.override) > 0 {
		rs.header = rs.override
		rs.logger.Debug("Using header override", zap.String("result_set", rs.id), zap.Strings("header", rs.header))
		return
	}
	header, err := rs.src.Header()
	if err != nil {
		rs.headerErr = &QueryError{Op: "read header", Err: err}
		rs.logger.Debug("Failed to read source header", zap.String("result_set", rs.id), zap.Error(err))
		return
	}
	if header == nil {
		header = []string{}
	}
	rs.header = header
	rs.logger.Debug("Using source header", zap.String("result_set", rs.id), zap.Strings("header", rs.header))
}

// PreserveRecordOffset selects whether entries are keyed by their source
// offset (the default) or renumbered from 0.
func (rs *ResultSet) PreserveRecordOffset(preserve bool) *ResultSet {
	rs.preserveOffset = preserve
	return rs
}

// IsRecordOffsetPreserved reports whether entries are keyed by source offset.
func (rs *ResultSet) IsRecordOffsetPreserved() bool {
	return rs.preserveOffset
}

// Records returns the entries of the result set. Each range over the
// returned sequence is a new pass over the source; a non-nil error ends it.
func (rs *ResultSet) Records() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		header, err := rs.Header()
		if err != nil {
			yield(Entry{}, err)
			return
		}
		preserve := rs.preserveOffset
		position := 0
		for e, err := range rs.processor.pass(rs.src, header, rs.id) {
			if err != nil {
				yield(Entry{}, err)
				return
			}
			if !preserve {
				e.Key = position
			}
			position++
			if !yield(e, nil) {
				return
			}
		}
	}
}

// Collect runs one pass and returns every entry.
func (rs *ResultSet) Collect() ([]Entry, error) {
	var entries []Entry
	for e, err := range rs.Records() {
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Count runs one pass and returns the number of records in the result.
func (rs *ResultSet) Count() (int, error) {
	n := 0
	for _, err := range rs.Records() {
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// FetchOne returns the nth record of the result, counting from 0. A record
// past the end of the result is returned empty. A negative n fails with
// ErrOutOfRange.
func (rs *ResultSet) FetchOne(n int) (Record, error) {
	if n < 0 {
		return Record{}, newError("fetch one", ErrOutOfRange, "record index %d must be a positive integer or 0", n)
	}
	i := 0
	for e, err := range rs.Records() {
		if err != nil {
			return Record{}, err
		}
		if i == n {
			return e.Record, nil
		}
		i++
	}
	return Record{}, nil
}

// FetchColumn resolves col against the header and returns the values found
// at that column, one per record. Records too short to have the column are
// skipped.
func (rs *ResultSet) FetchColumn(col Column) (iter.Seq2[string, error], error) {
	index, err := rs.resolve(col)
	if err != nil {
		return nil, err
	}
	return func(yield func(string, error) bool) {
		for e, err := range rs.Records() {
			if err != nil {
				yield("", err)
				return
			}
			value, ok := e.Record.At(index)
			if !ok {
				continue
			}
			if !yield(value, nil) {
				return
			}
		}
	}, nil
}

// FetchPairs resolves both columns against the header and returns one pair
// per record. Records without the key column are skipped; records with the
// key but without the value column produce a pair with a nil Value. Pairs
// sharing a key are all returned.
func (rs *ResultSet) FetchPairs(key, value Column) (iter.Seq2[Pair, error], error) {
	keyIndex, err := rs.resolve(key)
	if err != nil {
		return nil, err
	}
	valueIndex, err := rs.resolve(value)
	if err != nil {
		return nil, err
	}
	return func(yield func(Pair, error) bool) {
		for e, err := range rs.Records() {
			if err != nil {
				yield(Pair{}, err)
				return
			}
			k, ok := e.Record.At(keyIndex)
			if !ok {
				continue
			}
			pair := Pair{Key: k}
			if v, ok := e.Record.At(valueIndex); ok {
				pair.Value = StringPtr(v)
			}
			if !yield(pair, nil) {
				return
			}
		}
	}, nil
}

func (rs *ResultSet) resolve(col Column) (int, error) {
	if col.byIndex && col.index < 0 {
		return ResolveColumn(col, nil)
	}
	header, err := rs.Header()
	if err != nil {
		return -1, err
	}
	return ResolveColumn(col, header)
}

// MarshalJSON encodes the result as a JSON array of records or, when record
// offsets are preserved, as a JSON object keyed by source offset. Both keep
// the result order.
func (rs *ResultSet) MarshalJSON() ([]byte, error) {
	open, closing := byte('['), byte(']')
	if rs.preserveOffset {
		open, closing = '{', '}'
	}

	var buf bytes.Buffer
	buf.WriteByte(open)
	first := true
	for e, err := range rs.Records() {
		if err != nil {
			return nil, err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if rs.preserveOffset {
			buf.WriteByte('"')
			buf.WriteString(strconv.Itoa(e.Key))
			buf.WriteString(`":`)
		}
		b, err := e.Record.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(closing)
	return buf.Bytes(), nil
}
