package query

import (
	"iter"
	"slices"

	"github.com/asaidimu/go-tabula/core/source"
	"go.uber.org/zap"
)

// processor runs the filter, sort and window stages of a query. Every call
// to pass builds the stages anew, so passes share no state.
type processor struct {
	config Config
	logger *zap.Logger
}

func newProcessor(config Config, logger *zap.Logger) *processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &processor{config: config, logger: logger}
}

// passStats counts rows moving through one pass, for logging.
type passStats struct {
	read    int
	matched int
	yielded int
}

// pass yields the windowed entries of src keyed by source offset.
func (p *processor) pass(src source.Source, header []string, id string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		var stats passStats
		defer func() {
			p.logger.Debug("Query pass finished",
				zap.String("result_set", id),
				zap.Int("read", stats.read),
				zap.Int("matched", stats.matched),
				zap.Int("yielded", stats.yielded),
			)
		}()

		entries := p.filter(src, header, &stats)
		if len(p.config.Comparators) > 0 {
			entries = p.sort(entries)
		}
		for e, err := range p.window(entries) {
			if err == nil {
				stats.yielded++
			}
			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

// filter streams the source rows that satisfy every predicate.
func (p *processor) filter(src source.Source, header []string, stats *passStats) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for row, err := range src.Rows() {
			if err != nil {
				yield(Entry{}, &QueryError{Op: "read source", Err: err})
				return
			}
			stats.read++
			record := NewRecord(header, row.Fields)
			if !p.match(record) {
				continue
			}
			stats.matched++
			if !yield(Entry{Key: row.Offset, Record: record}, nil) {
				return
			}
		}
	}
}

func (p *processor) match(r Record) bool {
	for _, pred := range p.config.Predicates {
		if !pred(r) {
			return false
		}
	}
	return true
}

// sort buffers the whole input of the pass and re-streams it stably sorted.
func (p *processor) sort(in iter.Seq2[Entry, error]) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		var buf []Entry
		for e, err := range in {
			if err != nil {
				yield(Entry{}, err)
				return
			}
			buf = append(buf, e)
		}
		slices.SortStableFunc(buf, func(a, b Entry) int {
			return p.compare(a.Record, b.Record)
		})
		for _, e := range buf {
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (p *processor) compare(a, b Record) int {
	for _, cmp := range p.config.Comparators {
		if res := cmp(a, b); res != 0 {
			return res
		}
	}
	return 0
}

// window skips the first Offset entries and stops after Limit more. A zero
// limit is only valid as an empty window at the start of non-empty data;
// any other zero-width window is an ErrOutOfBounds.
func (p *processor) window(in iter.Seq2[Entry, error]) iter.Seq2[Entry, error] {
	offset, limit := p.config.Offset, p.config.Limit
	return func(yield func(Entry, error) bool) {
		if limit == 0 {
			if offset > 0 {
				yield(Entry{}, newError("window", ErrOutOfBounds, "cannot seek to offset %d with a limit of 0", offset))
				return
			}
			for _, err := range in {
				if err != nil {
					yield(Entry{}, err)
				}
				return
			}
			yield(Entry{}, newError("window", ErrOutOfBounds, "cannot seek to offset 0 of an empty result with a limit of 0"))
			return
		}

		skipped, taken := 0, 0
		for e, err := range in {
			if err != nil {
				yield(Entry{}, err)
				return
			}
			if skipped < offset {
				skipped++
				continue
			}
			if !yield(e, nil) {
				return
			}
			taken++
			if limit > 0 && taken == limit {
				return
			}
		}
	}
}
