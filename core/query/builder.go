package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/asaidimu/go-tabula/core/source"
	"go.uber.org/zap"
)

// QueryBuilder provides a fluent API for composing a query over tabular
// records. It is mutable and may be processed against any number of sources;
// processing never consumes or alters the builder.
type QueryBuilder struct {
	offset      int
	limit       int
	predicates  []Predicate
	comparators []Comparator
	filterDesc  []string
	sortDesc    []string
	logger      *zap.Logger
}

// NewQueryBuilder creates a new, empty query builder instance: no offset, no
// limit, no predicates and no comparators.
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		limit:  -1,
		logger: zap.NewNop(),
	}
}

// WithLogger sets the logger handed to the result sets this builder creates.
func (qb *QueryBuilder) WithLogger(logger *zap.Logger) *QueryBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	qb.logger = logger
	return qb
}

// Offset sets how many matching records are skipped. It fails with
// ErrOutOfRange when n is negative.
func (qb *QueryBuilder) Offset(n int) (*QueryBuilder, error) {
	if n == qb.offset {
		return qb, nil
	}
	if n < 0 {
		return qb, newError("offset", ErrOutOfRange, "offset %d must be a positive integer or 0", n)
	}
	qb.offset = n
	return qb, nil
}

// Limit sets the maximum number of records returned, -1 meaning no limit. It
// fails with ErrOutOfRange when n is lower than -1.
func (qb *QueryBuilder) Limit(n int) (*QueryBuilder, error) {
	if n == qb.limit {
		return qb, nil
	}
	if n < -1 {
		return qb, newError("limit", ErrOutOfRange, "limit %d must be greater or equal to -1", n)
	}
	qb.limit = n
	return qb, nil
}

// Where adds a predicate. Predicates are combined with AND in the order they
// were added.
func (qb *QueryBuilder) Where(p Predicate) *QueryBuilder {
	qb.predicates = append(qb.predicates, p)
	qb.filterDesc = append(qb.filterDesc, "<predicate>")
	return qb
}

// OrderBy adds a comparator. Comparators are applied in the order they were
// added; the first non-zero result decides and full ties keep source order.
func (qb *QueryBuilder) OrderBy(c Comparator) *QueryBuilder {
	qb.comparators = append(qb.comparators, c)
	qb.sortDesc = append(qb.sortDesc, "<comparator>")
	return qb
}

// OrderByColumn adds a comparator on the value of a single column.
func (qb *QueryBuilder) OrderByColumn(col Column, direction SortDirection) *QueryBuilder {
	sort := SortConfiguration{Column: col, Direction: direction}
	qb.comparators = append(qb.comparators, sort.Compare)
	qb.sortDesc = append(qb.sortDesc, fmt.Sprintf("%s %s", col, direction))
	return qb
}

// OrderByAsc adds an ascending sort order for a specific column.
func (qb *QueryBuilder) OrderByAsc(col Column) *QueryBuilder {
	return qb.OrderByColumn(col, SortDirectionAsc)
}

// OrderByDesc adds a descending sort order for a specific column.
func (qb *QueryBuilder) OrderByDesc(col Column) *QueryBuilder {
	return qb.OrderByColumn(col, SortDirectionDesc)
}

// Config returns a snapshot of the current configuration.
func (qb *QueryBuilder) Config() Config {
	return Config{
		Offset:      qb.offset,
		Limit:       qb.limit,
		Predicates:  slices.Clone(qb.predicates),
		Comparators: slices.Clone(qb.comparators),
	}
}

// Clone creates a copy of the builder that can be changed without affecting
// the original.
func (qb *QueryBuilder) Clone() *QueryBuilder {
	return &QueryBuilder{
		offset:      qb.offset,
		limit:       qb.limit,
		predicates:  slices.Clone(qb.predicates),
		comparators: slices.Clone(qb.comparators),
		filterDesc:  slices.Clone(qb.filterDesc),
		sortDesc:    slices.Clone(qb.sortDesc),
		logger:      qb.logger,
	}
}

// Reset clears all configurations from the query builder, returning it to its initial state.
func (qb *QueryBuilder) Reset() *QueryBuilder {
	logger := qb.logger
	*qb = *NewQueryBuilder()
	qb.logger = logger
	return qb
}

// Process creates a ResultSet over src. A non-empty header replaces the
// source's own header. The source is not read until the result set is
// consumed.
func (qb *QueryBuilder) Process(src source.Source, header ...string) *ResultSet {
	return newResultSet(src, slices.Clone(header), newProcessor(qb.Config(), qb.logger), qb.logger)
}

// String returns a human-readable representation of the built query.
func (qb *QueryBuilder) String() string {
	var parts []string

	if len(qb.filterDesc) > 0 {
		parts = append(parts, fmt.Sprintf("WHERE: %s", strings.Join(qb.filterDesc, " AND ")))
	}
	if len(qb.sortDesc) > 0 {
		parts = append(parts, fmt.Sprintf("ORDER BY: %s", strings.Join(qb.sortDesc, ", ")))
	}
	if qb.offset > 0 {
		parts = append(parts, fmt.Sprintf("OFFSET: %d", qb.offset))
	}
	if qb.limit >= 0 {
		parts = append(parts, fmt.Sprintf("LIMIT: %d", qb.limit))
	}

	if len(parts) == 0 {
		return "EMPTY QUERY"
	}
	return strings.Join(parts, " | ")
}
