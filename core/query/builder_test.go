package query

import (
	"testing"

	"github.com/asaidimu/go-tabula/core/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewQueryBuilder(t *testing.T) {
	qb := NewQueryBuilder()
	assert.NotNil(t, qb)
	assert.Equal(t, 0, qb.offset)
	assert.Equal(t, -1, qb.limit)
	assert.Empty(t, qb.predicates)
	assert.Empty(t, qb.comparators)
	assert.NotNil(t, qb.logger)
	assert.Equal(t, "EMPTY QUERY", qb.String())
}

func TestQueryBuilder_SameInstance(t *testing.T) {
	qb := NewQueryBuilder()

	alt, err := qb.Limit(-1)
	require.NoError(t, err)
	alt, err = alt.Offset(0)
	require.NoError(t, err)
	assert.Same(t, qb, alt)

	alt, err = qb.Offset(3)
	require.NoError(t, err)
	assert.Same(t, qb, alt)
	assert.Same(t, qb, qb.Where(func(Record) bool { return true }))
	assert.Same(t, qb, qb.OrderBy(func(a, b Record) int { return 0 }))
}

func TestQueryBuilder_OffsetLimitValidation(t *testing.T) {
	qb := NewQueryBuilder()

	_, err := qb.Offset(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, 0, qb.Config().Offset)

	_, err = qb.Limit(-4)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, -1, qb.Config().Limit)

	_, err = qb.Limit(0)
	assert.NoError(t, err)
	assert.Equal(t, 0, qb.Config().Limit)

	var qe *QueryError
	_, err = qb.Offset(-2)
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "offset", qe.Op)
}

func TestQueryBuilder_Config(t *testing.T) {
	qb := NewQueryBuilder()
	_, err := qb.Offset(2)
	require.NoError(t, err)
	_, err = qb.Limit(5)
	require.NoError(t, err)
	qb.Where(func(Record) bool { return true }).
		WhereColumn(Index(0)).Eq("x").
		OrderByAsc(Index(1))

	cfg := qb.Config()
	assert.Equal(t, 2, cfg.Offset)
	assert.Equal(t, 5, cfg.Limit)
	assert.Len(t, cfg.Predicates, 2)
	assert.Len(t, cfg.Comparators, 1)

	// the snapshot does not follow later changes
	qb.Where(func(Record) bool { return false })
	assert.Len(t, cfg.Predicates, 2)
}

func TestQueryBuilder_Clone(t *testing.T) {
	qb := NewQueryBuilder().OrderByAsc(Name("name"))
	_, err := qb.Limit(10)
	require.NoError(t, err)

	cloned := qb.Clone()
	assert.Equal(t, qb.String(), cloned.String())

	_, err = cloned.Limit(20)
	require.NoError(t, err)
	cloned.WhereColumn(Name("name")).Exists()

	assert.Equal(t, 10, qb.Config().Limit)
	assert.Equal(t, 20, cloned.Config().Limit)
	assert.Empty(t, qb.Config().Predicates)
}

func TestQueryBuilder_Reset(t *testing.T) {
	logger := zap.NewExample()
	qb := NewQueryBuilder().WithLogger(logger).OrderByDesc(Index(0))
	_, err := qb.Offset(4)
	require.NoError(t, err)

	assert.Same(t, qb, qb.Reset())
	assert.Equal(t, 0, qb.offset)
	assert.Equal(t, -1, qb.limit)
	assert.Empty(t, qb.comparators)
	assert.Same(t, logger, qb.logger)
}

func TestQueryBuilder_WithNilLogger(t *testing.T) {
	qb := NewQueryBuilder().WithLogger(nil)
	assert.NotNil(t, qb.logger)
}

func TestQueryBuilder_String(t *testing.T) {
	qb := NewQueryBuilder().
		WhereColumn(Name("email")).Contains("@").
		WhereColumn(Index(2)).Exists().
		OrderByAsc(Name("last")).
		OrderBy(func(a, b Record) int { return 0 })
	_, err := qb.Offset(1)
	require.NoError(t, err)
	_, err = qb.Limit(3)
	require.NoError(t, err)

	assert.Equal(t,
		`WHERE: "email" contains @ AND 2 exists | ORDER BY: "last" asc, <comparator> | OFFSET: 1 | LIMIT: 3`,
		qb.String(),
	)
}

func TestQueryBuilder_ProcessDoesNotConsumeBuilder(t *testing.T) {
	src := source.NewMemory([][]string{{"a"}, {"b"}, {"c"}})
	qb := NewQueryBuilder()
	_, err := qb.Limit(1)
	require.NoError(t, err)

	first := qb.Process(src)
	_, err = qb.Limit(2)
	require.NoError(t, err)
	second := qb.Process(src)

	n, err := first.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = second.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestConditionBuilder(t *testing.T) {
	header := []string{"name", "age", "email"}
	jane := NewRecord(header, []string{"jane", "41", "jane@example.com"})
	john := NewRecord(header, []string{"john", "9"})

	tests := []struct {
		name    string
		buildFn func(*QueryBuilder) *QueryBuilder
		jane    bool
		john    bool
	}{
		{"Eq", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("name")).Eq("jane") }, true, false},
		{"Eq numeric", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("age")).Eq(41) }, true, false},
		{"Neq", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("name")).Neq("jane") }, false, true},
		{"Lt", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("age")).Lt(10) }, false, true},
		{"Lte", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("age")).Lte(41) }, true, true},
		{"Gt", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("age")).Gt(10) }, true, false},
		{"Gte", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("age")).Gte(9) }, true, true},
		{"In", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("name")).In("john", "lara") }, false, true},
		{"Nin", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("name")).Nin("john", "lara") }, true, false},
		{"Contains", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("name")).Contains("an") }, true, false},
		{"NotContains", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("name")).NotContains("an") }, false, true},
		{"StartsWith", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("name")).StartsWith("jo") }, false, true},
		{"EndsWith", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Index(2)).EndsWith(".com") }, true, false},
		{"Exists", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("email")).Exists() }, true, false},
		{"NotExists", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("email")).NotExists() }, false, true},
		{"unknown column", func(qb *QueryBuilder) *QueryBuilder { return qb.WhereColumn(Name("phone")).Neq("x") }, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb := tt.buildFn(NewQueryBuilder())
			cfg := qb.Config()
			require.Len(t, cfg.Predicates, 1)
			assert.Equal(t, tt.jane, cfg.Predicates[0](jane))
			assert.Equal(t, tt.john, cfg.Predicates[0](john))
		})
	}
}
