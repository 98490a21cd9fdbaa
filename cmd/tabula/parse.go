package main

import (
	"fmt"
	"strings"

	"github.com/asaidimu/go-tabula/core/query"
)

// whereOperators lists the filter operators in matching order: two-character
// operators first so "<=" is not read as "<".
var whereOperators = []struct {
	token string
	apply func(*query.ConditionBuilder, string) *query.QueryBuilder
}{
	{"!=", func(cb *query.ConditionBuilder, v string) *query.QueryBuilder { return cb.Neq(v) }},
	{"<=", func(cb *query.ConditionBuilder, v string) *query.QueryBuilder { return cb.Lte(v) }},
	{">=", func(cb *query.ConditionBuilder, v string) *query.QueryBuilder { return cb.Gte(v) }},
	{"=", func(cb *query.ConditionBuilder, v string) *query.QueryBuilder { return cb.Eq(v) }},
	{"<", func(cb *query.ConditionBuilder, v string) *query.QueryBuilder { return cb.Lt(v) }},
	{">", func(cb *query.ConditionBuilder, v string) *query.QueryBuilder { return cb.Gt(v) }},
	{"~", func(cb *query.ConditionBuilder, v string) *query.QueryBuilder { return cb.Contains(v) }},
}

// applyWhere parses a column<op>value expression and adds it to qb. The
// operator is the leftmost one found in the expression.
func applyWhere(qb *query.QueryBuilder, expr string) error {
	pos, match := -1, -1
	for i, op := range whereOperators {
		idx := strings.Index(expr, op.token)
		if idx < 0 {
			continue
		}
		if pos < 0 || idx < pos {
			pos, match = idx, i
		}
	}
	if pos <= 0 {
		return fmt.Errorf("invalid filter %q: expected column<op>value", expr)
	}
	op := whereOperators[match]
	column := strings.TrimSpace(expr[:pos])
	value := strings.TrimSpace(expr[pos+len(op.token):])
	op.apply(qb.WhereColumn(query.ParseColumn(column)), value)
	return nil
}

// applyOrderBy parses column[:asc|:desc] and adds the sort to qb.
func applyOrderBy(qb *query.QueryBuilder, expr string) error {
	column, direction := expr, query.SortDirectionAsc
	if i := strings.LastIndex(expr, ":"); i >= 0 {
		switch strings.ToLower(expr[i+1:]) {
		case "asc":
			column = expr[:i]
		case "desc":
			column, direction = expr[:i], query.SortDirectionDesc
		}
	}
	if column == "" {
		return fmt.Errorf("invalid sort %q: missing column", expr)
	}
	qb.OrderByColumn(query.ParseColumn(column), direction)
	return nil
}

// parsePairs splits a key:value column pair.
func parsePairs(expr string) (query.Column, query.Column, error) {
	key, value, ok := strings.Cut(expr, ":")
	if !ok || key == "" || value == "" {
		return query.Column{}, query.Column{}, fmt.Errorf("invalid pairs %q: expected key:value", expr)
	}
	return query.ParseColumn(key), query.ParseColumn(value), nil
}

// buildQuery turns the configuration into a query builder.
func buildQuery(cfg *Config) (*query.QueryBuilder, error) {
	qb := query.NewQueryBuilder()
	for _, expr := range cfg.Where {
		if err := applyWhere(qb, expr); err != nil {
			return nil, err
		}
	}
	for _, expr := range cfg.OrderBy {
		if err := applyOrderBy(qb, expr); err != nil {
			return nil, err
		}
	}
	if _, err := qb.Offset(cfg.Offset); err != nil {
		return nil, err
	}
	if _, err := qb.Limit(cfg.Limit); err != nil {
		return nil, err
	}
	return qb, nil
}
