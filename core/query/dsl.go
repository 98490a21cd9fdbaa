// Package query composes lazy queries over tabular records. A QueryBuilder
// collects an offset, a limit, row predicates and ordering comparators;
// processing it against a record source yields a ResultSet that re-runs the
// filter, sort and window pipeline every time it is consumed.
package query

import (
	"fmt"
	"slices"
	"strings"
)

// Predicate reports whether a record belongs in the result.
type Predicate func(r Record) bool

// Comparator orders two records. It returns a negative number when a sorts
// before b, a positive number when a sorts after b and 0 when they tie.
type Comparator func(a, b Record) int

// ComparisonOperator defines the set of operators that can be used in a filter condition.
type ComparisonOperator string

// Supported comparison operators.
const (
	ComparisonOperatorEq          ComparisonOperator = "eq"
	ComparisonOperatorNeq         ComparisonOperator = "neq"
	ComparisonOperatorLt          ComparisonOperator = "lt"
	ComparisonOperatorLte         ComparisonOperator = "lte"
	ComparisonOperatorGt          ComparisonOperator = "gt"
	ComparisonOperatorGte         ComparisonOperator = "gte"
	ComparisonOperatorIn          ComparisonOperator = "in"
	ComparisonOperatorNin         ComparisonOperator = "nin"
	ComparisonOperatorContains    ComparisonOperator = "contains"
	ComparisonOperatorNotContains ComparisonOperator = "ncontains"
	ComparisonOperatorStartsWith  ComparisonOperator = "startswith"
	ComparisonOperatorEndsWith    ComparisonOperator = "endswith"
	ComparisonOperatorExists      ComparisonOperator = "exists"
	ComparisonOperatorNotExists   ComparisonOperator = "nexists"
)

// FilterValue represents the value used in a filter condition. Non-string
// values are compared through their fmt.Sprint form.
type FilterValue any

// FilterCondition defines a single condition on one column of a record.
type FilterCondition struct {
	Column   Column             // The column to apply the filter on.
	Operator ComparisonOperator // The comparison operator to use.
	Value    FilterValue        // The value to compare against.
}

// Match evaluates the condition against r. A column the record does not
// have only satisfies ComparisonOperatorNotExists.
func (c FilterCondition) Match(r Record) bool {
	field, ok := r.Value(c.Column)
	switch c.Operator {
	case ComparisonOperatorExists:
		return ok
	case ComparisonOperatorNotExists:
		return !ok
	}
	if !ok {
		return false
	}

	switch c.Operator {
	case ComparisonOperatorEq:
		return compareFields(field, toString(c.Value)) == 0
	case ComparisonOperatorNeq:
		return compareFields(field, toString(c.Value)) != 0
	case ComparisonOperatorLt:
		return compareFields(field, toString(c.Value)) < 0
	case ComparisonOperatorLte:
		return compareFields(field, toString(c.Value)) <= 0
	case ComparisonOperatorGt:
		return compareFields(field, toString(c.Value)) > 0
	case ComparisonOperatorGte:
		return compareFields(field, toString(c.Value)) >= 0
	case ComparisonOperatorIn:
		return slices.ContainsFunc(toValues(c.Value), func(v string) bool { return compareFields(field, v) == 0 })
	case ComparisonOperatorNin:
		return !slices.ContainsFunc(toValues(c.Value), func(v string) bool { return compareFields(field, v) == 0 })
	case ComparisonOperatorContains:
		return strings.Contains(field, toString(c.Value))
	case ComparisonOperatorNotContains:
		return !strings.Contains(field, toString(c.Value))
	case ComparisonOperatorStartsWith:
		return strings.HasPrefix(field, toString(c.Value))
	case ComparisonOperatorEndsWith:
		return strings.HasSuffix(field, toString(c.Value))
	default:
		return false
	}
}

// String returns a human-readable form of the condition.
func (c FilterCondition) String() string {
	switch c.Operator {
	case ComparisonOperatorExists, ComparisonOperatorNotExists:
		return fmt.Sprintf("%s %s", c.Column, c.Operator)
	}
	return fmt.Sprintf("%s %s %v", c.Column, c.Operator, c.Value)
}

// SortDirection specifies the direction for sorting.
type SortDirection string

// Supported sort directions.
const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

// SortConfiguration orders records by the value of one column.
type SortConfiguration struct {
	Column    Column        // The column to sort by.
	Direction SortDirection // The direction of the sort (ascending or descending).
}

// Compare orders a and b by the configured column. Records without the
// column sort before records that have it.
func (s SortConfiguration) Compare(a, b Record) int {
	av, aok := a.Value(s.Column)
	bv, bok := b.Value(s.Column)
	var res int
	switch {
	case !aok && !bok:
		res = 0
	case !aok:
		res = -1
	case !bok:
		res = 1
	default:
		res = compareFields(av, bv)
	}
	if s.Direction == SortDirectionDesc {
		return -res
	}
	return res
}

// Entry is one record of a result set together with its presentation key:
// the source offset when offsets are preserved, its 0-based position in the
// result otherwise.
type Entry struct {
	Key    int
	Record Record
}

// Pair is a key/value couple extracted from a record. Value is nil when the
// record has no field at the value column.
type Pair struct {
	Key   string
	Value *string
}

// Config is a snapshot of a QueryBuilder.
type Config struct {
	Offset      int
	Limit       int
	Predicates  []Predicate
	Comparators []Comparator
}
