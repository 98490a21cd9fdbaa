package query

// ConditionBuilder adds a FilterCondition on one column to a QueryBuilder.
// It is not intended to be used directly but is part of the fluent API.
type ConditionBuilder struct {
	parent *QueryBuilder
	column Column
}

// WhereColumn begins the construction of a filter condition for a column.
func (qb *QueryBuilder) WhereColumn(col Column) *ConditionBuilder {
	return &ConditionBuilder{parent: qb, column: col}
}

// Eq adds an equality condition to the query.
func (cb *ConditionBuilder) Eq(value FilterValue) *QueryBuilder {
	return cb.addCondition(ComparisonOperatorEq, value)
}

// Neq adds a not-equal condition to the query.
func (cb *ConditionBuilder) Neq(value FilterValue) *QueryBuilder {
	return cb.addCondition(ComparisonOperatorNeq, value)
}

// Lt adds a less-than condition to the query.
func (cb *ConditionBuilder) Lt(value FilterValue) *QueryBuilder {
	return cb.addCondition(ComparisonOperatorLt, value)
}

// Lte adds a less-than-or-equal condition to the query.
func (cb *ConditionBuilder) Lte(value FilterValue) *QueryBuilder {
	return cb.addCondition(ComparisonOperatorLte, value)
}

// Gt adds a greater-than condition to the query.
func (cb *ConditionBuilder) Gt(value FilterValue) *QueryBuilder {
	return cb.addCondition(ComparisonOperatorGt, value)
}

// Gte adds a greater-than-or-equal condition to the query.
func (cb *ConditionBuilder) Gte(value FilterValue) *QueryBuilder {
	return cb.addCondition(ComparisonOperatorGte, value)
}

// In adds an "in" condition, checking if a field's value is within a set of values.
func (cb *ConditionBuilder) In(values ...FilterValue) *QueryBuilder {
	return cb.addCondition(ComparisonOperatorIn, values)
}

// Nin adds a "not in" condition, checking if a field's value is not within a set of values.
func (cb *ConditionBuilder) Nin(values ...FilterValue) *QueryBuilder {
	return cb.addCondition(ComparisonOperatorNin, values)
}

// Contains adds a condition to check if a field contains a substring.
func (cb *ConditionBuilder) Contains(value FilterValue) *QueryBuilder {
	return cb.addCondition(ComparisonOperatorContains, value)
}

// NotContains adds a condition to check if a field does not contain a substring.
func (cb *ConditionBuilder) NotContains(value FilterValue) *QueryBuilder {
	return cb.addCondition(ComparisonOperatorNotContains, value)
}

// StartsWith adds a condition to check if a field starts with a specific prefix.
func (cb *ConditionBuilder) StartsWith(value FilterValue) *QueryBuilder {
	return cb.addCondition(ComparisonOperatorStartsWith, value)
}

// EndsWith adds a condition to check if a field ends with a specific suffix.
func (cb *ConditionBuilder) EndsWith(value FilterValue) *QueryBuilder {
	return cb.addCondition(ComparisonOperatorEndsWith, value)
}

// Exists adds a condition to check that the record has a field at the column.
func (cb *ConditionBuilder) Exists() *QueryBuilder {
	return cb.addCondition(ComparisonOperatorExists, true)
}

// NotExists adds a condition to check that the record has no field at the column.
func (cb *ConditionBuilder) NotExists() *QueryBuilder {
	return cb.addCondition(ComparisonOperatorNotExists, true)
}

// addCondition is an internal helper to add a filter condition to the query.
func (cb *ConditionBuilder) addCondition(operator ComparisonOperator, value FilterValue) *QueryBuilder {
	condition := FilterCondition{
		Column:   cb.column,
		Operator: operator,
		Value:    value,
	}
	qb := cb.parent
	qb.predicates = append(qb.predicates, condition.Match)
	qb.filterDesc = append(qb.filterDesc, condition.String())
	return qb
}
