package vectorstore

// ── Filter Constructors ──────────────────────────────────────────────────────

// NewFilter creates a leaf comparison filter.
func NewFilter(key string, op FilterOperator, value any) MetadataFilter {
	return MetadataFilter{Key: key, Operator: op, Value: value}
}

// NewFilterGroup creates a group combining the given nodes under a condition.
func NewFilterGroup(condition FilterCondition, filters ...FilterNode) *MetadataFilterGroup {
	return &MetadataFilterGroup{Condition: condition, Filters: filters}
}

// And groups the given nodes with AND logic.
func And(filters ...FilterNode) *MetadataFilterGroup {
	return NewFilterGroup(FilterConditionAnd, filters...)
}

// Or groups the given nodes with OR logic.
func Or(filters ...FilterNode) *MetadataFilterGroup {
	return NewFilterGroup(FilterConditionOr, filters...)
}

// ── Shorthand Conditions ─────────────────────────────────────────────────────

// Eq creates an equality filter.
func Eq(key string, value any) MetadataFilter {
	return NewFilter(key, FilterOperatorEq, value)
}

// Ne creates an inequality filter.
func Ne(key string, value any) MetadataFilter {
	return NewFilter(key, FilterOperatorNe, value)
}

// In creates a membership filter over the given values.
func In(key string, values ...any) MetadataFilter {
	return NewFilter(key, FilterOperatorIn, values)
}

// NotIn creates an exclusion filter over the given values.
func NotIn(key string, values ...any) MetadataFilter {
	return NewFilter(key, FilterOperatorNin, values)
}
