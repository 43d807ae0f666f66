package vectorstore

// FilterOperator is the comparison applied by a MetadataFilter leaf.
// The constants cover the closed set understood by all adapters; unknown
// operator strings are passed through to the backend unvalidated and may be
// rejected there.
type FilterOperator string

const (
	FilterOperatorEq  FilterOperator = "=="
	FilterOperatorNe  FilterOperator = "!="
	FilterOperatorGt  FilterOperator = ">"
	FilterOperatorGte FilterOperator = ">="
	FilterOperatorLt  FilterOperator = "<"
	FilterOperatorLte FilterOperator = "<="
	FilterOperatorIn  FilterOperator = "in"
	FilterOperatorNin FilterOperator = "not in"
)

// FilterCondition combines the children of a MetadataFilterGroup.
type FilterCondition string

const (
	FilterConditionAnd FilterCondition = "and"
	FilterConditionOr  FilterCondition = "or"
)

// FilterNode is the sealed variant over filter tree nodes. The only
// implementations are MetadataFilter (leaf) and MetadataFilterGroup (node);
// adapters recurse over these two cases structurally.
type FilterNode interface {
	// isFilterNode is a marker method to seal the variant
	isFilterNode()
}

// MetadataFilter is a leaf comparison against a single metadata field.
//
// Value may be a string, a number, a bool, or an array of those (arrays are
// typically used with the "in" / "not in" operators).
type MetadataFilter struct {
	Key      string         `json:"key"`
	Operator FilterOperator `json:"operator"`
	Value    any            `json:"value"`
}

func (MetadataFilter) isFilterNode() {}

// MetadataFilterGroup combines an ordered sequence of filters or nested
// groups under one AND/OR condition. Groups nest to arbitrary depth;
// parenthesization in the compiled form follows nesting exactly, since the
// grouping of the tree is the only precedence mechanism.
//
// A group with zero children means "no filter" and must never be compiled
// into a "match nothing" expression.
type MetadataFilterGroup struct {
	Condition FilterCondition `json:"condition"`
	Filters   []FilterNode    `json:"filters"`
}

func (MetadataFilterGroup) isFilterNode() {}
