package qdrant

import (
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/Aleph-Alpha/vecdb/v1/vectorstore"
)

// buildFilter compiles a filter tree into Qdrant's native filter model.
//
// AND groups map to Must clauses, OR groups to Should clauses, and nested
// groups nest as filter conditions, so the grouping of the tree is preserved
// exactly. Empty groups compile to nil, which Qdrant treats as "no filter".
// Leaves whose operator or value type has no Qdrant equivalent are elided.
func buildFilter(node vectorstore.FilterNode) *qdrant.Filter {
	switch n := node.(type) {
	case vectorstore.MetadataFilterGroup:
		return groupFilter(n)
	case *vectorstore.MetadataFilterGroup:
		if n == nil {
			return nil
		}
		return groupFilter(*n)
	case vectorstore.MetadataFilter:
		if cond := leafCondition(n); cond != nil {
			return &qdrant.Filter{Must: []*qdrant.Condition{cond}}
		}
		return nil
	case *vectorstore.MetadataFilter:
		if n == nil {
			return nil
		}
		return buildFilter(*n)
	default:
		return nil
	}
}

func groupFilter(group vectorstore.MetadataFilterGroup) *qdrant.Filter {
	conditions := make([]*qdrant.Condition, 0, len(group.Filters))
	for _, child := range group.Filters {
		if cond := nodeCondition(child); cond != nil {
			conditions = append(conditions, cond)
		}
	}
	if len(conditions) == 0 {
		return nil
	}

	if group.Condition == vectorstore.FilterConditionOr {
		return &qdrant.Filter{Should: conditions}
	}
	return &qdrant.Filter{Must: conditions}
}

func nodeCondition(node vectorstore.FilterNode) *qdrant.Condition {
	switch n := node.(type) {
	case vectorstore.MetadataFilter:
		return leafCondition(n)
	case *vectorstore.MetadataFilter:
		if n == nil {
			return nil
		}
		return leafCondition(*n)
	case vectorstore.MetadataFilterGroup:
		return filterAsCondition(groupFilter(n))
	case *vectorstore.MetadataFilterGroup:
		if n == nil {
			return nil
		}
		return filterAsCondition(groupFilter(*n))
	default:
		return nil
	}
}

func filterAsCondition(filter *qdrant.Filter) *qdrant.Condition {
	if filter == nil {
		return nil
	}
	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Filter{Filter: filter},
	}
}

func leafCondition(filter vectorstore.MetadataFilter) *qdrant.Condition {
	switch filter.Operator {
	case vectorstore.FilterOperatorEq:
		return matchCondition(filter.Key, filter.Value)
	case vectorstore.FilterOperatorNe:
		if match := matchCondition(filter.Key, filter.Value); match != nil {
			return filterAsCondition(&qdrant.Filter{MustNot: []*qdrant.Condition{match}})
		}
		return nil
	case vectorstore.FilterOperatorGt, vectorstore.FilterOperatorGte,
		vectorstore.FilterOperatorLt, vectorstore.FilterOperatorLte:
		return rangeCondition(filter)
	case vectorstore.FilterOperatorIn:
		return anyCondition(filter.Key, filter.Value, false)
	case vectorstore.FilterOperatorNin:
		return anyCondition(filter.Key, filter.Value, true)
	default:
		// Qdrant has no raw expression passthrough for unknown operators
		return nil
	}
}

func matchCondition(key string, value any) *qdrant.Condition {
	switch v := value.(type) {
	case string:
		return qdrant.NewMatch(key, v)
	case bool:
		return qdrant.NewMatchBool(key, v)
	case int:
		return qdrant.NewMatchInt(key, int64(v))
	case int64:
		return qdrant.NewMatchInt(key, v)
	case float64:
		// JSON numbers arrive as float64
		return qdrant.NewMatchInt(key, int64(v))
	default:
		return nil
	}
}

func rangeCondition(filter vectorstore.MetadataFilter) *qdrant.Condition {
	if ts, ok := filter.Value.(time.Time); ok {
		return datetimeRangeCondition(filter.Key, filter.Operator, ts)
	}

	bound, ok := toFloat64(filter.Value)
	if !ok {
		return nil
	}

	r := &qdrant.Range{}
	switch filter.Operator {
	case vectorstore.FilterOperatorGt:
		r.Gt = &bound
	case vectorstore.FilterOperatorGte:
		r.Gte = &bound
	case vectorstore.FilterOperatorLt:
		r.Lt = &bound
	case vectorstore.FilterOperatorLte:
		r.Lte = &bound
	}
	return qdrant.NewRange(filter.Key, r)
}

func datetimeRangeCondition(key string, op vectorstore.FilterOperator, ts time.Time) *qdrant.Condition {
	bound := timestamppb.New(ts)
	r := &qdrant.DatetimeRange{}
	switch op {
	case vectorstore.FilterOperatorGt:
		r.Gt = bound
	case vectorstore.FilterOperatorGte:
		r.Gte = bound
	case vectorstore.FilterOperatorLt:
		r.Lt = bound
	case vectorstore.FilterOperatorLte:
		r.Lte = bound
	}
	return qdrant.NewDatetimeRange(key, r)
}

func anyCondition(key string, value any, except bool) *qdrant.Condition {
	values := valueSlice(value)
	if len(values) == 0 {
		return nil
	}

	// Detect the element type from the first value
	switch values[0].(type) {
	case string:
		strs := make([]string, 0, len(values))
		for _, v := range values {
			if s, ok := v.(string); ok {
				strs = append(strs, s)
			}
		}
		if except {
			return qdrant.NewMatchExceptKeywords(key, strs...)
		}
		return qdrant.NewMatchKeywords(key, strs...)
	case int, int64, float64:
		ints := make([]int64, 0, len(values))
		for _, v := range values {
			switch n := v.(type) {
			case int:
				ints = append(ints, int64(n))
			case int64:
				ints = append(ints, n)
			case float64:
				ints = append(ints, int64(n))
			}
		}
		if except {
			return qdrant.NewMatchExceptInts(key, ints...)
		}
		return qdrant.NewMatchInts(key, ints...)
	default:
		return nil
	}
}

func valueSlice(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out
	case []int64:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out
	case []int:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = e
		}
		return out
	default:
		return nil
	}
}

func toFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
