package milvus

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Aleph-Alpha/vecdb/v1/vectorstore"
)

// compileFilters renders a filter tree into one Milvus boolean expression.
//
// Leaves render as " key op literal ". Groups compile every child, drop the
// ones that compile to the empty string (nested empty groups elide cleanly),
// return a single surviving child unwrapped, and otherwise join the children
// with the upper-cased condition inside exactly one pair of parentheses.
// Milvus has no operator precedence table, so parenthesization follows the
// tree's nesting and nothing else.
//
// An empty or nil tree compiles to "", which callers must treat as "no
// filter". Operators are not validated here; an operator outside the known
// set renders through the same two-sided template and is left for the backend
// to reject.
func compileFilters(node vectorstore.FilterNode) string {
	switch n := node.(type) {
	case vectorstore.MetadataFilter:
		return " " + n.Key + " " + string(n.Operator) + " " + serializeValue(n.Value) + " "
	case *vectorstore.MetadataFilter:
		if n == nil {
			return ""
		}
		return compileFilters(*n)
	case vectorstore.MetadataFilterGroup:
		return compileGroup(n)
	case *vectorstore.MetadataFilterGroup:
		if n == nil {
			return ""
		}
		return compileGroup(*n)
	default:
		return ""
	}
}

func compileGroup(group vectorstore.MetadataFilterGroup) string {
	compiled := make([]string, 0, len(group.Filters))
	for _, child := range group.Filters {
		if expr := compileFilters(child); expr != "" {
			compiled = append(compiled, expr)
		}
	}

	switch len(compiled) {
	case 0:
		return ""
	case 1:
		// No redundant parentheses around a single child
		return compiled[0]
	}

	condition := strings.ToUpper(string(group.Condition))
	return "(" + strings.Join(compiled, " "+condition+" ") + ")"
}

// serializeValue renders a single filter value as a Milvus expression literal:
// strings double-quoted, arrays recursively serialized inside brackets,
// timestamps as quoted RFC3339 strings, other scalars in their canonical
// unquoted form.
//
// Strings are escaped with strconv.Quote so a value containing quote
// characters cannot terminate the literal and leak into the expression
// grammar.
func serializeValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return strconv.Quote(v.UTC().Format(time.RFC3339))
	case []any:
		return serializeArray(v)
	case []string:
		elems := make([]any, len(v))
		for i, e := range v {
			elems[i] = e
		}
		return serializeArray(elems)
	case []int:
		elems := make([]any, len(v))
		for i, e := range v {
			elems[i] = e
		}
		return serializeArray(elems)
	case []int64:
		elems := make([]any, len(v))
		for i, e := range v {
			elems[i] = e
		}
		return serializeArray(elems)
	case []float64:
		elems := make([]any, len(v))
		for i, e := range v {
			elems[i] = e
		}
		return serializeArray(elems)
	default:
		// Malformed input is passed through as-is
		return fmt.Sprintf("%v", v)
	}
}

func serializeArray(values []any) string {
	elems := make([]string, len(values))
	for i, v := range values {
		elems[i] = serializeValue(v)
	}
	return "[" + strings.Join(elems, ", ") + "]"
}
