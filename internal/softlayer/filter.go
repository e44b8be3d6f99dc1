package softlayer

import (
	"strconv"
	"strings"
)

// Filter is a SoftLayer object filter: a nested map keyed by relational
// property names whose leaves are {"operation": ...} clauses.
type Filter map[string]interface{}

// knownOperations are the SoftLayer filter operators a user may type
// verbatim. Two-character operators come first so "<=" is not read as "<".
var knownOperations = []string{"<=", ">=", "!~", "*=", "^=", "$=", "_=", "<", ">", "~"}

// Set stores value at the dotted path (e.g. "virtualGuests.datacenter.name"),
// creating intermediate levels as needed, and returns f for chaining.
func (f Filter) Set(path string, value interface{}) Filter {
	parts := strings.Split(path, ".")
	node := f
	for _, part := range parts[:len(parts)-1] {
		next, ok := node[part].(Filter)
		if !ok {
			next = Filter{}
			node[part] = next
		}
		node = next
	}
	node[parts[len(parts)-1]] = value
	return f
}

// Empty reports whether no clause has been set.
func (f Filter) Empty() bool {
	return len(f) == 0
}

// QueryFilter translates a user-supplied filter expression into a clause.
//
//	"2048"     -> exact numeric match
//	">= 2048"  -> operator passed through
//	"*web*"    -> contains
//	"*web"     -> ends with
//	"web*"     -> begins with
//	"web"      -> case-insensitive equality
func QueryFilter(expr string) map[string]interface{} {
	expr = strings.TrimSpace(expr)
	if n, err := strconv.Atoi(expr); err == nil {
		return map[string]interface{}{"operation": n}
	}

	for _, op := range knownOperations {
		if strings.HasPrefix(expr, op) {
			return map[string]interface{}{
				"operation": op + " " + strings.TrimSpace(expr[len(op):]),
			}
		}
	}

	var operation string
	switch {
	case len(expr) > 1 && strings.HasPrefix(expr, "*") && strings.HasSuffix(expr, "*"):
		operation = "~ " + strings.Trim(expr, "*")
	case strings.HasPrefix(expr, "*"):
		operation = "$= " + strings.TrimLeft(expr, "*")
	case strings.HasSuffix(expr, "*"):
		operation = "^= " + strings.TrimRight(expr, "*")
	default:
		operation = "_= " + expr
	}
	return map[string]interface{}{"operation": operation}
}

// ExactFilter matches a value exactly, without operator parsing.
func ExactFilter(value interface{}) map[string]interface{} {
	return map[string]interface{}{"operation": value}
}

// InFilter matches any of values.
func InFilter(values []string) map[string]interface{} {
	return map[string]interface{}{
		"operation": "in",
		"options": []map[string]interface{}{
			{"name": "data", "value": values},
		},
	}
}
