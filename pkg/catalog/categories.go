package catalog

import "strings"

// Display names for the built-in categories.
const (
	CategoryFlow     = "Flow"
	CategorySession  = "Session"
	CategoryVisitor  = "Visitor"
	CategoryContact  = "Contact"
	CategoryEquality = "Equality and Comparison"
	CategoryLogical  = "Logical Operations"
	CategoryString   = "String Manipulation"
)

// Prefix is a variable namespace such as VISITOR. The dot is part of the match.
type Prefix struct {
	Name     string
	Category string
}

// Prefixes is matched case-insensitively, in order.
var Prefixes = []Prefix{
	{Name: "FLOW", Category: CategoryFlow},
	{Name: "SESSION", Category: CategorySession},
	{Name: "VISITOR", Category: CategoryVisitor},
	{Name: "CONTACT", Category: CategoryContact},
}

var functionGroups = map[string]string{
	"eq":        CategoryEquality,
	"gt":        CategoryEquality,
	"lt":        CategoryEquality,
	"and":       CategoryLogical,
	"or":        CategoryLogical,
	"not":       CategoryLogical,
	"uppercase": CategoryString,
	"lowercase": CategoryString,
	"trim":      CategoryString,
}

// MatchPrefix reports the variable category whose "NAME." prefix starts s and
// the number of bytes it covers, dot included.
func MatchPrefix(s string) (category string, n int) {
	for _, p := range Prefixes {
		end := len(p.Name) + 1
		if len(s) < end || s[end-1] != '.' {
			continue
		}
		if strings.EqualFold(s[:end-1], p.Name) {
			return p.Category, end
		}
	}
	return "", 0
}

// FunctionCategory returns the group of a known function name. Function names
// are case-sensitive.
func FunctionCategory(name string) (string, bool) {
	cat, ok := functionGroups[name]
	return cat, ok
}

// IsVariableCategory tells whether category belongs to the prefix table.
func IsVariableCategory(category string) bool {
	for _, p := range Prefixes {
		if p.Category == category {
			return true
		}
	}
	return false
}
