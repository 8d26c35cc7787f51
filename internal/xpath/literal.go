// Package xpath builds XPath string literals out of arbitrary text.
//
// XPath 1.0 has no escape sequences inside string literals, a literal is either
// wrapped in double quotes (and cannot contain one) or in single quotes (and cannot
// contain one). Text containing both has to be spelled out with concat().
package xpath

import (
	"fmt"
	"strings"
)

// Literal returns an XPath expression that evaluates to exactly `value`.
func Literal(value string) string {
	if !strings.Contains(value, `"`) {
		return `"` + value + `"`
	}
	if !strings.Contains(value, "'") {
		return "'" + value + "'"
	}

	segments := strings.Split(value, "'")
	parts := make([]string, 0, len(segments)*2-1)
	for i, segment := range segments {
		if i > 0 {
			parts = append(parts, `"'"`)
		}
		// segments never contain a single quote since we split on it
		parts = append(parts, "'"+segment+"'")
	}
	return fmt.Sprintf("concat(%s)", strings.Join(parts, ", "))
}

// TextEquals returns a predicate body matching nodes whose whitespace-normalized
// text is `value`.
func TextEquals(value string) string {
	return fmt.Sprintf("normalize-space(.) = %s", Literal(value))
}
