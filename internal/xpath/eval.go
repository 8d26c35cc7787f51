package xpath

import (
	"fmt"
	"strings"
)

// Evaluate computes the string value of an expression in the subset of XPath produced
// by Literal: a single quoted string or a concat() of quoted strings.
func Evaluate(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "concat(") {
		if !strings.HasSuffix(expr, ")") {
			return "", fmt.Errorf("unterminated concat: %s", expr)
		}
		return evaluateArgs(expr[len("concat(") : len(expr)-1])
	}

	value, rest, err := readString(expr)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(rest) != "" {
		return "", fmt.Errorf("unexpected trailing input: %q", rest)
	}
	return value, nil
}

func evaluateArgs(args string) (string, error) {
	var out strings.Builder
	rest := strings.TrimSpace(args)
	count := 0
	for rest != "" {
		value, remaining, err := readString(rest)
		if err != nil {
			return "", err
		}
		out.WriteString(value)
		count++

		remaining = strings.TrimSpace(remaining)
		if remaining == "" {
			break
		}
		if remaining[0] != ',' {
			return "", fmt.Errorf("expected ',' got %q", remaining)
		}
		rest = strings.TrimSpace(remaining[1:])
		if rest == "" {
			return "", fmt.Errorf("trailing ',' in concat")
		}
	}
	if count < 2 {
		return "", fmt.Errorf("concat needs at least 2 arguments, got %d", count)
	}
	return out.String(), nil
}

func readString(input string) (value string, rest string, err error) {
	if input == "" {
		return "", "", fmt.Errorf("expected string literal, got end of input")
	}
	quote := input[0]
	if quote != '"' && quote != '\'' {
		return "", "", fmt.Errorf("expected string literal, got %q", input)
	}
	end := strings.IndexByte(input[1:], quote)
	if end < 0 {
		return "", "", fmt.Errorf("unterminated string literal: %s", input)
	}
	return input[1 : end+1], input[end+2:], nil
}
