package xpath

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLiteral(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "", expected: `""`},
		{input: "template", expected: `"template"`},
		{input: "a'b", expected: `"a'b"`},
		{input: "template's name", expected: `"template's name"`},
		{input: `say "hi"`, expected: `'say "hi"'`},
		{input: `a'"b`, expected: `concat('a', "'", '"b')`},
		{input: `'"`, expected: `concat('', "'", '"')`},
		{input: `"'`, expected: `concat('"', "'", '')`},
		{input: `it's "x" isn't`, expected: `concat('it', "'", 's "x" isn', "'", 't')`},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, Literal(test.input), "input: %q", test.input)
	}
}

func TestLiteralRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"a'b",
		`a"b`,
		`a'"b`,
		`''""''`,
		`'`,
		`"`,
		`"'"'"'`,
		`  spaced ' and " quoted  `,
		"ünïcödé ' \"",
	}

	for _, input := range inputs {
		expr := Literal(input)
		value, err := Evaluate(expr)
		require.NoError(t, err, "expr: %s", expr)
		require.Equal(t, input, value, "expr: %s", expr)
	}
}

func TestLiteralWrapping(t *testing.T) {
	// no double quote -> double quote wrapping, verbatim
	for _, input := range []string{"abc", "a'b", "'''"} {
		out := Literal(input)
		require.Equal(t, `"`+input+`"`, out)
	}
	// double but no single quote -> single quote wrapping
	for _, input := range []string{`"`, `a"b"c`} {
		out := Literal(input)
		require.Equal(t, "'"+input+"'", out)
	}
	// both -> concat
	out := Literal(`x'y"z`)
	require.True(t, strings.HasPrefix(out, "concat("))
}

func TestTextEquals(t *testing.T) {
	require.Equal(t, `normalize-space(.) = "template's name"`, TextEquals("template's name"))
}

func TestEvaluateRejectsMalformed(t *testing.T) {
	for _, expr := range []string{
		"",
		"abc",
		`"unterminated`,
		`"a" "b"`,
		`concat('a')`,
		`concat('a', )`,
		`concat('a' 'b')`,
		`concat('a', 'b'`,
	} {
		_, err := Evaluate(expr)
		require.Error(t, err, "expr: %s", expr)
	}
}
