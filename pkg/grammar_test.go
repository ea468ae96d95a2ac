package corrozy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shape prints a parse tree collapsing single child rules, so only the
// grouping the grammar decided on is left
func shape(p *Pair) string {
	if len(p.Inner) == 0 {
		return p.Text
	}

	if len(p.Inner) == 1 {
		return shape(p.Inner[0])
	}

	parts := make([]string, len(p.Inner))
	for i, inner := range p.Inner {
		parts[i] = shape(inner)
	}

	return "(" + strings.Join(parts, " ") + ")"
}

func parseExpressionTree(t *testing.T, src string) *Pair {
	tree, err := ParseSource("testing", src+";")
	require.NoError(t, err, src)
	require.Len(t, tree.Inner, 1)

	stmt := tree.Inner[0].first()
	require.Equal(t, RuleExpressionStatement, stmt.Rule)

	return stmt.first()
}

func TestGrammarPrecedence(t *testing.T) {
	cases := []struct {
		data   string
		expect string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"10 - 2 * 3", "(10 - (2 * 3))"},
		{"a - b - c", "(a - b - c)"},
		{"a * b / c + d", "((a * b / c) + d)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a || b && c == d", "(a || (b && (c == d)))"},
		{"a < b == c > d", "((a < b) == (c > d))"},
		{"x >= -1", "(x >= -1)"},
		{"x -1", "(x - 1)"},
	}

	for _, c := range cases {
		tree := parseExpressionTree(t, c.data)
		assert.Equal(t, RuleExpression, tree.Rule)
		assert.Equal(t, c.expect, shape(tree), c.data)
	}
}

func TestGrammarBinaryLevelsAreFlat(t *testing.T) {
	tree := parseExpressionTree(t, "a + b - c + d")

	binary := tree.first()
	require.Equal(t, RuleBinaryExpression, binary.Rule)
	require.Len(t, binary.Inner, 7)

	for i, inner := range binary.Inner {
		if i%2 == 1 {
			assert.Equal(t, RuleOperator, inner.Rule)
		} else {
			assert.Equal(t, RulePostfixExpression, inner.Rule)
		}
	}
}

func TestGrammarPostfix(t *testing.T) {
	tree := parseExpressionTree(t, "obj.method1().property[2]")

	postfix := tree.first()
	require.Equal(t, RulePostfixExpression, postfix.Rule)
	require.Len(t, postfix.Inner, 4)

	assert.Equal(t, RulePrimary, postfix.Inner[0].Rule)
	assert.Equal(t, RuleFunctionCall, postfix.Inner[1].Rule)
	assert.Equal(t, RuleIdentifier, postfix.Inner[2].Rule)
	assert.Equal(t, "property", postfix.Inner[2].Text)
	assert.Equal(t, RuleExpression, postfix.Inner[3].Rule)
}

func TestGrammarStatements(t *testing.T) {
	cases := []struct {
		data   string
		expect []Rule
	}{
		{"let x: int = 1;", []Rule{RuleVariableDeclaration}},
		{"const PI = 3.14;", []Rule{RuleConstantDeclaration}},
		{"print(1); println(2);", []Rule{RulePrintStatement, RulePrintlnStatement}},
		{"fn main() {}", []Rule{RuleFunctionDeclaration}},
		{"fn() {};", []Rule{RuleExpressionStatement}},
		{"if x { } else if y { } else { }", []Rule{RuleIfStatement}},
		{"while x { }", []Rule{RuleWhileLoop}},
		{"for (let i = 0; i < 10; i + 1) { }", []Rule{RuleForLoop}},
		{"for (;;) { }", []Rule{RuleForLoop}},
		{"// only a comment\n", nil},
	}

	for _, c := range cases {
		tree, err := ParseSource("testing", c.data)
		require.NoError(t, err, c.data)

		var got []Rule
		for _, stmt := range tree.Inner {
			require.Equal(t, RuleStatement, stmt.Rule)
			got = append(got, stmt.first().Rule)
		}

		assert.Equal(t, c.expect, got, c.data)
	}
}

func TestGrammarTypeAnnotations(t *testing.T) {
	tree, err := ParseSource("testing", "let a: int = 1; let b: User = 2;")
	require.NoError(t, err)

	basic := tree.Inner[0].first().Inner[1].first().first()
	assert.Equal(t, RuleBasicType, basic.Rule)
	assert.Equal(t, "int", basic.Text)

	custom := tree.Inner[1].first().Inner[1].first().first()
	assert.Equal(t, RuleCustomType, custom.Rule)
	assert.Equal(t, "User", custom.Text)
}

func TestGrammarSyntaxErrors(t *testing.T) {
	cases := []struct {
		data string
		msg  string
		line int
		col  int
	}{
		{"let x = ;", "expected expression, found ';'", 1, 9},
		{"let = 5;", "expected identifier, found '='", 1, 5},
		{"print(1)", "expected ';', found end of input", 1, 9},
		{"fn f() {\n  return 1;", "unclosed block statement", 2, 12},
		{"let x = (1 + 2;", "expected closing parenthesis, found ';'", 1, 15},
		{"let x: = 1;", "expected type, found '='", 1, 8},
		{"fn f() { return 1; println(\"dead\"); }", "unreachable 'println' after return statement", 1, 20},
		{"fn f() { return 1; return 2; }", "unreachable 'return' after return statement", 1, 20},
		{"let f = fn() {\n  return;\n  f();\n};", "unreachable 'f' after return statement", 3, 3},
	}

	for _, c := range cases {
		_, err := ParseSource("testing", c.data)
		require.Error(t, err, c.data)

		var syntaxErr *SyntaxError
		require.ErrorAs(t, err, &syntaxErr, c.data)
		assert.Equal(t, c.msg, syntaxErr.Msg, c.data)
		assert.Equal(t, c.line, syntaxErr.Loc.Line, c.data)
		assert.Equal(t, c.col, syntaxErr.Loc.Col, c.data)
	}
}

func TestRuleString(t *testing.T) {
	assert.Equal(t, "binary_expression", RuleBinaryExpression.String())
	assert.Equal(t, "rule(999)", Rule(999).String())
}
