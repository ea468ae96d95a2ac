package corrozy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intLit(v int64) *Literal {
	return &Literal{Kind: LiteralInteger, Int: v}
}

func strLit(s string) *Literal {
	return &Literal{Kind: LiteralString, Str: s, Quote: QuoteInterpolated}
}

func TestParser(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []Stmt
	}{
		{
			"fn main() {}",
			false,
			[]Stmt{
				&FuncDecl{Name: "main", Body: &Block{}},
			},
		},
		{
			"// this is a comment\n",
			false,
			nil,
		},
		{
			"fn main() {\n// this is a comment \n}",
			false,
			[]Stmt{
				&FuncDecl{Name: "main", Body: &Block{}},
			},
		},
		{
			"let únicódeShouldBeVàlid: int = 1;",
			false,
			[]Stmt{
				&VariableDecl{Type: "int", Name: "únicódeShouldBeVàlid", Value: intLit(1)},
			},
		},
		{
			"let name = 'raw';",
			false,
			[]Stmt{
				&VariableDecl{Name: "name", Value: &Literal{Kind: LiteralString, Str: "raw", Quote: QuoteRaw}},
			},
		},
		{
			"const PI: float = 3.14;",
			false,
			[]Stmt{
				&ConstantDecl{Type: "float", Name: "PI", Value: &Literal{Kind: LiteralFloat, Float: 3.14}},
			},
		},
		{
			"let ok = true; let n = -5;",
			false,
			[]Stmt{
				&VariableDecl{Name: "ok", Value: &Literal{Kind: LiteralBool, Bool: true}},
				&VariableDecl{Name: "n", Value: intLit(-5)},
			},
		},
		{
			"print(\"a\"); println(x);",
			false,
			[]Stmt{
				&PrintStmt{Expr: strLit("a")},
				&PrintStmt{Expr: &Variable{Name: "x"}, Newline: true},
			},
		},
		{
			"fn add(a: int, b): int { return a + b; }",
			false,
			[]Stmt{
				&FuncDecl{
					Name:       "add",
					Params:     []Parameter{{Name: "a", Type: "int"}, {Name: "b"}},
					ReturnType: "int",
					Body: &Block{
						Return: &ReturnStmt{
							Value: &BinaryExpr{Left: &Variable{Name: "a"}, Op: BinaryAddition, Right: &Variable{Name: "b"}},
						},
					},
				},
			},
		},
		{
			"fn f() { println(1); return; }",
			false,
			[]Stmt{
				&FuncDecl{
					Name: "f",
					Body: &Block{
						Statements: []Stmt{&PrintStmt{Expr: intLit(1), Newline: true}},
						Return:     &ReturnStmt{},
					},
				},
			},
		},
		{
			"10 - 2 * 3;",
			false,
			[]Stmt{
				&ExprStmt{Expr: &BinaryExpr{
					Left: intLit(10),
					Op:   BinarySubtraction,
					Right: &BinaryExpr{
						Left:  intLit(2),
						Op:    BinaryMultiplication,
						Right: intLit(3),
					},
				}},
			},
		},
		{
			"a - b - c;",
			false,
			[]Stmt{
				&ExprStmt{Expr: &BinaryExpr{
					Left:  &BinaryExpr{Left: &Variable{Name: "a"}, Op: BinarySubtraction, Right: &Variable{Name: "b"}},
					Op:    BinarySubtraction,
					Right: &Variable{Name: "c"},
				}},
			},
		},
		{
			"(x);",
			false,
			[]Stmt{
				&ExprStmt{Expr: &Parenthesized{Inner: &Variable{Name: "x"}}},
			},
		},
		{
			"obj.method1().property[2];",
			false,
			[]Stmt{
				&ExprStmt{Expr: &PostfixChain{
					Base: &Variable{Name: "obj"},
					Suffixes: []Suffix{
						&MethodSuffix{Call: &FuncCall{Name: "method1"}},
						&PropertySuffix{Name: "property"},
						&IndexSuffix{Index: intLit(2)},
					},
				}},
			},
		},
		{
			"add(1, [2, 3]);",
			false,
			[]Stmt{
				&ExprStmt{Expr: &FuncCall{
					Name: "add",
					Args: []Expr{intLit(1), &ArrayLiteral{Elements: []Expr{intLit(2), intLit(3)}}},
				}},
			},
		},
		{
			"let inc = fn(x: int): int => x + 1;",
			false,
			[]Stmt{
				&VariableDecl{Name: "inc", Value: &Closure{
					Params:     []Parameter{{Name: "x", Type: "int"}},
					ReturnType: "int",
					Body: &ExprBody{Expr: &BinaryExpr{
						Left:  &Variable{Name: "x"},
						Op:    BinaryAddition,
						Right: intLit(1),
					}},
				}},
			},
		},
		{
			"let f = fn() { println(y); };",
			false,
			[]Stmt{
				&VariableDecl{Name: "f", Value: &Closure{
					Body: &BlockBody{Block: &Block{
						Statements: []Stmt{&PrintStmt{Expr: &Variable{Name: "y"}, Newline: true}},
					}},
				}},
			},
		},
		{
			"if x > 0 { println(1); } else if x < 0 { println(2); } else { println(3); }",
			false,
			[]Stmt{
				&IfStmt{
					Cond: &BinaryExpr{Left: &Variable{Name: "x"}, Op: BinaryGreater, Right: intLit(0)},
					Then: &Block{Statements: []Stmt{&PrintStmt{Expr: intLit(1), Newline: true}}},
					Else: &ElseIf{If: &IfStmt{
						Cond: &BinaryExpr{Left: &Variable{Name: "x"}, Op: BinaryLess, Right: intLit(0)},
						Then: &Block{Statements: []Stmt{&PrintStmt{Expr: intLit(2), Newline: true}}},
						Else: &ElseBlock{Block: &Block{Statements: []Stmt{&PrintStmt{Expr: intLit(3), Newline: true}}}},
					}},
				},
			},
		},
		{
			"fn {}",
			true,
			nil,
		},
		{
			"let x = 1",
			true,
			nil,
		},
		{
			"fn f() { return; println(1); }",
			true,
			nil,
		},
		{
			"fn f() { return 1; return 2; }",
			true,
			nil,
		},
	}

	for _, c := range cases {
		stmts, err := NewParser("testing").Parse(c.data)
		if c.fail {
			assert.Error(t, err, c.data)
			continue
		}

		require.NoError(t, err, c.data)
		assert.Equal(t, c.expect, stmts, c.data)
	}
}

func TestParserLoopsAreNotImplemented(t *testing.T) {
	cases := []struct {
		data string
		msg  string
	}{
		{"while x < 10 { println(x); }", "while loops are not implemented"},
		{"for (let i = 0; i < 10; i + 1) { println(i); }", "for loops are not implemented"},
	}

	for _, c := range cases {
		_, err := NewParser("testing").Parse(c.data)
		require.Error(t, err, c.data)

		assert.ErrorIs(t, err, ErrNotImplemented)

		var structural *StructuralError
		require.ErrorAs(t, err, &structural)
		assert.Equal(t, c.msg, structural.Msg)
		assert.Equal(t, 1, structural.Loc.Line)
	}
}

func TestParserMissingDeclarationValue(t *testing.T) {
	// A tree the grammar never produces, to reach the parser's own check
	tree := &Pair{
		Rule: RuleProgram,
		Inner: []*Pair{
			{
				Rule: RuleStatement,
				Inner: []*Pair{
					{
						Rule:  RuleVariableDeclaration,
						Loc:   &Location{Filename: "testing", Line: 3, Col: 1},
						Inner: []*Pair{{Rule: RuleIdentifier, Text: "x"}},
					},
				},
			},
		},
	}

	_, err := NewParser("testing").Program(tree)
	require.Error(t, err)

	var structural *StructuralError
	require.ErrorAs(t, err, &structural)
	assert.Equal(t, "declaration missing value", structural.Msg)
	assert.Equal(t, "testing:3:1 declaration missing value", err.Error())
}

func TestParserSkipsUnknownRules(t *testing.T) {
	tree := &Pair{
		Rule: RuleProgram,
		Inner: []*Pair{
			{Rule: RuleOperator, Text: "+"},
			{
				Rule: RuleStatement,
				Inner: []*Pair{
					{
						Rule: RulePrintlnStatement,
						Inner: []*Pair{
							{Rule: RuleOperator, Text: "ignored"},
							{Rule: RuleExpression, Inner: []*Pair{
								{Rule: RulePostfixExpression, Inner: []*Pair{
									{Rule: RulePrimary, Inner: []*Pair{{Rule: RuleIdentifier, Text: "x"}}},
								}},
							}},
						},
					},
				},
			},
		},
	}

	stmts, err := NewParser("testing").Program(tree)
	require.NoError(t, err)
	assert.Equal(t, []Stmt{&PrintStmt{Expr: &Variable{Name: "x"}, Newline: true}}, stmts)
}

func TestParserFilename(t *testing.T) {
	assert.Equal(t, "main.crz", NewParser("main.crz").GetFilename())

	_, err := NewParser("main.crz").Parse("let x = ;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "main.crz:1:9")
}
