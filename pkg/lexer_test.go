package corrozy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.corrozy.dev/internal/test"
)

func withoutLocations(toks []Token) []Token {
	var out []Token
	for _, tok := range toks {
		out = append(out, Token{Typ: tok.Typ, Value: tok.Value})
	}

	return out
}

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []Token
	}{
		{
			"fn main() {}",
			false,
			[]Token{
				{Typ: TokenFn, Value: "fn"},
				{Typ: TokenIdentifier, Value: "main"},
				{Typ: TokenOpenParentheses, Value: "("},
				{Typ: TokenCloseParentheses, Value: ")"},
				{Typ: TokenOpenCurly, Value: "{"},
				{Typ: TokenCloseCurly, Value: "}"},
				{Typ: TokenEOF},
			},
		},
		{
			"//this is a comment\n",
			false,
			[]Token{
				{Typ: TokenLineComment, Value: "this is a comment"},
				{Typ: TokenEOF},
			},
		},
		{
			"let únicódeShouldBeVàlid: int = 1;",
			false,
			[]Token{
				{Typ: TokenLet, Value: "let"},
				{Typ: TokenIdentifier, Value: "únicódeShouldBeVàlid"},
				{Typ: TokenColon, Value: ":"},
				{Typ: TokenIdentifier, Value: "int"},
				{Typ: TokenAssign, Value: "="},
				{Typ: TokenInteger, Value: "1"},
				{Typ: TokenSemicolon, Value: ";"},
				{Typ: TokenEOF},
			},
		},
		{
			"const PI = 3.14;",
			false,
			[]Token{
				{Typ: TokenConst, Value: "const"},
				{Typ: TokenIdentifier, Value: "PI"},
				{Typ: TokenAssign, Value: "="},
				{Typ: TokenFloat, Value: "3.14"},
				{Typ: TokenSemicolon, Value: ";"},
				{Typ: TokenEOF},
			},
		},
		{
			`"double" 'single'`,
			false,
			[]Token{
				{Typ: TokenString, Value: "double"},
				{Typ: TokenRawString, Value: "single"},
				{Typ: TokenEOF},
			},
		},
		{
			`"say \"hi\"\n"`,
			false,
			[]Token{
				{Typ: TokenString, Value: `say \"hi\"\n`},
				{Typ: TokenEOF},
			},
		},
		{
			`""`,
			false,
			[]Token{
				{Typ: TokenString, Value: ""},
				{Typ: TokenEOF},
			},
		},
		{
			"a<=b>=c==d!=e&&f||g=>h",
			false,
			[]Token{
				{Typ: TokenIdentifier, Value: "a"},
				{Typ: TokenLessEqual, Value: "<="},
				{Typ: TokenIdentifier, Value: "b"},
				{Typ: TokenGreaterEqual, Value: ">="},
				{Typ: TokenIdentifier, Value: "c"},
				{Typ: TokenEqual, Value: "=="},
				{Typ: TokenIdentifier, Value: "d"},
				{Typ: TokenNotEqual, Value: "!="},
				{Typ: TokenIdentifier, Value: "e"},
				{Typ: TokenAnd, Value: "&&"},
				{Typ: TokenIdentifier, Value: "f"},
				{Typ: TokenOr, Value: "||"},
				{Typ: TokenIdentifier, Value: "g"},
				{Typ: TokenArrow, Value: "=>"},
				{Typ: TokenIdentifier, Value: "h"},
				{Typ: TokenEOF},
			},
		},
		{
			"obj.items[0]",
			false,
			[]Token{
				{Typ: TokenIdentifier, Value: "obj"},
				{Typ: TokenDot, Value: "."},
				{Typ: TokenIdentifier, Value: "items"},
				{Typ: TokenOpenBracket, Value: "["},
				{Typ: TokenInteger, Value: "0"},
				{Typ: TokenCloseBracket, Value: "]"},
				{Typ: TokenEOF},
			},
		},
		{
			"\"unclosed string",
			true,
			nil,
		},
		{
			"1.",
			true,
			nil,
		},
		{
			"@",
			true,
			nil,
		},
	}

	for _, c := range cases {
		toks, err := NewLexerFromString("testing", c.data).Run()
		if c.fail {
			assert.Error(t, err, c.data)
			assert.IsType(t, &SyntaxError{}, err)
			continue
		}

		require.NoError(t, err, c.data)
		assert.Equal(t, c.expect, withoutLocations(toks), c.data)
	}
}

func TestLexerLocations(t *testing.T) {
	toks, err := NewLexerFromString("main.crz", "let x = 1;\n  println(x);").Run()
	require.NoError(t, err)

	assert.Equal(t, &Location{Filename: "main.crz", Line: 1, Col: 1}, toks[0].Loc)
	assert.Equal(t, &Location{Filename: "main.crz", Line: 1, Col: 5}, toks[1].Loc)
	assert.Equal(t, &Location{Filename: "main.crz", Line: 2, Col: 3}, toks[5].Loc)
	assert.Equal(t, "main.crz:2:3", toks[5].Loc.String())
}

func TestLexerErrorLocation(t *testing.T) {
	_, err := NewLexerFromString("main.crz", "let x = 1;\nlet y = #;").Run()
	require.Error(t, err)

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 2, syntaxErr.Loc.Line)
	assert.Equal(t, 9, syntaxErr.Loc.Col)
	assert.Contains(t, syntaxErr.Msg, "invalid symbol '#'")
}

func TestLexerRandomInput(t *testing.T) {
	for i := 0; i < 50; i++ {
		data := test.GetRandomTokens(200)

		toks, err := NewLexerFromString("random", data).Run()
		require.NoError(t, err, data)
		assert.Equal(t, TokenEOF, toks[len(toks)-1].Typ)
	}
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		data := test.GetRandomTokens(size)
		l := NewLexer("bench", strings.NewReader(data))

		var err error
		b.StartTimer()

		benchResult, err = l.Run()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer100000(b *testing.B) {
	benchmarkLexer(100000, b)
}
