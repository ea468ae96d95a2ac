package corrozy

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

//go:generate stringer -type=TokenType -trimprefix=Token
const (
	EOF rune = 0

	TokenError TokenType = iota
	TokenEOF
	TokenInteger
	TokenFloat
	TokenString
	TokenRawString

	TokenIdentifier
	TokenLet
	TokenConst
	TokenFn
	TokenIf
	TokenElse
	TokenWhile
	TokenFor
	TokenReturn
	TokenPrint
	TokenPrintln
	TokenTrue
	TokenFalse

	TokenPlus
	TokenMinus
	TokenMulti
	TokenDiv
	TokenEqual
	TokenNotEqual
	TokenLess
	TokenGreater
	TokenLessEqual
	TokenGreaterEqual
	TokenAnd
	TokenOr
	TokenAssign
	TokenArrow
	TokenColon
	TokenSemicolon
	TokenComma
	TokenDot
	TokenLineComment
	TokenOpenParentheses
	TokenCloseParentheses
	TokenOpenCurly
	TokenCloseCurly
	TokenOpenBracket
	TokenCloseBracket
)

var keywordTable = map[string]TokenType{
	"let":     TokenLet,
	"const":   TokenConst,
	"fn":      TokenFn,
	"if":      TokenIf,
	"else":    TokenElse,
	"while":   TokenWhile,
	"for":     TokenFor,
	"return":  TokenReturn,
	"print":   TokenPrint,
	"println": TokenPrintln,
	"true":    TokenTrue,
	"false":   TokenFalse,
}

var operatorTable = map[string]TokenType{
	"+":  TokenPlus,
	"-":  TokenMinus,
	"*":  TokenMulti,
	"/":  TokenDiv,
	"==": TokenEqual,
	"!=": TokenNotEqual,
	"<":  TokenLess,
	">":  TokenGreater,
	"<=": TokenLessEqual,
	">=": TokenGreaterEqual,
	"&&": TokenAnd,
	"||": TokenOr,
	"=":  TokenAssign,
	"=>": TokenArrow,
	":":  TokenColon,
	";":  TokenSemicolon,
	",":  TokenComma,
	".":  TokenDot,
	"//": TokenLineComment,
	"(":  TokenOpenParentheses,
	")":  TokenCloseParentheses,
	"{":  TokenOpenCurly,
	"}":  TokenCloseCurly,
	"[":  TokenOpenBracket,
	"]":  TokenCloseBracket,
}

type Token struct {
	Typ   TokenType
	Value string
	Loc   *Location
}

func (t Token) isValid() bool {
	return t.Typ != TokenError && t.Typ != TokenEOF
}

func (t Token) isComment() bool {
	return t.Typ == TokenLineComment
}

func (t Token) describe() string {
	switch t.Typ {
	case TokenEOF:
		return "end of input"
	case TokenString:
		return fmt.Sprintf("string \"%s\"", t.Value)
	case TokenRawString:
		return fmt.Sprintf("string '%s'", t.Value)
	default:
		return fmt.Sprintf("'%s'", t.Value)
	}
}

type Lexer struct {
	filename string
	reader   *bufio.Reader
	tokens   []Token

	line, col int
	start     Location
}

func NewLexer(filename string, reader io.Reader) *Lexer {
	return &Lexer{
		filename: filename,
		reader:   bufio.NewReader(reader),
		line:     1,
		col:      1,
	}
}

func NewLexerFromString(filename, src string) *Lexer {
	return NewLexer(filename, strings.NewReader(src))
}

// Run tokenizes the whole input. Comments are kept in the stream, the grammar skips them
func (l *Lexer) Run() ([]Token, error) {
	for state := defaultState; state != nil; {
		state = state(l)
	}

	if n := len(l.tokens); n > 0 && l.tokens[n-1].Typ == TokenError {
		last := l.tokens[n-1]
		return nil, &SyntaxError{Loc: last.Loc, Msg: last.Value}
	}

	return l.tokens, nil
}

func defaultState(l *Lexer) stateFunc {
	for {
		l.mark()

		switch r := l.peek(); {
		case r == EOF:
			l.emmitValue(TokenEOF, "")
			return nil
		case unicode.IsSpace(r):
			l.next()
			continue
		case '0' <= r && r <= '9':
			return numberState
		case r == '"' || r == '\'':
			return stringState
		case r == '_' || unicode.IsLetter(r):
			return identifierState
		default:
			return operatorState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	var num strings.Builder
	for r := l.peek(); '0' <= r && r <= '9'; r = l.peek() {
		num.WriteRune(l.next())
	}

	if l.peek() != '.' {
		return l.emmitValue(TokenInteger, num.String())
	}

	num.WriteRune(l.next()) // Decimal point
	if r := l.peek(); r < '0' || r > '9' {
		return l.errorf("malformed number '%s'", num.String())
	}

	for r := l.peek(); '0' <= r && r <= '9'; r = l.peek() {
		num.WriteRune(l.next())
	}

	return l.emmitValue(TokenFloat, num.String())
}

func stringState(l *Lexer) stateFunc {
	quote := l.next()

	var str strings.Builder
	for r := l.next(); r != quote; r = l.next() {
		if r == EOF {
			return l.errorf("unclosed string: %s", str.String())
		}

		str.WriteRune(r)

		if r == '\\' { // Escapes are kept verbatim, PHP resolves them
			esc := l.next()
			if esc == EOF {
				return l.errorf("unclosed string: %s", str.String())
			}

			str.WriteRune(esc)
		}
	}

	if quote == '\'' {
		return l.emmitValue(TokenRawString, str.String())
	}

	return l.emmitValue(TokenString, str.String())
}

func identifierState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r); r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emmitValue(t, id.String())
	}

	return l.emmitValue(TokenIdentifier, id.String())
}

func operatorState(l *Lexer) stateFunc {
	r := l.next()

	// Some operators can be two runes
	op := string(r) + string(l.peek())
	if tok, ok := operatorTable[op]; ok {
		l.next() // Skip

		if tok == TokenLineComment {
			return lineCommentState
		}

		return l.emmitValue(tok, op)
	}

	if tok, ok := operatorTable[string(r)]; ok {
		return l.emmitValue(tok, string(r))
	}

	return l.errorf("invalid symbol '%c'", r)
}

func lineCommentState(l *Lexer) stateFunc {
	var id strings.Builder
	for r := l.peek(); r != '\n' && r != EOF; r = l.peek() {
		id.WriteRune(l.next())
	}

	return l.emmitValue(TokenLineComment, id.String())
}

func (l *Lexer) mark() {
	l.start = Location{Filename: l.filename, Line: l.line, Col: l.col}
}

func (l *Lexer) location() *Location {
	loc := l.start
	return &loc
}

func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	l.tokens = append(l.tokens, Token{
		Typ:   TokenError,
		Value: fmt.Sprintf(format, args...),
		Loc:   l.location(),
	})

	return nil
}

func (l *Lexer) emmitValue(t TokenType, val string) stateFunc {
	l.tokens = append(l.tokens, Token{
		Typ:   t,
		Value: val,
		Loc:   l.location(),
	})

	return defaultState
}

func (l *Lexer) peek() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		return l.runeError(err)
	}
	_ = l.reader.UnreadRune()

	return r
}

func (l *Lexer) next() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		return l.runeError(err)
	}

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *Lexer) runeError(err error) rune {
	if errors.Is(err, io.EOF) {
		return EOF
	}

	return utf8.RuneError
}
