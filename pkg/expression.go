package corrozy

import (
	"fmt"
	"strconv"
	"strings"
)

type ExpressionGenerator struct {
	closures *ClosureGenerator
}

func (g *ExpressionGenerator) Generate(expr Expr, scope *Scope) (string, error) {
	switch e := expr.(type) {
	case *Literal:
		return literal(e), nil
	case *Variable:
		if scope.Constant(e.Name) {
			return constantName(e.Name), nil
		}

		return "$" + e.Name, nil
	case *FuncCall:
		return g.call(e, scope)
	case *Parenthesized:
		inner, err := g.Generate(e.Inner, scope)
		if err != nil {
			return "", err
		}

		return "(" + inner + ")", nil
	case *BinaryExpr:
		left, err := g.Generate(e.Left, scope)
		if err != nil {
			return "", err
		}

		right, err := g.Generate(e.Right, scope)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%s %s %s", left, e.Op, right), nil
	case *PostfixChain:
		return g.postfix(e, scope)
	case *Closure:
		return g.closures.Generate("", e, scope)
	case *ArrayLiteral:
		elems, err := g.list(e.Elements, scope)
		if err != nil {
			return "", err
		}

		return "[" + elems + "]", nil
	}

	return "", &UnsupportedError{Kind: fmt.Sprintf("%T", expr)}
}

// Condition renders expr wrapped in exactly one pair of parentheses
func (g *ExpressionGenerator) Condition(expr Expr, scope *Scope) (string, error) {
	cond, err := g.Generate(expr, scope)
	if err != nil {
		return "", err
	}

	if _, ok := expr.(*Parenthesized); ok {
		return cond, nil
	}

	return "(" + cond + ")", nil
}

// call renders a call. Names bound to variables in scope hold closures and
// are called through the variable.
func (g *ExpressionGenerator) call(call *FuncCall, scope *Scope) (string, error) {
	args, err := g.list(call.Args, scope)
	if err != nil {
		return "", err
	}

	if scope.Has(call.Name) {
		return fmt.Sprintf("$%s(%s)", call.Name, args), nil
	}

	return fmt.Sprintf("%s(%s)", call.Name, args), nil
}

func (g *ExpressionGenerator) postfix(chain *PostfixChain, scope *Scope) (string, error) {
	base, err := g.Generate(chain.Base, scope)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString(base)

	for _, suffix := range chain.Suffixes {
		switch s := suffix.(type) {
		case *IndexSuffix:
			index, err := g.Generate(s.Index, scope)
			if err != nil {
				return "", err
			}

			fmt.Fprintf(&out, "[%s]", index)
		case *PropertySuffix:
			fmt.Fprintf(&out, "->%s", s.Name)
		case *MethodSuffix:
			args, err := g.list(s.Call.Args, scope)
			if err != nil {
				return "", err
			}

			fmt.Fprintf(&out, "->%s(%s)", s.Call.Name, args)
		default:
			return "", &UnsupportedError{Kind: fmt.Sprintf("%T", suffix)}
		}
	}

	return out.String(), nil
}

func (g *ExpressionGenerator) list(exprs []Expr, scope *Scope) (string, error) {
	rendered := make([]string, len(exprs))
	for i, expr := range exprs {
		r, err := g.Generate(expr, scope)
		if err != nil {
			return "", err
		}

		rendered[i] = r
	}

	return strings.Join(rendered, ", "), nil
}

func literal(l *Literal) string {
	switch l.Kind {
	case LiteralInteger:
		return strconv.FormatInt(l.Int, 10)
	case LiteralFloat:
		f := strconv.FormatFloat(l.Float, 'f', -1, 64)
		if !strings.Contains(f, ".") {
			f += ".0"
		}

		return f
	case LiteralBool:
		return strconv.FormatBool(l.Bool)
	case LiteralString:
		if l.Quote == QuoteRaw {
			return rawString(l.Str)
		}

		return interpolatedString(l.Str)
	}

	return ""
}

// lineBreaks holds the escapes for raw line breaks inside string literals.
// Rendered strings stay on one line so indenting nested code can't alter them.
var lineBreaks = map[rune]string{
	'\n': `\n`,
	'\r': `\r`,
}

func interpolatedString(s string) string {
	var out strings.Builder
	out.WriteByte('"')

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\\' && i+1 < len(runes) {
			i++
			if esc, ok := lineBreaks[runes[i]]; ok {
				// An escaped line break is a backslash followed by the break
				out.WriteString(`\\` + esc)
				continue
			}

			out.WriteRune(r)
			out.WriteRune(runes[i])
			continue
		}

		if esc, ok := lineBreaks[r]; ok {
			out.WriteString(esc)
			continue
		}

		out.WriteRune(r)
	}

	out.WriteByte('"')

	return out.String()
}

// rawString renders a single quoted string. Single quotes have no line break
// escape, so breaks are concatenated in as double quoted pieces.
func rawString(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return "'" + s + "'"
	}

	var parts []string
	var text, breaks strings.Builder

	flushText := func() {
		if text.Len() == 0 {
			return
		}

		str := text.String()
		if trailingBackslashes(str)%2 == 1 {
			str += `\` // Keep the closing quote from being escaped
		}

		parts = append(parts, "'"+str+"'")
		text.Reset()
	}

	flushBreaks := func() {
		if breaks.Len() == 0 {
			return
		}

		parts = append(parts, "\""+breaks.String()+"\"")
		breaks.Reset()
	}

	for _, r := range s {
		if esc, ok := lineBreaks[r]; ok {
			flushText()
			breaks.WriteString(esc)
			continue
		}

		flushBreaks()
		text.WriteRune(r)
	}

	flushText()
	flushBreaks()

	return strings.Join(parts, " . ")
}

func trailingBackslashes(s string) int {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}

	return n
}
