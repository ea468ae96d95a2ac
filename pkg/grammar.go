package corrozy

import "fmt"

type Rule int

const (
	RuleProgram Rule = iota
	RuleStatement
	RuleVariableDeclaration
	RuleConstantDeclaration
	RuleDefineType
	RuleTypeAnnotation
	RuleBasicType
	RuleCustomType
	RulePrintStatement
	RulePrintlnStatement
	RuleFunctionDeclaration
	RuleParameterList
	RuleParameter
	RuleIfStatement
	RuleElseClause
	RuleWhileLoop
	RuleForLoop
	RuleForInit
	RuleBlock
	RuleReturnStatement
	RuleExpressionStatement
	RuleExpression
	RuleBinaryExpression
	RuleOperator
	RulePostfixExpression
	RulePrimary
	RuleClosure
	RuleFunctionCall
	RuleArgumentList
	RuleArrayLiteral
	RuleIdentifier
	RuleLiteral
	RuleInteger
	RuleFloat
	RuleBoolean
	RuleString
	RuleInterpolatedString
	RuleRawString
)

var ruleNames = map[Rule]string{
	RuleProgram:             "program",
	RuleStatement:           "statement",
	RuleVariableDeclaration: "variable_declaration",
	RuleConstantDeclaration: "constant_declaration",
	RuleDefineType:          "define_type",
	RuleTypeAnnotation:      "type_annotation",
	RuleBasicType:           "basic_type",
	RuleCustomType:          "custom_type",
	RulePrintStatement:      "print_statement",
	RulePrintlnStatement:    "println_statement",
	RuleFunctionDeclaration: "function_declaration",
	RuleParameterList:       "parameter_list",
	RuleParameter:           "parameter",
	RuleIfStatement:         "if_statement",
	RuleElseClause:          "else_clause",
	RuleWhileLoop:           "while_loop",
	RuleForLoop:             "for_loop",
	RuleForInit:             "for_init",
	RuleBlock:               "block",
	RuleReturnStatement:     "return_statement",
	RuleExpressionStatement: "expression_statement",
	RuleExpression:          "expression",
	RuleBinaryExpression:    "binary_expression",
	RuleOperator:            "operator",
	RulePostfixExpression:   "postfix_expression",
	RulePrimary:             "primary",
	RuleClosure:             "closure",
	RuleFunctionCall:        "function_call",
	RuleArgumentList:        "argument_list",
	RuleArrayLiteral:        "array_literal",
	RuleIdentifier:          "identifier",
	RuleLiteral:             "literal",
	RuleInteger:             "integer",
	RuleFloat:               "float",
	RuleBoolean:             "boolean",
	RuleString:              "string",
	RuleInterpolatedString:  "interpolated_string",
	RuleRawString:           "raw_string",
}

func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}

	return fmt.Sprintf("rule(%d)", int(r))
}

var basicTypes = map[string]bool{
	"int":    true,
	"float":  true,
	"string": true,
	"bool":   true,
	"var":    true,
}

// Binary operator levels, loosest first. Each binary_expression node holds
// operands of the next level, so precedence lives in the tree shape.
var precedenceLevels = [][]TokenType{
	{TokenOr},
	{TokenAnd},
	{TokenEqual, TokenNotEqual},
	{TokenLess, TokenGreater, TokenLessEqual, TokenGreaterEqual},
	{TokenPlus, TokenMinus},
	{TokenMulti, TokenDiv},
}

// Pair is a node of the concrete parse tree. Terminal pairs carry their
// source text, the rest carry their sub-rules in source order.
type Pair struct {
	Rule  Rule
	Text  string
	Loc   *Location
	Inner []*Pair
}

func (p *Pair) first() *Pair {
	if len(p.Inner) == 0 {
		return nil
	}

	return p.Inner[0]
}

type Grammar struct {
	tokens []Token
	pos    int
}

// NewGrammar prepares a token stream for matching. Comments are dropped.
func NewGrammar(tokens []Token) *Grammar {
	g := &Grammar{}
	for _, tok := range tokens {
		if !tok.isComment() {
			g.tokens = append(g.tokens, tok)
		}
	}

	return g
}

// ParseSource tokenizes and matches a whole program
func ParseSource(filename, src string) (*Pair, error) {
	tokens, err := NewLexerFromString(filename, src).Run()
	if err != nil {
		return nil, err
	}

	return NewGrammar(tokens).Program()
}

func (g *Grammar) Program() (*Pair, error) {
	program := &Pair{Rule: RuleProgram, Loc: g.peek().Loc}

	for g.peek().isValid() {
		stmt, err := g.statement()
		if err != nil {
			return nil, err
		}

		program.Inner = append(program.Inner, stmt)
	}

	if tok := g.peek(); tok.Typ != TokenEOF {
		return nil, g.errorf(tok, "unexpected %s", tok.describe())
	}

	return program, nil
}

func (g *Grammar) peek() Token {
	return g.peekAt(0)
}

func (g *Grammar) peekAt(n int) Token {
	if g.pos+n < len(g.tokens) {
		return g.tokens[g.pos+n]
	}

	var loc *Location
	if len(g.tokens) > 0 {
		loc = g.tokens[len(g.tokens)-1].Loc
	}

	return Token{Typ: TokenEOF, Loc: loc}
}

func (g *Grammar) next() Token {
	tok := g.peek()
	if g.pos < len(g.tokens) {
		g.pos++
	}

	return tok
}

func (g *Grammar) check(types ...TokenType) bool {
	typ := g.peek().Typ
	for _, t := range types {
		if typ == t {
			return true
		}
	}

	return false
}

func (g *Grammar) expect(typ TokenType, what string) (Token, error) {
	tok := g.peek()
	if tok.Typ != typ {
		return tok, g.errorf(tok, "expected %s, found %s", what, tok.describe())
	}

	return g.next(), nil
}

func (g *Grammar) errorf(tok Token, format string, args ...interface{}) error {
	return &SyntaxError{Loc: tok.Loc, Msg: fmt.Sprintf(format, args...)}
}

func leaf(rule Rule, tok Token) *Pair {
	return &Pair{Rule: rule, Text: tok.Value, Loc: tok.Loc}
}

func (g *Grammar) statement() (*Pair, error) {
	start := g.peek()

	var inner *Pair
	var err error
	switch start.Typ {
	case TokenLet:
		inner, err = g.declaration(RuleVariableDeclaration)
	case TokenConst:
		inner, err = g.declaration(RuleConstantDeclaration)
	case TokenPrint:
		inner, err = g.output(RulePrintStatement)
	case TokenPrintln:
		inner, err = g.output(RulePrintlnStatement)
	case TokenFn:
		if g.peekAt(1).Typ == TokenIdentifier {
			inner, err = g.functionDeclaration()
		} else {
			inner, err = g.expressionStatement()
		}
	case TokenIf:
		inner, err = g.ifStatement()
	case TokenWhile:
		inner, err = g.whileLoop()
	case TokenFor:
		inner, err = g.forLoop()
	default:
		inner, err = g.expressionStatement()
	}

	if err != nil {
		return nil, err
	}

	return &Pair{Rule: RuleStatement, Loc: start.Loc, Inner: []*Pair{inner}}, nil
}

func (g *Grammar) declaration(rule Rule) (*Pair, error) {
	node, err := g.declarationHead(rule)
	if err != nil {
		return nil, err
	}

	if _, err := g.expect(TokenSemicolon, "';'"); err != nil {
		return nil, err
	}

	return node, nil
}

// declarationHead matches a declaration without its terminator, for-loop
// initializers reuse it
func (g *Grammar) declarationHead(rule Rule) (*Pair, error) {
	start := g.next() // let or const
	node := &Pair{Rule: rule, Loc: start.Loc}

	name, err := g.expect(TokenIdentifier, "identifier")
	if err != nil {
		return nil, err
	}
	node.Inner = append(node.Inner, leaf(RuleIdentifier, name))

	if g.check(TokenColon) {
		typ, err := g.defineType()
		if err != nil {
			return nil, err
		}
		node.Inner = append(node.Inner, typ)
	}

	if _, err := g.expect(TokenAssign, "'='"); err != nil {
		return nil, err
	}

	value, err := g.expression()
	if err != nil {
		return nil, err
	}
	node.Inner = append(node.Inner, value)

	return node, nil
}

func (g *Grammar) defineType() (*Pair, error) {
	colon := g.next()

	tok, err := g.expect(TokenIdentifier, "type")
	if err != nil {
		return nil, err
	}

	name := leaf(RuleCustomType, tok)
	if basicTypes[tok.Value] {
		name.Rule = RuleBasicType
	}

	annotation := &Pair{Rule: RuleTypeAnnotation, Loc: tok.Loc, Inner: []*Pair{name}}
	return &Pair{Rule: RuleDefineType, Loc: colon.Loc, Inner: []*Pair{annotation}}, nil
}

func (g *Grammar) output(rule Rule) (*Pair, error) {
	start := g.next() // print or println

	if _, err := g.expect(TokenOpenParentheses, "'('"); err != nil {
		return nil, err
	}

	expr, err := g.expression()
	if err != nil {
		return nil, err
	}

	if _, err := g.expect(TokenCloseParentheses, "')'"); err != nil {
		return nil, err
	}

	if _, err := g.expect(TokenSemicolon, "';'"); err != nil {
		return nil, err
	}

	return &Pair{Rule: rule, Loc: start.Loc, Inner: []*Pair{expr}}, nil
}

func (g *Grammar) functionDeclaration() (*Pair, error) {
	start := g.next() // fn
	node := &Pair{Rule: RuleFunctionDeclaration, Loc: start.Loc}

	name, err := g.expect(TokenIdentifier, "function name")
	if err != nil {
		return nil, err
	}
	node.Inner = append(node.Inner, leaf(RuleIdentifier, name))

	signature, err := g.signature()
	if err != nil {
		return nil, err
	}
	node.Inner = append(node.Inner, signature...)

	body, err := g.block()
	if err != nil {
		return nil, err
	}
	node.Inner = append(node.Inner, body)

	return node, nil
}

// signature matches "(" parameter_list? ")" define_type?
func (g *Grammar) signature() ([]*Pair, error) {
	var pairs []*Pair

	open, err := g.expect(TokenOpenParentheses, "'('")
	if err != nil {
		return nil, err
	}

	if !g.check(TokenCloseParentheses) {
		params, err := g.parameterList(open)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, params)
	}

	if _, err := g.expect(TokenCloseParentheses, "')'"); err != nil {
		return nil, err
	}

	if g.check(TokenColon) {
		typ, err := g.defineType()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, typ)
	}

	return pairs, nil
}

func (g *Grammar) parameterList(open Token) (*Pair, error) {
	list := &Pair{Rule: RuleParameterList, Loc: open.Loc}

	for {
		name, err := g.expect(TokenIdentifier, "parameter name")
		if err != nil {
			return nil, err
		}

		param := &Pair{Rule: RuleParameter, Loc: name.Loc, Inner: []*Pair{leaf(RuleIdentifier, name)}}
		if g.check(TokenColon) {
			typ, err := g.defineType()
			if err != nil {
				return nil, err
			}
			param.Inner = append(param.Inner, typ)
		}
		list.Inner = append(list.Inner, param)

		if !g.check(TokenComma) {
			return list, nil
		}
		g.next() // Skip the comma
	}
}

func (g *Grammar) block() (*Pair, error) {
	open, err := g.expect(TokenOpenCurly, "'{'")
	if err != nil {
		return nil, err
	}

	block := &Pair{Rule: RuleBlock, Loc: open.Loc}
	returned := false
	for tok := g.peek(); tok.isValid() && tok.Typ != TokenCloseCurly && !returned; tok = g.peek() {
		var inner *Pair
		if tok.Typ == TokenReturn {
			inner, err = g.returnStatement()
			returned = true
		} else {
			inner, err = g.statement()
		}

		if err != nil {
			return nil, err
		}
		block.Inner = append(block.Inner, inner)
	}

	// A return closes the block, nothing may follow it
	switch closer := g.peek(); {
	case closer.Typ == TokenCloseCurly:
		g.next()
		return block, nil
	case closer.Typ == TokenEOF:
		return nil, g.errorf(closer, "unclosed block statement")
	case returned:
		return nil, g.errorf(closer, "unreachable %s after return statement", closer.describe())
	default:
		return nil, g.errorf(closer, "unexpected %s in block statement", closer.describe())
	}
}

func (g *Grammar) returnStatement() (*Pair, error) {
	start := g.next() // return
	node := &Pair{Rule: RuleReturnStatement, Loc: start.Loc}

	if !g.check(TokenSemicolon) {
		value, err := g.expression()
		if err != nil {
			return nil, err
		}
		node.Inner = append(node.Inner, value)
	}

	if _, err := g.expect(TokenSemicolon, "';'"); err != nil {
		return nil, err
	}

	return node, nil
}

func (g *Grammar) ifStatement() (*Pair, error) {
	start := g.next() // if
	node := &Pair{Rule: RuleIfStatement, Loc: start.Loc}

	cond, err := g.expression()
	if err != nil {
		return nil, err
	}

	then, err := g.block()
	if err != nil {
		return nil, err
	}
	node.Inner = append(node.Inner, cond, then)

	if !g.check(TokenElse) {
		return node, nil
	}

	elseTok := g.next()
	clause := &Pair{Rule: RuleElseClause, Loc: elseTok.Loc}

	var branch *Pair
	if g.check(TokenIf) {
		branch, err = g.ifStatement()
	} else {
		branch, err = g.block()
	}

	if err != nil {
		return nil, err
	}

	clause.Inner = append(clause.Inner, branch)
	node.Inner = append(node.Inner, clause)

	return node, nil
}

func (g *Grammar) whileLoop() (*Pair, error) {
	start := g.next() // while

	cond, err := g.expression()
	if err != nil {
		return nil, err
	}

	body, err := g.block()
	if err != nil {
		return nil, err
	}

	return &Pair{Rule: RuleWhileLoop, Loc: start.Loc, Inner: []*Pair{cond, body}}, nil
}

func (g *Grammar) forLoop() (*Pair, error) {
	start := g.next() // for
	node := &Pair{Rule: RuleForLoop, Loc: start.Loc}

	if _, err := g.expect(TokenOpenParentheses, "'('"); err != nil {
		return nil, err
	}

	closers := []TokenType{TokenSemicolon, TokenSemicolon, TokenCloseParentheses}
	for i, closer := range closers {
		if !g.check(closer) {
			clause, err := g.forClause(i == 0)
			if err != nil {
				return nil, err
			}
			node.Inner = append(node.Inner, clause)
		}

		what := "';'"
		if closer == TokenCloseParentheses {
			what = "')'"
		}

		if _, err := g.expect(closer, what); err != nil {
			return nil, err
		}
	}

	body, err := g.block()
	if err != nil {
		return nil, err
	}
	node.Inner = append(node.Inner, body)

	return node, nil
}

func (g *Grammar) forClause(isInit bool) (*Pair, error) {
	if !isInit {
		return g.expression()
	}

	init := &Pair{Rule: RuleForInit, Loc: g.peek().Loc}

	var inner *Pair
	var err error
	if g.check(TokenLet) {
		inner, err = g.declarationHead(RuleVariableDeclaration)
	} else {
		inner, err = g.expression()
	}

	if err != nil {
		return nil, err
	}

	init.Inner = append(init.Inner, inner)
	return init, nil
}

func (g *Grammar) expressionStatement() (*Pair, error) {
	start := g.peek()

	expr, err := g.expression()
	if err != nil {
		return nil, err
	}

	if _, err := g.expect(TokenSemicolon, "';'"); err != nil {
		return nil, err
	}

	return &Pair{Rule: RuleExpressionStatement, Loc: start.Loc, Inner: []*Pair{expr}}, nil
}

func (g *Grammar) expression() (*Pair, error) {
	start := g.peek()

	inner, err := g.binaryExpression(0)
	if err != nil {
		return nil, err
	}

	return &Pair{Rule: RuleExpression, Loc: start.Loc, Inner: []*Pair{inner}}, nil
}

// binaryExpression emits a flat operand (operator operand)+ stream for one
// precedence level, or the bare operand when no operator of that level follows
func (g *Grammar) binaryExpression(level int) (*Pair, error) {
	if level == len(precedenceLevels) {
		return g.postfixExpression()
	}

	first, err := g.binaryExpression(level + 1)
	if err != nil {
		return nil, err
	}

	if !g.check(precedenceLevels[level]...) {
		return first, nil
	}

	node := &Pair{Rule: RuleBinaryExpression, Loc: first.Loc, Inner: []*Pair{first}}
	for g.check(precedenceLevels[level]...) {
		op := g.next()

		rhs, err := g.binaryExpression(level + 1)
		if err != nil {
			return nil, err
		}

		node.Inner = append(node.Inner, leaf(RuleOperator, op), rhs)
	}

	return node, nil
}

func (g *Grammar) postfixExpression() (*Pair, error) {
	primary, err := g.primary()
	if err != nil {
		return nil, err
	}

	node := &Pair{Rule: RulePostfixExpression, Loc: primary.Loc, Inner: []*Pair{primary}}
	for {
		switch g.peek().Typ {
		case TokenOpenBracket:
			g.next()

			index, err := g.expression()
			if err != nil {
				return nil, err
			}

			if _, err := g.expect(TokenCloseBracket, "']'"); err != nil {
				return nil, err
			}

			node.Inner = append(node.Inner, index)
		case TokenDot:
			g.next()

			if g.peek().Typ == TokenIdentifier && g.peekAt(1).Typ == TokenOpenParentheses {
				call, err := g.functionCall()
				if err != nil {
					return nil, err
				}

				node.Inner = append(node.Inner, call)
				continue
			}

			name, err := g.expect(TokenIdentifier, "property name")
			if err != nil {
				return nil, err
			}

			node.Inner = append(node.Inner, leaf(RuleIdentifier, name))
		default:
			return node, nil
		}
	}
}

func (g *Grammar) primary() (*Pair, error) {
	tok := g.peek()
	node := &Pair{Rule: RulePrimary, Loc: tok.Loc}

	var inner *Pair
	var err error
	switch tok.Typ {
	case TokenInteger, TokenFloat, TokenTrue, TokenFalse, TokenString, TokenRawString:
		inner, err = g.literal()
	case TokenMinus:
		if next := g.peekAt(1).Typ; next != TokenInteger && next != TokenFloat {
			return nil, g.errorf(tok, "expected expression, found %s", tok.describe())
		}
		inner, err = g.literal()
	case TokenFn:
		inner, err = g.closure()
	case TokenOpenBracket:
		inner, err = g.arrayLiteral()
	case TokenIdentifier:
		if g.peekAt(1).Typ == TokenOpenParentheses {
			inner, err = g.functionCall()
		} else {
			inner = leaf(RuleIdentifier, g.next())
		}
	case TokenOpenParentheses:
		g.next()

		inner, err = g.expression()
		if err != nil {
			return nil, err
		}

		_, err = g.expect(TokenCloseParentheses, "closing parenthesis")
	default:
		return nil, g.errorf(tok, "expected expression, found %s", tok.describe())
	}

	if err != nil {
		return nil, err
	}

	node.Inner = append(node.Inner, inner)
	return node, nil
}

func (g *Grammar) literal() (*Pair, error) {
	tok := g.next()
	node := &Pair{Rule: RuleLiteral, Loc: tok.Loc}

	switch tok.Typ {
	case TokenMinus:
		num := g.next()
		value := leaf(RuleInteger, num)
		if num.Typ == TokenFloat {
			value.Rule = RuleFloat
		}
		value.Text = "-" + num.Value
		value.Loc = tok.Loc
		node.Inner = append(node.Inner, value)
	case TokenInteger:
		node.Inner = append(node.Inner, leaf(RuleInteger, tok))
	case TokenFloat:
		node.Inner = append(node.Inner, leaf(RuleFloat, tok))
	case TokenTrue, TokenFalse:
		node.Inner = append(node.Inner, leaf(RuleBoolean, tok))
	case TokenString:
		str := &Pair{Rule: RuleString, Loc: tok.Loc, Inner: []*Pair{leaf(RuleInterpolatedString, tok)}}
		node.Inner = append(node.Inner, str)
	case TokenRawString:
		str := &Pair{Rule: RuleString, Loc: tok.Loc, Inner: []*Pair{leaf(RuleRawString, tok)}}
		node.Inner = append(node.Inner, str)
	default:
		return nil, g.errorf(tok, "expected literal, found %s", tok.describe())
	}

	return node, nil
}

func (g *Grammar) closure() (*Pair, error) {
	start := g.next() // fn
	node := &Pair{Rule: RuleClosure, Loc: start.Loc}

	signature, err := g.signature()
	if err != nil {
		return nil, err
	}
	node.Inner = append(node.Inner, signature...)

	if g.check(TokenArrow) {
		g.next()

		body, err := g.expression()
		if err != nil {
			return nil, err
		}

		node.Inner = append(node.Inner, body)
		return node, nil
	}

	body, err := g.block()
	if err != nil {
		return nil, err
	}
	node.Inner = append(node.Inner, body)

	return node, nil
}

func (g *Grammar) functionCall() (*Pair, error) {
	name := g.next()
	node := &Pair{Rule: RuleFunctionCall, Loc: name.Loc, Inner: []*Pair{leaf(RuleIdentifier, name)}}

	open, err := g.expect(TokenOpenParentheses, "'('")
	if err != nil {
		return nil, err
	}

	if !g.check(TokenCloseParentheses) {
		args := &Pair{Rule: RuleArgumentList, Loc: open.Loc}

		for {
			arg, err := g.expression()
			if err != nil {
				return nil, err
			}
			args.Inner = append(args.Inner, arg)

			if !g.check(TokenComma) {
				break
			}
			g.next() // Skip the comma
		}

		node.Inner = append(node.Inner, args)
	}

	if _, err := g.expect(TokenCloseParentheses, "')'"); err != nil {
		return nil, err
	}

	return node, nil
}

func (g *Grammar) arrayLiteral() (*Pair, error) {
	open := g.next()
	node := &Pair{Rule: RuleArrayLiteral, Loc: open.Loc}

	for !g.check(TokenCloseBracket) {
		elem, err := g.expression()
		if err != nil {
			return nil, err
		}
		node.Inner = append(node.Inner, elem)

		if !g.check(TokenComma) {
			break
		}
		g.next() // Skip the comma
	}

	if _, err := g.expect(TokenCloseBracket, "']'"); err != nil {
		return nil, err
	}

	return node, nil
}
