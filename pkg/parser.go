package corrozy

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Parser turns the grammar's concrete tree into the syntax tree. Every
// parse function handles one rule and skips sub-rules it doesn't know.
type Parser struct {
	filename string
}

func NewParser(filename string) *Parser {
	return &Parser{filename: filename}
}

func (p *Parser) GetFilename() string {
	return p.filename
}

func (p *Parser) Parse(src string) ([]Stmt, error) {
	tree, err := ParseSource(p.filename, src)
	if err != nil {
		return nil, err
	}

	return p.Program(tree)
}

func (p *Parser) Program(pair *Pair) ([]Stmt, error) {
	var statements []Stmt
	for _, inner := range pair.Inner {
		if inner.Rule != RuleStatement {
			continue
		}

		stmt, err := p.statement(inner)
		if err != nil {
			return nil, err
		}

		statements = append(statements, stmt)
	}

	return statements, nil
}

func (p *Parser) errorf(pair *Pair, format string, args ...interface{}) error {
	return &StructuralError{Loc: pair.Loc, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) wrapf(pair *Pair, cause error, format string, args ...interface{}) error {
	return &StructuralError{Loc: pair.Loc, Msg: fmt.Sprintf(format, args...), cause: cause}
}

func (p *Parser) statement(pair *Pair) (Stmt, error) {
	inner := pair.first()
	if inner == nil {
		return nil, p.errorf(pair, "statement is empty")
	}

	switch inner.Rule {
	case RuleVariableDeclaration, RuleConstantDeclaration:
		return p.declaration(inner)
	case RulePrintStatement, RulePrintlnStatement:
		return p.output(inner)
	case RuleFunctionDeclaration:
		return p.functionDeclaration(inner)
	case RuleExpressionStatement:
		return p.expressionStatement(inner)
	case RuleIfStatement:
		return p.ifStatement(inner)
	case RuleWhileLoop:
		return p.whileLoop(inner)
	case RuleForLoop:
		return p.forLoop(inner)
	default:
		return nil, p.errorf(inner, "unknown statement type: %s", inner.Rule)
	}
}

func (p *Parser) declaration(pair *Pair) (Stmt, error) {
	var typ, name string
	var value Expr

	for _, inner := range pair.Inner {
		switch inner.Rule {
		case RuleDefineType:
			t, err := p.defineType(inner)
			if err != nil {
				return nil, err
			}
			typ = t
		case RuleIdentifier:
			name = inner.Text
		case RuleExpression:
			v, err := p.expression(inner)
			if err != nil {
				return nil, err
			}
			value = v
		}
	}

	if value == nil {
		return nil, p.errorf(pair, "declaration missing value")
	}

	if pair.Rule == RuleConstantDeclaration {
		return &ConstantDecl{Type: typ, Name: name, Value: value}, nil
	}

	return &VariableDecl{Type: typ, Name: name, Value: value}, nil
}

func (p *Parser) defineType(pair *Pair) (string, error) {
	for _, inner := range pair.Inner {
		if inner.Rule != RuleTypeAnnotation {
			continue
		}

		for _, name := range inner.Inner {
			if name.Rule == RuleBasicType || name.Rule == RuleCustomType {
				return name.Text, nil
			}
		}

		return "", p.errorf(inner, "invalid type annotation")
	}

	return "", p.errorf(pair, "no type annotation found")
}

func (p *Parser) output(pair *Pair) (Stmt, error) {
	for _, inner := range pair.Inner {
		if inner.Rule != RuleExpression {
			continue
		}

		expr, err := p.expression(inner)
		if err != nil {
			return nil, err
		}

		return &PrintStmt{Expr: expr, Newline: pair.Rule == RulePrintlnStatement}, nil
	}

	return nil, p.errorf(pair, "invalid output statement")
}

func (p *Parser) functionDeclaration(pair *Pair) (Stmt, error) {
	decl := &FuncDecl{Body: &Block{}}

	for _, inner := range pair.Inner {
		var err error
		switch inner.Rule {
		case RuleIdentifier:
			decl.Name = inner.Text
		case RuleParameterList:
			decl.Params, err = p.parameterList(inner)
		case RuleDefineType:
			decl.ReturnType, err = p.defineType(inner)
		case RuleBlock:
			decl.Body, err = p.block(inner)
		}

		if err != nil {
			return nil, err
		}
	}

	return decl, nil
}

func (p *Parser) parameterList(pair *Pair) ([]Parameter, error) {
	var params []Parameter
	for _, inner := range pair.Inner {
		if inner.Rule != RuleParameter {
			continue
		}

		param, err := p.parameter(inner)
		if err != nil {
			return nil, err
		}

		params = append(params, param)
	}

	return params, nil
}

func (p *Parser) parameter(pair *Pair) (Parameter, error) {
	var param Parameter
	for _, inner := range pair.Inner {
		switch inner.Rule {
		case RuleIdentifier:
			param.Name = inner.Text
		case RuleDefineType:
			typ, err := p.defineType(inner)
			if err != nil {
				return param, err
			}
			param.Type = typ
		}
	}

	return param, nil
}

func (p *Parser) block(pair *Pair) (*Block, error) {
	block := &Block{}
	for _, inner := range pair.Inner {
		switch inner.Rule {
		case RuleStatement:
			stmt, err := p.statement(inner)
			if err != nil {
				return nil, err
			}
			block.Statements = append(block.Statements, stmt)
		case RuleReturnStatement:
			ret, err := p.returnStatement(inner)
			if err != nil {
				return nil, err
			}
			block.Return = ret
		}
	}

	return block, nil
}

func (p *Parser) returnStatement(pair *Pair) (*ReturnStmt, error) {
	ret := &ReturnStmt{}
	for _, inner := range pair.Inner {
		if inner.Rule != RuleExpression {
			continue
		}

		value, err := p.expression(inner)
		if err != nil {
			return nil, err
		}
		ret.Value = value
	}

	return ret, nil
}

func (p *Parser) ifStatement(pair *Pair) (*IfStmt, error) {
	stmt := &IfStmt{}
	for _, inner := range pair.Inner {
		var err error
		switch inner.Rule {
		case RuleExpression:
			stmt.Cond, err = p.expression(inner)
		case RuleBlock:
			if stmt.Then == nil {
				stmt.Then, err = p.block(inner)
			}
		case RuleElseClause:
			stmt.Else, err = p.elseClause(inner)
		}

		if err != nil {
			return nil, err
		}
	}

	if stmt.Cond == nil {
		return nil, p.errorf(pair, "if statement missing condition")
	}

	if stmt.Then == nil {
		return nil, p.errorf(pair, "if statement missing block")
	}

	return stmt, nil
}

func (p *Parser) elseClause(pair *Pair) (ElseClause, error) {
	for _, inner := range pair.Inner {
		switch inner.Rule {
		case RuleIfStatement:
			stmt, err := p.ifStatement(inner)
			if err != nil {
				return nil, err
			}
			return &ElseIf{If: stmt}, nil
		case RuleBlock:
			block, err := p.block(inner)
			if err != nil {
				return nil, err
			}
			return &ElseBlock{Block: block}, nil
		}
	}

	return nil, p.errorf(pair, "empty else clause")
}

// TODO: lower while loops once the generator has a loop renderer
func (p *Parser) whileLoop(pair *Pair) (Stmt, error) {
	return nil, p.wrapf(pair, ErrNotImplemented, "while loops are not implemented")
}

func (p *Parser) forLoop(pair *Pair) (Stmt, error) {
	return nil, p.wrapf(pair, ErrNotImplemented, "for loops are not implemented")
}

func (p *Parser) expressionStatement(pair *Pair) (Stmt, error) {
	for _, inner := range pair.Inner {
		if inner.Rule != RuleExpression {
			continue
		}

		expr, err := p.expression(inner)
		if err != nil {
			return nil, err
		}

		return &ExprStmt{Expr: expr}, nil
	}

	return nil, p.errorf(pair, "invalid expression statement")
}

func (p *Parser) expression(pair *Pair) (Expr, error) {
	inner := pair.first()
	if inner == nil {
		return nil, p.errorf(pair, "expression is empty")
	}

	return p.operand(inner)
}

func (p *Parser) operand(pair *Pair) (Expr, error) {
	switch pair.Rule {
	case RuleBinaryExpression:
		return p.binaryExpression(pair)
	case RulePostfixExpression:
		return p.postfixExpression(pair)
	case RuleExpression:
		return p.expression(pair)
	default:
		return nil, p.errorf(pair, "unexpected rule inside expression: %s", pair.Rule)
	}
}

// binaryExpression folds the flat operand (operator operand)+ stream to the
// left. Precedence comes from the grammar nesting, never from here.
func (p *Parser) binaryExpression(pair *Pair) (Expr, error) {
	if len(pair.Inner) == 0 {
		return nil, p.errorf(pair, "binary expression is empty")
	}

	lhs, err := p.operand(pair.Inner[0])
	if err != nil {
		return nil, err
	}

	rest := pair.Inner[1:]
	if len(rest)%2 != 0 {
		return nil, p.errorf(pair, "binary expression missing operand")
	}

	for i := 0; i < len(rest); i += 2 {
		opPair, rhsPair := rest[i], rest[i+1]

		op, ok := binaryOps[opPair.Text]
		if !ok {
			return nil, p.errorf(opPair, "unknown binary operator: %s", opPair.Text)
		}

		rhs, err := p.operand(rhsPair)
		if err != nil {
			return nil, err
		}

		lhs = &BinaryExpr{Left: lhs, Op: op, Right: rhs}
	}

	return lhs, nil
}

func (p *Parser) postfixExpression(pair *Pair) (Expr, error) {
	base := pair.first()
	if base == nil {
		return nil, p.errorf(pair, "postfix expression missing base")
	}

	baseExpr, err := p.primary(base)
	if err != nil {
		return nil, err
	}

	var suffixes []Suffix
	for _, inner := range pair.Inner[1:] {
		switch inner.Rule {
		case RuleExpression:
			index, err := p.expression(inner)
			if err != nil {
				return nil, err
			}
			suffixes = append(suffixes, &IndexSuffix{Index: index})
		case RuleFunctionCall:
			call, err := p.functionCall(inner)
			if err != nil {
				return nil, err
			}
			suffixes = append(suffixes, &MethodSuffix{Call: call})
		case RuleIdentifier:
			suffixes = append(suffixes, &PropertySuffix{Name: inner.Text})
		default:
			return nil, p.errorf(inner, "unexpected rule in postfix: %s", inner.Rule)
		}
	}

	if len(suffixes) == 0 {
		return baseExpr, nil
	}

	return &PostfixChain{Base: baseExpr, Suffixes: suffixes}, nil
}

func (p *Parser) primary(pair *Pair) (Expr, error) {
	inner := pair.first()
	if inner == nil {
		return nil, p.errorf(pair, "unknown primary expression")
	}

	switch inner.Rule {
	case RuleLiteral:
		return p.literal(inner)
	case RuleIdentifier:
		return &Variable{Name: inner.Text}, nil
	case RuleFunctionCall:
		return p.functionCall(inner)
	case RuleExpression:
		expr, err := p.expression(inner)
		if err != nil {
			return nil, err
		}
		return &Parenthesized{Inner: expr}, nil
	case RuleClosure:
		return p.closure(inner)
	case RuleArrayLiteral:
		return p.arrayLiteral(inner)
	default:
		return nil, p.errorf(inner, "unknown primary expression rule: %s", inner.Rule)
	}
}

func (p *Parser) literal(pair *Pair) (*Literal, error) {
	for _, inner := range pair.Inner {
		switch inner.Rule {
		case RuleString:
			return p.stringLiteral(inner)
		case RuleInteger:
			v, err := strconv.ParseInt(inner.Text, 10, 64)
			if err != nil {
				return nil, p.wrapf(inner, errors.WithStack(err), "invalid integer literal %s", inner.Text)
			}
			return &Literal{Kind: LiteralInteger, Int: v}, nil
		case RuleFloat:
			v, err := strconv.ParseFloat(inner.Text, 64)
			if err != nil {
				return nil, p.wrapf(inner, errors.WithStack(err), "invalid float literal %s", inner.Text)
			}
			return &Literal{Kind: LiteralFloat, Float: v}, nil
		case RuleBoolean:
			return &Literal{Kind: LiteralBool, Bool: inner.Text == "true"}, nil
		}
	}

	return nil, p.errorf(pair, "unknown literal type")
}

func (p *Parser) stringLiteral(pair *Pair) (*Literal, error) {
	for _, inner := range pair.Inner {
		switch inner.Rule {
		case RuleInterpolatedString:
			return &Literal{Kind: LiteralString, Str: inner.Text, Quote: QuoteInterpolated}, nil
		case RuleRawString:
			return &Literal{Kind: LiteralString, Str: inner.Text, Quote: QuoteRaw}, nil
		}
	}

	return nil, p.errorf(pair, "unknown string type")
}

func (p *Parser) closure(pair *Pair) (*Closure, error) {
	closure := &Closure{}
	for _, inner := range pair.Inner {
		switch inner.Rule {
		case RuleParameterList:
			params, err := p.parameterList(inner)
			if err != nil {
				return nil, err
			}
			closure.Params = params
		case RuleDefineType:
			typ, err := p.defineType(inner)
			if err != nil {
				return nil, err
			}
			closure.ReturnType = typ
		case RuleBlock:
			block, err := p.block(inner)
			if err != nil {
				return nil, err
			}
			closure.Body = &BlockBody{Block: block}
		case RuleExpression:
			expr, err := p.expression(inner)
			if err != nil {
				return nil, err
			}
			closure.Body = &ExprBody{Expr: expr}
		}
	}

	if closure.Body == nil {
		return nil, p.errorf(pair, "closure missing body")
	}

	return closure, nil
}

func (p *Parser) functionCall(pair *Pair) (*FuncCall, error) {
	call := &FuncCall{}
	for _, inner := range pair.Inner {
		switch inner.Rule {
		case RuleIdentifier:
			call.Name = inner.Text
		case RuleArgumentList:
			for _, arg := range inner.Inner {
				if arg.Rule != RuleExpression {
					continue
				}

				expr, err := p.expression(arg)
				if err != nil {
					return nil, err
				}
				call.Args = append(call.Args, expr)
			}
		}
	}

	return call, nil
}

func (p *Parser) arrayLiteral(pair *Pair) (*ArrayLiteral, error) {
	array := &ArrayLiteral{}
	for _, inner := range pair.Inner {
		if inner.Rule != RuleExpression {
			continue
		}

		elem, err := p.expression(inner)
		if err != nil {
			return nil, err
		}
		array.Elements = append(array.Elements, elem)
	}

	return array, nil
}
