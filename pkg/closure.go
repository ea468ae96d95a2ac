package corrozy

import (
	"fmt"
	"sort"
	"strings"
)

// usage is what a piece of code references from outside: plain variable
// reads and the names it calls
type usage struct {
	vars    map[string]struct{}
	callees map[string]struct{}
}

func newUsage() *usage {
	return &usage{
		vars:    make(map[string]struct{}),
		callees: make(map[string]struct{}),
	}
}

func (u *usage) merge(u2 *usage) {
	for name := range u2.vars {
		u.vars[name] = struct{}{}
	}

	for name := range u2.callees {
		u.callees[name] = struct{}{}
	}
}

func (u *usage) without(declared map[string]struct{}) *usage {
	free := newUsage()
	for name := range u.vars {
		if _, ok := declared[name]; !ok {
			free.vars[name] = struct{}{}
		}
	}

	for name := range u.callees {
		if _, ok := declared[name]; !ok {
			free.callees[name] = struct{}{}
		}
	}

	return free
}

// freeUsage is the usage of a function body minus everything the body binds
// itself. Loose closures directly in the block are analyzed first and their
// free names become part of the result.
func freeUsage(params []Parameter, body *Block) *usage {
	used := newUsage()
	usedInBlock(body, used)

	declared := declaredIn(body)
	for _, param := range params {
		declared[param.Name] = struct{}{}
	}

	return used.without(declared)
}

func freeClosureUsage(c *Closure) *usage {
	switch body := c.Body.(type) {
	case *BlockBody:
		return freeUsage(c.Params, body.Block)
	case *ExprBody:
		used := newUsage()
		usedInExpr(body.Expr, used)

		declared := make(map[string]struct{})
		for _, param := range c.Params {
			declared[param.Name] = struct{}{}
		}

		return used.without(declared)
	}

	return newUsage()
}

// looseClosureUsage analyzes a statement that binds a block closure to a name
func looseClosureUsage(stmt Stmt) (*usage, bool) {
	switch s := stmt.(type) {
	case *FuncDecl:
		return freeUsage(s.Params, s.Body), true
	case *VariableDecl:
		if c, _, ok := blockClosure(s.Value); ok {
			return freeClosureUsage(c), true
		}
	}

	return nil, false
}

func looseClosureName(stmt Stmt) string {
	switch s := stmt.(type) {
	case *FuncDecl:
		return s.Name
	case *VariableDecl:
		return s.Name
	}

	return ""
}

func preload(block *Block) *usage {
	loaded := newUsage()
	for _, stmt := range block.Statements {
		if free, ok := looseClosureUsage(stmt); ok {
			loaded.merge(free)
		}
	}

	return loaded
}

func usedInBlock(block *Block, u *usage) {
	if block == nil {
		return
	}

	u.merge(preload(block))

	for _, stmt := range block.Statements {
		usedInStmt(stmt, u)
	}

	if block.Return != nil && block.Return.Value != nil {
		usedInExpr(block.Return.Value, u)
	}
}

func usedInStmt(stmt Stmt, u *usage) {
	switch s := stmt.(type) {
	case *VariableDecl:
		if _, _, ok := blockClosure(s.Value); ok {
			return // Preloaded
		}
		usedInExpr(s.Value, u)
	case *ConstantDecl:
		usedInExpr(s.Value, u)
	case *PrintStmt:
		usedInExpr(s.Expr, u)
	case *ExprStmt:
		usedInExpr(s.Expr, u)
	case *IfStmt:
		usedInIf(s, u)
	case *WhileLoop:
		usedInExpr(s.Cond, u)
		usedInBlock(s.Body, u)
	case *ForLoop:
		switch init := s.Init.(type) {
		case *ForInitDecl:
			usedInStmt(init.Decl, u)
		case *ForInitExpr:
			usedInExpr(init.Expr, u)
		}
		usedInExpr(s.Cond, u)
		usedInExpr(s.Update, u)
		usedInBlock(s.Body, u)
	case *Program:
		usedInBlock(&Block{Statements: s.Statements}, u)
	}
}

func usedInIf(s *IfStmt, u *usage) {
	usedInExpr(s.Cond, u)
	usedInBlock(s.Then, u)

	switch e := s.Else.(type) {
	case *ElseIf:
		usedInIf(e.If, u)
	case *ElseBlock:
		usedInBlock(e.Block, u)
	}
}

func usedInExpr(expr Expr, u *usage) {
	switch e := expr.(type) {
	case *Variable:
		u.vars[e.Name] = struct{}{}
	case *FuncCall:
		usedInCall(e, u)
	case *Parenthesized:
		usedInExpr(e.Inner, u)
	case *BinaryExpr:
		usedInExpr(e.Left, u)
		usedInExpr(e.Right, u)
	case *PostfixChain:
		usedInExpr(e.Base, u)

		for _, suffix := range e.Suffixes {
			switch s := suffix.(type) {
			case *IndexSuffix:
				usedInExpr(s.Index, u)
			case *MethodSuffix:
				// Method names live on the object, only the arguments count
				for _, arg := range s.Call.Args {
					usedInExpr(arg, u)
				}
			}
		}
	case *ArrayLiteral:
		for _, elem := range e.Elements {
			usedInExpr(elem, u)
		}
	case *Closure:
		u.merge(freeClosureUsage(e))
	}
}

func usedInCall(call *FuncCall, u *usage) {
	u.callees[call.Name] = struct{}{}

	for _, arg := range call.Args {
		usedInExpr(arg, u)
	}
}

// Captures resolves the variables a block closure has to import from its
// parent scope. Constants are global and never captured. Every variable
// read that the parent can't provide is
// reported in a single ScopeError. Called names are captured only when the
// parent holds them as variables, otherwise they are plain functions.
func Captures(params []Parameter, body *Block, parent *Scope) ([]string, error) {
	free := freeUsage(params, body)

	missing := make(map[string]struct{})
	captured := make(map[string]struct{})
	for name := range free.vars {
		if parent.Constant(name) {
			continue
		}

		if !parent.Has(name) {
			missing[name] = struct{}{}
			continue
		}

		captured[name] = struct{}{}
	}

	if len(missing) > 0 {
		return nil, newScopeError(missing)
	}

	for name := range free.callees {
		if parent.Has(name) {
			captured[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(captured))
	for name := range captured {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

type ClosureGenerator struct {
	blocks *BlockGenerator
	exprs  *ExpressionGenerator
}

func NewClosureGenerator(blocks *BlockGenerator, exprs *ExpressionGenerator) *ClosureGenerator {
	return &ClosureGenerator{blocks: blocks, exprs: exprs}
}

// Generate renders an anonymous closure. Named closures pass their binding
// name so they can refer to themselves by reference.
func (g *ClosureGenerator) Generate(name string, c *Closure, scope *Scope) (string, error) {
	switch body := c.Body.(type) {
	case *ExprBody:
		return g.arrow(c, body.Expr, scope)
	case *BlockBody:
		return g.function(name, c.Params, c.ReturnType, body.Block, scope)
	}

	return "", &UnsupportedError{Kind: fmt.Sprintf("%T", c.Body)}
}

func (g *ClosureGenerator) arrow(c *Closure, expr Expr, scope *Scope) (string, error) {
	value, err := g.exprs.Generate(expr, NewArrowScope(scope, c.Params))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("fn(%s)%s => %s", typedParams(c.Params), returnHint(c.ReturnType), value), nil
}

func (g *ClosureGenerator) function(name string, params []Parameter, ret string, body *Block, scope *Scope) (string, error) {
	captured, err := Captures(params, body, scope)
	if err != nil {
		return "", err
	}

	inner, err := g.blocks.Generate(body, NewBodyScope(scope, body, params, captured))
	if err != nil {
		return "", err
	}

	var out strings.Builder
	fmt.Fprintf(&out, "function(%s)%s", typedParams(params), returnHint(ret))

	if len(captured) > 0 {
		uses := make([]string, len(captured))
		for i, v := range captured {
			if v == name {
				uses[i] = "&$" + v
				continue
			}

			uses[i] = "$" + v
		}

		fmt.Fprintf(&out, " use (%s)", strings.Join(uses, ", "))
	}

	out.WriteString(" {\n")
	out.WriteString(inner)
	out.WriteString("}")

	return out.String(), nil
}

func typedParams(params []Parameter) string {
	rendered := make([]string, len(params))
	for i, p := range params {
		if hint := typeHint(p.Type); hint != "" {
			rendered[i] = hint + " $" + p.Name
			continue
		}

		rendered[i] = "$" + p.Name
	}

	return strings.Join(rendered, ", ")
}

func returnHint(t string) string {
	if hint := typeHint(t); hint != "" {
		return ": " + hint
	}

	return ""
}

// typeHint maps a source type to a PHP type declaration, var has none
func typeHint(t string) string {
	if t == "var" {
		return ""
	}

	return t
}

// docType maps a source type to the type used in doc comments
func docType(t string) string {
	switch t {
	case "int", "string", "bool", "float":
		return t
	default:
		return "mixed"
	}
}
