package corrozy

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type DeclarationGenerator struct {
	exprs     *ExpressionGenerator
	closures  *ClosureGenerator
	functions *FunctionGenerator
	comments  bool
}

func (g *DeclarationGenerator) Variable(decl *VariableDecl, scope *Scope) (string, error) {
	if c, body, ok := blockClosure(decl.Value); ok && scope.Lowered(decl) {
		return g.functions.Named(decl.Name, c.Params, c.ReturnType, body, scope)
	}

	var value string
	var err error
	if c, ok := decl.Value.(*Closure); ok {
		value, err = g.closures.Generate(decl.Name, c, scope)
	} else {
		value, err = g.exprs.Generate(decl.Value, scope)
	}
	if err != nil {
		return "", err
	}

	var doc string
	if g.comments {
		doc = fmt.Sprintf("/** @var %s $%s */\n", docType(decl.Type), decl.Name)
	}

	return fmt.Sprintf("%s$%s = %s;\n", doc, decl.Name, value), nil
}

// Constant renders a constant declaration. PHP only accepts const at the top
// level of a file, anywhere else the constant is defined at runtime.
func (g *DeclarationGenerator) Constant(decl *ConstantDecl, scope *Scope, topLevel bool) (string, error) {
	value, err := g.exprs.Generate(decl.Value, scope)
	if err != nil {
		return "", err
	}

	var doc string
	if g.comments {
		doc = fmt.Sprintf("/** @var %s */\n", docType(decl.Type))
	}

	name := constantName(decl.Name)
	if !topLevel {
		return fmt.Sprintf("%sdefine('%s', %s);\n", doc, name, value), nil
	}

	return fmt.Sprintf("%sconst %s = %s;\n", doc, name, value), nil
}

func constantName(name string) string {
	// Casers keep state, one per call keeps this safe across files
	return cases.Upper(language.Und).String(name)
}

type OutputGenerator struct {
	exprs *ExpressionGenerator
}

func (g *OutputGenerator) Generate(stmt *PrintStmt, scope *Scope) (string, error) {
	value, err := g.exprs.Generate(stmt.Expr, scope)
	if err != nil {
		return "", err
	}

	if stmt.Newline {
		return fmt.Sprintf("echo %s . \"\\n\";\n", value), nil
	}

	return fmt.Sprintf("echo %s;\n", value), nil
}

type ExprStmtGenerator struct {
	exprs *ExpressionGenerator
}

func (g *ExprStmtGenerator) Generate(stmt *ExprStmt, scope *Scope) (string, error) {
	value, err := g.exprs.Generate(stmt.Expr, scope)
	if err != nil {
		return "", err
	}

	return value + ";\n", nil
}
