package corrozy

import (
	"fmt"
	"log/slog"
	"strings"
)

// CodeGenerator turns parsed statements into PHP source. It dispatches every
// statement to the generator for its kind.
type CodeGenerator struct {
	logger *slog.Logger

	exprs        *ExpressionGenerator
	blocks       *BlockGenerator
	declarations *DeclarationGenerator
	outputs      *OutputGenerator
	exprStmts    *ExprStmtGenerator
	functions    *FunctionGenerator
	conditionals *IfElseGenerator
}

func NewCodeGenerator(config *Config, logger *slog.Logger) *CodeGenerator {
	if logger == nil {
		logger = slog.Default()
	}

	comments := config.Transpiler.IncludeComments

	g := &CodeGenerator{logger: logger}

	g.exprs = &ExpressionGenerator{}
	g.blocks = NewBlockGenerator(g, g.exprs)

	closures := NewClosureGenerator(g.blocks, g.exprs)
	g.exprs.closures = closures

	g.functions = &FunctionGenerator{blocks: g.blocks, closures: closures, comments: comments}
	g.declarations = &DeclarationGenerator{
		exprs:     g.exprs,
		closures:  closures,
		functions: g.functions,
		comments:  comments,
	}
	g.outputs = &OutputGenerator{exprs: g.exprs}
	g.exprStmts = &ExprStmtGenerator{exprs: g.exprs}
	g.conditionals = &IfElseGenerator{blocks: g.blocks, exprs: g.exprs}

	return g
}

// Generate renders a whole program as the body of a PHP file
func (g *CodeGenerator) Generate(statements []Stmt) (string, error) {
	return g.RenderNode(&Program{Statements: statements}, nil)
}

func (g *CodeGenerator) RenderNode(node Stmt, scope *Scope) (string, error) {
	switch n := node.(type) {
	case *Program:
		return g.program(n)
	case *VariableDecl:
		return g.declarations.Variable(n, scope)
	case *ConstantDecl:
		return g.declarations.Constant(n, scope, false)
	case *PrintStmt:
		return g.outputs.Generate(n, scope)
	case *ExprStmt:
		return g.exprStmts.Generate(n, scope)
	case *FuncDecl:
		return g.functions.Generate(n, scope)
	case *IfStmt:
		return g.conditionals.Generate(n, scope)
	}

	kind := nodeKind(node)
	g.logger.Warn("no generator for node, emitting placeholder", "kind", kind)

	return fmt.Sprintf("// unsupported node: %s\n", kind), nil
}

func (g *CodeGenerator) program(p *Program) (string, error) {
	scope := NewProgramScope(p.Statements)
	g.logger.Debug("resolved program scope", "variables", scope.Names())

	var out strings.Builder
	for _, stmt := range p.Statements {
		var code string
		var err error
		if decl, ok := stmt.(*ConstantDecl); ok {
			code, err = g.declarations.Constant(decl, scope, true)
		} else {
			code, err = g.RenderNode(stmt, scope)
		}
		if err != nil {
			return "", err
		}

		out.WriteString(code)
	}

	return out.String(), nil
}

func nodeKind(node Node) string {
	kind := fmt.Sprintf("%T", node)
	return kind[strings.LastIndex(kind, ".")+1:]
}
