package corrozy

import (
	"fmt"
	"strings"
)

const indentation = "    "

// NodeRenderer renders a single statement in a scope. The code generator
// implements it so nested bodies go back through the same dispatch.
type NodeRenderer interface {
	RenderNode(node Stmt, scope *Scope) (string, error)
}

type BlockGenerator struct {
	nodes NodeRenderer
	exprs *ExpressionGenerator
}

func NewBlockGenerator(nodes NodeRenderer, exprs *ExpressionGenerator) *BlockGenerator {
	return &BlockGenerator{nodes: nodes, exprs: exprs}
}

// Generate renders the inside of a body, one level indented, without braces
func (g *BlockGenerator) Generate(block *Block, scope *Scope) (string, error) {
	var out strings.Builder

	for _, stmt := range block.Statements {
		code, err := g.nodes.RenderNode(stmt, scope)
		if err != nil {
			return "", err
		}

		out.WriteString(indent(code))
	}

	if block.Return == nil {
		return out.String(), nil
	}

	if block.Return.Value == nil {
		out.WriteString(indentation + "return;\n")
		return out.String(), nil
	}

	value, err := g.exprs.Generate(block.Return.Value, scope)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(&out, "%sreturn %s;\n", indentation, value)

	return out.String(), nil
}

// indent prefixes every non empty line of code
func indent(code string) string {
	if code == "" {
		return ""
	}

	var out strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(code, "\n"), "\n") {
		if line != "" {
			out.WriteString(indentation)
			out.WriteString(line)
		}

		out.WriteString("\n")
	}

	return out.String()
}
