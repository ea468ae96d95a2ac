package corrozy

import "strings"

type IfElseGenerator struct {
	blocks *BlockGenerator
	exprs  *ExpressionGenerator
}

func (g *IfElseGenerator) Generate(stmt *IfStmt, scope *Scope) (string, error) {
	chain, err := g.chain(stmt, scope)
	if err != nil {
		return "", err
	}

	return chain + "\n", nil
}

// chain renders an if statement up to its closing brace, else-if branches
// are flattened into elseif
func (g *IfElseGenerator) chain(stmt *IfStmt, scope *Scope) (string, error) {
	cond, err := g.exprs.Condition(stmt.Cond, scope)
	if err != nil {
		return "", err
	}

	then, err := g.blocks.Generate(stmt.Then, scope)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString("if " + cond + " {\n")
	out.WriteString(then)
	out.WriteString("}")

	switch e := stmt.Else.(type) {
	case *ElseIf:
		next, err := g.chain(e.If, scope)
		if err != nil {
			return "", err
		}

		out.WriteString(" else")
		out.WriteString(next)
	case *ElseBlock:
		body, err := g.blocks.Generate(e.Block, scope)
		if err != nil {
			return "", err
		}

		out.WriteString(" else {\n")
		out.WriteString(body)
		out.WriteString("}")
	}

	return out.String(), nil
}
