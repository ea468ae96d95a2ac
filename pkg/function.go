package corrozy

import (
	"fmt"
	"strings"
)

type FunctionGenerator struct {
	blocks   *BlockGenerator
	closures *ClosureGenerator
	comments bool
}

// Generate renders a function declaration. At program level, functions that
// capture nothing become named PHP functions, the rest are closures bound to
// a variable.
func (g *FunctionGenerator) Generate(decl *FuncDecl, scope *Scope) (string, error) {
	if scope.Lowered(decl) {
		return g.Named(decl.Name, decl.Params, decl.ReturnType, decl.Body, scope)
	}

	closure, err := g.closures.function(decl.Name, decl.Params, decl.ReturnType, decl.Body, scope)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s$%s = %s;\n", g.doc(decl.Params, decl.ReturnType), decl.Name, closure), nil
}

// Named renders a PHP function declaration. Its body only sees its own
// parameters and declarations, plus the constants of scope.
func (g *FunctionGenerator) Named(name string, params []Parameter, ret string, body *Block, scope *Scope) (string, error) {
	inner, err := g.blocks.Generate(body, NewBodyScope(scope, body, params, nil))
	if err != nil {
		return "", err
	}

	names := make([]string, len(params))
	for i, p := range params {
		names[i] = "$" + p.Name
	}

	var out strings.Builder
	out.WriteString(g.doc(params, ret))
	fmt.Fprintf(&out, "function %s(%s) {\n", name, strings.Join(names, ", "))
	out.WriteString(inner)
	out.WriteString("}\n")

	return out.String(), nil
}

func (g *FunctionGenerator) doc(params []Parameter, ret string) string {
	if !g.comments || (len(params) == 0 && ret == "") {
		return ""
	}

	var out strings.Builder
	out.WriteString("/**\n")
	for _, p := range params {
		fmt.Fprintf(&out, " * @param %s $%s\n", docType(p.Type), p.Name)
	}

	if ret != "" {
		fmt.Fprintf(&out, " * @return %s\n", docType(ret))
	}
	out.WriteString(" */\n")

	return out.String()
}
