package corrozy

// Node is implemented by every syntax tree node. The marker methods keep the
// sets closed to this package.
type Node interface {
	node()
}

type Stmt interface {
	Node
	stmtNode()
}

type Expr interface {
	Node
	exprNode()
}

type Program struct {
	Statements []Stmt
}

type VariableDecl struct {
	Type  string
	Name  string
	Value Expr
}

type ConstantDecl struct {
	Type  string
	Name  string
	Value Expr
}

type PrintStmt struct {
	Expr    Expr
	Newline bool
}

type ExprStmt struct {
	Expr Expr
}

type FuncDecl struct {
	Name       string
	Params     []Parameter
	ReturnType string
	Body       *Block
}

type IfStmt struct {
	Cond Expr
	Then *Block
	Else ElseClause
}

// WhileLoop and ForLoop are modelled but the parser refuses to build them
type WhileLoop struct {
	Cond Expr
	Body *Block
}

type ForLoop struct {
	Init   ForInit
	Cond   Expr
	Update Expr
	Body   *Block
}

type ForInit interface {
	Node
	forInit()
}

type ForInitDecl struct {
	Decl *VariableDecl
}

type ForInitExpr struct {
	Expr Expr
}

func (*Program) node()      {}
func (*VariableDecl) node() {}
func (*ConstantDecl) node() {}
func (*PrintStmt) node()    {}
func (*ExprStmt) node()     {}
func (*FuncDecl) node()     {}
func (*IfStmt) node()       {}
func (*WhileLoop) node()    {}
func (*ForLoop) node()      {}
func (*ForInitDecl) node()  {}
func (*ForInitExpr) node()  {}

func (*Program) stmtNode()      {}
func (*VariableDecl) stmtNode() {}
func (*ConstantDecl) stmtNode() {}
func (*PrintStmt) stmtNode()    {}
func (*ExprStmt) stmtNode()     {}
func (*FuncDecl) stmtNode()     {}
func (*IfStmt) stmtNode()       {}
func (*WhileLoop) stmtNode()    {}
func (*ForLoop) stmtNode()      {}

func (*ForInitDecl) forInit() {}
func (*ForInitExpr) forInit() {}

type Parameter struct {
	Name string
	Type string
}

type ReturnStmt struct {
	Value Expr // nil for a bare return
}

// Block is a statement list plus an optional terminal return. Statements
// placed after the return in source are kept.
type Block struct {
	Statements []Stmt
	Return     *ReturnStmt
}

type ElseClause interface {
	Node
	elseNode()
}

type ElseIf struct {
	If *IfStmt
}

type ElseBlock struct {
	Block *Block
}

func (*ElseIf) node()        {}
func (*ElseBlock) node()     {}
func (*ElseIf) elseNode()    {}
func (*ElseBlock) elseNode() {}

type LiteralKind int

const (
	LiteralInteger LiteralKind = iota
	LiteralFloat
	LiteralBool
	LiteralString
)

type QuoteStyle int

const (
	QuoteInterpolated QuoteStyle = iota
	QuoteRaw
)

type Literal struct {
	Kind  LiteralKind
	Int   int64
	Float float64
	Bool  bool
	Str   string
	Quote QuoteStyle
}

type Variable struct {
	Name string
}

type FuncCall struct {
	Name string
	Args []Expr
}

type Parenthesized struct {
	Inner Expr
}

type BinaryOp string

const (
	BinaryAddition       BinaryOp = "+"
	BinarySubtraction    BinaryOp = "-"
	BinaryMultiplication BinaryOp = "*"
	BinaryDivision       BinaryOp = "/"
	BinaryEqual          BinaryOp = "=="
	BinaryNotEqual       BinaryOp = "!="
	BinaryLess           BinaryOp = "<"
	BinaryGreater        BinaryOp = ">"
	BinaryLessEqual      BinaryOp = "<="
	BinaryGreaterEqual   BinaryOp = ">="
	BinaryAnd            BinaryOp = "&&"
	BinaryOr             BinaryOp = "||"
)

var binaryOps = map[string]BinaryOp{
	"+":  BinaryAddition,
	"-":  BinarySubtraction,
	"*":  BinaryMultiplication,
	"/":  BinaryDivision,
	"==": BinaryEqual,
	"!=": BinaryNotEqual,
	"<":  BinaryLess,
	">":  BinaryGreater,
	"<=": BinaryLessEqual,
	">=": BinaryGreaterEqual,
	"&&": BinaryAnd,
	"||": BinaryOr,
}

type BinaryExpr struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

type PostfixChain struct {
	Base     Expr
	Suffixes []Suffix
}

type Suffix interface {
	Node
	suffix()
}

type IndexSuffix struct {
	Index Expr
}

type PropertySuffix struct {
	Name string
}

type MethodSuffix struct {
	Call *FuncCall
}

type Closure struct {
	Params     []Parameter
	ReturnType string
	Body       ClosureBody
}

type ClosureBody interface {
	Node
	closureBody()
}

type ExprBody struct {
	Expr Expr
}

type BlockBody struct {
	Block *Block
}

type ArrayLiteral struct {
	Elements []Expr
}

func (*Literal) node()        {}
func (*Variable) node()       {}
func (*FuncCall) node()       {}
func (*Parenthesized) node()  {}
func (*BinaryExpr) node()     {}
func (*PostfixChain) node()   {}
func (*Closure) node()        {}
func (*ArrayLiteral) node()   {}
func (*IndexSuffix) node()    {}
func (*PropertySuffix) node() {}
func (*MethodSuffix) node()   {}
func (*ExprBody) node()       {}
func (*BlockBody) node()      {}

func (*Literal) exprNode()       {}
func (*Variable) exprNode()      {}
func (*FuncCall) exprNode()      {}
func (*Parenthesized) exprNode() {}
func (*BinaryExpr) exprNode()    {}
func (*PostfixChain) exprNode()  {}
func (*Closure) exprNode()       {}
func (*ArrayLiteral) exprNode()  {}

func (*IndexSuffix) suffix()    {}
func (*PropertySuffix) suffix() {}
func (*MethodSuffix) suffix()   {}

func (*ExprBody) closureBody()  {}
func (*BlockBody) closureBody() {}

// blockClosure returns the closure held by e when it has a block body
func blockClosure(e Expr) (*Closure, *Block, bool) {
	c, ok := e.(*Closure)
	if !ok {
		return nil, nil, false
	}

	body, ok := c.Body.(*BlockBody)
	if !ok {
		return nil, nil, false
	}

	return c, body.Block, true
}
