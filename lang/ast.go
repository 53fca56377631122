package lang

import "iter"

// Program is the root of a parsed source. It owns its statements, and the
// whole tree is read-only once [Parse] returns.
type Program struct {
	Statements []Stmt
}

// All returns an iterator over the top-level statements.
func (p *Program) All() iter.Seq[Stmt] {
	return func(yield func(Stmt) bool) {
		for _, s := range p.Statements {
			if !yield(s) {
				return
			}
		}
	}
}

// Stmt is the closed family of statement nodes: [*LetStmt],
// [*ExpressionStmt], [*Block], [*While], [*For], and [*FunctionDecl].
type Stmt interface {
	stmtNode()
}

// Expr is the closed family of expression nodes: [*IntegerLiteral],
// [*FloatLiteral], [*BooleanLiteral], [*StringLiteral], [*NullLiteral],
// [*Identifier], [*Unary], [*Binary], [*Assign], [*IfExpr], and [*Call].
type Expr interface {
	exprNode()
}

// LetStmt defines Name in the current scope. Init is nil when the
// declaration has no initializer.
type LetStmt struct {
	Name Token
	Init Expr
}

// ExpressionStmt evaluates an expression for its value.
type ExpressionStmt struct {
	Expr Expr
}

// Block is a brace-delimited statement list evaluated in its own scope.
type Block struct {
	Statements []Stmt
}

// While repeats Body while Cond is true.
type While struct {
	Cond Expr
	Body *Block
}

// For runs Init once, then repeats Body followed by Step while Cond is true.
// Step must be an [*Assign] when it is evaluated.
type For struct {
	Init *LetStmt
	Cond Expr
	Step Expr
	Body *Block
}

// FunctionDecl is parsed but has no evaluation semantics.
type FunctionDecl struct {
	Name   Token
	Params []Token
	Body   *Block
}

func (*LetStmt) stmtNode()        {}
func (*ExpressionStmt) stmtNode() {}
func (*Block) stmtNode()          {}
func (*While) stmtNode()          {}
func (*For) stmtNode()            {}
func (*FunctionDecl) stmtNode()   {}

type (
	IntegerLiteral struct{ Value int64 }
	FloatLiteral   struct{ Value float64 }
	BooleanLiteral struct{ Value bool }
	StringLiteral  struct{ Value string }
	NullLiteral    struct{}
)

// Identifier references a binding by name.
type Identifier struct {
	Name Token
}

// Unary applies a prefix operator ('-' or '!').
type Unary struct {
	Op      Token
	Operand Expr
}

// Binary applies an infix operator, including the short-circuit '&&' and
// '||'.
type Binary struct {
	Left  Expr
	Op    Token
	Right Expr
}

// Assign mutates the innermost existing binding of Name.
type Assign struct {
	Name  Token
	Value Expr
}

// IfExpr yields the value of the chosen branch, or null when Cond is false
// and Else is nil.
type IfExpr struct {
	Cond Expr
	Then *Block
	Else *Block
}

// Call is parsed but has no evaluation semantics.
type Call struct {
	Callee Expr
	Paren  Token
	Args   []Expr
}

func (*IntegerLiteral) exprNode() {}
func (*FloatLiteral) exprNode()   {}
func (*BooleanLiteral) exprNode() {}
func (*StringLiteral) exprNode()  {}
func (*NullLiteral) exprNode()    {}
func (*Identifier) exprNode()     {}
func (*Unary) exprNode()          {}
func (*Binary) exprNode()         {}
func (*Assign) exprNode()         {}
func (*IfExpr) exprNode()         {}
func (*Call) exprNode()           {}
