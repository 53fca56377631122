package lang

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the syntax tree to nested maps and slices. Every node is a
// map whose "node" key names its type.
func (p *Program) ToMap() map[string]any {
	stmts := make([]any, len(p.Statements))
	for i, stmt := range p.Statements {
		stmts[i] = stmtMap(stmt)
	}

	return map[string]any{
		"node":       "program",
		"statements": stmts,
	}
}

func stmtMap(stmt Stmt) map[string]any {
	switch stmt := stmt.(type) {
	case *LetStmt:
		m := map[string]any{
			"node": "let",
			"name": stmt.Name.Lexeme,
			"line": stmt.Name.Line,
		}
		if stmt.Init != nil {
			m["init"] = exprMap(stmt.Init)
		}

		return m

	case *ExpressionStmt:
		return map[string]any{
			"node": "expression",
			"expr": exprMap(stmt.Expr),
		}

	case *Block:
		return blockMap(stmt)

	case *While:
		return map[string]any{
			"node": "while",
			"cond": exprMap(stmt.Cond),
			"body": blockMap(stmt.Body),
		}

	case *For:
		return map[string]any{
			"node": "for",
			"init": stmtMap(stmt.Init),
			"cond": exprMap(stmt.Cond),
			"step": exprMap(stmt.Step),
			"body": blockMap(stmt.Body),
		}

	case *FunctionDecl:
		params := make([]any, len(stmt.Params))
		for i, param := range stmt.Params {
			params[i] = param.Lexeme
		}

		return map[string]any{
			"node":   "function",
			"name":   stmt.Name.Lexeme,
			"line":   stmt.Name.Line,
			"params": params,
			"body":   blockMap(stmt.Body),
		}

	default:
		return nil
	}
}

func blockMap(b *Block) map[string]any {
	stmts := make([]any, len(b.Statements))
	for i, stmt := range b.Statements {
		stmts[i] = stmtMap(stmt)
	}

	return map[string]any{
		"node":       "block",
		"statements": stmts,
	}
}

func exprMap(expr Expr) map[string]any {
	switch expr := expr.(type) {
	case *IntegerLiteral:
		return map[string]any{"node": "integer", "value": expr.Value}

	case *FloatLiteral:
		return map[string]any{"node": "float", "value": expr.Value}

	case *BooleanLiteral:
		return map[string]any{"node": "bool", "value": expr.Value}

	case *StringLiteral:
		return map[string]any{"node": "string", "value": expr.Value}

	case *NullLiteral:
		return map[string]any{"node": "null"}

	case *Identifier:
		return map[string]any{
			"node": "identifier",
			"name": expr.Name.Lexeme,
			"line": expr.Name.Line,
		}

	case *Unary:
		return map[string]any{
			"node":    "unary",
			"op":      expr.Op.Lexeme,
			"line":    expr.Op.Line,
			"operand": exprMap(expr.Operand),
		}

	case *Binary:
		return map[string]any{
			"node":  "binary",
			"op":    expr.Op.Lexeme,
			"line":  expr.Op.Line,
			"left":  exprMap(expr.Left),
			"right": exprMap(expr.Right),
		}

	case *Assign:
		return map[string]any{
			"node":  "assign",
			"name":  expr.Name.Lexeme,
			"line":  expr.Name.Line,
			"value": exprMap(expr.Value),
		}

	case *IfExpr:
		m := map[string]any{
			"node": "if",
			"cond": exprMap(expr.Cond),
			"then": blockMap(expr.Then),
		}
		if expr.Else != nil {
			m["else"] = blockMap(expr.Else)
		}

		return m

	case *Call:
		args := make([]any, len(expr.Args))
		for i, arg := range expr.Args {
			args[i] = exprMap(arg)
		}

		return map[string]any{
			"node":   "call",
			"line":   expr.Paren.Line,
			"callee": exprMap(expr.Callee),
			"args":   args,
		}

	default:
		return nil
	}
}

// Print writes an indented outline of the syntax tree, one node per line.
func (p *Program) Print(w io.Writer) error {
	return p.PrintIndent(w, 2)
}

// PrintIndent is like Print with the given indent width per level.
func (p *Program) PrintIndent(w io.Writer, indent int) error {
	t := &treePrinter{printer: printer{w: w, indent: max(indent, 1)}}

	t.line(0, "Program")

	for _, stmt := range p.Statements {
		t.stmt(1, stmt)
	}

	return t.err
}

type treePrinter struct {
	printer
}

func (t *treePrinter) line(depth int, format string, args ...any) {
	t.print(strings.Repeat(" ", depth*t.indent), fmt.Sprintf(format, args...), "\n")
}

func (t *treePrinter) stmt(depth int, stmt Stmt) {
	switch stmt := stmt.(type) {
	case *LetStmt:
		t.line(depth, "Let %s", stmt.Name.Lexeme)

		if stmt.Init != nil {
			t.expr(depth+1, stmt.Init)
		}

	case *ExpressionStmt:
		t.line(depth, "ExpressionStmt")
		t.expr(depth+1, stmt.Expr)

	case *Block:
		t.block(depth, "Block", stmt)

	case *While:
		t.line(depth, "While")
		t.expr(depth+1, stmt.Cond)
		t.block(depth+1, "Body", stmt.Body)

	case *For:
		t.line(depth, "For")
		t.stmt(depth+1, stmt.Init)
		t.expr(depth+1, stmt.Cond)
		t.expr(depth+1, stmt.Step)
		t.block(depth+1, "Body", stmt.Body)

	case *FunctionDecl:
		params := make([]string, len(stmt.Params))
		for i, param := range stmt.Params {
			params[i] = param.Lexeme
		}

		t.line(depth, "Function %s(%s)", stmt.Name.Lexeme, strings.Join(params, ", "))
		t.block(depth+1, "Body", stmt.Body)
	}
}

func (t *treePrinter) block(depth int, label string, b *Block) {
	t.line(depth, "%s", label)

	for _, stmt := range b.Statements {
		t.stmt(depth+1, stmt)
	}
}

func (t *treePrinter) expr(depth int, expr Expr) {
	switch expr := expr.(type) {
	case *IntegerLiteral:
		t.line(depth, "Integer %d", expr.Value)

	case *FloatLiteral:
		t.line(depth, "Float %s", formatFloat(expr.Value))

	case *BooleanLiteral:
		t.line(depth, "Bool %t", expr.Value)

	case *StringLiteral:
		t.line(depth, "String %q", expr.Value)

	case *NullLiteral:
		t.line(depth, "Null")

	case *Identifier:
		t.line(depth, "Identifier %s", expr.Name.Lexeme)

	case *Unary:
		t.line(depth, "Unary %s", expr.Op.Lexeme)
		t.expr(depth+1, expr.Operand)

	case *Binary:
		t.line(depth, "Binary %s", expr.Op.Lexeme)
		t.expr(depth+1, expr.Left)
		t.expr(depth+1, expr.Right)

	case *Assign:
		t.line(depth, "Assign %s", expr.Name.Lexeme)
		t.expr(depth+1, expr.Value)

	case *IfExpr:
		t.line(depth, "If")
		t.expr(depth+1, expr.Cond)
		t.block(depth+1, "Then", expr.Then)

		if expr.Else != nil {
			t.block(depth+1, "Else", expr.Else)
		}

	case *Call:
		t.line(depth, "Call")
		t.expr(depth+1, expr.Callee)

		for _, arg := range expr.Args {
			t.expr(depth+1, arg)
		}
	}
}
