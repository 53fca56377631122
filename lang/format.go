package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes prog in canonical source form. Every compound expression is
// parenthesized, so parsing the output and formatting it again reproduces it
// exactly.
//
// With indent > 0, statements are written one per line and block bodies are
// indented by indent spaces per level. With indent == 0 the whole program is
// written on a single line with statements separated by "; ".
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	pr := &printer{w: w, indent: indent}

	pr.statements(p.Statements, 0)

	if len(p.Statements) > 0 && indent == 0 {
		pr.print("\n")
	}

	return pr.err
}

// String returns the single-line canonical form of prog.
func (p *Program) String() string {
	var sb strings.Builder

	_ = p.Format(context.Background(), &sb, 0)

	return strings.TrimSuffix(sb.String(), "\n")
}

// FormatJSON writes the syntax tree of prog as JSON.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(p.ToMap(), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(p.ToMap())
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the syntax tree of prog as YAML.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// printer accumulates the first write error so callers can emit freely and
// check once.
type printer struct {
	w      io.Writer
	indent int
	err    error
}

func (pr *printer) print(s ...string) {
	for _, v := range s {
		if pr.err != nil {
			return
		}

		_, pr.err = io.WriteString(pr.w, v)
	}
}

func (pr *printer) pad(depth int) {
	if pr.indent > 0 {
		pr.print(strings.Repeat(" ", depth*pr.indent))
	}
}

func (pr *printer) statements(stmts []Stmt, depth int) {
	for i, stmt := range stmts {
		if pr.indent > 0 {
			pr.pad(depth)
			pr.stmt(stmt, depth)
			pr.print("\n")

			continue
		}

		if i > 0 {
			pr.print("; ")
		}

		pr.stmt(stmt, depth)
	}
}

func (pr *printer) stmt(stmt Stmt, depth int) {
	switch stmt := stmt.(type) {
	case *LetStmt:
		pr.let(stmt, depth)

	case *ExpressionStmt:
		pr.expr(stmt.Expr, depth)

	case *Block:
		pr.block(stmt, depth)

	case *While:
		pr.print("while ")
		pr.expr(stmt.Cond, depth)
		pr.print(" ")
		pr.block(stmt.Body, depth)

	case *For:
		pr.print("for ")
		pr.let(stmt.Init, depth)
		pr.print("; ")
		pr.expr(stmt.Cond, depth)
		pr.print("; ")
		pr.expr(stmt.Step, depth)
		pr.print(" ")
		pr.block(stmt.Body, depth)

	case *FunctionDecl:
		pr.print("fun ", stmt.Name.Lexeme, "(")

		for i, param := range stmt.Params {
			if i > 0 {
				pr.print(", ")
			}

			pr.print(param.Lexeme)
		}

		pr.print(") ")
		pr.block(stmt.Body, depth)
	}
}

func (pr *printer) let(let *LetStmt, depth int) {
	pr.print("let ", let.Name.Lexeme)

	if let.Init != nil {
		pr.print(" = ")
		pr.expr(let.Init, depth)
	}
}

func (pr *printer) block(b *Block, depth int) {
	switch {
	case len(b.Statements) == 0:
		pr.print("{}")

	case pr.indent > 0:
		pr.print("{\n")
		pr.statements(b.Statements, depth+1)
		pr.pad(depth)
		pr.print("}")

	default:
		pr.print("{ ")
		pr.statements(b.Statements, depth+1)
		pr.print(" }")
	}
}

func (pr *printer) expr(expr Expr, depth int) {
	switch expr := expr.(type) {
	case *IntegerLiteral:
		pr.print(strconv.FormatInt(expr.Value, 10))

	case *FloatLiteral:
		pr.print(formatFloat(expr.Value))

	case *BooleanLiteral:
		pr.print(strconv.FormatBool(expr.Value))

	case *StringLiteral:
		pr.print(`"`, expr.Value, `"`)

	case *NullLiteral:
		pr.print("null")

	case *Identifier:
		pr.print(expr.Name.Lexeme)

	case *Unary:
		pr.print("(", expr.Op.Lexeme)
		pr.expr(expr.Operand, depth)
		pr.print(")")

	case *Binary:
		pr.print("(")
		pr.expr(expr.Left, depth)
		pr.print(" ", expr.Op.Lexeme, " ")
		pr.expr(expr.Right, depth)
		pr.print(")")

	case *Assign:
		pr.print("(", expr.Name.Lexeme, " = ")
		pr.expr(expr.Value, depth)
		pr.print(")")

	case *IfExpr:
		pr.print("if ")
		pr.expr(expr.Cond, depth)
		pr.print(" ")
		pr.block(expr.Then, depth)

		if expr.Else != nil {
			pr.print(" else ")
			pr.block(expr.Else, depth)
		}

	case *Call:
		pr.expr(expr.Callee, depth)
		pr.print("(")

		for i, arg := range expr.Args {
			if i > 0 {
				pr.print(", ")
			}

			pr.expr(arg, depth)
		}

		pr.print(")")
	}
}
