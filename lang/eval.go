package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/scrip/log"
)

// Evaluator walks a [Program] against an [Env]. The active scope is passed
// explicitly through every evaluation call; the Evaluator itself holds no
// notion of a current scope.
//
// An Evaluator is not safe for concurrent use.
type Evaluator struct {
	env    *Env
	logger log.Logger
}

// NewEvaluator returns an Evaluator over env. A nil env is replaced with a
// fresh [NewEnv].
func NewEvaluator(env *Env, opts ...Option) *Evaluator {
	o := makeOptions(opts...)

	if env == nil {
		env = NewEnv()
	}

	return &Evaluator{env: env, logger: o.logger}
}

// Env returns the environment the Evaluator binds names in.
func (ev *Evaluator) Env() *Env { return ev.env }

// Eval evaluates prog in a fresh environment and returns the value of its
// last statement, or null for an empty program.
func Eval(ctx context.Context, prog *Program, opts ...Option) (Value, error) {
	return NewEvaluator(nil, opts...).Run(ctx, prog)
}

// EvalString parses and evaluates source in a fresh environment.
func EvalString(ctx context.Context, source string, opts ...Option) (Value, error) {
	prog, err := Parse(ctx, source, opts...)
	if err != nil {
		return Null, err
	}

	return Eval(ctx, prog, opts...)
}

// Run evaluates prog in the root scope of the Evaluator's environment.
// Bindings made by prog remain visible to later calls to Run.
//
// The first error aborts evaluation. Scopes pushed by blocks are always
// popped, so the environment is left holding only the root scope.
func (ev *Evaluator) Run(ctx context.Context, prog *Program) (Value, error) {
	last := Null

	for stmt := range prog.All() {
		v, err := ev.evalStmt(ctx, ev.env.Root(), stmt)
		if err != nil {
			ev.logger.TraceContext(ctx, "evaluation failed",
				slog.Any("error", err))

			return Null, err
		}

		last = v
	}

	ev.logger.TraceContext(ctx, "evaluation complete",
		slog.Int("statement_count", len(prog.Statements)),
		slog.Any("result", last))

	return last, nil
}

func (ev *Evaluator) evalStmt(ctx context.Context, s Scope, stmt Stmt) (Value, error) {
	switch stmt := stmt.(type) {
	case *ExpressionStmt:
		return ev.evalExpr(ctx, s, stmt.Expr)

	case *LetStmt:
		return Null, ev.evalLet(ctx, s, stmt)

	case *Block:
		return ev.evalBlock(ctx, s, stmt)

	case *While:
		return Null, ev.evalWhile(ctx, s, stmt)

	case *For:
		return Null, ev.evalFor(ctx, s, stmt)

	case *FunctionDecl:
		return Null, ErrNotCallable.At(stmt.Name)

	default:
		panic("lang: unhandled statement type")
	}
}

func (ev *Evaluator) evalLet(ctx context.Context, s Scope, let *LetStmt) error {
	v := Null

	if let.Init != nil {
		var err error

		v, err = ev.evalExpr(ctx, s, let.Init)
		if err != nil {
			return err
		}
	}

	ev.env.Define(s, let.Name.Lexeme, v)

	return nil
}

// evalBlock evaluates b in a new scope enclosed by parent. The scope is
// popped on every return path.
func (ev *Evaluator) evalBlock(ctx context.Context, parent Scope, b *Block) (Value, error) {
	s := ev.env.Push(parent)
	defer ev.env.Pop(s)

	ev.logger.TraceContext(ctx, "scope push", slog.Int("depth", ev.env.Depth()))

	last := Null

	for _, stmt := range b.Statements {
		v, err := ev.evalStmt(ctx, s, stmt)
		if err != nil {
			return Null, err
		}

		last = v
	}

	return last, nil
}

func (ev *Evaluator) evalWhile(ctx context.Context, s Scope, w *While) error {
	for {
		if err := ctx.Err(); err != nil {
			return ErrInterrupted.Wrap(err)
		}

		ok, err := ev.evalCondition(ctx, s, w.Cond, "while")
		if err != nil || !ok {
			return err
		}

		if _, err := ev.evalBlock(ctx, s, w.Body); err != nil {
			return err
		}
	}
}

// evalFor runs the initializer in s itself, so the loop variable outlives
// the loop.
func (ev *Evaluator) evalFor(ctx context.Context, s Scope, f *For) error {
	if err := ev.evalLet(ctx, s, f.Init); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return ErrInterrupted.Wrap(err)
		}

		ok, err := ev.evalCondition(ctx, s, f.Cond, "for")
		if err != nil || !ok {
			return err
		}

		if _, err := ev.evalBlock(ctx, s, f.Body); err != nil {
			return err
		}

		step, isAssign := f.Step.(*Assign)
		if !isAssign {
			err := ErrInvalidLoopIncrement
			if tok, ok := exprToken(f.Step); ok {
				err = err.At(tok)
			}

			return err
		}

		if _, err := ev.evalAssign(ctx, s, step); err != nil {
			return err
		}
	}
}

// evalCondition evaluates a condition that must reduce to a Bool.
func (ev *Evaluator) evalCondition(
	ctx context.Context,
	s Scope,
	cond Expr,
	what string,
) (bool, error) {
	v, err := ev.evalExpr(ctx, s, cond)
	if err != nil {
		return false, err
	}

	b, ok := v.AsBool()
	if !ok {
		err := ErrTypeMismatch.With(
			slog.String("context", what+" condition"),
			slog.String("kind", v.Kind().String()),
		)
		if tok, ok := exprToken(cond); ok {
			err = err.At(tok)
		}

		return false, err
	}

	return b, nil
}

func (ev *Evaluator) evalExpr(ctx context.Context, s Scope, expr Expr) (Value, error) {
	switch expr := expr.(type) {
	case *IntegerLiteral:
		return Int(expr.Value), nil

	case *FloatLiteral:
		return Float(expr.Value), nil

	case *BooleanLiteral:
		return Bool(expr.Value), nil

	case *StringLiteral:
		return String(expr.Value), nil

	case *NullLiteral:
		return Null, nil

	case *Identifier:
		v, ok := ev.env.Lookup(s, expr.Name.Lexeme)
		if !ok {
			return Null, ErrUndefinedVariable.At(expr.Name)
		}

		return v, nil

	case *Assign:
		return ev.evalAssign(ctx, s, expr)

	case *Unary:
		operand, err := ev.evalExpr(ctx, s, expr.Operand)
		if err != nil {
			return Null, err
		}

		return unary(expr.Op, operand)

	case *Binary:
		if k := expr.Op.Kind; k == TokenAndAnd || k == TokenOrOr {
			return ev.evalLogical(ctx, s, expr)
		}

		left, err := ev.evalExpr(ctx, s, expr.Left)
		if err != nil {
			return Null, err
		}

		right, err := ev.evalExpr(ctx, s, expr.Right)
		if err != nil {
			return Null, err
		}

		return binary(expr.Op, left, right)

	case *IfExpr:
		ok, err := ev.evalCondition(ctx, s, expr.Cond, "if")
		if err != nil {
			return Null, err
		}

		switch {
		case ok:
			return ev.evalBlock(ctx, s, expr.Then)

		case expr.Else != nil:
			return ev.evalBlock(ctx, s, expr.Else)

		default:
			return Null, nil
		}

	case *Call:
		return Null, ErrNotCallable.At(expr.Paren)

	default:
		panic("lang: unhandled expression type")
	}
}

// evalAssign mutates the innermost existing binding and yields the assigned
// value.
func (ev *Evaluator) evalAssign(ctx context.Context, s Scope, a *Assign) (Value, error) {
	v, err := ev.evalExpr(ctx, s, a.Value)
	if err != nil {
		return Null, err
	}

	if !ev.env.Assign(s, a.Name.Lexeme, v) {
		return Null, ErrUndefinedVariable.At(a.Name)
	}

	return v, nil
}

// evalLogical evaluates '&&' and '||', skipping the right operand when the
// left one decides the result.
func (ev *Evaluator) evalLogical(ctx context.Context, s Scope, b *Binary) (Value, error) {
	left, err := ev.evalExpr(ctx, s, b.Left)
	if err != nil {
		return Null, err
	}

	lb, ok := left.AsBool()
	if !ok {
		return Null, ErrTypeMismatch.At(b.Op).With(
			slog.String("left", left.Kind().String()))
	}

	if (b.Op.Kind == TokenAndAnd && !lb) || (b.Op.Kind == TokenOrOr && lb) {
		return Bool(lb), nil
	}

	right, err := ev.evalExpr(ctx, s, b.Right)
	if err != nil {
		return Null, err
	}

	rb, ok := right.AsBool()
	if !ok {
		return Null, ErrTypeMismatch.At(b.Op).With(
			slog.String("left", left.Kind().String()),
			slog.String("right", right.Kind().String()))
	}

	return Bool(rb), nil
}

// exprToken returns a token that locates expr in the source, when expr
// carries one.
func exprToken(expr Expr) (Token, bool) {
	switch expr := expr.(type) {
	case *Identifier:
		return expr.Name, true

	case *Assign:
		return expr.Name, true

	case *Unary:
		return expr.Op, true

	case *Binary:
		return expr.Op, true

	case *Call:
		return expr.Paren, true

	default:
		return Token{}, false
	}
}
