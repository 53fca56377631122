package lang

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
)

// precedence is the binding power of an infix operator.
type precedence int

const (
	precLowest precedence = iota
	precAssign
	precOr
	precAnd
	precEquality
	precComparison
	precSum
	precProduct
	precPrefix
	precCall
)

// infixPrecedence returns the binding power of k in infix position, or
// precLowest when k cannot continue an expression.
func infixPrecedence(k TokenKind) precedence {
	switch k {
	case TokenEqual:
		return precAssign

	case TokenOrOr:
		return precOr

	case TokenAndAnd:
		return precAnd

	case TokenEqualEqual, TokenBangEqual:
		return precEquality

	case TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual:
		return precComparison

	case TokenPlus, TokenMinus:
		return precSum

	case TokenStar, TokenSlash:
		return precProduct

	case TokenLeftParen:
		return precCall

	default:
		return precLowest
	}
}

// Parse scans and parses source into a [Program].
func Parse(ctx context.Context, source string, opts ...Option) (*Program, error) {
	tokens, err := Scan(source)
	if err != nil {
		return nil, err
	}

	return ParseTokens(ctx, tokens, opts...)
}

// ParseTokens parses a token sequence into a [Program]. A missing EOF
// sentinel is supplied.
func ParseTokens(
	ctx context.Context,
	tokens []Token,
	opts ...Option,
) (*Program, error) {
	o := makeOptions(opts...)

	if n := len(tokens); n == 0 || tokens[n-1].Kind != TokenEOF {
		eof := Token{Kind: TokenEOF, Line: 1, Column: 1}
		if n > 0 {
			eof.Line = tokens[n-1].Line
		}

		tokens = append(tokens[:n:n], eof)
	}

	p := &parser{
		tokens:   tokens,
		maxDepth: o.maxDepth,
		heights:  make(map[any]int),
	}

	prog, err := p.parseProgram()
	if err != nil {
		o.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(tokens)),
		slog.Int("statement_count", len(prog.Statements)))

	return prog, nil
}

// parser holds the parser state: the token sequence, a cursor, the current
// recursion depth, and the height of each node built so far.
type parser struct {
	tokens   []Token
	pos      int
	depth    int
	maxDepth int
	heights  map[any]int
}

// parseProgram parses: {statement}.
func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{Statements: make([]Stmt, 0)}

	for !p.check(TokenEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}

	return prog, nil
}

// parseStatement parses one statement. A bare newline or semicolon yields a
// nil statement.
func (p *parser) parseStatement() (Stmt, error) {
	switch p.peek().Kind {
	case TokenNewline, TokenSemicolon:
		p.advance()

		return nil, nil

	case TokenLet:
		let, err := p.parseLet()
		if err != nil {
			return nil, err
		}

		p.endStatement()

		return let, nil

	case TokenLeftBrace:
		return p.parseBlock()

	case TokenWhile:
		return p.parseWhile()

	case TokenFor:
		return p.parseFor()

	case TokenFun:
		return p.parseFunction()

	default:
		expr, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}

		p.endStatement()

		return &ExpressionStmt{Expr: expr}, nil
	}
}

// endStatement consumes one optional statement terminator.
func (p *parser) endStatement() {
	if p.peek().isTerminator() {
		p.advance()
	}
}

// parseLet parses: "let" IDENT ["=" expression].
func (p *parser) parseLet() (*LetStmt, error) {
	if _, err := p.consume(TokenLet, "let statement"); err != nil {
		return nil, err
	}

	name, err := p.consume(TokenIdentifier, "let statement")
	if err != nil {
		return nil, err
	}

	let := &LetStmt{Name: name}

	if p.check(TokenEqual) {
		p.advance()

		let.Init, err = p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
	}

	return let, nil
}

// parseBlock parses: "{" {statement} "}".
func (p *parser) parseBlock() (*Block, error) {
	open, err := p.consume(TokenLeftBrace, "block")
	if err != nil {
		return nil, err
	}

	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()

	block := &Block{Statements: make([]Stmt, 0)}

	for !p.check(TokenRightBrace) {
		if p.check(TokenEOF) {
			return nil, ErrUnexpectedToken.At(p.peek()).With(
				slog.String("expected", TokenRightBrace.String()),
				slog.String("context", "block"),
			)
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}

	p.advance() // '}'

	tallest := 0
	for _, stmt := range block.Statements {
		tallest = max(tallest, p.stmtHeight(stmt))
	}

	if err := p.nest(block, open, tallest); err != nil {
		return nil, err
	}

	return block, nil
}

// parseWhile parses: "while" expression block.
func (p *parser) parseWhile() (*While, error) {
	p.advance() // 'while'

	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &While{Cond: cond, Body: body}, nil
}

// parseFor parses: "for" letStmt ";" expression ";" expression block.
func (p *parser) parseFor() (*For, error) {
	p.advance() // 'for'

	init, err := p.parseLet()
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(TokenSemicolon, "for initializer"); err != nil {
		return nil, err
	}

	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(TokenSemicolon, "for condition"); err != nil {
		return nil, err
	}

	step, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &For{Init: init, Cond: cond, Step: step, Body: body}, nil
}

// parseFunction parses: "fun" IDENT "(" [IDENT {"," IDENT}] ")" block.
func (p *parser) parseFunction() (*FunctionDecl, error) {
	p.advance() // 'fun'

	name, err := p.consume(TokenIdentifier, "function name")
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(TokenLeftParen, "function parameters"); err != nil {
		return nil, err
	}

	var params []Token

	for !p.check(TokenRightParen) {
		if len(params) > 0 {
			if _, err := p.consume(TokenComma, "function parameters"); err != nil {
				return nil, err
			}
		}

		param, err := p.consume(TokenIdentifier, "function parameters")
		if err != nil {
			return nil, err
		}

		params = append(params, param)
	}

	p.advance() // ')'

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return &FunctionDecl{Name: name, Params: params, Body: body}, nil
}

// parseExpression parses an expression whose infix operators all bind more
// tightly than minPrec.
func (p *parser) parseExpression(minPrec precedence) (Expr, error) {
	if err := p.enter(p.peek()); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for minPrec < infixPrecedence(p.peek().Kind) {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

// parsePrefix parses a primary or prefix form starting at the current token.
func (p *parser) parsePrefix() (Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case TokenIdentifier:
		p.advance()

		return p.leaf(&Identifier{Name: tok}, tok)

	case TokenInteger:
		p.advance()

		i, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			return nil, ErrMalformedNumericLiteral.At(tok).Wrap(err)
		}

		return p.leaf(&IntegerLiteral{Value: i}, tok)

	case TokenFloat:
		p.advance()

		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, ErrMalformedNumericLiteral.At(tok).Wrap(err)
		}

		return p.leaf(&FloatLiteral{Value: f}, tok)

	case TokenString:
		p.advance()

		s := strings.TrimPrefix(tok.Lexeme, `"`)
		s = strings.TrimSuffix(s, `"`)

		return p.leaf(&StringLiteral{Value: s}, tok)

	case TokenTrue, TokenFalse:
		p.advance()

		return p.leaf(&BooleanLiteral{Value: tok.Kind == TokenTrue}, tok)

	case TokenNull:
		p.advance()

		return p.leaf(&NullLiteral{}, tok)

	case TokenMinus, TokenBang:
		p.advance()

		operand, err := p.parseExpression(precPrefix)
		if err != nil {
			return nil, err
		}

		unary := &Unary{Op: tok, Operand: operand}
		if err := p.nest(unary, tok, p.height(operand)); err != nil {
			return nil, err
		}

		return unary, nil

	case TokenLeftParen:
		p.advance()

		expr, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}

		if _, err := p.consume(TokenRightParen, "grouping"); err != nil {
			return nil, err
		}

		return expr, nil

	case TokenIf:
		return p.parseIf()

	default:
		return nil, ErrNoPrefixRule.At(tok)
	}
}

// parseIf parses: "if" expression block ["else" block].
func (p *parser) parseIf() (*IfExpr, error) {
	tok := p.advance() // 'if'

	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	ifExpr := &IfExpr{Cond: cond, Then: then}

	if p.check(TokenElse) {
		p.advance()

		ifExpr.Else, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	if err := p.nest(ifExpr, tok, p.height(ifExpr.Cond, ifExpr.Then, ifExpr.Else)); err != nil {
		return nil, err
	}

	return ifExpr, nil
}

// parseInfix continues left with the operator at the current token.
func (p *parser) parseInfix(left Expr) (Expr, error) {
	tok := p.advance()

	switch tok.Kind {
	case TokenEqual:
		target, ok := left.(*Identifier)
		if !ok {
			return nil, ErrInvalidAssignmentTarget.At(tok)
		}

		value, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}

		assign := &Assign{Name: target.Name, Value: value}
		if err := p.nest(assign, tok, p.height(value)); err != nil {
			return nil, err
		}

		return assign, nil

	case TokenLeftParen:
		return p.parseCall(left, tok)

	case TokenOrOr, TokenAndAnd,
		TokenEqualEqual, TokenBangEqual,
		TokenLess, TokenLessEqual, TokenGreater, TokenGreaterEqual,
		TokenPlus, TokenMinus, TokenStar, TokenSlash:
		right, err := p.parseExpression(infixPrecedence(tok.Kind))
		if err != nil {
			return nil, err
		}

		binary := &Binary{Left: left, Op: tok, Right: right}
		if err := p.nest(binary, tok, p.height(left, right)); err != nil {
			return nil, err
		}

		return binary, nil

	default:
		return nil, ErrNoInfixContinuation.At(tok)
	}
}

// parseCall parses the argument list following an already-consumed "(".
func (p *parser) parseCall(callee Expr, paren Token) (*Call, error) {
	call := &Call{Callee: callee, Paren: paren}

	for !p.check(TokenRightParen) {
		if len(call.Args) > 0 {
			if _, err := p.consume(TokenComma, "call arguments"); err != nil {
				return nil, err
			}
		}

		arg, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}

		call.Args = append(call.Args, arg)
	}

	p.advance() // ')'

	h := p.height(callee)
	for _, arg := range call.Args {
		h = max(h, p.height(arg))
	}

	if err := p.nest(call, paren, h); err != nil {
		return nil, err
	}

	return call, nil
}

// Helper methods

func (p *parser) peek() Token { return p.tokens[p.pos] }

// advance returns the current token and moves past it. The cursor never
// moves past the EOF sentinel.
func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}

	return tok
}

func (p *parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

// consume advances past a token of the given kind or fails naming the token
// found and the context it was expected in.
func (p *parser) consume(kind TokenKind, where string) (Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}

	return Token{}, ErrUnexpectedToken.At(p.peek()).With(
		slog.String("expected", kind.String()),
		slog.String("context", where),
	)
}

// recursionFactor scales the nesting limit into the bound on parser
// recursion. Parsing the canonical form of a tree recurses at most twice per
// level of its height.
const recursionFactor = 4

// enter bounds parser recursion. Redundant grouping can recurse well past
// the height of the tree it produces, so this bound is looser than the one
// [parser.nest] enforces.
func (p *parser) enter(tok Token) error {
	p.depth++
	if p.depth > recursionFactor*p.maxDepth {
		return ErrMaxDepthExceeded.At(tok).With(slog.Int("max_depth", p.maxDepth))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// nest records the height of node, one more than tallest, its tallest child,
// and fails when that exceeds the nesting limit. Heights depend only on the
// tree, so a program and its canonical form nest equally deep.
func (p *parser) nest(node any, at Token, tallest int) error {
	h := tallest + 1
	if h > p.maxDepth {
		return ErrMaxDepthExceeded.At(at).With(slog.Int("max_depth", p.maxDepth))
	}

	p.heights[node] = h

	return nil
}

// height returns the height of the tallest of nodes. Absent nodes have
// height zero.
func (p *parser) height(nodes ...any) int {
	h := 0

	for _, n := range nodes {
		h = max(h, p.heights[n])
	}

	return h
}

// stmtHeight returns the height of the tallest node within stmt. Statements
// do not add a level of their own.
func (p *parser) stmtHeight(stmt Stmt) int {
	switch stmt := stmt.(type) {
	case *LetStmt:
		return p.height(stmt.Init)

	case *ExpressionStmt:
		return p.height(stmt.Expr)

	case *Block:
		return p.height(stmt)

	case *While:
		return p.height(stmt.Cond, stmt.Body)

	case *For:
		return max(p.stmtHeight(stmt.Init), p.height(stmt.Cond, stmt.Step, stmt.Body))

	case *FunctionDecl:
		return p.height(stmt.Body)

	default:
		return 0
	}
}

// leaf records a node with no children.
func (p *parser) leaf(e Expr, tok Token) (Expr, error) {
	if err := p.nest(e, tok, 0); err != nil {
		return nil, err
	}

	return e, nil
}
