package lang

import (
	"log/slog"
	"strconv"
)

// TokenKind identifies the lexical category of a [Token].
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNewline
	TokenInvalid // character outside the lexical grammar

	// Delimiters.
	TokenLeftParen
	TokenRightParen
	TokenLeftBrace
	TokenRightBrace
	TokenComma
	TokenDot
	TokenColon
	TokenSemicolon

	// Operators.
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenBang
	TokenBangEqual
	TokenEqual
	TokenEqualEqual
	TokenLess
	TokenLessEqual
	TokenGreater
	TokenGreaterEqual
	TokenAndAnd
	TokenOrOr

	// Literal classes.
	TokenIdentifier
	TokenInteger
	TokenFloat
	TokenString

	// Keywords.
	TokenLet
	TokenIf
	TokenElse
	TokenWhile
	TokenFor
	TokenFun
	TokenReturn
	TokenClass
	TokenTrue
	TokenFalse
	TokenNull
)

var tokenKindName = [...]string{
	TokenEOF:          "EOF",
	TokenNewline:      "newline",
	TokenInvalid:      "invalid",
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenLeftBrace:    "{",
	TokenRightBrace:   "}",
	TokenComma:        ",",
	TokenDot:          ".",
	TokenColon:        ":",
	TokenSemicolon:    ";",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenStar:         "*",
	TokenSlash:        "/",
	TokenBang:         "!",
	TokenBangEqual:    "!=",
	TokenEqual:        "=",
	TokenEqualEqual:   "==",
	TokenLess:         "<",
	TokenLessEqual:    "<=",
	TokenGreater:      ">",
	TokenGreaterEqual: ">=",
	TokenAndAnd:       "&&",
	TokenOrOr:         "||",
	TokenIdentifier:   "identifier",
	TokenInteger:      "integer",
	TokenFloat:        "float",
	TokenString:       "string",
	TokenLet:          "let",
	TokenIf:           "if",
	TokenElse:         "else",
	TokenWhile:        "while",
	TokenFor:          "for",
	TokenFun:          "fun",
	TokenReturn:       "return",
	TokenClass:        "class",
	TokenTrue:         "true",
	TokenFalse:        "false",
	TokenNull:         "null",
}

// String returns the operator text for punctuation kinds, the keyword for
// keyword kinds, and a category name otherwise.
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindName) {
		return tokenKindName[k]
	}

	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// keywords maps reserved words to their token kinds. Any other identifier
// text scans as [TokenIdentifier].
var keywords = map[string]TokenKind{
	"let":    TokenLet,
	"if":     TokenIf,
	"else":   TokenElse,
	"while":  TokenWhile,
	"for":    TokenFor,
	"fun":    TokenFun,
	"return": TokenReturn,
	"class":  TokenClass,
	"true":   TokenTrue,
	"false":  TokenFalse,
	"null":   TokenNull,
}

// Keywords returns the reserved words of the language in declaration order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))

	for k := TokenLet; k <= TokenNull; k++ {
		out = append(out, k.String())
	}

	return out
}

// Token is a single lexical unit. Lexeme holds the exact source text,
// including the quotes of a string literal.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Column int
}

// String returns a compact representation used by the tokens subcommand and
// in diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return "EOF"

	case TokenNewline:
		return `"\n"`

	default:
		return strconv.Quote(t.Lexeme)
	}
}

// LogValue implements [slog.LogValuer].
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", t.Kind.String()),
		slog.String("lexeme", t.Lexeme),
		slog.Int("line", t.Line),
		slog.Int("column", t.Column),
	)
}

// isTerminator reports whether the token ends an expression statement.
func (t Token) isTerminator() bool {
	switch t.Kind {
	case TokenNewline, TokenSemicolon, TokenEOF:
		return true

	default:
		return false
	}
}
