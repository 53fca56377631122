package lang

import (
	"log/slog"
	"unicode"
	"unicode/utf8"
)

// Scan converts source text into a token sequence terminated by a single
// [TokenEOF]. Newlines are emitted as [TokenNewline]; other whitespace and
// line comments are discarded.
func Scan(source string) ([]Token, error) {
	s := &scanner{
		input: []byte(source),
		line:  1,
		col:   1,
	}

	return s.scan()
}

// scanner holds the scanner state.
type scanner struct {
	input  []byte
	pos    int
	line   int
	col    int
	start  int // byte offset of the token being scanned
	sline  int
	scol   int
	tokens []Token
}

func (s *scanner) scan() ([]Token, error) {
	for !s.eof() {
		s.start, s.sline, s.scol = s.pos, s.line, s.col

		err := s.scanToken()
		if err != nil {
			return nil, err
		}
	}

	s.start, s.sline, s.scol = s.pos, s.line, s.col
	s.emit(TokenEOF)

	return s.tokens, nil
}

func (s *scanner) scanToken() error {
	ch := s.advance()

	switch ch {
	case '(':
		s.emit(TokenLeftParen)
	case ')':
		s.emit(TokenRightParen)
	case '{':
		s.emit(TokenLeftBrace)
	case '}':
		s.emit(TokenRightBrace)
	case ',':
		s.emit(TokenComma)
	case '.':
		s.emit(TokenDot)
	case ':':
		s.emit(TokenColon)
	case ';':
		s.emit(TokenSemicolon)
	case '+':
		s.emit(TokenPlus)
	case '-':
		s.emit(TokenMinus)
	case '*':
		s.emit(TokenStar)

	case '/':
		if s.peek() == '/' {
			s.skipLineComment()

			return nil
		}

		s.emit(TokenSlash)

	case '!':
		s.emitIf('=', TokenBangEqual, TokenBang)
	case '=':
		s.emitIf('=', TokenEqualEqual, TokenEqual)
	case '<':
		s.emitIf('=', TokenLessEqual, TokenLess)
	case '>':
		s.emitIf('=', TokenGreaterEqual, TokenGreater)

	case '&':
		if !s.expect('&') {
			return s.invalid()
		}

		s.emit(TokenAndAnd)

	case '|':
		if !s.expect('|') {
			return s.invalid()
		}

		s.emit(TokenOrOr)

	case '"':
		return s.scanString()

	case '\n':
		s.emit(TokenNewline)

	case ' ', '\t', '\r':
		// discarded

	default:
		switch {
		case isIdentifierStart(ch):
			s.scanIdentifier()
		case isDigit(ch):
			s.scanNumber()
		default:
			return s.invalid()
		}
	}

	return nil
}

// scanString consumes a double-quoted literal with no escape processing.
func (s *scanner) scanString() error {
	for !s.eof() && s.peek() != '"' {
		s.advance()
	}

	if s.eof() {
		return ErrUnterminatedString.At(s.current(TokenString)).
			With(slog.Int("column", s.scol))
	}

	s.advance() // closing quote
	s.emit(TokenString)

	return nil
}

func (s *scanner) scanIdentifier() {
	for !s.eof() && isIdentifierContinue(s.peek()) {
		s.advance()
	}

	kind, ok := keywords[string(s.input[s.start:s.pos])]
	if !ok {
		kind = TokenIdentifier
	}

	s.emit(kind)
}

// scanNumber consumes digits, optionally followed by a single '.' and more
// digits. A '.' not followed by a digit is left for the next token.
func (s *scanner) scanNumber() {
	for !s.eof() && isDigit(s.peek()) {
		s.advance()
	}

	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.advance() // '.'

		for !s.eof() && isDigit(s.peek()) {
			s.advance()
		}

		s.emit(TokenFloat)

		return
	}

	s.emit(TokenInteger)
}

func (s *scanner) skipLineComment() {
	for !s.eof() && s.peek() != '\n' {
		s.advance()
	}
}

func (s *scanner) invalid() error {
	return ErrInvalidCharacter.At(s.current(TokenInvalid)).
		With(slog.Int("column", s.scol))
}

// Helper methods

func (s *scanner) current(kind TokenKind) Token {
	return Token{
		Kind:   kind,
		Lexeme: string(s.input[s.start:s.pos]),
		Line:   s.sline,
		Column: s.scol,
	}
}

func (s *scanner) emit(kind TokenKind) {
	s.tokens = append(s.tokens, s.current(kind))
}

func (s *scanner) emitIf(next rune, matched, otherwise TokenKind) {
	if s.expect(next) {
		s.emit(matched)

		return
	}

	s.emit(otherwise)
}

func (s *scanner) peek() rune { return s.peekAt(0) }

// peekAt returns the rune n runes ahead of the cursor, or 0 past the end.
func (s *scanner) peekAt(n int) rune {
	pos := s.pos

	for ; n > 0 && pos < len(s.input); n-- {
		_, size := utf8.DecodeRune(s.input[pos:])
		pos += size
	}

	if pos >= len(s.input) {
		return 0
	}

	r, _ := utf8.DecodeRune(s.input[pos:])

	return r
}

func (s *scanner) advance() rune {
	if s.eof() {
		return 0
	}

	r, size := utf8.DecodeRune(s.input[s.pos:])

	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	return r
}

func (s *scanner) expect(ch rune) bool {
	if s.peek() == ch {
		s.advance()

		return true
	}

	return false
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

// Character classification

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return isIdentifierStart(r) || unicode.IsDigit(r)
}

// isDigit accepts ASCII digits only so that numeric lexemes always convert
// with strconv.
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
