// Package scanner implements the lexical scanner that turns lox source text
// into a sequence of tokens. It is a single left-to-right pass over the
// source using a start/current pair of cursors, simplified to the
// line/column position model and the smaller token set this language needs.
package scanner

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/mna/lox/lang/token"
)

// TokenAndValue pairs a scanned token with its literal payload, position and
// raw lexeme.
type TokenAndValue struct {
	Token  token.Token
	Pos    token.Pos
	Lexeme string

	// Payload, only one is meaningful depending on Token.
	Str    string
	Number float64
}

// Scan tokenizes the entirety of src and returns the resulting token
// sequence, terminated by an EOF token. Any lexical errors are accumulated
// and returned as an ErrorList; on error, the returned token slice is nil
// rather than a partial one.
func Scan(src []byte) ([]TokenAndValue, error) {
	var (
		s    Scanner
		errs ErrorList
	)
	s.Init(src, errs.Add)

	var toks []TokenAndValue
	for {
		tv := s.Scan()
		toks = append(toks, tv)
		if tv.Token == token.EOF {
			break
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return toks, nil
}

// Scanner tokenizes a lox source buffer for the parser to consume.
type Scanner struct {
	// immutable after Init
	src []byte
	err func(pos token.Pos, msg string)

	// mutable scanning state
	cur  rune // current character, -1 at end of file
	off  int  // byte offset of cur
	roff int  // byte offset just past cur
	line int  // 1-based line of cur
	col  int  // 1-based column of cur
}

// Init (re)initializes the scanner to tokenize src. errHandler, if non-nil,
// is called for every lexical error encountered.
func (s *Scanner) Init(src []byte, errHandler func(token.Pos, string)) {
	s.src = src
	s.err = errHandler
	s.off = 0
	s.roff = 0
	s.line = 1
	s.col = 0
	s.cur = 0
	s.advance()
}

func (s *Scanner) pos() token.Pos { return token.MakePos(s.line, s.col) }

// error reports a lexical diagnostic. The "Error: " prefix combines with
// the ErrorList's "[line N] " rendering to produce the canonical
// "[line N] Error: <message>" compile-diagnostic line.
func (s *Scanner) error(pos token.Pos, msg string) {
	if s.err != nil {
		s.err(pos, "Error: "+msg)
	}
}

func (s *Scanner) errorf(pos token.Pos, format string, args ...any) {
	s.error(pos, fmt.Sprintf(format, args...))
}

// peek returns the byte following cur without advancing, or 0 at EOF.
func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

// advance reads the next rune into s.cur. s.cur < 0 means end of file.
func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = -1
		return
	}
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}
	s.off = s.roff
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
	}
	s.roff += w
	s.cur = r
	s.col++
}

// advanceIf advances and returns true if cur equals want.
func (s *Scanner) advanceIf(want rune) bool {
	if s.cur == want {
		s.advance()
		return true
	}
	return false
}

// Scan returns the next token in the source.
func (s *Scanner) Scan() TokenAndValue {
	s.skipWhitespaceAndComments()

	pos := s.pos()
	start := s.off

	switch {
	case s.cur == -1:
		return TokenAndValue{Token: token.EOF, Pos: pos}

	case isAlpha(s.cur):
		lit := s.identifier()
		return TokenAndValue{Token: token.LookupIdent(lit), Pos: pos, Lexeme: lit}

	case isDigit(s.cur):
		return s.number(pos, start)

	case s.cur == '"':
		return s.string(pos)
	}

	cur := s.cur
	s.advance()
	switch cur {
	case '(':
		return TokenAndValue{Token: token.LPAREN, Pos: pos, Lexeme: "("}
	case ')':
		return TokenAndValue{Token: token.RPAREN, Pos: pos, Lexeme: ")"}
	case '{':
		return TokenAndValue{Token: token.LBRACE, Pos: pos, Lexeme: "{"}
	case '}':
		return TokenAndValue{Token: token.RBRACE, Pos: pos, Lexeme: "}"}
	case ',':
		return TokenAndValue{Token: token.COMMA, Pos: pos, Lexeme: ","}
	case '.':
		return TokenAndValue{Token: token.DOT, Pos: pos, Lexeme: "."}
	case '-':
		return TokenAndValue{Token: token.MINUS, Pos: pos, Lexeme: "-"}
	case '+':
		return TokenAndValue{Token: token.PLUS, Pos: pos, Lexeme: "+"}
	case ';':
		return TokenAndValue{Token: token.SEMI, Pos: pos, Lexeme: ";"}
	case '*':
		return TokenAndValue{Token: token.STAR, Pos: pos, Lexeme: "*"}
	case '/':
		return TokenAndValue{Token: token.SLASH, Pos: pos, Lexeme: "/"}
	case '!':
		if s.advanceIf('=') {
			return TokenAndValue{Token: token.BANG_EQ, Pos: pos, Lexeme: "!="}
		}
		return TokenAndValue{Token: token.BANG, Pos: pos, Lexeme: "!"}
	case '=':
		if s.advanceIf('=') {
			return TokenAndValue{Token: token.EQ_EQ, Pos: pos, Lexeme: "=="}
		}
		return TokenAndValue{Token: token.EQ, Pos: pos, Lexeme: "="}
	case '<':
		if s.advanceIf('=') {
			return TokenAndValue{Token: token.LT_EQ, Pos: pos, Lexeme: "<="}
		}
		return TokenAndValue{Token: token.LT, Pos: pos, Lexeme: "<"}
	case '>':
		if s.advanceIf('=') {
			return TokenAndValue{Token: token.GT_EQ, Pos: pos, Lexeme: ">="}
		}
		return TokenAndValue{Token: token.GT, Pos: pos, Lexeme: ">"}
	default:
		s.errorf(pos, "unexpected character %q", cur)
		return TokenAndValue{Token: token.ILLEGAL, Pos: pos, Lexeme: string(s.src[start:s.off])}
	}
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case s.cur == ' ' || s.cur == '\t' || s.cur == '\r' || s.cur == '\n':
			s.advance()

		case s.cur == '/' && s.peek() == '/':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}

		case s.cur == '/' && s.peek() == '*':
			s.blockComment()

		default:
			return
		}
	}
}

func (s *Scanner) blockComment() {
	startPos := s.pos()
	s.advance() // '/'
	s.advance() // '*'
	for {
		if s.cur == -1 {
			s.error(startPos, "unterminated block comment")
			return
		}
		if s.cur == '*' && s.peek() == '/' {
			s.advance()
			s.advance()
			return
		}
		s.advance()
	}
}

func (s *Scanner) identifier() string {
	start := s.off
	for isAlpha(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) number(pos token.Pos, start int) TokenAndValue {
	for isDigit(s.cur) {
		s.advance()
	}
	if s.cur == '.' {
		if !isDigit(rune(s.peek())) {
			s.error(pos, "trailing '.' requires a fractional digit")
			lit := string(s.src[start:s.off])
			return TokenAndValue{Token: token.ILLEGAL, Pos: pos, Lexeme: lit}
		}
		s.advance() // '.'
		for isDigit(s.cur) {
			s.advance()
		}
	}
	lit := string(s.src[start:s.off])
	v, _ := strconv.ParseFloat(lit, 64)
	return TokenAndValue{Token: token.NUMBER, Pos: pos, Lexeme: lit, Number: v}
}

func (s *Scanner) string(pos token.Pos) TokenAndValue {
	start := s.off
	s.advance() // opening quote
	for s.cur != '"' {
		if s.cur == -1 {
			s.error(pos, "unterminated string")
			return TokenAndValue{Token: token.ILLEGAL, Pos: pos, Lexeme: string(s.src[start:s.off])}
		}
		s.advance()
	}
	lit := string(s.src[start : s.off+1])
	val := string(s.src[start+1 : s.off]) // strip delimiting quotes, no escape processing
	s.advance()                           // closing quote
	return TokenAndValue{Token: token.STRING, Pos: pos, Lexeme: lit, Str: val}
}

func isAlpha(r rune) bool {
	return r == '_' ||
		'a' <= r && r <= 'z' ||
		'A' <= r && r <= 'Z' ||
		(r >= utf8.RuneSelf && unicode.IsLetter(r))
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
