// Package scanner turns a source buffer into an ordered token stream
// (spec.md §4.1). No pack dependency fits a hand-rolled grammar-specific
// lexer (see SPEC_FULL.md §3), so this is written directly against the
// byte buffer in linager's plain, doc-commented style.
package scanner

import (
	"strings"

	"github.com/viant/vlang/internal/langerr"
	"github.com/viant/vlang/internal/token"
)

var singleChar = map[byte]token.Kind{
	'(': token.LeftParen, ')': token.RightParen,
	'{': token.LeftBrace, '}': token.RightBrace,
	'[': token.LeftSquare, ']': token.RightSquare,
	',': token.Comma, '.': token.Dot,
	'-': token.Minus, '+': token.Plus,
	';': token.Semicolon, '*': token.Star,
	'%': token.Percent, '?': token.Question, ':': token.Colon,
}

// Scanner consumes a source buffer and produces Tokens.
type Scanner struct {
	src              []byte
	start, current   int
	line             int
	tokens           []token.Token
	errs             *langerr.Collector
}

// New creates a Scanner over src.
func New(src []byte) *Scanner {
	return &Scanner{src: src, line: 1, errs: &langerr.Collector{}}
}

// ScanTokens runs the scanner to completion, returning the token stream
// (always terminated by an EOF token, spec.md §4.1) and any buffered
// scanning errors.
func (s *Scanner) ScanTokens() ([]token.Token, *langerr.Collector) {
	for !s.atEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.New(token.EOF, "", s.line))
	return s.tokens, s.errs
}

func (s *Scanner) atEnd() bool { return s.current >= len(s.src) }

func (s *Scanner) advance() byte {
	c := s.src[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.src) {
		return 0
	}
	return s.src[s.current+1]
}

func (s *Scanner) match(expected byte) bool {
	if s.atEnd() || s.src[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) lexeme() string { return string(s.src[s.start:s.current]) }

func (s *Scanner) add(kind token.Kind) {
	s.tokens = append(s.tokens, token.New(kind, s.lexeme(), s.line))
}

func (s *Scanner) addLiteral(kind token.Kind, lit token.Literal) {
	s.tokens = append(s.tokens, token.Token{Kind: kind, Lexeme: s.lexeme(), Line: s.line, Literal: lit})
}

func (s *Scanner) scanToken() {
	c := s.advance()

	switch c {
	case ' ', '\r', '\t':
		return
	case '\n':
		s.line++
		return
	case '"':
		s.scanString()
		return
	}

	// two-char forms tried first
	switch c {
	case '>':
		if s.match('=') {
			s.add(token.GreaterEqual)
		} else {
			s.add(token.Greater)
		}
		return
	case '<':
		if s.match('=') {
			s.add(token.LessEqual)
		} else {
			s.add(token.Less)
		}
		return
	case '!':
		if s.match('=') {
			s.add(token.BangEqual)
		} else {
			s.add(token.Bang)
		}
		return
	case '=':
		if s.match('=') {
			s.add(token.EqualEqual)
		} else {
			s.add(token.Equal)
		}
		return
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.atEnd() {
				s.advance()
			}
			return
		}
		s.add(token.Slash)
		return
	}

	if kind, ok := singleChar[c]; ok {
		s.add(kind)
		return
	}

	if isDigit(c) {
		s.scanNumber()
		return
	}
	if isAlphaStart(c) {
		s.scanIdentifier()
		return
	}

	s.errs.Add(langerr.New(langerr.Scanning, langerr.Tokenization, s.line,
		"unexpected character '"+string(c)+"'"))
}

// scanString handles `"..."`; a newline or `;` before the closing quote
// is an UnterminatedString (spec.md §4.1), buffered and the scan resumes
// at the next line.
func (s *Scanner) scanString() {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' || s.peek() == ';' {
			s.errs.Add(langerr.New(langerr.Scanning, langerr.UnterminatedString, s.line, "unterminated string"))
			for !s.atEnd() && s.peek() != '\n' {
				s.advance()
			}
			return
		}
		s.advance()
	}
	if s.atEnd() {
		s.errs.Add(langerr.New(langerr.Scanning, langerr.UnterminatedString, s.line, "unterminated string"))
		return
	}
	s.advance() // closing quote
	str := string(s.src[s.start+1 : s.current-1])
	s.addLiteral(token.String, token.StringLiteral(str))
}

// scanNumber handles a maximal run of digits, optionally `.` then more
// digits (spec.md §4.1): the Int accumulator is a base-10 left fold, the
// fractional part is digit/10^k.
func (s *Scanner) scanNumber() {
	for isDigit(s.peek()) {
		s.advance()
	}
	isFloat := false
	if s.peek() == '.' && isDigit(s.peekNext()) {
		isFloat = true
		s.advance() // consume '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	text := s.lexeme()
	if isFloat {
		whole, frac, _ := strings.Cut(text, ".")
		var intPart int64
		for _, d := range whole {
			intPart = intPart*10 + int64(d-'0')
		}
		var fracPart float32
		scale := float32(1)
		for _, d := range frac {
			scale *= 10
			fracPart += float32(d-'0') / scale
		}
		s.addLiteral(token.Float, token.FloatLiteral(float32(intPart)+fracPart))
		return
	}
	var v int64
	for _, d := range text {
		v = v*10 + int64(d-'0')
	}
	s.addLiteral(token.Integer, token.IntLiteral(v))
}

// scanIdentifier collects an identifier, then matches against the
// keyword table; continuation allows alphanumerics plus `&`/`|` so that
// `&&`/`||` lex here first and get reclassified (spec.md §4.1).
func (s *Scanner) scanIdentifier() {
	for isAlphaNumericExt(s.peek()) {
		s.advance()
	}
	text := s.lexeme()
	switch text {
	case "&&":
		s.add(token.And)
		return
	case "||":
		s.add(token.Or)
		return
	}
	if kind, ok := token.Keywords[text]; ok {
		s.add(kind)
		return
	}
	s.add(token.Identifier)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlphaStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '&' || c == '|'
}

func isAlphaNumericExt(c byte) bool {
	return isAlphaStart(c) || isDigit(c) || c == '&' || c == '|'
}
