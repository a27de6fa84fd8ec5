// Package scanner tokenises the forwarding-database command language read
// from standard input: whitespace and $$ ... $$ comments are skipped
// before each token, and every token carries the 1-based byte offset of
// its first character for diagnostic reporting.
package scanner

import (
	"bufio"
	"io"

	"github.com/kvahouse/telefwd/internal/alloc"
	"github.com/kvahouse/telefwd/internal/ptree"
)

// TokenType enumerates the lexical classes of the command language.
type TokenType int

const (
	OpNew TokenType = iota
	OpDel
	OpQuery
	OpRedir
	Ident
	Number
	EOFToken
	Unknown
	OOMToken
)

// Token is one lexical unit. Text is populated only for Ident and Number;
// Beg is the 1-based byte offset of the token's first character.
type Token struct {
	Type TokenType
	Text string
	Beg  int
}

// Scanner reads tokens from an underlying byte stream.
type Scanner struct {
	r     *bufio.Reader
	count int
	alloc alloc.Allocator
}

// New returns a scanner reading from r, using a for every buffer allocation
// a NUMBER or IDENT token requires.
func New(r io.Reader, a alloc.Allocator) *Scanner {
	return &Scanner{r: bufio.NewReader(r), alloc: a}
}

func (s *Scanner) readByte() (byte, bool) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, false
	}
	s.count++
	return b, true
}

func (s *Scanner) unreadByte() {
	_ = s.r.UnreadByte()
	s.count--
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAlnum(b byte) bool {
	return isAlpha(b) || (b >= '0' && b <= '9')
}

// Next returns the next token, advancing past it.
func (s *Scanner) Next() Token {
	var b byte
	var ok bool
	for {
		b, ok = s.readByte()
		if !ok {
			break
		}
		if isSpace(b) {
			continue
		}
		if b == '$' {
			start := s.count
			if !s.discardComment() {
				return Token{Type: Unknown, Beg: start}
			}
			continue
		}
		break
	}

	beg := s.count
	if !ok {
		return Token{Type: EOFToken, Beg: beg}
	}

	switch {
	case b == '>':
		return Token{Type: OpRedir, Beg: beg}
	case b == '?':
		return Token{Type: OpQuery, Beg: beg}
	case ptree.IsDigitByte(b):
		s.unreadByte()
		text, ok := s.extractWord(ptree.IsDigitByte)
		if !ok {
			return Token{Type: OOMToken, Beg: beg}
		}
		return Token{Type: Number, Text: text, Beg: beg}
	case isAlpha(b):
		s.unreadByte()
		text, ok := s.extractWord(isAlnum)
		if !ok {
			return Token{Type: OOMToken, Beg: beg}
		}
		switch text {
		case "NEW":
			return Token{Type: OpNew, Beg: beg}
		case "DEL":
			return Token{Type: OpDel, Beg: beg}
		default:
			return Token{Type: Ident, Text: text, Beg: beg}
		}
	default:
		return Token{Type: Unknown, Beg: beg}
	}
}

// discardComment consumes a $$ ... $$ comment whose opening '$' has already
// been read. Reports false if the comment is malformed (no closing "$$",
// or end-of-input reached first) or not actually a comment opener.
func (s *Scanner) discardComment() bool {
	b, ok := s.readByte()
	if !ok || b != '$' {
		return false
	}
	for {
		b, ok := s.readByte()
		if !ok {
			return false
		}
		if b != '$' {
			continue
		}
		b2, ok := s.readByte()
		if !ok {
			return false
		}
		if b2 == '$' {
			return true
		}
	}
}

// extractWord reads the maximal run of bytes satisfying class, starting at
// the current position, and returns it. Reports false only on allocation
// failure.
func (s *Scanner) extractWord(class func(byte) bool) (string, bool) {
	if !s.alloc.Alloc() {
		return "", false
	}
	var buf []byte
	for {
		b, ok := s.readByte()
		if !ok {
			break
		}
		if !class(b) {
			s.unreadByte()
			break
		}
		buf = append(buf, b)
	}
	return string(buf), true
}
