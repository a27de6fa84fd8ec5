// Package command recognizes one command from a stream of scanner tokens,
// using exactly one token of lookahead beyond the leading operator.
package command

import "github.com/kvahouse/telefwd/internal/scanner"

// Type enumerates the command language's commands plus its two error
// outcomes, OOMError and SyntaxError (a SyntaxError with SawEOF set marks
// unexpected end of input).
type Type int

const (
	Switch Type = iota
	Delete
	Add
	Remove
	Get
	Rev
	End
	OOMError
	SyntaxError
)

// OpName returns the diagnostic operator name the driver reports alongside
// an execution-stage failure offset, per the command's originating
// operator token.
func (t Type) OpName() string {
	switch t {
	case Switch:
		return "NEW"
	case Delete, Remove:
		return "DEL"
	case Get, Rev:
		return "?"
	case Add:
		return ">"
	default:
		return ""
	}
}

// Command is one recognized unit of the command language. Operand1/Operand2
// hold the relevant NUMBER/IDENT text depending on Type. OpOffset is the
// operator token's 1-based byte offset for successful commands, or the
// offending token's offset for SyntaxError. SawEOF reports whether
// end-of-input was reached while still expecting more of the command
// (distinguishing ERROR EOF from ERROR <offset>).
type Command struct {
	Type     Type
	Operand1 string
	Operand2 string
	OpOffset int
	SawEOF   bool
}

// Next recognizes and returns the next command from s.
func Next(s *scanner.Scanner) Command {
	t := s.Next()

	switch t.Type {
	case scanner.EOFToken:
		return Command{Type: End}

	case scanner.OOMToken:
		return Command{Type: OOMError}

	case scanner.OpNew:
		t2 := s.Next()
		if t2.Type == scanner.Ident {
			return Command{Type: Switch, Operand1: t2.Text, OpOffset: t.Beg}
		}
		return syntaxError(t2)

	case scanner.OpDel:
		t2 := s.Next()
		switch t2.Type {
		case scanner.Ident:
			return Command{Type: Delete, Operand1: t2.Text, OpOffset: t.Beg}
		case scanner.Number:
			return Command{Type: Remove, Operand1: t2.Text, OpOffset: t.Beg}
		default:
			return syntaxError(t2)
		}

	case scanner.OpQuery:
		t2 := s.Next()
		if t2.Type == scanner.Number {
			return Command{Type: Rev, Operand1: t2.Text, OpOffset: t.Beg}
		}
		return syntaxError(t2)

	case scanner.Number:
		t2 := s.Next()
		switch t2.Type {
		case scanner.OpRedir:
			t3 := s.Next()
			if t3.Type == scanner.Number {
				return Command{Type: Add, Operand1: t.Text, Operand2: t3.Text, OpOffset: t2.Beg}
			}
			return syntaxError(t3)
		case scanner.OpQuery:
			return Command{Type: Get, Operand1: t.Text, OpOffset: t2.Beg}
		default:
			return syntaxError(t2)
		}

	default:
		return syntaxError(t)
	}
}

// syntaxError builds the command for a lookahead token that did not match
// what the grammar expected. An OOM_TOKEN here yields OOMError, just as a
// leading one does (see Next); any other token yields SyntaxError at its
// own offset.
func syntaxError(bad scanner.Token) Command {
	if bad.Type == scanner.OOMToken {
		return Command{Type: OOMError}
	}
	return Command{
		Type:     SyntaxError,
		OpOffset: bad.Beg,
		SawEOF:   bad.Type == scanner.EOFToken,
	}
}
