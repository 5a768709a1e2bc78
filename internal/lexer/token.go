// Package lexer provides tokenization for Clausewitz/Paradox script text.
package lexer

import (
	"fmt"

	"github.com/pdxtools/capgen/internal/types"
)

// Token is a token with kind, source span and decoded payload.
type Token struct {
	Kind TokenKind
	Span types.Span
	Text string // decoded text for TokString and TokIdent
	Num  int64  // value for TokNumber
}

// NewToken creates a new token without payload.
func NewToken(kind TokenKind, span types.Span) Token {
	return Token{Kind: kind, Span: span}
}

// TokenKind identifies a token type.
type TokenKind int

const (
	// TokEOF terminates every token stream.
	TokEOF TokenKind = iota
	// TokBlockOpen is '{'.
	TokBlockOpen
	// TokBlockClose is '}'.
	TokBlockClose
	// TokEquals is '='.
	TokEquals
	// TokString is a quoted string literal.
	TokString
	// TokNumber is a signed decimal integer.
	TokNumber
	// TokIdent is a bare identifier.
	TokIdent
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokBlockOpen:
		return "'{'"
	case TokBlockClose:
		return "'}'"
	case TokEquals:
		return "'='"
	case TokString:
		return "string"
	case TokNumber:
		return "number"
	case TokIdent:
		return "identifier"
	default:
		return fmt.Sprintf("TokenKind(%d)", k)
	}
}

// IsValue reports whether a token of this kind can start a value.
func (k TokenKind) IsValue() bool {
	switch k {
	case TokBlockOpen, TokString, TokNumber, TokIdent:
		return true
	}
	return false
}

// IsIdentByte reports whether b may appear in an identifier.
func IsIdentByte(b byte) bool {
	return isAlpha(b) || isDigit(b) || b == '_' || b == ':' || b == '.' || b == '@' || b == '-'
}
