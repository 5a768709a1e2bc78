package lexer

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pdxtools/capgen/internal/types"
)

// bom is the UTF-8 encoding of U+FEFF.
const bom = "\xef\xbb\xbf"

// Lexer tokenizes script source text.
type Lexer struct {
	source []byte
	pos    int
	types.Logger
}

// New returns a Lexer that tokenizes the given source bytes.
func New(source []byte, logger *slog.Logger) *Lexer {
	l := &Lexer{
		source: source,
		pos:    0,
		Logger: types.Logger{L: logger},
	}
	l.Log(slog.LevelDebug, "lexer initialized", slog.Int("bytes", len(source)))
	return l
}

func (l *Lexer) traceToken(tok Token) {
	if l.TraceEnabled() {
		l.Trace("token",
			slog.String("kind", tok.Kind.String()),
			slog.Int("start", int(tok.Span.Start)),
			slog.Int("end", int(tok.Span.End)))
	}
}

// Tokenize consumes all source text and returns the token stream, which
// always ends with a TokEOF token. Tokenizing stops at the first error.
func (l *Lexer) Tokenize() ([]Token, error) {
	estimatedTokens := max(len(l.source)/6, 64)
	tokens := make([]Token, 0, estimatedTokens)
	for {
		tok, err := l.NextToken()
		if err != nil {
			l.Log(slog.LevelDebug, "tokenization failed", slog.String("error", err.Error()))
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			break
		}
	}
	l.Log(slog.LevelDebug, "tokenization complete", slog.Int("tokens", len(tokens)))
	return tokens, nil
}

// NextToken advances the lexer and returns the next token.
// Returns TokEOF when all input is consumed.
func (l *Lexer) NextToken() (Token, error) {
	l.skipTrivia()

	start := l.pos
	b, ok := l.peek()
	if !ok {
		return l.token(TokEOF, start), nil
	}

	switch b {
	case '{':
		l.advance()
		return l.token(TokBlockOpen, start), nil
	case '}':
		l.advance()
		return l.token(TokBlockClose, start), nil
	case '=':
		l.advance()
		return l.token(TokEquals, start), nil
	case '"':
		return l.scanString()
	}

	if b == '-' {
		if next, ok := l.peekAt(1); ok && isDigit(next) {
			return l.scanNumber()
		}
	}
	if isDigit(b) {
		return l.scanNumber()
	}

	if IsIdentByte(b) {
		return l.scanIdent(), nil
	}

	return Token{}, &types.SyntaxError{
		Kind:   types.UnexpectedCharacter,
		Offset: types.ByteOffset(start),
		Detail: describeByte(b),
	}
}

func (l *Lexer) peek() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	return l.source[l.pos], true
}

func (l *Lexer) peekAt(offset int) (byte, bool) {
	idx := l.pos + offset
	if idx >= len(l.source) {
		return 0, false
	}
	return l.source[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	b := l.source[l.pos]
	l.pos++
	return b, true
}

// skipTrivia skips whitespace, byte-order marks and '#' comments.
func (l *Lexer) skipTrivia() {
	for {
		b, ok := l.peek()
		if !ok {
			return
		}
		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			l.advance()
		case b == bom[0] && bytes.HasPrefix(l.source[l.pos:], []byte(bom)):
			l.pos += len(bom)
		case b == '#':
			l.skipToEOL()
		default:
			return
		}
	}
}

func (l *Lexer) skipToEOL() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

func (l *Lexer) spanFrom(start int) types.Span {
	return types.Span{
		Start: types.ByteOffset(start),
		End:   types.ByteOffset(l.pos),
	}
}

func (l *Lexer) token(kind TokenKind, start int) Token {
	tok := Token{
		Kind: kind,
		Span: l.spanFrom(start),
	}
	l.traceToken(tok)
	return tok
}

func (l *Lexer) scanString() (Token, error) {
	start := l.pos
	l.advance() // consume opening quote

	var sb strings.Builder
	for {
		b, ok := l.peek()
		if !ok {
			return Token{}, &types.SyntaxError{
				Kind:   types.UnterminatedString,
				Offset: types.ByteOffset(start),
			}
		}
		if b == '\\' {
			if next, ok := l.peekAt(1); ok {
				if decoded, ok := unescape(next); ok {
					sb.WriteByte(decoded)
					l.pos += 2
					continue
				}
			}
		}
		if b == '"' {
			l.advance()
			tok := l.token(TokString, start)
			tok.Text = sb.String()
			return tok, nil
		}
		sb.WriteByte(b)
		l.advance()
	}
}

func unescape(b byte) (byte, bool) {
	switch b {
	case '"', '\\':
		return b, true
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	}
	return 0, false
}

func (l *Lexer) scanNumber() (Token, error) {
	start := l.pos
	if b, _ := l.peek(); b == '-' {
		l.advance()
	}
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			break
		}
		l.advance()
	}

	text := string(l.source[start:l.pos])
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, &types.SyntaxError{
			Kind:   types.NumberOutOfRange,
			Offset: types.ByteOffset(start),
			Detail: text,
		}
	}
	tok := l.token(TokNumber, start)
	tok.Num = v
	return tok, nil
}

func (l *Lexer) scanIdent() Token {
	start := l.pos
	for {
		b, ok := l.peek()
		if !ok || !IsIdentByte(b) {
			break
		}
		l.advance()
	}
	tok := l.token(TokIdent, start)
	tok.Text = string(l.source[start:l.pos])
	return tok
}

func describeByte(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return fmt.Sprintf("'%c'", b)
	}
	return fmt.Sprintf("0x%02x", b)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
