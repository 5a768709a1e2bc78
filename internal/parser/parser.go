// Package parser turns a script token stream into a script.Document.
//
// Grammar:
//
//	document := (pair | value)*
//	pair     := Ident '=' value
//	value    := Ident | String | Number | block
//	block    := '{' (pair | value)* '}'
//
// A pair is recognized by one token of lookahead: an identifier directly
// followed by '='. A block holding at least one pair becomes an object
// (bare values go to its loose slot); a block without pairs becomes an
// array. The top level is a block closed by end of input.
//
// Parsing stops at the first error and returns no document.
package parser

import (
	"fmt"
	"log/slog"

	"github.com/pdxtools/capgen/internal/lexer"
	"github.com/pdxtools/capgen/internal/types"
	"github.com/pdxtools/capgen/script"
)

// Parser converts a token stream into a document.
type Parser struct {
	tokens   []lexer.Token
	pos      int
	eofToken lexer.Token
	types.Logger
}

// New returns a Parser over tokens. A missing trailing TokEOF is tolerated.
// Pass nil for logger to disable logging.
func New(tokens []lexer.Token, logger *slog.Logger) *Parser {
	var end types.ByteOffset
	if n := len(tokens); n > 0 {
		end = tokens[n-1].Span.End
	}
	p := &Parser{
		tokens:   tokens,
		eofToken: lexer.NewToken(lexer.TokEOF, types.NewSpan(end, end)),
		Logger:   types.Logger{L: logger},
	}
	p.Log(slog.LevelDebug, "parser initialized", slog.Int("tokens", len(tokens)))
	return p
}

// ParseText tokenizes and parses source in one step.
func ParseText(source []byte, logger *slog.Logger) (*script.Document, error) {
	tokens, err := lexer.New(source, types.ComponentLogger(logger, "lexer")).Tokenize()
	if err != nil {
		return nil, err
	}
	return New(tokens, logger).Parse()
}

// Parse parses the whole token stream as a top-level document.
func (p *Parser) Parse() (*script.Document, error) {
	doc, hasPairs, err := p.parseBody(false)
	if err != nil {
		return nil, err
	}
	p.Log(slog.LevelDebug, "parsing complete",
		slog.Int("keys", doc.Len()),
		slog.Bool("pairs", hasPairs))
	return doc, nil
}

func (p *Parser) isEOF() bool {
	return p.peek().Kind == lexer.TokEOF
}

func (p *Parser) peek() lexer.Token {
	return p.peekNth(0)
}

func (p *Parser) peekNth(n int) lexer.Token {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}
	return p.eofToken
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind lexer.TokenKind) bool {
	return p.peek().Kind == kind
}

// atPair reports whether the next tokens start a key/value pair.
func (p *Parser) atPair() bool {
	return p.check(lexer.TokIdent) && p.peekNth(1).Kind == lexer.TokEquals
}

func (p *Parser) makeError(kind types.SyntaxKind, detail string) *types.SyntaxError {
	return &types.SyntaxError{
		Kind:   kind,
		Offset: p.peek().Span.Start,
		Detail: detail,
	}
}

// item is one entry of a block body before classification.
type item struct {
	key     string
	value   script.Value
	keyless bool
}

// parseBody parses entries up to the closing brace (inBlock) or end of
// input (top level). The closing brace is consumed. The returned document
// holds pairs and loose values; hasPairs reports whether any pair was seen.
func (p *Parser) parseBody(inBlock bool) (*script.Document, bool, error) {
	var items []item
	hasPairs := false

	for {
		if p.isEOF() {
			if inBlock {
				return nil, false, p.makeError(types.UnexpectedEOF, "in block")
			}
			break
		}
		if inBlock && p.check(lexer.TokBlockClose) {
			p.advance()
			break
		}

		if p.atPair() {
			hasPairs = true
			key := p.advance().Text
			p.advance() // '='
			val, err := p.parseValue()
			if err != nil {
				return nil, false, err
			}
			if p.TraceEnabled() {
				p.Trace("pair", slog.String("key", key), slog.String("kind", val.Kind().String()))
			}
			items = append(items, item{key: key, value: val})
			continue
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, false, err
		}
		items = append(items, item{value: val, keyless: true})
	}

	doc := script.NewDocument()
	for _, it := range items {
		if it.keyless {
			doc.AddLoose(it.value)
		} else {
			doc.Add(it.key, it.value)
		}
	}
	return doc, hasPairs, nil
}

func (p *Parser) parseValue() (script.Value, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.TokIdent:
		p.advance()
		return script.Ident(tok.Text), nil
	case lexer.TokString:
		p.advance()
		return script.String(tok.Text), nil
	case lexer.TokNumber:
		p.advance()
		return script.Number(tok.Num), nil
	case lexer.TokBlockOpen:
		return p.parseBlock()
	case lexer.TokEOF:
		return script.Value{}, p.makeError(types.UnexpectedEOF, "while parsing value")
	default:
		return script.Value{}, p.makeError(types.UnexpectedToken, fmt.Sprintf("%s while parsing value", tok.Kind))
	}
}

func (p *Parser) parseBlock() (script.Value, error) {
	p.advance() // '{'
	doc, hasPairs, err := p.parseBody(true)
	if err != nil {
		return script.Value{}, err
	}
	if hasPairs {
		return script.Object(doc), nil
	}
	return script.Array(doc.Loose()...), nil
}
