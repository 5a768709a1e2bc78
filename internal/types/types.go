// Package types provides internal types shared across capgen packages.
package types

import (
	"context"
	"fmt"
	"log/slog"
)

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (tokens, entities, rules).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = slog.Level(-8)

// ctx is a package-level context for logging.
var ctx = context.Background()

// Logger wraps slog.Logger with nil-safe helpers.
type Logger struct {
	L *slog.Logger
}

// Enabled returns true if logging is enabled at the given level.
func (l *Logger) Enabled(level slog.Level) bool {
	return l.L != nil && l.L.Enabled(ctx, level)
}

// Log emits a log message if logging is enabled.
func (l *Logger) Log(level slog.Level, msg string, attrs ...slog.Attr) {
	if l.L != nil && l.L.Enabled(ctx, level) {
		l.L.LogAttrs(ctx, level, msg, attrs...)
	}
}

// TraceEnabled returns true if trace-level logging is enabled.
func (l *Logger) TraceEnabled() bool {
	return l.Enabled(LevelTrace)
}

// Trace emits a trace-level log.
func (l *Logger) Trace(msg string, attrs ...slog.Attr) {
	l.Log(LevelTrace, msg, attrs...)
}

// ComponentLogger derives a child logger tagged with a component name.
// Returns nil when logger is nil so logging stays disabled downstream.
func ComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("component", component))
}

// ByteOffset is a byte position in source text.
type ByteOffset uint32

// Span represents a range in source text.
type Span struct {
	Start ByteOffset // inclusive
	End   ByteOffset // exclusive
}

// NewSpan creates a new span.
func NewSpan(start, end ByteOffset) Span {
	return Span{Start: start, End: end}
}

// Len returns the length of the span in bytes.
func (s Span) Len() ByteOffset {
	return s.End - s.Start
}

// IsEmpty returns true if the span is empty.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// SyntaxKind classifies a tokenizer or parser failure.
type SyntaxKind int

const (
	UnterminatedString SyntaxKind = iota
	UnexpectedCharacter
	UnexpectedEOF
	UnexpectedToken
	NumberOutOfRange
)

func (k SyntaxKind) String() string {
	switch k {
	case UnterminatedString:
		return "unterminated string"
	case UnexpectedCharacter:
		return "unexpected character"
	case UnexpectedEOF:
		return "unexpected end of input"
	case UnexpectedToken:
		return "unexpected token"
	case NumberOutOfRange:
		return "number out of range"
	default:
		return fmt.Sprintf("SyntaxKind(%d)", k)
	}
}

// SyntaxError is returned by the lexer and parser. Parsing is fail-fast,
// so a file produces at most one SyntaxError.
type SyntaxError struct {
	Kind   SyntaxKind
	Offset ByteOffset // byte offset of the offending input
	Detail string     // optional context, e.g. the offending character or token
}

func (e *SyntaxError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at offset %d", e.Kind, e.Offset)
	}
	return fmt.Sprintf("%s %s at offset %d", e.Kind, e.Detail, e.Offset)
}
