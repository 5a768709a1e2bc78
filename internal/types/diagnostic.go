package types

import (
	"fmt"
	"slices"
	"strings"
)

// Severity levels for diagnostics. Lower values are more severe.
type Severity int

const (
	SeverityFatal   Severity = 0 // Cannot continue
	SeveritySevere  Severity = 1 // File skipped
	SeverityError   Severity = 2 // Able to continue, should correct
	SeverityMinor   Severity = 3 // Minor issue, should correct
	SeverityStyle   Severity = 4 // Style recommendation
	SeverityWarning Severity = 5 // Might be correct under some circumstances
	SeverityInfo    Severity = 6 // Informational notice
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeveritySevere:
		return "severe"
	case SeverityError:
		return "error"
	case SeverityMinor:
		return "minor"
	case SeverityStyle:
		return "style"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("Severity(%d)", s)
	}
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s <= other
}

// Diagnostic is a structured event raised while processing a file.
type Diagnostic struct {
	Severity Severity
	Code     string // e.g. "rule-conflict", "parse-error"
	Message  string
	File     string // source path, empty when not tied to a file
	Entity   string // entity id, empty when not tied to an entity
}

// String returns a human-readable representation of the diagnostic.
// Format: "[severity] file: message" with the file part omitted when empty.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(d.Severity.String())
	b.WriteString("] ")
	if d.File != "" {
		b.WriteString(d.File)
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// DiagnosticConfig controls diagnostic filtering.
type DiagnosticConfig struct {
	// Level is the least severe severity still reported.
	// Diagnostics with severity > Level are suppressed.
	Level Severity

	// Overrides change severity for specific diagnostic codes.
	Overrides map[string]Severity

	// Ignore lists diagnostic codes to suppress entirely.
	// Supports glob patterns (e.g., "rule-*").
	Ignore []string
}

// DefaultConfig reports everything.
func DefaultConfig() DiagnosticConfig {
	return DiagnosticConfig{Level: SeverityInfo}
}

// ShouldReport returns true if a diagnostic with the given code and severity
// should be reported under this configuration.
func (c DiagnosticConfig) ShouldReport(code string, sev Severity) bool {
	if slices.ContainsFunc(c.Ignore, func(pattern string) bool {
		return MatchGlob(pattern, code)
	}) {
		return false
	}
	return c.Severity(code, sev) <= c.Level
}

// Severity returns sev adjusted by any override registered for code.
func (c DiagnosticConfig) Severity(code string, sev Severity) Severity {
	if override, ok := c.Overrides[code]; ok {
		return override
	}
	return sev
}

// Filter applies the configuration to diags, returning the reported subset
// with severity overrides applied.
func (c DiagnosticConfig) Filter(diags []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if !c.ShouldReport(d.Code, d.Severity) {
			continue
		}
		d.Severity = c.Severity(d.Code, d.Severity)
		out = append(out, d)
	}
	return out
}

// MatchGlob performs simple glob matching with * wildcard.
func MatchGlob(pattern, s string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(s, prefix)
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(s, suffix)
	}
	return pattern == s
}
