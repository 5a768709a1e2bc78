package capgen

import "github.com/pdxtools/capgen/internal/types"

// Diagnostic is a structured event raised while processing files.
type Diagnostic = types.Diagnostic

// DiagnosticConfig controls which diagnostics are reported.
type DiagnosticConfig = types.DiagnosticConfig

// DefaultDiagnosticConfig reports every diagnostic.
func DefaultDiagnosticConfig() DiagnosticConfig {
	return types.DefaultConfig()
}

// Severity orders diagnostics; lower values are more severe.
type Severity = types.Severity

const (
	SeverityFatal   = types.SeverityFatal
	SeveritySevere  = types.SeveritySevere
	SeverityError   = types.SeverityError
	SeverityMinor   = types.SeverityMinor
	SeverityStyle   = types.SeverityStyle
	SeverityWarning = types.SeverityWarning
	SeverityInfo    = types.SeverityInfo
)

// Diagnostic codes.
const (
	DiagResetError        = types.DiagResetError
	DiagParseError        = types.DiagParseError
	DiagRuleConflict      = types.DiagRuleConflict
	DiagRuleScaleMissing  = types.DiagRuleScaleMissing
	DiagOverrideUnmatched = types.DiagOverrideUnmatched
	DiagRuleOrder         = types.DiagRuleOrder
	DiagRuleCycle         = types.DiagRuleCycle
)

// SyntaxError is the error reported for malformed script text.
// Use errors.As to inspect it.
type SyntaxError = types.SyntaxError

// SyntaxKind classifies a SyntaxError.
type SyntaxKind = types.SyntaxKind

const (
	UnterminatedString  = types.UnterminatedString
	UnexpectedCharacter = types.UnexpectedCharacter
	UnexpectedEOF       = types.UnexpectedEOF
	UnexpectedToken     = types.UnexpectedToken
	NumberOutOfRange    = types.NumberOutOfRange
)

// DiagCodeInfo describes a diagnostic code and the phase that emits it.
type DiagCodeInfo = types.DiagCodeInfo

// DiagnosticCodes returns every diagnostic code with the phase emitting it.
func DiagnosticCodes() []DiagCodeInfo {
	return types.AllDiagnosticCodes()
}
