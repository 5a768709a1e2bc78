package types

// Diagnostic codes emitted by the pipeline phases.
// Centralizing these prevents silent breakage from typos in string literals.

// Per-file codes.
const (
	DiagResetError = "reset-error"
	DiagParseError = "parse-error"
)

// Transform codes.
const (
	DiagRuleConflict     = "rule-conflict"
	DiagRuleScaleMissing = "rule-scale-missing"
)

// Run-level codes.
const (
	DiagOverrideUnmatched = "override-unmatched"
	DiagRuleOrder         = "rule-order"
	DiagRuleCycle         = "rule-cycle"
)

// AllDiagnosticCodes returns all known diagnostic codes grouped by phase.
func AllDiagnosticCodes() []DiagCodeInfo {
	return []DiagCodeInfo{
		{Code: DiagResetError, Phase: "reset"},
		{Code: DiagParseError, Phase: "parser"},
		{Code: DiagRuleConflict, Phase: "transform"},
		{Code: DiagRuleScaleMissing, Phase: "transform"},
		{Code: DiagOverrideUnmatched, Phase: "run"},
		{Code: DiagRuleOrder, Phase: "run"},
		{Code: DiagRuleCycle, Phase: "run"},
	}
}

// DiagCodeInfo describes a diagnostic code and the phase that emits it.
type DiagCodeInfo struct {
	Code  string
	Phase string
}
