// Package rules describes how derived resource caps are computed.
//
// A Rule names the key it produces, the capped resources it reads, how they
// are combined, a scale factor, and fixed per-entity amounts added on top.
// Rules run in the order they are listed, so a rule may read a key produced
// by an earlier rule in the same Set.
package rules

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// CombineOp selects how input resource values are combined.
type CombineOp int

const (
	// OpSum adds the input values together.
	OpSum CombineOp = iota
)

func (op CombineOp) String() string {
	switch op {
	case OpSum:
		return "sum"
	default:
		return fmt.Sprintf("CombineOp(%d)", op)
	}
}

// ParseCombineOp parses a combine operation name, case-insensitively.
func ParseCombineOp(s string) (CombineOp, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum", "":
		return OpSum, nil
	}
	return 0, fmt.Errorf("unknown combine operation %q", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (op *CombineOp) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseCombineOp(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*op = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (op CombineOp) MarshalYAML() (any, error) {
	return op.String(), nil
}

// Rule derives one resource key per entity.
type Rule struct {
	// Produces is the capped resource key written by the rule.
	Produces string `yaml:"produces"`

	// Inputs are the capped resource keys combined into the base value.
	Inputs []string `yaml:"inputs,omitempty"`

	// Op combines the input values. Only OpSum exists.
	Op CombineOp `yaml:"op"`

	// Scale multiplies the combined value before rounding up.
	// Nil means the rule declares no scale factor; such a rule never
	// produces a value (see the transform engine).
	Scale *float64 `yaml:"scale,omitempty"`

	// Overrides are fixed amounts added for specific entity ids.
	Overrides map[string]int64 `yaml:"overrides,omitempty"`
}

// Scaled returns a copy of r with the given scale factor.
func (r Rule) Scaled(factor float64) Rule {
	r.Scale = &factor
	return r
}

// Override returns the fixed amount registered for entity, if any.
func (r Rule) Override(entity string) (int64, bool) {
	n, ok := r.Overrides[entity]
	return n, ok
}

// Validation errors.
var (
	ErrNoProducedKey   = errors.New("rule has no produced key")
	ErrInvalidKey      = errors.New("invalid key")
	ErrInvalidScale    = errors.New("invalid scale factor")
	ErrDuplicateOutput = errors.New("produced key listed twice")
)

// Validate checks that r can be applied. A missing scale factor is
// accepted on purpose.
func (r Rule) Validate() error {
	if r.Produces == "" {
		return ErrNoProducedKey
	}
	if !IsValidKey(r.Produces) {
		return fmt.Errorf("%w: produced key %q", ErrInvalidKey, r.Produces)
	}
	for _, in := range r.Inputs {
		if !IsValidKey(in) {
			return fmt.Errorf("%w: input key %q", ErrInvalidKey, in)
		}
	}
	if r.Scale != nil && (math.IsNaN(*r.Scale) || math.IsInf(*r.Scale, 0)) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, *r.Scale)
	}
	if r.Op != OpSum {
		return fmt.Errorf("unknown combine operation %v", r.Op)
	}
	return nil
}

// IsValidKey reports whether key is a non-empty script identifier that
// does not start like a number.
func IsValidKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		if !isKeyByte(key[i]) {
			return false
		}
	}
	first := key[0]
	if first >= '0' && first <= '9' {
		return false
	}
	if first == '-' && len(key) > 1 && key[1] >= '0' && key[1] <= '9' {
		return false
	}
	return true
}

func isKeyByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') ||
		b == '_' || b == ':' || b == '.' || b == '@' || b == '-'
}

// Set is an ordered list of rules.
type Set []Rule

// ProducedKeys returns the produced key of every rule, in order.
func (s Set) ProducedKeys() []string {
	keys := make([]string, len(s))
	for i, r := range s {
		keys[i] = r.Produces
	}
	return keys
}

// Validate checks every rule and rejects a produced key listed twice.
func (s Set) Validate() error {
	seen := make(map[string]int, len(s))
	for i, r := range s {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		if prev, ok := seen[r.Produces]; ok {
			return fmt.Errorf("rule %d: %w: %q (first in rule %d)", i, ErrDuplicateOutput, r.Produces, prev)
		}
		seen[r.Produces] = i
	}
	return nil
}

// MissingScale returns the produced keys of rules without a scale factor.
func (s Set) MissingScale() []string {
	var keys []string
	for _, r := range s {
		if r.Scale == nil {
			keys = append(keys, r.Produces)
		}
	}
	return keys
}
