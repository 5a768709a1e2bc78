// Package transform derives capped resource values on entities of a
// script document according to a rule set.
package transform

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"

	"github.com/pdxtools/capgen/internal/types"
	"github.com/pdxtools/capgen/rules"
	"github.com/pdxtools/capgen/script"
)

// DefaultEntityPrefix marks top-level keys that are entities.
const DefaultEntityPrefix = "STATE_"

// CappedResourcesKey holds the numeric caps of an entity.
const CappedResourcesKey = "capped_resources"

// Option configures an Engine.
type Option func(*Engine)

// WithEntityPrefix sets the key prefix identifying entities.
func WithEntityPrefix(prefix string) Option {
	return func(e *Engine) { e.prefix = prefix }
}

// WithLogger sets the logger for debug/trace output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.Logger = types.Logger{L: logger} }
}

// Engine applies a rule set to documents. An Engine holds no per-document
// state and may be shared between goroutines working on different
// documents.
type Engine struct {
	rules  rules.Set
	prefix string
	types.Logger
}

// New returns an Engine applying set in order.
func New(set rules.Set, opts ...Option) *Engine {
	e := &Engine{
		rules:  slices.Clone(set),
		prefix: DefaultEntityPrefix,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Report summarizes one Apply call.
type Report struct {
	// Entities lists the ids of entities the rules were evaluated on.
	Entities []string
	// Derived counts the values written.
	Derived int
	// Diagnostics holds rule conflicts and rule warnings.
	Diagnostics []types.Diagnostic
}

// Apply evaluates every rule on every entity of doc, mutating the
// capped_resources blocks in place.
//
// For each entity, rules run in declared order, so a later rule sees keys
// written by an earlier one. A rule whose produced key already exists on
// the entity is skipped with a rule-conflict diagnostic. A final value of
// zero or less is not written.
func (e *Engine) Apply(doc *script.Document) *Report {
	r := &Report{}
	evaluated := make([]bool, len(e.rules))

	for id, v := range doc.All() {
		if !strings.HasPrefix(id, e.prefix) {
			continue
		}
		caps := cappedResources(v)
		if caps == nil {
			continue
		}
		r.Entities = append(r.Entities, id)
		for i, rule := range e.rules {
			evaluated[i] = true
			e.applyRule(r, id, caps, rule)
		}
	}

	for i, rule := range e.rules {
		if evaluated[i] && rule.Scale == nil {
			r.Diagnostics = append(r.Diagnostics, types.Diagnostic{
				Severity: types.SeverityWarning,
				Code:     types.DiagRuleScaleMissing,
				Message:  fmt.Sprintf("Rule for %s has no scale factor; nothing was derived", rule.Produces),
			})
		}
	}

	e.Log(slog.LevelDebug, "transform complete",
		slog.Int("entities", len(r.Entities)),
		slog.Int("derived", r.Derived),
		slog.Int("diagnostics", len(r.Diagnostics)))
	return r
}

// cappedResources returns the capped_resources object of an entity value,
// or nil if the value is not an object or has no such object.
func cappedResources(v script.Value) *script.Document {
	entity := v.Document()
	if entity == nil {
		return nil
	}
	caps, ok := entity.Get(CappedResourcesKey)
	if !ok {
		return nil
	}
	return caps.Document()
}

func (e *Engine) applyRule(r *Report, id string, caps *script.Document, rule rules.Rule) {
	derived, defined := combine(caps, rule)

	if caps.Has(rule.Produces) {
		r.Diagnostics = append(r.Diagnostics, types.Diagnostic{
			Severity: types.SeverityError,
			Code:     types.DiagRuleConflict,
			Message:  fmt.Sprintf("Resource key %s already exists in entity %s", rule.Produces, id),
			Entity:   id,
		})
		return
	}
	if !defined {
		return
	}

	if amount, ok := rule.Override(id); ok {
		derived += amount
	}

	if e.TraceEnabled() {
		e.Trace("rule evaluated",
			slog.String("entity", id),
			slog.String("key", rule.Produces),
			slog.Int64("value", derived))
	}

	if derived > 0 {
		caps.Set(rule.Produces, script.Number(derived))
		r.Derived++
	}
}

// combine computes the rule's value before overrides. The second result is
// false when the rule has no scale factor: the product is undefined and
// the rule must not write anything.
func combine(caps *script.Document, rule rules.Rule) (int64, bool) {
	switch rule.Op {
	case rules.OpSum:
		if rule.Scale == nil {
			return 0, false
		}
		base := sumInputs(caps, rule.Inputs)
		return int64(math.Ceil(float64(base) * *rule.Scale)), true
	default:
		return 0, false
	}
}

// sumInputs adds the numeric values of the distinct input keys. Missing
// and non-numeric entries count as zero.
func sumInputs(caps *script.Document, inputs []string) int64 {
	var sum int64
	seen := make(map[string]struct{}, len(inputs))
	for _, key := range inputs {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		v, ok := caps.Get(key)
		if !ok {
			continue
		}
		if n, ok := v.AsNumber(); ok {
			sum += n
		}
	}
	return sum
}
