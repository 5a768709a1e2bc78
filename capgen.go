// Package capgen rewrites Clausewitz/Paradox script files so that derived
// resource caps are computed from other resource caps.
//
// Each file goes through the same pipeline: previously derived assignments
// are stripped from the raw text, the text is parsed into a script.Document,
// the rule set is applied to every entity, and the document is formatted
// back to text. A file is written only when the output differs from the
// input.
package capgen

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/pdxtools/capgen/internal/parser"
	"github.com/pdxtools/capgen/internal/reset"
	"github.com/pdxtools/capgen/internal/transform"
	"github.com/pdxtools/capgen/internal/types"
	"github.com/pdxtools/capgen/rules"
	"github.com/pdxtools/capgen/script"
)

// ErrNoSources is returned when Run is called without a source.
var ErrNoSources = errors.New("no script source provided")

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (tokens, entities, rules).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// Option configures Process and Run.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	rules      rules.Set
	prefix     string
	dryRun     bool
	jobs       int
	diagConfig types.DiagnosticConfig
}

func newConfig(opts []Option) config {
	cfg := config{
		rules:      rules.Default(),
		prefix:     transform.DefaultEntityPrefix,
		jobs:       runtime.NumCPU(),
		diagConfig: types.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.jobs < 1 {
		cfg.jobs = 1
	}
	return cfg
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithRules sets the rule set. The default is rules.Default().
func WithRules(set rules.Set) Option {
	return func(c *config) { c.rules = set }
}

// WithEntityPrefix sets the top-level key prefix that marks entities.
// The default is "STATE_".
func WithEntityPrefix(prefix string) Option {
	return func(c *config) { c.prefix = prefix }
}

// WithDryRun makes Run report changes without writing files.
func WithDryRun(dryRun bool) Option {
	return func(c *config) { c.dryRun = dryRun }
}

// WithConcurrency sets how many files Run processes at once.
// The default is runtime.NumCPU().
func WithConcurrency(n int) Option {
	return func(c *config) { c.jobs = n }
}

// WithDiagnosticConfig sets diagnostic filtering.
func WithDiagnosticConfig(cfg DiagnosticConfig) Option {
	return func(c *config) { c.diagConfig = cfg }
}

// Result is the outcome of processing one file.
type Result struct {
	Path    string
	Output  string // formatted text; empty when Skipped
	Changed bool   // Output differs from the input text
	Skipped bool   // reset or parse failed, nothing else was done
	Written bool   // Output was written back by Run

	// Entities lists the entity ids the rules were evaluated on.
	Entities []string
	// Derived counts the values written into capped_resources.
	Derived int

	Diagnostics []Diagnostic

	// Err is the reset or parse error that caused the file to be skipped.
	Err error
}

// Process runs the pipeline on a single text. It returns the reset or
// parse error, if any, together with a Result describing the skip.
func Process(text string, opts ...Option) (*Result, error) {
	cfg := newConfig(opts)
	if err := cfg.rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	res := newProcessor(cfg).process("", text)
	return res, res.Err
}

// processor holds what is shared by every file of a run.
type processor struct {
	cfg      config
	engine   *transform.Engine
	produced []string
	types.Logger
}

func newProcessor(cfg config) *processor {
	return &processor{
		cfg: cfg,
		engine: transform.New(cfg.rules,
			transform.WithEntityPrefix(cfg.prefix),
			transform.WithLogger(types.ComponentLogger(cfg.logger, "transform"))),
		produced: cfg.rules.ProducedKeys(),
		Logger:   types.Logger{L: cfg.logger},
	}
}

func (p *processor) process(path, text string) *Result {
	res := &Result{Path: path}
	defer func() {
		for i := range res.Diagnostics {
			res.Diagnostics[i].File = path
		}
		res.Diagnostics = p.cfg.diagConfig.Filter(res.Diagnostics)
	}()

	stripped, err := reset.Strip(text, p.produced)
	if err != nil {
		p.skip(res, types.DiagResetError, "Reset error", err)
		return res
	}

	doc, err := parser.ParseText([]byte(stripped), types.ComponentLogger(p.cfg.logger, "parser"))
	if err != nil {
		p.skip(res, types.DiagParseError, "Parse error", err)
		return res
	}

	rep := p.engine.Apply(doc)
	res.Entities = rep.Entities
	res.Derived = rep.Derived
	res.Diagnostics = append(res.Diagnostics, rep.Diagnostics...)

	res.Output = script.Format(doc)
	res.Changed = res.Output != text

	p.Log(slog.LevelDebug, "file processed",
		slog.String("path", path),
		slog.Int("entities", len(res.Entities)),
		slog.Int("derived", res.Derived),
		slog.Bool("changed", res.Changed))
	return res
}

func (p *processor) skip(res *Result, code, label string, err error) {
	res.Skipped = true
	res.Err = err
	res.Diagnostics = append(res.Diagnostics, Diagnostic{
		Severity: SeveritySevere,
		Code:     code,
		Message:  fmt.Sprintf("%s: %v", label, err),
	})
	p.Log(slog.LevelDebug, "file skipped",
		slog.String("path", res.Path),
		slog.String("code", code),
		slog.String("error", err.Error()))
}
