package capgen

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Report summarizes a Run.
type Report struct {
	// Files holds one result per listed file, in listing order.
	Files []*Result
	// Changed counts files whose output differs from their input.
	Changed int
	// Total counts listed files.
	Total int
	// Diagnostics holds run-level diagnostics: rule order problems and
	// overrides that matched no entity in any file.
	Diagnostics []Diagnostic
}

// Skipped returns the results of files skipped after a reset or parse error.
func (r *Report) Skipped() []*Result {
	var out []*Result
	for _, f := range r.Files {
		if f.Skipped {
			out = append(out, f)
		}
	}
	return out
}

// AllDiagnostics returns per-file diagnostics in file order followed by
// run-level diagnostics.
func (r *Report) AllDiagnostics() []Diagnostic {
	var out []Diagnostic
	for _, f := range r.Files {
		out = append(out, f.Diagnostics...)
	}
	return append(out, r.Diagnostics...)
}

// Run processes every file of src and writes back changed files unless
// WithDryRun is set.
//
// Files are processed in parallel and independently. A reset or parse
// error skips that file and is recorded in its Result; read and write
// errors, and context cancellation, abort the run. Files written before an
// abort stay written.
func Run(ctx context.Context, src Source, opts ...Option) (*Report, error) {
	if src == nil {
		return nil, ErrNoSources
	}
	cfg := newConfig(opts)
	if err := cfg.rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	p := newProcessor(cfg)

	files, err := src.ListFiles()
	if err != nil {
		return nil, err
	}

	p.Log(slog.LevelInfo, "run started",
		slog.Int("files", len(files)),
		slog.Int("rules", len(cfg.rules)),
		slog.Int("jobs", cfg.jobs),
		slog.Bool("dry_run", cfg.dryRun))

	results := make([]*Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.jobs)

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := src.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			res := p.process(path, string(data))
			if res.Changed && !cfg.dryRun {
				if err := src.WriteFile(path, []byte(res.Output)); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				res.Written = true
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{Files: results, Total: len(results)}
	var seen []string
	for _, res := range results {
		if res.Changed {
			rep.Changed++
		}
		seen = append(seen, res.Entities...)
	}
	diags := append(CheckRules(cfg.rules), unmatchedOverrides(cfg.rules, seen)...)
	rep.Diagnostics = cfg.diagConfig.Filter(diags)

	p.Log(slog.LevelInfo, "run complete",
		slog.Int("files", rep.Total),
		slog.Int("changed", rep.Changed),
		slog.Int("skipped", len(rep.Skipped())))
	return rep, nil
}
