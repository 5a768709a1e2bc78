// Command capgen derives resource caps in Clausewitz script files.
//
// Every script file below the input directory is reset, parsed, run
// through the rule set and written back when its text changed.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"

	"github.com/urfave/cli/v2"

	"github.com/pdxtools/capgen"
	"github.com/pdxtools/capgen/cmd/internal/cliutil"
	"github.com/pdxtools/capgen/rules"
)

// Exit codes.
const (
	exitOK    = 0 // success, including files skipped on parse errors
	exitError = 1 // usage error, unreadable input, or read/write failure
)

const usageText = `capgen <inputDir> [--dry-run] [options]

Examples:
  capgen game/map_data/state_regions
  capgen game/map_data/state_regions --dry-run
  capgen --rules caps.yaml --ext .txt -v mod/state_regions`

// valueFlags names the flags that take a separate value argument.
var valueFlags = map[string]bool{
	"rules":  true,
	"ext":    true,
	"prefix": true,
	"jobs":   true,
	"ignore": true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	err := app.RunContext(ctx, cliutil.HoistFlags(args, valueFlags))
	if err == nil {
		return exitOK
	}
	if msg := err.Error(); msg != "" {
		cliutil.PrintError(stderr, "%s", msg)
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return exitError
}

func newApp(stdout, stderr io.Writer) *cli.App {
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}

	return &cli.App{
		Name:            "capgen",
		Usage:           "derive resource caps in Clausewitz script files",
		UsageText:       usageText,
		Version:         version(),
		HideHelpCommand: true,
		Writer:          stdout,
		ErrWriter:       stderr,
		// Exit codes are mapped by run; the default handler calls os.Exit.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "report changes without writing files"},
			&cli.StringFlag{Name: "rules", Usage: "load the rule set from a YAML `FILE`"},
			&cli.StringSliceFlag{Name: "ext", Usage: "script file extension (repeatable)"},
			&cli.StringFlag{Name: "prefix", Value: "STATE_", Usage: "top-level key prefix marking entities"},
			&cli.IntFlag{Name: "jobs", Value: runtime.NumCPU(), Usage: "files processed in parallel"},
			&cli.StringSliceFlag{Name: "ignore", Usage: "diagnostic code or glob to suppress (repeatable)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
			&cli.BoolFlag{Name: "vv", Usage: "enable trace logging (implies -v)"},
		},
		Action: func(c *cli.Context) error {
			return action(c, stdout, stderr)
		},
	}
}

func action(c *cli.Context, stdout, stderr io.Writer) error {
	if c.NArg() != 1 {
		fmt.Fprintf(stderr, "Usage: %s\n", usageText)
		return cli.Exit("", exitError)
	}
	dir := c.Args().First()

	var srcOpts []capgen.SourceOption
	if exts := c.StringSlice("ext"); len(exts) > 0 {
		srcOpts = append(srcOpts, capgen.WithExtensions(exts...))
	}
	src, err := capgen.DirTree(dir, srcOpts...)
	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot read input directory: %v", err), exitError)
	}

	opts, err := buildOptions(c, stderr)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	rep, err := capgen.Run(c.Context, src, opts...)
	if err != nil {
		return cli.Exit(err.Error(), exitError)
	}

	if rep.Total == 0 {
		fmt.Fprintln(stdout, "No matching files found.")
		return nil
	}

	tag := "[OK] "
	if c.Bool("dry-run") {
		tag = "[DRY]"
	}
	warned := make(map[string]bool)
	for _, f := range rep.Files {
		printDiagnostics(stderr, f.Path, f.Err, f.Diagnostics, warned)
		if f.Changed {
			fmt.Fprintf(stdout, "%s Updated %s\n", tag, f.Path)
		}
	}
	printDiagnostics(stderr, "", nil, rep.Diagnostics, warned)

	fmt.Fprintf(stdout, "Done. Changed %d/%d files.\n", rep.Changed, rep.Total)
	return nil
}

func buildOptions(c *cli.Context, stderr io.Writer) ([]capgen.Option, error) {
	opts := []capgen.Option{
		capgen.WithDryRun(c.Bool("dry-run")),
		capgen.WithEntityPrefix(c.String("prefix")),
		capgen.WithConcurrency(c.Int("jobs")),
	}

	if path := c.String("rules"); path != "" {
		set, err := rules.LoadFile(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, capgen.WithRules(set))
	}

	diagCfg := capgen.DefaultDiagnosticConfig()
	diagCfg.Ignore = c.StringSlice("ignore")
	opts = append(opts, capgen.WithDiagnosticConfig(diagCfg))

	if logger := setupLogger(stderr, c.Bool("verbose"), c.Bool("vv")); logger != nil {
		opts = append(opts, capgen.WithLogger(logger))
	}
	return opts, nil
}

// printDiagnostics writes diagnostics to w. Warnings repeat across files,
// so each distinct warning message is printed once.
func printDiagnostics(w io.Writer, path string, skipErr error, diags []capgen.Diagnostic, warned map[string]bool) {
	for _, d := range diags {
		switch {
		case d.Code == capgen.DiagResetError && skipErr != nil:
			fmt.Fprintf(w, "[SKIP] Reset error in %s: %v\n", path, skipErr)
		case d.Code == capgen.DiagParseError && skipErr != nil:
			fmt.Fprintf(w, "[SKIP] Parse error in %s: %v\n", path, skipErr)
		case d.Severity.AtLeast(capgen.SeverityError):
			fmt.Fprintf(w, "[ERROR] %s\n", d.Message)
		default:
			if warned[d.Message] {
				continue
			}
			warned[d.Message] = true
			fmt.Fprintf(w, "[WARN] %s\n", d.Message)
		}
	}
}

func setupLogger(w io.Writer, verbose, trace bool) *slog.Logger {
	if !verbose && !trace {
		return nil
	}
	level := slog.LevelDebug
	if trace {
		level = capgen.LevelTrace
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
