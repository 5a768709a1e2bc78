// Package cliutil provides shared CLI utilities for capgen command-line tools.
package cliutil

import (
	"fmt"
	"io"
	"strings"
)

// HoistFlags moves flags ahead of positional arguments so that flags given
// after the input directory are still parsed. args[0] is the program name
// and stays first. Flags named in valueFlags consume the following argument
// unless written as --name=value. Everything after "--" is positional.
func HoistFlags(args []string, valueFlags map[string]bool) []string {
	if len(args) == 0 {
		return args
	}
	flags := []string{args[0]}
	var positional []string
	terminated := false

	for i := 1; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			terminated = true
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case len(arg) > 1 && arg[0] == '-':
			flags = append(flags, arg)
			name := strings.TrimLeft(arg, "-")
			if strings.Contains(name, "=") {
				continue
			}
			if valueFlags[name] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		default:
			positional = append(positional, arg)
		}
	}

	if terminated {
		flags = append(flags, "--")
	}
	return append(flags, positional...)
}

// PrintError writes a formatted error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}
