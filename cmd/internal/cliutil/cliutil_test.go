package cliutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHoistFlags(t *testing.T) {
	valueFlags := map[string]bool{"rules": true, "ext": true}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "flag after directory",
			args: []string{"capgen", "states", "--dry-run"},
			want: []string{"capgen", "--dry-run", "states"},
		},
		{
			name: "flags already first",
			args: []string{"capgen", "--dry-run", "states"},
			want: []string{"capgen", "--dry-run", "states"},
		},
		{
			name: "value flag keeps its value",
			args: []string{"capgen", "states", "--rules", "rules.yaml", "-v"},
			want: []string{"capgen", "--rules", "rules.yaml", "-v", "states"},
		},
		{
			name: "inline value",
			args: []string{"capgen", "states", "--ext=.txt"},
			want: []string{"capgen", "--ext=.txt", "states"},
		},
		{
			name: "terminator",
			args: []string{"capgen", "-v", "--", "-odd-dir"},
			want: []string{"capgen", "-v", "--", "-odd-dir"},
		},
		{
			name: "value flag at end",
			args: []string{"capgen", "states", "--rules"},
			want: []string{"capgen", "--rules", "states"},
		},
		{
			name: "program only",
			args: []string{"capgen"},
			want: []string{"capgen"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HoistFlags(tt.args, valueFlags))
		})
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, "cannot open %s", "x")
	assert.Equal(t, "error: cannot open x\n", buf.String())
}
