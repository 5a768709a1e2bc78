// Package reset strips previously derived assignments from raw script text
// so that derived keys can be recomputed from scratch.
package reset

import (
	"fmt"
	"strings"

	"github.com/pdxtools/capgen/internal/lexer"
)

// Error reports a key that cannot be matched literally.
type Error struct {
	Key    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cannot reset key %q: %s", e.Key, e.Reason)
}

// Strip removes, for each key in order, every occurrence of
//
//	ws* KEY ws* '=' ws* digit+
//
// from text. The key is matched literally and the run of whitespace in
// front of it is removed together with the assignment. Negative numbers
// and non-numeric values are left alone.
func Strip(text string, keys []string) (string, error) {
	for _, key := range keys {
		if err := checkKey(key); err != nil {
			return "", err
		}
		text = stripKey(text, key)
	}
	return text, nil
}

func checkKey(key string) error {
	if key == "" {
		return &Error{Key: key, Reason: "empty key"}
	}
	for i := 0; i < len(key); i++ {
		if !lexer.IsIdentByte(key[i]) {
			return &Error{Key: key, Reason: fmt.Sprintf("byte %q is not an identifier character", key[i])}
		}
	}
	return nil
}

func stripKey(text, key string) string {
	var b strings.Builder
	copied := 0 // text[:copied] has been written to b or dropped
	from := 0
	for {
		idx := strings.Index(text[from:], key)
		if idx < 0 {
			break
		}
		start := from + idx
		end, ok := matchAssignment(text, start+len(key))
		if !ok {
			from = start + 1
			continue
		}
		wsStart := start
		for wsStart > copied && isSpace(text[wsStart-1]) {
			wsStart--
		}
		b.WriteString(text[copied:wsStart])
		copied = end
		from = end
	}
	if copied == 0 {
		return text
	}
	b.WriteString(text[copied:])
	return b.String()
}

// matchAssignment matches ws* '=' ws* digit+ at pos and returns the end
// of the match.
func matchAssignment(text string, pos int) (int, bool) {
	pos = skipSpace(text, pos)
	if pos >= len(text) || text[pos] != '=' {
		return 0, false
	}
	pos = skipSpace(text, pos+1)
	digits := pos
	for pos < len(text) && text[pos] >= '0' && text[pos] <= '9' {
		pos++
	}
	if pos == digits {
		return 0, false
	}
	return pos, true
}

func skipSpace(text string, pos int) int {
	for pos < len(text) && isSpace(text[pos]) {
		pos++
	}
	return pos
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
