package analysis

import (
	"strings"
	"unicode/utf8"
)

// Accumulator rebuilds a report from cumulative stream chunks. Each chunk
// carries the full text produced so far; only the unseen suffix is kept.
// The zero value is ready to use.
type Accumulator struct {
	lastLen int
	applied map[string]struct{}
	sb      strings.Builder
}

// Feed applies one cumulative chunk and reports whether it changed the text.
func (a *Accumulator) Feed(content string) bool {
	n := utf8.RuneCountInString(content)
	if n <= a.lastLen {
		return false
	}

	suffix := string([]rune(content)[a.lastLen:])
	if strings.TrimSpace(suffix) == "" {
		return false
	}
	if _, ok := a.applied[suffix]; ok {
		return false
	}
	if a.applied == nil {
		a.applied = make(map[string]struct{})
	}
	a.applied[suffix] = struct{}{}
	a.sb.WriteString(suffix)
	a.lastLen = n
	return true
}

// String returns the text accumulated so far.
func (a *Accumulator) String() string {
	return a.sb.String()
}
