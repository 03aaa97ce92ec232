package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// StringHelper measures and shapes strings by terminal display width.
type StringHelper struct{}

// NewStringHelper creates a new string helper.
func NewStringHelper() *StringHelper {
	return &StringHelper{}
}

// NormalizeWhitespace replaces multiple whitespace with single space.
func (s *StringHelper) NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateString truncates str to at most maxWidth terminal columns,
// counting wide (CJK) runes as two, and marks the cut with "...".
func (s *StringHelper) TruncateString(str string, maxWidth int) string {
	if runewidth.StringWidth(str) <= maxWidth {
		return str
	}

	return runewidth.Truncate(str, maxWidth, "...")
}

// DisplayWidth returns the terminal column width of str.
func (s *StringHelper) DisplayWidth(str string) int {
	return runewidth.StringWidth(str)
}

// PadRight appends spaces until str spans width columns. Wider strings are
// returned unchanged.
func (s *StringHelper) PadRight(str string, width int) string {
	if pad := width - runewidth.StringWidth(str); pad > 0 {
		return str + strings.Repeat(" ", pad)
	}

	return str
}
