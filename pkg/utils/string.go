// Package utils provides common string helpers.
package utils

import (
	"path"
	"strings"

	"github.com/mattn/go-runewidth"
)

// NormalizeWhitespace replaces whitespace runs with a single space and trims the ends.
func NormalizeWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// Truncate shortens str to at most width display columns, appending an ellipsis
// when it had to cut. Wide (CJK) runes count as two columns.
func Truncate(str string, width int) string {
	if runewidth.StringWidth(str) <= width {
		return str
	}

	return runewidth.Truncate(str, width, "…")
}

// SwapExtension replaces the last extension of name with ext (given without the dot).
// A name without extension gets ext appended.
func SwapExtension(name, ext string) string {
	base := strings.TrimSuffix(name, path.Ext(name))

	return base + "." + strings.TrimPrefix(ext, ".")
}
