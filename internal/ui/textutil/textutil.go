// Package textutil measures and fits text to terminal columns.
package textutil

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Width is the number of terminal columns s occupies. ANSI styling is ignored.
func Width(s string) int {
	return lipgloss.Width(s)
}

// Truncate cuts plain text s to at most maxWidth columns, ending in Ellipsis
// when anything was removed. Wide runes are never split.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	budget := maxWidth - runewidth.StringWidth(Ellipsis)
	if budget < 0 {
		return Ellipsis
	}
	used := 0
	for i, r := range s {
		w := runewidth.RuneWidth(r)
		if used+w > budget {
			return s[:i] + Ellipsis
		}
		used += w
	}
	return s + Ellipsis
}

// PadRight fills plain text s with spaces to exactly width columns,
// truncating when it is already wider.
func PadRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return Truncate(s, width)
	}
	return s + runewidth.FillRight("", width-w)
}

// Spread places left and right at opposite ends of a width-column line with
// at least minGap spaces between them. Styled strings are measured correctly.
func Spread(left, right string, width, minGap int) string {
	gap := width - Width(left) - Width(right)
	if gap < minGap {
		gap = minGap
	}
	return left + runewidth.FillRight("", gap) + right
}
