package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// truncate shortens a string to the given display width, adding an
// ellipsis if needed. Wide runes count as two cells.
func truncate(value string, width int) string {
	value = strings.TrimSpace(value)
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(value, width, ellipsis)
}

// truncateMiddle shortens a string by removing cells from the middle,
// preserving both the scheme and host of a URL and its final path element.
func truncateMiddle(value string, width int) string {
	value = strings.TrimSpace(value)
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 2 {
		return runewidth.Truncate(value, width, "")
	}
	tail := (width - 1) / 2
	head := width - 1 - tail
	return runewidth.Truncate(value, head, "") + ellipsis + lastCells(value, tail)
}

// lastCells returns the longest suffix of value that fits in width cells.
func lastCells(value string, width int) string {
	runes := []rune(value)
	used := 0
	i := len(runes)
	for i > 0 {
		w := runewidth.RuneWidth(runes[i-1])
		if used+w > width {
			break
		}
		used += w
		i--
	}
	return string(runes[i:])
}

func lenPrompt(prompt string) int {
	return runewidth.StringWidth(prompt)
}
