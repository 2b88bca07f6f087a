// Package tui provides the Bubble Tea quote interface.
package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// wrapText breaks text into lines no wider than width display cells.
// Words wider than a line are split at the width boundary.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(paragraph, width)...)
	}
	return lines
}

func wrapParagraph(paragraph string, width int) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, word := range words {
		wordWidth := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+wordWidth > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		for wordWidth > width {
			head, tail := splitAtWidth(word, width)
			if head == "" {
				_, size := utf8.DecodeRuneInString(word)
				head, tail = word[:size], word[size:]
			}
			lines = append(lines, head)
			word = tail
			wordWidth = runewidth.StringWidth(word)
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += wordWidth
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// splitAtWidth returns the longest prefix of s that fits in width cells.
func splitAtWidth(s string, width int) (string, string) {
	used := 0
	for i, r := range s {
		w := runewidth.RuneWidth(r)
		if used+w > width {
			return s[:i], s[i:]
		}
		used += w
	}
	return s, ""
}
