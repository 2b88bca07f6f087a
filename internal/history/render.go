package history

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	minQuoteWidth = 20
	timeLayout    = "2006-01-02 15:04"
)

var headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Bold(true)

// Render writes the history table and a per-category summary.
// width bounds each line; 0 disables truncation.
func Render(w io.Writer, report Report, width int, loc *time.Location) error {
	if len(report.Entries) == 0 {
		_, err := fmt.Fprintln(w, "No quotes yet. Run: quipe generate")
		return err
	}
	if loc == nil {
		loc = time.Local
	}

	headers := []string{"#", "When", "Category", "Author", "Quote"}
	rows := make([][]string, 0, len(report.Entries))
	for i, e := range report.Entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.CreatedAt.In(loc).Format(timeLayout),
			e.Category,
			e.Author,
			strings.Join(strings.Fields(e.Text), " "),
		})
	}
	if width > 0 {
		fixed := fixedWidth(headers, rows)
		quoteWidth := width - fixed
		if quoteWidth < minQuoteWidth {
			quoteWidth = minQuoteWidth
		}
		for _, row := range rows {
			row[len(row)-1] = truncate(row[len(row)-1], quoteWidth)
		}
	}

	lines := formatTable(headers, rows, map[int]bool{0: true})
	for i, line := range lines {
		if i == 0 {
			line = headerStyle.Render(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	parts := make([]string, 0, len(report.Categories))
	for _, c := range report.Categories {
		parts = append(parts, fmt.Sprintf("%s %d", c.Category, c.Count))
	}
	_, err := fmt.Fprintf(w, "\n%d quotes · %s\n", len(report.Entries), strings.Join(parts, ", "))
	return err
}

// fixedWidth is the width taken by every column except the quote, separators included.
func fixedWidth(headers []string, rows [][]string) int {
	last := len(headers) - 1
	trimmedHeaders := headers[:last]
	trimmedRows := make([][]string, len(rows))
	for i, row := range rows {
		trimmedRows[i] = row[:last]
	}
	lines := formatTable(trimmedHeaders, trimmedRows, nil)
	widest := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > widest {
			widest = w
		}
	}
	return widest + 2
}
