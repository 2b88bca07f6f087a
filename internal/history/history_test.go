package history

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/quipe/internal/model"
)

type sliceLister []model.HistoryEntry

func (s sliceLister) ListQuotes(_ context.Context, limit int) ([]model.HistoryEntry, error) {
	if limit > 0 && limit < len(s) {
		return s[:limit], nil
	}
	return s, nil
}

func sampleEntries() []model.HistoryEntry {
	base := time.Date(2025, 10, 23, 10, 30, 0, 0, time.UTC)
	return []model.HistoryEntry{
		{Text: "Success is not final, failure is not fatal: it is the courage to continue that counts.", Author: "Ayō", Category: "motivation", CreatedAt: base.Add(2 * time.Minute)},
		{Text: "Laugh often.", Author: "Swan", Category: "humor", CreatedAt: base.Add(time.Minute)},
		{Text: "Keep going.", Author: "Ayō", Category: "motivation", CreatedAt: base},
	}
}

func TestTopCategories(t *testing.T) {
	got := TopCategories(sampleEntries())
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %+v", got)
	}
	if got[0].Category != "motivation" || got[0].Count != 2 {
		t.Fatalf("unexpected first category: %+v", got[0])
	}
	if got[1].Category != "humor" || got[1].Count != 1 {
		t.Fatalf("unexpected second category: %+v", got[1])
	}
}

func TestBuildReportLimit(t *testing.T) {
	report, err := BuildReport(context.Background(), sliceLister(sampleEntries()), 2)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(report.Entries))
	}
	if len(report.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %+v", report.Categories)
	}
}

func TestRenderTruncatesToWidth(t *testing.T) {
	report, err := BuildReport(context.Background(), sliceLister(sampleEntries()), 0)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	var buf bytes.Buffer
	if err := Render(&buf, report, 80, time.UTC); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "2025-10-23 10:32") {
		t.Fatalf("expected timestamp in output: %s", out)
	}
	if !strings.Contains(out, "…") {
		t.Fatalf("expected long quote to be truncated: %s", out)
	}
	if !strings.Contains(out, "3 quotes · motivation 2, humor 1") {
		t.Fatalf("expected summary line: %s", out)
	}
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if w := runewidth.StringWidth(line); w > 80 {
			t.Fatalf("line exceeds width (%d): %q", w, line)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, Report{}, 80, time.UTC); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No quotes yet") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestFormatTableAlignment(t *testing.T) {
	lines := formatTable([]string{"#", "Name"}, [][]string{{"1", "a"}, {"10", "bb"}}, map[int]bool{0: true})
	want := []string{" #  Name", " 1  a", "10  bb"}
	if len(lines) != len(want) {
		t.Fatalf("unexpected lines: %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q want %q", i, lines[i], want[i])
		}
	}
}
