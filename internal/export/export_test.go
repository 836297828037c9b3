package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/focusflow/internal/store"
)

func completed(id, title string, minutes int, at *time.Time) store.CompletedTask {
	return store.CompletedTask{TimedRoutineItem: store.TimedRoutineItem{
		ID:          id,
		Title:       title,
		Time:        "09:00",
		Duration:    minutes,
		Priority:    store.PriorityHigh,
		Category:    store.CategoryWork,
		Status:      store.StatusCompleted,
		Completed:   at != nil,
		CompletedAt: at,
	}}
}

func sampleData() []store.CompletedTask {
	now := time.Now().UTC()
	tasks := []store.CompletedTask{
		completed("completed_1", "Write report", 60, &now),
		completed("completed_2", "Review PR", 30, &now),
		completed("legacy", "Imported", 90, nil),
	}
	tasks[0].Description = "quarterly numbers"
	return tasks
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return records
}

func readJSON(t *testing.T, path string) jsonExport {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out jsonExport
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return out
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	if err := ToCSV(sampleData(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}
	for i, h := range csvHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "completed_1" || row[1] != "Write report" || row[2] != "work" || row[3] != "high" {
		t.Fatalf("unexpected row: %v", row)
	}
	if row[6] != "60" || row[7] != "01:00:00" {
		t.Fatalf("duration columns = %q %q", row[6], row[7])
	}
	if row[8] != "quarterly numbers" {
		t.Fatalf("description = %q", row[8])
	}
	if _, err := time.Parse(time.RFC3339, row[5]); err != nil {
		t.Fatalf("completed at is not RFC3339: %q", row[5])
	}
	if records[3][5] != "" {
		t.Fatalf("missing completion time should be empty, got %q", records[3][5])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if n := len(readCSV(t, path)); n != 1 {
		t.Fatalf("expected header only, got %d rows", n)
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	now := time.Now()
	task := completed("1", `Call "Alex", re: budget`, 5, &now)
	task.Description = "line one\nline two"
	path := filepath.Join(t.TempDir(), "special.csv")
	if err := ToCSV([]store.CompletedTask{task}, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if records[1][1] != `Call "Alex", re: budget` {
		t.Fatalf("title mangled: %q", records[1][1])
	}
	if records[1][8] != "line one\nline two" {
		t.Fatalf("description mangled: %q", records[1][8])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	if err := ToJSON(sampleData(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	out := readJSON(t, path)
	if out.Count != 3 || len(out.Tasks) != 3 {
		t.Fatalf("count = %d, tasks = %d", out.Count, len(out.Tasks))
	}
	if out.TotalMinutes != 180 {
		t.Fatalf("total minutes = %d", out.TotalMinutes)
	}
	if _, err := time.Parse(time.RFC3339, out.ExportedAt); err != nil {
		t.Fatalf("exported_at is not RFC3339: %q", out.ExportedAt)
	}

	e := out.Tasks[0]
	if e.ID != "completed_1" || e.DurationMin != 60 || e.Duration != "01:00:00" || e.Description != "quarterly numbers" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if out.Tasks[2].CompletedAt != "" {
		t.Fatalf("missing completion should be empty, got %q", out.Tasks[2].CompletedAt)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}
	out := readJSON(t, path)
	if out.Count != 0 || out.Tasks != nil {
		t.Fatalf("unexpected empty export: %+v", out)
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(nil, path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be indented")
	}
}

// ============================================================
// formatDuration
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{60, "00:01:00"},
		{3661, "01:01:01"},
		{90061, "25:01:01"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	day := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	if got := FileName(day, "csv"); got != "focusflow-20250310.csv" {
		t.Fatalf("FileName = %q", got)
	}
}
