// Package export writes the completed-task history to CSV or JSON files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/focusflow/internal/store"
)

// FileName is the default export name for a day, e.g. focusflow-20250310.csv.
func FileName(day time.Time, ext string) string {
	return fmt.Sprintf("focusflow-%s.%s", day.Format("20060102"), ext)
}

var csvHeader = []string{"ID", "Title", "Category", "Priority", "Scheduled", "Completed At", "Duration (min)", "Duration", "Description"}

func ToCSV(tasks []store.CompletedTask, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range tasks {
		row := []string{
			t.ID,
			t.Title,
			string(t.Category),
			string(t.Priority),
			t.Time,
			completedAt(t),
			strconv.Itoa(t.Duration),
			formatDuration(int64(t.Duration) * 60),
			t.Description,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", t.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}

func completedAt(t store.CompletedTask) string {
	if t.CompletedAt == nil {
		return ""
	}
	return t.CompletedAt.Local().Format(time.RFC3339)
}

// formatDuration renders seconds as HH:MM:SS. Hours may exceed 24.
func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
