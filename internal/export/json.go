package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/focusflow/internal/store"
)

type jsonExport struct {
	ExportedAt   string      `json:"exported_at"`
	Count        int         `json:"count"`
	TotalMinutes int         `json:"total_minutes"`
	Tasks        []jsonEntry `json:"tasks"`
}

type jsonEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Scheduled   string `json:"scheduled,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
	DurationMin int    `json:"duration_minutes"`
	Duration    string `json:"duration"`
	Description string `json:"description,omitempty"`
}

func ToJSON(tasks []store.CompletedTask, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(tasks),
	}
	for _, t := range tasks {
		out.TotalMinutes += t.Duration
		out.Tasks = append(out.Tasks, jsonEntry{
			ID:          t.ID,
			Title:       t.Title,
			Category:    string(t.Category),
			Priority:    string(t.Priority),
			Scheduled:   t.Time,
			CompletedAt: completedAt(t),
			DurationMin: t.Duration,
			Duration:    formatDuration(int64(t.Duration) * 60),
			Description: t.Description,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
