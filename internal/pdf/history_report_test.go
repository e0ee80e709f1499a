package pdf

import (
	"bytes"
	"testing"
	"time"

	"taskmanager/internal/models"
)

func TestRenderHistoryReport(t *testing.T) {
	due := models.NewDate(2024, time.January, 1)
	task := &models.Task{
		ID:        3,
		Title:     "Café rollout",
		Status:    models.StatusDelayed,
		Priority:  models.PriorityHigh,
		DueDate:   &due,
		CreatedAt: time.Date(2023, 12, 1, 9, 0, 0, 0, time.UTC),
	}
	oldV, newV := "PENDING", "DELAYED"
	long := "a very long title value that will certainly not fit inside a forty millimetre column"
	history := []models.TaskHistory{
		{ID: 2, FieldChanged: models.FieldStatus, OldValue: &oldV, NewValue: &newV, ChangedAt: time.Now()},
		{ID: 1, FieldChanged: models.FieldCreated, NewValue: &long, ChangedAt: task.CreatedAt},
	}

	var buf bytes.Buffer
	if err := NewHistoryReport("").Render(&buf, task, history); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
}

func TestRenderEmptyHistory(t *testing.T) {
	var buf bytes.Buffer
	task := &models.Task{ID: 1, Title: "t", Status: models.StatusPending, Priority: models.PriorityLow}
	if err := NewHistoryReport("missing.ttf").Render(&buf, task, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected output")
	}
}
