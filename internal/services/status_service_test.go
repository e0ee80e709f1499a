package services

import (
	"testing"

	"taskmanager/internal/models"
)

func subs(completed ...bool) []models.Subtask {
	out := make([]models.Subtask, len(completed))
	for i, c := range completed {
		out[i] = models.Subtask{ID: int64(i + 1), Title: "s", Completed: c}
	}
	return out
}

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name    string
		current models.TaskStatus
		subs    []models.Subtask
		want    models.TaskStatus
	}{
		{"empty resets to pending", models.StatusInProgress, nil, models.StatusPending},
		{"empty keeps delayed out", models.StatusDelayed, nil, models.StatusPending},
		{"empty keeps completed", models.StatusCompleted, nil, models.StatusCompleted},
		{"all done", models.StatusPending, subs(true, true), models.StatusCompleted},
		{"single done", models.StatusPending, subs(true), models.StatusCompleted},
		{"some done", models.StatusPending, subs(true, false), models.StatusInProgress},
		{"some done from completed", models.StatusCompleted, subs(true, false), models.StatusInProgress},
		{"none done keeps pending", models.StatusPending, subs(false), models.StatusPending},
		{"none done keeps delayed", models.StatusDelayed, subs(false, false), models.StatusDelayed},
		{"none done keeps in progress", models.StatusInProgress, subs(false), models.StatusInProgress},
		{"none done demotes completed", models.StatusCompleted, subs(false), models.StatusInProgress},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveStatus(tc.current, tc.subs); got != tc.want {
				t.Fatalf("DeriveStatus(%s) = %s, want %s", tc.current, got, tc.want)
			}
		})
	}
}
