// internal/models/task.go
package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusDelayed    TaskStatus = "DELAYED"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusDelayed:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is the aggregate root: it owns its subtasks, comments, attachments and history.
type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	DueDate     *Date        `json:"due_date"`
	Priority    TaskPriority `json:"priority"`
	Archived    bool         `json:"archived"`
	Tags        []string     `json:"tags"`
	Subtasks    []Subtask    `json:"subtasks"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TaskFilter defines the available parameters for filtering tasks.
// Archived tasks are never part of a filtered listing.
type TaskFilter struct {
	Status   *TaskStatus
	Priority *TaskPriority
	DueDate  *Date
	Tag      *string
	Query    *string
}

// TaskInput carries the client-supplied fields for create and full update.
// A nil Tags or Subtasks slice means "not provided"; an empty slice clears.
type TaskInput struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *Date
	Tags        []string
	Subtasks    []SubtaskInput
}
