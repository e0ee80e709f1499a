package models

import "time"

// Field labels recorded in the audit trail.
const (
	FieldCreated           = "CREATED"
	FieldTitle             = "TITLE"
	FieldStatus            = "STATUS"
	FieldPriority          = "PRIORITY"
	FieldDueDate           = "DUE_DATE"
	FieldArchived          = "ARCHIVED"
	FieldRestored          = "RESTORED"
	FieldSubtaskTitle      = "SUBTASK_TITLE"
	FieldSubtaskCompletion = "SUBTASK_COMPLETION"
	FieldSubtaskDeleted    = "SUBTASK_DELETED"
)

// TaskHistory is an append-only audit record. Rows are never updated.
type TaskHistory struct {
	ID           int64     `json:"id"`
	TaskID       int64     `json:"-"`
	FieldChanged string    `json:"field_changed"`
	OldValue     *string   `json:"old_value"`
	NewValue     *string   `json:"new_value"`
	ChangedAt    time.Time `json:"changed_at"`
}
