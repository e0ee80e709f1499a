package models

type Subtask struct {
	ID          int64  `json:"id"`
	TaskID      int64  `json:"-"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// SubtaskInput is a full (PUT) subtask payload. ID is only used when
// reconciling a task's subtask list; Completed defaults to false.
type SubtaskInput struct {
	ID          *int64
	Title       string
	Description string
	Completed   *bool
}

func (in SubtaskInput) IsCompleted() bool {
	return in.Completed != nil && *in.Completed
}

// SubtaskPatch holds only the fields present in a PATCH request.
type SubtaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}
