package repositories

import (
	"context"
	"fmt"

	"taskmanager/internal/models"
)

// HistoryRepository is append-only apart from the cascade on permanent delete.
type HistoryRepository interface {
	Append(ctx context.Context, h *models.TaskHistory) error
	ListByTask(ctx context.Context, taskID int64) ([]models.TaskHistory, error)
	DeleteByTask(ctx context.Context, taskID int64) error
}

type historyRepository struct{ db DBTX }

func NewHistoryRepository(db DBTX) HistoryRepository { return &historyRepository{db: db} }

func (r *historyRepository) Append(ctx context.Context, h *models.TaskHistory) error {
	const q = `
		INSERT INTO task_history (task_id, field_changed, old_value, new_value, changed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, q,
		h.TaskID, h.FieldChanged, h.OldValue, h.NewValue, h.ChangedAt,
	).Scan(&h.ID); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// ListByTask returns newest first.
func (r *historyRepository) ListByTask(ctx context.Context, taskID int64) ([]models.TaskHistory, error) {
	const q = `
		SELECT id, task_id, field_changed, old_value, new_value, changed_at
		FROM task_history
		WHERE task_id=$1
		ORDER BY changed_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var res []models.TaskHistory
	for rows.Next() {
		var h models.TaskHistory
		if err := rows.Scan(&h.ID, &h.TaskID, &h.FieldChanged, &h.OldValue, &h.NewValue, &h.ChangedAt); err != nil {
			return nil, err
		}
		res = append(res, h)
	}
	return res, rows.Err()
}

func (r *historyRepository) DeleteByTask(ctx context.Context, taskID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_history WHERE task_id=$1`, taskID); err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return nil
}
