package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskmanager/internal/models"
)

type AttachmentRepository interface {
	Create(ctx context.Context, a *models.Attachment) error
	FindByID(ctx context.Context, id int64) (*models.Attachment, error)
	ListByTask(ctx context.Context, taskID int64) ([]models.Attachment, error)
	Delete(ctx context.Context, id int64) error
	DeleteByTask(ctx context.Context, taskID int64) error
}

type attachmentRepository struct{ db DBTX }

func NewAttachmentRepository(db DBTX) AttachmentRepository {
	return &attachmentRepository{db: db}
}

const attachmentColumns = `id, task_id, file_name, url, file_size, content_type, uploaded_at`

func (r *attachmentRepository) Create(ctx context.Context, a *models.Attachment) error {
	const q = `
		INSERT INTO attachments (task_id, file_name, url, file_size, content_type, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, q,
		a.TaskID,
		a.FileName,
		a.URL,
		a.FileSize,
		a.ContentType,
		a.UploadedAt,
	).Scan(&a.ID); err != nil {
		return fmt.Errorf("create attachment: %w", err)
	}
	return nil
}

func (r *attachmentRepository) FindByID(ctx context.Context, id int64) (*models.Attachment, error) {
	q := `SELECT ` + attachmentColumns + ` FROM attachments WHERE id=$1`
	var a models.Attachment
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.TaskID, &a.FileName, &a.URL, &a.FileSize, &a.ContentType, &a.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("attachment %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get attachment: %w", err)
	}
	return &a, nil
}

func (r *attachmentRepository) ListByTask(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	q := `SELECT ` + attachmentColumns + ` FROM attachments WHERE task_id=$1 ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var res []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.TaskID, &a.FileName, &a.URL, &a.FileSize, &a.ContentType, &a.UploadedAt); err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r *attachmentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	return nil
}

func (r *attachmentRepository) DeleteByTask(ctx context.Context, taskID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE task_id=$1`, taskID); err != nil {
		return fmt.Errorf("delete attachments: %w", err)
	}
	return nil
}
