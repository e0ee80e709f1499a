package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"taskmanager/internal/models"
)

func TestCommentDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	task := seedTask(t, s, "t", models.StatusPending, models.PriorityLow, nil)

	c := &models.Comment{TaskID: task.ID, Message: "hi", CreatedAt: time.Now().UTC()}
	if err := s.Comments.Create(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Comments.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Comments.Delete(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

type brokenResult struct{}

func (brokenResult) LastInsertId() (int64, error) { return 0, errors.New("unsupported") }
func (brokenResult) RowsAffected() (int64, error) { return 0, errors.New("driver lost count") }

// execOnly answers ExecContext with brokenResult; other calls are not expected.
type execOnly struct{ DBTX }

func (execOnly) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return brokenResult{}, nil
}

func TestCommentDeleteSurfacesRowsAffectedError(t *testing.T) {
	err := NewCommentRepository(execOnly{}).Delete(context.Background(), 1)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("want the driver error, got %v", err)
	}
}
