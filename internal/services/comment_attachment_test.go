package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"taskmanager/internal/models"
)

func TestComments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task := env.createTask(t, models.TaskInput{Title: "c"})
	svc := NewCommentService(env.store, env.ledger, env.cache)

	if _, err := svc.Create(ctx, task.ID, "  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank message: %v", err)
	}
	if _, err := svc.Create(ctx, 999, "hi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing task: %v", err)
	}
	first, err := svc.Create(ctx, task.ID, "first")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.CreatedAt.IsZero() {
		t.Fatalf("expected server-assigned created_at")
	}
	if _, err := svc.Create(ctx, task.ID, "second"); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.List(ctx, task.ID)
	if err != nil || len(list) != 2 || list[0].Message != "second" {
		t.Fatalf("expected newest first, got %+v %v", list, err)
	}
	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestAttachments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task := env.createTask(t, models.TaskInput{Title: "a"})
	svc := NewAttachmentService(env.store, env.blobs, env.ledger, env.cache)

	if _, err := svc.Upload(ctx, task.ID, models.AttachmentUpload{FileName: "x.txt"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty upload: %v", err)
	}
	if _, err := svc.Upload(ctx, 999, models.AttachmentUpload{FileName: "x.txt", Size: 1, Content: strings.NewReader("x")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing task: %v", err)
	}

	a, err := svc.Upload(ctx, task.ID, models.AttachmentUpload{
		FileName: "../../etc/report.pdf",
		Size:     7,
		Content:  strings.NewReader("content"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if a.FileName != "report.pdf" || a.ContentType != defaultContentType || a.FileSize != 7 {
		t.Fatalf("unexpected metadata %+v", a)
	}
	if !strings.HasPrefix(a.URL, "/uploads/") {
		t.Fatalf("unexpected url %q", a.URL)
	}

	meta, rc, err := svc.Open(ctx, a.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	if string(b) != "content" || meta.ID != a.ID {
		t.Fatalf("unexpected content %q", b)
	}

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(env.blobs.deleted) != 1 || env.blobs.deleted[0] != a.URL {
		t.Fatalf("blob not deleted: %v", env.blobs.deleted)
	}
	if err := svc.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	list, err := svc.List(ctx, task.ID)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected no attachments, got %+v %v", list, err)
	}
}
