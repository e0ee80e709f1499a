package services

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

const defaultContentType = "application/octet-stream"

// BlobStore keeps attachment content outside the database. The location it
// returns from Store is what Open and Delete take back.
type BlobStore interface {
	Store(originalName string, r io.Reader) (location string, size int64, err error)
	Open(location string) (io.ReadCloser, error)
	Delete(location string) error
}

type AttachmentService interface {
	List(ctx context.Context, taskID int64) ([]models.Attachment, error)
	Upload(ctx context.Context, taskID int64, up models.AttachmentUpload) (*models.Attachment, error)
	Open(ctx context.Context, id int64) (*models.Attachment, io.ReadCloser, error)
	Delete(ctx context.Context, id int64) error
}

type attachmentService struct {
	store  *repositories.Store
	blobs  BlobStore
	ledger *HistoryLedger
	cache  *TaskCache
}

func NewAttachmentService(store *repositories.Store, blobs BlobStore, ledger *HistoryLedger, cache *TaskCache) AttachmentService {
	return &attachmentService{store: store, blobs: blobs, ledger: ledger, cache: cache}
}

func (s *attachmentService) List(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	ok, err := s.store.Tasks.Exists(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("task", taskID)
	}
	list, err := s.store.Attachments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Attachment{}
	}
	return list, nil
}

func (s *attachmentService) Upload(ctx context.Context, taskID int64, up models.AttachmentUpload) (*models.Attachment, error) {
	if up.Content == nil || up.Size == 0 {
		return nil, invalid("file is empty")
	}
	ok, err := s.store.Tasks.Exists(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("task", taskID)
	}

	name := filepath.Base(strings.TrimSpace(up.FileName))
	if name == "." || name == string(filepath.Separator) {
		name = ""
	}
	contentType := strings.TrimSpace(up.ContentType)
	if contentType == "" {
		contentType = defaultContentType
	}

	location, size, err := s.blobs.Store(name, up.Content)
	if err != nil {
		log.Printf("[attachment][upload][err] task=%d: %v", taskID, err)
		return nil, err
	}
	if size == 0 {
		_ = s.blobs.Delete(location)
		return nil, invalid("file is empty")
	}

	a := &models.Attachment{
		TaskID:      taskID,
		FileName:    name,
		URL:         location,
		FileSize:    size,
		ContentType: contentType,
		UploadedAt:  s.ledger.now(),
	}
	if err := s.store.Attachments.Create(ctx, a); err != nil {
		if derr := s.blobs.Delete(location); derr != nil {
			log.Printf("[attachment][upload][warn] orphan blob %s: %v", location, derr)
		}
		return nil, err
	}
	s.cache.Invalidate()
	log.Printf("[attachment][upload][ok] task=%d id=%d size=%d", taskID, a.ID, a.FileSize)
	return a, nil
}

func (s *attachmentService) Open(ctx context.Context, id int64) (*models.Attachment, io.ReadCloser, error) {
	a, err := s.store.Attachments.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(a.URL)
	if err != nil {
		return nil, nil, err
	}
	return a, rc, nil
}

// Delete removes the content first, then the row.
func (s *attachmentService) Delete(ctx context.Context, id int64) error {
	a, err := s.store.Attachments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(a.URL); err != nil {
		return err
	}
	if err := s.store.Attachments.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}
