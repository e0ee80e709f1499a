package services

import (
	"context"
	"strings"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

type CommentService interface {
	List(ctx context.Context, taskID int64) ([]models.Comment, error)
	Create(ctx context.Context, taskID int64, message string) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type commentService struct {
	store  *repositories.Store
	ledger *HistoryLedger
	cache  *TaskCache
}

func NewCommentService(store *repositories.Store, ledger *HistoryLedger, cache *TaskCache) CommentService {
	return &commentService{store: store, ledger: ledger, cache: cache}
}

func (s *commentService) List(ctx context.Context, taskID int64) ([]models.Comment, error) {
	ok, err := s.store.Tasks.Exists(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound("task", taskID)
	}
	list, err := s.store.Comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Comment{}
	}
	return list, nil
}

func (s *commentService) Create(ctx context.Context, taskID int64, message string) (*models.Comment, error) {
	if isBlank(message) {
		return nil, invalid("message must not be blank")
	}
	c := &models.Comment{
		TaskID:    taskID,
		Message:   strings.TrimSpace(message),
		CreatedAt: s.ledger.now(),
	}
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		ok, err := tx.Tasks.Exists(ctx, taskID)
		if err != nil {
			return err
		}
		if !ok {
			return notFound("task", taskID)
		}
		return tx.Comments.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate()
	return c, nil
}

func (s *commentService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Comments.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}
