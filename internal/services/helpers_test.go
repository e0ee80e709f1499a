package services

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"taskmanager/internal/models"
	"taskmanager/internal/repositories"
)

type testEnv struct {
	store    *repositories.Store
	ledger   *HistoryLedger
	engine   *StatusEngine
	cache    *TaskCache
	blobs    *memBlobs
	tasks    TaskService
	subtasks SubtaskService
	history  HistoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := repositories.Open(context.Background(), repositories.DriverSQLite, "file:"+path+"?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	env := &testEnv{
		store:  repositories.NewStore(db),
		ledger: NewHistoryLedger(),
		cache:  NewTaskCache(),
		blobs:  newMemBlobs(),
	}
	env.engine = NewStatusEngine(env.ledger)
	env.tasks = NewTaskService(env.store, env.ledger, env.cache, env.blobs)
	env.subtasks = NewSubtaskService(env.store, env.ledger, env.engine, env.cache)
	env.history = NewHistoryService(env.store, nil)
	return env
}

func (e *testEnv) createTask(t *testing.T, in models.TaskInput) *models.Task {
	t.Helper()
	if in.Status == "" {
		in.Status = models.StatusPending
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	task, err := e.tasks.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func (e *testEnv) historyOf(t *testing.T, taskID int64) []models.TaskHistory {
	t.Helper()
	list, err := e.history.GetTaskHistory(context.Background(), taskID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	return list
}

func (e *testEnv) status(t *testing.T, taskID int64) models.TaskStatus {
	t.Helper()
	task, err := e.tasks.GetByID(context.Background(), taskID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	return task.Status
}

func countField(list []models.TaskHistory, field string) int {
	n := 0
	for _, h := range list {
		if h.FieldChanged == field {
			n++
		}
	}
	return n
}

func findField(list []models.TaskHistory, field string) *models.TaskHistory {
	for i := range list {
		if list[i].FieldChanged == field {
			return &list[i]
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

type memBlobs struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	seq     int
}

func newMemBlobs() *memBlobs { return &memBlobs{files: map[string][]byte{}} }

func (m *memBlobs) Store(name string, r io.Reader) (string, int64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	loc := "/uploads/" + string(rune('a'+m.seq)) + filepath.Ext(name)
	m.files[loc] = b
	return loc, int64(len(b)), nil
}

func (m *memBlobs) Open(loc string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[loc]
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memBlobs) Delete(loc string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, loc)
	m.deleted = append(m.deleted, loc)
	return nil
}
