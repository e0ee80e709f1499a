package services

import (
	"sync"

	"taskmanager/internal/models"
)

const allTasksKey = "all"

// TaskCache holds the "all tasks" listing. Every write path calls Invalidate.
// Put takes the generation read before the load, so a listing loaded before
// an Invalidate is never stored.
type TaskCache struct {
	mu      sync.RWMutex
	gen     uint64
	entries map[string][]models.Task
}

func NewTaskCache() *TaskCache {
	return &TaskCache{entries: make(map[string][]models.Task)}
}

func (c *TaskCache) Get(key string) ([]models.Task, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	tasks, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return append([]models.Task(nil), tasks...), true
}

func (c *TaskCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Put reports whether tasks were stored.
func (c *TaskCache) Put(key string, gen uint64, tasks []models.Task) bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.entries[key] = append([]models.Task(nil), tasks...)
	return true
}

func (c *TaskCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.gen++
	clear(c.entries)
	c.mu.Unlock()
}
