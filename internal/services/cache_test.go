package services

import (
	"testing"

	"taskmanager/internal/models"
)

func TestTaskCache(t *testing.T) {
	c := NewTaskCache()
	if _, ok := c.Get(allTasksKey); ok {
		t.Fatalf("expected cold cache")
	}
	if !c.Put(allTasksKey, c.Generation(), []models.Task{{ID: 1}}) {
		t.Fatalf("put at the current generation must store")
	}

	got, ok := c.Get(allTasksKey)
	if !ok || len(got) != 1 {
		t.Fatalf("expected cached entry, got %v %v", got, ok)
	}
	got[0].ID = 99
	again, _ := c.Get(allTasksKey)
	if again[0].ID != 1 {
		t.Fatalf("callers must not mutate the cached slice")
	}

	c.Invalidate()
	if _, ok := c.Get(allTasksKey); ok {
		t.Fatalf("expected invalidated cache")
	}

	var nilCache *TaskCache
	nilCache.Put(allTasksKey, nilCache.Generation(), nil)
	nilCache.Invalidate()
	if _, ok := nilCache.Get(allTasksKey); ok {
		t.Fatalf("nil cache never hits")
	}
}

func TestTaskCacheDropsListingLoadedBeforeInvalidate(t *testing.T) {
	c := NewTaskCache()
	gen := c.Generation()

	// a write commits while the listing is being loaded
	c.Invalidate()

	if c.Put(allTasksKey, gen, []models.Task{{ID: 1, Status: models.StatusPending}}) {
		t.Fatalf("stale listing must not be stored")
	}
	if _, ok := c.Get(allTasksKey); ok {
		t.Fatalf("cache must stay cold after a stale put")
	}

	if !c.Put(allTasksKey, c.Generation(), []models.Task{{ID: 1, Status: models.StatusDelayed}}) {
		t.Fatalf("fresh listing must be stored")
	}
}
