package index

import (
	"context"
	"sync"

	"github.com/harrisonrobin/habita/pkg/store"
)

const storeKey = "calendar_events"

// EventIndex remembers which calendar event mirrors which daily task.
type EventIndex struct {
	Mappings map[string]string
	store    store.Store
	mu       sync.RWMutex
	dirty    bool
}

func NewEventIndex(ctx context.Context, st store.Store) (*EventIndex, error) {
	idx := &EventIndex{
		Mappings: make(map[string]string),
		store:    st,
	}
	if _, err := store.GetJSON(ctx, st, storeKey, &idx.Mappings); err != nil {
		return nil, err
	}
	if idx.Mappings == nil {
		idx.Mappings = make(map[string]string)
	}
	return idx, nil
}

func (idx *EventIndex) Save(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.dirty {
		return nil
	}
	if err := store.SetJSON(ctx, idx.store, storeKey, idx.Mappings); err != nil {
		return err
	}
	idx.dirty = false
	return nil
}

func (idx *EventIndex) Get(taskID string) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.Mappings[taskID]
}

func (idx *EventIndex) Set(taskID, eventID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.Mappings[taskID] != eventID {
		idx.Mappings[taskID] = eventID
		idx.dirty = true
	}
}

func (idx *EventIndex) Remove(taskID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, exists := idx.Mappings[taskID]; exists {
		delete(idx.Mappings, taskID)
		idx.dirty = true
	}
}
