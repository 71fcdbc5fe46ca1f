package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/harrisonrobin/habita/pkg/clock"
	"github.com/harrisonrobin/habita/pkg/model"
	"github.com/harrisonrobin/habita/pkg/remote"
	"github.com/harrisonrobin/habita/pkg/store"
)

const (
	AgendasKey = "agendas"
	TasksKey   = "tasks"
)

var ErrSyncInProgress = errors.New("sync already in progress")

// State is the full local cache.
type State struct {
	Agendas []model.Agenda    `json:"agendas" yaml:"agendas"`
	Tasks   []model.DailyTask `json:"tasks" yaml:"tasks"`
}

// LoadLocal reads the cached collections. Missing keys yield empty collections.
func LoadLocal(ctx context.Context, st store.Store) (State, error) {
	var s State
	if _, err := store.GetJSON(ctx, st, AgendasKey, &s.Agendas); err != nil {
		return State{}, err
	}
	if _, err := store.GetJSON(ctx, st, TasksKey, &s.Tasks); err != nil {
		return State{}, err
	}
	return s, nil
}

// SaveLocal writes both collections in one store operation.
func SaveLocal(ctx context.Context, st store.Store, s State) error {
	agendas, err := store.EncodeJSON(nonNil(s.Agendas))
	if err != nil {
		return fmt.Errorf("failed to encode agendas: %w", err)
	}
	tasks, err := store.EncodeJSON(nonNil(s.Tasks))
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	return st.SetMany(ctx, map[string]string{AgendasKey: agendas, TasksKey: tasks})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Syncer runs the fetch-merge-persist cycle. Only one Sync runs at a time;
// a concurrent call fails fast with ErrSyncInProgress.
type Syncer struct {
	Remote remote.Source
	Store  store.Store
	Clock  clock.Clock
	mu     sync.Mutex
}

func NewSyncer(src remote.Source, st store.Store, c clock.Clock) *Syncer {
	return &Syncer{Remote: src, Store: st, Clock: c}
}

// Sync merges the remote snapshot over the given local collections, persists
// the result and returns it. On error nothing has been written and the call
// can simply be retried.
func (s *Syncer) Sync(ctx context.Context, localAgendas []model.Agenda, localTasks []model.DailyTask) (State, error) {
	if !s.mu.TryLock() {
		return State{}, ErrSyncInProgress
	}
	defer s.mu.Unlock()

	snapshot, err := s.Remote.FetchAgendas(ctx)
	if err != nil {
		return State{}, fmt.Errorf("fetch remote snapshot: %w", err)
	}
	cloudAgendas, cloudTasks := remote.Flatten(snapshot, clock.Today(s.Clock))

	merged := State{
		Agendas: MergeByID(localAgendas, cloudAgendas),
		Tasks:   MergeByID(localTasks, cloudTasks),
	}
	if err := SaveLocal(ctx, s.Store, merged); err != nil {
		return State{}, fmt.Errorf("persist merged state: %w", err)
	}
	return merged, nil
}
