package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/harrisonrobin/habita/pkg/clock"
	"github.com/harrisonrobin/habita/pkg/colors"
	"github.com/harrisonrobin/habita/pkg/index"
	"github.com/harrisonrobin/habita/pkg/model"
	"github.com/harrisonrobin/habita/pkg/store"
)

// fakeCalendar is just enough of the Calendar v3 events API to drive the client.
type fakeCalendar struct {
	mu      sync.Mutex
	events  map[string]*calendar.Event
	nextID  int
	patches int
	deletes int
}

func (f *fakeCalendar) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("GET /users/me/calendarList", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, &calendar.CalendarList{Items: []*calendar.CalendarListEntry{
			{Id: "other", Summary: "Work"},
			{Id: "cal", Summary: "Habits"},
		}})
	})
	mux.HandleFunc("GET /calendars/{cal}/events", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var items []*calendar.Event
		filter := r.URL.Query().Get("privateExtendedProperty")
		for _, e := range f.events {
			if filter != "" {
				kv := strings.SplitN(filter, "=", 2)
				if e.ExtendedProperties == nil || e.ExtendedProperties.Private[kv[0]] != kv[1] {
					continue
				}
			}
			items = append(items, e)
		}
		writeJSON(w, &calendar.Events{Items: items})
	})
	mux.HandleFunc("POST /calendars/{cal}/events", func(w http.ResponseWriter, r *http.Request) {
		var e calendar.Event
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.nextID++
		e.Id = fmt.Sprintf("evt-%d", f.nextID)
		f.events[e.Id] = &e
		f.mu.Unlock()
		writeJSON(w, &e)
	})
	mux.HandleFunc("GET /calendars/{cal}/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		e, ok := f.events[r.PathValue("id")]
		f.mu.Unlock()
		if !ok {
			http.Error(w, `{"error":{"code":404,"message":"Not Found"}}`, http.StatusNotFound)
			return
		}
		writeJSON(w, e)
	})
	mux.HandleFunc("PATCH /calendars/{cal}/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		var patch calendar.Event
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		e, ok := f.events[r.PathValue("id")]
		if !ok {
			http.Error(w, `{"error":{"code":404,"message":"Not Found"}}`, http.StatusNotFound)
			return
		}
		f.patches++
		if patch.Summary != "" {
			e.Summary = patch.Summary
		}
		if patch.Description != "" {
			e.Description = patch.Description
		}
		if patch.ColorId != "" {
			e.ColorId = patch.ColorId
		}
		if patch.Start != nil {
			e.Start, e.End = patch.Start, patch.End
		}
		writeJSON(w, e)
	})
	mux.HandleFunc("DELETE /calendars/{cal}/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		delete(f.events, r.PathValue("id"))
		f.deletes++
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func newTestClient(t *testing.T) (*CalendarClient, *fakeCalendar, *index.EventIndex) {
	t.Helper()
	ctx := context.Background()
	fake := &fakeCalendar{events: make(map[string]*calendar.Event)}
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)

	srv, err := calendar.NewService(ctx,
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)

	st := store.NewMemoryStore()
	idx, err := index.NewEventIndex(ctx, st)
	require.NoError(t, err)
	cc, err := colors.NewColorCache(ctx, st, nil)
	require.NoError(t, err)

	calendarID, err := FindCalendar(ctx, srv, "Habits")
	require.NoError(t, err)
	require.Equal(t, "cal", calendarID)

	return NewCalendarClient(srv, calendarID, idx, cc, clock.FixedDate(today)), fake, idx
}

func TestCalendarClient_SyncTask(t *testing.T) {
	ctx := context.Background()
	client, fake, idx := newTestClient(t)
	agenda := readingAgenda()
	task := model.DailyTask{ID: "task-1", AgendaID: "read", ScheduledDate: today, TargetVal: 20, Status: model.PENDING}

	created, err := client.SyncTask(ctx, task, agenda)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", created.Id)
	assert.Equal(t, "evt-1", idx.Get("task-1"))

	// unchanged task: nothing to patch
	_, err = client.SyncTask(ctx, task, agenda)
	require.NoError(t, err)
	assert.Equal(t, 0, fake.patches)

	task.ActualVal = 20
	task.Status = model.COMPLETED
	updated, err := client.SyncTask(ctx, task, agenda)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.patches)
	assert.Equal(t, "✓ Read (20/20 pages)", updated.Summary)
	assert.Len(t, fake.events, 1)
}

func TestCalendarClient_FindsEventMissingFromIndex(t *testing.T) {
	ctx := context.Background()
	client, fake, idx := newTestClient(t)
	task := model.DailyTask{ID: "task-1", AgendaID: "read", ScheduledDate: today, TargetVal: 20}

	_, err := client.SyncTask(ctx, task, readingAgenda())
	require.NoError(t, err)
	idx.Remove("task-1")

	_, err = client.SyncTask(ctx, task, readingAgenda())
	require.NoError(t, err)
	assert.Len(t, fake.events, 1)
	assert.Equal(t, "evt-1", idx.Get("task-1"))
}

func TestCalendarClient_MirrorAndRemove(t *testing.T) {
	ctx := context.Background()
	client, fake, idx := newTestClient(t)
	agendas := []model.Agenda{readingAgenda()}
	tasks := []model.DailyTask{
		{ID: "a", AgendaID: "read", ScheduledDate: today, TargetVal: 20},
		{ID: "b", AgendaID: "read", ScheduledDate: today.AddDays(1), TargetVal: 20},
		{ID: "c", AgendaID: "read", ScheduledDate: today.AddDays(30), TargetVal: 20},
		{ID: "orphan", AgendaID: "gone", ScheduledDate: today, TargetVal: 1},
	}

	res := client.Mirror(ctx, agendas, tasks, today, today.AddDays(7))
	assert.Equal(t, MirrorResult{Synced: 2}, res)
	assert.Len(t, fake.events, 2)
	assert.Equal(t, 0, fake.deletes)

	require.NoError(t, client.RemoveTask(ctx, "a"))
	assert.Equal(t, 1, fake.deletes)
	assert.Empty(t, idx.Get("a"))

	// no event for this task: nothing to delete
	require.NoError(t, client.RemoveTask(ctx, "c"))
	assert.Equal(t, 1, fake.deletes)
}

func TestCalendarClient_MirrorPrunesDroppedTasks(t *testing.T) {
	ctx := context.Background()
	client, fake, idx := newTestClient(t)
	agendas := []model.Agenda{readingAgenda()}
	tasks := []model.DailyTask{
		{ID: "a", AgendaID: "read", ScheduledDate: today, TargetVal: 20},
		{ID: "b", AgendaID: "read", ScheduledDate: today.AddDays(1), TargetVal: 20},
	}
	require.Equal(t, 2, client.Mirror(ctx, agendas, tasks, today, today.AddDays(7)).Synced)

	// an event someone added by hand carries no task id
	fake.mu.Lock()
	fake.events["manual"] = &calendar.Event{Id: "manual", Summary: "Dentist"}
	fake.mu.Unlock()

	res := client.Mirror(ctx, agendas, tasks[:1], today, today.AddDays(7))
	assert.Equal(t, MirrorResult{Synced: 1, Pruned: 1}, res)
	assert.Equal(t, 1, fake.deletes)
	assert.Empty(t, idx.Get("b"))
	assert.NotEmpty(t, idx.Get("a"))
	assert.Contains(t, fake.events, "manual")
	assert.Len(t, fake.events, 2)
}
