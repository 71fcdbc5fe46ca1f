package google

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/habita/pkg/clock"
	"github.com/harrisonrobin/habita/pkg/colors"
	"github.com/harrisonrobin/habita/pkg/index"
	"github.com/harrisonrobin/habita/pkg/model"
)

// CalendarClient mirrors daily tasks into one Google Calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
	colors     *colors.ColorCache
	clock      clock.Clock
}

func NewCalendarClient(srv *calendar.Service, calendarID string, idx *index.EventIndex, cc *colors.ColorCache, c clock.Clock) *CalendarClient {
	if c == nil {
		c = clock.System{}
	}
	return &CalendarClient{srv: srv, calendarID: calendarID, index: idx, colors: cc, clock: c}
}

func (c *CalendarClient) colorFor(agendaID string) string {
	if c.colors == nil {
		return colors.NoAgendaColor
	}
	return c.colors.GetColorID(agendaID)
}

// SyncTask creates the task's event or patches the fields that changed.
func (c *CalendarClient) SyncTask(ctx context.Context, task model.DailyTask, agenda model.Agenda) (*calendar.Event, error) {
	event, err := TaskToEvent(task, agenda, c.colorFor(agenda.ID), clock.Today(c.clock))
	if err != nil {
		return nil, err
	}

	var existing *calendar.Event
	if c.index != nil {
		if eventID := c.index.Get(task.ID); eventID != "" {
			existing, err = c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
			if err != nil || existing.Status == "cancelled" {
				existing = nil
			}
		}
	}

	if existing == nil {
		existing, err = c.GetEventByTaskID(ctx, task.ID)
		if err != nil {
			return nil, fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existing != nil {
		patch := EventNeedsUpdate(existing, event)
		if patch == nil {
			if c.index != nil {
				c.index.Set(task.ID, existing.Id)
			}
			return existing, nil
		}
		updated, err := c.PatchEvent(ctx, existing.Id, patch)
		if err == nil && c.index != nil {
			c.index.Set(task.ID, updated.Id)
		}
		return updated, err
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err == nil && c.index != nil {
		c.index.Set(task.ID, created.Id)
	}
	return created, err
}

// MirrorResult counts what one Mirror pass did.
type MirrorResult struct {
	Synced int
	Failed int
	Pruned int
}

// Mirror syncs every task whose date falls in [from, to] and whose agenda is
// known, then prunes events in that range whose task no longer exists.
// Failures are logged and counted, not returned.
func (c *CalendarClient) Mirror(ctx context.Context, agendas []model.Agenda, tasks []model.DailyTask, from, to model.Date) MirrorResult {
	var res MirrorResult
	byID := make(map[string]model.Agenda, len(agendas))
	for _, a := range agendas {
		byID[a.ID] = a
	}
	known := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
		if t.ScheduledDate.Before(from) || t.ScheduledDate.After(to) {
			continue
		}
		agenda, ok := byID[t.AgendaID]
		if !ok {
			continue
		}
		if _, err := c.SyncTask(ctx, t, agenda); err != nil {
			log.Printf("Error syncing task %s: %v", t.ID, err)
			res.Failed++
			continue
		}
		res.Synced++
	}
	res.Pruned = c.prune(ctx, known, from, to)
	return res
}

// prune deletes mirrored events in [from, to] whose task id is not in known.
// Events without a task id were not created here and are left alone.
func (c *CalendarClient) prune(ctx context.Context, known map[string]bool, from, to model.Date) int {
	events, err := c.ListEvents(ctx, from, to)
	if err != nil {
		log.Printf("Error listing events to prune: %v", err)
		return 0
	}
	pruned := 0
	for _, e := range events {
		if e.ExtendedProperties == nil {
			continue
		}
		taskID := e.ExtendedProperties.Private[TaskIDProperty]
		if taskID == "" || known[taskID] {
			continue
		}
		if err := c.DeleteEvent(ctx, e.Id); err != nil {
			log.Printf("Error deleting stale event %s: %v", e.Id, err)
			continue
		}
		if c.index != nil {
			c.index.Remove(taskID)
		}
		pruned++
	}
	return pruned
}

// RemoveTask deletes the event mirroring taskID, if there is one.
func (c *CalendarClient) RemoveTask(ctx context.Context, taskID string) error {
	eventID := ""
	if c.index != nil {
		eventID = c.index.Get(taskID)
	}
	if eventID == "" {
		event, err := c.GetEventByTaskID(ctx, taskID)
		if err != nil {
			return err
		}
		if event == nil {
			return nil
		}
		eventID = event.Id
	}
	if err := c.DeleteEvent(ctx, eventID); err != nil {
		return err
	}
	if c.index != nil {
		c.index.Remove(taskID)
	}
	return nil
}

func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// ListEvents fetches the mirrored events between two dates.
func (c *CalendarClient) ListEvents(ctx context.Context, from, to model.Date) ([]*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.AddDays(1).Format(time.RFC3339)).
		SingleEvents(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}
	return events.Items, nil
}

// GetEventByTaskID searches for the event carrying taskID in its extended properties.
func (c *CalendarClient) GetEventByTaskID(ctx context.Context, taskID string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", TaskIDProperty, taskID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}
