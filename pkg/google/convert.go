package google

import (
	"fmt"
	"strings"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/habita/pkg/model"
)

// TaskIDProperty is the private extended property that ties an event to its daily task.
const TaskIDProperty = "habita_task_id"

// prefix marks the event title with the task's state as seen on today.
func prefix(task model.DailyTask, today model.Date) string {
	switch task.Status {
	case model.COMPLETED, model.SKIPPED_WITH_BUFFER:
		return "✓"
	case model.PARTIAL:
		return "‣"
	case model.FAILED:
		return "!"
	}
	if task.ScheduledDate.Before(today) {
		return "!"
	}
	return ""
}

func summary(task model.DailyTask, agenda model.Agenda) string {
	title := agenda.Title
	if title == "" {
		title = agenda.ID
	}
	if agenda.Kind != model.NUMERIC {
		return title
	}
	amount := fmt.Sprintf("%d", task.TargetVal)
	if task.ActualVal > 0 {
		amount = fmt.Sprintf("%d/%d", task.ActualVal, task.TargetVal)
	}
	if agenda.Unit != "" {
		amount += " " + agenda.Unit
	}
	return fmt.Sprintf("%s (%s)", title, amount)
}

func description(task model.DailyTask, agenda model.Agenda) string {
	var b strings.Builder

	if len(task.FailureTags) > 0 {
		for _, tag := range task.FailureTags {
			b.WriteString(fmt.Sprintf("#%s ", tag))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("Status: %s\n", task.Status))
	b.WriteString(fmt.Sprintf("Agenda: %s\n", agenda.ID))
	b.WriteString(fmt.Sprintf("ID: %s\n", task.ID))

	if agenda.Kind == model.NUMERIC {
		b.WriteString("\nProgress:\n")
		b.WriteString(fmt.Sprintf("• target: %d %s\n", task.TargetVal, agenda.Unit))
		b.WriteString(fmt.Sprintf("• actual: %d %s\n", task.ActualVal, agenda.Unit))
		if task.WasRecalculated {
			b.WriteString("• target raised to make up a missed day\n")
		}
	}
	if agenda.BufferTokens > 0 {
		b.WriteString(fmt.Sprintf("• buffer tokens left: %d\n", agenda.BufferTokens))
	}

	if len(task.Subtasks) > 0 {
		b.WriteString("\nSubtasks:\n")
		for _, s := range task.Subtasks {
			mark := "☐"
			if s.Done {
				mark = "☑"
			}
			b.WriteString(fmt.Sprintf("%s %s\n", mark, s.Title))
		}
	}

	if task.Note != "" {
		b.WriteString("\nNotes:\n")
		b.WriteString(fmt.Sprintf("‣ %s\n", task.Note))
	}
	return b.String()
}

// TaskToEvent renders a daily task as an all-day event on its scheduled date.
func TaskToEvent(task model.DailyTask, agenda model.Agenda, colorID string, today model.Date) (*calendar.Event, error) {
	if task.ID == "" {
		return nil, fmt.Errorf("could not convert task without an id")
	}
	if task.ScheduledDate.IsZero() {
		return nil, fmt.Errorf("task has no scheduled date: %s", task.ID)
	}

	eventSummary := summary(task, agenda)
	if p := prefix(task, today); p != "" {
		eventSummary = fmt.Sprintf("%s %s", p, eventSummary)
	}

	return &calendar.Event{
		Summary:     eventSummary,
		Description: description(task, agenda),
		ColorId:     colorID,
		Start:       &calendar.EventDateTime{Date: task.ScheduledDate.String()},
		End:         &calendar.EventDateTime{Date: task.ScheduledDate.AddDays(1).String()},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				TaskIDProperty: task.ID,
			},
		},
	}, nil
}

func eventDate(dt *calendar.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.Date != "" {
		return dt.Date
	}
	if len(dt.DateTime) >= len("2006-01-02") {
		return dt.DateTime[:len("2006-01-02")]
	}
	return ""
}

// EventNeedsUpdate returns a patch holding only the fields of target that
// differ from existing, or nil when the two already agree.
func EventNeedsUpdate(existing, target *calendar.Event) *calendar.Event {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		needsUpdate = true
	}
	// timed events are moved back to all-day ones
	if eventDate(existing.Start) != eventDate(target.Start) || eventDate(existing.End) != eventDate(target.End) ||
		existing.Start == nil || existing.Start.DateTime != "" {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch
	}
	return nil
}
