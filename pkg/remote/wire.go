// Package remote fetches the server-side snapshot: agendas with their tasks
// and subtasks nested inside, using snake_case field names.
package remote

import (
	"strings"
	"time"

	"github.com/harrisonrobin/habita/pkg/model"
)

type Agenda struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id,omitempty"`
	Title             string  `json:"title"`
	Type              string  `json:"type"`
	Unit              string  `json:"unit,omitempty"`
	TotalTarget       *int    `json:"total_target,omitempty"`
	TargetVal         *int    `json:"target_val,omitempty"`
	StartDate         string  `json:"start_date,omitempty"`
	EndDate           *string `json:"end_date,omitempty"`
	DueDate           *string `json:"due_date,omitempty"`
	RecurrencePattern string  `json:"recurrence_pattern,omitempty"`
	RecurrenceDays    []int   `json:"recurrence_days,omitempty"`
	IsRecurring       *bool   `json:"is_recurring,omitempty"`
	BufferTokens      int     `json:"buffer_tokens"`
	Priority          string  `json:"priority,omitempty"`
	IsActive          *bool   `json:"is_active,omitempty"`
	Tasks             []Task  `json:"tasks,omitempty"`
}

type Task struct {
	ID              string    `json:"id"`
	AgendaID        string    `json:"agenda_id"`
	ScheduledDate   string    `json:"scheduled_date"`
	TargetVal       int       `json:"target_val"`
	ActualVal       int       `json:"actual_val"`
	Status          string    `json:"status"`
	WasRecalculated bool      `json:"was_recalculated"`
	FailureTags     []string  `json:"failure_tags,omitempty"`
	Note            string    `json:"note,omitempty"`
	Subtasks        []Subtask `json:"subtasks,omitempty"`
}

type Subtask struct {
	ID          string `json:"id"`
	TaskID      string `json:"task_id,omitempty"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
}

// Flatten maps the nested snapshot onto domain agendas and tasks. Unreadable
// dates become today.
func Flatten(agendas []Agenda, today model.Date) ([]model.Agenda, []model.DailyTask) {
	outAgendas := make([]model.Agenda, 0, len(agendas))
	var outTasks []model.DailyTask

	for _, a := range agendas {
		outAgendas = append(outAgendas, a.toDomain(today))
		for _, t := range a.Tasks {
			task := t.toDomain(today)
			if task.AgendaID == "" {
				task.AgendaID = a.ID
			}
			outTasks = append(outTasks, task)
		}
	}
	return outAgendas, outTasks
}

func (a Agenda) toDomain(today model.Date) model.Agenda {
	out := model.Agenda{
		ID:                  a.ID,
		Title:               a.Title,
		Kind:                parseKind(a.Type, a.TotalTarget != nil || a.TargetVal != nil),
		Unit:                a.Unit,
		TotalTarget:         copyInt(a.TotalTarget),
		DailyTargetOverride: copyInt(a.TargetVal),
		StartDate:           model.ParseDate(a.StartDate, today),
		Recurrence:          parseRecurrence(a.RecurrencePattern),
		BufferTokens:        max(a.BufferTokens, 0),
		Priority:            a.Priority,
		Paused:              a.IsActive != nil && !*a.IsActive,
	}
	if a.EndDate != nil {
		out.EndDate = model.ParseDate(*a.EndDate, model.Date{})
	}
	if a.DueDate != nil {
		out.DueDate = model.ParseDate(*a.DueDate, today)
	}
	if a.IsRecurring != nil {
		v := *a.IsRecurring
		out.Recurring = &v
	}
	for _, d := range a.RecurrenceDays {
		if d >= 0 && d <= 6 {
			out.CustomDays = append(out.CustomDays, time.Weekday(d))
		}
	}
	return out
}

func (t Task) toDomain(today model.Date) model.DailyTask {
	out := model.DailyTask{
		ID:              t.ID,
		AgendaID:        t.AgendaID,
		ScheduledDate:   model.ParseDate(t.ScheduledDate, today),
		TargetVal:       max(t.TargetVal, 0),
		ActualVal:       max(t.ActualVal, 0),
		Status:          parseStatus(t.Status),
		WasRecalculated: t.WasRecalculated,
		Note:            t.Note,
	}
	if len(t.FailureTags) > 0 {
		out.FailureTags = append([]string(nil), t.FailureTags...)
	}
	for _, s := range t.Subtasks {
		out.Subtasks = append(out.Subtasks, model.Subtask{ID: s.ID, Title: s.Title, Done: s.IsCompleted})
	}
	return out
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_")
}

func parseKind(s string, hasTarget bool) model.Kind {
	switch k := model.Kind(normalize(s)); k {
	case model.NUMERIC, model.BOOLEAN, model.ONE_OFF:
		return k
	case "ONEOFF", "TASK":
		return model.ONE_OFF
	}
	if hasTarget {
		return model.NUMERIC
	}
	return model.BOOLEAN
}

func parseRecurrence(s string) model.Recurrence {
	switch r := model.Recurrence(normalize(s)); r {
	case model.DAILY, model.WEEKLY, model.WEEKDAYS, model.CUSTOM:
		return r
	}
	return model.DAILY
}

func parseStatus(s string) model.Status {
	switch st := model.Status(normalize(s)); st {
	case model.COMPLETED, model.PARTIAL, model.SKIPPED_WITH_BUFFER, model.FAILED:
		return st
	case "SKIPPED":
		return model.SKIPPED_WITH_BUFFER
	}
	return model.PENDING
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
