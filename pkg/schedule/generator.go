package schedule

import (
	"github.com/google/uuid"
	"github.com/harrisonrobin/habita/pkg/clock"
	"github.com/harrisonrobin/habita/pkg/model"
)

const DefaultHorizonDays = 7

// Generator expands agendas into pending daily tasks.
type Generator struct {
	Resolver Resolver
	Clock    clock.Clock
	NewID    func() string
}

func NewGenerator(c clock.Clock, r Resolver) *Generator {
	return &Generator{Resolver: r, Clock: c, NewID: uuid.NewString}
}

func (g *Generator) newTask(agenda model.Agenda, date model.Date) model.DailyTask {
	newID := g.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return model.DailyTask{
		ID:            newID(),
		AgendaID:      agenda.ID,
		ScheduledDate: date,
		TargetVal:     g.Resolver.DailyTarget(agenda),
		Status:        model.PENDING,
	}
}

// InitialTasks builds the tasks created together with a new agenda.
// A non-recurring agenda gets exactly one task on its due date (today when unset).
func (g *Generator) InitialTasks(agenda model.Agenda, horizonDays int) []model.DailyTask {
	today := clock.Today(g.Clock)

	if !agenda.IsRecurring() {
		return []model.DailyTask{g.newTask(agenda, agenda.DueDate.Or(today))}
	}

	start := agenda.StartDate.Or(today)
	window := g.window(agenda, start, horizonDays)
	anchored := agenda
	anchored.StartDate = start

	var tasks []model.DailyTask
	for i := 0; i < window; i++ {
		day := start.AddDays(i)
		if IsDue(day, anchored) {
			tasks = append(tasks, g.newTask(agenda, day))
		}
	}
	return tasks
}

// window returns the number of calendar days generation covers, starting at start.
func (g *Generator) window(agenda model.Agenda, start model.Date, horizonDays int) int {
	if !agenda.EndDate.IsZero() {
		return start.DaysUntil(agenda.EndDate) + 1
	}
	total, override := agenda.TotalTarget, agenda.DailyTargetOverride
	if total != nil && override != nil && *override > 0 {
		return ceilDiv(*total, *override)
	}
	if horizonDays <= 0 {
		return DefaultHorizonDays
	}
	return horizonDays
}

type taskKey struct {
	agendaID string
	date     string
}

// EnsureTasksForDate creates the tasks missing for date and returns only those.
// Non-recurring and paused agendas are skipped, as are dates outside an
// agenda's start/end range. Calling it again with the returned tasks appended
// to existing creates nothing.
func (g *Generator) EnsureTasksForDate(agendas []model.Agenda, existing []model.DailyTask, date model.Date) []model.DailyTask {
	have := make(map[taskKey]bool, len(existing))
	for _, t := range existing {
		have[taskKey{t.AgendaID, t.ScheduledDate.String()}] = true
	}

	var created []model.DailyTask
	for _, a := range agendas {
		if !a.IsRecurring() || a.Paused {
			continue
		}
		if !a.StartDate.IsZero() && date.Before(a.StartDate) {
			continue
		}
		if !a.EndDate.IsZero() && date.After(a.EndDate) {
			continue
		}
		key := taskKey{a.ID, date.String()}
		if have[key] || !IsDue(date, a) {
			continue
		}
		created = append(created, g.newTask(a, date))
		have[key] = true
	}
	return created
}
