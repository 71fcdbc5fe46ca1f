// Package analytics computes streaks, consistency and simple insights from
// a task set. Nothing here mutates its inputs.
package analytics

import (
	"sort"

	"github.com/harrisonrobin/habita/pkg/clock"
	"github.com/harrisonrobin/habita/pkg/model"
)

type Engine struct {
	Clock clock.Clock
}

func New(c clock.Clock) *Engine {
	return &Engine{Clock: c}
}

func (e *Engine) today() model.Date {
	return clock.Today(e.Clock)
}

// Streak computes the current and longest run of successful days. An empty
// agendaID considers every task; when several tasks share a date the last
// one in the input decides that date's status.
func (e *Engine) Streak(tasks []model.DailyTask, agendaID string) model.StreakInfo {
	var scoped []model.DailyTask
	for _, t := range tasks {
		if agendaID == "" || t.AgendaID == agendaID {
			scoped = append(scoped, t)
		}
	}

	return model.StreakInfo{
		Current: e.currentStreak(scoped),
		Longest: longestStreak(scoped),
	}
}

func (e *Engine) currentStreak(tasks []model.DailyTask) int {
	statusByDate := make(map[string]model.Status, len(tasks))
	for _, t := range tasks {
		statusByDate[t.ScheduledDate.String()] = t.Status
	}

	day := e.today()
	streak := 0
	// today only ever adds; an unfinished today does not break the run
	if statusByDate[day.String()].IsSuccess() {
		streak++
	}
	for {
		day = day.AddDays(-1)
		st, ok := statusByDate[day.String()]
		if !ok || !st.IsSuccess() {
			return streak
		}
		streak++
	}
}

// longestStreak walks existing tasks in date order. Days without any task do
// not interrupt a run; only an explicit non-success status does.
func longestStreak(tasks []model.DailyTask) int {
	sorted := append([]model.DailyTask(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ScheduledDate.Before(sorted[j].ScheduledDate)
	})

	longest, run := 0, 0
	for _, t := range sorted {
		switch {
		case t.Status.IsSuccess():
			run++
		case t.Status == model.PENDING:
		default:
			longest = max(longest, run)
			run = 0
		}
	}
	return max(longest, run)
}
