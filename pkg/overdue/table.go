// Package overdue settles tasks whose day has passed while still pending.
package overdue

import (
	"sort"

	"github.com/harrisonrobin/habita/pkg/model"
)

// Entry describes one task the sweep settled.
type Entry struct {
	TaskID   string       `json:"task_id"`
	AgendaID string       `json:"agenda_id"`
	Date     model.Date   `json:"date"`
	Status   model.Status `json:"status"`
	// Missing is what was left of the target, for redistribution.
	Missing int `json:"missing"`
}

type Result struct {
	Agendas []model.Agenda
	Tasks   []model.DailyTask
	Swept   []Entry
}

// Sweep settles every PENDING task scheduled before today. A task with some
// progress becomes PARTIAL (or COMPLETED if the target was met); an untouched
// one spends a buffer token of its agenda when one is left and becomes
// SKIPPED_WITH_BUFFER, otherwise FAILED. Oldest tasks spend tokens first.
// Tasks without a known agenda are left alone.
func Sweep(agendas []model.Agenda, tasks []model.DailyTask, today model.Date) Result {
	res := Result{
		Agendas: make([]model.Agenda, len(agendas)),
		Tasks:   model.CloneTasks(tasks),
	}
	agendaIdx := make(map[string]int, len(agendas))
	for i, a := range agendas {
		res.Agendas[i] = a.Clone()
		agendaIdx[a.ID] = i
	}

	var overdue []int
	for i, t := range res.Tasks {
		if _, known := agendaIdx[t.AgendaID]; !known {
			continue
		}
		if t.Status == model.PENDING && t.ScheduledDate.Before(today) {
			overdue = append(overdue, i)
		}
	}
	sort.SliceStable(overdue, func(a, b int) bool {
		return res.Tasks[overdue[a]].ScheduledDate.Before(res.Tasks[overdue[b]].ScheduledDate)
	})

	for _, i := range overdue {
		t := &res.Tasks[i]
		agenda := &res.Agendas[agendaIdx[t.AgendaID]]
		missing := max(t.TargetVal-t.ActualVal, 0)

		switch {
		case t.ActualVal > 0 && missing == 0:
			t.Status = model.COMPLETED
		case t.ActualVal > 0:
			t.Status = model.PARTIAL
		case agenda.BufferTokens > 0:
			agenda.BufferTokens--
			t.Status = model.SKIPPED_WITH_BUFFER
			missing = 0
		default:
			t.Status = model.FAILED
		}

		res.Swept = append(res.Swept, Entry{
			TaskID:   t.ID,
			AgendaID: t.AgendaID,
			Date:     t.ScheduledDate,
			Status:   t.Status,
			Missing:  missing,
		})
	}
	return res
}
