package analytics

import "github.com/harrisonrobin/habita/pkg/model"

// AgendaSummary is the per-agenda rollup shown by the stats command.
type AgendaSummary struct {
	AgendaID       string           `json:"agendaId" yaml:"agenda_id"`
	Title          string           `json:"title" yaml:"title"`
	Streak         model.StreakInfo `json:"streak" yaml:"streak"`
	CompletionRate int              `json:"completionRate" yaml:"completion_rate"`
	Completed      int              `json:"completed" yaml:"completed"`
	Settled        int              `json:"settled" yaml:"settled"`
	Pending        int              `json:"pending" yaml:"pending"`
	TargetTotal    int              `json:"targetTotal" yaml:"target_total"`
	ActualTotal    int              `json:"actualTotal" yaml:"actual_total"`
}

// Summary builds one AgendaSummary per agenda, in agenda order.
func (e *Engine) Summary(tasks []model.DailyTask, agendas []model.Agenda) []AgendaSummary {
	byAgenda := make(map[string][]model.DailyTask, len(agendas))
	for _, t := range knownTasks(tasks, agendas) {
		byAgenda[t.AgendaID] = append(byAgenda[t.AgendaID], t)
	}

	out := make([]AgendaSummary, 0, len(agendas))
	for _, a := range agendas {
		own := byAgenda[a.ID]
		s := AgendaSummary{
			AgendaID: a.ID,
			Title:    a.Title,
			Streak:   e.Streak(own, a.ID),
		}
		var tl tally
		for _, t := range own {
			tl.add(t.Status)
			if t.Status == model.PENDING {
				s.Pending++
			}
			s.TargetTotal += t.TargetVal
			s.ActualTotal += t.ActualVal
		}
		s.Completed = tl.success
		s.Settled = tl.settled
		s.CompletionRate = int(tl.rate() + 0.5)
		out = append(out, s)
	}
	return out
}
