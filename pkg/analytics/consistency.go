package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/harrisonrobin/habita/pkg/model"
)

// minSampleDays is the number of days each group must exceed before a correlation is reported.
const minSampleDays = 5

// minGapPoints is the completion-rate gap, in percentage points, a correlation must exceed.
const minGapPoints = 10.0

// knownTasks drops tasks whose agenda is not in agendas.
func knownTasks(tasks []model.DailyTask, agendas []model.Agenda) []model.DailyTask {
	ids := make(map[string]bool, len(agendas))
	for _, a := range agendas {
		ids[a.ID] = true
	}
	var out []model.DailyTask
	for _, t := range tasks {
		if ids[t.AgendaID] {
			out = append(out, t)
		}
	}
	return out
}

type tally struct {
	success, settled int
}

func (t *tally) add(s model.Status) {
	if s == model.PENDING {
		return
	}
	t.settled++
	if s.IsSuccess() {
		t.success++
	}
}

func (t tally) rate() float64 {
	if t.settled == 0 {
		return 0
	}
	return float64(t.success) / float64(t.settled) * 100
}

// ConsistencyDelta returns the success rate of the trailing rangeDays window
// (ending today) minus that of the window just before it, in whole percentage
// points. It is 0 when either window has no settled tasks.
func (e *Engine) ConsistencyDelta(tasks []model.DailyTask, agendas []model.Agenda, rangeDays int) int {
	if rangeDays <= 0 {
		return 0
	}
	today := e.today()
	curStart := today.AddDays(-(rangeDays - 1))
	prevStart := curStart.AddDays(-rangeDays)

	var cur, prev tally
	for _, t := range knownTasks(tasks, agendas) {
		d := t.ScheduledDate
		switch {
		case !d.Before(curStart) && !d.After(today):
			cur.add(t.Status)
		case !d.Before(prevStart) && d.Before(curStart):
			prev.add(t.Status)
		}
	}
	if cur.settled == 0 || prev.settled == 0 {
		return 0
	}
	return int(math.Round(cur.rate() - prev.rate()))
}

// Correlations compares the completion rate of days carrying a failure tag
// against all other days and describes every tag with a large enough gap.
func (e *Engine) Correlations(tasks []model.DailyTask, agendas []model.Agenda) []string {
	type day struct {
		tally
		tags map[string]bool
	}
	days := map[string]*day{}
	allTags := map[string]bool{}

	for _, t := range knownTasks(tasks, agendas) {
		d, ok := days[t.ScheduledDate.String()]
		if !ok {
			d = &day{tags: map[string]bool{}}
			days[t.ScheduledDate.String()] = d
		}
		d.add(t.Status)
		for _, tag := range t.FailureTags {
			if tag = strings.TrimSpace(tag); tag != "" {
				d.tags[tag] = true
				allTags[tag] = true
			}
		}
	}

	tags := make([]string, 0, len(allTags))
	for tag := range allTags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var insights []string
	for _, tag := range tags {
		var with, without []float64
		for _, d := range days {
			if d.settled == 0 {
				continue
			}
			if d.tags[tag] {
				with = append(with, d.rate())
			} else {
				without = append(without, d.rate())
			}
		}
		if len(with) <= minSampleDays || len(without) <= minSampleDays {
			continue
		}

		tagged, other := mean(with), mean(without)
		gap := other - tagged
		if math.Abs(gap) <= minGapPoints {
			continue
		}
		direction := "lower"
		if gap < 0 {
			direction = "higher"
		}
		insights = append(insights, fmt.Sprintf(
			"On days marked %q your completion rate is %.0f%% %s (%.0f%% vs %.0f%%).",
			tag, math.Abs(gap), direction, tagged, other))
	}
	return insights
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
