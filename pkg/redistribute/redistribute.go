// Package redistribute moves a missed amount onto later tasks.
package redistribute

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/harrisonrobin/habita/pkg/model"
)

type Strategy string

const (
	TOMORROW Strategy = "TOMORROW"
	SPREAD   Strategy = "SPREAD"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToUpper(strings.TrimSpace(s))) {
	case TOMORROW:
		return TOMORROW, nil
	case SPREAD:
		return SPREAD, nil
	}
	return "", fmt.Errorf("unknown redistribution strategy %q (want tomorrow or spread)", s)
}

// Redistributor holds the id source for tasks it has to synthesize.
type Redistributor struct {
	NewID func() string
}

var defaultRedistributor = Redistributor{NewID: uuid.NewString}

// Apply redistributes missing from the task failedID onto the later tasks of
// the same agenda, in date order. Tasks of other agendas pass through untouched.
// The input is never modified.
func Apply(tasks []model.DailyTask, failedID string, missing int, strategy Strategy) []model.DailyTask {
	return defaultRedistributor.Apply(tasks, failedID, missing, strategy)
}

// ApplyByPosition is like Apply but treats every element after the failed
// task in the given slice as "later", whatever agenda it belongs to. Callers
// must pass a single agenda's tasks sorted by date.
func ApplyByPosition(tasks []model.DailyTask, failedID string, missing int, strategy Strategy) []model.DailyTask {
	return defaultRedistributor.ApplyByPosition(tasks, failedID, missing, strategy)
}

// ApplyFrom is Apply restricted to receivers that are still PENDING and
// scheduled on or after from. Settled days never absorb a deficit. When no
// receiver is left the carry-over task is dated no earlier than from.
func ApplyFrom(tasks []model.DailyTask, failedID string, missing int, strategy Strategy, from model.Date) []model.DailyTask {
	return defaultRedistributor.ApplyFrom(tasks, failedID, missing, strategy, from)
}

func (r Redistributor) Apply(tasks []model.DailyTask, failedID string, missing int, strategy Strategy) []model.DailyTask {
	out := model.CloneTasks(tasks)
	idx := indexOf(out, failedID)
	if idx < 0 || !applicable(missing, strategy) {
		return out
	}

	agendaID := out[idx].AgendaID
	var seq []int
	for i, t := range out {
		if t.AgendaID == agendaID {
			seq = append(seq, i)
		}
	}
	sort.SliceStable(seq, func(a, b int) bool {
		return out[seq[a]].ScheduledDate.Before(out[seq[b]].ScheduledDate)
	})

	var following []int
	for pos, i := range seq {
		if i == idx {
			following = seq[pos+1:]
			break
		}
	}
	return r.distribute(out, idx, following, missing, strategy, out[idx].ScheduledDate.AddDays(1))
}

func (r Redistributor) ApplyFrom(tasks []model.DailyTask, failedID string, missing int, strategy Strategy, from model.Date) []model.DailyTask {
	out := model.CloneTasks(tasks)
	idx := indexOf(out, failedID)
	if idx < 0 || !applicable(missing, strategy) {
		return out
	}

	failed := out[idx]
	var receivers []int
	for i, t := range out {
		if i == idx || t.AgendaID != failed.AgendaID || t.Status != model.PENDING {
			continue
		}
		if t.ScheduledDate.Before(from) || !t.ScheduledDate.After(failed.ScheduledDate) {
			continue
		}
		receivers = append(receivers, i)
	}
	sort.SliceStable(receivers, func(a, b int) bool {
		return out[receivers[a]].ScheduledDate.Before(out[receivers[b]].ScheduledDate)
	})

	carryDate := failed.ScheduledDate.AddDays(1)
	if carryDate.Before(from) {
		carryDate = from
	}
	return r.distribute(out, idx, receivers, missing, strategy, carryDate)
}

func (r Redistributor) ApplyByPosition(tasks []model.DailyTask, failedID string, missing int, strategy Strategy) []model.DailyTask {
	out := model.CloneTasks(tasks)
	idx := indexOf(out, failedID)
	if idx < 0 || !applicable(missing, strategy) {
		return out
	}

	var following []int
	for i := idx + 1; i < len(out); i++ {
		following = append(following, i)
	}
	return r.distribute(out, idx, following, missing, strategy, out[idx].ScheduledDate.AddDays(1))
}

func (r Redistributor) distribute(out []model.DailyTask, failedIdx int, following []int, missing int, strategy Strategy, carryDate model.Date) []model.DailyTask {
	if len(following) == 0 {
		out = append(out, r.carryOver(out[failedIdx], carryDate))
		following = []int{len(out) - 1}
	}

	switch strategy {
	case TOMORROW:
		bump(&out[following[0]], missing)
	case SPREAD:
		n := len(following)
		base, rem := missing/n, missing%n
		for k, i := range following {
			share := base
			if k < rem {
				share++
			}
			bump(&out[i], share)
		}
	}
	return out
}

// carryOver creates the empty task that absorbs a deficit when nothing follows the failed task.
func (r Redistributor) carryOver(failed model.DailyTask, date model.Date) model.DailyTask {
	newID := r.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return model.DailyTask{
		ID:              newID(),
		AgendaID:        failed.AgendaID,
		ScheduledDate:   date,
		Status:          model.PENDING,
		WasRecalculated: true,
	}
}

func bump(t *model.DailyTask, amount int) {
	t.TargetVal += amount
	t.WasRecalculated = true
}

func applicable(missing int, strategy Strategy) bool {
	return missing > 0 && (strategy == TOMORROW || strategy == SPREAD)
}

func indexOf(tasks []model.DailyTask, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
