// Package checkin applies user-reported progress and agenda lifecycle edits
// to the task list.
package checkin

import (
	"errors"
	"fmt"

	"github.com/harrisonrobin/habita/pkg/model"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrAgendaNotFound = errors.New("agenda not found")
	ErrNoBufferTokens = errors.New("no buffer tokens left")
)

// StatusFor derives the settled status for an amount reported against target.
func StatusFor(actual, target int) model.Status {
	switch {
	case actual <= 0:
		return model.FAILED
	case actual >= target:
		return model.COMPLETED
	default:
		return model.PARTIAL
	}
}

// Record sets the actual value of taskID, settles its status and returns the
// new list together with the amount still missing from the target.
func Record(tasks []model.DailyTask, taskID string, actual int, tags []string) ([]model.DailyTask, int, error) {
	out := model.CloneTasks(tasks)
	for i := range out {
		t := &out[i]
		if t.ID != taskID {
			continue
		}
		t.ActualVal = max(actual, 0)
		t.Status = StatusFor(t.ActualVal, t.TargetVal)
		if len(tags) > 0 {
			t.FailureTags = append([]string(nil), tags...)
		}
		return out, max(t.TargetVal-t.ActualVal, 0), nil
	}
	return out, 0, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
}

// Skip spends one buffer token of the task's agenda to mark it SKIPPED_WITH_BUFFER.
func Skip(agendas []model.Agenda, tasks []model.DailyTask, taskID string) ([]model.Agenda, []model.DailyTask, error) {
	outTasks := model.CloneTasks(tasks)
	ti := -1
	for i, t := range outTasks {
		if t.ID == taskID {
			ti = i
			break
		}
	}
	if ti < 0 {
		return agendas, tasks, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	outAgendas := make([]model.Agenda, len(agendas))
	ai := -1
	for i, a := range agendas {
		outAgendas[i] = a.Clone()
		if a.ID == outTasks[ti].AgendaID {
			ai = i
		}
	}
	if ai < 0 {
		return agendas, tasks, fmt.Errorf("%w: %s", ErrAgendaNotFound, outTasks[ti].AgendaID)
	}
	if outAgendas[ai].BufferTokens <= 0 {
		return agendas, tasks, fmt.Errorf("%w for agenda %s", ErrNoBufferTokens, outAgendas[ai].ID)
	}

	outAgendas[ai].BufferTokens--
	outTasks[ti].Status = model.SKIPPED_WITH_BUFFER
	return outAgendas, outTasks, nil
}

// DeleteAgenda removes an agenda together with every task that belongs to it.
func DeleteAgenda(agendas []model.Agenda, tasks []model.DailyTask, agendaID string) ([]model.Agenda, []model.DailyTask, error) {
	var outAgendas []model.Agenda
	found := false
	for _, a := range agendas {
		if a.ID == agendaID {
			found = true
			continue
		}
		outAgendas = append(outAgendas, a.Clone())
	}
	if !found {
		return agendas, tasks, fmt.Errorf("%w: %s", ErrAgendaNotFound, agendaID)
	}

	var outTasks []model.DailyTask
	for _, t := range tasks {
		if t.AgendaID != agendaID {
			outTasks = append(outTasks, t.Clone())
		}
	}
	return outAgendas, outTasks, nil
}

// DropOrphans keeps only tasks whose agenda is present.
func DropOrphans(agendas []model.Agenda, tasks []model.DailyTask) []model.DailyTask {
	ids := make(map[string]bool, len(agendas))
	for _, a := range agendas {
		ids[a.ID] = true
	}
	var out []model.DailyTask
	for _, t := range tasks {
		if ids[t.AgendaID] {
			out = append(out, t.Clone())
		}
	}
	return out
}

// ForAgenda returns one agenda's tasks in their original order.
func ForAgenda(tasks []model.DailyTask, agendaID string) []model.DailyTask {
	var out []model.DailyTask
	for _, t := range tasks {
		if t.AgendaID == agendaID {
			out = append(out, t.Clone())
		}
	}
	return out
}
