package model

type Status string

const (
	PENDING             Status = "PENDING"
	COMPLETED           Status = "COMPLETED"
	PARTIAL             Status = "PARTIAL"
	SKIPPED_WITH_BUFFER Status = "SKIPPED_WITH_BUFFER"
	FAILED              Status = "FAILED"
)

// IsSuccess reports whether the status counts toward a streak.
func (s Status) IsSuccess() bool {
	return s == COMPLETED || s == SKIPPED_WITH_BUFFER
}

// DailyTask is one scheduled occurrence of an Agenda on one calendar day.
type DailyTask struct {
	ID              string    `json:"id" yaml:"id"`
	AgendaID        string    `json:"agendaId" yaml:"agenda_id"`
	ScheduledDate   Date      `json:"scheduledDate" yaml:"scheduled_date"`
	TargetVal       int       `json:"targetVal" yaml:"target_val"`
	ActualVal       int       `json:"actualVal" yaml:"actual_val"`
	Status          Status    `json:"status" yaml:"status"`
	WasRecalculated bool      `json:"wasRecalculated" yaml:"was_recalculated"`
	FailureTags     []string  `json:"failureTags,omitempty" yaml:"failure_tags,omitempty"`
	Note            string    `json:"note,omitempty" yaml:"note,omitempty"`
	Subtasks        []Subtask `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
}

type Subtask struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Done  bool   `json:"done" yaml:"done"`
}

func (t DailyTask) GetID() string { return t.ID }

// Clone returns a copy that shares no slices with t.
func (t DailyTask) Clone() DailyTask {
	c := t
	if t.FailureTags != nil {
		c.FailureTags = append([]string(nil), t.FailureTags...)
	}
	if t.Subtasks != nil {
		c.Subtasks = append([]Subtask(nil), t.Subtasks...)
	}
	return c
}

// CloneTasks deep-copies a task list.
func CloneTasks(tasks []DailyTask) []DailyTask {
	if tasks == nil {
		return nil
	}
	out := make([]DailyTask, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// StreakInfo is derived from a task set and never persisted.
type StreakInfo struct {
	Current int `json:"current" yaml:"current"`
	Longest int `json:"longest" yaml:"longest"`
}
