package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type Kind string

const (
	NUMERIC Kind = "NUMERIC"
	BOOLEAN Kind = "BOOLEAN"
	ONE_OFF Kind = "ONE_OFF"
)

type Recurrence string

const (
	DAILY    Recurrence = "DAILY"
	WEEKLY   Recurrence = "WEEKLY"
	WEEKDAYS Recurrence = "WEEKDAYS"
	CUSTOM   Recurrence = "CUSTOM"
)

var ErrInvalidAgenda = errors.New("invalid agenda")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Agenda is a user-defined goal or habit that daily tasks are generated from.
type Agenda struct {
	ID    string `json:"id" yaml:"id" validate:"required"`
	Title string `json:"title" yaml:"title"`
	Kind  Kind   `json:"kind" yaml:"kind" validate:"required,oneof=NUMERIC BOOLEAN ONE_OFF"`
	Unit  string `json:"unit,omitempty" yaml:"unit,omitempty"`

	TotalTarget         *int `json:"totalTarget,omitempty" yaml:"total_target,omitempty" validate:"omitempty,gte=0"`
	DailyTargetOverride *int `json:"dailyTargetOverride,omitempty" yaml:"daily_target,omitempty" validate:"omitempty,gte=0"`

	StartDate Date `json:"startDate" yaml:"start_date"`
	EndDate   Date `json:"endDate,omitempty" yaml:"end_date,omitempty"`
	DueDate   Date `json:"dueDate,omitempty" yaml:"due_date,omitempty"`

	Recurrence Recurrence     `json:"recurrencePattern,omitempty" yaml:"recurrence,omitempty" validate:"omitempty,oneof=DAILY WEEKLY WEEKDAYS CUSTOM"`
	CustomDays []time.Weekday `json:"customDays,omitempty" yaml:"custom_days,omitempty" validate:"dive,gte=0,lte=6"`
	// Recurring set to false marks an agenda that generates a single task
	// even though its kind would otherwise repeat.
	Recurring *bool `json:"recurring,omitempty" yaml:"recurring,omitempty"`

	BufferTokens int    `json:"bufferTokens" yaml:"buffer_tokens" validate:"gte=0"`
	Priority     string `json:"priority,omitempty" yaml:"priority,omitempty"`
	Paused       bool   `json:"paused,omitempty" yaml:"paused,omitempty"`
}

func (a Agenda) GetID() string { return a.ID }

// IsRecurring reports whether the agenda produces one task per due day.
func (a Agenda) IsRecurring() bool {
	if a.Kind == ONE_OFF {
		return false
	}
	return a.Recurring == nil || *a.Recurring
}

// Validate checks field constraints and the start/end ordering.
func (a Agenda) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAgenda, err)
	}
	if !a.EndDate.IsZero() && !a.StartDate.IsZero() && a.EndDate.Before(a.StartDate) {
		return fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidAgenda, a.EndDate, a.StartDate)
	}
	if a.IsRecurring() && a.Recurrence == WEEKLY && a.StartDate.IsZero() {
		return fmt.Errorf("%w: weekly agenda %s needs a start date", ErrInvalidAgenda, a.ID)
	}
	return nil
}

// Clone returns a copy that shares no slices or pointers with a.
func (a Agenda) Clone() Agenda {
	c := a
	if a.TotalTarget != nil {
		v := *a.TotalTarget
		c.TotalTarget = &v
	}
	if a.DailyTargetOverride != nil {
		v := *a.DailyTargetOverride
		c.DailyTargetOverride = &v
	}
	if a.Recurring != nil {
		v := *a.Recurring
		c.Recurring = &v
	}
	if a.CustomDays != nil {
		c.CustomDays = append([]time.Weekday(nil), a.CustomDays...)
	}
	return c
}

// IntPtr is a convenience for the optional numeric fields.
func IntPtr(v int) *int { return &v }
