// Package schedule decides when an agenda is due, how much it asks for each
// day, and expands agendas into daily tasks.
package schedule

import (
	"slices"
	"time"

	"github.com/harrisonrobin/habita/pkg/model"
)

// IsDue reports whether agenda has an occurrence on date.
func IsDue(date model.Date, agenda model.Agenda) bool {
	if agenda.Kind == model.ONE_OFF {
		return true
	}

	switch agenda.Recurrence {
	case model.WEEKLY:
		// the start date is the anchor; without one there is no weekday to repeat
		return !agenda.StartDate.IsZero() && date.Weekday() == agenda.StartDate.Weekday()
	case model.WEEKDAYS:
		wd := date.Weekday()
		return wd >= time.Monday && wd <= time.Friday
	case model.CUSTOM:
		// An empty set matches nothing rather than every day.
		return slices.Contains(agenda.CustomDays, date.Weekday())
	default:
		return true
	}
}
