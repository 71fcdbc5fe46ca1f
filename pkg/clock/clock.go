// Package clock provides the source of "today" for everything that needs one.
package clock

import (
	"time"

	"github.com/harrisonrobin/habita/pkg/model"
)

type Clock interface {
	Now() time.Time
}

// System reads the wall clock in the local time zone.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always reports the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// FixedDate returns a clock stopped at noon on d.
func FixedDate(d model.Date) Fixed {
	return Fixed(d.Time.Add(12 * time.Hour))
}

// Today returns the calendar day c reports.
func Today(c Clock) model.Date {
	if c == nil {
		c = System{}
	}
	return model.DateOf(c.Now())
}
