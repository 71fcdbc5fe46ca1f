package schedule

import "github.com/harrisonrobin/habita/pkg/model"

const (
	DefaultDurationDays = 30
	FallbackDailyTarget = 10
)

// Resolver derives the per-day quantity an agenda asks for.
type Resolver struct {
	DurationDays int
	Fallback     int
}

func NewResolver() Resolver {
	return Resolver{DurationDays: DefaultDurationDays, Fallback: FallbackDailyTarget}
}

// DailyTarget never returns less than 1.
func (r Resolver) DailyTarget(agenda model.Agenda) int {
	if agenda.Kind != model.NUMERIC {
		return 1
	}
	if o := agenda.DailyTargetOverride; o != nil && *o > 0 {
		return *o
	}

	fallback := r.Fallback
	if fallback <= 0 {
		fallback = FallbackDailyTarget
	}
	if t := agenda.TotalTarget; t != nil && *t > 0 {
		days := r.DurationDays
		if days <= 0 {
			days = DefaultDurationDays
		}
		return ceilDiv(*t, days)
	}
	return fallback
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
