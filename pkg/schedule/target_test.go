package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harrisonrobin/habita/pkg/model"
)

func TestDailyTarget(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name   string
		agenda model.Agenda
		want   int
	}{
		{"boolean", model.Agenda{Kind: model.BOOLEAN, DailyTargetOverride: model.IntPtr(5)}, 1},
		{"one-off", model.Agenda{Kind: model.ONE_OFF}, 1},
		{"override", model.Agenda{Kind: model.NUMERIC, DailyTargetOverride: model.IntPtr(25), TotalTarget: model.IntPtr(300)}, 25},
		{"total over default duration", model.Agenda{Kind: model.NUMERIC, TotalTarget: model.IntPtr(300)}, 10},
		{"total rounds up", model.Agenda{Kind: model.NUMERIC, TotalTarget: model.IntPtr(301)}, 11},
		{"zero override ignored", model.Agenda{Kind: model.NUMERIC, DailyTargetOverride: model.IntPtr(0), TotalTarget: model.IntPtr(60)}, 2},
		{"neither", model.Agenda{Kind: model.NUMERIC}, FallbackDailyTarget},
		{"zero total falls back", model.Agenda{Kind: model.NUMERIC, TotalTarget: model.IntPtr(0)}, FallbackDailyTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.DailyTarget(tt.agenda))
		})
	}
}

func TestDailyTarget_ZeroValueResolverUsesDefaults(t *testing.T) {
	var r Resolver
	assert.Equal(t, 10, r.DailyTarget(model.Agenda{Kind: model.NUMERIC, TotalTarget: model.IntPtr(300)}))
	assert.Equal(t, FallbackDailyTarget, r.DailyTarget(model.Agenda{Kind: model.NUMERIC}))
}

func TestDailyTarget_CustomDuration(t *testing.T) {
	r := Resolver{DurationDays: 7, Fallback: 3}
	assert.Equal(t, 43, r.DailyTarget(model.Agenda{Kind: model.NUMERIC, TotalTarget: model.IntPtr(300)}))
	assert.Equal(t, 3, r.DailyTarget(model.Agenda{Kind: model.NUMERIC}))
}
