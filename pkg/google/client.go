package google

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/habita/pkg/auth"
	"github.com/harrisonrobin/habita/pkg/clock"
	"github.com/harrisonrobin/habita/pkg/colors"
	"github.com/harrisonrobin/habita/pkg/index"
)

// NewClient authenticates and resolves calendarName to its calendar id.
func NewClient(ctx context.Context, calendarName string, idx *index.EventIndex, cc *colors.ColorCache, c clock.Clock) (*CalendarClient, error) {
	srv, err := auth.GetCalendarService(ctx)
	if err != nil {
		return nil, err
	}
	calendarID, err := FindCalendar(ctx, srv, calendarName)
	if err != nil {
		return nil, err
	}
	return NewCalendarClient(srv, calendarID, idx, cc, c), nil
}

func FindCalendar(ctx context.Context, srv *calendar.Service, calendarName string) (string, error) {
	calendarList, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve calendar list: %w", err)
	}
	for _, item := range calendarList.Items {
		if item.Summary == calendarName {
			return item.Id, nil
		}
	}
	return "", fmt.Errorf("calendar '%s' not found", calendarName)
}
