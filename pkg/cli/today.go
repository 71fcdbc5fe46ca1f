package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/habita/pkg/model"
	"github.com/harrisonrobin/habita/pkg/reconcile"
)

func newTodayCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Create any missing tasks for the day and list them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			day := model.ParseDate(date, a.today())

			state, err := a.load(ctx)
			if err != nil {
				return err
			}
			created := a.generator().EnsureTasksForDate(state.Agendas, state.Tasks, day)
			if len(created) > 0 {
				state.Tasks = append(state.Tasks, created...)
				if err := a.save(ctx, state); err != nil {
					return err
				}
			}
			printDay(a, state, day)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to show (YYYY-MM-DD, default today)")
	return cmd
}

func printDay(a *app, state reconcile.State, day model.Date) {
	titles := make(map[string]model.Agenda, len(state.Agendas))
	for _, ag := range state.Agendas {
		titles[ag.ID] = ag
	}

	var tasks []model.DailyTask
	for _, t := range state.Tasks {
		if _, ok := titles[t.AgendaID]; ok && t.ScheduledDate.Equal(day) {
			tasks = append(tasks, t)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return titles[tasks[i].AgendaID].Title < titles[tasks[j].AgendaID].Title
	})

	fmt.Fprintln(a.out, headerStyle.Render(day.Format("Monday, 2 January 2006")))
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, dimStyle.Render("Nothing scheduled."))
		return
	}
	for _, t := range tasks {
		ag := titles[t.AgendaID]
		progress := ""
		if ag.Kind == model.NUMERIC {
			progress = fmt.Sprintf(" %d/%d %s", t.ActualVal, t.TargetVal, ag.Unit)
		}
		if t.WasRecalculated {
			progress += dimStyle.Render(" (adjusted)")
		}
		fmt.Fprintf(a.out, "%-10s %s%s  %s\n", statusLabel(t.Status), ag.Title, progress, dimStyle.Render(t.ID))
	}
}
