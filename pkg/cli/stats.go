package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/habita/pkg/analytics"
)

func newStatsCmd(a *app) *cobra.Command {
	var rangeDays int
	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"streak", "insights"},
		Short:   "Show streaks, completion rates and what tends to derail you",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			if rangeDays <= 0 {
				rangeDays = a.cfg.Analytics.RangeDays
			}

			engine := analytics.New(a.clock)
			fmt.Fprintln(a.out, headerStyle.Render(fmt.Sprintf("%-20s %7s %7s %6s %9s", "AGENDA", "STREAK", "LONGEST", "RATE", "DONE")))
			for _, s := range engine.Summary(state.Tasks, state.Agendas) {
				title := s.Title
				if title == "" {
					title = s.AgendaID
				}
				fmt.Fprintf(a.out, "%-20s %7d %7d %5d%% %4d/%-4d\n",
					title, s.Streak.Current, s.Streak.Longest, s.CompletionRate, s.Completed, s.Settled)
			}

			delta := engine.ConsistencyDelta(state.Tasks, state.Agendas, rangeDays)
			trend := doneStyle.Render(fmt.Sprintf("+%d", delta))
			if delta < 0 {
				trend = failedStyle.Render(fmt.Sprintf("%d", delta))
			}
			fmt.Fprintf(a.out, "\nConsistency vs previous %d days: %s points\n", rangeDays, trend)

			for _, insight := range engine.Correlations(state.Tasks, state.Agendas) {
				fmt.Fprintf(a.out, "‣ %s\n", insight)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&rangeDays, "range", 0, "window in days for the consistency trend (default from config)")
	return cmd
}
