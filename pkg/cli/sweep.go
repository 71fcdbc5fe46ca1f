package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/habita/pkg/overdue"
	"github.com/harrisonrobin/habita/pkg/redistribute"
)

func newSweepCmd(a *app) *cobra.Command {
	var strategy string
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Settle pending tasks from past days",
		Long: `Settle every task still pending on a past day. Tasks with some progress
become partial; untouched ones spend a buffer token if the agenda has one,
otherwise they fail. With --redistribute the shortfall of each settled task
is moved onto the agenda's pending tasks from today on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			strat, redistributeMissing, err := strategyFlag(strategy)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			state, err := a.load(ctx)
			if err != nil {
				return err
			}

			today := a.today()
			res := overdue.Sweep(state.Agendas, state.Tasks, today)
			state.Agendas, state.Tasks = res.Agendas, res.Tasks
			for _, e := range res.Swept {
				fmt.Fprintf(a.out, "%s %s %s\n", e.Date, statusLabel(e.Status), e.TaskID)
			}
			// shortfalls go to days still open, never to another settled day
			if redistributeMissing {
				for _, e := range res.Swept {
					if e.Missing > 0 {
						state.Tasks = redistribute.ApplyFrom(state.Tasks, e.TaskID, e.Missing, strat, today)
					}
				}
			}
			if len(res.Swept) == 0 {
				fmt.Fprintln(a.out, dimStyle.Render("Nothing overdue."))
				return nil
			}
			return a.save(ctx, state)
		},
	}
	cmd.Flags().StringVarP(&strategy, "redistribute", "r", "", "move shortfalls: tomorrow or spread")
	return cmd
}
