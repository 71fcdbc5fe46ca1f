package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/habita/pkg/checkin"
	"github.com/harrisonrobin/habita/pkg/model"
	"github.com/harrisonrobin/habita/pkg/redistribute"
)

// strategyFlag parses an optional --redistribute value; empty means none.
func strategyFlag(s string) (redistribute.Strategy, bool, error) {
	if s == "" {
		return "", false, nil
	}
	st, err := redistribute.ParseStrategy(s)
	if err != nil {
		return "", false, err
	}
	return st, true, nil
}

func newCheckinCmd(a *app) *cobra.Command {
	var (
		tags     []string
		strategy string
	)
	cmd := &cobra.Command{
		Use:     "checkin [task_id] [amount]",
		Aliases: []string{"done", "ci"},
		Short:   "Record progress on a task",
		Long: `Record how much of a task was done. The amount defaults to the full target.
With --redistribute the shortfall is moved onto the agenda's following tasks.`,
		Example: `  habita checkin 3f2c... 12 --tag Tired --redistribute spread`,
		Args:    cobra.RangeArgs(1, 2),
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

			var amount int
			if len(args) == 2 {
				if amount, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("invalid amount %q: %w", args[1], err)
				}
			} else {
				for _, t := range state.Tasks {
					if t.ID == args[0] {
						amount = t.TargetVal
					}
				}
			}

			tasks, missing, err := checkin.Record(state.Tasks, args[0], amount, tags)
			if err != nil {
				return err
			}
			if redistributeMissing && missing > 0 {
				tasks = redistribute.Apply(tasks, args[0], missing, strat)
				fmt.Fprintf(a.out, "Moved %d onto upcoming tasks (%s)\n", missing, strat)
			}
			state.Tasks = tasks
			if err := a.save(ctx, state); err != nil {
				return err
			}
			for _, t := range tasks {
				if t.ID == args[0] {
					fmt.Fprintf(a.out, "%s %d/%d\n", statusLabel(t.Status), t.ActualVal, t.TargetVal)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "context tag such as Tired or Travel (repeatable)")
	cmd.Flags().StringVarP(&strategy, "redistribute", "r", "", "move the shortfall: tomorrow or spread")
	return cmd
}

func newSkipCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "skip [task_id]",
		Short: "Spend a buffer token to skip a task without breaking the streak",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			state, err := a.load(ctx)
			if err != nil {
				return err
			}
			state.Agendas, state.Tasks, err = checkin.Skip(state.Agendas, state.Tasks, args[0])
			if err != nil {
				return err
			}
			if err := a.save(ctx, state); err != nil {
				return err
			}
			fmt.Fprintln(a.out, statusLabel(model.SKIPPED_WITH_BUFFER))
			return nil
		},
	}
}

func newRedistributeCmd(a *app) *cobra.Command {
	var (
		strategy   string
		byPosition bool
	)
	cmd := &cobra.Command{
		Use:   "redistribute [task_id] [amount]",
		Short: "Add a missed amount to the tasks that follow a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			strat, err := redistribute.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			ctx := cmd.Context()
			state, err := a.load(ctx)
			if err != nil {
				return err
			}
			if byPosition {
				state.Tasks = redistribute.ApplyByPosition(state.Tasks, args[0], amount, strat)
			} else {
				state.Tasks = redistribute.Apply(state.Tasks, args[0], amount, strat)
			}
			return a.save(ctx, state)
		},
	}
	cmd.Flags().StringVarP(&strategy, "strategy", "s", string(redistribute.TOMORROW), "tomorrow or spread")
	cmd.Flags().BoolVar(&byPosition, "by-position", false, "use stored list order instead of the agenda's schedule")
	return cmd
}
