package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/habita/pkg/auth"
	"github.com/harrisonrobin/habita/pkg/colors"
	"github.com/harrisonrobin/habita/pkg/config"
	"github.com/harrisonrobin/habita/pkg/google"
	"github.com/harrisonrobin/habita/pkg/index"
)

func newMirrorCmd(a *app) *cobra.Command {
	var (
		calendarName string
		days         int
		back         int
	)
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Mirror daily tasks into Google Calendar as all-day events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if calendarName == "" {
				calendarName = a.cfg.Calendar
			}
			state, err := a.load(ctx)
			if err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}

			evtIndex, err := index.NewEventIndex(ctx, st)
			if err != nil {
				return fmt.Errorf("failed to load event index: %w", err)
			}
			colorCache, err := colors.NewColorCache(ctx, st, a.clock.Now)
			if err != nil {
				return fmt.Errorf("failed to load color cache: %w", err)
			}

			client, err := google.NewClient(ctx, calendarName, evtIndex, colorCache, a.clock)
			if err != nil {
				return err
			}

			today := a.today()
			res := client.Mirror(ctx, state.Agendas, state.Tasks, today.AddDays(-back), today.AddDays(days))

			if err := evtIndex.Save(ctx); err != nil {
				log.Printf("Warning: failed to save event index: %v", err)
			}
			if err := colorCache.Save(ctx); err != nil {
				log.Printf("Warning: failed to save color cache: %v", err)
			}
			fmt.Fprintf(a.out, "Mirrored %d task(s) to %q", res.Synced, calendarName)
			if res.Pruned > 0 {
				fmt.Fprintf(a.out, ", removed %d stale event(s)", res.Pruned)
			}
			if res.Failed > 0 {
				fmt.Fprintf(a.out, ", %s", failedStyle.Render(fmt.Sprintf("%d failed", res.Failed)))
			}
			fmt.Fprintln(a.out)
			return nil
		},
	}
	cmd.Flags().StringVar(&calendarName, "calendar", "", "Google Calendar name (overrides config)")
	cmd.Flags().IntVar(&days, "days", 7, "days ahead to mirror")
	cmd.Flags().IntVar(&back, "back", 1, "days back to mirror, so settled tasks get their final status")
	return cmd
}

func newAuthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Calendar, replacing any stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.RemoveToken(); err != nil {
				return err
			}
			if _, err := auth.GetCalendarService(cmd.Context()); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			path, _ := auth.TokenPath()
			log.Printf("Authentication successful! Token saved to %s", path)
			return nil
		},
	}
}

func newSetCalendarCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-calendar [name]",
		Short: "Set the default Google Calendar to mirror into",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.Calendar = args[0]
			if err := config.Save(a.cfg, a.cfgFile); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
			fmt.Fprintf(a.out, "Default calendar set to: %s\n", args[0])
			return nil
		},
	}
}
