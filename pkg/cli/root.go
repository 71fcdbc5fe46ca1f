// Package cli is the habita command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/habita/pkg/clock"
	"github.com/harrisonrobin/habita/pkg/config"
	"github.com/harrisonrobin/habita/pkg/model"
	"github.com/harrisonrobin/habita/pkg/reconcile"
	"github.com/harrisonrobin/habita/pkg/schedule"
	"github.com/harrisonrobin/habita/pkg/store"
)

// app carries what every command needs once flags and config are resolved.
type app struct {
	cfgFile   string
	storeFlag string
	dataDir   string
	todayFlag string

	cfg   *config.Config
	store store.Store
	clock clock.Clock
	out   io.Writer
}

func (a *app) setup(cmd *cobra.Command) error {
	// a missing .env is the common case
	_ = godotenv.Load()

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.storeFlag != "" {
		cfg.Store = a.storeFlag
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	a.cfg = cfg
	a.out = cmd.OutOrStdout()

	a.clock = clock.System{}
	if a.todayFlag != "" {
		d := model.ParseDate(a.todayFlag, model.Date{})
		if d.IsZero() {
			return fmt.Errorf("invalid --today %q, expected YYYY-MM-DD", a.todayFlag)
		}
		a.clock = clock.FixedDate(d)
	}
	return nil
}

// openStore is deferred to the commands that need it so that config-only
// commands work without a data directory.
func (a *app) openStore() (store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	if err := os.MkdirAll(a.cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	st, err := store.Open(a.cfg.Store, a.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	a.store = st
	return st, nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		log.Printf("Warning: failed to close store: %v", err)
	}
	a.store = nil
}

func (a *app) today() model.Date {
	return clock.Today(a.clock)
}

func (a *app) generator() *schedule.Generator {
	r := schedule.Resolver{
		DurationDays: a.cfg.Schedule.DefaultDurationDays,
		Fallback:     a.cfg.Schedule.FallbackDailyTarget,
	}
	return schedule.NewGenerator(a.clock, r)
}

func (a *app) load(ctx context.Context) (reconcile.State, error) {
	st, err := a.openStore()
	if err != nil {
		return reconcile.State{}, err
	}
	return reconcile.LoadLocal(ctx, st)
}

func (a *app) save(ctx context.Context, s reconcile.State) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	return reconcile.SaveLocal(ctx, st, s)
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "habita",
		Short: "habita schedules daily habits and keeps them honest.",
		Long: `habita turns goals and habits (agendas) into daily tasks, tracks
check-ins, moves missed amounts onto upcoming days, reports streaks and
syncs with a remote store and Google Calendar.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ~/.config/habita/config.yaml)")
	root.PersistentFlags().StringVar(&a.storeFlag, "store", "", "store backend: file, sqlite or memory")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "directory holding the local cache")
	root.PersistentFlags().StringVar(&a.todayFlag, "today", "", "treat this date (YYYY-MM-DD) as today")

	root.AddCommand(
		newAgendaCmd(a),
		newTodayCmd(a),
		newCheckinCmd(a),
		newSkipCmd(a),
		newRedistributeCmd(a),
		newSweepCmd(a),
		newStatsCmd(a),
		newSyncCmd(a),
		newExportCmd(a),
		newMirrorCmd(a),
		newAuthCmd(a),
		newSetCalendarCmd(a),
	)
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
