package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/habita/pkg/checkin"
	"github.com/harrisonrobin/habita/pkg/model"
)

func newAgendaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "agenda",
		Aliases: []string{"agendas", "a"},
		Short:   "Manage agendas",
	}
	cmd.AddCommand(newAgendaAddCmd(a), newAgendaListCmd(a), newAgendaPauseCmd(a, true), newAgendaPauseCmd(a, false), newAgendaDeleteCmd(a))
	return cmd
}

// parseAgendas accepts either a YAML list of agendas or a single agenda.
func parseAgendas(data []byte) ([]model.Agenda, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&node); err != nil {
		return nil, fmt.Errorf("failed to parse agendas: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	if node.Content[0].Kind == yaml.SequenceNode {
		var agendas []model.Agenda
		if err := node.Decode(&agendas); err != nil {
			return nil, fmt.Errorf("failed to parse agendas: %w", err)
		}
		return agendas, nil
	}
	var agenda model.Agenda
	if err := node.Decode(&agenda); err != nil {
		return nil, fmt.Errorf("failed to parse agenda: %w", err)
	}
	return []model.Agenda{agenda}, nil
}

func newAgendaAddCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "add -f agendas.yaml",
		Short: "Add agendas from a YAML file and schedule their first tasks",
		Example: `  habita agenda add -f goals.yaml

  # goals.yaml
  - title: Read
    kind: NUMERIC
    unit: pages
    total_target: 600
    recurrence: DAILY
    buffer_tokens: 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			incoming, err := parseAgendas(data)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			state, err := a.load(ctx)
			if err != nil {
				return err
			}
			known := make(map[string]bool, len(state.Agendas))
			for _, ag := range state.Agendas {
				known[ag.ID] = true
			}

			gen := a.generator()
			today := a.today()
			for _, ag := range incoming {
				if ag.ID == "" {
					ag.ID = uuid.NewString()
				}
				if known[ag.ID] {
					return fmt.Errorf("agenda %s already exists", ag.ID)
				}
				if ag.StartDate.IsZero() {
					ag.StartDate = today
				}
				if err := ag.Validate(); err != nil {
					return err
				}
				known[ag.ID] = true

				tasks := gen.InitialTasks(ag, a.cfg.Schedule.HorizonDays)
				state.Agendas = append(state.Agendas, ag)
				state.Tasks = append(state.Tasks, tasks...)
				fmt.Fprintf(a.out, "Added agenda %s (%s) with %d task(s)\n", ag.ID, ag.Title, len(tasks))
			}
			return a.save(ctx, state)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file with one agenda or a list of agendas")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newAgendaListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List agendas",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			if len(state.Agendas) == 0 {
				fmt.Fprintln(a.out, "No agendas yet.")
				return nil
			}
			for _, ag := range state.Agendas {
				line := fmt.Sprintf("%s  %-20s %-8s %-9s buffer=%d", ag.ID, ag.Title, ag.Kind, ag.Recurrence, ag.BufferTokens)
				if ag.Paused {
					line = dimStyle.Render(line + "  (paused)")
				}
				fmt.Fprintln(a.out, line)
			}
			return nil
		},
	}
}

func newAgendaPauseCmd(a *app, pause bool) *cobra.Command {
	use, short := "resume [agenda_id]", "Resume generating tasks for an agenda"
	if pause {
		use, short = "pause [agenda_id]", "Stop generating tasks for an agenda"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			state, err := a.load(ctx)
			if err != nil {
				return err
			}
			found := false
			for i := range state.Agendas {
				if state.Agendas[i].ID == args[0] {
					state.Agendas[i].Paused = pause
					found = true
				}
			}
			if !found {
				return fmt.Errorf("%w: %s", checkin.ErrAgendaNotFound, args[0])
			}
			return a.save(ctx, state)
		},
	}
}

func newAgendaDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete [agenda_id]",
		Aliases: []string{"rm"},
		Short:   "Delete an agenda together with its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			state, err := a.load(ctx)
			if err != nil {
				return err
			}
			before := len(state.Tasks)
			state.Agendas, state.Tasks, err = checkin.DeleteAgenda(state.Agendas, state.Tasks, args[0])
			if errors.Is(err, checkin.ErrAgendaNotFound) {
				return fmt.Errorf("no agenda with id %s", args[0])
			}
			if err != nil {
				return err
			}
			if err := a.save(ctx, state); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted agenda %s and %d task(s)\n", args[0], before-len(state.Tasks))
			return nil
		},
	}
}
