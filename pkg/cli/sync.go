package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/habita/pkg/reconcile"
	"github.com/harrisonrobin/habita/pkg/remote"
)

func (a *app) remoteSource(cmd *cobra.Command, snapshot string) (remote.Source, error) {
	if snapshot != "" {
		return remote.FileSource{Path: snapshot}, nil
	}
	if a.cfg.Remote.URL == "" {
		return nil, errors.New("no remote configured: set remote.url (or HABITA_REMOTE_URL) or pass --snapshot")
	}
	return remote.NewHTTPSource(cmd.Context(), a.cfg.Remote.URL, a.cfg.Remote.APIKey, a.cfg.Remote.UserID), nil
}

func newSyncCmd(a *app) *cobra.Command {
	var snapshot string
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Merge the remote store into the local cache",
		Long: `Fetch every agenda with its tasks from the remote store, merge them
into the local cache (remote wins on conflicts, local-only entries are kept)
and save the result. A failed sync leaves the cache untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.remoteSource(cmd, snapshot)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			local, err := a.load(ctx)
			if err != nil {
				return err
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			merged, err := reconcile.NewSyncer(src, st, a.clock).Sync(ctx, local.Agendas, local.Tasks)
			if err != nil {
				log.Printf("Sync failed, local cache kept: %v", err)
				return err
			}
			fmt.Fprintf(a.out, "Synced %d agenda(s) and %d task(s)\n", len(merged.Agendas), len(merged.Tasks))
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "read the remote tree from a JSON file instead of the configured URL")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the local cache as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(state)
			case "yaml", "yml":
				enc := yaml.NewEncoder(a.out)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(state)
			}
			return fmt.Errorf("unknown format %q (want json or yaml)", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "json", "json or yaml")
	return cmd
}
