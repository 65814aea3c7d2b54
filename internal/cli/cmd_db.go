package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/amanthanvi/assetvault/internal/audit"
)

func newDBCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Registry database maintenance",
	}
	cmd.AddCommand(
		newDBInitCommand(deps),
		newDBStatusCommand(deps),
		newDBResetCommand(deps),
	)
	return cmd
}

func newDBInitCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the registry database if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the store is the idempotent create path; init only
			// makes it explicit and reports where the data lives.
			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt *runtime) error {
				version, err := rt.store.SchemaVersion()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(deps.out, "Registry ready at %s (schema v%d)\n", rt.store.Path(), version)
				return err
			})
		},
	}
}

func newDBStatusCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show registry location and schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt *runtime) error {
				version, err := rt.store.SchemaVersion()
				if err != nil {
					return err
				}
				if deps.globals.JSON {
					return printJSON(deps.out, map[string]any{
						"path":           rt.store.Path(),
						"schema_version": version,
					})
				}
				_, err = fmt.Fprintf(deps.out, "path=%s schema_version=%d\n", rt.store.Path(), version)
				return err
			})
		},
	}
}

func newDBResetCommand(deps commandDeps) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate the registry tables (destroys all data)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return usageErrorf("db reset discards every asset and non-default user; pass --confirm to proceed")
			}

			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt *runtime) error {
				actor := ""
				if current, ok := rt.auth.Current(); ok {
					actor = current.Username
				}

				if err := rt.store.Reset(ctx); err != nil {
					return err
				}
				// The reset wiped the user table, so any session is stale.
				rt.sessions.End()

				if err := rt.audit.Record(ctx, audit.Event{
					Action: audit.ActionStoreReset,
					Actor:  actor,
				}); err != nil {
					return err
				}

				rt.logger.Warn("registry reset", slog.String("path", rt.store.Path()))
				_, err := fmt.Fprintln(deps.out, "Registry reset; seed administrator restored")
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "Acknowledge that all registry data will be destroyed")
	return cmd
}
