package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newAuditCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit trail",
	}
	cmd.AddCommand(newAuditListCommand(deps))
	return cmd
}

func newAuditListCommand(deps commandDeps) *cobra.Command {
	var (
		action string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List recorded actions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("audit ls does not accept positional arguments")
			}
			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt *runtime) error {
				events, err := rt.audit.List(ctx, action, limit)
				if err != nil {
					return err
				}
				if deps.globals.JSON {
					return printJSON(deps.out, events)
				}
				for _, event := range events {
					if _, err := fmt.Fprintf(
						deps.out,
						"%s %s actor=%s target=%s %s\n",
						event.CreatedAt.Format("2006-01-02 15:04:05"),
						event.Action,
						event.Actor,
						event.TargetID,
						event.Details,
					); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&action, "action", "", "Filter by action, e.g. asset.create")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum events to print (0 for all)")
	return cmd
}
