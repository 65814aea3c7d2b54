package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCommand(deps commandDeps) *cobra.Command {
	var (
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("login does not accept positional arguments")
			}
			if strings.TrimSpace(username) == "" {
				return usageErrorf("login requires --username")
			}

			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt *runtime) error {
				secret := []byte(password)
				if password == "" {
					var err error
					secret, err = promptPassword(deps.out)
					if err != nil {
						return err
					}
				}
				defer wipeBytes(secret)

				started, err := rt.auth.Login(ctx, username, string(secret))
				if err != nil {
					rt.logger.Warn("login failed", slog.String("username", username))
					return err
				}

				rt.logger.Info("login", slog.String("username", started.Username))
				_, err = fmt.Fprintf(deps.out, "Logged in as %s (%s)\n", started.Username, started.FullName)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Account username")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted without echo when omitted)")
	return cmd
}

func newLogoutCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("logout does not accept positional arguments")
			}
			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt *runtime) error {
				if err := rt.auth.Logout(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(deps.out, "Logged out")
				return err
			})
		},
	}
}

func newWhoamiCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt *runtime) error {
				current, ok := rt.auth.Current()
				if !ok {
					_, err := fmt.Fprintln(deps.out, "Not logged in")
					return err
				}
				if deps.globals.JSON {
					return printJSON(deps.out, current)
				}
				_, err := fmt.Fprintf(deps.out, "%s (%s) since %s\n", current.Username, current.FullName, current.StartedAt.Format("2006-01-02 15:04:05"))
				return err
			})
		},
	}
}
