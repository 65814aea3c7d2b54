package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func NewRootCommand(out io.Writer, build BuildInfo) *cobra.Command {
	globals := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:           "assetvault",
		Short:         "Local asset registry",
		Long:          "assetvault keeps a single-user inventory of assets in a local SQLite store.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	cmd.PersistentFlags().StringVar(&globals.ConfigPath, "config", "", "Path to config file")
	cmd.PersistentFlags().StringVar(&globals.StorePath, "store", "", "Path to the registry database")
	cmd.PersistentFlags().BoolVar(&globals.JSON, "json", false, "Print results as JSON")

	deps := commandDeps{out: out, globals: globals}

	cmd.AddCommand(newLoginCommand(deps))
	cmd.AddCommand(newLogoutCommand(deps))
	cmd.AddCommand(newWhoamiCommand(deps))
	cmd.AddCommand(newAssetCommand(deps))
	cmd.AddCommand(newDBCommand(deps))
	cmd.AddCommand(newAuditCommand(deps))
	cmd.AddCommand(newVersionCommand(out, build))
	cmd.InitDefaultCompletionCmd()
	return cmd
}

func newVersionCommand(out io.Writer, build BuildInfo) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(build)
			}

			_, err := fmt.Fprintf(out, "version=%s commit=%s build_time=%s\n", build.Version, build.Commit, build.BuildTime)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version as JSON")
	return cmd
}
