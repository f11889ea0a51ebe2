package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pretenst/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and the run store",
		Long:  "Create the configuration directory with a default config.yaml and an empty run store.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The config directory and config.yaml exist once load has run.
			configDir, err := paths.ResolveConfigDir(a.configDir)
			if err != nil {
				return sysError(err)
			}
			store, err := a.attachStore()
			if err != nil {
				return err
			}
			dataDir := store.DataDir()
			if err := store.Detach(); err != nil {
				return sysError(fmt.Errorf("finalize store: %w", err))
			}

			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{"config_dir": configDir, "data_dir": dataDir})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "pretenst initialized")
			fmt.Fprintln(out, "  config:", configDir)
			fmt.Fprintln(out, "  data:  ", dataDir)
			return nil
		},
	}
}
