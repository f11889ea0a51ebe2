package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pretenst/internal/blueprint"
)

type blueprintSummary struct {
	Name      string `json:"name"`
	Joints    int    `json:"joints"`
	Intervals int    `json:"intervals"`
	Faces     int    `json:"faces"`
}

func newBlueprintsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "blueprints",
		Short: "List the built-in blueprints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out []blueprintSummary
			for _, name := range blueprint.BuiltinNames() {
				bp, err := blueprint.Builtin(name)
				if err != nil {
					return sysError(err)
				}
				out = append(out, blueprintSummary{
					Name:      bp.Name,
					Joints:    len(bp.Joints),
					Intervals: len(bp.Intervals),
					Faces:     len(bp.Faces),
				})
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), out)
			}
			for _, s := range out {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s joints=%d intervals=%d faces=%d\n", s.Name, s.Joints, s.Intervals, s.Faces)
			}
			return nil
		},
	}
}
