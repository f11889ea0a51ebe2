package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFramesCmd(a *app) *cobra.Command {
	var (
		snapshotsOnly bool
		exportPath    string
	)
	cmd := &cobra.Command{
		Use:   "frames <run-id>",
		Short: "List or export the recorded frames of a run",
		Long: `List the frames recorded for a run, or write them to a JSONL file with
--export. The listing shows the joint midpoint of frames that carry a
snapshot. Snapshots carry joint positions, interval endpoints, roles and
strains for rendering.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			ctx := cmd.Context()
			if exportPath != "" {
				n, err := store.ExportFrames(ctx, args[0], exportPath, snapshotsOnly)
				if err != nil {
					return classify(err)
				}
				if a.jsonMode {
					return printJSON(cmd.OutOrStdout(), map[string]any{"path": exportPath, "frames": n})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d frames to %s\n", n, exportPath)
				return nil
			}

			frames, err := store.Frames(ctx, args[0], snapshotsOnly)
			if err != nil {
				return classify(err)
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), frames)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FRAME\tAGE\tREPORTED\tPERSISTED\tSETTLING\tMIDPOINT")
			for _, f := range frames {
				mid := "-"
				if f.Snapshot != nil {
					m := f.Snapshot.Midpoint()
					mid = fmt.Sprintf("%.3f,%.3f,%.3f", m[0], m[1], m[2])
				}
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%t\t%s\n", f.Frame, f.Age, f.Reported, f.Persisted, f.Settling, mid)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&snapshotsOnly, "snapshots", false, "only frames that carry a snapshot")
	cmd.Flags().StringVar(&exportPath, "export", "", "write frames as JSONL to this path")
	return cmd
}
