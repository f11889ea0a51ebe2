package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRunsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			runs, err := store.ListRuns(cmd.Context())
			if err != nil {
				return classify(err)
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tBLUEPRINT\tSTAGE\tFRAMES\tFINISHED")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", run.RunID, run.Blueprint, run.Stage, run.Frames, formatFinished(run))
			}
			return w.Flush()
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and its world constants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return classify(err)
			}
			if a.jsonMode {
				return printJSON(cmd.OutOrStdout(), run)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %s\n", run.RunID)
			fmt.Fprintf(out, "  blueprint: %s\n", run.Blueprint)
			fmt.Fprintf(out, "  stage:     %s\n", run.Stage)
			fmt.Fprintf(out, "  frames:    %d (age %d)\n", run.Frames, run.Age)
			fmt.Fprintf(out, "  created:   %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "  finished:  %s\n", formatFinished(run))
			fmt.Fprintf(out, "  world:     %+v\n", run.World)
			return nil
		},
	}
}
