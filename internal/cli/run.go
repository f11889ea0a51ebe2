package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pretenst/internal/blueprint"
	"github.com/mesh-intelligence/pretenst/internal/runner"
	"github.com/mesh-intelligence/pretenst/pkg/types"
)

type transitionJSON struct {
	Frame int         `json:"frame"`
	From  types.Stage `json:"from"`
	To    types.Stage `json:"to"`
}

type runSummary struct {
	Run         *types.Run       `json:"run"`
	Transitions []transitionJSON `json:"transitions"`
	Error       string           `json:"error,omitempty"`
}

type runFlags struct {
	maxFrames     int
	snapshotEvery int
	growFrames    int
	shapeFrames   int
	noAdopt       bool
	noPretension  bool
}

func newRunCmd(a *app) *cobra.Command {
	var rf runFlags
	cmd := &cobra.Command{
		Use:   "run <blueprint>",
		Short: "Simulate a blueprint until it is realized",
		Long: `Build a fabric from a built-in blueprint name or a YAML file, step it
through growing, shaping, adopting, pretensioning and realizing, and record
every frame in the run store.

Example:
  pretenst run prism
  pretenst run ./kite.yaml --max-frames 500 --snapshot-every 25`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBlueprint(cmd, args[0], rf.apply(cmd, a.settings.Script))
		},
	}
	cmd.Flags().IntVar(&rf.maxFrames, "max-frames", 0, "frame limit for the whole run")
	cmd.Flags().IntVar(&rf.snapshotEvery, "snapshot-every", 0, "store a snapshot every N frames")
	cmd.Flags().IntVar(&rf.growFrames, "grow-frames", 0, "frames spent growing")
	cmd.Flags().IntVar(&rf.shapeFrames, "shape-frames", 0, "frames spent shaping")
	cmd.Flags().BoolVar(&rf.noAdopt, "no-adopt", false, "skip adopting lengths (and pretensioning)")
	cmd.Flags().BoolVar(&rf.noPretension, "no-pretension", false, "realize straight from slack")
	return cmd
}

// apply overrides script values with the flags the user set.
func (rf runFlags) apply(cmd *cobra.Command, script runner.Script) runner.Script {
	flags := cmd.Flags()
	if flags.Changed("max-frames") {
		script.MaxFrames = rf.maxFrames
	}
	if flags.Changed("snapshot-every") {
		script.SnapshotEvery = rf.snapshotEvery
	}
	if flags.Changed("grow-frames") {
		script.GrowFrames = rf.growFrames
	}
	if flags.Changed("shape-frames") {
		script.ShapeFrames = rf.shapeFrames
	}
	if rf.noAdopt {
		script.Adopt = false
	}
	if rf.noPretension {
		script.Pretension = false
	}
	return script
}

func (a *app) runBlueprint(cmd *cobra.Command, ref string, script runner.Script) error {
	if err := script.Validate(); err != nil {
		return userError(err)
	}
	bp, err := blueprint.Resolve(ref)
	if err != nil {
		return classify(err)
	}
	f, err := bp.Build()
	if err != nil {
		return classify(err)
	}

	store, err := a.attachStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	ctx := cmd.Context()
	world := a.settings.World
	run, err := store.CreateRun(ctx, bp.Name, world)
	if err != nil {
		return sysError(err)
	}
	a.logger.Info("run started", "run", run.RunID, "blueprint", bp.Name, "joints", f.JointCount(), "intervals", f.IntervalCount())

	res, runErr := runner.New(f, world, script,
		runner.WithRecorder(store),
		runner.WithLogger(a.logger),
	).Run(ctx, run.RunID)

	// Close the run even when it stopped early so it shows how far it got.
	finished, err := store.FinishRun(context.WithoutCancel(ctx), run.RunID, res.Final, res.Frames, res.Age)
	if err != nil {
		return sysError(fmt.Errorf("finish run: %w", err))
	}

	summary := runSummary{Run: finished}
	for _, tr := range res.Transitions {
		summary.Transitions = append(summary.Transitions, transitionJSON{Frame: tr.Frame, From: tr.From, To: tr.To})
	}
	if runErr != nil {
		summary.Error = runErr.Error()
	}
	if a.jsonMode {
		if err := printJSON(cmd.OutOrStdout(), summary); err != nil {
			return err
		}
	} else {
		printRunSummary(cmd, summary)
	}

	switch {
	case runErr == nil:
		return nil
	case errors.Is(runErr, types.ErrFrameLimit):
		return userError(runErr)
	default:
		return sysError(runErr)
	}
}

func printRunSummary(cmd *cobra.Command, s runSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s\n", s.Run.RunID)
	fmt.Fprintf(out, "  blueprint: %s\n", s.Run.Blueprint)
	fmt.Fprintf(out, "  stage:     %s\n", s.Run.Stage)
	fmt.Fprintf(out, "  frames:    %d (age %d)\n", s.Run.Frames, s.Run.Age)
	for _, tr := range s.Transitions {
		fmt.Fprintf(out, "  frame %4d: %s -> %s\n", tr.Frame, tr.From, tr.To)
	}
}
