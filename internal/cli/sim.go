package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkordik/nodewire/pkg/scenario"
)

// simOpts holds the command-line flags for the sim command.
type simOpts struct {
	quiet bool // suppress the per-node summary table
}

// simCommand creates the sim command for replaying a scripted session.
func (c *CLI) simCommand() *cobra.Command {
	var opts simOpts

	cmd := &cobra.Command{
		Use:   "sim [script]",
		Short: "Replay a scripted editing session headlessly",
		Long: `Replay a YAML editing script frame by frame against an in-memory
editor session and print the resting state of the graph: node positions,
selection, and connections.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSim(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print the summary line")

	return cmd
}

// runSim loads the script, replays it, and prints the final graph state.
func runSim(ctx context.Context, path string, opts *simOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	script, err := scenario.Load(path)
	if err != nil {
		return err
	}

	runner, err := scenario.New(script, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Replayed %d frames", result.Frames))

	printSuccess("%s %s", StyleTitle.Render(result.Name), StyleDim.Render("run "+result.RunID.String()))
	printStats(len(result.Nodes), len(result.Connections), result.Frames)

	if !opts.quiet {
		printSimDetail(result)
	}
	return nil
}

// printSimDetail prints per-node and per-connection resting state.
func printSimDetail(result *scenario.Result) {
	for _, n := range result.Nodes {
		marker := " "
		if n.Selected {
			marker = StyleHighlight.Render("*")
		}
		printDetail("%s %-16s (%.0f, %.0f)", marker, n.Key, n.Pos.X, n.Pos.Y)
	}
	for _, link := range result.Connections {
		printDetail("%s %s %s", link.From, iconArrow, link.To)
	}
	if len(result.Selected) > 0 {
		printKeyValue("selected", fmt.Sprintf("%v", result.Selected))
	}
}
