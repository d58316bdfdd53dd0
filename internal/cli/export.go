package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkordik/nodewire/pkg/export"
	"github.com/mkordik/nodewire/pkg/scenario"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output   string // output file path, stdout if empty and format is dot
	format   string // output format: "dot" or "svg"
	detailed bool   // include positions, selection, and pin labels
}

// exportCommand creates the export command for rendering a session's final graph.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "export [script]",
		Short: "Render the final graph of a session as DOT or SVG",
		Long: `Replay a YAML editing script and export the resting graph as a
Graphviz DOT description or a rendered SVG diagram.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateExportFormat(opts.format); err != nil {
				return err
			}
			return runExport(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: derived from script name, stdout for dot)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot (default), svg")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node positions, selection, and pin labels")

	return cmd
}

// validateExportFormat checks that the format is either "dot" or "svg".
func validateExportFormat(f string) error {
	if f != formatDOT && f != formatSVG {
		return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", f)
	}
	return nil
}

// runExport replays the script and writes the graph in the requested format.
func runExport(ctx context.Context, path string, opts *exportOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Exporting %s", path)

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
	logger.Debugf("Replayed %d frames: %d nodes, %d connections",
		result.Frames, len(result.Nodes), len(result.Connections))

	dot := export.ToDOT(runner.Graph(), export.Options{Detailed: opts.detailed})

	data := []byte(dot)
	if opts.format == formatSVG {
		spin := newSpinner(ctx, os.Stderr, "Rendering SVG")
		spin.Start()
		data, err = export.RenderSVG(ctx, dot)
		if spin.Cancelled() {
			spin.Stop()
			return ctx.Err()
		}
		if err != nil {
			spin.StopWithError("SVG render failed")
			return err
		}
		spin.StopWithSuccess(fmt.Sprintf("Rendered SVG (%d bytes)", len(data)))
	}

	outputPath := exportPath(opts.output, path, opts.format)
	out, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return err
	}

	if outputPath != "" {
		printFile(outputPath)
	}
	return nil
}

// exportPath derives the output path. DOT with no explicit output goes to
// stdout; SVG always gets a file derived from the script name.
func exportPath(output, input, format string) string {
	if output != "" {
		return output
	}
	if format == formatDOT {
		return ""
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in a no-op closer.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
