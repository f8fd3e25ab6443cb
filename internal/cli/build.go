package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/chazu/kisketch/internal/logger"
	"github.com/chazu/kisketch/internal/watch"
	"github.com/chazu/kisketch/pkg/outline"
	"github.com/spf13/cobra"
)

func buildCmd() *cobra.Command {
	var (
		configPath string
		watchFiles bool
	)

	c := &cobra.Command{
		Use:   "build [BOARD]",
		Short: "Write every output listed in the project file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var boardPath string
			if len(args) == 1 {
				boardPath = args[0]
			}
			p, err := loadProject(configPath, boardPath)
			if err != nil {
				return err
			}
			if boardPath == "" {
				boardPath = p.Board
			}
			if boardPath == "" {
				return errors.New("no board given and the project file names none")
			}

			b := builder{cmd: cmd, configPath: projectFile(configPath, boardPath), boardPath: boardPath}
			if !watchFiles {
				return b.build()
			}

			if err := b.build(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "build failed: %v\n", err)
			}
			files := []string{boardPath}
			if b.configPath != "" {
				files = append(files, b.configPath)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "watching %d files, interrupt to stop\n", len(files))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			w := &watch.Watcher{
				Files: files,
				Log:   logger.L(),
				Run: func() error {
					err := b.build()
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "build failed: %v\n", err)
					}
					return err
				},
			}
			return w.Watch(ctx)
		},
	}

	c.Flags().StringVarP(&configPath, "config", "c", "", "project file (default: kisketch.yaml next to the board)")
	c.Flags().BoolVarP(&watchFiles, "watch", "w", false, "rebuild whenever the board or project file changes")
	return c
}

// builder reloads the project and rebuilds its outputs on every call, so a
// watched project picks up edits to either file.
type builder struct {
	cmd        *cobra.Command
	configPath string
	boardPath  string
}

func (b builder) build() error {
	p, err := loadProject(b.configPath, b.boardPath)
	if err != nil {
		return err
	}
	if len(p.Outputs) == 0 {
		return errors.New("project has no outputs")
	}

	reqs := make([]outline.Request, len(p.Outputs))
	for i, o := range p.Outputs {
		reqs[i] = o.Request
	}

	a, res, err := evaluate(b.cmd.Context(), b.cmd.ErrOrStderr(), p, b.boardPath, reqs)
	if err != nil {
		return err
	}
	if err := a.Write(res.Outlines, p.Outputs); err != nil {
		return err
	}
	return printBuild(b.cmd.OutOrStdout(), res.Outlines)
}

func printBuild(w io.Writer, results []*outline.Result) error {
	for _, r := range results {
		if err := printSummary(w, r); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "%d outputs built\n", len(results))
	return nil
}
