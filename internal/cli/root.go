// Package cli implements the kisketch command line.
package cli

import (
	"os"

	"github.com/chazu/kisketch/internal/logger"
	"github.com/spf13/cobra"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		debug   bool
		logFile string
		cleanup func() error
	)

	cmd := &cobra.Command{
		Use:          "kisketch",
		Short:        "Convert PCB board outlines and courtyards into CAD sketches",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !debug && logFile == "" {
				return nil
			}
			var err error
			cleanup, err = logger.Setup(logger.Config{
				Path:   logFile,
				Writer: cmd.ErrOrStderr(),
				Debug:  debug,
			})
			return err
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if cleanup == nil {
				return nil
			}
			return cleanup()
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose JSON logging")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logs to this file instead of stderr")

	cmd.AddCommand(
		outlineCmd(),
		courtyardCmd(),
		buildCmd(),
		heightCmd(),
		infoCmd(),
	)
	return cmd
}
