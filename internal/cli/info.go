package cli

import (
	"fmt"

	"github.com/chazu/kisketch/pkg/board"
	"github.com/spf13/cobra"
)

func infoCmd() *cobra.Command {
	var configPath string

	c := &cobra.Command{
		Use:   "info BOARD",
		Short: "Summarize a board's layers and footprints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(configPath, args[0])
			if err != nil {
				return err
			}
			_, res, err := evaluate(cmd.Context(), cmd.ErrOrStderr(), p, args[0], nil)
			if err != nil {
				return err
			}

			b := res.Board
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "aux origin: %.3f, %.3f mm\n", board.ToMM(b.AuxOrigin.X), board.ToMM(b.AuxOrigin.Y))
			fmt.Fprintf(out, "drawings: %d\n", len(b.Drawings))
			for _, l := range b.Layers() {
				fmt.Fprintf(out, "layer %s: %d board shapes\n", l, len(b.Layer(l)))
			}
			fmt.Fprintf(out, "footprints: %d\n", len(b.Footprints))
			for _, fp := range b.Footprints {
				fmt.Fprintf(out, "  %s\t%s\tat %.3f, %.3f mm\t%d graphics, %d models\n",
					fp.Reference, fp.Value,
					board.ToMM(fp.Position.X), board.ToMM(fp.Position.Y),
					len(fp.Graphics), len(fp.Models))
			}
			return nil
		},
	}

	c.Flags().StringVarP(&configPath, "config", "c", "", "project file (default: kisketch.yaml next to the board)")
	return c
}
