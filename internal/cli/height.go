package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func heightCmd() *cobra.Command {
	var (
		configPath string
		def        float64
	)

	c := &cobra.Command{
		Use:   "height BOARD REF...",
		Short: "Estimate the tallest component among the given footprints",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(configPath, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("default") {
				if def <= 0 {
					return fmt.Errorf("--default must be positive, got %g", def)
				}
				p.Heights.Default = def
			}

			a, res, err := evaluate(cmd.Context(), cmd.ErrOrStderr(), p, args[0], nil)
			if err != nil {
				return err
			}
			refs := args[1:]
			report, err := a.Heights(res.Board, refs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ref := range refs {
				r := report.Results[ref]
				if r.Fallback {
					fmt.Fprintf(out, "%s\t%.3f mm (default: %v)\n", ref, r.Value, r.Err)
					continue
				}
				fmt.Fprintf(out, "%s\t%.3f mm\n", ref, r.Value)
			}
			fmt.Fprintf(out, "max\t%.3f mm\n", report.Max)
			return nil
		},
	}

	c.Flags().StringVarP(&configPath, "config", "c", "", "project file (default: kisketch.yaml next to the board)")
	c.Flags().Float64Var(&def, "default", 0, "height in mm used when a footprint's models cannot be measured")
	return c
}
