package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/chazu/kisketch/internal/config"
	"github.com/chazu/kisketch/pkg/board"
	"github.com/chazu/kisketch/pkg/outline"
	"github.com/spf13/cobra"
)

// outputFlags are the file and format flags shared by outline and courtyard.
type outputFlags struct {
	configPath string
	dxf        string
	svg        string
	render     string
	json       bool
}

func (f *outputFlags) register(c *cobra.Command) {
	c.Flags().StringVarP(&f.configPath, "config", "c", "", "project file (default: "+config.DefaultFile+" next to the board)")
	c.Flags().StringVar(&f.dxf, "dxf", "", "write the sketch to this DXF file")
	c.Flags().StringVar(&f.svg, "svg", "", "write the sketch to this SVG file")
	c.Flags().StringVar(&f.render, "render", string(config.RenderExact), "file rendering: exact or kernel")
	c.Flags().BoolVar(&f.json, "json", false, "print the flattened contours as JSON")
}

func outlineCmd() *cobra.Command {
	var (
		flags outputFlags
		layer string
		ref   string
		local bool
	)

	c := &cobra.Command{
		Use:   "outline BOARD",
		Short: "Convert the shapes on one layer into a sketch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := outline.Request{
				Name:      layer,
				Layer:     board.Layer(layer),
				Reference: ref,
				Local:     local,
			}
			if ref != "" {
				req.Name = ref + "-" + layer
			}
			return runOutline(cmd, args[0], req, flags)
		},
	}

	flags.register(c)
	c.Flags().StringVarP(&layer, "layer", "l", string(board.EdgeCuts), "layer to convert")
	c.Flags().StringVarP(&ref, "ref", "r", "", "restrict to one footprint's graphics")
	c.Flags().BoolVar(&local, "local", false, "place the sketch relative to the footprint instead of the aux origin")
	return c
}

func courtyardCmd() *cobra.Command {
	var (
		flags outputFlags
		back  bool
		local bool
	)

	c := &cobra.Command{
		Use:   "courtyard BOARD REF",
		Short: "Convert a footprint courtyard into a sketch",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := outline.Courtyard(args[1], !back)
			req.Local = local
			return runOutline(cmd, args[0], req, flags)
		},
	}

	flags.register(c)
	c.Flags().BoolVar(&back, "back", false, "use the back courtyard layer")
	c.Flags().BoolVar(&local, "local", false, "place the sketch relative to the footprint instead of the aux origin")
	return c
}

func runOutline(cmd *cobra.Command, boardPath string, req outline.Request, f outputFlags) error {
	render, err := config.ParseRender(f.render)
	if err != nil {
		return err
	}
	p, err := loadProject(f.configPath, boardPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	a, res, err := evaluate(cmd.Context(), cmd.ErrOrStderr(), p, boardPath, []outline.Request{req})
	if err != nil {
		return err
	}

	if err := a.Write(res.Outlines, []config.Output{{Request: req, DXF: f.dxf, SVG: f.svg, Render: render}}); err != nil {
		return err
	}

	if f.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Outlines[0].Contours)
	}
	return printSummary(out, res.Outlines[0])
}

func printSummary(w io.Writer, r *outline.Result) error {
	s := r.Sketch
	kind := "union"
	count := len(s.Regions)
	if s.IsFace() {
		kind = "face"
		count = len(s.Edges)
	}
	area, err := s.Area()
	if err != nil {
		return err
	}
	min, max := s.Bounds()
	fmt.Fprintf(w, "%s: %s of %d, area %.3f mm², bounds (%.3f, %.3f) to (%.3f, %.3f)\n",
		r.Request.Name, kind, count, area, min.X, min.Y, max.X, max.Y)
	return nil
}
