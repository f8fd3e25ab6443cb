package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/chazu/kisketch/pkg/board"
	"github.com/chazu/kisketch/pkg/outline"
	"github.com/mitchellh/go-homedir"
)

// MapProject validates a decoded project file and applies defaults. Relative
// paths are resolved against the directory of path.
func MapProject(path string, yp YAMLProject) (Project, error) {
	p := Default()
	dir := filepath.Dir(path)

	p.Board = resolve(dir, yp.Board)

	if yp.Origin != nil {
		o := board.Pt(board.FromMM(yp.Origin.X), board.FromMM(yp.Origin.Y))
		p.Origin = &o
	}

	switch {
	case yp.Tolerance < 0:
		return Project{}, invalidField(path, "tolerance", "must not be negative")
	case yp.Tolerance > 0:
		p.Tolerance = yp.Tolerance
	}
	switch {
	case yp.Flatness < 0:
		return Project{}, invalidField(path, "flatness", "must not be negative")
	case yp.Flatness > 0:
		p.Flatness = yp.Flatness
	}
	switch {
	case yp.MeshCells < 0:
		return Project{}, invalidField(path, "mesh_cells", "must not be negative")
	case yp.MeshCells > 0:
		p.MeshCells = yp.MeshCells
	}

	if t := strings.TrimSpace(yp.Timeout); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil || d <= 0 {
			return Project{}, invalidField(path, "eval_timeout", "must be a positive duration such as 10s")
		}
		p.Timeout = d
	}

	for k, v := range yp.ModelVars {
		p.ModelVars[k] = expandHome(v)
	}

	if yp.Heights.Default != nil {
		if *yp.Heights.Default <= 0 {
			return Project{}, invalidField(path, "heights.default", "must be positive")
		}
		p.Heights.Default = *yp.Heights.Default
	}
	for k, v := range yp.Heights.Models {
		p.Heights.Models[k] = v
	}
	for k, v := range yp.Heights.References {
		if v <= 0 {
			return Project{}, invalidField(path, "heights.references."+k, "must be positive")
		}
		p.Heights.References[k] = v
	}

	seen := map[string]bool{}
	for i, o := range yp.Outputs {
		field := fmt.Sprintf("outputs[%d]", i)
		name := strings.TrimSpace(o.Name)
		if name == "" {
			return Project{}, invalidField(path, field+".name", "name is required")
		}
		if seen[name] {
			return Project{}, invalidField(path, field+".name", fmt.Sprintf("duplicate output %q", name))
		}
		seen[name] = true

		if strings.TrimSpace(o.Layer) == "" {
			return Project{}, invalidField(path, field+".layer", "layer is required")
		}
		render, err := ParseRender(o.Render)
		if err != nil {
			return Project{}, invalidField(path, field+".render", err.Error())
		}

		p.Outputs = append(p.Outputs, Output{
			Request: outline.Request{
				Name:      name,
				Layer:     board.Layer(o.Layer),
				Reference: strings.TrimSpace(o.Reference),
				Local:     o.Local,
			},
			DXF:    resolve(dir, o.DXF),
			SVG:    resolve(dir, o.SVG),
			Render: render,
		})
	}

	return p, nil
}

// ParseRender parses a render mode name. Empty means RenderExact.
func ParseRender(s string) (Render, error) {
	switch Render(strings.ToLower(strings.TrimSpace(s))) {
	case "", RenderExact:
		return RenderExact, nil
	case RenderKernel:
		return RenderKernel, nil
	}
	return "", fmt.Errorf("unknown render %q, expected exact or kernel", s)
}

func resolve(dir, p string) string {
	p = expandHome(strings.TrimSpace(p))
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// expandHome replaces a leading ~ with the user's home directory. Paths it
// cannot expand are returned unchanged.
func expandHome(p string) string {
	if e, err := homedir.Expand(p); err == nil {
		return e
	}
	return p
}
