package board

import "strings"

// DefaultModelVars are the path variables board files commonly reference
// in 3D model filenames.
var DefaultModelVars = map[string]string{
	"KIPRJMOD":           ".",
	"KICAD6_3DMODEL_DIR": "/usr/share/kicad/3dmodels",
}

// ModelPath expands ${VAR} references from vars and swaps a VRML extension
// for STEP, since the mechanical side only consumes STEP files.
// Unknown variables are left in place.
func ModelPath(p string, vars map[string]string) string {
	if vars == nil {
		vars = DefaultModelVars
	}
	for k, v := range vars {
		p = strings.ReplaceAll(p, "${"+k+"}", v)
	}
	if strings.HasSuffix(p, ".wrl") {
		p = strings.TrimSuffix(p, ".wrl") + ".step"
	}
	return p
}
