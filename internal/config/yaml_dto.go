package config

type YAMLProject struct {
	Board     string            `yaml:"board"`
	Origin    *YAMLPoint        `yaml:"origin"`
	Tolerance float64           `yaml:"tolerance"`
	Flatness  float64           `yaml:"flatness"`
	MeshCells int               `yaml:"mesh_cells"`
	Timeout   string            `yaml:"eval_timeout"`
	ModelVars map[string]string `yaml:"model_vars"`
	Heights   YAMLHeights       `yaml:"heights"`
	Outputs   []YAMLOutput      `yaml:"outputs"`
}

// YAMLPoint is a board position in millimeters.
type YAMLPoint struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type YAMLHeights struct {
	Default    *float64           `yaml:"default"`
	Models     map[string]float64 `yaml:"models"`
	References map[string]float64 `yaml:"references"`
}

type YAMLOutput struct {
	Name      string `yaml:"name"`
	Layer     string `yaml:"layer"`
	Reference string `yaml:"reference"`
	Local     bool   `yaml:"local"`
	DXF       string `yaml:"dxf"`
	SVG       string `yaml:"svg"`
	Render    string `yaml:"render"`
}
