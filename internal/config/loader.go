package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a project file.
func Load(path string) (Project, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Project{}, &OpError{
			Op:   "config.load_project",
			Kind: KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLProject
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return Project{}, &OpError{
			Op:   "config.load_project",
			Kind: KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapProject(path, dto)
}
