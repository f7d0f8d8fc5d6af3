package universe

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileSource loads the reference map from a YAML file. Used for local
// development and as a bootstrap when no reference database is available.
//
// File shape:
//
//	systems:
//	  30000142: 10000002
//	  30002187: 10000043
type FileSource struct {
	Path string
}

type fileMap struct {
	Systems map[int64]int64 `yaml:"systems"`
}

// Load parses the YAML reference file.
func (s *FileSource) Load(_ context.Context) (map[int64]int64, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read reference file: %w", err)
	}

	var fm fileMap
	if err := yaml.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("parse reference file: %w", err)
	}

	return fm.Systems, nil
}
