package plan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSubject reads and decodes the subject document at path.
func LoadSubject(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subject %s: %w", path, err)
	}
	return DecodeSubject(data, path)
}

// DecodeSubject decodes a subject document. name selects the format: YAML
// when it ends in .yaml or .yml, JSON otherwise.
func DecodeSubject(data []byte, name string) (any, error) {
	var (
		v   any
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &v)
	default:
		err = json.Unmarshal(data, &v)
	}
	if err != nil {
		return nil, fmt.Errorf("parse subject %s: %w", name, err)
	}
	return v, nil
}
