package director

import (
	"os"

	"gopkg.in/yaml.v3"
)

// WriteCueSheet writes a cue sheet to a YAML file
func WriteCueSheet(sheet *CueSheet, path string) error {
	data, err := MarshalCueSheet(sheet)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// MarshalCueSheet encodes a cue sheet as YAML
func MarshalCueSheet(sheet *CueSheet) ([]byte, error) {
	return yaml.Marshal(sheet)
}

// ReadCueSheet reads a cue sheet from a YAML file
func ReadCueSheet(path string) (*CueSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sheet CueSheet
	if err := yaml.Unmarshal(data, &sheet); err != nil {
		return nil, err
	}

	return &sheet, nil
}
