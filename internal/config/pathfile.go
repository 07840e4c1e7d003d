package config

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"gopkg.in/yaml.v3"
)

// pathFile is the on-disk shape of a recorded waypoint list:
//
//	path:
//	  - [871, 972]
//	  - [964, 908]
type pathFile struct {
	Path [][2]int `yaml:"path"`
}

// SavePath writes path to file as YAML.
func SavePath(file string, path []image.Point) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(pathFile{Path: fromPoints(path)}); err != nil {
		return fmt.Errorf("encode path: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode path: %w", err)
	}
	if err := os.WriteFile(file, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write path file: %w", err)
	}
	return nil
}

// LoadPath reads a waypoint list written by SavePath.
func LoadPath(file string) ([]image.Point, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("%w: path file: %v", ErrInvalid, err)
	}
	var pf pathFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("%w: path file %s: %v", ErrInvalid, file, err)
	}
	if len(pf.Path) == 0 {
		return nil, fmt.Errorf("%w: path file %s has no waypoints", ErrInvalid, file)
	}
	return toPoints(pf.Path), nil
}
