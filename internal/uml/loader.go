package uml

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Extensions recognised as diagram sources by LoadDir.
var Extensions = []string{".plant", ".puml", ".plantuml", ".pu"}

// IsDiagramFile reports whether name has a diagram source extension.
func IsDiagramFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadFile reads and parses one diagram file.
func LoadFile(path string) (*Diagram, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(b)), nil
}

// LoadDir parses every diagram file under root, keyed by the path relative to root.
func LoadDir(root string) (map[string]*Diagram, error) {
	result := make(map[string]*Diagram)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !IsDiagramFile(d.Name()) {
			return nil
		}

		diagram, err := LoadFile(path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		result[filepath.ToSlash(rel)] = diagram
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
