package main

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tucanscript/tucan/core"
)

// loadVars sets a global for every top-level key of a YAML mapping.
func loadVars(s *core.Script, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	vars := map[string]any{}
	if err := yaml.NewDecoder(file).Decode(&vars); err != nil && err != io.EOF {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for name, native := range vars {
		v, err := core.FromNative(native)
		if err != nil {
			return fmt.Errorf("variable %s in %s: %w", name, path, err)
		}
		s.Set(name, v)
	}
	return nil
}

// dumpVars writes every global as a YAML mapping.
func dumpVars(w io.Writer, s *core.Script) error {
	vars := map[string]any{}
	for _, name := range s.Names() {
		v, _ := s.Get(name)
		vars[name] = v.ToNative()
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(vars); err != nil {
		return err
	}
	return encoder.Close()
}
