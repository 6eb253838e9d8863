package main

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// yamlParser is an ff.ConfigFileParser for a flat YAML mapping of flag
// names to scalar values, e.g.
//
//	field: 2
//	delimiter: ":"
//	hex: true
func yamlParser(r io.Reader, set func(name, value string) error) error {
	var m map[string]any
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config: %w", err)
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		var value string
		switch v := m[name].(type) {
		case nil:
		case map[string]any, []any:
			return fmt.Errorf("config %q: expected a scalar value", name)
		default:
			value = fmt.Sprint(v)
		}

		if err := set(name, value); err != nil {
			return fmt.Errorf("config %q: %w", name, err)
		}
	}

	return nil
}
