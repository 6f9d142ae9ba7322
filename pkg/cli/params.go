package cli

import (
	"fmt"
	"strings"

	"github.com/uniclear/clearance/pkg/cli/internal/parse"
	"github.com/uniclear/clearance/pkg/value"
)

// loadParams merges a YAML parameter file with key=value pairs. Dotted keys
// nest ("Applicant.Surname=Doe") and a repeated key becomes a list.
func loadParams(file string, pairs []string) (value.Value, error) {
	m := value.NewMap()
	if file != "" {
		data, err := readInput(file)
		if err != nil {
			return value.Value{}, err
		}
		v, err := value.FromYAML(data)
		if err != nil {
			return value.Value{}, err
		}
		if !v.IsMap() {
			return value.Value{}, fmt.Errorf("%s: parameters must be a mapping, got %s", file, v.Kind())
		}
		m = v.Map().Clone()
	}

	for _, pair := range pairs {
		key, text, ok := parse.KeyValue(pair, '=')
		if !ok || strings.TrimSpace(key) == "" {
			return value.Value{}, fmt.Errorf("invalid parameter %q: expected key=value", pair)
		}
		if err := setPath(m, strings.Split(key, "."), value.Scalar(text)); err != nil {
			return value.Value{}, fmt.Errorf("invalid parameter %q: %w", pair, err)
		}
	}
	return value.FromMap(m), nil
}

func setPath(m *value.Map, path []string, v value.Value) error {
	key := strings.TrimSpace(path[0])
	if key == "" {
		return fmt.Errorf("empty key segment")
	}

	existing, ok := m.Get(key)
	if len(path) == 1 {
		if ok && !existing.IsMap() {
			v = existing.Append(v)
		}
		m.Set(key, v)
		return nil
	}

	var child *value.Map
	switch {
	case !ok:
		child = value.NewMap()
	case existing.IsMap():
		child = existing.Map().Clone()
	default:
		return fmt.Errorf("%s already holds a value", key)
	}
	if err := setPath(child, path[1:], v); err != nil {
		return err
	}
	m.Set(key, value.FromMap(child))
	return nil
}
