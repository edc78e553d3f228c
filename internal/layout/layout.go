// Package layout loads the phase order the host loop starts with.
package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/l1jgo/loophook/internal/core/loop"
)

type layoutFile struct {
	Phases []string `yaml:"phases"`
}

// Load reads a YAML phase layout. A missing or empty phase list falls back
// to loop.DefaultPhases().
func Load(path string) ([]loop.Phase, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", path, err)
	}
	phases, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return phases, nil
}

// Parse decodes a layout document. Unknown or repeated phase names are errors.
func Parse(raw []byte) ([]loop.Phase, error) {
	var f layoutFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(f.Phases) == 0 {
		return loop.DefaultPhases(), nil
	}

	seen := make(map[loop.Phase]bool, len(f.Phases))
	out := make([]loop.Phase, 0, len(f.Phases))
	for _, name := range f.Phases {
		p, err := loop.ParsePhase(name)
		if err != nil {
			return nil, err
		}
		if seen[p] {
			return nil, fmt.Errorf("phase %q listed twice", name)
		}
		seen[p] = true
		out = append(out, p)
	}
	return out, nil
}

// Configuration builds an empty-chain loop configuration for phases.
func Configuration(phases []loop.Phase) loop.Configuration {
	return loop.NewConfiguration(phases...)
}
