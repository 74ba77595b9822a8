// Package presets reads the system gradient presets offered to the UI.
package presets

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Load reads a JSON object of key -> gradient colors and turns it into
// presets sorted by name, with Custom appended. Any failure is logged and
// yields only the Custom preset.
func Load(path string, log *zap.Logger) []Preset {
	if log == nil {
		log = zap.NewNop()
	}
	ps, err := LoadFile(path)
	if err != nil {
		log.Warn("failed to load system presets", zap.String("path", path), zap.Error(err))
		return []Preset{Custom}
	}
	return ps
}

// LoadFile is Load without the fallback.
func LoadFile(path string) ([]Preset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var gradients map[string][]string
	if err := json.Unmarshal(b, &gradients); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := make([]Preset, 0, len(gradients)+1)
	for key, colors := range gradients {
		if len(colors) == 0 {
			return nil, fmt.Errorf("preset %q has no colors", key)
		}
		out = append(out, Preset{
			Name:           displayName(key),
			Key:            key,
			GradientColors: colors,
			IconRef:        "/systems/icons/" + key + ".png",
			ArtworkRef:     "/systems/artwork/" + key + ".png",
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Key < out[j].Key
	})
	return append(out, Custom), nil
}

func displayName(key string) string {
	if n, ok := knownNames[key]; ok {
		return n
	}
	return strings.ToUpper(key)
}
