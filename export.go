package particleart

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/gekko3d/particleart/sim"
)

// ExportConfig writes cfg as indented JSON to a new
// particle-config-<uuid>.json file in dir and returns its path.
func ExportConfig(dir string, cfg sim.Config) (string, error) {
	if dir == "" {
		dir = "."
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("particle-config-%s.json", uuid.NewString()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// ImportConfig reads a file written by ExportConfig.
func ImportConfig(path string) (sim.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sim.Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg := sim.DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return sim.Config{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return cfg.Sanitize(), nil
}
