package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// An explicit path takes priority over the search.
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	return cfg, nil
}

// LoadFile loads a config file on top of the defaults without consulting
// flags.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./sputterer.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Sputterer")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Sputterer")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "sputterer")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "sputterer")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Surface entries start from DefaultSurface, and relative surface paths are
// resolved against the config file's directory.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw struct {
		Surfaces []yaml.Node `yaml:"surfaces"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	surfaces := cfg.Surfaces
	cfg.Surfaces = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	if raw.Surfaces == nil {
		cfg.Surfaces = surfaces
		return nil
	}

	cfg.Surfaces = make([]SurfaceConfig, 0, len(raw.Surfaces))
	dir := filepath.Dir(path)
	for i := range raw.Surfaces {
		s := DefaultSurface()
		if err := raw.Surfaces[i].Decode(&s); err != nil {
			return fmt.Errorf("surfaces[%d]: %w", i, err)
		}
		if s.File != "" && !filepath.IsAbs(s.File) {
			s.File = filepath.Join(dir, s.File)
		}
		cfg.Surfaces = append(cfg.Surfaces, s)
	}
	return nil
}
