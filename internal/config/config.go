package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/quillnotes/quill/internal/order"
)

// Config is the persisted application configuration. The core treats it as
// read-only per call; pin and unpin intents land here and are persisted.
type Config struct {
	NotesDir       string              `yaml:"notesdir"        json:"notes_dir"`
	Editor         string              `yaml:"editor"          json:"editor"`
	Sort           string              `yaml:"sort"            json:"sort"`
	IgnoredFolders []string            `yaml:"ignored_folders" json:"ignored_folders"`
	Pins           map[string][]string `yaml:"pins"            json:"pins"`

	path string `yaml:"-"`
}

func defaultConfig() *Config {
	return &Config{
		Editor:         "nvim",
		Sort:           order.SortAlphabetical.String(),
		IgnoredFolders: []string{"archive", "trash"},
		Pins:           make(map[string][]string),
	}
}

func (cfg *Config) ensureDefaults() {
	if cfg.Pins == nil {
		cfg.Pins = make(map[string][]string)
	}
	if strings.TrimSpace(cfg.Editor) == "" {
		cfg.Editor = "nvim"
	}
	if strings.TrimSpace(cfg.Sort) == "" {
		cfg.Sort = order.SortAlphabetical.String()
	}
}

// Load reads the config file under home and mirrors the active values into
// viper for flag overrides.
func Load(home string) (*Config, error) {
	path := GetConfigPath(home)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.ensureDefaults()
	cfg.path = path
	cfg.syncViper()
	return cfg, nil
}

// Save writes the config back to the file it was loaded from.
func (cfg *Config) Save() error {
	if cfg.path == "" {
		return fmt.Errorf("config has no backing file")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cfg.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	cfg.syncViper()
	return nil
}

func (cfg *Config) syncViper() {
	viper.Set("notesdir", cfg.NotesDir)
	viper.Set("editor", cfg.Editor)
	viper.Set("sort", cfg.Sort)
	viper.Set("ignored_folders", append([]string(nil), cfg.IgnoredFolders...))
}

// SortKey returns the configured secondary sort key.
func (cfg *Config) SortKey() order.SortKey {
	return order.ParseSortKey(cfg.Sort)
}

// PinsFor returns a copy of the ordered pin list for a directory.
func (cfg *Config) PinsFor(dir string) []string {
	return append([]string(nil), cfg.Pins[dir]...)
}

// AddPin appends a filename to a directory's pin list.
func (cfg *Config) AddPin(dir, filename string) error {
	if filename == "" {
		return fmt.Errorf("filename must be provided")
	}
	for _, name := range cfg.Pins[dir] {
		if name == filename {
			return fmt.Errorf("%q is already pinned", filename)
		}
	}
	cfg.Pins[dir] = append(cfg.Pins[dir], filename)
	return nil
}

// RemovePin drops a filename from a directory's pin list, preserving the
// order of the remaining pins.
func (cfg *Config) RemovePin(dir, filename string) error {
	pins := cfg.Pins[dir]
	for i, name := range pins {
		if name == filename {
			cfg.Pins[dir] = append(pins[:i:i], pins[i+1:]...)
			if len(cfg.Pins[dir]) == 0 {
				delete(cfg.Pins, dir)
			}
			return nil
		}
	}
	return fmt.Errorf("%q is not pinned", filename)
}

// TogglePin pins or unpins a filename and reports whether it is now pinned.
func (cfg *Config) TogglePin(dir, filename string) (bool, error) {
	for _, name := range cfg.Pins[dir] {
		if name == filename {
			return false, cfg.RemovePin(dir, filename)
		}
	}
	return true, cfg.AddPin(dir, filename)
}
