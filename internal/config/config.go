package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings is the persisted offload configuration. Every field has a default,
// so a missing or unreadable file never blocks a copy session.
type Settings struct {
	OutputDir          string   `toml:"output_dir"`
	PriorityExtensions []string `toml:"priority_extensions"`
	DisabledExtensions []string `toml:"disabled_extensions"`
	EnablePriority     bool     `toml:"enable_priority"`
	CopyOnlyPriority   bool     `toml:"copy_only_priority"`
	SkipPrompts        bool     `toml:"skip_prompts"`

	Notifications Notifications `toml:"notifications"`
}

// Notifications selects which desktop notifications fire during a session.
type Notifications struct {
	AfterAllTransfers  bool `toml:"after_all_transfers"`
	AfterEveryPriority bool `toml:"after_every_priority"`
	AfterFirstPriority bool `toml:"after_first_priority"`
	AfterLastPriority  bool `toml:"after_last_priority"`
}

// Default returns the settings written on first run.
func Default() Settings {
	out := "Downloads"
	if home, err := os.UserHomeDir(); err == nil {
		out = filepath.Join(home, "Downloads")
	}
	return Settings{
		OutputDir:          out,
		PriorityExtensions: []string{".jpg", ".cr2"},
		DisabledExtensions: []string{},
		EnablePriority:     true,
		Notifications: Notifications{
			AfterAllTransfers: true,
		},
	}
}

// Path returns the resolved path to the config file.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "offload", "config.toml")
}

// Load reads the config file from the XDG path. A missing or unparseable
// file is replaced with defaults, which are written back so the user has a
// file to edit.
func Load() (Settings, error) {
	return loadFrom(Path())
}

func loadFrom(path string) (Settings, error) {
	if path == "" {
		return Default(), nil
	}

	var s Settings
	if _, err := toml.DecodeFile(path, &s); err != nil {
		s = Default()
		if werr := saveTo(path, s); werr != nil {
			return s, fmt.Errorf("write default config: %w", werr)
		}
		return s, nil
	}
	return s, nil
}

// Save writes the settings to the XDG config path.
func Save(s Settings) error {
	return saveTo(Path(), s)
}

func saveTo(path string, s Settings) error {
	if path == "" {
		return fmt.Errorf("no config path available")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(s)
}
