package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const configFileName = "config.toml"

// GlobalConfig is ~/.qbank/config.toml. Flags and QBANK_* env vars take
// precedence over anything set here.
type GlobalConfig struct {
	// User is the current user id; projects are scoped to it.
	User string `toml:"user,omitempty" json:"user,omitempty"`

	// Server is the base URL of a running `qbank serve`. When empty the CLI/TUI
	// open the SQLite database in DataDir directly.
	Server string `toml:"server,omitempty" json:"server,omitempty"`

	// DataDir holds qbank.sqlite (default: ~/.qbank/data).
	DataDir string `toml:"data_dir,omitempty" json:"data_dir,omitempty"`

	Log LogConfig `toml:"log" json:"log"`
	TUI TUIConfig `toml:"tui" json:"tui"`
}

type LogConfig struct {
	// Level is one of debug|info|warn|error.
	Level string `toml:"level,omitempty" json:"level,omitempty"`
	// File receives logs in TUI mode (stdout belongs to the TUI there).
	File string `toml:"file,omitempty" json:"file,omitempty"`
}

type TUIConfig struct {
	// Theme is light|dark|auto.
	Theme string `toml:"theme,omitempty" json:"theme,omitempty"`
}

func DefaultConfig() GlobalConfig {
	return GlobalConfig{
		Log: LogConfig{Level: "warn"},
		TUI: TUIConfig{Theme: "auto"},
	}
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.qbank).
	if v := strings.TrimSpace(os.Getenv("QBANK_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".qbank"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadConfig returns DefaultConfig overlaid with the config file, if any.
func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return &cfg, nil
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, configFileName+".*.tmp", path, b, 0o600)
}

// ResolvedDataDir returns DataDir with ~ expanded, or the default data dir.
func (c GlobalConfig) ResolvedDataDir() (string, error) {
	dir := strings.TrimSpace(c.DataDir)
	if dir == "" {
		return DefaultDir()
	}
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, dir[2:]), nil
	}
	return dir, nil
}
