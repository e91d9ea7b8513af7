package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the optional per-device config file at <data>/config.yaml.
type Settings struct {
	Theme          string `yaml:"theme"`
	Token          string `yaml:"token"`
	TokenFile      string `yaml:"token_file"`
	ProviderBinary string `yaml:"provider_binary"`
}

type Config struct {
	DataDir   string
	CachePath string
	DBPath    string
	Settings  Settings
}

func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Config{
		DataDir:   dataDir,
		CachePath: filepath.Join(dataDir, "stats.json"),
		DBPath:    filepath.Join(dataDir, "pomo.db"),
	}
	settings, err := loadSettings(filepath.Join(dataDir, "config.yaml"))
	if err != nil {
		return Config{}, err
	}
	cfg.Settings = settings
	return cfg, nil
}

func loadSettings(path string) (Settings, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("read config: %w", err)
	}
	settings := Settings{}
	if err := yaml.Unmarshal(payload, &settings); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	return settings, nil
}

// Credential resolves the remote-store bearer token. An inline token wins
// over a token file. Returns "" when neither is configured.
func (c Config) Credential() (string, error) {
	if token := strings.TrimSpace(c.Settings.Token); token != "" {
		return token, nil
	}
	if c.Settings.TokenFile == "" {
		return "", nil
	}
	payload, err := os.ReadFile(c.Settings.TokenFile)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(payload)), nil
}

// DarkScheme reports whether the dark heatmap palette should be used.
// Dark is the default; only an explicit "light" switches.
func (c Config) DarkScheme() bool {
	return !strings.EqualFold(strings.TrimSpace(c.Settings.Theme), "light")
}
