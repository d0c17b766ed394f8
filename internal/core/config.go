package core

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config stores the workspace connection settings.
type Config struct {
	Version     int    `json:"version"`
	BackendURL  string `json:"backend_url"`
	Token       string `json:"token"`
	WorkspaceID string `json:"workspace_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	FeedURL     string `json:"feed_url,omitempty"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "trousseau", "config.json"), nil
}

func ensureConfigDir() (string, error) {
	path, err := configPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// ReadConfig reads the config file if present. Returns nil without error
// when no config exists yet.
func ReadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// WriteConfig writes the config to disk.
func WriteConfig(config Config) error {
	path, err := ensureConfigDir()
	if err != nil {
		return err
	}
	if config.Version == 0 {
		config.Version = 1
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ApplyEnv overlays TROUSSEAU_* environment variables on the config.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TROUSSEAU_BACKEND_URL"); v != "" {
		c.BackendURL = v
	}
	if v := os.Getenv("TROUSSEAU_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("TROUSSEAU_WORKSPACE"); v != "" {
		c.WorkspaceID = v
	}
	if v := os.Getenv("TROUSSEAU_FEED_URL"); v != "" {
		c.FeedURL = v
	}
}
