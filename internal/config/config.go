// Package config loads and persists user and core settings, merging a
// global file in the user's home directory with a repository-local file
// that takes precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the settings read from the global and repository config
// files.
type Config struct {
	User  UserConfig  `json:"user"`
	Core  CoreConfig  `json:"core"`
	Color ColorConfig `json:"color"`
}

// UserConfig holds the identity recorded on commits.
type UserConfig struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CoreConfig holds general settings.
type CoreConfig struct {
	Editor string `json:"editor,omitempty"`
	Pager  string `json:"pager,omitempty"`
}

// ColorConfig controls which categories of output are colorized.
type ColorConfig struct {
	UI     bool `json:"ui"`
	Status bool `json:"status"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		User: UserConfig{},
		Core: CoreConfig{
			Editor: os.Getenv("EDITOR"),
			Pager:  os.Getenv("PAGER"),
		},
		Color: ColorConfig{
			UI:     true,
			Status: true,
		},
	}
}

// globalConfigPath returns the path to the global config file.
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".svcsconfig"), nil
}

// repoConfigPath returns the path to the repository config file.
func repoConfigPath() string {
	return filepath.Join(".svcs", "config")
}

// LoadConfig loads configuration from both global and repository config
// files. Repository config takes precedence over global config.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	if globalPath, err := globalConfigPath(); err == nil {
		if data, err := os.ReadFile(globalPath); err == nil {
			var globalCfg Config
			if err := json.Unmarshal(data, &globalCfg); err == nil {
				mergeConfig(cfg, &globalCfg)
			}
		}
	}

	repoPath := repoConfigPath()
	if data, err := os.ReadFile(repoPath); err == nil {
		var repoCfg Config
		if err := json.Unmarshal(data, &repoCfg); err == nil {
			mergeConfig(cfg, &repoCfg)
		}
	}

	return cfg, nil
}

// SaveGlobalConfig writes cfg to the global config file.
func SaveGlobalConfig(cfg *Config) error {
	globalPath, err := globalConfigPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(globalPath, data, 0o644)
}

// SaveRepoConfig writes cfg to the repository config file, creating the
// control directory if absent.
func SaveRepoConfig(cfg *Config) error {
	repoPath := repoConfigPath()
	if err := os.MkdirAll(filepath.Dir(repoPath), 0o755); err != nil {
		return fmt.Errorf("failed to create .svcs directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(repoPath, data, 0o644)
}

// GetValue retrieves a configuration value by key, e.g. "user.name".
func GetValue(key string) (string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}

	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "user":
		switch field {
		case "name":
			return cfg.User.Name, nil
		case "email":
			return cfg.User.Email, nil
		default:
			return "", fmt.Errorf("unknown user config field: %s", field)
		}
	case "core":
		switch field {
		case "editor":
			return cfg.Core.Editor, nil
		case "pager":
			return cfg.Core.Pager, nil
		default:
			return "", fmt.Errorf("unknown core config field: %s", field)
		}
	case "color":
		switch field {
		case "ui":
			return fmt.Sprintf("%t", cfg.Color.UI), nil
		case "status":
			return fmt.Sprintf("%t", cfg.Color.Status), nil
		default:
			return "", fmt.Errorf("unknown color config field: %s", field)
		}
	default:
		return "", fmt.Errorf("unknown config section: %s", section)
	}
}

// SetValue sets a configuration value by key and persists it, either
// globally or to the repository config.
func SetValue(key, value string, global bool) error {
	cfg := loadForWrite(global)

	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "user":
		switch field {
		case "name":
			cfg.User.Name = value
		case "email":
			cfg.User.Email = value
		default:
			return fmt.Errorf("unknown user config field: %s", field)
		}
	case "core":
		switch field {
		case "editor":
			cfg.Core.Editor = value
		case "pager":
			cfg.Core.Pager = value
		default:
			return fmt.Errorf("unknown core config field: %s", field)
		}
	case "color":
		switch field {
		case "ui":
			cfg.Color.UI = value == "true"
		case "status":
			cfg.Color.Status = value == "true"
		default:
			return fmt.Errorf("unknown color config field: %s", field)
		}
	default:
		return fmt.Errorf("unknown config section: %s", section)
	}

	if global {
		return SaveGlobalConfig(cfg)
	}
	return SaveRepoConfig(cfg)
}

func loadForWrite(global bool) *Config {
	path := repoConfigPath()
	if global {
		if p, err := globalConfigPath(); err == nil {
			path = p
		}
	}
	if data, err := os.ReadFile(path); err == nil {
		cfg := &Config{}
		if err := json.Unmarshal(data, cfg); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

func splitKey(key string) (section, field string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid config key: %s (expected format: section.key)", key)
	}
	return parts[0], parts[1], nil
}

// GetAuthor returns the formatted author string "Name <email>" used to
// stamp new commits.
func GetAuthor() (string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return "", err
	}
	if cfg.User.Name == "" || cfg.User.Email == "" {
		return "", fmt.Errorf("user.name and user.email not configured: run `svcs config user.name \"Your Name\"` and `svcs config user.email \"you@example.com\"`")
	}
	return fmt.Sprintf("%s <%s>", cfg.User.Name, cfg.User.Email), nil
}

// mergeConfig merges source into destination; only non-empty string fields
// from source override destination, while bool fields always merge.
func mergeConfig(dst, src *Config) {
	if src.User.Name != "" {
		dst.User.Name = src.User.Name
	}
	if src.User.Email != "" {
		dst.User.Email = src.User.Email
	}
	if src.Core.Editor != "" {
		dst.Core.Editor = src.Core.Editor
	}
	if src.Core.Pager != "" {
		dst.Core.Pager = src.Core.Pager
	}
	dst.Color.UI = src.Color.UI
	dst.Color.Status = src.Color.Status
}
