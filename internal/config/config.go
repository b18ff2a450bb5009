// ABOUTME: Configuration management for the newsense client
// ABOUTME: Loads service endpoints and reader settings from JSON, .env and environment

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvItemsURL = "NEWSENSE_ITEMS_URL"
	EnvFeedsURL = "NEWSENSE_FEEDS_URL"
	EnvToken    = "NEWSENSE_TOKEN"
	EnvConfig   = "NEWSENSE_CONFIG"
)

// Config stores newsense configuration.
type Config struct {
	// ItemsURL is the base URL of the items service.
	ItemsURL string `json:"items_url,omitempty"`

	// FeedsURL is the base URL of the feeds service, used for feed names.
	FeedsURL string `json:"feeds_url,omitempty"`

	// Token is sent as a bearer token when set.
	Token string `json:"token,omitempty"`

	// PageSize is the number of entries requested per page.
	PageSize int `json:"page_size,omitempty"`

	// Settings are the reader preferences.
	Settings Settings `json:"settings"`
}

// GetItemsURL returns the configured items URL, defaulting to the local service.
func (c *Config) GetItemsURL() string {
	if c.ItemsURL == "" {
		return DefaultItemsURL
	}
	return c.ItemsURL
}

// GetFeedsURL returns the configured feeds URL, defaulting to the local service.
func (c *Config) GetFeedsURL() string {
	if c.FeedsURL == "" {
		return DefaultFeedsURL
	}
	return c.FeedsURL
}

// GetPageSize returns the configured page size, defaulting to DefaultPageSize.
func (c *Config) GetPageSize() int {
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}

// ApplyEnv overrides endpoint fields from the environment.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvItemsURL)); v != "" {
		c.ItemsURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFeedsURL)); v != "" {
		c.FeedsURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		c.Token = v
	}
}

// LoadDotEnv loads variables from path (or ./.env when empty) without
// overriding variables already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "newsense", "config.json")
}

// Load reads config from disk, writing defaults on first run.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from path, writing defaults there if it does not exist.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{Settings: DefaultSettings()}
			if saveErr := cfg.SaveTo(path); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := Config{Settings: DefaultSettings()}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Settings = cfg.Settings.Normalized()
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config to path atomically.
func (c *Config) SaveTo(path string) error {
	c.Settings = c.Settings.Normalized()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DefaultDirPerms); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(DefaultFilePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
