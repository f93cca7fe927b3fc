// Package config provides configuration loading and structs for the embedsvc server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug  bool         `yaml:"debug"`
	Server ServerConfig `yaml:"server"`
	Model  ModelConfig  `yaml:"model"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ModelConfig holds embedding model settings.
type ModelConfig struct {
	// Name is the model identifier reported by the API and checked against
	// the "model" field of incoming requests.
	Name string `yaml:"name"`
	// Repository is the Hugging Face repository to download the model from
	// when Path is empty.
	Repository string `yaml:"repository"`
	// Path points at a local ONNX model directory. When set, no download happens.
	Path string `yaml:"path"`
	// CacheDir is where downloaded models are stored.
	CacheDir string `yaml:"cache_dir"`
	// Dimensions is the expected embedding width. Zero means accept whatever
	// the model produces.
	Dimensions int `yaml:"dimensions"`
	// CacheSize bounds the embedding cache. Zero means the default, negative
	// disables caching.
	CacheSize int `yaml:"cache_size"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	if cfg.Model.Path != "" {
		cfg.Model.Path = expandPath(cfg.Model.Path, configDir)
	}
	cfg.Model.CacheDir = expandPath(cfg.Model.CacheDir, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
