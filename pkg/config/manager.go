package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manager loads and validates AppConfig values
type Manager struct {
	lookupEnv func(string) (string, bool)
}

// NewManager creates a manager that reads the process environment
func NewManager() *Manager {
	return &Manager{lookupEnv: os.LookupEnv}
}

// Override adjusts a loaded configuration before validation, typically
// from command line flags.
type Override func(*AppConfig)

// Load builds the configuration in order: defaults, the config file (when
// path is set), environment variables, then overrides. The env file, when
// set, is loaded first and never replaces variables already in the
// environment.
func (m *Manager) Load(path, envFile string, overrides ...Override) (*AppConfig, error) {
	if err := LoadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg := DefaultAppConfig()
	if path != "" {
		if err := m.loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := m.ApplyEnv(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	for _, o := range overrides {
		o(cfg)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (m *Manager) loadFromFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".yaml", ".yml":
	default:
		return fmt.Errorf("unsupported config format %q (use .json, .yaml or .yml)", ext)
	}
	return Decode(bytes.NewReader(data), cfg)
}

// Decode overlays a JSON or YAML document onto cfg. yaml.v3 reads JSON as
// well, which lets both formats write durations as "30s". Unknown fields
// are rejected.
func Decode(r io.Reader, cfg *AppConfig) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("could not parse config: %w", err)
	}
	return nil
}

// Encode writes cfg as YAML.
func Encode(w io.Writer, cfg *AppConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
