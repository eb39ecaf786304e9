package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/harborworks/shipshape/internal/messages"
)

// Load reads and validates the desired state from path.
func Load(path string) (*DesiredState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	cfg, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	return newDesiredState(cfg, path)
}

// LoadLenient reads the desired state from path without validation.
// Returns an error only on filesystem or TOML syntax errors. Suitable for
// repair paths (discovery save, status) that must work with partial configs.
func LoadLenient(path string) (*DesiredState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	cfg, err := ParseLenient(data, path)
	if err != nil {
		return nil, err
	}
	return newDesiredState(cfg, path)
}

// Parse parses and validates config TOML data.
// data is the TOML content; source is used in error messages.
func Parse(data []byte, source string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt, ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return &cfg, nil
}

// ParseLenient parses config TOML data without validation.
func ParseLenient(data []byte, source string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	return &cfg, nil
}

// decodeStrict re-decodes the TOML data with strict unknown-field rejection.
// This catches keys that toml.Unmarshal silently ignores (e.g. a typoed
// "enable" under a package table).
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}

// newDesiredState derives the per-run spec slices from a parsed config.
func newDesiredState(cfg *Config, path string) (*DesiredState, error) {
	mounts, err := cfg.mountSpecs()
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &DesiredState{
		Config:   *cfg,
		Path:     path,
		Packages: cfg.packageSpecs(),
		Mounts:   mounts,
	}, nil
}
