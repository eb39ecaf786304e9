// Package config loads and validates the declarative desired state.
//
// The desired state is a single TOML file: a table of named package flags and
// a mounts section holding either explicit 4-field mount records or a server
// address that triggers automatic export discovery. Mount records are parsed
// here, once, at the boundary; downstream code only ever sees MountSpec values.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/harborworks/shipshape/internal/messages"
)

// ErrConfigValidation is a sentinel that wraps config validation failures
// (as opposed to TOML syntax or filesystem errors). Callers can use
// errors.Is(err, ErrConfigValidation) to distinguish validation problems
// from other loading failure modes.
var ErrConfigValidation = errors.New("config validation failed")

// Config mirrors the TOML structure of the desired-state file.
type Config struct {
	Packages map[string]PackageConfig `toml:"packages"`
	Mounts   MountsConfig             `toml:"mounts"`
	Run      RunConfig                `toml:"run"`
}

// PackageConfig declares the desired state for one named package.
type PackageConfig struct {
	Enabled bool `toml:"enabled"`
	// Identity is an optional per-package parameter consumed by post-install
	// configuration steps (e.g. the git committer identity).
	Identity string `toml:"identity,omitempty"`
}

// MountsConfig declares the desired mount list.
type MountsConfig struct {
	// Base is the directory under which discovery suggests mount points.
	Base string `toml:"base,omitempty"`
	// Server, when set and Entries is empty, triggers automatic export
	// discovery against that address on apply.
	Server string `toml:"server,omitempty"`
	// Entries holds server:remote:local:options mount records.
	Entries []string `toml:"entries,omitempty"`
}

// RunConfig holds run-record settings.
type RunConfig struct {
	// RecordPath overrides where the appended run record lives.
	// Empty means runs.log next to the config file.
	RecordPath string `toml:"record_path,omitempty"`
}

// PackageSpec is the per-run, immutable declaration for one package.
type PackageSpec struct {
	Name     string
	Enabled  bool
	Identity string
}

// DesiredState is the fully parsed desired-state input for one run.
type DesiredState struct {
	Config Config
	// Path is the resolved config file location.
	Path string
	// Packages lists declared packages sorted by name for deterministic runs.
	Packages []PackageSpec
	// Mounts holds the parsed explicit mount records in declaration order.
	Mounts []MountSpec
}

// DefaultMountBase is used when mounts.base is unset.
const DefaultMountBase = "/mnt"

// packageNamePattern matches dpkg-legal package names.
var packageNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9+.-]*$`)

// Validate checks cross-field constraints that TOML decoding cannot express.
// source is used in error messages.
func (c *Config) Validate(source string) error {
	if len(c.Packages) == 0 && len(c.Mounts.Entries) == 0 && strings.TrimSpace(c.Mounts.Server) == "" {
		return fmt.Errorf("%s: %s", source, messages.ConfigNoPackagesOrMounts)
	}
	for name := range c.Packages {
		if !packageNamePattern.MatchString(name) {
			return fmt.Errorf("%s: "+messages.ConfigPackageNameFmt, source, name)
		}
	}
	if base := strings.TrimSpace(c.Mounts.Base); base != "" && !strings.HasPrefix(base, "/") && !strings.HasPrefix(base, "~") {
		return fmt.Errorf("%s: %s", source, messages.ConfigMountBaseRelative)
	}
	seen := make(map[string]string, len(c.Mounts.Entries))
	for _, record := range c.Mounts.Entries {
		spec, err := ParseMountRecord(record)
		if err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
		key := spec.Identity()
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("%s: "+messages.ConfigMountRecordDupFmt, source, key, prev)
		}
		seen[key] = record
	}
	return nil
}

// MountBase returns the configured mount base or the default.
func (c *Config) MountBase() string {
	if base := strings.TrimSpace(c.Mounts.Base); base != "" {
		return base
	}
	return DefaultMountBase
}

// packageSpecs converts the package table into a sorted spec slice.
func (c *Config) packageSpecs() []PackageSpec {
	specs := make([]PackageSpec, 0, len(c.Packages))
	for name, pkg := range c.Packages {
		specs = append(specs, PackageSpec{Name: name, Enabled: pkg.Enabled, Identity: pkg.Identity})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// mountSpecs parses the declared mount records in order.
// Validate has already rejected malformed records, so parse errors here are
// propagated defensively rather than expected.
func (c *Config) mountSpecs() ([]MountSpec, error) {
	specs := make([]MountSpec, 0, len(c.Mounts.Entries))
	for _, record := range c.Mounts.Entries {
		spec, err := ParseMountRecord(record)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
