package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/harborworks/shipshape/internal/messages"
)

// EnvConfigPath names the environment variable that overrides the config location.
const EnvConfigPath = "SHIPSHAPE_CONFIG"

// DefaultConfigPath is the system-wide desired-state location.
const DefaultConfigPath = "/etc/shipshape/config.toml"

// DefaultRunRecordName is the run record file name placed next to the config.
const DefaultRunRecordName = "runs.log"

// ResolveConfigPath picks the config location: the explicit flag value wins,
// then SHIPSHAPE_CONFIG, then the system default. A leading ~ is expanded.
func ResolveConfigPath(flagValue string) (string, error) {
	candidate := strings.TrimSpace(flagValue)
	if candidate == "" {
		candidate = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if candidate == "" {
		candidate = DefaultConfigPath
	}
	expanded, err := homedir.Expand(candidate)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigExpandHomeErrFmt, candidate, err)
	}
	return expanded, nil
}

// RunRecordPath returns where the run record should be appended for this state:
// the configured override when set, else runs.log next to the config file.
func (d *DesiredState) RunRecordPath() (string, error) {
	if override := strings.TrimSpace(d.Config.Run.RecordPath); override != "" {
		expanded, err := homedir.Expand(override)
		if err != nil {
			return "", fmt.Errorf(messages.ConfigExpandHomeErrFmt, override, err)
		}
		return expanded, nil
	}
	return filepath.Join(filepath.Dir(d.Path), DefaultRunRecordName), nil
}
