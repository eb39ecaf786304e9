// Package version validates and normalizes release version strings.
package version

import (
	"fmt"
	"regexp"
	"strings"
)

// DevVersion is the version reported by builds without release metadata.
const DevVersion = "dev"

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// IsDev reports whether raw identifies an unreleased build.
func IsDev(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return trimmed == "" || trimmed == DevVersion || trimmed == "(devel)"
}

// Normalize strips a leading "v" and validates the X.Y.Z form.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "v")
	if !semverPattern.MatchString(trimmed) {
		return "", fmt.Errorf("version %q is not in X.Y.Z form", raw)
	}
	return trimmed, nil
}
