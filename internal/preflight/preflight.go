// Package preflight gates reconciliation behind host environment checks.
// All checks run before anything mutates, so a failed preflight leaves the
// host untouched.
package preflight

import (
	"fmt"
	"os"
	"strings"

	"github.com/harborworks/shipshape/internal/messages"
)

// Status is the outcome of a single check.
type Status int

const (
	StatusOK Status = iota
	StatusFail
)

// Result is the outcome of one preflight check.
type Result struct {
	Status         Status
	CheckName      string
	Message        string
	Recommendation string
}

// OSReleasePath is where the distribution identifies itself.
const OSReleasePath = "/etc/os-release"

var (
	geteuidFunc   = os.Geteuid
	osReleasePath = OSReleasePath
)

// aptFamilies are the os-release IDs (and ID_LIKE members) that carry apt.
var aptFamilies = map[string]bool{"debian": true, "ubuntu": true}

// Run executes every check against the given config path and returns all
// results. Passed reports whether every check succeeded.
func Run(configPath string) (results []Result, passed bool) {
	results = append(results, CheckRoot())
	results = append(results, CheckOSFamily())
	results = append(results, CheckConfigExists(configPath))
	passed = true
	for _, result := range results {
		if result.Status != StatusOK {
			passed = false
		}
	}
	return results, passed
}

// CheckRoot verifies the process runs with root privileges. Package installs
// and fstab writes need them.
func CheckRoot() Result {
	if geteuidFunc() != 0 {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.PreflightCheckRoot,
			Message:        messages.PreflightRequiresRoot,
			Recommendation: "sudo shipshape apply",
		}
	}
	return Result{Status: StatusOK, CheckName: messages.PreflightCheckRoot}
}

// CheckOSFamily verifies the host is an apt-based distribution by reading
// ID and ID_LIKE from os-release.
func CheckOSFamily() Result {
	data, err := os.ReadFile(osReleasePath)
	if err != nil {
		return Result{
			Status:    StatusFail,
			CheckName: messages.PreflightCheckOS,
			Message:   fmt.Sprintf(messages.PreflightOSReleaseFmt, osReleasePath, err),
		}
	}
	id, idLike := parseOSRelease(string(data))
	for _, candidate := range append([]string{id}, idLike...) {
		if aptFamilies[candidate] {
			return Result{Status: StatusOK, CheckName: messages.PreflightCheckOS}
		}
	}
	return Result{
		Status:    StatusFail,
		CheckName: messages.PreflightCheckOS,
		Message:   fmt.Sprintf(messages.PreflightNotAptFmt, id),
	}
}

// CheckConfigExists verifies the desired-state config file is present.
func CheckConfigExists(configPath string) Result {
	if _, err := os.Stat(configPath); err != nil {
		return Result{
			Status:         StatusFail,
			CheckName:      messages.PreflightCheckConfig,
			Message:        fmt.Sprintf(messages.PreflightNoConfigFmt, configPath),
			Recommendation: "shipshape discover <server> can draft one",
		}
	}
	return Result{Status: StatusOK, CheckName: messages.PreflightCheckConfig}
}

// parseOSRelease extracts ID and ID_LIKE. Values may be quoted; ID_LIKE is a
// space-separated list ("ID_LIKE=\"ubuntu debian\"").
func parseOSRelease(content string) (id string, idLike []string) {
	for _, line := range strings.Split(content, "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found {
			continue
		}
		value = strings.Trim(value, `"'`)
		switch key {
		case "ID":
			id = value
		case "ID_LIKE":
			idLike = strings.Fields(value)
		}
	}
	return id, idLike
}
