// Package pkgs classifies installed packages and reconciles them against the
// desired state using a fixed decision table.
package pkgs

import (
	"strings"

	"github.com/harborworks/shipshape/internal/execx"
)

// State is the observed condition of a named package.
type State int

const (
	// Absent means the package is not installed.
	Absent State = iota
	// CurrentVersion means the installed version matches the repository candidate.
	CurrentVersion
	// UpgradeAvailable means the repository offers a newer candidate.
	UpgradeAvailable
)

// String returns a short state label.
func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case CurrentVersion:
		return "current"
	case UpgradeAvailable:
		return "upgrade available"
	default:
		return "unknown"
	}
}

// Classification is the classifier output for one package. It is computed
// fresh per query and never cached across packages.
type Classification struct {
	State State
	// Installed is the installed version, empty when absent.
	Installed string
	// Candidate is the repository candidate version, empty when unresolvable.
	Candidate string
}

// Classifier inspects the local package database and repository metadata.
type Classifier interface {
	Classify(name string) Classification
}

// DpkgClassifier queries dpkg for the installed version and apt for the
// repository candidate. It is read-only and fails safe toward inaction: an
// unresolvable candidate is treated as "no upgrade available", never as a
// spurious upgrade.
type DpkgClassifier struct {
	Runner execx.Runner
}

// Classify returns the observed state of the named package.
func (c DpkgClassifier) Classify(name string) Classification {
	out, err := c.Runner.Output("dpkg-query", "-W", "-f", "${db:Status-Status} ${Version}", name)
	if err != nil {
		// dpkg-query exits non-zero for unknown packages.
		return Classification{State: Absent}
	}
	status, installed, found := strings.Cut(strings.TrimSpace(out), " ")
	if !found || status != "installed" || installed == "" {
		return Classification{State: Absent}
	}

	candidate := c.candidateVersion(name)
	if candidate == "" || candidate == installed {
		return Classification{State: CurrentVersion, Installed: installed, Candidate: candidate}
	}
	return Classification{State: UpgradeAvailable, Installed: installed, Candidate: candidate}
}

// candidateVersion parses the Candidate line from apt-cache policy output.
// Returns "" when the candidate cannot be resolved.
func (c DpkgClassifier) candidateVersion(name string) string {
	out, err := c.Runner.Output("apt-cache", "policy", name)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		value, ok := strings.CutPrefix(trimmed, "Candidate:")
		if !ok {
			continue
		}
		candidate := strings.TrimSpace(value)
		if candidate == "(none)" {
			return ""
		}
		return candidate
	}
	return ""
}
