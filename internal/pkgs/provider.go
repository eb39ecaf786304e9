package pkgs

import (
	"fmt"
	"strings"

	"github.com/harborworks/shipshape/internal/execx"
	"github.com/harborworks/shipshape/internal/messages"
)

// Provider performs the actual install/upgrade mechanics for one package.
// Providers are pluggable per package so vendor-specific recipes (key
// fetching, archive downloads) can replace the default package manager.
type Provider interface {
	Install(name string) error
	Upgrade(name string) error
	// CurrentVersion returns the installed version, or "unknown" when it
	// cannot be resolved.
	CurrentVersion(name string) string
}

// AptProvider drives apt-get non-interactively.
type AptProvider struct {
	Runner execx.Runner
}

// Install installs the named package.
func (p AptProvider) Install(name string) error {
	if err := p.Runner.Run("apt-get", "install", "-y", name); err != nil {
		return fmt.Errorf(messages.PkgInstallFailedFmt, name, err)
	}
	return nil
}

// Upgrade upgrades the named package without pulling in new packages.
func (p AptProvider) Upgrade(name string) error {
	if err := p.Runner.Run("apt-get", "install", "--only-upgrade", "-y", name); err != nil {
		return fmt.Errorf(messages.PkgUpgradeFailedFmt, name, err)
	}
	return nil
}

// CurrentVersion returns the installed version of the named package.
func (p AptProvider) CurrentVersion(name string) string {
	out, err := p.Runner.Output("dpkg-query", "-W", "-f", "${Version}", name)
	if err != nil || strings.TrimSpace(out) == "" {
		return messages.PkgVersionUnknown
	}
	return strings.TrimSpace(out)
}

// Registry resolves the provider for a package, falling back to a default.
type Registry struct {
	fallback  Provider
	overrides map[string]Provider
}

// NewRegistry creates a registry with the given default provider.
func NewRegistry(fallback Provider) *Registry {
	return &Registry{fallback: fallback, overrides: make(map[string]Provider)}
}

// Register installs a per-package provider override.
func (r *Registry) Register(name string, p Provider) {
	r.overrides[name] = p
}

// For returns the provider responsible for the named package.
func (r *Registry) For(name string) Provider {
	if p, ok := r.overrides[name]; ok {
		return p
	}
	return r.fallback
}
