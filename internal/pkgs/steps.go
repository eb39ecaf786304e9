package pkgs

import (
	"github.com/harborworks/shipshape/internal/config"
	"github.com/harborworks/shipshape/internal/execx"
	"github.com/harborworks/shipshape/internal/ledger"
	"github.com/harborworks/shipshape/internal/messages"
)

// Step is an idempotent post-install configuration action for one package.
// Steps run only after the engine has confirmed the tool is present, and each
// produces its own ledger entry under "<package> (<step name>)".
type Step struct {
	Name string
	Run  func(spec config.PackageSpec) (ledger.Category, string, error)
}

// StepRegistry maps package names to their post-install steps.
type StepRegistry struct {
	steps map[string][]Step
}

// NewStepRegistry creates an empty step registry.
func NewStepRegistry() *StepRegistry {
	return &StepRegistry{steps: make(map[string][]Step)}
}

// Register appends a step for the named package.
func (r *StepRegistry) Register(pkg string, step Step) {
	r.steps[pkg] = append(r.steps[pkg], step)
}

// For returns the registered steps for the named package in registration order.
func (r *StepRegistry) For(pkg string) []Step {
	return r.steps[pkg]
}

// DefaultSteps returns the built-in step registry: currently the git
// committer identity step.
func DefaultSteps(runner execx.Runner) *StepRegistry {
	reg := NewStepRegistry()
	reg.Register("git", GitIdentityStep(runner))
	return reg
}

// GitIdentityStep converges git's global user.name toward the identity
// declared on the package spec. Reading before writing keeps the step
// idempotent: an identity that already matches yields Current with no
// mutation.
func GitIdentityStep(runner execx.Runner) Step {
	return Step{
		Name: messages.PkgStepGitIdentity,
		Run: func(spec config.PackageSpec) (ledger.Category, string, error) {
			if spec.Identity == "" {
				return ledger.Skipped, messages.PkgStepNoIdentity, nil
			}
			current, err := runner.Output("git", "config", "--global", "user.name")
			if err == nil && current == spec.Identity {
				return ledger.Current, spec.Identity, nil
			}
			if err := runner.Run("git", "config", "--global", "user.name", spec.Identity); err != nil {
				return ledger.Failed, "", err
			}
			return ledger.Updated, spec.Identity, nil
		},
	}
}
