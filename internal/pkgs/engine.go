package pkgs

import (
	"fmt"

	"github.com/harborworks/shipshape/internal/config"
	"github.com/harborworks/shipshape/internal/ledger"
	"github.com/harborworks/shipshape/internal/messages"
)

// Engine applies the package decision table and records exactly one result
// per spec. A failed package never aborts the run; the caller keeps feeding
// specs and the ledger accumulates a full picture.
type Engine struct {
	Classifier Classifier
	Providers  *Registry
	Steps      *StepRegistry
}

// Reconcile converges one package toward its declared state, appends its
// result (and any post-install step results) to led, and returns the
// package's own result.
//
// Decision table, in order:
//  1. disabled spec        -> Skipped, no provider call
//  2. absent               -> install; Installed or Failed
//  3. upgrade available    -> upgrade; Updated ("old -> new") or Failed
//  4. current version      -> Current, no provider call
func (e *Engine) Reconcile(spec config.PackageSpec, led *ledger.Ledger) ledger.Result {
	result := e.decide(spec)
	led.Add(result)
	if result.Category != ledger.Skipped && result.Category != ledger.Failed {
		e.runSteps(spec, led)
	}
	return result
}

// decide evaluates the decision table for one spec.
func (e *Engine) decide(spec config.PackageSpec) ledger.Result {
	if !spec.Enabled {
		return ledger.Result{Item: spec.Name, Category: ledger.Skipped, Detail: messages.PkgDisabledDetail}
	}

	provider := e.Providers.For(spec.Name)
	cls := e.Classifier.Classify(spec.Name)
	switch cls.State {
	case Absent:
		if err := provider.Install(spec.Name); err != nil {
			return ledger.Result{Item: spec.Name, Category: ledger.Failed, Detail: err.Error()}
		}
		return ledger.Result{Item: spec.Name, Category: ledger.Installed, Detail: provider.CurrentVersion(spec.Name)}
	case UpgradeAvailable:
		if err := provider.Upgrade(spec.Name); err != nil {
			return ledger.Result{Item: spec.Name, Category: ledger.Failed, Detail: err.Error()}
		}
		detail := fmt.Sprintf(messages.PkgUpgradeDetailFmt, cls.Installed, cls.Candidate)
		return ledger.Result{Item: spec.Name, Category: ledger.Updated, Detail: detail}
	default:
		return ledger.Result{Item: spec.Name, Category: ledger.Current, Detail: cls.Installed}
	}
}

// runSteps executes the post-install steps registered for the spec's package.
// Steps only run once the tool is known to be present; each yields its own
// ledger entry and never alters the package's own result.
func (e *Engine) runSteps(spec config.PackageSpec, led *ledger.Ledger) {
	if e.Steps == nil {
		return
	}
	for _, step := range e.Steps.For(spec.Name) {
		item := fmt.Sprintf(messages.PkgStepItemFmt, spec.Name, step.Name)
		category, detail, err := step.Run(spec)
		if err != nil {
			led.Add(ledger.Result{Item: item, Category: ledger.Failed, Detail: err.Error()})
			continue
		}
		led.Add(ledger.Result{Item: item, Category: category, Detail: detail})
	}
}
