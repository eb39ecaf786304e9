package mounts

import (
	"fmt"
	"os"

	"github.com/harborworks/shipshape/internal/config"
	"github.com/harborworks/shipshape/internal/execx"
	"github.com/harborworks/shipshape/internal/ledger"
	"github.com/harborworks/shipshape/internal/messages"
)

// State classifies where a desired mount stands before reconciliation.
type State int

const (
	// StateAbsent means the export is neither mounted nor recorded.
	StateAbsent State = iota
	// StateMountedCorrectly means the export is live at the desired path.
	StateMountedCorrectly
	// StateMountedElsewhere means the export is live at some other path.
	StateMountedElsewhere
	// StateRecorded means fstab carries the entry but the mount is not active.
	StateRecorded
)

// Outcome is the terminal result of reconciling one mount spec.
type Outcome struct {
	State    State
	Category ledger.Category
	Detail   string
}

// Reconciler converges the live mount table and the persisted table toward
// the desired mounts. Each spec reconciles independently: a failure is
// recorded and the next spec proceeds.
type Reconciler struct {
	TablePath string
	Fstab     *Fstab
	Runner    execx.Runner
	// mkdirAllFunc is swapped in tests.
	mkdirAllFunc func(string, os.FileMode) error
}

// NewReconciler returns a reconciler over the live system tables.
func NewReconciler(runner execx.Runner) *Reconciler {
	return &Reconciler{
		TablePath:    DefaultTablePath,
		Fstab:        NewFstab(DefaultFstabPath),
		Runner:       runner,
		mkdirAllFunc: os.MkdirAll,
	}
}

// ReconcileAll converges every desired mount and records one ledger entry per
// spec. Specs sharing an identity converge on the first occurrence; the later
// duplicates observe the first one's mount in the reloaded live table.
func (r *Reconciler) ReconcileAll(specs []config.MountSpec, led *ledger.Ledger) {
	for _, spec := range specs {
		r.Reconcile(spec, led)
	}
}

// Reconcile converges one desired mount and records its outcome.
//
// The decision order is fixed: a live mount of the same export anywhere
// satisfies the spec; a persisted entry whose mount point is active satisfies
// it; otherwise the mount is established (directory, fstab entry if missing,
// then the mount call).
func (r *Reconciler) Reconcile(spec config.MountSpec, led *ledger.Ledger) Outcome {
	outcome := r.reconcile(spec)
	led.Add(ledger.Result{Item: spec.Identity(), Category: outcome.Category, Detail: outcome.Detail})
	return outcome
}

func (r *Reconciler) reconcile(spec config.MountSpec) Outcome {
	table, err := LoadTable(r.TablePath)
	if err != nil {
		return Outcome{State: StateAbsent, Category: ledger.Failed, Detail: err.Error()}
	}

	if actual, mounted := table.FindRemote(spec.Server, spec.RemotePath); mounted {
		if actual == spec.MountPoint {
			return Outcome{State: StateMountedCorrectly, Category: ledger.Current, Detail: messages.MountSatisfiedDetail}
		}
		return Outcome{
			State:    StateMountedElsewhere,
			Category: ledger.Current,
			Detail:   fmt.Sprintf(messages.MountSatisfiedElsewhereFmt, actual),
		}
	}

	recorded, err := r.Fstab.HasEntry(spec.Server, spec.RemotePath)
	if err != nil {
		return Outcome{State: StateAbsent, Category: ledger.Failed, Detail: err.Error()}
	}
	if recorded && table.IsMountPoint(spec.MountPoint) {
		return Outcome{State: StateMountedCorrectly, Category: ledger.Current, Detail: messages.MountSatisfiedDetail}
	}

	if recorded {
		// The entry survives from an earlier run; only the mount call is
		// missing. Directory creation and the table write are skipped.
		if err := r.mount(spec); err != nil {
			return Outcome{State: StateRecorded, Category: ledger.Failed, Detail: err.Error()}
		}
		return Outcome{
			State:    StateRecorded,
			Category: ledger.Updated,
			Detail:   fmt.Sprintf(messages.MountedDetailFmt, spec.MountPoint),
		}
	}

	if err := r.mkdirAll(spec.MountPoint); err != nil {
		return Outcome{State: StateAbsent, Category: ledger.Failed, Detail: err.Error()}
	}
	if err := r.Fstab.Append(spec); err != nil {
		return Outcome{State: StateAbsent, Category: ledger.Failed, Detail: err.Error()}
	}
	if err := r.mount(spec); err != nil {
		// The fstab entry stays: nofail lets boot retry the mount later.
		return Outcome{State: StateAbsent, Category: ledger.Failed, Detail: err.Error()}
	}
	return Outcome{
		State:    StateAbsent,
		Category: ledger.Installed,
		Detail:   fmt.Sprintf(messages.MountedDetailFmt, spec.MountPoint),
	}
}

// Inspect classifies a mount spec without changing anything. The detail
// mirrors what Reconcile would report for an already-satisfied spec.
func (r *Reconciler) Inspect(spec config.MountSpec) (State, string, error) {
	table, err := LoadTable(r.TablePath)
	if err != nil {
		return StateAbsent, "", err
	}
	if actual, mounted := table.FindRemote(spec.Server, spec.RemotePath); mounted {
		if actual == spec.MountPoint {
			return StateMountedCorrectly, messages.MountSatisfiedDetail, nil
		}
		return StateMountedElsewhere, fmt.Sprintf(messages.MountSatisfiedElsewhereFmt, actual), nil
	}
	recorded, err := r.Fstab.HasEntry(spec.Server, spec.RemotePath)
	if err != nil {
		return StateAbsent, "", err
	}
	if recorded {
		if table.IsMountPoint(spec.MountPoint) {
			return StateMountedCorrectly, messages.MountSatisfiedDetail, nil
		}
		return StateRecorded, "", nil
	}
	return StateAbsent, "", nil
}

// String returns the lowercase state label.
func (s State) String() string {
	switch s {
	case StateAbsent:
		return "not mounted"
	case StateMountedCorrectly:
		return "mounted"
	case StateMountedElsewhere:
		return "mounted elsewhere"
	case StateRecorded:
		return "recorded, not mounted"
	default:
		return "unknown"
	}
}

// mount activates the fstab entry for the spec's mount point.
func (r *Reconciler) mount(spec config.MountSpec) error {
	if err := r.Runner.Run("mount", spec.MountPoint); err != nil {
		return fmt.Errorf(messages.MountCallFailedFmt, spec.MountPoint, err)
	}
	return nil
}

func (r *Reconciler) mkdirAll(path string) error {
	mkdir := r.mkdirAllFunc
	if mkdir == nil {
		mkdir = os.MkdirAll
	}
	if err := mkdir(path, 0o755); err != nil {
		return fmt.Errorf(messages.MountPointCreateErrFmt, path, err)
	}
	return nil
}
