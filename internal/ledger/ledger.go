// Package ledger accumulates per-item reconciliation outcomes into ordered categories.
package ledger

// Category classifies the outcome of reconciling a single item.
type Category int

const (
	// Installed marks an item that was absent and is now present.
	Installed Category = iota
	// Updated marks an item that was present and was changed in place.
	Updated
	// Current marks an item that already matched the desired state.
	Current
	// Skipped marks an item that was deliberately not reconciled.
	Skipped
	// Failed marks an item whose reconciliation did not complete.
	Failed
)

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case Installed:
		return "installed"
	case Updated:
		return "updated"
	case Current:
		return "current"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result records the outcome of reconciling one item.
// Detail carries version transitions or failure reasons.
type Result struct {
	Item     string
	Category Category
	Detail   string
}

// Ledger collects results in five ordered categories. The zero value is ready
// to use. A Ledger is owned by a single run and never shared between runs.
type Ledger struct {
	installed []Result
	updated   []Result
	current   []Result
	skipped   []Result
	failed    []Result
}

// Add appends a result to its category sequence.
func (l *Ledger) Add(r Result) {
	switch r.Category {
	case Installed:
		l.installed = append(l.installed, r)
	case Updated:
		l.updated = append(l.updated, r)
	case Current:
		l.current = append(l.current, r)
	case Skipped:
		l.skipped = append(l.skipped, r)
	case Failed:
		l.failed = append(l.failed, r)
	}
}

// Installed returns the installed results in insertion order.
func (l *Ledger) Installed() []Result { return l.installed }

// Updated returns the updated results in insertion order.
func (l *Ledger) Updated() []Result { return l.updated }

// Current returns the current results in insertion order.
func (l *Ledger) Current() []Result { return l.current }

// Skipped returns the skipped results in insertion order.
func (l *Ledger) Skipped() []Result { return l.skipped }

// Failed returns the failed results in insertion order.
func (l *Ledger) Failed() []Result { return l.failed }

// HasFailures reports whether any result landed in the failed category.
func (l *Ledger) HasFailures() bool {
	return len(l.failed) > 0
}

// Total returns the number of recorded results across all categories.
func (l *Ledger) Total() int {
	return len(l.installed) + len(l.updated) + len(l.current) + len(l.skipped) + len(l.failed)
}

// Counts returns the per-category sizes in category order.
func (l *Ledger) Counts() (installed, updated, current, skipped, failed int) {
	return len(l.installed), len(l.updated), len(l.current), len(l.skipped), len(l.failed)
}
