// errors.go
package pageprobe

import "errors"

// The failure taxonomy of the core. Every surfaced error is additionally
// annotated with the requested flag and the effective selector by the check
// that raised it, so failures stay diagnosable without a debugger.
var (
	// ErrNotAttached: no element matching the selector attached to the
	// document within the timeout budget.
	ErrNotAttached = errors.New("element not attached")

	// ErrStillAttached: the element remained in the document for the full
	// budget of a detachment wait.
	ErrStillAttached = errors.New("element still attached")

	// ErrNoMatch: a content search scanned every candidate without finding
	// one containing all requested fragments.
	ErrNoMatch = errors.New("no element content matched")

	// ErrNoParentScope: a parent-scoped operation was invoked on a locator
	// constructed without a parent selector.
	ErrNoParentScope = errors.New("no parent scope configured")

	// ErrTimedOut: a poll deadline expired. The wrapped cause is always the
	// last failing condition error, never a bare timeout.
	ErrTimedOut = errors.New("condition not satisfied")
)
