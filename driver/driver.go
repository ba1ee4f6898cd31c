// driver/driver.go
// Package driver defines the contract between the pageprobe core and the
// underlying browser-automation engine. The core never talks to a browser
// directly; it consumes these interfaces, which keeps components like the
// element resolver and the state checks decoupled from any concrete engine
// (CDP, Playwright, or an in-memory document in tests).
package driver

import (
	"context"
	"errors"
	"time"
)

// WaitState selects what WaitForSelector waits for.
type WaitState string

const (
	// StateAttached waits until at least one element matching the selector
	// is present in the live document tree.
	StateAttached WaitState = "attached"
	// StateDetached waits until no element matching the selector remains
	// in the live document tree.
	StateDetached WaitState = "detached"
)

// WaitOptions bounds a WaitForSelector call.
type WaitOptions struct {
	State   WaitState
	Timeout time.Duration
}

// ErrPropertyMissing is returned by Handle.GetProperty and Value.GetProperty
// when an intermediate property is absent on the live object. Callers retry
// at the poll level, never here.
var ErrPropertyMissing = errors.New("property missing")

// Page is the queryable-page collaborator. Implementations are expected to
// answer against the live document on every call; nothing is cached.
type Page interface {
	// WaitForSelector blocks until the selector reaches the requested state
	// or the timeout in opts elapses. For StateAttached it returns the first
	// matching handle; for StateDetached it returns a nil handle on success.
	WaitForSelector(ctx context.Context, selector string, opts WaitOptions) (Handle, error)

	// QueryAll returns the current matches in document order. The order is
	// a point-in-time sample and is not stable across calls.
	QueryAll(ctx context.Context, selector string) ([]Handle, error)
}

// Handle is an opaque, time-bounded reference to a live DOM node. Handles go
// stale when the node is detached or replaced; the core re-resolves rather
// than reusing a handle across polling iterations.
type Handle interface {
	IsVisible(ctx context.Context) (bool, error)
	IsHidden(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	IsDisabled(ctx context.Context) (bool, error)
	IsEditable(ctx context.Context) (bool, error)

	// GetProperty dereferences a single named property of the node.
	GetProperty(ctx context.Context, name string) (Value, error)

	// InnerContent returns the serialized inner content of the node, the
	// engine's rendered-text notion where one exists.
	InnerContent(ctx context.Context) (string, error)
}

// Value is a reference to a property value that may itself be dereferenced
// further, terminating in a JSON-serializable materialization.
type Value interface {
	GetProperty(ctx context.Context, name string) (Value, error)
	JSONValue(ctx context.Context) (any, error)
}
