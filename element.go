// element.go

// Package pageprobe is a page-object abstraction layer for browser UI test
// automation. It wraps a queryable page collaborator (driver.Page) and gives
// test suites a declarative way to locate DOM elements and assert on their
// visual and interactive state, retrying until a shared timeout budget
// elapses. The core never writes to the DOM; it reads, compares, and reports.
package pageprobe

import (
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pageprobe/driver"
)

const (
	// DefaultTimeout is the shared budget bounding both attachment waits and
	// state-convergence waits.
	DefaultTimeout = 35 * time.Second

	// DefaultPollInterval is the fixed pause between condition attempts.
	DefaultPollInterval = 100 * time.Millisecond
)

// Settings carries the timing knobs threaded through every blocking
// operation. It is explicit constructor state, never package-level mutable
// state.
type Settings struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

// DefaultSettings returns the stock budget: 35s timeout, 100ms poll interval.
func DefaultSettings() Settings {
	return Settings{
		Timeout:      DefaultTimeout,
		PollInterval: DefaultPollInterval,
	}
}

func (s Settings) normalized() Settings {
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.PollInterval <= 0 {
		s.PollInterval = DefaultPollInterval
	}
	return s
}

// Element is a page-object element: an immutable locator (selector plus
// optional parent scope) bound to a page. It owns no element handles;
// every operation re-resolves against the live document.
type Element struct {
	page     driver.Page
	selector string
	scope    Scope
	settings Settings
	logger   *zap.Logger
}

// Option configures an Element at construction time.
type Option func(*Element)

// WithParent narrows the locator to descendants of an ancestor matching
// parentSelector.
func WithParent(parentSelector string) Option {
	return func(e *Element) { e.scope = Parent{Selector: parentSelector} }
}

// WithSettings replaces the full timing configuration.
func WithSettings(s Settings) Option {
	return func(e *Element) { e.settings = s }
}

// WithTimeout overrides the shared timeout budget.
func WithTimeout(d time.Duration) Option {
	return func(e *Element) { e.settings.Timeout = d }
}

// WithPollInterval overrides the pause between condition attempts.
func WithPollInterval(d time.Duration) Option {
	return func(e *Element) { e.settings.PollInterval = d }
}

// WithLogger attaches a logger; New defaults to a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Element) { e.logger = logger }
}

// New constructs an element locator bound to page. The locator is fixed at
// construction and never mutated.
func New(page driver.Page, selector string, opts ...Option) *Element {
	e := &Element{
		page:     page,
		selector: selector,
		scope:    NoParent{},
		settings: DefaultSettings(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.settings = e.settings.normalized()
	e.logger = e.logger.Named("pageprobe").With(zap.String("selector", e.Selector()))
	return e
}

// Selector returns the effective selector used for direct lookups.
func (e *Element) Selector() string {
	return e.scope.Effective(e.selector)
}

// Scope returns the parent scope the locator was constructed with.
func (e *Element) Scope() Scope {
	return e.scope
}

// Settings returns the timing configuration in effect.
func (e *Element) Settings() Settings {
	return e.settings
}
