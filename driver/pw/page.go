// driver/pw/page.go

// Package pw adapts a Playwright page to the driver contract. The mapping is
// nearly one-to-one: the contract's wait states and per-handle reads are the
// Playwright element surface. Playwright's Go binding is not context-aware,
// so operational contexts are honored at call boundaries and timeouts are
// delegated to Playwright's own millisecond deadlines.
package pw

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/xkilldash9x/pageprobe/driver"
)

// Page implements driver.Page over a playwright.Page.
type Page struct {
	page playwright.Page
}

var _ driver.Page = (*Page)(nil)

// NewPage wraps an already-open Playwright page. Browser and page lifecycle
// stay with the caller.
func NewPage(page playwright.Page) *Page {
	return &Page{page: page}
}

// WaitForSelector maps the requested state onto Playwright's selector wait.
func (p *Page) WaitForSelector(ctx context.Context, selector string, opts driver.WaitOptions) (driver.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	eh, err := p.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   stateFor(opts.State),
		Timeout: playwright.Float(millis(opts.Timeout)),
	})
	if err != nil {
		return nil, fmt.Errorf("wait for selector %q (state %s): %w", selector, opts.State, err)
	}
	if eh == nil {
		// Detached waits resolve without a handle.
		return nil, nil
	}
	return &handle{eh: eh}, nil
}

// QueryAll returns the current matches in document order.
func (p *Page) QueryAll(ctx context.Context, selector string) ([]driver.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ehs, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", selector, err)
	}
	handles := make([]driver.Handle, 0, len(ehs))
	for _, eh := range ehs {
		handles = append(handles, &handle{eh: eh})
	}
	return handles, nil
}

func stateFor(s driver.WaitState) *playwright.WaitForSelectorState {
	if s == driver.StateDetached {
		return playwright.WaitForSelectorStateDetached
	}
	return playwright.WaitForSelectorStateAttached
}

func millis(d time.Duration) float64 {
	if d <= 0 {
		return float64((30 * time.Second).Milliseconds())
	}
	return float64(d.Milliseconds())
}
