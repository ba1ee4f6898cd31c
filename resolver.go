// resolver.go
package pageprobe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/pageprobe/driver"
)

// Resolve waits for at least one element matching the effective selector to
// attach to the document, within the timeout budget, and returns the first
// match. Handles are never cached: callers needing fresh state re-resolve.
func (e *Element) Resolve(ctx context.Context) (driver.Handle, error) {
	sel := e.Selector()
	h, err := e.page.WaitForSelector(ctx, sel, driver.WaitOptions{
		State:   driver.StateAttached,
		Timeout: e.settings.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: selector %q did not attach within %s: %w",
			ErrNotAttached, sel, e.settings.Timeout, err)
	}
	return h, nil
}

// ResolveAll waits for attachment like Resolve, then returns the full set of
// current matches in document order. The order is a point-in-time sample and
// may differ between calls while the DOM mutates.
func (e *Element) ResolveAll(ctx context.Context) ([]driver.Handle, error) {
	if _, err := e.Resolve(ctx); err != nil {
		return nil, err
	}
	handles, err := e.page.QueryAll(ctx, e.Selector())
	if err != nil {
		return nil, fmt.Errorf("querying all matches of %q: %w", e.Selector(), err)
	}
	return handles, nil
}

// ResolveByContent scans the current matches in document order and returns
// the first one whose inner content contains every fragment,
// case-insensitively. When no candidate qualifies it fails with ErrNoMatch,
// reporting the searched fragments alongside every candidate's content.
func (e *Element) ResolveByContent(ctx context.Context, fragments ...string) (driver.Handle, error) {
	handles, err := e.ResolveAll(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make([]string, len(fragments))
	for i, f := range fragments {
		wanted[i] = strings.ToLower(strings.TrimSpace(f))
	}

	candidates := make([]string, 0, len(handles))
	for _, h := range handles {
		content, err := h.InnerContent(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading content of a %q candidate: %w", e.Selector(), err)
		}
		candidates = append(candidates, content)

		haystack := strings.ToLower(content)
		all := true
		for _, w := range wanted {
			if !strings.Contains(haystack, w) {
				all = false
				break
			}
		}
		if all {
			e.logger.Debug("Content match found.", zap.Strings("fragments", fragments))
			return h, nil
		}
	}

	return nil, fmt.Errorf("%w: no element matching %q contains all of %q; candidate contents: %q",
		ErrNoMatch, e.Selector(), fragments, candidates)
}

// ResolveByValue scans the current matches in document order, reading each
// element's value property, and returns the first whose lowercased value
// contains the first term and, when a second term is supplied, that one too.
// A miss returns (nil, nil) rather than an error: callers treat an absent
// result as "not found yet" and keep polling. This deliberately differs from
// ResolveByContent, which raises.
func (e *Element) ResolveByValue(ctx context.Context, terms ...string) (driver.Handle, error) {
	if len(terms) == 0 || len(terms) > 2 {
		return nil, fmt.Errorf("resolve by value takes one or two terms, got %d", len(terms))
	}

	handles, err := e.ResolveAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, h := range handles {
		value, err := ReadProperty[string](ctx, h, "value")
		if err != nil {
			// A candidate without a value property cannot match; anything
			// else is a real failure.
			if errors.Is(err, driver.ErrPropertyMissing) {
				continue
			}
			return nil, err
		}
		v := strings.ToLower(value)
		if !strings.Contains(v, strings.ToLower(terms[0])) {
			continue
		}
		if len(terms) == 2 && !strings.Contains(v, strings.ToLower(terms[1])) {
			continue
		}
		return h, nil
	}
	return nil, nil
}

// ResolveParent waits for the ancestor node itself, using the
// parent-inclusive query. Fails with ErrNoParentScope when the locator was
// constructed without a parent selector.
func (e *Element) ResolveParent(ctx context.Context) (driver.Handle, error) {
	query, ok := e.scope.ParentQuery(e.selector)
	if !ok {
		return nil, fmt.Errorf("%w: selector %q", ErrNoParentScope, e.selector)
	}
	h, err := e.page.WaitForSelector(ctx, query, driver.WaitOptions{
		State:   driver.StateAttached,
		Timeout: e.settings.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: parent query %q did not attach within %s: %w",
			ErrNotAttached, query, e.settings.Timeout, err)
	}
	return h, nil
}

// query is the non-blocking resolve used inside poll conditions: first
// current match or ErrNotAttached, without nesting an attachment wait inside
// the poll deadline.
func (e *Element) query(ctx context.Context) (driver.Handle, error) {
	sel := e.Selector()
	handles, err := e.page.QueryAll(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", sel, err)
	}
	if len(handles) == 0 {
		return nil, fmt.Errorf("%w: no element currently matches %q", ErrNotAttached, sel)
	}
	return handles[0], nil
}
