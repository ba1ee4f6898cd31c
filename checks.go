// checks.go
package pageprobe

import (
	"context"
	"fmt"
	"strings"

	"github.com/xkilldash9x/pageprobe/driver"
)

// Class markers applied by the application under test. For hidden and
// disabled these race the engine's native state during CSS transitions; the
// checks below pick the authoritative signal once per invocation from a
// snapshot read. For active and focused the token is the sole source of
// truth, since no engine-level concept exists.
const (
	classHidden   = "hidden"
	classDisabled = "disabled"
	classActive   = "active"
	classFocused  = "focused"
)

// WaitAttached waits for the element to be present in the document. This is
// the existence check with no flags: it degenerates to the resolver's
// implicit attachment wait.
func (e *Element) WaitAttached(ctx context.Context) error {
	if _, err := e.Resolve(ctx); err != nil {
		return fmt.Errorf("exists check failed for selector %q: %w", e.Selector(), err)
	}
	return nil
}

// WaitDetached waits for the element to leave the document within the
// timeout budget. An element that remains attached for the full budget fails
// with ErrStillAttached.
func (e *Element) WaitDetached(ctx context.Context) error {
	sel := e.Selector()
	_, err := e.page.WaitForSelector(ctx, sel, driver.WaitOptions{
		State:   driver.StateDetached,
		Timeout: e.settings.Timeout,
	})
	if err != nil {
		return fmt.Errorf("not-exists check failed for selector %q: %w: %w",
			sel, ErrStillAttached, err)
	}
	return nil
}

// WaitHidden verifies the element's visibility converges on the requested
// flag. When hidden is requested and the element is currently visible, a
// CSS-driven hide is assumed to be in progress: the check polls for the
// "hidden" class token and returns as soon as it appears, without
// additionally requiring the engine's hidden computation (some widgets
// toggle the class before the layout engine catches up). When the element is
// already not visible, the engine's own hidden computation is authoritative.
func (e *Element) WaitHidden(ctx context.Context, hidden bool) error {
	fail := func(err error) error {
		if err == nil {
			return nil
		}
		return fmt.Errorf("hidden check (Hidden=%t) failed for selector %q: %w", hidden, e.Selector(), err)
	}

	handle, err := e.Resolve(ctx)
	if err != nil {
		return fail(err)
	}

	if !hidden {
		return fail(e.poll(ctx, func(ctx context.Context) error {
			h, err := e.query(ctx)
			if err != nil {
				return err
			}
			visible, err := h.IsVisible(ctx)
			if err != nil {
				return err
			}
			if !visible {
				return fmt.Errorf("element is not reported visible")
			}
			return nil
		}))
	}

	visible, err := handle.IsVisible(ctx)
	if err != nil {
		return fail(err)
	}
	if visible {
		return fail(e.pollClass(ctx, classHidden, true))
	}
	return fail(e.poll(ctx, func(ctx context.Context) error {
		h, err := e.query(ctx)
		if err != nil {
			return err
		}
		hid, err := h.IsHidden(ctx)
		if err != nil {
			return err
		}
		if !hid {
			return fmt.Errorf("element is still reported visible")
		}
		return nil
	}))
}

// WaitDisabled verifies the element's disabled state converges on the
// requested flag. The native enabled/editable capabilities are snapshot once
// up front: an element that is natively enabled and editable can only be
// disabled through the class marker, so that branch polls the class alone
// and returns early. Otherwise the engine's native disabled state, or loss
// of editability (read-only-as-disabled), satisfies the check. The negative
// form requires both native enablement and absence of the class marker,
// verified as two sequential polls; the first failing poll prevents the
// second from running.
func (e *Element) WaitDisabled(ctx context.Context, disabled bool) error {
	fail := func(err error) error {
		if err == nil {
			return nil
		}
		return fmt.Errorf("disabled check (Disabled=%t) failed for selector %q: %w", disabled, e.Selector(), err)
	}

	handle, err := e.Resolve(ctx)
	if err != nil {
		return fail(err)
	}

	if !disabled {
		if err := e.poll(ctx, func(ctx context.Context) error {
			h, err := e.query(ctx)
			if err != nil {
				return err
			}
			enabled, err := h.IsEnabled(ctx)
			if err != nil {
				return err
			}
			if !enabled {
				return fmt.Errorf("element is not reported enabled")
			}
			return nil
		}); err != nil {
			return fail(err)
		}
		return fail(e.pollClass(ctx, classDisabled, false))
	}

	enabled, err := handle.IsEnabled(ctx)
	if err != nil {
		return fail(err)
	}
	editable, err := handle.IsEditable(ctx)
	if err != nil {
		return fail(err)
	}
	if enabled && editable {
		// Class-driven disable in progress.
		return fail(e.pollClass(ctx, classDisabled, true))
	}
	return fail(e.poll(ctx, func(ctx context.Context) error {
		h, err := e.query(ctx)
		if err != nil {
			return err
		}
		dis, err := h.IsDisabled(ctx)
		if err != nil {
			return err
		}
		if dis {
			return nil
		}
		editable, err := h.IsEditable(ctx)
		if err != nil {
			return err
		}
		if !editable {
			return nil
		}
		return fmt.Errorf("element is still enabled and editable")
	}))
}

// WaitActive polls the "active" class token: present when active is true,
// absent when false.
func (e *Element) WaitActive(ctx context.Context, active bool) error {
	if _, err := e.Resolve(ctx); err != nil {
		return fmt.Errorf("active check (Active=%t) failed for selector %q: %w", active, e.Selector(), err)
	}
	if err := e.pollClass(ctx, classActive, active); err != nil {
		return fmt.Errorf("active check (Active=%t) failed for selector %q: %w", active, e.Selector(), err)
	}
	return nil
}

// WaitFocused polls the "focused" class token: present when focused is true,
// absent when false.
func (e *Element) WaitFocused(ctx context.Context, focused bool) error {
	if _, err := e.Resolve(ctx); err != nil {
		return fmt.Errorf("focused check (Focused=%t) failed for selector %q: %w", focused, e.Selector(), err)
	}
	if err := e.pollClass(ctx, classFocused, focused); err != nil {
		return fmt.Errorf("focused check (Focused=%t) failed for selector %q: %w", focused, e.Selector(), err)
	}
	return nil
}

// pollClass re-resolves the element each attempt and checks the class list
// for the token, matching want.
func (e *Element) pollClass(ctx context.Context, token string, want bool) error {
	return e.poll(ctx, func(ctx context.Context) error {
		h, err := e.query(ctx)
		if err != nil {
			return err
		}
		classes, err := ReadProperty[string](ctx, h, "className")
		if err != nil {
			return err
		}
		if hasClassToken(classes, token) == want {
			return nil
		}
		if want {
			return fmt.Errorf("class list %q does not contain %q", classes, token)
		}
		return fmt.Errorf("class list %q still contains %q", classes, token)
	})
}

func hasClassToken(classList, token string) bool {
	for _, c := range strings.Fields(classList) {
		if c == token {
			return true
		}
	}
	return false
}
