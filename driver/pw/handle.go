// driver/pw/handle.go
package pw

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/xkilldash9x/pageprobe/driver"
)

type handle struct {
	eh playwright.ElementHandle
}

var _ driver.Handle = (*handle)(nil)

func (h *handle) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return h.eh.IsVisible()
}

func (h *handle) IsHidden(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return h.eh.IsHidden()
}

func (h *handle) IsEnabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return h.eh.IsEnabled()
}

func (h *handle) IsDisabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return h.eh.IsDisabled()
}

func (h *handle) IsEditable(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return h.eh.IsEditable()
}

func (h *handle) InnerContent(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return h.eh.InnerText()
}

func (h *handle) GetProperty(ctx context.Context, name string) (driver.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	jh, err := h.eh.GetProperty(name)
	if err != nil {
		return nil, fmt.Errorf("reading property %q: %w", name, err)
	}
	return wrap(jh, name)
}

// wrap converts a JSHandle into a driver.Value, mapping Playwright's
// undefined result (property reads never error on absent names) onto the
// contract's missing-property failure.
func wrap(jh playwright.JSHandle, name string) (driver.Value, error) {
	if jh == nil || jh.String() == "undefined" {
		return nil, fmt.Errorf("%w: %q", driver.ErrPropertyMissing, name)
	}
	return &value{jh: jh}, nil
}

type value struct {
	jh playwright.JSHandle
}

var _ driver.Value = (*value)(nil)

func (v *value) GetProperty(ctx context.Context, name string) (driver.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	jh, err := v.jh.GetProperty(name)
	if err != nil {
		return nil, fmt.Errorf("reading property %q: %w", name, err)
	}
	return wrap(jh, name)
}

func (v *value) JSONValue(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.jh.JSONValue()
}
