// driver/cdp/handle.go
package cdp

import (
	"context"
	"errors"
	"fmt"

	cdpproto "github.com/chromedp/cdproto/cdp"

	"github.com/xkilldash9x/pageprobe/driver"
)

// ErrStale indicates the node behind a handle is no longer in the document.
// Callers re-resolve; handles are never reused across polling iterations.
var ErrStale = errors.New("node is stale or detached from the document")

// handle addresses the resolved node by its full XPath. The XPath is a
// point-in-time address: if the DOM is rebuilt under it, reads surface
// ErrStale and the core re-resolves.
type handle struct {
	page  *Page
	xpath string
}

var _ driver.Handle = (*handle)(nil)

func newHandle(p *Page, n *cdpproto.Node) *handle {
	return &handle{page: p, xpath: n.FullXPath()}
}

func (h *handle) mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case isMissingError(err):
		return fmt.Errorf("%w: %v", driver.ErrPropertyMissing, err)
	case isStaleError(err):
		return fmt.Errorf("%w (xpath %s)", ErrStale, h.xpath)
	default:
		return err
	}
}

func (h *handle) evalBool(ctx context.Context, script string) (bool, error) {
	var out bool
	if err := h.page.evaluate(ctx, script, &out); err != nil {
		return false, h.mapErr(err)
	}
	return out, nil
}

func (h *handle) IsVisible(ctx context.Context) (bool, error) {
	return h.evalBool(ctx, visibleScript(h.xpath))
}

func (h *handle) IsHidden(ctx context.Context) (bool, error) {
	return h.evalBool(ctx, hiddenScript(h.xpath))
}

func (h *handle) IsEnabled(ctx context.Context) (bool, error) {
	return h.evalBool(ctx, enabledScript(h.xpath))
}

func (h *handle) IsDisabled(ctx context.Context) (bool, error) {
	return h.evalBool(ctx, disabledScript(h.xpath))
}

func (h *handle) IsEditable(ctx context.Context) (bool, error) {
	return h.evalBool(ctx, editableScript(h.xpath))
}

func (h *handle) InnerContent(ctx context.Context) (string, error) {
	var out string
	if err := h.page.evaluate(ctx, innerContentScript(h.xpath), &out); err != nil {
		return "", h.mapErr(err)
	}
	return out, nil
}

// GetProperty defers the actual dereference: the whole property chain is
// evaluated in a single round trip when JSONValue is called, so intermediate
// steps never materialize non-serializable values.
func (h *handle) GetProperty(ctx context.Context, name string) (driver.Value, error) {
	return &value{handle: h, path: []string{name}}, nil
}

type value struct {
	handle *handle
	path   []string
}

var _ driver.Value = (*value)(nil)

func (v *value) GetProperty(ctx context.Context, name string) (driver.Value, error) {
	next := make([]string, len(v.path), len(v.path)+1)
	copy(next, v.path)
	return &value{handle: v.handle, path: append(next, name)}, nil
}

func (v *value) JSONValue(ctx context.Context) (any, error) {
	var out any
	err := v.handle.page.evaluate(ctx, propertyChainScript(v.handle.xpath, v.path), &out)
	if err != nil {
		return nil, v.handle.mapErr(err)
	}
	return out, nil
}
