// driver/fakedom/handle.go
package fakedom

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/xkilldash9x/pageprobe/driver"
)

// ErrStale indicates the handle's node is no longer part of the document.
// Visibility reads tolerate staleness (a detached node is hidden); state and
// property reads do not.
var ErrStale = errors.New("node is detached from the document")

// Form controls that always expose a value property, even without a value
// attribute.
var valueBearingTags = map[string]bool{
	"input":    true,
	"textarea": true,
	"select":   true,
	"option":   true,
	"button":   true,
}

type handle struct {
	page *Page
	node *html.Node
}

var _ driver.Handle = (*handle)(nil)

func (h *handle) attachedLocked() bool {
	root := h.page.root()
	for n := h.node; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// visibleLocked applies the fake engine's visibility rule to the node and
// its ancestors: present, no hidden attribute, inline style not display:none
// or visibility:hidden.
func (h *handle) visibleLocked() bool {
	if !h.attachedLocked() {
		return false
	}
	for n := h.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if _, ok := getAttr(n, "hidden"); ok {
			return false
		}
		style := parseStyle(attrOr(n, "style", ""))
		if style["display"] == "none" || style["visibility"] == "hidden" {
			return false
		}
	}
	return true
}

func (h *handle) IsVisible(ctx context.Context) (bool, error) {
	h.page.mu.Lock()
	defer h.page.mu.Unlock()
	return h.visibleLocked(), nil
}

func (h *handle) IsHidden(ctx context.Context) (bool, error) {
	h.page.mu.Lock()
	defer h.page.mu.Unlock()
	return !h.visibleLocked(), nil
}

func (h *handle) IsEnabled(ctx context.Context) (bool, error) {
	h.page.mu.Lock()
	defer h.page.mu.Unlock()
	if !h.attachedLocked() {
		return false, ErrStale
	}
	_, disabled := getAttr(h.node, "disabled")
	return !disabled, nil
}

func (h *handle) IsDisabled(ctx context.Context) (bool, error) {
	enabled, err := h.IsEnabled(ctx)
	if err != nil {
		return false, err
	}
	return !enabled, nil
}

func (h *handle) IsEditable(ctx context.Context) (bool, error) {
	h.page.mu.Lock()
	defer h.page.mu.Unlock()
	if !h.attachedLocked() {
		return false, ErrStale
	}
	if _, disabled := getAttr(h.node, "disabled"); disabled {
		return false, nil
	}
	_, readonly := getAttr(h.node, "readonly")
	return !readonly, nil
}

func (h *handle) InnerContent(ctx context.Context) (string, error) {
	h.page.mu.Lock()
	defer h.page.mu.Unlock()
	if !h.attachedLocked() {
		return "", ErrStale
	}
	return collapseWhitespace(innerText(h.node)), nil
}

// GetProperty materializes the named property from the node's attributes,
// mimicking the DOM property surface the checks and resolvers rely on.
func (h *handle) GetProperty(ctx context.Context, name string) (driver.Value, error) {
	h.page.mu.Lock()
	defer h.page.mu.Unlock()
	if !h.attachedLocked() {
		return nil, ErrStale
	}

	n := h.node
	switch name {
	case "className":
		return value{attrOr(n, "class", "")}, nil
	case "classList":
		return value{anySlice(strings.Fields(attrOr(n, "class", "")))}, nil
	case "id", "title", "name":
		return value{attrOr(n, name, "")}, nil
	case "tagName":
		return value{strings.ToUpper(n.Data)}, nil
	case "value":
		if v, ok := getAttr(n, "value"); ok {
			return value{v}, nil
		}
		if valueBearingTags[strings.ToLower(n.Data)] {
			if strings.EqualFold(n.Data, "textarea") {
				return value{collapseWhitespace(innerText(n))}, nil
			}
			return value{""}, nil
		}
	case "innerText", "textContent":
		return value{collapseWhitespace(innerText(n))}, nil
	case "dataset":
		return value{dataset(n)}, nil
	case "style":
		return value{anyMap(parseStyle(attrOr(n, "style", "")))}, nil
	default:
		if v, ok := getAttr(n, name); ok {
			return value{v}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q on <%s>", driver.ErrPropertyMissing, name, n.Data)
}

// value is a materialized property; nested maps keep the chain dereferencable.
type value struct {
	v any
}

var _ driver.Value = value{}

func (v value) GetProperty(ctx context.Context, name string) (driver.Value, error) {
	m, ok := v.v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q on a non-object value", driver.ErrPropertyMissing, name)
	}
	child, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", driver.ErrPropertyMissing, name)
	}
	return value{child}, nil
}

func (v value) JSONValue(ctx context.Context) (any, error) {
	return v.v, nil
}

// -- node helpers --

func getAttr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func attrOr(n *html.Node, name, fallback string) string {
	if v, ok := getAttr(n, name); ok {
		return v
	}
	return fallback
}

func innerText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parseStyle splits an inline style attribute into a declaration map with
// lowercased property names.
func parseStyle(style string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		name, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(val)
	}
	return out
}

// dataset maps data-* attributes to their camelCased DOM dataset keys.
func dataset(n *html.Node) map[string]any {
	out := make(map[string]any)
	for _, a := range n.Attr {
		name, ok := strings.CutPrefix(a.Key, "data-")
		if !ok {
			continue
		}
		out[camelCase(name)] = a.Val
	}
	return out
}

func camelCase(kebab string) string {
	parts := strings.Split(kebab, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func anyMap(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
