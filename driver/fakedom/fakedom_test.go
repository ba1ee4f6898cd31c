// driver/fakedom/fakedom_test.go
package fakedom

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pageprobe/driver"
)

func firstHandle(t *testing.T, p *Page, selector string) driver.Handle {
	t.Helper()
	handles, err := p.QueryAll(context.Background(), selector)
	require.NoError(t, err)
	require.NotEmpty(t, handles, "selector %q matched nothing", selector)
	return handles[0]
}

func TestWaitForSelectorAttachedImmediate(t *testing.T) {
	p := MustParse(`<html><body><button id="go">Go</button></body></html>`)
	h, err := p.WaitForSelector(context.Background(), "#go", driver.WaitOptions{
		State:   driver.StateAttached,
		Timeout: 100 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NotNil(t, h)
}

func TestWaitForSelectorObservesLateAttachment(t *testing.T) {
	p := MustParse(`<html><body></body></html>`)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(30 * time.Millisecond)
		_ = p.SetHTML(`<html><body><div class="late">here</div></body></html>`)
	}()
	defer wg.Wait()

	h, err := p.WaitForSelector(context.Background(), "div.late", driver.WaitOptions{
		State:   driver.StateAttached,
		Timeout: time.Second,
	})
	require.NoError(t, err)
	require.NotNil(t, h)
}

func TestWaitForSelectorDetached(t *testing.T) {
	p := MustParse(`<html><body><div class="spinner"></div></body></html>`)

	// Still attached, so the detached wait must exhaust its budget.
	_, err := p.WaitForSelector(context.Background(), "div.spinner", driver.WaitOptions{
		State:   driver.StateDetached,
		Timeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")

	p.Detach("div.spinner")
	h, err := p.WaitForSelector(context.Background(), "div.spinner", driver.WaitOptions{
		State:   driver.StateDetached,
		Timeout: 100 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestWaitForSelectorHonorsContext(t *testing.T) {
	p := MustParse(`<html><body></body></html>`)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.WaitForSelector(ctx, "div.never", driver.WaitOptions{
		State:   driver.StateAttached,
		Timeout: 5 * time.Second,
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestQueryAllDocumentOrder(t *testing.T) {
	p := MustParse(`<html><body>
		<span class="row" id="a"></span>
		<span class="row" id="b"></span>
		<span class="row" id="c"></span>
	</body></html>`)

	handles, err := p.QueryAll(context.Background(), "span.row")
	require.NoError(t, err)
	require.Len(t, handles, 3)

	ids := make([]string, 0, 3)
	for _, h := range handles {
		v, err := h.GetProperty(context.Background(), "id")
		require.NoError(t, err)
		id, err := v.JSONValue(context.Background())
		require.NoError(t, err)
		ids = append(ids, id.(string))
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestVisibilityRules(t *testing.T) {
	p := MustParse(`<html><body>
		<div id="plain">x</div>
		<div id="attr" hidden>x</div>
		<div id="display" style="display:none">x</div>
		<div id="vis" style="visibility: hidden">x</div>
		<div style="display:none"><span id="nested">x</span></div>
		<div class="hidden" id="classed">x</div>
	</body></html>`)

	cases := []struct {
		id      string
		visible bool
	}{
		{"plain", true},
		{"attr", false},
		{"display", false},
		{"vis", false},
		{"nested", false},
		// Class tokens carry no weight in the fake engine's visibility.
		{"classed", true},
	}
	for _, tc := range cases {
		h := firstHandle(t, p, "#"+tc.id)
		visible, err := h.IsVisible(context.Background())
		require.NoError(t, err, tc.id)
		assert.Equal(t, tc.visible, visible, tc.id)
		hidden, err := h.IsHidden(context.Background())
		require.NoError(t, err, tc.id)
		assert.Equal(t, !tc.visible, hidden, tc.id)
	}
}

func TestEnabledAndEditable(t *testing.T) {
	p := MustParse(`<html><body>
		<input id="free">
		<input id="off" disabled>
		<input id="ro" readonly>
	</body></html>`)

	ctx := context.Background()

	free := firstHandle(t, p, "#free")
	enabled, err := free.IsEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)
	editable, err := free.IsEditable(ctx)
	require.NoError(t, err)
	assert.True(t, editable)

	off := firstHandle(t, p, "#off")
	disabled, err := off.IsDisabled(ctx)
	require.NoError(t, err)
	assert.True(t, disabled)
	editable, err = off.IsEditable(ctx)
	require.NoError(t, err)
	assert.False(t, editable)

	ro := firstHandle(t, p, "#ro")
	enabled, err = ro.IsEnabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)
	editable, err = ro.IsEditable(ctx)
	require.NoError(t, err)
	assert.False(t, editable)
}

func TestStaleHandles(t *testing.T) {
	p := MustParse(`<html><body><div id="gone">x</div></body></html>`)
	h := firstHandle(t, p, "#gone")
	p.Detach("#gone")

	ctx := context.Background()

	// Visibility tolerates staleness: a detached node reads as hidden.
	visible, err := h.IsVisible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	_, err = h.IsEnabled(ctx)
	assert.ErrorIs(t, err, ErrStale)
	_, err = h.GetProperty(ctx, "className")
	assert.ErrorIs(t, err, ErrStale)
	_, err = h.InnerContent(ctx)
	assert.ErrorIs(t, err, ErrStale)
}

func TestInnerContentCollapsesWhitespace(t *testing.T) {
	p := MustParse(`<html><body><p id="msg">
		Saved   <b>successfully</b>
	</p></body></html>`)

	content, err := firstHandle(t, p, "#msg").InnerContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Saved successfully", content)
}

func TestGetPropertySurface(t *testing.T) {
	p := MustParse(`<html><body>
		<input id="f" class="field primary" name="email" value="a@b.c"
			data-load-state="ready" style="display: block; color:red">
		<textarea id="t">hello there</textarea>
		<div id="d">text</div>
	</body></html>`)

	ctx := context.Background()
	input := firstHandle(t, p, "#f")

	read := func(h driver.Handle, name string) any {
		t.Helper()
		v, err := h.GetProperty(ctx, name)
		require.NoError(t, err, name)
		out, err := v.JSONValue(ctx)
		require.NoError(t, err, name)
		return out
	}

	assert.Equal(t, "field primary", read(input, "className"))
	assert.Equal(t, []any{"field", "primary"}, read(input, "classList"))
	assert.Equal(t, "email", read(input, "name"))
	assert.Equal(t, "INPUT", read(input, "tagName"))
	assert.Equal(t, "a@b.c", read(input, "value"))

	// Property chains descend through materialized maps.
	ds, err := input.GetProperty(ctx, "dataset")
	require.NoError(t, err)
	state, err := ds.GetProperty(ctx, "loadState")
	require.NoError(t, err)
	got, err := state.JSONValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ready", got)

	st, err := input.GetProperty(ctx, "style")
	require.NoError(t, err)
	disp, err := st.GetProperty(ctx, "display")
	require.NoError(t, err)
	got, err = disp.JSONValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "block", got)

	// Textarea value falls back to its text content.
	assert.Equal(t, "hello there", read(firstHandle(t, p, "#t"), "value"))

	// A property the node does not carry.
	div := firstHandle(t, p, "#d")
	_, err = div.GetProperty(ctx, "value")
	assert.ErrorIs(t, err, driver.ErrPropertyMissing)

	// Chains off scalars terminate with the same sentinel.
	cls, err := div.GetProperty(ctx, "className")
	require.NoError(t, err)
	_, err = cls.GetProperty(ctx, "anything")
	assert.ErrorIs(t, err, driver.ErrPropertyMissing)
}

func TestMutatorsVisibleToOutstandingHandles(t *testing.T) {
	p := MustParse(`<html><body><div id="w" class="widget">x</div></body></html>`)
	h := firstHandle(t, p, "#w")
	ctx := context.Background()

	p.AddClass("#w", "hidden")
	v, err := h.GetProperty(ctx, "className")
	require.NoError(t, err)
	got, err := v.JSONValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "widget hidden", got)

	p.SetAttr("#w", "hidden", "")
	visible, err := h.IsVisible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	p.RemoveAttr("#w", "hidden")
	p.RemoveClass("#w", "hidden")
	visible, err = h.IsVisible(ctx)
	require.NoError(t, err)
	assert.True(t, visible)
}

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "loadState", camelCase("load-state"))
	assert.Equal(t, "x", camelCase("x"))
	assert.Equal(t, "aBC", camelCase("a-b-c"))
}

func TestParseStyle(t *testing.T) {
	got := parseStyle("Display : none; color:red;;")
	assert.Equal(t, map[string]string{"display": "none", "color": "red"}, got)
	assert.Empty(t, parseStyle(""))
}
