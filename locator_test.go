// locator_test.go
package pageprobe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/pageprobe/driver/fakedom"
)

func TestScopeDerivations(t *testing.T) {
	tests := []struct {
		name           string
		scope          Scope
		selector       string
		wantEffective  string
		wantParent     string
		wantParentOK   bool
	}{
		{
			name:          "scoped",
			scope:         Parent{Selector: "div.form"},
			selector:      "button.save",
			wantEffective: "div.form button.save",
			wantParent:    "div.form:has(button.save)",
			wantParentOK:  true,
		},
		{
			name:          "unscoped",
			scope:         NoParent{},
			selector:      "button.save",
			wantEffective: "button.save",
			wantParentOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantEffective, tt.scope.Effective(tt.selector))
			parent, ok := tt.scope.ParentQuery(tt.selector)
			assert.Equal(t, tt.wantParentOK, ok)
			assert.Equal(t, tt.wantParent, parent)
		})
	}
}

func TestNewElementDefaults(t *testing.T) {
	page := fakedom.MustParse(`<html><body><button class="save">Save</button></body></html>`)

	e := New(page, "button.save")
	assert.Equal(t, "button.save", e.Selector())
	assert.Equal(t, DefaultTimeout, e.Settings().Timeout)
	assert.Equal(t, DefaultPollInterval, e.Settings().PollInterval)
	assert.IsType(t, NoParent{}, e.Scope())

	scoped := New(page, "button.save", WithParent("div.form"))
	assert.Equal(t, "div.form button.save", scoped.Selector())
	assert.IsType(t, Parent{}, scoped.Scope())
}

func TestNewElementNormalizesSettings(t *testing.T) {
	page := fakedom.MustParse(`<html><body></body></html>`)

	e := New(page, "a", WithSettings(Settings{}))
	assert.Equal(t, DefaultTimeout, e.Settings().Timeout)
	assert.Equal(t, DefaultPollInterval, e.Settings().PollInterval)
}
