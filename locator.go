// locator.go
package pageprobe

import "fmt"

// Scope is the optional parent scope of a locator, modeled as a closed pair
// of cases (NoParent, Parent) so both selector derivations stay exhaustive.
type Scope interface {
	// Effective derives the query used for all direct element lookups.
	Effective(selector string) string

	// ParentQuery derives the query for the ancestor node itself. ok is
	// false when the locator carries no parent scope.
	ParentQuery(selector string) (query string, ok bool)
}

// NoParent is the unscoped case: the child selector is used verbatim.
type NoParent struct{}

// Effective returns the selector unchanged.
func (NoParent) Effective(selector string) string { return selector }

// ParentQuery reports that no ancestor query exists.
func (NoParent) ParentQuery(string) (string, bool) { return "", false }

// Parent narrows lookups to elements inside an ancestor matching Selector.
type Parent struct {
	Selector string
}

// Effective returns the descendant-combinator query "<parent> <child>".
func (p Parent) Effective(selector string) string {
	return p.Selector + " " + selector
}

// ParentQuery returns "<parent>:has(<child>)", the query for the ancestor
// that actually contains the child. Only used when a caller explicitly
// needs the parent node.
func (p Parent) ParentQuery(selector string) (string, bool) {
	return fmt.Sprintf("%s:has(%s)", p.Selector, selector), true
}

// Selector syntax is never validated here; a malformed selector surfaces as
// a resolution failure from the driver.
