// driver/cdp/scripts.go
package cdp

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Marker prefixes thrown by the evaluated scripts so the Go side can map
// exceptions back onto the driver error taxonomy.
const (
	staleMarker   = "pageprobe-stale:"
	missingMarker = "pageprobe-missing:"
)

// jsonEncode produces a JS-safe literal for embedding a value in a script.
func jsonEncode(v any) string {
	buf, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(buf)
}

// lookupExpr resolves a node by its full XPath. CSS selectors are consumed
// by chromedp's own query actions; per-handle reads address the concrete
// node the handle was resolved to.
func lookupExpr(xpath string) string {
	return fmt.Sprintf(
		"document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue",
		jsonEncode(xpath))
}

func visibleScript(xpath string) string {
	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) return false;
	const style = window.getComputedStyle(el);
	if (style.display === 'none' || style.visibility === 'hidden') return false;
	const rect = el.getBoundingClientRect();
	return rect.width > 0 && rect.height > 0;
})()`, lookupExpr(xpath))
}

func hiddenScript(xpath string) string {
	// A detached node counts as hidden, matching engine semantics.
	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) return true;
	const style = window.getComputedStyle(el);
	if (style.display === 'none' || style.visibility === 'hidden') return true;
	const rect = el.getBoundingClientRect();
	return rect.width === 0 || rect.height === 0;
})()`, lookupExpr(xpath))
}

func enabledScript(xpath string) string {
	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) throw new Error(%s);
	return el.disabled !== true;
})()`, lookupExpr(xpath), jsonEncode(staleMarker+xpath))
}

func disabledScript(xpath string) string {
	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) throw new Error(%s);
	return el.disabled === true;
})()`, lookupExpr(xpath), jsonEncode(staleMarker+xpath))
}

func editableScript(xpath string) string {
	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) throw new Error(%s);
	if (el.disabled === true) return false;
	if (el.isContentEditable) return true;
	return el.readOnly !== true && !el.hasAttribute('readonly');
})()`, lookupExpr(xpath), jsonEncode(staleMarker+xpath))
}

func innerContentScript(xpath string) string {
	return fmt.Sprintf(`(() => {
	const el = %s;
	if (!el) throw new Error(%s);
	return el.innerText ?? el.textContent ?? '';
})()`, lookupExpr(xpath), jsonEncode(staleMarker+xpath))
}

// propertyChainScript dereferences path in order from the node, throwing a
// missing-marker error naming the first absent step.
func propertyChainScript(xpath string, path []string) string {
	return fmt.Sprintf(`(() => {
	let v = %s;
	if (!v) throw new Error(%s);
	for (const name of %s) {
		if (v == null || !(name in Object(v))) throw new Error(%s + name);
		v = v[name];
	}
	return v;
})()`, lookupExpr(xpath), jsonEncode(staleMarker+xpath), jsonEncode(path), jsonEncode(missingMarker))
}

func isMissingError(err error) bool {
	return err != nil && strings.Contains(err.Error(), missingMarker)
}

func isStaleError(err error) bool {
	return err != nil && strings.Contains(err.Error(), staleMarker)
}
