// property.go
package pageprobe

import (
	"context"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/pageprobe/driver"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ReadProperty dereferences each named property in order, starting from the
// handle, and materializes the terminal value into T via its JSON form.
// An absent intermediate property surfaces driver.ErrPropertyMissing; the
// failure is not retried here — retry is the poller's responsibility.
func ReadProperty[T any](ctx context.Context, h driver.Handle, path ...string) (T, error) {
	var zero T
	if len(path) == 0 {
		return zero, fmt.Errorf("property path must name at least one property")
	}

	value, err := h.GetProperty(ctx, path[0])
	if err != nil {
		return zero, fmt.Errorf("reading property %q: %w", path[0], err)
	}
	for i, name := range path[1:] {
		value, err = value.GetProperty(ctx, name)
		if err != nil {
			return zero, fmt.Errorf("reading property %q (path %s): %w", name, strings.Join(path[:i+2], "."), err)
		}
	}

	raw, err := value.JSONValue(ctx)
	if err != nil {
		return zero, fmt.Errorf("materializing property %s: %w", strings.Join(path, "."), err)
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return zero, fmt.Errorf("encoding property %s: %w", strings.Join(path, "."), err)
	}
	var out T
	if err := json.Unmarshal(buf, &out); err != nil {
		return zero, fmt.Errorf("decoding property %s into %T: %w", strings.Join(path, "."), out, err)
	}
	return out, nil
}
