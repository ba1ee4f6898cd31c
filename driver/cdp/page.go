// driver/cdp/page.go

// Package cdp adapts a Chrome DevTools Protocol target (via chromedp) to the
// driver contract. The adapter does not own the browser process or the
// session: it consumes an Executor seam, so whoever manages the chromedp
// context decides how operational contexts combine with the session
// lifetime.
package cdp

import (
	"context"
	"fmt"
	"time"

	cdpproto "github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pageprobe/driver"
)

// Executor runs chromedp actions against a live target. Implementations are
// responsible for combining the operational context with the long-lived
// session context carrying the CDP connection.
type Executor interface {
	RunActions(ctx context.Context, actions ...chromedp.Action) error
}

// ExecutorFunc adapts a plain function to Executor.
type ExecutorFunc func(ctx context.Context, actions ...chromedp.Action) error

// RunActions invokes f.
func (f ExecutorFunc) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	return f(ctx, actions...)
}

// Page implements driver.Page over an Executor.
type Page struct {
	exec   Executor
	logger *zap.Logger
}

var _ driver.Page = (*Page)(nil)

// NewPage wraps an executor. A nil logger defaults to a nop logger.
func NewPage(exec Executor, logger *zap.Logger) *Page {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Page{exec: exec, logger: logger.Named("cdp")}
}

// WaitForSelector blocks until the selector reaches the requested state,
// bounded by opts.Timeout via a derived context.
func (p *Page) WaitForSelector(ctx context.Context, selector string, opts driver.WaitOptions) (driver.Handle, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if opts.State == driver.StateDetached {
		if err := p.exec.RunActions(opCtx, chromedp.WaitNotPresent(selector, chromedp.ByQuery)); err != nil {
			return nil, fmt.Errorf("waiting for %q to detach: %w", selector, err)
		}
		return nil, nil
	}

	var nodes []*cdpproto.Node
	err := p.exec.RunActions(opCtx,
		chromedp.WaitReady(selector, chromedp.ByQuery),
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll),
	)
	if err != nil {
		return nil, fmt.Errorf("waiting for %q to attach: %w", selector, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no node reported for %q after attachment wait", selector)
	}
	return newHandle(p, nodes[0]), nil
}

// QueryAll returns the current matches in document order without waiting.
func (p *Page) QueryAll(ctx context.Context, selector string) ([]driver.Handle, error) {
	var nodes []*cdpproto.Node
	err := p.exec.RunActions(ctx,
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, fmt.Errorf("querying %q: %w", selector, err)
	}
	handles := make([]driver.Handle, 0, len(nodes))
	for _, n := range nodes {
		handles = append(handles, newHandle(p, n))
	}
	return handles, nil
}

// evaluate runs a script in the page, materializing the result by value.
func (p *Page) evaluate(ctx context.Context, script string, out any) error {
	return p.exec.RunActions(ctx,
		chromedp.Evaluate(script, out, func(ep *runtime.EvaluateParams) *runtime.EvaluateParams {
			return ep.WithReturnByValue(true).WithSilent(true)
		}),
	)
}
