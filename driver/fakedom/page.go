// driver/fakedom/page.go

// Package fakedom is an in-memory implementation of the driver contract,
// backed by a parsed HTML document instead of a browser. It exists so page
// objects (and this repository's own state checks) can be tested
// deterministically: the document can be mutated under a lock while a check
// polls, simulating CSS class transitions and detach/reattach races without
// a browser process.
package fakedom

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/pageprobe/driver"
)

// waitTick is the sampling interval of WaitForSelector against the live
// document.
const waitTick = 5 * time.Millisecond

// Page is a mutable in-memory document implementing driver.Page. All reads
// and mutations serialize on one mutex; handles answer against the document
// as it is at call time.
type Page struct {
	mu  sync.Mutex
	doc *goquery.Document
}

var _ driver.Page = (*Page)(nil)

// Parse builds a page from an HTML document string.
func Parse(pageHTML string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &Page{doc: doc}, nil
}

// MustParse is Parse for test fixtures known to be well-formed.
func MustParse(pageHTML string) *Page {
	p, err := Parse(pageHTML)
	if err != nil {
		panic(err)
	}
	return p
}

// WaitForSelector samples the document every few milliseconds until the
// requested state holds or the timeout elapses.
func (p *Page) WaitForSelector(ctx context.Context, selector string, opts driver.WaitOptions) (driver.Handle, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	deadline := time.Now().Add(timeout)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		nodes := p.findNodes(selector)
		switch opts.State {
		case driver.StateDetached:
			if len(nodes) == 0 {
				return nil, nil
			}
		default:
			if len(nodes) > 0 {
				return &handle{page: p, node: nodes[0]}, nil
			}
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("wait for selector %q (state %s) timed out after %s",
				selector, opts.State, timeout)
		}
		timer := time.NewTimer(waitTick)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}
}

// QueryAll returns the current matches in document order.
func (p *Page) QueryAll(ctx context.Context, selector string) ([]driver.Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	nodes := p.findNodes(selector)
	handles := make([]driver.Handle, 0, len(nodes))
	for _, n := range nodes {
		handles = append(handles, &handle{page: p, node: n})
	}
	return handles, nil
}

func (p *Page) findNodes(selector string) []*html.Node {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Find(selector).Nodes
}

func (p *Page) root() *html.Node {
	return p.doc.Get(0)
}

// -- Mutators (test choreography) --

// Apply runs fn against the current matches of selector under the document
// lock.
func (p *Page) Apply(selector string, fn func(*goquery.Selection)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.doc.Find(selector))
}

// AddClass appends a class token to every match.
func (p *Page) AddClass(selector, class string) {
	p.Apply(selector, func(s *goquery.Selection) { s.AddClass(class) })
}

// RemoveClass strips a class token from every match.
func (p *Page) RemoveClass(selector, class string) {
	p.Apply(selector, func(s *goquery.Selection) { s.RemoveClass(class) })
}

// SetAttr sets an attribute on every match.
func (p *Page) SetAttr(selector, name, value string) {
	p.Apply(selector, func(s *goquery.Selection) { s.SetAttr(name, value) })
}

// RemoveAttr removes an attribute from every match.
func (p *Page) RemoveAttr(selector, name string) {
	p.Apply(selector, func(s *goquery.Selection) { s.RemoveAttr(name) })
}

// Detach removes every match from the document tree. Outstanding handles to
// the removed nodes go stale, exactly like a DOM replacement mid-poll.
func (p *Page) Detach(selector string) {
	p.Apply(selector, func(s *goquery.Selection) { s.Remove() })
}

// SetHTML replaces the whole document. All outstanding handles go stale.
func (p *Page) SetHTML(pageHTML string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return fmt.Errorf("parsing replacement document: %w", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.doc = doc
	return nil
}
