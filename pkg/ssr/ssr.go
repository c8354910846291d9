// Package ssr scopes a stylesheet to one server render.
//
// A [Context] owns a fresh group allocator, stylesheet and extraction
// session. Each call to [Context.Render] renders one element and emits its
// style blocks right away, so an element whose dynamic rules change a group
// after an earlier element emitted it gets a block for the new content.
//
// Concurrent requests either use one Context each:
//
//	c := ssr.NewContext(ssr.Options{})
//	el, err := c.Render(def, props)
//	page := c.HTML() + "<div class=\"" + el.ClassName() + "\"></div>"
//
// or share one through [Shared], which serializes whole renders.
package ssr

import (
	"io"
	"sync"

	"github.com/matzehuels/styletower/pkg/extract"
	"github.com/matzehuels/styletower/pkg/groupid"
	"github.com/matzehuels/styletower/pkg/sheet"
	"github.com/matzehuels/styletower/pkg/styled"
	"github.com/matzehuels/styletower/pkg/tag"
)

// Options configures a Context.
type Options struct {
	// Tag configures the rule store of the context's sheet.
	Tag tag.Options
}

// Context is the per-render state. It is not safe for concurrent use.
type Context struct {
	sheet   *sheet.StyleSheet
	session *extract.Session
}

// NewContext creates a Context with its own allocator, sheet and session.
func NewContext(opts Options) *Context {
	s := sheet.New(sheet.Options{Tag: opts.Tag, Allocator: groupid.New()})
	return &Context{
		sheet:   s,
		session: extract.NewSession(s),
	}
}

// Sheet returns the context's stylesheet.
func (c *Context) Sheet() *sheet.StyleSheet { return c.sheet }

// Render renders def with props and emits the blocks the element needs.
// On error the sheet keeps whatever rules were added before the failure.
func (c *Context) Render(def *styled.Definition, props styled.Props) (styled.Element, error) {
	el, err := styled.Render(c.sheet, def, props)
	if err != nil {
		return el, err
	}
	if _, err := c.session.Emit(el.Chain); err != nil {
		return el, err
	}
	return el, nil
}

// Blocks returns the blocks emitted in the current response.
func (c *Context) Blocks() []extract.Block { return c.session.Blocks() }

// CSS returns the emitted blocks' CSS, concatenated.
func (c *Context) CSS() string { return c.session.CSS() }

// HTML returns the emitted blocks as style elements.
func (c *Context) HTML() string { return c.session.HTML() }

// WriteTo writes the emitted blocks as style elements to w.
func (c *Context) WriteTo(w io.Writer) (int64, error) { return c.session.WriteTo(w) }

// endResponse forgets the current response's emitted blocks. The sheet keeps
// its rules.
func (c *Context) endResponse() {
	c.session.Reset()
}

// Shared is one Context used by many goroutines. Each Do call holds the lock
// for the whole render and extraction.
type Shared struct {
	mu  sync.Mutex
	ctx *Context
}

// NewShared creates a Shared context.
//
// The sheet outlives each Do call, so a dynamic group accumulates the values
// resolved by every earlier call: the block a later call emits for that group
// carries those rules too, under a token that changes whenever the group
// grows. Use NewContext per request when blocks must hold only the values of
// their own response.
func NewShared(opts Options) *Shared {
	return &Shared{ctx: NewContext(opts)}
}

// Do runs fn with exclusive access to the context. Blocks start empty for
// every call; the sheet persists across calls.
func (s *Shared) Do(fn func(*Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.ctx.endResponse()
	return fn(s.ctx)
}

// Reset drops every rule and id of the shared sheet.
func (s *Shared) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx.endResponse()
	s.ctx.sheet.Reset()
}
