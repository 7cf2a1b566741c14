// Package theme switches the page between light, dark and auto themes and
// remembers the choice on the server.
package theme

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
	Auto  Theme = "auto"
)

// Attr is the document attribute carrying the active theme.
const Attr = "data-theme"

// Parse validates a theme name.
func Parse(s string) (Theme, error) {
	switch t := Theme(s); t {
	case Light, Dark, Auto:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// Initial reads the theme the server rendered into the page, falling back to
// Light when it is absent or unknown.
func Initial(attr string) Theme {
	t, err := Parse(attr)
	if err != nil {
		return Light
	}
	return t
}

// Root is the document whose attribute reflects the theme.
type Root interface {
	SetAttr(name, value string)
}

// Persister stores the chosen theme on the server.
type Persister interface {
	Persist(ctx context.Context, t Theme) error
}

// Decoration is started while the dark theme is on and stopped otherwise.
type Decoration interface {
	Start()
	Stop()
}

// PersistTimeout bounds a background persist request.
const PersistTimeout = 5 * time.Second

// Controller is the theme state machine of one page.
type Controller struct {
	root      Root
	persister Persister
	log       *slog.Logger

	// transition serialises Set calls so decoration start and stop happen in
	// the same order as the state changes.
	transition sync.Mutex
	deco       Decoration

	mu      sync.Mutex
	current Theme

	inflight sync.WaitGroup
}

// NewController applies the initial theme read from the page to root.
func NewController(root Root, initial string, p Persister, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		root:      root,
		persister: p,
		log:       logger,
		current:   Initial(initial),
	}
	root.SetAttr(Attr, string(c.current))
	return c
}

// Decorate attaches d, starting it right away when the theme is dark.
func (c *Controller) Decorate(d Decoration) {
	c.transition.Lock()
	defer c.transition.Unlock()
	c.deco = d
	if c.Current() == Dark {
		d.Start()
	}
}

// Current is the applied theme.
func (c *Controller) Current() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// IsDark reports whether the dark theme is applied.
func (c *Controller) IsDark() bool {
	return c.Current() == Dark
}

// Set applies t immediately and persists it in the background. A failed
// persist is logged and the page keeps t, so the page and the server may
// disagree until the next successful Set. Unknown themes are rejected and
// change nothing.
func (c *Controller) Set(t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}
	c.apply(t)

	if c.persister == nil {
		return nil
	}
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), PersistTimeout)
		defer cancel()
		if err := c.persister.Persist(ctx, t); err != nil {
			c.log.Warn("failed to persist theme", "theme", t, "error", err)
		}
	}()
	return nil
}

// SetAcknowledged persists t first and applies it only once the server has
// accepted it. On failure the page keeps its current theme.
func (c *Controller) SetAcknowledged(ctx context.Context, t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}
	if c.persister != nil {
		if err := c.persister.Persist(ctx, t); err != nil {
			return fmt.Errorf("persist theme %s: %w", t, err)
		}
	}
	c.apply(t)
	return nil
}

func (c *Controller) apply(t Theme) {
	c.transition.Lock()
	defer c.transition.Unlock()

	c.mu.Lock()
	c.current = t
	c.root.SetAttr(Attr, string(t))
	c.mu.Unlock()

	if c.deco == nil {
		return
	}
	if t == Dark {
		c.deco.Start()
	} else {
		c.deco.Stop()
	}
}

// Wait blocks until every background persist has finished.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Teardown stops the decoration and waits for pending persists.
func (c *Controller) Teardown() {
	c.transition.Lock()
	if c.deco != nil {
		c.deco.Stop()
	}
	c.transition.Unlock()
	c.Wait()
}
