package testkit

import (
	"context"
	"fmt"
	"sync"

	"github.com/crmarques/soldo/config"
	"github.com/crmarques/soldo/faults"
)

// Contexts is an in-memory config.ContextService.
type Contexts struct {
	mu       sync.Mutex
	items    []config.Context
	current  string
	resolved []config.ContextSelection
}

func NewContexts(current string, items ...config.Context) *Contexts {
	return &Contexts{items: append([]config.Context(nil), items...), current: current}
}

func (c *Contexts) Create(_ context.Context, cfg config.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index(cfg.Name) >= 0 {
		return faults.NewTypedError(faults.ConflictError, fmt.Sprintf("context %q already exists", cfg.Name), nil)
	}
	c.items = append(c.items, cfg)
	if c.current == "" {
		c.current = cfg.Name
	}
	return nil
}

func (c *Contexts) Update(_ context.Context, cfg config.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.index(cfg.Name)
	if idx < 0 {
		return notFound(cfg.Name)
	}
	c.items[idx] = cfg
	return nil
}

func (c *Contexts) Delete(_ context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.index(name)
	if idx < 0 {
		return notFound(name)
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	if c.current == name {
		c.current = ""
	}
	return nil
}

func (c *Contexts) SetCurrent(_ context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index(name) < 0 {
		return notFound(name)
	}
	c.current = name
	return nil
}

func (c *Contexts) List(_ context.Context) ([]config.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]config.Context(nil), c.items...), nil
}

func (c *Contexts) GetCurrent(_ context.Context) (config.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.index(c.current)
	if idx < 0 {
		return config.Context{}, faults.NewTypedError(faults.NotFoundError, "current context not set", nil)
	}
	return c.items[idx], nil
}

func (c *Contexts) ResolveContext(_ context.Context, selection config.ContextSelection) (config.Context, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolved = append(c.resolved, selection)
	name := selection.Name
	if name == "" {
		name = c.current
	}
	idx := c.index(name)
	if idx < 0 {
		return config.Context{}, notFound(name)
	}
	return c.items[idx], nil
}

func (c *Contexts) Validate(_ context.Context, cfg config.Context) error {
	if cfg.Name == "" {
		return faults.NewTypedError(faults.ValidationError, "context name is required", nil)
	}
	return nil
}

// Current returns the name of the current context.
func (c *Contexts) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Resolved returns every selection passed to ResolveContext.
func (c *Contexts) Resolved() []config.ContextSelection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]config.ContextSelection(nil), c.resolved...)
}

func (c *Contexts) index(name string) int {
	for idx, item := range c.items {
		if item.Name == name {
			return idx
		}
	}
	return -1
}

func notFound(name string) error {
	return faults.NewTypedError(faults.NotFoundError, fmt.Sprintf("context %q not found", name), nil)
}
