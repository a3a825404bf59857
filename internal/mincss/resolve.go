package im

import (
	"context"
	"fmt"
	"sync"
)

// resolved memoizes the minifier for one backend/prefix/package triple.
// Changing any of them on the Config makes the next Resolve start over.
type resolved struct {
	mu  sync.Mutex
	key string
	m   Minifier
}

func (c *Config) resolveKey() string {
	return c.backendName() + "\x00" + c.NodePrefix + "\x00" + c.packageName()
}

// Resolve returns the configured minifier, acquiring it first if it is
// missing and can be installed. The newly installed minifier is probed
// again in-process; no restart is needed to pick it up.
func (c *Config) Resolve(ctx context.Context) (Minifier, error) {
	c.resolved.mu.Lock()
	defer c.resolved.mu.Unlock()

	key := c.resolveKey()
	if c.resolved.m != nil && c.resolved.key == key {
		return c.resolved.m, nil
	}

	name := c.backendName()
	factory, ok := lookupBackend(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	m, err := factory(c)
	if err != nil {
		return nil, fmt.Errorf("error creating %s backend: %w", name, err)
	}

	if p, ok := m.(prober); ok {
		if err := c.acquire(ctx, m, p); err != nil {
			return nil, err
		}
	}

	c.resolved.key = key
	c.resolved.m = m
	return m, nil
}

func (c *Config) acquire(ctx context.Context, m Minifier, p prober) error {
	probeErr := p.probe(ctx)
	if probeErr == nil {
		return nil
	}

	inst, ok := m.(installer)
	if !ok {
		return fmt.Errorf("%s backend is unavailable: %w", m.Name(), probeErr)
	}

	c.log().Debug().Str("backend", m.Name()).Err(probeErr).Msg("backend not found, acquiring")
	if err := inst.install(ctx); err != nil {
		return err
	}

	if err := p.probe(ctx); err != nil {
		return &InstallError{Package: c.packageName(), ExitCode: 1, Err: err}
	}
	c.log().Debug().Str("backend", m.Name()).Msg("backend acquired")
	return nil
}
