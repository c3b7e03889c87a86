package build

import (
	"context"
	"fmt"
	"sync"
)

// AsyncHookFunc is a tap on an AsyncHook
type AsyncHookFunc func(ctx context.Context, compilation *Compilation) error

type tap struct {
	name string
	fn   AsyncHookFunc
}

// AsyncHook runs its taps in registration order. The first failing tap stops
// the call.
type AsyncHook struct {
	mu   sync.RWMutex
	taps []tap
}

// TapAsync registers fn under name
func (h *AsyncHook) TapAsync(name string, fn AsyncHookFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.taps = append(h.taps, tap{name: name, fn: fn})
}

// Taps returns the registered tap names
func (h *AsyncHook) Taps() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, len(h.taps))
	for i, t := range h.taps {
		names[i] = t.name
	}
	return names
}

// CallAsync invokes every tap in series
func (h *AsyncHook) CallAsync(ctx context.Context, compilation *Compilation) error {
	h.mu.RLock()
	taps := append([]tap(nil), h.taps...)
	h.mu.RUnlock()

	for _, t := range taps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.fn(ctx, compilation); err != nil {
			return fmt.Errorf("%s: %w", t.name, err)
		}
	}
	return nil
}
