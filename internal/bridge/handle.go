package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/lox/sambridge/internal/provider"
)

// Factory builds a provider on first use
type Factory[P any] func(ctx context.Context) (P, error)

// Tier is one stage of a fallback chain
type Tier[P any] struct {
	Level provider.Tier
	Name  string
	Init  Factory[P]
}

// State is the lifecycle of a tier's provider handle
type State string

const (
	StatePending State = "pending"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// handle lazily initialises a tier once and caches the outcome, success or
// failure, until reset. Concurrent first callers block on mu and share the
// single attempt.
type handle[P any] struct {
	tier Tier[P]

	mu       sync.Mutex
	done     bool
	provider P
	err      error
	attempts int
}

func newHandle[P any](t Tier[P]) *handle[P] {
	return &handle[P]{tier: t}
}

// get returns the cached provider, initialising it on first call. The
// caller's cancellation does not reach the factory so one impatient caller
// cannot poison the cache for everyone else.
func (h *handle[P]) get(ctx context.Context) (P, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.done {
		h.attempts++
		h.provider, h.err = h.build(context.WithoutCancel(ctx))
		h.done = true
	}
	return h.provider, h.err
}

func (h *handle[P]) build(ctx context.Context) (p P, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = provider.NewError(provider.ProviderUninitialized, h.tier.Name, fmt.Errorf("init panicked: %v", r))
		}
	}()
	if h.tier.Init == nil {
		return p, provider.NewError(provider.ProviderUninitialized, h.tier.Name, fmt.Errorf("no factory"))
	}
	return h.tier.Init(ctx)
}

func (h *handle[P]) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	var zero P
	h.done, h.provider, h.err, h.attempts = false, zero, nil, 0
}

func (h *handle[P]) snapshot() (state State, attempts int, err error, p P) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch {
	case !h.done:
		state = StatePending
	case h.err != nil:
		state = StateFailed
	default:
		state = StateReady
	}
	return state, h.attempts, h.err, h.provider
}
