package bridge

import (
	"sync/atomic"

	"github.com/lox/sambridge/internal/model"
	"github.com/lox/sambridge/internal/provider"
)

// TierStatus reports one tier of one chain
type TierStatus struct {
	Chain    string        `json:"chain"`
	Tier     provider.Tier `json:"tier"`
	Provider string        `json:"provider"`
	State    State         `json:"state"`
	Attempts int           `json:"init_attempts"`
	Error    string        `json:"error,omitempty"`
	Model    *model.Status `json:"model,omitempty"`
}

// Status lists every tier of both chains, static defaults included
func (b *Bridge) Status() []TierStatus {
	var out []TierStatus
	out = appendStatus(out, "declare", b.declarers)
	out = append(out, staticStatus("declare"))
	out = appendStatus(out, "move", b.selectors)
	return append(out, staticStatus("move"))
}

func appendStatus[P any](out []TierStatus, chain string, handles []*handle[P]) []TierStatus {
	for _, h := range handles {
		state, attempts, err, p := h.snapshot()
		ts := TierStatus{
			Chain:    chain,
			Tier:     h.tier.Level,
			Provider: h.tier.Name,
			State:    state,
			Attempts: attempts,
		}
		if err != nil {
			ts.Error = err.Error()
		}
		if r, ok := any(p).(provider.StatusReporter); ok && state == StateReady {
			st := r.Status()
			ts.Model = &st
		}
		out = append(out, ts)
	}
	return out
}

func staticStatus(chain string) TierStatus {
	return TierStatus{Chain: chain, Tier: provider.Default, Provider: StaticName, State: StateReady}
}

// Stats is a point in time copy of the bridge counters
type Stats struct {
	Declarations map[provider.Tier]int64      `json:"declarations"`
	Moves        map[provider.Tier]int64      `json:"moves"`
	Fallbacks    map[provider.ErrorKind]int64 `json:"fallbacks"`
}

var (
	tiers = []provider.Tier{provider.Primary, provider.Secondary, provider.Default}
	kinds = []provider.ErrorKind{provider.ArtifactMissing, provider.ProviderUninitialized, provider.InferenceFailure}
)

type counters struct {
	declarations map[provider.Tier]*atomic.Int64
	moves        map[provider.Tier]*atomic.Int64
	fallbacks    map[provider.ErrorKind]*atomic.Int64
}

func newCounters() counters {
	c := counters{
		declarations: map[provider.Tier]*atomic.Int64{},
		moves:        map[provider.Tier]*atomic.Int64{},
		fallbacks:    map[provider.ErrorKind]*atomic.Int64{},
	}
	for _, t := range tiers {
		c.declarations[t] = new(atomic.Int64)
		c.moves[t] = new(atomic.Int64)
	}
	for _, k := range kinds {
		c.fallbacks[k] = new(atomic.Int64)
	}
	return c
}

func (c counters) declared(t provider.Tier) {
	if n, ok := c.declarations[t]; ok {
		n.Add(1)
	}
}

func (c counters) moved(t provider.Tier) {
	if n, ok := c.moves[t]; ok {
		n.Add(1)
	}
}

func (c counters) fellBack(k provider.ErrorKind) {
	if n, ok := c.fallbacks[k]; ok {
		n.Add(1)
	}
}

// Stats returns the answer and fallback counters
func (b *Bridge) Stats() Stats {
	s := Stats{
		Declarations: map[provider.Tier]int64{},
		Moves:        map[provider.Tier]int64{},
		Fallbacks:    map[provider.ErrorKind]int64{},
	}
	for t, n := range b.stats.declarations {
		s.Declarations[t] = n.Load()
	}
	for t, n := range b.stats.moves {
		s.Moves[t] = n.Load()
	}
	for k, n := range b.stats.fallbacks {
		s.Fallbacks[k] = n.Load()
	}
	return s
}
