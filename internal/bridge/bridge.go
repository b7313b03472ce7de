// Package bridge chains decision providers in preference order and always
// returns an answer.
//
// Each chain tries its tiers in order: the primary model, the secondary
// rule-based provider, then a static default that cannot fail. A tier that
// fails to initialise or to answer is logged and skipped. Tier handles are
// created lazily and their outcome is cached until Reset.
package bridge

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/sambridge/internal/provider"
)

// StaticName names the built-in last tier
const StaticName = "static_default"

// Recorder receives every answer the bridge gives. Errors are logged and
// never change the answer.
type Recorder interface {
	RecordDeclaration(ctx context.Context, req provider.DeclarationRequest, res provider.DeclarationResult) error
	RecordMove(ctx context.Context, req provider.MoveRequest, res provider.MoveResult) error
}

// Options tunes a Bridge
type Options struct {
	// Clock measures latency and drives tier timeouts; defaults to the real clock
	Clock quartz.Clock
	// TierTimeout bounds each provider call; zero waits indefinitely
	TierTimeout time.Duration
	Recorders   []Recorder
}

// Bridge serves declarations and move selections through fallback chains
type Bridge struct {
	declarers []*handle[provider.Declarer]
	selectors []*handle[provider.MoveSelector]

	clock     quartz.Clock
	timeout   time.Duration
	recorders []Recorder
	logger    *log.Logger
	stats     counters
}

// New creates a bridge. Tiers are tried in the order given and the static
// default is appended to both chains. A nil logger uses log.Default().
func New(declarers []Tier[provider.Declarer], selectors []Tier[provider.MoveSelector], logger *log.Logger, opts Options) *Bridge {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	b := &Bridge{
		clock:     opts.Clock,
		timeout:   opts.TierTimeout,
		recorders: opts.Recorders,
		logger:    logger.WithPrefix("bridge"),
		stats:     newCounters(),
	}
	for _, t := range declarers {
		b.declarers = append(b.declarers, newHandle(t))
	}
	for _, t := range selectors {
		b.selectors = append(b.selectors, newHandle(t))
	}
	return b
}

// Declare answers a declaration request. It never fails: when every tier
// fails the static default declines to declare.
func (b *Bridge) Declare(ctx context.Context, req provider.DeclarationRequest) provider.DeclarationResult {
	req = req.Clone()
	start := b.clock.Now()

	decl, meta := attempt(ctx, b, b.declarers, "declare", req.Summary(),
		func(ctx context.Context, p provider.Declarer) (provider.Declaration, error) {
			return p.Declare(ctx, req.Clone())
		},
		StaticDeclaration,
	)
	meta.Latency = b.clock.Since(start)

	res := provider.DeclarationResult{Declaration: decl, Meta: meta}
	b.stats.declared(res.Tier)
	b.logger.Info("Declaration served",
		"tier", res.Tier,
		"provider", res.Provider,
		"declare", res.ShouldDeclare,
		"probability", res.Probability,
		"latency", res.Latency)

	for _, r := range b.recorders {
		if err := r.RecordDeclaration(ctx, req, res); err != nil {
			b.logger.Warn("Recorder failed", "kind", "declare", "error", err)
		}
	}
	return res
}

// SelectMove answers a move request. It never fails: when every tier fails
// the static default plays the first legal play or passes.
func (b *Bridge) SelectMove(ctx context.Context, req provider.MoveRequest) provider.MoveResult {
	req = req.Clone()
	start := b.clock.Now()

	move, meta := attempt(ctx, b, b.selectors, "move", req.Summary(),
		func(ctx context.Context, p provider.MoveSelector) (provider.Move, error) {
			return p.SelectMove(ctx, req.Clone())
		},
		func() provider.Move { return StaticMove(req.LegalMoves) },
	)
	meta.Latency = b.clock.Since(start)

	res := provider.MoveResult{Move: move, Meta: meta}
	b.stats.moved(res.Tier)
	b.logger.Info("Move served",
		"tier", res.Tier,
		"provider", res.Provider,
		"move", res.Move,
		"latency", res.Latency)

	for _, r := range b.recorders {
		if err := r.RecordMove(ctx, req, res); err != nil {
			b.logger.Warn("Recorder failed", "kind", "move", "error", err)
		}
	}
	return res
}

// attempt walks a chain until a tier answers, falling back to static.
func attempt[P, R any](
	ctx context.Context,
	b *Bridge,
	chain []*handle[P],
	kind, summary string,
	call func(context.Context, P) (R, error),
	static func() R,
) (R, provider.Meta) {
	meta := provider.Meta{ID: newID()}

	for _, h := range chain {
		t := h.tier
		b.logger.Debug("Trying tier", "chain", kind, "tier", t.Level, "provider", t.Name)

		p, err := h.get(ctx)
		if err != nil {
			b.fellBack(&meta, t.Level, t.Name, provider.KindOf(err, provider.ProviderUninitialized), err, summary)
			continue
		}

		out, err := invoke(ctx, b.clock, b.timeout, func(ctx context.Context) (R, error) {
			return call(ctx, p)
		})
		if err != nil {
			b.fellBack(&meta, t.Level, t.Name, provider.KindOf(err, provider.InferenceFailure), err, summary)
			continue
		}

		meta.Tier, meta.Provider = t.Level, t.Name
		return out, meta
	}

	meta.Tier, meta.Provider = provider.Default, StaticName
	return static(), meta
}

func (b *Bridge) fellBack(meta *provider.Meta, tier provider.Tier, name string, kind provider.ErrorKind, err error, summary string) {
	b.stats.fellBack(kind)
	b.logger.Warn("Tier failed, falling back",
		"tier", tier,
		"provider", name,
		"kind", kind,
		"error", err,
		"request", summary)
	meta.Fallbacks = append(meta.Fallbacks, provider.Fallback{
		Tier:     tier,
		Provider: name,
		Kind:     kind,
		Error:    err.Error(),
	})
}

// Warm initialises every tier so Status reflects real readiness
func (b *Bridge) Warm(ctx context.Context) {
	for _, h := range b.declarers {
		_, _ = h.get(ctx)
	}
	for _, h := range b.selectors {
		_, _ = h.get(ctx)
	}
}

// Reset drops every cached provider; the next request initialises again
func (b *Bridge) Reset() {
	for _, h := range b.declarers {
		h.reset()
	}
	for _, h := range b.selectors {
		h.reset()
	}
	b.logger.Debug("Provider handles reset")
}

// StaticDeclaration is the conservative last-resort answer
func StaticDeclaration() provider.Declaration {
	return provider.Declaration{
		ShouldDeclare: false,
		Probability:   0,
		Confidence:    1,
		Reason:        StaticName,
	}
}

// StaticMove plays the first legal play with cards, otherwise passes
func StaticMove(legal []provider.Move) provider.Move {
	for _, m := range legal {
		if m.Type == provider.PlayCards && len(m.Cards) > 0 {
			return m.Clone()
		}
	}
	return provider.Pass()
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
