// Package bot is the game-facing player: it checks for a Báo Sâm declaration
// at the opening of a Sâm game and otherwise picks a move through the bridge.
package bot

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/sambridge/internal/provider"
)

const (
	Name    = "sam_bridge_bot"
	Kind    = "bridge"
	Version = "1.0.0"
)

// Decider is the decision surface the bot plays through
type Decider interface {
	Declare(ctx context.Context, req provider.DeclarationRequest) provider.DeclarationResult
	SelectMove(ctx context.Context, req provider.MoveRequest) provider.MoveResult
}

// Turn is the bot's answer for one turn. Declaration is set when the opening
// Báo Sâm check ran, whatever it decided.
type Turn struct {
	provider.MoveResult
	Declaration *provider.DeclarationResult `json:"declaration,omitempty"`
}

// Info describes the bot
type Info struct {
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Version     string        `json:"version"`
	LastLatency time.Duration `json:"last_latency_ns"`
	Turns       int           `json:"turns"`
}

// Bot plays Sâm and Tiến Lên turns through a Decider
type Bot struct {
	decider Decider
	clock   quartz.Clock
	logger  *log.Logger

	mu          sync.Mutex
	lastLatency time.Duration
	turns       int
}

// New creates a bot. A nil clock uses the real clock.
func New(decider Decider, clock quartz.Clock, logger *log.Logger) *Bot {
	if logger == nil {
		logger = log.Default()
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Bot{
		decider: decider,
		clock:   clock,
		logger:  logger.WithPrefix("bot"),
	}
}

// Play decides one turn
func (b *Bot) Play(ctx context.Context, req provider.MoveRequest) Turn {
	start := b.clock.Now()
	turn := b.play(ctx, req)

	b.mu.Lock()
	b.lastLatency = b.clock.Since(start)
	b.turns++
	b.mu.Unlock()

	return turn
}

func (b *Bot) play(ctx context.Context, req provider.MoveRequest) Turn {
	rec := req.Record
	if declare, ok := declareMove(req.LegalMoves); ok && rec.IsSamOpening() {
		dres := b.decider.Declare(ctx, provider.DeclarationRequest{
			Hand:        rec.Hand,
			PlayerCount: rec.Players(),
		})
		if dres.ShouldDeclare {
			b.logger.Info("Declaring Báo Sâm",
				"game", rec.GameID,
				"player", rec.PlayerID,
				"probability", dres.Probability,
				"tier", dres.Tier)
			return Turn{
				MoveResult:  provider.MoveResult{Move: declare, Meta: dres.Meta},
				Declaration: &dres,
			}
		}

		b.logger.Debug("Báo Sâm declined", "game", rec.GameID, "player", rec.PlayerID, "reason", dres.Reason)
		moves := withoutDeclare(req.LegalMoves)
		return Turn{
			MoveResult:  b.decider.SelectMove(ctx, provider.MoveRequest{Record: rec, LegalMoves: moves}),
			Declaration: &dres,
		}
	}

	req.LegalMoves = withoutDeclare(req.LegalMoves)
	return Turn{MoveResult: b.decider.SelectMove(ctx, req)}
}

// Info returns the bot's identity and latency of its last turn
func (b *Bot) Info() Info {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Info{
		Name:        Name,
		Type:        Kind,
		Version:     Version,
		LastLatency: b.lastLatency,
		Turns:       b.turns,
	}
}

func declareMove(moves []provider.Move) (provider.Move, bool) {
	for _, m := range moves {
		if m.Type == provider.DeclareBaoSam {
			return m.Clone(), true
		}
	}
	return provider.Move{}, false
}

// withoutDeclare drops declaration moves; a declaration only ever comes from
// the declaration chain.
func withoutDeclare(moves []provider.Move) []provider.Move {
	out := make([]provider.Move, 0, len(moves))
	for _, m := range moves {
		if m.Type != provider.DeclareBaoSam {
			out = append(out, m)
		}
	}
	return out
}
