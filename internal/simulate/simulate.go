// Package simulate deals random hands and drives them through the bridge to
// see which tiers answer and how often hands declare.
package simulate

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/sambridge/internal/bot"
	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/combo"
	"github.com/lox/sambridge/internal/provider"
	"github.com/lox/sambridge/internal/randutil"
)

// SamHandSize is the number of cards dealt per player in Sâm
const SamHandSize = 10

// Config holds configuration for a simulation run
type Config struct {
	// Deals is the number of tables dealt; each deal yields Players hands
	Deals   int
	Players int
	Seed    int64
	Workers int
	// Moves also asks the move chain for an opening lead on every hand
	Moves  bool
	Logger *log.Logger
}

// Simulator runs hands through a decider
type Simulator struct {
	config  Config
	decider bot.Decider
	logger  *log.Logger
}

// New creates a simulator. Zero Players and Workers default to 4 and the
// number of CPUs; a nil Logger uses log.Default().
func New(decider bot.Decider, config Config) *Simulator {
	if config.Players == 0 {
		config.Players = 4
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	return &Simulator{
		config:  config,
		decider: decider,
		logger:  config.Logger.WithPrefix("simulate"),
	}
}

// Run simulates every deal. Each deal is seeded from Seed and its index so
// results do not depend on the number of workers.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	cfg := s.config
	if cfg.Deals <= 0 {
		return nil, fmt.Errorf("deals must be positive, got %d", cfg.Deals)
	}
	if cfg.Players < 2 || cfg.Players*SamHandSize > cards.DeckSize {
		return nil, fmt.Errorf("cannot deal %d hands of %d cards", cfg.Players, SamHandSize)
	}

	workers := min(cfg.Workers, cfg.Deals)
	partials := make([]*Report, workers)
	start := time.Now()

	s.logger.Info("Starting simulation", "deals", cfg.Deals, "players", cfg.Players, "workers", workers, "seed", cfg.Seed)

	g, ctx := errgroup.WithContext(ctx)
	for w := range workers {
		partials[w] = NewReport()
		g.Go(func() error {
			for deal := w; deal < cfg.Deals; deal += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				s.playDeal(ctx, deal, partials[w])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := NewReport()
	for _, p := range partials {
		report.Merge(p)
	}
	report.Duration = time.Since(start)

	s.logger.Info("Simulation complete",
		"hands", report.Hands,
		"declared", report.Declared,
		"duration", report.Duration)
	return report, nil
}

func (s *Simulator) playDeal(ctx context.Context, deal int, r *Report) {
	rng := randutil.New(s.config.Seed + int64(deal))
	hands := randutil.Deal(rng, s.config.Players, SamHandSize)

	for seat, hand := range hands {
		res := s.decider.Declare(ctx, provider.DeclarationRequest{Hand: hand, PlayerCount: s.config.Players})
		r.AddDeclaration(res)

		if !s.config.Moves {
			continue
		}
		req := provider.MoveRequest{
			Record: provider.GameRecord{
				GameID:      fmt.Sprintf("sim-%d", deal),
				GameType:    provider.GameSam,
				TurnID:      1,
				PlayerID:    seat,
				Hand:        hand,
				PlayerCount: s.config.Players,
			},
			LegalMoves: openingLeads(hand),
		}
		r.AddMove(s.decider.SelectMove(ctx, req))
	}
}

// openingLeads offers every combo of the hand's decomposition as a lead
func openingLeads(hand cards.Hand) []provider.Move {
	var moves []provider.Move
	for _, c := range combo.AnalyzeHand(hand) {
		moves = append(moves, provider.Play(c.Cards))
	}
	return moves
}
