package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/sambridge/cmd/sambridge/shared"
	"github.com/lox/sambridge/internal/bot"
	"github.com/lox/sambridge/internal/bridge"
	"github.com/lox/sambridge/internal/config"
	"github.com/lox/sambridge/internal/journal"
	"github.com/lox/sambridge/internal/provider"
	"github.com/lox/sambridge/internal/provider/heuristic"
	"github.com/lox/sambridge/internal/provider/neural"
	"github.com/lox/sambridge/internal/store"
)

// app holds everything a command needs once configuration is resolved
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	bridge  *bridge.Bridge
	bot     *bot.Bot
	store   *store.Database
	journal *journal.Journal
}

// loadConfig reads the configuration file and applies flag overrides
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Server.LogLevel = g.LogLevel
	}
	if g.LogFormat != "" {
		cfg.Server.LogFormat = g.LogFormat
	}
	if g.ModelPath != "" {
		cfg.Model.Path = g.ModelPath
	}
	if g.StorePath != "" {
		cfg.Store.Path = g.StorePath
	}
	if g.JournalPath != "" {
		cfg.Journal.Path = g.JournalPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newApp builds the decision chains. When record is set, decisions are
// persisted to the configured store and journal.
func (g *Globals) newApp(record bool) (*app, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := shared.SetupLogger(os.Stderr, cfg.Server.LogLevel, cfg.Server.LogFormat)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.Bridge.Timeout()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	var recorders []bridge.Recorder
	if record {
		if cfg.Store.Path != "" {
			if a.store, err = store.Open(cfg.Store.Path, logger); err != nil {
				return nil, err
			}
			recorders = append(recorders, a.store)
		}
		if cfg.Journal.Path != "" {
			if a.journal, err = journal.Open(cfg.Journal.Path, nil, logger); err != nil {
				_ = a.Close()
				return nil, err
			}
			recorders = append(recorders, a.journal)
		}
	}

	a.bridge = bridge.New(declarerTiers(cfg, logger), selectorTiers(cfg, logger), logger, bridge.Options{
		TierTimeout: timeout,
		Recorders:   recorders,
	})
	a.bot = bot.New(a.bridge, nil, logger)

	logger.Debug("Decision chains ready",
		"model", cfg.Model.Path,
		"model_enabled", cfg.Model.IsEnabled(),
		"strategy", cfg.Bridge.Strategy(),
		"timeout", timeout,
		"recorders", len(recorders))
	return a, nil
}

// Close releases the store and journal
func (a *app) Close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.journal != nil {
		errs = append(errs, a.journal.Close())
	}
	return errors.Join(errs...)
}

func declarerTiers(cfg *config.Config, logger *log.Logger) []bridge.Tier[provider.Declarer] {
	strategy := cfg.Bridge.Strategy()
	var tiers []bridge.Tier[provider.Declarer]
	if cfg.Model.IsEnabled() {
		opts := neural.DeclarerOptions{Path: cfg.Model.Path, Strategy: strategy, Rules: &cfg.Rules}
		tiers = append(tiers, bridge.Tier[provider.Declarer]{
			Level: provider.Primary,
			Name:  neural.DeclarerName,
			Init: func(context.Context) (provider.Declarer, error) {
				d, err := neural.NewDeclarer(opts, logger)
				if err != nil {
					return nil, err
				}
				return d, nil
			},
		})
	}
	return append(tiers, bridge.Tier[provider.Declarer]{
		Level: provider.Secondary,
		Name:  heuristic.DeclarerName,
		Init: func(context.Context) (provider.Declarer, error) {
			return heuristic.NewDeclarer(strategy, logger), nil
		},
	})
}

func selectorTiers(cfg *config.Config, logger *log.Logger) []bridge.Tier[provider.MoveSelector] {
	strategy := cfg.Bridge.Strategy()
	var tiers []bridge.Tier[provider.MoveSelector]
	if cfg.Model.IsEnabled() {
		path := cfg.Model.Path
		tiers = append(tiers, bridge.Tier[provider.MoveSelector]{
			Level: provider.Primary,
			Name:  neural.SelectorName,
			Init: func(context.Context) (provider.MoveSelector, error) {
				s, err := neural.NewMoveSelector(path, logger)
				if err != nil {
					return nil, err
				}
				return s, nil
			},
		})
	}
	return append(tiers, bridge.Tier[provider.MoveSelector]{
		Level: provider.Secondary,
		Name:  heuristic.SelectorName,
		Init: func(context.Context) (provider.MoveSelector, error) {
			return heuristic.NewMoveSelector(strategy, logger), nil
		},
	})
}
