package neural

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lox/sambridge/internal/combo"
	"github.com/lox/sambridge/internal/features"
	"github.com/lox/sambridge/internal/model"
	"github.com/lox/sambridge/internal/probability"
	"github.com/lox/sambridge/internal/provider"
	"github.com/lox/sambridge/internal/rules"
	"github.com/lox/sambridge/internal/sequence"
)

// DeclarerName identifies the primary declarer in results and logs
const DeclarerName = "unbeatable_sequence_model"

// DeclarerOptions configures a Declarer. A nil Rules uses
// rules.DefaultConfig; a non-nil one is used as given, zero values included.
type DeclarerOptions struct {
	Path     string
	Strategy sequence.Strategy
	Rules    *rules.Config
}

// Declarer decides Báo Sâm declarations with the declaration network. Hands
// the rule engine rejects are answered without consulting the network.
type Declarer struct {
	path     string
	artifact *model.Artifact
	net      *model.Network
	rules    *rules.Engine
	strategy sequence.Strategy
	logger   *log.Logger
}

// NewDeclarer loads the artifact and builds the declaration network
func NewDeclarer(opts DeclarerOptions, logger *log.Logger) (*Declarer, error) {
	if logger == nil {
		logger = log.Default()
	}
	a, err := loadTrained(DeclarerName, opts.Path)
	if err != nil {
		return nil, err
	}
	net, err := a.DeclarationNetwork()
	if err != nil {
		return nil, provider.NewError(provider.ProviderUninitialized, DeclarerName, err)
	}
	ruleset := rules.DefaultConfig()
	if opts.Rules != nil {
		ruleset = *opts.Rules
	}
	return &Declarer{
		path:     opts.Path,
		artifact: a,
		net:      net,
		rules:    rules.NewEngine(ruleset),
		strategy: sequence.ParseStrategy(string(opts.Strategy)),
		logger:   logger.WithPrefix("neural"),
	}, nil
}

func (d *Declarer) Name() string {
	return DeclarerName
}

// Declare implements provider.Declarer
func (d *Declarer) Declare(ctx context.Context, req provider.DeclarationRequest) (provider.Declaration, error) {
	if err := ctx.Err(); err != nil {
		return provider.Declaration{}, provider.NewError(provider.InferenceFailure, DeclarerName, err)
	}

	players := req.PlayerCount
	if players <= 0 {
		players = features.DefaultPlayers
	}
	combos := combo.AnalyzeHand(req.Hand)
	threshold := d.artifact.ThresholdFor(players)

	verdict := d.rules.Validate(combos)
	if !verdict.Valid {
		p := probability.Unbeatable(combos)
		d.logger.Debug("Hand rejected by rules", "reason", verdict.Reason, "estimate", p)
		return provider.Declaration{
			ShouldDeclare: false,
			Probability:   p,
			Confidence:    1 - p,
			Threshold:     threshold,
			Reason:        verdict.Reason,
		}, nil
	}

	p, err := d.net.Predict(features.Declaration(combos, players))
	if err != nil {
		return provider.Declaration{}, provider.NewError(provider.InferenceFailure, DeclarerName, err)
	}
	p = probability.Clamp(p, 0, 1)

	decl := provider.Declaration{
		Probability: p,
		Threshold:   threshold,
	}
	if p >= threshold {
		plan := sequence.PlanCombos(combos, players, d.strategy)
		decl.ShouldDeclare = true
		decl.Confidence = p
		decl.Reason = "unbeatable_probability_above_threshold"
		decl.Sequence = plan.Sequence
	} else {
		decl.Confidence = 1 - p
		decl.Reason = "unbeatable_probability_below_threshold"
	}

	d.logger.Debug("Declaration scored",
		"probability", p,
		"threshold", threshold,
		"declare", decl.ShouldDeclare)
	return decl, nil
}

// Status implements provider.StatusReporter
func (d *Declarer) Status() model.Status {
	return model.StatusOf(d.path)
}
