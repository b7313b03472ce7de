package simulate

import (
	"time"

	"github.com/lox/sambridge/internal/probability"
	"github.com/lox/sambridge/internal/provider"
)

// Report aggregates a simulation run
type Report struct {
	Hands     int                        `json:"hands"`
	Declared  int                        `json:"declared"`
	Moves     int                        `json:"moves"`
	ByTier    map[provider.Tier]int      `json:"declarations_by_tier"`
	MoveTiers map[provider.Tier]int      `json:"moves_by_tier"`
	Fallbacks map[provider.ErrorKind]int `json:"fallbacks"`
	Providers map[string]int             `json:"providers"`
	Duration  time.Duration              `json:"duration_ns"`

	probabilities []float64
	latencies     []float64
}

// NewReport creates an empty report
func NewReport() *Report {
	return &Report{
		ByTier:    map[provider.Tier]int{},
		MoveTiers: map[provider.Tier]int{},
		Fallbacks: map[provider.ErrorKind]int{},
		Providers: map[string]int{},
	}
}

// AddDeclaration records one declaration answer
func (r *Report) AddDeclaration(res provider.DeclarationResult) {
	r.Hands++
	if res.ShouldDeclare {
		r.Declared++
	}
	r.ByTier[res.Tier]++
	r.Providers[res.Provider]++
	for _, f := range res.Fallbacks {
		r.Fallbacks[f.Kind]++
	}
	r.probabilities = append(r.probabilities, res.Probability)
	r.latencies = append(r.latencies, float64(res.Latency))
}

// AddMove records one move answer
func (r *Report) AddMove(res provider.MoveResult) {
	r.Moves++
	r.MoveTiers[res.Tier]++
	for _, f := range res.Fallbacks {
		r.Fallbacks[f.Kind]++
	}
}

// Merge folds other into r
func (r *Report) Merge(other *Report) {
	r.Hands += other.Hands
	r.Declared += other.Declared
	r.Moves += other.Moves
	for k, v := range other.ByTier {
		r.ByTier[k] += v
	}
	for k, v := range other.MoveTiers {
		r.MoveTiers[k] += v
	}
	for k, v := range other.Fallbacks {
		r.Fallbacks[k] += v
	}
	for k, v := range other.Providers {
		r.Providers[k] += v
	}
	r.probabilities = append(r.probabilities, other.probabilities...)
	r.latencies = append(r.latencies, other.latencies...)
}

// DeclareRate is the share of hands that declared
func (r *Report) DeclareRate() float64 {
	if r.Hands == 0 {
		return 0
	}
	return float64(r.Declared) / float64(r.Hands)
}

// MeanProbability is the mean declaration probability
func (r *Report) MeanProbability() float64 {
	return probability.Mean(r.probabilities)
}

// MedianLatency is the median declaration latency
func (r *Report) MedianLatency() time.Duration {
	return time.Duration(probability.Median(r.latencies))
}

// MeanLatency is the mean declaration latency
func (r *Report) MeanLatency() time.Duration {
	return time.Duration(probability.Mean(r.latencies))
}
