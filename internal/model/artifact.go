// Package model loads and saves the decision networks used by the primary
// decision tier.
//
// An artifact is a JSON document holding two go-deep network dumps: the
// declaration network scores Báo Sâm declarations and the candidate network
// scores individual legal moves. Training happens elsewhere; this package only
// reads what training produced, or writes an untrained scaffold.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/patrikeh/go-deep"

	"github.com/lox/sambridge/internal/features"
	"github.com/lox/sambridge/internal/fileutil"
	"github.com/lox/sambridge/internal/randutil"
)

const fileVersion = 1

// DefaultThreshold applies when the artifact carries no threshold
const DefaultThreshold = 0.8

var (
	// ErrUntrained is returned for artifacts that were never trained
	ErrUntrained = errors.New("model is not trained")
	// ErrNoNetwork is returned when the requested network is absent
	ErrNoNetwork = errors.New("network not present in artifact")
)

// Artifact is the on-disk model file
type Artifact struct {
	Version     int             `json:"version"`
	GeneratedAt time.Time       `json:"generated_at"`
	Trained     bool            `json:"trained"`
	Threshold   float64         `json:"threshold,omitempty"`
	Thresholds  map[int]float64 `json:"thresholds,omitempty"`
	Declaration *deep.Dump      `json:"declaration,omitempty"`
	Candidate   *deep.Dump      `json:"candidate,omitempty"`
}

// Save writes the artifact atomically as indented JSON.
func (a *Artifact) Save(path string) error {
	if a == nil {
		return errors.New("nil artifact")
	}
	if path == "" {
		return errors.New("destination path is required")
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

// Load reads an artifact and checks its version and network shapes. A
// missing file yields an error wrapping fs.ErrNotExist.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	if a.Version != fileVersion {
		return nil, fmt.Errorf("unsupported artifact version %d", a.Version)
	}
	if err := checkShape("declaration", a.Declaration, features.DeclarationWidth); err != nil {
		return nil, err
	}
	if err := checkShape("candidate", a.Candidate, features.CandidateWidth); err != nil {
		return nil, err
	}
	return &a, nil
}

func checkShape(name string, d *deep.Dump, inputs int) error {
	if d == nil {
		return nil
	}
	if d.Config == nil {
		return fmt.Errorf("%s network has no config", name)
	}
	if d.Config.Inputs != inputs {
		return fmt.Errorf("%s network expects %d inputs, features provide %d", name, d.Config.Inputs, inputs)
	}
	if n := len(d.Config.Layout); n == 0 || d.Config.Layout[n-1] != 1 {
		return fmt.Errorf("%s network must have a single output", name)
	}
	if len(d.Weights) != len(d.Config.Layout) {
		return fmt.Errorf("%s network has %d weight layers for %d layers", name, len(d.Weights), len(d.Config.Layout))
	}
	return nil
}

// ThresholdFor returns the declaration threshold for a table size: the per
// player count threshold, else the artifact default, else DefaultThreshold.
func (a *Artifact) ThresholdFor(players int) float64 {
	if t, ok := a.Thresholds[players]; ok {
		return t
	}
	if a.Threshold > 0 {
		return a.Threshold
	}
	return DefaultThreshold
}

// DeclarationNetwork builds the declaration network
func (a *Artifact) DeclarationNetwork() (*Network, error) {
	if a.Declaration == nil {
		return nil, fmt.Errorf("declaration: %w", ErrNoNetwork)
	}
	return newNetwork(a.Declaration), nil
}

// CandidateNetwork builds the move scoring network
func (a *Artifact) CandidateNetwork() (*Network, error) {
	if a.Candidate == nil {
		return nil, fmt.Errorf("candidate: %w", ErrNoNetwork)
	}
	return newNetwork(a.Candidate), nil
}

// NewUntrained creates a scaffold with seeded random weights. It is marked
// untrained so the primary tier refuses to serve it until training replaces
// the weights.
func NewUntrained(seed int64, now time.Time) *Artifact {
	rng := randutil.New(seed)
	build := func(inputs int, hidden []int, mode deep.Mode) *deep.Dump {
		layout := append(append([]int{}, hidden...), 1)
		net := deep.NewNeural(&deep.Config{
			Inputs:     inputs,
			Layout:     layout,
			Activation: deep.ActivationReLU,
			Mode:       mode,
			Weight:     deep.NewNormal(0.0, 0.1),
			Bias:       true,
		})
		dump := net.Dump()
		for _, layer := range dump.Weights {
			for _, neuron := range layer {
				for i := range neuron {
					neuron[i] = rng.NormFloat64() * 0.1
				}
			}
		}
		return dump
	}

	return &Artifact{
		Version:     fileVersion,
		GeneratedAt: now.UTC(),
		Trained:     false,
		Threshold:   DefaultThreshold,
		Declaration: build(features.DeclarationWidth, []int{32, 16}, deep.ModeBinary),
		Candidate:   build(features.CandidateWidth, []int{16}, deep.ModeRegression),
	}
}
