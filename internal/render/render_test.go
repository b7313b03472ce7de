package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/sambridge/internal/bridge"
	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/combo"
	"github.com/lox/sambridge/internal/model"
	"github.com/lox/sambridge/internal/provider"
	"github.com/lox/sambridge/internal/simulate"
)

func TestHand(t *testing.T) {
	h, err := cards.ParseHand("2c 3s 10h")
	require.NoError(t, err)

	out := Hand(h)
	assert.Contains(t, out, "3♠")
	assert.Contains(t, out, "10♥")
	assert.Contains(t, out, "2♣")
	assert.Less(t, strings.Index(out, "3♠"), strings.Index(out, "2♣"), "cards render in rank order")
	assert.Equal(t, "[]", Hand(nil))
}

func TestDeclaration(t *testing.T) {
	h, err := cards.ParseHand("2s 2h 2d 2c 9s 10s Js Qs Ks As")
	require.NoError(t, err)

	out := Declaration(h, provider.DeclarationResult{
		Declaration: provider.Declaration{
			ShouldDeclare: true,
			Probability:   0.95,
			Confidence:    0.95,
			Reason:        "high_confidence_winning_sequence",
			Sequence:      combo.AnalyzeHand(h),
		},
		Meta: provider.Meta{
			ID: "abc", Tier: provider.Secondary, Provider: "production_bao_sam", Latency: time.Millisecond,
			Fallbacks: []provider.Fallback{{Tier: provider.Primary, Kind: provider.ArtifactMissing, Error: "no file"}},
		},
	})

	assert.Contains(t, out, "DECLARE BÁO SÂM")
	assert.Contains(t, out, "0.950")
	assert.Contains(t, out, "high_confidence_winning_sequence")
	assert.Contains(t, out, "production_bao_sam")
	assert.Contains(t, out, "artifact_missing")
	assert.Contains(t, out, "four_kind")
	assert.Contains(t, out, "straight")
}

func TestMove(t *testing.T) {
	out := Move(provider.MoveResult{Move: provider.Pass(), Meta: provider.Meta{Tier: provider.Default, Provider: bridge.StaticName}})
	assert.Contains(t, out, "pass")
	assert.Contains(t, out, bridge.StaticName)
}

func TestStatus(t *testing.T) {
	out := Status([]bridge.TierStatus{
		{Chain: "declare", Tier: provider.Primary, Provider: "model", State: bridge.StateFailed, Error: "artifact_missing"},
		{Chain: "declare", Tier: provider.Secondary, Provider: "rules", State: bridge.StateReady,
			Model: &model.Status{Path: "m.json", Exists: true, Loadable: true, Version: 1}},
	})
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "artifact_missing")
	assert.Contains(t, out, "untrained")
	assert.Contains(t, ModelStatus(model.Status{Path: "x.json"}), "missing x.json")
}

func TestReport(t *testing.T) {
	r := simulate.NewReport()
	r.AddDeclaration(provider.DeclarationResult{
		Declaration: provider.Declaration{ShouldDeclare: true, Probability: 0.9},
		Meta:        provider.Meta{Tier: provider.Secondary, Fallbacks: []provider.Fallback{{Kind: provider.ArtifactMissing}}},
	})
	r.AddDeclaration(provider.DeclarationResult{Meta: provider.Meta{Tier: provider.Default}})

	out := Report(r)
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "secondary")
	assert.Contains(t, out, "artifact_missing")
}
