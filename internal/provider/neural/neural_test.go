package neural

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/model"
	"github.com/lox/sambridge/internal/provider"
	"github.com/lox/sambridge/internal/rules"
)

var quiet = log.New(io.Discard)

func writeArtifact(t *testing.T, mutate func(*model.Artifact)) string {
	t.Helper()
	a := model.NewUntrained(11, time.Now())
	a.Trained = true
	if mutate != nil {
		mutate(a)
	}
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, a.Save(path))
	return path
}

func hand(t *testing.T, s string) cards.Hand {
	t.Helper()
	h, err := cards.ParseHand(s)
	require.NoError(t, err)
	return h
}

const strongHand = "2s 2h 2d 2c 9s 10s Js Qs Ks As"

func TestNewDeclarerErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		kind provider.ErrorKind
	}{
		{"no path", func(t *testing.T) string { return "" }, provider.ArtifactMissing},
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }, provider.ArtifactMissing},
		{"untrained", func(t *testing.T) string {
			return writeArtifact(t, func(a *model.Artifact) { a.Trained = false })
		}, provider.ProviderUninitialized},
		{"no declaration network", func(t *testing.T) string {
			return writeArtifact(t, func(a *model.Artifact) { a.Declaration = nil })
		}, provider.ProviderUninitialized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDeclarer(DeclarerOptions{Path: tt.path(t)}, quiet)
			require.Error(t, err)
			assert.Equal(t, tt.kind, provider.KindOf(err, ""))
		})
	}

	_, err := NewDeclarer(DeclarerOptions{Path: writeArtifact(t, func(a *model.Artifact) { a.Trained = false })}, quiet)
	assert.ErrorIs(t, err, model.ErrUntrained)
}

func TestDeclare(t *testing.T) {
	ctx := context.Background()

	t.Run("rules reject weak hand", func(t *testing.T) {
		d, err := NewDeclarer(DeclarerOptions{Path: writeArtifact(t, nil)}, quiet)
		require.NoError(t, err)

		decl, err := d.Declare(ctx, provider.DeclarationRequest{Hand: hand(t, "3s 4h"), PlayerCount: 4})
		require.NoError(t, err)
		assert.False(t, decl.ShouldDeclare)
		assert.Equal(t, "insufficient_cards_2", decl.Reason)
		assert.InDelta(t, 1-decl.Probability, decl.Confidence, 1e-9)
	})

	t.Run("explicit zero rules are kept", func(t *testing.T) {
		d, err := NewDeclarer(DeclarerOptions{Path: writeArtifact(t, nil), Rules: &rules.Config{}}, quiet)
		require.NoError(t, err)
		assert.Equal(t, rules.Config{}, d.rules.Config())

		decl, err := d.Declare(ctx, provider.DeclarationRequest{Hand: hand(t, "3s 4h"), PlayerCount: 4})
		require.NoError(t, err)
		assert.Equal(t, "too_many_weak_combos_2", decl.Reason)
	})

	t.Run("nil rules use the defaults", func(t *testing.T) {
		d, err := NewDeclarer(DeclarerOptions{Path: writeArtifact(t, nil)}, quiet)
		require.NoError(t, err)
		assert.Equal(t, rules.DefaultConfig(), d.rules.Config())
	})

	t.Run("declares above threshold", func(t *testing.T) {
		path := writeArtifact(t, func(a *model.Artifact) { a.Threshold = 1e-9 })
		d, err := NewDeclarer(DeclarerOptions{Path: path}, quiet)
		require.NoError(t, err)

		decl, err := d.Declare(ctx, provider.DeclarationRequest{Hand: hand(t, strongHand), PlayerCount: 4})
		require.NoError(t, err)
		assert.True(t, decl.ShouldDeclare)
		assert.Equal(t, "unbeatable_probability_above_threshold", decl.Reason)
		assert.Equal(t, decl.Probability, decl.Confidence)
		assert.Len(t, decl.Sequence, 2)
	})

	t.Run("per player threshold wins", func(t *testing.T) {
		path := writeArtifact(t, func(a *model.Artifact) {
			a.Threshold = 1e-9
			a.Thresholds = map[int]float64{3: 1.0}
		})
		d, err := NewDeclarer(DeclarerOptions{Path: path}, quiet)
		require.NoError(t, err)

		decl, err := d.Declare(ctx, provider.DeclarationRequest{Hand: hand(t, strongHand), PlayerCount: 3})
		require.NoError(t, err)
		assert.False(t, decl.ShouldDeclare)
		assert.Equal(t, 1.0, decl.Threshold)
		assert.Equal(t, "unbeatable_probability_below_threshold", decl.Reason)
		assert.Empty(t, decl.Sequence)
	})

	t.Run("cancelled context", func(t *testing.T) {
		d, err := NewDeclarer(DeclarerOptions{Path: writeArtifact(t, nil)}, quiet)
		require.NoError(t, err)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err = d.Declare(cctx, provider.DeclarationRequest{Hand: hand(t, strongHand), PlayerCount: 4})
		assert.Equal(t, provider.InferenceFailure, provider.KindOf(err, ""))
	})

	t.Run("status", func(t *testing.T) {
		d, err := NewDeclarer(DeclarerOptions{Path: writeArtifact(t, nil)}, quiet)
		require.NoError(t, err)
		assert.True(t, d.Status().Ready())
		assert.Equal(t, DeclarerName, d.Name())
	})
}

func TestSelectMove(t *testing.T) {
	ctx := context.Background()
	path := writeArtifact(t, nil)
	s, err := NewMoveSelector(path, quiet)
	require.NoError(t, err)
	assert.Equal(t, SelectorName, s.Name())

	h := hand(t, "3s 3h 7d 9c Kd")
	req := provider.MoveRequest{
		Record: provider.GameRecord{GameType: provider.GameTLMN, Hand: h, CardsLeft: []int{5, 7, 2}},
		LegalMoves: []provider.Move{
			provider.Play(h[:1]),
			provider.Play(h[:2]),
			provider.Play(h[4:]),
		},
	}

	move, err := s.SelectMove(ctx, req)
	require.NoError(t, err)
	assert.Contains(t, req.LegalMoves, move)

	again, err := s.SelectMove(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, move, again)

	move, err = s.SelectMove(ctx, provider.MoveRequest{Record: req.Record})
	require.NoError(t, err)
	assert.Equal(t, provider.Pass(), move)

	move, err = s.SelectMove(ctx, provider.MoveRequest{
		Record:     req.Record,
		LegalMoves: []provider.Move{{Type: provider.DeclareBaoSam}},
	})
	require.NoError(t, err)
	assert.Equal(t, provider.Pass(), move)

	assert.Equal(t, 2, minOpponentCards(req.Record))
}

func TestNewMoveSelectorWithoutCandidate(t *testing.T) {
	path := writeArtifact(t, func(a *model.Artifact) { a.Candidate = nil })
	_, err := NewMoveSelector(path, quiet)
	assert.Equal(t, provider.ProviderUninitialized, provider.KindOf(err, ""))
	assert.ErrorIs(t, err, model.ErrNoNetwork)
}
