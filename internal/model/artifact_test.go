package model

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/sambridge/internal/features"
)

var epoch = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")

	a := NewUntrained(42, epoch)
	a.Thresholds = map[int]float64{2: 0.7}
	require.NoError(t, a.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.False(t, loaded.Trained)
	assert.Equal(t, epoch, loaded.GeneratedAt)
	assert.Equal(t, 0.7, loaded.ThresholdFor(2))
	assert.Equal(t, DefaultThreshold, loaded.ThresholdFor(4))

	orig, err := a.DeclarationNetwork()
	require.NoError(t, err)
	again, err := loaded.DeclarationNetwork()
	require.NoError(t, err)

	x := make([]float64, features.DeclarationWidth)
	for i := range x {
		x[i] = float64(i) / float64(len(x))
	}
	p1, err := orig.Predict(x)
	require.NoError(t, err)
	p2, err := again.Predict(x)
	require.NoError(t, err)
	assert.InDelta(t, p1, p2, 1e-12)
	assert.Greater(t, p1, 0.0)
	assert.Less(t, p1, 1.0)
}

func TestNewUntrainedIsDeterministic(t *testing.T) {
	a := NewUntrained(7, epoch)
	b := NewUntrained(7, epoch)
	c := NewUntrained(8, epoch)
	assert.Equal(t, a.Declaration.Weights, b.Declaration.Weights)
	assert.NotEqual(t, a.Declaration.Weights, c.Declaration.Weights)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{not json"), 0o644))
	_, err = Load(garbage)
	assert.ErrorContains(t, err, "decode artifact")

	a := NewUntrained(1, epoch)
	a.Version = 99
	wrongVersion := filepath.Join(dir, "v99.json")
	require.NoError(t, a.Save(wrongVersion))
	_, err = Load(wrongVersion)
	assert.ErrorContains(t, err, "unsupported artifact version")

	b := NewUntrained(1, epoch)
	b.Candidate.Config.Inputs = 3
	wrongShape := filepath.Join(dir, "shape.json")
	require.NoError(t, b.Save(wrongShape))
	_, err = Load(wrongShape)
	assert.ErrorContains(t, err, "candidate network expects 3 inputs")
}

func TestMissingNetwork(t *testing.T) {
	a := NewUntrained(1, epoch)
	a.Candidate = nil
	_, err := a.CandidateNetwork()
	assert.ErrorIs(t, err, ErrNoNetwork)
}

func TestNetworkPredict(t *testing.T) {
	net, err := NewUntrained(3, epoch).CandidateNetwork()
	require.NoError(t, err)
	assert.Equal(t, features.CandidateWidth, net.Inputs())

	_, err = net.Predict([]float64{1, 2})
	assert.ErrorContains(t, err, "expects")

	x := make([]float64, features.CandidateWidth)
	want, err := net.Predict(x)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := net.Predict(x)
			assert.NoError(t, err)
			assert.InDelta(t, want, got, 1e-12)
		}()
	}
	wg.Wait()
}

func TestStatusOf(t *testing.T) {
	dir := t.TempDir()

	missing := StatusOf(filepath.Join(dir, "nope.json"))
	assert.False(t, missing.Exists)
	assert.False(t, missing.Ready())
	assert.NotEmpty(t, missing.Error)

	path := filepath.Join(dir, "model.json")
	a := NewUntrained(5, epoch)
	require.NoError(t, a.Save(path))
	st := StatusOf(path)
	assert.True(t, st.Exists)
	assert.True(t, st.Loadable)
	assert.False(t, st.Ready())

	a.Trained = true
	require.NoError(t, a.Save(path))
	assert.True(t, StatusOf(path).Ready())
}
