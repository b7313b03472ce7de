// Package neural is the primary decision tier: it answers from the networks
// stored in a model artifact.
package neural

import (
	"errors"
	"io/fs"

	"github.com/lox/sambridge/internal/model"
	"github.com/lox/sambridge/internal/provider"
)

// loadTrained loads the artifact at path and refuses untrained ones.
func loadTrained(name, path string) (*model.Artifact, error) {
	if path == "" {
		return nil, provider.NewError(provider.ArtifactMissing, name, errors.New("no model path configured"))
	}
	a, err := model.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, provider.NewError(provider.ArtifactMissing, name, err)
		}
		return nil, provider.NewError(provider.ProviderUninitialized, name, err)
	}
	if !a.Trained {
		return nil, provider.NewError(provider.ProviderUninitialized, name, model.ErrUntrained)
	}
	return a, nil
}
