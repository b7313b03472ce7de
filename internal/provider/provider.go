// Package provider defines the requests, answers and error taxonomy shared
// by every decision provider and by the bridge that chains them.
package provider

import (
	"context"

	"github.com/lox/sambridge/internal/model"
)

// Tier ranks a provider in the fallback chain
type Tier string

const (
	Primary   Tier = "primary"
	Secondary Tier = "secondary"
	Default   Tier = "default"
)

// Declarer answers whether a hand should declare Báo Sâm
type Declarer interface {
	Name() string
	Declare(ctx context.Context, req DeclarationRequest) (Declaration, error)
}

// MoveSelector picks one of the legal moves for a turn
type MoveSelector interface {
	Name() string
	SelectMove(ctx context.Context, req MoveRequest) (Move, error)
}

// StatusReporter is implemented by providers backed by a model artifact
type StatusReporter interface {
	Status() model.Status
}
