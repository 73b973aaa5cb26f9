package service

import (
	"context"

	"github.com/wricardo/hanoi/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Lifecycle
	NewGame(ctx context.Context, diskCount int) (engine.State, error)
	Result(ctx context.Context) (engine.GameResult, error)

	// Commands
	Apply(ctx context.Context, intent Intent) (*Outcome, error)
	MoveDisk(ctx context.Context, from, to int) (*Outcome, error)

	// Read-only state
	State(ctx context.Context) engine.State

	// Spectators
	Subscribe(observer Observer)
}
