// Package store implements the persistence port: durable storage for a
// game's config, seat roster, and append-only action log.
package store

import (
	"context"
	"errors"

	"hanabi-lite/hanabi"
)

// ErrNotFound is returned when a session id has no persisted config.
var ErrNotFound = errors.New("store: session not found")

// ErrInvalidTurn is returned when AppendAction is called with a turn id
// that would leave a gap in the log.
var ErrInvalidTurn = errors.New("store: turn id out of sequence")

// Store is the persistence port every backend implements. AppendAction
// must be idempotent on (sessionID, turnID): re-appending the same turn
// is a no-op, never a duplicate row or an error.
type Store interface {
	CreateGame(ctx context.Context, sessionID string, cfg hanabi.GameConfig, playerNames []string) error
	GetConfig(ctx context.Context, sessionID string) (hanabi.GameConfig, error)
	GetPlayers(ctx context.Context, sessionID string) ([]string, error)
	GetActions(ctx context.Context, sessionID string) ([]hanabi.ActorAction, error)
	AppendAction(ctx context.Context, sessionID string, turnID int, actorIndex int, action hanabi.Action) error
	Close() error
}
