package store

import (
	"context"
	"sync"

	"hanabi-lite/hanabi"
)

// MemoryStore is an in-process, non-durable Store — used by tests and by
// STORE_MODE=memory for ephemeral single-process play.
type MemoryStore struct {
	mu      sync.Mutex
	configs map[string]hanabi.GameConfig
	players map[string][]string
	actions map[string][]hanabi.ActorAction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		configs: make(map[string]hanabi.GameConfig),
		players: make(map[string][]string),
		actions: make(map[string][]hanabi.ActorAction),
	}
}

func (s *MemoryStore) CreateGame(_ context.Context, sessionID string, cfg hanabi.GameConfig, playerNames []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[sessionID] = cfg
	s.players[sessionID] = append([]string{}, playerNames...)
	return nil
}

func (s *MemoryStore) GetConfig(_ context.Context, sessionID string) (hanabi.GameConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg, ok := s.configs[sessionID]
	if !ok {
		return hanabi.GameConfig{}, ErrNotFound
	}
	return cfg, nil
}

func (s *MemoryStore) GetPlayers(_ context.Context, sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names, ok := s.players[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]string{}, names...), nil
}

func (s *MemoryStore) GetActions(_ context.Context, sessionID string) ([]hanabi.ActorAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]hanabi.ActorAction{}, s.actions[sessionID]...), nil
}

func (s *MemoryStore) AppendAction(_ context.Context, sessionID string, turnID int, actorIndex int, action hanabi.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.actions[sessionID]
	if turnID < len(existing) {
		return nil // idempotent: this turn was already recorded
	}
	if turnID != len(existing) {
		return ErrInvalidTurn
	}
	s.actions[sessionID] = append(existing, hanabi.ActorAction{Actor: actorIndex, Action: action})
	return nil
}

func (s *MemoryStore) Close() error { return nil }
