package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"hanabi-lite/hanabi"
	"hanabi-lite/internal/sessionid"
	"hanabi-lite/internal/store"
)

const (
	defaultIdleSessionTTL  = 30 * time.Minute
	defaultCleanupInterval = 5 * time.Minute
	maxSessionIDAttempts   = 5
)

// ErrSessionNotFound is returned by Get when no in-memory or persisted
// session matches the given id.
var ErrSessionNotFound = errors.New("session: not found")

// Lobby owns every live Session actor and rehydrates sessions on demand
// from the persistence port when a client reconnects after a restart.
type Lobby struct {
	mu       sync.Mutex
	sessions map[string]*Session
	store    store.Store

	idleSessionTTL  time.Duration
	cleanupInterval time.Duration
	done            chan struct{}
	stopOnce        sync.Once
}

// NewLobby constructs a Lobby backed by st and starts its idle-session
// cleanup loop.
func NewLobby(st store.Store) *Lobby {
	l := &Lobby{
		sessions:        make(map[string]*Session),
		store:           st,
		idleSessionTTL:  defaultIdleSessionTTL,
		cleanupInterval: defaultCleanupInterval,
		done:            make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// CreateGame allocates a fresh session id, seats hostName as its first
// (host) player, and returns the new Session. A session-id collision with
// an existing in-memory or persisted session is retried with a new id up
// to maxSessionIDAttempts times.
func (l *Lobby) CreateGame(ctx context.Context, hostName string, transport Transport) (*Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for attempt := 0; attempt < maxSessionIDAttempts; attempt++ {
		id, err := sessionid.New()
		if err != nil {
			return nil, err
		}
		if _, taken := l.sessions[id]; taken {
			continue
		}
		if _, err := l.store.GetConfig(ctx, id); err == nil {
			continue // a persisted game already owns this id
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		s := newSession(id, l.store)
		if err := s.seatHost(hostName, transport); err != nil {
			s.Stop()
			return nil, err
		}
		l.sessions[id] = s
		return s, nil
	}
	return nil, fmt.Errorf("session: could not allocate a unique session id after %d attempts", maxSessionIDAttempts)
}

// CreateWithID registers a brand-new, empty in-memory session under the
// caller-supplied id. Used by the Join path when a client names a session
// id unknown to both the in-memory map and the persisted store: per spec,
// Join falls back to creating a fresh Waiting session rather than failing,
// since the caller is about to seat themselves into it as its first player.
func (l *Lobby) CreateWithID(id string) *Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.sessions[id]; ok {
		return s
	}
	s := newSession(id, l.store)
	l.sessions[id] = s
	return s
}

// Get returns the live session for id, rehydrating it from the store if
// it is not already in memory (e.g. after a server restart).
func (l *Lobby) Get(ctx context.Context, id string) (*Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if s, ok := l.sessions[id]; ok {
		return s, nil
	}
	s, err := l.rehydrate(ctx, id)
	if err != nil {
		return nil, err
	}
	l.sessions[id] = s
	return s, nil
}

// rehydrate rebuilds a Session from persisted config/players/actions. The
// caller must hold l.mu.
func (l *Lobby) rehydrate(ctx context.Context, id string) (*Session, error) {
	cfg, err := l.store.GetConfig(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	names, err := l.store.GetPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	actions, err := l.store.GetActions(ctx, id)
	if err != nil {
		return nil, err
	}

	gameLog, err := hanabi.Replay(cfg, actions)
	if err != nil {
		return nil, fmt.Errorf("session: replay of %s failed: %w", id, err)
	}

	s := newSession(id, l.store)
	s.config = cfg
	s.log = gameLog
	s.status = StatusStarted
	if gameLog.CurrentState().Ended() {
		s.status = StatusEnded
	}
	s.roster = make([]*seat, len(names))
	for i, name := range names {
		s.roster[i] = &seat{name: name, index: i, isHost: i == 0}
	}
	log.Printf("[lobby] rehydrated session %s (%d players, %d turns, status=%s)", id, len(names), len(actions), s.status)
	return s, nil
}

func (l *Lobby) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.CleanupIdleSessions()
		case <-l.done:
			return
		}
	}
}

// CleanupIdleSessions evicts in-memory sessions that have been idle
// beyond idleSessionTTL and have already ended. A lobby-phase or
// in-progress session is left alone even past the TTL — only a finished
// game's actor goroutine is worth tearing down, since it can always be
// rehydrated again on the next reconnect.
func (l *Lobby) CleanupIdleSessions() int {
	l.mu.Lock()
	var evicted []*Session
	for id, s := range l.sessions {
		if s.IsTerminal() && s.IdleSince() > l.idleSessionTTL {
			delete(l.sessions, id)
			evicted = append(evicted, s)
		}
	}
	l.mu.Unlock()

	for _, s := range evicted {
		s.Stop()
		log.Printf("[lobby] evicted idle finished session %s", s.ID)
	}
	return len(evicted)
}

// Stop halts the cleanup loop and every live session actor.
func (l *Lobby) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)

		l.mu.Lock()
		sessions := make([]*Session, 0, len(l.sessions))
		for _, s := range l.sessions {
			sessions = append(sessions, s)
		}
		l.sessions = make(map[string]*Session)
		l.mu.Unlock()

		for _, s := range sessions {
			s.Stop()
		}
	})
}
