// Package session implements the session coordinator: one actor goroutine
// per game, serializing joins, the start trigger, player actions, and
// disconnects the same way a poker table actor serializes seat events, and
// a Lobby that creates, looks up, rehydrates and idles out sessions.
package session

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"hanabi-lite/hanabi"
	"hanabi-lite/internal/store"
)

// Transport is the narrow send-only interface a gateway connection
// implements so this package never depends on websockets directly.
type Transport interface {
	Send(ServerMessage) error
}

// ErrGameInProgress is returned by Join when the session has already left
// the lobby and the joining name is not an existing seat.
var ErrGameInProgress = errors.New("session: game already in progress")

// ErrSpectateUnsupported is returned for every Spectate request.
var ErrSpectateUnsupported = errors.New("session: spectating is not supported")

// ErrUnknownPlayer is returned by PlayerAction/Disconnect for a name that
// never joined.
var ErrUnknownPlayer = errors.New("session: unknown player")

// ErrNotEnoughPlayers is returned by StartGame below the 2-player minimum.
var ErrNotEnoughPlayers = errors.New("session: need at least 2 players to start")

type seat struct {
	name      string
	index     int
	connected bool
	isHost    bool
	transport Transport
}

type eventKind int

const (
	evtJoin eventKind = iota
	evtSeatHost
	evtSpectate
	evtStartGame
	evtPlayerAction
	evtDisconnect
)

type event struct {
	kind      eventKind
	name      string
	transport Transport
	action    hanabi.Action
	response  chan error
}

// Session is the sole-writer actor for one game's lifecycle. Every mutating
// call goes through events so seat joins, the start trigger, and player
// actions are processed one at a time regardless of how many goroutines
// call in concurrently.
type Session struct {
	ID    string
	store store.Store

	events       chan event
	snapshotReqs chan snapshotQuery
	seatReqs     chan seatQuery
	done         chan struct{}

	status Status
	roster []*seat
	log    *hanabi.GameLog
	config hanabi.GameConfig

	// lastActivityUnixNano is read by the lobby's cleanup loop from a
	// different goroutine, so it lives outside the actor loop's
	// otherwise-unsynchronized fields.
	lastActivityUnixNano atomic.Int64
}

// IdleSince reports how long it has been since this session last
// processed a join, start, action, or disconnect.
func (s *Session) IdleSince() time.Duration {
	last := time.Unix(0, s.lastActivityUnixNano.Load())
	return time.Since(last)
}

// IsTerminal reports whether the session has ended (or its actor has
// stopped). It does not look at idle time; the lobby checks that
// separately before evicting.
func (s *Session) IsTerminal() bool {
	q := snapshotQuery{viewer: 0, out: make(chan *GameStatePayload, 1)}
	select {
	case s.snapshotReqs <- q:
	case <-s.done:
		return true
	}
	payload := <-q.out
	return payload.Status == StatusEnded
}

func newSession(id string, st store.Store) *Session {
	s := &Session{
		ID:           id,
		store:        st,
		events:       make(chan event, 16),
		snapshotReqs: make(chan snapshotQuery, 16),
		seatReqs:     make(chan seatQuery, 16),
		done:         make(chan struct{}),
		status:       StatusLobby,
	}
	s.lastActivityUnixNano.Store(time.Now().UnixNano())
	go s.run()
	return s
}

func (s *Session) run() {
	for {
		select {
		case e := <-s.events:
			err := s.handle(e)
			if e.response != nil {
				e.response <- err
			}
		case q := <-s.snapshotReqs:
			q.out <- s.statePayload(q.viewer)
		case q := <-s.seatReqs:
			if st := s.seatByName(q.name); st != nil {
				q.out <- seatQueryResult{index: st.index, ok: true}
			} else {
				q.out <- seatQueryResult{}
			}
		case <-s.done:
			return
		}
	}
}

// Stop halts the actor loop. Used by the lobby's idle cleanup, by
// Lobby.Stop, and by Lobby.CreateGame when seating the host fails.
func (s *Session) Stop() {
	close(s.done)
}

func (s *Session) call(e event) error {
	e.response = make(chan error, 1)
	select {
	case s.events <- e:
	case <-s.done:
		return fmt.Errorf("session: %s is closed", s.ID)
	}
	return <-e.response
}

// Join seats name at the session, or rebinds transport to an existing seat
// if name already has one — the reconnection path.
func (s *Session) Join(name string, t Transport) error {
	return s.call(event{kind: evtJoin, name: name, transport: t})
}

// seatHost seats name as the session's first player without broadcasting.
// Used only by Lobby.CreateGame: per spec, CreateGame replies directly to
// the caller with CreatedGame and must not broadcast yet.
func (s *Session) seatHost(name string, t Transport) error {
	return s.call(event{kind: evtSeatHost, name: name, transport: t})
}

// Spectate always fails: this deployment has no read-only viewer role.
func (s *Session) Spectate(name string, t Transport) error {
	return s.call(event{kind: evtSpectate, name: name, transport: t})
}

// StartGame deals a fresh game and moves the session from lobby to started.
func (s *Session) StartGame() error {
	return s.call(event{kind: evtStartGame})
}

// PlayerAction submits one action on behalf of name.
func (s *Session) PlayerAction(name string, action hanabi.Action) error {
	return s.call(event{kind: evtPlayerAction, name: name, action: action})
}

// Disconnect marks name's seat as no longer connected. It never closes the
// session — a disconnected player may reconnect via Join at any time.
func (s *Session) Disconnect(name string) error {
	return s.call(event{kind: evtDisconnect, name: name})
}

func (s *Session) handle(e event) error {
	s.lastActivityUnixNano.Store(time.Now().UnixNano())
	switch e.kind {
	case evtJoin:
		return s.handleJoin(e.name, e.transport)
	case evtSeatHost:
		return s.handleSeatHost(e.name, e.transport)
	case evtSpectate:
		return ErrSpectateUnsupported
	case evtStartGame:
		return s.handleStartGame()
	case evtPlayerAction:
		return s.handlePlayerAction(e.name, e.action)
	case evtDisconnect:
		return s.handleDisconnect(e.name)
	default:
		return fmt.Errorf("session: unknown event kind %d", e.kind)
	}
}

func (s *Session) seatByName(name string) *seat {
	for _, st := range s.roster {
		if st.name == name {
			return st
		}
	}
	return nil
}

// handleJoin seats name, or rebinds transport if it already has a seat. The
// joining/reconnecting seat itself is excluded from the broadcast fan-out:
// dispatch.handleJoin sends that client its own CreatedGame reply directly,
// so broadcasting a second, redundant copy to the same connection would
// both waste a frame and race the direct reply for delivery order.
func (s *Session) handleJoin(name string, t Transport) error {
	if existing := s.seatByName(name); existing != nil {
		existing.transport = t
		existing.connected = true
		s.broadcastExcept(existing.index)
		return nil
	}
	if s.status != StatusLobby {
		return ErrGameInProgress
	}
	st := &seat{name: name, index: len(s.roster), connected: true, isHost: len(s.roster) == 0, transport: t}
	s.roster = append(s.roster, st)
	s.broadcastExcept(st.index)
	return nil
}

// handleSeatHost appends name as the lone first seat with no broadcast at
// all — there is no one else yet to notify, and CreateGame's caller gets
// the session state via its own direct CreatedGame reply.
func (s *Session) handleSeatHost(name string, t Transport) error {
	st := &seat{name: name, index: len(s.roster), connected: true, isHost: len(s.roster) == 0, transport: t}
	s.roster = append(s.roster, st)
	return nil
}

func (s *Session) handleDisconnect(name string) error {
	st := s.seatByName(name)
	if st == nil {
		return ErrUnknownPlayer
	}
	st.connected = false
	st.transport = nil
	s.broadcast()
	return nil
}

func (s *Session) handleStartGame() error {
	if s.status != StatusLobby {
		return fmt.Errorf("session: cannot start, status is %s", s.status)
	}
	if len(s.roster) < 2 {
		return ErrNotEnoughPlayers
	}

	seed, err := randomSeed()
	if err != nil {
		return err
	}
	cfg, err := hanabi.DefaultConfig(len(s.roster), 0, seed)
	if err != nil {
		return err
	}
	gameLog, err := hanabi.NewGameLog(cfg)
	if err != nil {
		return err
	}

	names := make([]string, len(s.roster))
	for i, st := range s.roster {
		names[i] = st.name
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.CreateGame(ctx, s.ID, cfg, names); err != nil {
		// Persist before committing the in-memory transition: on failure
		// the session stays in the lobby exactly as it was, and nothing
		// is broadcast.
		if store.IsDuplicateSessionID(err) {
			return fmt.Errorf("session: %s collided with an already-persisted game: %w", s.ID, err)
		}
		return err
	}

	s.config = cfg
	s.log = gameLog
	s.status = StatusStarted
	s.broadcast()
	return nil
}

func (s *Session) handlePlayerAction(name string, action hanabi.Action) error {
	if s.status != StatusStarted {
		return fmt.Errorf("session: game is not in progress")
	}
	st := s.seatByName(name)
	if st == nil {
		return ErrUnknownPlayer
	}
	current := s.log.CurrentState()
	if current.CurrentPlayer() != st.index {
		return hanabi.ErrOutOfTurn
	}

	turnBefore := current.Turn
	if err := s.log.Apply(st.index, action); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.AppendAction(ctx, s.ID, turnBefore, st.index, action); err != nil {
		// The in-memory log already advanced; undo it so a persistence
		// failure never leaves an observer seeing a turn that was not
		// durably saved.
		s.log.Undo()
		return err
	}

	if s.log.CurrentState().Ended() {
		s.status = StatusEnded
	}
	s.broadcast()
	return nil
}

// broadcast sends every connected seat its own per-viewer projection. A
// disconnected seat is simply skipped — it will receive the full history
// as a created_game message the next time it rejoins.
func (s *Session) broadcast() {
	s.broadcastExcept(-1)
}

// broadcastExcept is broadcast, skipping the seat at skip (pass -1 to skip
// none). Used by handleJoin so the seat that just joined or reconnected,
// which already gets its own direct reply from dispatch.handleJoin, isn't
// also sent a second, redundant copy of the same state.
func (s *Session) broadcastExcept(skip int) {
	for _, st := range s.roster {
		if st.index == skip {
			continue
		}
		if !st.connected || st.transport == nil {
			continue
		}
		msg := ServerMessage{
			Type:      MsgUpdatedGameState,
			SessionID: s.ID,
			State:     s.statePayload(st.index),
		}
		if err := st.transport.Send(msg); err != nil {
			// A failed send marks the peer disconnected; it gets fresh
			// state when it rejoins.
			st.connected = false
			st.transport = nil
		}
	}
}

func (s *Session) statePayload(viewer int) *GameStatePayload {
	payload := &GameStatePayload{
		Status:    s.status,
		SessionID: s.ID,
		Roster:    s.rosterSnapshot(),
	}
	if s.log != nil {
		snap := hanabi.Project(s.log.CurrentState(), viewer)
		payload.Snapshot = &snap
		payload.Events = hanabi.ProjectLog(s.log, viewer)
	}
	return payload
}

func (s *Session) rosterSnapshot() []RosterEntry {
	out := make([]RosterEntry, len(s.roster))
	for i, st := range s.roster {
		status := ConnDisconnected
		if st.connected {
			status = ConnConnected
		}
		out[i] = RosterEntry{Name: st.name, ConnectionStatus: status, IsHost: st.isHost}
	}
	return out
}

type snapshotQuery struct {
	viewer int
	out    chan *GameStatePayload
}

// Snapshot returns the state payload viewer currently sees. It runs
// through the same actor loop as every mutation so it never races a
// concurrent Join/StartGame/PlayerAction.
func (s *Session) Snapshot(viewer int) *GameStatePayload {
	q := snapshotQuery{viewer: viewer, out: make(chan *GameStatePayload, 1)}
	select {
	case s.snapshotReqs <- q:
	case <-s.done:
		return nil
	}
	return <-q.out
}

// SeatIndex returns name's seat index and whether it has one.
func (s *Session) SeatIndex(name string) (int, bool) {
	q := seatQuery{name: name, out: make(chan seatQueryResult, 1)}
	select {
	case s.seatReqs <- q:
	case <-s.done:
		return 0, false
	}
	res := <-q.out
	return res.index, res.ok
}

type seatQuery struct {
	name string
	out  chan seatQueryResult
}

type seatQueryResult struct {
	index int
	ok    bool
}

func randomSeed() (int64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}
