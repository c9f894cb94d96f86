package session

import (
	"context"
	"errors"
	"fmt"

	"hanabi-lite/hanabi"
)

// HandleClientMessage routes one decoded ClientMessage to the lobby/session
// it targets and returns the ServerMessage reply, if any. An empty reply
// (zero-value ServerMessage, Type "") means the caller should rely on the
// session's own broadcast (already sent by the time this returns) rather
// than send anything extra.
//
// This is the single entry point a gateway connection calls for every
// inbound frame — it never touches Session/Lobby internals directly.
func HandleClientMessage(ctx context.Context, lobby *Lobby, playerName string, transport Transport, msg ClientMessage) ServerMessage {
	switch msg.Type {
	case MsgCreateGame:
		return handleCreateGame(ctx, lobby, playerName, transport)
	case MsgJoin:
		return handleJoin(ctx, lobby, msg.SessionID, playerName, transport)
	case MsgSpectate:
		return handleSpectate(ctx, lobby, msg.SessionID, playerName, transport)
	case MsgStartGame:
		return handleStartGame(ctx, lobby, msg.SessionID)
	case MsgPlayerAction:
		if msg.Action == nil {
			return errorMessage("session: player_action message missing action")
		}
		return handlePlayerAction(ctx, lobby, msg.SessionID, playerName, *msg.Action)
	default:
		return errorMessage(fmt.Sprintf("session: unknown message type %q", msg.Type))
	}
}

func handleCreateGame(ctx context.Context, lobby *Lobby, playerName string, transport Transport) ServerMessage {
	s, err := lobby.CreateGame(ctx, playerName, transport)
	if err != nil {
		return errorMessage(err.Error())
	}
	return ServerMessage{
		Type:      MsgCreatedGame,
		SessionID: s.ID,
		State:     s.Snapshot(0),
	}
}

func handleJoin(ctx context.Context, lobby *Lobby, sessionID, playerName string, transport Transport) ServerMessage {
	s, err := lobby.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		// Absent from both the in-memory map and the store: fall back to a
		// fresh Waiting session under the requested id, with playerName as
		// its first seat, rather than rejecting the join.
		s = lobby.CreateWithID(sessionID)
	} else if err != nil {
		return errorMessage(err.Error())
	}
	if err := s.Join(playerName, transport); err != nil {
		return errorMessage(err.Error())
	}
	viewer, _ := s.SeatIndex(playerName)
	return ServerMessage{
		Type:      MsgCreatedGame,
		SessionID: s.ID,
		State:     s.Snapshot(viewer),
	}
}

func handleSpectate(ctx context.Context, lobby *Lobby, sessionID, playerName string, transport Transport) ServerMessage {
	s, err := lobby.Get(ctx, sessionID)
	if err != nil {
		return errorMessage(err.Error())
	}
	if err := s.Spectate(playerName, transport); err != nil {
		return errorMessage(err.Error())
	}
	return ServerMessage{}
}

func handleStartGame(ctx context.Context, lobby *Lobby, sessionID string) ServerMessage {
	s, err := lobby.Get(ctx, sessionID)
	if err != nil {
		return errorMessage(err.Error())
	}
	if err := s.StartGame(); err != nil {
		return errorMessage(err.Error())
	}
	return ServerMessage{} // the session's own broadcast already notified every seat
}

func handlePlayerAction(ctx context.Context, lobby *Lobby, sessionID, playerName string, action hanabi.Action) ServerMessage {
	s, err := lobby.Get(ctx, sessionID)
	if err != nil {
		return errorMessage(err.Error())
	}
	if err := s.PlayerAction(playerName, action); err != nil {
		return errorMessage(err.Error())
	}
	return ServerMessage{} // the session's own broadcast already notified every seat
}
