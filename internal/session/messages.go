package session

import "hanabi-lite/hanabi"

// Client -> server message kinds.
const (
	MsgCreateGame   = "create_game"
	MsgJoin         = "join"
	MsgSpectate     = "spectate"
	MsgStartGame    = "start_game"
	MsgPlayerAction = "player_action"
)

// Server -> client message kinds.
const (
	MsgCreatedGame      = "created_game"
	MsgUpdatedGameState = "updated_game_state"
	MsgError            = "error"
)

// ClientMessage is the JSON envelope a connected client sends. Only the
// fields relevant to Type are populated.
type ClientMessage struct {
	Type       string         `json:"type"`
	PlayerName string         `json:"player_name,omitempty"`
	SessionID  string         `json:"session_id,omitempty"`
	Action     *hanabi.Action `json:"action,omitempty"`
}

// Status names where a session's lifecycle currently sits.
type Status string

const (
	StatusLobby   Status = "lobby"
	StatusStarted Status = "started"
	StatusEnded   Status = "ended"
)

// ConnectionStatus names whether a roster entry currently has a live
// transport bound to it.
type ConnectionStatus string

const (
	ConnConnected    ConnectionStatus = "connected"
	ConnDisconnected ConnectionStatus = "disconnected"
)

// RosterEntry is one seat's public-facing status.
type RosterEntry struct {
	Name             string           `json:"name"`
	ConnectionStatus ConnectionStatus `json:"connection_status"`
	IsHost           bool             `json:"is_host"`
}

// GameStatePayload is the body of an updated_game_state message. Snapshot
// and Events are populated only once the session has left StatusLobby,
// and are projected for the specific recipient — two players receiving
// the "same" broadcast get different Snapshot.OwnHand contents.
type GameStatePayload struct {
	Status    Status                      `json:"status"`
	SessionID string                      `json:"session_id"`
	Roster    []RosterEntry               `json:"roster"`
	Snapshot  *hanabi.GameStateSnapshot   `json:"snapshot,omitempty"`
	Events    []hanabi.GameSnapshotEvent  `json:"events,omitempty"`
}

// ServerMessage is the JSON envelope sent to one client.
type ServerMessage struct {
	Type      string            `json:"type"`
	SessionID string            `json:"session_id,omitempty"`
	State     *GameStatePayload `json:"state,omitempty"`
	Message   string            `json:"message,omitempty"`
}

func errorMessage(format string) ServerMessage {
	return ServerMessage{Type: MsgError, Message: format}
}
