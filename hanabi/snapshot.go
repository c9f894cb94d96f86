package hanabi

import "hanabi-lite/card"

// GameStateSnapshot is the view of a GameState from one player's seat: the
// viewer's own hand exposes only accumulated hints, while every other
// seat's hand is fully visible — Hanabi's signature "see others, never
// yourself" rule.
type GameStateSnapshot struct {
	Config GameConfig
	Viewer int

	OwnHand    []HiddenSlot
	OtherHands map[int][]Slot

	DrawCount int
	Discard   []card.Card
	Played    []card.Card

	Fuses int
	Hints int

	Turn     int
	LastTurn *int
	Outcome  *Outcome
}

// Project is a pure function: identical state and viewer always yield a
// byte-for-byte identical snapshot.
func Project(state GameState, viewer int) GameStateSnapshot {
	snap := GameStateSnapshot{
		Config:    state.Config,
		Viewer:    viewer,
		DrawCount: state.Draw.Count(),
		Discard:   append([]card.Card{}, state.Discard...),
		Played:    append([]card.Card{}, state.Played...),
		Fuses:     state.Fuses,
		Hints:     state.Hints,
		Turn:      state.Turn,
		Outcome:   state.Outcome,
	}
	if state.LastTurn != nil {
		lt := *state.LastTurn
		snap.LastTurn = &lt
	}

	ownHand := make([]HiddenSlot, len(state.Hands[viewer]))
	for i, s := range state.Hands[viewer] {
		ownHand[i] = s.Hide()
	}
	snap.OwnHand = ownHand

	others := make(map[int][]Slot, len(state.Hands)-1)
	for p, hand := range state.Hands {
		if p == viewer {
			continue
		}
		others[p] = Hand(hand).Clone()
	}
	snap.OtherHands = others

	return snap
}

// GameSnapshotEvent mirrors LogEntry but carries a projected state instead
// of the authoritative one, so a client can replay its own event history
// without ever seeing hidden information.
type GameSnapshotEvent struct {
	TurnBefore int
	Actor      int
	Action     Action
	State      GameStateSnapshot
}

// ProjectLog projects every entry of log from viewer's perspective, in
// order.
func ProjectLog(log *GameLog, viewer int) []GameSnapshotEvent {
	events := make([]GameSnapshotEvent, len(log.Entries))
	for i, e := range log.Entries {
		events[i] = GameSnapshotEvent{
			TurnBefore: e.TurnBefore,
			Actor:      e.Actor,
			Action:     e.Action,
			State:      Project(e.State, viewer),
		}
	}
	return events
}
