package hanabi

import (
	"testing"

	"hanabi-lite/card"
)

func newTestState(numPlayers, handSize, drawCount int) GameState {
	cfg, err := DefaultConfig(numPlayers, 0, 0)
	if err != nil {
		panic(err)
	}
	cfg.HandSize = handSize
	hands := make([][]Slot, numPlayers)
	for p := range hands {
		hands[p] = make([]Slot, handSize)
	}
	draw := make(card.List, drawCount)
	for i := range draw {
		draw[i] = card.New(card.Blue, 1)
	}
	return GameState{
		Config: cfg,
		Hands:  hands,
		Draw:   draw,
		Fuses:  cfg.NumFuses,
		Hints:  cfg.NumHints,
		Turn:   0,
	}
}

func kinds(effects EffectList) []EffectKind {
	out := make([]EffectKind, len(effects))
	for i, e := range effects {
		out[i] = e.Kind
	}
	return out
}

func assertKinds(t *testing.T, got EffectList, want []EffectKind) {
	t.Helper()
	gk := kinds(got)
	if len(gk) != len(want) {
		t.Fatalf("effect count mismatch: got=%v want=%v", gk, want)
	}
	for i := range want {
		if gk[i] != want[i] {
			t.Fatalf("effect %d mismatch: got=%v want=%v (full got=%v)", i, gk[i], want[i], gk)
		}
	}
}

// S2 — rejected play burns a fuse.
func TestLegalEffects_RejectedPlayBurnsFuse(t *testing.T) {
	state := newTestState(2, 5, 10)
	state.Turn = 1 // actor 1's turn
	state.Hands[1][1] = Slot{Occupied: true, Card: card.New(card.Green, 4)}

	effects, err := LegalEffects(state, 1, Action{Kind: ActionPlayCard, Slot: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, effects, []EffectKind{
		EffectRemoveCard, EffectAddToDiscard, EffectBurnFuse, EffectDrawCard, EffectNextTurn,
	})
	if effects[1].Card != card.New(card.Green, 4) {
		t.Fatalf("discarded card mismatch: %v", effects[1].Card)
	}
}

// S3 — completing a suit (playing its 5) grants back a hint token.
func TestLegalEffects_CompletedSetGrantsHint(t *testing.T) {
	state := newTestState(2, 5, 10)
	state.Played = card.List{
		card.New(card.Red, 1), card.New(card.Red, 2), card.New(card.Red, 3), card.New(card.Red, 4),
	}
	state.Hands[0][1] = Slot{Occupied: true, Card: card.New(card.Red, 5)}

	effects, err := LegalEffects(state, 0, Action{Kind: ActionPlayCard, Slot: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, effects, []EffectKind{
		EffectRemoveCard, EffectPlaceOnBoard, EffectIncHint, EffectDrawCard, EffectNextTurn,
	})
}

// S4 — drawing the last card from the deck marks the last-turn boundary.
func TestLegalEffects_LastCardMarksLastTurn(t *testing.T) {
	state := newTestState(2, 5, 1)
	state.Hands[0][1] = Slot{Occupied: true, Card: card.New(card.Red, 1)}

	effects, err := LegalEffects(state, 0, Action{Kind: ActionPlayCard, Slot: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, effects, []EffectKind{
		EffectRemoveCard, EffectPlaceOnBoard, EffectDrawCard, EffectMarkLastTurn, EffectNextTurn,
	})
	markEffect := effects[3]
	if markEffect.Turn != state.Turn+state.Config.NumPlayers {
		t.Fatalf("MarkLastTurn turn mismatch: got=%d want=%d", markEffect.Turn, state.Turn+state.Config.NumPlayers)
	}
}

// S5 — a suit hint partitions the target's hand into matches and non-matches.
func TestLegalEffects_HintPartitionsHand(t *testing.T) {
	state := newTestState(2, 5, 10)
	state.Hands[1] = []Slot{
		{Occupied: true, Card: card.New(card.Red, 3)},
		{Occupied: true, Card: card.New(card.Green, 4)},
		{Occupied: true, Card: card.New(card.Green, 1)},
		{Occupied: true, Card: card.New(card.Green, 5)},
		{Occupied: true, Card: card.New(card.Blue, 4)},
	}

	effects, err := LegalEffects(state, 0, Action{
		Kind: ActionGiveHint, Target: 1, Hint: HintSpec{Kind: IsSuit, Suit: card.Green},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertKinds(t, effects, []EffectKind{
		EffectHintCard, EffectHintCard, EffectHintCard, EffectHintCard, EffectHintCard,
		EffectDecHint, EffectNextTurn,
	})
	wantHintKinds := []HintKind{IsNotSuit, IsSuit, IsSuit, IsSuit, IsNotSuit}
	for i, want := range wantHintKinds {
		if effects[i].Hint.Kind != want {
			t.Fatalf("hint %d kind mismatch: got=%v want=%v", i, effects[i].Hint.Kind, want)
		}
	}
}

func TestLegalEffects_HintRejectsSelfTarget(t *testing.T) {
	state := newTestState(2, 5, 10)
	_, err := LegalEffects(state, 0, Action{Kind: ActionGiveHint, Target: 0, Hint: HintSpec{Kind: IsFace, Face: 1}})
	if err != ErrHintSelf {
		t.Fatalf("expected ErrHintSelf, got %v", err)
	}
}

func TestLegalEffects_HintRejectsWhenNoTokensLeft(t *testing.T) {
	state := newTestState(2, 5, 10)
	state.Hints = 0
	_, err := LegalEffects(state, 0, Action{Kind: ActionGiveHint, Target: 1, Hint: HintSpec{Kind: IsFace, Face: 1}})
	if err != ErrNotEnoughHints {
		t.Fatalf("expected ErrNotEnoughHints, got %v", err)
	}
}

// Discarding at the hint cap is permitted; the clamp absorbs the token.
func TestLegalEffects_DiscardAllowedAtHintCap(t *testing.T) {
	state := newTestState(2, 5, 10)
	state.Hints = state.Config.NumHints
	state.Hands[0][0] = Slot{Occupied: true, Card: card.New(card.Blue, 2)}

	effects, err := LegalEffects(state, 0, Action{Kind: ActionDiscardCard, Slot: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	next := state.Clone()
	for _, e := range effects {
		Apply(&next, e)
	}
	if next.Hints != state.Config.NumHints {
		t.Fatalf("hints should clamp at cap, got %d", next.Hints)
	}
}

func TestLegalMove_RejectsSameSlot(t *testing.T) {
	state := newTestState(2, 5, 10)
	_, err := LegalEffects(state, 0, Action{Kind: ActionMoveSlot, From: 2, To: 2})
	if err != ErrSameSlot {
		t.Fatalf("expected ErrSameSlot, got %v", err)
	}
}

func TestApply_MoveSlotRotatesRange(t *testing.T) {
	state := newTestState(2, 5, 0)
	for i := 0; i < 5; i++ {
		state.Hands[0][i] = Slot{Occupied: true, Card: card.New(card.Red, i+1)}
	}
	original := Hand(state.Hands[0]).Clone()

	Apply(&state, Effect{Kind: EffectMoveSlot, Player: 0, Slot: 0, To: 2})
	want := []card.Card{
		original[1].Card, original[2].Card, original[0].Card, original[3].Card, original[4].Card,
	}
	for i, c := range want {
		if state.Hands[0][i].Card != c {
			t.Fatalf("slot %d mismatch after move: got=%v want=%v", i, state.Hands[0][i].Card, c)
		}
	}

	// The inverse move restores the original order.
	Apply(&state, Effect{Kind: EffectMoveSlot, Player: 0, Slot: 2, To: 0})
	for i := range original {
		if state.Hands[0][i].Card != original[i].Card {
			t.Fatalf("inverse move did not restore slot %d: got=%v want=%v", i, state.Hands[0][i].Card, original[i].Card)
		}
	}
}

func TestApply_FusesAtZeroEndsGameAsFail(t *testing.T) {
	log, err := NewGameLog(mustConfig(2, 0, 7))
	if err != nil {
		t.Fatalf("NewGameLog err: %v", err)
	}
	state := log.CurrentState()
	state.Fuses = 1
	log.Entries = append(log.Entries, LogEntry{State: state})

	// Find a card in actor 0's hand that cannot be legally played to force a burn.
	actor := state.CurrentPlayer()
	slotIdx := -1
	for i, s := range state.Hands[actor] {
		if s.Occupied && state.topOfPlayed(s.Card.Suit()) != s.Card.Face()-1 {
			slotIdx = i
			break
		}
	}
	if slotIdx == -1 {
		t.Skip("no illegal-play slot available in this deal")
	}
	if err := log.Apply(actor, Action{Kind: ActionPlayCard, Slot: slotIdx}); err != nil {
		t.Fatalf("Apply err: %v", err)
	}
	final := log.CurrentState()
	if final.Outcome == nil || final.Outcome.Kind != OutcomeFail {
		t.Fatalf("expected a Fail outcome once fuses hit zero, got %+v", final.Outcome)
	}
}

func mustConfig(numPlayers, startingPlayer int, seed int64) GameConfig {
	cfg, err := DefaultConfig(numPlayers, startingPlayer, seed)
	if err != nil {
		panic(err)
	}
	return cfg
}
