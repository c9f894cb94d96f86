package hanabi

import "testing"

func TestGameLog_ReplayReproducesCurrentState(t *testing.T) {
	cfg := mustConfig(3, 0, 99)
	log, err := NewGameLog(cfg)
	if err != nil {
		t.Fatalf("NewGameLog err: %v", err)
	}

	var actions []ActorAction
	for i := 0; i < 6; i++ {
		actor := log.CurrentState().CurrentPlayer()
		action := Action{Kind: ActionDiscardCard, Slot: 0}
		if err := log.Apply(actor, action); err != nil {
			t.Fatalf("Apply #%d err: %v", i, err)
		}
		actions = append(actions, ActorAction{Actor: actor, Action: action})
	}

	replayed, err := Replay(cfg, actions)
	if err != nil {
		t.Fatalf("Replay err: %v", err)
	}

	want := log.CurrentState()
	got := replayed.CurrentState()
	if got.Turn != want.Turn || got.Hints != want.Hints || got.Fuses != want.Fuses {
		t.Fatalf("replayed state mismatch: got=%+v want=%+v", got, want)
	}
	if len(got.Discard) != len(want.Discard) {
		t.Fatalf("discard pile length mismatch: got=%d want=%d", len(got.Discard), len(want.Discard))
	}
	for i := range want.Discard {
		if got.Discard[i] != want.Discard[i] {
			t.Fatalf("discard pile diverges at %d", i)
		}
	}
}

func TestGameLog_RejectsOutOfTurnAction(t *testing.T) {
	cfg := mustConfig(2, 0, 1)
	log, err := NewGameLog(cfg)
	if err != nil {
		t.Fatalf("NewGameLog err: %v", err)
	}
	if err := log.Apply(1, Action{Kind: ActionDiscardCard, Slot: 0}); err != ErrOutOfTurn {
		t.Fatalf("expected ErrOutOfTurn, got %v", err)
	}
}

func TestGameLog_RejectsActionAfterOutcome(t *testing.T) {
	cfg := mustConfig(2, 0, 1)
	log, err := NewGameLog(cfg)
	if err != nil {
		t.Fatalf("NewGameLog err: %v", err)
	}
	state := log.CurrentState()
	state.Fuses = 0
	state.Outcome = &Outcome{Kind: OutcomeFail, Score: 0}
	log.Entries = append(log.Entries, LogEntry{State: state})

	if err := log.Apply(0, Action{Kind: ActionDiscardCard, Slot: 0}); err != ErrGameEnded {
		t.Fatalf("expected ErrGameEnded, got %v", err)
	}
}

func TestGameLog_UndoPopsLastEntry(t *testing.T) {
	cfg := mustConfig(2, 0, 5)
	log, err := NewGameLog(cfg)
	if err != nil {
		t.Fatalf("NewGameLog err: %v", err)
	}
	before := log.CurrentState()
	if err := log.Apply(0, Action{Kind: ActionDiscardCard, Slot: 0}); err != nil {
		t.Fatalf("Apply err: %v", err)
	}
	log.Undo()
	after := log.CurrentState()
	if after.Turn != before.Turn || len(after.Discard) != len(before.Discard) {
		t.Fatalf("Undo did not restore prior state: before=%+v after=%+v", before, after)
	}
}
