package hanabi

import "testing"

func TestProject_HidesOwnHandRevealsOthers(t *testing.T) {
	cfg := mustConfig(3, 0, 7)
	log, err := NewGameLog(cfg)
	if err != nil {
		t.Fatalf("NewGameLog err: %v", err)
	}
	state := log.CurrentState()

	snap := Project(state, 0)
	if len(snap.OwnHand) != cfg.HandSize {
		t.Fatalf("own hand length mismatch: got=%d want=%d", len(snap.OwnHand), cfg.HandSize)
	}
	for i, hs := range snap.OwnHand {
		if !hs.Occupied {
			t.Fatalf("expected slot %d occupied", i)
		}
	}

	if len(snap.OtherHands) != cfg.NumPlayers-1 {
		t.Fatalf("expected %d other hands, got %d", cfg.NumPlayers-1, len(snap.OtherHands))
	}
	for p, hand := range snap.OtherHands {
		if p == 0 {
			t.Fatalf("viewer's own hand must not appear in OtherHands")
		}
		for i, s := range hand {
			if s.Card != state.Hands[p][i].Card {
				t.Fatalf("other hand %d slot %d card mismatch", p, i)
			}
		}
	}
}

func TestProject_IsPure(t *testing.T) {
	cfg := mustConfig(2, 0, 3)
	log, err := NewGameLog(cfg)
	if err != nil {
		t.Fatalf("NewGameLog err: %v", err)
	}
	state := log.CurrentState()

	a := Project(state, 1)
	b := Project(state, 1)
	if len(a.OwnHand) != len(b.OwnHand) {
		t.Fatalf("projection not stable across calls")
	}
	for i := range a.OwnHand {
		if len(a.OwnHand[i].Hints) != len(b.OwnHand[i].Hints) {
			t.Fatalf("projection not stable across calls at slot %d", i)
		}
	}
}

func TestProjectLog_MirrorsEntryCount(t *testing.T) {
	cfg := mustConfig(2, 0, 3)
	log, err := NewGameLog(cfg)
	if err != nil {
		t.Fatalf("NewGameLog err: %v", err)
	}
	if err := log.Apply(0, Action{Kind: ActionDiscardCard, Slot: 0}); err != nil {
		t.Fatalf("Apply err: %v", err)
	}

	events := ProjectLog(log, 1)
	if len(events) != len(log.Entries) {
		t.Fatalf("event count mismatch: got=%d want=%d", len(events), len(log.Entries))
	}
}
