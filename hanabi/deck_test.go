package hanabi

import "testing"

// S1 — two independently built logs from the same seed must draw
// bitwise-identical piles.
func TestNewGameLog_SeededDeckIsDeterministic(t *testing.T) {
	cfg, err := DefaultConfig(2, 0, 0)
	if err != nil {
		t.Fatalf("DefaultConfig err: %v", err)
	}

	a, err := NewGameLog(cfg)
	if err != nil {
		t.Fatalf("NewGameLog a err: %v", err)
	}
	b, err := NewGameLog(cfg)
	if err != nil {
		t.Fatalf("NewGameLog b err: %v", err)
	}

	if len(a.Initial.Draw) != len(b.Initial.Draw) {
		t.Fatalf("draw pile length mismatch: %d vs %d", len(a.Initial.Draw), len(b.Initial.Draw))
	}
	for i := range a.Initial.Draw {
		if a.Initial.Draw[i] != b.Initial.Draw[i] {
			t.Fatalf("draw pile diverges at %d: %v vs %v", i, a.Initial.Draw[i], b.Initial.Draw[i])
		}
	}

	for p := range a.Initial.Hands {
		for s := range a.Initial.Hands[p] {
			if a.Initial.Hands[p][s].Card != b.Initial.Hands[p][s].Card {
				t.Fatalf("hand %d slot %d diverges", p, s)
			}
		}
	}
}

func TestNewSeededDeck_HasStandardComposition(t *testing.T) {
	deck := NewSeededDeck(42)
	if len(deck) != 50 {
		t.Fatalf("expected 50 cards, got %d", len(deck))
	}

	counts := map[string]int{}
	for _, c := range deck {
		counts[c.String()]++
	}
	for _, suit := range []string{"Red", "Green", "Yellow", "White", "Blue"} {
		for face := 1; face <= 5; face++ {
			want := 2
			switch face {
			case 1:
				want = 3
			case 5:
				want = 1
			}
			key := suit + itoa(face)
			if got := counts[key]; got != want {
				t.Fatalf("count of %s: got=%d want=%d", key, got, want)
			}
		}
	}
}

func itoa(n int) string {
	return string(rune('0' + n))
}
