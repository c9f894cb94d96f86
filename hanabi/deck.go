package hanabi

import "hanabi-lite/card"

// splitmix64 is a small, fully specified PRNG. It exists because the game
// requires a draw order that two independent processes can reproduce
// bit-for-bit from the same seed — a guarantee math/rand's default source
// does not make across Go versions. The algorithm is the public-domain
// splitmix64 generator (Vigna); state IS the seed, with no extra mixing
// on construction, so the seed itself is the reproducible input.
type splitmix64 struct {
	state uint64
}

func newSplitmix64(seed int64) *splitmix64 {
	return &splitmix64{state: uint64(seed)}
}

func (r *splitmix64) next() uint64 {
	r.state += 0x9E3779B97F4A7C15
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// shuffle performs the canonical forward Fisher-Yates shuffle: for each
// index from 0 to len-1, swap with a uniformly-ish chosen index in
// [index, len). This loop shape matches the reference implementation this
// spec was distilled from; only the underlying generator differs.
func (r *splitmix64) shuffle(deck card.List) {
	n := len(deck)
	for i := 0; i < n; i++ {
		remaining := uint64(n - i)
		swap := i + int(r.next()%remaining)
		deck[i], deck[swap] = deck[swap], deck[i]
	}
}

// NewSeededDeck builds the canonical 50-card Hanabi deck (suit-major, then
// face-major: three 1s, two each of 2/3/4, one 5 per suit) and shuffles it
// deterministically from seed. Two calls with the same seed yield
// bit-identical decks.
func NewSeededDeck(seed int64) card.List {
	deck := make(card.List, 0, 50)
	for _, suit := range card.Suits {
		for face := 1; face <= 5; face++ {
			for n := 0; n < card.CountFor(face); n++ {
				deck = append(deck, card.New(suit, face))
			}
		}
	}
	rng := newSplitmix64(seed)
	rng.shuffle(deck)
	return deck
}
