package hanabi

import "fmt"

// GameConfig pins every parameter needed to deterministically reconstruct
// a game from its log: the seed fixes the deck order, the rest fixes the
// rules the engine enforces.
type GameConfig struct {
	NumPlayers     int
	HandSize       int
	NumFuses       int
	NumHints       int
	StartingPlayer int
	Seed           int64
}

// HandSizeFor returns the standard hand size for a player count: 5 cards
// for 2-3 players, 4 cards for 4-5 players. Returns an error outside 2-5.
func HandSizeFor(numPlayers int) (int, error) {
	switch {
	case numPlayers == 2 || numPlayers == 3:
		return 5, nil
	case numPlayers == 4 || numPlayers == 5:
		return 4, nil
	default:
		return 0, fmt.Errorf("hanabi: numPlayers must be 2..5, got %d", numPlayers)
	}
}

// DefaultConfig builds a GameConfig with the standard fuse/hint counts and
// the hand size implied by numPlayers.
func DefaultConfig(numPlayers, startingPlayer int, seed int64) (GameConfig, error) {
	handSize, err := HandSizeFor(numPlayers)
	if err != nil {
		return GameConfig{}, err
	}
	cfg := GameConfig{
		NumPlayers:     numPlayers,
		HandSize:       handSize,
		NumFuses:       3,
		NumHints:       8,
		StartingPlayer: startingPlayer,
		Seed:           seed,
	}
	if err := cfg.validate(); err != nil {
		return GameConfig{}, err
	}
	return cfg, nil
}

func (c GameConfig) validate() error {
	if c.NumPlayers < 2 || c.NumPlayers > 5 {
		return fmt.Errorf("hanabi: NumPlayers must be 2..5, got %d", c.NumPlayers)
	}
	if c.HandSize <= 0 {
		return fmt.Errorf("hanabi: HandSize must be > 0")
	}
	if c.NumFuses <= 0 {
		return fmt.Errorf("hanabi: NumFuses must be > 0")
	}
	if c.NumHints <= 0 {
		return fmt.Errorf("hanabi: NumHints must be > 0")
	}
	if c.StartingPlayer < 0 || c.StartingPlayer >= c.NumPlayers {
		return fmt.Errorf("hanabi: StartingPlayer out of range: %d", c.StartingPlayer)
	}
	return nil
}
