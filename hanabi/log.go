package hanabi

// LogEntry is one applied action: the turn it was applied on, who acted,
// what they submitted, the effects it produced, and the resulting state.
type LogEntry struct {
	TurnBefore int
	Actor      int
	Action     Action
	Effects    EffectList
	State      GameState
}

// GameLog is the append-only authoritative history of one game. State is
// always derivable by folding Effects across Entries starting from
// Initial; Entries is kept alongside Initial only as a cache so
// CurrentState doesn't replay on every call.
type GameLog struct {
	Config  GameConfig
	Initial GameState
	Entries []LogEntry
}

// NewGameLog deals the initial hands from a seeded deck and returns a log
// with zero entries and CurrentState() == the post-deal state.
func NewGameLog(cfg GameConfig) (*GameLog, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	deck := NewSeededDeck(cfg.Seed)

	state := GameState{
		Config: cfg,
		Hands:  make([][]Slot, cfg.NumPlayers),
		Fuses:  cfg.NumFuses,
		Hints:  cfg.NumHints,
		Turn:   cfg.StartingPlayer,
	}
	for p := range state.Hands {
		state.Hands[p] = make([]Slot, cfg.HandSize)
	}
	// Deal round-robin, one card per player per round, matching the order
	// a physical dealer would use.
	for round := 0; round < cfg.HandSize; round++ {
		for p := 0; p < cfg.NumPlayers; p++ {
			c := deck.PopCard()
			state.Hands[p][round] = Slot{Occupied: true, Card: c}
		}
	}
	state.Draw = deck

	return &GameLog{Config: cfg, Initial: state}, nil
}

// CurrentState returns the state after the last applied entry, or the
// post-deal initial state if none has been applied yet.
func (l *GameLog) CurrentState() GameState {
	if len(l.Entries) == 0 {
		return l.Initial
	}
	return l.Entries[len(l.Entries)-1].State
}

// Apply validates and applies one action on behalf of actor, appending a
// new entry on success. actor must equal CurrentState().CurrentPlayer().
func (l *GameLog) Apply(actor int, action Action) error {
	state := l.CurrentState()
	if state.Ended() {
		return ErrGameEnded
	}
	if actor != state.CurrentPlayer() {
		return ErrOutOfTurn
	}

	effects, err := LegalEffects(state, actor, action)
	if err != nil {
		return err
	}

	next := state.Clone()
	for _, eff := range effects {
		Apply(&next, eff)
	}
	recomputeOutcome(&next)

	l.Entries = append(l.Entries, LogEntry{
		TurnBefore: state.Turn,
		Actor:      actor,
		Action:     action,
		Effects:    effects,
		State:      next,
	})
	return nil
}

// Undo pops the most recent entry. The session coordinator calls this to
// roll back an in-memory Apply whose corresponding persistence write
// failed, so a durability failure is never silently skipped over.
func (l *GameLog) Undo() {
	if len(l.Entries) == 0 {
		return
	}
	l.Entries = l.Entries[:len(l.Entries)-1]
}

// Replay rebuilds a log from scratch by applying actions in order,
// starting from cfg's deterministic deal. Used to rehydrate a session
// from persisted (actor, action) pairs.
func Replay(cfg GameConfig, actions []ActorAction) (*GameLog, error) {
	log, err := NewGameLog(cfg)
	if err != nil {
		return nil, err
	}
	for _, aa := range actions {
		if err := log.Apply(aa.Actor, aa.Action); err != nil {
			return nil, err
		}
	}
	return log, nil
}

// ActorAction pairs a persisted action with the player who submitted it.
type ActorAction struct {
	Actor  int
	Action Action
}

func recomputeOutcome(s *GameState) {
	if s.Outcome != nil {
		return
	}
	if s.score() == 25 {
		s.Outcome = &Outcome{Kind: OutcomeWin, Score: 25}
		return
	}
	if s.Fuses <= 0 {
		s.Outcome = &Outcome{Kind: OutcomeFail, Score: s.score()}
		return
	}
	if s.LastTurn != nil && s.Turn > *s.LastTurn {
		s.Outcome = &Outcome{Kind: OutcomeFail, Score: s.score()}
		return
	}
}
