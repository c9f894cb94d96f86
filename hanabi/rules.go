package hanabi

// LegalEffects inspects state but never mutates it. It either rejects
// action with an error, or returns the complete effect sequence that Apply
// must fold over state to produce the next state.
func LegalEffects(state GameState, actor int, action Action) (EffectList, error) {
	switch action.Kind {
	case ActionPlayCard:
		return legalPlay(state, actor, action.Slot)
	case ActionDiscardCard:
		return legalDiscard(state, actor, action.Slot)
	case ActionGiveHint:
		return legalHint(state, actor, action.Target, action.Hint)
	case ActionMoveSlot:
		return legalMove(state, actor, action.From, action.To)
	default:
		return nil, ErrInvalidAction("unknown action kind")
	}
}

func legalPlay(state GameState, actor, slotIdx int) (EffectList, error) {
	slot, err := occupiedSlot(state, actor, slotIdx)
	if err != nil {
		return nil, err
	}
	c := slot.Card
	accepted := state.topOfPlayed(c.Suit()) == c.Face()-1

	effects := EffectList{{Kind: EffectRemoveCard, Player: actor, Slot: slotIdx}}
	if accepted {
		effects = append(effects, Effect{Kind: EffectPlaceOnBoard, Card: c})
		if c.Face() == 5 {
			effects = append(effects, Effect{Kind: EffectIncHint})
		}
	} else {
		effects = append(effects,
			Effect{Kind: EffectAddToDiscard, Card: c},
			Effect{Kind: EffectBurnFuse},
		)
	}
	effects = append(effects, drawEffects(state, actor, slotIdx)...)
	effects = append(effects, endOfTurnEffect(state))
	return effects, nil
}

func legalDiscard(state GameState, actor, slotIdx int) (EffectList, error) {
	slot, err := occupiedSlot(state, actor, slotIdx)
	if err != nil {
		return nil, err
	}
	effects := EffectList{
		{Kind: EffectRemoveCard, Player: actor, Slot: slotIdx},
		{Kind: EffectAddToDiscard, Card: slot.Card},
		{Kind: EffectIncHint},
	}
	effects = append(effects, drawEffects(state, actor, slotIdx)...)
	effects = append(effects, endOfTurnEffect(state))
	return effects, nil
}

func legalHint(state GameState, actor, target int, spec HintSpec) (EffectList, error) {
	if state.Hints <= 0 {
		return nil, ErrNotEnoughHints
	}
	if target == actor {
		return nil, ErrHintSelf
	}
	if target < 0 || target >= len(state.Hands) {
		return nil, ErrUnknownPlayer
	}
	if spec.Kind != IsSuit && spec.Kind != IsFace {
		return nil, ErrInvalidAction("hint must specify a suit or a face")
	}

	effects := EffectList{}
	for i, slot := range state.Hands[target] {
		if !slot.Occupied {
			continue
		}
		var hint Hint
		switch spec.Kind {
		case IsSuit:
			if slot.Card.Suit() == spec.Suit {
				hint = Hint{Kind: IsSuit, Suit: spec.Suit}
			} else {
				hint = Hint{Kind: IsNotSuit, Suit: spec.Suit}
			}
		case IsFace:
			if slot.Card.Face() == spec.Face {
				hint = Hint{Kind: IsFace, Face: spec.Face}
			} else {
				hint = Hint{Kind: IsNotFace, Face: spec.Face}
			}
		}
		effects = append(effects, Effect{Kind: EffectHintCard, Player: target, Slot: i, Hint: hint})
	}
	effects = append(effects, Effect{Kind: EffectDecHint})
	effects = append(effects, endOfTurnEffect(state))
	return effects, nil
}

func legalMove(state GameState, actor, from, to int) (EffectList, error) {
	if from == to {
		return nil, ErrSameSlot
	}
	hand := state.Hands[actor]
	if from < 0 || from >= len(hand) || to < 0 || to >= len(hand) {
		return nil, ErrSlotOutOfRange
	}
	if !hand[from].Occupied || !hand[to].Occupied {
		return nil, ErrEmptySlot
	}
	return EffectList{{Kind: EffectMoveSlot, Player: actor, Slot: from, To: to}}, nil
}

func occupiedSlot(state GameState, actor, slotIdx int) (Slot, error) {
	if actor < 0 || actor >= len(state.Hands) {
		return Slot{}, ErrUnknownPlayer
	}
	hand := state.Hands[actor]
	if slotIdx < 0 || slotIdx >= len(hand) {
		return Slot{}, ErrSlotOutOfRange
	}
	if !hand[slotIdx].Occupied {
		return Slot{}, ErrEmptySlot
	}
	return hand[slotIdx], nil
}

// drawEffects implements the draw-effect policy: a replacement card is
// drawn into the vacated slot unless the deck is already empty; drawing
// the last card also marks when the final round must end.
func drawEffects(state GameState, actor, slotIdx int) EffectList {
	switch state.Draw.Count() {
	case 0:
		return nil
	case 1:
		return EffectList{
			{Kind: EffectDrawCard, Player: actor, Slot: slotIdx},
			{Kind: EffectMarkLastTurn, Turn: state.Turn + state.Config.NumPlayers},
		}
	default:
		return EffectList{{Kind: EffectDrawCard, Player: actor, Slot: slotIdx}}
	}
}

// endOfTurnEffect picks LastTurn once the final round condition is
// reached, NextTurn otherwise.
func endOfTurnEffect(state GameState) Effect {
	if state.LastTurn != nil && state.Turn >= *state.LastTurn {
		return Effect{Kind: EffectLastTurn}
	}
	return Effect{Kind: EffectNextTurn}
}

// Apply is the sole mutator of GameState. Every other function in this
// package treats GameState as read-only.
func Apply(state *GameState, eff Effect) {
	switch eff.Kind {
	case EffectDrawCard:
		if state.Hands[eff.Player][eff.Slot].Occupied {
			panic("hanabi: DrawCard into an occupied slot")
		}
		c := state.Draw.PopCard()
		state.Hands[eff.Player][eff.Slot] = Slot{Occupied: true, Card: c}
	case EffectRemoveCard:
		state.Hands[eff.Player][eff.Slot] = Slot{}
	case EffectAddToDiscard:
		state.Discard.Add(eff.Card)
	case EffectPlaceOnBoard:
		state.Played.Add(eff.Card)
	case EffectHintCard:
		slot := &state.Hands[eff.Player][eff.Slot]
		if !slot.Occupied {
			panic("hanabi: HintCard on an empty slot")
		}
		slot.Hints = append(slot.Hints, eff.Hint)
	case EffectIncHint:
		if state.Hints < state.Config.NumHints {
			state.Hints++
		}
	case EffectDecHint:
		if state.Hints > 0 {
			state.Hints--
		}
	case EffectBurnFuse:
		state.Fuses--
	case EffectNextTurn:
		state.Turn++
	case EffectMarkLastTurn:
		turn := eff.Turn
		state.LastTurn = &turn
	case EffectLastTurn:
		state.Turn++
	case EffectMoveSlot:
		moveSlot(state.Hands[eff.Player], eff.Slot, eff.To)
	}
	recomputeOutcome(state)
}

// moveSlot rotates the closed range [min(from,to), max(from,to)] so the
// card at from lands at to, shifting the others by one position toward
// from. Applying the inverse move (to, from) on the result restores the
// original order.
func moveSlot(hand []Slot, from, to int) {
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	seg := make([]Slot, hi-lo+1)
	copy(seg, hand[lo:hi+1])

	var rotated []Slot
	if from < to {
		rotated = append(append([]Slot{}, seg[1:]...), seg[0])
	} else {
		rotated = append([]Slot{seg[len(seg)-1]}, seg[:len(seg)-1]...)
	}
	copy(hand[lo:hi+1], rotated)
}
