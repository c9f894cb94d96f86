// Package command implements the client-side command-builder state
// machine: it assembles a single validated hanabi.Action from a sequence
// of fragmentary selections (play/discard/hint/move, then a target, then
// a confirmation) without ever touching game state itself.
package command

import (
	"fmt"

	"hanabi-lite/card"
	"hanabi-lite/hanabi"
)

// Step names every state the builder can be in.
type Step byte

const (
	StepEmpty Step = iota
	StepPlayChoosingCard
	StepDiscardChoosingCard
	StepHintChoosingPlayer
	StepHintChoosingHint
	StepMoveChoosingCard
	StepMoveChangeSlot
	StepConfirming
)

func (s Step) String() string {
	switch s {
	case StepEmpty:
		return "empty"
	case StepPlayChoosingCard:
		return "playing_card"
	case StepDiscardChoosingCard:
		return "discarding_card"
	case StepHintChoosingPlayer:
		return "hinting_choosing_player"
	case StepHintChoosingHint:
		return "hinting_choosing_hint"
	case StepMoveChoosingCard:
		return "moving_card_choosing_card"
	case StepMoveChangeSlot:
		return "moving_card_change_slot"
	case StepConfirming:
		return "confirming"
	default:
		return "?"
	}
}

// frame is a complete snapshot of the builder's fields, used to implement
// Undo as a predecessor-state stack.
type frame struct {
	step    Step
	target  int
	from    int
	to      int
	pending hanabi.Action
}

// Builder is single-threaded: it is owned by one UI goroutine and must
// never be shared across goroutines without external synchronization.
type Builder struct {
	history []frame
	frame
}

// NewBuilder returns a builder in StepEmpty.
func NewBuilder() *Builder {
	return &Builder{frame: frame{step: StepEmpty}}
}

func (b *Builder) Step() Step { return b.step }

func (b *Builder) push() {
	b.history = append(b.history, b.frame)
}

// Undo restores the predecessor state, or does nothing at StepEmpty with
// no history.
func (b *Builder) Undo() {
	if len(b.history) == 0 {
		b.frame = frame{step: StepEmpty}
		return
	}
	b.frame = b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
}

func wrongStep(got Step) error {
	return fmt.Errorf("command: unexpected input in step %s", got)
}

func (b *Builder) StartPlay() error {
	if b.step != StepEmpty {
		return wrongStep(b.step)
	}
	b.push()
	b.step = StepPlayChoosingCard
	return nil
}

func (b *Builder) StartDiscard() error {
	if b.step != StepEmpty {
		return wrongStep(b.step)
	}
	b.push()
	b.step = StepDiscardChoosingCard
	return nil
}

func (b *Builder) StartHint() error {
	if b.step != StepEmpty {
		return wrongStep(b.step)
	}
	b.push()
	b.step = StepHintChoosingPlayer
	return nil
}

func (b *Builder) StartMove() error {
	if b.step != StepEmpty {
		return wrongStep(b.step)
	}
	b.push()
	b.step = StepMoveChoosingCard
	return nil
}

// SelectCard chooses a slot while playing or discarding, finalizing a
// pending action that awaits confirmation. While moving, it picks the
// source slot and sets the destination to the same slot.
func (b *Builder) SelectCard(slot int) error {
	switch b.step {
	case StepPlayChoosingCard:
		b.push()
		b.pending = hanabi.Action{Kind: hanabi.ActionPlayCard, Slot: slot}
		b.step = StepConfirming
		return nil
	case StepDiscardChoosingCard:
		b.push()
		b.pending = hanabi.Action{Kind: hanabi.ActionDiscardCard, Slot: slot}
		b.step = StepConfirming
		return nil
	case StepMoveChoosingCard:
		b.push()
		b.from = slot
		b.to = slot
		b.step = StepMoveChangeSlot
		return nil
	default:
		return wrongStep(b.step)
	}
}

func (b *Builder) SelectPlayer(p int) error {
	if b.step != StepHintChoosingPlayer {
		return wrongStep(b.step)
	}
	b.push()
	b.target = p
	b.step = StepHintChoosingHint
	return nil
}

func (b *Builder) SelectSuit(s card.Suit) error {
	if b.step != StepHintChoosingHint {
		return wrongStep(b.step)
	}
	b.push()
	b.pending = hanabi.Action{
		Kind:   hanabi.ActionGiveHint,
		Target: b.target,
		Hint:   hanabi.HintSpec{Kind: hanabi.IsSuit, Suit: s},
	}
	b.step = StepConfirming
	return nil
}

func (b *Builder) SelectFace(f int) error {
	if b.step != StepHintChoosingHint {
		return wrongStep(b.step)
	}
	b.push()
	b.pending = hanabi.Action{
		Kind:   hanabi.ActionGiveHint,
		Target: b.target,
		Hint:   hanabi.HintSpec{Kind: hanabi.IsFace, Face: f},
	}
	b.step = StepConfirming
	return nil
}

// SelectSlot updates the destination slot while rearranging a hand.
func (b *Builder) SelectSlot(n int) error {
	if b.step != StepMoveChangeSlot {
		return wrongStep(b.step)
	}
	b.push()
	b.to = n
	return nil
}

// Confirm resolves a StepConfirming or StepMoveChangeSlot builder. ok=false
// discards the pending action and returns to StepEmpty. On the move path,
// Confirm emits MoveSlot directly since no separate confirmation step
// exists in the transition table once a destination is chosen.
func (b *Builder) Confirm(ok bool) (hanabi.Action, bool, error) {
	switch b.step {
	case StepConfirming:
		if !ok {
			b.frame = frame{step: StepEmpty}
			b.history = nil
			return hanabi.Action{}, false, nil
		}
		action := b.pending
		b.frame = frame{step: StepEmpty}
		b.history = nil
		return action, true, nil
	case StepMoveChangeSlot:
		if !ok {
			b.frame = frame{step: StepEmpty}
			b.history = nil
			return hanabi.Action{}, false, nil
		}
		action := hanabi.Action{Kind: hanabi.ActionMoveSlot, From: b.from, To: b.to}
		b.frame = frame{step: StepEmpty}
		b.history = nil
		return action, true, nil
	default:
		return hanabi.Action{}, false, wrongStep(b.step)
	}
}

// ApplyLocalMutation reorders a local copy of a hand to match an
// in-progress MoveSlot selection, for optimistic UI feedback before the
// server's snapshot arrives. It is not idempotent: each call with the same
// from/to rotates the range again, so a second call moves the cards a
// second time.
func ApplyLocalMutation(hand []hanabi.Slot, from, to int) {
	if from == to {
		return
	}
	state := hanabi.GameState{Hands: [][]hanabi.Slot{hand}}
	hanabi.Apply(&state, hanabi.Effect{Kind: hanabi.EffectMoveSlot, Player: 0, Slot: from, To: to})
}
