package hanabi

import "errors"

var (
	ErrGameEnded       = errors.New("hanabi: game already ended")
	ErrOutOfTurn       = errors.New("hanabi: action out of turn")
	ErrNotEnoughHints  = errors.New("hanabi: no hint tokens remaining")
	ErrHintSelf        = errors.New("hanabi: cannot hint yourself")
	ErrEmptySlot       = errors.New("hanabi: slot is empty")
	ErrSlotOutOfRange  = errors.New("hanabi: slot index out of range")
	ErrSameSlot        = errors.New("hanabi: from and to slot must differ")
	ErrUnknownPlayer   = errors.New("hanabi: unknown player index")
)

// InvalidActionError parameterizes a rejected action with a specific reason.
type InvalidActionError string

func (e InvalidActionError) Error() string { return "hanabi: invalid action: " + string(e) }

func ErrInvalidAction(msg string) error { return InvalidActionError(msg) }

// InvalidStateError parameterizes a rejected operation caused by session
// state (not game rules) — e.g. replaying actions against the wrong config.
type InvalidStateError string

func (e InvalidStateError) Error() string { return "hanabi: invalid state: " + string(e) }

func ErrInvalidState(msg string) error { return InvalidStateError(msg) }
