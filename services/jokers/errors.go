package jokers

import "errors"

var (
	ErrUnknownJoker = errors.New("unknown joker")
	// ErrInvalidState is returned when saved joker state cannot be restored
	ErrInvalidState = errors.New("invalid joker state")
	ErrSlotsFull    = errors.New("no joker slots left")
	ErrNoSuchSlot   = errors.New("no joker in that slot")
)
