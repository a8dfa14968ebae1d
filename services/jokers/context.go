package jokers

import (
	"Comodin/services/poker"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/rand"
)

type Stage int

const (
	StagePreBlind Stage = iota + 1
	StageBlind
	StageShop
	StagePostBlind
	StageEnd
)

func (s Stage) String() string {
	switch s {
	case StagePreBlind:
		return "pre_blind"
	case StageBlind:
		return "blind"
	case StageShop:
		return "shop"
	case StagePostBlind:
		return "post_blind"
	case StageEnd:
		return "end"
	}
	return "unknown"
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText reads a stage name; empty is StagePreBlind
func (s *Stage) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = StagePreBlind
		return nil
	}
	for st := StagePreBlind; st <= StageEnd; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", text)
}

// RNG is the randomness jokers may use. A nil RNG disables random effects.
type RNG interface {
	Intn(n int) int
	Float64() float64
}

// NewRNG returns a deterministic generator for one run
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// SeedFrom hashes any identifying parts (run id, round, ...) into a seed
func SeedFrom(parts ...interface{}) uint64 {
	return xxhash.Sum64String(fmt.Sprint(parts...))
}

// GameContext is the view of the game handed to every hook
type GameContext struct {
	Chips int
	Mult  int
	Money int
	Ante  int
	Round int
	Stage Stage

	HandsPlayed       int
	DiscardsUsed      int
	HandsRemaining    int
	DiscardsRemaining int

	// Jokers in slot order, left to right
	Jokers    []Joker
	Hand      poker.Hand
	Discarded []poker.Card

	State          *StateStore
	HandTypeCounts map[poker.HandRank]int

	CardsInDeck      int
	StoneCardsInDeck int
	SteelCardsInDeck int

	RNG RNG

	// Optional, used by condition-driven jokers
	History    *GameHistory
	Conditions *ConditionCache

	// Position is the slot of the joker currently being invoked
	Position int
	// CardIndex is the position of the card being scored among the scoring cards
	CardIndex int

	copyDepth int
}

// NewGameContext fills the defaults a fresh round starts with
func NewGameContext(state *StateStore, rng RNG) *GameContext {
	if state == nil {
		state = NewStateStore(DefaultMaxValue)
	}
	return &GameContext{
		Ante:              1,
		Round:             1,
		Stage:             StagePreBlind,
		HandsRemaining:    4,
		DiscardsRemaining: 3,
		State:             state,
		HandTypeCounts:    make(map[poker.HandRank]int),
		CardsInDeck:       52,
		RNG:               rng,
		History:           NewGameHistory(),
		Conditions:        NewConditionCache(0),
	}
}

func (ctx *GameContext) JokerAt(i int) (Joker, bool) {
	if i < 0 || i >= len(ctx.Jokers) {
		return nil, false
	}
	return ctx.Jokers[i], true
}

func (ctx *GameContext) LeftOf(pos int) (Joker, bool) {
	return ctx.JokerAt(pos - 1)
}

func (ctx *GameContext) RightOf(pos int) (Joker, bool) {
	return ctx.JokerAt(pos + 1)
}

// CountJokers counts owned copies of a species
func (ctx *GameContext) CountJokers(id JokerID) int {
	n := 0
	for _, j := range ctx.Jokers {
		if j.ID() == id {
			n++
		}
	}
	return n
}

// IsCopy is true while a copier (Blueprint, Brainstorm) replays another joker.
// Jokers must not write state during a copy.
func (ctx *GameContext) IsCopy() bool {
	return ctx.copyDepth > 0
}

// IsFinalHand is true while the last hand of the round is being scored
func (ctx *GameContext) IsFinalHand() bool {
	return ctx.HandsRemaining == 1
}

func (ctx *GameContext) roll(n int) (int, bool) {
	if ctx.RNG == nil || n <= 0 {
		return 0, false
	}
	return ctx.RNG.Intn(n), true
}
