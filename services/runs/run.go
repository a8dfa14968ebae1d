package runs

import (
	"Comodin/models/postgres"
	redis_models "Comodin/models/redis"
	"Comodin/services/jokers"
	"Comodin/services/poker"
	"Comodin/services/tags"
	"Comodin/services/vouchers"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Progress is where the current round stands
type Progress struct {
	HandsPlayed       int                    `json:"hands_played"`
	HandsRemaining    int                    `json:"hands_remaining"`
	DiscardsUsed      int                    `json:"discards_used"`
	DiscardsRemaining int                    `json:"discards_remaining"`
	HandCounts        map[poker.HandRank]int `json:"hand_counts"`

	Stage   jokers.Stage        `json:"stage"`
	History *jokers.GameHistory `json:"history,omitempty"`
}

// Run is one game in progress: the economy, the jokers in slot order and
// everything they and the vouchers accumulated
type Run struct {
	ID      string           `json:"id"`
	Seed    uint64           `json:"seed"`
	Round   int              `json:"round"`
	Version uint64           `json:"version"`
	Jokers  []jokers.JokerID `json:"jokers"`

	State    *jokers.StateStore  `json:"joker_state"`
	Game     *vouchers.GameState `json:"game"`
	Tags     tags.TagContext     `json:"tags"`
	Progress Progress            `json:"progress"`
}

func NewRun(id string, seed uint64, maxValue float64) *Run {
	game := vouchers.NewGameState()
	return &Run{
		ID:     id,
		Seed:   seed,
		Round:  1,
		Jokers: []jokers.JokerID{},
		State:  jokers.NewStateStore(maxValue),
		Game:   game,
		Progress: Progress{
			HandsRemaining:    game.Plays,
			DiscardsRemaining: game.Discards,
			HandCounts:        make(map[poker.HandRank]int),
			Stage:             jokers.StagePreBlind,
			History:           jokers.NewGameHistory(),
		},
	}
}

// Context builds the GameContext the jokers of this run are played with.
// The RNG is derived from the seed, the round and the version so replays of
// the same save give the same rolls.
func (r *Run) Context(catalog *jokers.Catalog) (*jokers.GameContext, error) {
	owned, err := catalog.NewAll(r.Jokers)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", r.ID, err)
	}
	ctx := jokers.NewGameContext(r.State, jokers.NewRNG(jokers.SeedFrom(r.Seed, r.Round, r.Version)))
	ctx.Jokers = owned
	ctx.Money = r.Game.Money
	ctx.Ante = r.Game.Ante
	ctx.Round = r.Round
	ctx.HandsPlayed = r.Progress.HandsPlayed
	ctx.HandsRemaining = r.Progress.HandsRemaining
	ctx.DiscardsUsed = r.Progress.DiscardsUsed
	ctx.DiscardsRemaining = r.Progress.DiscardsRemaining
	for rank, n := range r.Progress.HandCounts {
		ctx.HandTypeCounts[rank] = n
	}
	if r.Progress.Stage != 0 {
		ctx.Stage = r.Progress.Stage
	}
	if r.Progress.History != nil {
		ctx.History = r.Progress.History.Clone()
	}
	if deck := r.Game.StartingCards; len(deck) > 0 {
		ctx.CardsInDeck = len(deck)
		ctx.StoneCardsInDeck, ctx.SteelCardsInDeck = 0, 0
		for _, c := range deck {
			switch c.Enhancement {
			case poker.Stone:
				ctx.StoneCardsInDeck++
			case poker.Steel:
				ctx.SteelCardsInDeck++
			}
		}
	}
	return ctx, nil
}

// Absorb copies back what the jokers changed during ctx
func (r *Run) Absorb(ctx *jokers.GameContext) {
	r.Game.Money = max(ctx.Money, 0)
	ids := make([]jokers.JokerID, len(ctx.Jokers))
	for i, j := range ctx.Jokers {
		ids[i] = j.ID()
	}
	r.Jokers = ids
	r.Progress.HandsPlayed = ctx.HandsPlayed
	r.Progress.HandsRemaining = ctx.HandsRemaining
	r.Progress.DiscardsUsed = ctx.DiscardsUsed
	r.Progress.DiscardsRemaining = ctx.DiscardsRemaining
	counts := make(map[poker.HandRank]int, len(ctx.HandTypeCounts))
	for rank, n := range ctx.HandTypeCounts {
		counts[rank] = n
	}
	r.Progress.HandCounts = counts
	r.Progress.Stage = ctx.Stage
	if ctx.History != nil {
		r.Progress.History = ctx.History.Clone()
	}
}

// nextRound moves the run past the current blind, beaten or skipped
func (r *Run) nextRound() {
	r.Round++
	r.Progress.HandsPlayed = 0
	r.Progress.DiscardsUsed = 0
	r.Progress.HandsRemaining = r.Game.Plays
	r.Progress.DiscardsRemaining = r.Game.Discards
	r.Progress.Stage = jokers.StagePreBlind
	if r.Progress.History == nil {
		r.Progress.History = jokers.NewGameHistory()
	}
	r.Progress.History.StartRound(r.Round, r.Game.Ante)
}

func (r *Run) toRedis() (*redis_models.RunState, error) {
	var (
		state redis_models.RunState
		err   error
	)
	state.RunID = r.ID
	state.Version = r.Version
	state.Seed = r.Seed
	state.Money = r.Game.Money
	state.Ante = r.Game.Ante
	state.Round = r.Round
	if state.Jokers, err = json.Marshal(r.Jokers); err != nil {
		return nil, fmt.Errorf("encoding jokers: %w", err)
	}
	if state.JokerState, err = json.Marshal(r.State); err != nil {
		return nil, fmt.Errorf("encoding joker state: %w", err)
	}
	if state.VoucherState, err = json.Marshal(r.Game); err != nil {
		return nil, fmt.Errorf("encoding voucher state: %w", err)
	}
	if state.Tags, err = json.Marshal(r.Tags); err != nil {
		return nil, fmt.Errorf("encoding tags: %w", err)
	}
	if state.Progress, err = json.Marshal(r.Progress); err != nil {
		return nil, fmt.Errorf("encoding progress: %w", err)
	}
	return &state, nil
}

func fromRedis(state *redis_models.RunState, maxValue float64) (*Run, error) {
	r := NewRun(state.RunID, state.Seed, maxValue)
	r.Version = state.Version
	r.Round = state.Round
	if err := r.decode(state.Jokers, state.JokerState, state.VoucherState, state.Tags, state.Progress); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Run) toSnapshot() (*postgres.RunSnapshot, error) {
	hot, err := r.toRedis()
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, r.ID)
	}
	return &postgres.RunSnapshot{
		ID:           id,
		Seed:         int64(r.Seed),
		Money:        r.Game.Money,
		Ante:         r.Game.Ante,
		Round:        r.Round,
		Version:      int64(r.Version),
		Jokers:       datatypes.JSON(hot.Jokers),
		JokerState:   datatypes.JSON(hot.JokerState),
		VoucherState: datatypes.JSON(hot.VoucherState),
		Tags:         datatypes.JSON(hot.Tags),
		Progress:     datatypes.JSON(hot.Progress),
	}, nil
}

func fromSnapshot(snap *postgres.RunSnapshot, maxValue float64) (*Run, error) {
	r := NewRun(snap.ID.String(), uint64(snap.Seed), maxValue)
	r.Version = uint64(snap.Version)
	r.Round = snap.Round
	if err := r.decode(json.RawMessage(snap.Jokers), json.RawMessage(snap.JokerState),
		json.RawMessage(snap.VoucherState), json.RawMessage(snap.Tags), json.RawMessage(snap.Progress)); err != nil {
		return nil, err
	}
	return r, nil
}

// decode skips empty documents so a fresh row keeps the defaults
func (r *Run) decode(jokerIDs, jokerState, voucherState, tagContext, progress json.RawMessage) error {
	parts := []struct {
		name string
		raw  json.RawMessage
		out  any
	}{
		{"jokers", jokerIDs, &r.Jokers},
		{"joker state", jokerState, r.State},
		{"voucher state", voucherState, r.Game},
		{"tags", tagContext, &r.Tags},
		{"progress", progress, &r.Progress},
	}
	for _, p := range parts {
		if isEmptyDocument(p.raw) {
			continue
		}
		if err := json.Unmarshal(p.raw, p.out); err != nil {
			return fmt.Errorf("%w: run %s %s: %v", ErrCorruptRun, r.ID, p.name, err)
		}
	}
	if r.Progress.HandCounts == nil {
		r.Progress.HandCounts = make(map[poker.HandRank]int)
	}
	if r.Progress.History == nil {
		r.Progress.History = jokers.NewGameHistory()
	}
	return nil
}

func isEmptyDocument(raw json.RawMessage) bool {
	s := string(raw)
	return s == "" || s == "null" || s == "{}" || s == "[]"
}
