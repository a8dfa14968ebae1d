package jokers

import (
	"Comodin/services/poker"
)

type Rarity string

const (
	Common    Rarity = "common"
	Uncommon  Rarity = "uncommon"
	Rare      Rarity = "rare"
	Legendary Rarity = "legendary"
)

// Shop appearance weights per rarity
var RarityWeights = map[Rarity]int{
	Common:    70,
	Uncommon:  25,
	Rare:      5,
	Legendary: 0,
}

// Definition is the static identity of a species
type Definition struct {
	ID          JokerID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Rarity      Rarity  `json:"rarity"`
	Cost        int     `json:"cost"`
}

// Joker is the contract every species implements. Jokers are stateless
// configuration: counters that matter for effects live in ctx.State.
type Joker interface {
	ID() JokerID
	Name() string
	Description() string
	Rarity() Rarity
	Cost() int

	OnCreated(ctx *GameContext) JokerEffect
	OnActivated(ctx *GameContext) JokerEffect
	OnDeactivated(ctx *GameContext) JokerEffect
	OnCleanup(ctx *GameContext) JokerEffect
	OnRoundStart(ctx *GameContext) JokerEffect

	OnHandPlayed(ctx *GameContext, hand poker.Hand) JokerEffect
	OnCardScored(ctx *GameContext, card poker.Card) JokerEffect
	OnDiscard(ctx *GameContext, cards []poker.Card) JokerEffect
	OnBlindStart(ctx *GameContext) JokerEffect
	OnShopOpen(ctx *GameContext) JokerEffect
	OnRoundEnd(ctx *GameContext) JokerEffect

	ModifyChips(ctx *GameContext, base int) int
	ModifyMult(ctx *GameContext, base int) int
	ModifyHandSize(ctx *GameContext, base int) int
	ModifyDiscards(ctx *GameContext, base int) int
}

// BaseJoker gives identity from a Definition and no-op hooks. Species embed
// it and override what they need.
type BaseJoker struct {
	Def Definition
}

func (b BaseJoker) ID() JokerID            { return b.Def.ID }
func (b BaseJoker) Name() string           { return b.Def.Name }
func (b BaseJoker) Description() string    { return b.Def.Description }
func (b BaseJoker) Rarity() Rarity         { return b.Def.Rarity }
func (b BaseJoker) Cost() int              { return b.Def.Cost }
func (b BaseJoker) Definition() Definition { return b.Def }

func (BaseJoker) OnCreated(*GameContext) JokerEffect     { return NoEffect() }
func (BaseJoker) OnActivated(*GameContext) JokerEffect   { return NoEffect() }
func (BaseJoker) OnDeactivated(*GameContext) JokerEffect { return NoEffect() }
func (BaseJoker) OnCleanup(*GameContext) JokerEffect     { return NoEffect() }
func (BaseJoker) OnRoundStart(*GameContext) JokerEffect  { return NoEffect() }

func (BaseJoker) OnHandPlayed(*GameContext, poker.Hand) JokerEffect { return NoEffect() }
func (BaseJoker) OnCardScored(*GameContext, poker.Card) JokerEffect { return NoEffect() }
func (BaseJoker) OnDiscard(*GameContext, []poker.Card) JokerEffect  { return NoEffect() }
func (BaseJoker) OnBlindStart(*GameContext) JokerEffect             { return NoEffect() }
func (BaseJoker) OnShopOpen(*GameContext) JokerEffect               { return NoEffect() }
func (BaseJoker) OnRoundEnd(*GameContext) JokerEffect               { return NoEffect() }

func (BaseJoker) ModifyChips(_ *GameContext, base int) int    { return base }
func (BaseJoker) ModifyMult(_ *GameContext, base int) int     { return base }
func (BaseJoker) ModifyHandSize(_ *GameContext, base int) int { return base }
func (BaseJoker) ModifyDiscards(_ *GameContext, base int) int { return base }

// Describer is implemented by jokers whose text depends on their state
type Describer interface {
	DynamicDescription(ctx *GameContext) string
}
