package tags

import (
	"Comodin/services/jokers"
	"Comodin/services/poker"
	"errors"
	"fmt"
)

var (
	ErrTagNotFound       = errors.New("tag not found")
	ErrInvalidDefinition = errors.New("invalid tag definition")
	ErrDuplicate         = errors.New("tag already registered")
	ErrInvalidContext    = errors.New("invalid tag context")
)

const (
	economyCap       = 40
	investmentPayout = 25
	speedPerBlind    = 5
	speedMinimum     = 5
	freeRerollsPerD6 = 3
	juggleHandBonus  = 1
	orbitalLevels    = 3
	defaultMinAnte   = 1
	lateMinAnte      = 2
)

// Definition is the static description of a tag
type Definition struct {
	ID          TagID      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	EffectType  EffectType `json:"effect_type"`
	Category    Category   `json:"category"`
	BaseWeight  float64    `json:"base_weight"`
	MinAnte     int        `json:"min_ante"`
	Enabled     bool       `json:"enabled"`
}

// IsAvailable reports whether the tag can be offered at this ante
func (d Definition) IsAvailable(ante int) bool {
	return d.Enabled && d.BaseWeight > 0 && ante >= d.MinAnte
}

func (d Definition) EffectiveWeight(ante int) float64 {
	if !d.IsAvailable(ante) {
		return 0
	}
	return d.BaseWeight
}

// ShopModifiers are picked up by the next shop
type ShopModifiers struct {
	ExtraVouchers int           `json:"extra_vouchers"`
	FreeItems     bool          `json:"free_items"`
	FreeRerolls   int           `json:"free_rerolls"`
	JokerEdition  poker.Edition `json:"joker_edition,omitempty"`
	JokerRarity   jokers.Rarity `json:"joker_rarity,omitempty"`
}

// TagContext is the slice of the run a tag may read and change
type TagContext struct {
	Money             int           `json:"money"`
	HandsPlayed       int           `json:"hands_played"`
	RemainingDiscards int           `json:"remaining_discards"`
	BlindsSkipped     int           `json:"blinds_skipped"`
	InvestmentCount   int           `json:"investment_count"`
	NextShop          ShopModifiers `json:"next_shop"`
	HandSizeBonus     int           `json:"hand_size_bonus"`
	DoubleNext        int           `json:"double_next"`
	BossRerolls       int           `json:"boss_rerolls"`
	HandUpgrades      int           `json:"hand_upgrades"`
}

// ExpireRoundBonuses drops what a tag gave for one round only, once that
// round is over
func (ctx *TagContext) ExpireRoundBonuses() {
	ctx.HandSizeBonus = 0
}

// PayInvestments pays every pending Investment tag, to be called once the
// boss blind is beaten
func (ctx *TagContext) PayInvestments() int {
	paid := ctx.InvestmentCount * investmentPayout
	ctx.Money += paid
	ctx.InvestmentCount = 0
	return paid
}

type TagResult struct {
	Money   int    `json:"money"`
	Pack    string `json:"pack,omitempty"`
	Message string `json:"message"`
	// Copies is how many extra times a Double made the tag apply
	Copies int `json:"copies,omitempty"`
}

type SkipTag interface {
	ID() TagID
	Definition() Definition
	Apply(ctx *TagContext) (TagResult, error)
}

// Factory builds a fresh tag instance
type Factory func() SkipTag

type effectFunc func(ctx *TagContext) TagResult

// tag is the data-driven SkipTag every built-in uses
type tag struct {
	def    Definition
	effect effectFunc
}

func (t tag) ID() TagID              { return t.def.ID }
func (t tag) Definition() Definition { return t.def }

func (t tag) Apply(ctx *TagContext) (TagResult, error) {
	if ctx == nil {
		return TagResult{}, fmt.Errorf("%w: nil context for %s", ErrInvalidContext, t.def.ID)
	}
	if ctx.InvestmentCount < 0 || ctx.BlindsSkipped < 0 || ctx.HandsPlayed < 0 {
		return TagResult{}, fmt.Errorf("%w: negative counters", ErrInvalidContext)
	}
	res := t.effect(ctx)
	ctx.Money += res.Money
	return res, nil
}

func economy(ctx *TagContext) TagResult {
	if ctx.Money <= 0 {
		return TagResult{Message: "Economy: no money to double"}
	}
	reward := min(ctx.Money, economyCap)
	return TagResult{Money: reward, Message: fmt.Sprintf("Economy: +$%d", reward)}
}

func investment(ctx *TagContext) TagResult {
	ctx.InvestmentCount++
	return TagResult{Message: fmt.Sprintf("Investment: $%d after the next boss blind", ctx.InvestmentCount*investmentPayout)}
}

func garbage(ctx *TagContext) TagResult {
	reward := max(ctx.RemainingDiscards, 0)
	return TagResult{Money: reward, Message: fmt.Sprintf("Garbage: +$%d from unused discards", reward)}
}

func speed(ctx *TagContext) TagResult {
	reward := max(ctx.BlindsSkipped*speedPerBlind, speedMinimum)
	return TagResult{Money: reward, Message: fmt.Sprintf("Speed: +$%d from %d skipped blinds", reward, ctx.BlindsSkipped)}
}

func handy(ctx *TagContext) TagResult {
	return TagResult{Money: ctx.HandsPlayed, Message: fmt.Sprintf("Handy: +$%d from hands played", ctx.HandsPlayed)}
}

func pack(name string) effectFunc {
	return func(*TagContext) TagResult {
		return TagResult{Pack: name, Message: "Free " + name}
	}
}

func nextShop(message string, mod func(*ShopModifiers)) effectFunc {
	return func(ctx *TagContext) TagResult {
		mod(&ctx.NextShop)
		return TagResult{Message: message}
	}
}

type builtin struct {
	def    Definition
	effect effectFunc
}

func newDef(id TagID, name, description string, effectType EffectType, weight float64) Definition {
	return Definition{
		ID:          id,
		Name:        name,
		Description: description,
		EffectType:  effectType,
		Category:    id.Category(),
		BaseWeight:  weight,
		MinAnte:     defaultMinAnte,
		Enabled:     true,
	}
}

func late(d Definition) Definition {
	d.MinAnte = lateMinAnte
	return d
}

func builtins() []builtin {
	return []builtin{
		{newDef(Charm, "Charm", "Gives a free Mega Arcana Pack", ImmediateReward, 1.0), pack("Mega Arcana Pack")},
		{late(newDef(Ethereal, "Ethereal", "Gives a free Spectral Pack", ImmediateReward, 0.8)), pack("Spectral Pack")},
		{late(newDef(Buffoon, "Buffoon", "Gives a free Buffoon Pack", ImmediateReward, 1.0)), pack("Mega Buffoon Pack")},
		{late(newDef(Standard, "Standard", "Gives a free Standard Pack", ImmediateReward, 1.2)), pack("Mega Standard Pack")},
		{late(newDef(Meteor, "Meteor", "Gives a free Celestial Pack", ImmediateReward, 0.9)), pack("Mega Celestial Pack")},
		{newDef(Rare, "Rare", "Shop has a free Rare Joker", NextShopModifier, 0.6),
			nextShop("Next shop has a free Rare Joker", func(m *ShopModifiers) { m.JokerRarity = jokers.Rare })},
		{newDef(Uncommon, "Uncommon", "Shop has a free Uncommon Joker", NextShopModifier, 0.9),
			nextShop("Next shop has a free Uncommon Joker", func(m *ShopModifiers) { m.JokerRarity = jokers.Uncommon })},
		{late(newDef(TopUp, "Top Up", "Creates up to 2 Common Jokers if you have space", ImmediateReward, 0.7)), pack("Common Jokers")},

		{newDef(Economy, "Economy", "Doubles your money (max of $40)", ImmediateReward, 1.1), economy},
		{newDef(Investment, "Investment", "Gain $25 after defeating the next Boss Blind", SpecialMechanic, 0.8), investment},
		{late(newDef(Garbage, "Garbage", "Gives $1 per unused discard this run", ImmediateReward, 1.0)), garbage},
		{newDef(Speed, "Speed", "Gives $5 per blind skipped this run (min $5)", ImmediateReward, 1.0), speed},
		{late(newDef(Handy, "Handy", "Gives $1 per hand played this run", ImmediateReward, 1.1)), handy},

		{newDef(Voucher, "Voucher", "Adds a Voucher to the next shop", NextShopModifier, 0.9),
			nextShop("Next shop has an extra voucher", func(m *ShopModifiers) { m.ExtraVouchers++ })},
		{newDef(Coupon, "Coupon", "Initial jokers, consumables and packs in the next shop are free", NextShopModifier, 1.2),
			nextShop("Initial items in the next shop are free", func(m *ShopModifiers) { m.FreeItems = true })},
		{newDef(D6, "D6", "Rerolls in the next shop start at $0", NextShopModifier, 1.0),
			nextShop("Free rerolls in the next shop", func(m *ShopModifiers) { m.FreeRerolls += freeRerollsPerD6 })},
		{newDef(Foil, "Foil", "Next base edition shop Joker is free and becomes Foil", NextShopModifier, 0.8),
			nextShop("Next shop joker becomes Foil", func(m *ShopModifiers) { m.JokerEdition = poker.Foil })},
		{newDef(Holographic, "Holographic", "Next base edition shop Joker is free and becomes Holographic", NextShopModifier, 0.6),
			nextShop("Next shop joker becomes Holographic", func(m *ShopModifiers) { m.JokerEdition = poker.Holographic })},
		{newDef(Polychrome, "Polychrome", "Next base edition shop Joker is free and becomes Polychrome", NextShopModifier, 0.5),
			nextShop("Next shop joker becomes Polychrome", func(m *ShopModifiers) { m.JokerEdition = poker.Polychrome })},
		{late(newDef(Negative, "Negative", "Next base edition shop Joker is free and becomes Negative", NextShopModifier, 0.4)),
			nextShop("Next shop joker becomes Negative", func(m *ShopModifiers) { m.JokerEdition = poker.Negative })},

		{newDef(Double, "Double", "Gives a copy of the next selected Tag", SpecialMechanic, 0.7), func(ctx *TagContext) TagResult {
			ctx.DoubleNext++
			return TagResult{Message: "The next tag is doubled"}
		}},
		{newDef(Boss, "Boss", "Rerolls the Boss Blind", GameStateModifier, 0.9), func(ctx *TagContext) TagResult {
			ctx.BossRerolls++
			return TagResult{Message: "Boss blind rerolled"}
		}},
		{late(newDef(Orbital, "Orbital", "Upgrades the most played poker hand by 3 levels", GameStateModifier, 1.0)), func(ctx *TagContext) TagResult {
			ctx.HandUpgrades += orbitalLevels
			return TagResult{Message: "Most played hand upgraded"}
		}},
		{newDef(Juggle, "Juggle", "+1 hand size next round", GameStateModifier, 1.1), func(ctx *TagContext) TagResult {
			ctx.HandSizeBonus += juggleHandBonus
			return TagResult{Message: "+1 hand size next round"}
		}},
	}
}
