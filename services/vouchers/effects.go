package vouchers

import (
	"Comodin/services/poker"
	"errors"
	"fmt"
	"math"
)

var (
	ErrVoucherNotFound   = errors.New("voucher not found")
	ErrInvalidEffect     = errors.New("invalid voucher effect")
	ErrInvalidState      = errors.New("invalid game state")
	ErrInvalidDefinition = errors.New("invalid voucher definition")
	ErrDuplicate         = errors.New("voucher already registered")
	ErrNotPurchasable    = errors.New("voucher cannot be purchased")
)

const (
	maxHandSize        = 50
	maxJokerSlots      = 20
	maxMoneyGain       = 10000
	maxScaling         = 10.0
	maxPackOptions     = 10
	maxStartingCards   = 52
	maxShopSlots       = 20
	maxDiscards        = 50
	maxPlays           = 50
	maxInterestCap     = 10
	maxAnteShift       = 8
	maxRerollReduction = 10
	maxConsumables     = 10
	maxRerollCost      = 100
	maxDiscountPercent = 100.0
)

type EffectKind string

const (
	HandSizeIncrease              EffectKind = "hand_size_increase"
	HandSizeDecrease              EffectKind = "hand_size_decrease"
	JokerSlotIncrease             EffectKind = "joker_slot_increase"
	JokerSlotDecrease             EffectKind = "joker_slot_decrease"
	MoneyGain                     EffectKind = "money_gain"
	InterestCapIncrease           EffectKind = "interest_cap_increase"
	AnteScaling                   EffectKind = "ante_scaling"
	AnteWinRequirementIncrease    EffectKind = "ante_win_requirement_increase"
	AnteWinRequirementDecrease    EffectKind = "ante_win_requirement_decrease"
	ExtraPackOptions              EffectKind = "extra_pack_options"
	BlindScoreReduction           EffectKind = "blind_score_reduction"
	StartingCards                 EffectKind = "starting_cards"
	ShopSlotIncrease              EffectKind = "shop_slot_increase"
	DiscardIncrease               EffectKind = "discard_increase"
	DiscardDecrease               EffectKind = "discard_decrease"
	PlayIncrease                  EffectKind = "play_increase"
	ShopPlayingCardsEnabled       EffectKind = "shop_playing_cards_enabled"
	ShopEnhancementsEnabled       EffectKind = "shop_enhancements_enabled"
	TarotFrequencyMultiplier      EffectKind = "tarot_frequency_multiplier"
	PlanetFrequencyMultiplier     EffectKind = "planet_frequency_multiplier"
	PolychromeFrequencyMultiplier EffectKind = "polychrome_frequency_multiplier"
	ShopDiscountPercent           EffectKind = "shop_discount_percent"
	ShopDiscountMultiplier        EffectKind = "shop_discount_multiplier"
	RerollCostReduction           EffectKind = "reroll_cost_reduction"
	ConsumableSlotIncrease        EffectKind = "consumable_slot_increase"
	BossBlindRerollEnabled        EffectKind = "boss_blind_reroll_enabled"
	NoEffect                      EffectKind = "no_effect"
)

// Effect is one permanent change a voucher makes. Which payload field is
// read depends on Kind: counts use Amount, multipliers and percentages use
// Factor, StartingCards uses Cards and boss rerolls use Unlimited plus
// Amount as the cost per roll.
type Effect struct {
	Kind      EffectKind   `json:"kind"`
	Amount    int          `json:"amount,omitempty"`
	Factor    float64      `json:"factor,omitempty"`
	Cards     []poker.Card `json:"cards,omitempty"`
	Unlimited bool         `json:"unlimited,omitempty"`
}

func Count(kind EffectKind, amount int) Effect      { return Effect{Kind: kind, Amount: amount} }
func Factor(kind EffectKind, factor float64) Effect { return Effect{Kind: kind, Factor: factor} }
func Flag(kind EffectKind) Effect                   { return Effect{Kind: kind} }

func BossReroll(unlimited bool, cost int) Effect {
	return Effect{Kind: BossBlindRerollEnabled, Unlimited: unlimited, Amount: cost}
}

func Cards(cards ...poker.Card) Effect {
	return Effect{Kind: StartingCards, Cards: cards}
}

// ValidationError reports an effect whose payload is out of bounds
type ValidationError struct {
	Kind  EffectKind
	Value float64
	Bound string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %g (%s)", e.Kind, e.Value, e.Bound)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidEffect }

func (e Effect) countIn(limit int) error {
	if e.Amount < 0 || e.Amount > limit {
		return &ValidationError{Kind: e.Kind, Value: float64(e.Amount), Bound: fmt.Sprintf("0..%d", limit)}
	}
	return nil
}

// factorIn accepts finite values in (0, limit]
func (e Effect) factorIn(limit float64) error {
	if math.IsNaN(e.Factor) || math.IsInf(e.Factor, 0) || e.Factor <= 0 || e.Factor > limit {
		return &ValidationError{Kind: e.Kind, Value: e.Factor, Bound: fmt.Sprintf("finite, >0 and <=%g", limit)}
	}
	return nil
}

// Validate checks the payload bounds for the effect kind
func (e Effect) Validate() error {
	switch e.Kind {
	case HandSizeIncrease, HandSizeDecrease:
		return e.countIn(maxHandSize)
	case JokerSlotIncrease, JokerSlotDecrease:
		return e.countIn(maxJokerSlots)
	case MoneyGain:
		return e.countIn(maxMoneyGain)
	case InterestCapIncrease:
		return e.countIn(maxInterestCap)
	case AnteScaling, TarotFrequencyMultiplier, PlanetFrequencyMultiplier, PolychromeFrequencyMultiplier:
		return e.factorIn(maxScaling)
	case AnteWinRequirementIncrease, AnteWinRequirementDecrease:
		return e.countIn(maxAnteShift)
	case ExtraPackOptions:
		return e.countIn(maxPackOptions)
	case BlindScoreReduction, ShopDiscountMultiplier:
		return e.factorIn(1)
	case StartingCards:
		if len(e.Cards) > maxStartingCards {
			return &ValidationError{Kind: e.Kind, Value: float64(len(e.Cards)), Bound: fmt.Sprintf("at most %d cards", maxStartingCards)}
		}
		return nil
	case ShopSlotIncrease:
		return e.countIn(maxShopSlots)
	case DiscardIncrease, DiscardDecrease:
		return e.countIn(maxDiscards)
	case PlayIncrease:
		return e.countIn(maxPlays)
	case ShopDiscountPercent:
		return e.factorIn(maxDiscountPercent)
	case RerollCostReduction:
		return e.countIn(maxRerollReduction)
	case ConsumableSlotIncrease:
		return e.countIn(maxConsumables)
	case BossBlindRerollEnabled:
		return e.countIn(maxRerollCost)
	case ShopPlayingCardsEnabled, ShopEnhancementsEnabled, NoEffect:
		return nil
	}
	return &ValidationError{Kind: e.Kind, Bound: "unknown effect kind"}
}

// IsPermanent is false only for one-off money
func (e Effect) IsPermanent() bool {
	return e.Kind != MoneyGain
}

func (e Effect) AffectsShop() bool {
	switch e.Kind {
	case ExtraPackOptions, ShopSlotIncrease, JokerSlotIncrease, JokerSlotDecrease,
		ShopPlayingCardsEnabled, ShopEnhancementsEnabled, TarotFrequencyMultiplier,
		PlanetFrequencyMultiplier, PolychromeFrequencyMultiplier, ShopDiscountPercent,
		ShopDiscountMultiplier, RerollCostReduction, ConsumableSlotIncrease, BossBlindRerollEnabled:
		return true
	}
	return false
}

func (e Effect) AffectsMoney() bool {
	return e.Kind == MoneyGain
}

func (e Effect) AffectsHand() bool {
	switch e.Kind {
	case HandSizeIncrease, DiscardIncrease, PlayIncrease:
		return true
	}
	return false
}
