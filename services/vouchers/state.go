package vouchers

import (
	"Comodin/services/poker"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

const (
	maxAnte          = 8
	maxOwnedVouchers = 100
)

// BossRerolls is what Director's Cut and Retcon unlock
type BossRerolls struct {
	Enabled   bool `json:"enabled"`
	Unlimited bool `json:"unlimited"`
	Cost      int  `json:"cost"`
}

// GameState is the part of a run vouchers read and change
type GameState struct {
	Money           int `json:"money"`
	Ante            int `json:"ante"`
	WinAnte         int `json:"win_ante"`
	HandSize        int `json:"hand_size"`
	JokerSlots      int `json:"joker_slots"`
	Discards        int `json:"discards"`
	Plays           int `json:"plays"`
	InterestCap     int `json:"interest_cap"`
	ShopSlots       int `json:"shop_slots"`
	PackOptions     int `json:"pack_options"`
	ConsumableSlots int `json:"consumable_slots"`
	RerollDiscount  int `json:"reroll_discount"`

	AnteScaling        float64 `json:"ante_scaling"`
	BlindScoreFactor   float64 `json:"blind_score_factor"`
	ShopPriceFactor    float64 `json:"shop_price_factor"`
	TarotFrequency     float64 `json:"tarot_frequency"`
	PlanetFrequency    float64 `json:"planet_frequency"`
	EditionFrequency   float64 `json:"edition_frequency"`
	PlayingCardsInShop bool    `json:"playing_cards_in_shop"`
	EnhancedShopCards  bool    `json:"enhanced_shop_cards"`

	BossRerolls   BossRerolls  `json:"boss_rerolls"`
	StartingCards []poker.Card `json:"starting_cards,omitempty"`

	owned map[VoucherID]bool
}

func NewGameState() *GameState {
	return &GameState{
		Money:            100,
		Ante:             1,
		WinAnte:          8,
		HandSize:         8,
		JokerSlots:       5,
		Discards:         3,
		Plays:            4,
		InterestCap:      5,
		ShopSlots:        2,
		PackOptions:      2,
		ConsumableSlots:  2,
		AnteScaling:      1,
		BlindScoreFactor: 1,
		ShopPriceFactor:  1,
		TarotFrequency:   1,
		PlanetFrequency:  1,
		EditionFrequency: 1,
		owned:            make(map[VoucherID]bool),
	}
}

// StateError reports a state that is outside its allowed range
type StateError struct {
	Reason string
}

func (e *StateError) Error() string { return "invalid game state: " + e.Reason }
func (e *StateError) Unwrap() error { return ErrInvalidState }

func (s *GameState) CanAfford(cost int) bool {
	return s.Money >= cost
}

func (s *GameState) Owns(id VoucherID) bool {
	return s.owned[id]
}

func (s *GameState) AddVoucher(id VoucherID) {
	if s.owned == nil {
		s.owned = make(map[VoucherID]bool)
	}
	s.owned[id] = true
}

// Owned is sorted by id
func (s *GameState) Owned() []VoucherID {
	out := make([]VoucherID, 0, len(s.owned))
	for id := range s.owned {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CanPurchase is true when id is not owned yet and every prerequisite is.
// Money is checked separately with CanAfford.
func (s *GameState) CanPurchase(id VoucherID) bool {
	if !id.IsValid() || s.Owns(id) {
		return false
	}
	for _, p := range voucherInfo[id].prereqs {
		if !s.Owns(p) {
			return false
		}
	}
	return true
}

func (s *GameState) SpendMoney(amount int) error {
	if amount < 0 {
		return &StateError{Reason: fmt.Sprintf("negative spend %d", amount)}
	}
	if s.Money < amount {
		return &StateError{Reason: fmt.Sprintf("insufficient funds: have %d, need %d", s.Money, amount)}
	}
	s.Money -= amount
	return nil
}

// ApplyEffect validates e, applies it with clamping and then checks the
// resulting state. On any error the state is left untouched.
func (s *GameState) ApplyEffect(e Effect) error {
	if err := e.Validate(); err != nil {
		return err
	}
	next := s.Clone()
	next.apply(e)
	if err := next.ValidateState(); err != nil {
		return err
	}
	*s = *next
	return nil
}

func (s *GameState) apply(e Effect) {
	switch e.Kind {
	case HandSizeIncrease:
		s.HandSize = min(s.HandSize+e.Amount, maxHandSize)
	case HandSizeDecrease:
		s.HandSize = max(s.HandSize-e.Amount, 1)
	case JokerSlotIncrease:
		s.JokerSlots = min(s.JokerSlots+e.Amount, maxJokerSlots)
	case JokerSlotDecrease:
		s.JokerSlots = max(s.JokerSlots-e.Amount, 1)
	case MoneyGain:
		if s.Money > math.MaxInt-e.Amount {
			s.Money = math.MaxInt
		} else {
			s.Money += e.Amount
		}
	case InterestCapIncrease:
		s.InterestCap += e.Amount
	case AnteScaling:
		s.AnteScaling = e.Factor
	case AnteWinRequirementIncrease:
		s.WinAnte = min(s.WinAnte+e.Amount, maxAnte)
	case AnteWinRequirementDecrease:
		s.WinAnte = max(s.WinAnte-e.Amount, 1)
	case ExtraPackOptions:
		s.PackOptions = min(s.PackOptions+e.Amount, maxPackOptions)
	case BlindScoreReduction:
		s.BlindScoreFactor = min(s.BlindScoreFactor, e.Factor)
	case StartingCards:
		s.StartingCards = append(s.StartingCards, e.Cards...)
	case ShopSlotIncrease:
		s.ShopSlots = min(s.ShopSlots+e.Amount, maxShopSlots)
	case DiscardIncrease:
		s.Discards = min(s.Discards+e.Amount, maxDiscards)
	case DiscardDecrease:
		s.Discards = max(s.Discards-e.Amount, 0)
	case PlayIncrease:
		s.Plays = min(s.Plays+e.Amount, maxPlays)
	case ShopPlayingCardsEnabled:
		s.PlayingCardsInShop = true
	case ShopEnhancementsEnabled:
		s.EnhancedShopCards = true
	case TarotFrequencyMultiplier:
		s.TarotFrequency = max(s.TarotFrequency, e.Factor)
	case PlanetFrequencyMultiplier:
		s.PlanetFrequency = max(s.PlanetFrequency, e.Factor)
	case PolychromeFrequencyMultiplier:
		s.EditionFrequency = max(s.EditionFrequency, e.Factor)
	case ShopDiscountPercent:
		s.ShopPriceFactor = min(s.ShopPriceFactor, 1-e.Factor/100)
	case ShopDiscountMultiplier:
		s.ShopPriceFactor = min(s.ShopPriceFactor, e.Factor)
	case RerollCostReduction:
		s.RerollDiscount = max(s.RerollDiscount, e.Amount)
	case ConsumableSlotIncrease:
		s.ConsumableSlots = min(s.ConsumableSlots+e.Amount, maxConsumables)
	case BossBlindRerollEnabled:
		s.BossRerolls = BossRerolls{Enabled: true, Unlimited: s.BossRerolls.Unlimited || e.Unlimited, Cost: e.Amount}
	case NoEffect:
	}
}

func (s *GameState) ValidateState() error {
	switch {
	case s.Money < 0:
		return &StateError{Reason: fmt.Sprintf("negative money: %d", s.Money)}
	case s.HandSize < 1 || s.HandSize > maxHandSize:
		return &StateError{Reason: fmt.Sprintf("hand size out of range: %d", s.HandSize)}
	case s.JokerSlots < 1 || s.JokerSlots > maxJokerSlots:
		return &StateError{Reason: fmt.Sprintf("joker slots out of range: %d", s.JokerSlots)}
	case s.Ante < 0 || s.Ante > maxAnte:
		return &StateError{Reason: fmt.Sprintf("ante out of range: %d", s.Ante)}
	case len(s.owned) > maxOwnedVouchers:
		return &StateError{Reason: fmt.Sprintf("too many vouchers owned: %d", len(s.owned))}
	case len(s.StartingCards) > maxStartingCards:
		return &StateError{Reason: fmt.Sprintf("too many starting cards: %d", len(s.StartingCards))}
	}
	return nil
}

// Clone is a deep copy
func (s *GameState) Clone() *GameState {
	c := *s
	c.owned = make(map[VoucherID]bool, len(s.owned))
	for id := range s.owned {
		c.owned[id] = true
	}
	c.StartingCards = append([]poker.Card(nil), s.StartingCards...)
	return &c
}

type gameStateJSON struct {
	*gameStateFields
	Owned []VoucherID `json:"owned"`
}

type gameStateFields GameState

// MarshalJSON includes the owned vouchers, sorted
func (s *GameState) MarshalJSON() ([]byte, error) {
	return json.Marshal(gameStateJSON{gameStateFields: (*gameStateFields)(s), Owned: s.Owned()})
}

// UnmarshalJSON restores a saved state and rejects one out of range
func (s *GameState) UnmarshalJSON(data []byte) error {
	next := NewGameState()
	aux := gameStateJSON{gameStateFields: (*gameStateFields)(next)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	next.owned = make(map[VoucherID]bool, len(aux.Owned))
	for _, id := range aux.Owned {
		next.owned[id] = true
	}
	if err := next.ValidateState(); err != nil {
		return err
	}
	*s = *next
	return nil
}
