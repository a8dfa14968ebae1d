package vouchers

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
)

// Definition is the static description of a voucher
type Definition struct {
	ID            VoucherID    `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Tier          Tier         `json:"tier"`
	Prerequisites []VoucherID  `json:"prerequisites"`
	Cost          int          `json:"cost"`
	Effects       []Effect     `json:"effects"`
	Stacking      StackingRule `json:"stacking"`
}

type Voucher interface {
	ID() VoucherID
	Tier() Tier
	// Prerequisite is the voucher this one upgrades, if any
	Prerequisite() (VoucherID, bool)
	Effects() []Effect
	Name() string
	Description() string
	Cost() int
	Stacking() StackingRule
	CanPurchase(state *GameState) bool
	Apply(state *GameState) error
}

type Factory func() Voucher

// voucher is the data-driven Voucher every built-in uses
type voucher struct {
	def Definition
}

func (v voucher) ID() VoucherID          { return v.def.ID }
func (v voucher) Tier() Tier             { return v.def.Tier }
func (v voucher) Name() string           { return v.def.Name }
func (v voucher) Description() string    { return v.def.Description }
func (v voucher) Cost() int              { return v.def.Cost }
func (v voucher) Stacking() StackingRule { return v.def.Stacking }

func (v voucher) Prerequisite() (VoucherID, bool) {
	if len(v.def.Prerequisites) == 0 {
		return Unknown, false
	}
	return v.def.Prerequisites[0], true
}

func (v voucher) Effects() []Effect {
	return append([]Effect(nil), v.def.Effects...)
}

func (v voucher) CanPurchase(state *GameState) bool {
	if !state.CanAfford(v.def.Cost) || state.Owns(v.def.ID) {
		return false
	}
	for _, p := range v.def.Prerequisites {
		if !state.Owns(p) {
			return false
		}
	}
	return true
}

// Apply applies every effect or none of them
func (v voucher) Apply(state *GameState) error {
	next := state.Clone()
	for _, e := range v.def.Effects {
		if err := next.ApplyEffect(e); err != nil {
			return fmt.Errorf("%s: %w", v.def.ID, err)
		}
	}
	*state = *next
	return nil
}

func newDef(id VoucherID, description string, effects ...Effect) Definition {
	return Definition{
		ID:            id,
		Name:          id.Name(),
		Description:   description,
		Tier:          id.Tier(),
		Prerequisites: id.Prerequisites(),
		Cost:          id.BaseCost(),
		Effects:       effects,
		Stacking:      StackingRule{Kind: NoStacking},
	}
}

const bossRerollCost = 10

func builtins() []Definition {
	return []Definition{
		newDef(Overstock, "+1 card slot in the shop", Count(ShopSlotIncrease, 1)),
		newDef(OverstockPlus, "+1 more card slot in the shop", Count(ShopSlotIncrease, 1)),
		newDef(ClearanceSale, "All cards and packs in the shop are 25% off", Factor(ShopDiscountPercent, 25)),
		newDef(Hone, "Foil, Holographic and Polychrome cards appear 2X more often", Factor(PolychromeFrequencyMultiplier, 2)),
		newDef(RerollSurplus, "Rerolls cost $1 less", Count(RerollCostReduction, 1)),
		newDef(CrystalBall, "+1 consumable slot", Count(ConsumableSlotIncrease, 1)),
		newDef(Liquidation, "All cards and packs in the shop are 50% off", Factor(ShopDiscountPercent, 50)),
		newDef(RerollGlut, "Rerolls cost $2 less", Count(RerollCostReduction, 2)),
		newDef(Grabber, "+1 hand size permanently", Count(HandSizeIncrease, 1)),
		newDef(NachoTong, "+1 hand size permanently", Count(HandSizeIncrease, 1)),
		newDef(Wasteful, "+1 hand size and +1 discard each round", Count(HandSizeIncrease, 1), Count(DiscardIncrease, 1)),
		newDef(SeedMoney, "+$1 interest cap", Count(InterestCapIncrease, 1)),
		newDef(MoneyTree, "+$2 interest cap", Count(InterestCapIncrease, 2)),
		newDef(Hieroglyph, "-1 Ante, -1 hand size", Count(AnteWinRequirementDecrease, 1), Count(HandSizeDecrease, 1)),
		newDef(Petroglyph, "-1 Ante, -1 discard each round", Count(AnteWinRequirementDecrease, 1), Count(DiscardDecrease, 1)),
		newDef(Antimatter, "+1 Joker slot", Count(JokerSlotIncrease, 1)),
		newDef(MagicTrick, "Playing cards can be purchased from the shop", Flag(ShopPlayingCardsEnabled)),
		newDef(Illusion, "Playing cards in the shop may have enhancements", Flag(ShopEnhancementsEnabled)),
		newDef(Blank, "Does nothing?", Flag(NoEffect)),
		newDef(PaintBrush, "+1 hand size, -1 Joker slot", Count(HandSizeIncrease, 1), Count(JokerSlotDecrease, 1)),
		newDef(TarotMerchant, "Tarot cards appear 2X more often", Factor(TarotFrequencyMultiplier, 2)),
		newDef(TarotTycoon, "Tarot cards appear 4X more often", Factor(TarotFrequencyMultiplier, 4)),
		newDef(GlowUp, "Foil, Holographic and Polychrome cards appear 4X more often", Factor(PolychromeFrequencyMultiplier, 4)),
		newDef(Recyclomancy, "+1 discard each round", Count(DiscardIncrease, 1)),
		newDef(PlanetMerchant, "Planet cards appear 2X more often", Factor(PlanetFrequencyMultiplier, 2)),
		newDef(PlanetTycoon, "Planet cards appear 4X more often", Factor(PlanetFrequencyMultiplier, 4)),
		newDef(DirectorsCut, "Reroll the Boss Blind once per Ante, $10 per roll", BossReroll(false, bossRerollCost)),
		newDef(Retcon, "Reroll the Boss Blind unlimited times, $10 per roll", BossReroll(true, bossRerollCost)),
		newDef(Palette, "+1 hand size", Count(HandSizeIncrease, 1)),
	}
}

// Registry holds every voucher definition and its factory
type Registry struct {
	once      sync.Once
	mu        sync.RWMutex
	defs      map[VoucherID]Definition
	factories map[VoucherID]Factory
}

func NewEmptyRegistry() *Registry {
	return &Registry{
		defs:      make(map[VoucherID]Definition),
		factories: make(map[VoucherID]Factory),
	}
}

// NewRegistry holds the built-in vouchers
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	r.once.Do(func() {
		for _, def := range builtins() {
			if err := r.Register(def, func() Voucher { return voucher{def: def} }); err != nil {
				panic(err)
			}
		}
	})
	return r
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

func (r *Registry) Register(def Definition, factory Factory) error {
	if !def.ID.IsValid() {
		return fmt.Errorf("%w: unknown id %d", ErrInvalidDefinition, int(def.ID))
	}
	if strings.TrimSpace(def.Name) == "" || strings.TrimSpace(def.Description) == "" {
		return fmt.Errorf("%w: %s needs a name and a description", ErrInvalidDefinition, def.ID)
	}
	if def.Cost < 0 {
		return fmt.Errorf("%w: %s has a negative cost", ErrInvalidDefinition, def.ID)
	}
	for _, e := range def.Effects {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, def.ID, err)
		}
	}
	if factory == nil {
		return fmt.Errorf("%w: %s has no factory", ErrInvalidDefinition, def.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[def.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, def.ID)
	}
	r.defs[def.ID] = def
	r.factories[def.ID] = factory
	return nil
}

func (r *Registry) Definition(id VoucherID) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrVoucherNotFound, id)
	}
	return def, nil
}

func (r *Registry) Create(id VoucherID) (Voucher, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVoucherNotFound, id)
	}
	return factory(), nil
}

func (r *Registry) IsRegistered(id VoucherID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[id]
	return ok
}

// Definitions is sorted by id
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Purchasable lists the vouchers state could buy right now, money included
func (r *Registry) Purchasable(state *GameState) []Definition {
	var out []Definition
	for _, d := range r.Definitions() {
		if state.CanPurchase(d.ID) && state.CanAfford(d.Cost) {
			out = append(out, d)
		}
	}
	return out
}

// Purchase checks eligibility, charges the cost and applies the effects.
// Either all of it happens or state is left as it was.
func (r *Registry) Purchase(state *GameState, id VoucherID) error {
	v, err := r.Create(id)
	if err != nil {
		return err
	}
	return r.buy(state, v, v.Cost())
}

// PurchaseAt is Purchase with a price other than the listed cost, as
// charged by a discounted shop
func (r *Registry) PurchaseAt(state *GameState, id VoucherID, price int) error {
	v, err := r.Create(id)
	if err != nil {
		return err
	}
	return r.buy(state, v, price)
}

func (r *Registry) buy(state *GameState, v Voucher, price int) error {
	id := v.ID()
	if state.Owns(id) {
		return fmt.Errorf("%w: %s already owned", ErrNotPurchasable, id)
	}
	if !state.CanPurchase(id) {
		return fmt.Errorf("%w: %s is missing a prerequisite", ErrNotPurchasable, id)
	}

	next := state.Clone()
	if err := next.SpendMoney(price); err != nil {
		return err
	}
	if err := v.Apply(next); err != nil {
		return err
	}
	next.AddVoucher(id)
	if err := next.ValidateState(); err != nil {
		return err
	}
	*state = *next
	log.Printf("[VOUCHERS] Bought %s for $%d, $%d left", v.Name(), price, state.Money)
	return nil
}
