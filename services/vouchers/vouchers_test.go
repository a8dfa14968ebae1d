package vouchers

import (
	"Comodin/services/poker"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherIDs(t *testing.T) {
	all := All()
	assert.Len(t, all, 29)
	for _, id := range all {
		assert.True(t, id.IsValid(), id.String())
		assert.Equal(t, 10, id.BaseCost())
		assert.NotEqual(t, "Unnamed Voucher", id.Name())
	}

	assert.Equal(t, "Director's Cut", DirectorsCut.Name())
	assert.Equal(t, []VoucherID{Blank}, Antimatter.Prerequisites())
	assert.Equal(t, Upgraded, Retcon.Tier())
	assert.Equal(t, Base, DirectorsCut.Tier())
	assert.False(t, Grabber.HasPrerequisites())

	id, err := ParseVoucherID(" Glow_Up ")
	require.NoError(t, err)
	assert.Equal(t, GlowUp, id)
	_, err = ParseVoucherID("coupon")
	assert.True(t, errors.Is(err, ErrVoucherNotFound))
}

func TestStackingRule(t *testing.T) {
	n, limited := StackingRule{Kind: NoStacking}.MaxStack()
	assert.True(t, limited)
	assert.Equal(t, 1, n)

	n, limited = StackingRule{Kind: LimitedStacking, Limit: 3}.MaxStack()
	assert.True(t, limited)
	assert.Equal(t, 3, n)

	_, limited = StackingRule{Kind: UnlimitedStacking}.MaxStack()
	assert.False(t, limited)
	assert.False(t, StackingRule{Kind: NoStacking}.AllowsStacking())

	next, ok := Base.Upgrade()
	assert.True(t, ok)
	assert.Equal(t, Upgraded, next)
	_, ok = Upgraded.Upgrade()
	assert.False(t, ok)
}

func TestEffectValidate(t *testing.T) {
	tests := []struct {
		name   string
		effect Effect
		ok     bool
	}{
		{"hand size at the bound", Count(HandSizeIncrease, 50), true},
		{"hand size over", Count(HandSizeIncrease, 51), false},
		{"negative amount", Count(DiscardIncrease, -1), false},
		{"joker slots over", Count(JokerSlotIncrease, 21), false},
		{"money over", Count(MoneyGain, 10001), false},
		{"scaling zero", Factor(AnteScaling, 0), false},
		{"scaling nan", Factor(AnteScaling, math.NaN()), false},
		{"scaling inf", Factor(TarotFrequencyMultiplier, math.Inf(1)), false},
		{"scaling at the bound", Factor(AnteScaling, 10), true},
		{"blind reduction over one", Factor(BlindScoreReduction, 1.5), false},
		{"blind reduction half", Factor(BlindScoreReduction, 0.5), true},
		{"pack options over", Count(ExtraPackOptions, 11), false},
		{"shop slots over", Count(ShopSlotIncrease, 21), false},
		{"plays over", Count(PlayIncrease, 51), false},
		{"too many cards", Cards(make([]poker.Card, 53)...), false},
		{"reroll cost over", BossReroll(true, 101), false},
		{"flag", Flag(ShopEnhancementsEnabled), true},
		{"unknown kind", Effect{Kind: "teleport"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.effect.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
			assert.True(t, errors.Is(err, ErrInvalidEffect))
		})
	}
}

func TestEffectClassification(t *testing.T) {
	assert.False(t, Count(MoneyGain, 5).IsPermanent())
	assert.True(t, Count(MoneyGain, 5).AffectsMoney())
	assert.True(t, Count(HandSizeIncrease, 1).AffectsHand())
	assert.False(t, Count(HandSizeDecrease, 1).AffectsHand())
	assert.True(t, Count(RerollCostReduction, 1).AffectsShop())
	assert.False(t, Flag(NoEffect).AffectsShop())
}

func TestApplyEffect(t *testing.T) {
	t.Run("clamps", func(t *testing.T) {
		s := NewGameState()
		require.NoError(t, s.ApplyEffect(Count(HandSizeIncrease, 50)))
		assert.Equal(t, 50, s.HandSize)
		require.NoError(t, s.ApplyEffect(Count(JokerSlotDecrease, 20)))
		assert.Equal(t, 1, s.JokerSlots)
		require.NoError(t, s.ApplyEffect(Count(HandSizeDecrease, 50)))
		assert.Equal(t, 1, s.HandSize)
	})

	t.Run("money saturates", func(t *testing.T) {
		s := NewGameState()
		s.Money = math.MaxInt - 3
		require.NoError(t, s.ApplyEffect(Count(MoneyGain, 10)))
		assert.Equal(t, math.MaxInt, s.Money)
	})

	t.Run("rejected effects change nothing", func(t *testing.T) {
		s := NewGameState()
		err := s.ApplyEffect(Count(HandSizeIncrease, 51))
		assert.True(t, errors.Is(err, ErrInvalidEffect))
		assert.Equal(t, NewGameState(), s)
	})

	t.Run("invalid resulting state changes nothing", func(t *testing.T) {
		s := NewGameState()
		require.NoError(t, s.ApplyEffect(Cards(make([]poker.Card, 40)...)))
		err := s.ApplyEffect(Cards(make([]poker.Card, 20)...))
		var serr *StateError
		assert.True(t, errors.As(err, &serr))
		assert.Len(t, s.StartingCards, 40)
	})

	t.Run("frequencies keep the best", func(t *testing.T) {
		s := NewGameState()
		require.NoError(t, s.ApplyEffect(Factor(TarotFrequencyMultiplier, 4)))
		require.NoError(t, s.ApplyEffect(Factor(TarotFrequencyMultiplier, 2)))
		assert.Equal(t, 4.0, s.TarotFrequency)
		require.NoError(t, s.ApplyEffect(Factor(ShopDiscountPercent, 25)))
		assert.InDelta(t, 0.75, s.ShopPriceFactor, 1e-9)
	})
}

func TestSpendMoney(t *testing.T) {
	s := NewGameState()
	require.NoError(t, s.SpendMoney(40))
	assert.Equal(t, 60, s.Money)
	assert.True(t, s.CanAfford(60))
	assert.False(t, s.CanAfford(61))

	err := s.SpendMoney(61)
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.Equal(t, 60, s.Money)
}

func TestCanPurchase(t *testing.T) {
	s := NewGameState()
	assert.True(t, s.CanPurchase(Grabber))
	assert.False(t, s.CanPurchase(NachoTong), "needs Grabber")

	s.AddVoucher(Grabber)
	assert.False(t, s.CanPurchase(Grabber), "already owned")
	assert.True(t, s.CanPurchase(NachoTong))
	assert.False(t, s.CanPurchase(Unknown))
}

func TestRegistryContents(t *testing.T) {
	r := NewRegistry()
	assert.Len(t, r.Definitions(), 29)

	for _, id := range All() {
		v, err := r.Create(id)
		require.NoError(t, err)
		assert.Equal(t, id, v.ID())
		assert.NotEmpty(t, v.Effects(), id.String())
		assert.Equal(t, 10, v.Cost())
		assert.False(t, v.Stacking().AllowsStacking())

		prereq, ok := v.Prerequisite()
		assert.Equal(t, id.HasPrerequisites(), ok)
		if ok {
			assert.Equal(t, id.Prerequisites()[0], prereq)
		}
	}

	_, err := r.Definition(Unknown)
	assert.True(t, errors.Is(err, ErrVoucherNotFound))
	assert.True(t, errors.Is(r.Register(Definition{ID: Blank, Name: "Blank", Description: "x"}, nil), ErrInvalidDefinition))

	def, _ := r.Definition(Blank)
	assert.True(t, errors.Is(r.Register(def, func() Voucher { return voucher{def: def} }), ErrDuplicate))

	bad := newDef(Palette, "too big", Count(HandSizeIncrease, 99))
	assert.True(t, errors.Is(NewEmptyRegistry().Register(bad, func() Voucher { return voucher{def: bad} }), ErrInvalidDefinition))
}

func TestPurchase(t *testing.T) {
	r := NewRegistry()

	t.Run("applies and charges", func(t *testing.T) {
		s := NewGameState()
		require.NoError(t, r.Purchase(s, PaintBrush))
		assert.Equal(t, 90, s.Money)
		assert.Equal(t, 9, s.HandSize)
		assert.Equal(t, 4, s.JokerSlots)
		assert.True(t, s.Owns(PaintBrush))

		require.NoError(t, r.Purchase(s, Palette))
		assert.Equal(t, 10, s.HandSize)
		assert.Equal(t, []VoucherID{PaintBrush, Palette}, s.Owned())
	})

	t.Run("prerequisite missing", func(t *testing.T) {
		s := NewGameState()
		err := r.Purchase(s, Retcon)
		assert.True(t, errors.Is(err, ErrNotPurchasable))
		assert.Equal(t, 100, s.Money)
	})

	t.Run("already owned", func(t *testing.T) {
		s := NewGameState()
		require.NoError(t, r.Purchase(s, Blank))
		err := r.Purchase(s, Blank)
		assert.True(t, errors.Is(err, ErrNotPurchasable))
		assert.Equal(t, 90, s.Money)
	})

	t.Run("not enough money is atomic", func(t *testing.T) {
		s := NewGameState()
		s.Money = 9
		before := s.Clone()
		err := r.Purchase(s, Grabber)
		assert.True(t, errors.Is(err, ErrInvalidState))
		assert.Equal(t, before, s)
	})

	t.Run("failing effect is atomic", func(t *testing.T) {
		s := NewGameState()
		s.Ante = 9
		before := s.Clone()
		err := r.Purchase(s, Wasteful)
		assert.Error(t, err)
		assert.Equal(t, before, s)
	})

	t.Run("purchasable", func(t *testing.T) {
		s := NewGameState()
		for _, d := range r.Purchasable(s) {
			assert.Empty(t, d.Prerequisites)
		}
		s.Money = 0
		assert.Empty(t, r.Purchasable(s))
	})

	t.Run("boss rerolls", func(t *testing.T) {
		s := NewGameState()
		require.NoError(t, r.Purchase(s, DirectorsCut))
		require.NoError(t, r.Purchase(s, Retcon))
		assert.Equal(t, BossRerolls{Enabled: true, Unlimited: true, Cost: 10}, s.BossRerolls)
	})
}

func TestPurchaseAt(t *testing.T) {
	r := NewRegistry()
	s := NewGameState()
	require.NoError(t, r.PurchaseAt(s, Overstock, 5))
	assert.Equal(t, 95, s.Money)
	assert.Equal(t, 3, s.ShopSlots)

	err := r.PurchaseAt(s, Blank, -1)
	assert.True(t, errors.Is(err, ErrInvalidState))
	assert.False(t, s.Owns(Blank))
}

func TestGlobal(t *testing.T) {
	assert.Same(t, Global(), Global())
	assert.True(t, Global().IsRegistered(Overstock))
}

func TestGameStateJSON(t *testing.T) {
	r := NewRegistry()
	s := NewGameState()
	require.NoError(t, r.Purchase(s, ClearanceSale))
	require.NoError(t, r.Purchase(s, Grabber))

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"owned":["clearance_sale","grabber"]`)

	var back GameState
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s.Owned(), back.Owned())
	assert.Equal(t, s.Money, back.Money)
	assert.Equal(t, 0.75, back.ShopPriceFactor)
	assert.True(t, back.CanPurchase(Liquidation))

	t.Run("out of range is rejected", func(t *testing.T) {
		var bad GameState
		err := json.Unmarshal([]byte(`{"money":-5}`), &bad)
		assert.True(t, errors.Is(err, ErrInvalidState))
	})
}
