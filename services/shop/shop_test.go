package shop

import (
	"Comodin/services/jokers"
	"Comodin/services/poker"
	"Comodin/services/tags"
	"Comodin/services/vouchers"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openShop(t *testing.T, state *vouchers.GameState, mods tags.ShopModifiers) (*Shop, *jokers.Catalog) {
	t.Helper()
	catalog := jokers.NewCatalog()
	s, err := Open(catalog, vouchers.NewRegistry(), state, mods, "run-1", 3)
	require.NoError(t, err)
	return s, catalog
}

func TestOpenIsDeterministic(t *testing.T) {
	a, _ := openShop(t, vouchers.NewGameState(), tags.ShopModifiers{})
	b, _ := openShop(t, vouchers.NewGameState(), tags.ShopModifiers{})
	assert.Equal(t, a, b)

	assert.Len(t, a.Items, 2)
	assert.Len(t, a.Packs, 2)
	require.Len(t, a.Vouchers, 1)
	assert.False(t, a.Vouchers[0].Voucher.HasPrerequisites())
	assert.NotEqual(t, a.Items[0].Joker, a.Items[1].Joker)

	c, err := Open(jokers.NewCatalog(), vouchers.NewRegistry(), vouchers.NewGameState(), tags.ShopModifiers{}, "run-1", 4)
	require.NoError(t, err)
	assert.NotEqual(t, a.Packs, c.Packs)
}

func TestOpenWithTagModifiers(t *testing.T) {
	t.Run("coupon", func(t *testing.T) {
		s, _ := openShop(t, vouchers.NewGameState(), tags.ShopModifiers{FreeItems: true})
		assert.Equal(t, 0, s.Items[0].Price)
		assert.NotZero(t, s.Items[1].Price)
		for _, p := range s.Packs {
			assert.Equal(t, 0, p.Price)
		}
	})

	t.Run("edition", func(t *testing.T) {
		s, _ := openShop(t, vouchers.NewGameState(), tags.ShopModifiers{JokerEdition: poker.Polychrome})
		assert.Equal(t, poker.Polychrome, s.Items[0].Edition)
		assert.Equal(t, 0, s.Items[0].Price)
		assert.Equal(t, poker.Base, s.Items[1].Edition)
	})

	t.Run("rarity", func(t *testing.T) {
		s, catalog := openShop(t, vouchers.NewGameState(), tags.ShopModifiers{JokerRarity: jokers.Rare})
		def, err := catalog.Definition(s.Items[0].Joker)
		require.NoError(t, err)
		assert.Equal(t, jokers.Rare, def.Rarity)
		assert.Equal(t, 0, s.Items[0].Price)
	})

	t.Run("extra vouchers and rerolls", func(t *testing.T) {
		s, _ := openShop(t, vouchers.NewGameState(), tags.ShopModifiers{ExtraVouchers: 2, FreeRerolls: 3})
		assert.Len(t, s.Vouchers, 3)
		assert.Equal(t, 0, s.RerollCost())
	})
}

func TestOpenReadsVoucherState(t *testing.T) {
	state := vouchers.NewGameState()
	reg := vouchers.NewRegistry()
	require.NoError(t, reg.Purchase(state, vouchers.Overstock))
	require.NoError(t, reg.Purchase(state, vouchers.ClearanceSale))
	require.NoError(t, reg.Purchase(state, vouchers.Liquidation))
	require.NoError(t, reg.Purchase(state, vouchers.RerollSurplus))

	s, catalog := openShop(t, state, tags.ShopModifiers{})
	assert.Len(t, s.Items, 3)
	for _, item := range s.Items {
		def, err := catalog.Definition(item.Joker)
		require.NoError(t, err)
		assert.Equal(t, max(def.Cost/2, 1), item.Price)
	}
	for _, v := range s.Vouchers {
		assert.False(t, state.Owns(v.Voucher))
		assert.Equal(t, 5, v.Price)
	}
	assert.Equal(t, 4, s.RerollCost())
}

func TestReroll(t *testing.T) {
	s, catalog := openShop(t, vouchers.NewGameState(), tags.ShopModifiers{})
	packs := s.Packs
	money := 20

	require.NoError(t, s.Reroll(catalog, &money))
	assert.Equal(t, 15, money)
	assert.Equal(t, 1, s.Rerolls)
	assert.Equal(t, "item_1_0", s.Items[0].ID)
	assert.Equal(t, packs, s.Packs, "packs are not rerolled")
	assert.Equal(t, 6, s.RerollCost())

	money = 5
	before := *s
	err := s.Reroll(catalog, &money)
	assert.True(t, errors.Is(err, ErrCannotAfford))
	assert.Equal(t, 5, money)
	assert.Equal(t, before, *s)
}

func TestFreeRerolls(t *testing.T) {
	s, catalog := openShop(t, vouchers.NewGameState(), tags.ShopModifiers{FreeRerolls: 1})
	money := 0
	require.NoError(t, s.Reroll(catalog, &money))
	assert.Equal(t, 0, money)
	assert.Equal(t, 0, s.FreeRerolls)
	assert.Equal(t, 6, s.RerollCost())
}

func TestTake(t *testing.T) {
	s, _ := openShop(t, vouchers.NewGameState(), tags.ShopModifiers{})
	target := s.Items[1]
	money := 100

	item, err := s.Take(target.ID, &money)
	require.NoError(t, err)
	assert.Equal(t, target, item)
	assert.Equal(t, 100-target.Price, money)
	assert.Len(t, s.Items, 1)
	_, ok := s.Find(target.ID)
	assert.False(t, ok)

	_, err = s.Take("item_9_9", &money)
	assert.True(t, errors.Is(err, ErrItemNotFound))

	broke := 0
	_, err = s.Take(s.Packs[0].ID, &broke)
	assert.True(t, errors.Is(err, ErrCannotAfford))
	assert.Len(t, s.Packs, 2)
}

func TestOpenPack(t *testing.T) {
	catalog := jokers.NewCatalog()
	pack := Item{ID: "pack_0", Kind: KindPack, Pack: "Buffoon Pack", Size: 3, PackSeed: 42}

	a, err := OpenPack(catalog, pack)
	require.NoError(t, err)
	b, err := OpenPack(catalog, pack)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a.Jokers, 3)
	assert.Empty(t, a.Cards)

	pack.Pack = "Standard Pack"
	c, err := OpenPack(catalog, pack)
	require.NoError(t, err)
	assert.Len(t, c.Cards, 3)
	assert.Empty(t, c.Jokers)

	mega, err := OpenPack(catalog, GrantedPack("Mega Buffoon Pack", 7))
	require.NoError(t, err)
	assert.Len(t, mega.Jokers, 4)
	assert.Equal(t, 0, GrantedPack("Mega Buffoon Pack", 7).Price)

	_, err = OpenPack(catalog, Item{ID: "item_0_0", Kind: KindJoker})
	assert.True(t, errors.Is(err, ErrItemNotFound))
}
