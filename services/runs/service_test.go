package runs

import (
	"Comodin/services/jokers"
	"Comodin/services/poker"
	"Comodin/services/shop"
	"Comodin/services/tags"
	"Comodin/services/vouchers"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc   *Service
	store *MemoryStore
	cache *MemoryCache
	ctx   context.Context
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := NewMemoryStore()
	cache := NewMemoryCache()
	return fixture{
		svc:   NewService(store, cache, jokers.NewCatalog(), vouchers.NewRegistry(), tags.NewRegistry(), jokers.DefaultMaxValue),
		store: store,
		cache: cache,
		ctx:   context.Background(),
	}
}

// uncached is a second service over the same store, to prove what was saved
func (f fixture) uncached() *Service {
	return NewService(f.store, nil, jokers.NewCatalog(), vouchers.NewRegistry(), tags.NewRegistry(), jokers.DefaultMaxValue)
}

func (f fixture) newRun(t *testing.T, ids ...jokers.JokerID) *Run {
	t.Helper()
	run, err := f.svc.Create(f.ctx, "hunter2")
	require.NoError(t, err)
	if len(ids) > 0 {
		run, err = f.svc.ReplaceJokers(f.ctx, run.ID, StateUpdate{Jokers: ids})
		require.NoError(t, err)
	}
	return run
}

func cards(t *testing.T, codes ...string) []poker.Card {
	t.Helper()
	cs, err := poker.ParseCards(codes...)
	require.NoError(t, err)
	return cs
}

func pair(t *testing.T) poker.Hand {
	return poker.NewHand(cards(t, "Ah", "Ad", "3c")...)
}

func TestCreateAndLogin(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, "  ")
	assert.True(t, errors.Is(err, ErrEmptyPassphrase))

	run := f.newRun(t)
	assert.Equal(t, uint64(0), run.Version)
	assert.Equal(t, 1, run.Round)
	assert.Equal(t, 4, run.Progress.HandsRemaining)

	_, err = f.svc.Login(f.ctx, run.ID, "hunter3")
	assert.True(t, errors.Is(err, ErrBadPassphrase))
	_, err = f.svc.Login(f.ctx, "not-a-uuid", "hunter2")
	assert.True(t, errors.Is(err, ErrRunNotFound))
	_, err = f.svc.Login(f.ctx, uuid.NewString(), "hunter2")
	assert.True(t, errors.Is(err, ErrRunNotFound))

	loaded, err := f.svc.Login(f.ctx, run.ID, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, run.ID, loaded.ID)
	assert.Equal(t, run.Seed, loaded.Seed)

	fromStore, err := f.uncached().Load(f.ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Game.Money, fromStore.Game.Money)
}

func TestPlayHand(t *testing.T) {
	f := newFixture(t)
	run := f.newRun(t, jokers.TheJoker)

	run, res, err := f.svc.PlayHand(f.ctx, run.ID, pair(t))
	require.NoError(t, err)
	// 10 + 11 + 11 chips, 2 + 4 mult
	assert.Equal(t, int64(192), res.Total)
	assert.Equal(t, 3, run.Progress.HandsRemaining)
	assert.Equal(t, 1, run.Progress.HandCounts[poker.HandPair])

	saved, err := f.uncached().Load(f.ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Progress, saved.Progress)
	assert.Equal(t, []jokers.JokerID{jokers.TheJoker}, saved.Jokers)

	t.Run("hand size", func(t *testing.T) {
		_, _, err := f.svc.PlayHand(f.ctx, run.ID, poker.NewHand())
		assert.True(t, errors.Is(err, ErrInvalidHand))
		_, _, err = f.svc.PlayHand(f.ctx, run.ID, poker.NewHand(cards(t, "2c", "3c", "4c", "5c", "6c", "7c")...))
		assert.True(t, errors.Is(err, ErrInvalidHand))
	})

	t.Run("out of hands", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, _, err := f.svc.PlayHand(f.ctx, run.ID, pair(t))
			require.NoError(t, err)
		}
		before, err := f.svc.Load(f.ctx, run.ID)
		require.NoError(t, err)

		_, _, err = f.svc.PlayHand(f.ctx, run.ID, pair(t))
		assert.True(t, errors.Is(err, ErrNoHandsLeft))

		after, err := f.svc.Load(f.ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, before.Version, after.Version, "a failed play saves nothing")
	})
}

func TestHandCountsCarryAcrossRequests(t *testing.T) {
	f := newFixture(t)
	run := f.newRun(t, jokers.Supernova)

	_, first, err := f.svc.PlayHand(f.ctx, run.ID, pair(t))
	require.NoError(t, err)
	_, second, err := f.svc.PlayHand(f.ctx, run.ID, pair(t))
	require.NoError(t, err)

	assert.Equal(t, int64(32*3), first.Total)
	assert.Equal(t, int64(32*4), second.Total)
}

func TestDiscardAndStartRound(t *testing.T) {
	f := newFixture(t)
	run := f.newRun(t)

	_, _, err := f.svc.Discard(f.ctx, run.ID, nil)
	assert.True(t, errors.Is(err, ErrInvalidHand))

	for i := 0; i < 3; i++ {
		_, _, err := f.svc.Discard(f.ctx, run.ID, cards(t, "2c"))
		require.NoError(t, err)
	}
	_, _, err = f.svc.Discard(f.ctx, run.ID, cards(t, "2c"))
	assert.True(t, errors.Is(err, ErrNoDiscardsLeft))

	run, start, err := f.svc.StartRound(f.ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, RoundStart{Outcome: start.Outcome, HandSize: 8, Hands: 4, Discards: 3}, start)
	assert.Equal(t, 3, run.Progress.DiscardsRemaining)
	assert.Equal(t, 0, run.Progress.DiscardsUsed)
}

func TestEndRound(t *testing.T) {
	f := newFixture(t)
	run := f.newRun(t, jokers.GoldenJoker)

	run, end, err := f.svc.EndRound(f.ctx, run.ID)
	require.NoError(t, err)
	// $100 + $4 from Golden Joker, then $5 capped interest
	assert.Equal(t, 4, end.Outcome.Money)
	assert.Equal(t, 5, end.Interest)
	assert.Equal(t, 109, run.Game.Money)
	assert.Equal(t, 2, run.Round)
	assert.False(t, end.AnteUp)

	_, _, err = f.svc.EndRound(f.ctx, run.ID)
	require.NoError(t, err)
	run, end, err = f.svc.EndRound(f.ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, end.AnteUp, "the third round is the boss blind")
	assert.Equal(t, 2, run.Game.Ante)
	assert.Equal(t, 4, run.Round)
	assert.Equal(t, 127, run.Game.Money)
}

func TestSellJoker(t *testing.T) {
	f := newFixture(t)
	run := f.newRun(t, jokers.TheJoker)
	def, err := jokers.NewCatalog().Definition(jokers.TheJoker)
	require.NoError(t, err)

	run, value, err := f.svc.SellJoker(f.ctx, run.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, max(def.Cost/2, 1), value)
	assert.Equal(t, 100+value, run.Game.Money)
	assert.Empty(t, run.Jokers)

	_, _, err = f.svc.SellJoker(f.ctx, run.ID, 3)
	assert.True(t, errors.Is(err, jokers.ErrNoSuchSlot))
}

func TestReplaceJokers(t *testing.T) {
	f := newFixture(t)
	run := f.newRun(t)

	tests := []struct {
		name string
		upd  StateUpdate
		want error
	}{
		{"too many", StateUpdate{Jokers: make([]jokers.JokerID, 6)}, ErrInvalidUpdate},
		{"unknown joker", StateUpdate{Jokers: []jokers.JokerID{jokers.JokerID(9999)}}, jokers.ErrUnknownJoker},
		{"bad state", StateUpdate{Jokers: []jokers.JokerID{jokers.TheJoker}, JokerState: json.RawMessage(`{"joker":`)}, ErrInvalidUpdate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.ReplaceJokers(f.ctx, run.ID, tt.upd)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	state := json.RawMessage(`{"supernova":{"accumulated_value":7}}`)
	run, err := f.svc.ReplaceJokers(f.ctx, run.ID, StateUpdate{Jokers: []jokers.JokerID{jokers.Supernova}, JokerState: state})
	require.NoError(t, err)
	assert.Equal(t, 7.0, run.State.Accumulated(jokers.Supernova, 0))

	saved, err := f.uncached().Load(f.ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.0, saved.State.Accumulated(jokers.Supernova, 0))
}

func TestStaleSaveIsRejected(t *testing.T) {
	f := newFixture(t)
	run := f.newRun(t)

	stale, err := f.svc.Load(f.ctx, run.ID)
	require.NoError(t, err)
	_, _, err = f.svc.EndRound(f.ctx, run.ID)
	require.NoError(t, err)

	err = f.svc.Save(f.ctx, stale)
	assert.True(t, errors.Is(err, ErrStaleVersion))
	assert.Equal(t, uint64(0), stale.Version)
}

func TestPurchaseVoucher(t *testing.T) {
	f := newFixture(t)
	run := f.newRun(t)

	run, err := f.svc.PurchaseVoucher(f.ctx, run.ID, vouchers.Overstock)
	require.NoError(t, err)
	assert.True(t, run.Game.Owns(vouchers.Overstock))
	assert.Equal(t, 90, run.Game.Money)

	_, err = f.svc.PurchaseVoucher(f.ctx, run.ID, vouchers.Overstock)
	assert.True(t, errors.Is(err, vouchers.ErrNotPurchasable))

	snap, err := f.store.Load(f.ctx, uuid.MustParse(run.ID))
	require.NoError(t, err)
	require.Len(t, snap.Vouchers, 1)
	assert.Equal(t, "overstock", snap.Vouchers[0].Voucher)

	saved, err := f.uncached().Load(f.ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, saved.Game.Owns(vouchers.Overstock))
	assert.Equal(t, 3, saved.Game.ShopSlots)
}

func TestShop(t *testing.T) {
	f := newFixture(t)
	run := f.newRun(t)

	_, _, err := f.svc.Reroll(f.ctx, run.ID)
	assert.True(t, errors.Is(err, ErrShopClosed))

	run, sh, err := f.svc.Shop(f.ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, sh.Items, 2)
	require.NotEmpty(t, sh.Vouchers)

	_, again, err := f.svc.Shop(f.ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, sh.Items, again.Items, "the shop is opened once per round")

	t.Run("joker", func(t *testing.T) {
		item := sh.Items[0]
		before := run.Game.Money
		got, bought, err := f.svc.Buy(f.ctx, run.ID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item, bought.Item)
		assert.Equal(t, []jokers.JokerID{item.Joker}, got.Jokers)
		assert.Equal(t, before-item.Price, got.Game.Money)
		run = got
	})

	t.Run("voucher", func(t *testing.T) {
		item := sh.Vouchers[0]
		got, _, err := f.svc.Buy(f.ctx, run.ID, item.ID)
		require.NoError(t, err)
		assert.True(t, got.Game.Owns(item.Voucher))
		run = got
	})

	t.Run("pack", func(t *testing.T) {
		item := sh.Packs[0]
		_, bought, err := f.svc.Buy(f.ctx, run.ID, item.ID)
		require.NoError(t, err)
		require.NotNil(t, bought.Pack)
		assert.Equal(t, item.Size, len(bought.Pack.Cards)+len(bought.Pack.Jokers))

		again, err := f.svc.PackContents(f.ctx, run.ID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, bought.Pack, again)
	})

	t.Run("reroll", func(t *testing.T) {
		before, err := f.svc.Load(f.ctx, run.ID)
		require.NoError(t, err)
		got, rerolled, err := f.svc.Reroll(f.ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, before.Game.Money-5, got.Game.Money)
		assert.Equal(t, 1, rerolled.Rerolls)
	})

	t.Run("missing item", func(t *testing.T) {
		_, _, err := f.svc.Buy(f.ctx, run.ID, "item_9_9")
		assert.True(t, errors.Is(err, shop.ErrItemNotFound))
	})
}

func TestSkipBlind(t *testing.T) {
	f := newFixture(t)
	run := f.newRun(t)

	run, skip, err := f.svc.SkipBlind(f.ctx, run.ID, tags.Economy)
	require.NoError(t, err)
	assert.Equal(t, 40, skip.Result.Money)
	assert.Equal(t, 140, run.Game.Money)
	assert.Equal(t, 1, run.Tags.BlindsSkipped)
	assert.Equal(t, 2, run.Round)

	_, _, err = f.svc.SkipBlind(f.ctx, run.ID, tags.Buffoon)
	assert.True(t, errors.Is(err, tags.ErrTagNotFound), "Buffoon needs ante 2")

	_, skip, err = f.svc.SkipBlind(f.ctx, run.ID, tags.Charm)
	require.NoError(t, err)
	require.NotNil(t, skip.Pack)
	assert.Equal(t, 4, len(skip.Pack.Cards)+len(skip.Pack.Jokers))

	run, _, err = f.svc.SkipBlind(f.ctx, run.ID, tags.Rare)
	require.NoError(t, err)
	assert.Equal(t, jokers.Rare, run.Tags.NextShop.JokerRarity)

	run, sh, err := f.svc.Shop(f.ctx, run.ID)
	require.NoError(t, err)
	def, err := jokers.NewCatalog().Definition(sh.Items[0].Joker)
	require.NoError(t, err)
	assert.Equal(t, jokers.Rare, def.Rarity)
	assert.Equal(t, 0, sh.Items[0].Price)
	assert.Equal(t, tags.ShopModifiers{}, run.Tags.NextShop, "the shop used the tag up")
}

func TestTopUpTag(t *testing.T) {
	f := newFixture(t)
	run := f.newRun(t)
	for i := 0; i < 3; i++ {
		_, _, err := f.svc.EndRound(f.ctx, run.ID)
		require.NoError(t, err)
	}

	run, skip, err := f.svc.SkipBlind(f.ctx, run.ID, tags.TopUp)
	require.NoError(t, err)
	require.Len(t, skip.Added, 2)
	assert.Equal(t, skip.Added, run.Jokers)
	catalog := jokers.NewCatalog()
	for _, id := range skip.Added {
		def, err := catalog.Definition(id)
		require.NoError(t, err)
		assert.Equal(t, jokers.Common, def.Rarity)
	}
}

func TestConditionalJokersAcrossRequests(t *testing.T) {
	for _, size := range []int{0, 64} {
		t.Run(fmt.Sprintf("condition cache %d", size), func(t *testing.T) {
			f := newFixture(t)
			f.svc.WithConditionCache(size)

			t.Run("card sharp", func(t *testing.T) {
				run := f.newRun(t, jokers.CardSharp)
				_, _, err := f.svc.StartRound(f.ctx, run.ID)
				require.NoError(t, err)

				_, first, err := f.svc.PlayHand(f.ctx, run.ID, pair(t))
				require.NoError(t, err)
				_, second, err := f.svc.PlayHand(f.ctx, run.ID, pair(t))
				require.NoError(t, err)
				assert.Equal(t, int64(64), first.Total)
				assert.Equal(t, int64(64*3), second.Total)

				saved, err := f.uncached().Load(f.ctx, run.ID)
				require.NoError(t, err)
				assert.Equal(t, []poker.HandRank{poker.HandPair, poker.HandPair}, saved.Progress.History.HandsThisRound())
				assert.Equal(t, jokers.StageBlind, saved.Progress.Stage)

				_, _, err = f.svc.EndRound(f.ctx, run.ID)
				require.NoError(t, err)
				_, _, err = f.svc.StartRound(f.ctx, run.ID)
				require.NoError(t, err)
				_, third, err := f.svc.PlayHand(f.ctx, run.ID, pair(t))
				require.NoError(t, err)
				assert.Equal(t, int64(64), third.Total, "the next round starts over")
			})

			t.Run("acrobat", func(t *testing.T) {
				run := f.newRun(t, jokers.Acrobat)
				_, _, err := f.svc.StartRound(f.ctx, run.ID)
				require.NoError(t, err)

				totals := []int64{}
				for i := 0; i < 4; i++ {
					_, res, err := f.svc.PlayHand(f.ctx, run.ID, pair(t))
					require.NoError(t, err)
					totals = append(totals, res.Total)
				}
				assert.Equal(t, []int64{64, 64, 64, 64 * 3}, totals)
			})
		})
	}
}

func TestStageFollowsTheRound(t *testing.T) {
	f := newFixture(t)
	run := f.newRun(t)
	assert.Equal(t, jokers.StagePreBlind, run.Progress.Stage)

	steps := []struct {
		name string
		do   func() (*Run, error)
		want jokers.Stage
	}{
		{"start", func() (*Run, error) {
			r, _, err := f.svc.StartRound(f.ctx, run.ID)
			return r, err
		}, jokers.StageBlind},
		{"play", func() (*Run, error) {
			r, _, err := f.svc.PlayHand(f.ctx, run.ID, pair(t))
			return r, err
		}, jokers.StageBlind},
		{"shop", func() (*Run, error) {
			r, _, err := f.svc.Shop(f.ctx, run.ID)
			return r, err
		}, jokers.StageShop},
		{"end", func() (*Run, error) {
			r, _, err := f.svc.EndRound(f.ctx, run.ID)
			return r, err
		}, jokers.StagePreBlind},
	}
	for _, step := range steps {
		got, err := step.do()
		require.NoError(t, err, step.name)
		assert.Equal(t, step.want, got.Progress.Stage, step.name)
	}
}

func TestJuggleLastsOneRound(t *testing.T) {
	f := newFixture(t)
	run := f.newRun(t)

	_, _, err := f.svc.SkipBlind(f.ctx, run.ID, tags.Juggle)
	require.NoError(t, err)
	sizes := []int{}
	for i := 0; i < 3; i++ {
		_, start, err := f.svc.StartRound(f.ctx, run.ID)
		require.NoError(t, err)
		sizes = append(sizes, start.HandSize)
		_, _, err = f.svc.EndRound(f.ctx, run.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{9, 8, 8}, sizes)

	t.Run("skipped round", func(t *testing.T) {
		_, _, err := f.svc.SkipBlind(f.ctx, run.ID, tags.Juggle)
		require.NoError(t, err)
		run, _, err := f.svc.SkipBlind(f.ctx, run.ID, tags.Economy)
		require.NoError(t, err)
		assert.Equal(t, 0, run.Tags.HandSizeBonus)
	})
}

func TestDoubleTag(t *testing.T) {
	f := newFixture(t)
	run := f.newRun(t)

	run, skip, err := f.svc.SkipBlind(f.ctx, run.ID, tags.Double)
	require.NoError(t, err)
	assert.Equal(t, 1, run.Tags.DoubleNext)
	assert.Equal(t, 0, skip.Result.Copies)

	run, skip, err = f.svc.SkipBlind(f.ctx, run.ID, tags.Economy)
	require.NoError(t, err)
	assert.Equal(t, 1, skip.Result.Copies)
	assert.Equal(t, 80, skip.Result.Money)
	assert.Equal(t, 180, run.Game.Money)
	assert.Equal(t, 0, run.Tags.DoubleNext)

	_, _, err = f.svc.SkipBlind(f.ctx, run.ID, tags.Double)
	require.NoError(t, err)
	_, skip, err = f.svc.SkipBlind(f.ctx, run.ID, tags.Charm)
	require.NoError(t, err)
	require.NotNil(t, skip.Pack)
	assert.Equal(t, 8, len(skip.Pack.Cards)+len(skip.Pack.Jokers), "two Mega Arcana Packs")
}

// Every scaling joker grows through the operation that fires its trigger
func TestScalingJokersThroughService(t *testing.T) {
	twoPair := func(t *testing.T) poker.Hand { return poker.NewHand(cards(t, "Ah", "Ad", "3c", "3d")...) }
	play := func(h func(*testing.T) poker.Hand) func(t *testing.T, f fixture, id string) {
		return func(t *testing.T, f fixture, id string) {
			_, _, err := f.svc.PlayHand(f.ctx, id, h(t))
			require.NoError(t, err)
		}
	}
	endRound := func(t *testing.T, f fixture, id string) {
		_, _, err := f.svc.EndRound(f.ctx, id)
		require.NoError(t, err)
	}
	skipFor := func(tag tags.TagID) func(t *testing.T, f fixture, id string) {
		return func(t *testing.T, f fixture, id string) {
			_, _, err := f.svc.SkipBlind(f.ctx, id, tag)
			require.NoError(t, err)
		}
	}

	tests := []struct {
		name   string
		jokers []jokers.JokerID
		state  string
		do     func(t *testing.T, f fixture, id string)
		want   map[jokers.JokerID]float64
	}{
		{"two pair", []jokers.JokerID{jokers.SpareTrousers}, "", play(twoPair), map[jokers.JokerID]float64{jokers.SpareTrousers: 2}},
		{"four cards", []jokers.JokerID{jokers.SquareJoker}, "", play(func(t *testing.T) poker.Hand {
			return poker.NewHand(cards(t, "2c", "5d", "9h", "Ks")...)
		}), map[jokers.JokerID]float64{jokers.SquareJoker: 4}},
		{"straight", []jokers.JokerID{jokers.Runner}, "", play(func(t *testing.T) poker.Hand {
			return poker.NewHand(cards(t, "2c", "3d", "4h", "5s", "6c")...)
		}), map[jokers.JokerID]float64{jokers.Runner: 15}},
		{"any hand", []jokers.JokerID{jokers.WeeJoker, jokers.GreenJoker, jokers.RideTheBus}, "", play(pair),
			map[jokers.JokerID]float64{jokers.WeeJoker: 8, jokers.GreenJoker: 1, jokers.RideTheBus: 1}},
		{"blind completed", []jokers.JokerID{jokers.CeremonialDagger, jokers.LoyaltyCard, jokers.RocketShip}, "", endRound,
			map[jokers.JokerID]float64{jokers.CeremonialDagger: 2, jokers.LoyaltyCard: 1, jokers.RocketShip: 2}},
		{"interest", []jokers.JokerID{jokers.Bull, jokers.Bootstraps}, "", endRound,
			map[jokers.JokerID]float64{jokers.Bull: 2, jokers.Bootstraps: 2}},
		{"tag money", []jokers.JokerID{jokers.Bull}, "", skipFor(tags.Economy), map[jokers.JokerID]float64{jokers.Bull: 2}},
		{"investment", []jokers.JokerID{jokers.Bootstraps}, "", func(t *testing.T, f fixture, id string) {
			skipFor(tags.Investment)(t, f, id)
			endRound(t, f, id)
			endRound(t, f, id)
		}, map[jokers.JokerID]float64{jokers.Bootstraps: 6}},
		{"skipped blind", []jokers.JokerID{jokers.RedCard, jokers.Throwback}, "", skipFor(tags.Charm),
			map[jokers.JokerID]float64{jokers.RedCard: 3, jokers.Throwback: 1.25}},
		{"destroyed joker", []jokers.JokerID{jokers.IceCream, jokers.Hologram}, `{"ice_cream":{"accumulated_value":5}}`, play(pair),
			map[jokers.JokerID]float64{jokers.Hologram: 1.25}},
		{"reroll", []jokers.JokerID{jokers.FlashCard}, "", func(t *testing.T, f fixture, id string) {
			_, _, err := f.svc.Shop(f.ctx, id)
			require.NoError(t, err)
			_, _, err = f.svc.Reroll(f.ctx, id)
			require.NoError(t, err)
		}, map[jokers.JokerID]float64{jokers.FlashCard: 2}},
		{"joker sold", []jokers.JokerID{jokers.Marble, jokers.Campfire, jokers.TheJoker}, "", func(t *testing.T, f fixture, id string) {
			_, _, err := f.svc.SellJoker(f.ctx, id, 2)
			require.NoError(t, err)
		}, map[jokers.JokerID]float64{jokers.Marble: 50, jokers.Campfire: 1.25}},
		{"discard", []jokers.JokerID{jokers.Castle}, "", func(t *testing.T, f fixture, id string) {
			_, _, err := f.svc.Discard(f.ctx, id, cards(t, "2c", "9d"))
			require.NoError(t, err)
		}, map[jokers.JokerID]float64{jokers.Castle: 6}},
	}

	covered := map[jokers.JokerID]bool{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			run := f.newRun(t)
			upd := StateUpdate{Jokers: tt.jokers}
			if tt.state != "" {
				upd.JokerState = json.RawMessage(tt.state)
			}
			_, err := f.svc.ReplaceJokers(f.ctx, run.ID, upd)
			require.NoError(t, err)

			tt.do(t, f, run.ID)

			saved, err := f.uncached().Load(f.ctx, run.ID)
			require.NoError(t, err)
			for id, want := range tt.want {
				assert.Equal(t, want, saved.State.Accumulated(id, -1), id.String())
				covered[id] = true
			}
		})
	}

	// Fortune Teller waits for consumables, which runs do not have
	for _, preset := range jokers.ScalingPresets() {
		if preset.ID() == jokers.FortuneTeller {
			continue
		}
		assert.True(t, covered[preset.ID()], "%s is never grown", preset.ID())
	}
}
