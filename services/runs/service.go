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
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNoHandsLeft    = errors.New("no hands left this round")
	ErrNoDiscardsLeft = errors.New("no discards left this round")
	ErrInvalidHand    = errors.New("a hand is 1 to 5 cards")
	ErrShopClosed     = errors.New("the shop is not open")
	ErrInvalidUpdate  = errors.New("invalid run update")
)

const (
	maxHandCards     = 5
	roundsPerAnte    = 3
	moneyPerInterest = 5
	topUpJokers      = 2
	maxAnte          = 8
)

// Service drives runs through their rounds and keeps them saved. Every
// operation loads the run, changes it and saves it; an operation that fails
// saves nothing.
type Service struct {
	store    Store
	cache    Cache
	catalog  *jokers.Catalog
	vouchers *vouchers.Registry
	tags     *tags.Registry
	maxValue float64

	conditionCacheSize int
	jokerSlots         int
}

// NewService wires the stores and registries. cache may be nil.
func NewService(store Store, cache Cache, catalog *jokers.Catalog, vreg *vouchers.Registry, treg *tags.Registry, maxValue float64) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		catalog:  catalog,
		vouchers: vreg,
		tags:     treg,
		maxValue: maxValue,
	}
}

// WithConditionCache sizes the condition cache of every GameContext the
// service builds. Zero keeps the default.
func (s *Service) WithConditionCache(size int) *Service {
	s.conditionCacheSize = size
	return s
}

// WithJokerSlots sets the joker slots new runs start with
func (s *Service) WithJokerSlots(n int) *Service {
	s.jokerSlots = n
	return s
}

func (s *Service) Catalog() *jokers.Catalog {
	return s.catalog
}

// Create starts a run protected by passphrase
func (s *Service) Create(ctx context.Context, passphrase string) (*Run, error) {
	if strings.TrimSpace(passphrase) == "" {
		return nil, ErrEmptyPassphrase
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing passphrase: %w", err)
	}

	id := uuid.New().String()
	run := NewRun(id, jokers.SeedFrom("run", id), s.maxValue)
	if s.jokerSlots > 0 {
		run.Game.JokerSlots = s.jokerSlots
	}
	snap, err := run.toSnapshot()
	if err != nil {
		return nil, err
	}
	snap.PassphraseHash = string(hash)
	if err := s.store.Create(ctx, snap); err != nil {
		return nil, err
	}
	s.cacheRun(ctx, run)
	log.Printf("[RUNS] Created run %s", id)
	return run, nil
}

// Login checks the passphrase of a saved run
func (s *Service) Login(ctx context.Context, id, passphrase string) (*Run, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	snap, err := s.store.Load(ctx, uid)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(snap.PassphraseHash), []byte(passphrase)); err != nil {
		return nil, ErrBadPassphrase
	}
	return s.Load(ctx, id)
}

// Load reads the cached copy first and falls back to the store
func (s *Service) Load(ctx context.Context, id string) (*Run, error) {
	if s.cache != nil {
		hot, err := s.cache.GetRunState(ctx, id)
		switch {
		case err != nil:
			log.Printf("[REDIS] Error reading run %s, falling back to the store: %v", id, err)
		case hot != nil:
			return fromRedis(hot, s.maxValue)
		}
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	snap, err := s.store.Load(ctx, uid)
	if err != nil {
		return nil, err
	}
	run, err := fromSnapshot(snap, s.maxValue)
	if err != nil {
		return nil, err
	}
	s.cacheRun(ctx, run)
	return run, nil
}

// Save bumps the version and writes run through to the store. A run loaded
// before somebody else saved it is rejected with ErrStaleVersion.
func (s *Service) Save(ctx context.Context, run *Run) error {
	if s.cache != nil {
		hot, err := s.cache.GetRunState(ctx, run.ID)
		if err == nil && hot != nil && hot.Version != run.Version {
			return fmt.Errorf("%w: loaded version %d, saved version %d", ErrStaleVersion, run.Version, hot.Version)
		}
	}

	run.Version++
	snap, err := run.toSnapshot()
	if err == nil {
		err = s.store.Save(ctx, snap)
	}
	if err != nil {
		run.Version--
		return err
	}
	s.cacheRun(ctx, run)
	return nil
}

// cacheRun is best effort, the store stays the source of truth
func (s *Service) cacheRun(ctx context.Context, run *Run) {
	if s.cache == nil {
		return
	}
	hot, err := run.toRedis()
	if err == nil {
		err = s.cache.SaveRunState(ctx, hot)
	}
	if err != nil {
		log.Printf("[REDIS] Error caching run %s: %v", run.ID, err)
	}
}

// update loads, changes and saves a run. fn gets a GameContext built from the
// run; whatever the jokers did is copied back before saving.
func (s *Service) update(ctx context.Context, id string, fn func(run *Run, gctx *jokers.GameContext) error) (*Run, error) {
	run, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	gctx, err := run.Context(s.catalog)
	if err != nil {
		return nil, err
	}
	if s.conditionCacheSize > 0 {
		gctx.Conditions = jokers.NewConditionCache(s.conditionCacheSize)
	}
	if err := fn(run, gctx); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// RoundStart is what the jokers did when the round began
type RoundStart struct {
	Outcome  jokers.Outcome `json:"outcome"`
	HandSize int            `json:"hand_size"`
	Hands    int            `json:"hands"`
	Discards int            `json:"discards"`
}

// StartRound resets the round counters and runs the round and blind hooks
func (s *Service) StartRound(ctx context.Context, id string) (*Run, RoundStart, error) {
	var start RoundStart
	run, err := s.update(ctx, id, func(run *Run, gctx *jokers.GameContext) error {
		gctx.HandsRemaining = run.Game.Plays
		gctx.DiscardsRemaining = jokers.Discards(gctx, run.Game.Discards)
		out := jokers.StartRound(gctx).Merge(jokers.StartBlind(gctx))
		run.Absorb(gctx)

		start = RoundStart{
			Outcome:  out,
			HandSize: jokers.HandSize(gctx, run.Game.HandSize+run.Tags.HandSizeBonus),
			Hands:    gctx.HandsRemaining,
			Discards: gctx.DiscardsRemaining,
		}
		return nil
	})
	return run, start, err
}

// PlayHand scores hand with the run's jokers
func (s *Service) PlayHand(ctx context.Context, id string, hand poker.Hand) (*Run, jokers.ScoreResult, error) {
	var res jokers.ScoreResult
	run, err := s.update(ctx, id, func(run *Run, gctx *jokers.GameContext) error {
		if n := len(hand.Cards); n == 0 || n > maxHandCards {
			return fmt.Errorf("%w: got %d", ErrInvalidHand, n)
		}
		if gctx.HandsRemaining <= 0 {
			return ErrNoHandsLeft
		}
		res = jokers.ScoreHand(gctx, hand)
		run.Absorb(gctx)
		return nil
	})
	if err == nil {
		log.Printf("[SCORING] Run %s scored %d with %s", id, res.Total, res.Evaluation.Rank)
	}
	return run, res, err
}

func (s *Service) Discard(ctx context.Context, id string, cards []poker.Card) (*Run, jokers.Outcome, error) {
	var out jokers.Outcome
	run, err := s.update(ctx, id, func(run *Run, gctx *jokers.GameContext) error {
		if n := len(cards); n == 0 || n > maxHandCards {
			return fmt.Errorf("%w: got %d", ErrInvalidHand, n)
		}
		if gctx.DiscardsRemaining <= 0 {
			return ErrNoDiscardsLeft
		}
		out = jokers.Discard(gctx, cards)
		run.Absorb(gctx)
		return nil
	})
	return run, out, err
}

// RoundEnd is the payout of a beaten blind
type RoundEnd struct {
	Outcome     jokers.Outcome `json:"outcome"`
	Interest    int            `json:"interest"`
	Investments int            `json:"investments"`
	AnteUp      bool           `json:"ante_up"`
}

// EndRound pays the round end jokers and interest, then moves to the next
// round. Every third round is a boss blind and ends the ante.
func (s *Service) EndRound(ctx context.Context, id string) (*Run, RoundEnd, error) {
	var end RoundEnd
	run, err := s.update(ctx, id, func(run *Run, gctx *jokers.GameContext) error {
		end.Outcome = jokers.EndRound(gctx)
		jokers.Notify(gctx, jokers.Event(jokers.EventBlindCompleted))

		boss := run.Round%roundsPerAnte == 0
		if boss {
			jokers.Notify(gctx, jokers.Event(jokers.EventAnteEnd))
		}

		end.Interest = min(max(gctx.Money, 0)/moneyPerInterest, run.Game.InterestCap)
		gctx.Money += end.Interest
		moneyGained(gctx, end.Interest)
		if boss {
			run.Tags.Money = gctx.Money
			end.Investments = run.Tags.PayInvestments()
			gctx.Money = run.Tags.Money
			moneyGained(gctx, end.Investments)
		}
		run.Absorb(gctx)

		if boss && run.Game.Ante < maxAnte {
			run.Game.Ante++
			end.AnteUp = true
		}
		run.Tags.ExpireRoundBonuses()
		run.nextRound()
		return nil
	})
	return run, end, err
}

// moneyGained tells the scaling jokers about money paid by the run itself
func moneyGained(gctx *jokers.GameContext, amount int) {
	if amount > 0 {
		jokers.Notify(gctx, jokers.ScalingEvent{Kind: jokers.EventMoneyGained, Amount: amount})
	}
}

// SellJoker sells the joker in slot and returns what it paid
func (s *Service) SellJoker(ctx context.Context, id string, slot int) (*Run, int, error) {
	var value int
	run, err := s.update(ctx, id, func(run *Run, gctx *jokers.GameContext) error {
		v, err := jokers.SellJoker(gctx, slot)
		if err != nil {
			return err
		}
		value = v
		run.Absorb(gctx)
		return nil
	})
	return run, value, err
}

// StateUpdate replaces the jokers of a run and, optionally, their state
type StateUpdate struct {
	Jokers     []jokers.JokerID `json:"jokers"`
	JokerState json.RawMessage  `json:"joker_state,omitempty"`
}

// ReplaceJokers validates the whole update before touching the run
func (s *Service) ReplaceJokers(ctx context.Context, id string, upd StateUpdate) (*Run, error) {
	run, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(upd.Jokers) > run.Game.JokerSlots {
		return nil, fmt.Errorf("%w: %d jokers for %d slots", ErrInvalidUpdate, len(upd.Jokers), run.Game.JokerSlots)
	}
	for _, jid := range upd.Jokers {
		if !s.catalog.IsRegistered(jid) {
			return nil, fmt.Errorf("%w: %s", jokers.ErrUnknownJoker, jid)
		}
	}
	state := jokers.NewStateStore(s.maxValue)
	if len(upd.JokerState) > 0 {
		if err := json.Unmarshal(upd.JokerState, state); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidUpdate, err)
		}
	} else if err := state.Restore(run.State.Snapshot()); err != nil {
		return nil, err
	}

	run.Jokers = append([]jokers.JokerID{}, upd.Jokers...)
	run.State = state
	if err := s.Save(ctx, run); err != nil {
		return nil, err
	}
	log.Printf("[RUNS] Run %s now holds %d jokers", id, len(run.Jokers))
	return run, nil
}

// PurchaseVoucher buys a voucher at its listed cost, outside the shop
func (s *Service) PurchaseVoucher(ctx context.Context, id string, voucher vouchers.VoucherID) (*Run, error) {
	return s.update(ctx, id, func(run *Run, _ *jokers.GameContext) error {
		if err := s.vouchers.Purchase(run.Game, voucher); err != nil {
			return err
		}
		return s.recordVoucher(ctx, run, voucher)
	})
}

func (s *Service) recordVoucher(ctx context.Context, run *Run, voucher vouchers.VoucherID) error {
	uid, err := uuid.Parse(run.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrRunNotFound, run.ID)
	}
	return s.store.AddVoucher(ctx, uid, voucher.String())
}

// Shop returns the shop of the current round, opening it on the first call.
// Opening consumes the shop modifiers of pending skip tags.
func (s *Service) Shop(ctx context.Context, id string) (*Run, *shop.Shop, error) {
	run, err := s.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if open, err := s.openShop(ctx, run); err != nil || open != nil {
		return run, open, err
	}

	var opened *shop.Shop
	run, err = s.update(ctx, id, func(run *Run, gctx *jokers.GameContext) error {
		sh, err := shop.Open(s.catalog, s.vouchers, run.Game, run.Tags.NextShop, run.ID, run.Round)
		if err != nil {
			return err
		}
		jokers.OpenShop(gctx)
		run.Absorb(gctx)
		run.Tags.NextShop = tags.ShopModifiers{}
		opened = sh
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if err := s.saveShop(ctx, opened); err != nil {
		return nil, nil, err
	}
	return run, opened, nil
}

// openShop is the cached shop of the run's round, nil when there is none
func (s *Service) openShop(ctx context.Context, run *Run) (*shop.Shop, error) {
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.GetShop(ctx, run.ID, run.Round)
}

func (s *Service) saveShop(ctx context.Context, sh *shop.Shop) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.SaveShop(ctx, sh)
}

// shopUpdate is update for operations on an already open shop
func (s *Service) shopUpdate(ctx context.Context, id string, fn func(run *Run, gctx *jokers.GameContext, sh *shop.Shop) error) (*Run, *shop.Shop, error) {
	var current *shop.Shop
	run, err := s.update(ctx, id, func(run *Run, gctx *jokers.GameContext) error {
		sh, err := s.openShop(ctx, run)
		if err != nil {
			return err
		}
		if sh == nil {
			return ErrShopClosed
		}
		if err := fn(run, gctx, sh); err != nil {
			return err
		}
		current = sh
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if err := s.saveShop(ctx, current); err != nil {
		return nil, nil, err
	}
	return run, current, nil
}

func (s *Service) Reroll(ctx context.Context, id string) (*Run, *shop.Shop, error) {
	return s.shopUpdate(ctx, id, func(run *Run, gctx *jokers.GameContext, sh *shop.Shop) error {
		if err := sh.Reroll(s.catalog, &gctx.Money); err != nil {
			return err
		}
		jokers.Notify(gctx, jokers.Event(jokers.EventShopReroll))
		run.Absorb(gctx)
		return nil
	})
}

// Purchase is what buying a shop item gave
type Purchase struct {
	Item shop.Item          `json:"item"`
	Pack *shop.PackContents `json:"pack,omitempty"`
}

// Buy takes an item from the open shop. Jokers go to the rightmost slot,
// vouchers are applied and packs are opened.
func (s *Service) Buy(ctx context.Context, id, itemID string) (*Run, Purchase, error) {
	var bought Purchase
	run, _, err := s.shopUpdate(ctx, id, func(run *Run, gctx *jokers.GameContext, sh *shop.Shop) error {
		item, ok := sh.Find(itemID)
		if !ok {
			return fmt.Errorf("%w: %s", shop.ErrItemNotFound, itemID)
		}
		bought.Item = item

		switch item.Kind {
		case shop.KindVoucher:
			if err := s.vouchers.PurchaseAt(run.Game, item.Voucher, item.Price); err != nil {
				return err
			}
			sh.Remove(itemID)
			return s.recordVoucher(ctx, run, item.Voucher)

		case shop.KindJoker:
			j, err := s.catalog.New(item.Joker)
			if err != nil {
				return err
			}
			if len(gctx.Jokers) >= run.Game.JokerSlots {
				return fmt.Errorf("%w: %d of %d used", jokers.ErrSlotsFull, len(gctx.Jokers), run.Game.JokerSlots)
			}
			if _, err := sh.Take(itemID, &gctx.Money); err != nil {
				return err
			}
			if _, err := jokers.AddJoker(gctx, j, run.Game.JokerSlots); err != nil {
				return err
			}
			jokers.Notify(gctx, jokers.ScalingEvent{Kind: jokers.EventMoneySpent, Amount: item.Price})
			jokers.Notify(gctx, jokers.Event(jokers.EventJokerPurchased))
			run.Absorb(gctx)
			return nil

		case shop.KindPack:
			if _, err := sh.Take(itemID, &gctx.Money); err != nil {
				return err
			}
			contents, err := shop.OpenPack(s.catalog, item)
			if err != nil {
				return err
			}
			if s.cache != nil {
				if err := s.cache.SetPackContents(ctx, run.ID, run.Round, itemID, contents); err != nil {
					return err
				}
			}
			jokers.Notify(gctx, jokers.ScalingEvent{Kind: jokers.EventMoneySpent, Amount: item.Price})
			run.Absorb(gctx)
			bought.Pack = &contents
			return nil
		}
		return fmt.Errorf("%w: %s has kind %q", shop.ErrItemNotFound, itemID, item.Kind)
	})
	return run, bought, err
}

// PackContents shows a pack bought earlier this round again
func (s *Service) PackContents(ctx context.Context, id, itemID string) (*shop.PackContents, error) {
	run, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache == nil {
		return nil, fmt.Errorf("%w: %s", shop.ErrItemNotFound, itemID)
	}
	contents, err := s.cache.GetPackContents(ctx, run.ID, run.Round, itemID)
	if err != nil {
		return nil, err
	}
	if contents == nil {
		return nil, fmt.Errorf("%w: %s", shop.ErrItemNotFound, itemID)
	}
	return contents, nil
}

// Skip is what skipping a blind for a tag gave
type Skip struct {
	Result tags.TagResult     `json:"result"`
	Pack   *shop.PackContents `json:"pack,omitempty"`
	Added  []jokers.JokerID   `json:"added,omitempty"`
}

// SkipBlind trades the current blind for a tag. Skipping counts as passing
// up a pack for the jokers that track it. A pending Double repeats the tag,
// packs and Top-up jokers included.
func (s *Service) SkipBlind(ctx context.Context, id string, tag tags.TagID) (*Run, Skip, error) {
	var skip Skip
	run, err := s.update(ctx, id, func(run *Run, gctx *jokers.GameContext) error {
		def, err := s.tags.Definition(tag)
		if err != nil {
			return err
		}
		if !def.IsAvailable(run.Game.Ante) {
			return fmt.Errorf("%w: %s is not offered before ante %d", tags.ErrTagNotFound, tag, def.MinAnte)
		}

		tc := run.Tags
		tc.ExpireRoundBonuses()
		tc.Money = gctx.Money
		tc.HandsPlayed = run.Progress.HandsPlayed
		tc.RemainingDiscards = run.Progress.DiscardsRemaining
		tc.BlindsSkipped++
		res, err := s.tags.Apply(tag, &tc)
		if err != nil {
			return err
		}
		paid := tc.Money - gctx.Money
		gctx.Money = tc.Money
		skip.Result = res
		jokers.Notify(gctx, jokers.Event(jokers.EventPackSkipped))
		moneyGained(gctx, paid)

		times := 1 + res.Copies
		rng := jokers.NewRNG(jokers.SeedFrom(run.Seed, "skip", run.Round, tc.BlindsSkipped))
		switch {
		case tag == tags.TopUp:
			for i := 0; i < topUpJokers*times && len(gctx.Jokers) < run.Game.JokerSlots; i++ {
				def, err := s.catalog.PickOfRarity(rng, jokers.Common, skip.Added...)
				if err != nil {
					break
				}
				j, err := s.catalog.New(def.ID)
				if err != nil {
					return err
				}
				if _, err := jokers.AddJoker(gctx, j, run.Game.JokerSlots); err != nil {
					return err
				}
				skip.Added = append(skip.Added, def.ID)
			}
		case res.Pack != "":
			var granted shop.PackContents
			for i := 0; i < times; i++ {
				contents, err := shop.OpenPack(s.catalog, shop.GrantedPack(res.Pack, rng.Uint64()))
				if err != nil {
					return err
				}
				granted.Cards = append(granted.Cards, contents.Cards...)
				granted.Jokers = append(granted.Jokers, contents.Jokers...)
			}
			skip.Pack = &granted
		}

		run.Absorb(gctx)
		run.Tags = tc
		run.nextRound()
		return nil
	})
	return run, skip, err
}
