package shop

import (
	"Comodin/services/jokers"
	"Comodin/services/poker"
	"Comodin/services/tags"
	"Comodin/services/vouchers"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/exp/rand"
)

var (
	ErrItemNotFound = errors.New("shop item not found")
	ErrCannotAfford = errors.New("not enough money")
)

const (
	baseRerollCost = 5
	minPackItems   = 2
	maxPackItems   = 4
	fixedPacks     = 2
	baseVouchers   = 1
)

type ItemKind string

const (
	KindJoker   ItemKind = "joker"
	KindPack    ItemKind = "pack"
	KindVoucher ItemKind = "voucher"
)

type Item struct {
	ID       string             `json:"id"`
	Kind     ItemKind           `json:"kind"`
	Price    int                `json:"price"`
	Joker    jokers.JokerID     `json:"joker,omitempty"`
	Edition  poker.Edition      `json:"edition,omitempty"`
	Voucher  vouchers.VoucherID `json:"voucher,omitempty"`
	Pack     string             `json:"pack,omitempty"`
	Size     int                `json:"size,omitempty"`
	PackSeed uint64             `json:"pack_seed,omitempty"`
}

type PackContents struct {
	Cards  []poker.Card     `json:"cards"`
	Jokers []jokers.JokerID `json:"jokers"`
}

// Shop is one visit. Items are rerolled, packs and vouchers are not.
type Shop struct {
	RunID       string `json:"run_id"`
	Round       int    `json:"round"`
	Rerolls     int    `json:"rerolls"`
	FreeRerolls int    `json:"free_rerolls"`
	Items       []Item `json:"items"`
	Packs       []Item `json:"packs"`
	Vouchers    []Item `json:"vouchers"`

	Slots          int     `json:"slots"`
	PriceFactor    float64 `json:"price_factor"`
	RerollDiscount int     `json:"reroll_discount"`
}

var packNames = []string{"Arcana Pack", "Celestial Pack", "Standard Pack", "Buffoon Pack", "Spectral Pack"}

// Open builds the shop for a round. The same run id and round always give
// the same shop. mods are the skip tag modifiers collected since the last
// shop; they apply to the initial items only.
func Open(catalog *jokers.Catalog, reg *vouchers.Registry, state *vouchers.GameState, mods tags.ShopModifiers, runID string, round int) (*Shop, error) {
	rng := rand.New(rand.NewSource(jokers.SeedFrom(runID, "shop", round)))

	s := &Shop{
		RunID:          runID,
		Round:          round,
		FreeRerolls:    mods.FreeRerolls,
		Slots:          state.ShopSlots,
		PriceFactor:    state.ShopPriceFactor,
		RerollDiscount: state.RerollDiscount,
	}

	items, err := s.generateItems(catalog, rng, mods)
	if err != nil {
		return nil, err
	}
	s.Items = items
	s.Packs = s.generatePacks(rng, mods.FreeItems)
	s.Vouchers = s.generateVouchers(reg, state, rng, baseVouchers+mods.ExtraVouchers)
	return s, nil
}

func (s *Shop) generateItems(catalog *jokers.Catalog, rng *rand.Rand, mods tags.ShopModifiers) ([]Item, error) {
	items := make([]Item, 0, s.Slots)
	var taken []jokers.JokerID
	for i := 0; i < s.Slots; i++ {
		var (
			def jokers.Definition
			err error
		)
		if i == 0 && mods.JokerRarity != "" {
			def, err = catalog.PickOfRarity(rng, mods.JokerRarity, taken...)
		} else {
			def, err = catalog.WeightedPick(rng, taken...)
		}
		if err != nil {
			return nil, fmt.Errorf("shop slot %d: %w", i, err)
		}
		taken = append(taken, def.ID)

		item := Item{
			ID:    fmt.Sprintf("item_%d_%d", s.Rerolls, i),
			Kind:  KindJoker,
			Price: s.price(def.Cost),
			Joker: def.ID,
		}
		if i == 0 {
			if mods.JokerRarity != "" {
				item.Price = 0
			}
			if mods.JokerEdition != poker.Base {
				item.Edition = mods.JokerEdition
				item.Price = 0
			}
			if mods.FreeItems {
				item.Price = 0
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Shop) generatePacks(rng *rand.Rand, free bool) []Item {
	packs := make([]Item, fixedPacks)
	for i := range packs {
		size := minPackItems + rng.Intn(maxPackItems-minPackItems+1)
		packs[i] = Item{
			ID:       fmt.Sprintf("pack_%d", i),
			Kind:     KindPack,
			Price:    s.price(PackPrice(size)),
			Pack:     packNames[rng.Intn(len(packNames))],
			Size:     size,
			PackSeed: rng.Uint64(),
		}
		if free {
			packs[i].Price = 0
		}
	}
	return packs
}

func (s *Shop) generateVouchers(reg *vouchers.Registry, state *vouchers.GameState, rng *rand.Rand, count int) []Item {
	var eligible []vouchers.Definition
	for _, d := range reg.Definitions() {
		if state.CanPurchase(d.ID) {
			eligible = append(eligible, d)
		}
	}
	rng.Shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })

	out := make([]Item, 0, count)
	for i := 0; i < count && i < len(eligible); i++ {
		out = append(out, Item{
			ID:      fmt.Sprintf("voucher_%d", i),
			Kind:    KindVoucher,
			Price:   s.price(eligible[i].Cost),
			Voucher: eligible[i].ID,
		})
	}
	return out
}

// price applies the voucher discount and never goes below $1
func (s *Shop) price(base int) int {
	if s.PriceFactor <= 0 || s.PriceFactor >= 1 {
		return base
	}
	return max(int(math.Floor(float64(base)*s.PriceFactor)), 1)
}

// RerollCost is 0 while free rerolls last, then grows by $1 per reroll
func (s *Shop) RerollCost() int {
	if s.FreeRerolls > 0 {
		return 0
	}
	return max(baseRerollCost+s.Rerolls-s.RerollDiscount, 0)
}

// Reroll charges *money and replaces the joker items
func (s *Shop) Reroll(catalog *jokers.Catalog, money *int) error {
	cost := s.RerollCost()
	if *money < cost {
		return fmt.Errorf("%w: reroll costs $%d", ErrCannotAfford, cost)
	}
	rng := rand.New(rand.NewSource(jokers.SeedFrom(s.RunID, "shop", s.Round, "reroll", s.Rerolls+1)))

	next := *s
	next.Rerolls++
	items, err := next.generateItems(catalog, rng, tags.ShopModifiers{})
	if err != nil {
		return err
	}

	*money -= cost
	if s.FreeRerolls > 0 {
		next.FreeRerolls--
	}
	next.Items = items
	*s = next
	return nil
}

// Find looks an item up by id in every section
func (s *Shop) Find(id string) (Item, bool) {
	for _, section := range [][]Item{s.Items, s.Packs, s.Vouchers} {
		for _, item := range section {
			if item.ID == id {
				return item, true
			}
		}
	}
	return Item{}, false
}

// Take removes a bought item and charges *money for it
func (s *Shop) Take(id string, money *int) (Item, error) {
	item, ok := s.Find(id)
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	if *money < item.Price {
		return Item{}, fmt.Errorf("%w: %s costs $%d", ErrCannotAfford, id, item.Price)
	}
	*money -= item.Price
	s.Remove(id)
	return item, nil
}

// Remove drops an item without charging for it, for purchases paid elsewhere
func (s *Shop) Remove(id string) {
	s.Items = without(s.Items, id)
	s.Packs = without(s.Packs, id)
	s.Vouchers = without(s.Vouchers, id)
}

func without(items []Item, id string) []Item {
	out := items[:0:0]
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

func PackPrice(numItems int) int {
	return numItems + 2
}

// GrantedPack is a free pack handed out outside the shop, by a skip tag
func GrantedPack(name string, seed uint64) Item {
	size := minPackItems + 1
	if strings.HasPrefix(name, "Mega") {
		size = maxPackItems
	}
	return Item{ID: "granted_pack", Kind: KindPack, Pack: name, Size: size, PackSeed: seed}
}

// OpenPack deals the contents of a pack from its seed
func OpenPack(catalog *jokers.Catalog, item Item) (PackContents, error) {
	if item.Kind != KindPack {
		return PackContents{}, fmt.Errorf("%w: %s is not a pack", ErrItemNotFound, item.ID)
	}
	rng := rand.New(rand.NewSource(item.PackSeed))
	numItems := max(item.Size, minPackItems)
	var numJokers int
	switch {
	case strings.Contains(item.Pack, "Buffoon"):
		numJokers = numItems
	case strings.Contains(item.Pack, "Standard"):
	default:
		numJokers = rng.Intn(numItems + 1)
	}

	contents := PackContents{
		Cards:  make([]poker.Card, 0, numItems-numJokers),
		Jokers: make([]jokers.JokerID, 0, numJokers),
	}
	for i := 0; i < numItems-numJokers; i++ {
		rank := poker.Ranks[rng.Intn(len(poker.Ranks))]
		suit := poker.Suits[rng.Intn(len(poker.Suits))]
		contents.Cards = append(contents.Cards, poker.NewCard(rank, suit))
	}
	for i := 0; i < numJokers; i++ {
		def, err := catalog.WeightedPick(rng, contents.Jokers...)
		if err != nil {
			return PackContents{}, err
		}
		contents.Jokers = append(contents.Jokers, def.ID)
	}
	return contents, nil
}
