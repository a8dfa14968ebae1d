package jokers

import (
	"Comodin/services/poker"
	"fmt"
	"sort"
	"sync"
)

// Factory builds a fresh joker of one species
type Factory func() Joker

// Catalog is the single dispatch point from JokerID to behaviour
type Catalog struct {
	mu        sync.RWMutex
	factories map[JokerID]Factory
	defs      map[JokerID]Definition
}

// NewCatalog returns a catalogue holding every built-in species
func NewCatalog() *Catalog {
	c := &Catalog{
		factories: make(map[JokerID]Factory),
		defs:      make(map[JokerID]Definition),
	}
	for _, f := range builtinFactories() {
		if err := c.Register(f); err != nil {
			// Built-ins are static, a failure here is a programming error
			panic(err)
		}
	}
	return c
}

// Register adds a species. Ids must be valid and unique.
func (c *Catalog) Register(f Factory) error {
	if f == nil {
		return fmt.Errorf("nil joker factory")
	}
	j := f()
	id := j.ID()
	if !id.IsValid() {
		return fmt.Errorf("%w: %d", ErrUnknownJoker, int(id))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.factories[id]; ok {
		return fmt.Errorf("joker %s already registered", id)
	}
	c.factories[id] = f
	c.defs[id] = Definition{
		ID:          id,
		Name:        j.Name(),
		Description: j.Description(),
		Rarity:      j.Rarity(),
		Cost:        j.Cost(),
	}
	return nil
}

func (c *Catalog) New(id JokerID) (Joker, error) {
	c.mu.RLock()
	f, ok := c.factories[id]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJoker, id)
	}
	return f(), nil
}

// NewAll builds a joker line-up, failing on the first unknown id
func (c *Catalog) NewAll(ids []JokerID) ([]Joker, error) {
	out := make([]Joker, 0, len(ids))
	for _, id := range ids {
		j, err := c.New(id)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, nil
}

func (c *Catalog) Definition(id JokerID) (Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.defs[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownJoker, id)
	}
	return def, nil
}

// Definitions is sorted by id
func (c *Catalog) Definitions() []Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Definition, 0, len(c.defs))
	for _, def := range c.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

func (c *Catalog) IsRegistered(id JokerID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.factories[id]
	return ok
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.factories)
}

// WeightedPick draws a species by rarity weight, skipping excluded ids
func (c *Catalog) WeightedPick(rng RNG, exclude ...JokerID) (Definition, error) {
	if rng == nil {
		return Definition{}, fmt.Errorf("weighted pick needs an rng")
	}
	skip := make(map[JokerID]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	candidates := make([]Definition, 0)
	totalWeight := 0
	for _, def := range c.Definitions() {
		if skip[def.ID] || RarityWeights[def.Rarity] <= 0 {
			continue
		}
		candidates = append(candidates, def)
		totalWeight += RarityWeights[def.Rarity]
	}
	if totalWeight == 0 {
		return Definition{}, fmt.Errorf("no jokers left to pick")
	}

	randomWeight := rng.Intn(totalWeight)
	for _, def := range candidates {
		w := RarityWeights[def.Rarity]
		if randomWeight < w {
			return def, nil
		}
		randomWeight -= w
	}
	return candidates[len(candidates)-1], nil
}

// PickOfRarity draws uniformly among the species of one rarity
func (c *Catalog) PickOfRarity(rng RNG, rarity Rarity, exclude ...JokerID) (Definition, error) {
	if rng == nil {
		return Definition{}, fmt.Errorf("rarity pick needs an rng")
	}
	skip := make(map[JokerID]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	var candidates []Definition
	for _, def := range c.Definitions() {
		if def.Rarity == rarity && !skip[def.ID] {
			candidates = append(candidates, def)
		}
	}
	if len(candidates) == 0 {
		return Definition{}, fmt.Errorf("no %s jokers to pick", rarity)
	}
	return candidates[rng.Intn(len(candidates))], nil
}

func defaultCost(r Rarity) int {
	switch r {
	case Uncommon:
		return 6
	case Rare:
		return 8
	case Legendary:
		return 20
	}
	return 4
}

func def(id JokerID, name, description string, rarity Rarity) BaseJoker {
	return BaseJoker{Def: Definition{
		ID:          id,
		Name:        name,
		Description: description,
		Rarity:      rarity,
		Cost:        defaultCost(rarity),
	}}
}

func builtinFactories() []Factory {
	fs := []Factory{
		func() Joker {
			return handJoker{BaseJoker: def(TheJoker, "Joker", "+4 Mult", Common), always: true, mult: 4}
		},
		func() Joker {
			return handJoker{BaseJoker: def(JollyJoker, "Jolly Joker", "+8 Mult if played hand contains a Pair", Common), requires: poker.HandPair, mult: 8}
		},
		func() Joker {
			return handJoker{BaseJoker: def(ZanyJoker, "Zany Joker", "+12 Mult if played hand contains a Three of a Kind", Common), requires: poker.HandThreeOfAKind, mult: 12}
		},
		func() Joker {
			return handJoker{BaseJoker: def(MadJoker, "Mad Joker", "+10 Mult if played hand contains a Two Pair", Common), requires: poker.HandTwoPair, mult: 10}
		},
		func() Joker {
			return handJoker{BaseJoker: def(CrazyJoker, "Crazy Joker", "+12 Mult if played hand contains a Straight", Common), requires: poker.HandStraight, mult: 12}
		},
		func() Joker {
			return handJoker{BaseJoker: def(DrollJoker, "Droll Joker", "+10 Mult if played hand contains a Flush", Common), requires: poker.HandFlush, mult: 10}
		},
		func() Joker {
			return handJoker{BaseJoker: def(SlyJoker, "Sly Joker", "+50 Chips if played hand contains a Pair", Common), requires: poker.HandPair, chips: 50}
		},
		func() Joker {
			return handJoker{BaseJoker: def(WilyJoker, "Wily Joker", "+100 Chips if played hand contains a Three of a Kind", Common), requires: poker.HandThreeOfAKind, chips: 100}
		},
		func() Joker {
			return handJoker{BaseJoker: def(CleverJoker, "Clever Joker", "+80 Chips if played hand contains a Two Pair", Common), requires: poker.HandTwoPair, chips: 80}
		},
		func() Joker {
			return handJoker{BaseJoker: def(DeviousJoker, "Devious Joker", "+100 Chips if played hand contains a Straight", Common), requires: poker.HandStraight, chips: 100}
		},
		func() Joker {
			return handJoker{BaseJoker: def(CraftyJoker, "Crafty Joker", "+80 Chips if played hand contains a Flush", Common), requires: poker.HandFlush, chips: 80}
		},
		func() Joker {
			return halfJoker{def(HalfJoker, "Half Joker", "+20 Mult if played hand contains 4 or fewer cards", Common)}
		},
		func() Joker {
			return banner{def(Banner, "Banner", "+30 Chips for each remaining discard", Common)}
		},
		func() Joker { return mysticSummit() },
		func() Joker {
			return abstractJoker{def(AbstractJoker, "Abstract Joker", "+3 Mult for each Joker card", Common)}
		},
		func() Joker {
			return blueJoker{def(BlueJoker, "Blue Joker", "+2 Chips for each remaining card in deck", Common)}
		},
		func() Joker {
			return stuntman{def(Stuntman, "Stuntman", "+250 Chips, -2 hand size", Rare)}
		},
		func() Joker { return misprint{def(Misprint, "Misprint", "X1 to X23 Mult", Common)} },
		func() Joker {
			return iceCream{def(IceCream, "Ice Cream", "+100 Chips, -5 Chips for every hand played", Common)}
		},
		func() Joker {
			return supernova{def(Supernova, "Supernova", "Adds the number of times poker hand has been played this run to Mult", Common)}
		},
		func() Joker {
			return stoneJoker{def(StoneJoker, "Stone Joker", "+25 Chips for each Stone Card in your full deck", Uncommon)}
		},

		func() Joker { return suitJoker(GreedyJoker, "Greedy Joker", poker.Diamonds) },
		func() Joker { return suitJoker(LustyJoker, "Lusty Joker", poker.Hearts) },
		func() Joker { return suitJoker(WrathfulJoker, "Wrathful Joker", poker.Spades) },
		func() Joker { return suitJoker(GluttonousJoker, "Gluttonous Joker", poker.Clubs) },
		func() Joker {
			return cardJoker{BaseJoker: def(ScaryFace, "Scary Face", "Played face cards give +30 Chips when scored", Common), match: isFace, chips: 30}
		},
		func() Joker {
			return cardJoker{BaseJoker: def(Smiley, "Smiley Face", "Played face cards give +5 Mult when scored", Common), match: isFace, mult: 5}
		},
		func() Joker {
			return cardJoker{BaseJoker: def(EvenSteven, "Even Steven", "Played cards with even rank give +4 Mult when scored", Common), match: isEven, mult: 4}
		},
		func() Joker {
			return cardJoker{BaseJoker: def(OddTodd, "Odd Todd", "Played cards with odd rank give +31 Chips when scored", Common), match: isOdd, chips: 31}
		},
		func() Joker {
			return cardJoker{BaseJoker: def(Scholar, "Scholar", "Played Aces give +20 Chips and +4 Mult when scored", Common), match: rankIn("A"), chips: 20, mult: 4}
		},
		func() Joker {
			return cardJoker{BaseJoker: def(Fibonacci, "Fibonacci", "Each played Ace, 2, 3, 5, or 8 gives +8 Mult when scored", Uncommon), match: rankIn("A", "2", "3", "5", "8"), mult: 8}
		},
		func() Joker {
			return cardJoker{BaseJoker: def(WalkieTalkie, "Walkie Talkie", "Each played 10 or 4 gives +10 Chips and +4 Mult when scored", Common), match: rankIn("10", "4"), chips: 10, mult: 4}
		},
		func() Joker {
			return photograph{def(Photograph, "Photograph", "First played face card gives X2 Mult when scored", Common)}
		},
		func() Joker {
			return businessCard{def(BusinessCard, "Business Card", "Played face cards have a 1 in 2 chance to give $2 when scored", Common)}
		},
		func() Joker {
			return cardJoker{BaseJoker: def(Arrowhead, "Arrowhead", "Played cards with Spade suit give +50 Chips when scored", Uncommon), match: suitIs(poker.Spades), chips: 50}
		},
		func() Joker {
			return cardJoker{BaseJoker: def(RoughGem, "Rough Gem", "Played cards with Diamond suit earn $1 when scored", Uncommon), match: suitIs(poker.Diamonds), money: 1}
		},

		func() Joker {
			return handJoker{BaseJoker: def(TheDuo, "The Duo", "X2 Mult if played hand contains a Pair", Rare), requires: poker.HandPair, xmult: 2}
		},
		func() Joker {
			return handJoker{BaseJoker: def(TheTrio, "The Trio", "X3 Mult if played hand contains a Three of a Kind", Rare), requires: poker.HandThreeOfAKind, xmult: 3}
		},
		func() Joker {
			return handJoker{BaseJoker: def(TheFamily, "The Family", "X4 Mult if played hand contains a Four of a Kind", Rare), requires: poker.HandFourOfAKind, xmult: 4}
		},
		func() Joker {
			return handJoker{BaseJoker: def(TheOrder, "The Order", "X3 Mult if played hand contains a Straight", Rare), requires: poker.HandStraight, xmult: 3}
		},
		func() Joker {
			return handJoker{BaseJoker: def(TheTribe, "The Tribe", "X2 Mult if played hand contains a Flush", Rare), requires: poker.HandFlush, xmult: 2}
		},
		func() Joker {
			return polishedJoker{def(PolishedJoker, "Polished Joker", "X0.25 Mult for each Joker owned", Uncommon)}
		},
		func() Joker {
			return steelJoker{def(SteelJoker, "Steel Joker", "Gives X0.2 Mult for each Steel Card in your full deck", Uncommon)}
		},
		func() Joker {
			return handJoker{BaseJoker: def(Cavendish, "Cavendish", "X3 Mult", Common), always: true, xmult: 3}
		},

		func() Joker {
			return retriggerJoker{BaseJoker: def(HangingChad, "Hanging Chad", "Retrigger first played card used in scoring", Common), match: firstScored}
		},
		func() Joker {
			return retriggerJoker{BaseJoker: def(SockAndBuskin, "Sock and Buskin", "Retrigger all played face cards", Uncommon), match: scoredFace}
		},
		func() Joker {
			return retriggerJoker{BaseJoker: def(Hack, "Hack", "Retrigger each played 2, 3, 4, or 5", Uncommon), match: lowRank}
		},
		func() Joker {
			return retriggerJoker{BaseJoker: def(Dusk, "Dusk", "Retrigger all played cards in final hand of round", Uncommon), match: finalHand}
		},

		func() Joker {
			return roundEndJoker{BaseJoker: def(Egg, "Egg", "Gains $3 of sell value at end of round", Common), effect: JokerEffect{SellValueDelta: 3}}
		},
		func() Joker {
			return roundEndJoker{BaseJoker: def(GoldenJoker, "Golden Joker", "Earn $4 at end of round", Common), effect: JokerEffect{Money: 4}}
		},
		func() Joker {
			return delayedGratification{def(DelayedGratification, "Delayed Gratification", "Earn $2 per discard if no discards are used by end of the round", Common)}
		},
		func() Joker {
			return roundEndJoker{BaseJoker: def(GiftCard, "Gift Card", "Add $1 of sell value at end of round", Uncommon), effect: JokerEffect{SellValueDelta: 1}}
		},

		func() Joker {
			return copyJoker{BaseJoker: def(Blueprint, "Blueprint", "Copies ability of Joker to the right", Rare), target: rightNeighbor}
		},
		func() Joker {
			return copyJoker{BaseJoker: def(Brainstorm, "Brainstorm", "Copies the ability of leftmost Joker", Rare), target: leftmost}
		},
		func() Joker {
			return luchador{def(Luchador, "Luchador", "Silences every Joker to its right during the final hand of the round", Uncommon)}
		},
		func() Joker { return acrobat() },
		func() Joker { return cardSharp() },
	}
	for _, preset := range ScalingPresets() {
		preset := preset
		fs = append(fs, func() Joker { return preset })
	}
	return fs
}
