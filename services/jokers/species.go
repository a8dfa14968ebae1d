package jokers

import (
	"Comodin/services/poker"
	"fmt"
)

// handJoker pays out when the played hand contains a poker hand
type handJoker struct {
	BaseJoker
	requires poker.HandRank
	always   bool
	chips    int
	mult     int
	xmult    float64
}

func (j handJoker) OnHandPlayed(_ *GameContext, hand poker.Hand) JokerEffect {
	if !j.always && !poker.Contains(hand, j.requires) {
		return NoEffect()
	}
	return JokerEffect{Chips: j.chips, Mult: j.mult, MultMultiplier: j.xmult}
}

// cardJoker pays out for every scored card that matches
type cardJoker struct {
	BaseJoker
	match func(poker.Card) bool
	chips int
	mult  int
	money int
}

func (j cardJoker) OnCardScored(_ *GameContext, card poker.Card) JokerEffect {
	if !j.match(card) {
		return NoEffect()
	}
	return JokerEffect{Chips: j.chips, Mult: j.mult, Money: j.money}
}

func suitJoker(id JokerID, name string, suit poker.Suit) cardJoker {
	desc := fmt.Sprintf("Played cards with %s suit give +3 Mult when scored", suit)
	return cardJoker{BaseJoker: def(id, name, desc, Common), match: suitIs(suit), mult: 3}
}

func suitIs(s poker.Suit) func(poker.Card) bool {
	return func(c poker.Card) bool { return c.IsSuit(s) }
}

func rankIn(ranks ...poker.Rank) func(poker.Card) bool {
	return func(c poker.Card) bool {
		if c.IsStone() {
			return false
		}
		for _, r := range ranks {
			if c.Rank == r {
				return true
			}
		}
		return false
	}
}

func isFace(c poker.Card) bool { return c.IsFace() }
func isEven(c poker.Card) bool { return c.IsEven() }
func isOdd(c poker.Card) bool  { return c.IsOdd() }

const photographFlag = "face_scored"

// photograph doubles mult on the first face card of each round
type photograph struct{ BaseJoker }

func (j photograph) OnRoundStart(ctx *GameContext) JokerEffect {
	if !ctx.IsCopy() {
		setFlag(ctx, j.ID(), photographFlag, false)
	}
	return NoEffect()
}

func (j photograph) OnCardScored(ctx *GameContext, card poker.Card) JokerEffect {
	if !card.IsFace() || ctx.State.GetOrDefault(j.ID(), 0).CustomBool(photographFlag) {
		return NoEffect()
	}
	if !ctx.IsCopy() {
		setFlag(ctx, j.ID(), photographFlag, true)
	}
	return JokerEffect{MultMultiplier: 2}
}

func setFlag(ctx *GameContext, id JokerID, key string, v bool) {
	ctx.State.Update(id, func(s JokerState) JokerState {
		// a bool always marshals
		_ = s.SetCustom(key, v)
		return s
	})
}

type businessCard struct{ BaseJoker }

func (j businessCard) OnCardScored(ctx *GameContext, card poker.Card) JokerEffect {
	if !card.IsFace() {
		return NoEffect()
	}
	if roll, ok := ctx.roll(2); !ok || roll != 0 {
		return NoEffect()
	}
	return JokerEffect{Money: 2}
}

type halfJoker struct{ BaseJoker }

func (j halfJoker) OnHandPlayed(_ *GameContext, hand poker.Hand) JokerEffect {
	if len(hand.Cards) > 4 {
		return NoEffect()
	}
	return JokerEffect{Mult: 20}
}

type banner struct{ BaseJoker }

func (j banner) OnHandPlayed(ctx *GameContext, _ poker.Hand) JokerEffect {
	return JokerEffect{Chips: 30 * max(ctx.DiscardsRemaining, 0)}
}

type abstractJoker struct{ BaseJoker }

func (j abstractJoker) OnHandPlayed(ctx *GameContext, _ poker.Hand) JokerEffect {
	return JokerEffect{Mult: 3 * len(ctx.Jokers)}
}

type blueJoker struct{ BaseJoker }

func (j blueJoker) OnHandPlayed(ctx *GameContext, _ poker.Hand) JokerEffect {
	return JokerEffect{Chips: 2 * max(ctx.CardsInDeck, 0)}
}

type stuntman struct{ BaseJoker }

func (j stuntman) OnHandPlayed(*GameContext, poker.Hand) JokerEffect {
	return JokerEffect{Chips: 250}
}

func (j stuntman) ModifyHandSize(_ *GameContext, base int) int {
	return base - 2
}

type misprint struct{ BaseJoker }

func (j misprint) OnHandPlayed(ctx *GameContext, _ poker.Hand) JokerEffect {
	roll, ok := ctx.roll(23)
	if !ok {
		return NoEffect()
	}
	x := float64(roll + 1)
	return JokerEffect{MultMultiplier: x, Message: fmt.Sprintf("Misprint: X%g Mult", x)}
}

const (
	iceCreamChips = 100
	iceCreamMelt  = 5
)

// iceCream loses chips every hand and is destroyed once it has none left
type iceCream struct{ BaseJoker }

func (j iceCream) OnCreated(ctx *GameContext) JokerEffect {
	if !ctx.IsCopy() && !ctx.State.Has(j.ID()) {
		ctx.State.Set(j.ID(), NewJokerState(iceCreamChips))
	}
	return NoEffect()
}

func (j iceCream) OnHandPlayed(ctx *GameContext, _ poker.Hand) JokerEffect {
	chips := ctx.State.Accumulated(j.ID(), iceCreamChips)
	e := JokerEffect{Chips: int(chips)}
	if ctx.IsCopy() {
		return e
	}
	left := ctx.State.UpdateFrom(j.ID(), iceCreamChips, func(s JokerState) JokerState {
		s.AccumulatedValue = max(s.AccumulatedValue-iceCreamMelt, 0)
		return s
	})
	if left.AccumulatedValue <= 0 {
		e.DestroySelf = true
		e.Message = "Ice Cream melted"
	}
	return e
}

func (j iceCream) DynamicDescription(ctx *GameContext) string {
	return fmt.Sprintf("+%s Chips, -5 Chips for every hand played", formatValue(ctx.State.Accumulated(j.ID(), iceCreamChips)))
}

type supernova struct{ BaseJoker }

func (j supernova) OnHandPlayed(ctx *GameContext, hand poker.Hand) JokerEffect {
	return JokerEffect{Mult: ctx.HandTypeCounts[poker.BestHand(hand).Rank]}
}

type stoneJoker struct{ BaseJoker }

func (j stoneJoker) OnHandPlayed(ctx *GameContext, _ poker.Hand) JokerEffect {
	return JokerEffect{Chips: 25 * ctx.StoneCardsInDeck}
}

type polishedJoker struct{ BaseJoker }

func (j polishedJoker) OnHandPlayed(ctx *GameContext, _ poker.Hand) JokerEffect {
	return JokerEffect{MultMultiplier: 1 + 0.25*float64(len(ctx.Jokers))}
}

type steelJoker struct{ BaseJoker }

func (j steelJoker) OnHandPlayed(ctx *GameContext, _ poker.Hand) JokerEffect {
	return JokerEffect{MultMultiplier: 1 + 0.2*float64(ctx.SteelCardsInDeck)}
}

// retriggerJoker replays matching scored cards once
type retriggerJoker struct {
	BaseJoker
	match func(ctx *GameContext, card poker.Card) bool
}

func (j retriggerJoker) OnCardScored(ctx *GameContext, card poker.Card) JokerEffect {
	if !j.match(ctx, card) {
		return NoEffect()
	}
	return JokerEffect{Retriggers: 1}
}

func firstScored(ctx *GameContext, _ poker.Card) bool { return ctx.CardIndex == 0 }
func scoredFace(_ *GameContext, c poker.Card) bool    { return c.IsFace() }
func finalHand(ctx *GameContext, _ poker.Card) bool   { return ctx.IsFinalHand() }

func lowRank(_ *GameContext, c poker.Card) bool {
	return rankIn(poker.Two, poker.Three, poker.Four, poker.Five)(c)
}

// roundEndJoker returns a fixed effect when the round ends
type roundEndJoker struct {
	BaseJoker
	effect JokerEffect
}

func (j roundEndJoker) OnRoundEnd(*GameContext) JokerEffect {
	return j.effect
}

type delayedGratification struct{ BaseJoker }

func (j delayedGratification) OnRoundEnd(ctx *GameContext) JokerEffect {
	if ctx.DiscardsUsed > 0 || ctx.DiscardsRemaining <= 0 {
		return NoEffect()
	}
	return JokerEffect{Money: 2 * ctx.DiscardsRemaining}
}

// copyJoker replays the ability of another slot
type copyJoker struct {
	BaseJoker
	target func(ctx *GameContext, pos int) int
}

func rightNeighbor(_ *GameContext, pos int) int { return pos + 1 }
func leftmost(*GameContext, int) int            { return 0 }

// resolveCopy follows copiers until a real joker is found. A chain longer
// than the line-up is a cycle and copies nothing.
func resolveCopy(ctx *GameContext, from int, target func(*GameContext, int) int) (Joker, int, bool) {
	pos := from
	for steps := 0; steps < len(ctx.Jokers); steps++ {
		next := target(ctx, pos)
		j, ok := ctx.JokerAt(next)
		if !ok || next == pos {
			return nil, 0, false
		}
		c, isCopier := j.(copyJoker)
		if !isCopier {
			return j, next, true
		}
		pos, target = next, c.target
	}
	return nil, 0, false
}

func (j copyJoker) copy(ctx *GameContext, hook func(Joker) JokerEffect) JokerEffect {
	target, pos, ok := resolveCopy(ctx, ctx.Position, j.target)
	if !ok {
		return NoEffect()
	}
	saved := ctx.Position
	ctx.Position = pos
	ctx.copyDepth++
	defer func() {
		ctx.copyDepth--
		ctx.Position = saved
	}()
	return hook(target)
}

func (j copyJoker) OnHandPlayed(ctx *GameContext, hand poker.Hand) JokerEffect {
	return j.copy(ctx, func(t Joker) JokerEffect { return t.OnHandPlayed(ctx, hand) })
}

func (j copyJoker) OnCardScored(ctx *GameContext, card poker.Card) JokerEffect {
	return j.copy(ctx, func(t Joker) JokerEffect { return t.OnCardScored(ctx, card) })
}

func (j copyJoker) OnDiscard(ctx *GameContext, cards []poker.Card) JokerEffect {
	return j.copy(ctx, func(t Joker) JokerEffect { return t.OnDiscard(ctx, cards) })
}

func (j copyJoker) OnBlindStart(ctx *GameContext) JokerEffect {
	return j.copy(ctx, func(t Joker) JokerEffect { return t.OnBlindStart(ctx) })
}

func (j copyJoker) OnRoundEnd(ctx *GameContext) JokerEffect {
	return j.copy(ctx, func(t Joker) JokerEffect { return t.OnRoundEnd(ctx) })
}

func (j copyJoker) ModifyChips(ctx *GameContext, base int) int {
	out := base
	j.copy(ctx, func(t Joker) JokerEffect {
		out = t.ModifyChips(ctx, base)
		return NoEffect()
	})
	return out
}

func (j copyJoker) ModifyMult(ctx *GameContext, base int) int {
	out := base
	j.copy(ctx, func(t Joker) JokerEffect {
		out = t.ModifyMult(ctx, base)
		return NoEffect()
	})
	return out
}

// luchador silences the jokers to its right on the last hand of a round
type luchador struct{ BaseJoker }

func (j luchador) OnHandPlayed(ctx *GameContext, _ poker.Hand) JokerEffect {
	if !ctx.IsFinalHand() {
		return NoEffect()
	}
	return JokerEffect{SuppressDownstream: true, Message: "Luchador: jokers to the right are silenced"}
}

// conditionalJoker returns effect whenever its condition holds on a hand
type conditionalJoker struct {
	BaseJoker
	when   AdvancedCondition
	effect JokerEffect
}

func (j conditionalJoker) OnHandPlayed(ctx *GameContext, _ poker.Hand) JokerEffect {
	if !Evaluate(j.when, NewEvaluationContext(ctx, j.ID())) {
		return NoEffect()
	}
	return j.effect
}

func mysticSummit() conditionalJoker {
	return conditionalJoker{
		BaseJoker: def(MysticSummit, "Mystic Summit", "+15 Mult when 0 discards remaining", Common),
		when: Custom{Name: "no_discards_left", Fn: func(ec *EvaluationContext) bool {
			return ec.Game.DiscardsRemaining == 0
		}},
		effect: JokerEffect{Mult: 15},
	}
}

func acrobat() conditionalJoker {
	return conditionalJoker{
		BaseJoker: def(Acrobat, "Acrobat", "X3 Mult on final hand of round", Uncommon),
		when:      And(DuringStage(StageBlind), FinalHand{}),
		effect:    JokerEffect{MultMultiplier: 3},
	}
}

// cardSharp reads the history of this round, recorded after each hand
func cardSharp() conditionalJoker {
	return conditionalJoker{
		BaseJoker: def(CardSharp, "Card Sharp", "X3 Mult if played poker hand has already been played this round", Uncommon),
		when:      HandRepeatedThisRound{},
		effect:    JokerEffect{MultMultiplier: 3},
	}
}
