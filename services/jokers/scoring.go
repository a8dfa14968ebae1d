package jokers

import (
	"Comodin/services/poker"
	"fmt"
	"log"
)

// MaxRetriggers caps how many extra times a single card can be scored
const MaxRetriggers = 10

const sellBonusKey = "sell_bonus"

// Outcome is everything the jokers did during one hook phase or action
type Outcome struct {
	Effect    JokerEffect `json:"effect"`
	Money     int         `json:"money"`
	Destroyed []JokerID   `json:"destroyed,omitempty"`
	Messages  []string    `json:"messages,omitempty"`
	Triggered []bool      `json:"triggered"`
}

// Merge folds a later phase into o. Triggered marks are OR-ed slot by slot.
func (o Outcome) Merge(later Outcome) Outcome {
	merged := Outcome{
		Effect:    Combine(o.Effect, later.Effect),
		Money:     o.Money + later.Money,
		Destroyed: append(append([]JokerID(nil), o.Destroyed...), later.Destroyed...),
		Messages:  append(append([]string(nil), o.Messages...), later.Messages...),
		Triggered: make([]bool, max(len(o.Triggered), len(later.Triggered))),
	}
	for i := range merged.Triggered {
		merged.Triggered[i] = (i < len(o.Triggered) && o.Triggered[i]) || (i < len(later.Triggered) && later.Triggered[i])
	}
	return merged
}

// ScoreResult is the outcome of playing one hand
type ScoreResult struct {
	Outcome
	Evaluation poker.Evaluation `json:"evaluation"`
	Score      Score            `json:"score"`
	Total      int64            `json:"total"`
}

// pass accumulates effects in slot order
type pass struct {
	ctx     *GameContext
	score   Score
	outcome Outcome
}

func newPass(ctx *GameContext) *pass {
	return &pass{
		ctx: ctx,
		outcome: Outcome{
			Effect:    NoEffect(),
			Triggered: make([]bool, len(ctx.Jokers)),
		},
	}
}

// phase invokes hook on every joker left to right. A joker asking to
// suppress downstream ends the phase. Returns the retriggers requested.
func (p *pass) phase(hook func(j Joker) JokerEffect) int {
	retriggers := 0
	for i, j := range p.ctx.Jokers {
		p.ctx.Position = i
		e := hook(j)
		if e.IsIdentity() && e.Message == "" {
			continue
		}
		p.outcome.Triggered[i] = true
		p.score = p.score.Apply(e)
		p.absorb(j, e)
		retriggers += e.Retriggers
		if e.SuppressDownstream {
			break
		}
	}
	return retriggers
}

func (p *pass) absorb(j Joker, e JokerEffect) {
	p.outcome.Effect = Combine(p.outcome.Effect, e)
	p.outcome.Money += e.Money
	if e.Message != "" {
		p.outcome.Messages = append(p.outcome.Messages, e.Message)
	}
	if e.DestroySelf {
		p.outcome.Destroyed = append(p.outcome.Destroyed, j.ID())
	}
	p.outcome.Destroyed = append(p.outcome.Destroyed, e.DestroyOthers...)
	if e.SellValueDelta != 0 && p.ctx.State != nil {
		addSellBonus(p.ctx.State, j.ID(), e.SellValueDelta)
	}
}

// finish pays out money, records triggers and drops destroyed jokers.
// Triggered is indexed by the slots left after the drops.
func (p *pass) finish() Outcome {
	ctx := p.ctx
	if ctx.History != nil {
		for i, triggered := range p.outcome.Triggered {
			if triggered && i < len(ctx.Jokers) {
				ctx.History.RecordTrigger(ctx.Jokers[i].ID())
			}
		}
	}
	for _, id := range p.outcome.Destroyed {
		for slot, j := range ctx.Jokers {
			if j.ID() == id {
				log.Printf("[SCORING] %s destroyed", j.Name())
				RemoveJoker(ctx, slot)
				if slot < len(p.outcome.Triggered) {
					p.outcome.Triggered = append(p.outcome.Triggered[:slot], p.outcome.Triggered[slot+1:]...)
				}
				Notify(ctx, Event(EventCardDestroyed))
				break
			}
		}
	}
	if p.outcome.Money != 0 {
		ctx.Money += p.outcome.Money
		if p.outcome.Money > 0 {
			Notify(ctx, ScalingEvent{Kind: EventMoneyGained, Amount: p.outcome.Money})
		}
	}
	return p.outcome
}

func cardEffect(c poker.Card) JokerEffect {
	e := JokerEffect{Chips: c.Chips()}
	switch c.Enhancement {
	case poker.MultCard:
		e.Mult += 4
	case poker.Glass:
		e.MultMultiplier = 2
	}
	switch c.Edition {
	case poker.Holographic:
		e.Mult += 10
	case poker.Polychrome:
		e.MultMultiplier = e.Multiplier() * 1.5
	}
	return e
}

// ScoreHand plays hand: base values from the hand type, every scoring card
// with its retriggers, then every joker's hand effect. Effects are applied
// one at a time in slot order. Afterwards the hand counts as played.
func ScoreHand(ctx *GameContext, hand poker.Hand) ScoreResult {
	ctx.Stage = StageBlind
	ctx.Hand = hand
	eval := poker.BestHand(hand)
	if ctx.HandTypeCounts == nil {
		ctx.HandTypeCounts = make(map[poker.HandRank]int)
	}
	ctx.HandTypeCounts[eval.Rank]++

	chips, mult := eval.Level.Chips, eval.Level.Mult
	for i, j := range ctx.Jokers {
		ctx.Position = i
		chips = j.ModifyChips(ctx, chips)
		mult = j.ModifyMult(ctx, mult)
	}

	p := newPass(ctx)
	p.score = Score{Chips: float64(chips), Mult: float64(mult)}

	for idx, card := range eval.Scoring {
		ctx.CardIndex = idx
		times := 1
		for n := 0; n < times; n++ {
			p.score = p.score.Apply(cardEffect(card))
			retriggers := p.phase(func(j Joker) JokerEffect { return j.OnCardScored(ctx, card) })
			if n == 0 {
				times += min(retriggers, MaxRetriggers)
			}
		}
	}
	ctx.CardIndex = 0

	p.phase(func(j Joker) JokerEffect { return j.OnHandPlayed(ctx, hand) })

	ctx.Chips = int(p.score.Chips)
	ctx.Mult = int(p.score.Mult)
	ctx.HandsPlayed++
	if ctx.HandsRemaining > 0 {
		ctx.HandsRemaining--
	}
	if ctx.History != nil {
		ctx.History.RecordHand(eval.Rank)
	}

	res := ScoreResult{
		Evaluation: eval,
		Score:      p.score,
		Total:      p.score.Total(),
	}
	res.Outcome = p.finish()
	return res
}

// StartRound clears the round counters and runs OnRoundStart
func StartRound(ctx *GameContext) Outcome {
	ctx.Stage = StagePreBlind
	ctx.HandsPlayed = 0
	ctx.DiscardsUsed = 0
	if ctx.History != nil {
		ctx.History.StartRound(ctx.Round, ctx.Ante)
	}
	p := newPass(ctx)
	p.phase(func(j Joker) JokerEffect { return j.OnRoundStart(ctx) })
	return p.finish()
}

func StartBlind(ctx *GameContext) Outcome {
	ctx.Stage = StageBlind
	p := newPass(ctx)
	p.phase(func(j Joker) JokerEffect { return j.OnBlindStart(ctx) })
	return p.finish()
}

func Discard(ctx *GameContext, cards []poker.Card) Outcome {
	ctx.Stage = StageBlind
	ctx.Discarded = cards
	ctx.DiscardsUsed++
	if ctx.DiscardsRemaining > 0 {
		ctx.DiscardsRemaining--
	}
	if ctx.History != nil {
		ctx.History.RecordDiscard(len(cards))
	}
	p := newPass(ctx)
	p.phase(func(j Joker) JokerEffect { return j.OnDiscard(ctx, cards) })
	return p.finish()
}

// EndRound runs OnRoundEnd, where economy jokers pay out
func EndRound(ctx *GameContext) Outcome {
	ctx.Stage = StagePostBlind
	p := newPass(ctx)
	p.phase(func(j Joker) JokerEffect { return j.OnRoundEnd(ctx) })
	return p.finish()
}

func OpenShop(ctx *GameContext) Outcome {
	ctx.Stage = StageShop
	p := newPass(ctx)
	p.phase(func(j Joker) JokerEffect { return j.OnShopOpen(ctx) })
	return p.finish()
}

// EventProcessor is implemented by jokers that react to game events
type EventProcessor interface {
	ProcessEvent(ctx *GameContext, ev ScalingEvent) bool
}

// Notify forwards an event to every joker that reacts to events and returns
// how many changed
func Notify(ctx *GameContext, ev ScalingEvent) int {
	changed := 0
	for i, j := range ctx.Jokers {
		ep, ok := j.(EventProcessor)
		if !ok {
			continue
		}
		ctx.Position = i
		if ep.ProcessEvent(ctx, ev) {
			changed++
		}
	}
	return changed
}

// AddJoker puts j in the rightmost slot. maxSlots <= 0 means no limit.
func AddJoker(ctx *GameContext, j Joker, maxSlots int) (Outcome, error) {
	if maxSlots > 0 && len(ctx.Jokers) >= maxSlots {
		return Outcome{}, fmt.Errorf("%w: %d of %d used", ErrSlotsFull, len(ctx.Jokers), maxSlots)
	}
	ctx.Jokers = append(ctx.Jokers, j)
	ctx.Position = len(ctx.Jokers) - 1
	e := Combine(j.OnCreated(ctx), j.OnActivated(ctx))
	out := Outcome{Effect: e, Money: e.Money, Triggered: make([]bool, len(ctx.Jokers))}
	ctx.Money += e.Money
	return out, nil
}

// RemoveJoker takes the joker out of its slot. Its state goes with it unless
// another joker of the same species is still owned.
func RemoveJoker(ctx *GameContext, slot int) (Joker, Outcome, error) {
	j, ok := ctx.JokerAt(slot)
	if !ok {
		return nil, Outcome{}, fmt.Errorf("%w: %d", ErrNoSuchSlot, slot)
	}
	ctx.Position = slot
	e := Combine(j.OnDeactivated(ctx), j.OnCleanup(ctx))
	ctx.Jokers = append(ctx.Jokers[:slot:slot], ctx.Jokers[slot+1:]...)
	if ctx.State != nil && ctx.CountJokers(j.ID()) == 0 {
		ctx.State.Remove(j.ID())
	}
	ctx.Money += e.Money
	return j, Outcome{Effect: e, Money: e.Money, Triggered: make([]bool, len(ctx.Jokers))}, nil
}

// SellValue is half the cost, at least 1, plus what the joker gained
func SellValue(ctx *GameContext, j Joker) int {
	value := max(j.Cost()/2, 1)
	if ctx.State != nil {
		value += sellBonus(ctx.State, j.ID())
	}
	return value
}

// SellJoker removes the joker, pays its sell value and notifies the others
func SellJoker(ctx *GameContext, slot int) (int, error) {
	j, ok := ctx.JokerAt(slot)
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrNoSuchSlot, slot)
	}
	value := SellValue(ctx, j)
	if _, _, err := RemoveJoker(ctx, slot); err != nil {
		return 0, err
	}
	ctx.Money += value
	Notify(ctx, Event(EventJokerSold))
	return value, nil
}

// HandSize folds every joker's hand size modifier over base
func HandSize(ctx *GameContext, base int) int {
	for i, j := range ctx.Jokers {
		ctx.Position = i
		base = j.ModifyHandSize(ctx, base)
	}
	return max(base, 1)
}

func Discards(ctx *GameContext, base int) int {
	for i, j := range ctx.Jokers {
		ctx.Position = i
		base = j.ModifyDiscards(ctx, base)
	}
	return max(base, 0)
}

func sellBonus(store *StateStore, id JokerID) int {
	var bonus int
	st := store.GetOrDefault(id, 0)
	if ok, err := st.Custom(sellBonusKey, &bonus); !ok || err != nil {
		return 0
	}
	return bonus
}

func addSellBonus(store *StateStore, id JokerID, delta int) {
	bonus := sellBonus(store, id) + delta
	store.Update(id, func(s JokerState) JokerState {
		if err := s.SetCustom(sellBonusKey, bonus); err != nil {
			log.Printf("[SCORING] %v", err)
		}
		return s
	})
}
