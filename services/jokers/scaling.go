package jokers

import (
	"Comodin/services/poker"
	"fmt"
	"log"
	"math"
	"strconv"
)

// EventKind is everything a scaling joker can react to
type EventKind int

const (
	EventHandPlayed EventKind = iota + 1
	EventCardDiscarded
	EventMoneyGained
	EventMoneySpent
	EventBlindCompleted
	EventShopReroll
	EventShopEntered
	EventJokerSold
	EventJokerPurchased
	EventCardDestroyed
	EventConsumableUsed
	EventPackSkipped
	EventRoundEnd
	EventAnteEnd
)

var eventNames = map[EventKind]string{
	EventHandPlayed:     "hand_played",
	EventCardDiscarded:  "card_discarded",
	EventMoneyGained:    "money_gained",
	EventMoneySpent:     "money_spent",
	EventBlindCompleted: "blind_completed",
	EventShopReroll:     "shop_reroll",
	EventShopEntered:    "shop_entered",
	EventJokerSold:      "joker_sold",
	EventJokerPurchased: "joker_purchased",
	EventCardDestroyed:  "card_destroyed",
	EventConsumableUsed: "consumable_used",
	EventPackSkipped:    "pack_skipped",
	EventRoundEnd:       "round_end",
	EventAnteEnd:        "ante_end",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseEventKind is used by the HTTP layer
func ParseEventKind(s string) (EventKind, bool) {
	for k, name := range eventNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// ScalingEvent is one game event. Rank and CardCount are set for hands played,
// Amount for money events.
type ScalingEvent struct {
	Kind      EventKind
	Rank      poker.HandRank
	CardCount int
	Amount    int
}

func HandPlayedEvent(rank poker.HandRank, cards int) ScalingEvent {
	return ScalingEvent{Kind: EventHandPlayed, Rank: rank, CardCount: cards}
}

func Event(kind EventKind) ScalingEvent {
	return ScalingEvent{Kind: kind}
}

type triggerKind int

const (
	triggerHandPlayed triggerKind = iota + 1
	triggerAnyHand
	triggerHandSize
	triggerEvent
)

// ScalingTrigger decides which events grow a scaling joker
type ScalingTrigger struct {
	kind  triggerKind
	rank  poker.HandRank
	size  int
	event EventKind
}

// TriggerHandPlayed matches hands whose best rank is exactly rank
func TriggerHandPlayed(rank poker.HandRank) ScalingTrigger {
	return ScalingTrigger{kind: triggerHandPlayed, rank: rank}
}

func TriggerAnyHandPlayed() ScalingTrigger {
	return ScalingTrigger{kind: triggerAnyHand}
}

// TriggerHandSizePlayed matches hands of exactly n cards
func TriggerHandSizePlayed(n int) ScalingTrigger {
	return ScalingTrigger{kind: triggerHandSize, size: n}
}

func TriggerCardDiscarded() ScalingTrigger  { return TriggerOn(EventCardDiscarded) }
func TriggerMoneyGained() ScalingTrigger    { return TriggerOn(EventMoneyGained) }
func TriggerBlindCompleted() ScalingTrigger { return TriggerOn(EventBlindCompleted) }
func TriggerShopReroll() ScalingTrigger     { return TriggerOn(EventShopReroll) }
func TriggerJokerSold() ScalingTrigger      { return TriggerOn(EventJokerSold) }
func TriggerCardDestroyed() ScalingTrigger  { return TriggerOn(EventCardDestroyed) }
func TriggerConsumableUsed() ScalingTrigger { return TriggerOn(EventConsumableUsed) }
func TriggerPackSkipped() ScalingTrigger    { return TriggerOn(EventPackSkipped) }

// TriggerOn matches any event of the kind
func TriggerOn(kind EventKind) ScalingTrigger {
	return ScalingTrigger{kind: triggerEvent, event: kind}
}

func (t ScalingTrigger) Matches(ev ScalingEvent) bool {
	switch t.kind {
	case triggerHandPlayed:
		return ev.Kind == EventHandPlayed && ev.Rank == t.rank
	case triggerAnyHand:
		return ev.Kind == EventHandPlayed
	case triggerHandSize:
		return ev.Kind == EventHandPlayed && ev.CardCount == t.size
	case triggerEvent:
		return ev.Kind == t.event
	}
	return false
}

func (t ScalingTrigger) String() string {
	switch t.kind {
	case triggerHandPlayed:
		return "hand_played:" + t.rank.String()
	case triggerAnyHand:
		return "any_hand_played"
	case triggerHandSize:
		return "hand_size_played:" + strconv.Itoa(t.size)
	case triggerEvent:
		return t.event.String()
	}
	return "none"
}

// ResetCondition puts a scaling joker back to its base value. The zero
// value never resets.
type ResetCondition struct {
	hand  bool
	rank  poker.HandRank
	event EventKind
}

func ResetNever() ResetCondition            { return ResetCondition{} }
func ResetOn(kind EventKind) ResetCondition { return ResetCondition{event: kind} }
func ResetOnRoundEnd() ResetCondition       { return ResetOn(EventRoundEnd) }
func ResetOnAnteEnd() ResetCondition        { return ResetOn(EventAnteEnd) }
func ResetOnMoneySpent() ResetCondition     { return ResetOn(EventMoneySpent) }
func ResetOnShopEntered() ResetCondition    { return ResetOn(EventShopEntered) }
func ResetOnJokerPurchased() ResetCondition { return ResetOn(EventJokerPurchased) }
func ResetOnHandPlayed(r poker.HandRank) ResetCondition {
	return ResetCondition{hand: true, rank: r}
}

func (r ResetCondition) Matches(ev ScalingEvent) bool {
	if r.hand {
		return ev.Kind == EventHandPlayed && ev.Rank == r.rank
	}
	return r.event != 0 && ev.Kind == r.event
}

type effectKind int

const (
	scaleChips effectKind = iota + 1
	scaleMult
	scaleMultMultiplier
	scaleMoney
	scaleCustom
)

// ScalingEffectType is what the accumulated value turns into
type ScalingEffectType struct {
	kind effectKind
	key  string
}

var (
	EffectChips          = ScalingEffectType{kind: scaleChips}
	EffectMult           = ScalingEffectType{kind: scaleMult}
	EffectMultMultiplier = ScalingEffectType{kind: scaleMultMultiplier}
	EffectMoney          = ScalingEffectType{kind: scaleMoney}
)

// EffectCustom only reports the value under key
func EffectCustom(key string) ScalingEffectType {
	return ScalingEffectType{kind: scaleCustom, key: key}
}

// ScalingJoker grows by increment every time its trigger fires. Like every
// joker it is configuration only, the current value lives in ctx.State.
type ScalingJoker struct {
	BaseJoker
	Base      float64
	Increment float64
	Trigger   ScalingTrigger
	Effect    ScalingEffectType
	Reset     ResetCondition
	Max       float64
	// TriggeredOnly jokers pay out only on hands that match their trigger
	TriggeredOnly bool
}

func NewScalingJoker(id JokerID, name, description string, rarity Rarity, base, increment float64, trigger ScalingTrigger, effect ScalingEffectType) ScalingJoker {
	return ScalingJoker{
		BaseJoker: BaseJoker{Def: Definition{
			ID:          id,
			Name:        name,
			Description: description,
			Rarity:      rarity,
			Cost:        defaultCost(rarity),
		}},
		Base:      base,
		Increment: increment,
		Trigger:   trigger,
		Effect:    effect,
		Max:       math.Inf(1),
	}
}

func (j ScalingJoker) WithMaxValue(max float64) ScalingJoker {
	j.Max = max
	return j
}

func (j ScalingJoker) WithResetCondition(r ResetCondition) ScalingJoker {
	j.Reset = r
	return j
}

// WithTriggeredOnly makes the joker score only on hands that grow it
func (j ScalingJoker) WithTriggeredOnly() ScalingJoker {
	j.TriggeredOnly = true
	return j
}

func (j ScalingJoker) WithCost(cost int) ScalingJoker {
	j.Def.Cost = cost
	return j
}

// Value is the current accumulated value, Base until the first write
func (j ScalingJoker) Value(ctx *GameContext) float64 {
	if ctx == nil || ctx.State == nil {
		return j.Base
	}
	return ctx.State.Accumulated(j.ID(), j.Base)
}

// ProcessEvent applies a reset or a trigger and reports whether the value
// changed. Resets are checked first. Copies never write.
func (j ScalingJoker) ProcessEvent(ctx *GameContext, ev ScalingEvent) bool {
	if ctx == nil || ctx.State == nil || ctx.IsCopy() {
		return false
	}
	before := j.Value(ctx)
	var after float64
	switch {
	case j.Reset.Matches(ev):
		after = j.Base
	case j.Trigger.Matches(ev):
		after = math.Min(before+j.Increment, j.Max)
	default:
		return false
	}
	if after == before {
		return false
	}
	ctx.State.UpdateFrom(j.ID(), j.Base, func(s JokerState) JokerState {
		s.AccumulatedValue = after
		return s
	})
	return true
}

func (j ScalingJoker) CalculateEffect(ctx *GameContext) JokerEffect {
	v := j.Value(ctx)
	e := NoEffect()
	switch j.Effect.kind {
	case scaleChips:
		e.Chips = int(v)
	case scaleMult:
		e.Mult = int(v)
	case scaleMultMultiplier:
		e.MultMultiplier = math.Max(v, 1)
	case scaleMoney:
		e.Money = int(v)
	case scaleCustom:
		e.Message = fmt.Sprintf("%s: %s", j.Effect.key, formatValue(v))
	}
	return e
}

func (j ScalingJoker) OnCreated(ctx *GameContext) JokerEffect {
	if ctx != nil && ctx.State != nil && !ctx.IsCopy() && !ctx.State.Has(j.ID()) {
		ctx.State.Set(j.ID(), NewJokerState(j.Base))
	}
	return NoEffect()
}

func (j ScalingJoker) OnHandPlayed(ctx *GameContext, hand poker.Hand) JokerEffect {
	ev := HandPlayedEvent(poker.BestHand(hand).Rank, len(hand.Cards))
	if j.ProcessEvent(ctx, ev) {
		log.Printf("[SCALING] %s grew to %s", j.Name(), formatValue(j.Value(ctx)))
	}
	if j.Effect.kind == scaleMoney || (j.TriggeredOnly && !j.Trigger.Matches(ev)) {
		return NoEffect()
	}
	return j.CalculateEffect(ctx)
}

func (j ScalingJoker) OnDiscard(ctx *GameContext, cards []poker.Card) JokerEffect {
	for range cards {
		j.ProcessEvent(ctx, Event(EventCardDiscarded))
	}
	return NoEffect()
}

func (j ScalingJoker) OnShopOpen(ctx *GameContext) JokerEffect {
	j.ProcessEvent(ctx, Event(EventShopEntered))
	return NoEffect()
}

// OnRoundEnd pays money scaling jokers before a round end reset
func (j ScalingJoker) OnRoundEnd(ctx *GameContext) JokerEffect {
	e := NoEffect()
	if j.Effect.kind == scaleMoney {
		e = j.CalculateEffect(ctx)
	}
	j.ProcessEvent(ctx, Event(EventRoundEnd))
	return e
}

func (j ScalingJoker) DynamicDescription(ctx *GameContext) string {
	v := formatValue(j.Value(ctx))
	switch j.Effect.kind {
	case scaleChips:
		return fmt.Sprintf("%s (Currently: +%s Chips)", j.Description(), v)
	case scaleMult:
		return fmt.Sprintf("%s (Currently: +%s Mult)", j.Description(), v)
	case scaleMultMultiplier:
		return fmt.Sprintf("%s (Currently: X%s Mult)", j.Description(), v)
	case scaleMoney:
		return fmt.Sprintf("%s (Currently: $%s)", j.Description(), v)
	}
	return fmt.Sprintf("%s (Currently: %s %s)", j.Description(), v, j.Effect.key)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ScalingPresets are the scaling jokers of the base game
func ScalingPresets() []ScalingJoker {
	return []ScalingJoker{
		NewScalingJoker(SpareTrousers, "Spare Trousers", "Gains +2 Mult if played hand is a Two Pair",
			Uncommon, 0, 2, TriggerHandPlayed(poker.HandTwoPair), EffectMult).
			WithTriggeredOnly(),
		NewScalingJoker(SquareJoker, "Square Joker", "Gains +4 Chips if played hand has exactly 4 cards",
			Common, 0, 4, TriggerHandSizePlayed(4), EffectChips),
		NewScalingJoker(Runner, "Runner", "Gains +15 Chips if played hand is a Straight",
			Common, 0, 15, TriggerHandPlayed(poker.HandStraight), EffectChips),
		NewScalingJoker(WeeJoker, "Wee Joker", "Gains +8 Chips every hand played",
			Rare, 0, 8, TriggerAnyHandPlayed(), EffectChips),
		NewScalingJoker(GreenJoker, "Green Joker", "+1 Mult per hand played, resets at end of round",
			Common, 0, 1, TriggerAnyHandPlayed(), EffectMult).
			WithResetCondition(ResetOnRoundEnd()),
		NewScalingJoker(RideTheBus, "Ride the Bus", "Gains +1 Mult per consecutive hand played",
			Common, 0, 1, TriggerAnyHandPlayed(), EffectMult),
		NewScalingJoker(CeremonialDagger, "Ceremonial Dagger", "Gains X1 Mult when a blind is completed",
			Uncommon, 1, 1, TriggerBlindCompleted(), EffectMultMultiplier),
		NewScalingJoker(Throwback, "Throwback", "X0.25 Mult for each pack skipped",
			Uncommon, 1, 0.25, TriggerPackSkipped(), EffectMultMultiplier),
		NewScalingJoker(Hologram, "Hologram", "Gains X0.25 Mult every time a card is destroyed",
			Uncommon, 1, 0.25, TriggerCardDestroyed(), EffectMultMultiplier),
		NewScalingJoker(Bull, "Bull Market", "Gains +2 Chips every time money is gained",
			Uncommon, 0, 2, TriggerMoneyGained(), EffectChips),
		NewScalingJoker(Bootstraps, "Bootstraps", "Gains +2 Mult every time money is gained",
			Uncommon, 0, 2, TriggerMoneyGained(), EffectMult),
		NewScalingJoker(FortuneTeller, "Fortune Teller", "+1 Mult per consumable used",
			Common, 0, 1, TriggerConsumableUsed(), EffectMult),
		NewScalingJoker(RedCard, "Red Card", "Gains +3 Mult when a booster pack is skipped",
			Common, 0, 3, TriggerPackSkipped(), EffectMult),
		NewScalingJoker(FlashCard, "Flash Card", "Gains +2 Mult per reroll in the shop",
			Uncommon, 0, 2, TriggerShopReroll(), EffectMult),
		NewScalingJoker(Marble, "Marble Joker", "Gains +50 Chips when a joker is sold",
			Uncommon, 0, 50, TriggerJokerSold(), EffectChips),
		NewScalingJoker(Castle, "Castle", "Gains +3 Chips per discarded card",
			Uncommon, 0, 3, TriggerCardDiscarded(), EffectChips),
		NewScalingJoker(LoyaltyCard, "Loyalty Card", "Gains +1 Mult per blind completed, up to +20",
			Uncommon, 0, 1, TriggerBlindCompleted(), EffectMult).
			WithMaxValue(20),
		NewScalingJoker(Campfire, "Campfire", "Gains X0.25 Mult for each joker sold, resets each ante",
			Rare, 1, 0.25, TriggerJokerSold(), EffectMultMultiplier).
			WithResetCondition(ResetOnAnteEnd()),
		NewScalingJoker(RocketShip, "Rocket Ship", "Earn $1 at end of round, grows by $1 per blind completed, up to $10",
			Uncommon, 1, 1, TriggerBlindCompleted(), EffectMoney).
			WithMaxValue(10),
	}
}
