package jokers

import (
	"Comodin/services/poker"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/cespare/xxhash/v2"
)

// AdvancedCondition is a boolean predicate over the game used by
// condition-driven jokers. Build conditions with the types below and run
// them through Evaluate.
type AdvancedCondition interface {
	// IsExpensive conditions are worth looking up in the cache
	IsExpensive() bool
	// IsCacheable is false when the result depends on per-hand counters
	IsCacheable() bool

	writeKey(d *xxhash.Digest)
	eval(ec *EvaluationContext) bool
}

// EvaluationContext carries everything a condition may read
type EvaluationContext struct {
	Game    *GameContext
	Joker   JokerID
	History *GameHistory
	Cache   *ConditionCache
}

// NewEvaluationContext wires the history and cache held by the game context
func NewEvaluationContext(ctx *GameContext, joker JokerID) *EvaluationContext {
	return &EvaluationContext{
		Game:    ctx,
		Joker:   joker,
		History: ctx.History,
		Cache:   ctx.Conditions,
	}
}

// Evaluate runs c, consulting the cache for expensive cacheable conditions.
// A nil condition never holds.
func Evaluate(c AdvancedCondition, ec *EvaluationContext) bool {
	if c == nil || ec == nil {
		return false
	}
	if ec.Cache == nil || !c.IsExpensive() || !c.IsCacheable() {
		return c.eval(ec)
	}
	key := cacheKey{condition: ConditionHash(c), context: contextHash(ec)}
	if result, ok := ec.Cache.lookup(key); ok {
		return result
	}
	result := c.eval(ec)
	ec.Cache.store(key, result)
	return result
}

// ConditionHash is a structural hash of the whole condition tree
func ConditionHash(c AdvancedCondition) uint64 {
	d := xxhash.New()
	c.writeKey(d)
	return d.Sum64()
}

func writeTag(d *xxhash.Digest, tag string) {
	d.WriteString(tag)
	d.Write([]byte{0})
}

func writeInt(d *xxhash.Digest, v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	d.Write(buf[:])
}

func writeFloat(d *xxhash.Digest, v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	d.Write(buf[:])
}

// contextHash covers every input a cacheable condition can read, so a hit is
// only possible when the answer cannot have changed
func contextHash(ec *EvaluationContext) uint64 {
	d := xxhash.New()
	writeInt(d, int64(ec.Joker))
	g := ec.Game
	if g != nil {
		writeInt(d, int64(g.Round))
		writeInt(d, int64(g.Ante))
		writeInt(d, int64(g.Stage))
		writeInt(d, int64(g.HandsPlayed))
		writeInt(d, int64(g.HandsRemaining))
		writeInt(d, int64(g.DiscardsUsed))
		writeInt(d, int64(g.Money))
		for _, j := range g.Jokers {
			writeInt(d, int64(j.ID()))
		}
		writeTag(d, "hand")
		for _, c := range g.Hand.Cards {
			writeInt(d, int64(c.ID))
			d.WriteString(c.String())
		}
		if g.State != nil {
			writeInt(d, int64(g.State.Version()))
		}
	}
	if ec.History != nil {
		writeInt(d, int64(ec.History.Version()))
	}
	return d.Sum64()
}

type constCondition bool

var (
	Always AdvancedCondition = constCondition(true)
	Never  AdvancedCondition = constCondition(false)
)

func (constCondition) IsExpensive() bool { return false }
func (constCondition) IsCacheable() bool { return true }

func (c constCondition) writeKey(d *xxhash.Digest) {
	if c {
		writeTag(d, "always")
		return
	}
	writeTag(d, "never")
}

func (c constCondition) eval(*EvaluationContext) bool { return bool(c) }

// AccumulatedKey makes the state conditions read AccumulatedValue instead of
// a custom field
const AccumulatedKey = "accumulated"

func stateOf(ec *EvaluationContext, id JokerID) (JokerState, bool) {
	if ec.Game == nil || ec.Game.State == nil {
		return JokerState{}, false
	}
	return ec.Game.State.Get(id)
}

// JokerStateEquals compares a state field with Expected by JSON value
type JokerStateEquals struct {
	Joker    JokerID
	Key      string
	Expected any
}

func (JokerStateEquals) IsExpensive() bool { return true }
func (JokerStateEquals) IsCacheable() bool { return true }

func (c JokerStateEquals) writeKey(d *xxhash.Digest) {
	writeTag(d, "state_eq")
	writeInt(d, int64(c.Joker))
	writeTag(d, c.Key)
	expected, _ := json.Marshal(c.Expected)
	d.Write(expected)
}

func (c JokerStateEquals) eval(ec *EvaluationContext) bool {
	st, ok := stateOf(ec, c.Joker)
	if !ok {
		return false
	}
	expected, err := json.Marshal(c.Expected)
	if err != nil {
		return false
	}
	var actual []byte
	if c.Key == AccumulatedKey {
		actual, _ = json.Marshal(st.AccumulatedValue)
	} else {
		raw, ok := st.CustomData[c.Key]
		if !ok {
			return false
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return false
		}
		actual = buf.Bytes()
	}
	return bytes.Equal(actual, expected)
}

// JokerStateGreaterThan holds when a numeric state field is above Threshold
type JokerStateGreaterThan struct {
	Joker     JokerID
	Key       string
	Threshold float64
}

func (JokerStateGreaterThan) IsExpensive() bool { return true }
func (JokerStateGreaterThan) IsCacheable() bool { return true }

func (c JokerStateGreaterThan) writeKey(d *xxhash.Digest) {
	writeTag(d, "state_gt")
	writeInt(d, int64(c.Joker))
	writeTag(d, c.Key)
	writeFloat(d, c.Threshold)
}

func (c JokerStateGreaterThan) eval(ec *EvaluationContext) bool {
	st, ok := stateOf(ec, c.Joker)
	if !ok {
		return false
	}
	if c.Key == AccumulatedKey {
		return st.AccumulatedValue > c.Threshold
	}
	var v float64
	if found, err := st.Custom(c.Key, &v); !found || err != nil {
		return false
	}
	return v > c.Threshold
}

// HandsPlayedThisRound holds once at least n hands were played this round
type HandsPlayedThisRound int

func (HandsPlayedThisRound) IsExpensive() bool { return false }
func (HandsPlayedThisRound) IsCacheable() bool { return false }

func (c HandsPlayedThisRound) writeKey(d *xxhash.Digest) {
	writeTag(d, "hands_played")
	writeInt(d, int64(c))
}

func (c HandsPlayedThisRound) eval(ec *EvaluationContext) bool {
	if ec.History != nil {
		return ec.History.HandsPlayedThisRound >= int(c)
	}
	return ec.Game != nil && ec.Game.HandsPlayed >= int(c)
}

// CardsDiscardedThisRound holds once at least n cards were discarded this round
type CardsDiscardedThisRound int

func (CardsDiscardedThisRound) IsExpensive() bool { return false }
func (CardsDiscardedThisRound) IsCacheable() bool { return false }

func (c CardsDiscardedThisRound) writeKey(d *xxhash.Digest) {
	writeTag(d, "cards_discarded")
	writeInt(d, int64(c))
}

func (c CardsDiscardedThisRound) eval(ec *EvaluationContext) bool {
	return ec.History != nil && ec.History.CardsDiscardedThisRound >= int(c)
}

// JokerTriggeredCount holds once the joker has triggered Count times
type JokerTriggeredCount struct {
	Joker JokerID
	Count int
}

func (JokerTriggeredCount) IsExpensive() bool { return false }
func (JokerTriggeredCount) IsCacheable() bool { return true }

func (c JokerTriggeredCount) writeKey(d *xxhash.Digest) {
	writeTag(d, "triggered")
	writeInt(d, int64(c.Joker))
	writeInt(d, int64(c.Count))
}

func (c JokerTriggeredCount) eval(ec *EvaluationContext) bool {
	return ec.History != nil && ec.History.TriggerCount(c.Joker) >= c.Count
}

// RecentHandTypesMatch holds when the latest hands played end with Sequence
type RecentHandTypesMatch struct {
	Sequence []poker.HandRank
}

func (RecentHandTypesMatch) IsExpensive() bool { return true }
func (RecentHandTypesMatch) IsCacheable() bool { return true }

func (c RecentHandTypesMatch) writeKey(d *xxhash.Digest) {
	writeTag(d, "recent")
	writeInt(d, int64(len(c.Sequence)))
	for _, r := range c.Sequence {
		writeInt(d, int64(r))
	}
}

func (c RecentHandTypesMatch) eval(ec *EvaluationContext) bool {
	if ec.History == nil {
		return len(c.Sequence) == 0
	}
	recent := ec.History.RecentHandTypes()
	if len(c.Sequence) > len(recent) {
		return false
	}
	offset := len(recent) - len(c.Sequence)
	for i, r := range c.Sequence {
		if recent[offset+i] != r {
			return false
		}
	}
	return true
}

// HandRepeatedThisRound holds when the type of the hand being played was
// already played this round
type HandRepeatedThisRound struct{}

func (HandRepeatedThisRound) IsExpensive() bool { return true }
func (HandRepeatedThisRound) IsCacheable() bool { return true }

func (HandRepeatedThisRound) writeKey(d *xxhash.Digest) {
	writeTag(d, "hand_repeated")
}

func (HandRepeatedThisRound) eval(ec *EvaluationContext) bool {
	if ec.History == nil || ec.Game == nil || len(ec.Game.Hand.Cards) == 0 {
		return false
	}
	rank := poker.BestHand(ec.Game.Hand).Rank
	for _, r := range ec.History.HandsThisRound() {
		if r == rank {
			return true
		}
	}
	return false
}

// FinalHand holds while the last hand of the round is being played
type FinalHand struct{}

func (FinalHand) IsExpensive() bool { return false }
func (FinalHand) IsCacheable() bool { return true }

func (FinalHand) writeKey(d *xxhash.Digest) {
	writeTag(d, "final_hand")
}

func (FinalHand) eval(ec *EvaluationContext) bool {
	return ec.Game != nil && ec.Game.IsFinalHand()
}

type DuringStage Stage

func (DuringStage) IsExpensive() bool { return false }
func (DuringStage) IsCacheable() bool { return true }

func (c DuringStage) writeKey(d *xxhash.Digest) {
	writeTag(d, "stage")
	writeInt(d, int64(c))
}

func (c DuringStage) eval(ec *EvaluationContext) bool {
	return ec.Game != nil && ec.Game.Stage == Stage(c)
}

type NotDuringStage Stage

func (NotDuringStage) IsExpensive() bool { return false }
func (NotDuringStage) IsCacheable() bool { return true }

func (c NotDuringStage) writeKey(d *xxhash.Digest) {
	writeTag(d, "not_stage")
	writeInt(d, int64(c))
}

func (c NotDuringStage) eval(ec *EvaluationContext) bool {
	return ec.Game == nil || ec.Game.Stage != Stage(c)
}

// AnteLevel holds from ante n onwards
type AnteLevel int

func (AnteLevel) IsExpensive() bool { return false }
func (AnteLevel) IsCacheable() bool { return true }

func (c AnteLevel) writeKey(d *xxhash.Digest) {
	writeTag(d, "ante")
	writeInt(d, int64(c))
}

func (c AnteLevel) eval(ec *EvaluationContext) bool {
	return ec.Game != nil && ec.Game.Ante >= int(c)
}

// RoundNumber holds from round n onwards
type RoundNumber int

func (RoundNumber) IsExpensive() bool { return false }
func (RoundNumber) IsCacheable() bool { return true }

func (c RoundNumber) writeKey(d *xxhash.Digest) {
	writeTag(d, "round")
	writeInt(d, int64(c))
}

func (c RoundNumber) eval(ec *EvaluationContext) bool {
	return ec.Game != nil && ec.Game.Round >= int(c)
}

type HasActiveJokerOfType JokerID

func (HasActiveJokerOfType) IsExpensive() bool { return false }
func (HasActiveJokerOfType) IsCacheable() bool { return true }

func (c HasActiveJokerOfType) writeKey(d *xxhash.Digest) {
	writeTag(d, "has_joker")
	writeInt(d, int64(c))
}

func (c HasActiveJokerOfType) eval(ec *EvaluationContext) bool {
	return ec.Game != nil && ec.Game.CountJokers(JokerID(c)) > 0
}

// ActiveJokerCount holds with at least n jokers owned
type ActiveJokerCount int

func (ActiveJokerCount) IsExpensive() bool { return false }
func (ActiveJokerCount) IsCacheable() bool { return true }

func (c ActiveJokerCount) writeKey(d *xxhash.Digest) {
	writeTag(d, "joker_count")
	writeInt(d, int64(c))
}

func (c ActiveJokerCount) eval(ec *EvaluationContext) bool {
	return ec.Game != nil && len(ec.Game.Jokers) >= int(c)
}

// JokerTypeCount holds with at least Count copies of Joker owned
type JokerTypeCount struct {
	Joker JokerID
	Count int
}

func (JokerTypeCount) IsExpensive() bool { return false }
func (JokerTypeCount) IsCacheable() bool { return true }

func (c JokerTypeCount) writeKey(d *xxhash.Digest) {
	writeTag(d, "joker_type_count")
	writeInt(d, int64(c.Joker))
	writeInt(d, int64(c.Count))
}

func (c JokerTypeCount) eval(ec *EvaluationContext) bool {
	return ec.Game != nil && ec.Game.CountJokers(c.Joker) >= c.Count
}

// HandContains holds when the hand being played contains the rank
type HandContains poker.HandRank

func (HandContains) IsExpensive() bool { return false }
func (HandContains) IsCacheable() bool { return true }

func (c HandContains) writeKey(d *xxhash.Digest) {
	writeTag(d, "hand_contains")
	writeInt(d, int64(c))
}

func (c HandContains) eval(ec *EvaluationContext) bool {
	return ec.Game != nil && poker.Contains(ec.Game.Hand, poker.HandRank(c))
}

type Not struct {
	Condition AdvancedCondition
}

func (c Not) IsExpensive() bool { return c.Condition != nil && c.Condition.IsExpensive() }
func (c Not) IsCacheable() bool { return c.Condition == nil || c.Condition.IsCacheable() }

func (c Not) writeKey(d *xxhash.Digest) {
	writeTag(d, "not")
	if c.Condition != nil {
		c.Condition.writeKey(d)
	}
}

func (c Not) eval(ec *EvaluationContext) bool {
	return !Evaluate(c.Condition, ec)
}

// FastAnd is true when every condition holds; empty is true. With
// ShortCircuit it stops at the first false.
type FastAnd struct {
	Conditions   []AdvancedCondition
	ShortCircuit bool
}

func (FastAnd) IsExpensive() bool   { return true }
func (c FastAnd) IsCacheable() bool { return allCacheable(c.Conditions) }

func (c FastAnd) writeKey(d *xxhash.Digest) {
	writeTag(d, "and")
	writeChildren(d, c.Conditions)
}

func (c FastAnd) eval(ec *EvaluationContext) bool {
	result := true
	for _, cond := range c.Conditions {
		if !Evaluate(cond, ec) {
			result = false
			if c.ShortCircuit {
				return false
			}
		}
	}
	return result
}

// FastOr is true when any condition holds; empty is false
type FastOr struct {
	Conditions   []AdvancedCondition
	ShortCircuit bool
}

func (FastOr) IsExpensive() bool   { return true }
func (c FastOr) IsCacheable() bool { return allCacheable(c.Conditions) }

func (c FastOr) writeKey(d *xxhash.Digest) {
	writeTag(d, "or")
	writeChildren(d, c.Conditions)
}

func (c FastOr) eval(ec *EvaluationContext) bool {
	result := false
	for _, cond := range c.Conditions {
		if Evaluate(cond, ec) {
			result = true
			if c.ShortCircuit {
				return true
			}
		}
	}
	return result
}

func And(conditions ...AdvancedCondition) FastAnd {
	return FastAnd{Conditions: conditions, ShortCircuit: true}
}

func Or(conditions ...AdvancedCondition) FastOr {
	return FastOr{Conditions: conditions, ShortCircuit: true}
}

func allCacheable(conditions []AdvancedCondition) bool {
	for _, c := range conditions {
		if c != nil && !c.IsCacheable() {
			return false
		}
	}
	return true
}

func writeChildren(d *xxhash.Digest, conditions []AdvancedCondition) {
	writeInt(d, int64(len(conditions)))
	for _, c := range conditions {
		if c == nil {
			writeTag(d, "nil")
			continue
		}
		c.writeKey(d)
	}
}

// Cached forces a cache lookup for a cheap condition
type Cached struct {
	Condition AdvancedCondition
}

func (Cached) IsExpensive() bool   { return true }
func (c Cached) IsCacheable() bool { return c.Condition == nil || c.Condition.IsCacheable() }

func (c Cached) writeKey(d *xxhash.Digest) {
	writeTag(d, "cached")
	if c.Condition != nil {
		c.Condition.writeKey(d)
	}
}

func (c Cached) eval(ec *EvaluationContext) bool {
	if c.Condition == nil {
		return false
	}
	return c.Condition.eval(ec)
}

// Custom wraps an arbitrary predicate. Its result is never cached.
type Custom struct {
	Name string
	Fn   func(ec *EvaluationContext) bool
}

func (Custom) IsExpensive() bool { return true }
func (Custom) IsCacheable() bool { return false }

func (c Custom) writeKey(d *xxhash.Digest) {
	writeTag(d, "custom")
	writeTag(d, c.Name)
}

func (c Custom) eval(ec *EvaluationContext) bool {
	return c.Fn != nil && c.Fn(ec)
}

// DefaultRecentHands is how many hand types GameHistory remembers
const DefaultRecentHands = 16

// GameHistory is what happened so far in the run, as conditions need it
type GameHistory struct {
	HandsPlayedThisRound    int
	CardsDiscardedThisRound int
	CurrentRound            int
	CurrentAnte             int

	recent   []poker.HandRank
	limit    int
	triggers map[JokerID]int
	version  uint64
}

func NewGameHistory() *GameHistory {
	return &GameHistory{
		CurrentRound: 1,
		CurrentAnte:  1,
		limit:        DefaultRecentHands,
		triggers:     make(map[JokerID]int),
	}
}

func (h *GameHistory) RecordHand(rank poker.HandRank) {
	h.HandsPlayedThisRound++
	h.recent = append(h.recent, rank)
	if len(h.recent) > h.limit {
		h.recent = append(h.recent[:0], h.recent[len(h.recent)-h.limit:]...)
	}
	h.version++
}

func (h *GameHistory) RecordDiscard(cards int) {
	h.CardsDiscardedThisRound += cards
	h.version++
}

func (h *GameHistory) RecordTrigger(id JokerID) {
	if h.triggers == nil {
		h.triggers = make(map[JokerID]int)
	}
	h.triggers[id]++
	h.version++
}

func (h *GameHistory) TriggerCount(id JokerID) int {
	return h.triggers[id]
}

// RecentHandTypes is oldest first
func (h *GameHistory) RecentHandTypes() []poker.HandRank {
	return append([]poker.HandRank(nil), h.recent...)
}

// StartRound clears the per-round counters
func (h *GameHistory) StartRound(round, ante int) {
	h.CurrentRound = round
	h.CurrentAnte = ante
	h.HandsPlayedThisRound = 0
	h.CardsDiscardedThisRound = 0
	h.version++
}

func (h *GameHistory) Version() uint64 {
	return h.version
}

// HandsThisRound are the hand types played since the round started, oldest
// first
func (h *GameHistory) HandsThisRound() []poker.HandRank {
	from := max(len(h.recent)-h.HandsPlayedThisRound, 0)
	return append([]poker.HandRank(nil), h.recent[from:]...)
}

func (h *GameHistory) Clone() *GameHistory {
	out := *h
	out.recent = append([]poker.HandRank(nil), h.recent...)
	out.triggers = make(map[JokerID]int, len(h.triggers))
	for id, n := range h.triggers {
		out.triggers[id] = n
	}
	return &out
}

type historyJSON struct {
	HandsPlayedThisRound    int              `json:"hands_played_this_round"`
	CardsDiscardedThisRound int              `json:"cards_discarded_this_round"`
	CurrentRound            int              `json:"current_round"`
	CurrentAnte             int              `json:"current_ante"`
	Recent                  []poker.HandRank `json:"recent"`
	Triggers                map[JokerID]int  `json:"triggers,omitempty"`
	Version                 uint64           `json:"version"`
}

func (h *GameHistory) MarshalJSON() ([]byte, error) {
	return json.Marshal(historyJSON{
		HandsPlayedThisRound:    h.HandsPlayedThisRound,
		CardsDiscardedThisRound: h.CardsDiscardedThisRound,
		CurrentRound:            h.CurrentRound,
		CurrentAnte:             h.CurrentAnte,
		Recent:                  h.recent,
		Triggers:                h.triggers,
		Version:                 h.version,
	})
}

// UnmarshalJSON keeps at most DefaultRecentHands of the saved hand types
func (h *GameHistory) UnmarshalJSON(data []byte) error {
	var saved historyJSON
	if err := json.Unmarshal(data, &saved); err != nil {
		return err
	}
	next := NewGameHistory()
	next.HandsPlayedThisRound = saved.HandsPlayedThisRound
	next.CardsDiscardedThisRound = saved.CardsDiscardedThisRound
	if saved.CurrentRound > 0 {
		next.CurrentRound = saved.CurrentRound
	}
	if saved.CurrentAnte > 0 {
		next.CurrentAnte = saved.CurrentAnte
	}
	recent := saved.Recent
	if len(recent) > next.limit {
		recent = recent[len(recent)-next.limit:]
	}
	next.recent = append([]poker.HandRank(nil), recent...)
	for id, n := range saved.Triggers {
		next.triggers[id] = n
	}
	next.version = saved.Version
	*h = *next
	return nil
}

type cacheKey struct {
	condition uint64
	context   uint64
}

type cacheEntry struct {
	result bool
	hits   uint32
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Entries int     `json:"entries"`
	HitRate float64 `json:"hit_rate"`
}

// ConditionCache memoizes condition results. When full it is cleared.
type ConditionCache struct {
	entries  map[cacheKey]cacheEntry
	capacity int
	hits     uint64
	misses   uint64
}

// NewConditionCache with capacity <= 0 is unbounded
func NewConditionCache(capacity int) *ConditionCache {
	return &ConditionCache{
		entries:  make(map[cacheKey]cacheEntry),
		capacity: capacity,
	}
}

func (c *ConditionCache) lookup(key cacheKey) (bool, bool) {
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return false, false
	}
	e.hits++
	c.entries[key] = e
	c.hits++
	return e.result, true
}

func (c *ConditionCache) store(key cacheKey, result bool) {
	if c.capacity > 0 && len(c.entries) >= c.capacity {
		c.entries = make(map[cacheKey]cacheEntry)
	}
	c.entries[key] = cacheEntry{result: result}
}

func (c *ConditionCache) Stats() CacheStats {
	stats := CacheStats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
	if total := c.hits + c.misses; total > 0 {
		stats.HitRate = float64(c.hits) / float64(total)
	}
	return stats
}

func (c *ConditionCache) Len() int {
	return len(c.entries)
}

// Clear drops entries and statistics
func (c *ConditionCache) Clear() {
	c.entries = make(map[cacheKey]cacheEntry)
	c.hits = 0
	c.misses = 0
}
