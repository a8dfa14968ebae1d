package poker

import (
	"fmt"
	"sort"
	"strings"
)

type Hand struct {
	Cards []Card `json:"cards"`
}

func NewHand(cards ...Card) Hand {
	return Hand{Cards: cards}
}

type HandRank int

const (
	HandHighCard HandRank = iota
	HandPair
	HandTwoPair
	HandThreeOfAKind
	HandStraight
	HandFlush
	HandFullHouse
	HandFourOfAKind
	HandStraightFlush
	HandRoyalFlush
	HandFiveOfAKind
	HandFlushHouse
	HandFlushFive
)

var HandRanks = []HandRank{
	HandHighCard, HandPair, HandTwoPair, HandThreeOfAKind, HandStraight, HandFlush, HandFullHouse,
	HandFourOfAKind, HandStraightFlush, HandRoyalFlush, HandFiveOfAKind, HandFlushHouse, HandFlushFive,
}

var handRankNames = map[HandRank]string{
	HandHighCard:      "High Card",
	HandPair:          "One Pair",
	HandTwoPair:       "Two Pair",
	HandThreeOfAKind:  "Three of a Kind",
	HandStraight:      "Straight",
	HandFlush:         "Flush",
	HandFullHouse:     "Full House",
	HandFourOfAKind:   "Four of a Kind",
	HandStraightFlush: "Straight Flush",
	HandRoyalFlush:    "Royal Flush",
	HandFiveOfAKind:   "Five of a Kind",
	HandFlushHouse:    "Flush House",
	HandFlushFive:     "Flush Five",
}

func (r HandRank) String() string {
	if name, ok := handRankNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Level is the base chips and mult a hand type scores with
type Level struct {
	Level int `json:"level"`
	Chips int `json:"chips"`
	Mult  int `json:"mult"`
}

// Level one values of every hand type
var TypeMap = map[HandRank]Level{
	HandHighCard:      {1, 5, 1},
	HandPair:          {1, 10, 2},
	HandTwoPair:       {1, 20, 2},
	HandThreeOfAKind:  {1, 30, 3},
	HandStraight:      {1, 30, 4},
	HandFlush:         {1, 35, 4},
	HandFullHouse:     {1, 40, 4},
	HandFourOfAKind:   {1, 60, 7},
	HandStraightFlush: {1, 100, 8},
	HandRoyalFlush:    {1, 100, 8},
	HandFiveOfAKind:   {1, 120, 12},
	HandFlushHouse:    {1, 140, 14},
	HandFlushFive:     {1, 160, 16},
}

// Evaluation is the result of BestHand
type Evaluation struct {
	Rank    HandRank `json:"rank"`
	Scoring []Card   `json:"scoring"`
	Level   Level    `json:"level"`
}

func sortCards(h *Hand) {
	SortCards(h.Cards)
}

func SortCards(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Rank.Grade() < cards[j].Rank.Grade()
	})
}

// countRanks ignores stone cards
func countRanks(h Hand) map[Rank]int {
	counts := make(map[Rank]int)
	for _, c := range h.Cards {
		if c.IsStone() {
			continue
		}
		counts[c.Rank]++
	}
	return counts
}

func cardsOfRank(h Hand, rank Rank) []Card {
	var out []Card
	for _, c := range h.Cards {
		if !c.IsStone() && c.Rank == rank {
			out = append(out, c)
		}
	}
	return out
}

// groupsAtLeast returns the ranks with at least n copies, highest grade first
func groupsAtLeast(h Hand, n int) []Rank {
	var ranks []Rank
	for rank, count := range countRanks(h) {
		if count >= n {
			ranks = append(ranks, rank)
		}
	}
	sort.Slice(ranks, func(i, j int) bool {
		return ranks[i].Grade() > ranks[j].Grade()
	})
	return ranks
}

// -------------------------------------------------------------------------------------------------
// -------------------------------------------------------------------------------------------------

func Pair(h Hand) ([]Card, bool) {
	ranks := groupsAtLeast(h, 2)
	if len(ranks) == 0 {
		return nil, false
	}
	return cardsOfRank(h, ranks[0]), true
}

func TwoPair(h Hand) ([]Card, bool) {
	ranks := groupsAtLeast(h, 2)
	if len(ranks) < 2 {
		return nil, false
	}
	scoringCards := append(cardsOfRank(h, ranks[0]), cardsOfRank(h, ranks[1])...)
	return scoringCards, true
}

func ThreeOfAKind(h Hand) ([]Card, bool) {
	ranks := groupsAtLeast(h, 3)
	if len(ranks) == 0 {
		return nil, false
	}
	return cardsOfRank(h, ranks[0]), true
}

func FourOfAKind(h Hand) ([]Card, bool) {
	ranks := groupsAtLeast(h, 4)
	if len(ranks) == 0 {
		return nil, false
	}
	return cardsOfRank(h, ranks[0]), true
}

func FiveOfAKind(h Hand) ([]Card, bool) {
	ranks := groupsAtLeast(h, 5)
	if len(ranks) == 0 {
		return nil, false
	}
	return cardsOfRank(h, ranks[0]), true
}

func FullHouse(h Hand) ([]Card, bool) {
	threes := groupsAtLeast(h, 3)
	if len(threes) == 0 {
		return nil, false
	}
	three := threes[0]
	for _, pair := range groupsAtLeast(h, 2) {
		if pair != three {
			return append(cardsOfRank(h, three), cardsOfRank(h, pair)...), true
		}
	}
	return nil, false
}

// Flush needs five cards of one suit, Wild cards match any suit
func Flush(h Hand) ([]Card, bool) {
	if len(h.Cards) < 5 {
		return nil, false
	}
	for _, suit := range Suits {
		var scoringCards []Card
		for _, c := range h.Cards {
			if c.IsSuit(suit) {
				scoringCards = append(scoringCards, c)
			}
		}
		if len(scoringCards) >= 5 {
			return scoringCards, true
		}
	}
	return nil, false
}

// Straight needs five consecutive grades, Ace may play low (A-2-3-4-5)
func Straight(h Hand) ([]Card, bool) {
	if len(h.Cards) < 5 {
		return nil, false
	}

	tmp := Hand{Cards: make([]Card, 0, len(h.Cards))}
	for _, c := range h.Cards {
		if !c.IsStone() {
			tmp.Cards = append(tmp.Cards, c)
		}
	}
	if len(tmp.Cards) != 5 {
		return nil, false
	}
	sortCards(&tmp)

	grades := make([]int, len(tmp.Cards))
	for i, c := range tmp.Cards {
		grades[i] = c.Rank.Grade()
	}

	if isRun(grades) {
		return tmp.Cards, true
	}
	// Ace-low straight
	if grades[len(grades)-1] == 14 {
		low := append([]int{1}, grades[:len(grades)-1]...)
		if isRun(low) {
			return tmp.Cards, true
		}
	}
	return nil, false
}

func isRun(grades []int) bool {
	for i := 0; i < len(grades)-1; i++ {
		if grades[i+1]-grades[i] != 1 {
			return false
		}
	}
	return true
}

func StraightFlush(h Hand) ([]Card, bool) {
	straightCards, isStraight := Straight(h)
	_, isFlush := Flush(h)
	if isStraight && isFlush {
		return straightCards, true
	}
	return nil, false
}

func RoyalFlush(h Hand) ([]Card, bool) {
	straightFlushCards, isStraightFlush := StraightFlush(h)
	if !isStraightFlush {
		return nil, false
	}
	// 10-J-Q-K-A
	for _, c := range straightFlushCards {
		if c.Rank.Grade() < 10 {
			return nil, false
		}
	}
	return straightFlushCards, true
}

func FlushHouse(h Hand) ([]Card, bool) {
	flushCards, isFlush := Flush(h)
	_, isFullHouse := FullHouse(h)
	if isFlush && isFullHouse {
		return flushCards, true
	}
	return nil, false
}

func FlushFive(h Hand) ([]Card, bool) {
	flushCards, isFlush := Flush(h)
	_, isFiveOfAKind := FiveOfAKind(h)
	if isFlush && isFiveOfAKind {
		return flushCards, true
	}
	return nil, false
}

func HighCard(h Hand) ([]Card, bool) {
	var best *Card
	for i := range h.Cards {
		c := h.Cards[i]
		if c.IsStone() {
			continue
		}
		if best == nil || c.Rank.Grade() > best.Rank.Grade() {
			best = &h.Cards[i]
		}
	}
	if best == nil {
		return nil, true
	}
	return []Card{*best}, true
}

type detector struct {
	rank   HandRank
	detect func(Hand) ([]Card, bool)
}

// Strongest first, BestHand returns the first match
var detectors = []detector{
	{HandFlushFive, FlushFive},
	{HandFlushHouse, FlushHouse},
	{HandFiveOfAKind, FiveOfAKind},
	{HandRoyalFlush, RoyalFlush},
	{HandStraightFlush, StraightFlush},
	{HandFourOfAKind, FourOfAKind},
	{HandFullHouse, FullHouse},
	{HandFlush, Flush},
	{HandStraight, Straight},
	{HandThreeOfAKind, ThreeOfAKind},
	{HandTwoPair, TwoPair},
	{HandPair, Pair},
	{HandHighCard, HighCard},
}

// BestHand evaluates the strongest hand type. Stone cards always score.
// An empty hand is a High Card with nothing scoring.
func BestHand(h Hand) Evaluation {
	if len(h.Cards) == 0 {
		return Evaluation{Rank: HandHighCard, Level: TypeMap[HandHighCard]}
	}

	for _, d := range detectors {
		scoringCards, ok := d.detect(h)
		if !ok {
			continue
		}
		return Evaluation{
			Rank:    d.rank,
			Scoring: withStones(h, scoringCards),
			Level:   TypeMap[d.rank],
		}
	}
	return Evaluation{Rank: HandHighCard, Level: TypeMap[HandHighCard]}
}

// withStones keeps the played order of the scoring cards and appends stones
func withStones(h Hand, scoring []Card) []Card {
	out := make([]Card, 0, len(h.Cards))
	used := make([]bool, len(scoring))
	for _, c := range h.Cards {
		if c.IsStone() {
			out = append(out, c)
			continue
		}
		for i, s := range scoring {
			if !used[i] && s == c {
				used[i] = true
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Contains reports whether the hand holds the given type, e.g. a Full House
// contains a Pair and a Three of a Kind
func Contains(h Hand, rank HandRank) bool {
	for _, d := range detectors {
		if d.rank != rank {
			continue
		}
		_, ok := d.detect(h)
		return ok && (rank != HandHighCard || len(h.Cards) > 0)
	}
	return false
}

func (r HandRank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *HandRank) UnmarshalText(text []byte) error {
	parsed, err := ParseHandRank(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseHandRank accepts display names ("Two Pair") and compact names ("TwoPair", "two_pair")
func ParseHandRank(s string) (HandRank, error) {
	want := normalizeName(s)
	for rank, name := range handRankNames {
		if normalizeName(name) == want {
			return rank, nil
		}
	}
	if want == "pair" {
		return HandPair, nil
	}
	return HandHighCard, fmt.Errorf("unknown hand type %q", s)
}

func normalizeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r == ' ' || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
