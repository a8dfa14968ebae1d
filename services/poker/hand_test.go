package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards(specs ...string) Hand {
	out := make([]Card, 0, len(specs))
	for _, s := range specs {
		out = append(out, NewCard(Rank(s[:len(s)-1]), Suit(s[len(s)-1:])))
	}
	return NewHand(out...)
}

func TestBestHand(t *testing.T) {
	tests := []struct {
		name    string
		hand    Hand
		want    HandRank
		scoring int
	}{
		{"empty", Hand{}, HandHighCard, 0},
		{"high card", cards("Ah", "3d", "7c"), HandHighCard, 1},
		{"pair", cards("Kh", "Kd", "3c"), HandPair, 2},
		{"two pair", cards("Kh", "Kd", "3c", "3s", "9h"), HandTwoPair, 4},
		{"three of a kind", cards("7h", "7d", "7c", "2s"), HandThreeOfAKind, 3},
		{"straight", cards("5h", "6d", "7c", "8s", "9h"), HandStraight, 5},
		{"ace low straight", cards("Ah", "2d", "3c", "4s", "5h"), HandStraight, 5},
		{"no wraparound", cards("Qh", "Kd", "Ac", "2s", "3h"), HandHighCard, 1},
		{"flush", cards("2h", "5h", "9h", "Jh", "Kh"), HandFlush, 5},
		{"full house", cards("Qh", "Qd", "Qc", "4s", "4h"), HandFullHouse, 5},
		{"four of a kind", cards("9h", "9d", "9c", "9s", "2h"), HandFourOfAKind, 4},
		{"straight flush", cards("5s", "6s", "7s", "8s", "9s"), HandStraightFlush, 5},
		{"royal flush", cards("10d", "Jd", "Qd", "Kd", "Ad"), HandRoyalFlush, 5},
		{"five of a kind", cards("Ah", "Ad", "Ac", "As", "Ah"), HandFiveOfAKind, 5},
		{"flush five", cards("Ah", "Ah", "Ah", "Ah", "Ah"), HandFlushFive, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := BestHand(tt.hand)
			assert.Equal(t, tt.want, eval.Rank)
			assert.Len(t, eval.Scoring, tt.scoring)
			assert.Equal(t, TypeMap[tt.want], eval.Level)
		})
	}
}

func TestBestHandSpecialCards(t *testing.T) {
	t.Run("wild completes a flush", func(t *testing.T) {
		h := cards("2h", "5h", "9h", "Jh", "Kc")
		h.Cards[4].Enhancement = Wild
		assert.Equal(t, HandFlush, BestHand(h).Rank)
	})

	t.Run("stones always score", func(t *testing.T) {
		h := cards("Kh", "Kd", "3c")
		h.Cards[2].Enhancement = Stone
		eval := BestHand(h)
		assert.Equal(t, HandPair, eval.Rank)
		require.Len(t, eval.Scoring, 3)
		assert.True(t, eval.Scoring[2].IsStone())
		assert.Equal(t, 50, eval.Scoring[2].Chips())
	})

	t.Run("scoring keeps played order", func(t *testing.T) {
		h := cards("3c", "Kh", "2d", "Kd")
		h.Cards[1].ID, h.Cards[3].ID = 7, 8
		eval := BestHand(h)
		require.Len(t, eval.Scoring, 2)
		assert.Equal(t, 7, eval.Scoring[0].ID)
		assert.Equal(t, 8, eval.Scoring[1].ID)
	})
}

func TestContains(t *testing.T) {
	fullHouse := cards("Qh", "Qd", "Qc", "4s", "4h")

	assert.True(t, Contains(fullHouse, HandPair))
	assert.True(t, Contains(fullHouse, HandTwoPair))
	assert.True(t, Contains(fullHouse, HandThreeOfAKind))
	assert.False(t, Contains(fullHouse, HandFlush))
	assert.False(t, Contains(Hand{}, HandHighCard))
	assert.False(t, Contains(fullHouse, HandRank(99)))
}

func TestParseHandRank(t *testing.T) {
	for _, r := range HandRanks {
		parsed, err := ParseHandRank(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	for in, want := range map[string]HandRank{
		"two_pair":   HandTwoPair,
		"TwoPair":    HandTwoPair,
		"pair":       HandPair,
		"flush-five": HandFlushFive,
	} {
		got, err := ParseHandRank(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseHandRank("six of a kind")
	assert.Error(t, err)
}

func TestCardValues(t *testing.T) {
	assert.Equal(t, 11, NewCard(Ace, Spades).Chips())
	assert.Equal(t, 10, NewCard(Queen, Spades).Chips())
	assert.Equal(t, 7, NewCard(Seven, Spades).Chips())

	bonus := NewCard(Two, Hearts)
	bonus.Enhancement = Bonus
	bonus.Edition = Foil
	assert.Equal(t, 2+30+50, bonus.Chips())

	assert.True(t, NewCard(Ace, Clubs).IsOdd())
	assert.True(t, NewCard(Ten, Clubs).IsEven())
	assert.False(t, NewCard(King, Clubs).IsEven())
	assert.False(t, Rank("1").IsValid())
}
