package jokers

import (
	"Comodin/services/poker"
	"testing"

	"github.com/stretchr/testify/require"
)

// hand builds a hand from short codes like "Ah", "10s", "Kd"
func hand(specs ...string) poker.Hand {
	cards := make([]poker.Card, 0, len(specs))
	for i, s := range specs {
		cards = append(cards, poker.Card{
			ID:   i + 1,
			Rank: poker.Rank(s[:len(s)-1]),
			Suit: poker.Suit(s[len(s)-1:]),
		})
	}
	return poker.NewHand(cards...)
}

// fixedRNG always rolls the same number
type fixedRNG struct{ n int }

func (f fixedRNG) Intn(n int) int   { return min(f.n, n-1) }
func (f fixedRNG) Float64() float64 { return 0 }

func newJoker(t *testing.T, id JokerID) Joker {
	t.Helper()
	j, err := NewCatalog().New(id)
	require.NoError(t, err)
	return j
}

func lineup(t *testing.T, ids ...JokerID) []Joker {
	t.Helper()
	js, err := NewCatalog().NewAll(ids)
	require.NoError(t, err)
	return js
}
