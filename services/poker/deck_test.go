package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestStandardDeck(t *testing.T) {
	d := NewStandardDeck()
	require.Len(t, d.TotalCards, 52)
	assert.Equal(t, 1, d.TotalCards[0].ID)
	assert.Equal(t, 52, d.TotalCards[51].ID)
	assert.Equal(t, Composition{Total: 52}, d.Composition())
}

func TestDeckDrawAndShuffle(t *testing.T) {
	d := NewStandardDeck()
	rng := rand.New(rand.NewSource(7))

	hand := d.Draw(8, rng)
	assert.Len(t, hand, 8)
	assert.Len(t, d.TotalCards, 44)

	d.MarkAsPlayed(hand)
	rest := d.Draw(50, rng)
	assert.Len(t, rest, 50, "played cards are shuffled back in when short")
	assert.Len(t, d.TotalCards, 2)

	t.Run("same seed, same order", func(t *testing.T) {
		a, b := NewStandardDeck(), NewStandardDeck()
		a.Shuffle(rand.New(rand.NewSource(42)))
		b.Shuffle(rand.New(rand.NewSource(42)))
		assert.Equal(t, a.TotalCards, b.TotalCards)
	})
}

func TestDeckComposition(t *testing.T) {
	d := NewStandardDeck()
	stone := NewCard(Two, Spades)
	stone.Enhancement = Stone
	steel := NewCard(King, Hearts)
	steel.Enhancement = Steel

	d.AddCards([]Card{stone, steel})
	d.MarkAsPlayed([]Card{stone})

	assert.Equal(t, Composition{Total: 55, Stone: 2, Steel: 1}, d.Composition())
}

func TestDeckJSON(t *testing.T) {
	d := NewStandardDeck()
	d.MarkAsPlayed(d.Draw(3, rand.New(rand.NewSource(1))))

	raw, err := d.ToJSON()
	require.NoError(t, err)

	restored, err := DeckFromJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, d, restored)

	_, err = DeckFromJSON([]byte(`{"total_cards":`))
	assert.Error(t, err)
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		code string
		want Card
	}{
		{"Ah", NewCard(Ace, Hearts)},
		{"10s", NewCard(Ten, Spades)},
		{" qd ", NewCard(Queen, Diamonds)},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := ParseCard(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "A", "1h", "02h", "Ax"} {
		_, err := ParseCard(bad)
		assert.ErrorIs(t, err, ErrBadCard, bad)
	}

	cards, err := ParseCards("2c", "3c")
	require.NoError(t, err)
	assert.Equal(t, 2, cards[1].ID)
}
