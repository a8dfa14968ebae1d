package filters

import (
	"Comodin/services/poker"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCards() []poker.Card {
	gold := poker.NewCard(poker.King, poker.Hearts)
	gold.Enhancement = poker.Gold
	foil := poker.NewCard(poker.Seven, poker.Spades)
	foil.Edition = poker.Foil
	sealed := poker.NewCard(poker.Two, poker.Diamonds)
	sealed.Seal = poker.RedSeal
	return []poker.Card{
		gold,
		foil,
		sealed,
		poker.NewCard(poker.Ace, poker.Clubs),
		poker.NewCard(poker.Queen, poker.Diamonds),
	}
}

func TestLeafFilters(t *testing.T) {
	ctx := NewFilterContext()
	cards := testCards()

	tests := []struct {
		name   string
		filter CardFilter
		want   int
	}{
		{"enhanced", Enhanced(), 1},
		{"gold", EnhancementIs(poker.Gold), 1},
		{"diamonds", SuitIs(poker.Diamonds), 2},
		{"aces", RankIs(poker.Ace), 1},
		{"foil", EditionIs(poker.Foil), 1},
		{"sealed", Sealed(), 1},
		{"red seal", SealIs(poker.RedSeal), 1},
		{"face", Face(), 2},
		{"even", Even(), 1},
		{"odd", Odd(), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Filter(cards, tt.filter, ctx), tt.want)
			assert.NotEmpty(t, tt.filter.Description())
		})
	}
}

func TestCompositeFilters(t *testing.T) {
	ctx := NewFilterContext()
	card := poker.NewCard(poker.King, poker.Hearts)

	assert.True(t, All().Matches(card, ctx), "empty All matches everything")
	assert.False(t, Any().Matches(card, ctx), "empty Any matches nothing")
	assert.True(t, All(Face(), SuitIs(poker.Hearts)).Matches(card, ctx))
	assert.False(t, All(Face(), Even()).Matches(card, ctx))
	assert.True(t, Any(Even(), Face()).Matches(card, ctx))
	assert.False(t, Not(Face()).Matches(card, ctx))

	assert.Equal(t, "Any of: [Face cards (J, Q, K), Even-valued cards]", Any(Face(), Even()).Description())
	assert.Equal(t, "Not: Cards with seals", Not(Sealed()).Description())
}

func TestFuncReadsContext(t *testing.T) {
	rich := Func{Name: "rich", Fn: func(_ poker.Card, ctx FilterContext) bool { return ctx.Money >= 10 }}
	card := poker.NewCard(poker.Two, poker.Clubs)

	assert.False(t, rich.Matches(card, FilterContext{Money: 3}))
	assert.True(t, rich.Matches(card, FilterContext{Money: 30}))
	assert.False(t, Func{Name: "nil"}.Matches(card, FilterContext{}))

	ctx := NewFilterContext().WithProperty("deck", "red")
	assert.Equal(t, "red", ctx.Properties["deck"])
}

func TestRegistryDefaults(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{
		"enhanced", "sealed", "face", "even", "odd", "hearts", "diamonds", "clubs", "spades",
		"foil", "holographic", "polychrome", "negative", "red_cards", "black_cards", "special_edition",
	} {
		_, err := r.Lookup(name)
		assert.NoError(t, err, name)
	}
	assert.Len(t, r.Names(), 16)
	assert.Equal(t, "black_cards", r.Names()[0])

	f, err := r.Lookup("  Red_Cards ")
	require.NoError(t, err)
	assert.True(t, f.Matches(poker.NewCard(poker.Two, poker.Diamonds), NewFilterContext()))

	_, err = r.Lookup("purple")
	assert.True(t, errors.Is(err, ErrUnknownFilter))
}

func TestRegistryRegister(t *testing.T) {
	r := NewEmptyRegistry()
	assert.Empty(t, r.Names())

	require.NoError(t, r.Register("Royals", All(Face(), SuitIs(poker.Hearts))))
	_, err := r.Lookup("royals")
	assert.NoError(t, err)

	assert.True(t, errors.Is(r.Register("  ", Face()), ErrInvalidFilter))
	assert.True(t, errors.Is(r.Register("a|b", Face()), ErrInvalidFilter))
	assert.True(t, errors.Is(r.Register("nothing", nil), ErrInvalidFilter))
}

func TestParse(t *testing.T) {
	r := NewRegistry()
	cards := testCards()
	ctx := NewFilterContext()

	tests := []struct {
		expr string
		want int
	}{
		{"face", 2},
		{"face & !enhanced", 1},
		{"hearts | diamonds", 3},
		{"face AND red_cards", 2},
		{"(face or even) and not sealed", 2},
		{"!!face", 2},
		{"special_edition", 1},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := r.Apply(tt.expr, cards, ctx)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	t.Run("errors", func(t *testing.T) {
		for _, expr := range []string{"", "face &", "(face", "face)", "| odd"} {
			_, err := r.Parse(expr)
			assert.True(t, errors.Is(err, ErrInvalidFilter), expr)
		}
		_, err := r.Parse("face & wizards")
		assert.True(t, errors.Is(err, ErrUnknownFilter))
	})
}
