package jokers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoEffectIsIdentity(t *testing.T) {
	s := Score{Chips: 37, Mult: 4.5}

	assert.Equal(t, s, s.Apply(NoEffect()))
	assert.Equal(t, s, s.Apply(JokerEffect{}), "zero multiplier reads as X1")
	assert.True(t, NoEffect().IsIdentity())
	assert.True(t, JokerEffect{}.IsIdentity())
	assert.False(t, JokerEffect{SuppressDownstream: true}.IsIdentity())
}

func TestScoreApplyOrder(t *testing.T) {
	s := Score{Chips: 10, Mult: 2}.Apply(JokerEffect{Chips: 5, Mult: 3, MultMultiplier: 2})

	assert.Equal(t, 15.0, s.Chips)
	assert.Equal(t, 10.0, s.Mult, "mult is added before it is multiplied")
}

func TestCombine(t *testing.T) {
	a := JokerEffect{Chips: 10, Mult: 1, MultMultiplier: 2, Money: 1, Message: "a", DestroyOthers: []JokerID{TheJoker}}
	b := JokerEffect{Chips: 5, MultMultiplier: 1.5, Retriggers: 1, DestroySelf: true, Message: "b"}

	c := Combine(a, b)
	assert.Equal(t, 15, c.Chips)
	assert.Equal(t, 1, c.Mult)
	assert.Equal(t, 3.0, c.Multiplier())
	assert.Equal(t, 1, c.Money)
	assert.Equal(t, 1, c.Retriggers)
	assert.True(t, c.DestroySelf)
	assert.Equal(t, []JokerID{TheJoker}, c.DestroyOthers)
	assert.Equal(t, "a; b", c.Message)

	t.Run("identity on both sides", func(t *testing.T) {
		assert.Equal(t, Combine(NoEffect(), b), Combine(b, NoEffect()))
		assert.Equal(t, b.Chips, CombineAll(b).Chips)
		assert.Equal(t, 1.0, CombineAll().Multiplier())
	})
}

func TestScoreTotal(t *testing.T) {
	tests := []struct {
		name  string
		score Score
		want  int64
	}{
		{"floors", Score{Chips: 10.5, Mult: 3}, 31},
		{"negative is zero", Score{Chips: -10, Mult: 3}, 0},
		{"nan is zero", Score{Chips: math.NaN(), Mult: 3}, 0},
		{"saturates", Score{Chips: math.MaxFloat64, Mult: 2}, math.MaxInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.score.Total())
		})
	}
}
