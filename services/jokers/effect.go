package jokers

import (
	"math"
	"strings"
)

// JokerEffect is what every hook returns. The zero value changes nothing:
// a MultMultiplier of 0 is read as X1.
type JokerEffect struct {
	Chips          int       `json:"chips,omitempty"`
	Mult           int       `json:"mult,omitempty"`
	MultMultiplier float64   `json:"mult_multiplier,omitempty"`
	Money          int       `json:"money,omitempty"`
	Retriggers     int       `json:"retriggers,omitempty"`
	DestroySelf    bool      `json:"destroy_self,omitempty"`
	DestroyOthers  []JokerID `json:"destroy_others,omitempty"`
	HandSizeDelta  int       `json:"hand_size_delta,omitempty"`
	DiscardsDelta  int       `json:"discards_delta,omitempty"`
	SellValueDelta int       `json:"sell_value_delta,omitempty"`
	// SuppressDownstream stops every joker to the right for the current phase
	SuppressDownstream bool   `json:"suppress_downstream,omitempty"`
	Message            string `json:"message,omitempty"`
}

func NoEffect() JokerEffect {
	return JokerEffect{MultMultiplier: 1}
}

func (e JokerEffect) Multiplier() float64 {
	if e.MultMultiplier == 0 {
		return 1
	}
	return e.MultMultiplier
}

func (e JokerEffect) IsIdentity() bool {
	return e.Chips == 0 && e.Mult == 0 && e.Multiplier() == 1 && e.Money == 0 &&
		e.Retriggers == 0 && !e.DestroySelf && len(e.DestroyOthers) == 0 &&
		e.HandSizeDelta == 0 && e.DiscardsDelta == 0 && e.SellValueDelta == 0 &&
		!e.SuppressDownstream
}

// Combine folds b into a: additive fields add, multipliers multiply
func Combine(a, b JokerEffect) JokerEffect {
	out := JokerEffect{
		Chips:              a.Chips + b.Chips,
		Mult:               a.Mult + b.Mult,
		MultMultiplier:     a.Multiplier() * b.Multiplier(),
		Money:              a.Money + b.Money,
		Retriggers:         a.Retriggers + b.Retriggers,
		DestroySelf:        a.DestroySelf || b.DestroySelf,
		HandSizeDelta:      a.HandSizeDelta + b.HandSizeDelta,
		DiscardsDelta:      a.DiscardsDelta + b.DiscardsDelta,
		SellValueDelta:     a.SellValueDelta + b.SellValueDelta,
		SuppressDownstream: a.SuppressDownstream || b.SuppressDownstream,
		Message:            joinMessages(a.Message, b.Message),
	}
	if len(a.DestroyOthers)+len(b.DestroyOthers) > 0 {
		out.DestroyOthers = append(append([]JokerID{}, a.DestroyOthers...), b.DestroyOthers...)
	}
	return out
}

// CombineAll folds left to right, slot order
func CombineAll(effects ...JokerEffect) JokerEffect {
	out := NoEffect()
	for _, e := range effects {
		out = Combine(out, e)
	}
	return out
}

func joinMessages(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return strings.Join([]string{a, b}, "; ")
}

// Score is the running total of one scoring pass
type Score struct {
	Chips float64 `json:"chips"`
	Mult  float64 `json:"mult"`
}

// Apply adds chips and mult, then multiplies mult
func (s Score) Apply(e JokerEffect) Score {
	s.Chips += float64(e.Chips)
	s.Mult += float64(e.Mult)
	s.Mult *= e.Multiplier()
	return s
}

// Total is chips times mult, rounded down and never negative
func (s Score) Total() int64 {
	total := math.Floor(s.Chips * s.Mult)
	if total <= 0 || math.IsNaN(total) {
		return 0
	}
	if total >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(total)
}
