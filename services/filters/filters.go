package filters

import (
	"Comodin/services/poker"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownFilter = errors.New("unknown filter")
	ErrInvalidFilter = errors.New("invalid filter definition")
)

// FilterContext carries the game values a filter may look at. Every field
// is optional.
type FilterContext struct {
	Ante       int               `json:"ante"`
	Money      int               `json:"money"`
	JokerCount int               `json:"joker_count"`
	Properties map[string]string `json:"properties,omitempty"`
}

func NewFilterContext() FilterContext {
	return FilterContext{Properties: make(map[string]string)}
}

// WithProperty returns a copy of ctx with key set
func (ctx FilterContext) WithProperty(key, value string) FilterContext {
	props := make(map[string]string, len(ctx.Properties)+1)
	for k, v := range ctx.Properties {
		props[k] = v
	}
	props[key] = value
	ctx.Properties = props
	return ctx
}

type CardFilter interface {
	Matches(card poker.Card, ctx FilterContext) bool
	Description() string
}

// Leaf filters

type enhanced struct{}

func Enhanced() CardFilter { return enhanced{} }

func (enhanced) Matches(c poker.Card, _ FilterContext) bool { return c.Enhancement != poker.NoEnhancement }
func (enhanced) Description() string                      { return "Enhanced cards" }

type enhancementIs poker.Enhancement

func EnhancementIs(e poker.Enhancement) CardFilter { return enhancementIs(e) }

func (f enhancementIs) Matches(c poker.Card, _ FilterContext) bool {
	return c.Enhancement == poker.Enhancement(f)
}

func (f enhancementIs) Description() string {
	return fmt.Sprintf("Cards with %s enhancement", string(f))
}

type suitIs poker.Suit

// SuitIs honors Wild cards like the hand evaluator does
func SuitIs(s poker.Suit) CardFilter { return suitIs(s) }

func (f suitIs) Matches(c poker.Card, _ FilterContext) bool { return c.IsSuit(poker.Suit(f)) }
func (f suitIs) Description() string                      { return "Cards of suit " + poker.Suit(f).String() }

type rankIs poker.Rank

func RankIs(r poker.Rank) CardFilter { return rankIs(r) }

func (f rankIs) Matches(c poker.Card, _ FilterContext) bool {
	return !c.IsStone() && c.Rank == poker.Rank(f)
}

func (f rankIs) Description() string {
	return "Cards with rank " + string(f)
}

type editionIs poker.Edition

func EditionIs(e poker.Edition) CardFilter { return editionIs(e) }

func (f editionIs) Matches(c poker.Card, _ FilterContext) bool { return c.Edition == poker.Edition(f) }

func (f editionIs) Description() string {
	if f == editionIs(poker.Base) {
		return "Cards with base edition"
	}
	return fmt.Sprintf("Cards with %s edition", string(f))
}

type sealed struct{}

func Sealed() CardFilter { return sealed{} }

func (sealed) Matches(c poker.Card, _ FilterContext) bool { return c.Seal != poker.NoSeal }
func (sealed) Description() string                      { return "Cards with seals" }

type sealIs poker.Seal

func SealIs(s poker.Seal) CardFilter { return sealIs(s) }

func (f sealIs) Matches(c poker.Card, _ FilterContext) bool { return c.Seal == poker.Seal(f) }
func (f sealIs) Description() string                      { return fmt.Sprintf("Cards with %s seal", string(f)) }

type face struct{}

func Face() CardFilter { return face{} }

func (face) Matches(c poker.Card, _ FilterContext) bool { return c.IsFace() }
func (face) Description() string                      { return "Face cards (J, Q, K)" }

type even struct{}

func Even() CardFilter { return even{} }

func (even) Matches(c poker.Card, _ FilterContext) bool { return c.IsEven() }
func (even) Description() string                      { return "Even-valued cards" }

type odd struct{}

func Odd() CardFilter { return odd{} }

func (odd) Matches(c poker.Card, _ FilterContext) bool { return c.IsOdd() }
func (odd) Description() string                      { return "Odd-valued cards" }

// Func adapts a plain predicate, for filters that read the context
type Func struct {
	Name string
	Fn   func(poker.Card, FilterContext) bool
}

func (f Func) Matches(c poker.Card, ctx FilterContext) bool {
	return f.Fn != nil && f.Fn(c, ctx)
}

func (f Func) Description() string { return f.Name }

// Composite filters

type allOf []CardFilter

// All matches when every child matches. With no children it matches everything.
func All(fs ...CardFilter) CardFilter { return allOf(fs) }

func (f allOf) Matches(c poker.Card, ctx FilterContext) bool {
	for _, child := range f {
		if !child.Matches(c, ctx) {
			return false
		}
	}
	return true
}

func (f allOf) Description() string { return "All of: [" + describe(f) + "]" }

type anyOf []CardFilter

// Any matches when at least one child matches. With no children it matches nothing.
func Any(fs ...CardFilter) CardFilter { return anyOf(fs) }

func (f anyOf) Matches(c poker.Card, ctx FilterContext) bool {
	for _, child := range f {
		if child.Matches(c, ctx) {
			return true
		}
	}
	return false
}

func (f anyOf) Description() string { return "Any of: [" + describe(f) + "]" }

type not struct{ inner CardFilter }

func Not(f CardFilter) CardFilter { return not{inner: f} }

func (f not) Matches(c poker.Card, ctx FilterContext) bool { return !f.inner.Matches(c, ctx) }
func (f not) Description() string                        { return "Not: " + f.inner.Description() }

func describe(fs []CardFilter) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.Description()
	}
	return strings.Join(parts, ", ")
}

// Filter keeps the cards that match, in order
func Filter(cards []poker.Card, f CardFilter, ctx FilterContext) []poker.Card {
	out := make([]poker.Card, 0, len(cards))
	for _, c := range cards {
		if f.Matches(c, ctx) {
			out = append(out, c)
		}
	}
	return out
}
