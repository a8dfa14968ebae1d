package poker

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Suit keeps the one-letter codes the clients already send
type Suit string

const (
	Spades   Suit = "s"
	Clubs    Suit = "c"
	Hearts   Suit = "h"
	Diamonds Suit = "d"
)

var Suits = []Suit{Spades, Clubs, Hearts, Diamonds}

var ErrBadCard = errors.New("bad card code")

func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

func (s Suit) String() string {
	switch s {
	case Spades:
		return "Spades"
	case Clubs:
		return "Clubs"
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	}
	return string(s)
}

// Rank is the printed value of a card: A, 2..10, J, Q, K
type Rank string

const (
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// Grade returns the ordering value of the rank, 2..14 (Ace high), 0 if unknown
func (r Rank) Grade() int {
	switch r {
	case King:
		return 13
	case Queen:
		return 12
	case Jack:
		return 11
	case Ace:
		return 14
	default:
		v, err := strconv.Atoi(string(r))
		if err != nil || v < 2 || v > 10 {
			return 0
		}
		return v
	}
}

func (r Rank) IsValid() bool {
	return r.Grade() != 0
}

func (r Rank) IsFace() bool {
	return r == Jack || r == Queen || r == King
}

// IsEven covers 2, 4, 6, 8 and 10
func (r Rank) IsEven() bool {
	g := r.Grade()
	return g >= 2 && g <= 10 && g%2 == 0
}

// IsOdd covers Ace, 3, 5, 7 and 9
func (r Rank) IsOdd() bool {
	if r == Ace {
		return true
	}
	g := r.Grade()
	return g >= 2 && g <= 10 && g%2 == 1
}

// Chips is the base chip value: face value, faces 10, Ace 11
func (r Rank) Chips() int {
	switch {
	case r.IsFace():
		return 10
	case r == Ace:
		return 11
	default:
		return r.Grade()
	}
}

type Enhancement string

const (
	NoEnhancement Enhancement = ""
	Bonus         Enhancement = "bonus"
	MultCard      Enhancement = "mult"
	Wild          Enhancement = "wild"
	Glass         Enhancement = "glass"
	Steel         Enhancement = "steel"
	Stone         Enhancement = "stone"
	Gold          Enhancement = "gold"
	Lucky         Enhancement = "lucky"
)

type Edition string

const (
	Base        Edition = ""
	Foil        Edition = "foil"
	Holographic Edition = "holographic"
	Polychrome  Edition = "polychrome"
	Negative    Edition = "negative"
)

type Seal string

const (
	NoSeal     Seal = ""
	GoldSeal   Seal = "gold"
	RedSeal    Seal = "red"
	BlueSeal   Seal = "blue"
	PurpleSeal Seal = "purple"
)

// Card is an immutable playing card
type Card struct {
	ID          int         `json:"id,omitempty"`
	Rank        Rank        `json:"rank"`
	Suit        Suit        `json:"suit"`
	Enhancement Enhancement `json:"enhancement,omitempty"`
	Edition     Edition     `json:"edition,omitempty"`
	Seal        Seal        `json:"seal,omitempty"`
}

func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// IsStone cards have no rank or suit for matching purposes
func (c Card) IsStone() bool {
	return c.Enhancement == Stone
}

func (c Card) IsFace() bool {
	return !c.IsStone() && c.Rank.IsFace()
}

func (c Card) IsEven() bool {
	return !c.IsStone() && c.Rank.IsEven()
}

func (c Card) IsOdd() bool {
	return !c.IsStone() && c.Rank.IsOdd()
}

// IsSuit honors Wild cards, which count as every suit
func (c Card) IsSuit(s Suit) bool {
	if c.IsStone() {
		return false
	}
	return c.Enhancement == Wild || c.Suit == s
}

// Chips scored by the card itself, before jokers
func (c Card) Chips() int {
	chips := c.Rank.Chips()
	if c.IsStone() {
		chips = 50
	}
	if c.Enhancement == Bonus {
		chips += 30
	}
	if c.Edition == Foil {
		chips += 50
	}
	return chips
}

func (c Card) String() string {
	if c.IsStone() {
		return "Stone"
	}
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// ParseCard reads a short code like "Ah", "10s" or "qd"
func ParseCard(code string) (Card, error) {
	code = strings.TrimSpace(code)
	if len(code) < 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrBadCard, code)
	}
	rank := Rank(strings.ToUpper(code[:len(code)-1]))
	suit := Suit(strings.ToLower(code[len(code)-1:]))
	if !slices.Contains(Ranks, rank) {
		return Card{}, fmt.Errorf("%w: bad rank in %q", ErrBadCard, code)
	}
	if !slices.Contains(Suits, suit) {
		return Card{}, fmt.Errorf("%w: bad suit in %q", ErrBadCard, code)
	}
	return NewCard(rank, suit), nil
}

// ParseCards numbers the cards from 1 in the order given
func ParseCards(codes ...string) ([]Card, error) {
	cards := make([]Card, 0, len(codes))
	for i, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			return nil, err
		}
		c.ID = i + 1
		cards = append(cards, c)
	}
	return cards, nil
}
