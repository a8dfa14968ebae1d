package poker

import (
	"encoding/json"
	"fmt"
)

// Shuffler is satisfied by *rand.Rand from golang.org/x/exp/rand
type Shuffler interface {
	Intn(n int) int
}

type Deck struct {
	TotalCards  []Card `json:"total_cards"`
	PlayedCards []Card `json:"played_cards"`
}

// NewStandardDeck builds the 52 cards in a fixed order, ids 1..52
func NewStandardDeck() *Deck {
	total := make([]Card, 0, 52)
	id := 1
	for _, suit := range Suits {
		for _, rank := range Ranks {
			total = append(total, Card{ID: id, Rank: rank, Suit: suit})
			id++
		}
	}
	return &Deck{
		TotalCards:  total,
		PlayedCards: make([]Card, 0),
	}
}

func (d *Deck) AddCards(newCards []Card) {
	d.TotalCards = append(d.TotalCards, newCards...)
}

func (d *Deck) MarkAsPlayed(cards []Card) {
	d.PlayedCards = append(d.PlayedCards, cards...)
}

// Draw takes up to n cards from the top, reshuffling played cards back in when short
func (d *Deck) Draw(n int, rng Shuffler) []Card {
	if len(d.TotalCards) < n {
		d.reshufflePlayed(rng)
	}
	if n > len(d.TotalCards) {
		n = len(d.TotalCards)
	}
	drawn := make([]Card, n)
	copy(drawn, d.TotalCards[:n])
	d.TotalCards = d.TotalCards[n:]
	return drawn
}

// Shuffle puts played cards back and runs Fisher-Yates over the deck
func (d *Deck) Shuffle(rng Shuffler) {
	if len(d.PlayedCards) > 0 {
		d.TotalCards = append(d.TotalCards, d.PlayedCards...)
		d.PlayedCards = []Card{}
	}
	fisherYates(d.TotalCards, rng)
}

func (d *Deck) reshufflePlayed(rng Shuffler) {
	fisherYates(d.PlayedCards, rng)
	d.TotalCards = append(d.TotalCards, d.PlayedCards...)
	d.PlayedCards = make([]Card, 0)
}

func fisherYates(cards []Card, rng Shuffler) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Composition counts every card the deck owns, played ones included
type Composition struct {
	Total int `json:"total"`
	Stone int `json:"stone"`
	Steel int `json:"steel"`
}

func (d *Deck) Composition() Composition {
	var comp Composition
	for _, cards := range [][]Card{d.TotalCards, d.PlayedCards} {
		for _, c := range cards {
			comp.Total++
			switch c.Enhancement {
			case Stone:
				comp.Stone++
			case Steel:
				comp.Steel++
			}
		}
	}
	return comp
}

// Marshal the deck for Redis storage
func (d *Deck) ToJSON() (json.RawMessage, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("error marshaling deck: %w", err)
	}
	return data, nil
}

func DeckFromJSON(data json.RawMessage) (*Deck, error) {
	var deck Deck
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("error unmarshaling deck: %w", err)
	}
	return &deck, nil
}
