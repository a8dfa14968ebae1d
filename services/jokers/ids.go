package jokers

import (
	"fmt"
	"strings"
)

// JokerID identifies a joker species. It keys the state store, the save
// format and the catalogue. Values are append-only: never reorder.
type JokerID int

const (
	Unknown JokerID = iota
	TheJoker
	JollyJoker
	ZanyJoker
	MadJoker
	CrazyJoker
	DrollJoker
	SlyJoker
	WilyJoker
	CleverJoker
	DeviousJoker
	CraftyJoker
	HalfJoker
	Banner
	MysticSummit
	AbstractJoker
	BlueJoker
	Stuntman
	Misprint
	IceCream
	Supernova
	StoneJoker
	GreedyJoker
	LustyJoker
	WrathfulJoker
	GluttonousJoker
	ScaryFace
	Smiley
	EvenSteven
	OddTodd
	Scholar
	Fibonacci
	WalkieTalkie
	Photograph
	BusinessCard
	Arrowhead
	RoughGem
	TheDuo
	TheTrio
	TheFamily
	TheOrder
	TheTribe
	PolishedJoker
	SteelJoker
	Cavendish
	HangingChad
	SockAndBuskin
	Hack
	Dusk
	Egg
	GoldenJoker
	DelayedGratification
	GiftCard
	Blueprint
	Brainstorm
	Luchador
	Acrobat
	CardSharp
	SpareTrousers
	SquareJoker
	Runner
	WeeJoker
	GreenJoker
	RideTheBus
	CeremonialDagger
	Throwback
	Hologram
	Bull
	Bootstraps
	FortuneTeller
	RedCard
	FlashCard
	Marble
	Castle
	LoyaltyCard
	Campfire
	RocketShip
)

var jokerSlugs = map[JokerID]string{
	TheJoker:             "joker",
	JollyJoker:           "jolly_joker",
	ZanyJoker:            "zany_joker",
	MadJoker:             "mad_joker",
	CrazyJoker:           "crazy_joker",
	DrollJoker:           "droll_joker",
	SlyJoker:             "sly_joker",
	WilyJoker:            "wily_joker",
	CleverJoker:          "clever_joker",
	DeviousJoker:         "devious_joker",
	CraftyJoker:          "crafty_joker",
	HalfJoker:            "half_joker",
	Banner:               "banner",
	MysticSummit:         "mystic_summit",
	AbstractJoker:        "abstract_joker",
	BlueJoker:            "blue_joker",
	Stuntman:             "stuntman",
	Misprint:             "misprint",
	IceCream:             "ice_cream",
	Supernova:            "supernova",
	StoneJoker:           "stone_joker",
	GreedyJoker:          "greedy_joker",
	LustyJoker:           "lusty_joker",
	WrathfulJoker:        "wrathful_joker",
	GluttonousJoker:      "gluttonous_joker",
	ScaryFace:            "scary_face",
	Smiley:               "smiley_face",
	EvenSteven:           "even_steven",
	OddTodd:              "odd_todd",
	Scholar:              "scholar",
	Fibonacci:            "fibonacci",
	WalkieTalkie:         "walkie_talkie",
	Photograph:           "photograph",
	BusinessCard:         "business_card",
	Arrowhead:            "arrowhead",
	RoughGem:             "rough_gem",
	TheDuo:               "the_duo",
	TheTrio:              "the_trio",
	TheFamily:            "the_family",
	TheOrder:             "the_order",
	TheTribe:             "the_tribe",
	PolishedJoker:        "polished_joker",
	SteelJoker:           "steel_joker",
	Cavendish:            "cavendish",
	HangingChad:          "hanging_chad",
	SockAndBuskin:        "sock_and_buskin",
	Hack:                 "hack",
	Dusk:                 "dusk",
	Egg:                  "egg",
	GoldenJoker:          "golden_joker",
	DelayedGratification: "delayed_gratification",
	GiftCard:             "gift_card",
	Blueprint:            "blueprint",
	Brainstorm:           "brainstorm",
	Luchador:             "luchador",
	Acrobat:              "acrobat",
	CardSharp:            "card_sharp",
	SpareTrousers:        "spare_trousers",
	SquareJoker:          "square_joker",
	Runner:               "runner",
	WeeJoker:             "wee_joker",
	GreenJoker:           "green_joker",
	RideTheBus:           "ride_the_bus",
	CeremonialDagger:     "ceremonial_dagger",
	Throwback:            "throwback",
	Hologram:             "hologram",
	Bull:                 "bull",
	Bootstraps:           "bootstraps",
	FortuneTeller:        "fortune_teller",
	RedCard:              "red_card",
	FlashCard:            "flash_card",
	Marble:               "marble_joker",
	Castle:               "castle",
	LoyaltyCard:          "loyalty_card",
	Campfire:             "campfire",
	RocketShip:           "rocket_ship",
}

var jokerIDsBySlug = func() map[string]JokerID {
	m := make(map[string]JokerID, len(jokerSlugs))
	for id, slug := range jokerSlugs {
		m[slug] = id
	}
	return m
}()

// String returns the stable slug used in saves and URLs
func (id JokerID) String() string {
	if slug, ok := jokerSlugs[id]; ok {
		return slug
	}
	return fmt.Sprintf("joker_%d", int(id))
}

func (id JokerID) IsValid() bool {
	_, ok := jokerSlugs[id]
	return ok
}

// ParseJokerID accepts a slug, case and surrounding spaces ignored
func ParseJokerID(s string) (JokerID, error) {
	if id, ok := jokerIDsBySlug[strings.ToLower(strings.TrimSpace(s))]; ok {
		return id, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownJoker, s)
}

func (id JokerID) MarshalText() ([]byte, error) {
	if !id.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownJoker, int(id))
	}
	return []byte(id.String()), nil
}

func (id *JokerID) UnmarshalText(text []byte) error {
	parsed, err := ParseJokerID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
