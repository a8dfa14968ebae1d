package tags

import (
	"fmt"
	"strings"
)

type TagID int

const (
	Unknown TagID = iota

	// Reward
	Charm
	Ethereal
	Buffoon
	Standard
	Meteor
	Rare
	Uncommon
	TopUp

	// Economic
	Economy
	Investment
	Garbage
	Speed
	Handy

	// Shop enhancement
	Voucher
	Coupon
	D6
	Foil
	Holographic
	Polychrome
	Negative

	// Utility
	Double
	Boss
	Orbital
	Juggle
)

var tagSlugs = map[TagID]string{
	Charm:       "charm",
	Ethereal:    "ethereal",
	Buffoon:     "buffoon",
	Standard:    "standard",
	Meteor:      "meteor",
	Rare:        "rare",
	Uncommon:    "uncommon",
	TopUp:       "top_up",
	Economy:     "economy",
	Investment:  "investment",
	Garbage:     "garbage",
	Speed:       "speed",
	Handy:       "handy",
	Voucher:     "voucher",
	Coupon:      "coupon",
	D6:          "d6",
	Foil:        "foil",
	Holographic: "holographic",
	Polychrome:  "polychrome",
	Negative:    "negative",
	Double:      "double",
	Boss:        "boss",
	Orbital:     "orbital",
	Juggle:      "juggle",
}

func (id TagID) String() string {
	if slug, ok := tagSlugs[id]; ok {
		return slug
	}
	return fmt.Sprintf("tag_%d", int(id))
}

func (id TagID) IsValid() bool {
	_, ok := tagSlugs[id]
	return ok
}

// Category is derived from the id
func (id TagID) Category() Category {
	switch {
	case id >= Charm && id <= TopUp:
		return CategoryReward
	case id >= Economy && id <= Handy:
		return CategoryEconomic
	case id >= Voucher && id <= Negative:
		return CategoryShopEnhancement
	case id >= Double && id <= Juggle:
		return CategoryUtility
	}
	return ""
}

func ParseTagID(s string) (TagID, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for id, slug := range tagSlugs {
		if slug == want {
			return id, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrTagNotFound, s)
}

func (id TagID) MarshalText() ([]byte, error) {
	if !id.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrTagNotFound, int(id))
	}
	return []byte(id.String()), nil
}

func (id *TagID) UnmarshalText(text []byte) error {
	parsed, err := ParseTagID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

type Category string

const (
	CategoryReward          Category = "reward"
	CategoryEconomic        Category = "economic"
	CategoryShopEnhancement Category = "shop_enhancement"
	CategoryUtility         Category = "utility"
)

type EffectType string

const (
	ImmediateReward   EffectType = "immediate_reward"
	NextShopModifier  EffectType = "next_shop_modifier"
	GameStateModifier EffectType = "game_state_modifier"
	SpecialMechanic   EffectType = "special_mechanic"
)
