package vouchers

import (
	"fmt"
	"strings"
)

type VoucherID int

const (
	Unknown VoucherID = iota

	// Shop
	Overstock
	OverstockPlus
	ClearanceSale
	Hone
	RerollSurplus
	CrystalBall
	Liquidation
	RerollGlut

	// Gameplay
	Grabber
	NachoTong
	Wasteful
	SeedMoney
	MoneyTree
	Hieroglyph
	Petroglyph
	Antimatter
	MagicTrick
	Illusion
	Blank
	PaintBrush
	TarotMerchant
	TarotTycoon

	// Upgrades
	GlowUp
	Recyclomancy
	PlanetMerchant
	PlanetTycoon
	DirectorsCut
	Retcon
	Palette
)

const baseCost = 10

type info struct {
	slug    string
	name    string
	prereqs []VoucherID
}

var voucherInfo = map[VoucherID]info{
	Overstock:      {"overstock", "Overstock", nil},
	OverstockPlus:  {"overstock_plus", "Overstock Plus", []VoucherID{Overstock}},
	ClearanceSale:  {"clearance_sale", "Clearance Sale", nil},
	Hone:           {"hone", "Hone", nil},
	RerollSurplus:  {"reroll_surplus", "Reroll Surplus", nil},
	CrystalBall:    {"crystal_ball", "Crystal Ball", nil},
	Liquidation:    {"liquidation", "Liquidation", []VoucherID{ClearanceSale}},
	RerollGlut:     {"reroll_glut", "Reroll Glut", []VoucherID{RerollSurplus}},
	Grabber:        {"grabber", "Grabber", nil},
	NachoTong:      {"nacho_tong", "Nacho Tong", []VoucherID{Grabber}},
	Wasteful:       {"wasteful", "Wasteful", nil},
	SeedMoney:      {"seed_money", "Seed Money", nil},
	MoneyTree:      {"money_tree", "Money Tree", []VoucherID{SeedMoney}},
	Hieroglyph:     {"hieroglyph", "Hieroglyph", nil},
	Petroglyph:     {"petroglyph", "Petroglyph", []VoucherID{Hieroglyph}},
	Antimatter:     {"antimatter", "Antimatter", []VoucherID{Blank}},
	MagicTrick:     {"magic_trick", "Magic Trick", nil},
	Illusion:       {"illusion", "Illusion", []VoucherID{MagicTrick}},
	Blank:          {"blank", "Blank", nil},
	PaintBrush:     {"paint_brush", "Paint Brush", nil},
	TarotMerchant:  {"tarot_merchant", "Tarot Merchant", nil},
	TarotTycoon:    {"tarot_tycoon", "Tarot Tycoon", []VoucherID{TarotMerchant}},
	GlowUp:         {"glow_up", "Glow Up", []VoucherID{Hone}},
	Recyclomancy:   {"recyclomancy", "Recyclomancy", []VoucherID{Wasteful}},
	PlanetMerchant: {"planet_merchant", "Planet Merchant", nil},
	PlanetTycoon:   {"planet_tycoon", "Planet Tycoon", []VoucherID{PlanetMerchant}},
	DirectorsCut:   {"directors_cut", "Director's Cut", nil},
	Retcon:         {"retcon", "Retcon", []VoucherID{DirectorsCut}},
	Palette:        {"palette", "Palette", []VoucherID{PaintBrush}},
}

// All lists every voucher in id order
func All() []VoucherID {
	out := make([]VoucherID, 0, len(voucherInfo))
	for id := Overstock; id <= Palette; id++ {
		out = append(out, id)
	}
	return out
}

func (id VoucherID) IsValid() bool {
	_, ok := voucherInfo[id]
	return ok
}

func (id VoucherID) String() string {
	if i, ok := voucherInfo[id]; ok {
		return i.slug
	}
	return fmt.Sprintf("voucher_%d", int(id))
}

// Name is the display name
func (id VoucherID) Name() string {
	if i, ok := voucherInfo[id]; ok {
		return i.name
	}
	return "Unnamed Voucher"
}

// Prerequisites are the vouchers that must be owned before this one
func (id VoucherID) Prerequisites() []VoucherID {
	return append([]VoucherID(nil), voucherInfo[id].prereqs...)
}

func (id VoucherID) HasPrerequisites() bool {
	return len(voucherInfo[id].prereqs) > 0
}

func (id VoucherID) BaseCost() int {
	return baseCost
}

// Tier is Upgraded for every voucher that needs another one first
func (id VoucherID) Tier() Tier {
	if id.HasPrerequisites() {
		return Upgraded
	}
	return Base
}

func ParseVoucherID(s string) (VoucherID, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for id, i := range voucherInfo {
		if i.slug == want {
			return id, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrVoucherNotFound, s)
}

func (id VoucherID) MarshalText() ([]byte, error) {
	if !id.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrVoucherNotFound, int(id))
	}
	return []byte(id.String()), nil
}

func (id *VoucherID) UnmarshalText(text []byte) error {
	parsed, err := ParseVoucherID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

type Tier string

const (
	Base     Tier = "base"
	Upgraded Tier = "upgraded"
)

// Upgrade returns the next tier, or false when there is none
func (t Tier) Upgrade() (Tier, bool) {
	if t == Base {
		return Upgraded, true
	}
	return "", false
}

type StackingKind string

const (
	NoStacking        StackingKind = "none"
	UnlimitedStacking StackingKind = "unlimited"
	LimitedStacking   StackingKind = "limited"
)

// StackingRule says how many copies of a voucher's effect may be active
type StackingRule struct {
	Kind  StackingKind `json:"kind"`
	Limit int          `json:"limit,omitempty"`
}

func (s StackingRule) AllowsStacking() bool {
	return s.Kind != NoStacking && s.Kind != ""
}

// MaxStack is the stack limit, or false when unlimited
func (s StackingRule) MaxStack() (int, bool) {
	switch s.Kind {
	case UnlimitedStacking:
		return 0, false
	case LimitedStacking:
		return s.Limit, true
	}
	return 1, true
}
