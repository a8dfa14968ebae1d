package filters

import (
	"Comodin/services/poker"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry looks filters up by name. Names are case-insensitive.
type Registry struct {
	mu      sync.RWMutex
	filters map[string]CardFilter
}

// NewEmptyRegistry has no filters at all
func NewEmptyRegistry() *Registry {
	return &Registry{filters: make(map[string]CardFilter)}
}

// NewRegistry comes with the default leaf and composite filters
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	defaults := map[string]CardFilter{
		"enhanced":    Enhanced(),
		"sealed":      Sealed(),
		"face":        Face(),
		"even":        Even(),
		"odd":         Odd(),
		"hearts":      SuitIs(poker.Hearts),
		"diamonds":    SuitIs(poker.Diamonds),
		"clubs":       SuitIs(poker.Clubs),
		"spades":      SuitIs(poker.Spades),
		"foil":        EditionIs(poker.Foil),
		"holographic": EditionIs(poker.Holographic),
		"polychrome":  EditionIs(poker.Polychrome),
		"negative":    EditionIs(poker.Negative),

		"red_cards":       Any(SuitIs(poker.Hearts), SuitIs(poker.Diamonds)),
		"black_cards":     Any(SuitIs(poker.Clubs), SuitIs(poker.Spades)),
		"special_edition": Not(EditionIs(poker.Base)),
	}
	for name, f := range defaults {
		r.filters[name] = f
	}
	return r
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds or replaces a named filter
func (r *Registry) Register(name string, f CardFilter) error {
	key := normalize(name)
	if key == "" {
		return fmt.Errorf("%w: empty filter name", ErrInvalidFilter)
	}
	if strings.ContainsAny(key, "&|!() ") {
		return fmt.Errorf("%w: name %q uses reserved characters", ErrInvalidFilter, name)
	}
	if f == nil {
		return fmt.Errorf("%w: nil filter %q", ErrInvalidFilter, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters[key] = f
	return nil
}

func (r *Registry) Lookup(name string) (CardFilter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.filters[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, name)
	}
	return f, nil
}

// Names is sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.filters))
	for name := range r.filters {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Apply runs the filter expression over cards. A plain name is the
// simplest expression.
func (r *Registry) Apply(expr string, cards []poker.Card, ctx FilterContext) ([]poker.Card, error) {
	f, err := r.Parse(expr)
	if err != nil {
		return nil, err
	}
	return Filter(cards, f, ctx), nil
}
