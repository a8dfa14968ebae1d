package tags

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// RNG is what WeightedPick needs from the run's generator
type RNG interface {
	Float64() float64
}

// Registry holds every tag definition and its factory. Built-ins are
// registered once per registry; afterwards it is read-mostly.
type Registry struct {
	once      sync.Once
	mu        sync.RWMutex
	defs      map[TagID]Definition
	factories map[TagID]Factory
}

// NewEmptyRegistry has no tags at all
func NewEmptyRegistry() *Registry {
	return &Registry{
		defs:      make(map[TagID]Definition),
		factories: make(map[TagID]Factory),
	}
}

// NewRegistry holds the built-in tags
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	r.loadDefaults()
	return r
}

func (r *Registry) loadDefaults() {
	r.once.Do(func() {
		for _, b := range builtins() {
			factory := func() SkipTag { return tag{def: b.def, effect: b.effect} }
			if err := r.Register(b.def, factory); err != nil {
				// Built-ins are static, a failure here is a programming error
				panic(err)
			}
		}
	})
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global is the shared read-only registry for code that cannot be handed one
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Register validates def and adds it with its factory
func (r *Registry) Register(def Definition, factory Factory) error {
	if !def.ID.IsValid() {
		return fmt.Errorf("%w: unknown id %d", ErrInvalidDefinition, int(def.ID))
	}
	if strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("%w: %s has no name", ErrInvalidDefinition, def.ID)
	}
	if strings.TrimSpace(def.Description) == "" {
		return fmt.Errorf("%w: %s has no description", ErrInvalidDefinition, def.ID)
	}
	if def.BaseWeight < 0 {
		return fmt.Errorf("%w: %s has a negative weight", ErrInvalidDefinition, def.ID)
	}
	if factory == nil {
		return fmt.Errorf("%w: %s has no factory", ErrInvalidDefinition, def.ID)
	}
	if got := factory().ID(); got != def.ID {
		return fmt.Errorf("%w: factory for %s builds %s", ErrInvalidDefinition, def.ID, got)
	}
	if def.Category == "" {
		def.Category = def.ID.Category()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defs[def.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, def.ID)
	}
	r.defs[def.ID] = def
	r.factories[def.ID] = factory
	return nil
}

func (r *Registry) Definition(id TagID) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrTagNotFound, id)
	}
	return def, nil
}

// Create returns a fresh instance on every call
func (r *Registry) Create(id TagID) (SkipTag, error) {
	r.mu.RLock()
	factory, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTagNotFound, id)
	}
	return factory(), nil
}

func (r *Registry) IsRegistered(id TagID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[id]
	return ok
}

// Apply runs the tag on ctx. Pending Double tags are used up by the first
// tag that is not a Double, which then applies once more per Double.
func (r *Registry) Apply(id TagID, ctx *TagContext) (TagResult, error) {
	t, err := r.Create(id)
	if err != nil {
		return TagResult{}, err
	}
	res, err := t.Apply(ctx)
	if err != nil || id == Double || ctx.DoubleNext <= 0 {
		return res, err
	}
	copies := ctx.DoubleNext
	ctx.DoubleNext = 0
	for i := 0; i < copies; i++ {
		extra, err := t.Apply(ctx)
		if err != nil {
			return res, err
		}
		res.Money += extra.Money
		res.Copies++
	}
	res.Message = fmt.Sprintf("%s (x%d)", res.Message, res.Copies+1)
	return res, nil
}

// Definitions is sorted by id
func (r *Registry) Definitions() []Definition {
	return r.where(func(Definition) bool { return true })
}

func (r *Registry) ByCategory(c Category) []Definition {
	return r.where(func(d Definition) bool { return d.Category == c })
}

func (r *Registry) ByEffectType(t EffectType) []Definition {
	return r.where(func(d Definition) bool { return d.EffectType == t })
}

// Available lists the tags that can be offered at ante
func (r *Registry) Available(ante int) []Definition {
	return r.where(func(d Definition) bool { return d.IsAvailable(ante) })
}

func (r *Registry) where(keep func(Definition) bool) []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.defs))
	for _, d := range r.defs {
		if keep(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// WeightedPick draws one available tag with probability proportional to
// its weight
func (r *Registry) WeightedPick(rng RNG, ante int) (Definition, error) {
	if rng == nil {
		return Definition{}, fmt.Errorf("weighted pick needs an rng")
	}
	candidates := r.Available(ante)
	total := 0.0
	for _, d := range candidates {
		total += d.EffectiveWeight(ante)
	}
	if total <= 0 {
		return Definition{}, fmt.Errorf("%w: none available at ante %d", ErrTagNotFound, ante)
	}

	roll := rng.Float64() * total
	for _, d := range candidates {
		w := d.EffectiveWeight(ante)
		if roll < w {
			return d, nil
		}
		roll -= w
	}
	return candidates[len(candidates)-1], nil
}

type Stats struct {
	Total        int                `json:"total"`
	Enabled      int                `json:"enabled"`
	Available    int                `json:"available"`
	ByCategory   map[Category]int   `json:"by_category"`
	ByEffectType map[EffectType]int `json:"by_effect_type"`
}

// Stats counts availability at ante 1
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := Stats{
		Total:        len(r.defs),
		ByCategory:   make(map[Category]int),
		ByEffectType: make(map[EffectType]int),
	}
	for _, d := range r.defs {
		if d.Enabled {
			s.Enabled++
		}
		if d.IsAvailable(1) {
			s.Available++
		}
		s.ByCategory[d.Category]++
		s.ByEffectType[d.EffectType]++
	}
	return s
}
