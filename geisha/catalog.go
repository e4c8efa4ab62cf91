// Package geisha holds the data-only catalog of geisha sets and the deck
// construction/shuffling routine built on top of it.
package geisha

import "fmt"

// Def is one geisha's static definition: identity, charm value, and how
// many favor cards for her exist in the deck.
type Def struct {
	ID        int
	Name      string
	Charm     int
	CardCount int
}

// Geisha is the live, per-match state of one geisha: her static Def plus
// which seat currently controls her favor (empty string if contested/none).
type Geisha struct {
	Def
	ControlledBy string
}

// Registry maps a set key to the seven geisha definitions used to build
// a match's board and deck. Registering a set is the only way to introduce
// a new geisha roster; nothing in the room/game packages hardcodes names.
type Registry struct {
	sets map[string][]Def
	keys []string
}

// NewRegistry returns an empty registry. Callers should call RegisterDefaults
// (or their own Register calls) before using it.
func NewRegistry() *Registry {
	return &Registry{sets: make(map[string][]Def)}
}

// Register adds a named geisha set. defs must have exactly 7 entries,
// each with Charm == CardCount (exactly charm copies of each geisha
// exist in a fresh deck), summing to 21 (the fixed deck size this game
// is defined over).
func (r *Registry) Register(key string, defs []Def) error {
	if len(defs) != 7 {
		return fmt.Errorf("geisha set %q: expected 7 geishas, got %d", key, len(defs))
	}
	total := 0
	for _, d := range defs {
		if d.Charm != d.CardCount {
			return fmt.Errorf("geisha set %q: geisha %d (%s) has charm %d but card count %d, they must match", key, d.ID, d.Name, d.Charm, d.CardCount)
		}
		total += d.CardCount
	}
	if total != 21 {
		return fmt.Errorf("geisha set %q: card counts sum to %d, expected 21", key, total)
	}
	if _, exists := r.sets[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.sets[key] = defs
	return nil
}

// Keys returns the registered set keys in registration order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// BuildGeishas returns the 7 live Geisha values for a match, uncontrolled.
func (r *Registry) BuildGeishas(setKey string) ([]Geisha, error) {
	defs, ok := r.sets[setKey]
	if !ok {
		return nil, fmt.Errorf("unknown geisha set %q", setKey)
	}
	out := make([]Geisha, len(defs))
	for i, d := range defs {
		out[i] = Geisha{Def: d}
	}
	return out, nil
}

// RegisterDefaults registers two geisha sets, each ordered by ascending
// card count: "default", the classic seven geishas with card counts
// (2,2,2,3,3,4,5), and "swift", with card counts (1,2,2,3,4,4,5).
func RegisterDefaults(r *Registry) {
	_ = r.Register("default", []Def{
		{ID: 1, Name: "Yuki", Charm: 2, CardCount: 2},
		{ID: 2, Name: "Kiku", Charm: 2, CardCount: 2},
		{ID: 3, Name: "Sakura", Charm: 2, CardCount: 2},
		{ID: 4, Name: "Hana", Charm: 3, CardCount: 3},
		{ID: 5, Name: "Momiji", Charm: 3, CardCount: 3},
		{ID: 6, Name: "Botan", Charm: 4, CardCount: 4},
		{ID: 7, Name: "Tsubaki", Charm: 5, CardCount: 5},
	})
	// mirror-ranked variant with a different charm curve, useful for
	// lobbies that want a faster-swinging match
	_ = r.Register("swift", []Def{
		{ID: 1, Name: "Ren", Charm: 1, CardCount: 1},
		{ID: 2, Name: "Ume", Charm: 2, CardCount: 2},
		{ID: 3, Name: "Aki", Charm: 2, CardCount: 2},
		{ID: 4, Name: "Fuyu", Charm: 3, CardCount: 3},
		{ID: 5, Name: "Natsu", Charm: 4, CardCount: 4},
		{ID: 6, Name: "Haru", Charm: 4, CardCount: 4},
		{ID: 7, Name: "Sora", Charm: 5, CardCount: 5},
	})
}
