// Package effects maps discovery keys to the rule changes they unlock.
package effects

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/diplomacy"
)

var (
	ErrUnknownEffect   = errors.New("unknown effect")
	ErrDuplicateEffect = errors.New("effect already registered")
)

// Effect keys
const (
	KeyTreaty    = "diplomacy.treaty"
	KeyTribute   = "diplomacy.tribute"
	KeyCoastal   = "navigation.coastal"
	KeyOceanic   = "navigation.oceanic"
	KeyPatronage = "influence.patronage"
)

// World is the slice of simulation state effects act on.
type World interface {
	UnlockState(core.EmpireID, diplomacy.State)
	IsUnlocked(core.EmpireID, diplomacy.State) bool
	AllowTerrain(core.EmpireID, core.Terrain)
	Forbids(core.EmpireID, core.Terrain) bool
	// BoostCapital adds power to the empire's capital; false when it has none.
	BoostCapital(core.EmpireID, int) bool
}

// Effect is one named rule change.
type Effect interface {
	Key() string
	// Apply enacts the effect for empire.
	Apply(w World, empire core.EmpireID) error
	// Score estimates how much empire would gain; 0 means nothing.
	Score(w World, empire core.EmpireID) int
	Describe() string
}

type unlockState struct {
	key   string
	state diplomacy.State
}

func (u unlockState) Key() string { return u.key }

func (u unlockState) Apply(w World, empire core.EmpireID) error {
	w.UnlockState(empire, u.state)
	return nil
}

func (u unlockState) Score(w World, empire core.EmpireID) int {
	if w.IsUnlocked(empire, u.state) {
		return 0
	}
	return 20
}

func (u unlockState) Describe() string {
	return fmt.Sprintf("Allows proposals leading to %s", u.state)
}

type allowTerrain struct {
	key     string
	terrain core.Terrain
	weight  int
}

func (a allowTerrain) Key() string { return a.key }

func (a allowTerrain) Apply(w World, empire core.EmpireID) error {
	w.AllowTerrain(empire, a.terrain)
	return nil
}

func (a allowTerrain) Score(w World, empire core.EmpireID) int {
	if !w.Forbids(empire, a.terrain) {
		return 0
	}
	return a.weight
}

func (a allowTerrain) Describe() string {
	return fmt.Sprintf("Units may cross %s", a.terrain)
}

type patronage struct {
	amount int
}

func (p patronage) Key() string { return KeyPatronage }

func (p patronage) Apply(w World, empire core.EmpireID) error {
	if !w.BoostCapital(empire, p.amount) {
		return fmt.Errorf("%s: empire %d has no capital: %w", KeyPatronage, empire, core.ErrUnknownSource)
	}
	return nil
}

func (p patronage) Score(w World, empire core.EmpireID) int { return p.amount }

func (p patronage) Describe() string {
	return fmt.Sprintf("Capital gains %d power", p.amount)
}

// Registry resolves effect keys.
type Registry struct {
	effects map[string]Effect
}

// NewRegistry returns a registry holding the built-in effects.
func NewRegistry() *Registry {
	r := &Registry{effects: make(map[string]Effect)}
	for _, e := range []Effect{
		unlockState{key: KeyTreaty, state: diplomacy.StateTreaty},
		unlockState{key: KeyTribute, state: diplomacy.StateTribute},
		allowTerrain{key: KeyCoastal, terrain: core.TerrainShallowWater, weight: 15},
		allowTerrain{key: KeyOceanic, terrain: core.TerrainDeepWater, weight: 25},
		patronage{amount: 10},
	} {
		r.effects[e.Key()] = e
	}
	return r
}

// Register adds an effect. Keys are unique.
func (r *Registry) Register(e Effect) error {
	if _, ok := r.effects[e.Key()]; ok {
		return fmt.Errorf("%q: %w", e.Key(), ErrDuplicateEffect)
	}
	r.effects[e.Key()] = e
	return nil
}

// Get returns the effect for key.
func (r *Registry) Get(key string) (Effect, error) {
	e, ok := r.effects[key]
	if !ok {
		return nil, fmt.Errorf("%q: %w", key, ErrUnknownEffect)
	}
	return e, nil
}

// Keys lists every registered key in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.effects))
	for k := range r.effects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that every key resolves, so bad data fails at load time.
func (r *Registry) Validate(keys []string) error {
	var errs []error
	for _, k := range keys {
		if _, err := r.Get(k); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Apply looks up key and applies it for empire.
func (r *Registry) Apply(key string, w World, empire core.EmpireID) error {
	e, err := r.Get(key)
	if err != nil {
		return err
	}
	return e.Apply(w, empire)
}
