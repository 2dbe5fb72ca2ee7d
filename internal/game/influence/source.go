package influence

import (
	"sort"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
)

// Source is a city or capital seat that projects its empire's influence.
type Source struct {
	ID               core.SourceID   `json:"id"`
	Empire           core.EmpireID   `json:"empire"`
	Seat             core.Coordinate `json:"seat"`
	Power            int             `json:"power"`
	PowerAdvancement int             `json:"power_advancement"`

	// Target is the flag tile receiving extra pressure, nil when unset.
	Target *core.Coordinate `json:"target,omitempty"`

	// Controlled holds the grid indices of tiles this source controls.
	Controlled map[int]struct{} `json:"controlled"`
}

// NewSource creates a source with the given starting power.
func NewSource(id core.SourceID, empire core.EmpireID, seat core.Coordinate, power int) *Source {
	return &Source{
		ID:         id,
		Empire:     empire,
		Seat:       seat,
		Power:      power,
		Controlled: make(map[int]struct{}),
	}
}

func (s *Source) ControlledCount() int { return len(s.Controlled) }

// ControlledIndices returns the controlled tile indices in ascending order.
func (s *Source) ControlledIndices() []int {
	out := make([]int, 0, len(s.Controlled))
	for idx := range s.Controlled {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

// AdvancementThreshold is the advancement needed for the next power level.
func (s *Source) AdvancementThreshold(factor int) int {
	return factor * (s.Power + 1)
}

// SourceRegistry is the dense id-indexed store of influence sources.
type SourceRegistry struct {
	items []*Source
}

func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{}
}

// Add stores s at its id, growing the registry as needed.
func (r *SourceRegistry) Add(s *Source) {
	for int(s.ID) >= len(r.items) {
		r.items = append(r.items, nil)
	}
	r.items[s.ID] = s
}

// Get returns the source for id, or false when the id is unknown or removed.
func (r *SourceRegistry) Get(id core.SourceID) (*Source, bool) {
	if id < 0 || int(id) >= len(r.items) || r.items[id] == nil {
		return nil, false
	}
	return r.items[id], true
}

// Remove deletes a source. Its id is never reused.
func (r *SourceRegistry) Remove(id core.SourceID) {
	if _, ok := r.Get(id); ok {
		r.items[id] = nil
	}
}

// All returns every live source in id order.
func (r *SourceRegistry) All() []*Source {
	out := make([]*Source, 0, len(r.items))
	for _, s := range r.items {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// OfEmpire returns the live sources owned by empire in id order.
func (r *SourceRegistry) OfEmpire(empire core.EmpireID) []*Source {
	var out []*Source
	for _, s := range r.items {
		if s != nil && s.Empire == empire {
			out = append(out, s)
		}
	}
	return out
}

// AtSeat returns the source seated on c.
func (r *SourceRegistry) AtSeat(c core.Coordinate) (*Source, bool) {
	for _, s := range r.items {
		if s != nil && s.Seat == c {
			return s, true
		}
	}
	return nil, false
}

// Nearest returns the source of empire whose seat is closest to c by hex
// distance. Ties resolve to the lowest source id.
func (r *SourceRegistry) Nearest(empire core.EmpireID, c core.Coordinate) (*Source, bool) {
	var best *Source
	bestDist := 0
	for _, s := range r.items {
		if s == nil || s.Empire != empire {
			continue
		}
		d := core.HexDistance(s.Seat, c)
		if best == nil || d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, best != nil
}
