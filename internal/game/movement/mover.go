package movement

import (
	"fmt"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
)

// Kind classifies movers by the ownership rules they follow.
type Kind int

const (
	KindArmy Kind = iota
	KindSettler
	// KindCapital carries its empire's capital source along with it.
	KindCapital
)

func (k Kind) String() string {
	switch k {
	case KindArmy:
		return "army"
	case KindSettler:
		return "settler"
	case KindCapital:
		return "capital"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a kind name; the empty name is an army.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "", "army":
		return KindArmy, nil
	case "settler":
		return KindSettler, nil
	case "capital":
		return KindCapital, nil
	default:
		return KindArmy, fmt.Errorf("unknown mover kind %q", name)
	}
}

// Path is a planned route. Steps excludes the starting tile; Progress counts
// the turns spent so far on Steps[0].
type Path struct {
	Steps     []core.Coordinate `json:"steps"`
	Goal      core.Coordinate   `json:"goal"`
	Forbidden core.TerrainSet   `json:"forbidden"`
	Progress  int               `json:"progress"`
}

// Done reports whether every step has been walked.
func (p *Path) Done() bool { return len(p.Steps) == 0 }

// Mover is a unit that walks the grid.
type Mover struct {
	ID       core.MoverID    `json:"id"`
	Empire   core.EmpireID   `json:"empire"`
	Kind     Kind            `json:"kind"`
	Position core.Coordinate `json:"position"`

	Forbidden core.TerrainSet `json:"forbidden"`

	// CarriesInfluence movers claim the tiles they enter.
	CarriesInfluence bool `json:"carries_influence"`
	// Source is the influence source moved along with a capital mover.
	Source core.SourceID `json:"source"`

	Path *Path `json:"path,omitempty"`
}

// MoverRegistry is the dense id-indexed store of movers.
type MoverRegistry struct {
	items []*Mover
}

func NewMoverRegistry() *MoverRegistry {
	return &MoverRegistry{}
}

// Add stores m at its id, growing the registry as needed.
func (r *MoverRegistry) Add(m *Mover) {
	for int(m.ID) >= len(r.items) {
		r.items = append(r.items, nil)
	}
	r.items[m.ID] = m
}

// Get returns the mover for id, or false when the id is unknown or removed.
func (r *MoverRegistry) Get(id core.MoverID) (*Mover, bool) {
	if id < 0 || int(id) >= len(r.items) || r.items[id] == nil {
		return nil, false
	}
	return r.items[id], true
}

// Remove deletes a mover. Its id is never reused.
func (r *MoverRegistry) Remove(id core.MoverID) {
	if _, ok := r.Get(id); ok {
		r.items[id] = nil
	}
}

// All returns every live mover in id order.
func (r *MoverRegistry) All() []*Mover {
	out := make([]*Mover, 0, len(r.items))
	for _, m := range r.items {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// OfEmpire returns the movers of empire in id order.
func (r *MoverRegistry) OfEmpire(empire core.EmpireID) []*Mover {
	var out []*Mover
	for _, m := range r.items {
		if m != nil && m.Empire == empire {
			out = append(out, m)
		}
	}
	return out
}

// At returns the lowest-id mover standing on c.
func (r *MoverRegistry) At(c core.Coordinate) (*Mover, bool) {
	for _, m := range r.items {
		if m != nil && m.Position == c {
			return m, true
		}
	}
	return nil, false
}

// Occupied reports whether any mover stands on c.
func (r *MoverRegistry) Occupied(c core.Coordinate) bool {
	_, ok := r.At(c)
	return ok
}

// OccupiedByOther reports whether a mover other than self stands on c and,
// if so, whether it belongs to a different empire.
func (r *MoverRegistry) OccupiedByOther(c core.Coordinate, self *Mover) (occupied, foreign bool) {
	for _, m := range r.items {
		if m == nil || m.ID == self.ID || m.Position != c {
			continue
		}
		occupied = true
		if m.Empire != self.Empire {
			return true, true
		}
	}
	return occupied, false
}
