package influence

import (
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
)

// Tile holds the influence state of one grid tile. Values and Deltas are the
// raw data; Main, MainValue and Source are caches rebuilt by Recompute.
type Tile struct {
	Values map[core.EmpireID]int `json:"values,omitempty"`
	Deltas map[core.EmpireID]int `json:"deltas,omitempty"`

	Main      core.EmpireID `json:"main"`
	MainValue int           `json:"main_value"`
	Source    core.SourceID `json:"source"`
}

// Field is the per-tile influence layer laid over a grid.
type Field struct {
	grid  *core.Grid
	Tiles []Tile `json:"tiles"`
}

// NewField creates an empty field sized to grid.
func NewField(grid *core.Grid) *Field {
	f := &Field{grid: grid, Tiles: make([]Tile, grid.Size())}
	for i := range f.Tiles {
		f.Tiles[i] = Tile{Main: core.NoEmpire, Source: core.NoSource}
	}
	return f
}

func (f *Field) Grid() *core.Grid { return f.grid }

// Tile returns the influence tile at c, or nil when c is out of bounds.
func (f *Field) Tile(c core.Coordinate) *Tile {
	if !f.grid.InBounds(c) {
		return nil
	}
	return &f.Tiles[f.grid.Idx(c)]
}

// Value returns the influence of empire on tile c.
func (f *Field) Value(c core.Coordinate, empire core.EmpireID) int {
	t := f.Tile(c)
	if t == nil {
		return 0
	}
	return t.Values[empire]
}

// Main returns the dominant empire of c, if any.
func (f *Field) Main(c core.Coordinate) (core.EmpireID, bool) {
	t := f.Tile(c)
	if t == nil || t.Main == core.NoEmpire {
		return core.NoEmpire, false
	}
	return t.Main, true
}

// Dominates reports whether empire is the main controller of c.
func (f *Field) Dominates(c core.Coordinate, empire core.EmpireID) bool {
	main, ok := f.Main(c)
	return ok && main == empire
}

// MaxValue returns the highest influence any empire holds on c.
func (f *Field) MaxValue(c core.Coordinate) int {
	t := f.Tile(c)
	if t == nil {
		return 0
	}
	best := 0
	for _, v := range t.Values {
		best = max(best, v)
	}
	return best
}

// AddDelta queues a change of empire's influence on c for the next apply.
func (f *Field) AddDelta(c core.Coordinate, empire core.EmpireID, delta int) {
	t := f.Tile(c)
	if t == nil || delta == 0 {
		return
	}
	if t.Deltas == nil {
		t.Deltas = make(map[core.EmpireID]int)
	}
	t.Deltas[empire] += delta
}

// PendingDelta returns the queued delta of empire on c.
func (f *Field) PendingDelta(c core.Coordinate, empire core.EmpireID) int {
	t := f.Tile(c)
	if t == nil {
		return 0
	}
	return t.Deltas[empire]
}

// Set overwrites empire's value on c (clamped at 0) and refreshes the main
// controller cache.
func (f *Field) Set(c core.Coordinate, empire core.EmpireID, value int) {
	t := f.Tile(c)
	if t == nil {
		return
	}
	setValue(t, empire, value)
	f.recomputeMain(f.grid.Idx(c))
}

// Claim makes empire the main controller of c, as when a city is founded.
func (f *Field) Claim(c core.Coordinate, empire core.EmpireID) {
	t := f.Tile(c)
	if t == nil {
		return
	}
	value := f.grid.TerrainAt(c).MoveCost()
	for e, v := range t.Values {
		if e != empire && v >= value {
			value = v + 1
		}
	}
	f.Set(c, empire, max(value, t.Values[empire]))
}

// ApplyDeltas adds every pending delta to its value, clamps at zero, clears
// the deltas and refreshes the main controller of each touched tile. A second
// call without new deltas changes nothing.
func (f *Field) ApplyDeltas() {
	for i := range f.Tiles {
		t := &f.Tiles[i]
		if len(t.Deltas) == 0 {
			continue
		}
		for e, d := range t.Deltas {
			setValue(t, e, t.Values[e]+d)
		}
		clear(t.Deltas)
		f.recomputeMain(i)
	}
}

// Recompute rebuilds every main controller cache from raw values.
func (f *Field) Recompute() {
	for i := range f.Tiles {
		f.recomputeMain(i)
	}
}

// recomputeMain picks the strictly highest value that reaches the terrain's
// resistance. Equal values resolve to the lowest empire id.
func (f *Field) recomputeMain(idx int) {
	t := &f.Tiles[idx]
	threshold := f.grid.Terrain[idx].MoveCost() - 1

	main, best := core.NoEmpire, 0
	for e, v := range t.Values {
		if v > best || (v == best && main != core.NoEmpire && e < main) {
			main, best = e, v
		}
	}
	if best <= threshold {
		main, best = core.NoEmpire, 0
	}
	t.Main, t.MainValue = main, best
	if main == core.NoEmpire {
		t.Source = core.NoSource
	}
}

func setValue(t *Tile, empire core.EmpireID, value int) {
	if value <= 0 {
		delete(t.Values, empire)
		return
	}
	if t.Values == nil {
		t.Values = make(map[core.EmpireID]int)
	}
	t.Values[empire] = value
}
