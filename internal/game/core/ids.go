package core

// EmpireID identifies an empire. NoEmpire marks an unclaimed tile.
type EmpireID int

// SourceID identifies an influence source (a city or capital seat).
type SourceID int

// MoverID identifies a unit that moves across the grid.
type MoverID int

const (
	NoEmpire EmpireID = -1
	NoSource SourceID = -1
	NoMover  MoverID  = -1
)

// IDAllocator hands out dense, monotonically increasing ids for one world.
// Each id kind has its own counter so registries stay densely indexed.
type IDAllocator struct {
	empires int
	sources int
	movers  int
}

func (a *IDAllocator) NextEmpire() EmpireID {
	id := EmpireID(a.empires)
	a.empires++
	return id
}

func (a *IDAllocator) NextSource() SourceID {
	id := SourceID(a.sources)
	a.sources++
	return id
}

func (a *IDAllocator) NextMover() MoverID {
	id := MoverID(a.movers)
	a.movers++
	return id
}
