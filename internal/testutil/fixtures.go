package testutil

import (
	"fmt"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
)

// PlainGrid creates a grid of the given size covered in plains
func PlainGrid(width, height int) *core.Grid {
	return core.NewGrid(width, height, core.TerrainPlain)
}

// GridFromRows builds a grid from rows of terrain glyphs, one row per string.
// It panics on malformed input since fixtures are fixed at compile time.
func GridFromRows(rows ...string) *core.Grid {
	g, err := core.ParseGrid(rows)
	if err != nil {
		panic(fmt.Sprintf("testutil: %v", err))
	}
	return g
}

// CreateTestEmpires creates a registry of count empires, each with its own
// culture unless sharedCulture is set.
func CreateTestEmpires(count int, sharedCulture bool) *core.EmpireRegistry {
	reg := core.NewEmpireRegistry()
	names := []string{"red", "blue", "green", "yellow"}
	for i := 0; i < count; i++ {
		culture := names[i%len(names)]
		if sharedCulture {
			culture = "shared"
		}
		reg.Add(&core.Empire{
			ID:        core.EmpireID(i),
			Name:      names[i%len(names)],
			Culture:   culture,
			Capital:   core.NoSource,
			Forbidden: core.DefaultForbidden(),
		})
	}
	return reg
}
