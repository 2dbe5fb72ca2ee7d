package core

import "fmt"

// Grid is the read-only terrain layer of the map.
// Terrain is stored row-major, length W*H.
type Grid struct {
	W, H    int
	Terrain []Terrain
}

// NewGrid creates a grid filled with a single terrain kind.
func NewGrid(w, h int, fill Terrain) *Grid {
	g := &Grid{W: w, H: h, Terrain: make([]Terrain, w*h)}
	for i := range g.Terrain {
		g.Terrain[i] = fill
	}
	return g
}

// ParseGrid builds a grid from rows of terrain glyphs, one string per row.
// Every row must have the same width.
func ParseGrid(rows []string) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("no rows: %w", ErrMalformedGrid)
	}
	w := len([]rune(rows[0]))
	g := NewGrid(w, len(rows), TerrainPlain)
	for y, row := range rows {
		glyphs := []rune(row)
		if len(glyphs) != w {
			return nil, fmt.Errorf("row %d has width %d, want %d: %w", y, len(glyphs), w, ErrMalformedGrid)
		}
		for x, glyph := range glyphs {
			t, err := TerrainFromGlyph(glyph)
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", y, x, err)
			}
			g.Terrain[y*w+x] = t
		}
	}
	return g, nil
}

// Rows renders the grid back into glyph rows, the inverse of ParseGrid.
func (g *Grid) Rows() []string {
	out := make([]string, g.H)
	buf := make([]rune, g.W)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			buf[x] = g.Terrain[y*g.W+x].Glyph()
		}
		out[y] = string(buf)
	}
	return out
}

func (g *Grid) Idx(c Coordinate) int     { return c.ToIndex(g.W) }
func (g *Grid) Coord(idx int) Coordinate { return FromIndex(idx, g.W) }
func (g *Grid) Size() int                { return len(g.Terrain) }

// InBounds checks if the coordinate is within grid boundaries
func (g *Grid) InBounds(c Coordinate) bool {
	return c.IsValid(g.W, g.H)
}

// TerrainAt returns the terrain of an in-bounds tile. Out-of-bounds
// positions report deep water, which every default mover is forbidden.
func (g *Grid) TerrainAt(c Coordinate) Terrain {
	if !g.InBounds(c) {
		return TerrainDeepWater
	}
	return g.Terrain[g.Idx(c)]
}

// Set overwrites the terrain of a tile. Only map builders call this;
// the simulation treats the grid as immutable.
func (g *Grid) Set(c Coordinate, t Terrain) {
	if g.InBounds(c) {
		g.Terrain[g.Idx(c)] = t
	}
}

// Neighbors returns the in-bounds hex neighbors of c.
func (g *Grid) Neighbors(c Coordinate) []Coordinate {
	return c.ValidNeighbors(g.W, g.H)
}
