package core

import "fmt"

// Terrain is the immutable kind of a grid tile.
type Terrain uint8

const (
	TerrainDeepWater Terrain = iota
	TerrainShallowWater
	TerrainDesert
	TerrainPlain
	TerrainGrassland
	TerrainForest
	TerrainHills
	TerrainMountain

	terrainCount
)

// TerrainInfo holds the movement properties of a terrain kind.
// MoveCost doubles as the passive influence resistance of a tile:
// an empire must exceed MoveCost-1 to control it.
type TerrainInfo struct {
	Name           string
	Glyph          rune
	MoveCost       int
	BlocksMovement bool
}

var terrainTable = [terrainCount]TerrainInfo{
	TerrainDeepWater:    {Name: "deep_water", Glyph: '~', MoveCost: 40},
	TerrainShallowWater: {Name: "shallow_water", Glyph: '-', MoveCost: 15},
	TerrainDesert:       {Name: "desert", Glyph: 'd', MoveCost: 20},
	TerrainPlain:        {Name: "plain", Glyph: '.', MoveCost: 10},
	TerrainGrassland:    {Name: "grassland", Glyph: 'g', MoveCost: 10},
	TerrainForest:       {Name: "forest", Glyph: 'f', MoveCost: 20},
	TerrainHills:        {Name: "hills", Glyph: 'h', MoveCost: 30},
	TerrainMountain:     {Name: "mountain", Glyph: '^', MoveCost: 50, BlocksMovement: true},
}

// Info returns the movement properties of the terrain kind.
func (t Terrain) Info() TerrainInfo {
	if t >= terrainCount {
		return TerrainInfo{Name: "unknown", Glyph: '?', MoveCost: 1, BlocksMovement: true}
	}
	return terrainTable[t]
}

func (t Terrain) MoveCost() int        { return t.Info().MoveCost }
func (t Terrain) BlocksMovement() bool { return t.Info().BlocksMovement }
func (t Terrain) Glyph() rune          { return t.Info().Glyph }

func (t Terrain) String() string {
	return t.Info().Name
}

// IsWater reports whether the terrain kind is a sea tile.
func (t Terrain) IsWater() bool {
	return t == TerrainDeepWater || t == TerrainShallowWater
}

// AllTerrains returns every known terrain kind in declaration order.
func AllTerrains() []Terrain {
	out := make([]Terrain, 0, terrainCount)
	for t := Terrain(0); t < terrainCount; t++ {
		out = append(out, t)
	}
	return out
}

// TerrainFromGlyph parses a map glyph.
func TerrainFromGlyph(g rune) (Terrain, error) {
	for t := Terrain(0); t < terrainCount; t++ {
		if terrainTable[t].Glyph == g {
			return t, nil
		}
	}
	return 0, fmt.Errorf("glyph %q: %w", g, ErrUnknownTerrain)
}

// ParseTerrain parses a terrain name such as "shallow_water".
func ParseTerrain(name string) (Terrain, error) {
	for t := Terrain(0); t < terrainCount; t++ {
		if terrainTable[t].Name == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("terrain %q: %w", name, ErrUnknownTerrain)
}

// TerrainSet is a small bitset of terrain kinds, used for per-mover
// forbidden terrain.
type TerrainSet uint16

// NewTerrainSet builds a set holding the given kinds.
func NewTerrainSet(kinds ...Terrain) TerrainSet {
	var s TerrainSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// DefaultForbidden is the forbidden set of an empire before any seafaring discovery.
func DefaultForbidden() TerrainSet {
	return NewTerrainSet(TerrainDeepWater, TerrainShallowWater)
}

func (s TerrainSet) Has(t Terrain) bool { return s&(1<<t) != 0 }

func (s TerrainSet) With(t Terrain) TerrainSet { return s | 1<<t }

func (s TerrainSet) Without(t Terrain) TerrainSet { return s &^ (1 << t) }
