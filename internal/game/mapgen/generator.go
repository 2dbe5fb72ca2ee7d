// Package mapgen builds demo worlds from layered simplex noise.
package mapgen

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/scenario"
)

// ErrNoRoom is returned when the map has too little land for the empires.
var ErrNoRoom = errors.New("not enough land to place empires")

var empireNames = []string{"red", "blue", "green", "yellow", "purple", "orange", "cyan", "white"}

// MapConfig holds configuration for map generation
type MapConfig struct {
	Width           int
	Height          int
	EmpireCount     int
	CitiesPerEmpire int
	CapitalPower    int
	CityPower       int
	// MinCapitalSpacing is the preferred hex distance between capitals.
	MinCapitalSpacing int

	// Noise thresholds on normalized elevation in [0,1].
	SeaLevel      float64
	ShallowBand   float64
	HillLevel     float64
	MountainLevel float64
}

// DefaultMapConfig returns a sensible default configuration
func DefaultMapConfig(w, h, empires int) MapConfig {
	return MapConfig{
		Width:             w,
		Height:            h,
		EmpireCount:       empires,
		CitiesPerEmpire:   1,
		CapitalPower:      20,
		CityPower:         8,
		MinCapitalSpacing: max(3, min(w, h)/2),
		SeaLevel:          0.30,
		ShallowBand:       0.06,
		HillLevel:         0.68,
		MountainLevel:     0.78,
	}
}

// Validate checks that the configuration can produce a map.
func (c MapConfig) Validate() error {
	if c.Width < 3 || c.Height < 3 {
		return fmt.Errorf("map must be at least 3x3, got %dx%d", c.Width, c.Height)
	}
	if c.EmpireCount < 1 || c.EmpireCount > len(empireNames) {
		return fmt.Errorf("empire count must be between 1 and %d, got %d", len(empireNames), c.EmpireCount)
	}
	if c.CitiesPerEmpire < 0 {
		return fmt.Errorf("cities per empire must be non-negative, got %d", c.CitiesPerEmpire)
	}
	if !(c.SeaLevel < c.HillLevel && c.HillLevel < c.MountainLevel) {
		return fmt.Errorf("thresholds must satisfy sea < hill < mountain")
	}
	return nil
}

// Generator handles map generation with a deterministic seed
type Generator struct {
	config    MapConfig
	seed      int64
	rng       *rand.Rand
	elevation opensimplex.Noise
	moisture  opensimplex.Noise
}

// NewGenerator creates a new map generator. The same config and seed
// always yield the same map.
func NewGenerator(config MapConfig, seed int64) *Generator {
	return &Generator{
		config:    config,
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
		elevation: opensimplex.NewNormalized(seed),
		moisture:  opensimplex.NewNormalized(seed + 1),
	}
}

// Generate builds a validated scenario with terrain, capitals and cities.
func (g *Generator) Generate() (*scenario.Scenario, error) {
	if err := g.config.Validate(); err != nil {
		return nil, err
	}
	grid := g.terrain()

	capitals, err := g.placeCapitals(grid)
	if err != nil {
		return nil, err
	}
	taken := make(map[core.Coordinate]bool)
	for _, c := range capitals {
		taken[c] = true
	}

	s := &scenario.Scenario{
		Name: fmt.Sprintf("generated-%d", g.seed),
		Map:  grid.Rows(),
	}
	for i, capital := range capitals {
		e := scenario.EmpireSpec{
			Name:    empireNames[i],
			Culture: fmt.Sprintf("culture-%d", i),
			Capital: scenario.Seat{X: capital.X, Y: capital.Y, Power: g.config.CapitalPower},
		}
		for _, c := range g.placeCities(grid, capital, taken) {
			e.Cities = append(e.Cities, scenario.Seat{X: c.X, Y: c.Y, Power: g.config.CityPower})
		}
		s.Empires = append(s.Empires, e)
	}

	if err := s.Validate(nil); err != nil {
		return nil, fmt.Errorf("generated scenario invalid: %w", err)
	}
	return s, nil
}

// terrain samples elevation and moisture at each tile's hex center. An edge
// falloff sinks the border so maps read as islands.
func (g *Generator) terrain() *core.Grid {
	cfg := g.config
	grid := core.NewGrid(cfg.Width, cfg.Height, core.TerrainPlain)

	cx := 0.75 * float64(cfg.Width-1)
	cy := math.Sqrt(3) / 2 * float64(cfg.Height-1)
	for i := 0; i < grid.Size(); i++ {
		c := grid.Coord(i)
		x, y := hexCenter(c)

		elev := octaveNoise(g.elevation, x, y, 4, 0.12, 0.5)
		moist := octaveNoise(g.moisture, x, y, 3, 0.09, 0.5)

		dx, dy := (x-cx)/max(cx, 1), (y-cy)/max(cy, 1)
		falloff := 1.0 - math.Pow(math.Sqrt(dx*dx+dy*dy)/math.Sqrt2, 3)
		elev *= 0.55 + 0.45*falloff

		grid.Terrain[i] = g.deriveTerrain(elev, moist)
	}
	return grid
}

func hexCenter(c core.Coordinate) (float64, float64) {
	x := 1.5 * float64(c.X)
	y := math.Sqrt(3) * (float64(c.Y) + 0.5*float64(c.X&1))
	return x, y
}

func (g *Generator) deriveTerrain(elev, moist float64) core.Terrain {
	cfg := g.config
	switch {
	case elev < cfg.SeaLevel-cfg.ShallowBand:
		return core.TerrainDeepWater
	case elev < cfg.SeaLevel:
		return core.TerrainShallowWater
	case elev > cfg.MountainLevel:
		return core.TerrainMountain
	case elev > cfg.HillLevel:
		return core.TerrainHills
	case moist > 0.62:
		return core.TerrainForest
	case moist > 0.48:
		return core.TerrainGrassland
	case moist < 0.30:
		return core.TerrainDesert
	default:
		return core.TerrainPlain
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func habitable(t core.Terrain) bool {
	return !t.BlocksMovement() && !t.IsWater()
}

// placeCapitals picks random habitable tiles, honouring MinCapitalSpacing
// when it can and relaxing the spacing one step at a time when it cannot.
func (g *Generator) placeCapitals(grid *core.Grid) ([]core.Coordinate, error) {
	var land []core.Coordinate
	for i, t := range grid.Terrain {
		if habitable(t) {
			land = append(land, grid.Coord(i))
		}
	}
	if len(land) < g.config.EmpireCount {
		return nil, fmt.Errorf("%d habitable tiles for %d empires: %w", len(land), g.config.EmpireCount, ErrNoRoom)
	}

	for spacing := g.config.MinCapitalSpacing; spacing >= 1; spacing-- {
		if placed, ok := g.tryPlaceCapitals(land, spacing); ok {
			return placed, nil
		}
	}
	return nil, ErrNoRoom
}

func (g *Generator) tryPlaceCapitals(land []core.Coordinate, spacing int) ([]core.Coordinate, bool) {
	const attemptsPerCapital = 64
	var placed []core.Coordinate
	for len(placed) < g.config.EmpireCount {
		found := false
		for attempt := 0; attempt < attemptsPerCapital; attempt++ {
			c := land[g.rng.Intn(len(land))]
			if farFromAll(c, placed, spacing) {
				placed = append(placed, c)
				found = true
				break
			}
		}
		if !found {
			return nil, false
		}
	}
	return placed, true
}

func farFromAll(c core.Coordinate, others []core.Coordinate, spacing int) bool {
	for _, o := range others {
		if core.HexDistance(c, o) < spacing {
			return false
		}
	}
	return true
}

// placeCities scatters extra cities two or three hexes from the capital.
func (g *Generator) placeCities(grid *core.Grid, capital core.Coordinate, taken map[core.Coordinate]bool) []core.Coordinate {
	var candidates []core.Coordinate
	for i, t := range grid.Terrain {
		c := grid.Coord(i)
		d := core.HexDistance(c, capital)
		if d >= 2 && d <= 3 && habitable(t) && !taken[c] {
			candidates = append(candidates, c)
		}
	}
	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	var out []core.Coordinate
	for _, c := range candidates {
		if len(out) == g.config.CitiesPerEmpire {
			break
		}
		if taken[c] {
			continue
		}
		taken[c] = true
		out = append(out, c)
	}
	return out
}
