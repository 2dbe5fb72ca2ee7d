package game

import (
	"github.com/mitchelldurbincs/ShapeOfThings/internal/config"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/influence"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/mapgen"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/movement"
)

// InfluenceParams maps the influence settings onto engine parameters.
func InfluenceParams(c *config.Config) influence.Params {
	in := c.Simulation.Influence
	return influence.Params{
		FlagPressure:      in.FlagPressure,
		SmoothingDivisor:  in.SmoothingDivisor,
		AdvancementFactor: in.AdvancementFactor,
		UpkeepDivisor:     in.UpkeepDivisor,
	}
}

// MovementParams maps the movement settings onto executor parameters.
func MovementParams(c *config.Config) movement.Params {
	mv := c.Simulation.Movement
	return movement.Params{
		OccupiedCostMultiplier: mv.OccupiedCostMultiplier,
		MoveCostPerTurn:        mv.MoveCostPerTurn,
		ArmiesInvadeAtWar:      mv.ArmiesInvadeAtWar,
	}
}

// MapParams maps the map settings onto a generator configuration. Hills
// start four fifths of the way from the coast to the mountains.
func MapParams(c *config.Config) mapgen.MapConfig {
	m := c.Simulation.Map
	mc := mapgen.DefaultMapConfig(m.Width, m.Height, m.Empires)
	mc.CitiesPerEmpire = m.CitiesPerEmpire
	mc.CapitalPower = m.CapitalPower
	mc.CityPower = m.CityPower
	mc.MinCapitalSpacing = m.MinCapitalSpacing
	mc.SeaLevel = m.SeaLevel
	mc.MountainLevel = m.MountainLevel
	mc.HillLevel = m.SeaLevel + (m.MountainLevel-m.SeaLevel)*0.8
	return mc
}
