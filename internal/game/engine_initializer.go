package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/config"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/diplomacy"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/effects"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/events"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/influence"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/mapgen"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/movement"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/rules"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/scenario"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/states"
)

// GameConfig holds configuration for creating a new world
type GameConfig struct {
	// WorldID defaults to a random UUID.
	WorldID string
	// Scenario is the starting world; nil generates one from Settings.
	Scenario *scenario.Scenario
	// Seed drives map generation; 0 takes Settings, then the clock.
	Seed int64
	// Settings defaults to config.Get().
	Settings *config.Config
	// Effects defaults to the built-in discovery effects.
	Effects  *effects.Registry
	Logger   zerolog.Logger
	EventBus *events.EventBus
}

// EngineInitializer handles the complex initialization of a game engine
type EngineInitializer struct {
	config GameConfig
	logger zerolog.Logger
}

// NewEngineInitializer creates a new engine initializer
func NewEngineInitializer(cfg GameConfig) *EngineInitializer {
	logger := cfg.Logger.With().Str("component", "GameEngine").Logger()
	return &EngineInitializer{
		config: cfg,
		logger: logger,
	}
}

// Initialize creates and initializes a new game engine
func (ei *EngineInitializer) Initialize(ctx context.Context) (*Engine, error) {
	select {
	case <-ctx.Done():
		ei.logger.Error().Err(ctx.Err()).Msg("Engine creation cancelled or timed out during initial phase")
		return nil, ctx.Err()
	default:
	}

	ei.setupDefaults()

	sc, err := ei.loadScenario()
	if err != nil {
		return nil, err
	}

	engine := ei.createEngine(sc.Grid())
	ei.logger = engine.logger

	if err := ei.placeEmpires(engine, sc); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	if err := ei.applyRelations(engine, sc); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	if err := ei.applyDiscoveries(engine, sc); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}
	if err := ei.placeMovers(engine, sc); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	engine.startingEmpires = len(engine.state.Empires.All())
	engine.stateMachine.GetContext().AliveEmpires = engine.startingEmpires
	engine.winConditions = rules.NewWinConditionChecker(engine.logger, engine.startingEmpires, ei.config.Settings.Simulation.MaxTurns)

	ei.logger.Info().
		Str("scenario", sc.Name).
		Int("width", sc.Grid().W).
		Int("height", sc.Grid().H).
		Int("empires", engine.startingEmpires).
		Int("sources", len(engine.state.Sources.All())).
		Int("movers", len(engine.state.Movers.All())).
		Msg("Engine created successfully")

	return engine, nil
}

// setupDefaults sets up default values for missing configuration
func (ei *EngineInitializer) setupDefaults() {
	if ei.config.Settings == nil {
		ei.config.Settings = config.Get()
	}
	if ei.config.WorldID == "" {
		ei.config.WorldID = uuid.NewString()
	}
	if ei.config.Effects == nil {
		ei.config.Effects = effects.NewRegistry()
	}
	if ei.config.EventBus == nil {
		ei.config.EventBus = events.NewEventBus()
	}
	if ei.config.Seed == 0 {
		ei.config.Seed = ei.config.Settings.Simulation.Seed
	}
	if ei.config.Seed == 0 && ei.config.Scenario == nil {
		ei.logger.Debug().Msg("No seed provided, seeding map generation from the clock")
		ei.config.Seed = time.Now().UnixNano()
	}
}

// loadScenario validates the configured scenario or generates one.
func (ei *EngineInitializer) loadScenario() (*scenario.Scenario, error) {
	if ei.config.Scenario != nil {
		if err := ei.config.Scenario.Validate(ei.config.Effects); err != nil {
			return nil, fmt.Errorf("invalid scenario: %w", err)
		}
		return ei.config.Scenario, nil
	}

	mapCfg := MapParams(ei.config.Settings)
	sc, err := mapgen.NewGenerator(mapCfg, ei.config.Seed).Generate()
	if err != nil {
		return nil, fmt.Errorf("map generation failed: %w", err)
	}
	ei.logger.Debug().
		Int64("seed", ei.config.Seed).
		Int("width", mapCfg.Width).
		Int("height", mapCfg.Height).
		Msg("Generated map")
	return sc, nil
}

// createEngine creates the engine with all its components
func (ei *EngineInitializer) createEngine(grid *core.Grid) *Engine {
	worldID := ei.config.WorldID
	logger := ei.logger.With().Str("world_id", worldID).Logger()
	state := newWorldState(grid)
	queue := events.NewQueue()

	diplo := diplomacy.NewEngine(state.Empires, queue, worldID, logger)
	turnContext := states.NewTurnContext(worldID, ei.config.Settings.Simulation.MaxTurns, logger)

	engine := &Engine{
		id:           worldID,
		state:        state,
		logger:       logger,
		diplomacy:    diplo,
		influence:    influence.NewEngine(InfluenceParams(ei.config.Settings), state.Empires, diplo, queue, worldID, logger),
		movement:     movement.NewExecutor(MovementParams(ei.config.Settings), state.Field, state.Sources, state.Movers, diplo, queue, worldID, logger),
		effects:      ei.config.Effects,
		queue:        queue,
		eventBus:     ei.config.EventBus,
		stateMachine: states.NewStateMachine(turnContext, queue),
		winner:       core.NoEmpire,
	}
	engine.turnProcessor = NewTurnProcessor(engine)
	return engine
}

// placeEmpires registers the empires and founds their seats.
func (ei *EngineInitializer) placeEmpires(engine *Engine, sc *scenario.Scenario) error {
	st := engine.state
	sim := ei.config.Settings.Simulation.Map
	for _, spec := range sc.Empires {
		culture := spec.Culture
		if culture == "" {
			culture = spec.Name
		}
		emp := &core.Empire{
			ID:        st.IDs.NextEmpire(),
			Name:      spec.Name,
			Culture:   culture,
			Human:     spec.Human,
			Capital:   core.NoSource,
			Forbidden: core.DefaultForbidden(),
		}
		st.Empires.Add(emp)

		capital := ei.foundSource(st, emp.ID, spec.Capital, sim.CapitalPower)
		emp.Capital = capital.ID
		for _, city := range spec.Cities {
			ei.foundSource(st, emp.ID, city, sim.CityPower)
		}
		ei.logger.Debug().
			Int("empire_id", int(emp.ID)).
			Str("name", emp.Name).
			Str("capital", capital.Seat.String()).
			Int("cities", len(spec.Cities)).
			Msg("Empire placed")
	}
	if len(st.Empires.All()) == 0 {
		return fmt.Errorf("no empires: %w", core.ErrUnknownEmpire)
	}
	return nil
}

// foundSource creates a source on seat and claims the seat tile. A seat
// without power takes fallback.
func (ei *EngineInitializer) foundSource(st *WorldState, empire core.EmpireID, seat scenario.Seat, fallback int) *influence.Source {
	power := seat.Power
	if power <= 0 {
		power = fallback
	}
	s := influence.NewSource(st.IDs.NextSource(), empire, seat.Coord(), power)
	st.Sources.Add(s)
	st.Field.Claim(s.Seat, empire)
	return s
}

func (ei *EngineInitializer) applyRelations(engine *Engine, sc *scenario.Scenario) error {
	for _, r := range sc.Relations {
		from, ok := sc.EmpireIndex(r.From)
		if !ok {
			return fmt.Errorf("relation from %q: %w", r.From, core.ErrUnknownEmpire)
		}
		to, ok := sc.EmpireIndex(r.To)
		if !ok {
			return fmt.Errorf("relation to %q: %w", r.To, core.ErrUnknownEmpire)
		}
		fromState, toState, err := r.States()
		if err != nil {
			return fmt.Errorf("relation %s->%s: %w", r.From, r.To, err)
		}
		engine.diplomacy.SetRelation(core.EmpireID(from), core.EmpireID(to), fromState, toState)
	}
	return nil
}

func (ei *EngineInitializer) applyDiscoveries(engine *Engine, sc *scenario.Scenario) error {
	for i, spec := range sc.Empires {
		for _, key := range spec.Discoveries {
			if err := engine.applyDiscovery(core.EmpireID(i), key); err != nil {
				return fmt.Errorf("empire %q: %w", spec.Name, err)
			}
		}
	}
	return nil
}

func (ei *EngineInitializer) placeMovers(engine *Engine, sc *scenario.Scenario) error {
	for _, spec := range sc.Movers {
		empire, ok := sc.EmpireIndex(spec.Empire)
		if !ok {
			return fmt.Errorf("mover of %q: %w", spec.Empire, core.ErrUnknownEmpire)
		}
		kind, err := movement.ParseKind(spec.Kind)
		if err != nil {
			return fmt.Errorf("mover of %q: %w", spec.Empire, err)
		}
		if _, err := engine.addMover(core.EmpireID(empire), kind, spec.Coord(), spec.CarriesInfluence); err != nil {
			return fmt.Errorf("mover of %q: %w", spec.Empire, err)
		}
	}
	return nil
}
