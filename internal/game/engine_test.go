package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/config"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/diplomacy"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/effects"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/events"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/influence"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/movement"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/scenario"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/states"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/testutil"
)

const soloScenario = `
name: solo
map:
  - "....."
  - "....."
  - "....."
empires:
  - name: red
    capital: {x: 0, y: 1}
`

const rivalsScenario = `
name: rivals
map:
  - "........"
  - "........"
  - "........"
  - "........"
empires:
  - name: red
    human: true
    discoveries: [diplomacy.treaty]
    capital: {x: 1, y: 1}
  - name: blue
    discoveries: [diplomacy.treaty]
    capital: {x: 6, y: 2}
movers:
  - empire: blue
    x: 5
    y: 2
`

// testSettings mirrors the configuration defaults without touching the
// global config.
func testSettings() *config.Config {
	return &config.Config{
		Simulation: config.SimulationConfig{
			MaxTurns: 50,
			Influence: config.InfluenceConfig{
				FlagPressure:      10,
				SmoothingDivisor:  10,
				AdvancementFactor: 10,
				UpkeepDivisor:     10,
			},
			Movement: config.MovementConfig{OccupiedCostMultiplier: 2, MoveCostPerTurn: 10},
			Map: config.MapConfig{
				Width:             16,
				Height:            12,
				Empires:           2,
				CitiesPerEmpire:   1,
				CapitalPower:      20,
				CityPower:         8,
				MinCapitalSpacing: 5,
				SeaLevel:          0.30,
				MountainLevel:     0.78,
			},
		},
		Logging: config.LoggingConfig{Level: "info", Format: "console"},
	}
}

func parseScenario(t *testing.T, doc string) *scenario.Scenario {
	t.Helper()
	sc, err := scenario.Parse([]byte(doc), effects.NewRegistry())
	require.NoError(t, err)
	return sc
}

func newTestEngine(t *testing.T, sc *scenario.Scenario, settings *config.Config) *Engine {
	t.Helper()
	if settings == nil {
		settings = testSettings()
	}
	e, err := NewEngine(context.Background(), GameConfig{
		WorldID:  "test-world",
		Scenario: sc,
		Settings: settings,
		Logger:   testutil.NopLogger(),
	})
	require.NoError(t, err)
	return e
}

// recorder collects every event delivered by the bus.
type recorder struct {
	events []events.Event
}

func (r *recorder) ID() string                 { return "recorder" }
func (r *recorder) HandleEvent(e events.Event) { r.events = append(r.events, e) }
func (r *recorder) InterestedIn(string) bool   { return true }
func (r *recorder) types() (out []string) {
	for _, e := range r.events {
		out = append(out, e.Type())
	}
	return out
}

func record(e *Engine) *recorder {
	r := &recorder{}
	e.EventBus().Subscribe(r)
	return r
}

// dominate makes empire the clear main controller of each tile.
func dominate(e *Engine, empire core.EmpireID, tiles ...core.Coordinate) {
	for _, c := range tiles {
		e.state.Field.Set(c, empire, 60)
	}
}

func TestNewEngine_FromScenarioFile(t *testing.T) {
	sc, err := scenario.Load("scenario/testdata/contested_valley.yaml", effects.NewRegistry())
	require.NoError(t, err)
	e := newTestEngine(t, sc, nil)

	assert.Equal(t, "test-world", e.ID())
	assert.Equal(t, 0, e.Turn())
	assert.Equal(t, states.PhaseIdle, e.Phase())
	assert.False(t, e.IsGameOver())

	require.Len(t, e.Empires(), 2)
	red, _ := e.Empire(0)
	blue, _ := e.Empire(1)
	assert.Equal(t, "red", red.Name)
	assert.Equal(t, "north", red.Culture)
	assert.True(t, red.Human)

	capital, ok := e.Source(red.Capital)
	require.True(t, ok)
	assert.Equal(t, core.NewCoordinate(1, 2), capital.Seat)
	assert.Equal(t, 20, capital.Power)

	blueSources := e.Sources(blue.ID)
	require.Len(t, blueSources, 2)
	assert.Equal(t, 8, blueSources[1].Power)

	for _, s := range []*influence.Source{capital, blueSources[0], blueSources[1]} {
		main, ok := e.MainController(s.Seat)
		require.True(t, ok, "seat %s must be claimed", s.Seat)
		assert.Equal(t, s.Empire, main)
		assert.Positive(t, e.InfluenceOf(s.Seat, s.Empire))
	}

	assert.Equal(t, diplomacy.StateWar, e.Relation(0, 1))
	assert.Equal(t, diplomacy.StateWar, e.Relation(1, 0))

	assert.True(t, red.HasDiscovery(effects.KeyTreaty))
	assert.False(t, blue.Forbidden.Has(core.TerrainShallowWater), "coastal navigation lifts the shallow water ban")
	assert.True(t, red.Forbidden.Has(core.TerrainShallowWater))

	require.Len(t, e.Movers(1), 1)
	settler := e.Movers(1)[0]
	assert.Equal(t, movement.KindSettler, settler.Kind)
	assert.True(t, settler.CarriesInfluence)
	assert.False(t, settler.Forbidden.Has(core.TerrainShallowWater))
}

func TestNewEngine_GeneratesMapWithoutScenario(t *testing.T) {
	e, err := NewEngine(context.Background(), GameConfig{
		Seed:     42,
		Settings: testSettings(),
		Logger:   testutil.NopLogger(),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, e.ID(), "world id defaults to a uuid")
	assert.Equal(t, 16, e.Grid().W)
	assert.Equal(t, 12, e.Grid().H)
	require.Len(t, e.Empires(), 2)
	for _, emp := range e.Empires() {
		_, ok := e.Source(emp.Capital)
		assert.True(t, ok, "empire %s needs a capital", emp.Name)
	}
}

func TestNewEngine_Errors(t *testing.T) {
	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewEngine(ctx, GameConfig{Scenario: parseScenario(t, soloScenario), Settings: testSettings(), Logger: testutil.NopLogger()})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("unknown discovery", func(t *testing.T) {
		sc := parseScenario(t, soloScenario)
		sc.Empires[0].Discoveries = []string{"alchemy"}
		_, err := NewEngine(context.Background(), GameConfig{Scenario: sc, Settings: testSettings(), Logger: testutil.NopLogger()})
		assert.ErrorIs(t, err, effects.ErrUnknownEffect)
	})

	t.Run("seat out of bounds", func(t *testing.T) {
		sc := parseScenario(t, soloScenario)
		sc.Empires[0].Capital = scenario.Seat{X: 9, Y: 9}
		_, err := NewEngine(context.Background(), GameConfig{Scenario: sc, Settings: testSettings(), Logger: testutil.NopLogger()})
		assert.ErrorIs(t, err, scenario.ErrSeatOutOfBounds)
	})
}

func TestEngine_Step_RunsPhasesInOrder(t *testing.T) {
	e := newTestEngine(t, parseScenario(t, soloScenario), nil)
	rec := record(e)

	require.NoError(t, e.Step(context.Background()))
	assert.Equal(t, 1, e.Turn())
	assert.Equal(t, states.PhaseIdle, e.Phase())

	var path []states.TurnPhase
	for _, tr := range e.History() {
		path = append(path, tr.To)
		assert.Equal(t, 1, tr.Turn)
	}
	assert.Equal(t, []states.TurnPhase{
		states.PhaseInfluence, states.PhaseDiplomacy, states.PhaseMovement, states.PhaseIdle,
	}, path)

	types := rec.types()
	require.NotEmpty(t, types)
	assert.Equal(t, events.TypeTurnStarted, types[0])
	assert.Equal(t, events.TypeTurnEnded, types[len(types)-1])
	assert.Contains(t, types, events.TypePhaseTransition)
}

func TestEngine_Step_CancelledContextLeavesTurnUntouched(t *testing.T) {
	e := newTestEngine(t, parseScenario(t, soloScenario), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Step(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, e.Turn())
	assert.Equal(t, states.PhaseIdle, e.Phase())
}

func TestEngine_Orders_Rejected(t *testing.T) {
	e := newTestEngine(t, parseScenario(t, soloScenario), nil)

	_, err := e.RequestPath(7, core.NewCoordinate(1, 1))
	assert.ErrorIs(t, err, core.ErrUnknownMover)
	_, err = e.SetFlag(3, core.NewCoordinate(1, 1))
	assert.ErrorIs(t, err, core.ErrUnknownSource)
	_, err = e.ProposeAction(0, 4, diplomacy.DeclareWar)
	assert.ErrorIs(t, err, core.ErrUnknownEmpire)
	_, err = e.AddMover(0, movement.KindArmy, core.NewCoordinate(9, 9), false)
	assert.ErrorIs(t, err, core.ErrInvalidCoordinates)

	require.NoError(t, e.stateMachine.TransitionTo(states.PhaseInfluence, "test"))
	_, err = e.SetFlag(0, core.NewCoordinate(1, 1))
	assert.ErrorIs(t, err, core.ErrWrongPhase)
	err = e.Step(context.Background())
	assert.ErrorIs(t, err, core.ErrWrongPhase)

	var turnErr *core.TurnError
	require.ErrorAs(t, err, &turnErr)
	assert.Equal(t, "step", turnErr.Phase)
}

func TestEngine_RequestPath_WalksDominatedTiles(t *testing.T) {
	e := newTestEngine(t, parseScenario(t, soloScenario), nil)
	rec := record(e)

	row := []core.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 4, Y: 0}}
	dominate(e, 0, row...)
	id, err := e.AddMover(0, movement.KindArmy, core.NewCoordinate(0, 0), false)
	require.NoError(t, err)

	assert.Contains(t, e.ReachableTiles(id), core.NewCoordinate(4, 0))

	ok, err := e.RequestPath(id, core.NewCoordinate(4, 0))
	require.NoError(t, err)
	require.True(t, ok)

	_, err = e.Run(context.Background(), 4, nil)
	require.NoError(t, err)

	m, _ := e.Mover(id)
	assert.Equal(t, core.NewCoordinate(4, 0), m.Position)
	assert.Nil(t, m.Path)
	assert.Contains(t, rec.types(), events.TypeMoveCompleted)
}

func TestEngine_RequestPath_Unreachable(t *testing.T) {
	e := newTestEngine(t, parseScenario(t, soloScenario), nil)
	rec := record(e)
	id, err := e.AddMover(0, movement.KindArmy, core.NewCoordinate(0, 1), false)
	require.NoError(t, err)

	ok, err := e.RequestPath(id, core.NewCoordinate(4, 2))
	require.NoError(t, err)
	assert.False(t, ok, "unclaimed tiles cannot be entered")

	assert.Equal(t, 1, e.FlushEvents())
	assert.Equal(t, []string{events.TypePathNotFound}, rec.types())

	dominate(e, 0, core.NewCoordinate(1, 1))
	chosen, ok, err := e.RequestPathNear(id, core.NewCoordinate(4, 2))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, core.NewCoordinate(1, 1), chosen)
}

func TestEngine_CapitalMoverDragsSeat(t *testing.T) {
	e := newTestEngine(t, parseScenario(t, soloScenario), nil)
	red, _ := e.Empire(0)

	_, err := e.AddMover(0, movement.KindCapital, core.NewCoordinate(1, 1), false)
	assert.ErrorIs(t, err, core.ErrInvalidCoordinates, "capital movers start on the seat")

	id, err := e.AddMover(0, movement.KindCapital, core.NewCoordinate(0, 1), false)
	require.NoError(t, err)
	m, _ := e.Mover(id)
	assert.Equal(t, red.Capital, m.Source)

	dominate(e, 0, core.NewCoordinate(0, 0))
	ok, err := e.RequestPath(id, core.NewCoordinate(0, 0))
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, e.Step(context.Background()))

	capital, _ := e.Source(red.Capital)
	assert.Equal(t, core.NewCoordinate(0, 0), capital.Seat)
}

func TestEngine_ProposeAction_TreatyNeedsBothSides(t *testing.T) {
	e := newTestEngine(t, parseScenario(t, rivalsScenario), nil)
	rec := record(e)
	ctx := context.Background()

	ok, err := e.ProposeAction(0, 1, diplomacy.SignTreaty)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, e.Step(ctx))
	assert.Equal(t, diplomacy.StateNone, e.Relation(0, 1), "one-sided treaty stays pending")

	ok, err = e.ProposeAction(1, 0, diplomacy.SignTreaty)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, e.Step(ctx))
	assert.Equal(t, diplomacy.StateTreaty, e.Relation(0, 1))
	assert.Equal(t, diplomacy.StateTreaty, e.Relation(1, 0))

	// only the human side is notified
	changes := 0
	for _, ev := range rec.events {
		if rc, ok := ev.(*events.RelationChangedEvent); ok {
			changes++
			assert.Equal(t, core.EmpireID(0), rc.Empire)
		}
	}
	assert.Equal(t, 1, changes)
}

func TestEngine_ProposeAction_WarIsUnilateral(t *testing.T) {
	e := newTestEngine(t, parseScenario(t, rivalsScenario), nil)

	ok, err := e.ProposeAction(1, 0, diplomacy.DeclareWar)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, e.Step(context.Background()))

	assert.Equal(t, diplomacy.StateWar, e.Relation(0, 1))
	assert.Equal(t, diplomacy.StateWar, e.Relation(1, 0))
	assert.NotContains(t, e.PossibleActions(0, 1), diplomacy.DeclareWar)
	assert.Contains(t, e.PossibleActions(0, 1), diplomacy.MakePeace)
}

func TestEngine_ArmiesInvadeAtWarOnlyWhenEnabled(t *testing.T) {
	target := core.NewCoordinate(4, 2)

	atWar := func(settings *config.Config) (*Engine, core.MoverID) {
		e := newTestEngine(t, parseScenario(t, rivalsScenario), settings)
		_, err := e.ProposeAction(1, 0, diplomacy.DeclareWar)
		require.NoError(t, err)
		require.NoError(t, e.Step(context.Background()))
		require.Equal(t, diplomacy.StateWar, e.Relation(1, 0))
		dominate(e, 0, target)
		movers := e.Movers(1)
		require.Len(t, movers, 1)
		return e, movers[0].ID
	}

	e, army := atWar(nil)
	assert.NotContains(t, e.ReachableTiles(army), target)
	ok, err := e.RequestPath(army, target)
	require.NoError(t, err)
	assert.False(t, ok, "enemy territory stays closed by default")

	settings := testSettings()
	settings.Simulation.Movement.ArmiesInvadeAtWar = true
	e, army = atWar(settings)
	assert.Contains(t, e.ReachableTiles(army), target)
	ok, err = e.RequestPath(army, target)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEngine_ApplyDiscovery(t *testing.T) {
	e := newTestEngine(t, parseScenario(t, soloScenario), nil)
	red, _ := e.Empire(0)
	capital, _ := e.Source(red.Capital)
	before := capital.Power

	score, err := e.DiscoveryScore(0, effects.KeyPatronage)
	require.NoError(t, err)
	assert.Positive(t, score)

	require.NoError(t, e.ApplyDiscovery(0, effects.KeyPatronage))
	assert.Equal(t, before+10, capital.Power)
	require.NoError(t, e.ApplyDiscovery(0, effects.KeyPatronage), "repeat is a no-op")
	assert.Equal(t, before+10, capital.Power)

	id, err := e.AddMover(0, movement.KindArmy, core.NewCoordinate(2, 2), false)
	require.NoError(t, err)
	require.NoError(t, e.ApplyDiscovery(0, effects.KeyOceanic))
	m, _ := e.Mover(id)
	assert.False(t, red.Forbidden.Has(core.TerrainDeepWater))
	assert.False(t, m.Forbidden.Has(core.TerrainDeepWater))

	assert.ErrorIs(t, e.ApplyDiscovery(0, "alchemy"), effects.ErrUnknownEffect)
	assert.ErrorIs(t, e.ApplyDiscovery(5, effects.KeyTreaty), core.ErrUnknownEmpire)
}

func TestEngine_SetFlag(t *testing.T) {
	e := newTestEngine(t, parseScenario(t, soloScenario), nil)
	red, _ := e.Empire(0)

	tiles := e.FlaggableTiles(red.Capital)
	require.NotEmpty(t, tiles)
	ok, err := e.SetFlag(red.Capital, tiles[0])
	require.NoError(t, err)
	assert.True(t, ok)

	capital, _ := e.Source(red.Capital)
	require.NotNil(t, capital.Target)
	assert.Equal(t, tiles[0], *capital.Target)

	ok, err = e.SetFlag(red.Capital, core.NewCoordinate(4, 2))
	require.NoError(t, err)
	assert.False(t, ok, "far tiles are not flaggable")

	require.NoError(t, e.ClearFlag(red.Capital))
	assert.Nil(t, capital.Target)
	assert.Nil(t, e.FlaggableTiles(99))
}

func TestEngine_GameOver_LastEmpireStanding(t *testing.T) {
	e := newTestEngine(t, parseScenario(t, rivalsScenario), nil)
	e.state.Empires.MarkEliminated(1)

	require.NoError(t, e.Step(context.Background()))
	assert.True(t, e.IsGameOver())
	assert.Equal(t, states.PhaseEnded, e.Phase())
	winner, ok := e.Winner()
	require.True(t, ok)
	assert.Equal(t, core.EmpireID(0), winner)

	err := e.Step(context.Background())
	assert.ErrorIs(t, err, core.ErrGameOver)
	_, err = e.ProposeAction(0, 1, diplomacy.DeclareWar)
	assert.ErrorIs(t, err, core.ErrGameOver)
}

func TestEngine_GameOver_TurnLimit(t *testing.T) {
	settings := testSettings()
	settings.Simulation.MaxTurns = 3
	e := newTestEngine(t, parseScenario(t, rivalsScenario), settings)

	turns := 0
	ran, err := e.Run(context.Background(), 0, func(*Engine) { turns++ })
	require.NoError(t, err)
	assert.Equal(t, 3, ran)
	assert.Equal(t, 3, turns)
	assert.True(t, e.IsGameOver())
	_, ok := e.Winner()
	assert.False(t, ok, "two survivors at the limit leave no winner")
}

func TestEngine_SoloEmpireDoesNotWinByDefault(t *testing.T) {
	e := newTestEngine(t, parseScenario(t, soloScenario), nil)
	_, err := e.Run(context.Background(), 5, nil)
	require.NoError(t, err)
	assert.False(t, e.IsGameOver())
	assert.Equal(t, 5, e.Turn())
}

func TestTurnProcessor_SettleInfluence(t *testing.T) {
	e := newTestEngine(t, parseScenario(t, rivalsScenario), nil)
	red, _ := e.Empire(0)
	capitalMover, err := e.AddMover(0, movement.KindCapital, core.NewCoordinate(1, 1), false)
	require.NoError(t, err)
	require.Len(t, e.Movers(1), 1)

	e.turnProcessor.settleInfluence(influence.Result{
		Conquered:  []core.SourceID{red.Capital},
		Eliminated: []core.EmpireID{1},
	}, testutil.NopLogger())

	assert.Empty(t, e.Movers(1), "movers of eliminated empires are removed")
	m, ok := e.Mover(capitalMover)
	require.True(t, ok)
	assert.Equal(t, core.NoSource, m.Source)
}

func TestEngine_Stats(t *testing.T) {
	sc, err := scenario.Load("scenario/testdata/contested_valley.yaml", effects.NewRegistry())
	require.NoError(t, err)
	e := newTestEngine(t, sc, nil)

	stats := e.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, "red", stats[0].Name)
	assert.Equal(t, 1, stats[0].Sources)
	assert.Equal(t, 20, stats[0].TotalPower)
	assert.Equal(t, 1, stats[0].Tiles)
	assert.Equal(t, 1, stats[0].Movers)
	assert.Equal(t, 2, stats[1].Sources)
	assert.Equal(t, 28, stats[1].TotalPower)
	assert.Equal(t, 2, stats[1].Tiles)

	leader, ok := e.Leader()
	require.True(t, ok)
	assert.Equal(t, core.EmpireID(1), leader)
}

func TestGenerateRandomOrders(t *testing.T) {
	e := newTestEngine(t, parseScenario(t, rivalsScenario), nil)
	rng := testutil.NewTestRNG(7)

	accepted := GenerateRandomOrders(e, rng)
	assert.Positive(t, accepted, "blue can always flag a neighbour of its seat")

	blue, _ := e.Empire(1)
	capital, _ := e.Source(blue.Capital)
	assert.NotNil(t, capital.Target)
	red, _ := e.Empire(0)
	redCapital, _ := e.Source(red.Capital)
	assert.Nil(t, redCapital.Target, "human empires get no generated orders")

	for i := 0; i < 5; i++ {
		GenerateRandomOrders(e, rng)
		require.NoError(t, e.Step(context.Background()))
	}
}
