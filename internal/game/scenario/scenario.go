// Package scenario loads hand-authored starting worlds from YAML.
//
// Loading runs in two passes: the decoded document is checked against an
// embedded JSON schema, then semantically against the map and the effect
// registry. Both passes fail fast with wrapped sentinel errors.
package scenario

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/diplomacy"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/effects"
)

var (
	ErrSchema          = errors.New("scenario does not match schema")
	ErrDuplicateEmpire = errors.New("duplicate empire name")
	ErrUnknownEmpire   = errors.New("unknown empire name")
	ErrSeatOutOfBounds = errors.New("position out of bounds")
	ErrSeatBlocked     = errors.New("position on impassable terrain")
	ErrSeatTaken       = errors.New("position already used")
)

const schemaURL = "https://shapeofthings.local/scenario.schema.json"

//go:embed scenario.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Seat is a source position with its starting power.
type Seat struct {
	X     int `yaml:"x" json:"x"`
	Y     int `yaml:"y" json:"y"`
	Power int `yaml:"power,omitempty" json:"power,omitempty"`
}

func (s Seat) Coord() core.Coordinate { return core.NewCoordinate(s.X, s.Y) }

// EmpireSpec describes one empire and its starting sources.
type EmpireSpec struct {
	Name        string   `yaml:"name" json:"name"`
	Culture     string   `yaml:"culture,omitempty" json:"culture,omitempty"`
	Human       bool     `yaml:"human,omitempty" json:"human,omitempty"`
	Discoveries []string `yaml:"discoveries,omitempty" json:"discoveries,omitempty"`
	Capital     Seat     `yaml:"capital" json:"capital"`
	Cities      []Seat   `yaml:"cities,omitempty" json:"cities,omitempty"`
}

// RelationSpec sets the starting stance of From toward To. PeerState
// defaults to the mirror of State; a tributary's overlord holds TREATY.
type RelationSpec struct {
	From      string `yaml:"from" json:"from"`
	To        string `yaml:"to" json:"to"`
	State     string `yaml:"state" json:"state"`
	PeerState string `yaml:"peer_state,omitempty" json:"peer_state,omitempty"`
}

// States parses both sides of the relation.
func (r RelationSpec) States() (from, to diplomacy.State, err error) {
	from, err = diplomacy.ParseState(r.State)
	if err != nil {
		return
	}
	if r.PeerState == "" {
		to = from
		if from == diplomacy.StateTribute {
			to = diplomacy.StateTreaty
		}
		return
	}
	to, err = diplomacy.ParseState(r.PeerState)
	return
}

// MoverSpec places a unit at game start.
type MoverSpec struct {
	Empire           string `yaml:"empire" json:"empire"`
	Kind             string `yaml:"kind,omitempty" json:"kind,omitempty"`
	X                int    `yaml:"x" json:"x"`
	Y                int    `yaml:"y" json:"y"`
	CarriesInfluence bool   `yaml:"carries_influence,omitempty" json:"carries_influence,omitempty"`
}

func (m MoverSpec) Coord() core.Coordinate { return core.NewCoordinate(m.X, m.Y) }

// Scenario is a complete starting world.
type Scenario struct {
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Map         []string       `yaml:"map" json:"map"`
	Empires     []EmpireSpec   `yaml:"empires" json:"empires"`
	Relations   []RelationSpec `yaml:"relations,omitempty" json:"relations,omitempty"`
	Movers      []MoverSpec    `yaml:"movers,omitempty" json:"movers,omitempty"`

	grid *core.Grid
}

// Load reads and validates a scenario file.
func Load(path string, registry *effects.Registry) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(b, registry)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a YAML scenario document.
func Parse(data []byte, registry *effects.Registry) (*Scenario, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(registry); err != nil {
		return nil, err
	}
	return &s, nil
}

// validateSchema round-trips the YAML tree through JSON so the validator
// sees the value types it expects.
func validateSchema(doc any) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}

// Validate checks the references the schema cannot express. registry may be
// nil, in which case discovery keys are not checked.
func (s *Scenario) Validate(registry *effects.Registry) error {
	grid, err := core.ParseGrid(s.Map)
	if err != nil {
		return fmt.Errorf("map: %w", err)
	}
	s.grid = grid

	names := make(map[string]bool, len(s.Empires))
	seats := make(map[core.Coordinate]string)
	for i, e := range s.Empires {
		if names[e.Name] {
			return fmt.Errorf("empires[%d] %q: %w", i, e.Name, ErrDuplicateEmpire)
		}
		names[e.Name] = true

		if registry != nil {
			if err := registry.Validate(e.Discoveries); err != nil {
				return fmt.Errorf("empire %q discoveries: %w", e.Name, err)
			}
		}
		for j, seat := range append([]Seat{e.Capital}, e.Cities...) {
			label := fmt.Sprintf("empire %q capital", e.Name)
			if j > 0 {
				label = fmt.Sprintf("empire %q cities[%d]", e.Name, j-1)
			}
			if err := checkPosition(grid, seat.Coord(), label); err != nil {
				return err
			}
			if owner, taken := seats[seat.Coord()]; taken {
				return fmt.Errorf("%s at %s shares a seat with %s: %w", label, seat.Coord(), owner, ErrSeatTaken)
			}
			seats[seat.Coord()] = label
		}
	}

	for i, r := range s.Relations {
		if !names[r.From] || !names[r.To] {
			return fmt.Errorf("relations[%d] %s->%s: %w", i, r.From, r.To, ErrUnknownEmpire)
		}
		if r.From == r.To {
			return fmt.Errorf("relations[%d]: empire %q cannot relate to itself", i, r.From)
		}
		if _, _, err := r.States(); err != nil {
			return fmt.Errorf("relations[%d]: %w", i, err)
		}
	}

	occupied := make(map[core.Coordinate]bool)
	for i, m := range s.Movers {
		if !names[m.Empire] {
			return fmt.Errorf("movers[%d] %q: %w", i, m.Empire, ErrUnknownEmpire)
		}
		label := fmt.Sprintf("movers[%d]", i)
		if err := checkPosition(grid, m.Coord(), label); err != nil {
			return err
		}
		if occupied[m.Coord()] {
			return fmt.Errorf("%s at %s: %w", label, m.Coord(), ErrSeatTaken)
		}
		occupied[m.Coord()] = true
	}
	return nil
}

func checkPosition(grid *core.Grid, c core.Coordinate, label string) error {
	if !grid.InBounds(c) {
		return fmt.Errorf("%s at %s: %w", label, c, ErrSeatOutOfBounds)
	}
	if t := grid.TerrainAt(c); t.BlocksMovement() || t.IsWater() {
		return fmt.Errorf("%s at %s on %s: %w", label, c, t, ErrSeatBlocked)
	}
	return nil
}

// Grid returns the parsed map. Valid only after a successful Validate.
func (s *Scenario) Grid() *core.Grid { return s.grid }

// EmpireIndex returns the position of the named empire in Empires, which is
// also the id it receives when the world is built.
func (s *Scenario) EmpireIndex(name string) (int, bool) {
	for i, e := range s.Empires {
		if e.Name == name {
			return i, true
		}
	}
	return -1, false
}
