package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/diplomacy"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/effects"
)

const minimal = `
name: duel
map:
  - "....."
  - "....."
empires:
  - name: red
    capital: {x: 0, y: 0}
  - name: blue
    capital: {x: 4, y: 1}
`

func TestLoad_ContestedValley(t *testing.T) {
	s, err := Load("testdata/contested_valley.yaml", effects.NewRegistry())
	require.NoError(t, err)

	assert.Equal(t, "contested-valley", s.Name)
	require.NotNil(t, s.Grid())
	assert.Equal(t, 10, s.Grid().W)
	assert.Equal(t, 6, s.Grid().H)
	assert.Equal(t, core.TerrainMountain, s.Grid().TerrainAt(core.NewCoordinate(5, 2)))

	require.Len(t, s.Empires, 2)
	red := s.Empires[0]
	assert.True(t, red.Human)
	assert.Equal(t, 20, red.Capital.Power)
	assert.Equal(t, []string{effects.KeyTreaty}, red.Discoveries)
	require.Len(t, s.Empires[1].Cities, 1)

	idx, ok := s.EmpireIndex("blue")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	require.Len(t, s.Relations, 1)
	from, to, err := s.Relations[0].States()
	require.NoError(t, err)
	assert.Equal(t, diplomacy.StateWar, from)
	assert.Equal(t, diplomacy.StateWar, to)

	require.Len(t, s.Movers, 2)
	assert.True(t, s.Movers[1].CarriesInfluence)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/nope.yaml", nil)
	assert.Error(t, err)
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing empires", "name: x\nmap: [\"...\"]\n"},
		{"unknown field", minimal + "weather: stormy\n"},
		{"bad glyph", "name: x\nmap: [\"..X\"]\nempires: [{name: a, capital: {x: 0, y: 0}}]\n"},
		{"negative coordinate", "name: x\nmap: [\"...\"]\nempires: [{name: a, capital: {x: -1, y: 0}}]\n"},
		{"bad state", minimal + "relations: [{from: red, to: blue, state: ALLIED}]\n"},
		{"bad mover kind", minimal + "movers: [{empire: red, kind: dragon, x: 1, y: 1}]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestValidateSchema_DecodedYAML(t *testing.T) {
	var doc any
	require.NoError(t, yaml.Unmarshal([]byte(minimal), &doc))
	assert.NoError(t, validateSchema(doc), "integers decoded from YAML satisfy the schema")

	var bad any
	require.NoError(t, yaml.Unmarshal([]byte("name: x\nmap: [\"...\"]\nempires: [{name: a, capital: {x: zero, y: 0}}]\n"), &bad))
	err := validateSchema(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestParse_SemanticErrors(t *testing.T) {
	registry := effects.NewRegistry()
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"ragged map", "name: x\nmap: [\"...\", \"..\"]\nempires: [{name: a, capital: {x: 0, y: 0}}]\n", core.ErrMalformedGrid},
		{"duplicate empire", "name: x\nmap: [\"...\"]\nempires: [{name: a, capital: {x: 0, y: 0}}, {name: a, capital: {x: 2, y: 0}}]\n", ErrDuplicateEmpire},
		{"capital out of bounds", "name: x\nmap: [\"...\"]\nempires: [{name: a, capital: {x: 5, y: 0}}]\n", ErrSeatOutOfBounds},
		{"capital on mountain", "name: x\nmap: [\"^..\"]\nempires: [{name: a, capital: {x: 0, y: 0}}]\n", ErrSeatBlocked},
		{"capital at sea", "name: x\nmap: [\"-..\"]\nempires: [{name: a, capital: {x: 0, y: 0}}]\n", ErrSeatBlocked},
		{"shared seat", "name: x\nmap: [\"...\"]\nempires: [{name: a, capital: {x: 1, y: 0}, cities: [{x: 1, y: 0}]}]\n", ErrSeatTaken},
		{"unknown discovery", "name: x\nmap: [\"...\"]\nempires: [{name: a, discoveries: [magic.flight], capital: {x: 0, y: 0}}]\n", effects.ErrUnknownEffect},
		{"relation to stranger", minimal + "relations: [{from: red, to: green, state: WAR}]\n", ErrUnknownEmpire},
		{"mover of stranger", minimal + "movers: [{empire: green, x: 1, y: 1}]\n", ErrUnknownEmpire},
		{"stacked movers", minimal + "movers: [{empire: red, x: 1, y: 1}, {empire: blue, x: 1, y: 1}]\n", ErrSeatTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), registry)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, ErrSchema)
		})
	}
}

func TestParse_SelfRelationRejected(t *testing.T) {
	_, err := Parse([]byte(minimal+"relations: [{from: red, to: red, state: WAR}]\n"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "itself")
}

func TestRelationSpec_States(t *testing.T) {
	tests := []struct {
		spec     RelationSpec
		from, to diplomacy.State
	}{
		{RelationSpec{State: "WAR"}, diplomacy.StateWar, diplomacy.StateWar},
		{RelationSpec{State: "TRIBUTE"}, diplomacy.StateTribute, diplomacy.StateTreaty},
		{RelationSpec{State: "TREATY", PeerState: "NONE"}, diplomacy.StateTreaty, diplomacy.StateNone},
	}
	for _, tt := range tests {
		from, to, err := tt.spec.States()
		require.NoError(t, err)
		assert.Equal(t, tt.from, from)
		assert.Equal(t, tt.to, to)
	}

	_, _, err := RelationSpec{State: "WAR", PeerState: "FRIENDS"}.States()
	assert.ErrorIs(t, err, diplomacy.ErrUnknownState)
}
