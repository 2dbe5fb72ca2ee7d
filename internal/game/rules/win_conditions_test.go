package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/testutil"
)

func TestWinConditionChecker_CheckGameOver(t *testing.T) {
	tests := []struct {
		name       string
		original   int
		maxTurns   int
		alive      []core.EmpireID
		turn       int
		wantOver   bool
		wantWinner core.EmpireID
	}{
		{"contest continues", 3, 0, []core.EmpireID{0, 2}, 10, false, core.NoEmpire},
		{"sole survivor wins", 3, 0, []core.EmpireID{2}, 10, true, 2},
		{"everyone eliminated", 2, 0, nil, 10, true, core.NoEmpire},
		{"solo world keeps running", 1, 0, []core.EmpireID{0}, 10, false, core.NoEmpire},
		{"solo world stops at the limit", 1, 10, []core.EmpireID{0}, 10, true, core.NoEmpire},
		{"turn limit without winner", 2, 5, []core.EmpireID{0, 1}, 5, true, core.NoEmpire},
		{"before the limit", 2, 5, []core.EmpireID{0, 1}, 4, false, core.NoEmpire},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wc := NewWinConditionChecker(testutil.NopLogger(), tt.original, tt.maxTurns)
			over, winner := wc.CheckGameOver(tt.alive, tt.turn)
			assert.Equal(t, tt.wantOver, over)
			assert.Equal(t, tt.wantWinner, winner)
		})
	}
}
