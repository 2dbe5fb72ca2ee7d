package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/ShapeOfThings/internal/common"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/movement"
)

const (
	capitalSymbol = "♔"
	citySymbol    = "⬢"
	armySymbol    = "*"
	settlerSymbol = "s"
	empireLetters = "ABCDEFGH"
)

// Board renders the world as two characters per tile: an empire letter
// (blank when unclaimed) followed by a seat, mover or terrain glyph. Odd
// columns sit half a row lower on the hex grid; rows are printed as stored.
func (e *Engine) Board(color bool) string {
	grid := e.state.Grid
	var sb strings.Builder
	sb.Grow((grid.W*12 + 4) * (grid.H + 3))

	sb.WriteString("   ")
	for x := 0; x < grid.W; x++ {
		fmt.Fprintf(&sb, "%2d", x)
	}
	sb.WriteString("\n")

	for y := 0; y < grid.H; y++ {
		fmt.Fprintf(&sb, "%2d ", y)
		for x := 0; x < grid.W; x++ {
			owner, cell := e.tileDisplay(core.NewCoordinate(x, y))
			if color {
				cell = common.Colorize(int(owner), cell)
			}
			sb.WriteString(cell)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n" + capitalSymbol + "=capital " + citySymbol + "=city " + armySymbol + "=army " +
		settlerSymbol + "=settler ~-=water ^=mountain A-H=empires\n")
	return sb.String()
}

// tileDisplay returns the empire to color the tile with and its two-rune text.
// Seats take precedence over movers, movers over terrain.
func (e *Engine) tileDisplay(c core.Coordinate) (core.EmpireID, string) {
	if s, ok := e.state.Sources.AtSeat(c); ok {
		symbol := citySymbol
		if capital, ok := e.state.Empires.CapitalOf(s.Empire); ok && capital == s.ID {
			symbol = capitalSymbol
		}
		return s.Empire, empireLetter(s.Empire) + symbol
	}
	if m, ok := e.state.Movers.At(c); ok {
		symbol := armySymbol
		if m.Kind == movement.KindSettler {
			symbol = settlerSymbol
		}
		return m.Empire, empireLetter(m.Empire) + symbol
	}

	glyph := string(e.state.Grid.TerrainAt(c).Glyph())
	if main, ok := e.state.Field.Main(c); ok {
		return main, empireLetter(main) + glyph
	}
	return core.NoEmpire, " " + glyph
}

func empireLetter(id core.EmpireID) string {
	if id < 0 {
		return " "
	}
	return string(empireLetters[int(id)%len(empireLetters)])
}
