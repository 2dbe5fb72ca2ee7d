package core

import "fmt"

// Coordinate represents a position on the hex grid in "odd-q" offset layout:
// X is the column, Y the row, and odd columns sit half a hex lower.
type Coordinate struct {
	X, Y int
}

// NewCoordinate creates a new coordinate with the given x and y values
func NewCoordinate(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// FromIndex creates a coordinate from a grid array index using row-major ordering
func FromIndex(idx, width int) Coordinate {
	return Coordinate{
		X: idx % width,
		Y: idx / width,
	}
}

// IsValid checks if the coordinate is within the given bounds
func (c Coordinate) IsValid(width, height int) bool {
	return c.X >= 0 && c.X < width && c.Y >= 0 && c.Y < height
}

// ToIndex converts the coordinate to a grid array index using row-major ordering
func (c Coordinate) ToIndex(width int) int {
	return c.Y*width + c.X
}

// cube returns the cube coordinates (q, r, s) of an odd-q offset position.
func (c Coordinate) cube() (int, int, int) {
	q := c.X
	r := c.Y - (c.X-(c.X&1))/2
	return q, r, -q - r
}

// DistanceTo returns the hex distance to another coordinate
func (c Coordinate) DistanceTo(other Coordinate) int {
	return HexDistance(c, other)
}

// HexDistance returns the number of hex steps between a and b.
func HexDistance(a, b Coordinate) int {
	aq, ar, as := a.cube()
	bq, br, bs := b.cube()
	return max(abs(aq-bq), abs(ar-br), abs(as-bs))
}

// oddq neighbor offsets, indexed by column parity.
var hexDirections = [2][6]Coordinate{
	{{X: 1, Y: 0}, {X: 1, Y: -1}, {X: 0, Y: -1}, {X: -1, Y: -1}, {X: -1, Y: 0}, {X: 0, Y: 1}},
	{{X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: -1}, {X: -1, Y: 0}, {X: -1, Y: 1}, {X: 0, Y: 1}},
}

// IsAdjacentTo checks if this coordinate shares a hex edge with another
func (c Coordinate) IsAdjacentTo(other Coordinate) bool {
	return HexDistance(c, other) == 1
}

// Neighbors returns the six hex neighbors of this coordinate, unbounded
func (c Coordinate) Neighbors() [6]Coordinate {
	var result [6]Coordinate
	for i, d := range hexDirections[c.X&1] {
		result[i] = c.Add(d)
	}
	return result
}

// ValidNeighbors returns only the neighbors that are within the given bounds
func (c Coordinate) ValidNeighbors(width, height int) []Coordinate {
	valid := make([]Coordinate, 0, 6)
	for _, n := range c.Neighbors() {
		if n.IsValid(width, height) {
			valid = append(valid, n)
		}
	}
	return valid
}

// Add returns a new coordinate that is the sum of this coordinate and another
func (c Coordinate) Add(other Coordinate) Coordinate {
	return Coordinate{
		X: c.X + other.X,
		Y: c.Y + other.Y,
	}
}

// Equal checks if two coordinates are equal
func (c Coordinate) Equal(other Coordinate) bool {
	return c.X == other.X && c.Y == other.Y
}

// String returns a string representation of the coordinate
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
