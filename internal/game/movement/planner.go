package movement

import (
	"github.com/mitchelldurbincs/ShapeOfThings/internal/common"
	"github.com/mitchelldurbincs/ShapeOfThings/internal/game/core"
)

// Occupancy tells the planner which tiles hold a mover.
type Occupancy interface {
	Occupied(core.Coordinate) bool
}

// CanEnter is the caller's traversal predicate.
type CanEnter func(core.Coordinate) bool

// Planner runs A* over the hex grid. It knows terrain costs and occupancy;
// ownership and diplomacy reach it only through the CanEnter predicate.
type Planner struct {
	grid       *core.Grid
	occupancy  Occupancy
	multiplier int
	minCost    int
}

// NewPlanner creates a planner. Occupied tiles cost multiplier times their
// terrain cost.
func NewPlanner(grid *core.Grid, occupancy Occupancy, multiplier int) *Planner {
	return &Planner{
		grid:       grid,
		occupancy:  occupancy,
		multiplier: max(1, multiplier),
		minCost:    cheapestTerrain(grid),
	}
}

// cheapestTerrain returns the lowest move cost of any tile on the grid,
// blocking or not, so the heuristic stays a lower bound whatever the
// caller's predicate admits.
func cheapestTerrain(grid *core.Grid) int {
	best := 0
	for _, t := range grid.Terrain {
		if c := t.MoveCost(); best == 0 || c < best {
			best = c
		}
	}
	return max(1, best)
}

// StepCost is the cost of entering c.
func (p *Planner) StepCost(c core.Coordinate) int {
	cost := p.grid.TerrainAt(c).MoveCost()
	if p.occupancy != nil && p.occupancy.Occupied(c) {
		cost *= p.multiplier
	}
	return cost
}

// heuristic never overestimates: every step costs at least the cheapest
// terrain on the grid. Scaling by the most expensive terrain instead would
// overestimate on cheap ground and let A* settle for longer paths.
func (p *Planner) heuristic(a, b core.Coordinate) int {
	return core.HexDistance(a, b) * p.minCost
}

// FindPath returns the cheapest route from start to goal, excluding start.
// start == goal yields an empty, found path. An unreachable goal yields
// nil, false.
func (p *Planner) FindPath(start, goal core.Coordinate, canEnter CanEnter) ([]core.Coordinate, bool) {
	if start == goal {
		return []core.Coordinate{}, true
	}
	if !p.grid.InBounds(start) || !p.grid.InBounds(goal) {
		return nil, false
	}

	size := p.grid.Size()
	gScore := make([]int, size)
	cameFrom := make([]int, size)
	closed := make([]bool, size)
	for i := range gScore {
		gScore[i] = -1
		cameFrom[i] = -1
	}

	startIdx, goalIdx := p.grid.Idx(start), p.grid.Idx(goal)
	gScore[startIdx] = 0
	open := common.NewMinQueue()
	open.Push(startIdx, p.heuristic(start, goal))

	for open.Len() > 0 {
		idx, _ := open.Pop()
		if closed[idx] {
			continue
		}
		if idx == goalIdx {
			return p.reconstruct(cameFrom, startIdx, goalIdx), true
		}
		closed[idx] = true

		for _, n := range p.grid.Neighbors(p.grid.Coord(idx)) {
			ni := p.grid.Idx(n)
			if closed[ni] || !canEnter(n) {
				continue
			}
			g := gScore[idx] + p.StepCost(n)
			if gScore[ni] == -1 || g < gScore[ni] {
				gScore[ni] = g
				cameFrom[ni] = idx
				open.Push(ni, g+p.heuristic(n, goal))
			}
		}
	}
	return nil, false
}

func (p *Planner) reconstruct(cameFrom []int, startIdx, goalIdx int) []core.Coordinate {
	var rev []core.Coordinate
	for idx := goalIdx; idx != startIdx; idx = cameFrom[idx] {
		rev = append(rev, p.grid.Coord(idx))
	}
	path := make([]core.Coordinate, len(rev))
	for i, c := range rev {
		path[len(rev)-1-i] = c
	}
	return path
}

// explore runs a uniform-cost search from start and returns the cost and
// predecessor of every reachable tile (-1 when unreachable).
func (p *Planner) explore(start core.Coordinate, canEnter CanEnter) (cost, cameFrom []int) {
	size := p.grid.Size()
	cost = make([]int, size)
	cameFrom = make([]int, size)
	for i := range cost {
		cost[i] = -1
		cameFrom[i] = -1
	}
	if !p.grid.InBounds(start) {
		return cost, cameFrom
	}

	closed := make([]bool, size)
	startIdx := p.grid.Idx(start)
	cost[startIdx] = 0
	q := common.NewMinQueue()
	q.Push(startIdx, 0)
	for q.Len() > 0 {
		idx, d := q.Pop()
		if closed[idx] {
			continue
		}
		closed[idx] = true
		for _, n := range p.grid.Neighbors(p.grid.Coord(idx)) {
			ni := p.grid.Idx(n)
			if closed[ni] || !canEnter(n) {
				continue
			}
			nd := d + p.StepCost(n)
			if cost[ni] == -1 || nd < cost[ni] {
				cost[ni] = nd
				cameFrom[ni] = idx
				q.Push(ni, nd)
			}
		}
	}
	return cost, cameFrom
}

// Reachable lists, in row-major order, every tile reachable from start.
// start itself is excluded.
func (p *Planner) Reachable(start core.Coordinate, canEnter CanEnter) []core.Coordinate {
	cost, _ := p.explore(start, canEnter)
	var out []core.Coordinate
	for idx, c := range cost {
		if c > 0 {
			out = append(out, p.grid.Coord(idx))
		}
	}
	return out
}

// FindPathNear plans to goal, or when goal is unreachable to the reachable
// tile closest to it. Closeness is hex distance, then path cost, then
// row-major order. It returns the chosen destination; false means the mover
// cannot get any closer than start.
func (p *Planner) FindPathNear(start, goal core.Coordinate, canEnter CanEnter) ([]core.Coordinate, core.Coordinate, bool) {
	if path, ok := p.FindPath(start, goal, canEnter); ok {
		return path, goal, true
	}

	cost, cameFrom := p.explore(start, canEnter)
	best, bestDist, bestCost := -1, core.HexDistance(start, goal), 0
	for idx, c := range cost {
		if c <= 0 {
			continue
		}
		d := core.HexDistance(p.grid.Coord(idx), goal)
		if d < bestDist || (d == bestDist && best != -1 && c < bestCost) {
			best, bestDist, bestCost = idx, d, c
		}
	}
	if best == -1 {
		return nil, start, false
	}
	return p.reconstruct(cameFrom, p.grid.Idx(start), best), p.grid.Coord(best), true
}
