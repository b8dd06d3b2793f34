package game

import (
	"fmt"
	"math"
)

// Position is a cell on the square battle grid.
type Position struct {
	X int
	Y int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Distance returns the Euclidean distance between two cells.
func Distance(a, b Position) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}

// clampInt limits v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp returns p moved into [0, gridSize) on both axes.
func (p Position) Clamp(gridSize int) Position {
	return Position{
		X: clampInt(p.X, 0, gridSize-1),
		Y: clampInt(p.Y, 0, gridSize-1),
	}
}

// InBounds reports whether p lies on a grid of the given size.
func (p Position) InBounds(gridSize int) bool {
	return p.X >= 0 && p.X < gridSize && p.Y >= 0 && p.Y < gridSize
}

// StepToward moves from toward target by at most maxStep cells along the
// straight line. Each axis displacement is rounded to the nearest cell and
// the result is clamped into the grid.
func StepToward(from, target Position, maxStep, gridSize int) Position {
	dx := float64(target.X - from.X)
	dy := float64(target.Y - from.Y)
	d := math.Hypot(dx, dy)
	if d == 0 || maxStep <= 0 {
		return from
	}
	step := math.Min(float64(maxStep), d)
	next := Position{
		X: from.X + int(math.Round(dx/d*step)),
		Y: from.Y + int(math.Round(dy/d*step)),
	}
	return next.Clamp(gridSize)
}

// neighbours8 returns the eight surrounding cells of p, clamped to the grid.
// Cells clamped back onto p are kept; callers filter them by distance.
func neighbours8(p Position, gridSize int) []Position {
	out := make([]Position, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			out = append(out, Position{X: p.X + dx, Y: p.Y + dy}.Clamp(gridSize))
		}
	}
	return out
}
