// Package hexgrid implements geometry on the offset hex board.
//
// Cells use offset coordinates with odd rows shifted half a cell to the
// right. Distances and straight-line offsets go through cube coordinates.
// Directions are 0=E, 1=NE, 2=NW, 3=W, 4=SW, 5=SE; a direction outside 0..5
// is a programming error and panics.
package hexgrid

import (
	"fmt"
	"math"
)

const (
	Width  = 23
	Height = 21

	// Directions is the number of discrete facings.
	Directions = 6
)

// Cell is a board coordinate. (0,0) is the top-left corner.
type Cell struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (c Cell) String() string {
	return fmt.Sprintf("%d %d", c.X, c.Y)
}

// InBounds reports whether c lies on the board.
func (c Cell) InBounds() bool {
	return c.X >= 0 && c.X < Width && c.Y >= 0 && c.Y < Height
}

type cube struct {
	x, y, z int
}

func toCube(c Cell) cube {
	x := c.X - (c.Y-(c.Y&1))/2
	z := c.Y
	return cube{x: x, y: -x - z, z: z}
}

func fromCube(q cube) Cell {
	return Cell{X: q.x + (q.z-(q.z&1))/2, Y: q.z}
}

// neighborDelta is indexed by row parity, then direction.
var neighborDelta = [2][Directions][2]int{
	{{1, 0}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}},
	{{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {0, 1}, {1, 1}},
}

// cubeDelta holds the (x, z) cube step for each direction.
var cubeDelta = [Directions][2]int{
	{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {-1, 1}, {0, 1},
}

// Distance returns the hex distance between a and b.
func Distance(a, b Cell) int {
	ac, bc := toCube(a), toCube(b)
	return (abs(ac.x-bc.x) + abs(ac.y-bc.y) + abs(ac.z-bc.z)) / 2
}

// Neighbor returns the adjacent cell in direction dir. A step that would
// leave the board returns c itself, so callers can detect the wall by
// comparing the result with the input.
func Neighbor(c Cell, dir int) Cell {
	d := neighborDelta[c.Y&1][dir]
	n := Cell{X: c.X + d[0], Y: c.Y + d[1]}
	if !n.InBounds() {
		return c
	}
	return n
}

// Offset returns the cell reached by moving n cells in a straight line in
// direction dir. Unlike Neighbor the result is clamped to the board.
func Offset(c Cell, dir, n int) Cell {
	q := toCube(c)
	d := cubeDelta[dir]
	q.x += d[0] * n
	q.z += d[1] * n
	q.y = -q.x - q.z
	return clamp(fromCube(q))
}

// Bearing returns the direction from one cell to another as a continuous
// value in [0,6), in the same unit as the discrete facings.
func Bearing(from, to Cell) float64 {
	dy := float64(to.Y-from.Y) * math.Sqrt(3) / 2
	dx := float64(to.X-from.X) + 0.5*float64((to.Y&1)-(from.Y&1))
	a := -math.Atan2(dy, dx) * 3 / math.Pi
	if a < 0 {
		a += Directions
	}
	if a >= Directions {
		a -= Directions
	}
	return a
}

// AngleDiff is the circular distance between a facing and a bearing, in [0,3].
func AngleDiff(facing int, bearing float64) float64 {
	d := math.Abs(float64(facing) - bearing)
	if d > Directions/2 {
		d = Directions - d
	}
	return d
}

// Rotate turns a facing by steps of 60 degrees, positive counter-clockwise.
func Rotate(facing, steps int) int {
	return ((facing+steps)%Directions + Directions) % Directions
}

func clamp(c Cell) Cell {
	c.X = min(max(c.X, 0), Width-1)
	c.Y = min(max(c.Y, 0), Height-1)
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
