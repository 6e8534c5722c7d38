package replay

import (
	"fmt"
	"strings"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/hexgrid"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/store"
)

// Board glyphs. Ships draw an upper-case center with lower-case bow and
// stern.
const (
	glyphSea    = '.'
	glyphBarrel = 'B'
	glyphMine   = '*'
	glyphImpact = 'x'
	glyphOwn    = 'A'
	glyphEnemy  = 'E'
)

// Render draws one turn as text. Odd rows are indented half a cell so the
// hex neighbourhood reads correctly.
func Render(row store.TurnRow) string {
	var grid [hexgrid.Height][hexgrid.Width]rune
	for y := range grid {
		for x := range grid[y] {
			grid[y][x] = glyphSea
		}
	}
	put := func(x, y int32, g rune) {
		c := hexgrid.Cell{X: int(x), Y: int(y)}
		if c.InBounds() {
			grid[c.Y][c.X] = g
		}
	}

	for i := range row.BallX {
		put(row.BallX[i], row.BallY[i], glyphImpact)
	}
	for i := range row.BarrelX {
		put(row.BarrelX[i], row.BarrelY[i], glyphBarrel)
	}
	for i := range row.MineX {
		put(row.MineX[i], row.MineY[i], glyphMine)
	}
	for _, s := range row.Ships {
		g := glyphEnemy
		if s.Owned {
			g = glyphOwn
		}
		center := hexgrid.Cell{X: int(s.X), Y: int(s.Y)}
		facing := int(s.Facing) % hexgrid.Directions
		for _, c := range []hexgrid.Cell{
			hexgrid.Neighbor(center, facing),
			hexgrid.Neighbor(center, hexgrid.Rotate(facing, 3)),
		} {
			put(int32(c.X), int32(c.Y), g+('a'-'A'))
		}
		put(s.X, s.Y, g)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "match %s  tick %d  %.1fms\n\n", row.MatchID, row.Tick, float64(row.ElapsedUS)/1000)
	for y := range grid {
		if y&1 == 1 {
			b.WriteByte(' ')
		}
		for x, g := range grid[y] {
			if x > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(g)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	for _, s := range row.Ships {
		if !s.Owned {
			continue
		}
		fmt.Fprintf(&b, "ship %-3d rum %-3d speed %d  %-12s %s\n", s.ID, s.Rum, s.Speed, s.Command, s.Reason)
	}
	return b.String()
}
