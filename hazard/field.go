// Package hazard derives the per-tick threat and opportunity field.
package hazard

import (
	"github.com/Vinatorul/Coders-Of-The-Caribbean/game"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hexgrid"
)

// Field is built once per tick and only read afterwards.
type Field struct {
	impacts map[hexgrid.Cell]int
	// mines maps a mine cell to whether a cannonball is aimed at it.
	mines   map[hexgrid.Cell]bool
	barrels map[hexgrid.Cell]struct{}
}

// Build derives the field from the live entities of w.
func Build(w *game.World) *Field {
	f := &Field{
		impacts: make(map[hexgrid.Cell]int),
		mines:   make(map[hexgrid.Cell]bool),
		barrels: make(map[hexgrid.Cell]struct{}),
	}
	for _, c := range w.LiveCannonballs() {
		if t, ok := f.impacts[c.Target]; !ok || c.ImpactIn < t {
			f.impacts[c.Target] = c.ImpactIn
		}
	}
	for _, m := range w.LiveMines() {
		_, fired := f.impacts[m.Cell]
		f.mines[m.Cell] = fired
	}
	for _, b := range w.LiveBarrels() {
		f.barrels[b.Cell] = struct{}{}
	}
	return f
}

// ImpactIn returns the soonest impact aimed at c.
func (f *Field) ImpactIn(c hexgrid.Cell) (int, bool) {
	t, ok := f.impacts[c]
	return t, ok
}

func (f *Field) UnderFire(c hexgrid.Cell) bool {
	_, ok := f.impacts[c]
	return ok
}

func (f *Field) HasMine(c hexgrid.Cell) bool {
	_, ok := f.mines[c]
	return ok
}

// MineUnderFire reports whether c holds a mine that a cannonball is aimed at.
func (f *Field) MineUnderFire(c hexgrid.Cell) bool {
	return f.mines[c]
}

func (f *Field) HasBarrel(c hexgrid.Cell) bool {
	_, ok := f.barrels[c]
	return ok
}

// Counts returns the sizes of the three layers, for logging.
func (f *Field) Counts() (impacts, mines, barrels int) {
	return len(f.impacts), len(f.mines), len(f.barrels)
}
