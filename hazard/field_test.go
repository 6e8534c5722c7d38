package hazard

import (
	"reflect"
	"testing"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/game"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hexgrid"
)

func cell(x, y int) hexgrid.Cell { return hexgrid.Cell{X: x, Y: y} }

func testWorld() *game.World {
	w := game.NewWorld()
	w.Apply(game.Frame{Records: []game.Record{
		{ID: 10, Kind: game.KindCannonball, Cell: cell(7, 7), Args: [4]int{1, 3}},
		{ID: 11, Kind: game.KindCannonball, Cell: cell(7, 7), Args: [4]int{2, 1}},
		{ID: 12, Kind: game.KindCannonball, Cell: cell(3, 3), Args: [4]int{2, 2}},
		{ID: 20, Kind: game.KindMine, Cell: cell(3, 3)},
		{ID: 21, Kind: game.KindMine, Cell: cell(12, 4)},
		{ID: 30, Kind: game.KindBarrel, Cell: cell(9, 9), Args: [4]int{15}},
	}})
	return w
}

func TestBuild_MinimumImpact(t *testing.T) {
	f := Build(testWorld())
	got, ok := f.ImpactIn(cell(7, 7))
	if !ok || got != 1 {
		t.Fatalf("ImpactIn(7,7)=%d,%v want 1,true", got, ok)
	}
	if !f.UnderFire(cell(3, 3)) || f.UnderFire(cell(0, 0)) {
		t.Fatalf("UnderFire wrong")
	}
}

func TestBuild_MinesAndBarrels(t *testing.T) {
	f := Build(testWorld())
	if !f.HasMine(cell(3, 3)) || !f.HasMine(cell(12, 4)) {
		t.Fatalf("mines missing")
	}
	if !f.MineUnderFire(cell(3, 3)) {
		t.Errorf("mine at (3,3) should be under fire")
	}
	if f.MineUnderFire(cell(12, 4)) {
		t.Errorf("mine at (12,4) should not be under fire")
	}
	if !f.HasBarrel(cell(9, 9)) || f.HasBarrel(cell(7, 7)) {
		t.Errorf("barrel layer wrong")
	}
}

func TestBuild_Idempotent(t *testing.T) {
	w := testWorld()
	a, b := Build(w), Build(w)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two builds of the same world differ")
	}
}

func TestBuild_ExcludesStaleEntities(t *testing.T) {
	w := testWorld()
	// Next tick only one cannonball is still reported.
	w.Apply(game.Frame{Records: []game.Record{
		{ID: 12, Kind: game.KindCannonball, Cell: cell(3, 3), Args: [4]int{2, 1}},
	}})
	f := Build(w)
	if f.UnderFire(cell(7, 7)) {
		t.Errorf("stale cannonball still in field")
	}
	if f.HasMine(cell(3, 3)) || f.HasBarrel(cell(9, 9)) {
		t.Errorf("stale mine or barrel still in field")
	}
	impacts, mines, barrels := f.Counts()
	if impacts != 1 || mines != 0 || barrels != 0 {
		t.Errorf("counts=%d,%d,%d want 1,0,0", impacts, mines, barrels)
	}
}
