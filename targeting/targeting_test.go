package targeting

import (
	"testing"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/game"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hazard"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hexgrid"
)

func cell(x, y int) hexgrid.Cell { return hexgrid.Cell{X: x, Y: y} }

func shipRec(id int, c hexgrid.Cell, facing, speed int, owned bool) game.Record {
	kind := game.KindEnemyShip
	if owned {
		kind = game.KindOwnShip
	}
	return game.Record{ID: id, Kind: kind, Cell: c, Args: [4]int{facing, speed, 100}}
}

func worldOf(recs ...game.Record) *game.World {
	w := game.NewWorld()
	w.Apply(game.Frame{Records: recs})
	return w
}

func TestNearestBarrel(t *testing.T) {
	w := worldOf(
		game.Record{ID: 3, Kind: game.KindBarrel, Cell: cell(8, 5), Args: [4]int{10}},
		game.Record{ID: 5, Kind: game.KindBarrel, Cell: cell(5, 7), Args: [4]int{10}},
	)
	b, ok := NearestBarrel(w, cell(5, 5))
	if !ok || b.ID != 5 {
		t.Fatalf("NearestBarrel=%+v,%v want id 5", b, ok)
	}
}

func TestNearestBarrel_TieKeepsLowestID(t *testing.T) {
	w := worldOf(
		game.Record{ID: 3, Kind: game.KindBarrel, Cell: cell(8, 5)},
		game.Record{ID: 1, Kind: game.KindBarrel, Cell: cell(2, 5)},
	)
	for i := 0; i < 5; i++ {
		b, ok := NearestBarrel(w, cell(5, 5))
		if !ok || b.ID != 1 {
			t.Fatalf("tie-break picked %+v want id 1", b)
		}
	}
}

func TestNearest_NoneLive(t *testing.T) {
	w := worldOf(shipRec(0, cell(5, 5), 0, 0, true))
	if _, ok := NearestBarrel(w, cell(5, 5)); ok {
		t.Errorf("expected no barrel")
	}
	if _, ok := NearestEnemy(w, cell(5, 5)); ok {
		t.Errorf("expected no enemy")
	}
	f := hazard.Build(w)
	if _, ok := NearestSafeMine(w, f, cell(5, 5)); ok {
		t.Errorf("expected no mine")
	}
}

func TestNearestEnemy_IgnoresStale(t *testing.T) {
	w := worldOf(
		shipRec(0, cell(5, 5), 0, 0, true),
		shipRec(1, cell(6, 5), 0, 0, false),
		shipRec(2, cell(15, 5), 0, 0, false),
	)
	w.Apply(game.Frame{Records: []game.Record{
		shipRec(0, cell(5, 5), 0, 0, true),
		shipRec(2, cell(15, 5), 0, 0, false),
	}})
	e, ok := NearestEnemy(w, cell(5, 5))
	if !ok || e.ID != 2 {
		t.Fatalf("NearestEnemy=%+v want id 2 (id 1 is stale)", e)
	}
}

func TestImminentCollision(t *testing.T) {
	w := worldOf(
		shipRec(0, cell(10, 5), 0, 0, true),
		shipRec(1, cell(7, 5), 0, 1, false),
	)
	me := w.Ships[0]
	e, ok := ImminentCollision(w, me)
	if !ok || e.ID != 1 {
		t.Fatalf("ImminentCollision=%+v,%v want id 1", e, ok)
	}
}

func TestImminentCollision_StoppedOrFar(t *testing.T) {
	w := worldOf(
		shipRec(0, cell(10, 5), 0, 0, true),
		shipRec(1, cell(7, 5), 0, 0, false),
		shipRec(2, cell(2, 15), 0, 2, false),
	)
	if e, ok := ImminentCollision(w, w.Ships[0]); ok {
		t.Fatalf("unexpected collision target %+v", e)
	}
}

func TestIntercept(t *testing.T) {
	moving := &game.Ship{Cell: cell(10, 5), Facing: 0, Speed: 1}
	if got := Intercept(moving, cell(4, 5), 3); got != cell(13, 5) {
		t.Errorf("Intercept moving=%v want (13,5)", got)
	}
	stopped := &game.Ship{Cell: cell(10, 5), Facing: 0}
	if got := Intercept(stopped, cell(4, 5), 3); got != cell(10, 5) {
		t.Errorf("Intercept stopped=%v want (10,5)", got)
	}
}

func TestNearestSafeMine_SkipsMinesUnderFire(t *testing.T) {
	w := worldOf(
		game.Record{ID: 1, Kind: game.KindMine, Cell: cell(6, 5)},
		game.Record{ID: 2, Kind: game.KindMine, Cell: cell(9, 5)},
		game.Record{ID: 3, Kind: game.KindCannonball, Cell: cell(6, 5), Args: [4]int{0, 2}},
	)
	m, ok := NearestSafeMine(w, hazard.Build(w), cell(5, 5))
	if !ok || m.ID != 2 {
		t.Fatalf("NearestSafeMine=%+v want id 2", m)
	}
}
