package planner

import (
	"testing"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/config"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/game"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hazard"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hexgrid"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/rules"
)

func cell(x, y int) hexgrid.Cell { return hexgrid.Cell{X: x, Y: y} }

func fieldOf(recs ...game.Record) *hazard.Field {
	w := game.NewWorld()
	w.Apply(game.Frame{Records: recs})
	return hazard.Build(w)
}

func TestBest_OpenWaterPrefersStraightLine(t *testing.T) {
	p := New(config.Default().Planner, fieldOf(), nil)
	s := rules.State{Cell: cell(5, 5), Facing: 0, Speed: 1}
	got, ok := p.Best(s, cell(10, 5))
	if !ok {
		t.Fatalf("no action found on an empty board")
	}
	t.Logf("picked %v score %.3f after %d nodes", got.Action, got.Score, p.Nodes())
	if got.Action != game.ActionWait && got.Action != game.ActionFaster {
		t.Fatalf("picked %v, want WAIT or FASTER", got.Action)
	}
}

func TestEvaluate_ImpactCellPenalty(t *testing.T) {
	cfg := config.Default().Planner
	s := rules.State{Cell: cell(6, 7), Facing: 0, Speed: 1}
	dest := cell(12, 7)

	clear := New(cfg, fieldOf(), nil)
	hit := New(cfg, fieldOf(game.Record{ID: 9, Kind: game.KindCannonball, Cell: cell(7, 7), Args: [4]int{1, 1}}), nil)

	// Evaluating at the depth cap scores this ply only.
	base, _ := clear.Evaluate(s, game.ActionWait, dest, cfg.Depth)
	fired, _ := hit.Evaluate(s, game.ActionWait, dest, cfg.Depth)
	if diff := fired - base; diff != -50 {
		t.Fatalf("center impact penalty=%v want -50", diff)
	}
}

func TestPositionValue_Layers(t *testing.T) {
	cfg := config.Default().Planner
	f := fieldOf(
		game.Record{ID: 1, Kind: game.KindBarrel, Cell: cell(8, 7), Args: [4]int{10}},
		game.Record{ID: 2, Kind: game.KindMine, Cell: cell(6, 7)},
		game.Record{ID: 3, Kind: game.KindCannonball, Cell: cell(8, 7), Args: [4]int{0, 2}},
	)
	p := New(cfg, f, nil)
	// stern (6,7) mine, center (7,7), bow (8,7) barrel under fire.
	got := p.positionValue(rules.State{Cell: cell(7, 7), Facing: 0})
	want := cfg.BarrelBonus + cfg.MinePenalty + cfg.BowFirePenalty
	if got != want {
		t.Fatalf("positionValue=%v want %v", got, want)
	}
}

func TestBest_AvoidsMineAhead(t *testing.T) {
	p := New(config.Default().Planner, fieldOf(game.Record{ID: 1, Kind: game.KindMine, Cell: cell(7, 5)}), nil)
	got, ok := p.Best(rules.State{Cell: cell(5, 5), Facing: 0, Speed: 1}, cell(10, 5))
	if !ok {
		t.Fatalf("no action")
	}
	if got.Action == game.ActionWait || got.Action == game.ActionFaster {
		t.Fatalf("picked %v which sails onto the mine", got.Action)
	}
}

func TestBest_SkipsCollidingActions(t *testing.T) {
	p := New(config.Default().Planner, fieldOf(), nil)
	// Two cells from the east wall at full speed: only slowing down is clear.
	got, ok := p.Best(rules.State{Cell: cell(21, 5), Facing: 0, Speed: 2}, cell(0, 5))
	if !ok {
		t.Fatalf("expected SLOWER to be available")
	}
	if got.Action != game.ActionSlower {
		t.Fatalf("picked %v, want SLOWER", got.Action)
	}
}

func TestBest_AllBlocked(t *testing.T) {
	p := New(config.Default().Planner, fieldOf(), nil)
	if got, ok := p.Best(rules.State{Cell: cell(hexgrid.Width-1, 5), Facing: 0, Speed: 2}, cell(0, 5)); ok {
		t.Fatalf("expected every action to collide, got %v", got.Action)
	}
}

func TestBest_BlockedByShip(t *testing.T) {
	blocked := rules.Blockers{cell(7, 5): {}}
	p := New(config.Default().Planner, fieldOf(), blocked)
	got, ok := p.Best(rules.State{Cell: cell(5, 5), Facing: 0, Speed: 1}, cell(10, 5))
	if !ok {
		t.Fatalf("no action")
	}
	out := rules.Apply(rules.State{Cell: cell(5, 5), Facing: 0, Speed: 1}, got.Action, blocked)
	if out.Collided {
		t.Fatalf("picked colliding action %v", got.Action)
	}
}

func TestNodes_DepthOne(t *testing.T) {
	cfg := config.Default().Planner
	cfg.Depth = 1
	p := New(cfg, fieldOf(), nil)
	p.Best(rules.State{Cell: cell(10, 10), Facing: 2, Speed: 1}, cell(3, 3))
	if p.Nodes() != len(game.MoveActions) {
		t.Fatalf("nodes=%d want %d", p.Nodes(), len(game.MoveActions))
	}
}
