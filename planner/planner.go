// Package planner chooses a ship's movement by bounded lookahead.
//
// Every movement action is simulated with rules.Apply, the resulting
// position is scored statically, and below the depth cap the best child
// score is added with exponential decay. The tree is at most 5^3 leaves per
// candidate, small enough to search exhaustively every tick.
package planner

import (
	"math"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/config"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/game"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hazard"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hexgrid"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/rules"
)

type Planner struct {
	cfg     config.Planner
	field   *hazard.Field
	blocked rules.Blockers

	nodes int
}

func New(cfg config.Planner, field *hazard.Field, blocked rules.Blockers) *Planner {
	return &Planner{cfg: cfg, field: field, blocked: blocked}
}

// Choice is a scored top-level action.
type Choice struct {
	Action game.Action
	Score  float64
}

// Nodes returns how many actions were simulated since the planner was made.
func (p *Planner) Nodes() int { return p.nodes }

// Best returns the highest scoring non-colliding action from s toward dest.
// Candidates are tried in the order of game.MoveActions and only a strictly
// better score replaces the current pick. It returns false when every
// eligible action collides.
func (p *Planner) Best(s rules.State, dest hexgrid.Cell) (Choice, bool) {
	best := Choice{Action: game.ActionWait, Score: math.Inf(-1)}
	found := false
	for _, a := range game.MoveActions {
		if !rules.Eligible(a, s.Speed) {
			continue
		}
		score, collided := p.Evaluate(s, a, dest, 1)
		if collided {
			continue
		}
		if !found || score > best.Score {
			best = Choice{Action: a, Score: score}
			found = true
		}
	}
	return best, found
}

// Evaluate scores action a taken from s at the given ply.
func (p *Planner) Evaluate(s rules.State, a game.Action, dest hexgrid.Cell, depth int) (float64, bool) {
	p.nodes++
	out := rules.Apply(s, a, p.blocked)
	if out.Collided {
		return p.cfg.CollisionPenalty, true
	}
	next := out.State

	score := p.positionValue(next)
	if hexgrid.Distance(next.Cell, dest) < hexgrid.Distance(s.Cell, dest) {
		score += p.cfg.ApproachBonus
	}
	if alignment(next, dest) < alignment(s, dest) {
		score += p.cfg.AlignBonus
	}

	if depth < p.cfg.Depth {
		future := math.Inf(-1)
		for _, child := range game.MoveActions {
			if !rules.Eligible(child, next.Speed) {
				continue
			}
			if v, _ := p.Evaluate(next, child, dest, depth+1); v > future {
				future = v
			}
		}
		score += future * p.cfg.Decay
	}
	return score, false
}

// positionValue rates the cells a ship would cover: barrels it picks up,
// mines it hits and cannonball impacts it would sit under.
func (p *Planner) positionValue(s rules.State) float64 {
	fire := [3]float64{p.cfg.SternFirePenalty, p.cfg.CenterFirePenalty, p.cfg.BowFirePenalty}
	v := 0.0
	for i, c := range s.Footprint() {
		// At the wall the bow or stern collapses onto the center.
		if i != 1 && c == s.Cell {
			continue
		}
		if p.field.HasBarrel(c) {
			v += p.cfg.BarrelBonus
		}
		if p.field.HasMine(c) {
			v += p.cfg.MinePenalty
		}
		if p.field.UnderFire(c) {
			v += fire[i]
		}
	}
	return v
}

func alignment(s rules.State, dest hexgrid.Cell) float64 {
	return hexgrid.AngleDiff(s.Facing, hexgrid.Bearing(s.Cell, dest))
}
