// Package rules simulates one tick of ship motion for the planner.
package rules

import (
	"github.com/Vinatorul/Coders-Of-The-Caribbean/game"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hexgrid"
)

// State is the part of a ship the planner varies. It is a plain value so
// sibling branches of the search never share anything.
type State struct {
	Cell   hexgrid.Cell
	Facing int
	Speed  int
}

func (s State) Bow() hexgrid.Cell {
	return hexgrid.Neighbor(s.Cell, s.Facing)
}

func (s State) Stern() hexgrid.Cell {
	return hexgrid.Neighbor(s.Cell, hexgrid.Rotate(s.Facing, 3))
}

// Footprint returns stern, center and bow, in that order.
func (s State) Footprint() [3]hexgrid.Cell {
	return [3]hexgrid.Cell{s.Stern(), s.Cell, s.Bow()}
}

// StateOf extracts the simulated state of a ship.
func StateOf(s *game.Ship) State {
	return State{Cell: s.Cell, Facing: s.Facing, Speed: s.Speed}
}

// Blockers is the set of cells occupied by other ships this tick.
type Blockers map[hexgrid.Cell]struct{}

func (b Blockers) Has(c hexgrid.Cell) bool {
	_, ok := b[c]
	return ok
}

// BlockersFor collects the footprint of every live ship except selfID.
func BlockersFor(w *game.World, selfID int) Blockers {
	b := make(Blockers)
	for _, s := range w.LiveShips() {
		if s.ID == selfID {
			continue
		}
		for _, c := range StateOf(s).Footprint() {
			b[c] = struct{}{}
		}
	}
	return b
}

// Outcome is the result of applying one action for one tick.
type Outcome struct {
	State    State
	Collided bool
}

// Eligible reports whether a can be issued at the given speed.
func Eligible(a game.Action, speed int) bool {
	switch a {
	case game.ActionFaster:
		return speed < game.MaxSpeed
	case game.ActionSlower:
		return speed > 0
	default:
		return true
	}
}

// Apply moves s straight ahead at the speed implied by a, one cell at a
// time, then applies a's turn. Hitting the wall or a blocker on the way, or
// turning into a blocker, stops the simulation and flags a collision.
func Apply(s State, a game.Action, blocked Blockers) Outcome {
	speed := s.Speed
	switch a {
	case game.ActionFaster:
		speed = min(speed+1, game.MaxSpeed)
	case game.ActionSlower:
		speed = max(speed-1, 0)
	}

	cur := s.Cell
	for step := 0; step < speed; step++ {
		next := hexgrid.Neighbor(cur, s.Facing)
		if next == cur || blocked.Has(next) || blocked.Has(hexgrid.Neighbor(next, s.Facing)) {
			return Outcome{State: State{Cell: cur, Facing: s.Facing}, Collided: true}
		}
		cur = next
	}

	out := State{Cell: cur, Facing: s.Facing, Speed: speed}
	switch a {
	case game.ActionPort:
		out.Facing = hexgrid.Rotate(s.Facing, 1)
	case game.ActionStarboard:
		out.Facing = hexgrid.Rotate(s.Facing, -1)
	default:
		return Outcome{State: out}
	}
	if blocked.Has(out.Bow()) || blocked.Has(out.Stern()) {
		return Outcome{State: State{Cell: cur, Facing: s.Facing}, Collided: true}
	}
	return Outcome{State: out}
}
