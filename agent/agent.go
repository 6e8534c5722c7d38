// Package agent sequences targeting, planning and firing for every owned
// ship each tick.
package agent

import (
	"log/slog"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/config"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/game"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hazard"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hexgrid"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/planner"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/rules"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/targeting"
)

// Reason names the rule that produced a decision.
type Reason string

const (
	ReasonRamShot   Reason = "ram-shot"
	ReasonBarrel    Reason = "barrel"
	ReasonPatrol    Reason = "patrol"
	ReasonBlocked   Reason = "blocked"
	ReasonIntercept Reason = "intercept"
	ReasonMineShot  Reason = "mine-shot"
	ReasonMineDrop  Reason = "mine-drop"
)

// Decision is the command for one ship this tick.
type Decision struct {
	ShipID  int
	Command game.Command
	Reason  Reason
	Dest    hexgrid.Cell
	Score   float64
	Nodes   int
}

type Agent struct {
	cfg config.Config
	log *slog.Logger
}

func New(cfg config.Config, logger *slog.Logger) *Agent {
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{cfg: cfg, log: logger}
}

// Decide returns one decision per live owned ship, in ascending ship ID
// order. It updates the agent-side ship state (cooldowns, patrol index).
func (a *Agent) Decide(w *game.World, f *hazard.Field) []Decision {
	ships := w.OwnShips()
	out := make([]Decision, 0, len(ships))
	for _, s := range ships {
		d := a.decideShip(w, f, s)
		a.log.Debug("decision",
			"tick", w.Tick,
			"ship", s.ID,
			"command", d.Command.String(),
			"reason", string(d.Reason),
			"score", d.Score,
			"nodes", d.Nodes,
		)
		out = append(out, d)
	}
	return out
}

func (a *Agent) decideShip(w *game.World, f *hazard.Field, s *game.Ship) Decision {
	combat := a.cfg.Combat

	if s.Cooldown == 0 {
		if e, ok := targeting.ImminentCollision(w, s); ok {
			s.Cooldown = combat.FireCooldown
			return Decision{ShipID: s.ID, Command: game.Fire(e.Cell), Reason: ReasonRamShot, Dest: e.Cell}
		}
	}

	d := a.move(w, f, s)

	if s.Cooldown == 0 {
		if at, ok := a.interceptShot(w, s); ok {
			s.Cooldown = combat.FireCooldown
			d.Command, d.Reason = game.Fire(at), ReasonIntercept
			return d
		}
		if at, ok := a.mineShot(w, f, s); ok {
			s.Cooldown = combat.FireCooldown
			d.Command, d.Reason = game.Fire(at), ReasonMineShot
			return d
		}
	}

	if d.Command.Action == game.ActionWait && s.MineCooldown == 0 && a.enemyTrailing(w, f, s) {
		s.MineCooldown = combat.MineCooldown
		d.Command, d.Reason = game.Command{Action: game.ActionMine}, ReasonMineDrop
	}
	return d
}

// move steers toward the nearest barrel, or along the patrol when none is
// left.
func (a *Agent) move(w *game.World, f *hazard.Field, s *game.Ship) Decision {
	d := Decision{ShipID: s.ID, Reason: ReasonBarrel}
	if b, ok := targeting.NearestBarrel(w, s.Cell); ok {
		d.Dest = b.Cell
	} else {
		d.Dest, d.Reason = a.waypoint(s), ReasonPatrol
	}

	p := planner.New(a.cfg.Planner, f, rules.BlockersFor(w, s.ID))
	choice, ok := p.Best(rules.StateOf(s), d.Dest)
	d.Nodes = p.Nodes()
	if !ok {
		d.Command, d.Reason = game.Wait(), ReasonBlocked
		return d
	}
	d.Command = game.Command{Action: choice.Action}
	d.Score = choice.Score
	return d
}

// waypoint returns the ship's current patrol point, advancing the cycle once
// the ship is close enough.
func (a *Agent) waypoint(s *game.Ship) hexgrid.Cell {
	patrol := a.cfg.Patrol
	s.Waypoint %= len(patrol)
	if hexgrid.Distance(s.Cell, patrol[s.Waypoint]) <= a.cfg.Combat.WaypointRadius {
		s.Waypoint = (s.Waypoint + 1) % len(patrol)
	}
	return patrol[s.Waypoint]
}

func (a *Agent) interceptShot(w *game.World, s *game.Ship) (hexgrid.Cell, bool) {
	e, ok := targeting.NearestEnemy(w, s.Cell)
	if !ok {
		return hexgrid.Cell{}, false
	}
	at := targeting.Intercept(e, s.Cell, a.cfg.Combat.LeadDivisor)
	if hexgrid.Distance(s.Cell, at) > a.cfg.Combat.FireRange {
		return hexgrid.Cell{}, false
	}
	// Firing replaces the move, so a lead landing on us would be a self hit.
	for _, c := range rules.StateOf(s).Footprint() {
		if c == at {
			return hexgrid.Cell{}, false
		}
	}
	return at, true
}

// mineShot fires at a mine sitting next to an enemy, from a stand-off
// distance that keeps the blast away from us.
func (a *Agent) mineShot(w *game.World, f *hazard.Field, s *game.Ship) (hexgrid.Cell, bool) {
	m, ok := targeting.NearestSafeMine(w, f, s.Cell)
	if !ok {
		return hexgrid.Cell{}, false
	}
	d := hexgrid.Distance(s.Cell, m.Cell)
	if d < a.cfg.Combat.MineShotMin || d > a.cfg.Combat.MineShotMax {
		return hexgrid.Cell{}, false
	}
	for _, e := range w.EnemyShips() {
		for _, c := range rules.StateOf(e).Footprint() {
			if hexgrid.Distance(c, m.Cell) <= 1 {
				return m.Cell, true
			}
		}
	}
	return hexgrid.Cell{}, false
}

// enemyTrailing reports whether a moving enemy is about to sail over the
// cell behind our stern.
func (a *Agent) enemyTrailing(w *game.World, f *hazard.Field, s *game.Ship) bool {
	stern := s.Stern()
	drop := hexgrid.Neighbor(stern, hexgrid.Rotate(s.Facing, 3))
	if drop == stern || f.HasMine(drop) {
		return false
	}
	for _, e := range w.EnemyShips() {
		if e.Speed > 0 && hexgrid.Distance(e.Bow(), drop) <= 1 {
			return true
		}
	}
	return false
}
