// Package game holds the per-tick world snapshot.
//
// Entities are never deleted. Each carries the tick in which it was last
// reported and is alive exactly for that tick, so an identity that drops out
// of view and comes back later resumes its stored state (cooldowns, patrol
// index) without any bookkeeping by the caller.
package game

import (
	"sort"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/hexgrid"
)

// MaxSpeed is the fastest a ship can sail.
const MaxSpeed = 2

type Ship struct {
	ID     int
	Cell   hexgrid.Cell
	Facing int
	Speed  int
	Rum    int
	Owned  bool

	// Agent-side state, kept across ticks. The host never reports these.
	Cooldown     int
	MineCooldown int
	Waypoint     int

	Seen int
}

// Bow is the cell in front of the ship's center.
func (s *Ship) Bow() hexgrid.Cell {
	return hexgrid.Neighbor(s.Cell, s.Facing)
}

// Stern is the cell behind the ship's center.
func (s *Ship) Stern() hexgrid.Cell {
	return hexgrid.Neighbor(s.Cell, hexgrid.Rotate(s.Facing, 3))
}

func (s *Ship) Alive(tick int) bool { return s.Seen == tick }

type Barrel struct {
	ID   int
	Cell hexgrid.Cell
	Rum  int
	Seen int
}

func (b *Barrel) Alive(tick int) bool { return b.Seen == tick }

type Mine struct {
	ID   int
	Cell hexgrid.Cell
	Seen int
}

func (m *Mine) Alive(tick int) bool { return m.Seen == tick }

type Cannonball struct {
	ID       int
	Owner    int
	Target   hexgrid.Cell
	ImpactIn int
	Seen     int
}

func (c *Cannonball) Alive(tick int) bool { return c.Seen == tick }

// World is the aggregate of everything ever reported, keyed by identity.
type World struct {
	Tick int

	Ships       map[int]*Ship
	Barrels     map[int]*Barrel
	Mines       map[int]*Mine
	Cannonballs map[int]*Cannonball
}

func NewWorld() *World {
	return &World{
		Ships:       make(map[int]*Ship),
		Barrels:     make(map[int]*Barrel),
		Mines:       make(map[int]*Mine),
		Cannonballs: make(map[int]*Cannonball),
	}
}

// Apply advances the world by one tick and refreshes every entity in the
// frame. Entities missing from the frame keep their records but stop being
// alive.
func (w *World) Apply(f Frame) {
	w.Tick++
	for _, r := range f.Records {
		switch r.Kind {
		case KindOwnShip, KindEnemyShip:
			w.applyShip(r)
		case KindBarrel:
			b, ok := w.Barrels[r.ID]
			if !ok {
				b = &Barrel{ID: r.ID}
				w.Barrels[r.ID] = b
			}
			b.Cell, b.Rum, b.Seen = r.Cell, r.Args[0], w.Tick
		case KindMine:
			m, ok := w.Mines[r.ID]
			if !ok {
				m = &Mine{ID: r.ID}
				w.Mines[r.ID] = m
			}
			m.Cell, m.Seen = r.Cell, w.Tick
		case KindCannonball:
			c, ok := w.Cannonballs[r.ID]
			if !ok {
				c = &Cannonball{ID: r.ID}
				w.Cannonballs[r.ID] = c
			}
			c.Target, c.Owner, c.ImpactIn, c.Seen = r.Cell, r.Args[0], r.Args[1], w.Tick
		}
	}
}

func (w *World) applyShip(r Record) {
	s, ok := w.Ships[r.ID]
	if !ok {
		s = &Ship{ID: r.ID}
		w.Ships[r.ID] = s
	} else {
		if s.Cooldown > 0 {
			s.Cooldown--
		}
		if s.MineCooldown > 0 {
			s.MineCooldown--
		}
	}
	s.Cell = r.Cell
	s.Facing = r.Args[0]
	s.Speed = r.Args[1]
	s.Rum = r.Args[2]
	s.Owned = r.Kind == KindOwnShip
	s.Seen = w.Tick
}

// OwnShips returns the live ships controlled by the agent, ascending by ID.
// This is the order the host expects commands in.
func (w *World) OwnShips() []*Ship {
	return w.liveShips(true)
}

// EnemyShips returns the live opponent ships, ascending by ID.
func (w *World) EnemyShips() []*Ship {
	return w.liveShips(false)
}

// LiveShips returns every live ship regardless of owner, ascending by ID.
func (w *World) LiveShips() []*Ship {
	out := make([]*Ship, 0, len(w.Ships))
	for _, s := range w.Ships {
		if s.Alive(w.Tick) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) liveShips(owned bool) []*Ship {
	out := make([]*Ship, 0, len(w.Ships))
	for _, s := range w.Ships {
		if s.Owned == owned && s.Alive(w.Tick) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) LiveBarrels() []*Barrel {
	out := make([]*Barrel, 0, len(w.Barrels))
	for _, b := range w.Barrels {
		if b.Alive(w.Tick) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) LiveMines() []*Mine {
	out := make([]*Mine, 0, len(w.Mines))
	for _, m := range w.Mines {
		if m.Alive(w.Tick) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *World) LiveCannonballs() []*Cannonball {
	out := make([]*Cannonball, 0, len(w.Cannonballs))
	for _, c := range w.Cannonballs {
		if c.Alive(w.Tick) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
