// Package targeting picks pursuit and firing targets.
//
// All scans walk the world's live entities in ascending ID order. A strictly
// smaller distance replaces the current candidate, so on ties the lowest ID
// wins. The result is order dependent but stable from tick to tick.
package targeting

import (
	"github.com/Vinatorul/Coders-Of-The-Caribbean/game"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hazard"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/hexgrid"
)

// NearestBarrel returns the live barrel closest to from.
func NearestBarrel(w *game.World, from hexgrid.Cell) (*game.Barrel, bool) {
	var best *game.Barrel
	bestDist := 0
	for _, b := range w.LiveBarrels() {
		if d := hexgrid.Distance(from, b.Cell); best == nil || d < bestDist {
			best, bestDist = b, d
		}
	}
	return best, best != nil
}

// NearestEnemy returns the live opponent ship closest to from.
func NearestEnemy(w *game.World, from hexgrid.Cell) (*game.Ship, bool) {
	var best *game.Ship
	bestDist := 0
	for _, s := range w.EnemyShips() {
		if d := hexgrid.Distance(from, s.Cell); best == nil || d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, best != nil
}

// ImminentCollision returns an enemy whose bow, sailing straight at its
// current speed, runs into me. Such a ship is about to stop dead and makes a
// near-certain hit.
func ImminentCollision(w *game.World, me *game.Ship) (*game.Ship, bool) {
	footprint := [3]hexgrid.Cell{me.Stern(), me.Cell, me.Bow()}
	for _, e := range w.EnemyShips() {
		center := e.Cell
		for step := 0; step < e.Speed; step++ {
			center = hexgrid.Neighbor(center, e.Facing)
			nose := hexgrid.Neighbor(center, e.Facing)
			for _, c := range footprint {
				if nose == c {
					return e, true
				}
			}
		}
	}
	return nil, false
}

// Intercept predicts where to aim at enemy from a ship at from. The lead is
// 1 + distance/divisor cells along the enemy's facing, or none when the
// enemy is stopped.
func Intercept(enemy *game.Ship, from hexgrid.Cell, divisor int) hexgrid.Cell {
	if enemy.Speed == 0 {
		return enemy.Cell
	}
	lead := 1 + hexgrid.Distance(from, enemy.Cell)/divisor
	return hexgrid.Offset(enemy.Cell, enemy.Facing, lead)
}

// NearestSafeMine returns the closest live mine that no cannonball is aimed
// at already.
func NearestSafeMine(w *game.World, f *hazard.Field, from hexgrid.Cell) (*game.Mine, bool) {
	var best *game.Mine
	bestDist := 0
	for _, m := range w.LiveMines() {
		if f.MineUnderFire(m.Cell) {
			continue
		}
		if d := hexgrid.Distance(from, m.Cell); best == nil || d < bestDist {
			best, bestDist = m, d
		}
	}
	return best, best != nil
}
