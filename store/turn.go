// Package store archives every processed tick to a parquet file, one row per
// tick, so a match can be replayed and inspected after the fact.
package store

import (
	"time"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/agent"
	"github.com/Vinatorul/Coders-Of-The-Caribbean/game"
)

// SchemaVersion is written as the "schema" key of the parquet metadata.
const SchemaVersion = "turn_archive_v1"

// TurnRow is a single (match, tick) snapshot with the commands the agent
// issued. Other entities are stored as parallel coordinate columns, which
// compress well and keep the schema flat.
type TurnRow struct {
	MatchID string `parquet:"match_id,dict" json:"match_id"`
	Tick    int32  `parquet:"tick" json:"tick"`

	Ships []ShipRow `parquet:"ships" json:"ships"`

	BarrelX   []int32 `parquet:"barrel_x" json:"barrel_x"`
	BarrelY   []int32 `parquet:"barrel_y" json:"barrel_y"`
	BarrelRum []int32 `parquet:"barrel_rum" json:"barrel_rum"`

	MineX []int32 `parquet:"mine_x" json:"mine_x"`
	MineY []int32 `parquet:"mine_y" json:"mine_y"`

	BallX        []int32 `parquet:"ball_x" json:"ball_x"`
	BallY        []int32 `parquet:"ball_y" json:"ball_y"`
	BallImpactIn []int32 `parquet:"ball_impact_in" json:"ball_impact_in"`

	ElapsedUS int64 `parquet:"elapsed_us" json:"elapsed_us"`
}

// ShipRow is one live ship. Command and Reason are empty for enemies.
type ShipRow struct {
	ID     int32 `parquet:"id" json:"id"`
	Owned  bool  `parquet:"owned" json:"owned"`
	X      int32 `parquet:"x" json:"x"`
	Y      int32 `parquet:"y" json:"y"`
	Facing int32 `parquet:"facing" json:"facing"`
	Speed  int32 `parquet:"speed" json:"speed"`
	Rum    int32 `parquet:"rum" json:"rum"`

	Command string `parquet:"command,dict" json:"command,omitempty"`
	Reason  string `parquet:"reason,dict" json:"reason,omitempty"`
}

// Snapshot flattens the live part of w and the tick's decisions into a row.
func Snapshot(matchID string, w *game.World, decisions []agent.Decision, elapsed time.Duration) TurnRow {
	byShip := make(map[int]agent.Decision, len(decisions))
	for _, d := range decisions {
		byShip[d.ShipID] = d
	}

	row := TurnRow{MatchID: matchID, Tick: int32(w.Tick), ElapsedUS: elapsed.Microseconds()}
	for _, s := range w.LiveShips() {
		sr := ShipRow{
			ID:     int32(s.ID),
			Owned:  s.Owned,
			X:      int32(s.Cell.X),
			Y:      int32(s.Cell.Y),
			Facing: int32(s.Facing),
			Speed:  int32(s.Speed),
			Rum:    int32(s.Rum),
		}
		if d, ok := byShip[s.ID]; ok {
			sr.Command, sr.Reason = d.Command.String(), string(d.Reason)
		}
		row.Ships = append(row.Ships, sr)
	}
	for _, b := range w.LiveBarrels() {
		row.BarrelX = append(row.BarrelX, int32(b.Cell.X))
		row.BarrelY = append(row.BarrelY, int32(b.Cell.Y))
		row.BarrelRum = append(row.BarrelRum, int32(b.Rum))
	}
	for _, m := range w.LiveMines() {
		row.MineX = append(row.MineX, int32(m.Cell.X))
		row.MineY = append(row.MineY, int32(m.Cell.Y))
	}
	for _, c := range w.LiveCannonballs() {
		row.BallX = append(row.BallX, int32(c.Target.X))
		row.BallY = append(row.BallY, int32(c.Target.Y))
		row.BallImpactIn = append(row.BallImpactIn, int32(c.ImpactIn))
	}
	return row
}
