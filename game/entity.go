package game

import (
	"errors"
	"fmt"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/hexgrid"
)

// Kind is the closed set of entity variants reported by the host.
type Kind int

const (
	KindOwnShip Kind = iota
	KindEnemyShip
	KindBarrel
	KindMine
	KindCannonball
)

func (k Kind) String() string {
	switch k {
	case KindOwnShip:
		return "own-ship"
	case KindEnemyShip:
		return "enemy-ship"
	case KindBarrel:
		return "barrel"
	case KindMine:
		return "mine"
	case KindCannonball:
		return "cannonball"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var ErrUnknownEntity = errors.New("unknown entity type")

// Record is one reported entity for one tick. Args meaning depends on Kind:
// ships carry facing, speed, rum; barrels carry rum; cannonballs carry the
// firing ship and the ticks left until impact.
type Record struct {
	ID   int
	Kind Kind
	Cell hexgrid.Cell
	Args [4]int
}

// NewRecord builds a Record from a host type tag. For SHIP the fourth
// argument selects the owner (1 = us).
func NewRecord(id int, tag string, cell hexgrid.Cell, args [4]int) (Record, error) {
	r := Record{ID: id, Cell: cell, Args: args}
	switch tag {
	case "SHIP":
		r.Kind = KindEnemyShip
		if args[3] == 1 {
			r.Kind = KindOwnShip
		}
		if args[0] < 0 || args[0] >= hexgrid.Directions {
			return Record{}, fmt.Errorf("ship %d: facing %d out of range", id, args[0])
		}
	case "BARREL":
		r.Kind = KindBarrel
	case "MINE":
		r.Kind = KindMine
	case "CANNONBALL":
		r.Kind = KindCannonball
	default:
		return Record{}, fmt.Errorf("%w: %q", ErrUnknownEntity, tag)
	}
	return r, nil
}

// Frame is everything the host reports for one tick.
type Frame struct {
	MyShipCount int
	Records     []Record
}
