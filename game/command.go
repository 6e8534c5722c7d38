package game

import (
	"fmt"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/hexgrid"
)

// Action is one ship order. The first five are movement actions and are the
// branching set of the planner.
type Action int

const (
	ActionWait Action = iota
	ActionPort
	ActionStarboard
	ActionFaster
	ActionSlower
	ActionFire
	ActionMine
)

// MoveActions lists the movement actions in discovery order.
var MoveActions = [...]Action{ActionWait, ActionPort, ActionStarboard, ActionFaster, ActionSlower}

func (a Action) String() string {
	switch a {
	case ActionWait:
		return "WAIT"
	case ActionPort:
		return "PORT"
	case ActionStarboard:
		return "STARBOARD"
	case ActionFaster:
		return "FASTER"
	case ActionSlower:
		return "SLOWER"
	case ActionFire:
		return "FIRE"
	case ActionMine:
		return "MINE"
	default:
		return fmt.Sprintf("ACTION(%d)", int(a))
	}
}

// Command is an action plus its target, which only FIRE uses.
type Command struct {
	Action Action
	Target hexgrid.Cell
}

func Wait() Command { return Command{Action: ActionWait} }

func Fire(at hexgrid.Cell) Command { return Command{Action: ActionFire, Target: at} }

// String renders the command as the host expects it.
func (c Command) String() string {
	if c.Action == ActionFire {
		return "FIRE " + c.Target.String()
	}
	return c.Action.String()
}
