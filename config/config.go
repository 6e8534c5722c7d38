// Package config holds the agent's tuning constants.
//
// Defaults are compiled in; a YAML file may override any subset of them.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/hexgrid"
)

// MaxDepth bounds the planner lookahead so a tick stays inside the host's
// response budget.
const MaxDepth = 3

type Config struct {
	Planner Planner `yaml:"planner"`
	Combat  Combat  `yaml:"combat"`

	// Patrol is the cycle of waypoints an idle ship sails between.
	Patrol []hexgrid.Cell `yaml:"patrol"`

	// TurnBudget is only used to warn about slow ticks.
	TurnBudget time.Duration `yaml:"turn_budget"`
}

// Planner weights. Penalties are negative numbers.
type Planner struct {
	Depth int     `yaml:"depth"`
	Decay float64 `yaml:"decay"`

	BarrelBonus       float64 `yaml:"barrel_bonus"`
	MinePenalty       float64 `yaml:"mine_penalty"`
	SternFirePenalty  float64 `yaml:"stern_fire_penalty"`
	CenterFirePenalty float64 `yaml:"center_fire_penalty"`
	BowFirePenalty    float64 `yaml:"bow_fire_penalty"`
	CollisionPenalty  float64 `yaml:"collision_penalty"`
	ApproachBonus     float64 `yaml:"approach_bonus"`
	AlignBonus        float64 `yaml:"align_bonus"`
}

type Combat struct {
	FireCooldown int `yaml:"fire_cooldown"`
	MineCooldown int `yaml:"mine_cooldown"`
	FireRange    int `yaml:"fire_range"`
	LeadDivisor  int `yaml:"lead_divisor"`

	// Mines are only shot from inside this band so the blast stays clear.
	MineShotMin int `yaml:"mine_shot_min"`
	MineShotMax int `yaml:"mine_shot_max"`

	WaypointRadius int `yaml:"waypoint_radius"`
}

func Default() Config {
	return Config{
		Planner: Planner{
			Depth:             MaxDepth,
			Decay:             0.5,
			BarrelBonus:       10,
			MinePenalty:       -25,
			SternFirePenalty:  -25,
			CenterFirePenalty: -50,
			BowFirePenalty:    -25,
			CollisionPenalty:  -100,
			ApproachBonus:     1,
			AlignBonus:        1,
		},
		Combat: Combat{
			FireCooldown:   2,
			MineCooldown:   5,
			FireRange:      8,
			LeadDivisor:    3,
			MineShotMin:    3,
			MineShotMax:    5,
			WaypointRadius: 2,
		},
		Patrol: []hexgrid.Cell{
			{X: 5, Y: 5},
			{X: 17, Y: 5},
			{X: 17, Y: 15},
			{X: 5, Y: 15},
		},
		TurnBudget: 45 * time.Millisecond,
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Planner.Depth < 1 || c.Planner.Depth > MaxDepth {
		return fmt.Errorf("planner.depth %d outside 1..%d", c.Planner.Depth, MaxDepth)
	}
	if c.Planner.Decay <= 0 || c.Planner.Decay > 1 {
		return fmt.Errorf("planner.decay %v outside (0,1]", c.Planner.Decay)
	}
	if c.Combat.LeadDivisor <= 0 {
		return fmt.Errorf("combat.lead_divisor must be positive, got %d", c.Combat.LeadDivisor)
	}
	if c.Combat.MineShotMin > c.Combat.MineShotMax {
		return fmt.Errorf("combat.mine_shot_min %d above mine_shot_max %d", c.Combat.MineShotMin, c.Combat.MineShotMax)
	}
	if c.Combat.FireCooldown < 0 || c.Combat.MineCooldown < 0 {
		return fmt.Errorf("combat cooldowns must not be negative")
	}
	if len(c.Patrol) == 0 {
		return fmt.Errorf("patrol needs at least one waypoint")
	}
	for i, p := range c.Patrol {
		if !p.InBounds() {
			return fmt.Errorf("patrol[%d] %v is off the board", i, p)
		}
	}
	return nil
}
