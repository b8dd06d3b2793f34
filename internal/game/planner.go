package game

import "math"

// Planner picks the cell a unit should head for this tick. contacts is the
// planning side's current enemy picture from its Sensor.
type Planner interface {
	Plan(u *Unit, units *UnitTable, contacts map[int]Position) Position
}

// CommandAI is the default Planner. It keeps no state between calls.
//
//   - headquarters follow the centroid of their living subordinates, pushed
//     slightly forward;
//   - battalions with nothing in sight fall back on a distant parent HQ;
//   - anything else closes on the nearest known contact, or failing that
//     advances along its side's axis.
type CommandAI struct {
	side     Side
	gridSize int
	cfg      PlannerConfig
}

// NewCommandAI builds the planner for one side.
func NewCommandAI(side Side, cfg Config) *CommandAI {
	return &CommandAI{side: side, gridSize: cfg.GridSize, cfg: cfg.Planner}
}

// Plan returns u's goal. The result is always on the grid.
func (ai *CommandAI) Plan(u *Unit, units *UnitTable, contacts map[int]Position) Position {
	if u.IsHQ() {
		if goal, ok := ai.followSubordinates(u, units); ok {
			return goal
		}
		return ai.advance(u)
	}

	if len(contacts) == 0 {
		if hq, ok := units.LivingParent(u); ok && Distance(u.Pos(), hq.Pos()) > ai.cfg.TetherDistance {
			return hq.Pos()
		}
	}
	if goal, ok := nearestContact(u.Pos(), contacts); ok {
		return goal
	}
	return ai.advance(u)
}

// followSubordinates is the rounded centroid of u's living direct
// subordinates, offset toward the enemy by HQForwardBias rows.
func (ai *CommandAI) followSubordinates(u *Unit, units *UnitTable) (Position, bool) {
	kids := units.LivingSubordinates(u.ID())
	if len(kids) == 0 {
		return Position{}, false
	}
	var sumX, sumY float64
	for _, k := range kids {
		sumX += float64(k.Pos().X)
		sumY += float64(k.Pos().Y)
	}
	n := float64(len(kids))
	goal := Position{
		X: int(math.Round(sumX / n)),
		Y: int(math.Round(sumY/n)) + ai.side.Forward()*ai.cfg.HQForwardBias,
	}
	return goal.Clamp(ai.gridSize), true
}

func (ai *CommandAI) advance(u *Unit) Position {
	p := u.Pos()
	p.Y += ai.side.Forward() * ai.cfg.AdvanceStep
	return p.Clamp(ai.gridSize)
}

// nearestContact returns the closest contact position. Equal distances go
// to the lowest enemy id so the answer does not depend on map order.
func nearestContact(from Position, contacts map[int]Position) (Position, bool) {
	bestID := 0
	var best Position
	bestDist := math.Inf(1)
	for id, p := range contacts {
		d := Distance(from, p)
		if d < bestDist || (d == bestDist && id < bestID) {
			bestID, best, bestDist = id, p, d
		}
	}
	return best, bestID != 0
}
