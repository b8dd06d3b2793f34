package game

import "fmt"

// resolveCombat runs one all-pairs exchange of fire between the units alive
// at the start of the pass. Every pair fires both ways independently, and a
// unit killed earlier in the pass still fires its own shots.
func (e *Engine) resolveCombat() {
	blue := e.units.Living(SideBlue)
	red := e.units.Living(SideRed)
	for _, a := range blue {
		for _, b := range red {
			d := Distance(a.pos, b.pos)
			if d <= float64(a.Range()) {
				e.fire(a, b, d)
			}
			if d <= float64(b.Range()) {
				e.fire(b, a, d)
			}
		}
	}
}

// fire applies attack minus defense, floored at zero.
func (e *Engine) fire(attacker, target *Unit, dist float64) {
	dmg := max(0, attacker.stats.Attack-target.stats.Defense)
	if !target.takeDamage(dmg) {
		return
	}
	e.metrics.unitDestroyed(target.side)
	e.log.Debug().
		Str("unit", target.Label()).
		Str("type", target.Type()).
		Str("echelon", target.echelon.String()).
		Str("by", attacker.Label()).
		Int("tick", e.tick).
		Msg("unit destroyed")
	if e.simLog != nil {
		e.simLog.addUnit(e.tick, target, "combat", "destroyed",
			fmt.Sprintf("%s %s by %s at %.1f", target.echelon, target.Type(), attacker.Label(), dist),
			float64(target.echelon))
	}
}
