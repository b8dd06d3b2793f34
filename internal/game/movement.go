package game

import "fmt"

// occupancy maps each cell to the living units standing on it.
type occupancy map[Position][]*Unit

// occupancy is rebuilt from the table on demand; it is never cached across
// moves.
func (e *Engine) occupancy() occupancy {
	occ := make(occupancy)
	for _, u := range e.units.units {
		if u.alive {
			occ[u.pos] = append(occ[u.pos], u)
		}
	}
	return occ
}

// blocks reports whether p is closed to u. Enemy units always block; friendly
// units block unless stacking is allowed.
func (o occupancy) blocks(p Position, u *Unit, allowStacking bool) bool {
	for _, other := range o[p] {
		if other == u {
			continue
		}
		if other.side != u.side || !allowStacking {
			return true
		}
	}
	return false
}

// moveUnit steps u toward goal, side-stepping into a free neighbour that
// still gains ground when the direct cell is taken.
func (e *Engine) moveUnit(u *Unit, goal Position) {
	if !u.alive {
		return
	}
	g := e.cfg.GridSize
	next := StepToward(u.pos, goal, u.Speed(), g)
	if next == u.pos {
		return
	}

	occ := e.occupancy()
	if occ.blocks(next, u, e.cfg.AllowStacking) {
		alts := e.alternatives(u, goal, occ)
		if len(alts) == 0 {
			if e.simLog != nil {
				e.simLog.addUnit(e.tick, u, "move", "blocked",
					fmt.Sprintf("%s held at %s", next, u.pos), 0)
			}
			return
		}
		next = alts[e.rng.Intn(len(alts))]
	}

	u.moveTo(next, g)
	if e.simLog != nil {
		e.simLog.AddVerbose(e.tick, u.Label(), u.side.String(), "move", "position", u.pos.String(), 0)
	}

	if u.echelon == EchelonBattalion && e.atFarEdge(u) {
		u.kill()
		e.edge[u.side]++
		e.metrics.breakthrough(u.side)
		e.log.Debug().
			Str("unit", u.Label()).
			Str("type", u.Type()).
			Int("x", u.pos.X).
			Int("tick", e.tick).
			Msg("breakthrough")
		if e.simLog != nil {
			e.simLog.addUnit(e.tick, u, "move", "breakthrough", u.pos.String(), float64(e.edge[u.side]))
		}
	}
}

// alternatives lists the neighbours of u that are strictly closer to goal
// than u is now and not blocked.
func (e *Engine) alternatives(u *Unit, goal Position, occ occupancy) []Position {
	base := Distance(u.pos, goal)
	var out []Position
	for _, p := range neighbours8(u.pos, e.cfg.GridSize) {
		if Distance(p, goal) >= base {
			continue
		}
		if occ.blocks(p, u, e.cfg.AllowStacking) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (e *Engine) atFarEdge(u *Unit) bool {
	if u.side == SideBlue {
		return u.pos.Y >= e.cfg.GridSize-1
	}
	return u.pos.Y <= 0
}
