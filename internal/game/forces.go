package game

import "fmt"

// band is the deployment zone of one side: rows [start, stop).
type band struct {
	start, stop int
}

// outer is the band row nearest the side's own edge.
func (b band) outer(s Side) int {
	if s == SideBlue {
		return b.start
	}
	return b.stop - 1
}

func (e *Engine) deploymentBand(s Side) band {
	f := e.cfg.Formation
	if s == SideBlue {
		return band{start: f.EdgeMargin, stop: f.EdgeMargin + f.BandDepth}
	}
	g := e.cfg.GridSize
	return band{start: g - f.EdgeMargin - f.BandDepth, stop: g - f.EdgeMargin}
}

// GenerateForces deploys both armies: Blue from the top edge first, then Red
// from the bottom. It may run once per engine.
func (e *Engine) GenerateForces() error {
	if e.generated || e.units.Len() > 0 {
		return ErrForcesGenerated
	}
	for _, s := range []Side{SideBlue, SideRed} {
		fs := e.spawnSide(s)
		e.forces[s] = fs
		e.totals[s] = len(fs.Battalions)
		e.log.Info().
			Str("side", s.String()).
			Int("battalions", len(fs.Battalions)).
			Int("hqs", 1+len(fs.DivHQs)+len(fs.BdeHQs)+len(fs.RegHQs)).
			Msg("forces generated")
		if e.simLog != nil {
			e.simLog.Add(e.tick, "--", s.String(), "forces", "generated",
				fmt.Sprintf("%d battalions under %d div", len(fs.Battalions), len(fs.DivHQs)),
				float64(len(fs.Battalions)))
		}
	}
	e.generated = true
	return nil
}

// spawnSide builds one side's HQ tree and scatters its battalions.
// HQ columns are spread evenly: divisions at (d+1)/(n+2) of the width,
// brigades and regiments at fixed spacing around their parent.
func (e *Engine) spawnSide(s Side) *ForceStructure {
	f := e.cfg.Formation
	g := e.cfg.GridSize
	b := e.deploymentBand(s)
	in := s.Forward()
	edge := b.outer(s)

	hqStats, _ := e.cat.Lookup(f.HQType)
	fs := &ForceStructure{}

	fs.ArmyHQ = e.addUnit(s, hqStats, Position{X: g / 2, Y: edge}, EchelonArmy, 0)
	for d := 0; d < f.Divisions; d++ {
		dx := (d + 1) * g / (f.Divisions + 2)
		div := e.addUnit(s, hqStats, Position{X: dx, Y: edge + in*f.DivisionOffset}, EchelonDivision, fs.ArmyHQ)
		fs.DivHQs = append(fs.DivHQs, div)

		for bi := 0; bi < f.BrigadesPerDivision; bi++ {
			bx := dx - f.BrigadeSpacing*(f.BrigadesPerDivision-1)/2 + bi*f.BrigadeSpacing
			bde := e.addUnit(s, hqStats, Position{X: bx, Y: edge + in*f.BrigadeOffset}, EchelonBrigade, div)
			fs.BdeHQs = append(fs.BdeHQs, bde)

			for r := 0; r < f.RegimentsPerBrigade; r++ {
				rx := bx - f.RegimentSpacing*(f.RegimentsPerBrigade-1)/2 + r*f.RegimentSpacing
				reg := e.addUnit(s, hqStats, Position{X: rx, Y: edge + in*f.RegimentOffset}, EchelonRegiment, bde)
				fs.RegHQs = append(fs.RegHQs, reg)

				for i := 0; i < f.BattalionsPerRegiment; i++ {
					stats := e.drawBattalionType()
					px := rx + e.rng.Intn(2*f.JitterX+1) - f.JitterX
					py := b.start + e.rng.Intn(b.stop-b.start)
					py = clampInt(py+in*e.rng.Intn(f.JitterDepth+1), b.start, b.stop-1)
					id := e.addUnit(s, stats, Position{X: px, Y: py}, EchelonBattalion, reg)
					fs.Battalions = append(fs.Battalions, id)
				}
			}
		}
	}
	return fs
}

// drawBattalionType picks a type from the weight table.
func (e *Engine) drawBattalionType() UnitStats {
	weights := e.cfg.Formation.TypeWeights
	total := 0
	for _, tw := range weights {
		total += tw.Weight
	}
	n := e.rng.Intn(total)
	for _, tw := range weights {
		if n < tw.Weight {
			stats, _ := e.cat.Lookup(tw.Type)
			return stats
		}
		n -= tw.Weight
	}
	mustf(false, "weighted draw fell off a table summing to %d", total)
	return UnitStats{}
}

// addUnit creates a unit at p clamped onto the grid and returns its id.
func (e *Engine) addUnit(s Side, stats UnitStats, p Position, ech Echelon, parent int) int {
	id := e.units.Len() + 1
	u := newUnit(id, s, stats, p.Clamp(e.cfg.GridSize), ech, parent)
	e.units.add(u)
	return id
}

// placeUnit adds one unit outside the generated order of battle and files it
// in its side's force structure. Scenario harnesses build small fights this way.
// parent is not checked; a dangling parent behaves as no parent.
func (e *Engine) placeUnit(s Side, typeName string, p Position, ech Echelon, parent int) (int, error) {
	stats, ok := e.cat.Lookup(typeName)
	if !ok {
		return 0, configErrorf("unit", "unknown unit type %q", typeName)
	}
	fs := e.forces[s]
	if fs == nil {
		fs = &ForceStructure{}
		e.forces[s] = fs
	}
	id := e.addUnit(s, stats, p, ech, parent)
	switch ech {
	case EchelonArmy:
		if fs.ArmyHQ == 0 {
			fs.ArmyHQ = id
		}
	case EchelonDivision:
		fs.DivHQs = append(fs.DivHQs, id)
	case EchelonBrigade:
		fs.BdeHQs = append(fs.BdeHQs, id)
	case EchelonRegiment:
		fs.RegHQs = append(fs.RegHQs, id)
	default:
		fs.Battalions = append(fs.Battalions, id)
		e.totals[s]++
	}
	return id, nil
}
