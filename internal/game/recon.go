package game

import (
	"math/rand"
	"sort"
)

// Sensor turns ground truth into one side's picture of the enemy.
// Refresh is called once per tick with that tick's dt and returns the
// positions of every enemy the side currently believes in, keyed by enemy id.
type Sensor interface {
	Refresh(dt float64, friendly, enemy []*Unit) map[int]Position
}

// Contact is a remembered sighting of one enemy unit.
type Contact struct {
	EnemyID int
	Pos     Position
	Age     float64 // seconds since last observed
	Class   string  // reported type; may be wrong
}

// Recon is the default Sensor: a periodic radius scan from every living
// friendly unit, with aging contacts and occasional misidentification.
type Recon struct {
	side     Side
	cfg      SensorConfig
	types    []string
	bonus    map[string]float64
	rng      *rand.Rand
	accum    float64
	contacts map[int]*Contact
}

// NewRecon builds the sensor for one side. The rng is shared with the engine
// so a whole battle replays from one seed.
func NewRecon(side Side, cfg Config, rng *rand.Rand) *Recon {
	types := make([]string, len(cfg.UnitTypes))
	for i, t := range cfg.UnitTypes {
		types[i] = t.Name
	}
	bonus := make(map[string]float64, len(cfg.Sensor.RadiusBonus))
	for _, b := range cfg.Sensor.RadiusBonus {
		bonus[b.Type] += b.Bonus
	}
	return &Recon{
		side:     side,
		cfg:      cfg.Sensor,
		types:    types,
		bonus:    bonus,
		rng:      rng,
		contacts: make(map[int]*Contact),
	}
}

// Side is the side this sensor reports for.
func (r *Recon) Side() Side { return r.side }

// Refresh advances the scan clock by dt. Between scans the last picture is
// returned unchanged.
func (r *Recon) Refresh(dt float64, friendly, enemy []*Unit) map[int]Position {
	r.accum += dt
	if r.accum+timeEpsilon < r.cfg.ScanPeriod {
		return r.positions()
	}
	r.accum = 0
	r.scan(friendly, enemy)
	r.age()
	return r.positions()
}

// DetectionRadius is the scan radius of a unit type.
func (r *Recon) DetectionRadius(unitType string) float64 {
	return r.cfg.DetectionRadius + r.bonus[unitType]
}

func (r *Recon) scan(friendly, enemy []*Unit) {
	for _, f := range friendly {
		if !f.Alive() {
			continue
		}
		radius := r.DetectionRadius(f.Type())
		for _, e := range enemy {
			if !e.Alive() || Distance(f.Pos(), e.Pos()) > radius {
				continue
			}
			r.contacts[e.ID()] = &Contact{
				EnemyID: e.ID(),
				Pos:     e.Pos(),
				Class:   r.classify(e.Type()),
			}
		}
	}
}

// classify reports the true type, or with MisidentifyProb a different one
// drawn uniformly from the catalogue.
func (r *Recon) classify(truth string) string {
	if r.rng.Float64() >= r.cfg.MisidentifyProb {
		return truth
	}
	pool := make([]string, 0, len(r.types))
	for _, t := range r.types {
		if t != truth {
			pool = append(pool, t)
		}
	}
	if len(pool) == 0 {
		return truth
	}
	return pool[r.rng.Intn(len(pool))]
}

func (r *Recon) age() {
	for id, c := range r.contacts {
		c.Age += r.cfg.ScanPeriod
		if c.Age > r.cfg.MaxContactAge {
			delete(r.contacts, id)
		}
	}
}

func (r *Recon) positions() map[int]Position {
	out := make(map[int]Position, len(r.contacts))
	for id, c := range r.contacts {
		out[id] = c.Pos
	}
	return out
}

// Contacts returns a copy of every held contact ordered by enemy id.
func (r *Recon) Contacts() []Contact {
	out := make([]Contact, 0, len(r.contacts))
	for _, c := range r.contacts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnemyID < out[j].EnemyID })
	return out
}
