package game

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
)

// timeEpsilon absorbs float drift when summing fixed tick durations.
const timeEpsilon = 1e-9

// TickResult reports what one Advance call decided.
type TickResult struct {
	Tick         int
	Winner       Side
	Decided      bool
	TurnBoundary bool // the turn clock has run out; call EndTurn to continue pacing
}

// Engine owns the unit table and runs the battle one tick at a time.
// It is single-threaded: callers must not share an Engine across goroutines.
type Engine struct {
	cfg   Config
	cat   *Catalogue
	rng   *rand.Rand
	units *UnitTable

	generated bool
	forces    [2]*ForceStructure
	totals    [2]int
	edge      [2]int

	tick     int
	turn     int
	turnTime float64
	boundary bool

	outcome BattleOutcome
	reason  string

	// last picture each side's sensor returned, for new/lost contact events
	picture [2]map[int]Position

	log     zerolog.Logger
	simLog  *SimLog
	meter   metric.Meter
	metrics *battleMetrics
}

// EngineOption configures optional engine collaborators.
type EngineOption func(*Engine)

// WithLogger routes engine events to l. The default logger discards everything.
func WithLogger(l zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithSimLog records battle events into sl.
func WithSimLog(sl *SimLog) EngineOption {
	return func(e *Engine) {
		e.simLog = sl
	}
}

// WithMeter overrides the global OTel meter.
func WithMeter(m metric.Meter) EngineOption {
	return func(e *Engine) {
		e.meter = m
	}
}

// NewEngine validates cfg and returns an engine with an empty battlefield.
// rng drives every random decision of the battle; seed it for replays.
func NewEngine(cfg Config, rng *rand.Rand, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, ErrNoRand
	}
	cat, err := NewCatalogue(cfg.UnitTypes)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:   cfg,
		cat:   cat,
		rng:   rng,
		units: newUnitTable(),
		log:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(e)
	}
	e.metrics, err = newBattleMetrics(e.meter)
	if err != nil {
		return nil, fmt.Errorf("engine metrics: %w", err)
	}
	return e, nil
}

// Advance runs one tick: sense, plan, move, fight, then score.
//
// Once a winner is declared the battle is frozen and Advance only repeats
// the final result.
func (e *Engine) Advance(dt float64, ai0, ai1 Planner, recon0, recon1 Sensor) TickResult {
	if e.outcome != OutcomeUndecided {
		return e.result()
	}
	e.tick++
	e.turnTime += dt

	// 1. SENSE
	blue := e.units.Living(SideBlue)
	red := e.units.Living(SideRed)
	pictures := [2]map[int]Position{
		recon0.Refresh(dt, blue, red),
		recon1.Refresh(dt, red, blue),
	}
	e.noteContacts(SideBlue, pictures[SideBlue])
	e.noteContacts(SideRed, pictures[SideRed])

	// 2. PLAN: goals in uid order, against start-of-tick positions.
	planners := [2]Planner{ai0, ai1}
	type order struct {
		u    *Unit
		goal Position
	}
	orders := make([]order, 0, e.units.Len())
	for _, u := range e.units.units {
		if !u.alive {
			continue
		}
		goal := planners[u.side].Plan(u, e.units, pictures[u.side])
		orders = append(orders, order{u: u, goal: goal})
	}

	// 3. MOVE: serial, in a fresh random order each tick.
	e.rng.Shuffle(len(orders), func(i, j int) {
		orders[i], orders[j] = orders[j], orders[i]
	})
	for _, o := range orders {
		e.moveUnit(o.u, o.goal)
	}

	// 4. COMBAT
	e.resolveCombat()
	e.metrics.tick()

	// 5. SCORE
	st := e.Status()
	e.outcome, e.reason = DetermineBattleOutcome(st.Sides[SideBlue], st.Sides[SideRed], e.cfg.Victory)
	if e.outcome != OutcomeUndecided {
		winner, _ := e.Status().Winner()
		e.log.Info().
			Str("winner", winner.String()).
			Str("reason", e.reason).
			Int("tick", e.tick).
			Int("turn", e.turn).
			Msg("battle decided")
		if e.simLog != nil {
			e.simLog.Add(e.tick, "--", winner.String(), "victory", "decided",
				fmt.Sprintf("%s (%s)", e.outcome, e.reason), float64(winner))
		}
	}

	// 6. TURN CLOCK
	if !e.boundary && e.turnTime+timeEpsilon >= e.cfg.TurnSeconds {
		e.boundary = true
		e.log.Info().Int("turn", e.turn).Int("tick", e.tick).Msg("turn boundary")
		if e.simLog != nil {
			e.simLog.Add(e.tick, "--", "--", "turn", "boundary",
				fmt.Sprintf("turn %d complete", e.turn), float64(e.turn))
		}
	}
	return e.result()
}

func (e *Engine) result() TickResult {
	r := TickResult{Tick: e.tick, TurnBoundary: e.boundary}
	if e.outcome != OutcomeUndecided {
		r.Decided = true
		r.Winner = SideBlue
		if e.outcome == OutcomeRedVictory {
			r.Winner = SideRed
		}
	}
	return r
}

// noteContacts compares a side's new picture with the previous one.
func (e *Engine) noteContacts(s Side, pic map[int]Position) {
	prev := e.picture[s]
	fresh := 0
	for _, u := range e.units.units {
		_, now := pic[u.id]
		_, before := prev[u.id]
		switch {
		case now && !before:
			fresh++
			if e.simLog != nil {
				e.simLog.Add(e.tick, u.Label(), s.String(), "recon", "contact_new",
					fmt.Sprintf("%s spotted %s at %s", sideTitle(s), u.Label(), pic[u.id]), 0)
			}
		case before && !now:
			if e.simLog != nil {
				e.simLog.Add(e.tick, u.Label(), s.String(), "recon", "contact_lost",
					fmt.Sprintf("%s lost %s", sideTitle(s), u.Label()), 0)
			}
		}
	}
	e.metrics.contactsDetected(s, fresh)
	e.picture[s] = pic
}

// EndTurn starts the next turn. Victory state is untouched.
func (e *Engine) EndTurn() {
	e.turn++
	e.turnTime = 0
	e.boundary = false
	e.log.Debug().Int("turn", e.turn).Msg("turn started")
}

// Status scores the battle as it stands.
func (e *Engine) Status() BattleStatus {
	st := BattleStatus{
		Tick:    e.tick,
		Turn:    e.turn,
		Outcome: e.outcome,
		Reason:  e.reason,
	}
	for _, s := range []Side{SideBlue, SideRed} {
		ss := SideStatus{
			Side:          s,
			Total:         e.totals[s],
			Breakthroughs: e.edge[s],
			ArmyHQAlive:   true,
		}
		for _, u := range e.units.units {
			if u.alive && u.side == s && u.echelon == EchelonBattalion {
				ss.Living++
			}
		}
		ss.Losses = ss.Total - ss.Living
		if fs := e.forces[s]; fs != nil && fs.ArmyHQ != 0 {
			hq, ok := e.units.Get(fs.ArmyHQ)
			ss.ArmyHQAlive = ok && hq.alive
		}
		st.Sides[s] = ss
	}
	return st
}

// Snapshot copies every unit, dead ones included, in id order.
func (e *Engine) Snapshot() []UnitSnapshot {
	out := make([]UnitSnapshot, 0, e.units.Len())
	for _, u := range e.units.units {
		out = append(out, u.snapshot())
	}
	return out
}

// ForEachUnit calls fn with a copy of every unit in id order.
func (e *Engine) ForEachUnit(fn func(UnitSnapshot)) {
	for _, u := range e.units.units {
		fn(u.snapshot())
	}
}

// Forces returns a side's order of battle, or false before generation.
func (e *Engine) Forces(s Side) (ForceStructure, bool) {
	fs := e.forces[s]
	if fs == nil {
		return ForceStructure{}, false
	}
	return ForceStructure{
		ArmyHQ:     fs.ArmyHQ,
		DivHQs:     append([]int(nil), fs.DivHQs...),
		BdeHQs:     append([]int(nil), fs.BdeHQs...),
		RegHQs:     append([]int(nil), fs.RegHQs...),
		Battalions: append([]int(nil), fs.Battalions...),
	}, true
}

// Units exposes the arena to planners and sensors built outside the engine.
func (e *Engine) Units() *UnitTable { return e.units }

func (e *Engine) Config() Config { return e.cfg }
func (e *Engine) Catalogue() *Catalogue { return e.cat }
func (e *Engine) Tick() int { return e.tick }
func (e *Engine) Turn() int { return e.turn }
func (e *Engine) TurnTime() float64 { return e.turnTime }
