package game

import (
	"fmt"
	"math/rand"
)

// TestSim is a headless battle harness. It wires an Engine to the default
// planners and sensors, runs it at the configured tick rate and records
// events into a SimLog. Tests and the headless report both drive battles
// through it.
type TestSim struct {
	Config Config
	Engine *Engine
	SimLog *SimLog

	Planners [2]Planner
	Sensors  [2]Sensor

	rng        *rand.Rand
	engineOpts []EngineOption
	placements []placement
	generate   bool
	autoTurn   bool
	last       TickResult
}

type placement struct {
	side     Side
	typeName string
	pos      Position
	echelon  Echelon
	parent   int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // config, seed, logging; applied before the engine exists
	simOptForces                      // units and generation; applied to the new engine
	simOptAgents                      // planner and sensor overrides; applied last
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation RNG, replayable by seed
	}}
}

// WithConfig replaces the whole battle configuration.
func WithConfig(cfg Config) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config = cfg
	}}
}

// WithConfigEdit adjusts the configuration in place.
func WithConfigEdit(fn func(*Config)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		fn(&ts.Config)
	}}
}

// WithGridSize sets the battlefield size, shrinking the deployment band if it
// no longer fits.
func WithGridSize(n int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config.GridSize = n
		f := &ts.Config.Formation
		if f.EdgeMargin+f.BandDepth > n {
			f.EdgeMargin = 0
			f.BandDepth = max(1, n/3)
		}
	}}
}

// WithVerbose enables per-move verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithEngineOptions passes extra options (logger, meter) to NewEngine.
func WithEngineOptions(opts ...EngineOption) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.engineOpts = append(ts.engineOpts, opts...)
	}}
}

// WithManualTurns stops RunTicks from ending turns on its own; the caller
// sees TurnBoundary and decides when to call EndTurn.
func WithManualTurns() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.autoTurn = false
	}}
}

// WithGeneratedForces deploys both full armies.
func WithGeneratedForces() SimOption {
	return SimOption{simOptForces, func(ts *TestSim) {
		ts.generate = true
	}}
}

// WithUnit places a single unit. IDs follow option order starting at 1.
// parent is the id of its HQ, or 0.
func WithUnit(side Side, typeName string, ech Echelon, x, y, parent int) SimOption {
	return SimOption{simOptForces, func(ts *TestSim) {
		ts.placements = append(ts.placements, placement{
			side:     side,
			typeName: typeName,
			pos:      Position{X: x, Y: y},
			echelon:  ech,
			parent:   parent,
		})
	}}
}

// WithBlueBattalion places a blue battalion with no parent.
func WithBlueBattalion(typeName string, x, y int) SimOption {
	return WithUnit(SideBlue, typeName, EchelonBattalion, x, y, 0)
}

// WithRedBattalion places a red battalion with no parent.
func WithRedBattalion(typeName string, x, y int) SimOption {
	return WithUnit(SideRed, typeName, EchelonBattalion, x, y, 0)
}

// WithPlanners overrides the default CommandAI for both sides.
func WithPlanners(blue, red Planner) SimOption {
	return SimOption{simOptAgents, func(ts *TestSim) {
		ts.Planners = [2]Planner{blue, red}
	}}
}

// WithSensors overrides the default Recon for both sides.
func WithSensors(blue, red Sensor) SimOption {
	return SimOption{simOptAgents, func(ts *TestSim) {
		ts.Sensors = [2]Sensor{blue, red}
	}}
}

// BuildTestSim constructs a TestSim in ordered passes:
//  1. Infrastructure (config, seed, logging)
//  2. Engine
//  3. Forces (generated or placed unit by unit)
//  4. Planners and sensors
func BuildTestSim(opts ...SimOption) (*TestSim, error) {
	ts := &TestSim{
		Config:   DefaultConfig(),
		SimLog:   NewSimLog(false),
		rng:      rand.New(rand.NewSource(1)), // #nosec G404 -- simulation RNG default
		autoTurn: true,
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}

	engineOpts := append([]EngineOption{WithSimLog(ts.SimLog)}, ts.engineOpts...)
	eng, err := NewEngine(ts.Config, ts.rng, engineOpts...)
	if err != nil {
		return nil, err
	}
	ts.Engine = eng

	for _, o := range opts {
		if o.kind == simOptForces {
			o.fn(ts)
		}
	}
	if ts.generate {
		if err := eng.GenerateForces(); err != nil {
			return nil, err
		}
	}
	for _, p := range ts.placements {
		if _, err := eng.placeUnit(p.side, p.typeName, p.pos, p.echelon, p.parent); err != nil {
			return nil, fmt.Errorf("placing %s %s at %s: %w", p.side, p.typeName, p.pos, err)
		}
	}

	for _, s := range []Side{SideBlue, SideRed} {
		ts.Planners[s] = NewCommandAI(s, ts.Config)
		ts.Sensors[s] = NewRecon(s, ts.Config, ts.rng)
	}
	for _, o := range opts {
		if o.kind == simOptAgents {
			o.fn(ts)
		}
	}
	return ts, nil
}

// NewTestSim is BuildTestSim for tests: an invalid scenario panics.
func NewTestSim(opts ...SimOption) *TestSim {
	ts, err := BuildTestSim(opts...)
	if err != nil {
		panic(fmt.Sprintf("test sim: %v", err))
	}
	return ts
}

// Step advances one tick at the configured rate. Turn boundaries are closed
// immediately unless WithManualTurns was given.
func (ts *TestSim) Step() TickResult {
	res := ts.Engine.Advance(ts.Config.TickSeconds(),
		ts.Planners[SideBlue], ts.Planners[SideRed],
		ts.Sensors[SideBlue], ts.Sensors[SideRed])
	if res.TurnBoundary && ts.autoTurn {
		ts.Engine.EndTurn()
	}
	ts.last = res
	return res
}

// RunTicks advances the simulation n ticks, stopping early once the battle
// is decided.
func (ts *TestSim) RunTicks(n int) TickResult {
	for i := 0; i < n; i++ {
		if res := ts.Step(); res.Decided {
			return res
		}
	}
	return ts.last
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.Step()
		if predicate(ts) {
			return ts.Engine.Tick()
		}
	}
	return -1
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.Engine.Tick()
}

// Last is the result of the most recent tick.
func (ts *TestSim) Last() TickResult {
	return ts.last
}

// Unit returns a unit by id, failing loudly on a bad id.
func (ts *TestSim) Unit(id int) *Unit {
	u, ok := ts.Engine.Units().Get(id)
	if !ok {
		panic(fmt.Sprintf("test sim: no unit %d", id))
	}
	return u
}

// Status returns the engine's current scorecard.
func (ts *TestSim) Status() BattleStatus {
	return ts.Engine.Status()
}

// Report builds the battle report for the current state.
func (ts *TestSim) Report() BattleReport {
	return NewBattleReport(ts.Engine, ts.SimLog)
}
