package game

import (
	"math/rand"
)

// Battle bundles an engine with the planners and sensors that drive it.
// Frontends (window, terminal) advance it one tick per frame budget.
type Battle struct {
	Engine   *Engine
	Planners [2]Planner
	Sensors  [2]Sensor
	SimLog   *SimLog
	Seed     int64
}

// NewBattle validates cfg, deploys both armies and attaches the default
// CommandAI and Recon for each side. Every random draw comes from one
// generator seeded with seed, so equal seeds replay the same battle.
func NewBattle(cfg Config, seed int64, opts ...EngineOption) (*Battle, error) {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation RNG, replayable by seed
	sl := NewSimLog(false)
	eng, err := NewEngine(cfg, rng, append([]EngineOption{WithSimLog(sl)}, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := eng.GenerateForces(); err != nil {
		return nil, err
	}
	b := &Battle{Engine: eng, SimLog: sl, Seed: seed}
	for _, s := range []Side{SideBlue, SideRed} {
		b.Planners[s] = NewCommandAI(s, cfg)
		b.Sensors[s] = NewRecon(s, cfg, rng)
	}
	return b, nil
}

// Advance runs one tick at the configured rate.
func (b *Battle) Advance() TickResult {
	return b.Engine.Advance(b.Engine.cfg.TickSeconds(),
		b.Planners[SideBlue], b.Planners[SideRed],
		b.Sensors[SideBlue], b.Sensors[SideRed])
}

// Report builds the battle report for the current state.
func (b *Battle) Report() BattleReport {
	return NewBattleReport(b.Engine, b.SimLog)
}
