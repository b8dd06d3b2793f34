package game

import "testing"

// --- Invariant helpers ---

// checkTickInvariants compares two consecutive snapshots of the same battle.
func checkTickInvariants(t *testing.T, cfg Config, prev, cur []UnitSnapshot, tick int) {
	t.Helper()
	if len(prev) != len(cur) {
		t.Fatalf("T=%d: unit count changed %d -> %d", tick, len(prev), len(cur))
	}
	for i := range cur {
		p, c := prev[i], cur[i]
		if !c.Pos.InBounds(cfg.GridSize) {
			t.Fatalf("T=%d: %s off the grid at %s", tick, c.Label, c.Pos)
		}
		if c.HP > p.HP {
			t.Fatalf("T=%d: %s healed %d -> %d", tick, c.Label, p.HP, c.HP)
		}
		if c.Alive && !p.Alive {
			t.Fatalf("T=%d: %s came back to life", tick, c.Label)
		}
		if !p.Alive && c.Pos != p.Pos {
			t.Fatalf("T=%d: dead %s moved", tick, c.Label)
		}
		if c.HP <= 0 && c.Alive {
			t.Fatalf("T=%d: %s alive at %d hp", tick, c.Label, c.HP)
		}
		speed := 0
		for _, s := range cfg.UnitTypes {
			if s.Name == c.Type {
				speed = max(s.Speed, 1)
			}
		}
		if dx, dy := abs(c.Pos.X-p.Pos.X), abs(c.Pos.Y-p.Pos.Y); dx > speed || dy > speed {
			t.Fatalf("T=%d: %s jumped %s -> %s (speed %d)", tick, c.Label, p.Pos, c.Pos, speed)
		}
	}
}

// checkScore verifies the status bookkeeping.
func checkScore(t *testing.T, prev, cur BattleStatus) {
	t.Helper()
	for _, s := range []Side{SideBlue, SideRed} {
		p, c := prev.Sides[s], cur.Sides[s]
		if c.Losses != c.Total-c.Living {
			t.Fatalf("T=%d %s: losses %d != total %d - living %d", cur.Tick, s, c.Losses, c.Total, c.Living)
		}
		if c.Breakthroughs > c.Losses {
			t.Fatalf("T=%d %s: %d breakthroughs but %d losses", cur.Tick, s, c.Breakthroughs, c.Losses)
		}
		if c.Losses < p.Losses || c.Breakthroughs < p.Breakthroughs {
			t.Fatalf("T=%d %s: score went backwards", cur.Tick, s)
		}
	}
	if prev.Decided() && cur.Outcome != prev.Outcome {
		t.Fatalf("T=%d: outcome changed from %s to %s", cur.Tick, prev.Outcome, cur.Outcome)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestInvariants_FullBattle(t *testing.T) {
	if testing.Short() {
		t.Skip("full battle")
	}
	for _, seed := range []int64{1, 42} {
		ts := NewTestSim(WithSeed(seed), WithGeneratedForces())
		prev := ts.Engine.Snapshot()
		prevSt := ts.Status()
		for i := 0; i < 600; i++ {
			ts.Step()
			cur := ts.Engine.Snapshot()
			st := ts.Status()
			checkTickInvariants(t, ts.Config, prev, cur, ts.CurrentTick())
			checkScore(t, prevSt, st)
			prev, prevSt = cur, st
		}
		t.Logf("seed %d:\n%s", seed, ts.SimLog.Summary(ts.CurrentTick(), ts.Status()))
	}
}

func TestInvariants_NoEnemySharesACell(t *testing.T) {
	ts := NewTestSim(WithSeed(3), WithGeneratedForces())
	for i := 0; i < 400; i++ {
		ts.Step()
		cells := map[Position]Side{}
		for _, u := range ts.Engine.Snapshot() {
			if !u.Alive {
				continue
			}
			if s, ok := cells[u.Pos]; ok && s != u.Side {
				t.Fatalf("T=%d: blue and red share %s", ts.CurrentTick(), u.Pos)
			}
			cells[u.Pos] = u.Side
		}
	}
}
