package game

import "testing"

func TestCombat_SimultaneousMutualKill(t *testing.T) {
	ts := NewTestSim(
		WithBlueBattalion("artillery", 5, 5),
		WithRedBattalion("artillery", 5, 10),
	)
	ts.Engine.resolveCombat()
	if ts.Unit(1).Alive() || ts.Unit(2).Alive() {
		t.Fatalf("both artillery should die in the same pass (blue hp=%d red hp=%d)", ts.Unit(1).HP(), ts.Unit(2).HP())
	}
	if n := ts.SimLog.CountCategory("combat", "destroyed"); n != 2 {
		t.Fatalf("destroyed entries = %d, want 2", n)
	}
}

func TestCombat_RangeIsPerShooter(t *testing.T) {
	ts := NewTestSim(
		WithBlueBattalion("artillery", 5, 5), // range 8
		WithRedBattalion("infantry", 5, 10),  // range 2
	)
	ts.Engine.resolveCombat()
	if ts.Unit(2).Alive() {
		t.Fatal("infantry inside artillery range survived 12 damage")
	}
	if hp := ts.Unit(1).HP(); hp != 8 {
		t.Fatalf("artillery hit from beyond infantry range: hp=%d", hp)
	}
}

func TestCombat_DamageFlooredAtZero(t *testing.T) {
	ts := NewTestSim(
		WithBlueBattalion("tank", 5, 5),
		WithRedBattalion("drone", 5, 8),
	)
	ts.Engine.resolveCombat()
	if hp := ts.Unit(1).HP(); hp != 20 {
		t.Fatalf("drone (atk 4) hurt tank (def 8): hp=%d", hp)
	}
	if ts.Unit(2).Alive() {
		t.Fatal("drone survived a tank hit")
	}
}

func TestCombat_OutOfRangeNoDamage(t *testing.T) {
	ts := NewTestSim(
		WithBlueBattalion("infantry", 5, 5),
		WithRedBattalion("infantry", 5, 8),
	)
	ts.Engine.resolveCombat()
	if ts.Unit(1).HP() != 10 || ts.Unit(2).HP() != 10 {
		t.Fatal("infantry traded fire at distance 3 with range 2")
	}
}

func TestCombat_KillLoggedOnceUnderFocusFire(t *testing.T) {
	ts := NewTestSim(
		WithBlueBattalion("artillery", 5, 5),
		WithBlueBattalion("artillery", 6, 5),
		WithRedBattalion("infantry", 5, 12),
	)
	ts.Engine.resolveCombat()
	red := ts.Unit(3)
	if red.Alive() {
		t.Fatal("target survived focus fire")
	}
	if red.HP() != 10-24 {
		t.Fatalf("target hp = %d, want both shots applied (-14)", red.HP())
	}
	if n := ts.SimLog.CountCategory("combat", "destroyed"); n != 1 {
		t.Fatalf("destroyed entries = %d, want 1", n)
	}
	if st := ts.Status().Sides[SideRed]; st.Losses != 1 || st.Breakthroughs != 0 {
		t.Fatalf("red status: %+v", st)
	}
}
