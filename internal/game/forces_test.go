package game

import (
	"errors"
	"reflect"
	"testing"
)

func TestGenerateForces_OrderOfBattle(t *testing.T) {
	ts := NewTestSim(WithSeed(42), WithGeneratedForces())
	e := ts.Engine

	if got := e.Units().Len(); got != 2*(96+15) {
		t.Fatalf("unit count = %d, want 222", got)
	}
	for _, s := range []Side{SideBlue, SideRed} {
		fs, ok := e.Forces(s)
		if !ok {
			t.Fatalf("%s: no force structure", s)
		}
		if len(fs.Battalions) != 96 || len(fs.DivHQs) != 2 || len(fs.BdeHQs) != 4 || len(fs.RegHQs) != 8 {
			t.Fatalf("%s: bn=%d div=%d bde=%d reg=%d", s, len(fs.Battalions), len(fs.DivHQs), len(fs.BdeHQs), len(fs.RegHQs))
		}
		regs := map[int]bool{}
		for _, id := range fs.RegHQs {
			regs[id] = true
		}
		b := e.deploymentBand(s)
		for _, id := range fs.Battalions {
			u := ts.Unit(id)
			if u.Side() != s || u.Echelon() != EchelonBattalion {
				t.Fatalf("%s battalion %d is %s %s", s, id, u.Side(), u.Echelon())
			}
			if y := u.Pos().Y; y < b.start || y >= b.stop {
				t.Fatalf("%s battalion %d at row %d outside band [%d,%d)", s, id, y, b.start, b.stop)
			}
			if p, _ := u.ParentHQ(); !regs[p] {
				t.Fatalf("%s battalion %d reports to %d, not a regiment HQ", s, id, p)
			}
		}
		st := e.Status().Sides[s]
		if st.Total != 96 || st.Living != 96 || st.Losses != 0 || !st.ArmyHQAlive {
			t.Fatalf("%s initial status %+v", s, st)
		}
	}

	blueHQ, _ := e.Forces(SideBlue)
	redHQ, _ := e.Forces(SideRed)
	if p := ts.Unit(blueHQ.ArmyHQ).Pos(); p != (Position{50, 2}) {
		t.Fatalf("blue army HQ at %s, want (50,2)", p)
	}
	if p := ts.Unit(redHQ.ArmyHQ).Pos(); p != (Position{50, 97}) {
		t.Fatalf("red army HQ at %s, want (50,97)", p)
	}
	if p := ts.Unit(blueHQ.DivHQs[0]).Pos(); p != (Position{25, 8}) {
		t.Fatalf("blue 1st division HQ at %s, want (25,8)", p)
	}
	if p := ts.Unit(redHQ.DivHQs[1]).Pos(); p != (Position{50, 91}) {
		t.Fatalf("red 2nd division HQ at %s, want (50,91)", p)
	}
}

func TestGenerateForces_OnlyOnce(t *testing.T) {
	ts := NewTestSim(WithGeneratedForces())
	if err := ts.Engine.GenerateForces(); !errors.Is(err, ErrForcesGenerated) {
		t.Fatalf("second generation: got %v, want ErrForcesGenerated", err)
	}

	placed := NewTestSim(WithBlueBattalion("tank", 1, 1))
	if err := placed.Engine.GenerateForces(); !errors.Is(err, ErrForcesGenerated) {
		t.Fatalf("generation over placed units: got %v", err)
	}
}

func TestGenerateForces_SeedDeterminism(t *testing.T) {
	a := NewTestSim(WithSeed(7), WithGeneratedForces())
	b := NewTestSim(WithSeed(7), WithGeneratedForces())
	c := NewTestSim(WithSeed(8), WithGeneratedForces())
	if !reflect.DeepEqual(a.Engine.Snapshot(), b.Engine.Snapshot()) {
		t.Fatal("same seed produced different deployments")
	}
	if reflect.DeepEqual(a.Engine.Snapshot(), c.Engine.Snapshot()) {
		t.Fatal("different seeds produced identical deployments")
	}
}

func TestGenerateForces_TypeWeightsRespected(t *testing.T) {
	ts := NewTestSim(
		WithConfigEdit(func(c *Config) {
			c.Formation.TypeWeights = []TypeWeight{{Type: "tank", Weight: 1}, {Type: "drone", Weight: 0}}
		}),
		WithGeneratedForces(),
	)
	for _, u := range ts.Engine.Units().All() {
		if u.Echelon() == EchelonBattalion && u.Type() != "tank" {
			t.Fatalf("battalion %d drew %s from a tank-only table", u.ID(), u.Type())
		}
	}
}

func TestBuildTestSim_UnknownTypeFails(t *testing.T) {
	_, err := BuildTestSim(WithBlueBattalion("cavalry", 1, 1))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("got %v, want ErrInvalidConfig", err)
	}
}
