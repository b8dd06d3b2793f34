package game

import (
	"strings"
	"testing"
)

func TestBattleReport_Format(t *testing.T) {
	ts := edgeRun()
	ts.RunTicks(5)
	rpt := ts.Report()

	if rpt.Outcome != OutcomeBlueVictory || rpt.DecidedTick != 1 {
		t.Fatalf("report outcome %s at %d", rpt.Outcome, rpt.DecidedTick)
	}
	if rpt.FirstContactTick != -1 || rpt.FirstLossTick != -1 || rpt.FirstBreakthroughTick != 1 {
		t.Fatalf("timeline %d/%d/%d", rpt.FirstContactTick, rpt.FirstLossTick, rpt.FirstBreakthroughTick)
	}
	// a breakthrough is a loss on the scoreboard but not a combat loss
	if blue := rpt.Sides[SideBlue]; blue.Losses != 1 || len(blue.LossesByType) != 0 {
		t.Fatalf("blue report %+v", blue)
	}

	out := rpt.Format()
	for _, want := range []string{
		"=== Battle Report (T=1, turn 1) ===",
		"Outcome: blue_victory (breakthrough) at T=1",
		"--- BLUE ---",
		"breakthrough=1",
		"first contact=-  first loss=-  first breakthrough=T=1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestBattleReport_WithoutSimLog(t *testing.T) {
	ts := edgeRun()
	ts.RunTicks(1)
	rpt := NewBattleReport(ts.Engine, nil)
	if rpt.DecidedTick != -1 || rpt.Outcome != OutcomeBlueVictory {
		t.Fatalf("report without log: %+v", rpt)
	}
}

func TestSimReporter_WindowSummary(t *testing.T) {
	r := NewSimReporter(0)
	if r.WindowSummary() != nil || r.Latest() != nil {
		t.Fatal("empty reporter returned data")
	}
	if got := r.WindowSummary().Format(); got != "No data collected yet.\n" {
		t.Fatalf("nil summary format %q", got)
	}

	ts := quietField()
	r = NewSimReporter(20)
	for i := 0; i < 40; i++ {
		ts.Step()
		if ts.CurrentTick()%10 == 0 {
			r.Collect(ts.Engine)
		}
	}
	if len(r.History()) != 4 {
		t.Fatalf("history length %d, want 4", len(r.History()))
	}
	wr := r.WindowSummary()
	if wr.FromTick != 20 || wr.ToTick != 40 || wr.SampleCount != 3 {
		t.Fatalf("window %+v", wr)
	}
	// both battalions march one row a tick toward the enemy
	if wr.AdvanceInWindow[SideBlue] != 20 || wr.AdvanceInWindow[SideRed] != 20 {
		t.Fatalf("advance %v, want 20 rows each", wr.AdvanceInWindow)
	}
	if !strings.Contains(wr.Format(), "pushing") {
		t.Fatalf("format:\n%s", wr.Format())
	}
}

func TestMomentumLabel(t *testing.T) {
	cases := map[float64]string{5: "pushing", 1: "advancing", 0: "static", -2: "giving ground"}
	for adv, want := range cases {
		if got := momentumLabel(adv); got != want {
			t.Fatalf("momentumLabel(%g) = %q, want %q", adv, got, want)
		}
	}
}
