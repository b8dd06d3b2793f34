package game

import (
	"fmt"
	"sort"
	"strings"
)

// reportWindowTicks is the default sliding window for trend reports (one
// 30-second turn at 10 TPS).
const reportWindowTicks = 300

// --- End-of-battle report ---

// SideReport is one side's column of a BattleReport.
type SideReport struct {
	SideStatus
	LossesByType  map[string]int // battalions destroyed in combat, by type
	HQsLost       map[Echelon]int
	ContactsFound int
}

// BattleReport summarises a battle for the headless runner and the clipboard.
type BattleReport struct {
	Tick    int
	Turn    int
	Outcome BattleOutcome
	Reason  string
	Sides   [2]SideReport

	// First-event ticks; -1 when the event never happened.
	FirstContactTick      int
	FirstLossTick         int
	FirstBreakthroughTick int
	DecidedTick           int
}

// NewBattleReport builds a report from the engine and, when given, the
// battle's SimLog for event timings.
func NewBattleReport(e *Engine, sl *SimLog) BattleReport {
	st := e.Status()
	rpt := BattleReport{
		Tick:                  st.Tick,
		Turn:                  st.Turn,
		Outcome:               st.Outcome,
		Reason:                st.Reason,
		FirstContactTick:      -1,
		FirstLossTick:         -1,
		FirstBreakthroughTick: -1,
		DecidedTick:           -1,
	}
	for _, s := range []Side{SideBlue, SideRed} {
		rpt.Sides[s] = SideReport{
			SideStatus:   st.Sides[s],
			LossesByType: make(map[string]int),
			HQsLost:      make(map[Echelon]int),
		}
	}

	// Dead units that did not leave through the far edge were destroyed.
	for _, u := range e.units.units {
		if u.alive || u.hp > 0 {
			continue
		}
		sr := &rpt.Sides[u.side]
		if u.IsHQ() {
			sr.HQsLost[u.echelon]++
		} else {
			sr.LossesByType[u.Type()]++
		}
	}

	if sl == nil {
		return rpt
	}
	for _, en := range sl.Filter("recon", "contact_new") {
		if en.Side == SideRed.String() {
			rpt.Sides[SideRed].ContactsFound++
		} else {
			rpt.Sides[SideBlue].ContactsFound++
		}
	}
	if en, ok := sl.FirstOf("recon", "contact_new"); ok {
		rpt.FirstContactTick = en.Tick
	}
	if en, ok := sl.FirstOf("combat", "destroyed"); ok {
		rpt.FirstLossTick = en.Tick
	}
	if en, ok := sl.FirstOf("move", "breakthrough"); ok {
		rpt.FirstBreakthroughTick = en.Tick
	}
	if en, ok := sl.FirstOf("victory", "decided"); ok {
		rpt.DecidedTick = en.Tick
	}
	return rpt
}

// Format returns a human-readable multi-line report.
func (r BattleReport) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Battle Report (T=%d, turn %d) ===\n", r.Tick, r.Turn+1)
	if r.Outcome == OutcomeUndecided {
		sb.WriteString("Outcome: undecided\n")
	} else {
		fmt.Fprintf(&sb, "Outcome: %s (%s) at T=%d\n", r.Outcome, r.Reason, r.DecidedTick)
	}

	for _, s := range []Side{SideBlue, SideRed} {
		sr := r.Sides[s]
		fmt.Fprintf(&sb, "\n--- %s ---\n", strings.ToUpper(s.String()))
		fmt.Fprintf(&sb, "  battalions  total=%d living=%d lost=%d breakthrough=%d\n",
			sr.Total, sr.Living, sr.Losses, sr.Breakthroughs)
		fmt.Fprintf(&sb, "  army HQ     %s\n", aliveWord(sr.ArmyHQAlive))
		fmt.Fprintf(&sb, "  contacts    %d\n", sr.ContactsFound)
		if len(sr.LossesByType) > 0 {
			sb.WriteString("  destroyed  ")
			for _, t := range sortedKeys(sr.LossesByType) {
				fmt.Fprintf(&sb, " %s=%d", t, sr.LossesByType[t])
			}
			sb.WriteByte('\n')
		}
		if len(sr.HQsLost) > 0 {
			sb.WriteString("  HQs lost   ")
			for ech := EchelonArmy; ech > EchelonBattalion; ech-- {
				if n := sr.HQsLost[ech]; n > 0 {
					fmt.Fprintf(&sb, " %s=%d", ech, n)
				}
			}
			sb.WriteByte('\n')
		}
	}

	sb.WriteString("\n--- Timeline ---\n")
	fmt.Fprintf(&sb, "  first contact=%s  first loss=%s  first breakthrough=%s\n",
		tickOrDash(r.FirstContactTick), tickOrDash(r.FirstLossTick), tickOrDash(r.FirstBreakthroughTick))
	return sb.String()
}

func tickOrDash(t int) string {
	if t < 0 {
		return "-"
	}
	return fmt.Sprintf("T=%d", t)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// --- Periodic sampling ---

// BattleSample is a point-in-time reading of both fronts.
type BattleSample struct {
	Tick          int
	Living        [2]int
	Losses        [2]int
	Breakthroughs [2]int
	FrontY        [2]float64 // mean row of living battalions
}

// SimReporter collects periodic samples and summarises trends over a
// sliding window of ticks.
type SimReporter struct {
	history     []BattleSample
	windowTicks int
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{windowTicks: windowTicks}
}

// Collect samples the engine. Call it periodically (e.g. every 10 ticks).
func (r *SimReporter) Collect(e *Engine) {
	st := e.Status()
	smp := BattleSample{Tick: st.Tick}
	var rows [2]int
	for _, u := range e.units.units {
		if u.alive && u.echelon == EchelonBattalion {
			rows[u.side] += u.pos.Y
		}
	}
	for _, s := range []Side{SideBlue, SideRed} {
		ss := st.Sides[s]
		smp.Living[s] = ss.Living
		smp.Losses[s] = ss.Losses
		smp.Breakthroughs[s] = ss.Breakthroughs
		if ss.Living > 0 {
			smp.FrontY[s] = float64(rows[s]) / float64(ss.Living)
		}
	}
	r.history = append(r.history, smp)
}

// Latest returns the most recent sample, or nil.
func (r *SimReporter) Latest() *BattleSample {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns every collected sample.
func (r *SimReporter) History() []BattleSample {
	return r.history
}

// WindowReport is the change across the recent window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int
	LossesInWindow   [2]int
	AdvanceInWindow  [2]float64 // rows gained toward the enemy edge
	EdgeInWindow     [2]int
}

// WindowSummary compares the newest sample with the oldest one still inside
// the window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	latest := r.history[len(r.history)-1]
	cutoff := latest.Tick - r.windowTicks
	first := len(r.history) - 1
	for first > 0 && r.history[first-1].Tick >= cutoff {
		first--
	}
	oldest := r.history[first]

	wr := &WindowReport{
		FromTick:    oldest.Tick,
		ToTick:      latest.Tick,
		SampleCount: len(r.history) - first,
	}
	for _, s := range []Side{SideBlue, SideRed} {
		wr.LossesInWindow[s] = latest.Losses[s] - oldest.Losses[s]
		wr.EdgeInWindow[s] = latest.Breakthroughs[s] - oldest.Breakthroughs[s]
		wr.AdvanceInWindow[s] = (latest.FrontY[s] - oldest.FrontY[s]) * float64(s.Forward())
	}
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Trend (T=%d..%d, %d samples) ===\n", wr.FromTick, wr.ToTick, wr.SampleCount)
	for _, s := range []Side{SideBlue, SideRed} {
		fmt.Fprintf(&sb, "  %-5s lost=%d  edge=%d  advance=%+.1f rows (%s)\n",
			sideTitle(s)+":", wr.LossesInWindow[s], wr.EdgeInWindow[s], wr.AdvanceInWindow[s],
			momentumLabel(wr.AdvanceInWindow[s]))
	}
	return sb.String()
}

func momentumLabel(adv float64) string {
	switch {
	case adv >= 3:
		return "pushing"
	case adv > 0.5:
		return "advancing"
	case adv < -0.5:
		return "giving ground"
	default:
		return "static"
	}
}
