package game

type BattleOutcome int

const (
	OutcomeUndecided BattleOutcome = iota
	OutcomeBlueVictory
	OutcomeRedVictory
)

func (o BattleOutcome) String() string {
	switch o {
	case OutcomeBlueVictory:
		return "blue_victory"
	case OutcomeRedVictory:
		return "red_victory"
	case OutcomeUndecided:
		return "undecided"
	default:
		return "unknown"
	}
}

// outcomeFor maps a winning side to its outcome.
func outcomeFor(s Side) BattleOutcome {
	if s == SideRed {
		return OutcomeRedVictory
	}
	return OutcomeBlueVictory
}

// SideStatus holds the inputs of victory evaluation for one side.
type SideStatus struct {
	Side          Side
	Total         int // battalions generated
	Living        int // battalions still on the field
	Losses        int // Total - Living; breakthroughs count here too
	Breakthroughs int
	ArmyHQAlive   bool
}

// BrokeThrough reports whether enough battalions reached the far edge.
func (s SideStatus) BrokeThrough(v VictoryConfig) bool {
	return s.Breakthroughs >= max(1, int(float64(s.Total)*v.BreakthroughRatio))
}

// Defeated reports whether the side has lost too many battalions or its army HQ.
func (s SideStatus) Defeated(v VictoryConfig) bool {
	return s.Losses >= int(float64(s.Total)*v.LossRatio) || !s.ArmyHQAlive
}

// edgeRatio is the share of the side's battalions that broke through.
func (s SideStatus) edgeRatio() float64 {
	return float64(s.Breakthroughs) / float64(max(1, s.Total))
}

// BattleStatus is a point-in-time scorecard of the battle.
type BattleStatus struct {
	Tick    int
	Turn    int
	Sides   [2]SideStatus
	Outcome BattleOutcome
	Reason  string
}

// Decided reports whether a winner has been declared.
func (st BattleStatus) Decided() bool {
	return st.Outcome != OutcomeUndecided
}

// Winner returns the winning side, if any.
func (st BattleStatus) Winner() (Side, bool) {
	switch st.Outcome {
	case OutcomeBlueVictory:
		return SideBlue, true
	case OutcomeRedVictory:
		return SideRed, true
	default:
		return 0, false
	}
}

// DetermineBattleOutcome applies the breakthrough/attrition rules.
//
// A side wins when it has broken through and its opponent is defeated. When
// both sides qualify at once the higher breakthrough ratio wins, then the side
// with fewer losses; a full tie stays undecided.
func DetermineBattleOutcome(blue, red SideStatus, v VictoryConfig) (BattleOutcome, string) {
	blueWins := blue.BrokeThrough(v) && red.Defeated(v)
	redWins := red.BrokeThrough(v) && blue.Defeated(v)

	switch {
	case blueWins && !redWins:
		return OutcomeBlueVictory, "breakthrough"
	case redWins && !blueWins:
		return OutcomeRedVictory, "breakthrough"
	case blueWins && redWins:
		rb, rr := blue.edgeRatio(), red.edgeRatio()
		if rb != rr {
			if rb > rr {
				return OutcomeBlueVictory, "higher_breakthrough_ratio"
			}
			return OutcomeRedVictory, "higher_breakthrough_ratio"
		}
		if blue.Losses != red.Losses {
			if blue.Losses < red.Losses {
				return OutcomeBlueVictory, "fewer_losses"
			}
			return OutcomeRedVictory, "fewer_losses"
		}
		return OutcomeUndecided, "mutual_breakthrough_tie"
	default:
		return OutcomeUndecided, ""
	}
}
