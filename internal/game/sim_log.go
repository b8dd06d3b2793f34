package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded battle event.
type SimLogEntry struct {
	Tick     int
	Unit     string  // "B17", "R3", or "--" for battle-wide events
	Side     string  // "blue", "red" or "--"
	Category string  // forces, recon, move, combat, victory, turn
	Key      string  // event within the category
	Value    string  // detail for humans
	NumVal   float64 // count or amount, when the event has one
}

// String renders the entry as one column-aligned line:
//
//	[T=042] B17  move      breakthrough     (40,99)
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Unit, e.Category, e.Key, e.Value)
}

// is reports whether the entry has the category and key; "" matches anything.
func (e SimLogEntry) is(category, key string) bool {
	return (category == "" || e.Category == category) && (key == "" || e.Key == key)
}

// SimLog is the battle's event journal. Entries are appended in tick order
// and never dropped.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog returns an empty journal. Verbose journals also keep every
// position change.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

func (sl *SimLog) Add(tick int, unit, side, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick: tick, Unit: unit, Side: side,
		Category: category, Key: key, Value: value, NumVal: numVal,
	})
}

// AddVerbose is Add for high-volume events; it is dropped unless verbose.
func (sl *SimLog) AddVerbose(tick int, unit, side, category, key, value string, numVal float64) {
	if sl.verbose {
		sl.Add(tick, unit, side, category, key, value, numVal)
	}
}

func (sl *SimLog) addUnit(tick int, u *Unit, category, key, value string, numVal float64) {
	sl.Add(tick, u.Label(), u.Side().String(), category, key, value, numVal)
}

func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

func (sl *SimLog) where(keep func(SimLogEntry) bool) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Filter selects by category and key; "" matches anything.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	return sl.where(func(e SimLogEntry) bool { return e.is(category, key) })
}

func (sl *SimLog) FilterUnit(label string) []SimLogEntry {
	return sl.where(func(e SimLogEntry) bool { return e.Unit == label })
}

// FilterTickRange selects ticks in [from, to].
func (sl *SimLog) FilterTickRange(from, to int) []SimLogEntry {
	return sl.where(func(e SimLogEntry) bool { return e.Tick >= from && e.Tick <= to })
}

func (sl *SimLog) CountCategory(category, key string) int {
	n := 0
	for _, e := range sl.entries {
		if e.is(category, key) {
			n++
		}
	}
	return n
}

// FirstOf is the earliest matching entry.
func (sl *SimLog) FirstOf(category, key string) (SimLogEntry, bool) {
	for _, e := range sl.entries {
		if e.is(category, key) {
			return e, true
		}
	}
	return SimLogEntry{}, false
}

// LastOf is the latest matching entry.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if sl.entries[i].is(category, key) {
			return sl.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry also requires valueSubstr inside Value when it is non-empty.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if e.is(category, key) && strings.Contains(e.Value, valueSubstr) {
			return true
		}
	}
	return false
}

func joinEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Format dumps the whole journal, one line per entry.
func (sl *SimLog) Format() string {
	return joinEntries(sl.entries)
}

func (sl *SimLog) FormatRange(from, to int) string {
	return joinEntries(sl.FilterTickRange(from, to))
}

// Summary is a few lines of scorecard plus event counts, for test failures.
func (sl *SimLog) Summary(tick int, st BattleStatus) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", tick)
	for _, s := range []Side{SideBlue, SideRed} {
		ss := st.Sides[s]
		fmt.Fprintf(&sb, "%s: battalions %d/%d  lost=%d  edge=%d  armyHQ=%s\n",
			sideTitle(s), ss.Living, ss.Total, ss.Losses, ss.Breakthroughs, aliveWord(ss.ArmyHQAlive))
	}
	fmt.Fprintf(&sb, "Events: contacts=%d  destroyed=%d  blocked=%d\n",
		sl.CountCategory("recon", "contact_new"),
		sl.CountCategory("combat", "destroyed"),
		sl.CountCategory("move", "blocked"))
	return sb.String()
}

func sideTitle(s Side) string {
	if s == SideRed {
		return "Red"
	}
	return "Blue"
}

func aliveWord(alive bool) string {
	if alive {
		return "up"
	}
	return "down"
}
