package game

import "fmt"

// Side identifies one of the two armies.
type Side int

const (
	SideBlue Side = iota // deploys along the top edge, advances toward +Y
	SideRed              // deploys along the bottom edge, advances toward -Y
)

func (s Side) String() string {
	switch s {
	case SideBlue:
		return "blue"
	case SideRed:
		return "red"
	default:
		return "unknown"
	}
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	return 1 - s
}

// Forward is the Y direction this side advances in.
func (s Side) Forward() int {
	if s == SideBlue {
		return 1
	}
	return -1
}

// Echelon is a command tier. Higher values command lower ones.
type Echelon int

const (
	EchelonBattalion Echelon = iota
	EchelonRegiment
	EchelonBrigade
	EchelonDivision
	EchelonArmy
)

func (e Echelon) String() string {
	switch e {
	case EchelonBattalion:
		return "bn"
	case EchelonRegiment:
		return "reg"
	case EchelonBrigade:
		return "bde"
	case EchelonDivision:
		return "div"
	case EchelonArmy:
		return "army"
	default:
		return "unknown"
	}
}

// IsHQ reports whether units of this echelon are headquarters.
func (e Echelon) IsHQ() bool {
	return e > EchelonBattalion
}

// Catalogue is the ordered set of unit types a battle may field.
type Catalogue struct {
	stats []UnitStats
	index map[string]int
}

// NewCatalogue validates and indexes a unit-type table. Order is preserved
// because misidentification draws index into it.
func NewCatalogue(types []UnitStats) (*Catalogue, error) {
	if len(types) == 0 {
		return nil, configErrorf("unitTypes", "catalogue is empty")
	}
	c := &Catalogue{
		stats: make([]UnitStats, 0, len(types)),
		index: make(map[string]int, len(types)),
	}
	for _, t := range types {
		if t.Name == "" {
			return nil, configErrorf("unitTypes", "unit type without a name")
		}
		if _, dup := c.index[t.Name]; dup {
			return nil, configErrorf("unitTypes", "duplicate unit type %q", t.Name)
		}
		if t.HP <= 0 {
			return nil, configErrorf("unitTypes", "%s: hp must be positive, got %d", t.Name, t.HP)
		}
		if t.Speed < 0 || t.Range < 0 || t.Attack < 0 || t.Defense < 0 {
			return nil, configErrorf("unitTypes", "%s: stats must not be negative", t.Name)
		}
		c.index[t.Name] = len(c.stats)
		c.stats = append(c.stats, t)
	}
	return c, nil
}

// Lookup returns the stats for a type name.
func (c *Catalogue) Lookup(name string) (UnitStats, bool) {
	i, ok := c.index[name]
	if !ok {
		return UnitStats{}, false
	}
	return c.stats[i], true
}

// Names returns the type names in catalogue order.
func (c *Catalogue) Names() []string {
	out := make([]string, len(c.stats))
	for i, s := range c.stats {
		out[i] = s.Name
	}
	return out
}

// Len is the number of unit types.
func (c *Catalogue) Len() int {
	return len(c.stats)
}

// Unit is one battalion or headquarters on the grid.
//
// Fields are private: planners and sensors read through accessors, and only
// the engine moves, damages or kills units.
type Unit struct {
	id       int
	side     Side
	pos      Position
	stats    UnitStats
	hp       int
	echelon  Echelon
	parentHQ int // 0 = no parent
	alive    bool
}

func newUnit(id int, side Side, stats UnitStats, pos Position, echelon Echelon, parent int) *Unit {
	mustf(stats.HP > 0, "unit %d created with max hp %d", id, stats.HP)
	return &Unit{
		id:       id,
		side:     side,
		pos:      pos,
		stats:    stats,
		hp:       stats.HP,
		echelon:  echelon,
		parentHQ: parent,
		alive:    true,
	}
}

func (u *Unit) ID() int { return u.id }
func (u *Unit) Side() Side { return u.side }
func (u *Unit) Pos() Position { return u.pos }
func (u *Unit) Type() string { return u.stats.Name }
func (u *Unit) Stats() UnitStats { return u.stats }
func (u *Unit) HP() int { return u.hp }
func (u *Unit) Echelon() Echelon { return u.echelon }
func (u *Unit) Alive() bool { return u.alive }
func (u *Unit) IsHQ() bool { return u.echelon.IsHQ() }
func (u *Unit) Speed() int { return u.stats.Speed }
func (u *Unit) Range() int { return u.stats.Range }
func (u *Unit) ParentHQ() (int, bool) { return u.parentHQ, u.parentHQ != 0 }

// Label is a short human-readable tag such as "B17" or "R3".
func (u *Unit) Label() string {
	prefix := "B"
	if u.side == SideRed {
		prefix = "R"
	}
	return fmt.Sprintf("%s%d", prefix, u.id)
}

// takeDamage applies non-positive-guarded damage. HP never increases and a
// unit at or below zero HP is dead for good.
func (u *Unit) takeDamage(dmg int) bool {
	if dmg <= 0 {
		return false
	}
	u.hp -= dmg
	if u.hp <= 0 && u.alive {
		u.alive = false
		return true
	}
	return false
}

func (u *Unit) kill() {
	u.alive = false
}

func (u *Unit) moveTo(p Position, gridSize int) {
	mustf(p.InBounds(gridSize), "unit %d moved out of bounds to %s", u.id, p)
	u.pos = p
}

// UnitSnapshot is a read-only copy of a unit for renderers and reports.
type UnitSnapshot struct {
	ID       int
	Label    string
	Side     Side
	Pos      Position
	Type     string
	Echelon  Echelon
	HP       int
	MaxHP    int
	ParentHQ int
	Alive    bool
}

func (u *Unit) snapshot() UnitSnapshot {
	return UnitSnapshot{
		ID:       u.id,
		Label:    u.Label(),
		Side:     u.side,
		Pos:      u.pos,
		Type:     u.stats.Name,
		Echelon:  u.echelon,
		HP:       u.hp,
		MaxHP:    u.stats.HP,
		ParentHQ: u.parentHQ,
		Alive:    u.alive,
	}
}

// ForceStructure is one side's order of battle, fixed at generation.
type ForceStructure struct {
	ArmyHQ     int
	DivHQs     []int
	BdeHQs     []int
	RegHQs     []int
	Battalions []int
}

// UnitTable is the flat arena of every unit ever created. IDs start at 1 and
// index the arena directly; units are never removed.
type UnitTable struct {
	units        []*Unit
	subordinates map[int][]int
}

func newUnitTable() *UnitTable {
	return &UnitTable{subordinates: make(map[int][]int)}
}

func (t *UnitTable) add(u *Unit) {
	mustf(u.id == len(t.units)+1, "uid %d out of sequence (next is %d)", u.id, len(t.units)+1)
	t.units = append(t.units, u)
	if u.parentHQ != 0 {
		t.subordinates[u.parentHQ] = append(t.subordinates[u.parentHQ], u.id)
	}
}

// Get returns the unit with the given id. Unknown ids report false.
func (t *UnitTable) Get(id int) (*Unit, bool) {
	if id <= 0 || id > len(t.units) {
		return nil, false
	}
	return t.units[id-1], true
}

// Len is the number of units ever created.
func (t *UnitTable) Len() int {
	return len(t.units)
}

// All returns every unit in id order.
func (t *UnitTable) All() []*Unit {
	out := make([]*Unit, len(t.units))
	copy(out, t.units)
	return out
}

// Living returns the living units of one side in id order.
func (t *UnitTable) Living(side Side) []*Unit {
	var out []*Unit
	for _, u := range t.units {
		if u.alive && u.side == side {
			out = append(out, u)
		}
	}
	return out
}

// LivingParent resolves a unit's parent HQ, treating a dangling or dead
// reference as no parent.
func (t *UnitTable) LivingParent(u *Unit) (*Unit, bool) {
	id, ok := u.ParentHQ()
	if !ok {
		return nil, false
	}
	hq, ok := t.Get(id)
	if !ok || !hq.alive {
		return nil, false
	}
	return hq, true
}

// LivingSubordinates returns the living direct subordinates of an HQ.
func (t *UnitTable) LivingSubordinates(id int) []*Unit {
	var out []*Unit
	for _, sid := range t.subordinates[id] {
		if u, ok := t.Get(sid); ok && u.alive {
			out = append(out, u)
		}
	}
	return out
}
