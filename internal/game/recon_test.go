package game

import (
	"math/rand"
	"testing"
)

// testUnit builds a free-standing unit from the default catalogue.
func testUnit(t *testing.T, id int, side Side, typeName string, x, y int) *Unit {
	t.Helper()
	cat, err := NewCatalogue(DefaultConfig().UnitTypes)
	if err != nil {
		t.Fatalf("catalogue: %v", err)
	}
	stats, ok := cat.Lookup(typeName)
	if !ok {
		t.Fatalf("unknown type %q", typeName)
	}
	return newUnit(id, side, stats, Position{x, y}, EchelonBattalion, 0)
}

func newTestRecon(edit func(*Config)) *Recon {
	cfg := DefaultConfig()
	cfg.Sensor.MisidentifyProb = 0
	if edit != nil {
		edit(&cfg)
	}
	return NewRecon(SideBlue, cfg, rand.New(rand.NewSource(1))) // #nosec G404 -- test
}

func TestRecon_ScansOnlyOnPeriod(t *testing.T) {
	r := newTestRecon(nil)
	friendly := []*Unit{testUnit(t, 1, SideBlue, "infantry", 10, 10)}
	enemy := []*Unit{testUnit(t, 2, SideRed, "infantry", 10, 15)}

	for i := 0; i < 19; i++ {
		if pic := r.Refresh(0.1, friendly, enemy); len(pic) != 0 {
			t.Fatalf("refresh %d: scanned before the period elapsed: %v", i+1, pic)
		}
	}
	pic := r.Refresh(0.1, friendly, enemy)
	if got, ok := pic[2]; !ok || got != (Position{10, 15}) {
		t.Fatalf("expected contact at (10,15) after 2s, got %v", pic)
	}

	// between scans the picture is frozen even though the enemy moved
	enemy[0].moveTo(Position{10, 16}, 100)
	if pic := r.Refresh(0.1, friendly, enemy); pic[2] != (Position{10, 15}) {
		t.Fatalf("picture changed between scans: %v", pic)
	}
}

func TestRecon_DetectionRadius(t *testing.T) {
	r := newTestRecon(nil)
	if got := r.DetectionRadius("infantry"); got != 10 {
		t.Fatalf("infantry radius = %g, want 10", got)
	}
	if got := r.DetectionRadius("drone"); got != 14 {
		t.Fatalf("drone radius = %g, want 14", got)
	}

	friendly := []*Unit{testUnit(t, 1, SideBlue, "infantry", 0, 50)}
	enemy := []*Unit{
		testUnit(t, 2, SideRed, "infantry", 10, 50), // on the radius
		testUnit(t, 3, SideRed, "infantry", 11, 50), // just outside
	}
	pic := r.Refresh(2, friendly, enemy)
	if _, ok := pic[2]; !ok {
		t.Fatal("unit at exactly the radius not detected")
	}
	if _, ok := pic[3]; ok {
		t.Fatal("unit beyond the radius detected")
	}

	drone := newTestRecon(nil)
	pic = drone.Refresh(2, []*Unit{testUnit(t, 1, SideBlue, "drone", 0, 50)}, enemy)
	if len(pic) != 2 {
		t.Fatalf("drone should see both, got %v", pic)
	}
}

func TestRecon_IgnoresDeadUnits(t *testing.T) {
	r := newTestRecon(nil)
	f := testUnit(t, 1, SideBlue, "infantry", 0, 0)
	e := testUnit(t, 2, SideRed, "infantry", 1, 1)
	e.kill()
	if pic := r.Refresh(2, []*Unit{f}, []*Unit{e}); len(pic) != 0 {
		t.Fatalf("dead enemy detected: %v", pic)
	}
	e2 := testUnit(t, 3, SideRed, "infantry", 1, 1)
	f.kill()
	if pic := r.Refresh(2, []*Unit{f}, []*Unit{e2}); len(pic) != 0 {
		t.Fatalf("dead observer reported: %v", pic)
	}
}

func TestRecon_ContactsAgeOut(t *testing.T) {
	r := newTestRecon(nil)
	friendly := []*Unit{testUnit(t, 1, SideBlue, "infantry", 0, 0)}
	enemy := []*Unit{testUnit(t, 2, SideRed, "infantry", 3, 3)}

	r.Refresh(2, friendly, enemy)
	enemy[0].moveTo(Position{90, 90}, 100)

	// 60 scans in total take the contact to exactly MaxContactAge
	for i := 0; i < 59; i++ {
		r.Refresh(2, friendly, enemy)
	}
	cs := r.Contacts()
	if len(cs) != 1 || cs[0].Age != 120 || cs[0].Pos != (Position{3, 3}) {
		t.Fatalf("expected one 120s-old contact at the last seen cell, got %+v", cs)
	}
	if pic := r.Refresh(2, friendly, enemy); len(pic) != 0 {
		t.Fatalf("contact older than MaxContactAge kept: %v", pic)
	}
}

func TestRecon_MisidentifyNeverReportsTruth(t *testing.T) {
	r := newTestRecon(func(c *Config) { c.Sensor.MisidentifyProb = 1 })
	friendly := []*Unit{testUnit(t, 1, SideBlue, "drone", 50, 50)}
	for i := 0; i < 50; i++ {
		enemy := []*Unit{testUnit(t, 2, SideRed, "tank", 52, 52)}
		r.Refresh(2, friendly, enemy)
		cs := r.Contacts()
		if len(cs) != 1 {
			t.Fatalf("expected one contact, got %d", len(cs))
		}
		if cs[0].Class == "tank" {
			t.Fatalf("scan %d reported the true type with p=1", i)
		}
	}
}

func TestRecon_MisidentifySingleTypeCatalogue(t *testing.T) {
	r := newTestRecon(func(c *Config) {
		c.Sensor.MisidentifyProb = 1
		c.UnitTypes = []UnitStats{{Name: "infantry", Speed: 1, Range: 2, Attack: 5, Defense: 3, HP: 10}}
	})
	r.Refresh(2, []*Unit{testUnit(t, 1, SideBlue, "infantry", 0, 0)}, []*Unit{testUnit(t, 2, SideRed, "infantry", 1, 0)})
	if cs := r.Contacts(); len(cs) != 1 || cs[0].Class != "infantry" {
		t.Fatalf("single-type catalogue must report the truth, got %+v", cs)
	}
}

func TestRecon_ContactsSortedByEnemyID(t *testing.T) {
	r := newTestRecon(nil)
	friendly := []*Unit{testUnit(t, 1, SideBlue, "drone", 50, 50)}
	enemy := []*Unit{
		testUnit(t, 9, SideRed, "infantry", 51, 50),
		testUnit(t, 4, SideRed, "infantry", 52, 50),
		testUnit(t, 6, SideRed, "infantry", 53, 50),
	}
	r.Refresh(2, friendly, enemy)
	cs := r.Contacts()
	if len(cs) != 3 || cs[0].EnemyID != 4 || cs[1].EnemyID != 6 || cs[2].EnemyID != 9 {
		t.Fatalf("contacts not in id order: %+v", cs)
	}
	if r.Side() != SideBlue {
		t.Fatalf("Side = %s", r.Side())
	}
}
