package game

import (
	"errors"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got := cfg.TickSeconds(); got != 0.1 {
		t.Fatalf("TickSeconds = %g, want 0.1", got)
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	tests := []struct {
		field string
		edit  func(*Config)
	}{
		{"gridSize", func(c *Config) { c.GridSize = 0 }},
		{"tickRate", func(c *Config) { c.TickRate = -1 }},
		{"turnSeconds", func(c *Config) { c.TurnSeconds = 0 }},
		{"formation.divisions", func(c *Config) { c.Formation.Divisions = 0 }},
		{"formation.bandDepth", func(c *Config) { c.Formation.BandDepth = 99 }},
		{"formation.hqType", func(c *Config) { c.Formation.HQType = "cavalry" }},
		{"formation.typeWeights", func(c *Config) { c.Formation.TypeWeights = nil }},
		{"formation.typeWeights", func(c *Config) {
			c.Formation.TypeWeights = []TypeWeight{{Type: "tank", Weight: 0}}
		}},
		{"planner.tetherDistance", func(c *Config) { c.Planner.TetherDistance = -1 }},
		{"victory.lossRatio", func(c *Config) { c.Victory.LossRatio = 1.5 }},
		{"victory.breakthroughRatio", func(c *Config) { c.Victory.BreakthroughRatio = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Fatalf("expected field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestCatalogue(t *testing.T) {
	cat, err := NewCatalogue(DefaultConfig().UnitTypes)
	if err != nil {
		t.Fatalf("NewCatalogue: %v", err)
	}
	if cat.Len() != 6 {
		t.Fatalf("Len = %d, want 6", cat.Len())
	}
	tank, ok := cat.Lookup("tank")
	if !ok || tank.Speed != 3 || tank.Range != 5 || tank.Attack != 12 || tank.Defense != 8 || tank.HP != 20 {
		t.Fatalf("tank = %+v, %t", tank, ok)
	}
	if _, ok := cat.Lookup("cavalry"); ok {
		t.Fatal("unknown type found")
	}
	if names := cat.Names(); names[0] != "infantry" || names[5] != "drone" {
		t.Fatalf("Names not in declaration order: %v", names)
	}

	if _, err := NewCatalogue([]UnitStats{{Name: "a", HP: 1}, {Name: "a", HP: 1}}); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("duplicate type: got %v", err)
	}
	if _, err := NewCatalogue(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("empty catalogue: got %v", err)
	}
}
