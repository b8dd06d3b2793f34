package game

// UnitStats is one entry of the unit-type catalogue.
type UnitStats struct {
	Name    string `mapstructure:"name" json:"name"`
	Speed   int    `mapstructure:"speed" json:"speed"`
	Range   int    `mapstructure:"range" json:"range"`
	Attack  int    `mapstructure:"attack" json:"attack"`
	Defense int    `mapstructure:"defense" json:"defense"`
	HP      int    `mapstructure:"hp" json:"hp"`
}

// TypeWeight is one row of the battalion type distribution.
type TypeWeight struct {
	Type   string `mapstructure:"type" json:"type"`
	Weight int    `mapstructure:"weight" json:"weight"`
}

// TypeBonus adds detection radius for a unit type.
type TypeBonus struct {
	Type  string  `mapstructure:"type" json:"type"`
	Bonus float64 `mapstructure:"bonus" json:"bonus"`
}

// FormationConfig controls force generation.
//
// Each side deploys inside a band of BandDepth rows that starts EdgeMargin
// rows in from its own edge. HQ offsets are measured inward from the band's
// outer row.
type FormationConfig struct {
	Divisions             int `mapstructure:"divisions" json:"divisions"`
	BrigadesPerDivision   int `mapstructure:"brigadesPerDivision" json:"brigadesPerDivision"`
	RegimentsPerBrigade   int `mapstructure:"regimentsPerBrigade" json:"regimentsPerBrigade"`
	BattalionsPerRegiment int `mapstructure:"battalionsPerRegiment" json:"battalionsPerRegiment"`

	EdgeMargin int `mapstructure:"edgeMargin" json:"edgeMargin"`
	BandDepth  int `mapstructure:"bandDepth" json:"bandDepth"`

	DivisionOffset int `mapstructure:"divisionOffset" json:"divisionOffset"`
	BrigadeOffset  int `mapstructure:"brigadeOffset" json:"brigadeOffset"`
	RegimentOffset int `mapstructure:"regimentOffset" json:"regimentOffset"`

	BrigadeSpacing  int `mapstructure:"brigadeSpacing" json:"brigadeSpacing"`
	RegimentSpacing int `mapstructure:"regimentSpacing" json:"regimentSpacing"`

	JitterX     int `mapstructure:"jitterX" json:"jitterX"`
	JitterDepth int `mapstructure:"jitterDepth" json:"jitterDepth"`

	HQType      string       `mapstructure:"hqType" json:"hqType"`
	TypeWeights []TypeWeight `mapstructure:"typeWeights" json:"typeWeights"`
}

// SensorConfig controls the recon model. Times are simulated seconds.
type SensorConfig struct {
	ScanPeriod      float64     `mapstructure:"scanPeriod" json:"scanPeriod"`
	DetectionRadius float64     `mapstructure:"detectionRadius" json:"detectionRadius"`
	RadiusBonus     []TypeBonus `mapstructure:"radiusBonus" json:"radiusBonus"`
	MisidentifyProb float64     `mapstructure:"misidentifyProb" json:"misidentifyProb"`
	MaxContactAge   float64     `mapstructure:"maxContactAge" json:"maxContactAge"`
}

// PlannerConfig controls CommandAI.
type PlannerConfig struct {
	TetherDistance float64 `mapstructure:"tetherDistance" json:"tetherDistance"`
	HQForwardBias  int     `mapstructure:"hqForwardBias" json:"hqForwardBias"`
	AdvanceStep    int     `mapstructure:"advanceStep" json:"advanceStep"`
}

// VictoryConfig holds the breakthrough and attrition thresholds.
type VictoryConfig struct {
	BreakthroughRatio float64 `mapstructure:"breakthroughRatio" json:"breakthroughRatio"`
	LossRatio         float64 `mapstructure:"lossRatio" json:"lossRatio"`
}

// Config is static for the lifetime of a battle.
type Config struct {
	GridSize      int     `mapstructure:"gridSize" json:"gridSize"`
	TickRate      int     `mapstructure:"tickRate" json:"tickRate"`
	TurnSeconds   float64 `mapstructure:"turnSeconds" json:"turnSeconds"`
	AllowStacking bool    `mapstructure:"allowStacking" json:"allowStacking"`

	UnitTypes []UnitStats     `mapstructure:"unitTypes" json:"unitTypes"`
	Formation FormationConfig `mapstructure:"formation" json:"formation"`
	Sensor    SensorConfig    `mapstructure:"sensor" json:"sensor"`
	Planner   PlannerConfig   `mapstructure:"planner" json:"planner"`
	Victory   VictoryConfig   `mapstructure:"victory" json:"victory"`
}

// DefaultConfig returns the stock 100x100 army-versus-army scenario.
func DefaultConfig() Config {
	return Config{
		GridSize:    100,
		TickRate:    10,
		TurnSeconds: 30,
		UnitTypes: []UnitStats{
			{Name: "infantry", Speed: 1, Range: 2, Attack: 5, Defense: 3, HP: 10},
			{Name: "mech_infantry", Speed: 2, Range: 3, Attack: 7, Defense: 5, HP: 15},
			{Name: "tank", Speed: 3, Range: 5, Attack: 12, Defense: 8, HP: 20},
			{Name: "artillery", Speed: 1, Range: 8, Attack: 15, Defense: 2, HP: 8},
			{Name: "air_defense", Speed: 1, Range: 6, Attack: 10, Defense: 6, HP: 12},
			{Name: "drone", Speed: 4, Range: 4, Attack: 4, Defense: 1, HP: 5},
		},
		Formation: FormationConfig{
			Divisions:             2,
			BrigadesPerDivision:   2,
			RegimentsPerBrigade:   2,
			BattalionsPerRegiment: 12,
			EdgeMargin:            2,
			BandDepth:             28,
			DivisionOffset:        6,
			BrigadeOffset:         10,
			RegimentOffset:        14,
			BrigadeSpacing:        20,
			RegimentSpacing:       12,
			JitterX:               5,
			JitterDepth:           6,
			HQType:                "infantry",
			TypeWeights: []TypeWeight{
				{Type: "infantry", Weight: 24},
				{Type: "mech_infantry", Weight: 18},
				{Type: "tank", Weight: 12},
				{Type: "artillery", Weight: 8},
				{Type: "air_defense", Weight: 6},
				{Type: "drone", Weight: 6},
			},
		},
		Sensor: SensorConfig{
			ScanPeriod:      2.0,
			DetectionRadius: 10,
			RadiusBonus:     []TypeBonus{{Type: "drone", Bonus: 4}},
			MisidentifyProb: 0.20,
			MaxContactAge:   120,
		},
		Planner: PlannerConfig{
			TetherDistance: 8,
			HQForwardBias:  2,
			AdvanceStep:    2,
		},
		Victory: VictoryConfig{
			BreakthroughRatio: 0.20,
			LossRatio:         0.50,
		},
	}
}

// TickSeconds is the simulated duration of one tick at the configured rate.
func (c Config) TickSeconds() float64 {
	if c.TickRate <= 0 {
		return 0
	}
	return 1.0 / float64(c.TickRate)
}

// Validate checks every value a battle depends on. The returned error is a
// *ConfigError wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	if c.GridSize <= 0 {
		return configErrorf("gridSize", "must be positive, got %d", c.GridSize)
	}
	if c.TickRate <= 0 {
		return configErrorf("tickRate", "must be positive, got %d", c.TickRate)
	}
	if c.TurnSeconds <= 0 {
		return configErrorf("turnSeconds", "must be positive, got %g", c.TurnSeconds)
	}
	cat, err := NewCatalogue(c.UnitTypes)
	if err != nil {
		return err
	}
	if err := c.Formation.validate(cat, c.GridSize); err != nil {
		return err
	}
	if err := c.Sensor.validate(cat); err != nil {
		return err
	}
	p := c.Planner
	if p.TetherDistance < 0 {
		return configErrorf("planner.tetherDistance", "must not be negative, got %g", p.TetherDistance)
	}
	if p.AdvanceStep < 0 {
		return configErrorf("planner.advanceStep", "must not be negative, got %d", p.AdvanceStep)
	}
	v := c.Victory
	if v.BreakthroughRatio < 0 || v.BreakthroughRatio > 1 {
		return configErrorf("victory.breakthroughRatio", "must be within [0,1], got %g", v.BreakthroughRatio)
	}
	if v.LossRatio < 0 || v.LossRatio > 1 {
		return configErrorf("victory.lossRatio", "must be within [0,1], got %g", v.LossRatio)
	}
	return nil
}

func (f FormationConfig) validate(cat *Catalogue, gridSize int) error {
	counts := []struct {
		field string
		n     int
	}{
		{"formation.divisions", f.Divisions},
		{"formation.brigadesPerDivision", f.BrigadesPerDivision},
		{"formation.regimentsPerBrigade", f.RegimentsPerBrigade},
		{"formation.battalionsPerRegiment", f.BattalionsPerRegiment},
		{"formation.bandDepth", f.BandDepth},
	}
	for _, cnt := range counts {
		if cnt.n <= 0 {
			return configErrorf(cnt.field, "must be positive, got %d", cnt.n)
		}
	}
	if f.EdgeMargin < 0 {
		return configErrorf("formation.edgeMargin", "must not be negative, got %d", f.EdgeMargin)
	}
	if f.EdgeMargin+f.BandDepth > gridSize {
		return configErrorf("formation.bandDepth", "band %d+%d does not fit a grid of %d", f.EdgeMargin, f.BandDepth, gridSize)
	}
	if f.JitterX < 0 || f.JitterDepth < 0 {
		return configErrorf("formation.jitter", "must not be negative, got x=%d depth=%d", f.JitterX, f.JitterDepth)
	}
	if _, ok := cat.Lookup(f.HQType); !ok {
		return configErrorf("formation.hqType", "unknown unit type %q", f.HQType)
	}
	if len(f.TypeWeights) == 0 {
		return configErrorf("formation.typeWeights", "weight table is empty")
	}
	total := 0
	for _, tw := range f.TypeWeights {
		if _, ok := cat.Lookup(tw.Type); !ok {
			return configErrorf("formation.typeWeights", "unknown unit type %q", tw.Type)
		}
		if tw.Weight < 0 {
			return configErrorf("formation.typeWeights", "negative weight %d for %q", tw.Weight, tw.Type)
		}
		total += tw.Weight
	}
	if total <= 0 {
		return configErrorf("formation.typeWeights", "weights sum to %d", total)
	}
	return nil
}

func (s SensorConfig) validate(cat *Catalogue) error {
	if s.ScanPeriod <= 0 {
		return configErrorf("sensor.scanPeriod", "must be positive, got %g", s.ScanPeriod)
	}
	if s.DetectionRadius < 0 {
		return configErrorf("sensor.detectionRadius", "must not be negative, got %g", s.DetectionRadius)
	}
	if s.MisidentifyProb < 0 || s.MisidentifyProb > 1 {
		return configErrorf("sensor.misidentifyProb", "must be within [0,1], got %g", s.MisidentifyProb)
	}
	if s.MaxContactAge < 0 {
		return configErrorf("sensor.maxContactAge", "must not be negative, got %g", s.MaxContactAge)
	}
	for _, b := range s.RadiusBonus {
		if _, ok := cat.Lookup(b.Type); !ok {
			return configErrorf("sensor.radiusBonus", "unknown unit type %q", b.Type)
		}
	}
	return nil
}
