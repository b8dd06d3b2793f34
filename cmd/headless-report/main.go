// Command headless-report runs seeded battles without a window and prints
// per-run timelines plus an aggregate table.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/metric"

	"github.com/Garsondee/Army-Command/internal/config"
	"github.com/Garsondee/Army-Command/internal/game"
	"github.com/Garsondee/Army-Command/internal/logging"
	"github.com/Garsondee/Army-Command/internal/telemetry"
)

type runStats struct {
	runIndex int
	seed     int64

	outcome     game.BattleOutcome
	reason      string
	ticks       int
	decidedTick int

	firstContactTick      int
	firstLossTick         int
	firstBreakthroughTick int

	contactNew  int
	contactLost int
	destroyed   int

	total         [2]int
	losses        [2]int
	breakthroughs [2]int

	windowSummary *game.WindowReport
}

func main() {
	cmd := &cli.Command{
		Name:  "headless-report",
		Usage: "run seeded battles headless and summarise the outcomes",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "runs", Value: 5, Usage: "number of headless battles"},
			&cli.IntFlag{Name: "max-ticks", Value: 36000, Usage: "tick limit per battle"},
			&cli.Int64Flag{Name: "seed-base", Value: 42, Usage: "RNG seed for run 1"},
			&cli.Int64Flag{Name: "seed-step", Value: 1, Usage: "seed increment between runs"},
			&cli.StringFlag{Name: "config", Usage: "battle configuration file (json, yaml or toml)"},
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "trace, debug, info, warn or error"},
			&cli.BoolFlag{Name: "metrics", Usage: "export battle counters to stdout at exit"},
			&cli.BoolFlag{Name: "verbose", Usage: "print the full battle report for every run"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	runs := cmd.Int("runs")
	maxTicks := cmd.Int("max-ticks")
	if runs <= 0 {
		return fmt.Errorf("--runs must be > 0")
	}
	if maxTicks <= 0 {
		return fmt.Errorf("--max-ticks must be > 0")
	}

	log := logging.New(cmd.String("log-level"), os.Stderr, nil)
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	tp, err := telemetry.New(telemetry.Config{
		Enabled: cmd.Bool("metrics"),
		Writer:  os.Stdout,
		Pretty:  true,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("metrics shutdown")
		}
	}()
	meter := tp.Meter("github.com/Garsondee/Army-Command/cmd/headless-report")

	seedBase, seedStep := cmd.Int64("seed-base"), cmd.Int64("seed-step")
	fmt.Printf("=== Headless Battle Report ===\n")
	fmt.Printf("runs=%d max_ticks=%d seed_base=%d seed_step=%d grid=%d\n\n", runs, maxTicks, seedBase, seedStep, cfg.GridSize)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs, rpt, err := runBattle(i+1, seed, maxTicks, cfg, log, meter)
		if err != nil {
			return fmt.Errorf("run %d: %w", i+1, err)
		}
		all = append(all, rs)
		printRun(os.Stdout, rs)
		if cmd.Bool("verbose") {
			fmt.Println(rpt.Format())
		}
	}
	printAggregate(os.Stdout, all)
	return nil
}

func runBattle(runIndex int, seed int64, maxTicks int, cfg game.Config, log zerolog.Logger, meter metric.Meter) (runStats, game.BattleReport, error) {
	ts, err := game.BuildTestSim(
		game.WithConfig(cfg),
		game.WithSeed(seed),
		game.WithGeneratedForces(),
		game.WithEngineOptions(
			game.WithLogger(log.With().Int64("seed", seed).Logger()),
			game.WithMeter(meter),
		),
	)
	if err != nil {
		return runStats{}, game.BattleReport{}, err
	}

	reporter := game.NewSimReporter(cfg.TickRate * int(cfg.TurnSeconds))
	for i := 0; i < maxTicks; i++ {
		res := ts.Step()
		if res.Tick%cfg.TickRate == 0 || res.Decided {
			reporter.Collect(ts.Engine)
		}
		if res.Decided {
			break
		}
	}

	rpt := ts.Report()
	rs := runStats{
		runIndex:              runIndex,
		seed:                  seed,
		outcome:               rpt.Outcome,
		reason:                rpt.Reason,
		ticks:                 rpt.Tick,
		decidedTick:           rpt.DecidedTick,
		firstContactTick:      rpt.FirstContactTick,
		firstLossTick:         rpt.FirstLossTick,
		firstBreakthroughTick: rpt.FirstBreakthroughTick,
		contactNew:            ts.SimLog.CountCategory("recon", "contact_new"),
		contactLost:           ts.SimLog.CountCategory("recon", "contact_lost"),
		destroyed:             ts.SimLog.CountCategory("combat", "destroyed"),
		windowSummary:         reporter.WindowSummary(),
	}
	for _, s := range []game.Side{game.SideBlue, game.SideRed} {
		rs.total[s] = rpt.Sides[s].Total
		rs.losses[s] = rpt.Sides[s].Losses
		rs.breakthroughs[s] = rpt.Sides[s].Breakthroughs
	}
	return rs, rpt, nil
}

// detectStalemate flags undecided battles whose last window saw neither
// attrition nor ground gained.
func detectStalemate(rs runStats) (bool, string) {
	if rs.outcome != game.OutcomeUndecided {
		return false, "decided"
	}
	wr := rs.windowSummary
	if wr == nil {
		return false, "no_samples"
	}
	lost := wr.LossesInWindow[game.SideBlue] + wr.LossesInWindow[game.SideRed] +
		wr.EdgeInWindow[game.SideBlue] + wr.EdgeInWindow[game.SideRed]
	moving := wr.AdvanceInWindow[game.SideBlue] > 0.5 || wr.AdvanceInWindow[game.SideRed] > 0.5
	switch {
	case lost > 0:
		return false, fmt.Sprintf("attrition_in_window=%d", lost)
	case moving:
		return false, "front_moving"
	default:
		return true, "static_front_no_losses"
	}
}

func printRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	if rs.outcome == game.OutcomeUndecided {
		stale, why := detectStalemate(rs)
		fmt.Fprintf(w, "outcome: undecided after %d ticks stalemate=%t (%s)\n", rs.ticks, stale, why)
	} else {
		fmt.Fprintf(w, "outcome: %s (%s) at tick %d\n", rs.outcome, rs.reason, rs.decidedTick)
	}
	fmt.Fprintf(w, "phase_markers: first_contact=%d first_loss=%d first_breakthrough=%d\n",
		rs.firstContactTick, rs.firstLossTick, rs.firstBreakthroughTick)
	fmt.Fprintf(w, "event_totals: contact_new=%d contact_lost=%d destroyed=%d\n",
		rs.contactNew, rs.contactLost, rs.destroyed)
	fmt.Fprintf(w, "blue: total=%d lost=%d edge=%d   red: total=%d lost=%d edge=%d\n",
		rs.total[game.SideBlue], rs.losses[game.SideBlue], rs.breakthroughs[game.SideBlue],
		rs.total[game.SideRed], rs.losses[game.SideRed], rs.breakthroughs[game.SideRed])
	fmt.Fprint(w, rs.windowSummary.Format())
	fmt.Fprintln(w)
}

// outcomeCounts tallies blue wins, red wins and undecided runs.
func outcomeCounts(all []runStats) (blue, red, undecided int) {
	for _, rs := range all {
		switch rs.outcome {
		case game.OutcomeBlueVictory:
			blue++
		case game.OutcomeRedVictory:
			red++
		default:
			undecided++
		}
	}
	return blue, red, undecided
}

func printAggregate(w io.Writer, all []runStats) {
	blue, red, undecided := outcomeCounts(all)

	var decidedTicks, contactTicks, lossTicks, edgeTicks []int
	var lossSum, edgeSum [2]int
	reasons := map[string]int{}
	stalemates := 0
	for _, rs := range all {
		if rs.decidedTick >= 0 {
			decidedTicks = append(decidedTicks, rs.decidedTick)
			reasons[rs.reason]++
		}
		if rs.firstContactTick >= 0 {
			contactTicks = append(contactTicks, rs.firstContactTick)
		}
		if rs.firstLossTick >= 0 {
			lossTicks = append(lossTicks, rs.firstLossTick)
		}
		if rs.firstBreakthroughTick >= 0 {
			edgeTicks = append(edgeTicks, rs.firstBreakthroughTick)
		}
		for s := range lossSum {
			lossSum[s] += rs.losses[s]
			edgeSum[s] += rs.breakthroughs[s]
		}
		if ok, _ := detectStalemate(rs); ok {
			stalemates++
		}
	}

	n := len(all)
	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d blue_wins=%d red_wins=%d undecided=%d stalemates=%d\n", n, blue, red, undecided, stalemates)
	fmt.Fprintf(w, "win_reasons: %s\n", joinCounts(reasons))
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_contact=%s first_loss=%s first_breakthrough=%s decided=%s\n",
		avgTickString(contactTicks), avgTickString(lossTicks), avgTickString(edgeTicks), avgTickString(decidedTicks))
	fmt.Fprintf(w, "avg_per_run: blue_lost=%.1f blue_edge=%.1f red_lost=%.1f red_edge=%.1f\n",
		avg(lossSum[game.SideBlue], n), avg(edgeSum[game.SideBlue], n),
		avg(lossSum[game.SideRed], n), avg(edgeSum[game.SideRed], n))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ",")
}
