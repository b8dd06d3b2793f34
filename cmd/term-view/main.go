// Command term-view plays a battle in the terminal on a down-sampled grid.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/Garsondee/Army-Command/internal/config"
	"github.com/Garsondee/Army-Command/internal/game"
	"github.com/Garsondee/Army-Command/internal/logging"
)

func main() {
	cmd := &cli.Command{
		Name:  "term-view",
		Usage: "watch a battle in the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "battle configuration file (json, yaml or toml)"},
			&cli.Int64Flag{Name: "seed", Usage: "RNG seed; 0 picks one from the clock"},
			&cli.StringFlag{Name: "log-file", Value: "term-view.log", Usage: "log destination (the terminal is busy)"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "trace, debug, info, warn or error"},
			&cli.BoolFlag{Name: "mute", Usage: "no tone when the battle is decided"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	f, err := os.OpenFile(cmd.String("log-file"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()
	log := logging.New(cmd.String("log-level"), f, nil)

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	seed := cmd.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	battle, err := game.NewBattle(cfg, seed, game.WithLogger(log))
	if err != nil {
		return fmt.Errorf("setting up battle: %w", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	tv := newTermView(battle, screen, log)
	if !cmd.Bool("mute") {
		tv.sound = newTonePlayer()
		if err := tv.sound.init(); err != nil {
			// Audio is optional; the battle runs silent.
			log.Warn().Err(err).Msg("audio unavailable")
			tv.sound = nil
		}
	}
	defer tv.sound.close()

	log.Info().Int64("seed", seed).Msg("term-view started")
	return tv.loop(ctx)
}

// loop paces the battle at its tick rate and redraws at ~30 FPS.
func (tv *termView) loop(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := tv.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	tickEvery := time.Second / time.Duration(tv.cfg.TickRate)
	sim := time.NewTicker(tickEvery)
	defer sim.Stop()
	frame := time.NewTicker(33 * time.Millisecond)
	defer frame.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !tv.handleEvent(ev) {
				return nil
			}
		case <-sim.C:
			tv.step()
		case <-frame.C:
			tv.draw()
		}
	}
}

func logDecision(log zerolog.Logger, res game.TickResult) {
	log.Info().Str("winner", res.Winner.String()).Int("tick", res.Tick).Msg("battle over")
}
