// Command game opens a window on a simulated army-versus-army battle.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/urfave/cli/v3"

	"github.com/Garsondee/Army-Command/internal/config"
	"github.com/Garsondee/Army-Command/internal/game"
	"github.com/Garsondee/Army-Command/internal/logging"
	"github.com/Garsondee/Army-Command/internal/viewer"
)

func main() {
	cmd := &cli.Command{
		Name:  "army-command",
		Usage: "watch two simulated armies fight across a grid",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "battle configuration file (json, yaml or toml)"},
			&cli.Int64Flag{Name: "seed", Usage: "RNG seed; 0 picks one from the clock"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "trace, debug, info, warn or error"},
			&cli.StringFlag{Name: "log-file", Usage: "also write the log to this file"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	var logFile io.Writer
	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logFile = f
	}
	log := logging.New(cmd.String("log-level"), os.Stderr, logFile)

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	if used := config.ConfigFileUsed(); used != "" {
		log.Info().Str("file", used).Msg("config loaded")
	}

	seed := cmd.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	battle, err := game.NewBattle(cfg, seed, game.WithLogger(log))
	if err != nil {
		return fmt.Errorf("setting up battle: %w", err)
	}
	log.Info().Int64("seed", seed).Int("grid", cfg.GridSize).Msg("battle ready")

	v := viewer.New(battle, viewer.WithLogger(log))
	w, h := v.WindowSize()
	ebiten.SetWindowTitle("Army Command")
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(60)
	return ebiten.RunGame(v)
}
