package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/antcolony/audio"
	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/game"
	"github.com/pthm-cable/antcolony/systems"
	"github.com/pthm-cable/antcolony/tui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mapPath := flag.String("map", "", "Map file (empty = config world.map_path)")
	generate := flag.Bool("generate", false, "Generate a map from noise instead of loading one")
	headless := flag.Bool("headless", false, "Run without graphics")
	term := flag.Bool("tui", false, "Run in the terminal instead of a window")
	sound := flag.Bool("sound", false, "Play event tones in the terminal viewer")
	logFile := flag.String("log-file", "", "Write logs to this file (empty = stdout, discarded with -tui)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	verbose := flag.Bool("verbose", false, "Log per-agent debug events")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N logic ticks (0 = until game over)")
	speed := flag.Float64("speed", 1, "Initial speed multiplier")
	directive := flag.String("directive", "", "Initial directive: explore, harvest or defend (empty = config)")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	var logOut io.Writer = os.Stdout
	switch {
	case *logFile != "":
		f, err := os.Create(*logFile)
		if err != nil {
			slog.Error("failed to open log file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	case *term:
		logOut = io.Discard
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: level})))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg().Clone()

	if *directive != "" {
		if _, err := components.ParseDirective(*directive); err != nil {
			slog.Error("bad directive flag", "error", err)
			os.Exit(2)
		}
		cfg.Colony.Directive = *directive
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:      rngSeed,
		Config:    cfg,
		MapPath:   *mapPath,
		Speed:     *speed,
		OutputDir: *outputDir,
		LogStats:  *logStats,
	}
	if *generate {
		opts.Layout = systems.GenerateMap(cfg.MapGen, rngSeed)
	}

	g, err := game.New(opts)
	if err != nil {
		var me *systems.MapError
		switch {
		case errors.As(err, &me):
			slog.Error("invalid map", "line", me.Line, "col", me.Col, "error", me.Err)
		case errors.Is(err, game.ErrInvalidSpeed):
			slog.Error("bad speed flag", "error", err)
			os.Exit(2)
		default:
			slog.Error("failed to start game", "error", err)
		}
		os.Exit(1)
	}
	defer g.Close()

	if *headless {
		runHeadless(g, *maxTicks)
		return
	}

	if *term {
		if err := runTerminal(g, *sound); err != nil {
			slog.Error("terminal viewer failed", "error", err)
		}
		return
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Ant Colony")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v := game.NewViewer(g)
	defer v.Unload()

	for !rl.WindowShouldClose() {
		v.Frame(float64(rl.GetFrameTime()))

		if *maxTicks > 0 && g.Tick() >= *maxTicks {
			break
		}
	}
}

// runHeadless steps fixed frames until the game ends or the tick cap is hit.
func runHeadless(g *game.Game, maxTicks int) {
	slog.Info("starting headless simulation",
		"seed", g.Seed(),
		"max_ticks", maxTicks,
		"speed", g.Speed(),
	)

	start := time.Now()
	for !g.Over() {
		if maxTicks > 0 && g.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			break
		}
		g.Step()
	}

	s := g.Snapshot()
	slog.Info("headless run finished",
		"outcome", s.Colony.Outcome.String(),
		"tick", s.Colony.Tick,
		"resource_count", s.Colony.ResourceCount,
		"delivered", s.Colony.Delivered,
		"alive", s.Colony.Alive,
		"wall_time_ms", time.Since(start).Milliseconds(),
	)
}

// runTerminal runs the tcell viewer until the player quits or an
// interrupt arrives.
func runTerminal(g *game.Game, sound bool) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	v := tui.New(g, screen)
	if sound {
		p, err := audio.NewPlayer()
		if err != nil {
			slog.Warn("audio unavailable", "error", err)
		} else {
			defer p.Close()
			v.SetSound(p)
		}
	}

	err = v.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
