// Package game runs the colony simulation: the agent roster, the motion
// and logic passes, the player entry points and read-only snapshots.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/systems"
	"github.com/pthm-cable/antcolony/telemetry"
)

var (
	// ErrInvalidSpeed is returned for non-positive or infinite speed multipliers.
	ErrInvalidSpeed = errors.New("speed multiplier must be > 0")
	// ErrGameOver is returned by entry points that mutate a finished game.
	ErrGameOver = errors.New("game is over")
	// ErrInvalidDirective is returned by SetDirective for unknown directives.
	ErrInvalidDirective = errors.New("invalid directive")
)

// Options configures a Game.
type Options struct {
	Seed    int64          // 0 picks a time-based seed
	Config  *config.Config // nil uses config.Cfg()
	Layout  *systems.Layout
	MapPath string  // Used when Layout is nil; empty falls back to world.map_path
	Speed   float64 // Initial speed multiplier; 0 means 1

	OutputDir     string // Empty disables CSV output
	LogStats      bool
	StatsCallback func(telemetry.WindowStats)
}

// depositRule is a resolved pheromone.deposit entry.
type depositRule struct {
	channel systems.Channel
	amount  float64
	enabled bool
}

// run is everything Restart replaces.
type run struct {
	world     *ecs.World
	antMapper *ecs.Map4[components.Position, components.Velocity, components.Ant, components.Trail]
	antFilter *ecs.Filter4[components.Position, components.Velocity, components.Ant, components.Trail]

	grid      *systems.Grid
	colony    *Colony
	clock     *Clock
	collector *telemetry.Collector
}

// Game holds the complete simulation state. It is not safe for
// concurrent use; the caller drives Update and calls the entry points
// between frames.
type Game struct {
	*run

	cfg        *config.Config
	layout     *systems.Layout
	directive  components.Directive // Initial directive from config
	rng        *rand.Rand
	seed       int64
	controller *systems.Controller
	deposits   [components.StateDead]depositRule

	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// New builds a game from options. An invalid config or a map that fails
// to load or parse is returned as an error before any world is constructed.
func New(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	if err := cfg.Prepare(); err != nil {
		return nil, err
	}
	speed := opts.Speed
	if speed == 0 {
		speed = 1
	}
	if err := checkSpeed(speed); err != nil {
		return nil, err
	}

	layout := opts.Layout
	if layout == nil {
		path := opts.MapPath
		if path == "" {
			path = cfg.World.MapPath
		}
		l, err := systems.LoadMap(path, systems.LegendFromConfig(cfg.World.Legend))
		if err != nil {
			return nil, fmt.Errorf("loading map: %w", err)
		}
		layout = l
	}

	directive, err := components.ParseDirective(cfg.Colony.Directive)
	if err != nil {
		return nil, fmt.Errorf("colony.directive: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}

	g := &Game{
		cfg:           cfg,
		layout:        layout,
		directive:     directive,
		rng:           rand.New(rand.NewSource(seed)),
		seed:          seed,
		controller:    systems.NewController(cfg),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		outputManager: om,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}
	g.deposits = resolveDeposits(cfg.Pheromone.Deposit)
	g.run = g.newRun()
	g.clock.SetSpeed(speed)

	slog.Info("game_started",
		"seed", seed,
		"width", layout.W,
		"height", layout.H,
		"agents", cfg.Agent.InitialCount,
		"directive", directive.String(),
		"goal", cfg.Colony.ResourceGoal,
	)
	return g, nil
}

func resolveDeposits(p config.DepositPolicy) [components.StateDead]depositRule {
	var out [components.StateDead]depositRule
	rules := [...]config.DepositRule{
		components.StateExplore: p.Explore,
		components.StateHarvest: p.Harvest,
		components.StateReturn:  p.Return,
		components.StateDefend:  p.Defend,
	}
	for s, r := range rules {
		ch, ok := systems.ParseChannel(r.Channel)
		out[s] = depositRule{channel: ch, amount: r.Amount, enabled: ok && r.Amount > 0}
	}
	return out
}

// newRun builds a fresh world, grid, colony and clock from the stored layout.
func (g *Game) newRun() *run {
	cfg := g.cfg
	world := ecs.NewWorld()
	grid := systems.NewGrid(g.layout)

	r := &run{
		world:     world,
		antMapper: ecs.NewMap4[components.Position, components.Velocity, components.Ant, components.Trail](world),
		antFilter: ecs.NewFilter4[components.Position, components.Velocity, components.Ant, components.Trail](world),
		grid:      grid,
		colony:    NewColony(cfg.Colony, grid.HomePos(), g.directive),
		clock: NewClock(cfg.Clock.LogicInterval, cfg.Clock.TrailInterval, cfg.Clock.MaxLogicPerFrame,
			cfg.Clock.MinSpeed, cfg.Clock.MaxSpeed),
		collector: telemetry.NewCollector(cfg.Derived.StatsWindowTicks, cfg.Clock.LogicInterval),
	}
	grid.ReinforceHome(grid.HomePos(), cfg.Pheromone.HomeRadius, cfg.Pheromone.HomeFloor)

	for i := 0; i < cfg.Agent.InitialCount; i++ {
		g.spawnAnt(r, r.colony.SpawnState())
	}
	return r
}

// spawnAnt creates an agent at home with a random heading.
func (g *Game) spawnAnt(r *run, state components.State) {
	home := r.colony.HomePos
	id := r.colony.NewID()

	pos := components.Position{X: home.X, Y: home.Y}
	vel := components.Velocity{}
	ant := components.Ant{
		ID:      id,
		State:   state,
		Alive:   true,
		Heading: g.rng.Float64() * 2 * math.Pi,
	}
	trail := components.NewTrail(g.cfg.Agent.TrailCapacity)
	trail.Reset(home)

	r.antMapper.NewEntity(&pos, &vel, &ant, &trail)
	r.collector.Record(telemetry.NewSpawnEvent(r.clock.Tick(), id, home.X, home.Y, state.String()))
	slog.Debug("agent_spawned", "id", id, "state", state.String(), "tick", r.clock.Tick())
}

// Update advances the simulation by dt seconds of wall time: one motion
// pass plus whatever logic ticks the clock grants.
func (g *Game) Update(dt float64) {
	if g.colony.Over() {
		return
	}
	f := g.clock.Advance(dt)
	if !f.Motion {
		return
	}

	g.perfCollector.BeginFrame()
	g.motionPass(f.SampleTrail)

	for i := 0; i < f.LogicTicks && !g.colony.Over(); i++ {
		g.logicTick()
	}
	g.perfCollector.EndFrame()
}

// Step advances one headless frame of physics.frame_dt seconds.
func (g *Game) Step() {
	g.Update(g.cfg.Physics.FrameDT)
}

// RunTicks steps frames until n more logic ticks have run or the game
// ends, and returns the number of ticks run. Paused games run nothing.
func (g *Game) RunTicks(n int) int {
	start := g.clock.Tick()
	for g.clock.Tick()-start < n && !g.colony.Over() && !g.clock.Paused() {
		g.Step()
	}
	return g.clock.Tick() - start
}

// SetDirective changes the colony directive. Every live agent that is
// not returning adopts it immediately.
func (g *Game) SetDirective(d components.Directive) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDirective, d)
	}
	if g.colony.Over() {
		return ErrGameOver
	}
	g.colony.Directive = d

	changed := 0
	query := g.antFilter.Query()
	for query.Next() {
		_, _, ant, _ := query.Get()
		if next, ok := systems.Next(ant.State, systems.EventDirective, d); ok && next != ant.State {
			ant.State = next
			changed++
		}
	}

	g.collector.Record(telemetry.NewDirectiveEvent(g.clock.Tick(), d.String()))
	slog.Info("directive_changed", "directive", d.String(), "agents_changed", changed, "tick", g.clock.Tick())
	return nil
}

// SetSpeedMultiplier sets the logic-tick speed multiplier. Values are
// clamped to the configured clock bounds.
func (g *Game) SetSpeedMultiplier(s float64) error {
	if err := checkSpeed(s); err != nil {
		return err
	}
	g.clock.SetSpeed(s)
	return nil
}

func checkSpeed(s float64) error {
	if !(s > 0) || math.IsInf(s, 0) {
		return fmt.Errorf("%w, got %v", ErrInvalidSpeed, s)
	}
	return nil
}

// Speed returns the current speed multiplier.
func (g *Game) Speed() float64 { return g.clock.Speed() }

// Pause freezes both passes.
func (g *Game) Pause() { g.clock.Pause() }

// Resume unfreezes the simulation; paused time is discarded.
func (g *Game) Resume() { g.clock.Resume() }

// TogglePause flips between paused and running.
func (g *Game) TogglePause() {
	if g.clock.Paused() {
		g.clock.Resume()
	} else {
		g.clock.Pause()
	}
}

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool { return g.clock.Paused() }

// Restart rebuilds agents, grid, colony and clock from the loaded map.
// The new state replaces the old in one assignment. The speed multiplier
// carries over. Events still queued from the old run are written first.
func (g *Game) Restart() {
	if err := g.outputManager.WriteEvents(g.collector.DrainEvents()); err != nil {
		slog.Error("failed to write events", "error", err)
	}
	speed := g.clock.Speed()
	r := g.newRun()
	r.clock.SetSpeed(speed)
	g.run = r
	slog.Info("game_restarted", "seed", g.seed)
}

// Tick returns the number of logic ticks run.
func (g *Game) Tick() int { return g.clock.Tick() }

// Outcome returns the game outcome, OutcomeRunning while in progress.
func (g *Game) Outcome() Outcome { return g.colony.Outcome }

// Over reports whether the game has ended.
func (g *Game) Over() bool { return g.colony.Over() }

// Seed returns the random seed in use.
func (g *Game) Seed() int64 { return g.seed }

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config { return g.cfg }

// PerfStats returns the rolling performance statistics.
func (g *Game) PerfStats() telemetry.PerfStats { return g.perfCollector.Stats() }

// RecordFrame marks a rendered frame for the perf collector.
func (g *Game) RecordFrame() { g.perfCollector.RecordRender() }

// Close flushes pending events and closes telemetry output.
func (g *Game) Close() error {
	if err := g.outputManager.WriteEvents(g.collector.DrainEvents()); err != nil {
		slog.Error("failed to write events", "error", err)
	}
	return g.outputManager.Close()
}
