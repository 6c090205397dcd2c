// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Steering  SteeringConfig  `yaml:"steering"`
	Behavior  BehaviorConfig  `yaml:"behavior"`
	Pheromone PheromoneConfig `yaml:"pheromone"`
	Agent     AgentConfig     `yaml:"agent"`
	Colony    ColonyConfig    `yaml:"colony"`
	Clock     ClockConfig     `yaml:"clock"`
	MapGen    MapGenConfig    `yaml:"mapgen"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Debug     DebugConfig     `yaml:"debug"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	CellPx    int `yaml:"cell_px"` // Screen pixels per grid cell at zoom 1
}

// WorldConfig holds the map source and its glyph legend.
type WorldConfig struct {
	MapPath string       `yaml:"map_path"` // Empty = embedded default map
	Legend  LegendConfig `yaml:"legend"`
}

// LegendConfig maps each cell kind to the glyphs that denote it.
type LegendConfig struct {
	Ground   string `yaml:"ground"`
	Border   string `yaml:"border"`
	Resource string `yaml:"resource"`
	Hazard   string `yaml:"hazard"`
	Home     string `yaml:"home"`
}

// PhysicsConfig holds integration parameters. Distances are in cells.
type PhysicsConfig struct {
	FrameDT  float64 `yaml:"frame_dt"`  // Seconds per motion pass in headless runs
	MaxSpeed float64 `yaml:"max_speed"` // Cells per motion pass
	MaxForce float64 `yaml:"max_force"` // Clamp applied once to the summed force
	Bounce   float64 `yaml:"bounce"`    // Velocity retained when reflecting off a border
}

// SteeringConfig holds parameters of the individual steering behaviors.
type SteeringConfig struct {
	WanderJitter     float64 `yaml:"wander_jitter"`   // Max heading change per call (radians)
	WanderRadius     float64 `yaml:"wander_radius"`   // Radius of the projected circle
	WanderDistance   float64 `yaml:"wander_distance"` // Distance of the circle ahead of the agent
	BoundaryMargin   float64 `yaml:"boundary_margin"`
	BoundaryStrength float64 `yaml:"boundary_strength"`
	GradientDelta    float64 `yaml:"gradient_delta"`     // Central difference half-step
	GradientLook     float64 `yaml:"gradient_lookahead"` // Seek target distance along the gradient
	GradientK        float64 `yaml:"gradient_k"`         // Strength scale: weight *= min(1, signal*k)
}

// BehaviorConfig holds per-state steering mix weights.
type BehaviorConfig struct {
	Explore ExploreWeights `yaml:"explore"`
	Harvest HarvestWeights `yaml:"harvest"`
	Return  ReturnWeights  `yaml:"return"`
	Defend  DefendWeights  `yaml:"defend"`
	Avoid   float64        `yaml:"avoid_boundary"`
}

// ExploreWeights configures the Explore mix.
type ExploreWeights struct {
	Wander         float64 `yaml:"wander"`
	FleeHome       float64 `yaml:"flee_home"`
	FleeHomeRadius float64 `yaml:"flee_home_radius"`
	FollowResource float64 `yaml:"follow_resource"`
}

// HarvestWeights configures the Harvest mix.
type HarvestWeights struct {
	FollowResource float64 `yaml:"follow_resource"`
	Threshold      float64 `yaml:"threshold"` // Sampled resource signal above which the trail is followed
	Wander         float64 `yaml:"wander"`
	SeekHome       float64 `yaml:"seek_home"`
}

// ReturnWeights configures the Return mix.
type ReturnWeights struct {
	SeekHome   float64 `yaml:"seek_home"`
	FollowHome float64 `yaml:"follow_home"`
}

// DefendWeights configures the Defend mix.
type DefendWeights struct {
	SeekHome float64 `yaml:"seek_home"`
	Wander   float64 `yaml:"wander"`
	Radius   float64 `yaml:"radius"` // Agents farther than this head home
}

// PheromoneConfig holds field dynamics and the per-state deposit policy.
type PheromoneConfig struct {
	DecayRate       float64       `yaml:"decay_rate"`       // Subtracted from both channels per logic tick
	Diffusion       float64       `yaml:"diffusion"`        // 0 disables
	HomeRadius      float64       `yaml:"home_radius"`      // Beacon radius around home
	HomeFloor       float64       `yaml:"home_floor"`       // Beacon value at the home cell
	DeliveryDeposit float64       `yaml:"delivery_deposit"` // Resource deposit per trail point on delivery
	Deposit         DepositPolicy `yaml:"deposit"`
}

// DepositPolicy is the ambient deposit applied each logic tick per state.
type DepositPolicy struct {
	Explore DepositRule `yaml:"explore"`
	Harvest DepositRule `yaml:"harvest"`
	Return  DepositRule `yaml:"return"`
	Defend  DepositRule `yaml:"defend"`
}

// DepositRule names a channel ("home", "resource" or "none") and an amount.
type DepositRule struct {
	Channel string  `yaml:"channel"`
	Amount  float64 `yaml:"amount"`
}

// AgentConfig holds agent creation parameters.
type AgentConfig struct {
	InitialCount  int `yaml:"initial_count"`
	TrailCapacity int `yaml:"trail_capacity"`
}

// ColonyConfig holds economy and lifecycle parameters.
type ColonyConfig struct {
	ResourceGoal        int     `yaml:"resource_goal"`
	InitialResources    int     `yaml:"initial_resources"`
	SpawnCost           int     `yaml:"spawn_cost"`
	MaxAgents           int     `yaml:"max_agents"`
	MinSurvivors        int     `yaml:"min_survivors"`
	StarvationThreshold int     `yaml:"starvation_threshold"` // Logic ticks without a delivery
	ArrivalRadius       float64 `yaml:"arrival_radius"`
	CorpseTicks         int     `yaml:"corpse_ticks"` // Logic ticks a dead agent stays in the roster
	Directive           string  `yaml:"directive"`    // Initial directive
}

// ClockConfig holds pass cadences, in simulation seconds.
type ClockConfig struct {
	LogicInterval    float64 `yaml:"logic_interval"`
	TrailInterval    float64 `yaml:"trail_interval"`
	MaxLogicPerFrame int     `yaml:"max_logic_per_frame"`
	MinSpeed         float64 `yaml:"min_speed"`
	MaxSpeed         float64 `yaml:"max_speed"`
}

// MapGenConfig holds procedural map generation parameters.
type MapGenConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Scale         float64 `yaml:"scale"`          // Noise frequency
	ResourceLevel float64 `yaml:"resource_level"` // Noise value above which a cell is Resource
	HazardLevel   float64 `yaml:"hazard_level"`   // Noise value below which a cell is Hazard
	ClearRadius   float64 `yaml:"clear_radius"`   // Cells around home kept as Ground
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // Seconds of simulation time
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	CoverageThreshold   float64 `yaml:"coverage_threshold"`
}

// DebugConfig holds developer switches.
type DebugConfig struct {
	CheckInvariants bool `yaml:"check_invariants"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StatsWindowTicks int // Telemetry.StatsWindow in logic ticks
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Prepare(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Clone returns a deep copy suitable for per-run overrides.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.Physics.FrameDT > 0, "physics.frame_dt must be > 0, got %v", c.Physics.FrameDT)
	check(c.Physics.MaxSpeed > 0, "physics.max_speed must be > 0, got %v", c.Physics.MaxSpeed)
	check(c.Physics.MaxForce > 0, "physics.max_force must be > 0, got %v", c.Physics.MaxForce)
	check(c.Physics.Bounce >= 0 && c.Physics.Bounce <= 1, "physics.bounce must be in [0,1], got %v", c.Physics.Bounce)
	check(c.Steering.GradientDelta > 0, "steering.gradient_delta must be > 0, got %v", c.Steering.GradientDelta)
	check(c.Pheromone.DecayRate >= 0, "pheromone.decay_rate must be >= 0, got %v", c.Pheromone.DecayRate)
	check(c.Pheromone.HomeFloor >= 0 && c.Pheromone.HomeFloor <= 1, "pheromone.home_floor must be in [0,1], got %v", c.Pheromone.HomeFloor)
	check(c.Pheromone.HomeRadius > 0, "pheromone.home_radius must be > 0, got %v", c.Pheromone.HomeRadius)
	for state, rule := range map[string]DepositRule{
		"explore": c.Pheromone.Deposit.Explore,
		"harvest": c.Pheromone.Deposit.Harvest,
		"return":  c.Pheromone.Deposit.Return,
		"defend":  c.Pheromone.Deposit.Defend,
	} {
		switch rule.Channel {
		case "", "none", "home", "resource":
		default:
			check(false, "pheromone.deposit.%s.channel %q is not one of none, home, resource", state, rule.Channel)
		}
	}
	check(c.Agent.TrailCapacity > 0, "agent.trail_capacity must be > 0, got %d", c.Agent.TrailCapacity)
	check(c.Agent.InitialCount >= 0, "agent.initial_count must be >= 0, got %d", c.Agent.InitialCount)
	check(c.Colony.ResourceGoal > 0, "colony.resource_goal must be > 0, got %d", c.Colony.ResourceGoal)
	check(c.Colony.SpawnCost >= 0, "colony.spawn_cost must be >= 0, got %d", c.Colony.SpawnCost)
	check(c.Colony.InitialResources >= 0, "colony.initial_resources must be >= 0, got %d", c.Colony.InitialResources)
	check(c.Colony.ArrivalRadius > 0, "colony.arrival_radius must be > 0, got %v", c.Colony.ArrivalRadius)
	check(c.Clock.LogicInterval > 0, "clock.logic_interval must be > 0, got %v", c.Clock.LogicInterval)
	check(c.Clock.TrailInterval > 0, "clock.trail_interval must be > 0, got %v", c.Clock.TrailInterval)
	check(c.Clock.MaxLogicPerFrame > 0, "clock.max_logic_per_frame must be > 0, got %d", c.Clock.MaxLogicPerFrame)
	check(c.Clock.MinSpeed > 0 && c.Clock.MinSpeed <= c.Clock.MaxSpeed,
		"clock speed bounds must satisfy 0 < min_speed <= max_speed, got [%v, %v]", c.Clock.MinSpeed, c.Clock.MaxSpeed)

	return errors.Join(errs...)
}

// Prepare validates c and recomputes its derived values. Call it after
// editing a loaded or cloned config.
func (c *Config) Prepare() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.StatsWindowTicks = max(1, int(c.Telemetry.StatsWindow/c.Clock.LogicInterval+0.5))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
