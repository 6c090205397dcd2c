package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated colony statistics for a time window.
type WindowStats struct {
	WindowStartTick int     `csv:"-"`
	WindowEndTick   int     `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Directive       string  `csv:"directive"`

	// Roster at window end
	Alive   int `csv:"alive"`
	Corpses int `csv:"corpses"`
	Explore int `csv:"explore"`
	Harvest int `csv:"harvest"`
	Return  int `csv:"return"`
	Defend  int `csv:"defend"`

	// Economy at window end
	ResourceCount int `csv:"resource_count"`
	Delivered     int `csv:"delivered_total"`
	SinceDelivery int `csv:"since_delivery"`

	// Events during window
	Spawns       int     `csv:"spawns"`
	Pickups      int     `csv:"pickups"`
	Deliveries   int     `csv:"deliveries"`
	Deaths       int     `csv:"deaths"`
	DeliveryRate float64 `csv:"delivery_rate"` // Deliveries per simulated second

	// Agent age distribution in logic ticks
	AgeMean float64 `csv:"age_mean"`
	AgeStd  float64 `csv:"age_std"`
	AgeP10  float64 `csv:"age_p10"`
	AgeP50  float64 `csv:"age_p50"`
	AgeP90  float64 `csv:"age_p90"`

	TrailMean float64 `csv:"trail_mean"`

	// Field state
	HomeTotal        float64 `csv:"home_total"`
	ResourceTotal    float64 `csv:"resource_total"`
	HomeCoverage     float64 `csv:"home_coverage"`
	ResourceCoverage float64 `csv:"resource_coverage"`
	Revealed         int     `csv:"revealed"`
}

// Sample is the colony state observed at a window boundary.
type Sample struct {
	Directive     string
	Alive         int
	Corpses       int
	States        [4]int // Explore, Harvest, Return, Defend
	ResourceCount int
	Delivered     int
	SinceDelivery int
	Ages          []float64
	TrailLens     []float64

	HomeTotal        float64
	ResourceTotal    float64
	HomeCoverage     float64
	ResourceCoverage float64
	Revealed         int
}

// Distribution returns the mean, standard deviation and 10th, 50th and
// 90th percentiles of values. All are zero for an empty slice.
func Distribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}
	if n == 1 {
		v := values[0]
		return v, 0, v, v, v
	}

	mean, std = stat.MeanStdDev(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("directive", s.Directive),
		slog.Int("alive", s.Alive),
		slog.Int("corpses", s.Corpses),
		slog.Int("resource_count", s.ResourceCount),
		slog.Int("delivered_total", s.Delivered),
		slog.Int("since_delivery", s.SinceDelivery),
		slog.Int("spawns", s.Spawns),
		slog.Int("pickups", s.Pickups),
		slog.Int("deliveries", s.Deliveries),
		slog.Int("deaths", s.Deaths),
		slog.Float64("delivery_rate", s.DeliveryRate),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("age_p50", s.AgeP50),
		slog.Float64("trail_mean", s.TrailMean),
		slog.Float64("home_coverage", s.HomeCoverage),
		slog.Float64("resource_coverage", s.ResourceCoverage),
		slog.Int("revealed", s.Revealed),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"directive", s.Directive,
		"alive", s.Alive,
		"explore", s.Explore,
		"harvest", s.Harvest,
		"return", s.Return,
		"defend", s.Defend,
		"resource_count", s.ResourceCount,
		"delivered_total", s.Delivered,
		"since_delivery", s.SinceDelivery,
		"spawns", s.Spawns,
		"pickups", s.Pickups,
		"deliveries", s.Deliveries,
		"deaths", s.Deaths,
		"delivery_rate", s.DeliveryRate,
		"age_mean", s.AgeMean,
		"age_p10", s.AgeP10,
		"age_p90", s.AgeP90,
		"trail_mean", s.TrailMean,
		"home_total", s.HomeTotal,
		"resource_total", s.ResourceTotal,
		"home_coverage", s.HomeCoverage,
		"resource_coverage", s.ResourceCoverage,
		"revealed", s.Revealed,
	)
}
