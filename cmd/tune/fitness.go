package main

import (
	"log/slog"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/game"
	"github.com/pthm-cable/antcolony/systems"
	"github.com/pthm-cable/antcolony/telemetry"
)

// FitnessEvaluator runs headless games and scores parameter sets.
type FitnessEvaluator struct {
	maxTicks   int
	seeds      []int64
	baseConfig *config.Config
	layout     *systems.Layout
}

// NewFitnessEvaluator creates a new evaluator. All runs share one parsed map.
func NewFitnessEvaluator(maxTicks int, seeds []int64, baseCfg *config.Config, layout *systems.Layout) *FitnessEvaluator {
	return &FitnessEvaluator{
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
		layout:     layout,
	}
}

// runResult holds the outcome of one seeded game.
type runResult struct {
	won          bool
	ticks        int
	resources    int
	goal         int
	deliveryRate float64 // Mean over stats windows
}

// Evaluation aggregates all seeds for one parameter set.
type Evaluation struct {
	Fitness       float64
	WinRate       float64
	MeanTicks     float64
	MeanResources float64
	DeliveryRate  float64
}

// Evaluate scores p (lower = better). A win scores its share of the tick
// budget used, in [0, 1]. Any other ending scores 1 plus the unmet share
// of the goal, in [1, 2].
func (fe *FitnessEvaluator) Evaluate(p Params) Evaluation {
	cfg := fe.baseConfig.Clone()
	p.ApplyTo(cfg)

	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	fitness := make([]float64, len(results))
	ticks := make([]float64, len(results))
	resources := make([]float64, len(results))
	rates := make([]float64, len(results))
	wins := 0
	for i, r := range results {
		fitness[i] = fe.score(r)
		ticks[i] = float64(r.ticks)
		resources[i] = float64(r.resources)
		rates[i] = r.deliveryRate
		if r.won {
			wins++
		}
	}

	return Evaluation{
		Fitness:       stat.Mean(fitness, nil),
		WinRate:       float64(wins) / float64(len(results)),
		MeanTicks:     stat.Mean(ticks, nil),
		MeanResources: stat.Mean(resources, nil),
		DeliveryRate:  stat.Mean(rates, nil),
	}
}

func (fe *FitnessEvaluator) score(r runResult) float64 {
	if r.won {
		return float64(r.ticks) / float64(fe.maxTicks)
	}
	if r.goal <= 0 {
		return 2
	}
	unmet := 1 - float64(r.resources)/float64(r.goal)
	return 1 + min(max(unmet, 0), 1)
}

func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) runResult {
	var rates []float64
	g, err := game.New(game.Options{
		Seed:   seed,
		Config: cfg,
		Layout: fe.layout,
		StatsCallback: func(ws telemetry.WindowStats) {
			rates = append(rates, ws.DeliveryRate)
		},
	})
	if err != nil {
		slog.Error("failed to build game", "seed", seed, "error", err)
		return runResult{goal: cfg.Colony.ResourceGoal}
	}
	defer g.Close()

	g.RunTicks(fe.maxTicks)
	s := g.Snapshot()

	r := runResult{
		won:       s.Colony.Won,
		ticks:     s.Colony.Tick,
		resources: s.Colony.ResourceCount,
		goal:      s.Colony.ResourceGoal,
	}
	if len(rates) > 0 {
		r.deliveryRate = stat.Mean(rates, nil)
	}
	return r
}
