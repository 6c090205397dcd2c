// Command tune searches steering and pheromone parameters for colonies
// that reach the resource goal quickly, using CMA-ES over headless games.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/antcolony/config"
	"github.com/pthm-cable/antcolony/systems"
)

// TuneRecord is one row of tune_log.csv.
type TuneRecord struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	WinRate       float64 `csv:"win_rate"`
	MeanTicks     float64 `csv:"mean_ticks"`
	MeanResources float64 `csv:"mean_resources"`
	DeliveryRate  float64 `csv:"delivery_rate"`
	Params
}

// tuner is the objective handed to the optimizer. It records every
// evaluation and keeps the best parameters seen.
type tuner struct {
	eval     *FitnessEvaluator
	maxEvals int
	log      io.Writer
	progress *slog.Logger
	header   bool

	evals   int
	best    Params
	bestFit float64
	started time.Time
}

func (t *tuner) objective(x []float64) float64 {
	p := Denormalize(x)
	ev := t.eval.Evaluate(p)
	t.evals++
	if t.evals == 1 || ev.Fitness < t.bestFit {
		t.best, t.bestFit = p, ev.Fitness
	}
	t.record(p, ev)

	elapsed := time.Since(t.started)
	eta := time.Duration(t.maxEvals-t.evals) * (elapsed / time.Duration(t.evals))
	t.progress.Info("eval",
		"n", t.evals,
		"of", t.maxEvals,
		"fitness", ev.Fitness,
		"win_rate", ev.WinRate,
		"mean_ticks", ev.MeanTicks,
		"best", t.bestFit,
		"elapsed", elapsed.Round(time.Second),
		"eta", eta.Round(time.Second),
	)
	return ev.Fitness
}

func (t *tuner) record(p Params, ev Evaluation) {
	rows := []TuneRecord{{
		Eval:          t.evals,
		Fitness:       ev.Fitness,
		WinRate:       ev.WinRate,
		MeanTicks:     ev.MeanTicks,
		MeanResources: ev.MeanResources,
		DeliveryRate:  ev.DeliveryRate,
		Params:        p,
	}}
	var err error
	if t.header {
		err = gocsv.MarshalWithoutHeaders(rows, t.log)
	} else {
		err = gocsv.Marshal(rows, t.log)
		t.header = err == nil
	}
	if err != nil {
		t.progress.Warn("tune log write failed", "error", err)
	}
}

// defaultPopulation is the CMA-ES population used when -population is 0.
func defaultPopulation(dim int) int {
	return 4 + 3*dim/2
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	mapPath := flag.String("map", "", "Map file (empty = config world.map_path)")
	maxTicks := flag.Int("max-ticks", 6000, "Logic tick budget per run")
	seeds := flag.Int("seeds", 4, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	// Game events are too chatty for thousands of runs.
	progress := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	base, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	path := *mapPath
	if path == "" {
		path = base.World.MapPath
	}
	layout, err := systems.LoadMap(path, systems.LegendFromConfig(base.World.Legend))
	if err != nil {
		log.Fatalf("loading map: %v", err)
	}

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	logFile, err := os.Create(filepath.Join(*outputDir, "tune_log.csv"))
	if err != nil {
		log.Fatalf("creating tune log: %v", err)
	}
	defer logFile.Close()

	t := &tuner{
		eval:     NewFitnessEvaluator(*maxTicks, evalSeeds, base, layout),
		maxEvals: *maxEvals,
		log:      logFile,
		progress: progress,
		started:  time.Now(),
	}

	dim := Dim()
	pop := *population
	if pop == 0 {
		pop = defaultPopulation(dim)
	}
	progress.Info("tune_start", "params", dim, "population", pop, "max_evals", *maxEvals, "seeds", *seeds, "max_ticks", *maxTicks)

	result, err := optimize.Minimize(
		optimize.Problem{Func: t.objective},
		FromConfig(base).Normalize(),
		&optimize.Settings{FuncEvaluations: *maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: pop},
	)
	if err != nil {
		progress.Warn("optimization ended", "error", err)
	}
	if t.evals == 0 && result != nil {
		t.best = Denormalize(result.X)
	}

	progress.Info("tune_done", "evals", t.evals, "best_fitness", t.bestFit, "elapsed", time.Since(t.started).Round(time.Second))
	for _, spec := range paramSpecs {
		fmt.Printf("%s: %.6f\n", spec.Name, *spec.field(&t.best))
	}

	bestCfg := base.Clone()
	t.best.ApplyTo(bestCfg)
	out := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		log.Printf("writing best config: %v", err)
		return
	}
	progress.Info("best config saved", "path", out)
}
