package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/antcolony/config"
)

// csvSink appends rows of T to one CSV file, writing the header with the
// first batch.
type csvSink[T any] struct {
	name   string
	f      *os.File
	header bool
}

func openSink[T any](dir, name string) (*csvSink[T], error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvSink[T]{name: name, f: f}, nil
}

func (s *csvSink[T]) write(rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	var err error
	if s.header {
		err = gocsv.MarshalWithoutHeaders(rows, s.f)
	} else {
		err = gocsv.Marshal(rows, s.f)
		s.header = err == nil
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", s.name, err)
	}
	return nil
}

func (s *csvSink[T]) close() error {
	if s == nil {
		return nil
	}
	return s.f.Close()
}

// OutputManager writes a run directory: config.yaml plus telemetry.csv,
// perf.csv and events.csv. A nil manager discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvSink[WindowStats]
	perf      *csvSink[PerfStatsCSV]
	events    *csvSink[Event]
}

// NewOutputManager creates dir and its CSV files. An empty dir disables
// output and returns a nil manager.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.telemetry, err = openSink[WindowStats](dir, "telemetry.csv"); err != nil {
		return nil, err
	}
	if om.perf, err = openSink[PerfStatsCSV](dir, "perf.csv"); err != nil {
		om.Close()
		return nil, err
	}
	if om.events, err = openSink[Event](dir, "events.csv"); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the run's configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.write([]WindowStats{stats})
}

// WritePerf appends the perf window that closed at logic tick windowEnd.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)})
}

func (om *OutputManager) WriteEvents(events []Event) error {
	if om == nil {
		return nil
	}
	return om.events.write(events)
}

func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every file and reports all failures.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.telemetry.close(), om.perf.close(), om.events.close())
}
