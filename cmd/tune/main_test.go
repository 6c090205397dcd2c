package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestTunerRecordWritesHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	tn := &tuner{log: &buf, progress: slog.New(slog.NewTextHandler(io.Discard, nil))}

	for i := 1; i <= 3; i++ {
		tn.evals = i
		tn.record(Params{}, Evaluation{Fitness: float64(i)})
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "eval,fitness,") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(buf.String(), "eval,") != 1 {
		t.Error("header written more than once")
	}
}

func TestDefaultPopulation(t *testing.T) {
	if got := defaultPopulation(Dim()); got < 4+Dim() {
		t.Errorf("population %d too small for %d params", got, Dim())
	}
}
