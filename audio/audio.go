// Package audio plays short tones when colony counters change.
package audio

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/antcolony/game"
)

const sampleRate = beep.SampleRate(44100)

// Cue is a colony event with a tone.
type Cue uint8

const (
	CueDelivery Cue = iota
	CueDeath
	CueWin
	CueLoss
)

var cueNames = [...]string{"delivery", "death", "win", "loss"}

func (c Cue) String() string {
	if int(c) < len(cueNames) {
		return cueNames[c]
	}
	return "unknown"
}

type tone struct {
	freq float64
	dur  time.Duration
}

var tones = [...]tone{
	CueDelivery: {880, 60 * time.Millisecond},
	CueDeath:    {220, 120 * time.Millisecond},
	CueWin:      {1320, 300 * time.Millisecond},
	CueLoss:     {110, 400 * time.Millisecond},
}

// Player owns the speaker.
type Player struct {
	closed bool
}

// NewPlayer initialises the speaker. The caller must Close it.
func NewPlayer() (*Player, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Player{}, nil
}

// Play queues the tone for c.
func (p *Player) Play(c Cue) {
	if p == nil || p.closed {
		return
	}
	s, err := newTone(c)
	if err != nil {
		slog.Warn("tone unavailable", "cue", c.String(), "error", err)
		return
	}
	speaker.Play(s)
}

// newTone returns the finite sine burst for c.
func newTone(c Cue) (beep.Streamer, error) {
	if int(c) >= len(tones) {
		return nil, fmt.Errorf("no tone for cue %d", c)
	}
	t := tones[c]
	sine, err := generators.SineTone(sampleRate, t.freq)
	if err != nil {
		return nil, fmt.Errorf("%s tone: %w", c, err)
	}
	return beep.Take(sampleRate.N(t.dur), sine), nil
}

// Close stops playback and releases the device.
func (p *Player) Close() {
	if p == nil || p.closed {
		return
	}
	p.closed = true
	speaker.Close()
}

// Watcher turns changes between colony snapshots into cues.
type Watcher struct {
	primed    bool
	tick      int
	delivered int
	deaths    int
	over      bool
}

// Observe returns the cues for everything that happened since the last
// call. The first call, and the first after a restart, only records a
// baseline. Each counter contributes at most one cue per call.
func (w *Watcher) Observe(c game.ColonySnapshot) []Cue {
	if !w.primed || c.Tick < w.tick {
		w.reset(c)
		return nil
	}

	var cues []Cue
	if c.Delivered > w.delivered {
		cues = append(cues, CueDelivery)
	}
	if c.Deaths > w.deaths {
		cues = append(cues, CueDeath)
	}
	if c.GameOver && !w.over {
		if c.Won {
			cues = append(cues, CueWin)
		} else {
			cues = append(cues, CueLoss)
		}
	}
	w.reset(c)
	return cues
}

func (w *Watcher) reset(c game.ColonySnapshot) {
	w.primed = true
	w.tick = c.Tick
	w.delivered = c.Delivered
	w.deaths = c.Deaths
	w.over = c.GameOver
}
