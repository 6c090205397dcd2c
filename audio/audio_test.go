package audio

import (
	"slices"
	"testing"

	"github.com/pthm-cable/antcolony/game"
)

func TestWatcherObserve(t *testing.T) {
	steps := []struct {
		name string
		c    game.ColonySnapshot
		want []Cue
	}{
		{"baseline", game.ColonySnapshot{Tick: 5, Delivered: 2}, nil},
		{"quiet", game.ColonySnapshot{Tick: 6, Delivered: 2}, nil},
		{"two deliveries one cue", game.ColonySnapshot{Tick: 8, Delivered: 4}, []Cue{CueDelivery}},
		{"death", game.ColonySnapshot{Tick: 9, Delivered: 4, Deaths: 1}, []Cue{CueDeath}},
		{"both", game.ColonySnapshot{Tick: 10, Delivered: 5, Deaths: 2}, []Cue{CueDelivery, CueDeath}},
		{"win", game.ColonySnapshot{Tick: 11, Delivered: 6, Deaths: 2, GameOver: true, Won: true}, []Cue{CueDelivery, CueWin}},
		{"over stays quiet", game.ColonySnapshot{Tick: 11, Delivered: 6, Deaths: 2, GameOver: true, Won: true}, nil},
		{"restart rebaselines", game.ColonySnapshot{Tick: 0}, nil},
		{"loss", game.ColonySnapshot{Tick: 3, GameOver: true}, []Cue{CueLoss}},
	}

	var w Watcher
	for _, s := range steps {
		if got := w.Observe(s.c); !slices.Equal(got, s.want) {
			t.Errorf("%s: cues = %v, want %v", s.name, got, s.want)
		}
	}
}

func TestNilPlayerIsSilent(t *testing.T) {
	var p *Player
	p.Play(CueWin)
	p.Close()
}

func TestCueString(t *testing.T) {
	if CueDeath.String() != "death" || Cue(99).String() != "unknown" {
		t.Errorf("unexpected names %q %q", CueDeath, Cue(99))
	}
}

func TestNewTone(t *testing.T) {
	for c := range Cue(len(tones)) {
		t.Run(c.String(), func(t *testing.T) {
			s, err := newTone(c)
			if err != nil {
				t.Fatal(err)
			}
			var buf [512][2]float64
			total := 0
			for {
				n, ok := s.Stream(buf[:])
				total += n
				if !ok || n == 0 {
					break
				}
			}
			if want := sampleRate.N(tones[c].dur); total != want {
				t.Errorf("streamed %d samples, want %d", total, want)
			}
		})
	}

	if _, err := newTone(Cue(len(tones))); err == nil {
		t.Error("expected error for unknown cue")
	}
}
