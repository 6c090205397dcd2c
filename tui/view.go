// Package tui draws a running colony in a terminal, one character per
// grid cell, and maps key presses to the game entry points.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/antcolony/audio"
	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/game"
	"github.com/pthm-cable/antcolony/systems"
)

const statusRows = 2

// View renders a Game onto a tcell screen.
type View struct {
	game   *game.Game
	screen tcell.Screen
	snap   game.Snapshot

	offX, offY   int
	showHome     bool
	showResource bool
	frame        time.Duration

	sound *audio.Player
	watch audio.Watcher
}

// New creates a view over an initialised screen.
func New(g *game.Game, screen tcell.Screen) *View {
	frame := time.Duration(g.Config().Physics.FrameDT * float64(time.Second))
	if frame <= 0 {
		frame = 16 * time.Millisecond
	}
	v := &View{
		game:         g,
		screen:       screen,
		showHome:     true,
		showResource: true,
		frame:        frame,
	}
	g.SnapshotInto(&v.snap)
	return v
}

// SetSound plays colony event tones through p. Nil disables sound.
func (v *View) SetSound(p *audio.Player) {
	v.sound = p
	v.watch.Observe(v.snap.Colony)
}

// Run drives the game from wall time until the player quits or ctx is done.
func (v *View) Run(ctx context.Context) error {
	ticker := time.NewTicker(v.frame)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	last := time.Now()
	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-events:
			if !v.HandleEvent(ev) {
				return nil
			}
			v.Draw()

		case now := <-ticker.C:
			v.game.Update(now.Sub(last).Seconds())
			last = now
			v.game.SnapshotInto(&v.snap)
			v.playCues()
			v.Draw()
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the
// player asked to quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		v.clampOffset()
		return true

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			v.offX--
		case tcell.KeyRight:
			v.offX++
		case tcell.KeyUp:
			v.offY--
		case tcell.KeyDown:
			v.offY++
		case tcell.KeyRune:
			return v.handleRune(ev.Rune())
		}
		v.clampOffset()
	}
	return true
}

func (v *View) handleRune(r rune) bool {
	g := v.game
	switch r {
	case 'q':
		return false
	case ' ':
		g.TogglePause()
	case 'r':
		g.Restart()
	case '1':
		v.setDirective(components.DirectiveExplore)
	case '2':
		v.setDirective(components.DirectiveHarvest)
	case '3':
		v.setDirective(components.DirectiveDefend)
	case '+', '=':
		v.setSpeed(game.StepSpeed(g.Speed(), 1))
	case '-':
		v.setSpeed(game.StepSpeed(g.Speed(), -1))
	case 'h':
		v.showHome = !v.showHome
	case 'f':
		v.showResource = !v.showResource
	case 'c':
		if err := clipboard.WriteAll(Summary(v.snap.Colony)); err != nil {
			slog.Debug("clipboard_failed", "error", err)
		}
	}
	g.SnapshotInto(&v.snap)
	return true
}

func (v *View) playCues() {
	if v.sound == nil {
		return
	}
	for _, c := range v.watch.Observe(v.snap.Colony) {
		v.sound.Play(c)
	}
}

func (v *View) setDirective(d components.Directive) {
	if v.snap.Colony.Directive == d {
		return
	}
	if err := v.game.SetDirective(d); err != nil {
		slog.Debug("directive_rejected", "directive", d.String(), "error", err)
	}
}

func (v *View) setSpeed(s float64) {
	if err := v.game.SetSpeedMultiplier(s); err != nil {
		slog.Debug("speed_rejected", "speed", s, "error", err)
	}
}

// clampOffset keeps the scroll offset inside the part of the grid that
// does not fit on screen.
func (v *View) clampOffset() {
	w, h := v.screen.Size()
	h -= statusRows
	v.offX = min(max(v.offX, 0), max(v.snap.W-w, 0))
	v.offY = min(max(v.offY, 0), max(v.snap.H-h, 0))
}

// Draw renders the latest snapshot and shows the screen.
func (v *View) Draw() {
	s := &v.snap
	scr := v.screen
	scr.Clear()

	w, h := scr.Size()
	rows := h - statusRows
	for sy := 0; sy < rows; sy++ {
		y := sy + v.offY
		if y >= s.H {
			break
		}
		for sx := 0; sx < w; sx++ {
			x := sx + v.offX
			if x >= s.W {
				break
			}
			ch, style := CellGlyph(s.Cell(x, y), v.showHome, v.showResource)
			scr.SetContent(sx, sy, ch, nil, style)
		}
	}

	for i := range s.Agents {
		a := &s.Agents[i]
		c := systems.CellOf(a.Pos)
		sx, sy := c.X-v.offX, c.Y-v.offY
		if sx < 0 || sy < 0 || sx >= w || sy >= rows {
			continue
		}
		_, _, bg, _ := scr.GetContent(sx, sy)
		_, bgColor, _ := bg.Decompose()
		ch, style := AgentGlyph(*a)
		scr.SetContent(sx, sy, ch, nil, style.Background(bgColor))
	}

	v.drawStatus(w, h)
	scr.Show()
}

func (v *View) drawStatus(w, h int) {
	c := v.snap.Colony
	line1 := " " + Summary(c)
	line2 := " [1-3] directive [space] pause [r] restart [+/-] speed [h/f] fields [c] copy [q] quit"

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	if c.GameOver {
		style = style.Background(tcell.ColorMaroon)
		if c.Won {
			style = style.Background(tcell.ColorDarkGreen)
		}
	}
	drawText(v.screen, 0, h-2, w, line1, style)
	drawText(v.screen, 0, h-1, w, line2, tcell.StyleDefault.Foreground(tcell.ColorSilver))
}

// Summary is a one-line account of the colony, as shown in the status bar.
func Summary(c game.ColonySnapshot) string {
	state := "running"
	switch {
	case c.GameOver:
		state = c.Outcome.String()
	case c.Paused:
		state = "paused"
	}
	return fmt.Sprintf("%s  %s  resources %d/%d  alive %d  delivered %d  deaths %d  dry %d  tick %d  speed %.2gx",
		state, c.Directive, c.ResourceCount, c.ResourceGoal, c.Alive, c.Delivered, c.Deaths, c.SinceDelivery, c.Tick, c.Speed)
}

func drawText(scr tcell.Screen, x, y, w int, text string, style tcell.Style) {
	if y < 0 {
		return
	}
	i := 0
	for _, r := range text {
		if x+i >= w {
			return
		}
		scr.SetContent(x+i, y, r, nil, style)
		i++
	}
	for ; x+i < w; i++ {
		scr.SetContent(x+i, y, ' ', nil, style)
	}
}

// CellGlyph returns the character and style for one grid cell. Ground
// cells are shaded by pheromone, home in blue and resource in green.
func CellGlyph(c game.CellSnapshot, showHome, showResource bool) (rune, tcell.Style) {
	base := tcell.StyleDefault
	switch c.Kind {
	case systems.CellBorder:
		return '#', base.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)
	case systems.CellHazard:
		return '~', base.Foreground(tcell.ColorRed).Background(tcell.NewRGBColor(60, 0, 0))
	case systems.CellResource:
		return '*', base.Foreground(tcell.ColorYellow).Background(tcell.NewRGBColor(40, 30, 0))
	case systems.CellHome:
		return 'H', base.Foreground(tcell.ColorWhite).Background(tcell.ColorBlue)
	}

	var home, res float64
	if showHome {
		home = c.Home
	}
	if showResource {
		res = c.Resource
	}
	bg := tcell.NewRGBColor(8, int32(8+res*150), int32(8+home*150))
	ch := ' '
	if c.Revealed {
		ch = '.'
	}
	return ch, base.Foreground(tcell.ColorGreen).Background(bg)
}

// AgentGlyph returns the character and foreground style for an agent.
// A carrying agent is drawn in upper case.
func AgentGlyph(a game.AgentSnapshot) (rune, tcell.Style) {
	base := tcell.StyleDefault.Bold(true)
	switch a.State {
	case components.StateExplore:
		return 'e', base.Foreground(tcell.ColorAqua)
	case components.StateHarvest:
		return 'h', base.Foreground(tcell.ColorLime)
	case components.StateReturn:
		if a.Carrying {
			return 'R', base.Foreground(tcell.ColorOrange)
		}
		return 'r', base.Foreground(tcell.ColorOrange)
	case components.StateDefend:
		return 'd', base.Foreground(tcell.ColorFuchsia)
	}
	return 'x', tcell.StyleDefault.Foreground(tcell.ColorGray)
}
