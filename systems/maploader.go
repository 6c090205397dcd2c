package systems

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"

	"github.com/pthm-cable/antcolony/config"
)

// Map loading errors. A *MapError wraps one of these.
var (
	ErrEmptyMap       = errors.New("map is empty")
	ErrNotRectangular = errors.New("map rows differ in width")
	ErrUnknownGlyph   = errors.New("unknown map glyph")
	ErrNoHome         = errors.New("map has no home cell")
	ErrMultipleHomes  = errors.New("map has more than one home cell")
)

// MapError is a configuration error found while loading a map.
// Line and Col are 1-based; zero means the error is not tied to a position.
type MapError struct {
	Line, Col int
	Err       error
}

func (e *MapError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("map: %v", e.Err)
	}
	return fmt.Sprintf("map:%d:%d: %v", e.Line, e.Col, e.Err)
}

func (e *MapError) Unwrap() error { return e.Err }

// Layout is a parsed map: immutable cell kinds and the home cell.
type Layout struct {
	W, H  int
	Kinds []CellKind
	Home  image.Point
}

// KindAt returns the kind of cell (x, y); out-of-bounds cells are Border.
func (l *Layout) KindAt(x, y int) CellKind {
	if x < 0 || y < 0 || x >= l.W || y >= l.H {
		return CellBorder
	}
	return l.Kinds[y*l.W+x]
}

// Legend maps glyphs to cell kinds.
type Legend map[rune]CellKind

// DefaultLegend is the built-in glyph set.
func DefaultLegend() Legend {
	return Legend{
		'.': CellGround, ' ': CellGround,
		'#': CellBorder,
		'F': CellResource, '*': CellResource,
		'X': CellHazard, '~': CellHazard,
		'H': CellHome,
	}
}

// LegendFromConfig builds a legend from the configured glyph strings.
// An entirely empty legend config yields DefaultLegend.
func LegendFromConfig(c config.LegendConfig) Legend {
	if c == (config.LegendConfig{}) {
		return DefaultLegend()
	}
	l := Legend{}
	add := func(glyphs string, k CellKind) {
		for _, r := range glyphs {
			l[r] = k
		}
	}
	add(c.Ground, CellGround)
	add(c.Border, CellBorder)
	add(c.Resource, CellResource)
	add(c.Hazard, CellHazard)
	add(c.Home, CellHome)
	return l
}

// ParseMap reads a rectangular text map. Exactly one home cell is required.
// Blank lines at the end of the input are ignored.
func ParseMap(r io.Reader, legend Legend) (*Layout, error) {
	if legend == nil {
		legend = DefaultLegend()
	}

	var rows [][]rune
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		rows = append(rows, []rune(strings.TrimRight(sc.Text(), "\r")))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading map: %w", err)
	}
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, &MapError{Err: ErrEmptyMap}
	}

	w := len(rows[0])
	l := &Layout{W: w, H: len(rows), Kinds: make([]CellKind, w*len(rows))}
	homes := 0
	for y, row := range rows {
		if len(row) != w {
			return nil, &MapError{Line: y + 1, Col: min(len(row), w) + 1,
				Err: fmt.Errorf("%w: row has %d cells, want %d", ErrNotRectangular, len(row), w)}
		}
		for x, glyph := range row {
			k, ok := legend[glyph]
			if !ok {
				return nil, &MapError{Line: y + 1, Col: x + 1, Err: fmt.Errorf("%w %q", ErrUnknownGlyph, glyph)}
			}
			if k == CellHome {
				homes++
				if homes > 1 {
					return nil, &MapError{Line: y + 1, Col: x + 1, Err: ErrMultipleHomes}
				}
				l.Home = image.Point{X: x, Y: y}
			}
			l.Kinds[y*w+x] = k
		}
	}
	if homes == 0 {
		return nil, &MapError{Err: ErrNoHome}
	}
	return l, nil
}

// LoadMap parses the map at path, or the embedded default map when path is empty.
func LoadMap(path string, legend Legend) (*Layout, error) {
	if path == "" {
		return ParseMap(strings.NewReader(config.DefaultMap), legend)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening map: %w", err)
	}
	defer f.Close()
	return ParseMap(f, legend)
}

// String renders the layout back to text with the first glyph of each kind.
func (l *Layout) String() string {
	glyph := [...]byte{'.', '#', 'F', 'X', 'H'}
	var b strings.Builder
	b.Grow((l.W + 1) * l.H)
	for y := 0; y < l.H; y++ {
		for x := 0; x < l.W; x++ {
			b.WriteByte(glyph[l.Kinds[y*l.W+x]])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
