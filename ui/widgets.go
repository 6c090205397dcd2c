package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws panel chrome and rows in one theme.
type Renderer struct {
	Theme Theme
}

func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel fills a bordered panel background.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

func (r *Renderer) rowHeight(k RowKind) int32 {
	if k == RowBar {
		return r.Theme.LineHeight + 2
	}
	return r.Theme.LineHeight
}

func (r *Renderer) drawRow(x, y, width int32, kind RowKind, label, text string, value float64, c rl.Color) {
	t := r.Theme
	rl.DrawText(label+":", x, y, t.FontSize, t.LabelColor)
	vx := x + t.LabelWidth

	switch kind {
	case RowBar:
		v := min(max(value, 0), 1)
		w := width - t.LabelWidth - 50
		rl.DrawRectangle(vx, y+2, w, t.BarHeight, t.BarBg)
		rl.DrawRectangle(vx, y+2, int32(float64(w)*v), t.BarHeight, t.BarFill)
		rl.DrawText(fmt.Sprintf("%.2f", v), vx+w+5, y, t.FontSize, t.ValueColor)
	case RowSwatch:
		rl.DrawRectangle(vx, y+1, 12, 12, c)
	default:
		rl.DrawText(text, vx, y, t.FontSize, t.ValueColor)
	}
}

// RowString is the text a RowText row shows for data.
func RowString[T any](row Row[T], data T) string {
	switch {
	case row.Text != nil:
		return row.Text(data)
	case row.Value != nil:
		return fmt.Sprintf("%.2f", row.Value(data))
	}
	return ""
}

// layoutSections walks the visible sections of a panel, drawing them when
// draw is set, and returns the height used.
func layoutSections[T any](r *Renderer, x, y, width int32, sections []Section[T], data T, draw bool) int32 {
	top := y
	for _, s := range sections {
		if s.Show != nil && !s.Show(data) {
			continue
		}
		if s.Title != "" {
			if draw {
				rl.DrawText(s.Title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
			}
			y += r.Theme.LineHeight
		}
		for _, row := range s.Rows {
			if row.Show != nil && !row.Show(data) {
				continue
			}
			if draw {
				var v float64
				if row.Value != nil {
					v = row.Value(data)
				}
				c := rl.Gray
				if row.Color != nil {
					c = row.Color(data)
				}
				r.drawRow(x, y, width, row.Kind, row.Label, RowString(row, data), v, c)
			}
			y += r.rowHeight(row.Kind)
		}
		y += 4
	}
	return y - top
}

// SectionsHeight measures a panel without drawing it.
func SectionsHeight[T any](r *Renderer, sections []Section[T], data T) int32 {
	return layoutSections(r, 0, 0, 0, sections, data, false)
}

// DrawSections draws a panel's sections at (x, y) and returns the height used.
func DrawSections[T any](r *Renderer, x, y, width int32, sections []Section[T], data T) int32 {
	return layoutSections(r, x, y, width, sections, data, true)
}
