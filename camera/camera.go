// Package camera provides a 2D camera for viewing a bounded grid world.
package camera

// Camera controls the viewport into the simulation world.
// World coordinates are grid units; Scale converts them to screen pixels
// at zoom 1. The camera center is kept inside the world.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = Scale pixels per cell)
	Zoom  float32
	Scale float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions in cells
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world, zoomed to fit it.
func New(viewportW, viewportH, worldW, worldH, scale float32) *Camera {
	c := &Camera{
		Scale:     scale,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MaxZoom:   8.0,
	}
	c.updateMinZoom()
	c.Reset()
	return c
}

// FitZoom returns the zoom at which the whole world fits the viewport.
func (c *Camera) FitZoom() float32 {
	zx := c.ViewportW / (c.WorldW * c.Scale)
	zy := c.ViewportH / (c.WorldH * c.Scale)
	return min(zx, zy)
}

func (c *Camera) updateMinZoom() {
	// Allow zooming out a little past the fitted view, never beyond it by much.
	c.MinZoom = min(c.FitZoom(), 1) * 0.5
}

func (c *Camera) pixelsPerUnit() float32 { return c.Zoom * c.Scale }

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	ppu := c.pixelsPerUnit()
	sx = c.ViewportW/2 + (wx-c.X)*ppu
	sy = c.ViewportH/2 + (wy-c.Y)*ppu
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	ppu := c.pixelsPerUnit()
	wx = c.X + (sx-c.ViewportW/2)/ppu
	wy = c.Y + (sy-c.ViewportH/2)/ppu
	return wx, wy
}

// CellSize returns the on-screen size of one grid cell in pixels.
func (c *Camera) CellSize() float32 { return c.pixelsPerUnit() }

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	ppu := c.pixelsPerUnit()
	halfW := c.ViewportW/(2*ppu) + radius
	halfH := c.ViewportH/(2*ppu) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateMinZoom()
	c.SetZoom(c.Zoom)
}

// SetWorld changes the world dimensions, for example after loading a new map.
func (c *Camera) SetWorld(worldW, worldH float32) {
	c.WorldW, c.WorldH = worldW, worldH
	c.updateMinZoom()
	c.Reset()
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	ppu := c.pixelsPerUnit()
	c.X += dx / ppu
	c.Y += dy / ppu
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor keeping the world point under (sx, sy) fixed.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X += wx - nx
	c.Y += wy - ny
	c.clampCenter()
}

// Reset centers the camera and zooms to fit the world.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = clamp(c.FitZoom(), c.MinZoom, c.MaxZoom)
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	ppu := c.pixelsPerUnit()
	halfW := c.ViewportW / (2 * ppu)
	halfH := c.ViewportH / (2 * ppu)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampCenter keeps the view inside the world on each axis where the
// world is wider than the view, and centers it where it is not.
func (c *Camera) clampCenter() {
	ppu := c.pixelsPerUnit()
	c.X = clampAxis(c.X, c.ViewportW/(2*ppu), c.WorldW)
	c.Y = clampAxis(c.Y, c.ViewportH/(2*ppu), c.WorldH)
}

func clampAxis(center, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(center, half, size-half)
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
