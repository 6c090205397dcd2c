package camera

import (
	"math"
	"testing"
)

// 40x30 cell world at 16 px per cell in a 1280x720 viewport.
func newTestCamera() *Camera {
	return New(1280, 720, 40, 30, 16)
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := newTestCamera()

	if cam.X != 20 || cam.Y != 15 {
		t.Errorf("expected camera at (20, 15), got (%f, %f)", cam.X, cam.Y)
	}
	// Fit = min(1280/640, 720/480) = 1.5
	if cam.Zoom != 1.5 {
		t.Errorf("expected fitted zoom 1.5, got %f", cam.Zoom)
	}
	if cam.CellSize() != 24 {
		t.Errorf("expected 24px cells, got %f", cam.CellSize())
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := newTestCamera()

	sx, sy := cam.WorldToScreen(20, 15)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(3)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanStaysInWorld(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float32
		wantX  float32
		wantY  float32
	}{
		// At zoom 4 a cell is 64px: the view is 20 x 11.25 cells.
		{"far left", -10000, 0, 10, 15},
		{"far right", 10000, 0, 30, 15},
		{"far up", 0, -10000, 20, 5.625},
		{"small step", 64, 0, 21, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newTestCamera()
			cam.SetZoom(4)
			cam.Pan(tt.dx, tt.dy)
			if !near(cam.X, tt.wantX) || !near(cam.Y, tt.wantY) {
				t.Errorf("center = (%f, %f), want (%f, %f)", cam.X, cam.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestZoomedOutCentersWorld(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(cam.MinZoom)
	cam.Pan(500, -500)

	if cam.X != 20 || cam.Y != 15 {
		t.Errorf("world smaller than view should stay centered, got (%f, %f)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := newTestCamera()

	// MinZoom = min(fit 1.5, 1) * 0.5
	if cam.MinZoom != 0.5 {
		t.Errorf("expected MinZoom 0.5, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1)
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestZoomAtKeepsPointFixed(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(4)

	wx, wy := cam.ScreenToWorld(800, 400)
	cam.ZoomAt(800, 400, 1.25)
	gx, gy := cam.ScreenToWorld(800, 400)

	if cam.Zoom != 5 {
		t.Fatalf("zoom = %f, want 5", cam.Zoom)
	}
	if !near(wx, gx) || !near(wy, gy) {
		t.Errorf("point under cursor moved: (%f,%f) -> (%f,%f)", wx, wy, gx, gy)
	}
}

func TestIsVisible(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(4) // View spans x in [10, 30]

	if !cam.IsVisible(20, 15, 0.5) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(35, 15, 1) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(31, 15, 2) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestResize(t *testing.T) {
	cam := newTestCamera()
	cam.Resize(320, 240)

	// Fit = min(320/640, 240/480) = 0.5
	if cam.MinZoom != 0.25 {
		t.Errorf("expected MinZoom 0.25 after resize, got %f", cam.MinZoom)
	}
}

func TestReset(t *testing.T) {
	cam := newTestCamera()
	cam.SetZoom(4)
	cam.Pan(300, 300)

	cam.Reset()

	if cam.X != 20 || cam.Y != 15 {
		t.Errorf("expected position (20, 15), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.5 {
		t.Errorf("expected fitted zoom 1.5, got %f", cam.Zoom)
	}
}
