// Package canvas implements the interactive page canvas: the pixel/point
// coordinate mapper and the pointer-driven state machine that places,
// selects, moves and resizes form fields against a rendered page.
package canvas

import "github.com/acrolay/pdf-form-editor/internal/form"

// Point is a position in device pixel space: origin top-left, y grows
// downward, scaled by the rendering zoom.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle in pixel space, anchored at its
// top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Right returns the x coordinate of the rectangle's right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether p lies inside the rectangle, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Mapper converts between device pixel space (top-left origin, y-down,
// zoom-scaled) and PDF point space (bottom-left origin, y-up, unscaled).
// The zero value is the identity mapping used when no page is loaded.
type Mapper struct {
	metrics form.PageMetrics
	scaleX  float64
	scaleY  float64
	hasPage bool
}

// NewMapper builds a mapper for a page rendered at the given pixel
// dimensions. Scale factors are derived per axis.
func NewMapper(metrics form.PageMetrics, pixelWidth, pixelHeight float64) Mapper {
	if !metrics.Valid() || pixelWidth <= 0 || pixelHeight <= 0 {
		return Mapper{}
	}
	return Mapper{
		metrics: metrics,
		scaleX:  pixelWidth / metrics.WidthPt,
		scaleY:  pixelHeight / metrics.HeightPt,
		hasPage: true,
	}
}

// NewMapperForZoom builds a mapper for a page rendered at the given zoom
// factor, where one point maps to zoom pixels.
func NewMapperForZoom(metrics form.PageMetrics, zoom float64) Mapper {
	return NewMapper(metrics, metrics.WidthPt*zoom, metrics.HeightPt*zoom)
}

// HasPage reports whether the mapper is bound to page metrics. Without a
// page all conversions are the identity.
func (m Mapper) HasPage() bool { return m.hasPage }

// Metrics returns the bound page metrics.
func (m Mapper) Metrics() form.PageMetrics { return m.metrics }

// Scale returns the per-axis pixel-per-point scale factors.
func (m Mapper) Scale() (sx, sy float64) {
	if !m.hasPage {
		return 1.0, 1.0
	}
	return m.scaleX, m.scaleY
}

// PixelSize returns the rendered page size in pixels.
func (m Mapper) PixelSize() (w, h float64) {
	sx, sy := m.Scale()
	return m.metrics.WidthPt * sx, m.metrics.HeightPt * sy
}

// PixelToPoint converts a pixel position to point space, flipping the
// vertical axis.
func (m Mapper) PixelToPoint(p Point) (xPt, yPt float64) {
	sx, sy := m.Scale()
	if !m.hasPage {
		return p.X, p.Y
	}
	return p.X / sx, m.metrics.HeightPt - p.Y/sy
}

// PointToPixel is the exact inverse of PixelToPoint.
func (m Mapper) PointToPixel(xPt, yPt float64) Point {
	sx, sy := m.Scale()
	if !m.hasPage {
		return Point{X: xPt, Y: yPt}
	}
	return Point{
		X: xPt * sx,
		Y: (m.metrics.HeightPt - yPt) * sy,
	}
}

// FieldRect returns the field's rectangle in pixel space. Point-space
// rectangles are anchored bottom-left while pixel-space rectangles are
// anchored top-left, so the top edge derives from y+height.
func (m Mapper) FieldRect(f *form.Field) Rect {
	sx, sy := m.Scale()
	if !m.hasPage {
		return Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
	}
	return Rect{
		X:      f.X * sx,
		Y:      (m.metrics.HeightPt - (f.Y + f.Height)) * sy,
		Width:  f.Width * sx,
		Height: f.Height * sy,
	}
}
