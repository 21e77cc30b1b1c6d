// surface.go — Software raster surface with the 2D primitives the style
// renderers and the video frame loop need: flat and gradient fills,
// circles/ellipses, polygon fill, strokes, cover-fit image draw and a
// partial alpha erase. Everything is deterministic: no randomness, no
// float state carried between calls.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Surface is a drawable RGBA raster. It is exclusively owned by the
// generation call that created it and is not safe for concurrent use.
type Surface struct {
	img *image.RGBA
}

// Point is a 2D coordinate in pixel space.
type Point struct {
	X, Y float64
}

// Stop is a single gradient color stop at position 0–1.
type Stop struct {
	Pos   float64
	Color color.RGBA
}

// NewSurface allocates a w×h surface with all pixels transparent black.
func NewSurface(w, h int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// Image exposes the backing raster for encoding.
func (s *Surface) Image() *image.RGBA { return s.img }

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Bounds().Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// Fill paints the whole surface with c, replacing existing pixels.
func (s *Surface) Fill(c color.RGBA) {
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
}

// FillRect paints the rectangle [x0,x1)×[y0,y1) with c using src-over
// blending, so translucent accents composite onto the background.
func (s *Surface) FillRect(x0, y0, x1, y1 int, c color.RGBA) {
	r := image.Rect(x0, y0, x1, y1).Intersect(s.img.Bounds())
	draw.Draw(s.img, r, &image.Uniform{c}, image.Point{}, draw.Over)
}

// LinearGradient fills the whole surface with a gradient running from
// (x0,y0) to (x1,y1). Pixels beyond the endpoints clamp to the first or
// last stop.
func (s *Surface) LinearGradient(x0, y0, x1, y1 float64, stops []Stop) {
	dx, dy := x1-x0, y1-y0
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		lenSq = 1
	}

	b := s.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := ((float64(x)-x0)*dx + (float64(y)-y0)*dy) / lenSq
			s.img.SetRGBA(x, y, colorAt(stops, t))
		}
	}
}

// RadialGradient fills the whole surface with a gradient radiating from
// (cx,cy) out to radius.
func (s *Surface) RadialGradient(cx, cy, radius float64, stops []Stop) {
	if radius <= 0 {
		radius = 1
	}
	b := s.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := math.Hypot(float64(x)-cx, float64(y)-cy) / radius
			s.img.SetRGBA(x, y, colorAt(stops, t))
		}
	}
}

// colorAt interpolates the stop list at position t (clamped to 0–1).
func colorAt(stops []Stop, t float64) color.RGBA {
	if len(stops) == 0 {
		return color.RGBA{}
	}
	if t <= stops[0].Pos {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Pos {
		return last.Color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Pos {
			a, b := stops[i-1], stops[i]
			span := b.Pos - a.Pos
			if span <= 0 {
				return b.Color
			}
			return lerpColor(a.Color, b.Color, (t-a.Pos)/span)
		}
	}
	return last.Color
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// FillCircle paints a filled circle of radius r centered at (cx,cy)
// with src-over blending.
func (s *Surface) FillCircle(cx, cy, r float64, c color.RGBA) {
	s.FillEllipse(cx, cy, r, r, c)
}

// FillEllipse paints a filled axis-aligned ellipse with src-over blending.
func (s *Surface) FillEllipse(cx, cy, rx, ry float64, c color.RGBA) {
	if rx <= 0 || ry <= 0 {
		return
	}
	minY := int(math.Floor(cy - ry))
	maxY := int(math.Ceil(cy + ry))
	for y := minY; y <= maxY; y++ {
		dy := (float64(y) + 0.5 - cy) / ry
		if dy < -1 || dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		x0 := int(math.Round(cx - half))
		x1 := int(math.Round(cx + half))
		s.blendSpan(x0, x1, y, c)
	}
}

// FillPolygon paints a closed polygon using even-odd scanline filling.
// Curved outlines are flattened by the caller (see QuadTo).
func (s *Surface) FillPolygon(pts []Point, c color.RGBA) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		sy := float64(y) + 0.5
		var xs []float64
		for i := range pts {
			a := pts[i]
			b := pts[(i+1)%len(pts)]
			if (a.Y <= sy && b.Y > sy) || (b.Y <= sy && a.Y > sy) {
				t := (sy - a.Y) / (b.Y - a.Y)
				xs = append(xs, a.X+t*(b.X-a.X))
			}
		}
		sortFloats(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			s.blendSpan(int(math.Round(xs[i])), int(math.Round(xs[i+1])), y, c)
		}
	}
}

// QuadTo appends a quadratic curve from the last point of pts to (x,y)
// with control point (cx,cy), flattened into a fixed number of segments
// so the outline is identical on every run.
func QuadTo(pts []Point, cx, cy, x, y float64) []Point {
	const segments = 16
	if len(pts) == 0 {
		return append(pts, Point{x, y})
	}
	start := pts[len(pts)-1]
	for i := 1; i <= segments; i++ {
		t := float64(i) / segments
		u := 1 - t
		px := u*u*start.X + 2*u*t*cx + t*t*x
		py := u*u*start.Y + 2*u*t*cy + t*t*y
		pts = append(pts, Point{px, py})
	}
	return pts
}

// StrokeRect draws a rectangle outline of the given line width.
func (s *Surface) StrokeRect(x, y, w, h, lineWidth float64, c color.RGBA) {
	half := lineWidth / 2
	s.FillRect(round(x-half), round(y-half), round(x+w+half), round(y+half), c)         // top
	s.FillRect(round(x-half), round(y+h-half), round(x+w+half), round(y+h+half), c)     // bottom
	s.FillRect(round(x-half), round(y+half), round(x+half), round(y+h-half), c)         // left
	s.FillRect(round(x+w-half), round(y+half), round(x+w+half), round(y+h-half), c)     // right
}

// VLine draws a vertical line spanning the full surface height.
func (s *Surface) VLine(x, lineWidth float64, c color.RGBA) {
	half := lineWidth / 2
	s.FillRect(round(x-half), 0, round(x+half), s.Height(), c)
}

// HLine draws a horizontal line segment of the given thickness.
func (s *Surface) HLine(x0, x1, y, lineWidth float64, c color.RGBA) {
	half := lineWidth / 2
	s.FillRect(round(x0), round(y-half), round(x1), round(y+half), c)
}

// DrawImageCover scales src to fill the surface while preserving aspect
// ratio, cropping overflow symmetrically (CSS "cover" semantics).
func (s *Surface) DrawImageCover(src image.Image) {
	sw := float64(src.Bounds().Dx())
	sh := float64(src.Bounds().Dy())
	if sw == 0 || sh == 0 {
		return
	}
	w := float64(s.Width())
	h := float64(s.Height())

	scale := math.Max(w/sw, h/sh)
	dw := sw * scale
	dh := sh * scale
	offX := (w - dw) / 2
	offY := (h - dh) / 2

	dst := image.Rect(round(offX), round(offY), round(offX+dw), round(offY+dh))
	xdraw.ApproxBiLinear.Scale(s.img, dst, src, src.Bounds(), xdraw.Src, nil)
}

// DrawImageStretch scales src to the full surface, ignoring aspect ratio.
func (s *Surface) DrawImageStretch(src image.Image) {
	xdraw.ApproxBiLinear.Scale(s.img, s.img.Bounds(), src, src.Bounds(), xdraw.Src, nil)
}

// EraseRect multiplies every channel inside the rectangle by
// (1 - fraction), the raster equivalent of a destination-out fill with
// a translucent source. Repeated calls compound.
func (s *Surface) EraseRect(x0, y0, x1, y1 int, fraction float64) {
	fraction = math.Min(1, math.Max(0, fraction))
	keep := 1 - fraction
	r := image.Rect(x0, y0, x1, y1).Intersect(s.img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := s.img.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			// Pixels are alpha-premultiplied, so all four channels scale.
			s.img.Pix[i+0] = uint8(float64(s.img.Pix[i+0]) * keep)
			s.img.Pix[i+1] = uint8(float64(s.img.Pix[i+1]) * keep)
			s.img.Pix[i+2] = uint8(float64(s.img.Pix[i+2]) * keep)
			s.img.Pix[i+3] = uint8(float64(s.img.Pix[i+3]) * keep)
			i += 4
		}
	}
}

// blendSpan src-over blends c across the horizontal span [x0,x1] at row y.
func (s *Surface) blendSpan(x0, x1, y int, c color.RGBA) {
	b := s.img.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	x0 = max(x0, b.Min.X)
	x1 = min(x1, b.Max.X-1)
	if c.A == 255 {
		i := s.img.PixOffset(x0, y)
		for x := x0; x <= x1; x++ {
			s.img.Pix[i+0] = c.R
			s.img.Pix[i+1] = c.G
			s.img.Pix[i+2] = c.B
			s.img.Pix[i+3] = 255
			i += 4
		}
		return
	}
	sa := uint32(c.A)
	// Premultiply source once per span.
	sr := uint32(c.R) * sa / 255
	sg := uint32(c.G) * sa / 255
	sb := uint32(c.B) * sa / 255
	inv := 255 - sa
	i := s.img.PixOffset(x0, y)
	for x := x0; x <= x1; x++ {
		s.img.Pix[i+0] = uint8(sr + uint32(s.img.Pix[i+0])*inv/255)
		s.img.Pix[i+1] = uint8(sg + uint32(s.img.Pix[i+1])*inv/255)
		s.img.Pix[i+2] = uint8(sb + uint32(s.img.Pix[i+2])*inv/255)
		s.img.Pix[i+3] = uint8(sa + uint32(s.img.Pix[i+3])*inv/255)
		i += 4
	}
}

func sortFloats(xs []float64) {
	// Insertion sort: crossing lists per scanline are tiny.
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
