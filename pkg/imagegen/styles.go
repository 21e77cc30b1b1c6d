// styles.go — The five style renderers. Each paints directly onto the
// surface from the prompt and its derived hues; "randomness" in the
// vibrant scatter is repeated transforms of the prompt hash, so every
// style is fully reproducible.
package imagegen

import (
	"image/color"
	"math"

	"golang.org/x/image/font"

	"github.com/xob0t/GoPromoGen/pkg/classify"
	"github.com/xob0t/GoPromoGen/pkg/palette"
	"github.com/xob0t/GoPromoGen/pkg/render"
)

var white = color.RGBA{255, 255, 255, 255}

// alpha converts a 0–1 opacity to an 8-bit alpha channel.
func alpha(opacity float64) uint8 {
	return uint8(math.Round(opacity * 255))
}

// promptFace returns the bold face used for the shared text block.
func (g *Generator) promptFace(s *render.Surface) (font.Face, float64) {
	size := float64(min(s.Width(), s.Height())) / 15
	face, err := g.fonts.Face(render.Bold, size)
	if err != nil {
		// Embedded fonts parse at init; a face failure here is a
		// programming error.
		panic(err)
	}
	return face, size
}

func (g *Generator) renderPoster(s *render.Surface, prompt string, hue1, hue2 int) {
	w := float64(s.Width())
	h := float64(s.Height())

	s.LinearGradient(0, 0, w, h, []render.Stop{
		{Pos: 0, Color: palette.HSL(hue1, 70, 30)},
		{Pos: 1, Color: palette.HSL(hue2, 60, 20)},
	})

	// Compositional accents: one translucent rectangle, one circle.
	s.FillRect(round(w*0.1), round(h*0.2), round(w*0.4), round(h*0.8),
		palette.HSLA(hue1, 80, 50, alpha(0.3)))
	s.FillCircle(w*0.7, h*0.5, w*0.25, palette.HSLA(hue2, 70, 60, alpha(0.2)))

	face, size := g.promptFace(s)
	s.DrawTextBlock(prompt, white, face, size)
}

func (g *Generator) renderGradient(s *render.Surface, prompt string, hue1, hue2, hue3 int) {
	w := float64(s.Width())
	h := float64(s.Height())

	s.RadialGradient(w*0.4, h*0.4, w*0.7, []render.Stop{
		{Pos: 0, Color: palette.HSL(hue1, 80, 60)},
		{Pos: 0.5, Color: palette.HSL(hue2, 75, 55)},
		{Pos: 1, Color: palette.HSL(hue3, 70, 40)},
	})

	// Faint vertical guide lines.
	guide := palette.HSLA(hue1, 60, 80, alpha(0.1))
	for i := 0; i < 20; i++ {
		s.VLine(w/20*float64(i), 2, guide)
	}

	face, size := g.promptFace(s)
	s.DrawTextBlock(prompt, white, face, size)
}

func (g *Generator) renderMinimal(s *render.Surface, prompt string, hue1 int) {
	w := float64(s.Width())
	h := float64(s.Height())

	s.Fill(palette.HSL(hue1, 10, 95))
	s.HLine(w*0.1, w*0.9, h*0.5, 8, palette.HSL(hue1, 70, 50))

	face, size := g.promptFace(s)
	s.DrawTextBlock(prompt, palette.HSL(hue1, 60, 30), face, size)
}

func (g *Generator) renderVibrant(s *render.Surface, prompt string, hue1, hue2, hue3 int) {
	w := s.Width()
	h := s.Height()

	s.Fill(palette.HSL(hue1, 90, 50))

	// Deterministic pseudo-scatter from repeated hash transforms.
	hash := palette.Hash(prompt)
	hues := []int{hue1, hue2, hue3}
	for i := 0; i < 15; i++ {
		x := (hash * (i + 1)) % w
		y := (hash * (i + 3)) % h
		size := 50 + (hash*(i+7))%150
		s.FillCircle(float64(x), float64(y), float64(size), palette.HSLA(hues[i%3], 85, 60, alpha(0.4)))
	}

	face, size := g.promptFace(s)
	s.DrawTextBlock(prompt, white, face, size)
}

func (g *Generator) renderPortrait(s *render.Surface, prompt string, hue1, hue2 int, gender classify.Gender) {
	w := float64(s.Width())
	h := float64(s.Height())

	s.LinearGradient(0, 0, w, h, []render.Stop{
		{Pos: 0, Color: palette.HSL(hue1, 60, 85)},
		{Pos: 1, Color: palette.HSL(hue2, 50, 75)},
	})

	cx := w / 2
	cy := h / 2
	scale := math.Min(w, h) / 3
	fill := palette.HSL(hue1, 40, 40)

	// Head.
	s.FillCircle(cx, cy-scale*0.4, scale*0.35, fill)

	switch gender {
	case classify.Woman:
		// Longer hair, curved shoulders.
		s.FillEllipse(cx, cy-scale*0.4, scale*0.45, scale*0.5, fill)

		pts := []render.Point{{X: cx - scale*0.6, Y: cy + scale*0.3}}
		pts = render.QuadTo(pts, cx-scale*0.4, cy+scale*0.1, cx, cy+scale*0.15)
		pts = render.QuadTo(pts, cx+scale*0.4, cy+scale*0.1, cx+scale*0.6, cy+scale*0.3)
		pts = append(pts,
			render.Point{X: cx + scale*0.6, Y: cy + scale*0.8},
			render.Point{X: cx - scale*0.6, Y: cy + scale*0.8},
		)
		s.FillPolygon(pts, fill)
	case classify.Man:
		// Short hair, broader shoulders.
		s.FillCircle(cx, cy-scale*0.4, scale*0.38, fill)

		s.FillPolygon([]render.Point{
			{X: cx - scale*0.7, Y: cy + scale*0.3},
			{X: cx - scale*0.5, Y: cy + scale*0.1},
			{X: cx, Y: cy + scale*0.15},
			{X: cx + scale*0.5, Y: cy + scale*0.1},
			{X: cx + scale*0.7, Y: cy + scale*0.3},
			{X: cx + scale*0.7, Y: cy + scale*0.8},
			{X: cx - scale*0.7, Y: cy + scale*0.8},
		}, fill)
	default:
		// Neutral placeholder: simple head and body.
		s.FillCircle(cx, cy-scale*0.4, scale*0.35, fill)

		s.FillPolygon([]render.Point{
			{X: cx - scale*0.5, Y: cy + scale*0.2},
			{X: cx - scale*0.5, Y: cy + scale*0.8},
			{X: cx + scale*0.5, Y: cy + scale*0.8},
			{X: cx + scale*0.5, Y: cy + scale*0.2},
		}, fill)
	}

	// Decorative frame.
	s.StrokeRect(w*0.1, h*0.1, w*0.8, h*0.8, 8, palette.HSL(hue2, 60, 50))

	// Truncated caption near the bottom.
	caption := prompt
	if runes := []rune(caption); len(runes) > 50 {
		caption = string(runes[:50])
	}
	size := math.Min(w, h) / 20
	face, err := g.fonts.Face(render.Bold, size)
	if err != nil {
		panic(err)
	}
	s.DrawTextLine(caption, w/2, h*0.92, palette.HSL(hue1, 50, 30), face)
}

func round(v float64) int {
	return int(math.Round(v))
}
