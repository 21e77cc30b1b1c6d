// text.go — Word-wrap layout and centered text drawing shared by the
// style renderers, the video frame loop and the promo compositor.
package render

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// WrapText breaks text into lines that each fit within maxWidth pixels,
// measured with the given face. Words are never split: a single word
// wider than maxWidth occupies its own line.
func WrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxWidth <= 0 {
		return []string{strings.Join(words, " ")}
	}

	var lines []string
	currentLine := words[0]
	for _, word := range words[1:] {
		testLine := currentLine + " " + word
		if font.MeasureString(face, testLine).Ceil() > maxWidth {
			lines = append(lines, currentLine)
			currentLine = word
		} else {
			currentLine = testLine
		}
	}
	lines = append(lines, currentLine)

	return lines
}

// DrawTextLine draws a single line horizontally centered on centerX with
// its vertical middle at centerY.
func (s *Surface) DrawTextLine(line string, centerX, centerY float64, col color.RGBA, face font.Face) {
	width := font.MeasureString(face, line)
	m := face.Metrics()
	// Shift the baseline so centerY lands mid-glyph, the equivalent of
	// a "middle" text baseline.
	baseline := centerY + float64((m.Ascent-m.Descent).Ceil())/2

	drawer := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(round(centerX)) - width/2,
			Y: fixed.I(round(baseline)),
		},
	}
	drawer.DrawString(line)
}

// DrawTextLineShadow draws a line with a soft dark shadow behind it for
// contrast on busy backgrounds. The shadow is a small set of offset
// translucent passes, which keeps output deterministic.
func (s *Surface) DrawTextLineShadow(line string, centerX, centerY float64, col color.RGBA, face font.Face) {
	shadow := color.RGBA{0, 0, 0, 90}
	offsets := []Point{{2, 2}, {-2, 2}, {2, -2}, {0, 3}}
	for _, off := range offsets {
		s.DrawTextLine(line, centerX+off.X, centerY+off.Y, shadow, face)
	}
	s.DrawTextLine(line, centerX, centerY, col, face)
}

// DrawTextBlock word-wraps text at 80% of the surface width and draws
// the resulting lines centered around the vertical midpoint with a
// 1.3×fontSize line height. This is the shared layout of every static
// style renderer.
func (s *Surface) DrawTextBlock(text string, col color.RGBA, face font.Face, fontSize float64) {
	maxWidth := int(float64(s.Width()) * 0.8)
	lines := WrapText(face, text, maxWidth)
	if len(lines) == 0 {
		return
	}

	lineHeight := fontSize * 1.3
	startY := float64(s.Height())/2 - float64(len(lines)-1)*lineHeight/2
	for i, line := range lines {
		s.DrawTextLine(line, float64(s.Width())/2, startY+float64(i)*lineHeight, col, face)
	}
}
