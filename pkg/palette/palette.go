// Package palette derives reproducible colors from free-text prompts.
//
// All derivation is a pure function of the prompt string: the same
// prompt always yields the same hash and the same hue triple, which is
// what makes generated media cacheable and byte-for-byte testable.
package palette

import (
	"image/color"
	"math"
	"unicode/utf16"
)

// Hash computes a polynomial rolling hash over the UTF-16 code units of s.
// The arithmetic wraps at 32 bits and the result is the absolute value,
// so any string (including "") maps to a non-negative integer.
func Hash(s string) int {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(u)
	}
	if h < 0 {
		// math.MinInt32 has no positive counterpart; negating it in
		// int64 space keeps the result non-negative.
		return int(-int64(h))
	}
	return int(h)
}

// Hues returns the three hue values (degrees, 0–359) derived from prompt.
// Multipliers 1, 7 and 13 spread related prompts across the wheel while
// keeping every hue a pure function of the hash.
func Hues(prompt string) (hue1, hue2, hue3 int) {
	h := Hash(prompt)
	return h % 360, (h * 7) % 360, (h * 13) % 360
}

// HSL converts hue (degrees), saturation and lightness (0–100) to an
// opaque RGBA color.
func HSL(hue, sat, light int) color.RGBA {
	return HSLA(hue, sat, light, 255)
}

// HSLA converts an HSL triple plus alpha to color.RGBA.
func HSLA(hue, sat, light int, alpha uint8) color.RGBA {
	h := math.Mod(math.Mod(float64(hue), 360)+360, 360)
	s := clamp01(float64(sat) / 100)
	l := clamp01(float64(light) / 100)

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: alpha,
	}
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
