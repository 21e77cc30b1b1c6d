// color.go — Hex color parsing shared by the promo compositor and the
// HTTP API.
package render

import (
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor converts "#rrggbb" to color.RGBA. Invalid input falls
// back to white, a safe default for text rendering.
func ParseHexColor(hex string) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.RGBA{255, 255, 255, 255}
	}

	r, errR := strconv.ParseUint(hex[0:2], 16, 8)
	g, errG := strconv.ParseUint(hex[2:4], 16, 8)
	b, errB := strconv.ParseUint(hex[4:6], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return color.RGBA{255, 255, 255, 255}
	}

	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}
}
