// fonts.go - Font management backed by the embedded Go fonts.
// Uses golang.org/x/image/font for OpenType rendering. Faces are cached
// by weight and size because the video frame loop requests the same
// faces hundreds of times.
package render

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Weight selects between the two embedded font weights.
type Weight int

const (
	Regular Weight = iota
	Bold
)

// FontManager hands out font faces at arbitrary sizes.
type FontManager struct {
	regular *opentype.Font
	bold    *opentype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	weight Weight
	size   float64
}

// NewFontManager parses the embedded fonts once.
func NewFontManager() (*FontManager, error) {
	reg, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bld, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &FontManager{
		regular: reg,
		bold:    bld,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

// Face returns a font.Face for the given weight and pixel size.
func (fm *FontManager) Face(weight Weight, size float64) (font.Face, error) {
	if size <= 0 {
		size = 12
	}
	key := faceKey{weight, size}

	fm.mu.Lock()
	defer fm.mu.Unlock()
	if f, ok := fm.faces[key]; ok {
		return f, nil
	}

	src := fm.regular
	if weight == Bold {
		src = fm.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	fm.faces[key] = face
	return face, nil
}
