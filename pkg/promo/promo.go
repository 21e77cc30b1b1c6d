// Package promo is an interactive compositing session: a base image (or
// flat dark background), a headline and a subheadline, re-rendered in
// full on every field change and exported as PNG.
package promo

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/xob0t/GoPromoGen/pkg/classify"
	"github.com/xob0t/GoPromoGen/pkg/render"
)

// Default canvas size and text styling of a fresh composition.
const (
	DefaultSize     = 1024
	defaultFontSize = 48
)

// ErrNoContent rejects a save with nothing on the canvas.
var ErrNoContent = errors.New("please add content before saving")

// SaveMeta is the metadata attached to a saved composition.
type SaveMeta struct {
	Title       string
	Description string
	Tags        []string
}

// Saver is the library boundary the composition saves through. It
// receives already-moderated metadata and raw PNG bytes, and returns a
// stable reference for the stored image.
type Saver interface {
	SaveImage(ctx context.Context, pngData []byte, meta SaveMeta) (string, error)
}

// Composition is the mutable promo session state. Not safe for
// concurrent use; one session per canvas.
type Composition struct {
	fonts   *render.FontManager
	surface *render.Surface

	baseImage   image.Image
	headline    string
	subheadline string
	textColor   color.RGBA
	fontSize    float64
}

// NewComposition creates an empty size×size session.
func NewComposition(size int) (*Composition, error) {
	if size <= 0 {
		size = DefaultSize
	}
	fm, err := render.NewFontManager()
	if err != nil {
		return nil, fmt.Errorf("fonts: %w", err)
	}
	c := &Composition{
		fonts:     fm,
		surface:   render.NewSurface(size, size),
		textColor: color.RGBA{255, 255, 255, 255},
		fontSize:  defaultFontSize,
	}
	c.redraw()
	return c, nil
}

// SetBaseImage replaces the base layer and re-renders. Nil clears it.
func (c *Composition) SetBaseImage(img image.Image) {
	c.baseImage = img
	c.redraw()
}

// SetHeadline updates the headline and re-renders.
func (c *Composition) SetHeadline(text string) {
	c.headline = text
	c.redraw()
}

// SetSubheadline updates the subheadline and re-renders.
func (c *Composition) SetSubheadline(text string) {
	c.subheadline = text
	c.redraw()
}

// SetTextColor updates the text color from a "#rrggbb" string and
// re-renders.
func (c *Composition) SetTextColor(hex string) {
	c.textColor = render.ParseHexColor(hex)
	c.redraw()
}

// SetFontSize updates the headline size (the subheadline renders at
// 60%) and re-renders.
func (c *Composition) SetFontSize(px float64) {
	if px > 0 {
		c.fontSize = px
	}
	c.redraw()
}

// Erase softens a fixed horizontal band (10–90% of the width, 10–30% of
// the height) by subtracting 30% of the pixel alpha. Repeated calls
// compound. The next field mutation re-renders and discards the effect.
func (c *Composition) Erase() {
	w := c.surface.Width()
	h := c.surface.Height()
	c.surface.EraseRect(w/10, h/10, w*9/10, h*3/10, 0.3)
}

// redraw repaints the whole composition from current state. Idempotent:
// the same state always produces the same raster.
func (c *Composition) redraw() {
	w := float64(c.surface.Width())
	h := float64(c.surface.Height())

	if c.baseImage != nil {
		c.surface.DrawImageStretch(c.baseImage)
	} else {
		c.surface.Fill(color.RGBA{0x1a, 0x1a, 0x1a, 255})
	}

	if c.headline != "" {
		face, err := c.fonts.Face(render.Bold, c.fontSize)
		if err == nil {
			c.surface.DrawTextLine(c.headline, w/2, h*0.4, c.textColor, face)
		}
	}
	if c.subheadline != "" {
		face, err := c.fonts.Face(render.Regular, c.fontSize*0.6)
		if err == nil {
			c.surface.DrawTextLine(c.subheadline, w/2, h*0.55, c.textColor, face)
		}
	}
}

// Image exposes the current raster.
func (c *Composition) Image() *image.RGBA {
	return c.surface.Image()
}

// ExportPNG serializes the current surface.
func (c *Composition) ExportPNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.surface.Image()); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL returns the current surface as a data: URI.
func (c *Composition) DataURL() (string, error) {
	data, err := c.ExportPNG()
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Save validates, moderates and stores the composition through the
// library boundary. The content guard runs before any encoding work.
func (c *Composition) Save(ctx context.Context, store Saver, meta SaveMeta) (string, error) {
	if c.baseImage == nil && c.headline == "" && c.subheadline == "" {
		return "", ErrNoContent
	}

	if meta.Title == "" {
		meta.Title = "Untitled Promo"
	}
	if err := classify.ValidateSaveMetadata(meta.Title, meta.Description, meta.Tags); err != nil {
		return "", err
	}

	data, err := c.ExportPNG()
	if err != nil {
		return "", err
	}
	ref, err := store.SaveImage(ctx, data, meta)
	if err != nil {
		return "", fmt.Errorf("save promo: %w", err)
	}
	return ref, nil
}
