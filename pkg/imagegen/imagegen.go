// Package imagegen renders deterministic still images from text
// prompts. A prompt is hashed into a hue triple and dispatched to one
// of five style renderers; identical requests reproduce identical
// rasters byte for byte.
package imagegen

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/xob0t/GoPromoGen/pkg/classify"
	"github.com/xob0t/GoPromoGen/pkg/palette"
	"github.com/xob0t/GoPromoGen/pkg/render"
)

// Style selects the rendering strategy.
type Style string

const (
	StylePoster   Style = "poster"
	StyleGradient Style = "gradient"
	StyleMinimal  Style = "minimal"
	StyleVibrant  Style = "vibrant"
	StylePortrait Style = "portrait"
)

// Styles lists every supported style in a stable order.
var Styles = []Style{StylePoster, StyleGradient, StyleMinimal, StyleVibrant, StylePortrait}

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(s)) {
	case StylePoster, StyleGradient, StyleMinimal, StyleVibrant, StylePortrait:
		return Style(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("invalid style %q (use: poster, gradient, minimal, vibrant, portrait)", s)
	}
}

// Subject is the requested subject category; SubjectAuto defers to the
// prompt classifier.
type Subject string

const (
	SubjectAuto    Subject = "auto"
	SubjectNeutral Subject = "neutral"
	SubjectWoman   Subject = "woman"
	SubjectMan     Subject = "man"
)

// ParseSubject validates a subject-gender name. Empty means auto.
func ParseSubject(s string) (Subject, error) {
	switch Subject(strings.ToLower(s)) {
	case "":
		return SubjectAuto, nil
	case SubjectAuto, SubjectNeutral, SubjectWoman, SubjectMan:
		return Subject(strings.ToLower(s)), nil
	default:
		return "", fmt.Errorf("invalid subject gender %q (use: auto, neutral, woman, man)", s)
	}
}

// Request holds the parameters for one image generation. It is treated
// as immutable once Generate is called.
type Request struct {
	Prompt  string
	Style   Style
	Subject Subject // defaults to SubjectAuto
	Width   int     // defaults to 1024
	Height  int     // defaults to 1024
}

// Generated is the finished image. Ownership transfers to the caller.
type Generated struct {
	Image *image.RGBA
	PNG   []byte
}

// DataURL returns the PNG as a self-contained data: URI.
func (g *Generated) DataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(g.PNG)
}

// ProgressFunc receives a monotonically increasing percentage. It must
// not mutate generation state; it is a read-only notification.
type ProgressFunc func(percent int)

// Generator renders still images. Safe to reuse across requests; each
// call owns its own surface.
type Generator struct {
	fonts *render.FontManager
}

// NewGenerator creates a generator with the embedded fonts.
func NewGenerator() (*Generator, error) {
	fm, err := render.NewFontManager()
	if err != nil {
		return nil, fmt.Errorf("fonts: %w", err)
	}
	return &Generator{fonts: fm}, nil
}

// Generate renders the request and encodes the result as PNG.
// Progress is reported at the fixed points 10/30/50/90/100.
func (g *Generator) Generate(req Request, onProgress ProgressFunc) (*Generated, error) {
	report := func(p int) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	style := req.Style
	if _, err := ParseStyle(string(style)); err != nil {
		return nil, err
	}
	subject := req.Subject
	if subject == "" {
		subject = SubjectAuto
	}

	width := req.Width
	if width <= 0 {
		width = 1024
	}
	height := req.Height
	if height <= 0 {
		height = 1024
	}

	report(10)
	surface := render.NewSurface(width, height)
	report(30)

	// "auto" never reaches a renderer: resolve it here.
	gender := classify.Gender(subject)
	if subject == SubjectAuto {
		gender = classify.InferGender(req.Prompt)
	}

	hue1, hue2, hue3 := palette.Hues(req.Prompt)
	report(50)

	switch style {
	case StylePortrait:
		g.renderPortrait(surface, req.Prompt, hue1, hue2, gender)
	case StylePoster:
		g.renderPoster(surface, req.Prompt, hue1, hue2)
	case StyleGradient:
		g.renderGradient(surface, req.Prompt, hue1, hue2, hue3)
	case StyleMinimal:
		g.renderMinimal(surface, req.Prompt, hue1)
	case StyleVibrant:
		g.renderVibrant(surface, req.Prompt, hue1, hue2, hue3)
	}
	report(90)

	var buf bytes.Buffer
	if err := png.Encode(&buf, surface.Image()); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	report(100)

	return &Generated{Image: surface.Image(), PNG: buf.Bytes()}, nil
}
