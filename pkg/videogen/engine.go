// engine.go — The frame loop: resolution negotiation with a single
// 720p fallback, then an explicit bounded loop pushing 30 logical
// frames per second of output into the encoding session.
package videogen

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"regexp"

	"github.com/xob0t/GoPromoGen/pkg/palette"
	"github.com/xob0t/GoPromoGen/pkg/render"
)

const (
	// FPS is the logical frame rate of generated video.
	FPS = 30
	// MinDuration is the shortest accepted clip length in seconds.
	MinDuration = 3

	maxWidth  = 1920
	maxHeight = 1080

	fallbackWidth  = 1280
	fallbackHeight = 720
)

// Options are the parameters for one video generation.
type Options struct {
	Title      string
	Text       string
	Duration   int         // seconds
	Resolution *Resolution // nil means 1280×720
	Background image.Image // optional, drawn cover-fit under the text
}

// Metadata describes the finished video.
type Metadata struct {
	Resolution       Resolution `json:"resolution"`
	Duration         int        `json:"duration"`
	FallbackOccurred bool       `json:"fallbackOccurred"`
}

// Generated is the finished video payload. The caller owns the bytes;
// nothing is persisted by the engine.
type Generated struct {
	File     []byte
	Filename string
	Metadata Metadata
}

// Engine drives the frame loop. Safe to reuse; each call owns its own
// surface and encoding session.
type Engine struct {
	factory SessionFactory
	codecs  []Codec
	fonts   *render.FontManager
}

// NewEngine creates an engine using the given session factory. Pass
// NewAVIFactory() for the built-in software encoder.
func NewEngine(factory SessionFactory) (*Engine, error) {
	fm, err := render.NewFontManager()
	if err != nil {
		return nil, fmt.Errorf("fonts: %w", err)
	}
	return &Engine{factory: factory, codecs: DefaultCodecs, fonts: fm}, nil
}

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Generate renders and encodes a video. The context aborts the frame
// loop between ticks; partial output is discarded on any failure.
func (e *Engine) Generate(ctx context.Context, opts Options) (*Generated, error) {
	if opts.Duration < MinDuration {
		return nil, fmt.Errorf("duration must be at least %d seconds", MinDuration)
	}

	// Resolution negotiation: requested size capped at 1920×1080.
	res := Resolution{Width: fallbackWidth, Height: fallbackHeight}
	if opts.Resolution != nil {
		res = *opts.Resolution
	}
	res.Width = min(res.Width, maxWidth)
	res.Height = min(res.Height, maxHeight)

	fallbackOccurred := false
	session, err := e.factory.Open(res, FPS, e.codecs)
	if err != nil {
		// One retry at the fixed fallback, but only when the capped
		// request was actually above it.
		if res.Width >= maxWidth || res.Height >= maxHeight {
			fallbackOccurred = true
			res = Resolution{Width: fallbackWidth, Height: fallbackHeight}
			session, err = e.factory.Open(res, FPS, e.codecs)
		}
		if err != nil {
			return nil, fmt.Errorf("video encoding not supported on this device: %w", err)
		}
	}

	surface := render.NewSurface(res.Width, res.Height)
	totalFrames := opts.Duration * FPS

	for frame := 0; frame < totalFrames; frame++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("video generation canceled: %w", err)
		}

		progress := float64(frame) / float64(totalFrames)
		if err := e.drawFrame(surface, opts, progress); err != nil {
			return nil, err
		}
		if err := session.PushFrame(surface.Image()); err != nil {
			return nil, fmt.Errorf("encoding failed at frame %d: %w", frame, err)
		}
	}

	file, err := session.Finalize()
	if err != nil {
		return nil, fmt.Errorf("finalize video: %w", err)
	}

	name := filenameSanitizer.ReplaceAllString(opts.Title, "_")
	if name == "" {
		name = "video"
	}

	return &Generated{
		File:     file,
		Filename: name + ".avi",
		Metadata: Metadata{
			Resolution:       res,
			Duration:         opts.Duration,
			FallbackOccurred: fallbackOccurred,
		},
	}, nil
}

// drawFrame repaints the whole surface for one tick. The animated
// gradient is the only element that depends on progress besides the
// progress bar; everything else is redrawn identically each frame.
func (e *Engine) drawFrame(s *render.Surface, opts Options, progress float64) error {
	w := float64(s.Width())
	h := float64(s.Height())

	s.Fill(color.RGBA{0x1a, 0x1a, 0x2e, 255})

	if opts.Background != nil {
		s.DrawImageCover(opts.Background)
		// Dark overlay for text legibility.
		s.FillRect(0, 0, s.Width(), s.Height(), color.RGBA{0, 0, 0, 102})
	} else {
		hue := int(progress * 360)
		s.LinearGradient(0, 0, w, h, []render.Stop{
			{Pos: 0, Color: palette.HSL(hue, 70, 30)},
			{Pos: 1, Color: palette.HSL((hue+180)%360, 70, 20)},
		})
	}

	// Font sizes scale with width relative to a 1280px baseline.
	scale := w / 1280
	titleSize := 72 * scale
	textSize := 36 * scale
	lineHeight := 50 * scale

	white := color.RGBA{255, 255, 255, 255}

	titleFace, err := e.fonts.Face(render.Bold, titleSize)
	if err != nil {
		return err
	}
	s.DrawTextLineShadow(opts.Title, w/2, h/3, white, titleFace)

	textFace, err := e.fonts.Face(render.Regular, textSize)
	if err != nil {
		return err
	}
	maxWidth := int(w - 200*scale)
	lines := render.WrapText(textFace, opts.Text, maxWidth)
	for i, line := range lines {
		s.DrawTextLineShadow(line, w/2, h/2+float64(i)*lineHeight, white, textFace)
	}

	// Progress bar: track plus elapsed fill.
	barW := 400 * scale
	barH := 8 * scale
	barX := (w - barW) / 2
	barY := h - 100*scale
	s.FillRect(int(barX), int(barY), int(barX+barW), int(barY+barH), color.RGBA{255, 255, 255, 77})
	s.FillRect(int(barX), int(barY), int(barX+barW*progress), int(barY+barH), white)

	return nil
}
