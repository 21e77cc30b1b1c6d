package videogen

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, factory SessionFactory) *Engine {
	t.Helper()
	e, err := NewEngine(factory)
	require.NoError(t, err)
	return e
}

func TestGenerateFrameCount(t *testing.T) {
	factory := &fakeFactory{}
	e := newTestEngine(t, factory)

	out, err := e.Generate(context.Background(), Options{
		Title: "Clip", Text: "hello", Duration: 3,
		Resolution: &Resolution{Width: 64, Height: 48},
	})
	require.NoError(t, err)

	assert.Equal(t, 3*FPS, factory.last.frames, "frame loop must run exactly duration×30 ticks")
	assert.True(t, factory.last.finalized)
	assert.Equal(t, 3, out.Metadata.Duration)
}

func TestGenerateResolutionCap(t *testing.T) {
	factory := &fakeFactory{}
	e := newTestEngine(t, factory)

	out, err := e.Generate(context.Background(), Options{
		Title: "4k please", Text: "t", Duration: 3,
		Resolution: &Resolution{Width: 3840, Height: 2160},
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, out.Metadata.Resolution.Width, 1920)
	assert.LessOrEqual(t, out.Metadata.Resolution.Height, 1080)
	assert.False(t, out.Metadata.FallbackOccurred)
}

func TestGenerateFallbackAccounting(t *testing.T) {
	factory := &fakeFactory{failAbove: &Resolution{Width: 1280, Height: 720}}
	e := newTestEngine(t, factory)

	out, err := e.Generate(context.Background(), Options{
		Title: "hd", Text: "t", Duration: 3,
		Resolution: &Resolution{Width: 1920, Height: 1080},
	})
	require.NoError(t, err)

	assert.True(t, out.Metadata.FallbackOccurred)
	assert.Equal(t, Resolution{Width: 1280, Height: 720}, out.Metadata.Resolution)
	require.Len(t, factory.opened, 2, "exactly one retry at the fixed fallback")
	assert.Equal(t, Resolution{Width: 1920, Height: 1080}, factory.opened[0])
}

func TestGenerateFailsWhenFallbackFails(t *testing.T) {
	factory := &fakeFactory{failAll: true}
	e := newTestEngine(t, factory)

	_, err := e.Generate(context.Background(), Options{
		Title: "hd", Text: "t", Duration: 3,
		Resolution: &Resolution{Width: 1920, Height: 1080},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestGenerateNoFallbackBelowCap(t *testing.T) {
	// A failure at a sub-1080p request is fatal immediately, not retried.
	factory := &fakeFactory{failAll: true}
	e := newTestEngine(t, factory)

	_, err := e.Generate(context.Background(), Options{
		Title: "small", Text: "t", Duration: 3,
		Resolution: &Resolution{Width: 640, Height: 360},
	})
	require.Error(t, err)
	assert.Len(t, factory.opened, 1)
}

func TestGenerateMidEncodingErrorIsFatal(t *testing.T) {
	factory := &failingPushFactory{inner: &fakeFactory{}, failAt: 10}
	e := newTestEngine(t, factory)

	out, err := e.Generate(context.Background(), Options{
		Title: "x", Text: "t", Duration: 3,
		Resolution: &Resolution{Width: 32, Height: 32},
	})
	assert.Nil(t, out, "no partial output on mid-encoding failure")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encoding failed")
}

// failingPushFactory opens sessions whose push errors after failAt frames.
type failingPushFactory struct {
	inner  *fakeFactory
	failAt int
}

func (f *failingPushFactory) Open(res Resolution, fps int, codecs []Codec) (EncodingSession, error) {
	s, err := f.inner.Open(res, fps, codecs)
	if err != nil {
		return nil, err
	}
	s.(*fakeSession).pushErrAt = f.failAt
	return s, nil
}

func TestGenerateCancellation(t *testing.T) {
	factory := &fakeFactory{}
	e := newTestEngine(t, factory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Generate(ctx, Options{
		Title: "x", Text: "t", Duration: 3,
		Resolution: &Resolution{Width: 32, Height: 32},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canceled")
}

func TestGenerateDurationMinimum(t *testing.T) {
	e := newTestEngine(t, &fakeFactory{})
	_, err := e.Generate(context.Background(), Options{Title: "x", Text: "t", Duration: 2})
	assert.Error(t, err)
}

func TestGenerateFilename(t *testing.T) {
	e := newTestEngine(t, &fakeFactory{})

	out, err := e.Generate(context.Background(), Options{
		Title: "My Great Clip!", Text: "t", Duration: 3,
		Resolution: &Resolution{Width: 32, Height: 32},
	})
	require.NoError(t, err)
	assert.Equal(t, "My_Great_Clip_.avi", out.Filename)

	out, err = e.Generate(context.Background(), Options{
		Title: "", Text: "t", Duration: 3,
		Resolution: &Resolution{Width: 32, Height: 32},
	})
	require.NoError(t, err)
	assert.Equal(t, "video.avi", out.Filename)
}

func TestGenerateWithBackgroundImage(t *testing.T) {
	bg := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			bg.SetRGBA(x, y, color.RGBA{0, 128, 255, 255})
		}
	}

	factory := &fakeFactory{}
	e := newTestEngine(t, factory)
	_, err := e.Generate(context.Background(), Options{
		Title: "bg", Text: "t", Duration: 3,
		Resolution: &Resolution{Width: 32, Height: 32},
		Background: bg,
	})
	require.NoError(t, err)
	assert.Equal(t, 3*FPS, factory.last.frames)
}
