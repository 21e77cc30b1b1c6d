package promo

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSaver captures what reaches the library boundary.
type recordingSaver struct {
	calls int
	meta  SaveMeta
	data  []byte
}

func (r *recordingSaver) SaveImage(_ context.Context, pngData []byte, meta SaveMeta) (string, error) {
	r.calls++
	r.data = pngData
	r.meta = meta
	return "img-1", nil
}

func newTestComposition(t *testing.T) *Composition {
	t.Helper()
	c, err := NewComposition(128)
	require.NoError(t, err)
	return c
}

func TestSaveGuardRejectsEmpty(t *testing.T) {
	c := newTestComposition(t)
	saver := &recordingSaver{}

	_, err := c.Save(context.Background(), saver, SaveMeta{Title: "t"})
	assert.ErrorIs(t, err, ErrNoContent)
	assert.Zero(t, saver.calls, "guard must run before any encoding or store work")
}

func TestSaveWithHeadlineOnlySucceeds(t *testing.T) {
	c := newTestComposition(t)
	c.SetHeadline("Big Sale")
	saver := &recordingSaver{}

	ref, err := c.Save(context.Background(), saver, SaveMeta{})
	require.NoError(t, err)
	assert.Equal(t, "img-1", ref)
	assert.Equal(t, 1, saver.calls)
	assert.Equal(t, "Untitled Promo", saver.meta.Title, "empty title gets the default")
	assert.NotEmpty(t, saver.data)
}

func TestSaveModeratesMetadata(t *testing.T) {
	c := newTestComposition(t)
	c.SetHeadline("ok")
	saver := &recordingSaver{}

	_, err := c.Save(context.Background(), saver, SaveMeta{Title: "very sexy promo"})
	assert.Error(t, err)
	assert.Zero(t, saver.calls)
}

func TestRedrawIsIdempotent(t *testing.T) {
	c := newTestComposition(t)
	c.SetHeadline("Hello")
	c.SetSubheadline("world")
	c.SetTextColor("#ff8800")

	first, err := c.ExportPNG()
	require.NoError(t, err)

	// Setting the same values again re-renders; output must not drift.
	c.SetHeadline("Hello")
	again, err := c.ExportPNG()
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestEraseCompoundsAndRedrawResets(t *testing.T) {
	c := newTestComposition(t)
	c.SetHeadline("Hello")

	before := c.Image().RGBAAt(64, 20) // inside the erase band
	c.Erase()
	after1 := c.Image().RGBAAt(64, 20)
	assert.Less(t, int(after1.A), int(before.A))

	c.Erase()
	after2 := c.Image().RGBAAt(64, 20)
	assert.Less(t, int(after2.A), int(after1.A), "repeated erase compounds")

	// Pixels outside the band are untouched.
	assert.Equal(t, uint8(255), c.Image().RGBAAt(64, 100).A)

	// A field mutation triggers a full redraw, resetting the band.
	c.SetHeadline("Hello again")
	assert.Equal(t, uint8(255), c.Image().RGBAAt(64, 20).A)
}

func TestBaseImageDrawn(t *testing.T) {
	c := newTestComposition(t)

	base := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			base.SetRGBA(x, y, color.RGBA{0, 200, 0, 255})
		}
	}
	c.SetBaseImage(base)

	got := c.Image().RGBAAt(64, 64)
	assert.Greater(t, int(got.G), 150, "base image must fill the canvas")
}

func TestDataURL(t *testing.T) {
	c := newTestComposition(t)
	url, err := c.DataURL()
	require.NoError(t, err)
	assert.Contains(t, url, "data:image/png;base64,")
}
