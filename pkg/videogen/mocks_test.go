package videogen

import (
	"fmt"
	"image"
)

// fakeSession counts pushed frames and records their resolution.
type fakeSession struct {
	frames     int
	res        Resolution
	pushErrAt  int // fail on this frame index (-1 = never)
	finalized  bool
	finalizeErr error
}

func newFakeSession(res Resolution) *fakeSession {
	return &fakeSession{res: res, pushErrAt: -1}
}

func (f *fakeSession) PushFrame(frame *image.RGBA) error {
	if f.pushErrAt >= 0 && f.frames == f.pushErrAt {
		return fmt.Errorf("simulated encoder failure")
	}
	b := frame.Bounds()
	if b.Dx() != f.res.Width || b.Dy() != f.res.Height {
		return fmt.Errorf("unexpected frame size %dx%d", b.Dx(), b.Dy())
	}
	f.frames++
	return nil
}

func (f *fakeSession) Finalize() ([]byte, error) {
	if f.finalizeErr != nil {
		return nil, f.finalizeErr
	}
	f.finalized = true
	return []byte("fake-container"), nil
}

func (f *fakeSession) Codec() Codec { return CodecMJPEG }

// fakeFactory optionally rejects resolutions above a threshold, to
// exercise the 720p fallback path.
type fakeFactory struct {
	failAbove *Resolution // reject res wider/taller than this
	failAll   bool
	opened    []Resolution
	last      *fakeSession
}

func (f *fakeFactory) Open(res Resolution, fps int, codecs []Codec) (EncodingSession, error) {
	f.opened = append(f.opened, res)
	if f.failAll {
		return nil, fmt.Errorf("no encoder available")
	}
	if f.failAbove != nil && (res.Width > f.failAbove.Width || res.Height > f.failAbove.Height) {
		return nil, fmt.Errorf("resolution %dx%d unsupported", res.Width, res.Height)
	}
	f.last = newFakeSession(res)
	return f.last, nil
}
