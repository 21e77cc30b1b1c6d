// Package videogen turns a title and a body text into a short video: a
// frame-counter loop renders each frame onto a software canvas and
// pushes it into an encoding session, which produces the final
// container bytes at finalization.
package videogen

import "image"

// Resolution is a video frame size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Codec names one entry of the codec preference list.
type Codec string

const (
	// CodecMJPEGHigh is Motion JPEG at high quality.
	CodecMJPEGHigh Codec = "mjpeg-high"
	// CodecMJPEG is Motion JPEG at standard quality.
	CodecMJPEG Codec = "mjpeg"
	// CodecRawDIB is uncompressed 24-bit frames, the generic last resort.
	CodecRawDIB Codec = "raw"
)

// DefaultCodecs is the preference order: high efficiency first,
// degrading to the generic uncompressed form.
var DefaultCodecs = []Codec{CodecMJPEGHigh, CodecMJPEG, CodecRawDIB}

// EncodingSession accepts successive raster frames and produces a
// finalized binary media payload. A session is exclusively owned by one
// generation call; chunks are appended in push order and concatenated
// at finalization.
type EncodingSession interface {
	// PushFrame encodes one frame. Frames must match the session
	// resolution and arrive in presentation order.
	PushFrame(frame *image.RGBA) error
	// Finalize assembles the container and returns its bytes. The
	// session is unusable afterwards.
	Finalize() ([]byte, error)
	// Codec reports which preference-list entry the session selected.
	Codec() Codec
}

// SessionFactory opens encoding sessions. The engine consults it once
// at the capped resolution and, if that fails, once more at the fixed
// fallback resolution.
type SessionFactory interface {
	Open(res Resolution, fps int, codecs []Codec) (EncodingSession, error)
}
