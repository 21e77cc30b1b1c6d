// avi.go - Pure Go AVI encoding session. Writes a valid RIFF/AVI file
// with either an MJPEG or an uncompressed 24-bit DIB video track, one
// chunk per pushed frame plus an idx1 index, without any external
// dependencies.
package videogen

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/jpeg"
)

// AVIFactory opens AVI encoding sessions.
type AVIFactory struct{}

// NewAVIFactory creates the default software encoder factory.
func NewAVIFactory() *AVIFactory {
	return &AVIFactory{}
}

// Open selects the first supported codec from the preference list and
// returns a session recording at the given resolution and frame rate.
func (f *AVIFactory) Open(res Resolution, fps int, codecs []Codec) (EncodingSession, error) {
	if res.Width <= 0 || res.Height <= 0 {
		return nil, fmt.Errorf("invalid resolution %dx%d", res.Width, res.Height)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", fps)
	}

	for _, c := range codecs {
		switch c {
		case CodecMJPEGHigh, CodecMJPEG, CodecRawDIB:
			return &aviSession{res: res, fps: fps, codec: c}, nil
		}
	}
	return nil, fmt.Errorf("no supported codec in preference list %v", codecs)
}

// aviSession buffers one encoded chunk per frame and assembles the
// container at finalization.
type aviSession struct {
	res       Resolution
	fps       int
	codec     Codec
	frames    [][]byte
	finalized bool
}

func (s *aviSession) Codec() Codec { return s.codec }

func (s *aviSession) PushFrame(frame *image.RGBA) error {
	if s.finalized {
		return fmt.Errorf("session already finalized")
	}
	b := frame.Bounds()
	if b.Dx() != s.res.Width || b.Dy() != s.res.Height {
		return fmt.Errorf("frame size %dx%d does not match session resolution %dx%d",
			b.Dx(), b.Dy(), s.res.Width, s.res.Height)
	}

	var data []byte
	switch s.codec {
	case CodecMJPEGHigh, CodecMJPEG:
		quality := 95
		if s.codec == CodecMJPEG {
			quality = 80
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("encode frame %d: %w", len(s.frames), err)
		}
		data = buf.Bytes()
	case CodecRawDIB:
		data = encodeDIB(frame)
	}

	s.frames = append(s.frames, data)
	return nil
}

// encodeDIB converts a frame to the bottom-up BGR layout of an
// uncompressed AVI video chunk, each row padded to 4 bytes.
func encodeDIB(frame *image.RGBA) []byte {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	rowSize := ((w*3 + 3) / 4) * 4
	out := make([]byte, rowSize*h)
	for y := 0; y < h; y++ {
		src := frame.PixOffset(b.Min.X, b.Min.Y+h-1-y)
		dst := y * rowSize
		for x := 0; x < w; x++ {
			out[dst+0] = frame.Pix[src+2]
			out[dst+1] = frame.Pix[src+1]
			out[dst+2] = frame.Pix[src+0]
			src += 4
			dst += 3
		}
	}
	return out
}

func (s *aviSession) Finalize() ([]byte, error) {
	if s.finalized {
		return nil, fmt.Errorf("session already finalized")
	}
	if len(s.frames) == 0 {
		return nil, fmt.Errorf("no frames recorded")
	}
	s.finalized = true

	width := uint32(s.res.Width)
	height := uint32(s.res.Height)
	fps := uint32(s.fps)
	totalFrames := uint32(len(s.frames))
	microSecPerFrame := uint32(1000000 / fps)

	var maxFrame uint32
	var moviSize uint32 = 4
	for _, f := range s.frames {
		padded := uint32(len(f))
		if padded%2 != 0 {
			padded++
		}
		moviSize += 8 + padded
		if uint32(len(f)) > maxFrame {
			maxFrame = uint32(len(f))
		}
	}
	idx1Size := 8 + totalFrames*16

	var buf bytes.Buffer
	writeFourCC := func(fcc string) { buf.WriteString(fcc) }
	writeUint32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }
	writeUint16 := func(v uint16) { binary.Write(&buf, binary.LittleEndian, v) }

	fccHandler := "MJPG"
	biCompression := "MJPG"
	bitCount := uint16(24)
	if s.codec == CodecRawDIB {
		fccHandler = "DIB "
		biCompression = "\x00\x00\x00\x00"
	}

	// === RIFF header ===
	hdrlSize := uint32(4 + 64 + 124) // LIST tag + avih + strl
	fileSize := 4 + (8 + hdrlSize) + (8 + moviSize) + idx1Size

	writeFourCC("RIFF")
	writeUint32(fileSize)
	writeFourCC("AVI ")

	// === hdrl LIST ===
	writeFourCC("LIST")
	writeUint32(hdrlSize)
	writeFourCC("hdrl")

	// === avih (main AVI header) ===
	writeFourCC("avih")
	writeUint32(56)
	writeUint32(microSecPerFrame)
	writeUint32(maxFrame * fps) // max bytes per sec
	writeUint32(0)              // padding granularity
	writeUint32(0x10)           // flags: AVIF_HASINDEX
	writeUint32(totalFrames)
	writeUint32(0)        // initial frames
	writeUint32(1)        // number of streams
	writeUint32(maxFrame) // suggested buffer size
	writeUint32(width)
	writeUint32(height)
	writeUint32(0)
	writeUint32(0)
	writeUint32(0)
	writeUint32(0)

	// === strl LIST ===
	writeFourCC("LIST")
	writeUint32(116) // strh(64) + strf(48) + 4
	writeFourCC("strl")

	// === strh (stream header) ===
	writeFourCC("strh")
	writeUint32(56)
	writeFourCC("vids")
	writeFourCC(fccHandler)
	writeUint32(0) // flags
	writeUint16(0) // priority
	writeUint16(0) // language
	writeUint32(0) // initial frames
	writeUint32(1) // scale
	writeUint32(fps)
	writeUint32(0) // start
	writeUint32(totalFrames)
	writeUint32(maxFrame) // suggested buffer size
	writeUint32(0)        // quality
	writeUint32(0)        // sample size
	writeUint16(0)        // left
	writeUint16(0)        // top
	writeUint16(uint16(width))
	writeUint16(uint16(height))

	// === strf (BITMAPINFOHEADER) ===
	writeFourCC("strf")
	writeUint32(40)
	writeUint32(40) // biSize
	writeUint32(width)
	writeUint32(height)
	writeUint16(1) // biPlanes
	writeUint16(bitCount)
	writeFourCC(biCompression)
	writeUint32(width * height * 3)
	writeUint32(0) // biXPelsPerMeter
	writeUint32(0) // biYPelsPerMeter
	writeUint32(0) // biClrUsed
	writeUint32(0) // biClrImportant

	// === movi LIST ===
	writeFourCC("LIST")
	writeUint32(moviSize)
	writeFourCC("movi")

	for _, f := range s.frames {
		writeFourCC("00dc")
		writeUint32(uint32(len(f)))
		buf.Write(f)
		if len(f)%2 != 0 {
			buf.WriteByte(0)
		}
	}

	// === idx1 (index) ===
	writeFourCC("idx1")
	writeUint32(totalFrames * 16)

	moviOffset := uint32(4)
	for _, f := range s.frames {
		writeFourCC("00dc")
		writeUint32(0x10) // flags: AVIIF_KEYFRAME
		writeUint32(moviOffset)
		writeUint32(uint32(len(f)))
		padded := uint32(len(f))
		if padded%2 != 0 {
			padded++
		}
		moviOffset += 8 + padded
	}

	return buf.Bytes(), nil
}
