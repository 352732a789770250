// avi.go - Pure Go AVI writer using Motion JPEG (MJPEG) video chunks.
// Buffers one JPEG per frame and writes the RIFF container on Close, so the
// header sizes and the idx1 index can account for varying frame sizes.
// Needs no external ffmpeg binary.
package media

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/jpeg"
	"os"
)

type aviWriter struct {
	path   string
	opts   EncodeOptions
	frames [][]byte // encoded JPEG data, one element per frame
}

func newAVIWriter(path string, opts EncodeOptions) *aviWriter {
	return &aviWriter{path: path, opts: opts}
}

func (w *aviWriter) WriteFrame(img *image.RGBA) error {
	if err := checkFrameSize(img, w.opts); err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return fmt.Errorf("encode JPEG frame: %w", err)
	}
	w.frames = append(w.frames, buf.Bytes())
	return nil
}

// Close writes the complete AVI file: RIFF header, avih/strh/strf headers,
// the movi chunk list and the idx1 keyframe index.
func (w *aviWriter) Close() error {
	width := uint32(w.opts.Width)
	height := uint32(w.opts.Height)
	fps := uint32(w.opts.FPS)
	if fps == 0 {
		fps = 24
	}
	microSecPerFrame := uint32(1000000 / fps)
	totalFrames := uint32(len(w.frames))

	// Per-frame chunk sizes; JPEG data is padded to even length (AVI
	// requirement). Track the largest frame for the suggested buffer size.
	var moviSize, maxJPEG uint32
	moviSize = 4
	for _, data := range w.frames {
		size := uint32(len(data))
		if size > maxJPEG {
			maxJPEG = size
		}
		moviSize += 8 + padded(size)
	}
	idx1Size := 8 + totalFrames*16
	hdrlSize := uint32(4 + 64 + 124) // LIST + avih + strl
	fileSize := 4 + (8 + hdrlSize) + (8 + moviSize) + idx1Size

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", w.path, err)
	}
	defer f.Close()

	writeFourCC := func(s string) {
		f.Write([]byte(s))
	}
	writeUint32 := func(v uint32) {
		binary.Write(f, binary.LittleEndian, v)
	}
	writeUint16 := func(v uint16) {
		binary.Write(f, binary.LittleEndian, v)
	}

	// === RIFF Header ===
	writeFourCC("RIFF")
	writeUint32(fileSize)
	writeFourCC("AVI ")

	// === hdrl LIST ===
	writeFourCC("LIST")
	writeUint32(hdrlSize)
	writeFourCC("hdrl")

	// === avih (Main AVI Header) - 56 bytes + 8 header ===
	writeFourCC("avih")
	writeUint32(56)
	writeUint32(microSecPerFrame)
	writeUint32(maxJPEG * fps) // max bytes per sec
	writeUint32(0)             // padding granularity
	writeUint32(0x10)          // flags: AVIF_HASINDEX
	writeUint32(totalFrames)
	writeUint32(0)       // initial frames
	writeUint32(1)       // number of streams
	writeUint32(maxJPEG) // suggested buffer size
	writeUint32(width)
	writeUint32(height)
	writeUint32(0) // reserved
	writeUint32(0) // reserved
	writeUint32(0) // reserved
	writeUint32(0) // reserved

	// === strl LIST (Stream List) ===
	writeFourCC("LIST")
	writeUint32(116) // strl size: strh(64) + strf(48) + 4
	writeFourCC("strl")

	// === strh (Stream Header) - 56 bytes + 8 header ===
	writeFourCC("strh")
	writeUint32(56)
	writeFourCC("vids") // fccType
	writeFourCC("MJPG") // fccHandler - MJPEG codec
	writeUint32(0)      // flags
	writeUint16(0)      // priority
	writeUint16(0)      // language
	writeUint32(0)      // initial frames
	writeUint32(1)      // scale
	writeUint32(fps)    // rate
	writeUint32(0)      // start
	writeUint32(totalFrames)
	writeUint32(maxJPEG) // suggested buffer size
	writeUint32(0)       // quality
	writeUint32(0)       // sample size
	writeUint16(0)       // left
	writeUint16(0)       // top
	writeUint16(uint16(width))
	writeUint16(uint16(height))

	// === strf (Stream Format - BITMAPINFOHEADER) - 40 bytes + 8 header ===
	writeFourCC("strf")
	writeUint32(40)
	writeUint32(40)     // biSize
	writeUint32(width)  // biWidth
	writeUint32(height) // biHeight
	writeUint16(1)      // biPlanes
	writeUint16(24)     // biBitCount
	writeFourCC("MJPG") // biCompression
	writeUint32(width * height * 3)
	writeUint32(0) // biXPelsPerMeter
	writeUint32(0) // biYPelsPerMeter
	writeUint32(0) // biClrUsed
	writeUint32(0) // biClrImportant

	// === movi LIST ===
	writeFourCC("LIST")
	writeUint32(moviSize)
	writeFourCC("movi")

	for _, data := range w.frames {
		size := uint32(len(data))
		writeFourCC("00dc") // video chunk
		writeUint32(size)
		f.Write(data)
		if size%2 != 0 {
			f.Write([]byte{0})
		}
	}

	// === idx1 (Index) ===
	writeFourCC("idx1")
	writeUint32(totalFrames * 16)

	moviOffset := uint32(4) // offset from movi start
	for _, data := range w.frames {
		size := uint32(len(data))
		writeFourCC("00dc")
		writeUint32(0x10) // flags: AVIIF_KEYFRAME
		writeUint32(moviOffset)
		writeUint32(size)
		moviOffset += 8 + padded(size)
	}

	return f.Sync()
}

// padded rounds a chunk payload size up to the even boundary AVI requires.
func padded(size uint32) uint32 {
	if size%2 != 0 {
		return size + 1
	}
	return size
}
