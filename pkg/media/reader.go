// reader.go - Windowed video frame extraction over an ffmpeg rawvideo pipe.
package media

import (
	"bytes"
	"fmt"
	"image"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoReader extracts decoded RGB frames from a source video. Each window
// is one synchronous ffmpeg run; frames come back at the source resolution.
type VideoReader struct {
	path   string
	width  int
	height int
	fps    int
}

// NewVideoReader wraps a probed source for frame extraction at fps.
func NewVideoReader(path string, meta *VideoMetadata, fps int) *VideoReader {
	return &VideoReader{
		path:   path,
		width:  meta.Width,
		height: meta.Height,
		fps:    fps,
	}
}

// ReadWindow decodes the source frames within [start, start+dur) sampled at
// the reader's frame rate. A window shorter than one frame period yields an
// empty slice, not an error; callers skip such windows.
func (r *VideoReader) ReadWindow(start, dur float64) ([]*image.RGBA, error) {
	if dur <= 0 {
		return nil, nil
	}

	buf := &bytes.Buffer{}
	err := ffmpeg.Input(r.path, ffmpeg.KwArgs{
		"ss": fmt.Sprintf("%.6f", start),
	}).
		Output("pipe:", ffmpeg.KwArgs{
			"t":       fmt.Sprintf("%.6f", dur),
			"format":  "rawvideo",
			"pix_fmt": "rgb24",
			"r":       r.fps,
		}).
		WithOutput(buf).
		Run()
	if err != nil {
		return nil, fmt.Errorf("decode %.2fs window at %.2fs of %s: %w", dur, start, r.path, err)
	}

	frameSize := r.width * r.height * 3
	data := buf.Bytes()
	count := len(data) / frameSize

	frames := make([]*image.RGBA, 0, count)
	for i := 0; i < count; i++ {
		frames = append(frames, rgbToRGBA(data[i*frameSize:(i+1)*frameSize], r.width, r.height))
	}
	return frames, nil
}

// rgbToRGBA expands packed rgb24 bytes into an RGBA raster.
func rgbToRGBA(data []byte, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	si := 0
	for y := 0; y < h; y++ {
		di := y * img.Stride
		for x := 0; x < w; x++ {
			img.Pix[di] = data[si]
			img.Pix[di+1] = data[si+1]
			img.Pix[di+2] = data[si+2]
			img.Pix[di+3] = 0xff
			di += 4
			si += 3
		}
	}
	return img
}
