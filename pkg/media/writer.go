// writer.go - Container writers consuming rendered frames in order.
// MP4/MOV output streams rawvideo into an ffmpeg H.264 encode; AVI output is
// containerized as MJPEG in pure Go (see avi.go).
package media

import (
	"fmt"
	"image"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// EncodeOptions fixes the output geometry, frame rate, codec and bitrate.
type EncodeOptions struct {
	Width   int
	Height  int
	FPS     int
	Codec   string // e.g. "libx264"; ignored by the AVI writer
	Bitrate string // e.g. "5000k"; ignored by the AVI writer
}

// FrameWriter consumes rendered frames in presentation order and finalizes a
// video container on Close. Every frame must match the configured geometry.
type FrameWriter interface {
	WriteFrame(*image.RGBA) error
	Close() error
}

// NewFrameWriter picks a container writer from the output extension.
func NewFrameWriter(path string, opts EncodeOptions) (FrameWriter, error) {
	if err := ValidateOutput(path); err != nil {
		return nil, err
	}
	if strings.ToLower(filepath.Ext(path)) == ".avi" {
		return newAVIWriter(path, opts), nil
	}
	return newFFmpegWriter(path, opts)
}

// ValidateOutput rejects output paths whose extension no writer supports.
// Called up front so a bad output path fails before any frame is rendered.
func ValidateOutput(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp4", ".mov", ".avi":
		return nil
	default:
		return fmt.Errorf("%w: output extension %q (use .mp4, .mov or .avi)", ErrUnsupportedFormat, ext)
	}
}

// ffmpegWriter pipes rgb24 frames into a long-running ffmpeg encode.
// Stdin comes from cmd.StdinPipe (an OS pipe, not an io.Pipe): when the
// encoder process dies mid-run, pending writes fail with EPIPE instead of
// blocking forever, and the exit error is surfaced to the caller.
type ffmpegWriter struct {
	stdin io.WriteCloser
	cmd   *exec.Cmd
	opts  EncodeOptions
	frame []byte // reusable rgb24 scanout buffer
	done  bool   // encoder already reaped
}

func newFFmpegWriter(path string, opts EncodeOptions) (*ffmpegWriter, error) {
	cmd := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgb24",
		"s":         fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"framerate": opts.FPS,
	}).
		Output(path, ffmpeg.KwArgs{
			"c:v":      opts.Codec,
			"b:v":      opts.Bitrate,
			"pix_fmt":  "yuv420p",
			"r":        opts.FPS,
			"movflags": "+faststart",
		}).
		OverWriteOutput().
		Compile()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("encoder stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("start encoder: %w", err)
	}

	return &ffmpegWriter{
		stdin: stdin,
		cmd:   cmd,
		opts:  opts,
		frame: make([]byte, opts.Width*opts.Height*3),
	}, nil
}

func (w *ffmpegWriter) WriteFrame(img *image.RGBA) error {
	if w.done {
		return fmt.Errorf("encode frame: encoder already shut down")
	}
	if err := checkFrameSize(img, w.opts); err != nil {
		return err
	}
	rgbaToRGB(img, w.frame)
	if _, err := w.stdin.Write(w.frame); err != nil {
		return w.fail(err)
	}
	return nil
}

func (w *ffmpegWriter) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	w.stdin.Close()
	if err := w.cmd.Wait(); err != nil {
		return fmt.Errorf("encode video: %w", err)
	}
	return nil
}

// fail reaps a dying encoder after a write error. The process exit status is
// the descriptive error; the broken-pipe write error is only the symptom.
func (w *ffmpegWriter) fail(writeErr error) error {
	w.done = true
	w.stdin.Close()
	if waitErr := w.cmd.Wait(); waitErr != nil {
		return fmt.Errorf("encode video: %w", waitErr)
	}
	return fmt.Errorf("encode frame: %w", writeErr)
}

// checkFrameSize guards the rawvideo contract: the pipe carries no per-frame
// geometry, so a mismatched frame would silently corrupt the stream.
func checkFrameSize(img *image.RGBA, opts EncodeOptions) error {
	if img.Bounds().Dx() != opts.Width || img.Bounds().Dy() != opts.Height {
		return fmt.Errorf("frame is %dx%d, writer expects %dx%d",
			img.Bounds().Dx(), img.Bounds().Dy(), opts.Width, opts.Height)
	}
	return nil
}

// rgbaToRGB packs an RGBA raster into dst as rgb24 bytes.
func rgbaToRGB(img *image.RGBA, dst []byte) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	di := 0
	for y := 0; y < h; y++ {
		si := y * img.Stride
		for x := 0; x < w; x++ {
			dst[di] = img.Pix[si]
			dst[di+1] = img.Pix[si+1]
			dst[di+2] = img.Pix[si+2]
			di += 3
			si += 4
		}
	}
}
