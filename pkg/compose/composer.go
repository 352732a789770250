// Package compose builds the caption timeline: it divides the clip duration
// across caption units, renders each unit's frames and streams them in order
// to a container writer.
package compose

import (
	"fmt"
	"image/color"
	"math"

	"github.com/velsh/capclip/pkg/caption"
	"github.com/velsh/capclip/pkg/media"
	"github.com/velsh/capclip/pkg/render"
)

// Options holds all parameters for one composition run.
type Options struct {
	Text     string
	FontPath string // empty selects the embedded default font
	FontSize float64
	Fill     color.RGBA
	Duration float64 // requested total seconds
	Mode     render.Mode
	Canvas   render.CanvasSpec
	FPS      int
	Codec    string
	Bitrate  string
}

// DefaultOptions returns the standard short-form settings: 1080x1920 at
// 24fps, H.264 at 5000k, black 50px captions, 15 second clip.
func DefaultOptions() Options {
	return Options{
		FontSize: 50,
		Fill:     color.RGBA{A: 255},
		Duration: 15,
		Mode:     render.ModeFit,
		Canvas:   render.DefaultCanvas(),
		FPS:      24,
		Codec:    "libx264",
		Bitrate:  "5000k",
	}
}

// Composer runs the full pipeline for one input file.
type Composer struct {
	opts     Options
	renderer *render.Renderer
}

// New creates a composer, loading the caption font up front so a bad font
// path fails before any media is touched.
func New(opts Options) (*Composer, error) {
	r, err := render.NewRenderer(opts.FontPath)
	if err != nil {
		return nil, err
	}
	return &Composer{opts: opts, renderer: r}, nil
}

// Run dispatches on the input extension and writes the composed clip to
// outputPath. When segmentation yields no caption units, or no time slice
// produces a frame, no output file is written and Run still succeeds.
func (c *Composer) Run(inputPath, outputPath string) error {
	if err := media.ValidateOutput(outputPath); err != nil {
		return err
	}

	switch media.Classify(inputPath) {
	case media.KindImage:
		return c.fromImage(inputPath, outputPath)
	case media.KindVideo:
		return c.fromVideo(inputPath, outputPath)
	default:
		return fmt.Errorf("%w: input %q", media.ErrUnsupportedFormat, inputPath)
	}
}

// fromImage transforms the still once and holds a per-unit captioned copy of
// it for the unit's whole time slice.
func (c *Composer) fromImage(inputPath, outputPath string) error {
	src, err := media.DecodeImage(inputPath)
	if err != nil {
		return err
	}

	base, err := render.Transform(src, c.opts.Mode, c.opts.Canvas)
	if err != nil {
		return err
	}

	units := caption.Allocate(caption.Split(c.opts.Text), c.opts.Duration)

	var w media.FrameWriter
	for _, unit := range units {
		count := frameCount(unit.Duration, c.opts.FPS)
		if count == 0 {
			continue
		}

		frame := render.CloneRGBA(base)
		if err := c.renderer.Draw(frame, unit.Text, c.style()); err != nil {
			return c.abort(w, err)
		}

		if w == nil {
			if w, err = c.newWriter(outputPath); err != nil {
				return err
			}
		}
		for i := 0; i < count; i++ {
			if err := w.WriteFrame(frame); err != nil {
				return c.abort(w, err)
			}
		}
	}

	return c.finish(w)
}

// fromVideo clamps the requested duration to the source length, slices it
// evenly across units and captions every extracted source frame.
func (c *Composer) fromVideo(inputPath, outputPath string) error {
	meta, err := media.Probe(inputPath)
	if err != nil {
		return err
	}

	total := effectiveDuration(c.opts.Duration, meta.Duration)
	units := caption.Allocate(caption.Split(c.opts.Text), total)
	reader := media.NewVideoReader(inputPath, meta, c.opts.FPS)

	var w media.FrameWriter
	for _, unit := range units {
		start := float64(unit.Index) * unit.Duration
		frames, err := reader.ReadWindow(start, unit.Duration)
		if err != nil {
			return c.abort(w, err)
		}
		if len(frames) == 0 {
			// A slice shorter than one frame period contributes nothing.
			continue
		}

		for _, src := range frames {
			frame, err := render.Transform(src, c.opts.Mode, c.opts.Canvas)
			if err != nil {
				return c.abort(w, err)
			}
			if err := c.renderer.Draw(frame, unit.Text, c.style()); err != nil {
				return c.abort(w, err)
			}

			if w == nil {
				if w, err = c.newWriter(outputPath); err != nil {
					return err
				}
			}
			if err := w.WriteFrame(frame); err != nil {
				return c.abort(w, err)
			}
		}
	}

	return c.finish(w)
}

func (c *Composer) style() render.TextStyle {
	return render.DefaultTextStyle(c.opts.FontSize, c.opts.Fill)
}

func (c *Composer) newWriter(path string) (media.FrameWriter, error) {
	return media.NewFrameWriter(path, media.EncodeOptions{
		Width:   c.opts.Canvas.Width,
		Height:  c.opts.Canvas.Height,
		FPS:     c.opts.FPS,
		Codec:   c.opts.Codec,
		Bitrate: c.opts.Bitrate,
	})
}

// finish closes the writer; a run that never opened one produced zero clips,
// which is reported but not an error.
func (c *Composer) finish(w media.FrameWriter) error {
	if w == nil {
		fmt.Println("No clips were created.")
		return nil
	}
	return w.Close()
}

// abort tears down a half-open writer, keeping the original error.
func (c *Composer) abort(w media.FrameWriter, err error) error {
	if w != nil {
		w.Close()
	}
	return err
}

// effectiveDuration clamps the requested duration to the source length.
func effectiveDuration(requested, source float64) float64 {
	return math.Min(requested, source)
}

// frameCount converts a clip duration to a whole number of frames at fps.
func frameCount(seconds float64, fps int) int {
	return int(math.Round(seconds * float64(fps)))
}
