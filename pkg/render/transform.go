// transform.go - Frame geometry: letterbox-fit and stretch-to-fill mapping of
// an arbitrary-size source onto a fixed portrait canvas.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// ErrInvalidInput marks degenerate geometry (zero-area sources or canvases).
var ErrInvalidInput = errors.New("invalid input")

// Mode selects the frame transform strategy.
type Mode int

const (
	// ModeFit scales preserving aspect ratio and pads with black bars.
	ModeFit Mode = iota
	// ModeStretch resamples directly to the target resolution, ignoring
	// aspect ratio. The image may distort.
	ModeStretch
)

// ParseMode converts a CLI mode string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "fit":
		return ModeFit, nil
	case "stretch":
		return ModeStretch, nil
	default:
		return ModeFit, fmt.Errorf("invalid mode %q (use fit or stretch)", s)
	}
}

func (m Mode) String() string {
	if m == ModeStretch {
		return "stretch"
	}
	return "fit"
}

// CanvasSpec fixes the output resolution. Aspect is the width/height ratio
// threshold used only by the letterbox strategy.
type CanvasSpec struct {
	Width  int
	Height int
	Aspect float64
}

// DefaultCanvas is the 1080x1920 portrait canvas with a 9:16 threshold.
func DefaultCanvas() CanvasSpec {
	return CanvasSpec{Width: 1080, Height: 1920, Aspect: 9.0 / 16.0}
}

// Transform maps src onto a fresh canvas of exactly spec.Width x spec.Height
// using the given strategy. ModeFit centers the aspect-preserving scaled
// image on an opaque black canvas; ModeStretch fills the whole canvas.
// Resampling uses the Catmull-Rom kernel in both strategies.
func Transform(src image.Image, mode Mode, spec CanvasSpec) (*image.RGBA, error) {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: source frame has zero area", ErrInvalidInput)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("%w: target canvas %dx%d", ErrInvalidInput, spec.Width, spec.Height)
	}

	if mode == ModeStretch {
		dst := image.NewRGBA(image.Rect(0, 0, spec.Width, spec.Height))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
		return dst, nil
	}

	// Letterbox fit: a source narrower than the target aspect is scaled to
	// the canvas height, everything else to the canvas width. Offsets use
	// integer division, truncating toward zero.
	srcAspect := float64(b.Dx()) / float64(b.Dy())
	var newW, newH int
	if srcAspect < spec.Aspect {
		newH = spec.Height
		newW = int(float64(newH) * srcAspect)
	} else {
		newW = spec.Width
		newH = int(float64(newW) / srcAspect)
	}
	// Extreme aspect ratios truncate the scaled edge to zero; keep at least
	// one pixel so the source stays visible instead of vanishing into the
	// black canvas.
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	scaled := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, b, xdraw.Src, nil)

	canvas := NewSolidImage(spec.Width, spec.Height, color.RGBA{0, 0, 0, 255})
	offset := image.Pt((spec.Width-newW)/2, (spec.Height-newH)/2)
	draw.Draw(canvas, scaled.Bounds().Add(offset), scaled, image.Point{}, draw.Src)

	return canvas, nil
}

// NewSolidImage creates a uniform solid-color image using draw.Draw (O(1) fill).
func NewSolidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

// CloneRGBA returns an independent copy of img. Caption text is burned into
// per-unit copies so it never accumulates on a shared base frame.
func CloneRGBA(img *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(img.Bounds())
	copy(dst.Pix, img.Pix)
	return dst
}
