// style.go - Caption text styling and color parsing.
package render

import (
	"crypto/rand"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// TextStyle controls how a caption is laid out and painted onto a frame.
type TextStyle struct {
	Size        float64    // font size in pixels
	Fill        color.RGBA // glyph fill color
	WrapRatio   float64    // fraction of the frame width a line may occupy
	LineSpacing int        // vertical gap between wrapped lines, in pixels
}

// DefaultTextStyle returns a style with the standard wrap budget (85% of the
// frame width) and 10px inter-line spacing.
func DefaultTextStyle(size float64, fill color.RGBA) TextStyle {
	return TextStyle{
		Size:        size,
		Fill:        fill,
		WrapRatio:   0.85,
		LineSpacing: 10,
	}
}

// Outline returns the outline color for the style's fill: white when the
// fill is exactly black, black for everything else. The outline is therefore
// never equal to the fill.
func (s TextStyle) Outline() color.RGBA {
	if s.Fill.R == 0 && s.Fill.G == 0 && s.Fill.B == 0 {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{0, 0, 0, 255}
}

// ParseColor parses a color string. Accepts "#rrggbb", "random", or "".
// Empty string is treated as "random".
func ParseColor(s string) (color.RGBA, error) {
	if s == "" || s == "random" {
		buf := make([]byte, 3)
		if _, err := rand.Read(buf); err != nil {
			return color.RGBA{}, fmt.Errorf("random color: %w", err)
		}
		return color.RGBA{buf[0], buf[1], buf[2], 255}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: expected 6-char hex", s)
	}

	rv, err := strconv.ParseUint(hex[0:2], 16, 8)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid red channel in %q: %w", s, err)
	}
	gv, err := strconv.ParseUint(hex[2:4], 16, 8)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid green channel in %q: %w", s, err)
	}
	bv, err := strconv.ParseUint(hex[4:6], 16, 8)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid blue channel in %q: %w", s, err)
	}

	return color.RGBA{uint8(rv), uint8(gv), uint8(bv), 255}, nil
}
