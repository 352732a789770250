// layout.go - Caption layout engine: greedy pixel-budget word wrapping,
// vertically centered line stacks, and outlined glyph rendering.
package render

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Renderer burns wrapped, outlined caption text into frames.
type Renderer struct {
	fonts *FontManager
	dpi   float64

	// cached face for the last requested size; rendering is single-threaded
	face     font.Face
	faceSize float64
}

// NewRenderer creates a caption renderer for the given font path. An empty
// path selects the embedded default font.
func NewRenderer(fontPath string) (*Renderer, error) {
	fm, err := NewFontManager(fontPath)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		fonts: fm,
		dpi:   72,
	}, nil
}

// Draw wraps text against the frame's pixel budget and paints it centered on
// the frame, outline first and fill on top. The frame is mutated in place;
// callers pass per-unit copies (CloneRGBA) of any shared base image.
// Frame dimensions are never changed.
func (r *Renderer) Draw(frame *image.RGBA, text string, style TextStyle) error {
	face, err := r.faceFor(style.Size)
	if err != nil {
		return err
	}

	frameW := frame.Bounds().Dx()
	frameH := frame.Bounds().Dy()

	budget := int(style.WrapRatio * float64(frameW))
	lines := wrapText(text, budget, face)
	if len(lines) == 0 {
		return nil
	}

	// Per-line bounding-box heights; the block height adds the fixed
	// inter-line spacing between consecutive lines.
	heights := make([]int, len(lines))
	blockH := 0
	for i, line := range lines {
		_, heights[i] = measureString(face, line)
		blockH += heights[i]
	}
	blockH += style.LineSpacing * (len(lines) - 1)

	outline := style.Outline()
	y := (frameH - blockH) / 2

	for i, line := range lines {
		w, _ := measureString(face, line)
		x := (frameW - w) / 2

		// 8-neighbour outline pass, then the fill on top.
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				drawString(frame, line, x+dx, y+dy, outline, face)
			}
		}
		drawString(frame, line, x, y, style.Fill, face)

		y += heights[i] + style.LineSpacing
	}

	return nil
}

// faceFor returns a font.Face at size, reusing the previous face when the
// size has not changed.
func (r *Renderer) faceFor(size float64) (font.Face, error) {
	if r.face != nil && r.faceSize == size {
		return r.face, nil
	}

	face, err := r.fonts.Face(size, r.dpi)
	if err != nil {
		return nil, err
	}
	if r.face != nil {
		r.face.Close()
	}
	r.face = face
	r.faceSize = size
	return face, nil
}

// wrapText breaks text into lines whose measured pixel width fits maxWidth.
// Words are appended greedily; a single word wider than the budget stays
// alone on its own overflowing line rather than being character-split.
func wrapText(text string, maxWidth int, face font.Face) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	currentLine := words[0]
	for _, word := range words[1:] {
		testLine := currentLine + " " + word
		w, _ := measureString(face, testLine)
		if w > maxWidth {
			lines = append(lines, currentLine)
			currentLine = word
		} else {
			currentLine = testLine
		}
	}
	lines = append(lines, currentLine)

	return lines
}

// measureString returns the pixel width and height of the string's bounding
// box, matching how the layout positions glyph boxes rather than advances.
func measureString(face font.Face, s string) (w, h int) {
	bounds, _ := font.BoundString(face, s)
	return (bounds.Max.X - bounds.Min.X).Ceil(), (bounds.Max.Y - bounds.Min.Y).Ceil()
}

// drawString paints s with its bounding-box top-left corner at (x, y).
func drawString(dst *image.RGBA, s string, x, y int, col color.Color, face font.Face) {
	bounds, _ := font.BoundString(face, s)
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x) - bounds.Min.X,
			Y: fixed.I(y) - bounds.Min.Y,
		},
	}
	drawer.DrawString(s)
}
