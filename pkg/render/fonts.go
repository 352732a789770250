// fonts.go - Font loading with embedded fallback. Uses golang.org/x/image/font
// for OpenType rendering; defaults to Go Regular when no font path is given.
package render

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontManager parses a font once and hands out faces at requested sizes.
type FontManager struct {
	parsed *opentype.Font
}

// NewFontManager loads the font at path, or the embedded Go Regular font when
// path is empty. A path that cannot be read or parsed is an error: captions
// must not silently render in a different face than the one requested.
func NewFontManager(path string) (*FontManager, error) {
	data := goregular.TTF
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load font %s: %w", path, err)
		}
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}

	return &FontManager{parsed: parsed}, nil
}

// Face returns a font.Face at the specified pixel size.
func (fm *FontManager) Face(size, dpi float64) (font.Face, error) {
	if dpi <= 0 {
		dpi = 72
	}

	face, err := opentype.NewFace(fm.parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}

	return face, nil
}
