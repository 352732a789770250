// Package media dispatches input files to the image or video pipeline and
// wraps the external codec collaborators: stdlib/x-image decoders for stills
// and ffmpeg for video probe, decode and encode.
package media

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat marks a file extension outside the recognized image
// and video sets.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Kind classifies an input path.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindVideo
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
}

var videoExts = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".mkv": true,
	".wmv": true,
}

// Classify inspects only the path's extension, case-insensitively. This is a
// static, closed classification; file contents are never sniffed.
func Classify(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case imageExts[ext]:
		return KindImage
	case videoExts[ext]:
		return KindVideo
	default:
		return KindUnknown
	}
}
