// probe.go - Source video metadata via ffprobe.
package media

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoMetadata describes a source video stream.
type VideoMetadata struct {
	Duration float64 // seconds
	Width    int
	Height   int
	Codec    string
}

// Probe reads duration and geometry of the first video stream in the file.
// Duration falls back from the stream to the container format and finally to
// nb_frames / r_frame_rate, since not every container records it in the
// same place.
func Probe(path string) (*VideoMetadata, error) {
	probe, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("probe video %s: %w", path, err)
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	streams, ok := data["streams"].([]interface{})
	if !ok || len(streams) == 0 {
		return nil, fmt.Errorf("no streams found in %s", path)
	}

	var videoStream map[string]interface{}
	for _, stream := range streams {
		s, ok := stream.(map[string]interface{})
		if !ok {
			continue
		}
		if codecType, _ := s["codec_type"].(string); codecType == "video" {
			videoStream = s
			break
		}
	}
	if videoStream == nil {
		return nil, fmt.Errorf("no video stream found in %s", path)
	}

	duration := parseProbeFloat(videoStream["duration"])
	if duration == 0 {
		if format, ok := data["format"].(map[string]interface{}); ok {
			duration = parseProbeFloat(format["duration"])
		}
	}
	if duration == 0 {
		frames := parseProbeFloat(videoStream["nb_frames"])
		rate := parseFrameRate(videoStream["r_frame_rate"])
		if frames > 0 && rate > 0 {
			duration = frames / rate
		}
	}
	if duration == 0 {
		return nil, fmt.Errorf("could not determine duration of %s", path)
	}

	width, _ := videoStream["width"].(float64)
	height, _ := videoStream["height"].(float64)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("could not determine dimensions of %s", path)
	}
	codec, _ := videoStream["codec_name"].(string)

	return &VideoMetadata{
		Duration: duration,
		Width:    int(width),
		Height:   int(height),
		Codec:    codec,
	}, nil
}

// parseProbeFloat reads an ffprobe numeric field, which may arrive as a
// string or a JSON number.
func parseProbeFloat(v interface{}) float64 {
	switch val := v.(type) {
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f
		}
	case float64:
		return val
	}
	return 0
}

// parseFrameRate parses ffprobe's "num/den" rational frame rate.
func parseFrameRate(v interface{}) float64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
