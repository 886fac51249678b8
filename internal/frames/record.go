package frames

import (
	"math"
	"strconv"
	"strings"
)

// DataFileName is the dataset written into the output directory.
const DataFileName = "frames_data.json"

// Record describes one sampled frame.
type Record struct {
	Filename  string  `json:"filename"`
	Timestamp float64 `json:"timestamp"`
	HasCode   bool    `json:"has_code"`
	Text      string  `json:"text"`
}

// FrameFilename names the JPEG saved for a frame at ts seconds. The
// timestamp is rendered in its shortest round-trip form and always keeps a
// fractional part, so 0 becomes "frame-0.0.jpg". Magnitudes below 1e-4 or
// from 1e16 up switch to exponent notation ("1e-05").
func FrameFilename(ts float64) string {
	return "frame-" + formatSeconds(ts) + ".jpg"
}

func formatSeconds(ts float64) string {
	if abs := math.Abs(ts); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(ts, 'e', -1, 64)
	}
	formatted := strconv.FormatFloat(ts, 'f', -1, 64)
	if !strings.Contains(formatted, ".") {
		formatted += ".0"
	}
	return formatted
}
