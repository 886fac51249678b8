// Package transcript shapes recognizer output into the document the
// transcriber prints and saves.
package transcript

import (
	"io"
	"strings"
	"time"

	"codesnippet/internal/fileutil"
	"codesnippet/internal/services/whisper"
)

// SegmentTypeOther is the placeholder category on every segment. Callers
// refine it downstream.
const SegmentTypeOther = "other"

// TimestampLayout renders LastUpdated as ISO-8601 with microseconds and an
// explicit UTC offset.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// Segment is one contiguous span of recognized speech.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Type  string  `json:"type"`
}

// Metadata summarizes a Document.
type Metadata struct {
	TotalDuration float64 `json:"totalDuration"`
	SegmentCount  int     `json:"segmentCount"`
	LastUpdated   string  `json:"lastUpdated"`
}

// Document is the complete transcriber result.
type Document struct {
	Segments []Segment `json:"segments"`
	Metadata Metadata  `json:"metadata"`
}

// Build converts engine segments into a Document, preserving their order.
func Build(raw []whisper.Segment, now time.Time) Document {
	segments := make([]Segment, 0, len(raw))
	for _, seg := range raw {
		segments = append(segments, Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
			Type:  SegmentTypeOther,
		})
	}

	var total float64
	if len(segments) > 0 {
		total = segments[len(segments)-1].End
	}

	return Document{
		Segments: segments,
		Metadata: Metadata{
			TotalDuration: total,
			SegmentCount:  len(segments),
			LastUpdated:   now.UTC().Format(TimestampLayout),
		},
	}
}

// WriteCompact writes doc to w as a single line of JSON.
func WriteCompact(w io.Writer, doc Document) error {
	return fileutil.EncodeJSON(w, doc, false)
}

// WriteFile saves doc as indented JSON at path.
func WriteFile(path string, doc Document) error {
	return fileutil.WriteJSONFile(path, doc)
}
