package transcript

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codesnippet/internal/services/whisper"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 6, 789000000, time.FixedZone("CET", 3600))

func TestBuildTwoUtterances(t *testing.T) {
	doc := Build([]whisper.Segment{
		{Start: 0.0, End: 1.2, Text: " hello there"},
		{Start: 2.0, End: 4.5, Text: "how are you \n"},
	}, fixedNow)

	var buf bytes.Buffer
	if err := WriteCompact(&buf, doc); err != nil {
		t.Fatalf("WriteCompact: %v", err)
	}
	want := `{"segments":[{"start":0,"end":1.2,"text":"hello there","type":"other"},` +
		`{"start":2,"end":4.5,"text":"how are you","type":"other"}],` +
		`"metadata":{"totalDuration":4.5,"segmentCount":2,"lastUpdated":"2024-03-09T13:05:06.789000+00:00"}}` + "\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n got %s\nwant %s", buf.String(), want)
	}
}

func TestBuildEmpty(t *testing.T) {
	doc := Build(nil, fixedNow)
	if doc.Metadata.SegmentCount != 0 || doc.Metadata.TotalDuration != 0 {
		t.Fatalf("unexpected metadata: %+v", doc.Metadata)
	}
	var buf bytes.Buffer
	if err := WriteCompact(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), `{"segments":[],`) {
		t.Fatalf("expected empty segments array, got %s", buf.String())
	}
}

func TestBuildPreservesOrderAndTrims(t *testing.T) {
	raw := []whisper.Segment{
		{Start: 5, End: 6, Text: "\tlater "},
		{Start: 1, End: 2, Text: "earlier"},
	}
	doc := Build(raw, fixedNow)
	if doc.Segments[0].Text != "later" || doc.Segments[1].Text != "earlier" {
		t.Fatalf("order or trimming changed: %+v", doc.Segments)
	}
	if doc.Metadata.TotalDuration != 2 {
		t.Fatalf("total duration should be last segment end, got %v", doc.Metadata.TotalDuration)
	}
	for _, seg := range doc.Segments {
		if seg.Type != SegmentTypeOther {
			t.Fatalf("unexpected type %q", seg.Type)
		}
	}
}

func TestWriteCompactKeepsUnicode(t *testing.T) {
	doc := Build([]whisper.Segment{{Start: 0, End: 1, Text: "naïve <code> ☕"}}, fixedNow)
	var buf bytes.Buffer
	if err := WriteCompact(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"naïve <code> ☕"`) {
		t.Fatalf("expected unescaped text, got %s", buf.String())
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Fatalf("expected a single line, got %q", buf.String())
	}
}

func TestWriteFileMatchesCompact(t *testing.T) {
	doc := Build([]whisper.Segment{{Start: 0.5, End: 3.25, Text: "x"}}, fixedNow)
	path := filepath.Join(t.TempDir(), "transcript.json")
	if err := WriteFile(path, doc); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  \"segments\": [") {
		t.Fatalf("expected indented json, got %s", data)
	}
	var decoded Document
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Metadata != doc.Metadata || len(decoded.Segments) != 1 || decoded.Segments[0] != doc.Segments[0] {
		t.Fatalf("round trip mismatch: %+v vs %+v", decoded, doc)
	}
}
