package transcribe_test

import (
	"os"
	"path/filepath"
	"testing"

	"dialogger/internal/transcribe"
)

func TestLoadSegmentsParsesWhisperJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.json")
	payload := `{"text":" Hi there. Bye.","language":"en","segments":[
		{"id":0,"seek":0,"start":0.0,"end":1.2,"text":" Hi there.","tokens":[1,2],"words":[
			{"word":" Hi","start":0.0,"end":0.4,"probability":0.9},
			{"word":" there.","start":0.4,"end":1.2,"probability":0.8}]},
		{"id":1,"seek":0,"start":1.2,"end":2.0,"text":" Bye."}]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}
	segments, err := transcribe.LoadSegments(path)
	if err != nil {
		t.Fatalf("LoadSegments returned error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != " Hi there." || len(segments[0].Words) != 2 {
		t.Fatalf("unexpected first segment: %+v", segments[0])
	}
	if segments[1].Start != 1.2 || segments[1].End != 2.0 {
		t.Fatalf("unexpected second segment timing: %+v", segments[1])
	}
}

func TestLoadSegmentsRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := transcribe.LoadSegments(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseDevice(t *testing.T) {
	tests := []struct {
		in   string
		want transcribe.Device
		ok   bool
	}{
		{"", transcribe.DeviceAuto, true},
		{"AUTO", transcribe.DeviceAuto, true},
		{"cpu", transcribe.DeviceCPU, true},
		{" cuda ", transcribe.DeviceCUDA, true},
		{"gpu", transcribe.DeviceCUDA, true},
		{"mps", "", false},
	}
	for _, tc := range tests {
		got, err := transcribe.ParseDevice(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ParseDevice(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDevice(%q) expected error", tc.in)
		}
	}
}

func TestValidModel(t *testing.T) {
	for _, name := range transcribe.ModelSizes {
		if !transcribe.ValidModel(name) {
			t.Fatalf("expected %q to be valid", name)
		}
	}
	if transcribe.ValidModel("large-v9") {
		t.Fatal("unexpected model accepted")
	}
}
