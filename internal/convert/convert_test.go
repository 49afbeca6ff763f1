package convert_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dialogger/internal/convert"
	"dialogger/internal/services"
	"dialogger/internal/testsupport"
	"dialogger/internal/transcribe"
)

func newRequest(t *testing.T) (convert.Request, convert.Options, *testsupport.WhisperStub) {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithIsolatedPath("uvx"))
	input := filepath.Join(testsupport.BaseDir(cfg), "meeting.wav")
	testsupport.WriteWAV(t, input, 16000, 1, 1)

	stub := testsupport.NewWhisperStub(t,
		transcribe.Segment{Start: 0, End: 2.5, Text: " Good morning."},
		transcribe.Segment{Start: 3661.25, End: 3662, Text: "Agenda item one. "},
	)
	opts := convert.Options{
		Launcher:      transcribe.Options{WorkDir: cfg.Paths.WorkDir, ToolLogDir: cfg.ToolLogDir()},
		CommandRunner: stub.Run,
	}
	req := convert.Request{
		InputPath: input,
		Model:     transcribe.ModelConfig{Model: "base", Device: transcribe.DeviceCPU},
	}
	return req, opts, stub
}

func TestConvertWritesSRTNextToInput(t *testing.T) {
	req, opts, stub := newRequest(t)
	var stages []convert.Stage
	opts.Progress = func(s convert.Stage) { stages = append(stages, s) }

	segments, err := convert.Convert(context.Background(), req, opts)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	out := convert.DefaultOutputPath(req.InputPath)
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "1\n00:00:00,000 --> 00:00:02,500\nGood morning.\n\n" +
		"2\n01:01:01,250 --> 01:01:02,000\nAgenda item one.\n\n"
	if string(data) != want {
		t.Fatalf("unexpected srt:\n%q\nwant\n%q", data, want)
	}
	wantStages := []convert.Stage{convert.StageProbe, convert.StageLoad, convert.StageTranscribe, convert.StageWrite}
	if len(stages) != len(wantStages) {
		t.Fatalf("unexpected stages %v", stages)
	}
	for i := range wantStages {
		if stages[i] != wantStages[i] {
			t.Fatalf("stage %d = %s, want %s", i, stages[i], wantStages[i])
		}
	}
	if len(stub.Calls()) != 1 {
		t.Fatalf("expected one whisper call, got %d", len(stub.Calls()))
	}
}

func TestConvertHonoursExplicitOutput(t *testing.T) {
	req, opts, _ := newRequest(t)
	req.OutputPath = filepath.Join(t.TempDir(), "custom.srt")

	if _, err := convert.Convert(context.Background(), req, opts); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if _, err := os.Stat(req.OutputPath); err != nil {
		t.Fatalf("expected output at custom path: %v", err)
	}
	if _, err := os.Stat(convert.DefaultOutputPath(req.InputPath)); !os.IsNotExist(err) {
		t.Fatalf("default output should not be written, stat err=%v", err)
	}
}

func TestConvertMissingInputWritesNothing(t *testing.T) {
	req, opts, stub := newRequest(t)
	req.InputPath = filepath.Join(t.TempDir(), "absent.wav")
	req.OutputPath = filepath.Join(t.TempDir(), "absent.srt")

	_, err := convert.Convert(context.Background(), req, opts)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, statErr := os.Stat(req.OutputPath); !os.IsNotExist(statErr) {
		t.Fatalf("output must not exist, stat err=%v", statErr)
	}
	if len(stub.Calls()) != 0 {
		t.Fatal("whisper must not run for a missing input")
	}
}

func TestConvertEmptyTranscriptCreatesEmptyFile(t *testing.T) {
	req, opts, stub := newRequest(t)
	stub.Segments = nil

	segments, err := convert.Convert(context.Background(), req, opts)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if len(segments) != 0 {
		t.Fatalf("expected no segments, got %d", len(segments))
	}
	info, err := os.Stat(convert.DefaultOutputPath(req.InputPath))
	if err != nil {
		t.Fatalf("expected empty output file: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty file, got %d bytes", info.Size())
	}
}

func TestConvertWhisperFailureLeavesNoOutput(t *testing.T) {
	req, opts, stub := newRequest(t)
	stub.Err = errors.New("exit status 1")

	_, err := convert.Convert(context.Background(), req, opts)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if _, statErr := os.Stat(convert.DefaultOutputPath(req.InputPath)); !os.IsNotExist(statErr) {
		t.Fatalf("output must not exist, stat err=%v", statErr)
	}
}

func TestConvertRejectsOutputEqualToInput(t *testing.T) {
	req, opts, _ := newRequest(t)
	req.OutputPath = req.InputPath

	if _, err := convert.Convert(context.Background(), req, opts); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConvertRequiresInput(t *testing.T) {
	_, err := convert.Convert(context.Background(), convert.Request{}, convert.Options{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	cases := map[string]string{
		"/a/b/talk.mp3":    "/a/b/talk.srt",
		"clip.tar.wav":     "clip.tar.srt",
		"noext":            "noext.srt",
		"/dir.v2/recorded": "/dir.v2/recorded.srt",
	}
	for in, want := range cases {
		if got := convert.DefaultOutputPath(in); got != want {
			t.Fatalf("DefaultOutputPath(%q) = %q, want %q", in, got, want)
		}
	}
}
