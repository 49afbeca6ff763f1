package testsupport

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"dialogger/internal/transcribe"
)

// WhisperStub stands in for the whisper CLI. It records every invocation and
// writes the configured segments where whisper would.
type WhisperStub struct {
	t        testing.TB
	Segments []transcribe.Segment
	// Err, when set, is returned instead of writing output.
	Err error
	// SkipOutput makes the stub succeed without writing a JSON file.
	SkipOutput bool

	mu    sync.Mutex
	calls [][]string
}

// NewWhisperStub returns a stub that emits segments on every call.
func NewWhisperStub(t testing.TB, segments ...transcribe.Segment) *WhisperStub {
	return &WhisperStub{t: t, Segments: segments}
}

// Run satisfies transcribe.CommandRunner.
func (s *WhisperStub) Run(_ context.Context, name string, args ...string) error {
	s.mu.Lock()
	s.calls = append(s.calls, append([]string{name}, args...))
	s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	if s.SkipOutput {
		return nil
	}
	outputDir := FlagValue(args, "--output_dir")
	audio := audioArg(args)
	if outputDir == "" || audio == "" {
		s.t.Fatalf("whisper stub: missing output dir or audio in %v", args)
	}
	base := strings.TrimSuffix(filepath.Base(audio), filepath.Ext(audio))
	payload := map[string]any{
		"text":     "",
		"language": "en",
		"segments": s.Segments,
	}
	if s.Segments == nil {
		payload["segments"] = []transcribe.Segment{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.t.Fatalf("whisper stub: marshal: %v", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, base+".json"), data, 0o644); err != nil {
		s.t.Fatalf("whisper stub: write output: %v", err)
	}
	return nil
}

// Calls returns a copy of the recorded invocations, command name first.
func (s *WhisperStub) Calls() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.calls))
	copy(out, s.calls)
	return out
}

// FlagValue returns the argument following flag, or "".
func FlagValue(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

// audioArg finds the positional audio path: the first argument after the
// "whisper" program name for uvx launches, otherwise the first argument.
func audioArg(args []string) string {
	for i, arg := range args {
		if arg == transcribe.WhisperCommand && i+1 < len(args) {
			return args[i+1]
		}
	}
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return args[0]
	}
	return ""
}
