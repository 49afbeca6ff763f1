package services_test

import (
	"errors"
	"strings"
	"testing"

	"dialogger/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "transcribe", "whisper", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcribe", "whisper", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestCodeMapping(t *testing.T) {
	cases := map[string]error{
		"validation":    services.Wrap(services.ErrValidation, "convert", "input", "missing", nil),
		"configuration": services.Wrap(services.ErrConfiguration, "transcribe", "load", "bad model", nil),
		"not_found":     services.Wrap(services.ErrNotFound, "convert", "input", "missing", nil),
		"external_tool": services.Wrap(services.ErrExternalTool, "transcribe", "whisper", "failed", errors.New("exit 1")),
		"busy":          services.Wrap(services.ErrBusy, "convert", "start", "running", nil),
		"transient":     errors.New("disk full"),
	}
	for want, err := range cases {
		if got := services.Code(err); got != want {
			t.Fatalf("Code(%v) = %q, want %q", err, got, want)
		}
	}
	if got := services.Code(nil); got != "" {
		t.Fatalf("Code(nil) = %q, want empty", got)
	}
}
