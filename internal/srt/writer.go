package srt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dialogger/internal/transcribe"
)

// Render returns the SRT document for segments. An empty slice renders as
// an empty document.
func Render(segments []transcribe.Segment) (string, error) {
	entries, err := Entries(segments)
	if err != nil {
		return "", err
	}
	return renderEntries(entries), nil
}

// Preview renders at most limit leading entries. A non-positive limit
// renders nothing.
func Preview(segments []transcribe.Segment, limit int) (string, error) {
	if limit <= 0 {
		return "", nil
	}
	if len(segments) > limit {
		segments = segments[:limit]
	}
	return Render(segments)
}

func renderEntries(entries []Entry) string {
	var b strings.Builder
	for _, entry := range entries {
		entry.writeTo(&b)
	}
	return b.String()
}

// Write renders segments and replaces path with the result.
func Write(path string, segments []transcribe.Segment) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("write srt: output path required")
	}
	content, err := Render(segments)
	if err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	if err := replaceFile(path, []byte(content)); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

func replaceFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
