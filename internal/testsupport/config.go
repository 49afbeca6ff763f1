package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"dialogger/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Transcription.Device = "cpu"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithModel overrides the model size and device on the test config.
func WithModel(model, device string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.Model = model
		b.cfg.Transcription.Device = device
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default external binaries
// are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		binDir := writeStubs(b.t, b.baseDir, names)
		oldPath := os.Getenv("PATH")
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath)
	}
}

// WithIsolatedPath is like WithStubbedBinaries but PATH holds only the
// stubs, so host tools such as nvidia-smi cannot leak into the test.
func WithIsolatedPath(names ...string) ConfigOption {
	return func(b *configBuilder) {
		binDir := writeStubs(b.t, b.baseDir, names)
		b.t.Setenv("PATH", binDir)
	}
}

func writeStubs(t testing.TB, baseDir string, names []string) string {
	t.Helper()
	if len(names) == 0 {
		names = []string{"uvx", "ffmpeg"}
	}
	binDir := filepath.Join(baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	script := []byte("#!/bin/sh\nexit 0\n")
	for _, name := range names {
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, script, 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	return binDir
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
