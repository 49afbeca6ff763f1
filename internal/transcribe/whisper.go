package transcribe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"dialogger/internal/services"
)

// Launcher defaults.
const (
	UVXCommand     = "uvx"
	WhisperCommand = "whisper"
	DefaultPackage = "openai-whisper"
	CUDAIndexURL   = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL   = "https://pypi.org/simple"
	NvidiaSMI      = "nvidia-smi"
	Language       = "en"
	OutputFormat   = "json"
)

// CommandRunner executes an external command. Tests swap it via WithCommandRunner.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Options configures how Whisper is launched.
type Options struct {
	// Command is "uvx" (default) or the path to a whisper executable.
	Command string
	// Package is the Python package uvx installs Whisper from.
	Package string
	// FFmpegBinary is placed on Whisper's PATH when it names a specific file.
	FFmpegBinary string
	// WorkDir hosts the temporary output directory. Empty uses os.TempDir.
	WorkDir string
	// ToolLogDir receives captured stderr when Whisper fails.
	ToolLogDir string
	Logger     *slog.Logger
}

// Model is a loaded model handle. It is safe to call Transcribe repeatedly
// but Dialogger only ever calls it once per conversion.
type Model struct {
	cfg     ModelConfig
	opts    Options
	command string
	logger  *slog.Logger
	run     CommandRunner
}

// Load validates cfg, resolves the device, and checks that the launcher can be
// found. The returned handle is ready for Transcribe.
func Load(ctx context.Context, cfg ModelConfig, opts Options) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	command := strings.TrimSpace(opts.Command)
	if command == "" {
		command = UVXCommand
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "locate whisper",
			fmt.Sprintf("Could not find %q on PATH", command), err)
	}
	if strings.TrimSpace(opts.Package) == "" {
		opts.Package = DefaultPackage
	}

	if cfg.Device == DeviceAuto {
		cfg.Device = detectDevice()
		logger.Debug("resolved device", slog.String("device", string(cfg.Device)))
	}

	m := &Model{
		cfg:     cfg,
		opts:    opts,
		command: command,
		logger:  logger,
	}
	m.run = m.defaultCommandRunner
	logger.Info("whisper model ready",
		slog.String("model", cfg.Model),
		slog.String("device", string(cfg.Device)),
		slog.String("command", resolved),
	)
	return m, nil
}

// detectDevice picks CUDA when the NVIDIA driver tool is installed.
func detectDevice() Device {
	if _, err := exec.LookPath(NvidiaSMI); err == nil {
		return DeviceCUDA
	}
	return DeviceCPU
}

// WithCommandRunner sets a custom command runner (for testing).
func (m *Model) WithCommandRunner(runner CommandRunner) {
	if runner == nil {
		m.run = m.defaultCommandRunner
		return
	}
	m.run = runner
}

// Name returns the model size.
func (m *Model) Name() string { return m.cfg.Model }

// Device returns the resolved device; never DeviceAuto.
func (m *Model) Device() Device { return m.cfg.Device }

// FP16 reports whether half precision inference is requested.
func (m *Model) FP16() bool { return m.cfg.Device == DeviceCUDA }

// Transcribe runs Whisper against audioPath and returns its segments in order.
func (m *Model) Transcribe(ctx context.Context, audioPath string) ([]Segment, error) {
	if m == nil {
		return nil, services.Wrap(services.ErrConfiguration, "transcribe", "init", "Whisper model not loaded", nil)
	}
	if strings.TrimSpace(audioPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "transcribe", "validate input", "Audio path required", nil)
	}

	workDir := strings.TrimSpace(m.opts.WorkDir)
	if workDir != "" {
		if err := os.MkdirAll(workDir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "transcribe", "ensure work dir", "Failed to create work directory", err)
		}
	}
	outputDir, err := os.MkdirTemp(workDir, "dialogger-whisper-")
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "transcribe", "create temp dir", "Failed to create Whisper output directory", err)
	}
	defer os.RemoveAll(outputDir)

	args := m.buildArgs(audioPath, outputDir)
	start := time.Now()
	m.logger.Debug("launching whisper",
		slog.String("command", m.command),
		slog.Any("args", args),
	)
	if err := m.run(ctx, m.command, args...); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "whisper", "Whisper transcription failed", err)
	}

	jsonPath := filepath.Join(outputDir, outputBaseName(audioPath)+".json")
	segments, err := LoadSegments(jsonPath)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "transcribe", "read transcript", "Whisper did not produce a readable transcript", err)
	}
	m.logger.Info("whisper finished",
		slog.Int("segment_count", len(segments)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return segments, nil
}

// buildArgs constructs the launcher arguments. With uvx the whisper CLI is
// pulled from the configured package; otherwise the command is whisper itself.
func (m *Model) buildArgs(audioPath, outputDir string) []string {
	args := make([]string, 0, 32)

	if m.usesUVX() {
		if m.cfg.Device == DeviceCUDA {
			args = append(args,
				"--index-url", CUDAIndexURL,
				"--extra-index-url", PypiIndexURL,
			)
		} else {
			args = append(args, "--index-url", PypiIndexURL)
		}
		args = append(args, "--from", m.opts.Package, WhisperCommand)
	}

	args = append(args,
		audioPath,
		"--model", m.cfg.Model,
		"--device", string(m.cfg.Device),
		"--task", "transcribe",
		"--language", Language,
		"--word_timestamps", "True",
		"--fp16", pyBool(m.FP16()),
		"--output_format", OutputFormat,
		"--output_dir", outputDir,
		"--verbose", "False",
	)
	return args
}

func (m *Model) usesUVX() bool {
	return filepath.Base(m.command) == UVXCommand
}

func pyBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

// outputBaseName mirrors how whisper names its result files.
func outputBaseName(audioPath string) string {
	base := filepath.Base(audioPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (m *Model) defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr strings.Builder
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	cmd.Env = m.commandEnv()

	if err := cmd.Run(); err != nil {
		raw := strings.TrimSpace(stderr.String())
		detailPath := m.writeToolLog(name, args, raw)
		base := fmt.Errorf("%s: %w", name, err)
		if detailPath != "" {
			return fmt.Errorf("%w (stderr saved to %s)", base, detailPath)
		}
		if raw != "" {
			return fmt.Errorf("%w: %s", base, lastLine(raw))
		}
		return base
	}
	return nil
}

// commandEnv prepends the configured ffmpeg directory to PATH, since whisper
// decodes audio by invoking ffmpeg by name.
func (m *Model) commandEnv() []string {
	env := os.Environ()
	ffmpeg := strings.TrimSpace(m.opts.FFmpegBinary)
	if ffmpeg == "" || !strings.ContainsRune(ffmpeg, filepath.Separator) {
		return env
	}
	dir := filepath.Dir(ffmpeg)
	return append(env, "PATH="+dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func (m *Model) writeToolLog(name string, args []string, stderr string) string {
	toolDir := strings.TrimSpace(m.opts.ToolLogDir)
	if toolDir == "" {
		return ""
	}
	if err := os.MkdirAll(toolDir, 0o755); err != nil {
		m.logger.Warn("failed to create tool log directory; tool stderr not captured",
			slog.Any("error", err),
			slog.String("event_type", "tool_log_dir_failed"),
			slog.String("error_hint", "check log_dir permissions"),
		)
		return ""
	}
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	toolName := sanitizeToolName(name)
	if toolName == "" {
		toolName = "tool"
	}
	path := filepath.Join(toolDir, fmt.Sprintf("%s-%s.log", timestamp, toolName))

	command := strings.TrimSpace(strings.Join(append([]string{name}, args...), " "))
	var payload strings.Builder
	payload.Grow(len(command) + len(stderr) + 64)
	payload.WriteString("command: ")
	payload.WriteString(command)
	payload.WriteByte('\n')
	payload.WriteString("stderr:\n")
	payload.WriteString(stderr)
	payload.WriteByte('\n')

	if err := os.WriteFile(path, []byte(payload.String()), 0o644); err != nil {
		m.logger.Warn("failed to write tool log; stderr detail lost",
			slog.Any("error", err),
			slog.String("event_type", "tool_log_write_failed"),
			slog.String("error_hint", "check log_dir permissions"),
		)
		return ""
	}
	return path
}

func sanitizeToolName(value string) string {
	value = strings.TrimSpace(filepath.Base(value))
	if value == "" || value == "." {
		return ""
	}
	value = strings.ToLower(value)
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", " ", "-")
	return strings.Trim(replacer.Replace(value), "-")
}

func lastLine(s string) string {
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[idx+1:])
	}
	return s
}

// String renders the flag form used in logs.
func (d Device) String() string { return string(d) }
