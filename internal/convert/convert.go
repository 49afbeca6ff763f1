package convert

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"dialogger/internal/logging"
	"dialogger/internal/media"
	"dialogger/internal/services"
	"dialogger/internal/srt"
	"dialogger/internal/transcribe"
)

// Stage names reported through Options.Progress, in pipeline order.
type Stage string

const (
	StageProbe      Stage = "probe"
	StageLoad       Stage = "load"
	StageTranscribe Stage = "transcribe"
	StageWrite      Stage = "write"
)

// Request names one conversion.
type Request struct {
	InputPath string
	// OutputPath defaults to DefaultOutputPath(InputPath).
	OutputPath string
	Model      transcribe.ModelConfig
}

// Options carries the environment a conversion runs in.
type Options struct {
	Launcher      transcribe.Options
	FFprobeBinary string
	Logger        *slog.Logger
	// Progress, when set, is called as each stage begins.
	Progress func(Stage)
	// CommandRunner replaces process execution for the Whisper launcher.
	CommandRunner transcribe.CommandRunner
}

// DefaultOutputPath replaces the input's extension with .srt.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".srt"
}

// Convert transcribes req.InputPath and writes the SRT file. The returned
// segments are exactly what was written. On error no output file is created
// and an existing one is left untouched.
func Convert(ctx context.Context, req Request, opts Options) ([]transcribe.Segment, error) {
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	logger := logging.NewComponentLogger(opts.Logger, "convert")

	req, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	report(opts, StageProbe)
	info, err := media.Probe(ctx, req.InputPath, media.Options{FFprobeBinary: opts.FFprobeBinary})
	if err != nil {
		return nil, err
	}
	stageLogger := logging.WithContext(services.WithStage(ctx, string(StageProbe)), logger)
	stageLogger.Info("input accepted",
		logging.String("input_path", req.InputPath),
		logging.String("output_path", req.OutputPath),
		logging.String("format", info.Format),
		logging.Duration("audio_duration", info.Duration),
		logging.Int64("size_bytes", info.Size),
	)
	if info.Source == "ffprobe" && info.AudioStreams == 0 {
		return nil, services.Wrap(services.ErrValidation, "convert", "probe", "Input has no audio stream", nil)
	}

	report(opts, StageLoad)
	launcher := opts.Launcher
	launcher.Logger = logging.WithContext(services.WithStage(ctx, string(StageLoad)), logging.NewComponentLogger(opts.Logger, "transcribe"))
	model, err := transcribe.Load(ctx, req.Model, launcher)
	if err != nil {
		return nil, err
	}
	if opts.CommandRunner != nil {
		model.WithCommandRunner(opts.CommandRunner)
	}

	report(opts, StageTranscribe)
	stageLogger = logging.WithContext(services.WithStage(ctx, string(StageTranscribe)), logger)
	stageLogger.Info("transcribing",
		logging.String("model", model.Name()),
		logging.String("device", model.Device().String()),
		logging.Bool("fp16", model.FP16()),
	)
	segments, err := model.Transcribe(ctx, req.InputPath)
	if err != nil {
		logging.ErrorWithContext(stageLogger, "transcription failed", "transcription_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorCode, services.Code(err)),
			logging.String(logging.FieldErrorHint, "check the whisper installation and the tool log"),
		)
		return nil, err
	}

	report(opts, StageWrite)
	stageLogger = logging.WithContext(services.WithStage(ctx, string(StageWrite)), logger)
	if err := srt.Write(req.OutputPath, segments); err != nil {
		wrapped := services.Wrap(services.ErrTransient, "convert", "write srt", "Failed to write subtitle file", err)
		logging.ErrorWithContext(stageLogger, "subtitle write failed", "srt_write_failed",
			logging.Error(wrapped),
			logging.String("output_path", req.OutputPath),
			logging.String(logging.FieldErrorHint, "check that the output directory exists and is writable"),
		)
		return nil, wrapped
	}
	if len(segments) == 0 {
		logging.WarnWithContext(stageLogger, "no speech recognized", "empty_transcript",
			logging.String("output_path", req.OutputPath),
			logging.String(logging.FieldImpact, "subtitle file is empty"),
		)
	}
	attrs := []logging.Attr{
		logging.String("output_path", req.OutputPath),
		logging.Int("segment_count", len(segments)),
		logging.Duration("elapsed", time.Since(start)),
	}
	if cues, err := srt.CountCues(req.OutputPath); err == nil && cues != len(segments) {
		logging.WarnWithContext(stageLogger, "subtitle cue count differs from segment count", "srt_cue_mismatch",
			logging.Int("cue_count", cues),
			logging.Int("segment_count", len(segments)),
			logging.String(logging.FieldErrorHint, "a segment text likely contains a blank line"),
		)
	}
	if _, last, found, err := srt.Bounds(req.OutputPath); err == nil && found {
		attrs = append(attrs, logging.Float64("subtitle_end_seconds", last))
	}
	stageLogger.Info("conversion complete", logging.Args(attrs...)...)
	return segments, nil
}

func normalizeRequest(req Request) (Request, error) {
	req.InputPath = strings.TrimSpace(req.InputPath)
	req.OutputPath = strings.TrimSpace(req.OutputPath)
	if req.InputPath == "" {
		return req, services.Wrap(services.ErrValidation, "convert", "validate request", "Input audio path required", nil)
	}
	if req.OutputPath == "" {
		req.OutputPath = DefaultOutputPath(req.InputPath)
	}
	in, errIn := filepath.Abs(req.InputPath)
	out, errOut := filepath.Abs(req.OutputPath)
	if errIn == nil && errOut == nil && in == out {
		return req, services.Wrap(services.ErrValidation, "convert", "validate request", "Output path would overwrite the input audio", nil)
	}
	return req, nil
}

func report(opts Options, stage Stage) {
	if opts.Progress != nil {
		opts.Progress(stage)
	}
}
