package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dialogger/internal/config"
	"dialogger/internal/convert"
	"dialogger/internal/logging"
	"dialogger/internal/media"
	"dialogger/internal/preflight"
	"dialogger/internal/srt"
	"dialogger/internal/transcribe"
)

type convertFlags struct {
	output    string
	model     string
	device    string
	preview   int
	noPreview bool
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert <audio-file>",
		Short: "Transcribe an audio file into an SRT subtitle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("preview") {
				flags.preview = cfg.Output.PreviewEntries
			}
			return runConvert(cmd, ctx, cfg, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output SRT path (default: input with .srt extension)")
	cmd.Flags().StringVarP(&flags.model, "model", "m", "", "Whisper model size: "+strings.Join(transcribe.ModelSizes, ", "))
	cmd.Flags().StringVarP(&flags.device, "device", "d", "", "Inference device: cpu, cuda, or auto")
	cmd.Flags().IntVar(&flags.preview, "preview", 0, "Number of subtitle entries to preview after conversion")
	cmd.Flags().BoolVar(&flags.noPreview, "no-preview", false, "Skip the subtitle preview")
	return cmd
}

func runConvert(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, input string, flags convertFlags) error {
	out := cmd.OutOrStdout()
	logger, err := ctx.logger()
	if err != nil {
		return err
	}

	modelName := cfg.Transcription.Model
	if strings.TrimSpace(flags.model) != "" {
		modelName = strings.ToLower(strings.TrimSpace(flags.model))
	}
	deviceName := cfg.Transcription.Device
	if strings.TrimSpace(flags.device) != "" {
		deviceName = flags.device
	}
	device, err := transcribe.ParseDevice(deviceName)
	if err != nil {
		return fmt.Errorf("invalid --device: %w", err)
	}
	if flags.preview < 0 {
		return errors.New("--preview must be >= 0")
	}

	req := convert.Request{
		InputPath:  strings.TrimSpace(input),
		OutputPath: strings.TrimSpace(flags.output),
		Model:      transcribe.ModelConfig{Model: modelName, Device: device},
	}
	if err := req.Model.Validate(); err != nil {
		return err
	}
	if req.OutputPath == "" {
		req.OutputPath = convert.DefaultOutputPath(req.InputPath)
	}
	if failed := preflight.Failed(preflight.RunAll(cfg, req.OutputPath)); len(failed) > 0 {
		return fmt.Errorf("%s: %s", failed[0].Name, failed[0].Detail)
	}

	reporter := newStatusReporter(out, cmd.ErrOrStderr())
	opts := convert.Options{
		Launcher: transcribe.Options{
			Command:      cfg.Transcription.Command,
			Package:      cfg.Transcription.Package,
			FFmpegBinary: cfg.Transcription.FFmpegBinary,
			WorkDir:      cfg.Paths.WorkDir,
			ToolLogDir:   cfg.ToolLogDir(),
		},
		FFprobeBinary: media.FFprobeFor(cfg.Transcription.FFmpegBinary),
		Logger:        logger,
		Progress: func(stage convert.Stage) {
			reporter.Status(stageMessage(stage))
		},
		CommandRunner: ctx.commandRunner,
	}

	runner := convert.NewRunner(cfg.LockPath(), opts)
	results, err := runner.Start(cmd.Context(), req)
	if err != nil {
		reporter.Done()
		return err
	}
	result := <-results
	reporter.Done()
	if result.Err != nil {
		logging.ErrorWithContext(logger, "conversion failed", "conversion_failed",
			logging.Error(result.Err),
			logging.String("input_path", req.InputPath),
		)
		return result.Err
	}

	if !flags.noPreview && flags.preview > 0 && len(result.Segments) > 0 {
		preview, err := srt.Preview(result.Segments, flags.preview)
		if err != nil {
			return err
		}
		shown := min(flags.preview, len(result.Segments))
		fmt.Fprintf(out, "\nPreview (first %d of %d entries):\n\n", shown, len(result.Segments))
		fmt.Fprint(out, preview)
	}
	if len(result.Segments) == 0 {
		fmt.Fprintln(out, "No speech was recognized; wrote an empty subtitle file.")
	}
	fmt.Fprintln(out, "Conversion completed successfully!")
	fmt.Fprintf(out, "Subtitles: %s (%d entries, %s)\n", req.OutputPath, len(result.Segments), result.Elapsed.Round(100*time.Millisecond))
	return nil
}
