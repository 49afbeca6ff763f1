package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dialogger/internal/config"
	"dialogger/internal/logging"
	"dialogger/internal/preflight"
	"dialogger/internal/transcribe"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and dependency status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			lines := statusLines(cmd.Context(), ctx, cfg, colorize)
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

func statusLines(runCtx context.Context, ctx *commandContext, cfg *config.Config, colorize bool) []string {
	var lines []string

	lines = append(lines, renderSectionHeader("Configuration", colorize)...)
	configDetail := ctx.configPath
	configKind := statusOK
	if !ctx.configExists {
		configDetail = "defaults (no file at " + ctx.configPath + ")"
		configKind = statusInfo
	}
	lines = append(lines,
		renderStatusLine("Config", configKind, configDetail, colorize),
		renderStatusLine("Model", statusInfo, cfg.Transcription.Model, colorize),
		renderStatusLine("Device", statusInfo, describeDevice(cfg.Transcription.Device), colorize),
		renderStatusLine("Launcher", statusInfo, describeLauncher(cfg), colorize),
		renderStatusLine("Log file", statusInfo, filepath.Join(cfg.Paths.LogDir, logging.LogFileName), colorize),
	)
	for _, check := range preflight.RunAll(cfg, "") {
		kind := statusOK
		if !check.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(check.Name, kind, check.Detail, colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
	statuses := preflight.CheckSystemDeps(cfg)
	lines = append(lines, dependencySummary(statuses, colorize))
	lines = append(lines, renderTable(
		[]string{"Tool", "State", "Location", "Purpose"},
		dependencyRows(statuses),
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
	))

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Accelerator", colorize)...)
	gpu := preflight.ProbeGPU(runCtx)
	gpuKind := statusInfo
	if gpu.Detected {
		gpuKind = statusOK
	}
	lines = append(lines,
		renderStatusLine("GPU", gpuKind, gpu.Detail(), colorize),
		renderStatusLine("FP16", statusInfo, yesNo(resolvesToCUDA(cfg.Transcription.Device, gpu.Detected)), colorize),
	)
	return lines
}

func describeDevice(device string) string {
	if device == string(transcribe.DeviceAuto) || device == "" {
		return "auto (cuda when nvidia-smi is available)"
	}
	return device
}

func describeLauncher(cfg *config.Config) string {
	if filepath.Base(cfg.Transcription.Command) == transcribe.UVXCommand {
		return fmt.Sprintf("%s --from %s whisper", cfg.Transcription.Command, cfg.Transcription.Package)
	}
	return cfg.Transcription.Command
}

func resolvesToCUDA(device string, gpuDetected bool) bool {
	switch transcribe.Device(device) {
	case transcribe.DeviceCUDA:
		return true
	case transcribe.DeviceAuto, "":
		return gpuDetected
	default:
		return false
	}
}
