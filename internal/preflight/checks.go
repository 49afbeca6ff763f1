package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"dialogger/internal/config"
	"dialogger/internal/deps"
	"dialogger/internal/media"
	"dialogger/internal/transcribe"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries a conversion needs for cfg.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	launcher := cfg.Transcription.Command
	launcherDesc := "Runs Whisper from the " + cfg.Transcription.Package + " package"
	if launcher != transcribe.UVXCommand {
		launcherDesc = "Whisper command-line tool"
	}
	requirements := []deps.Requirement{
		{
			Name:        "Whisper launcher",
			Command:     launcher,
			Description: launcherDesc,
		},
		{
			Name:        "FFprobe",
			Command:     media.FFprobeFor(cfg.Transcription.FFmpegBinary),
			Description: "Reports input duration",
			Optional:    true,
		},
		{
			Name:        "nvidia-smi",
			Command:     transcribe.NvidiaSMI,
			Description: "Enables CUDA when device is auto",
			Optional:    true,
		},
	}
	statuses := deps.CheckBinaries(requirements)
	ffmpeg := deps.CheckFFmpeg(cfg.Transcription.FFmpegBinary)
	out := make([]deps.Status, 0, len(statuses)+1)
	out = append(out, statuses[0], ffmpeg)
	return append(out, statuses[1:]...)
}
