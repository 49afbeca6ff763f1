package preflight

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"dialogger/internal/transcribe"
)

// GPUProbe reports the current accelerator detection snapshot.
type GPUProbe struct {
	Detected bool
	Name     string
	Driver   string
}

// ProbeGPU asks nvidia-smi for the first GPU's name and driver version.
func ProbeGPU(ctx context.Context) GPUProbe {
	if _, err := exec.LookPath(transcribe.NvidiaSMI); err != nil {
		return GPUProbe{}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, transcribe.NvidiaSMI, "--query-gpu=name,driver_version", "--format=csv,noheader")
	output, err := cmd.Output()
	if err != nil {
		return GPUProbe{}
	}
	return parseGPUProbe(string(output))
}

func parseGPUProbe(output string) GPUProbe {
	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return GPUProbe{}
	}
	name, driver, _ := strings.Cut(line, ",")
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Unknown"
	}
	return GPUProbe{
		Detected: true,
		Name:     name,
		Driver:   strings.TrimSpace(driver),
	}
}

// Detail renders a display-friendly summary for status UIs.
func (p GPUProbe) Detail() string {
	if !p.Detected {
		return "No CUDA device detected"
	}
	if p.Driver == "" {
		return p.Name
	}
	return fmt.Sprintf("%s (driver %s)", p.Name, p.Driver)
}
