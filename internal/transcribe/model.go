package transcribe

import (
	"fmt"
	"slices"
	"strings"

	"dialogger/internal/services"
)

// ModelSizes lists the Whisper checkpoints Dialogger accepts, smallest first.
var ModelSizes = []string{"tiny", "base", "small", "medium", "large"}

// DefaultModel is used when no model is configured.
const DefaultModel = "base"

// ValidModel reports whether name is one of ModelSizes.
func ValidModel(name string) bool {
	return slices.Contains(ModelSizes, strings.ToLower(strings.TrimSpace(name)))
}

// Device selects where inference runs.
type Device string

const (
	DeviceCPU  Device = "cpu"
	DeviceCUDA Device = "cuda"
	// DeviceAuto resolves to DeviceCUDA when an NVIDIA driver is present.
	DeviceAuto Device = "auto"
)

// ParseDevice normalizes a user supplied device name. Empty means auto.
func ParseDevice(value string) (Device, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(DeviceAuto):
		return DeviceAuto, nil
	case string(DeviceCPU):
		return DeviceCPU, nil
	case string(DeviceCUDA), "gpu":
		return DeviceCUDA, nil
	default:
		return "", fmt.Errorf("unsupported device %q (choose cpu, cuda, or auto)", value)
	}
}

// ModelConfig is the user-facing model selection.
type ModelConfig struct {
	Model  string
	Device Device
}

// Validate checks the model size and device.
func (c ModelConfig) Validate() error {
	if !ValidModel(c.Model) {
		return services.Wrap(services.ErrValidation, "transcribe", "validate model",
			fmt.Sprintf("Unsupported model %q (choose one of %s)", c.Model, strings.Join(ModelSizes, ", ")), nil)
	}
	if _, err := ParseDevice(string(c.Device)); err != nil {
		return services.Wrap(services.ErrValidation, "transcribe", "validate device", err.Error(), nil)
	}
	return nil
}

func (c ModelConfig) normalized() ModelConfig {
	model := strings.ToLower(strings.TrimSpace(c.Model))
	if model == "" {
		model = DefaultModel
	}
	device, err := ParseDevice(string(c.Device))
	if err != nil {
		device = c.Device
	}
	return ModelConfig{Model: model, Device: device}
}
