package config

const (
	defaultConfigPath     = "~/.config/dialogger/config.toml"
	projectConfigName     = "dialogger.toml"
	defaultLogDir         = "~/.local/share/dialogger/logs"
	defaultModel          = "base"
	defaultDevice         = "auto"
	defaultCommand        = "uvx"
	defaultPackage        = "openai-whisper"
	defaultFFmpegBinary   = "ffmpeg"
	defaultPreviewEntries = 5
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultRetentionDays  = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Transcription: Transcription{
			Model:        defaultModel,
			Device:       defaultDevice,
			Command:      defaultCommand,
			Package:      defaultPackage,
			FFmpegBinary: defaultFFmpegBinary,
		},
		Output: Output{
			PreviewEntries: defaultPreviewEntries,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}
