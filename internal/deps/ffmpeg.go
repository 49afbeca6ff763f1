package deps

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// CheckFFmpeg reports the FFmpeg binary Whisper will decode audio with.
//
// Whisper shells out to "ffmpeg" by name. A configured absolute path is
// checked directly (the launcher puts its directory on PATH); anything else
// is resolved from PATH.
func CheckFFmpeg(binary string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Decodes audio for Whisper",
	}

	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	result.Command = binary

	if strings.ContainsRune(binary, os.PathSeparator) {
		info, err := os.Stat(binary)
		if err == nil && isExecutable(info) {
			result.Available = true
			result.Path = binary
			return result
		}
		result.Detail = fmt.Sprintf("binary %q is not executable", binary)
		return result
	}

	if resolved, err := exec.LookPath(binary); err == nil {
		result.Available = true
		result.Path = resolved
		return result
	}
	result.Detail = fmt.Sprintf("binary %q not found", binary)
	return result
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
