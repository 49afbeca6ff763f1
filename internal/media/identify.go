package media

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

func formatFromFileType(ft tag.FileType) string {
	switch ft {
	case tag.FLAC:
		return "flac"
	case tag.MP3:
		return "mp3"
	case tag.OGG:
		return "ogg"
	case tag.M4A, tag.M4B, tag.M4P, tag.ALAC:
		return "m4a"
	case tag.DSF:
		return "dsf"
	default:
		return ""
	}
}

// identify sniffs tagged containers. It returns "" for anything tag does not
// recognize, including plain WAV.
func identify(r io.ReadSeeker) string {
	_, fileType, err := tag.Identify(r)
	if err != nil || fileType == tag.UnknownFileType {
		return ""
	}
	return formatFromFileType(fileType)
}

// ContentType returns the MIME type for a format name or file extension.
func ContentType(format string) string {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "flac":
		return "audio/flac"
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	case "ogg", "opus":
		return "audio/ogg"
	case "m4a", "m4b", "m4p", "aac":
		return "audio/mp4"
	case "webm":
		return "audio/webm"
	case "dsf":
		return "audio/dsd"
	default:
		return ""
	}
}

func extensionFormat(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
