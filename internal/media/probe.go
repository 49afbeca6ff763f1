package media

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"time"

	"github.com/go-audio/wav"

	"dialogger/internal/services"
)

// Info is what Probe learned about an input file. Zero values mean unknown.
type Info struct {
	Path         string
	Size         int64
	Format       string
	ContentType  string
	Duration     time.Duration
	SampleRate   int
	Channels     int
	BitDepth     int
	AudioStreams int
	// Source records which prober supplied Duration: "wav", "ffprobe", or "".
	Source string
}

// Options tunes Probe.
type Options struct {
	// FFprobeBinary enables ffprobe inspection when it resolves on PATH.
	FFprobeBinary string
}

// Probe checks that path is a readable regular file and collects metadata.
func Probe(ctx context.Context, path string, opts Options) (Info, error) {
	info := Info{Path: path}
	stat, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return info, services.Wrap(services.ErrNotFound, "probe", "stat input", "Input audio file does not exist", err)
		}
		return info, services.Wrap(services.ErrValidation, "probe", "stat input", "Input audio file is not accessible", err)
	}
	if stat.IsDir() {
		return info, services.Wrap(services.ErrValidation, "probe", "stat input", "Input path is a directory", nil)
	}
	info.Size = stat.Size()

	f, err := os.Open(path)
	if err != nil {
		return info, services.Wrap(services.ErrValidation, "probe", "open input", "Input audio file is not readable", err)
	}
	defer f.Close()

	if format := identify(f); format != "" {
		info.Format = format
	} else if _, err := f.Seek(0, io.SeekStart); err == nil {
		probeWAV(f, &info)
	}
	if info.Format == "" {
		info.Format = extensionFormat(path)
	}
	info.ContentType = ContentType(info.Format)

	if info.Duration == 0 && opts.FFprobeBinary != "" {
		if _, err := exec.LookPath(opts.FFprobeBinary); err == nil {
			if result, err := Inspect(ctx, opts.FFprobeBinary, path); err == nil {
				if secs := result.DurationSeconds(); secs > 0 {
					info.Duration = time.Duration(secs * float64(time.Second))
					info.Source = "ffprobe"
				}
				info.AudioStreams = result.AudioStreamCount()
			}
		}
	}
	return info, nil
}

func probeWAV(f *os.File, info *Info) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return
	}
	info.Format = "wav"
	info.SampleRate = int(dec.SampleRate)
	info.Channels = int(dec.NumChans)
	info.BitDepth = int(dec.BitDepth)
	info.AudioStreams = 1
	if d, err := dec.Duration(); err == nil {
		info.Duration = d
		info.Source = "wav"
	}
}
