package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"dialogger/internal/convert"
)

// stageMessage is the status line shown when a conversion stage begins.
func stageMessage(stage convert.Stage) string {
	switch stage {
	case convert.StageProbe:
		return "Checking input..."
	case convert.StageLoad:
		return "Loading Whisper model..."
	case convert.StageTranscribe:
		return "Converting audio..."
	case convert.StageWrite:
		return "Writing subtitles..."
	default:
		return string(stage) + "..."
	}
}

type statusReporter interface {
	Status(message string)
	Done()
}

// lineReporter prints one line per status change.
type lineReporter struct {
	mu  sync.Mutex
	out io.Writer
}

func (r *lineReporter) Status(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, message)
}

func (r *lineReporter) Done() {}

// spinnerReporter animates an indeterminate progress bar until Done.
type spinnerReporter struct {
	bar  *progressbar.ProgressBar
	stop chan struct{}
	wg   sync.WaitGroup
}

func newSpinnerReporter(out io.Writer, colorize bool) *spinnerReporter {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("Starting..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionEnableColorCodes(colorize),
		progressbar.OptionClearOnFinish(),
	)
	r := &spinnerReporter{bar: bar, stop: make(chan struct{})}
	r.wg.Add(1)
	go r.tick()
	return r
}

func (r *spinnerReporter) tick() {
	defer r.wg.Done()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			_ = r.bar.Add(1)
		}
	}
}

func (r *spinnerReporter) Status(message string) {
	r.bar.Describe(message)
}

func (r *spinnerReporter) Done() {
	close(r.stop)
	r.wg.Wait()
	_ = r.bar.Finish()
}

func newStatusReporter(stdout, stderr io.Writer) statusReporter {
	if shouldColorize(stderr) {
		return newSpinnerReporter(stderr, true)
	}
	return &lineReporter{out: stdout}
}
