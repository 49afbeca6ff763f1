package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"dialogger/internal/services"
	"dialogger/internal/transcribe"
)

// ErrBusy is returned by Runner.Start while a conversion is in flight.
var ErrBusy = fmt.Errorf("%w: a conversion is already running", services.ErrBusy)

// Result is the single value a started conversion delivers.
type Result struct {
	Request  Request
	Segments []transcribe.Segment
	Err      error
	Elapsed  time.Duration
}

// Runner executes conversions on a background goroutine, one at a time.
type Runner struct {
	opts     Options
	lockPath string
	running  atomic.Bool
}

// NewRunner returns a Runner. lockPath, when non-empty, is an advisory lock
// file shared by every dialogger process.
func NewRunner(lockPath string, opts Options) *Runner {
	return &Runner{opts: opts, lockPath: lockPath}
}

// Busy reports whether a conversion started by this Runner is still running.
func (r *Runner) Busy() bool {
	return r.running.Load()
}

// Start begins a conversion and returns a channel that receives exactly one
// Result and is then closed.
func (r *Runner) Start(ctx context.Context, req Request) (<-chan Result, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	lock, err := r.acquire()
	if err != nil {
		r.running.Store(false)
		return nil, err
	}

	results := make(chan Result, 1)
	go func() {
		defer close(results)
		start := time.Now()
		segments, err := Convert(ctx, req, r.opts)
		if lock != nil {
			_ = lock.Unlock()
		}
		r.running.Store(false)
		results <- Result{
			Request:  req,
			Segments: segments,
			Err:      err,
			Elapsed:  time.Since(start),
		}
	}()
	return results, nil
}

func (r *Runner) acquire() (*flock.Flock, error) {
	if r.lockPath == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(r.lockPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "convert", "lock", "Failed to create lock directory", err)
	}
	lock := flock.New(r.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "convert", "lock", "Failed to acquire conversion lock", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (held by another process: %s)", ErrBusy, r.lockPath)
	}
	return lock, nil
}
