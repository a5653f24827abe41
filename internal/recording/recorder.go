// Package recording implements the evidence-collection collaborator: a
// periodic screenshot capture loop. Screenshot acquisition itself is
// delegated to a Grabber so the engine never depends on a display stack.
package recording

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Grabber captures one screenshot as encoded image bytes.
type Grabber interface {
	Grab(ctx context.Context) ([]byte, error)
}

// Status is the recording state exposed to the dashboard.
type Status struct {
	Recording   bool `json:"recording"`
	Screenshots int  `json:"screenshots_taken"`
}

// Recorder writes a screenshot to the output directory at a fixed interval
// while recording is active. Grab failures are logged and the loop keeps
// going; degraded evidence collection never stops an exam.
type Recorder struct {
	mu sync.Mutex

	grabber  Grabber
	outDir   string
	interval time.Duration
	logger   *slog.Logger

	recording bool
	count     int
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewRecorder(grabber Grabber, outDir string, interval time.Duration, logger *slog.Logger) *Recorder {
	if interval == 0 {
		interval = time.Minute
	}
	return &Recorder{
		grabber:  grabber,
		outDir:   outDir,
		interval: interval,
		logger:   logger,
	}
}

// Start begins periodic capture. Returns false when already recording.
func (r *Recorder) Start() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return false
	}
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		r.logger.Error("could not create screenshot directory", "dir", r.outDir, "error", err)
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	r.recording = true

	go r.loop(ctx, r.done)

	r.logger.Info("screen recording started", "interval", r.interval, "dir", r.outDir)
	return true
}

// Stop ends periodic capture. Returns false when not recording.
func (r *Recorder) Stop() bool {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return false
	}
	r.recording = false
	cancel := r.cancel
	done := r.done
	r.mu.Unlock()

	cancel()
	<-done

	r.logger.Info("screen recording stopped")
	return true
}

// Toggle flips the recording state and reports whether recording is now
// active.
func (r *Recorder) Toggle() bool {
	if r.Status().Recording {
		r.Stop()
		return false
	}
	return r.Start()
}

// Status returns the current state and screenshot count.
func (r *Recorder) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{Recording: r.recording, Screenshots: r.count}
}

func (r *Recorder) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.capture(ctx)
		}
	}
}

func (r *Recorder) capture(ctx context.Context) {
	data, err := r.grabber.Grab(ctx)
	if err != nil {
		r.logger.Warn("screenshot capture failed", "error", err)
		return
	}

	name := fmt.Sprintf("screenshot_%s.jpg", time.Now().Format("20060102_150405"))
	path := filepath.Join(r.outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		r.logger.Warn("could not save screenshot", "path", path, "error", err)
		return
	}

	r.mu.Lock()
	r.count++
	r.mu.Unlock()

	r.logger.Debug("screenshot saved", "path", path)
}

// NoopGrabber returns a placeholder payload; used when no display stack is
// available.
type NoopGrabber struct{}

func (NoopGrabber) Grab(_ context.Context) ([]byte, error) {
	return []byte{0xFF, 0xD8, 0xFF, 0xD9}, nil
}
