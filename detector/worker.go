package detector

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/camkit/go-detect/images"
	"github.com/camkit/go-detect/inference"
)

// Result is the outcome of one detection call: either detections or
// a per-call error, never both.
type Result struct {
	Detections []inference.Detection
	Err        error
}

// WorkerConfig controls the frame pump.
type WorkerConfig struct {
	// MinInterval is the target detection cadence. Frames arriving
	// sooner than this after the previous accepted frame are dropped.
	// Zero disables rate limiting.
	MinInterval time.Duration `json:"min_interval" yaml:"min_interval"`
}

// Worker serializes frame submissions to one Detector on a dedicated
// goroutine. Backpressure is handled by discarding: a frame submitted
// while a detection is in flight, or faster than the target cadence,
// is dropped rather than queued. This is the caller-side half of the
// concurrency contract — the core never buffers work.
//
// Consumers must drain Results until it is closed by Stop.
type Worker struct {
	detector *Detector
	interval time.Duration
	log      *zap.Logger

	frames  chan images.Frame
	results chan Result
	done    chan struct{}

	dropped  atomic.Uint64
	stopOnce sync.Once
}

// NewWorker creates and starts a frame pump over the detector.
//
// Arguments:
//   - detector: The detector to feed. The worker does not take
//     ownership; close it separately after Stop.
//   - config: Pacing configuration.
//
// Returns:
//   - *Worker: The running worker.
func NewWorker(detector *Detector, config WorkerConfig) *Worker {
	w := &Worker{
		detector: detector,
		interval: config.MinInterval,
		log:      detector.log,
		frames:   make(chan images.Frame, 1),
		results:  make(chan Result, 1),
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// Submit offers a frame to the worker without blocking.
//
// A true return means the frame was accepted into the single hand-off
// slot, not that it will be detected: at most one accepted frame can
// wait behind an in-flight detection, and an accepted frame may still
// be discarded by the cadence limit before it reaches the pipeline.
// Cadence drops are visible through Dropped, never through Results.
//
// Arguments:
//   - frame: The captured frame.
//
// Returns:
//   - bool: False if the frame was dropped because the hand-off slot
//     is already occupied.
func (w *Worker) Submit(frame images.Frame) bool {
	select {
	case w.frames <- frame:
		return true
	default:
		w.dropped.Add(1)
		return false
	}
}

// Results returns the channel of detection outcomes. Closed by Stop.
func (w *Worker) Results() <-chan Result {
	return w.results
}

// Dropped returns the number of frames discarded so far, whether by
// busy-dropping or by cadence limiting.
func (w *Worker) Dropped() uint64 {
	return w.dropped.Load()
}

// Stop terminates the pump. Frames already accepted may still produce
// one final result before Results is closed.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
}

func (w *Worker) run() {
	defer close(w.results)

	var last time.Time
	for {
		select {
		case <-w.done:
			return
		case frame := <-w.frames:
			if w.interval > 0 && !last.IsZero() && time.Since(last) < w.interval {
				w.dropped.Add(1)
				w.log.Debug("frame dropped by cadence limit")
				continue
			}
			last = time.Now()

			detections, err := w.detector.Detect(context.Background(), frame)
			select {
			case w.results <- Result{Detections: detections, Err: err}:
			case <-w.done:
				return
			}
		}
	}
}
