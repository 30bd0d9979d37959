package detector

import (
	"context"

	"go.uber.org/zap"

	"github.com/camkit/go-detect/images"
	"github.com/camkit/go-detect/inference"
)

// Detector turns captured frames into detections. It owns one
// runtime session (acquired at startup, released at shutdown) and the
// preprocessing/postprocessing stages around it.
//
// Detect is synchronous and blocking, holds no cross-call state, and
// is safe to call repeatedly from a single dedicated execution
// context. The underlying runtime serializes evaluations, so the
// session is never invoked concurrently. Frame pacing and dropping
// belong to the caller (see Worker).
type Detector struct {
	config  Config
	runtime inference.Runtime
	pre     *inference.Preprocessor
	post    *inference.Postprocessor
	log     *zap.Logger
}

// New loads the model artifact and creates a detector backed by the
// ONNX runtime.
//
// Arguments:
//   - config: The deployment configuration. Zero values fall back to
//     DefaultConfig.
//
// Returns:
//   - *Detector: The ready detector.
//   - error: inference.ErrInitialization if the model cannot be
//     loaded or the session cannot be created.
func New(config Config) (*Detector, error) {
	config.applyDefaults()

	runtime, err := inference.NewONNXRuntime(inference.ONNXConfig{
		ModelPath:   config.ModelPath,
		InputName:   config.InputName,
		OutputName:  config.OutputName,
		InputShape:  config.inputShape(),
		OutputShape: config.outputShape(),
		Provider:    config.Provider,
	})
	if err != nil {
		config.logger().Error("detector initialization failed",
			zap.String("model_path", config.ModelPath),
			zap.Error(err))
		return nil, err
	}

	d := NewWithRuntime(config, runtime)
	d.log.Info("detector initialized",
		zap.String("model_path", config.ModelPath),
		zap.Int("input_size", config.InputSize),
		zap.Int("num_classes", config.NumClasses),
		zap.Int("num_anchors", config.NumAnchors),
		zap.String("backend", string(config.Provider.Backend)))
	return d, nil
}

// NewWithRuntime creates a detector over an existing runtime. This is
// the seam for testing the numeric pipeline against synthetic
// runtimes and for alternative inference bindings.
//
// Arguments:
//   - config: The deployment configuration.
//   - runtime: The model evaluation engine. The detector takes
//     ownership and releases it on Close.
//
// Returns:
//   - *Detector: The ready detector.
func NewWithRuntime(config Config, runtime inference.Runtime) *Detector {
	config.applyDefaults()
	return &Detector{
		config:  config,
		runtime: runtime,
		pre:     inference.NewPreprocessor(config.InputSize),
		post: inference.NewPostprocessor(inference.PostprocessConfig{
			ConfidenceThreshold: config.ConfidenceThreshold,
			Labels:              config.Labels,
			NMS:                 config.NMS,
		}),
		log: config.logger(),
	}
}

// Detect runs one frame through the full pipeline: preprocess,
// evaluate, postprocess.
//
// No retries are performed; on an inference error the caller decides
// whether to submit a subsequent frame.
//
// Arguments:
//   - ctx: Checked before starting; an already-canceled context
//     aborts the call.
//   - frame: The captured frame. Owned by the caller for the duration
//     of the call.
//
// Returns:
//   - []inference.Detection: The detected objects in original-frame
//     pixel coordinates.
//   - error: inference.ErrPrecondition for malformed frames,
//     inference.ErrInference for evaluation failures.
func (d *Detector) Detect(ctx context.Context, frame images.Frame) ([]inference.Detection, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	input, scale, err := d.pre.Process(frame)
	if err != nil {
		return nil, err
	}

	output, err := d.runtime.Run(input)
	if err != nil {
		d.log.Warn("inference failed", zap.Error(err))
		return nil, err
	}

	detections, err := d.post.Process(output, scale)
	if err != nil {
		return nil, err
	}

	d.log.Debug("frame processed",
		zap.Int("frame_width", frame.Width),
		zap.Int("frame_height", frame.Height),
		zap.Int("detections", len(detections)))
	return detections, nil
}

// Close releases the runtime session. The detector is unusable
// afterwards.
func (d *Detector) Close() error {
	d.log.Info("detector closed")
	return d.runtime.Close()
}
