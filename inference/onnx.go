package inference

import (
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/camkit/go-detect/inference/providers"
)

// ONNXConfig describes the model binding for the ONNX runtime.
type ONNXConfig struct {
	// ModelPath is the path to the serialized ONNX model artifact.
	ModelPath string `json:"model_path" yaml:"model_path"`

	// InputName is the model's input node name.
	InputName string `json:"input_name" yaml:"input_name"`
	// OutputName is the model's output node name.
	OutputName string `json:"output_name" yaml:"output_name"`

	// InputShape is the fixed input shape, e.g. [1, 3, 640, 640].
	InputShape []int64 `json:"input_shape" yaml:"input_shape"`
	// OutputShape is the fixed output shape, e.g. [1, 5, 8400].
	OutputShape []int64 `json:"output_shape" yaml:"output_shape"`

	// Provider selects the execution provider and threading.
	Provider providers.Config `json:"provider" yaml:"provider"`
}

// ONNXRuntime implements Runtime over an ONNX Runtime session with
// preallocated tensors. The session handle is acquired once at
// startup and released once at shutdown; a mutex guarantees at most
// one in-flight inference per session instance.
type ONNXRuntime struct {
	mu      sync.Mutex
	session *providers.Session
	config  ONNXConfig
}

// NewONNXRuntime loads the model artifact and creates the runtime
// session.
//
// Arguments:
//   - config: The model binding and provider configuration.
//
// Returns:
//   - *ONNXRuntime: The loaded runtime.
//   - error: ErrInitialization if the artifact is missing or the
//     session cannot be created.
func NewONNXRuntime(config ONNXConfig) (*ONNXRuntime, error) {
	if config.ModelPath == "" {
		return nil, errors.Wrap(ErrInitialization, "model path is empty")
	}
	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, errors.Wrapf(ErrInitialization,
			"model artifact not readable at %s: %v", config.ModelPath, err)
	}

	session, err := providers.NewSession(providers.NewSessionArgs{
		ModelPath:   config.ModelPath,
		InputName:   config.InputName,
		OutputName:  config.OutputName,
		InputShape:  config.InputShape,
		OutputShape: config.OutputShape,
		Provider:    config.Provider,
	})
	if err != nil {
		return nil, errors.Wrapf(ErrInitialization, "%v", err)
	}

	return &ONNXRuntime{session: session, config: config}, nil
}

// Run evaluates the model. The input must match the configured input
// shape exactly; the runtime performs no resizing or padding.
//
// Arguments:
//   - input: The preprocessed input tensor.
//
// Returns:
//   - *Tensor: A copy of the raw output tensor, caller-owned.
//   - error: ErrInference on shape mismatch or evaluation failure.
func (r *ONNXRuntime) Run(input *Tensor) (*Tensor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return nil, errors.Wrap(ErrInference, "session is closed")
	}
	if input == nil {
		return nil, errors.Wrap(ErrInference, "nil input tensor")
	}

	dst := r.session.Input.GetData()
	if len(input.Data) != len(dst) {
		return nil, errors.Wrapf(ErrInference,
			"input tensor holds %d floats, session expects %d",
			len(input.Data), len(dst))
	}
	copy(dst, input.Data)

	if err := r.session.Run(); err != nil {
		return nil, errors.Wrapf(ErrInference, "%v", err)
	}

	// Copy out so the result stays valid across subsequent Run calls.
	src := r.session.Output.GetData()
	out := make([]float32, len(src))
	copy(out, src)

	shape := make([]int64, len(r.config.OutputShape))
	copy(shape, r.config.OutputShape)

	return &Tensor{Data: out, Shape: shape}, nil
}

// Close releases the session. Subsequent Run calls fail with
// ErrInference.
func (r *ONNXRuntime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return nil
	}
	err := r.session.Close()
	r.session = nil
	return err
}
