// Package providers - ONNX Runtime session construction.
package providers

import (
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// environment setup happens once per process.
var envOnce sync.Once

// Session wraps a native ONNX Runtime session with its preallocated
// input and output tensors. Tensors are bound once at construction
// for zero-copy data exchange; Run evaluates the model in place.
type Session struct {
	session *ort.AdvancedSession

	// Input is the preallocated model input tensor.
	Input *ort.Tensor[float32]
	// Output is the preallocated model output tensor.
	Output *ort.Tensor[float32]
}

// NewSessionArgs describes the model binding for a new session.
type NewSessionArgs struct {
	// ModelPath is the path to the serialized ONNX model artifact.
	ModelPath string
	// InputName is the model's input node name (e.g. "images").
	InputName string
	// OutputName is the model's output node name (e.g. "output0").
	OutputName string
	// InputShape is the fixed input tensor shape, e.g. [1, 3, 640, 640].
	InputShape []int64
	// OutputShape is the fixed output tensor shape, e.g. [1, 5, 8400].
	OutputShape []int64
	// Provider selects the execution provider and threading.
	Provider Config
}

// NewSession creates an ONNX Runtime session with preallocated
// input/output tensors.
//
// Order of operations:
//  1. Library path check: ensures the native runtime is accessible.
//  2. Environment setup: loads the native library, once per process.
//  3. Tensor allocation: fixed-shape buffers for input/output data.
//  4. Session options: threading, graph optimization, execution
//     providers.
//  5. Session creation: loads the model and binds the tensors.
//
// Arguments:
//   - args: The model binding and provider configuration.
//
// Returns:
//   - *Session: The runnable session. Close releases native resources.
//   - error: An error if any stage of session creation fails.
func NewSession(args NewSessionArgs) (*Session, error) {
	libPath := args.Provider.LibraryPath
	if libPath == "" {
		libPath = SharedLibraryPath()
	}
	if _, err := os.Stat(libPath); err != nil {
		return nil, fmt.Errorf("ONNX Runtime library not found at %s: %w", libPath, err)
	}

	envOnce.Do(func() {
		ort.SetSharedLibraryPath(libPath)
	})
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("error initializing ORT environment: %w", err)
		}
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(args.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("error creating input tensor: %w", err)
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(args.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("error creating output tensor: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("error creating ORT session options: %w", err)
	}
	defer options.Destroy()

	if err := configureThreading(options, args.Provider); err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, err
	}

	if err := appendExecutionProvider(options, args.Provider); err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, err
	}

	session, err := ort.NewAdvancedSession(
		args.ModelPath,
		[]string{args.InputName},
		[]string{args.OutputName},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("error creating ORT session: %w", err)
	}

	return &Session{
		session: session,
		Input:   inputTensor,
		Output:  outputTensor,
	}, nil
}

// configureThreading applies the session-level threading and graph
// optimization options.
func configureThreading(options *ort.SessionOptions, config Config) error {
	if config.IntraOpNumThreads > 0 {
		if err := options.SetIntraOpNumThreads(config.IntraOpNumThreads); err != nil {
			return fmt.Errorf("error setting intra-op threads: %w", err)
		}
	}
	if config.InterOpNumThreads > 0 {
		if err := options.SetInterOpNumThreads(config.InterOpNumThreads); err != nil {
			return fmt.Errorf("error setting inter-op threads: %w", err)
		}
	}
	if err := options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended); err != nil {
		return fmt.Errorf("error setting graph optimization level: %w", err)
	}
	return nil
}

// appendExecutionProvider enables the configured hardware provider.
// The CPU provider needs no registration.
func appendExecutionProvider(options *ort.SessionOptions, config Config) error {
	switch config.Backend {
	case "", CPUBackend:
		return nil
	case CoreMLBackend:
		if err := options.AppendExecutionProviderCoreML(0); err != nil {
			return fmt.Errorf("error enabling CoreML: %w", err)
		}
	case OpenVINOBackend:
		opts := config.OpenVINO
		err := options.AppendExecutionProviderOpenVINO(map[string]string{
			"device_type":    opts.DeviceType,
			"device_id":      opts.DeviceID,
			"precision":      opts.Precision,
			"num_of_threads": fmt.Sprintf("%d", opts.NumOfThreads),
		})
		if err != nil {
			return fmt.Errorf("error enabling OpenVINO: %w", err)
		}
	case CUDABackend:
		cudaOptions, err := ort.NewCUDAProviderOptions()
		if err != nil {
			return fmt.Errorf("error creating CUDA provider options: %w", err)
		}
		defer cudaOptions.Destroy()
		if err := options.AppendExecutionProviderCUDA(cudaOptions); err != nil {
			return fmt.Errorf("error enabling CUDA: %w", err)
		}
	default:
		return fmt.Errorf("no matching provider backend registered: %s", config.Backend)
	}
	return nil
}

// Run evaluates the model over the bound input tensor, writing into
// the bound output tensor. Callers must not invoke Run concurrently
// on the same session.
//
// Returns:
//   - error: An error if evaluation fails.
func (s *Session) Run() error {
	return s.session.Run()
}

// Close releases the native session and its tensors.
//
// Returns:
//   - error: An error if destroying the native session fails.
func (s *Session) Close() error {
	if s.Input != nil {
		s.Input.Destroy()
		s.Input = nil
	}
	if s.Output != nil {
		s.Output.Destroy()
		s.Output = nil
	}
	if s.session != nil {
		if err := s.session.Destroy(); err != nil {
			return fmt.Errorf("error destroying ORT session: %w", err)
		}
		s.session = nil
	}
	return nil
}
