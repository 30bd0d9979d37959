// Package providers - Execution provider configuration for the ONNX
// Runtime session layer.
package providers

// Backend identifies an ONNX Runtime execution provider.
type Backend string

const (
	// CPUBackend runs inference on the default CPU provider.
	CPUBackend Backend = "cpu"
	// CoreMLBackend runs inference on the Apple CoreML provider.
	CoreMLBackend Backend = "coreml"
	// OpenVINOBackend runs inference on the Intel OpenVINO provider.
	OpenVINOBackend Backend = "openvino"
	// CUDABackend runs inference on the NVIDIA CUDA provider.
	CUDABackend Backend = "cuda"
)

// Config selects the execution provider and session-level threading
// for a runtime session.
type Config struct {
	// Backend specifies the execution provider to use.
	Backend Backend `json:"backend" yaml:"backend"`

	// LibraryPath overrides the ONNX Runtime shared library location.
	// Empty means the per-platform default (see SharedLibraryPath).
	LibraryPath string `json:"library_path" yaml:"library_path"`

	// IntraOpNumThreads parallelizes execution within graph nodes.
	// Zero uses the runtime default.
	IntraOpNumThreads int `json:"intra_op_num_threads" yaml:"intra_op_num_threads"`

	// InterOpNumThreads parallelizes execution across independent
	// graph nodes. Zero uses the runtime default.
	InterOpNumThreads int `json:"inter_op_num_threads" yaml:"inter_op_num_threads"`

	// OpenVINO holds provider-specific options used when Backend is
	// OpenVINOBackend.
	OpenVINO OpenVINOOptions `json:"openvino,omitempty" yaml:"openvino,omitempty"`
}

// OpenVINOOptions mirrors the OpenVINO execution provider settings.
//
// See:
// https://onnxruntime.ai/docs/execution-providers/OpenVINO-ExecutionProvider.html
type OpenVINOOptions struct {
	DeviceType   string `json:"device_type" yaml:"device_type"`
	DeviceID     string `json:"device_id" yaml:"device_id"`
	Precision    string `json:"precision" yaml:"precision"`
	NumOfThreads int    `json:"num_of_threads" yaml:"num_of_threads"`
}

// DefaultConfig returns a CPU-only configuration suitable for any
// host.
//
// Returns:
//   - Config: CPU provider with runtime-default threading.
func DefaultConfig() Config {
	return Config{Backend: CPUBackend}
}
