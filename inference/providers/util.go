package providers

import (
	"os"
	"runtime"
)

// SharedLibraryPathEnv overrides the ONNX Runtime shared library
// location when set.
const SharedLibraryPathEnv = "ONNXRUNTIME_SHARED_LIBRARY_PATH"

// SharedLibraryPath returns the path to the ONNX Runtime shared
// library for the current platform. The environment variable takes
// precedence over the bundled per-platform defaults.
//
// Returns:
//   - string: The path to the shared library.
func SharedLibraryPath() string {
	if p := os.Getenv(SharedLibraryPathEnv); p != "" {
		return p
	}
	if runtime.GOOS == "windows" {
		return "./third_party/onnxruntime.dll"
	}
	if runtime.GOOS == "darwin" {
		return "./third_party/libonnxruntime.dylib"
	}
	if runtime.GOARCH == "arm64" {
		return "./third_party/onnxruntime_arm64.so"
	}
	return "./third_party/onnxruntime.so"
}
