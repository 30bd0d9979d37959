package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharedLibraryPathEnvOverride(t *testing.T) {
	t.Setenv(SharedLibraryPathEnv, "/opt/onnxruntime/lib/libonnxruntime.so")
	assert.Equal(t, "/opt/onnxruntime/lib/libonnxruntime.so", SharedLibraryPath())
}

func TestSharedLibraryPathDefault(t *testing.T) {
	t.Setenv(SharedLibraryPathEnv, "")
	assert.NotEmpty(t, SharedLibraryPath())
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, CPUBackend, config.Backend)
	assert.Zero(t, config.IntraOpNumThreads)
	assert.Zero(t, config.InterOpNumThreads)
}
