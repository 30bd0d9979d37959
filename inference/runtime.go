package inference

// Runtime is the narrow capability interface over the opaque model
// evaluation engine. The numeric pre/post-processing core depends
// only on this contract, so it can be tested with synthetic runtimes
// and is not tied to any specific inference binding.
//
// Implementations must guarantee at most one in-flight evaluation per
// session instance; Run is synchronous and blocking with respect to
// its caller.
type Runtime interface {
	// Run evaluates the model over the input tensor and returns the
	// raw output tensor. The returned tensor is owned by the caller
	// and remains valid after subsequent Run calls.
	Run(input *Tensor) (*Tensor, error)

	// Close releases the loaded model and session resources.
	Close() error
}
