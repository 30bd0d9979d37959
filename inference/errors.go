package inference

import "github.com/pkg/errors"

// The three error kinds the detection core reports. Callers
// discriminate with errors.Is.
var (
	// ErrInitialization indicates the model artifact is missing or
	// corrupt, or the runtime session could not be created. Fatal to
	// the detection capability until re-initialized.
	ErrInitialization = errors.New("inference: initialization failure")

	// ErrInference indicates the runtime rejected the input tensor or
	// failed during evaluation. Per-call and non-fatal; the caller may
	// submit the next frame.
	ErrInference = errors.New("inference: evaluation failure")

	// ErrPrecondition indicates a malformed input such as a
	// zero-dimension frame. The call fails fast rather than producing
	// garbage detections.
	ErrPrecondition = errors.New("inference: precondition violation")
)
