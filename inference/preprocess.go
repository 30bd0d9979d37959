package inference

import (
	"github.com/pkg/errors"

	"github.com/camkit/go-detect/images"
)

// DefaultInputSize is the square model input size used by the
// deployed detector.
const DefaultInputSize = 640

// Scale holds the factors that map model-space coordinates back to
// the original frame's pixel space. They are the exact inverse of the
// resize applied during preprocessing, so postprocessing recovers
// original coordinates with no drift.
type Scale struct {
	// X is originalWidth / inputSize.
	X float32
	// Y is originalHeight / inputSize.
	Y float32
}

// Preprocessor converts a captured frame into a model-ready tensor:
// a fixed-size, channel-planar float32 tensor with values normalized
// to [0, 1].
type Preprocessor struct {
	size int
}

// NewPreprocessor creates a preprocessor for the given square input
// size. A non-positive size falls back to DefaultInputSize.
//
// Arguments:
//   - size: The model input edge length in pixels (typically 640).
//
// Returns:
//   - *Preprocessor: The configured preprocessor.
func NewPreprocessor(size int) *Preprocessor {
	if size <= 0 {
		size = DefaultInputSize
	}
	return &Preprocessor{size: size}
}

// Size returns the square input edge length.
func (p *Preprocessor) Size() int { return p.size }

// Process resizes the frame to exactly size x size with Lanczos3
// resampling and writes the pixels in channel-planar order (all red
// values first, then all green, then all blue), each divided by
// 255.0. The planar ordering must match the model's input layout
// exactly; a transposition here silently corrupts every downstream
// detection.
//
// Arguments:
//   - frame: The frame to convert. Must have a backing image and
//     positive dimensions.
//
// Returns:
//   - *Tensor: A tensor of shape [1, 3, size, size].
//   - Scale: The factors mapping model space back to frame space.
//   - error: ErrPrecondition if the frame is malformed.
func (p *Preprocessor) Process(frame images.Frame) (*Tensor, Scale, error) {
	if !frame.Valid() {
		return nil, Scale{}, errors.Wrapf(ErrPrecondition,
			"malformed frame: image=%t dimensions=%dx%d",
			frame.Image != nil, frame.Width, frame.Height)
	}

	size := p.size
	channelSize := size * size
	data := make([]float32, 3*channelSize)
	red := data[0:channelSize]
	green := data[channelSize : channelSize*2]
	blue := data[channelSize*2 : channelSize*3]

	resized := images.Resize(frame.Image, size, size)

	i := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(b>>8) / 255.0
			i++
		}
	}

	tensor := &Tensor{
		Data:  data,
		Shape: []int64{1, 3, int64(size), int64(size)},
	}
	scale := Scale{
		X: float32(frame.Width) / float32(size),
		Y: float32(frame.Height) / float32(size),
	}
	return tensor, scale, nil
}
