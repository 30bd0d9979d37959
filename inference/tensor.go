// Package inference - The numeric transform pipeline around model
// evaluation: frame to input tensor, raw output tensor to detections.
package inference

import (
	"github.com/pkg/errors"
)

// Tensor is a flat ordered sequence of 32-bit floats with an explicit
// shape. Inputs use [batch, channels, height, width]; raw detector
// outputs use [batch, attributes, anchors]. Tensors live for a single
// detection call and are never cached.
type Tensor struct {
	// Data is the flattened tensor content.
	Data []float32
	// Shape is the logical dimensionality of Data.
	Shape []int64
}

// NewTensor wraps data with the given shape, validating that the
// element count matches.
//
// Arguments:
//   - data: The flattened tensor content.
//   - shape: The logical shape of the data.
//
// Returns:
//   - *Tensor: The constructed tensor.
//   - error: An error if the shape does not describe len(data).
func NewTensor(data []float32, shape ...int64) (*Tensor, error) {
	t := &Tensor{Data: data, Shape: shape}
	if n := t.Elems(); n != int64(len(data)) {
		return nil, errors.Errorf(
			"tensor shape %v describes %d elements, got %d", shape, n, len(data))
	}
	return t, nil
}

// Elems returns the number of elements the shape describes.
func (t *Tensor) Elems() int64 {
	if len(t.Shape) == 0 {
		return 0
	}
	n := int64(1)
	for _, d := range t.Shape {
		n *= d
	}
	return n
}
