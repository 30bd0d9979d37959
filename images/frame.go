// Package images - Frame and geometry primitives for the detection pipeline.
package images

import (
	"image"
)

// Frame is a single captured video frame handed over by the camera
// pipeline. The frame is owned by the caller for the duration of one
// detection call and is never retained by the core.
type Frame struct {
	// Image is the decoded RGB(A) pixel grid.
	Image image.Image
	// Width is the frame width in pixels.
	Width int
	// Height is the frame height in pixels.
	Height int
}

// NewFrame wraps a decoded image as a Frame, caching its dimensions.
//
// Arguments:
//   - img: The decoded image. May be nil; validation happens at
//     preprocessing time so that malformed frames fail fast there.
//
// Returns:
//   - Frame: The wrapped frame.
func NewFrame(img image.Image) Frame {
	if img == nil {
		return Frame{}
	}
	bounds := img.Bounds()
	return Frame{
		Image:  img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}
}

// Valid reports whether the frame has a backing image and positive
// dimensions.
func (f Frame) Valid() bool {
	return f.Image != nil && f.Width > 0 && f.Height > 0
}
