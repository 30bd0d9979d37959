package images

import (
	"image"

	"github.com/nfnt/resize"
)

// Resize scales img to exactly width x height using Lanczos3
// resampling. The aspect ratio is NOT preserved: the model input is a
// fixed square and the preprocessing stage records the per-axis scale
// factors needed to map detections back to the source frame.
//
// Arguments:
//   - img: The image to resize.
//   - width: The target width in pixels.
//   - height: The target height in pixels.
//
// Returns:
//   - image.Image: The resized image.
func Resize(img image.Image, width, height int) image.Image {
	return resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
}
