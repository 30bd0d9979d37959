package inference

import (
	"fmt"

	"github.com/camkit/go-detect/images"
)

// Detection is a single detected object: a bounding box in
// original-image pixel coordinates, a class label, and a confidence
// score in [0, 1]. Immutable once produced; owned by the caller.
type Detection struct {
	Box   images.Rect
	Label string
	Score float32
}

func (d Detection) String() string {
	return fmt.Sprintf("%s (%.2f): (%.1f, %.1f)-(%.1f, %.1f)",
		d.Label, d.Score, d.Box.X1, d.Box.Y1, d.Box.X2, d.Box.Y2)
}
