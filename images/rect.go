package images

import "image"

// Rect is a lightweight bounding box in original-image pixel
// coordinates. Coordinates are float32 because detector outputs are
// sub-pixel; X2,Y2 are exclusive (like image.Rectangle).
type Rect struct {
	X1, Y1, X2, Y2 float32
}

// ToRectangle converts the box to an image.Rectangle, truncating the
// sub-pixel coordinates. Useful for overlay rendering.
func (r Rect) ToRectangle() image.Rectangle {
	return image.Rect(int(r.X1), int(r.Y1), int(r.X2), int(r.Y2)).Canon()
}

// Width returns the box width in pixels.
func (r Rect) Width() float32 { return r.X2 - r.X1 }

// Height returns the box height in pixels.
func (r Rect) Height() float32 { return r.Y2 - r.Y1 }

// CalculateIoU computes the Intersection over Union of two boxes.
//
// IoU = Area of Intersection / Area of Union, a value in [0, 1] where
// 1.0 means the boxes are identical and 0.0 means they do not overlap
// at all. Used by the opt-in suppression stage to decide which
// overlapping detections to discard.
//
// Arguments:
//   - r: The first rectangle.
//   - o: The other rectangle to compare against.
//
// Returns:
//   - float32: The IoU score between 0.0 and 1.0.
func CalculateIoU(r, o Rect) float32 {
	// The intersection starts at the maximum of the top-left corners
	// and ends at the minimum of the bottom-right corners.
	ix1 := max(r.X1, o.X1)
	iy1 := max(r.Y1, o.Y1)
	ix2 := min(r.X2, o.X2)
	iy2 := min(r.Y2, o.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	interArea := interW * interH

	// Union(A, B) = Area(A) + Area(B) - Intersection(A, B)
	areaR := (r.X2 - r.X1) * (r.Y2 - r.Y1)
	areaO := (o.X2 - o.X1) * (o.Y2 - o.Y1)
	unionArea := areaR + areaO - interArea

	return interArea / unionArea
}
