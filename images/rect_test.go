package images

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCalculateIoU validates the IoU implementation against known
// overlap cases.
func TestCalculateIoU(t *testing.T) {
	tests := []struct {
		name     string
		r1       Rect
		r2       Rect
		expected float32
	}{
		{
			name:     "Identical rectangles",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{0, 0, 100, 100},
			expected: 1.0,
		},
		{
			name:     "No overlap",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{200, 200, 300, 300},
			expected: 0.0,
		},
		{
			name:     "Touching edges",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{100, 0, 200, 100},
			expected: 0.0,
		},
		{
			name:     "Half overlap",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{50, 50, 150, 150},
			expected: 0.142857, // 2500 / (10000 + 10000 - 2500)
		},
		{
			name:     "One inside other",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{25, 25, 75, 75},
			expected: 0.25, // 2500 / 10000
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateIoU(tt.r1, tt.r2), 0.001)

			// IoU(A, B) must equal IoU(B, A).
			assert.InDelta(t, CalculateIoU(tt.r1, tt.r2), CalculateIoU(tt.r2, tt.r1), 0.0001,
				"IoU should be symmetric")
		})
	}
}

func TestRectDimensions(t *testing.T) {
	r := Rect{X1: 10.5, Y1: 20.5, X2: 110.5, Y2: 70.5}

	assert.InDelta(t, 100.0, r.Width(), 0.0001)
	assert.InDelta(t, 50.0, r.Height(), 0.0001)
	assert.Equal(t, image.Rect(10, 20, 110, 70), r.ToRectangle())
}
