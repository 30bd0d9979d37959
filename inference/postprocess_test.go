package inference

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// attributeMajor builds a raw output tensor of shape
// [1, attrs, anchors] from anchor-major rows, mirroring how the model
// actually lays its output out in memory.
func attributeMajor(t *testing.T, rows [][]float32) *Tensor {
	t.Helper()
	require.NotEmpty(t, rows)

	anchors := len(rows)
	attrs := len(rows[0])
	data := make([]float32, attrs*anchors)
	for i, row := range rows {
		require.Len(t, row, attrs, "all anchors must carry the same attributes")
		for a, v := range row {
			data[a*anchors+i] = v
		}
	}

	out, err := NewTensor(data, 1, int64(attrs), int64(anchors))
	require.NoError(t, err)
	return out
}

// TestPostprocessDecode validates the full decode of a synthetic
// anchor: transpose, confidence filter, coordinate rescale, and
// center/size to corner conversion.
func TestPostprocessDecode(t *testing.T) {
	post := NewPostprocessor(PostprocessConfig{Labels: []string{"object"}})

	// One confident anchor at model-space center (100, 100), 50x50;
	// one anchor well below threshold.
	output := attributeMajor(t, [][]float32{
		{100, 100, 50, 50, 0.9},
		{300, 300, 20, 20, 0.1},
	})

	detections, err := post.Process(output, Scale{X: 2.0, Y: 2.0})
	require.NoError(t, err)
	require.Len(t, detections, 1)

	d := detections[0]
	assert.InDelta(t, 150.0, d.Box.X1, 0.001)
	assert.InDelta(t, 150.0, d.Box.Y1, 0.001)
	assert.InDelta(t, 250.0, d.Box.X2, 0.001)
	assert.InDelta(t, 250.0, d.Box.Y2, 0.001)
	assert.InDelta(t, 0.9, d.Score, 0.0001)
	assert.Equal(t, "object", d.Label)
}

// TestPostprocessAnisotropicScale validates that X and Y are rescaled
// independently when the source frame was not square.
func TestPostprocessAnisotropicScale(t *testing.T) {
	post := NewPostprocessor(PostprocessConfig{Labels: []string{"object"}})

	output := attributeMajor(t, [][]float32{
		{320, 320, 100, 100, 0.8},
	})

	// A 1280x720 frame resized to 640x640.
	detections, err := post.Process(output, Scale{X: 2.0, Y: 1.125})
	require.NoError(t, err)
	require.Len(t, detections, 1)

	d := detections[0]
	assert.InDelta(t, 640-100, d.Box.X1, 0.01) // cx*2 - w*2/2
	assert.InDelta(t, 360-56.25, d.Box.Y1, 0.01)
	assert.InDelta(t, 640+100, d.Box.X2, 0.01)
	assert.InDelta(t, 360+56.25, d.Box.Y2, 0.01)
}

// TestPostprocessThresholdBoundary validates the strict greater-than
// comparison: an anchor scoring exactly the threshold is dropped.
func TestPostprocessThresholdBoundary(t *testing.T) {
	post := NewPostprocessor(PostprocessConfig{Labels: []string{"object"}})

	output := attributeMajor(t, [][]float32{
		{100, 100, 50, 50, 0.5},    // exactly at threshold: dropped
		{200, 200, 50, 50, 0.5001}, // just above: kept
		{300, 300, 50, 50, 0.4999}, // just below: dropped
	})

	detections, err := post.Process(output, Scale{X: 1.0, Y: 1.0})
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.InDelta(t, 0.5001, detections[0].Score, 0.0001)
	assert.InDelta(t, 200.0, detections[0].Box.X1+25, 0.001)
}

// TestPostprocessMultiClass validates per-anchor argmax over class
// slots and the label mapping.
func TestPostprocessMultiClass(t *testing.T) {
	post := NewPostprocessor(PostprocessConfig{
		Labels: []string{"person", "car", "bicycle"},
	})

	output := attributeMajor(t, [][]float32{
		{100, 100, 50, 50, 0.1, 0.9, 0.2}, // best: car
		{200, 200, 50, 50, 0.7, 0.1, 0.3}, // best: person
		{300, 300, 50, 50, 0.2, 0.3, 0.4}, // best below threshold
	})

	detections, err := post.Process(output, Scale{X: 1.0, Y: 1.0})
	require.NoError(t, err)
	require.Len(t, detections, 2)

	assert.Equal(t, "car", detections[0].Label)
	assert.InDelta(t, 0.9, detections[0].Score, 0.0001)
	assert.Equal(t, "person", detections[1].Label)
	assert.InDelta(t, 0.7, detections[1].Score, 0.0001)
}

// TestPostprocessLabelFallback validates the synthetic label for class
// indices beyond the configured mapping.
func TestPostprocessLabelFallback(t *testing.T) {
	post := NewPostprocessor(PostprocessConfig{Labels: []string{"person"}})

	output := attributeMajor(t, [][]float32{
		{100, 100, 50, 50, 0.1, 0.9},
	})

	detections, err := post.Process(output, Scale{X: 1.0, Y: 1.0})
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, "class_1", detections[0].Label)
}

// TestPostprocessOverlapsPreserved validates that overlapping boxes
// are all reported when suppression is not enabled, and merged when it
// is. Suppression is strictly opt-in.
func TestPostprocessOverlapsPreserved(t *testing.T) {
	rows := [][]float32{
		{100, 100, 50, 50, 0.9},
		{102, 102, 50, 50, 0.8}, // near-duplicate of the first
		{400, 400, 50, 50, 0.7}, // disjoint
	}

	raw := NewPostprocessor(PostprocessConfig{Labels: []string{"object"}})
	detections, err := raw.Process(attributeMajor(t, rows), Scale{X: 1.0, Y: 1.0})
	require.NoError(t, err)
	assert.Len(t, detections, 3, "overlapping boxes must be preserved by default")

	suppressed := NewPostprocessor(PostprocessConfig{
		Labels: []string{"object"},
		NMS:    &NMSConfig{IoUThreshold: 0.5},
	})
	detections, err = suppressed.Process(attributeMajor(t, rows), Scale{X: 1.0, Y: 1.0})
	require.NoError(t, err)
	require.Len(t, detections, 2)
	assert.InDelta(t, 0.9, detections[0].Score, 0.0001)
	assert.InDelta(t, 0.7, detections[1].Score, 0.0001)
}

// TestPostprocessBadShapes validates that undecodable tensors fail
// with an inference error instead of producing garbage.
func TestPostprocessBadShapes(t *testing.T) {
	post := NewPostprocessor(PostprocessConfig{})

	tests := []struct {
		name   string
		output *Tensor
	}{
		{name: "Nil tensor", output: nil},
		{name: "Wrong rank", output: &Tensor{Data: make([]float32, 10), Shape: []int64{10}}},
		{name: "Batch not one", output: &Tensor{Data: make([]float32, 20), Shape: []int64{2, 5, 2}}},
		{name: "No class slots", output: &Tensor{Data: make([]float32, 8), Shape: []int64{1, 4, 2}}},
		{name: "Data shape mismatch", output: &Tensor{Data: make([]float32, 3), Shape: []int64{1, 5, 2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detections, err := post.Process(tt.output, Scale{X: 1.0, Y: 1.0})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInference),
				"expected an inference error, got: %v", err)
			assert.Nil(t, detections)
		})
	}
}

func TestNewPostprocessorDefaultThreshold(t *testing.T) {
	post := NewPostprocessor(PostprocessConfig{})
	assert.InDelta(t, DefaultConfidenceThreshold, post.config.ConfidenceThreshold, 1e-6)
}

// TestPostprocessNegativeThresholdKeepsAll validates the
// filter-disabled mode: a negative threshold retains every anchor,
// including zero-score ones.
func TestPostprocessNegativeThresholdKeepsAll(t *testing.T) {
	post := NewPostprocessor(PostprocessConfig{
		ConfidenceThreshold: -1,
		Labels:              []string{"object"},
	})

	output := attributeMajor(t, [][]float32{
		{100, 100, 50, 50, 0.0},
		{200, 200, 50, 50, 0.9},
		{300, 300, 50, 50, 0.01},
	})

	detections, err := post.Process(output, Scale{X: 1.0, Y: 1.0})
	require.NoError(t, err)
	assert.Len(t, detections, 3, "a negative threshold must disable filtering")
}

func BenchmarkPostprocessDecode(b *testing.B) {
	post := NewPostprocessor(PostprocessConfig{Labels: []string{"object"}})

	const anchors = 8400
	data := make([]float32, 5*anchors)
	for i := 0; i < anchors; i++ {
		data[0*anchors+i] = 320
		data[1*anchors+i] = 320
		data[2*anchors+i] = 50
		data[3*anchors+i] = 50
		if i%100 == 0 {
			data[4*anchors+i] = 0.9
		}
	}
	output := &Tensor{Data: data, Shape: []int64{1, 5, anchors}}
	scale := Scale{X: 2.0, Y: 1.125}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := post.Process(output, scale); err != nil {
			b.Fatal(err)
		}
	}
}
