package inference

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/camkit/go-detect/images"
)

// DefaultConfidenceThreshold is the score below which (or at which)
// anchors are discarded. The comparison is strict greater-than: an
// anchor scoring exactly the threshold is dropped.
const DefaultConfidenceThreshold = 0.5

// PostprocessConfig controls how raw model output is decoded.
type PostprocessConfig struct {
	// ConfidenceThreshold filters anchors whose best class score is
	// not strictly greater than this value. Zero means unset and falls
	// back to DefaultConfidenceThreshold; a negative value disables
	// filtering entirely (scores are in [0, 1], so every anchor passes).
	ConfidenceThreshold float32 `json:"confidence_threshold" yaml:"confidence_threshold"`

	// Labels maps class indices to human-readable labels. The deployed
	// model is single-class, but the mapping is configuration rather
	// than a hardcoded string.
	Labels []string `json:"labels" yaml:"labels"`

	// NMS, when non-nil, enables greedy Non-Maximum Suppression over
	// the decoded detections. Nil by default: the source deployment
	// emits overlapping boxes as-is and enabling suppression changes
	// the output semantics.
	NMS *NMSConfig `json:"nms,omitempty" yaml:"nms,omitempty"`
}

// Postprocessor decodes the raw output tensor of the detection model
// into bounding boxes in original-frame pixel coordinates.
type Postprocessor struct {
	config PostprocessConfig
}

// NewPostprocessor creates a postprocessor. A zero threshold falls
// back to DefaultConfidenceThreshold; a negative threshold keeps
// every anchor.
//
// Arguments:
//   - config: Decoding configuration.
//
// Returns:
//   - *Postprocessor: The configured postprocessor.
func NewPostprocessor(config PostprocessConfig) *Postprocessor {
	if config.ConfidenceThreshold == 0 {
		config.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	return &Postprocessor{config: config}
}

// Process decodes a raw output tensor of shape
// [1, 4+numClasses, anchors] into detections.
//
// The raw layout is attribute-major: each attribute's values for all
// anchors are contiguous. The tensor is first transposed into
// anchor-major form so each anchor's attribute vector is contiguous,
// then every anchor is scored by its best class slot, filtered by the
// confidence threshold, scaled back into original-frame pixels, and
// converted from center/width/height encoding to corner coordinates.
//
// Arguments:
//   - output: The raw model output tensor.
//   - scale: The factors recorded during preprocessing.
//
// Returns:
//   - []Detection: One detection per surviving anchor, in anchor
//     order. Overlapping boxes are NOT merged unless NMS is enabled.
//   - error: ErrInference if the tensor shape is not decodable.
func (p *Postprocessor) Process(output *Tensor, scale Scale) ([]Detection, error) {
	if output == nil {
		return nil, errors.Wrap(ErrInference, "nil output tensor")
	}
	if len(output.Shape) != 3 || output.Shape[0] != 1 {
		return nil, errors.Wrapf(ErrInference,
			"unexpected output shape %v, want [1, attributes, anchors]", output.Shape)
	}
	attrs := int(output.Shape[1])
	anchors := int(output.Shape[2])
	if attrs < 5 || anchors < 1 {
		return nil, errors.Wrapf(ErrInference,
			"output shape %v has no class slots or no anchors", output.Shape)
	}
	if output.Elems() != int64(len(output.Data)) {
		return nil, errors.Wrapf(ErrInference,
			"output shape %v does not match %d data elements",
			output.Shape, len(output.Data))
	}

	rows, err := transposeAnchorMajor(output.Data, attrs, anchors)
	if err != nil {
		return nil, errors.Wrap(ErrInference, err.Error())
	}

	numClasses := attrs - 4
	detections := make([]Detection, 0, 8)

	for i := 0; i < anchors; i++ {
		row := rows[i*attrs : (i+1)*attrs]

		// Best class score across this anchor's class slots.
		best := math32.Inf(-1)
		classID := 0
		for c := 0; c < numClasses; c++ {
			if s := row[4+c]; s > best {
				best = s
				classID = c
			}
		}
		if best <= p.config.ConfidenceThreshold {
			continue
		}

		// Scale back into original pixel space, then convert the
		// center/size encoding into corners.
		cx := row[0] * scale.X
		cy := row[1] * scale.Y
		w := row[2] * scale.X
		h := row[3] * scale.Y

		detections = append(detections, Detection{
			Box: images.Rect{
				X1: cx - w/2,
				Y1: cy - h/2,
				X2: cx + w/2,
				Y2: cy + h/2,
			},
			Label: p.label(classID),
			Score: best,
		})
	}

	if p.config.NMS != nil {
		detections = ApplyGreedyNMS(detections, p.config.NMS)
	}

	return detections, nil
}

// label resolves a class index against the configured label mapping.
func (p *Postprocessor) label(classID int) string {
	if classID >= 0 && classID < len(p.config.Labels) {
		return p.config.Labels[classID]
	}
	return fmt.Sprintf("class_%d", classID)
}

// transposeAnchorMajor converts the attribute-major [attrs, anchors]
// layout into anchor-major [anchors, attrs].
func transposeAnchorMajor(data []float32, attrs, anchors int) ([]float32, error) {
	view := tensor.New(
		tensor.WithShape(attrs, anchors),
		tensor.WithBacking(data),
	)
	if err := view.T(); err != nil {
		return nil, errors.Wrap(err, "transposing output tensor")
	}
	rows, ok := view.Materialize().Data().([]float32)
	if !ok {
		return nil, errors.New("transposed tensor is not float32")
	}
	return rows, nil
}
