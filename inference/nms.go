package inference

import (
	"sort"

	"github.com/camkit/go-detect/images"
)

// NMSConfig defines parameters for the opt-in Non-Maximum
// Suppression stage.
type NMSConfig struct {
	// IoUThreshold is the overlap above which the lower-scoring of two
	// boxes is suppressed.
	IoUThreshold float32 `json:"iou_threshold" yaml:"iou_threshold"`
}

// ApplyGreedyNMS performs standard greedy Non-Maximum Suppression.
//
// Detections are sorted by descending confidence; each survivor
// suppresses every remaining box that overlaps it by more than the
// IoU threshold.
//
// Arguments:
//   - detections: The decoded detections. The slice is reordered.
//   - config: Suppression parameters.
//
// Returns:
//   - Filtered detections in descending confidence order. Nil if no
//     detections are provided.
func ApplyGreedyNMS(detections []Detection, config *NMSConfig) []Detection {
	n := len(detections)
	if n == 0 {
		return nil
	}

	sort.Slice(detections, func(i, j int) bool {
		return detections[i].Score > detections[j].Score
	})

	filtered := make([]Detection, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}

		anchor := detections[i]
		filtered = append(filtered, anchor)
		used[i] = true

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}
			if images.CalculateIoU(anchor.Box, detections[j].Box) > config.IoUThreshold {
				used[j] = true
			}
		}
	}

	return filtered
}
