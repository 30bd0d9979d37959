// Package detector - The detection capability: one loaded model, one
// runtime session, and the numeric pipeline around it.
package detector

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/camkit/go-detect/inference"
	"github.com/camkit/go-detect/inference/providers"
)

// Config describes a detector deployment. Zero values fall back to
// the defaults of the deployed single-class model.
type Config struct {
	// ModelPath is the path to the serialized ONNX model artifact.
	ModelPath string `json:"model_path" yaml:"model_path"`

	// InputName is the model's input node name (default "images").
	InputName string `json:"input_name" yaml:"input_name"`
	// OutputName is the model's output node name (default "output0").
	OutputName string `json:"output_name" yaml:"output_name"`

	// InputSize is the square model input edge length (default 640).
	InputSize int `json:"input_size" yaml:"input_size"`

	// NumClasses is the number of class slots in the output tensor
	// (default 1: the deployed model is single-class).
	NumClasses int `json:"num_classes" yaml:"num_classes"`

	// NumAnchors is the number of anchors in the output tensor
	// (default 8400, the YOLO-style head at 640x640).
	NumAnchors int `json:"num_anchors" yaml:"num_anchors"`

	// ConfidenceThreshold filters anchors whose best class score is
	// not strictly greater than this value. Zero means unset (default
	// 0.5); a negative value disables filtering and keeps every anchor.
	ConfidenceThreshold float32 `json:"confidence_threshold" yaml:"confidence_threshold"`

	// Labels maps class indices to labels. Label mapping is
	// configuration, not a hardcoded constant.
	Labels []string `json:"labels" yaml:"labels"`

	// NMS, when non-nil, enables greedy suppression of overlapping
	// boxes. Nil preserves the deployment's raw output semantics.
	NMS *inference.NMSConfig `json:"nms,omitempty" yaml:"nms,omitempty"`

	// Provider selects the execution provider and threading.
	Provider providers.Config `json:"provider" yaml:"provider"`

	// Logger receives structured lifecycle and per-call logs.
	// Nil means no logging.
	Logger *zap.Logger `json:"-" yaml:"-"`
}

// DefaultConfig returns the configuration of the deployed
// single-class detector.
//
// Returns:
//   - Config: 640x640 input, one class, 8400 anchors, 0.5 threshold,
//     CPU provider.
func DefaultConfig() Config {
	return Config{
		InputName:           "images",
		OutputName:          "output0",
		InputSize:           inference.DefaultInputSize,
		NumClasses:          1,
		NumAnchors:          8400,
		ConfidenceThreshold: inference.DefaultConfidenceThreshold,
		Labels:              []string{"object"},
		Provider:            providers.DefaultConfig(),
	}
}

// LoadConfig reads a YAML configuration file and applies defaults for
// any omitted fields.
//
// Arguments:
//   - path: The YAML file to read.
//
// Returns:
//   - Config: The parsed configuration.
//   - error: An error if the file is unreadable or not valid YAML.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	config := Config{}
	if err := yaml.Unmarshal(raw, &config); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config %s", path)
	}
	config.applyDefaults()
	return config, nil
}

// applyDefaults fills omitted fields with the deployment defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.InputName == "" {
		c.InputName = defaults.InputName
	}
	if c.OutputName == "" {
		c.OutputName = defaults.OutputName
	}
	if c.InputSize <= 0 {
		c.InputSize = defaults.InputSize
	}
	if c.NumClasses <= 0 {
		c.NumClasses = defaults.NumClasses
	}
	if c.NumAnchors <= 0 {
		c.NumAnchors = defaults.NumAnchors
	}
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = defaults.ConfidenceThreshold
	}
	if len(c.Labels) == 0 {
		c.Labels = defaults.Labels
	}
	if c.Provider.Backend == "" {
		c.Provider.Backend = defaults.Provider.Backend
	}
}

// outputShape derives the raw output tensor shape:
// [1, 4+numClasses, anchors].
func (c *Config) outputShape() []int64 {
	return []int64{1, int64(4 + c.NumClasses), int64(c.NumAnchors)}
}

// inputShape derives the model input tensor shape:
// [1, 3, size, size].
func (c *Config) inputShape() []int64 {
	return []int64{1, 3, int64(c.InputSize), int64(c.InputSize)}
}

// logger returns the configured logger or a no-op one.
func (c *Config) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}
