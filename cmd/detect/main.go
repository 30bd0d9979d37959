// Command detect runs the detection pipeline over a single still
// image and prints the results. It is the smallest useful harness for
// validating a model artifact and a deployment configuration outside
// the capture loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/camkit/go-detect/detector"
	"github.com/camkit/go-detect/images"
)

func main() {
	var (
		configPath string
		modelPath  string
		imagePath  string
		confidence float64
		verbose    bool
	)
	flag.StringVar(&configPath, "config", "", "Path to a YAML detector configuration")
	flag.StringVar(&modelPath, "model", "", "Path to the ONNX model artifact (overrides config)")
	flag.StringVar(&imagePath, "image", "", "Path to the image file (.jpg, .png)")
	flag.Float64Var(&confidence, "confidence", 0, "Confidence threshold override")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	if imagePath == "" {
		fmt.Fprintln(os.Stderr, "usage: detect -image <file> [-config <file>] [-model <file>]")
		os.Exit(2)
	}

	logger, err := newLogger(verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(configPath, modelPath, imagePath, float32(confidence), logger); err != nil {
		logger.Fatal("detection failed", zap.Error(err))
	}
}

func run(configPath, modelPath, imagePath string, confidence float32, logger *zap.Logger) error {
	config := detector.DefaultConfig()
	if configPath != "" {
		loaded, err := detector.LoadConfig(configPath)
		if err != nil {
			return err
		}
		config = loaded
	}
	if modelPath != "" {
		config.ModelPath = modelPath
	}
	if confidence > 0 {
		config.ConfidenceThreshold = confidence
	}
	config.Logger = logger

	frame, err := loadFrame(imagePath)
	if err != nil {
		return err
	}

	d, err := detector.New(config)
	if err != nil {
		return err
	}
	defer d.Close()

	start := time.Now()
	detections, err := d.Detect(context.Background(), frame)
	if err != nil {
		return err
	}
	logger.Info("frame processed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("detections", len(detections)))

	for _, detection := range detections {
		fmt.Println(detection)
	}
	return nil
}

// loadFrame decodes an image file into a frame.
func loadFrame(path string) (images.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return images.Frame{}, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return images.Frame{}, err
	}
	return images.NewFrame(img), nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
