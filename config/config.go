// Package config loads tracker and detector settings from JSON files.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/LdDl/anttrack/detect"
	"github.com/LdDl/anttrack/mot"
)

// maxFileSize is the largest config file accepted by Load.
const maxFileSize = 1 * 1024 * 1024 // 1MB

// KalmanConfig is the noise model of the per-track Kalman filter.
type KalmanConfig struct {
	StdDevA float64 `json:"std_dev_a"`
	StdDevM float64 `json:"std_dev_m"`
	U       float64 `json:"u"`
}

// Config holds every tunable of a tracking run.
type Config struct {
	DistThresh            float64       `json:"dist_thresh"`
	MaxTraceLength        int           `json:"max_trace_length"`
	MergeDistance         float64       `json:"merge_distance"`
	EdgeBorder            float64       `json:"edge_border"`
	NoAntFramesTotal      int           `json:"no_ant_counter_frames_total"`
	MinDuration           float64       `json:"min_duration"`
	CountWarningThreshold int           `json:"count_warning_threshold"`
	EntryTraceOffset      int           `json:"entry_trace_offset"`
	MinTravel             float64       `json:"min_travel"`
	Matching              string        `json:"matching"`
	Kalman                KalmanConfig  `json:"kalman"`
	Detector              detect.Params `json:"detector"`
}

// Default returns the built-in configuration.
func Default() *Config {
	tracker := mot.DefaultConfig()
	return &Config{
		DistThresh:            tracker.DistThresh,
		MaxTraceLength:        tracker.MaxTraceLength,
		MergeDistance:         tracker.MergeDistance,
		EdgeBorder:            tracker.EdgeBorder,
		NoAntFramesTotal:      tracker.NoAntFramesTotal,
		MinDuration:           tracker.MinDuration,
		CountWarningThreshold: tracker.CountWarningThreshold,
		EntryTraceOffset:      tracker.EntryTraceOffset,
		MinTravel:             tracker.MinTravel,
		Matching:              tracker.Matching.String(),
		Kalman: KalmanConfig{
			StdDevA: tracker.Kalman.StdDevA,
			StdDevM: tracker.Kalman.StdDevMx,
			U:       tracker.Kalman.UX,
		},
		Detector: detect.DefaultParams(),
	}
}

// Load reads a JSON config file. Keys missing from the file keep their default values.
// The file must have a .json extension and be under 1MB.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, errors.Errorf("config file must have .json extension, got %q", ext)
	}
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat config file")
	}
	if fileInfo.Size() > maxFileSize {
		return nil, errors.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config JSON")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Validate checks tracker and detector settings.
func (c *Config) Validate() error {
	tracker, err := c.Tracker()
	if err != nil {
		return err
	}
	if err := tracker.Validate(); err != nil {
		return err
	}
	return errors.Wrap(c.Detector.Validate(), "detector")
}

// Tracker converts the file representation into mot.Config.
func (c *Config) Tracker() (mot.Config, error) {
	matching, err := mot.ParseMatchingAlgorithm(c.Matching)
	if err != nil {
		return mot.Config{}, err
	}
	return mot.Config{
		DistThresh:            c.DistThresh,
		MaxTraceLength:        c.MaxTraceLength,
		MergeDistance:         c.MergeDistance,
		EdgeBorder:            c.EdgeBorder,
		NoAntFramesTotal:      c.NoAntFramesTotal,
		MinDuration:           c.MinDuration,
		CountWarningThreshold: c.CountWarningThreshold,
		EntryTraceOffset:      c.EntryTraceOffset,
		MinTravel:             c.MinTravel,
		Matching:              matching,
		Kalman: mot.KalmanParams{
			UX:       c.Kalman.U,
			UY:       c.Kalman.U,
			StdDevA:  c.Kalman.StdDevA,
			StdDevMx: c.Kalman.StdDevM,
			StdDevMy: c.Kalman.StdDevM,
		},
	}, nil
}
