package mot

import (
	"math"

	"github.com/pkg/errors"
)

// MatchingAlgorithm is for algorithm type for matching detections to tracks
type MatchingAlgorithm uint16

const (
	// MatchingAlgorithmHungarian uses the Hungarian algorithm (Kuhn-Munkres) for optimal assignment
	MatchingAlgorithmHungarian MatchingAlgorithm = iota
	// MatchingAlgorithmGreedy uses a greedy algorithm for faster but potentially suboptimal assignment
	MatchingAlgorithmGreedy
)

func (algorithm MatchingAlgorithm) String() string {
	switch algorithm {
	case MatchingAlgorithmHungarian:
		return "hungarian"
	case MatchingAlgorithmGreedy:
		return "greedy"
	default:
		return "unknown"
	}
}

// ParseMatchingAlgorithm converts a textual name into MatchingAlgorithm.
func ParseMatchingAlgorithm(name string) (MatchingAlgorithm, error) {
	switch name {
	case "", "hungarian":
		return MatchingAlgorithmHungarian, nil
	case "greedy":
		return MatchingAlgorithmGreedy, nil
	default:
		return MatchingAlgorithmHungarian, errors.Errorf("unknown matching algorithm %q", name)
	}
}

// KalmanParams holds the noise model of the per-track Kalman filter.
type KalmanParams struct {
	// Control input (acceleration) along X and Y
	UX float64
	UY float64
	// Process noise magnitude
	StdDevA float64
	// Measurement noise along X and Y
	StdDevMx float64
	StdDevMy float64
}

// Config is the set of tunables the Tracker works with.
type Config struct {
	// Assignment distance gate (cost units, i.e. half the pixel distance)
	DistThresh float64
	// Number of estimated positions kept per track
	MaxTraceLength int
	// Proximity for merge/unmerge candidates (pixels)
	MergeDistance float64
	// Width of the frame margin counted as "boundary" (pixels)
	EdgeBorder float64
	// Base number of unseen frames before a track is retired
	NoAntFramesTotal int
	// Shortest visible duration of a valid track (seconds)
	MinDuration float64
	// Exits within 5 seconds that trigger the crowding flag
	CountWarningThreshold int
	// Trace index the entry position is taken from, skips estimator warm-up
	EntryTraceOffset int
	// Minimal displacement from the first detection for a valid track (pixels). Zero disables the check
	MinTravel float64
	// Algorithm to use for matching
	Matching MatchingAlgorithm
	// Kalman filter noise model
	Kalman KalmanParams
}

// DefaultConfig returns tunables that work for 30 fps clips of a few hundred pixels.
func DefaultConfig() Config {
	return Config{
		DistThresh:            50.0,
		MaxTraceLength:        30,
		MergeDistance:         20.0,
		EdgeBorder:            10.0,
		NoAntFramesTotal:      30,
		MinDuration:           1.5,
		CountWarningThreshold: 10,
		EntryTraceOffset:      2,
		MinTravel:             10.0,
		Matching:              MatchingAlgorithmHungarian,
		Kalman: KalmanParams{
			UX:       1.0,
			UY:       1.0,
			StdDevA:  2.0,
			StdDevMx: 0.1,
			StdDevMy: 0.1,
		},
	}
}

// Validate checks that the tunables are usable.
func (cfg Config) Validate() error {
	if !(cfg.DistThresh > 0) || math.IsInf(cfg.DistThresh, 0) {
		return errors.Errorf("dist_thresh must be positive and finite, got %v", cfg.DistThresh)
	}
	if cfg.EntryTraceOffset < 0 {
		return errors.Errorf("entry_trace_offset must be non-negative, got %d", cfg.EntryTraceOffset)
	}
	if cfg.MaxTraceLength <= cfg.EntryTraceOffset {
		return errors.Errorf("max_trace_length (%d) must exceed entry_trace_offset (%d)", cfg.MaxTraceLength, cfg.EntryTraceOffset)
	}
	if cfg.MergeDistance < 0 {
		return errors.Errorf("merge_distance must be non-negative, got %v", cfg.MergeDistance)
	}
	if cfg.EdgeBorder < 0 {
		return errors.Errorf("edge_border must be non-negative, got %v", cfg.EdgeBorder)
	}
	if cfg.NoAntFramesTotal < 0 {
		return errors.Errorf("no_ant_counter_frames_total must be non-negative, got %d", cfg.NoAntFramesTotal)
	}
	if cfg.MinDuration < 0 {
		return errors.Errorf("min_duration must be non-negative, got %v", cfg.MinDuration)
	}
	if cfg.CountWarningThreshold < 1 {
		return errors.Errorf("count_warning_threshold must be at least 1, got %d", cfg.CountWarningThreshold)
	}
	if cfg.MinTravel < 0 {
		return errors.Errorf("min_travel must be non-negative, got %v", cfg.MinTravel)
	}
	if cfg.Matching != MatchingAlgorithmHungarian && cfg.Matching != MatchingAlgorithmGreedy {
		return errors.Errorf("unknown matching algorithm %d", cfg.Matching)
	}
	if cfg.Kalman.StdDevMx <= 0 || cfg.Kalman.StdDevMy <= 0 {
		return errors.New("kalman measurement noise must be positive")
	}
	return nil
}
