package mot

import "github.com/pkg/errors"

// Detection is one blob found by a detector in a single frame.
type Detection struct {
	Position Point
	Area     float64
}

// Frame identifies the frame a Tracker call refers to.
type Frame struct {
	// Zero-based index of the frame in the clip
	Index int
	// Seconds from the clip start
	Timestamp float64
}

// ClipInfo describes the clip a Tracker works on.
type ClipInfo struct {
	// Frame area in pixels
	Bounds Rectangle
	// Frames per second
	FPS float64
}

// Validate checks that clip geometry and frame rate are usable.
func (info ClipInfo) Validate() error {
	if !(info.FPS > 0) {
		return errors.Errorf("fps must be positive, got %v", info.FPS)
	}
	if !(info.Bounds.Width > 0) || !(info.Bounds.Height > 0) {
		return errors.Errorf("frame bounds must have positive size, got %vx%v", info.Bounds.Width, info.Bounds.Height)
	}
	return nil
}

// TrackPosition is an estimated track position in a given frame.
type TrackPosition struct {
	ID    uint64
	Frame int
	Point
}
