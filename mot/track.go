package mot

import "github.com/pkg/errors"

// NoTime marks a timestamp that has not been written yet.
const NoTime = -1.0

// Waypoint is a position with a timestamp (seconds).
type Waypoint struct {
	X float64
	Y float64
	T float64
}

func newWaypoint(p Point, t float64) Waypoint {
	return Waypoint{X: p.X, Y: p.Y, T: t}
}

// TrackFields is the state shared by an active Track and its History.
type TrackFields struct {
	ID    uint64
	Trace []Point

	MeanArea   float64
	MedianArea float64

	FrameFirstSeen int
	FrameLastSeen  int
	TimeFirstSeen  float64
	TimeLastSeen   float64

	// Entry bookkeeping is finalized
	FirstShoutout bool
	// First/last position was not near the frame boundary
	AppearMiddleBegin bool
	AppearMiddleEnd   bool

	MergeList   []uint64
	MergeTime   []float64
	UnmergeList []uint64
	UnmergeTime []float64
	// Number of other tracks believed fused into this blob
	AttachedToMe int
	// Bounds of the open merge episode, NoTime when there is none
	FirstMergeTime  float64
	LastUnmergeTime float64

	Entry Waypoint
	Exit  Waypoint

	DoNotInclude bool
	Retired      bool

	// Accumulated Manhattan distance between consecutive observed positions
	DistanceTraveled float64
	// Farthest observed distance from the first detection
	MaxDisplacement float64
}

func (fields *TrackFields) clone() TrackFields {
	cp := *fields
	cp.Trace = append([]Point(nil), fields.Trace...)
	cp.MergeList = append([]uint64(nil), fields.MergeList...)
	cp.MergeTime = append([]float64(nil), fields.MergeTime...)
	cp.UnmergeList = append([]uint64(nil), fields.UnmergeList...)
	cp.UnmergeTime = append([]float64(nil), fields.UnmergeTime...)
	return cp
}

// LastPosition returns the newest trace entry.
func (fields *TrackFields) LastPosition() Point {
	return fields.Trace[len(fields.Trace)-1]
}

// Track is an ant being tracked at the moment.
type Track struct {
	TrackFields
	estimator    StateEstimator
	area         *areaStats
	origin       Point
	lastObserved Point
	maxTraceLen  int
}

func newTrack(id uint64, frame Frame, detection Detection, estimator StateEstimator, maxTraceLen, areaWindow int) *Track {
	track := Track{
		TrackFields: TrackFields{
			ID:              id,
			Trace:           make([]Point, 0, maxTraceLen),
			MeanArea:        detection.Area,
			MedianArea:      detection.Area,
			FrameFirstSeen:  frame.Index,
			FrameLastSeen:   frame.Index,
			TimeFirstSeen:   frame.Timestamp,
			TimeLastSeen:    frame.Timestamp,
			FirstMergeTime:  NoTime,
			LastUnmergeTime: NoTime,
			Entry:           Waypoint{X: -1, Y: -1, T: NoTime},
			Exit:            Waypoint{X: -1, Y: -1, T: NoTime},
		},
		estimator:    estimator,
		area:         newAreaStats(detection.Area, areaWindow),
		origin:       detection.Position,
		lastObserved: detection.Position,
		maxTraceLen:  maxTraceLen,
	}
	track.Trace = append(track.Trace, detection.Position)
	return &track
}

// Position returns the current position estimate.
func (track *Track) Position() Point {
	return track.LastPosition()
}

// observe folds an assigned detection into the track.
func (track *Track) observe(frame Frame, detection Detection) error {
	track.estimator.Predict()
	position, err := track.estimator.Correct(&detection.Position)
	if err != nil {
		return errors.Wrapf(err, "Can't correct track %d", track.ID)
	}
	track.FrameLastSeen = frame.Index
	track.TimeLastSeen = frame.Timestamp

	track.area.observe(detection.Area)
	track.MeanArea = track.area.mean()
	track.MedianArea = track.area.median()

	track.DistanceTraveled += manhattanDistance(track.lastObserved, detection.Position)
	track.MaxDisplacement = maxFloat64(track.MaxDisplacement, euclideanDistance(track.origin, detection.Position))
	track.lastObserved = detection.Position

	track.appendTrace(position)
	return nil
}

// coast advances the track through a frame where it was not observed.
func (track *Track) coast() error {
	track.estimator.Predict()
	position, err := track.estimator.Correct(nil)
	if err != nil {
		return errors.Wrapf(err, "Can't predict track %d", track.ID)
	}
	track.area.skip()
	track.appendTrace(position)
	return nil
}

func (track *Track) appendTrace(p Point) {
	track.Trace = append(track.Trace, p)
	if len(track.Trace) > track.maxTraceLen {
		track.Trace = track.Trace[1:]
	}
}
