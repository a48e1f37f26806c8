package mot

import (
	"io"
	"math"
	"sort"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// ErrTrackNotActive is returned for operations on unknown or retired tracks.
var ErrTrackNotActive = errors.New("track is not active")

// Tracker is a multi-object tracker for ants: detections (position + area) in,
// persistent tracks with entry/exit bookkeeping out.
// It is not safe for concurrent use; call it once per frame in temporal order.
type Tracker struct {
	// Main storage: active tracks
	Objects map[uint64]*Track
	// Permanent records indexed by track ID
	histories []History
	// Closed multi-ant episodes
	segments []Segment

	cfg          Config
	clip         ClipInfo
	interior     Rectangle
	areaWindow   int
	nextID       uint64
	now          float64
	newEstimator EstimatorFactory
	log          logging.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger for tracker events.
func WithLogger(log logging.Logger) Option {
	return func(tracker *Tracker) {
		tracker.log = log
	}
}

// WithEstimatorFactory replaces the default Kalman estimator.
func WithEstimatorFactory(factory EstimatorFactory) Option {
	return func(tracker *Tracker) {
		tracker.newEstimator = factory
	}
}

// NewTracker creates new instance of Tracker for a single clip.
func NewTracker(cfg Config, clip ClipInfo, opts ...Option) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid tracker config")
	}
	if err := clip.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid clip info")
	}
	tracker := &Tracker{
		Objects:      make(map[uint64]*Track),
		histories:    make([]History, 0),
		segments:     make([]Segment, 0),
		cfg:          cfg,
		clip:         clip,
		interior:     clip.Bounds.Inset(cfg.EdgeBorder),
		areaWindow:   maxInt(1, int(math.Round(clip.FPS))),
		newEstimator: KalmanFactory(clip.FPS, cfg.Kalman),
		log:          logging.New(logging.Error, io.Discard, true),
	}
	for _, opt := range opts {
		opt(tracker)
	}
	return tracker, nil
}

// Config returns tracker tunables.
func (tracker *Tracker) Config() Config {
	return tracker.cfg
}

// Update runs one frame step: matching, track creation, state update and merge/unmerge inference.
// Every detection is either consumed by an existing track or spawns a new one.
func (tracker *Tracker) Update(frame Frame, detections []Detection) error {
	tracker.now = maxFloat64(tracker.now, frame.Timestamp)
	if len(tracker.Objects) == 0 {
		for _, detection := range detections {
			tracker.register(frame, detection)
		}
		return nil
	}

	broken := make([]bool, len(detections))
	for j, detection := range detections {
		if !detection.Position.IsFinite() {
			broken[j] = true
			tracker.log.Warning("non-finite detection", "frame", frame.Index, "index", j)
		}
	}

	ids := tracker.activeIDs()
	costMatrix := make([][]float64, len(ids))
	for i, id := range ids {
		position := tracker.Objects[id].Position()
		costMatrix[i] = make([]float64, len(detections))
		for j, detection := range detections {
			if broken[j] {
				costMatrix[i][j] = math.Inf(1)
				continue
			}
			costMatrix[i][j] = 0.5 * euclideanDistance(position, detection.Position)
		}
	}

	assignment := solveAssignment(tracker.cfg.Matching, costMatrix, len(detections))
	claimed := make([]bool, len(detections))
	for i, j := range assignment {
		if j == Unassigned {
			continue
		}
		if costMatrix[i][j] > tracker.cfg.DistThresh {
			tracker.log.Debug("distance threshold triggered", "frame", frame.Index, "id", ids[i], "cost", costMatrix[i][j])
			assignment[i] = Unassigned
			continue
		}
		claimed[j] = true
	}

	for j, detection := range detections {
		if !claimed[j] {
			tracker.register(frame, detection)
		}
	}

	for i, id := range ids {
		track := tracker.Objects[id]
		if j := assignment[i]; j != Unassigned {
			if err := track.observe(frame, detections[j]); err != nil {
				return errors.Wrapf(err, "Can't update track %d on frame %d", id, frame.Index)
			}
			tracker.confirmEntry(track)
		} else {
			if err := track.coast(); err != nil {
				return errors.Wrapf(err, "Can't update track %d on frame %d", id, frame.Index)
			}
		}
	}

	active := tracker.activeIDs()
	tracker.detectMerges(frame, active)
	tracker.detectUnmerges(frame, active)

	for _, id := range active {
		tracker.sync(tracker.Objects[id])
	}
	return nil
}

// register creates a Track and its History for a detection.
func (tracker *Tracker) register(frame Frame, detection Detection) *Track {
	id := tracker.nextID
	tracker.nextID++
	track := newTrack(id, frame, detection, tracker.newEstimator(detection.Position), tracker.cfg.MaxTraceLength, tracker.areaWindow)
	tracker.Objects[id] = track
	tracker.histories = append(tracker.histories, History{TrackFields: track.clone()})
	tracker.log.Debug("new ant", "frame", frame.Index, "id", id, "x", detection.Position.X, "y", detection.Position.Y)
	return track
}

// sync copies track state into its History.
func (tracker *Tracker) sync(track *Track) {
	history := &tracker.histories[track.ID]
	history.TrackFields = track.clone()
}

// activeIDs returns identifiers of active tracks in ascending order.
func (tracker *Tracker) activeIDs() []uint64 {
	ids := make([]uint64, 0, len(tracker.Objects))
	for id := range tracker.Objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Positions returns current position estimates of active tracks ordered by ID.
func (tracker *Tracker) Positions(frame Frame) []TrackPosition {
	ids := tracker.activeIDs()
	positions := make([]TrackPosition, 0, len(ids))
	for _, id := range ids {
		positions = append(positions, TrackPosition{ID: id, Frame: frame.Index, Point: tracker.Objects[id].Position()})
	}
	return positions
}

// Histories returns copy of every History ever created, indexed by track ID.
func (tracker *Tracker) Histories() []History {
	result := make([]History, len(tracker.histories))
	for i := range tracker.histories {
		result[i] = tracker.histories[i]
		result[i].TrackFields = tracker.histories[i].clone()
	}
	return result
}

// History returns copy of the History for given track ID.
func (tracker *Tracker) History(id uint64) (History, bool) {
	if id >= uint64(len(tracker.histories)) {
		return History{}, false
	}
	history := tracker.histories[id]
	history.TrackFields = tracker.histories[id].clone()
	return history, true
}

// MarkBroken sets the geometric outlier flag of a History.
func (tracker *Tracker) MarkBroken(id uint64) error {
	if id >= uint64(len(tracker.histories)) {
		return errors.Errorf("no history for track %d", id)
	}
	tracker.histories[id].BrokenTrack = true
	return nil
}

// Segments returns closed multi-ant episodes in the order they were closed.
func (tracker *Tracker) Segments() []Segment {
	return append([]Segment(nil), tracker.segments...)
}
