// Package clip drives a detector and a tracker over one video clip and
// collects the finalized tracks.
package clip

import (
	"io"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/LdDl/anttrack/mot"
)

// Source yields frames with their detections in temporal order.
type Source interface {
	// Info returns frame geometry and frame rate of the clip
	Info() mot.ClipInfo
	// Next returns the next frame and its detections, io.EOF at the end of the clip
	Next() (mot.Frame, []mot.Detection, error)
	Close() error
}

// Result is the outcome of tracking one clip.
type Result struct {
	Filename  string
	Info      mot.ClipInfo
	Frames    int
	Records   []mot.Record
	Histories []mot.History
	Segments  []mot.Segment
	// Per-frame positions of active tracks, filled only when requested
	Trace []mot.TrackPosition
}

type runner struct {
	log         logging.Logger
	keepTrace   bool
	trackerOpts []mot.Option
}

// Option configures Run.
type Option func(*runner)

// WithLogger sets the logger used for clip and tracker events.
func WithLogger(log logging.Logger) Option {
	return func(r *runner) {
		r.log = log
	}
}

// WithTrace makes Run collect per-frame track positions.
func WithTrace() Option {
	return func(r *runner) {
		r.keepTrace = true
	}
}

// WithTrackerOptions passes options to the underlying tracker.
func WithTrackerOptions(opts ...mot.Option) Option {
	return func(r *runner) {
		r.trackerOpts = append(r.trackerOpts, opts...)
	}
}

// Run tracks every frame of source and returns the finalized tracks.
// Any source error other than io.EOF aborts the clip and no partial result is returned.
// Run does not close the source.
func Run(source Source, filename string, cfg mot.Config, opts ...Option) (*Result, error) {
	r := &runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logging.New(logging.Error, io.Discard, true)
	}

	info := source.Info()
	tracker, err := mot.NewTracker(cfg, info, append([]mot.Option{mot.WithLogger(r.log)}, r.trackerOpts...)...)
	if err != nil {
		return nil, errors.Wrapf(err, "can't create tracker for %s", filename)
	}
	result := &Result{
		Filename: filename,
		Info:     info,
	}
	r.log.Info("tracking clip", "file", filename, "fps", info.FPS, "width", info.Bounds.Width, "height", info.Bounds.Height)

	for {
		frame, detections, err := source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "clip %s: can't read frame %d", filename, result.Frames)
		}
		if len(detections) > cfg.CountWarningThreshold {
			r.log.Warning("too many ants detected", "file", filename, "count", len(detections), "t", frame.Timestamp)
		}
		if err := tracker.Update(frame, detections); err != nil {
			return nil, errors.Wrapf(err, "clip %s", filename)
		}
		if r.keepTrace {
			result.Trace = append(result.Trace, tracker.Positions(frame)...)
		}
		r.reportRetired(tracker, tracker.RetireStale(frame))
		result.Frames++
	}
	r.reportRetired(tracker, tracker.Flush())

	result.Records = tracker.Records(filename)
	result.Histories = tracker.Histories()
	result.Segments = tracker.Segments()
	r.log.Info("clip done", "file", filename, "frames", result.Frames, "tracks", len(result.Histories), "records", len(result.Records))
	return result, nil
}

func (r *runner) reportRetired(tracker *mot.Tracker, ids []uint64) {
	for _, id := range ids {
		history, ok := tracker.History(id)
		if !ok {
			continue
		}
		if history.DoNotInclude {
			r.log.Debug("deleted ant", "id", id, "t0", history.Entry.T, "t1", history.Exit.T)
			continue
		}
		r.log.Debug("recorded ant", "id", id, "t0", history.Entry.T, "t1", history.Exit.T)
	}
}
