package mot

// nearBoundary reports whether p lies within the edge border of the frame
// (or outside of it).
func (tracker *Tracker) nearBoundary(p Point) bool {
	return !tracker.interior.Contains(p)
}

// timeout returns the number of unseen frames after which the track is retired.
// Tracks lost in the interior get twice the grace.
func (tracker *Tracker) timeout(track *Track) int {
	if tracker.nearBoundary(track.LastPosition()) {
		return tracker.cfg.NoAntFramesTotal
	}
	return tracker.cfg.NoAntFramesTotal * 2
}

// confirmEntry finalizes entry bookkeeping once the estimator had time to converge.
func (tracker *Tracker) confirmEntry(track *Track) {
	if track.FirstShoutout || len(track.Trace) <= tracker.cfg.EntryTraceOffset {
		return
	}
	tracker.writeEntry(track, track.Trace[tracker.cfg.EntryTraceOffset])
}

func (tracker *Tracker) writeEntry(track *Track, p Point) {
	track.Entry = newWaypoint(p, track.TimeFirstSeen)
	track.FirstShoutout = true
	if !tracker.nearBoundary(p) {
		track.AppearMiddleBegin = true
		track.DoNotInclude = true
		tracker.log.Debug("ant appeared in the middle", "id", track.ID, "x", p.X, "y", p.Y, "t", track.TimeFirstSeen)
	}
}

// RetireStale retires every track unseen for longer than its boundary-aware timeout.
// Returns IDs of retired tracks in ascending order.
func (tracker *Tracker) RetireStale(frame Frame) []uint64 {
	tracker.now = maxFloat64(tracker.now, frame.Timestamp)
	retired := make([]uint64, 0)
	for _, id := range tracker.activeIDs() {
		track := tracker.Objects[id]
		if frame.Index-track.FrameLastSeen > tracker.timeout(track) {
			tracker.retire(track, frame.Timestamp)
			retired = append(retired, id)
		}
	}
	return retired
}

// Flush retires every remaining active track at the time of the latest processed frame.
// It is called at the end of stream.
func (tracker *Tracker) Flush() []uint64 {
	ids := tracker.activeIDs()
	for _, id := range ids {
		tracker.retire(tracker.Objects[id], tracker.now)
	}
	return ids
}

// Retire retires the active track with given ID regardless of its timeout.
// An open merge episode is closed at the time of the latest processed frame.
func (tracker *Tracker) Retire(id uint64) error {
	track, ok := tracker.Objects[id]
	if !ok {
		return ErrTrackNotActive
	}
	tracker.retire(track, tracker.now)
	return nil
}

// retire finalizes the track. An open merge episode ends at retiredAt.
func (tracker *Tracker) retire(track *Track, retiredAt float64) {
	if !track.FirstShoutout {
		offset := minInt(tracker.cfg.EntryTraceOffset, len(track.Trace)-1)
		tracker.writeEntry(track, track.Trace[offset])
	}

	exit := track.LastPosition()
	track.Exit = newWaypoint(exit, track.TimeLastSeen)
	if !tracker.nearBoundary(exit) {
		track.AppearMiddleEnd = true
		track.DoNotInclude = true
		tracker.log.Debug("ant disappeared in the middle", "id", track.ID, "x", exit.X, "y", exit.Y, "t", track.TimeLastSeen)
	}

	if track.AttachedToMe > 0 {
		track.LastUnmergeTime = retiredAt
		track.AttachedToMe = 0
		tracker.closeEpisode(track)
	}

	if track.Exit.T-track.Entry.T < tracker.cfg.MinDuration {
		track.DoNotInclude = true
	}
	if tracker.cfg.MinTravel > 0 && track.MaxDisplacement < tracker.cfg.MinTravel {
		track.DoNotInclude = true
	}

	track.Retired = true
	tracker.sync(track)
	delete(tracker.Objects, track.ID)
	tracker.log.Debug("ant retired", "id", track.ID, "t0", track.Entry.T, "t1", track.Exit.T, "excluded", track.DoNotInclude)
}
