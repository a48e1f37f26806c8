package mot

// detectMerges looks for tracks whose blob grew sharply while a nearby track vanished.
// The vanished track is considered fused into the growing one.
func (tracker *Tracker) detectMerges(frame Frame, ids []uint64) {
	minMissed, maxMissed := tracker.clip.FPS/4.0, tracker.clip.FPS
	for _, id := range ids {
		track := tracker.Objects[id]
		maxDelta, _ := track.area.deltaRange()
		if maxDelta <= 0 || maxDelta < track.MedianArea/2.0 {
			continue
		}
		for _, otherID := range ids {
			if otherID == id || containsID(track.MergeList, otherID) {
				continue
			}
			other := tracker.Objects[otherID]
			missed := float64(frame.Index - other.FrameLastSeen)
			if missed < minMissed || missed > maxMissed {
				continue
			}
			if !(euclideanDistance(other.LastPosition(), track.Position()) <= tracker.cfg.MergeDistance) {
				continue
			}
			track.MergeList = append(track.MergeList, otherID)
			track.MergeTime = append(track.MergeTime, frame.Timestamp)
			if track.AttachedToMe == 0 {
				track.FirstMergeTime = frame.Timestamp
			}
			track.AttachedToMe++
			tracker.log.Debug("merge", "frame", frame.Index, "id", id, "absorbed", otherID, "attached", track.AttachedToMe)
		}
	}
}

// detectUnmerges looks for merged tracks whose blob shrank sharply while a new track appeared nearby.
func (tracker *Tracker) detectUnmerges(frame Frame, ids []uint64) {
	minAge, maxAge := tracker.clip.FPS/4.0, tracker.clip.FPS
	for _, id := range ids {
		track := tracker.Objects[id]
		if track.AttachedToMe == 0 {
			continue
		}
		_, minDelta := track.area.deltaRange()
		if minDelta >= 0 || minDelta > -track.MedianArea/2.0 {
			continue
		}
		for _, otherID := range ids {
			if track.AttachedToMe == 0 {
				break
			}
			if otherID == id || containsID(track.UnmergeList, otherID) {
				continue
			}
			other := tracker.Objects[otherID]
			age := float64(frame.Index - other.FrameFirstSeen)
			if age < minAge || age > maxAge {
				continue
			}
			if !(euclideanDistance(other.Position(), track.Position()) <= 2*tracker.cfg.MergeDistance) {
				continue
			}
			track.UnmergeList = append(track.UnmergeList, otherID)
			track.UnmergeTime = append(track.UnmergeTime, frame.Timestamp)
			track.AttachedToMe--
			track.LastUnmergeTime = frame.Timestamp
			tracker.log.Debug("unmerge", "frame", frame.Index, "id", id, "released", otherID, "attached", track.AttachedToMe)
			if track.AttachedToMe == 0 {
				tracker.closeEpisode(track)
			}
		}
	}
}

// closeEpisode emits the current merge episode of the track and resets its bounds.
func (tracker *Tracker) closeEpisode(track *Track) {
	tracker.segments = append(tracker.segments, Segment{
		TrackID: track.ID,
		Start:   track.FirstMergeTime,
		End:     track.LastUnmergeTime,
	})
	track.FirstMergeTime = NoTime
	track.LastUnmergeTime = NoTime
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
