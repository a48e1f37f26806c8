package mot

// History is the permanent record of one track.
type History struct {
	TrackFields
	// Crowding flag, assigned in output assembly
	NumberWarning bool
	// Geometric outlier flag, assigned downstream
	BrokenTrack bool
}

// Duration returns visible duration of the track in seconds.
func (history *History) Duration() float64 {
	return history.Exit.T - history.Entry.T
}

// Segment is a closed period of time when several ants shared one blob.
type Segment struct {
	TrackID uint64
	Start   float64
	End     float64
}
