package mot

import "sort"

// CrowdingWindow is the span of exit times (seconds) checked for crowding.
const CrowdingWindow = 5.0

// Record is one output row: a retired valid track.
type Record struct {
	Filename      string
	ID            uint64
	X0            float64
	Y0            float64
	T0            float64
	X1            float64
	Y1            float64
	T1            float64
	NumberWarning bool
	BrokenTrack   bool
}

// AssembleRecords turns retired valid histories into records sorted by exit time
// and sets the crowding flag: whenever countWarningThreshold or more exits fall
// within CrowdingWindow seconds, every record in that window is flagged.
func AssembleRecords(filename string, histories []History, countWarningThreshold int) []Record {
	records := make([]Record, 0, len(histories))
	for i := range histories {
		history := &histories[i]
		if !history.Retired || history.DoNotInclude {
			continue
		}
		records = append(records, Record{
			Filename:      filename,
			ID:            history.ID,
			X0:            history.Entry.X,
			Y0:            history.Entry.Y,
			T0:            roundTo(history.Entry.T, 2),
			X1:            history.Exit.X,
			Y1:            history.Exit.Y,
			T1:            roundTo(history.Exit.T, 2),
			NumberWarning: history.NumberWarning,
			BrokenTrack:   history.BrokenTrack,
		})
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].T1 != records[j].T1 {
			return records[i].T1 < records[j].T1
		}
		return records[i].ID < records[j].ID
	})
	FlagCrowding(records, countWarningThreshold)
	return records
}

// FlagCrowding sets NumberWarning on records sorted by T1 using a sliding window of exits.
func FlagCrowding(records []Record, countWarningThreshold int) {
	if countWarningThreshold < 1 {
		return
	}
	front := 0
	for i := range records {
		for records[front].T1 <= records[i].T1-CrowdingWindow {
			front++
		}
		if i-front+1 >= countWarningThreshold {
			for k := front; k <= i; k++ {
				records[k].NumberWarning = true
			}
		}
	}
}

// Records assembles output rows for the clip and stores crowding flags back into histories.
func (tracker *Tracker) Records(filename string) []Record {
	records := AssembleRecords(filename, tracker.Histories(), tracker.cfg.CountWarningThreshold)
	for _, record := range records {
		if record.NumberWarning {
			tracker.histories[record.ID].NumberWarning = true
		}
	}
	return records
}
