package mot

import (
	"testing"
)

func retiredHistory(id uint64, t0, t1 float64) History {
	return History{
		TrackFields: TrackFields{
			ID:      id,
			Retired: true,
			Entry:   Waypoint{X: 1, Y: 2, T: t0},
			Exit:    Waypoint{X: 3, Y: 4, T: t1},
		},
	}
}

func TestCrowdingFlag(t *testing.T) {
	histories := []History{
		retiredHistory(0, 1.0, 30.0),
		retiredHistory(1, 2.0, 10.0),
		retiredHistory(2, 3.0, 13.0),
		retiredHistory(3, 4.0, 10.5),
	}
	excluded := retiredHistory(4, 5.0, 11.0)
	excluded.DoNotInclude = true
	histories = append(histories, excluded)

	records := AssembleRecords("clip.mp4", histories, 3)
	if len(records) != 4 {
		t.Fatalf("Wrong number of records: %d, expected: %d", len(records), 4)
	}
	expectedOrder := []uint64{1, 3, 2, 0}
	expectedWarning := []bool{true, true, true, false}
	for i, record := range records {
		if record.ID != expectedOrder[i] {
			t.Errorf("Record %d has ID %d, expected %d", i, record.ID, expectedOrder[i])
		}
		if record.NumberWarning != expectedWarning[i] {
			t.Errorf("Record %d (exit %v) has warning %v, expected %v", i, record.T1, record.NumberWarning, expectedWarning[i])
		}
		if record.Filename != "clip.mp4" {
			t.Errorf("Wrong filename: %s", record.Filename)
		}
	}
}

func TestCrowdingWindowEviction(t *testing.T) {
	// 10.0 leaves the window once 15.0 arrives
	records := []Record{{ID: 0, T1: 10.0}, {ID: 1, T1: 12.0}, {ID: 2, T1: 15.0}}
	FlagCrowding(records, 3)
	for _, record := range records {
		if record.NumberWarning {
			t.Errorf("Record %d must not be flagged", record.ID)
		}
	}
	records = []Record{{ID: 0, T1: 10.0}, {ID: 1, T1: 12.0}, {ID: 2, T1: 14.99}}
	FlagCrowding(records, 3)
	for _, record := range records {
		if !record.NumberWarning {
			t.Errorf("Record %d must be flagged", record.ID)
		}
	}
}

func TestRecordTimesRounded(t *testing.T) {
	records := AssembleRecords("clip.mp4", []History{retiredHistory(0, 1.23456, 7.891)}, 10)
	if len(records) != 1 {
		t.Fatalf("Wrong number of records: %d", len(records))
	}
	if records[0].T0 != 1.23 || records[0].T1 != 7.89 {
		t.Errorf("Times must be rounded to two decimals: %v %v", records[0].T0, records[0].T1)
	}
	if records[0].X0 != 1 || records[0].Y1 != 4 {
		t.Errorf("Wrong coordinates: %+v", records[0])
	}
}

func TestActiveHistoriesAreNotOutput(t *testing.T) {
	active := retiredHistory(0, 0, 5)
	active.Retired = false
	if records := AssembleRecords("clip.mp4", []History{active}, 1); len(records) != 0 {
		t.Errorf("Active track must not be output: %+v", records)
	}
}

func TestTrackerRecordsStoreWarnings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CountWarningThreshold = 2
	tracker := newTestTracker(t, cfg)
	for i := 0; i < 50; i++ {
		x := float64(i) * 4
		err := tracker.Update(frameAt(i), []Detection{det(x, 20, 30), det(x, 80, 30)})
		if err != nil {
			t.Fatal(err)
		}
	}
	tracker.Flush()
	records := tracker.Records("clip.mp4")
	if len(records) != 2 {
		t.Fatalf("Wrong number of records: %d", len(records))
	}
	for _, history := range tracker.Histories() {
		if !history.NumberWarning {
			t.Errorf("History %d must carry the crowding flag", history.ID)
		}
	}
}
