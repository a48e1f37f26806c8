package clip

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is an aggregate view of a clip result.
type Summary struct {
	Tracks       int
	Records      int
	Excluded     int
	Crowded      int
	Segments     int
	MeanDuration float64
	MaxDuration  float64
	// Mean Manhattan path length of included tracks (pixels)
	MeanDistance float64
}

// Summarize aggregates a clip result.
func Summarize(result *Result) Summary {
	summary := Summary{
		Tracks:   len(result.Histories),
		Records:  len(result.Records),
		Segments: len(result.Segments),
	}
	durations := make([]float64, 0, len(result.Histories))
	distances := make([]float64, 0, len(result.Histories))
	for i := range result.Histories {
		history := &result.Histories[i]
		if history.DoNotInclude {
			summary.Excluded++
			continue
		}
		durations = append(durations, history.Duration())
		distances = append(distances, history.DistanceTraveled)
	}
	for _, record := range result.Records {
		if record.NumberWarning {
			summary.Crowded++
		}
	}
	if len(durations) > 0 {
		summary.MeanDuration = stat.Mean(durations, nil)
		summary.MaxDuration = floats.Max(durations)
		summary.MeanDistance = stat.Mean(distances, nil)
	}
	return summary
}
