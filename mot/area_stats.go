package mot

import "sort"

// areaStats keeps running mean/median of a blob area and a bounded window
// of per-frame area changes.
type areaStats struct {
	total  float64
	sorted []float64
	last   float64
	// per-frame area change, oldest first
	deltas   []float64
	capacity int
}

func newAreaStats(initial float64, capacity int) *areaStats {
	return &areaStats{
		total:    initial,
		sorted:   []float64{initial},
		last:     initial,
		deltas:   make([]float64, 0, capacity),
		capacity: maxInt(1, capacity),
	}
}

// observe records the area measured in the current frame.
func (stats *areaStats) observe(area float64) {
	stats.pushDelta(area - stats.last)
	stats.last = area
	stats.total += area
	idx := sort.SearchFloat64s(stats.sorted, area)
	stats.sorted = append(stats.sorted, 0)
	copy(stats.sorted[idx+1:], stats.sorted[idx:])
	stats.sorted[idx] = area
}

// skip records a frame without measurement: no change of area.
func (stats *areaStats) skip() {
	stats.pushDelta(0)
}

func (stats *areaStats) pushDelta(delta float64) {
	stats.deltas = append(stats.deltas, delta)
	if len(stats.deltas) > stats.capacity {
		stats.deltas = stats.deltas[len(stats.deltas)-stats.capacity:]
	}
}

func (stats *areaStats) mean() float64 {
	return stats.total / float64(len(stats.sorted))
}

func (stats *areaStats) median() float64 {
	n := len(stats.sorted)
	if n%2 == 1 {
		return stats.sorted[n/2]
	}
	return (stats.sorted[n/2-1] + stats.sorted[n/2]) / 2.0
}

// deltaRange returns max and min of the delta window. Empty window gives zeros.
func (stats *areaStats) deltaRange() (float64, float64) {
	if len(stats.deltas) == 0 {
		return 0, 0
	}
	maxDelta, minDelta := stats.deltas[0], stats.deltas[0]
	for _, delta := range stats.deltas[1:] {
		maxDelta = maxFloat64(maxDelta, delta)
		minDelta = minFloat64(minDelta, delta)
	}
	return maxDelta, minDelta
}
