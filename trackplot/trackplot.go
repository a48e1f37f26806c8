// Package trackplot draws ant track coordinates against frame number.
package trackplot

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/LdDl/anttrack/mot"
)

// Axis selects the coordinate drawn on the Y axis of a plot.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (axis Axis) String() string {
	if axis == AxisX {
		return "x"
	}
	return "y"
}

func (axis Axis) value(p mot.TrackPosition) float64 {
	if axis == AxisX {
		return p.X
	}
	return p.Y
}

// groupByTrack splits positions per track ID, each sorted by frame.
func groupByTrack(trace []mot.TrackPosition) ([]uint64, map[uint64][]mot.TrackPosition) {
	byTrack := make(map[uint64][]mot.TrackPosition)
	for _, p := range trace {
		byTrack[p.ID] = append(byTrack[p.ID], p)
	}
	ids := make([]uint64, 0, len(byTrack))
	for id, positions := range byTrack {
		ids = append(ids, id)
		sort.Slice(positions, func(a, b int) bool {
			return positions[a].Frame < positions[b].Frame
		})
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids, byTrack
}

// Coordinates builds a plot of one coordinate versus frame, one line per track.
func Coordinates(title string, trace []mot.TrackPosition, axis Axis) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - %s coordinate", title, axis)
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = fmt.Sprintf("%s (px)", axis)

	ids, byTrack := groupByTrack(trace)
	for i, id := range ids {
		positions := byTrack[id]
		pts := make(plotter.XYs, 0, len(positions))
		for _, position := range positions {
			pts = append(pts, plotter.XY{X: float64(position.Frame), Y: axis.value(position)})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "track %d", id)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("ant %d", id), line)
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// Save writes "<prefix>_x.png" and "<prefix>_y.png" into dir and returns their paths.
func Save(dir, prefix string, trace []mot.TrackPosition) ([]string, error) {
	files := make([]string, 0, 2)
	for _, axis := range []Axis{AxisX, AxisY} {
		p, err := Coordinates(prefix, trace, axis)
		if err != nil {
			return files, errors.Wrapf(err, "can't build %s plot", axis)
		}
		file := filepath.Join(dir, fmt.Sprintf("%s_%s.png", prefix, axis))
		if err := p.Save(14*vg.Inch, 6*vg.Inch, file); err != nil {
			return files, errors.Wrapf(err, "save %s plot", axis)
		}
		files = append(files, file)
	}
	return files, nil
}
