package clip

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"

	"github.com/LdDl/anttrack/mot"
)

// RecordsHeader is the header row of the records CSV.
var RecordsHeader = []string{"filename", "id", "x0", "y0", "t0", "x1", "y1", "t1", "number_warning", "broken_track"}

// TraceHeader is the header row of the raw trace CSV.
var TraceHeader = []string{"x", "y", "id", "frame"}

// SegmentsHeader is the header row of the multi-ant segments CSV.
var SegmentsHeader = []string{"id", "start", "end"}

func pixel(v float64) string {
	return strconv.Itoa(int(math.Round(v)))
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// WriteRecords writes output rows with coordinates in whole pixels and times in seconds.
func WriteRecords(w io.Writer, records []mot.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(RecordsHeader); err != nil {
		return errors.Wrap(err, "can't write header")
	}
	for _, record := range records {
		row := []string{
			record.Filename,
			strconv.FormatUint(record.ID, 10),
			pixel(record.X0),
			pixel(record.Y0),
			seconds(record.T0),
			pixel(record.X1),
			pixel(record.Y1),
			seconds(record.T1),
			flag(record.NumberWarning),
			flag(record.BrokenTrack),
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "can't write record %d", record.ID)
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "can't flush records")
}

// WriteTrace writes per-frame track positions.
func WriteTrace(w io.Writer, trace []mot.TrackPosition) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(TraceHeader); err != nil {
		return errors.Wrap(err, "can't write header")
	}
	for _, position := range trace {
		row := []string{
			pixel(position.X),
			pixel(position.Y),
			strconv.FormatUint(position.ID, 10),
			strconv.Itoa(position.Frame),
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrap(err, "can't write trace")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "can't flush trace")
}

// WriteSegments writes closed multi-ant episodes.
func WriteSegments(w io.Writer, segments []mot.Segment) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(SegmentsHeader); err != nil {
		return errors.Wrap(err, "can't write header")
	}
	for _, segment := range segments {
		row := []string{
			strconv.FormatUint(segment.TrackID, 10),
			seconds(segment.Start),
			seconds(segment.End),
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrap(err, "can't write segment")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "can't flush segments")
}
