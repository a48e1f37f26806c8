package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/LdDl/anttrack/clip"
	"github.com/LdDl/anttrack/config"
	"github.com/LdDl/anttrack/detect"
	"github.com/LdDl/anttrack/store"
	"github.com/LdDl/anttrack/trackplot"
)

// processor tracks a single clip and writes its outputs.
type processor struct {
	cfg      *config.Config
	outDir   string
	raw      bool
	segments bool
	plots    bool
	db       *store.Store
	log      logging.Logger
}

func (p *processor) process(path string) error {
	trackerCfg, err := p.cfg.Tracker()
	if err != nil {
		return errors.Wrap(err, "bad tracker config")
	}
	source, err := detect.OpenVideoSource(path, p.cfg.Detector)
	if err != nil {
		return errors.Wrapf(err, "can't open %s", path)
	}
	defer source.Close()

	opts := []clip.Option{clip.WithLogger(p.log)}
	if p.raw || p.plots || p.db != nil {
		opts = append(opts, clip.WithTrace())
	}
	result, err := clip.Run(source, path, trackerCfg, opts...)
	if err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if err := writeCSV(filepath.Join(p.outDir, base+".csv"), func(f *os.File) error {
		return clip.WriteRecords(f, result.Records)
	}); err != nil {
		return err
	}
	if p.raw {
		if err := writeCSV(filepath.Join(p.outDir, base+"_raw.csv"), func(f *os.File) error {
			return clip.WriteTrace(f, result.Trace)
		}); err != nil {
			return err
		}
	}
	if p.segments {
		if err := writeCSV(filepath.Join(p.outDir, base+"_segments.csv"), func(f *os.File) error {
			return clip.WriteSegments(f, result.Segments)
		}); err != nil {
			return err
		}
	}
	if p.plots {
		files, err := trackplot.Save(p.outDir, base, result.Trace)
		if err != nil {
			return errors.Wrapf(err, "can't plot %s", path)
		}
		p.log.Debug("plots saved", "files", strings.Join(files, ","))
	}
	if p.db != nil {
		run, err := p.db.SaveResult(result)
		if err != nil {
			return errors.Wrapf(err, "can't store %s", path)
		}
		p.log.Info("result stored", "file", path, "run", run.ID)
	}

	summary := clip.Summarize(result)
	p.log.Info("clip summary", "file", path,
		"tracks", summary.Tracks,
		"records", summary.Records,
		"excluded", summary.Excluded,
		"crowded", summary.Crowded,
		"segments", summary.Segments,
		"mean_duration", summary.MeanDuration,
		"mean_distance", summary.MeanDistance,
	)
	return nil
}

// writeCSV creates the file and fills it with write.
func writeCSV(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "can't create %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "can't write %s", path)
	}
	return errors.Wrapf(f.Close(), "can't close %s", path)
}
