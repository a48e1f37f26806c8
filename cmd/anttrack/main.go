// Command anttrack tracks ants in video clips and writes entry/exit records.
//
// Usage:
//
//	anttrack [flags] clip.mp4 [clip.mp4 ...]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/ausocean/utils/logging"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/LdDl/anttrack/config"
	"github.com/LdDl/anttrack/store"
)

const version = "v0.1.0"

// Logging configuration.
const (
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logSuppress  = true
)

// Environment variables read after loading .env.
const (
	envConfig = "ANTTRACK_CONFIG"
	envLog    = "ANTTRACK_LOG"
	envDB     = "ANTTRACK_DB"
)

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", envOr(envConfig, ""), "path to JSON config, defaults are used when empty")
	outDir := flag.String("out", "results", "directory for CSV and plot output")
	raw := flag.Bool("raw", false, "write per-frame track positions (x,y,id,frame)")
	segments := flag.Bool("segments", false, "write multi-ant segments")
	plots := flag.Bool("plots", false, "draw x/y coordinate plots per clip")
	dbPath := flag.String("db", envOr(envDB, ""), "SQLite database for results, disabled when empty")
	logPath := flag.String("log", envOr(envLog, "anttrack.log"), "log file path")
	verbose := flag.Bool("v", false, "debug logging")
	parallel := flag.Int("parallel", runtime.NumCPU(), "number of clips tracked at once")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: anttrack [flags] clip.mp4 [clip.mp4 ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   *logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	defer fileLog.Close()
	verbosity := logging.Info
	if *verbose {
		verbosity = logging.Debug
	}
	log := logging.New(verbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)
	log.Info("starting anttrack", "version", version, "clips", flag.NArg())

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal("could not load config", "path", *configPath, "error", err.Error())
		}
		cfg = loaded
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal("could not create output directory", "path", *outDir, "error", err.Error())
	}

	var db *store.Store
	if *dbPath != "" {
		var err error
		db, err = store.New(*dbPath)
		if err != nil {
			log.Fatal("could not open database", "path", *dbPath, "error", err.Error())
		}
		defer db.Close()
	}

	p := &processor{
		cfg:      cfg,
		outDir:   *outDir,
		raw:      *raw,
		segments: *segments,
		plots:    *plots,
		db:       db,
		log:      log,
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*parallel)
	for _, path := range flag.Args() {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			return p.process(path)
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("tracking failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("all clips done", "clips", flag.NArg())
}
