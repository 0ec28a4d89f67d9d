// Command beaconmap reconstructs a beacon map from overlapping scanner
// reports and prints the beacon count and the largest scanner spread.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	zlog "github.com/rs/zerolog/log"

	"github.com/banshee-data/beaconmap/internal/align"
	"github.com/banshee-data/beaconmap/internal/config"
	"github.com/banshee-data/beaconmap/internal/db"
	"github.com/banshee-data/beaconmap/internal/fsutil"
	"github.com/banshee-data/beaconmap/internal/monitoring"
	"github.com/banshee-data/beaconmap/internal/render"
	"github.com/banshee-data/beaconmap/internal/scanner"
	"github.com/banshee-data/beaconmap/internal/timeutil"
	"github.com/banshee-data/beaconmap/internal/version"
)

// Config holds command-line settings.
type Config struct {
	Input      string
	ConfigPath string
	DBPath     string
	PlotPath   string
	HTMLPath   string
	Version    bool

	// Overrides holds solver settings given on the command line. Only
	// flags that were set appear here.
	Overrides *config.AlignConfig
}

// env is what a run reads from and writes to.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	fs     fsutil.FileSystem
	clock  timeutil.Clock
}

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid arguments")
	}
	if cfg.Version {
		fmt.Println(version.String("beaconmap"))
		return
	}

	e := env{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		fs:     fsutil.OSFileSystem{},
		clock:  timeutil.RealClock{},
	}
	if err := run(cfg, e); err != nil {
		zlog.Fatal().Err(err).Msg("beaconmap failed")
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{}

	var (
		workers      int
		minOverlap   int
		allowPartial bool
		timeout      string
		logLevel     string
	)
	fs.StringVar(&cfg.Input, "input", "-", "Scanner report to read (- for stdin)")
	fs.StringVar(&cfg.ConfigPath, "config", "", "Solver config file (.json, .yaml or .yml)")
	fs.StringVar(&cfg.DBPath, "db", "", "SQLite file to record the run in")
	fs.StringVar(&cfg.PlotPath, "plot", "", "Write a top-down PNG of the map to this path")
	fs.StringVar(&cfg.HTMLPath, "html", "", "Write an interactive HTML view of the map to this path")
	fs.BoolVar(&cfg.Version, "version", false, "Print version and exit")
	fs.IntVar(&workers, "workers", config.DefaultWorkers, "Candidates searched concurrently per round")
	fs.IntVar(&minOverlap, "min-overlap", config.DefaultMinOverlap, "Shared beacons required to align two scanners")
	fs.BoolVar(&allowPartial, "allow-partial", false, "Report answers over placed scanners when some cannot be placed")
	fs.StringVar(&timeout, "timeout", "", "Limit on the whole solve, e.g. 30s")
	fs.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg.Overrides = config.EmptyAlignConfig()
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			cfg.Overrides.Workers = &workers
		case "min-overlap":
			cfg.Overrides.MinOverlap = &minOverlap
		case "allow-partial":
			cfg.Overrides.AllowPartial = &allowPartial
		case "timeout":
			cfg.Overrides.Timeout = &timeout
		case "log-level":
			cfg.Overrides.LogLevel = &logLevel
		}
	})
	return cfg, nil
}

// loadConfig layers defaults, the config file and flag overrides.
func loadConfig(cfg Config) (*config.AlignConfig, error) {
	ac := config.DefaultAlignConfig()
	if cfg.ConfigPath != "" {
		fileCfg, err := config.LoadAlignConfig(cfg.ConfigPath)
		if err != nil {
			return nil, err
		}
		ac.Merge(fileCfg)
	}
	ac.Merge(cfg.Overrides)
	if err := ac.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return ac, nil
}

func run(cfg Config, e env) error {
	ac, err := loadConfig(cfg)
	if err != nil {
		return err
	}

	logger := monitoring.New(e.stderr, ac.GetLogLevel())
	monitoring.Install(logger)

	scanners, err := readScanners(e, cfg.Input)
	if err != nil {
		return err
	}
	logger.Info().Int("scanners", len(scanners)).Str("input", cfg.Input).Msg("parsed scanner report")

	ctx := context.Background()
	if d := ac.GetTimeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	done := monitoring.Timed(e.clock, logger, "align")
	res, err := align.New(scanners, align.WithConfig(ac), align.WithLogger(logger)).Run(ctx)
	done()
	if err != nil {
		if !errors.Is(err, align.ErrDisconnected) || !ac.GetAllowPartial() || res == nil {
			return err
		}
		logger.Warn().Err(err).Ints("unplaced", res.Unplaced()).Msg("reporting answers over placed scanners only")
	}

	fmt.Fprintf(e.stdout, "Part One : %d\n", res.BeaconCount())
	fmt.Fprintf(e.stdout, "Part Two : %d\n", res.MaxManhattan())

	if cfg.DBPath != "" {
		if err := recordRun(e, cfg, res); err != nil {
			return err
		}
		logger.Info().Str("db", cfg.DBPath).Msg("run recorded")
	}
	if cfg.PlotPath != "" {
		err := writeOutput(e, cfg.PlotPath, func(w io.Writer) error {
			return render.WritePNG(w, res, render.DefaultWidth, render.DefaultHeight)
		})
		if err != nil {
			return err
		}
		logger.Info().Str("path", cfg.PlotPath).Msg("wrote plot")
	}
	if cfg.HTMLPath != "" {
		err := writeOutput(e, cfg.HTMLPath, func(w io.Writer) error {
			return render.WriteHTML(w, res)
		})
		if err != nil {
			return err
		}
		logger.Info().Str("path", cfg.HTMLPath).Msg("wrote html view")
	}
	return nil
}

func readScanners(e env, path string) ([]scanner.Scanner, error) {
	if path == "" || path == "-" {
		return scanner.Parse(e.stdin)
	}
	f, err := e.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	scanners, err := scanner.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scanners, nil
}

func recordRun(e env, cfg Config, res *align.Result) error {
	database, err := db.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open run database: %w", err)
	}
	defer database.Close()

	run := &db.Run{InputName: cfg.Input}
	if err := db.NewRunStoreWithClock(database, e.clock).Insert(run, res); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func writeOutput(e env, path string, write func(io.Writer) error) error {
	f, err := e.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
