// Command backwater-export writes the monthly water-quality table of one
// region to a CSV, XLSX or PDF file without going through the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"backwater-server/api/imagery"
	"backwater-server/config"
	"backwater-server/export"
	"backwater-server/log"
	"backwater-server/models"
	services "backwater-server/service"

	"github.com/schollz/progressbar/v3"
)

type options struct {
	region   models.BoundingBox
	years    int
	profile  string
	format   string
	outDir   string
	useMock  bool
	quiet    bool
	now      time.Time
	fixtures string
}

func parseFlags(args []string) (options, error) {
	opts := options{now: time.Now()}
	fs := flag.NewFlagSet("backwater-export", flag.ContinueOnError)
	fs.Float64Var(&opts.region.MinLon, "min-lon", config.HOTSPOT_MIN_LON, "western edge")
	fs.Float64Var(&opts.region.MinLat, "min-lat", config.HOTSPOT_MIN_LAT, "southern edge")
	fs.Float64Var(&opts.region.MaxLon, "max-lon", config.HOTSPOT_MAX_LON, "eastern edge")
	fs.Float64Var(&opts.region.MaxLat, "max-lat", config.HOTSPOT_MAX_LAT, "northern edge")
	fs.IntVar(&opts.years, "years", config.TREND_YEARS_DEFAULT, "lookback in years")
	fs.StringVar(&opts.profile, "profile", "", "proxy profile version, empty for the active one")
	fs.StringVar(&opts.format, "format", string(export.FormatCSV), "csv, xlsx or pdf")
	fs.StringVar(&opts.outDir, "out", ".", "output directory")
	fs.BoolVar(&opts.useMock, "mock", false, "answer from the recorded fixtures instead of the imagery service")
	fs.BoolVar(&opts.quiet, "quiet", false, "no progress bar")
	fs.StringVar(&opts.fixtures, "fixtures", "", "fixture directory used with -mock")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.years < config.TREND_YEARS_MIN || opts.years > config.TREND_YEARS_MAX {
		return options{}, fmt.Errorf("%w: -years must be %d-%d", models.ErrInvalidWindow, config.TREND_YEARS_MIN, config.TREND_YEARS_MAX)
	}
	return opts, nil
}

func newImageryAPI(ctx context.Context, cfg *config.Config, opts options) (imagery.ImageryAPI, error) {
	if opts.useMock {
		dir := opts.fixtures
		if dir == "" {
			dir = filepath.Join(config.BaseDir(), config.RESOURCES_PATH_PREFIX)
		}
		return imagery.NewImageryApiClientMock(
			filepath.Join(dir, config.MONTHLY_RESULTS_RESOURCE),
			filepath.Join(dir, config.COMPOSITE_RESULT_RESOURCE),
		)
	}
	return imagery.NewImageryApiClient(imagery.NewOAuthHTTPClient(ctx, cfg.Imagery)), nil
}

// run assembles the series and writes the export, returning the file path.
func run(ctx context.Context, cfg *config.Config, opts options) (string, error) {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return "", err
	}
	profiles, err := config.LoadProfiles(cfg.Profiles.Path, cfg.Profiles.Active)
	if err != nil {
		return "", err
	}
	profile := profiles.Active()
	if opts.profile != "" {
		if profile, err = profiles.Get(opts.profile); err != nil {
			return "", err
		}
	}
	imageryAPI, err := newImageryAPI(ctx, cfg, opts)
	if err != nil {
		return "", err
	}

	resolver := services.NewResolver(models.NewBoundingBox(config.VALID_MIN_LON, config.VALID_MIN_LAT, config.VALID_MAX_LON, config.VALID_MAX_LAT))
	window, err := resolver.Resolve(opts.region, opts.years, models.LookbackYear, opts.now)
	if err != nil {
		return "", err
	}

	assembler := services.NewAssembler(cfg.Fetch.Concurrency, cfg.Fetch.Timeout)
	if !opts.quiet {
		bar := progressbar.Default(int64(window.MonthCount), "Fetching months")
		assembler.OnMonthDone = func(time.Time, error) { _ = bar.Add(1) }
	}
	series, err := assembler.Assemble(ctx, window, opts.region, services.NewMonthFetcher(imageryAPI, profile).FetchMonth)
	if err != nil {
		return "", err
	}

	report := services.BuildTrendReport(opts.region, window, profile, series, opts.now.UTC())
	body, err := export.Build(format, &report)
	if err != nil {
		return "", err
	}
	path := filepath.Join(opts.outDir, export.FileName(format, opts.now))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Infof("[Export] %s: %d months, %d chlorophyll and %d turbidity alerts",
		path, series.Len(), report.Alerts.ChlorophyllAlertCount, report.Alerts.TurbidityAlertCount)
	return path, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if err := log.Init(cfg.LogDebug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path, err := run(ctx, cfg, opts)
	if err != nil {
		log.Fatalf("[Export] %v", err)
	}
	fmt.Println(path)
}
