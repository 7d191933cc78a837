// Command ramanchanges compares a temperature series of Raman spectra and
// reports which bands appear, disappear, grow, diminish or shift between
// consecutive temperatures.
//
// Usage:
//
//	ramanchanges [flags] spectrum-file ...
//
// The temperature of each spectrum is read from its file name ("248K",
// "248.15 K" or a bare three-digit number). Every flag can also be set in a
// config file (--config) or as a RAMAN_* environment variable, for example
// RAMAN_MIN_WIDTH=3.
//
// Examples:
//
//	ramanchanges data/*.txt
//	ramanchanges --markers bands.yaml --prominence 0.02 data/*.txt
//	ramanchanges --format json -o report.json data/*.txt
//	ramanchanges --archive runs.db --label "DEA cooling" data/*.txt
//	ramanchanges --archive runs.db --list-runs
//	ramanchanges --archive runs.db --show-run 2f0c... --format json
//	ramanchanges --archive runs.db --near 1462 --tolerance 3
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-raman/analysis/phase"
	"github.com/cwbudde/algo-raman/analysis/pipeline"
	"github.com/cwbudde/algo-raman/format/markers"
	"github.com/cwbudde/algo-raman/format/report"
	"github.com/cwbudde/algo-raman/format/spectrumtxt"
	"github.com/cwbudde/algo-raman/store/sqlite"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// errUsage marks errors caused by the command line itself.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet()
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr, fs) }

	cfg, err := loadConfig(fs, args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: invalid configuration: %v\n", err)
		return 2
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	if query := archiveQuery(fs); query != nil {
		err = query(ctx, cfg, stdout)
	} else {
		err = analyze(ctx, cfg, fs.Args(), stdout, logger)
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func usage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "Usage: ramanchanges [flags] spectrum-file ...\n\n")
	fmt.Fprintf(w, "Tracks Raman bands across a temperature series and reports their changes.\n\n")
	fmt.Fprintf(w, "Flags:\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  ramanchanges data/*.txt\n")
	fmt.Fprintf(w, "  ramanchanges --markers bands.yaml --format json -o report.json data/*.txt\n")
	fmt.Fprintf(w, "  ramanchanges --archive runs.db --list-runs\n")
	fmt.Fprintf(w, "  ramanchanges --archive runs.db --near 1462 --tolerance 3\n")
}

func newLogger(debug bool) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("can't initialize zap logger: %w", err)
	}
	return logger, nil
}

func analyze(ctx context.Context, cfg *config, paths []string, stdout io.Writer, logger *zap.Logger) error {
	log := logger.Sugar()
	if len(paths) < 2 {
		return fmt.Errorf("%w: need at least 2 spectra to compare, got %d", errUsage, len(paths))
	}

	start := time.Now()
	series, err := spectrumtxt.LoadAll(ctx, paths, spectrumtxt.WithWorkers(cfg.Workers))
	if err != nil {
		return err
	}
	log.Infof("loaded %d spectra", len(series))

	var table *phase.Table
	if cfg.Markers != "" {
		table, err = markers.Load(cfg.Markers)
		if err != nil {
			log.Warnf("continuing without phase assignment: %v", err)
			table = nil
		} else {
			log.Infof("loaded %d reference phases from %s", table.Len(), cfg.Markers)
		}
	}

	res, err := pipeline.Run(ctx, series,
		pipeline.WithConfig(cfg.Config),
		pipeline.WithMarkers(table),
		pipeline.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	log.Infof("analysis finished in %v: %d tracks, %d surfaced events",
		time.Since(start), len(res.Tracks), len(res.Surfaced()))

	if err := writeReport(res, cfg, stdout); err != nil {
		return err
	}

	if cfg.Archive != "" {
		run, err := archive(ctx, cfg.Archive, res, cfg.Label)
		if err != nil {
			return err
		}
		log.Infof("archived run %s in %s", run.ID, cfg.Archive)
	}
	return nil
}

func writeReport(res *pipeline.Result, cfg *config, stdout io.Writer) (err error) {
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	if cfg.Output == "" {
		return report.Write(stdout, res, format)
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report: %w", cerr)
		}
	}()
	return report.Write(f, res, format)
}

func archive(ctx context.Context, path string, res *pipeline.Result, label string) (sqlite.Run, error) {
	store, err := sqlite.Open(ctx, path)
	if err != nil {
		return sqlite.Run{}, err
	}
	defer store.Close()
	return store.Save(ctx, res, label)
}

// archiveQuery returns the archive command selected on the command line, or
// nil when the command should analyze spectra.
func archiveQuery(fs *pflag.FlagSet) func(context.Context, *config, io.Writer) error {
	var selected []string
	for _, name := range []string{"list-runs", "show-run", "delete-run", "near"} {
		if fs.Changed(name) {
			selected = append(selected, "--"+name)
		}
	}
	switch {
	case len(selected) == 0:
		return nil
	case len(selected) > 1:
		return func(context.Context, *config, io.Writer) error {
			return fmt.Errorf("%w: %s cannot be combined", errUsage, strings.Join(selected, ", "))
		}
	}

	return func(ctx context.Context, cfg *config, w io.Writer) error {
		if cfg.Archive == "" {
			return fmt.Errorf("%w: %s requires --archive", errUsage, selected[0])
		}
		store, err := sqlite.Open(ctx, cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()

		switch selected[0] {
		case "--show-run":
			id, _ := fs.GetString("show-run")
			return showRun(ctx, store, id, cfg, w)
		case "--delete-run":
			id, _ := fs.GetString("delete-run")
			if err := store.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(w, "deleted run %s\n", id)
			return nil
		case "--near":
			pos, _ := fs.GetFloat64("near")
			return eventsNear(ctx, store, pos, cfg.Tolerance, w)
		default:
			return listRuns(ctx, store, w)
		}
	}
}

func showRun(ctx context.Context, store *sqlite.Store, id string, cfg *config, w io.Writer) error {
	res, err := store.Load(ctx, id)
	if err != nil {
		return err
	}
	return writeReport(res, cfg, w)
}

func eventsNear(ctx context.Context, store *sqlite.Store, pos, tol float64, w io.Writer) error {
	records, err := store.EventsNear(ctx, pos, tol)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Run\tKind\tPosition\tTemperature\tChange\tPhases")
	fmt.Fprintln(tw, "---\t----\t--------\t-----------\t------\t------")
	for _, r := range records {
		e := r.Event
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.2f -> %.2f K\t%s\t%s\n",
			r.RunID, e.Kind, e.Position, e.FromTemperature, e.ToTemperature,
			percent(e.PercentChange), strings.Join(phase.Labels(e.Phases), ", "))
	}
	return tw.Flush()
}

func percent(p float64) string {
	if math.IsInf(p, 1) {
		return "new"
	}
	return fmt.Sprintf("%+.0f%%", p)
}

func listRuns(ctx context.Context, store *sqlite.Store, w io.Writer) error {
	runs, err := store.List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCreated\tSpectra\tTracks\tEvents\tLabel")
	fmt.Fprintln(tw, "--\t-------\t-------\t------\t------\t-----")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Spectra, r.Tracks, r.Events, r.Label)
	}
	return tw.Flush()
}
