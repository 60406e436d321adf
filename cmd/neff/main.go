// Neff computes the effective sample size of the rows of a matrix.
//
// Usage:
//
//	neff -in data.bm
//	neff -raw data.bin -rows 10000 -cols 512 -layout col
//	neff -csv data.csv -header -json
//
// Flags:
//
//	-in           .bm file written by bigmatrix.Create / WriteFile
//	-raw          headerless little-endian float64 file (needs -rows, -cols, -layout)
//	-csv          comma-separated values, one observation per line (loaded into memory)
//	-header       skip the first CSV line
//	-verify       verify the .bm payload checksum before computing
//	-check-every  checkpoint cadence in rows (default 501)
//	-quiet        do not print the progress stream
//	-json         print the full result as JSON
//	-log-level    debug, info, warn or error (default info)
//	-log-format   text or json (default text)
//
// SIGINT/SIGTERM cancel the computation at the next checkpoint; the process
// then exits with status 130 and prints no result.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/katalvlaran/neffective/bigmatrix"
	"github.com/katalvlaran/neffective/matrix"
	"github.com/katalvlaran/neffective/neffective"
)

const (
	exitOK        = 0
	exitError     = 1
	exitUsage     = 2
	exitCancelled = 130
)

var errUsage = errors.New("neff: exactly one of -in, -raw or -csv is required")

type config struct {
	in, raw, csv string
	rows, cols   int
	layout       string
	header       bool
	verify       bool
	checkEvery   int
	quiet        bool
	asJSON       bool
	logLevel     string
	logFormat    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("neff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.in, "in", "", ".bm matrix file")
	fs.StringVar(&cfg.raw, "raw", "", "headerless float64 matrix file")
	fs.StringVar(&cfg.csv, "csv", "", "CSV matrix file (one row per line)")
	fs.IntVar(&cfg.rows, "rows", 0, "rows of the -raw file")
	fs.IntVar(&cfg.cols, "cols", 0, "columns of the -raw file")
	fs.StringVar(&cfg.layout, "layout", "col", "element order of the -raw file: row or col")
	fs.BoolVar(&cfg.header, "header", false, "skip the first CSV line")
	fs.BoolVar(&cfg.verify, "verify", false, "verify the .bm checksum before computing")
	fs.IntVar(&cfg.checkEvery, "check-every", neffective.DefaultCheckEvery, "checkpoint cadence in rows")
	fs.BoolVar(&cfg.quiet, "quiet", false, "suppress the progress stream")
	fs.BoolVar(&cfg.asJSON, "json", false, "print the full result as JSON")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&cfg.logFormat, "log-format", "text", "log format: text or json")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	sources := 0
	for _, s := range []string{cfg.in, cfg.raw, cfg.csv} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return cfg, errUsage
	}
	if cfg.checkEvery <= 0 {
		return cfg, fmt.Errorf("neff: -check-every must be > 0, got %d", cfg.checkEvery)
	}

	return cfg, nil
}

// newLogger builds the process logger on stderr.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("neff: -log-level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("neff: -log-format must be text or json, got %q", format)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return exitUsage
	}
	logger, err := newLogger(stderr, cfg.logLevel, cfg.logFormat)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	X, closeFn, err := load(cfg)
	if err != nil {
		logger.Error("Failed to load matrix", "error", err)
		return exitError
	}
	defer func() {
		if err := closeFn(); err != nil {
			logger.Warn("Failed to close matrix", "error", err)
		}
	}()
	logger.Info("Matrix loaded", "rows", X.Rows(), "cols", X.Cols())

	opts := []neffective.Option{
		neffective.WithCheckEvery(cfg.checkEvery),
		neffective.WithLogger(logger),
	}
	if !cfg.quiet {
		opts = append(opts, neffective.WithProgress(neffective.NewStarProgress(stderr)))
	}

	res, err := neffective.Compute(ctx, X, opts...)
	if errors.Is(err, neffective.ErrCancelled) {
		logger.Warn("Computation interrupted", "error", err)
		return exitCancelled
	}
	if err != nil {
		logger.Error("Computation failed", "error", err)
		return exitError
	}

	if cfg.asJSON {
		enc := json.NewEncoder(stdout)
		if err := enc.Encode(jsonResult(res)); err != nil {
			logger.Error("Failed to write result", "error", err)
			return exitError
		}
		return exitOK
	}
	fmt.Fprintf(stdout, "%.10g\n", res.Neffective)

	return exitOK
}

// jsonResult replaces non-finite values, which encoding/json rejects, with their names.
func jsonResult(res neffective.Result) any {
	if isFinite(res.SumAbsCor) && isFinite(res.Neffective) {
		return res
	}
	return map[string]any{
		"n":                     res.N,
		"p":                     res.P,
		"sum_abs_cor":           strconv.FormatFloat(res.SumAbsCor, 'g', -1, 64),
		"mean_abs_pairwise_cor": strconv.FormatFloat(res.MeanAbsPairwiseCor, 'g', -1, 64),
		"neffective":            strconv.FormatFloat(res.Neffective, 'g', -1, 64),
	}
}

func isFinite(v float64) bool { return v-v == 0 }

// load opens the configured source. closeFn releases mappings.
func load(cfg config) (matrix.Matrix, func() error, error) {
	noop := func() error { return nil }
	switch {
	case cfg.in != "":
		m, err := bigmatrix.Open(cfg.in)
		if err != nil {
			return nil, noop, err
		}
		if cfg.verify {
			if err := m.Verify(); err != nil {
				return nil, noop, errors.Join(err, m.Close())
			}
		}
		return m, m.Close, nil

	case cfg.raw != "":
		layout, err := bigmatrix.ParseLayout(cfg.layout)
		if err != nil {
			return nil, noop, err
		}
		m, err := bigmatrix.OpenRaw(cfg.raw, cfg.rows, cfg.cols, layout)
		if err != nil {
			return nil, noop, err
		}
		return m, m.Close, nil

	default:
		f, err := os.Open(cfg.csv)
		if err != nil {
			return nil, noop, fmt.Errorf("neff: open csv: %w", err)
		}
		defer f.Close()
		d, err := readCSV(f, cfg.header)
		if err != nil {
			return nil, noop, err
		}
		return d, noop, nil
	}
}

// readCSV parses a rectangular numeric CSV into a Dense matrix.
// The width is fixed by the first data record; a skipped header may differ.
func readCSV(r io.Reader, skipHeader bool) (*matrix.Dense, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	var (
		data []float64
		cols int
		rows int
		line int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("neff: csv: %w", err)
		}
		line++
		if skipHeader && line == 1 {
			continue
		}
		if cols == 0 {
			cols = len(rec)
		}
		if len(rec) != cols {
			return nil, fmt.Errorf("neff: csv line %d: have %d fields, want %d: %w", line, len(rec), cols, csv.ErrFieldCount)
		}
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("neff: csv line %d column %d: %w", line, j+1, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if rows == 0 {
		return nil, fmt.Errorf("neff: csv: %w", matrix.ErrEmpty)
	}

	return matrix.NewDenseFrom(rows, cols, data)
}
