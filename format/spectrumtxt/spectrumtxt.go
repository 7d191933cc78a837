// Package spectrumtxt reads two-column spectrum text files.
//
// A file holds one spectrum: wavenumber and intensity per row, separated by
// whitespace, commas, semicolons or tabs. Lines starting with '#' or '%' are
// comments; non-numeric lines before the first data row are headers. When a
// row uses semicolons as separators, commas inside its fields are decimal
// commas. Rows may be in ascending or descending wavenumber order; the
// returned spectrum is always ascending.
//
// The temperature is taken from an explicit [WithTemperature] option or from
// the file name ("dea_248.15K.txt", "dea_248K.txt", and as a last resort the
// first three-digit group, "dea_248.txt").
package spectrumtxt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-raman/dsp/core"
	"github.com/cwbudde/algo-raman/spectra"
	"golang.org/x/sync/errgroup"
)

var (
	kelvinPattern   = regexp.MustCompile(`(\d{2,3}(?:\.\d{1,2})?)\s*K`)
	fallbackPattern = regexp.MustCompile(`(\d{3})`)
)

const maxLine = 1 << 20

type options struct {
	temperature    float64
	hasTemperature bool
	workers        int
}

// Option configures loading.
type Option func(*options)

// WithTemperature sets the temperature in kelvin instead of deriving it from
// the file name.
func WithTemperature(kelvin float64) Option {
	return func(o *options) {
		o.temperature = kelvin
		o.hasTemperature = true
	}
}

// WithWorkers bounds the number of files LoadAll reads concurrently.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// Temperature extracts a temperature in kelvin from a file name.
func Temperature(name string) (float64, error) {
	base := filepath.Base(name)
	if m := kelvinPattern.FindStringSubmatch(base); m != nil {
		return strconv.ParseFloat(m[1], 64)
	}
	if m := fallbackPattern.FindStringSubmatch(base); m != nil {
		return strconv.ParseFloat(m[1], 64)
	}
	return 0, fmt.Errorf("%w in file name %q; set it explicitly", spectra.ErrNoTemperature, base)
}

// Load reads the spectrum stored at path.
func Load(path string, opts ...Option) (spectra.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return spectra.Spectrum{}, err
	}
	defer f.Close()
	return Parse(f, path, opts...)
}

// LoadAll reads every path concurrently and returns the spectra in path
// order. The first failing path, in path order, determines the error.
func LoadAll(ctx context.Context, paths []string, opts ...Option) ([]spectra.Spectrum, error) {
	o := applyOptions(opts)
	out := make([]spectra.Spectrum, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if o.workers > 0 {
		g.SetLimit(o.workers)
	}
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i], errs[i] = Load(p, opts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Parse reads a spectrum from r. name identifies the input in errors and
// supplies the temperature unless WithTemperature is given.
func Parse(r io.Reader, name string, opts ...Option) (spectra.Spectrum, error) {
	o := applyOptions(opts)
	s := spectra.Spectrum{Source: name, Temperature: o.temperature}
	if !o.hasTemperature {
		t, err := Temperature(name)
		if err != nil {
			return s, &spectra.MalformedInputError{Source: name, Err: err}
		}
		s.Temperature = t
	}

	var lines []int
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || line[0] == '#' || line[0] == '%' {
			continue
		}

		x, y, ok, err := parseRow(line)
		if !ok {
			if len(s.Wavenumber) == 0 {
				continue // header
			}
			return s, &spectra.MalformedInputError{Source: name, Line: lineNo, Err: err}
		}
		if err != nil {
			return s, &spectra.MalformedInputError{Source: name, Line: lineNo, Err: err}
		}
		s.Wavenumber = append(s.Wavenumber, x)
		s.Intensity = append(s.Intensity, y)
		lines = append(lines, lineNo)
	}
	if err := sc.Err(); err != nil {
		return s, &spectra.MalformedInputError{Source: name, Line: lineNo + 1, Err: err}
	}

	if err := orderAxis(&s, lines); err != nil {
		return s, err
	}
	return s, nil
}

// parseRow splits a data line. ok is false when the line holds no number at
// all; err is set when it holds numbers but is not a valid two-column row.
func parseRow(line string) (x, y float64, ok bool, err error) {
	sep := func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	}
	decimalComma := strings.Contains(line, ";")
	if decimalComma {
		sep = func(r rune) bool { return r == ';' || r == ' ' || r == '\t' }
	}

	fields := strings.FieldsFunc(line, sep)
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		if decimalComma {
			f = strings.ReplaceAll(f, ",", ".")
		}
		v, perr := strconv.ParseFloat(f, 64)
		if perr != nil {
			if len(vals) == 0 {
				return 0, 0, false, fmt.Errorf("non-numeric field %q", f)
			}
			return 0, 0, true, fmt.Errorf("non-numeric field %q", f)
		}
		if !core.Finite(v) {
			return 0, 0, true, fmt.Errorf("non-finite value %q", f)
		}
		vals = append(vals, v)
	}
	if len(vals) != 2 {
		return 0, 0, true, fmt.Errorf("expected 2 columns (wavenumber, intensity), got %d", len(vals))
	}
	return vals[0], vals[1], true, nil
}

// orderAxis reverses a strictly descending axis and rejects non-monotonic ones.
func orderAxis(s *spectra.Spectrum, lines []int) error {
	n := len(s.Wavenumber)
	if n < 2 {
		return nil
	}
	descending := s.Wavenumber[1] < s.Wavenumber[0]
	for i := 1; i < n; i++ {
		prev, cur := s.Wavenumber[i-1], s.Wavenumber[i]
		if (descending && cur < prev) || (!descending && cur > prev) {
			continue
		}
		return &spectra.MalformedInputError{
			Source: s.Source,
			Line:   lines[i],
			Err:    fmt.Errorf("wavenumber %v breaks the monotonic axis after %v", cur, prev),
		}
	}
	if descending {
		reverse(s.Wavenumber)
		reverse(s.Intensity)
	}
	return nil
}

func reverse(v []float64) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}
