package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/cwbudde/algo-raman/analysis/change"
	"github.com/cwbudde/algo-raman/analysis/phase"
	"github.com/cwbudde/algo-raman/analysis/pipeline"
	"gonum.org/v1/gonum/stat"
)

const ruleWidth = 80

// sections lists the reported event kinds with their headings, in report
// order.
var sections = []struct {
	kind    change.Kind
	heading string
}{
	{change.Appear, "NEW PEAKS APPEARING:"},
	{change.Disappear, "PEAKS DISAPPEARING:"},
	{change.Grow, "PEAKS GROWING IN INTENSITY:"},
	{change.Diminish, "PEAKS DIMINISHING IN INTENSITY:"},
	{change.Shift, "PEAKS SHIFTING POSITION:"},
}

// textWriter remembers the first write error so the report body can be
// written without checking every line.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format+"\n", args...)
}

// WriteText renders the plain-text report.
func WriteText(w io.Writer, res *pipeline.Result) error {
	t := &textWriter{w: w}
	rule := strings.Repeat("=", ruleWidth)

	t.line("%s", rule)
	t.line("RAMAN SPECTRAL CHANGES ANALYSIS REPORT")
	t.line("%s", rule)
	t.line("")

	t.line("ANALYZED SPECTRA:")
	counts := make([]float64, len(res.Spectra))
	for i, s := range res.Spectra {
		counts[i] = float64(s.Features())
		if s.Shoulders > 0 {
			t.line("  %.2f K: %d main peaks + %d shoulders = %d total features", s.Temperature, s.Peaks, s.Shoulders, s.Features())
		} else {
			t.line("  %.2f K: %d peaks detected", s.Temperature, s.Peaks)
		}
	}
	if len(counts) > 1 {
		t.line("  Mean: %.1f features per spectrum, %d tracks", stat.Mean(counts, nil), len(res.Tracks))
	}
	t.line("")

	events := res.Events()
	for _, sec := range sections {
		var picked []change.Event
		for _, e := range events {
			if e.Kind == sec.kind {
				picked = append(picked, e)
			}
		}
		if len(picked) == 0 {
			continue
		}
		t.line("%s", sec.heading)
		for _, e := range picked {
			writeEvent(t, e)
		}
		t.line("")
	}

	if len(res.Skipped) > 0 {
		t.line("SKIPPED SPECTRA:")
		for _, s := range res.Skipped {
			t.line("  %s (%.2f K): %s", s.Source, s.Temperature, s.Reason)
		}
		t.line("")
	}

	t.line("%s", rule)
	return t.err
}

func writeEvent(t *textWriter, e change.Event) {
	band := formatBand(e.Position, e.Shoulder())
	span := fmt.Sprintf("%.2f → %.2f K", e.FromTemperature, e.ToTemperature)

	switch e.Kind {
	case change.Appear:
		t.line("  At %.2f K: Band appears at %s", e.ToTemperature, band)
		if len(e.Phases) > 0 {
			t.line("    → Assigned to %s phase", joinLabels(e.Phases))
		}
	case change.Disappear:
		t.line("  At %.2f K: Band at %s disappears", e.ToTemperature, band)
		if len(e.Phases) > 0 {
			t.line("    → Was assigned to %s phase", joinLabels(e.Phases))
		}
	case change.Grow:
		if math.IsInf(e.PercentChange, 1) {
			t.line("  %s: Band at %s grows from zero intensity", span, band)
		} else {
			t.line("  %s: Band at %s grows by %.0f%%", span, band, e.PercentChange)
		}
	case change.Diminish:
		t.line("  %s: Band at %s decreases by %.0f%%", span, band, e.PercentChange)
	case change.Shift:
		t.line("  %s: Band shifts from %.0f to %.0f cm⁻¹ (shift: %+.0f cm⁻¹)", span, e.Position, e.ToPosition, e.Shift)
	}
}

func formatBand(pos float64, shoulder bool) string {
	if shoulder {
		return fmt.Sprintf("%.0f cm⁻¹ (sh.)", pos)
	}
	return fmt.Sprintf("%.0f cm⁻¹", pos)
}

func joinLabels(ms []phase.Match) string {
	return strings.Join(phase.Labels(ms), ", ")
}
