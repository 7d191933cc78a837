// Package detect finds spectral features in one smoothed, normalized series:
// primary peaks and the weaker shoulders on their flanks.
//
// Primary peaks are local maxima (flat plateaus report their midpoint) that
// pass, in order, a height filter, a minimum sample distance filter (the
// higher of two close peaks survives), a prominence filter and a minimum
// width filter. Prominence is the height of a peak above the higher of its
// two bounding minima; width is measured at half prominence.
//
// Shoulders are searched on the flank of each primary peak, from the peak
// outward until the prominence base, another primary peak, or the point where
// the signal falls below ShoulderRatio times the parent height. Both weak
// local maxima and inflection-type slope dips qualify, provided their height
// is at least ShoulderRatio times the parent height. The ratio has no
// first-principles derivation; calibrate it against known shoulder examples.
package detect
