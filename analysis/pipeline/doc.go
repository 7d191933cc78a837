// Package pipeline wires smoothing, feature detection, cross-spectrum
// tracking, change classification and phase annotation into one analysis run.
//
// Spectra are sorted by ascending temperature (stable for equal
// temperatures). Smoothing and detection run concurrently, one worker per
// spectrum writing only its own slot; tracking and classification then run
// sequentially over the ordered slots. In a batch of two or more spectra a
// spectrum too short to analyze is skipped with a warning and recorded in
// [Result.Skipped]; any other input error aborts the run.
package pipeline
