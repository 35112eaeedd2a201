// Package viz renders GZ curves and hull sections in the terminal.
//
//   - [PlotCurve]: asciigraph line chart of righting arm vs. heel angle
//   - [Section]: Braille scatter of a heeled cloud split at the waterline
//   - [ProgressModel]: Bubble Tea view of sampling progress
package viz
