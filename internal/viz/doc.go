// Package viz renders sweep results in the terminal.
//
//   - [Preview]: asciigraph plots of x(t) and y(t) for one series
//   - [Summary]: lipgloss table of a sweep report
//   - [Progress]: bubbletea model showing a running sweep
//
// Raster figures are produced by package export; viz only targets the
// terminal.
package viz
