// Package viz renders analysis output for the terminal: lipgloss styles
// for headings and verdicts, and asciigraph line plots of responses.
//
// Colors follow the current [Theme]; lipgloss drops them when the output
// is not a terminal.
package viz
