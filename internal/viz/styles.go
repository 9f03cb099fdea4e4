package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Level grades a verdict line.
type Level int

const (
	Good Level = iota
	Warn
	Bad
)

func Heading(text string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(CurrentTheme.Primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(CurrentTheme.Muted).
		Render(text)
}

func Verdict(text string, level Level) string {
	color := CurrentTheme.Success
	switch level {
	case Warn:
		color = CurrentTheme.Warning
	case Bad:
		color = CurrentTheme.Error
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(text)
}

func Subtle(text string) string {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Render(text)
}

// Metric renders an aligned "label  value" pair.
func Metric(label, value string, labelWidth int) string {
	l := lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Width(labelWidth).Render(label)
	v := lipgloss.NewStyle().Foreground(CurrentTheme.Secondary).Bold(true).Render(value)
	return l + v
}

// Panel wraps content in a rounded border.
func Panel(content string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme.Muted).
		Padding(0, 1).
		Render(content)
}

// Separator is a ruled line with a centre mark.
func Separator(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle(left + " ◆ " + right)
}

// ProgressBar renders the fraction done, colored by how far along it is.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	level := Bad
	if fraction > 0.8 {
		level = Good
	} else if fraction > 0.4 {
		level = Warn
	}
	return lipgloss.NewStyle().Foreground(levelColor(level)).Render(bar)
}

func levelColor(l Level) lipgloss.Color {
	switch l {
	case Warn:
		return CurrentTheme.Warning
	case Bad:
		return CurrentTheme.Error
	}
	return CurrentTheme.Success
}

// Sparkline renders values as a one-line bar strip of at most width runes.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(len(values)/width, 1)
	var sb strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		sb.WriteRune(chars[max(0, min(idx, len(chars)-1))])
	}
	return lipgloss.NewStyle().Foreground(CurrentTheme.Secondary).Render(sb.String())
}
