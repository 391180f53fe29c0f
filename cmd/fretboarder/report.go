package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chazu/fretboarder/pkg/instrument"
)

// Styles for terminal reports
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC")).
			Width(24)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500")).
			Width(12).
			Align(lipgloss.Right)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// presetColumns are the header and width of each catalog column.
var presetColumns = []struct {
	title string
	width int
}{
	{"Name", 16},
	{"Strings", 8},
	{"Frets", 6},
	{"Bass", 10},
	{"Treble", 10},
	{"Perp.", 6},
	{"Zero fret", 10},
}

func cell(s string, width int, style lipgloss.Style) string {
	return style.Width(width).Render(s)
}

// renderPresets draws the catalog as a table.
func renderPresets(presets []instrument.Preset) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Presets"))
	sb.WriteString("\n")

	var header []string
	for _, c := range presetColumns {
		header = append(header, cell(c.title, c.width, headerStyle))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	sb.WriteString("\n")

	for _, p := range presets {
		inst := p.Instrument
		zero := "no"
		if inst.HasZeroFret {
			zero = "yes"
		}
		row := []string{
			p.Name,
			fmt.Sprint(inst.NumberOfStrings),
			fmt.Sprint(inst.NumberOfFrets),
			fmt.Sprintf("%.1f", inst.ScaleLength[instrument.Bass]),
			fmt.Sprintf("%.1f", inst.ScaleLength[instrument.Treble]),
			fmt.Sprintf("%g", inst.PerpendicularFretIndex),
			zero,
		}
		var cells []string
		for i, v := range row {
			cells = append(cells, cell(v, presetColumns[i].width, lipgloss.NewStyle()))
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		sb.WriteString("\n")
	}
	return sb.String()
}

func mm(v float64) string {
	if math.IsInf(v, 1) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f mm", v)
}

// renderLayout summarizes one build.
func renderLayout(b *Build) string {
	fb := b.Fretboard
	d := fb.Distances()

	rows := [][2]string{
		{"Nut side", mm(d.NutSide)},
		{"Nut", mm(d.Nut)},
	}
	if d.HasTwelfthFret {
		rows = append(rows, [2]string{"12th fret", mm(d.TwelfthFret)})
	}
	rows = append(rows,
		[2]string{"Last fret", mm(d.LastFret)},
		[2]string{"Heel", mm(d.Heel)},
		[2]string{"Width at nut", mm(fb.BoardWidthAtNut())},
		[2]string{"Width at last fret", mm(fb.BoardWidthAtLastFret())},
		[2]string{"Radius drop at nut", mm(fb.RadiusDropAtNut())},
		[2]string{"Radius drop at last fret", mm(fb.RadiusDropAtLastFret())},
		[2]string{"Fret slots", fmt.Sprint(len(fb.FretSlotShapes()))},
	)

	var lines []string
	lines = append(lines, titleStyle.Render(b.Name))
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r[0]), valueStyle.Render(r[1])))
	}
	if len(b.Warnings) > 0 {
		lines = append(lines, "")
		for _, w := range b.Warnings {
			lines = append(lines, warningStyle.Render("! "+w.Field+": "+w.Message))
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// renderWritten lists exported files.
func renderWritten(name string, paths []string) string {
	var sb strings.Builder
	sb.WriteString(successStyle.Render(fmt.Sprintf("%s: %d files", name, len(paths))))
	sb.WriteString("\n")
	for _, p := range paths {
		sb.WriteString(dimStyle.Render("  " + p))
		sb.WriteString("\n")
	}
	return sb.String()
}
