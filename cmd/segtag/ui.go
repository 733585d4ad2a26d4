package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/philipparndt/segtag/pkg/placement"
	"github.com/philipparndt/segtag/pkg/tags"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	styleOn      = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	styleOff     = lipgloss.NewStyle().Foreground(colorGray)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, styleTitle.Render(title))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, "  "+styleKey.Render(key)+" "+value)
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleWarning.Render("! "+fmt.Sprintf(format, args...)))
}

// segmentLabel renders a segment name in its display color
func segmentLabel(name, id string, color placement.Color) string {
	label := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color.String())).Render(name)
	if id != name {
		label += " " + styleDim.Render("("+id+")")
	}
	return label
}

func printStatus(w io.Writer, status tags.Status) {
	style := styleOff
	if status == tags.StatusOn {
		style = styleOn
	}
	fmt.Fprintln(w, style.Render(status.String()))
}
