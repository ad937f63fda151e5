package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flowcanvas/pkg/pipeline"
	"github.com/matzehuels/flowcanvas/pkg/validate"
)

// Terminal palette, ANSI 256.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)

	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleNextCmd     = lipgloss.NewStyle().Foreground(colorBlue)
)

// statusKind selects the icon and tint of a status line.
type statusKind int

const (
	statusOK statusKind = iota
	statusFailed
	statusWarn
	statusInfo
)

var statusIcons = [...]struct {
	icon  string
	style lipgloss.Style
	tint  bool
}{
	statusOK:     {"✓", lipgloss.NewStyle().Foreground(colorGreen), false},
	statusFailed: {"✗", lipgloss.NewStyle().Foreground(colorRed), false},
	statusWarn:   {"!", lipgloss.NewStyle().Foreground(colorYellow), true},
	statusInfo:   {"›", lipgloss.NewStyle().Foreground(colorGray), false},
}

func printStatus(kind statusKind, format string, args ...any) {
	s := statusIcons[kind]
	msg := fmt.Sprintf(format, args...)
	if s.tint {
		msg = s.style.Render(msg)
	}
	fmt.Println(s.style.Render(s.icon) + " " + msg)
}

func printSuccess(format string, args ...any) { printStatus(statusOK, format, args...) }
func printError(format string, args ...any)   { printStatus(statusFailed, format, args...) }
func printWarning(format string, args ...any) { printStatus(statusWarn, format, args...) }
func printInfo(format string, args ...any)    { printStatus(statusInfo, format, args...) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written artifact.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + styleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleNextCmd.Render(cmd))
}

// statsLine summarizes a run as "N nodes · M edges · aligned".
func statsLine(st pipeline.Stats) string {
	verdict := lipgloss.NewStyle().Foreground(colorGreen).Render("aligned")
	if st.InvalidCount > 0 {
		verdict = lipgloss.NewStyle().Foreground(colorRed).Render(fmt.Sprintf("%d invalid", st.InvalidCount))
	}
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d nodes", st.NodeCount)),
		StyleDim.Render(fmt.Sprintf("%d edges", st.EdgeCount)),
		verdict,
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

func printStats(st pipeline.Stats) {
	fmt.Println(statsLine(st))
}

// printReport prints one node's verdict followed by its findings.
func printReport(nodeID string, rep validate.Report) {
	switch {
	case rep.IsValid && len(rep.Warnings) == 0:
		ports := rep.Details.InputPorts + rep.Details.OutputPorts
		printSuccess("%s %s", StyleHighlight.Render(nodeID), StyleDim.Render(fmt.Sprintf("%d ports", ports)))
		return
	case rep.IsValid:
		printWarning("%s", nodeID)
	default:
		printError("%s", StyleHighlight.Render(nodeID))
	}
	for _, f := range slices.Concat(rep.Errors, rep.Warnings) {
		printDetail("%s", f.String())
	}
}
