package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	styleMarker  = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	// Status line icons, keyed by kind.
	statusIcons = map[statusKind]struct {
		icon  string
		style lipgloss.Style
	}{
		statusSuccess: {"✓", lipgloss.NewStyle().Foreground(colorGreen)},
		statusError:   {"✗", lipgloss.NewStyle().Foreground(colorRed)},
		statusWarning: {"!", lipgloss.NewStyle().Foreground(colorYellow)},
		statusInfo:    {"›", lipgloss.NewStyle().Foreground(colorGray)},
	}

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconArrow  = "→"
	iconCached = "cached"
	iconFresh  = "rendered"
)

// uiOut receives all human-facing status output.
var uiOut io.Writer = os.Stdout

// =============================================================================
// Status Output
// =============================================================================

type statusKind int

const (
	statusSuccess statusKind = iota
	statusError
	statusWarning
	statusInfo
)

func printStatus(kind statusKind, format string, args ...any) {
	s := statusIcons[kind]
	msg := fmt.Sprintf(format, args...)
	if kind == statusWarning {
		msg = s.style.Render(msg)
	}
	fmt.Fprintln(uiOut, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { printStatus(statusSuccess, format, args...) }

func printError(format string, args ...any) { printStatus(statusError, format, args...) }

func printWarning(format string, args ...any) { printStatus(statusWarning, format, args...) }

func printInfo(format string, args ...any) { printStatus(statusInfo, format, args...) }

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(uiOut)
}

// =============================================================================
// Layout and To-do Output
// =============================================================================

// printStats prints layout statistics on a single line, e.g.
// "3 children · 2 rows · 40×13 · rendered".
func printStats(children, rows, width, height int, cached bool) {
	status := styleComputed.Render(iconFresh)
	if cached {
		status = styleCached.Render(iconCached)
	}
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d children", children)),
		StyleDim.Render(fmt.Sprintf("%d rows", rows)),
		StyleDim.Render(fmt.Sprintf("%d×%d", width, height)),
		status,
	}
	fmt.Fprintln(uiOut, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printTodoItem prints one to-do line: short id, icon and task.
func printTodoItem(id, glyph, task string, editing bool) {
	marker := "  "
	if editing {
		marker = styleMarker.Render("▸ ")
	}
	fmt.Fprintln(uiOut, marker+StyleDim.Render(id)+" "+styleMarker.Render(glyph)+" "+StyleValue.Render(task))
}
