package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives all command output except logs. Tests replace it.
var stdout io.Writer = os.Stdout

// ===== Palette =====

var (
	colorAccent = lipgloss.Color("36")
	colorMoney  = lipgloss.Color("71")  // revenue and success
	colorSpend  = lipgloss.Color("214") // outlays and warnings
	colorDebt   = lipgloss.Color("167") // obligations and errors
	colorLink   = lipgloss.Color("75")
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

// ===== Styles =====

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleLink    = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue   = lipgloss.NewStyle().Foreground(colorValue)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorMoney)
	StyleWarning = lipgloss.NewStyle().Foreground(colorSpend)

	styleLabel       = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleIconError   = lipgloss.NewStyle().Foreground(colorDebt)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorLabel)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
)

// ===== Output =====

func printLine(parts ...string) {
	fmt.Fprintln(stdout, strings.Join(parts, " "))
}

func printTitle(title string) {
	printLine(StyleTitle.Render(title))
}

func printSuccess(format string, args ...any) {
	printLine(StyleSuccess.Render(iconSuccess), fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printLine(styleIconError.Render(iconError), fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printLine(StyleWarning.Render("! " + fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	printLine(styleIconInfo.Render(iconInfo), fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	printLine(" ", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints one written output file.
func printFile(path string) {
	printLine(" ", StyleDim.Render(iconArrow), StyleValue.Render(path))
}

// printField prints a label padded to a fixed column and its value.
func printField(label, value string) {
	printLine(styleLabel.Render(label), StyleValue.Render(value))
}

// printStats prints the item count of a rendered level and whether every
// output came from the cache.
func printStats(records int, cached bool) {
	source := "computed"
	if cached {
		source = StyleSuccess.Render("cached")
	}
	printLine(" ", StyleDim.Render(fmt.Sprintf("%d items ·", records)), source)
}

func printNewline() {
	fmt.Fprintln(stdout)
}
