package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Logo printed by the CLI banner
const Logo = `
  ╔═══════════════════════════════════════╗
  ║  l i p o s t                          ║
  ║  LinkedIn posts from your terminal    ║
  ╚═══════════════════════════════════════╝
`

var (
	linkedInBlue = lipgloss.Color("#0A66C2")
	okGreen      = lipgloss.Color("#39FF14")
	warnYellow   = lipgloss.Color("#FFFF00")
	errRed       = lipgloss.Color("#FF0000")
	dimWhite     = lipgloss.Color("#B0B0B0")

	logoStyle = lipgloss.NewStyle().
			Foreground(linkedInBlue).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(linkedInBlue).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(warnYellow)

	successStyle = lipgloss.NewStyle().
			Foreground(okGreen).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warnYellow)

	errorStyle = lipgloss.NewStyle().
			Foreground(errRed).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimWhite)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(linkedInBlue).
			Padding(0, 1)
)

var (
	mu        sync.Mutex
	out       io.Writer = os.Stdout
	errOut    io.Writer = os.Stderr
	quietMode bool
)

// SetOutput redirects normal and error output, mainly for tests
func SetOutput(stdout, stderr io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = stdout
	errOut = stderr
}

// SetQuietMode suppresses everything except errors
func SetQuietMode(quiet bool) {
	mu.Lock()
	defer mu.Unlock()
	quietMode = quiet
}

func write(toErr bool, s string) {
	mu.Lock()
	defer mu.Unlock()
	if toErr {
		fmt.Fprintln(errOut, s)
		return
	}
	if !quietMode {
		fmt.Fprintln(out, s)
	}
}

// PrintLogo prints the banner
func PrintLogo() {
	write(false, logoStyle.Render(Logo))
}

// PrintError prints an error message in red to stderr
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	write(true, errorStyle.Render("✗ "+msg))
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	write(false, successStyle.Render("✓ "+msg))
}

// PrintInfo prints a label/value pair
func PrintInfo(label string, value string) {
	write(false, labelStyle.Render(label+":")+" "+valueStyle.Render(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	write(false, warningStyle.Render("! "+msg))
}

// PrintDim prints secondary text
func PrintDim(msg string) {
	write(false, dimStyle.Render(msg))
}

// PrintPanel prints a bordered block with a title and label/value rows
func PrintPanel(title string, rows [][2]string) {
	lines := labelStyle.Render(title)
	for _, row := range rows {
		lines += "\n" + labelStyle.Render(row[0]+":") + " " + valueStyle.Render(row[1])
	}
	write(false, panelStyle.Render(lines))
}
