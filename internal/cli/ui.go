package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Terminal palette (ANSI 256). Tile colors are rendered with their own
// hex values via swatch.
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

// Exported styles are shared with the browse view.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	separator        = StyleDim.Render(" · ")
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// statusIcons pairs each status glyph with its color.
var statusIcons = map[string]lipgloss.Style{
	iconSuccess: lipgloss.NewStyle().Foreground(colorGreen),
	iconError:   lipgloss.NewStyle().Foreground(colorRed),
	iconWarning: lipgloss.NewStyle().Foreground(colorYellow),
	iconInfo:    lipgloss.NewStyle().Foreground(colorGray),
}

func printStatus(icon, msg string) {
	fmt.Println(statusIcons[icon].Render(icon) + " " + msg)
}

func printSuccess(format string, args ...any) { printStatus(iconSuccess, fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { printStatus(iconError, fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { printStatus(iconInfo, fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	printStatus(iconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written artifact with its size.
func printFile(path string, size int) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path) +
		" " + StyleDim.Render(humanize.Bytes(uint64(size))))
}

// printStats prints one line per variation: seed, tile counts, aspect
// error and where the pattern came from.
func printStats(seed int64, tiles, tendrilTiles int, deviation float64, cached bool) {
	origin := lipgloss.NewStyle().Foreground(colorGray).Render(iconFresh)
	if cached {
		origin = StyleSuccess.Render(iconCached)
	}
	parts := []string{
		StyleDim.Render(fmt.Sprintf("seed %d", seed)),
		StyleDim.Render(humanize.Comma(int64(tiles)) + " tiles"),
		StyleDim.Render(fmt.Sprintf("%d in tendrils", tendrilTiles)),
		StyleDim.Render(fmt.Sprintf("aspect off by %.1f%%", deviation)),
		origin,
	}
	fmt.Println("  " + strings.Join(parts, separator))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }

// swatch renders s in the tile color c.
func swatch(c, s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(s)
}
