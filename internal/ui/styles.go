package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green, confirmed writes
	ColorWarning   = lipgloss.Color("#FFB800") // yellow, write methods and prompts
	ColorError     = lipgloss.Color("#FF4444") // red, failures and rejections
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan, addresses and hashes
	ColorValue     = lipgloss.Color("#FFFFFF") // white bold, decoded values
	ColorMeta      = lipgloss.Color("#555555") // dim gray, selectors and hints
	ColorBorder    = lipgloss.Color("#1E3A5F") // dark blue, UI chrome
	ColorProvider  = lipgloss.Color("#9B5DE5") // purple, provider names
	ColorHighlight = lipgloss.Color("#F15BB5") // pink, selected rows
	ColorInfo      = lipgloss.Color("#4EA8DE")
)

// Base styles.
var (
	StyleSuccess  = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning  = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError    = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress  = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue    = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta     = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleProvider = lipgloss.NewStyle().Foreground(ColorProvider).Bold(true)
	StyleInfo     = lipgloss.NewStyle().Foreground(ColorInfo)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			Underline(true)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorProvider).
			Bold(true).
			MarginBottom(1)

	StylePrompt = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorWarning).
			Padding(0, 1)
)

// Banner returns the nftmint banner.
func Banner() string {
	art := `
  ┏┓╻┏━╸╺┳╸┏┳┓╻┏┓╻╺┳╸
  ┃┗┫┣╸  ┃ ┃┃┃┃┃┗┫ ┃
  ╹ ╹╹   ╹ ╹ ╹╹╹ ╹ ╹ `

	tagline := StyleMeta.Render("  connect a wallet · read · mint")
	return StyleProvider.Render(art) + "\n" + tagline + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Info formats an informational message.
func Info(msg string) string { return StyleInfo.Render("ℹ " + msg) }

// Hint formats a suggestion for what to run next.
func Hint(msg string) string { return StyleMeta.Render("→ " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// ProviderName formats a wallet provider name.
func ProviderName(p string) string { return StyleProvider.Render(p) }

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// padR pads s to visible width n (ANSI-safe using lipgloss.Width).
func padR(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}

// trimErr shortens a wrapped error chain to its most telling part for
// single-line display.
func trimErr(s string) string {
	for _, marker := range []string{
		"execution reverted", "transaction reverted", "user rejected",
		"dial tcp", "connection refused", "context deadline", "context canceled",
	} {
		if idx := strings.Index(s, marker); idx >= 0 {
			s = s[idx:]
			break
		}
	}
	if len(s) > 60 {
		return s[:60] + "…"
	}
	return s
}
