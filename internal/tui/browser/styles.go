package browser

import "github.com/charmbracelet/lipgloss"

var (
	colorWarn    = lipgloss.Color("#EF4444")
	colorSugg    = lipgloss.Color("#EAB308")
	colorGood    = lipgloss.Color("#22C55E")
	colorPrimary = lipgloss.Color("#4A9EFF")
	colorDim     = lipgloss.Color("#9CA3AF")
	colorWhite   = lipgloss.Color("#F9FAFB")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorDim)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(colorDim)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Background(lipgloss.Color("#1D4ED8"))

	metaBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1).
			MarginBottom(1)

	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	suggStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorSugg)
	goodStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorGood)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	noticeStyle  = lipgloss.NewStyle().Foreground(colorGood)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).MarginTop(1)
)
