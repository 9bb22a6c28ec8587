// Package theme provides the colour schemes used by the TUI and the lane palette.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MaxPalette is the number of distinct lane colours every theme carries.
const MaxPalette = 11

// Theme defines all colours used in the application UI.
type Theme struct {
	Accent    lipgloss.Color
	AccentFg  lipgloss.Color // text on Accent
	AccentDim lipgloss.Color // selected row background
	Border    lipgloss.Color
	BorderDim lipgloss.Color
	MutedFg   lipgloss.Color
	TextFg    lipgloss.Color
	SuccessFg lipgloss.Color
	WarnFg    lipgloss.Color
	ErrorFg   lipgloss.Color
	Head      lipgloss.Color // HEAD node and current branch label
	Lanes     [MaxPalette]lipgloss.Color
}

// Theme names.
const (
	DraculaName         = "dracula"
	DraculaLightName    = "dracula-light"
	NordName            = "nord"
	GruvboxDarkName     = "gruvbox-dark"
	GruvboxLightName    = "gruvbox-light"
	CatppuccinMochaName = "catppuccin-mocha"
	CatppuccinLatteName = "catppuccin-latte"
)

// Dracula returns the Dracula theme.
func Dracula() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#BD93F9"),
		AccentFg:  lipgloss.Color("#282A36"),
		AccentDim: lipgloss.Color("#44475A"),
		Border:    lipgloss.Color("#6272A4"),
		BorderDim: lipgloss.Color("#44475A"),
		MutedFg:   lipgloss.Color("#6272A4"),
		TextFg:    lipgloss.Color("#F8F8F2"),
		SuccessFg: lipgloss.Color("#50FA7B"),
		WarnFg:    lipgloss.Color("#FFB86C"),
		ErrorFg:   lipgloss.Color("#FF5555"),
		Head:      lipgloss.Color("#F1FA8C"),
		Lanes: [MaxPalette]lipgloss.Color{
			"#BD93F9", "#50FA7B", "#FF79C6", "#8BE9FD", "#FFB86C", "#F1FA8C",
			"#FF5555", "#6272A4", "#D6ACFF", "#69FF94", "#A4FFFF",
		},
	}
}

// DraculaLight returns the Dracula theme adapted for light backgrounds.
func DraculaLight() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#C6DBE5"),
		AccentFg:  lipgloss.Color("#24292F"),
		AccentDim: lipgloss.Color("#F3E8FF"),
		Border:    lipgloss.Color("#D0D7DE"),
		BorderDim: lipgloss.Color("#E8E8E8"),
		MutedFg:   lipgloss.Color("#6E7781"),
		TextFg:    lipgloss.Color("#24292F"),
		SuccessFg: lipgloss.Color("#059669"),
		WarnFg:    lipgloss.Color("#D97706"),
		ErrorFg:   lipgloss.Color("#DC2626"),
		Head:      lipgloss.Color("#CA8A04"),
		Lanes: [MaxPalette]lipgloss.Color{
			"#7C3AED", "#059669", "#DB2777", "#0891B2", "#D97706", "#CA8A04",
			"#DC2626", "#4F46E5", "#9333EA", "#16A34A", "#0E7490",
		},
	}
}

// Nord returns the Nord theme.
func Nord() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#88C0D0"),
		AccentFg:  lipgloss.Color("#2E3440"),
		AccentDim: lipgloss.Color("#3B4252"),
		Border:    lipgloss.Color("#4C566A"),
		BorderDim: lipgloss.Color("#434C5E"),
		MutedFg:   lipgloss.Color("#81A1C1"),
		TextFg:    lipgloss.Color("#E5E9F0"),
		SuccessFg: lipgloss.Color("#A3BE8C"),
		WarnFg:    lipgloss.Color("#EBCB8B"),
		ErrorFg:   lipgloss.Color("#BF616A"),
		Head:      lipgloss.Color("#EBCB8B"),
		Lanes: [MaxPalette]lipgloss.Color{
			"#88C0D0", "#A3BE8C", "#B48EAD", "#EBCB8B", "#D08770", "#81A1C1",
			"#BF616A", "#8FBCBB", "#5E81AC", "#D8DEE9", "#ECEFF4",
		},
	}
}

// GruvboxDark returns the Gruvbox dark theme.
func GruvboxDark() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#FABD2F"),
		AccentFg:  lipgloss.Color("#282828"),
		AccentDim: lipgloss.Color("#3C3836"),
		Border:    lipgloss.Color("#504945"),
		BorderDim: lipgloss.Color("#3C3836"),
		MutedFg:   lipgloss.Color("#928374"),
		TextFg:    lipgloss.Color("#EBDBB2"),
		SuccessFg: lipgloss.Color("#B8BB26"),
		WarnFg:    lipgloss.Color("#FABD2F"),
		ErrorFg:   lipgloss.Color("#FB4934"),
		Head:      lipgloss.Color("#FABD2F"),
		Lanes: [MaxPalette]lipgloss.Color{
			"#83A598", "#B8BB26", "#D3869B", "#FABD2F", "#FE8019", "#8EC07C",
			"#FB4934", "#458588", "#98971A", "#B16286", "#D79921",
		},
	}
}

// GruvboxLight returns the Gruvbox light theme.
func GruvboxLight() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#D79921"),
		AccentFg:  lipgloss.Color("#FBF1C7"),
		AccentDim: lipgloss.Color("#E0CFA9"),
		Border:    lipgloss.Color("#D5C4A1"),
		BorderDim: lipgloss.Color("#C0B58A"),
		MutedFg:   lipgloss.Color("#7C6F64"),
		TextFg:    lipgloss.Color("#3C3836"),
		SuccessFg: lipgloss.Color("#79740E"),
		WarnFg:    lipgloss.Color("#B57614"),
		ErrorFg:   lipgloss.Color("#9D0006"),
		Head:      lipgloss.Color("#B57614"),
		Lanes: [MaxPalette]lipgloss.Color{
			"#076678", "#79740E", "#8F3F71", "#B57614", "#AF3A03", "#427B58",
			"#9D0006", "#458588", "#98971A", "#B16286", "#D65D0E",
		},
	}
}

// CatppuccinMocha returns the Catppuccin Mocha theme.
func CatppuccinMocha() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#B4BEFE"),
		AccentFg:  lipgloss.Color("#1E1E2E"),
		AccentDim: lipgloss.Color("#313244"),
		Border:    lipgloss.Color("#45475A"),
		BorderDim: lipgloss.Color("#313244"),
		MutedFg:   lipgloss.Color("#6C7086"),
		TextFg:    lipgloss.Color("#CDD6F4"),
		SuccessFg: lipgloss.Color("#A6E3A1"),
		WarnFg:    lipgloss.Color("#F9E2AF"),
		ErrorFg:   lipgloss.Color("#F38BA8"),
		Head:      lipgloss.Color("#F9E2AF"),
		Lanes: [MaxPalette]lipgloss.Color{
			"#89B4FA", "#A6E3A1", "#F5C2E7", "#89DCEB", "#FAB387", "#F9E2AF",
			"#F38BA8", "#CBA6F7", "#94E2D5", "#74C7EC", "#EBA0AC",
		},
	}
}

// CatppuccinLatte returns the Catppuccin Latte theme.
func CatppuccinLatte() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#1E66F5"),
		AccentFg:  lipgloss.Color("#FFFFFF"),
		AccentDim: lipgloss.Color("#CCD0DA"),
		Border:    lipgloss.Color("#9CA0B0"),
		BorderDim: lipgloss.Color("#BCC0CC"),
		MutedFg:   lipgloss.Color("#6C6F85"),
		TextFg:    lipgloss.Color("#4C4F69"),
		SuccessFg: lipgloss.Color("#40A02B"),
		WarnFg:    lipgloss.Color("#DF8E1D"),
		ErrorFg:   lipgloss.Color("#D20F39"),
		Head:      lipgloss.Color("#DF8E1D"),
		Lanes: [MaxPalette]lipgloss.Color{
			"#1E66F5", "#40A02B", "#EA76CB", "#04A5E5", "#FE640B", "#DF8E1D",
			"#D20F39", "#8839EF", "#179299", "#209FB5", "#E64553",
		},
	}
}

// GetTheme returns a theme by name, or Dracula if not found.
func GetTheme(name string) *Theme {
	switch name {
	case DraculaLightName:
		return DraculaLight()
	case NordName:
		return Nord()
	case GruvboxDarkName:
		return GruvboxDark()
	case GruvboxLightName:
		return GruvboxLight()
	case CatppuccinMochaName:
		return CatppuccinMocha()
	case CatppuccinLatteName:
		return CatppuccinLatte()
	default:
		return Dracula()
	}
}

// Palette returns the first size lane colours, clamped to [1, MaxPalette].
func (t *Theme) Palette(size int) []lipgloss.TerminalColor {
	if size <= 0 || size > MaxPalette {
		size = MaxPalette
	}
	out := make([]lipgloss.TerminalColor, size)
	for i := range out {
		out[i] = t.Lanes[i]
	}
	return out
}

// IsLight returns true if the theme is a light theme.
func IsLight(name string) bool {
	switch name {
	case DraculaLightName, GruvboxLightName, CatppuccinLatteName:
		return true
	default:
		return false
	}
}

// DefaultDark returns the default dark theme name.
func DefaultDark() string { return DraculaName }

// DefaultLight returns the default light theme name.
func DefaultLight() string { return DraculaLightName }

// DetectBackground picks the default theme matching the terminal background.
func DetectBackground() string {
	if lipgloss.HasDarkBackground() {
		return DefaultDark()
	}
	return DefaultLight()
}

// Normalize returns the canonical theme name, or "" when it is not supported.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, known := range AvailableThemes() {
		if name == known {
			return name
		}
	}
	return ""
}

// AvailableThemes returns a list of available theme names.
func AvailableThemes() []string {
	return []string{
		DraculaName,
		DraculaLightName,
		NordName,
		GruvboxDarkName,
		GruvboxLightName,
		CatppuccinMochaName,
		CatppuccinLatteName,
	}
}
