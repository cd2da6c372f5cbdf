package core

// Color represents a foreground color for a screen cell.
// The platform layer maps it to an ANSI 256-color code.
type Color uint8

// Predefined colors for world elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorGray
	ColorBrown
)

// ParseColor maps a lowercase color name to a Color.
// Returns ColorDefault and false for unknown names.
func ParseColor(name string) (Color, bool) {
	switch name {
	case "default", "":
		return ColorDefault, true
	case "red":
		return ColorRed, true
	case "green":
		return ColorGreen, true
	case "yellow":
		return ColorYellow, true
	case "blue":
		return ColorBlue, true
	case "magenta":
		return ColorMagenta, true
	case "cyan":
		return ColorCyan, true
	case "white":
		return ColorWhite, true
	case "bright_red":
		return ColorBrightRed, true
	case "bright_green":
		return ColorBrightGreen, true
	case "bright_yellow":
		return ColorBrightYellow, true
	case "bright_blue":
		return ColorBrightBlue, true
	case "gray":
		return ColorGray, true
	case "brown":
		return ColorBrown, true
	default:
		return ColorDefault, false
	}
}
