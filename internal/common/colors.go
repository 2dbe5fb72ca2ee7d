package common

import "fmt"

// ANSI escape sequences used by the terminal board renderer
const (
	ColorReset = "\033[0m"
	colorGray  = "\033[90m"
)

// EmpireColors defines the foreground color for each empire slot.
// Empires beyond the palette wrap around.
var EmpireColors = []string{
	"\033[31m", // Red
	"\033[34m", // Blue
	"\033[32m", // Green
	"\033[33m", // Yellow
	"\033[35m", // Magenta
	"\033[36m", // Cyan
}

// EmpireColor returns the color escape for an empire id; negative ids
// (unclaimed) are gray.
func EmpireColor(id int) string {
	if id < 0 {
		return colorGray
	}
	return EmpireColors[id%len(EmpireColors)]
}

// Colorize wraps s in the empire's color.
func Colorize(id int, s string) string {
	return fmt.Sprintf("%s%s%s", EmpireColor(id), s, ColorReset)
}
