package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the Greenflow ASCII banner for the interactive CLI.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Green gradient, darkest at the top
	s1 := termenv.String("   ____                    __ _               ").Foreground(p.Color("#14532d"))
	s2 := termenv.String("  / ___|_ __ ___  ___ _ __  / _| | _____      __").Foreground(p.Color("#166534"))
	s3 := termenv.String(" | |  _| '__/ _ \\/ _ \\ '_ \\| |_| |/ _ \\ \\ /\\ / /").Foreground(p.Color("#15803d"))
	s4 := termenv.String(" | |_| | | |  __/  __/ | | |  _| | (_) \\ V  V / ").Foreground(p.Color("#16a34a"))
	s5 := termenv.String("  \\____|_|  \\___|\\___|_| |_|_| |_|\\___/ \\_/\\_/  ").Foreground(p.Color("#22c55e"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
