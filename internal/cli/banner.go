package cli

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the knockknock banner and version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	door := termenv.String("  [#]  knock! knock!").Foreground(p.Color("#818cf8")).Bold()
	ver := termenv.String("v" + version).Foreground(p.Color("#f472b6"))

	fmt.Println()
	fmt.Printf("%s  %s\n", door, ver)
	fmt.Println()
}
