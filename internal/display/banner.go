package display

import (
	"fmt"
	"os"

	"gifsmith/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Magenta)
	}
	fmt.Fprint(os.Stdout, `       _  __              _ _   _
  __ _(_)/ _|___ _ __ ___(_) |_| |__
 / _`+"`"+` | | |_/ __| '_ `+"`"+` _ \| | __| '_ \
| (_| | |  _\__ \ | | | | | | |_| | | |
 \__, |_|_| |___/_| |_| |_|_|\__|_| |_|
 |___/
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
