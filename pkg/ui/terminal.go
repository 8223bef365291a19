package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// Banner is printed above interactive runs
const Banner = `
  ┌──────────────────────────────────────────┐
  │  isicfetch · ISIC Archive image download │
  └──────────────────────────────────────────┘
`

var (
	mu           sync.RWMutex
	out          io.Writer = os.Stderr
	quiet        bool
	colorEnabled = stderrIsTerminal() && os.Getenv("NO_COLOR") == ""
)

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
)

func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// colorize returns a function that wraps text with ANSI color codes while
// colors are enabled
func colorize(colorString string) func(string) string {
	return func(text string) string {
		mu.RLock()
		enabled := colorEnabled
		mu.RUnlock()
		if !enabled {
			return text
		}
		return fmt.Sprintf(colorString, text)
	}
}

// SetColorEnabled turns ANSI colors on or off
func SetColorEnabled(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	colorEnabled = enabled
}

// SetQuietMode suppresses everything except errors
func SetQuietMode(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// IsQuietMode reports whether quiet mode is on
func IsQuietMode() bool {
	mu.RLock()
	defer mu.RUnlock()
	return quiet
}

// SetOutput redirects terminal output. It defaults to stderr so stdout
// carries only command results.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Output returns the current terminal writer
func Output() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return out
}

func printLine(always bool, s string) {
	if !always && IsQuietMode() {
		return
	}
	fmt.Fprintln(Output(), s)
}

// PrintBanner prints the banner in cyan
func PrintBanner() {
	if IsQuietMode() {
		return
	}
	fmt.Fprint(Output(), Cyan(Banner))
}

// PrintError prints an error message in red, even in quiet mode
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		printLine(true, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		printLine(true, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	printLine(false, Green(msg))
}

// PrintInfo prints a label/value pair
func PrintInfo(label string, value string) {
	printLine(false, fmt.Sprintf("%s: %s", Cyan(label), Yellow(value)))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		printLine(false, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		printLine(false, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	printLine(false, Magenta(msg))
}
