// Package ansi provides ANSI escape code constants and helpers for terminal output.
// All colored/styled terminal output should reference these constants to avoid duplication.
package ansi

import "regexp"

// ANSI SGR (Select Graphic Rendition) codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Blue    = "\033[34m"
	Yellow  = "\033[33m"
	Green   = "\033[32m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"
)

// ANSI screen control codes.
const (
	// ClearScreen erases the display and moves the cursor home. Watch mode
	// uses it between redraws.
	ClearScreen = "\033[2J\033[H"

	// ClearLine clears the entire current line.
	ClearLine = "\033[2K"
)

// escapeRe matches CSI escape sequences.
var escapeRe = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

// Strip removes ANSI escape sequences from s.
func Strip(s string) string {
	return escapeRe.ReplaceAllString(s, "")
}
