package ui

import (
	"io"
	"os"

	"golang.org/x/term"
)

// DefaultTerminalWidth is used when the output is not a terminal.
const DefaultTerminalWidth = 100

// IsTerminal returns true if f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of f, or DefaultTerminalWidth.
func TerminalWidth(f *os.File) int {
	if !IsTerminal(f) {
		return DefaultTerminalWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return DefaultTerminalWidth
	}
	return w
}

// IsTerminalWriter reports whether w is a terminal *os.File.
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && IsTerminal(f)
}
