package main

import (
	"fmt"
	"os"

	// Packages
	glamour "github.com/charmbracelet/glamour"
	termenv "github.com/muesli/termenv"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// isTerminal reports whether the file is an interactive terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// termWidth returns the width of the terminal, or a sensible default
func termWidth(f *os.File) int {
	if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// printMarkdown writes Markdown to stdout, rendered with glamour when
// stdout is a terminal and plain otherwise
func printMarkdown(text string) {
	if !isTerminal(os.Stdout) {
		fmt.Println(text)
		return
	}

	style := "dark"
	if !termenv.HasDarkBackground() {
		style = "light"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(termWidth(os.Stdout)),
	)
	if err != nil {
		fmt.Println(text)
		return
	}
	if out, err := renderer.Render(text); err == nil {
		fmt.Print(out)
	} else {
		fmt.Println(text)
	}
}
