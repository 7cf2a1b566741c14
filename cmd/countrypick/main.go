// Command countrypick is a terminal rendition of the profile country picker.
// It prints the chosen ISO code on exit.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	initial := flag.String("country", "", "ISO code to start with")
	flag.Parse()

	m := newModel(*initial)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if code := m.field.Value(); code != "" {
		fmt.Println(code)
	}
}
