package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"novelarcade/internal/config"
	"novelarcade/pkg/script"
)

// preview walks a script in the terminal so authors can check flow and
// pacing without launching the windowed player. Minigame nodes are not
// played; the walkthrough lets the author pick an outcome and moves on.
func main() {
	cfg := config.Load()

	path := cfg.StoryPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read script %s: %v\n", path, err)
		os.Exit(1)
	}

	store, err := script.Load(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load script: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewPreviewUI(cfg, store, path),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
