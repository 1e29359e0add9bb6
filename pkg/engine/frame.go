package engine

import (
	"image"
	"strings"

	"novelarcade/pkg/script"
)

// StageSprite is one character composited on stage for the current frame.
type StageSprite struct {
	Name         string
	Path         string // asset path, ch/<name>/<expression>.png
	Pos          string // left, center or right
	BounceOffset float64
}

// ChoiceRow is one selectable option with its screen rectangle.
type ChoiceRow struct {
	Text  string
	Rect  image.Rectangle
	Hover bool
}

// Frame is an immutable snapshot of everything a renderer needs to draw one
// frame. The engine itself never draws; front ends consume Frame.
type Frame struct {
	Background string // resolved asset path, "" for the flat fill
	Sprites    []StageSprite

	PanelVisible bool
	Speaker      string // "" suppresses the name panel
	Text         string // revealed portion of the node text

	ChoicesActive bool
	ChoicePrompt  string
	PromptRect    image.Rectangle
	Choices       []ChoiceRow

	DialogueRect image.Rectangle
	NameRect     image.Rectangle

	FadeAlpha      float64 // black overlay opacity in [0, 1]
	Warning        string  // transient missing-sprite warning, "" when none
	MinigameActive bool
	Terminal       bool
}

// Frame snapshots the current presentation state.
func (e *Engine) Frame() Frame {
	f := Frame{
		Background:     e.background,
		DialogueRect:   e.DialogueRect(),
		NameRect:       e.NameRect(),
		FadeAlpha:      e.fade.alpha(),
		MinigameActive: e.phase == PhaseMinigame,
		Terminal:       e.phase == PhaseTerminal,
	}
	if e.warnLeft > 0 {
		f.Warning = e.warnText
	}
	if e.node == nil {
		return f
	}

	for _, c := range e.stage {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		f.Sprites = append(f.Sprites, StageSprite{
			Name:         name,
			Path:         script.SpritePath(name, c.Expr()),
			Pos:          c.Position(),
			BounceOffset: e.bounce.offsetFor(name),
		})
	}

	switch e.phase {
	case PhasePresenting, PhaseTerminal:
		f.PanelVisible = true
		f.Text = e.typer.text()
		if !e.node.IsNarrator() {
			f.Speaker = strings.TrimSpace(e.node.Speaker)
		}
	case PhaseChoice:
		f.PanelVisible = true
		f.ChoicesActive = true
		f.ChoicePrompt = e.choicePrompt
		f.PromptRect = e.ChoicePromptRect()
		rects := e.choiceRects()
		for i, c := range e.choices {
			f.Choices = append(f.Choices, ChoiceRow{
				Text:  c.Text,
				Rect:  rects[i],
				Hover: i == e.hover,
			})
		}
		if !e.node.IsNarrator() {
			f.Speaker = strings.TrimSpace(e.node.Speaker)
		}
	}
	return f
}
