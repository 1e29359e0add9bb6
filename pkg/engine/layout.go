package engine

import "image"

// Screen-layout constants shared by the engine's hit testing and the
// renderer. Panel sizes scale with the configured screen; these margins
// do not.
const (
	dialogueMarginX = 50
	dialogueBottom  = 35
	namePanelW      = 260
	namePanelH      = 40
	namePanelGap    = 5
	choiceBlockGap  = 18
	promptH         = 40
	promptGap       = 16
)

// DialogueRect is the dialogue panel area.
func (e *Engine) DialogueRect() image.Rectangle {
	h := int(float64(e.cfg.ScreenH) * e.cfg.DialogueHeightRatio)
	top := e.cfg.ScreenH - h - dialogueBottom
	return image.Rect(dialogueMarginX, top, e.cfg.ScreenW-dialogueMarginX, top+h)
}

// NameRect is the speaker name panel, sitting just above the dialogue panel.
func (e *Engine) NameRect() image.Rectangle {
	d := e.DialogueRect()
	return image.Rect(d.Min.X, d.Min.Y-namePanelH-namePanelGap, d.Min.X+namePanelW, d.Min.Y-namePanelGap)
}

// choiceRects computes one row rectangle per active choice, stacked upward
// from the dialogue panel.
func (e *Engine) choiceRects() []image.Rectangle {
	if len(e.choices) == 0 {
		return nil
	}
	d := e.DialogueRect()
	rowStride := e.cfg.ChoiceItemH + e.cfg.ChoiceItemGap
	baseY := d.Min.Y - rowStride*len(e.choices) - choiceBlockGap
	rects := make([]image.Rectangle, len(e.choices))
	for i := range e.choices {
		y := baseY + i*rowStride
		rects[i] = image.Rect(d.Min.X, y, d.Max.X, y+e.cfg.ChoiceItemH)
	}
	return rects
}

// ChoicePromptRect is the label area above the choice rows.
func (e *Engine) ChoicePromptRect() image.Rectangle {
	d := e.DialogueRect()
	rowStride := e.cfg.ChoiceItemH + e.cfg.ChoiceItemGap
	y := d.Min.Y - promptH - rowStride*len(e.choices) - choiceBlockGap - promptGap
	return image.Rect(d.Min.X, y, d.Max.X, y+promptH)
}

func (e *Engine) choiceIndexAt(x, y int) int {
	pt := image.Pt(x, y)
	for i, r := range e.choiceRects() {
		if pt.In(r) {
			return i
		}
	}
	return -1
}
