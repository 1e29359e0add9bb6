// Package render draws engine frame snapshots with ebiten. It owns fonts
// and pixel work so the engine itself stays headless.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"novelarcade/internal/assets"
	"novelarcade/internal/config"
	"novelarcade/pkg/engine"
	"novelarcade/pkg/script"
)

var (
	colVoid      = color.RGBA{16, 18, 22, 255}
	colWhite     = color.RGBA{255, 255, 255, 255}
	colHintText  = color.RGBA{200, 200, 200, 255}
	colWarnText  = color.RGBA{255, 140, 140, 255}
	colPanelFill = color.RGBA{20, 20, 26, 190}
	colNameFill  = color.RGBA{30, 30, 36, 210}
	colDimFill   = color.RGBA{0, 0, 0, 160}
	colRow       = color.RGBA{220, 220, 225, 255}
	colRowHover  = color.RGBA{245, 245, 245, 255}
	colRowText   = color.RGBA{0, 0, 0, 255}
)

const advanceHint = "Click / Enter: show full text or next line | ESC: quit"

type Renderer struct {
	cfg   config.Config
	cache *assets.Cache

	face      *text.GoTextFace // dialogue body
	faceSmall *text.GoTextFace // hints, warnings
	faceName  *text.GoTextFace // speaker panel, choice prompt
}

func New(cfg config.Config, cache *assets.Cache) (*Renderer, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	return &Renderer{
		cfg:       cfg,
		cache:     cache,
		face:      &text.GoTextFace{Source: regular, Size: 26},
		faceSmall: &text.GoTextFace{Source: regular, Size: 22},
		faceName:  &text.GoTextFace{Source: bold, Size: 24},
	}, nil
}

// UIFace is the regular face minigames and the cover screen reuse.
func (r *Renderer) UIFace() text.Face { return r.faceSmall }

// HeadingFace is the bold face for titles and countdowns.
func (r *Renderer) HeadingFace() text.Face { return r.faceName }

// Draw renders one engine frame. It returns the sprite paths that could not
// be loaded this frame (recoverable; the caller reports them back to the
// engine) and a fatal error for anything else, including a missing
// background.
func (r *Renderer) Draw(screen *ebiten.Image, f engine.Frame) (missing []string, err error) {
	if f.Background != "" {
		img, op, err := r.cache.FitScreen(f.Background, r.cfg.ScreenW, r.cfg.ScreenH)
		if err != nil {
			return nil, err
		}
		screen.DrawImage(img, op)
	} else {
		screen.Fill(colVoid)
	}

	for _, s := range f.Sprites {
		img, err := r.cache.Image(s.Path)
		if err != nil {
			var miss *script.MissingAssetError
			if errors.As(err, &miss) {
				missing = append(missing, miss.Path)
				continue
			}
			return missing, err
		}
		r.drawSprite(screen, img, s)
	}

	if f.ChoicesActive {
		r.drawChoices(screen, f)
	}

	if f.PanelVisible {
		r.drawDialoguePanel(screen, f)
	}

	if f.Warning != "" {
		r.drawText(screen, r.faceSmall, f.Warning, 16, 12, colWarnText)
	}

	if f.FadeAlpha > 0 {
		a := uint8(f.FadeAlpha * 255)
		fillRect(screen, image.Rect(0, 0, r.cfg.ScreenW, r.cfg.ScreenH), color.RGBA{0, 0, 0, a})
	}
	return missing, nil
}

func (r *Renderer) drawSprite(screen *ebiten.Image, img *ebiten.Image, s engine.StageSprite) {
	b := img.Bounds()
	targetH := float64(r.cfg.ScreenH) * r.cfg.CharHeightRatio
	scale := targetH / float64(b.Dy())
	targetW := float64(b.Dx()) * scale

	var cx float64
	switch s.Pos {
	case "left":
		cx = float64(r.cfg.ScreenW) * 0.23
	case "right":
		cx = float64(r.cfg.ScreenW) * 0.77
	default:
		cx = float64(r.cfg.ScreenW) * 0.50
	}
	x := cx - targetW/2
	y := float64(r.cfg.ScreenH) - targetH - float64(r.cfg.CharBottomPad) + s.BounceOffset

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

func (r *Renderer) drawChoices(screen *ebiten.Image, f engine.Frame) {
	fillRect(screen, image.Rect(0, 0, r.cfg.ScreenW, r.cfg.ScreenH), colDimFill)

	r.drawText(screen, r.faceName, f.ChoicePrompt,
		float64(f.PromptRect.Min.X), float64(f.PromptRect.Min.Y), colWhite)

	for _, row := range f.Choices {
		fill := colRow
		if row.Hover {
			fill = colRowHover
		}
		fillRect(screen, row.Rect, fill)
		strokeRect(screen, row.Rect, 2, colWhite)
		r.drawText(screen, r.face, row.Text,
			float64(row.Rect.Min.X+18), float64(row.Rect.Min.Y+12), colRowText)
	}
}

func (r *Renderer) drawDialoguePanel(screen *ebiten.Image, f engine.Frame) {
	d := f.DialogueRect
	fillRect(screen, d, colPanelFill)
	strokeRect(screen, d, 2, colWhite)

	if f.Speaker != "" {
		n := f.NameRect
		fillRect(screen, n, colNameFill)
		strokeRect(screen, n, 2, colWhite)
		r.drawText(screen, r.faceName, f.Speaker,
			float64(n.Min.X+14), float64(n.Min.Y+8), colWhite)
	}

	r.drawWrapped(screen, r.face, f.Text, d.Inset(20), 4)
	r.drawText(screen, r.faceSmall, advanceHint,
		float64(d.Min.X+14), float64(d.Max.Y-30), colHintText)
}

// drawWrapped renders text with per-character wrapping (so mixed-width
// scripts wrap too), honoring embedded newlines as hard breaks, and never
// drawing outside the rectangle.
func (r *Renderer) drawWrapped(screen *ebiten.Image, face *text.GoTextFace, s string, rect image.Rectangle, lineSpacing int) {
	lineH := face.Metrics().HAscent + face.Metrics().HDescent + float64(lineSpacing)
	maxW := float64(rect.Dx())
	y := float64(rect.Min.Y)
	bottom := float64(rect.Max.Y) - lineH

	flush := func(line string) bool {
		if y > bottom {
			return false
		}
		r.drawText(screen, face, line, float64(rect.Min.X), y, colWhite)
		y += lineH
		return true
	}

	for _, para := range splitLines(s) {
		line := ""
		for _, ch := range para {
			test := line + string(ch)
			if w, _ := text.Measure(test, face, 0); w <= maxW {
				line = test
				continue
			}
			if !flush(line) {
				return
			}
			line = string(ch)
		}
		if line != "" && !flush(line) {
			return
		}
	}
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i, ch := range s {
		if ch == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

func (r *Renderer) drawText(screen *ebiten.Image, face text.Face, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}

func fillRect(dst *ebiten.Image, r image.Rectangle, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), clr, false)
}

func strokeRect(dst *ebiten.Image, r image.Rectangle, width float32, clr color.Color) {
	vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), width, clr, false)
}
