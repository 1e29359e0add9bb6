package minigame

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Shared palette across the three games.
var (
	colBG     = color.RGBA{16, 18, 24, 255}
	colPanel  = color.RGBA{20, 22, 30, 255}
	colUI     = color.RGBA{235, 235, 240, 255}
	colUIDim  = color.RGBA{200, 200, 210, 255}
	colBorder = color.RGBA{60, 60, 70, 255}
	colDanger = color.RGBA{255, 70, 70, 255}
	colGood   = color.RGBA{120, 220, 120, 255}
	colDim    = color.RGBA{0, 0, 0, 160}
)

func fillRect(dst *ebiten.Image, r image.Rectangle, clr color.Color) {
	vector.DrawFilledRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), clr, false)
}

func strokeRect(dst *ebiten.Image, r image.Rectangle, width float32, clr color.Color) {
	vector.StrokeRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), width, clr, false)
}

func drawText(dst *ebiten.Image, face text.Face, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, face, op)
}

func drawTextCenter(dst *ebiten.Image, face text.Face, s string, cx, cy float64, clr color.Color) {
	w, h := text.Measure(s, face, 0)
	drawText(dst, face, s, cx-w/2, cy-h/2, clr)
}

// drawOverlay dims the whole screen and centers a title plus hint lines,
// the shared result-screen look.
func drawOverlay(dst *ebiten.Image, cfg Config, title string, titleColor color.Color, lines ...string) {
	fillRect(dst, image.Rect(0, 0, cfg.ScreenW, cfg.ScreenH), colDim)
	cx := float64(cfg.ScreenW) / 2
	cy := float64(cfg.ScreenH) / 2
	drawTextCenter(dst, cfg.FaceBig, title, cx, cy-40, titleColor)
	for i, line := range lines {
		drawTextCenter(dst, cfg.Face, line, cx, cy+10+float64(i)*30, colUIDim)
	}
}
