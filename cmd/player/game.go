package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"novelarcade/internal/assets"
	"novelarcade/internal/config"
	"novelarcade/internal/render"
	"novelarcade/pkg/engine"
	"novelarcade/pkg/minigame"
)

const coverImage = "bg/cover_main.png"

// launcher adapts the minigame registry to the engine's launcher interface
// and remembers the live session so Draw can delegate to it.
type launcher struct {
	registry *minigame.Registry
	active   *minigame.Session
}

func (l *launcher) Start(id int) (engine.MinigameSession, error) {
	s, err := l.registry.Start(id)
	if err != nil {
		return nil, err
	}
	l.active = s
	return s, nil
}

type mode int

const (
	modeCover mode = iota
	modePlaying
)

// game is the ebiten.Game glue: collect input once, update once, draw once.
type game struct {
	cfg      config.Config
	eng      *engine.Engine
	renderer *render.Renderer
	cache    *assets.Cache
	launch   *launcher

	mode           mode
	pendingMissing []string
	fatal          error
}

func newGame(cfg config.Config, eng *engine.Engine, renderer *render.Renderer, cache *assets.Cache, launch *launcher) *game {
	return &game{
		cfg:      cfg,
		eng:      eng,
		renderer: renderer,
		cache:    cache,
		launch:   launch,
	}
}

func (g *game) startButton() image.Rectangle {
	w, h := 280, 50
	cx := g.cfg.ScreenW / 2
	cy := int(float64(g.cfg.ScreenH) * 0.90)
	return image.Rect(cx-w/2, cy-h/2, cx+w/2, cy+h/2)
}

func (g *game) Update() error {
	if g.fatal != nil {
		return g.fatal
	}

	cx, cy := ebiten.CursorPosition()
	in := engine.Input{
		CursorX: cx,
		CursorY: cy,
		Click:   inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Advance: inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeySpace),
		Escape:  inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}

	if g.mode == modeCover {
		if in.Escape {
			return ebiten.Termination
		}
		if in.Advance || (in.Click && image.Pt(cx, cy).In(g.startButton())) {
			if err := g.eng.Start(); err != nil {
				return err
			}
			g.mode = modePlaying
		}
		return nil
	}

	for _, path := range g.pendingMissing {
		g.eng.ReportMissingSprite(path)
	}
	g.pendingMissing = nil

	dt := 1.0 / float64(g.cfg.TPS)
	running, err := g.eng.Update(dt, in)
	if err != nil {
		return err
	}
	if !running {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.mode == modeCover {
		g.drawCover(screen)
		return
	}

	frame := g.eng.Frame()
	if frame.MinigameActive && g.launch != nil && g.launch.active != nil {
		g.launch.active.Draw(screen)
		return
	}

	missing, err := g.renderer.Draw(screen, frame)
	if err != nil {
		// surfaced on the next Update; Draw itself cannot fail the loop
		g.fatal = err
		return
	}
	g.pendingMissing = append(g.pendingMissing, missing...)
}

func (g *game) drawCover(screen *ebiten.Image) {
	img, op, err := g.cache.FitScreen(coverImage, g.cfg.ScreenW, g.cfg.ScreenH)
	if err != nil {
		g.fatal = err
		return
	}
	screen.DrawImage(img, op)

	vector.DrawFilledRect(screen, 0, 0, float32(g.cfg.ScreenW), float32(g.cfg.ScreenH),
		color.RGBA{0, 0, 0, 45}, false)

	btn := g.startButton()
	mx, my := ebiten.CursorPosition()
	fill := color.RGBA{220, 220, 228, 255}
	if image.Pt(mx, my).In(btn) {
		fill = color.RGBA{245, 245, 245, 255}
	}
	vector.DrawFilledRect(screen, float32(btn.Min.X), float32(btn.Min.Y),
		float32(btn.Dx()), float32(btn.Dy()), fill, false)
	vector.StrokeRect(screen, float32(btn.Min.X), float32(btn.Min.Y),
		float32(btn.Dx()), float32(btn.Dy()), 2, color.RGBA{255, 255, 255, 255}, false)

	g.centerText(screen, g.renderer.HeadingFace(), "Click to begin",
		float64(btn.Min.X+btn.Dx()/2), float64(btn.Min.Y+btn.Dy()/2), color.RGBA{25, 25, 30, 255})
	g.centerText(screen, g.renderer.UIFace(), "Enter / Space also starts | ESC quits",
		float64(g.cfg.ScreenW)/2, float64(btn.Max.Y+22), color.RGBA{235, 235, 240, 255})
}

func (g *game) centerText(screen *ebiten.Image, face text.Face, s string, cx, cy float64, clr color.Color) {
	w, h := text.Measure(s, face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate(cx-w/2, cy-h/2)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.ScreenW, g.cfg.ScreenH
}
