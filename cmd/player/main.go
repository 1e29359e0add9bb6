package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"novelarcade/internal/assets"
	"novelarcade/internal/config"
	"novelarcade/internal/logger"
	"novelarcade/internal/render"
	"novelarcade/pkg/engine"
	"novelarcade/pkg/minigame"
	"novelarcade/pkg/script"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("starting player",
		"story", cfg.StoryPath,
		"assets", cfg.AssetsDir,
		"environment", cfg.Environment)

	data, err := os.ReadFile(cfg.StoryPath)
	if err != nil {
		fail(fmt.Errorf("read story file %s: %w", cfg.StoryPath, err))
	}
	store, err := script.Load(data)
	if err != nil {
		fail(err)
	}
	log.Info("script loaded", "nodes", store.Len(), "start", store.StartID())

	cache := assets.New(cfg.AssetsDir)
	renderer, err := render.New(cfg, cache)
	if err != nil {
		fail(err)
	}

	registry := minigame.NewRegistry(minigame.Config{
		ScreenW: cfg.ScreenW,
		ScreenH: cfg.ScreenH,
		Face:    renderer.UIFace(),
		FaceBig: renderer.HeadingFace(),
	})
	registry.Register(1, minigame.NewSnakeDuel())
	registry.Register(2, minigame.NewMinesweeperBuff())
	registry.Register(3, minigame.NewSolitaireLove())

	launch := &launcher{registry: registry}
	eng := engine.New(cfg, store, launch, log)

	ebiten.SetWindowSize(cfg.ScreenW, cfg.ScreenH)
	ebiten.SetWindowTitle("Novel Arcade")
	ebiten.SetTPS(cfg.TPS)

	g := newGame(cfg, eng, renderer, cache, launch)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.WithError(log, err).Error("player stopped on fatal error")
		fail(err)
	}
	log.Info("player exited")
}

// fail reports a fatal error once, with static troubleshooting guidance,
// and exits. Nothing inside the engine catches fatal errors.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n\n", err)
	fmt.Fprintln(os.Stderr, "troubleshooting:")
	fmt.Fprintln(os.Stderr, "  1) the story file needs a top-level meta + nodes mapping")
	fmt.Fprintln(os.Stderr, "  2) backgrounds: bg: bedroom -> assets/bg/bedroom.png (case-sensitive)")
	fmt.Fprintln(os.Stderr, "  3) sprites: assets/ch/<character>/<expression>.png")
	fmt.Fprintln(os.Stderr, "  4) a [missing sprite] banner means a file or folder name mismatch")
	os.Exit(1)
}
