package minigame

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type point struct{ x, y int }

func (p point) add(q point) point { return point{p.x + q.x, p.y + q.y} }

var (
	dirUp    = point{0, -1}
	dirDown  = point{0, 1}
	dirLeft  = point{-1, 0}
	dirRight = point{1, 0}
)

func isReverse(a, b point) bool {
	return a.x+b.x == 0 && a.y+b.y == 0
}

const (
	snakeGrid      = 24
	snakeBoardTop  = 90
	snakeMargin    = 40
	snakeGoal      = 15
	snakeCountdown = 3.0
	snakeGrace     = 1.0 // collision-free buffer right after the countdown
	stepPlayer     = 0.18
	stepEnemy      = 0.75
	fruitTarget    = 3
)

type snakePhase int

const (
	snakeCounting snakePhase = iota
	snakePlaying
	snakeWon
	snakeLost
)

type crawler struct {
	body []point // head first
	dir  point
	acc  float64
	step float64
}

func (c *crawler) head() point { return c.body[0] }

func (c *crawler) occupies(p point) bool {
	for _, b := range c.body {
		if b == p {
			return true
		}
	}
	return false
}

// SnakeDuel is minigame 1: the player's snake races two slower enemy
// snakes to a fruit quota.
type SnakeDuel struct {
	cfg Config
	rng *rand.Rand

	phase     snakePhase
	countdown float64
	grace     float64

	cols, rows     int
	boardX, boardY int

	player  crawler
	nextDir point
	enemies []crawler
	fruits  map[point]bool
	eaten   int
}

func NewSnakeDuel() *SnakeDuel {
	return &SnakeDuel{}
}

func (g *SnakeDuel) Name() string { return "snake_duel" }

func (g *SnakeDuel) Reset(cfg Config) {
	g.cfg = cfg
	g.rng = cfg.newRand()

	boardW := (cfg.ScreenW - snakeMargin*2) / snakeGrid * snakeGrid
	boardH := (cfg.ScreenH - snakeBoardTop - snakeMargin) / snakeGrid * snakeGrid
	g.boardX = (cfg.ScreenW - boardW) / 2
	g.boardY = snakeBoardTop
	g.cols = boardW / snakeGrid
	g.rows = boardH / snakeGrid

	g.restart()
}

// restart re-deals the board without touching screen geometry, used by the
// retry key on the lose overlay.
func (g *SnakeDuel) restart() {
	g.phase = snakeCounting
	g.countdown = snakeCountdown
	g.grace = 0
	g.eaten = 0

	g.player = spawnCrawler(point{g.cols / 2, g.rows - 4}, 4, dirUp, stepPlayer)
	g.nextDir = dirUp
	g.enemies = []crawler{
		spawnCrawler(point{4, 4}, 4, dirRight, stepEnemy),
		spawnCrawler(point{g.cols - 5, 4}, 4, dirLeft, stepEnemy),
	}

	g.fruits = make(map[point]bool)
	for len(g.fruits) < fruitTarget {
		g.spawnFruit()
	}
}

func spawnCrawler(center point, length int, dir point, step float64) crawler {
	body := make([]point, 0, length)
	for i := 0; i < length; i++ {
		body = append(body, point{center.x - dir.x*i, center.y - dir.y*i})
	}
	return crawler{body: body, dir: dir, step: step}
}

func (g *SnakeDuel) spawnFruit() {
	for tries := 0; tries < 200; tries++ {
		p := point{g.rng.Intn(g.cols), g.rng.Intn(g.rows)}
		if g.fruits[p] || g.player.occupies(p) {
			continue
		}
		blocked := false
		for i := range g.enemies {
			if g.enemies[i].occupies(p) {
				blocked = true
				break
			}
		}
		if !blocked {
			g.fruits[p] = true
			return
		}
	}
}

func (g *SnakeDuel) inside(p point) bool {
	return p.x >= 0 && p.x < g.cols && p.y >= 0 && p.y < g.rows
}

func (g *SnakeDuel) Step(dt float64) Status {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return StatusFailed
	}

	switch g.phase {
	case snakeCounting:
		g.readDirection()
		g.countdown -= dt
		if g.countdown <= 0 {
			g.phase = snakePlaying
			g.grace = snakeGrace
		}

	case snakePlaying:
		g.readDirection()
		if g.grace > 0 {
			g.grace -= dt
		}
		g.stepPlayer(dt)
		for i := range g.enemies {
			g.stepEnemy(&g.enemies[i], dt)
		}

	case snakeLost:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.restart()
		}

	case snakeWon:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
			inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			return StatusPassed
		}
	}
	return StatusRunning
}

func (g *SnakeDuel) readDirection() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyW):
		g.setDirection(dirUp)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.setDirection(dirDown)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA):
		g.setDirection(dirLeft)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyD):
		g.setDirection(dirRight)
	}
}

func (g *SnakeDuel) setDirection(d point) {
	if !isReverse(d, g.player.dir) {
		g.nextDir = d
	}
}

func (g *SnakeDuel) stepPlayer(dt float64) {
	p := &g.player
	p.acc += dt
	for p.acc >= p.step {
		p.acc -= p.step
		p.dir = g.nextDir
		head := p.head().add(p.dir)

		if g.grace <= 0 && g.collides(head) {
			g.phase = snakeLost
			return
		}
		if !g.inside(head) {
			if g.grace > 0 {
				return // hold position instead of dying through the wall
			}
			g.phase = snakeLost
			return
		}

		p.body = append([]point{head}, p.body...)
		if g.fruits[head] {
			delete(g.fruits, head)
			g.eaten++
			g.spawnFruit()
			if g.eaten >= snakeGoal {
				g.phase = snakeWon
				return
			}
		} else {
			p.body = p.body[:len(p.body)-1]
		}
	}
}

func (g *SnakeDuel) collides(head point) bool {
	if !g.inside(head) {
		return true
	}
	for _, b := range g.player.body[:len(g.player.body)-1] {
		if b == head {
			return true
		}
	}
	for i := range g.enemies {
		if g.enemies[i].occupies(head) {
			return true
		}
	}
	return false
}

// stepEnemy moves an enemy greedily toward the nearest fruit, turning away
// from walls. Enemies pass through each other; only the player can die.
func (g *SnakeDuel) stepEnemy(e *crawler, dt float64) {
	e.acc += dt
	for e.acc >= e.step {
		e.acc -= e.step

		target, ok := g.nearestFruit(e.head())
		if ok {
			e.dir = g.chaseDir(e, target)
		}
		head := e.head().add(e.dir)
		if !g.inside(head) {
			e.dir = g.anyOpenDir(e)
			head = e.head().add(e.dir)
			if !g.inside(head) {
				continue
			}
		}
		e.body = append([]point{head}, e.body...)
		if g.fruits[head] {
			delete(g.fruits, head)
			g.spawnFruit()
		} else {
			e.body = e.body[:len(e.body)-1]
		}
	}
}

func (g *SnakeDuel) nearestFruit(from point) (point, bool) {
	best := point{}
	bestDist := -1
	for f := range g.fruits {
		d := abs(f.x-from.x) + abs(f.y-from.y)
		if bestDist < 0 || d < bestDist {
			best, bestDist = f, d
		}
	}
	return best, bestDist >= 0
}

func (g *SnakeDuel) chaseDir(e *crawler, target point) point {
	head := e.head()
	var candidates []point
	if target.x != head.x {
		candidates = append(candidates, point{sign(target.x - head.x), 0})
	}
	if target.y != head.y {
		candidates = append(candidates, point{0, sign(target.y - head.y)})
	}
	candidates = append(candidates, e.dir)
	for _, d := range candidates {
		if isReverse(d, e.dir) {
			continue
		}
		if g.inside(e.head().add(d)) {
			return d
		}
	}
	return g.anyOpenDir(e)
}

func (g *SnakeDuel) anyOpenDir(e *crawler) point {
	for _, d := range []point{dirUp, dirDown, dirLeft, dirRight} {
		if isReverse(d, e.dir) {
			continue
		}
		if g.inside(e.head().add(d)) {
			return d
		}
	}
	return e.dir
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var (
	snakePlayerBody = color.RGBA{245, 198, 75, 255}
	snakePlayerHead = color.RGBA{255, 255, 255, 255}
	snakeEnemy1Body = color.RGBA{235, 120, 120, 255}
	snakeEnemy1Head = color.RGBA{255, 170, 170, 255}
	snakeEnemy2Body = color.RGBA{120, 170, 245, 255}
	snakeEnemy2Head = color.RGBA{170, 210, 255, 255}
)

func (g *SnakeDuel) cellRect(p point) image.Rectangle {
	x := g.boardX + p.x*snakeGrid
	y := g.boardY + p.y*snakeGrid
	return image.Rect(x+1, y+1, x+snakeGrid-1, y+snakeGrid-1)
}

func (g *SnakeDuel) Draw(screen *ebiten.Image) {
	cfg := g.cfg
	fillRect(screen, image.Rect(0, 0, cfg.ScreenW, cfg.ScreenH), colBG)

	// top panel
	fillRect(screen, image.Rect(0, 0, cfg.ScreenW, snakeBoardTop), colPanel)
	fillRect(screen, image.Rect(0, snakeBoardTop-2, cfg.ScreenW, snakeBoardTop), colBorder)
	drawText(screen, cfg.FaceBig, fmt.Sprintf("SNAKE DUEL  %d / %d", g.eaten, snakeGoal), snakeMargin, 14, colUI)
	drawText(screen, cfg.Face, "Arrows/WASD to steer, reach the quota before you crash. ESC gives up.", snakeMargin, 54, colUIDim)

	boardRect := image.Rect(g.boardX, g.boardY, g.boardX+g.cols*snakeGrid, g.boardY+g.rows*snakeGrid)
	strokeRect(screen, boardRect, 2, colBorder)

	for f := range g.fruits {
		fillRect(screen, g.cellRect(f), colGood)
	}
	g.drawCrawler(screen, &g.enemies[0], snakeEnemy1Body, snakeEnemy1Head)
	g.drawCrawler(screen, &g.enemies[1], snakeEnemy2Body, snakeEnemy2Head)
	g.drawCrawler(screen, &g.player, snakePlayerBody, snakePlayerHead)

	headRect := g.cellRect(g.player.head())
	drawTextCenter(screen, cfg.Face, "YOU", float64(headRect.Min.X+headRect.Dx()/2), float64(headRect.Min.Y-14), snakePlayerBody)

	switch g.phase {
	case snakeCounting:
		n := int(g.countdown) + 1
		drawTextCenter(screen, cfg.FaceBig, fmt.Sprintf("%d", n),
			float64(cfg.ScreenW)/2, float64(cfg.ScreenH)/2, colUI)
	case snakeLost:
		drawOverlay(screen, cfg, "CRASHED", colDanger,
			"Enter to retry", "ESC to give up")
	case snakeWon:
		drawOverlay(screen, cfg, "QUOTA REACHED", snakePlayerBody,
			"Enter or click to continue the story")
	}
}

func (g *SnakeDuel) drawCrawler(screen *ebiten.Image, c *crawler, body, head color.RGBA) {
	for i := len(c.body) - 1; i >= 0; i-- {
		clr := body
		if i == 0 {
			clr = head
		}
		fillRect(screen, g.cellRect(c.body[i]), clr)
	}
}
