package minigame

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	msCols      = 10
	msRows      = 10
	msMines     = 20
	msLives     = 3
	msTimeLimit = 150.0
	msTopPanel  = 110
	msMargin    = 40

	// buff charges are buried under safe tiles and collected by uncovering
	// them, not granted up front
	msBuriedReveal = 2
	msBuriedBlast  = 2

	// pressure: every interval one closed safe tile is locked shut, unless
	// the endgame protection kicks in.
	msPressureInterval = 30.0
	msPressureSafeMin  = 3

	msToastImportant = 5.0
	msToastNormal    = 3.0
)

type msCell struct {
	mine   bool
	open   bool
	flag   bool
	locked bool
	adj    int
}

// msBoard is the pure board state, separated from input and rendering so
// the rules are testable headless.
type msBoard struct {
	cells  [msRows][msCols]msCell
	placed bool
}

func (b *msBoard) inside(p point) bool {
	return p.x >= 0 && p.x < msCols && p.y >= 0 && p.y < msRows
}

func (b *msBoard) at(p point) *msCell {
	return &b.cells[p.y][p.x]
}

// placeMines deals mines after the first click, never on or next to it.
func (b *msBoard) placeMines(rng *rand.Rand, first point) {
	placed := 0
	for placed < msMines {
		p := point{rng.Intn(msCols), rng.Intn(msRows)}
		if b.at(p).mine {
			continue
		}
		if abs(p.x-first.x) <= 1 && abs(p.y-first.y) <= 1 {
			continue
		}
		b.at(p).mine = true
		placed++
	}
	for y := 0; y < msRows; y++ {
		for x := 0; x < msCols; x++ {
			b.cells[y][x].adj = b.countAdj(point{x, y})
		}
	}
	b.placed = true
}

func (b *msBoard) countAdj(p point) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			q := point{p.x + dx, p.y + dy}
			if b.inside(q) && b.at(q).mine {
				n++
			}
		}
	}
	return n
}

// openAt reveals a tile, flood-filling zero regions. Reports whether a mine
// was hit and the safe tiles opened by the call, so the caller can surface
// whatever was buried under them. Flagged and locked tiles never open.
func (b *msBoard) openAt(p point) (hitMine bool, opened []point) {
	c := b.at(p)
	if c.open || c.flag || c.locked {
		return false, nil
	}
	if c.mine {
		c.open = true
		return true, nil
	}
	stack := []point{p}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cell := b.at(q)
		if cell.open || cell.flag || cell.locked || cell.mine {
			continue
		}
		cell.open = true
		opened = append(opened, q)
		if cell.adj != 0 {
			continue
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				n := point{q.x + dx, q.y + dy}
				if b.inside(n) {
					stack = append(stack, n)
				}
			}
		}
	}
	return false, opened
}

// safeClosed returns closed, unlocked safe tiles.
func (b *msBoard) safeClosed() []point {
	var out []point
	for y := 0; y < msRows; y++ {
		for x := 0; x < msCols; x++ {
			c := b.cells[y][x]
			if !c.mine && !c.open && !c.locked {
				out = append(out, point{x, y})
			}
		}
	}
	return out
}

// cleared reports the win condition: every safe tile is open or locked.
func (b *msBoard) cleared() bool {
	for y := 0; y < msRows; y++ {
		for x := 0; x < msCols; x++ {
			c := b.cells[y][x]
			if !c.mine && !c.open && !c.locked {
				return false
			}
		}
	}
	return b.placed
}

type msPhase int

const (
	msPlaying msPhase = iota
	msWon
	msLost
)

type toast struct {
	msg  string
	left float64
}

// MinesweeperBuff is minigame 2: minesweeper with lives, a time limit, two
// one-shot buffs and a pressure mechanic that locks tiles over time.
type MinesweeperBuff struct {
	cfg Config
	rng *rand.Rand

	phase    msPhase
	board    msBoard
	lives    int
	timeLeft float64
	pressure float64

	revealLeft int
	blastLeft  int
	blastArmed bool

	buffReveal map[point]bool
	buffBlast  map[point]bool

	toasts []toast

	gridSize       int
	boardX, boardY int
}

func NewMinesweeperBuff() *MinesweeperBuff {
	return &MinesweeperBuff{}
}

func (g *MinesweeperBuff) Name() string { return "minesweeper_buff" }

func (g *MinesweeperBuff) Reset(cfg Config) {
	g.cfg = cfg
	g.rng = cfg.newRand()

	gw := (cfg.ScreenW - msMargin*2) / msCols
	gh := (cfg.ScreenH - msTopPanel - msMargin) / msRows
	g.gridSize = gw
	if gh < gw {
		g.gridSize = gh
	}
	g.boardX = (cfg.ScreenW - g.gridSize*msCols) / 2
	g.boardY = msTopPanel

	g.restart()
}

func (g *MinesweeperBuff) restart() {
	g.phase = msPlaying
	g.board = msBoard{}
	g.lives = msLives
	g.timeLeft = msTimeLimit
	g.pressure = msPressureInterval
	g.revealLeft = 0
	g.blastLeft = 0
	g.blastArmed = false
	g.buffReveal = nil
	g.buffBlast = nil
	g.toasts = nil
}

// buryBuffs scatters the buff pickups under safe tiles once mines exist.
func (g *MinesweeperBuff) buryBuffs() {
	safe := g.board.safeClosed()
	g.rng.Shuffle(len(safe), func(i, j int) { safe[i], safe[j] = safe[j], safe[i] })

	g.buffReveal = make(map[point]bool, msBuriedReveal)
	g.buffBlast = make(map[point]bool, msBuriedBlast)
	for i, p := range safe {
		switch {
		case i < msBuriedReveal:
			g.buffReveal[p] = true
		case i < msBuriedReveal+msBuriedBlast:
			g.buffBlast[p] = true
		default:
			return
		}
	}
}

// collectBuffs turns any buff buried under a just-opened tile into a charge.
func (g *MinesweeperBuff) collectBuffs(opened []point) {
	for _, p := range opened {
		if g.buffReveal[p] {
			delete(g.buffReveal, p)
			g.revealLeft++
			g.toast("Found a reveal buff! (R to use)", msToastNormal)
		}
		if g.buffBlast[p] {
			delete(g.buffBlast, p)
			g.blastLeft++
			g.toast("Found a blast buff! (B to arm)", msToastNormal)
		}
	}
}

func (g *MinesweeperBuff) toast(msg string, secs float64) {
	g.toasts = append(g.toasts, toast{msg: msg, left: secs})
	if len(g.toasts) > 4 {
		g.toasts = g.toasts[len(g.toasts)-4:]
	}
}

func (g *MinesweeperBuff) cellAt(x, y int) (point, bool) {
	p := point{(x - g.boardX) / g.gridSize, (y - g.boardY) / g.gridSize}
	if x < g.boardX || y < g.boardY || !g.board.inside(p) {
		return point{}, false
	}
	return p, true
}

func (g *MinesweeperBuff) Step(dt float64) Status {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return StatusFailed
	}

	for i := range g.toasts {
		g.toasts[i].left -= dt
	}
	for len(g.toasts) > 0 && g.toasts[0].left <= 0 {
		g.toasts = g.toasts[1:]
	}

	switch g.phase {
	case msPlaying:
		g.stepPlaying(dt)
	case msLost:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.restart()
		}
	case msWon:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
			inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			return StatusPassed
		}
	}
	return StatusRunning
}

func (g *MinesweeperBuff) stepPlaying(dt float64) {
	g.timeLeft -= dt
	if g.timeLeft <= 0 {
		g.timeLeft = 0
		g.phase = msLost
		g.toast("Time ran out!", msToastImportant)
		return
	}

	if g.board.placed {
		g.pressure -= dt
		if g.pressure <= 0 {
			g.pressure = msPressureInterval
			g.lockRandomTile()
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.useReveal()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		g.toggleBlast()
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if p, ok := g.cellAt(ebiten.CursorPosition()); ok {
			g.leftClick(p)
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if p, ok := g.cellAt(ebiten.CursorPosition()); ok {
			g.rightClick(p)
		}
	}
}

func (g *MinesweeperBuff) leftClick(p point) {
	if !g.board.placed {
		g.board.placeMines(g.rng, p)
		g.buryBuffs()
	}
	if g.blastArmed {
		g.blast(p)
		return
	}
	hit, opened := g.board.openAt(p)
	if hit {
		g.hitMine()
		return
	}
	g.collectBuffs(opened)
	g.checkWin()
}

func (g *MinesweeperBuff) rightClick(p point) {
	c := g.board.at(p)
	if !c.open && !c.locked {
		c.flag = !c.flag
	}
}

func (g *MinesweeperBuff) hitMine() {
	g.lives--
	if g.lives <= 0 {
		g.phase = msLost
		g.toast("No lives left!", msToastImportant)
		return
	}
	g.toast(fmt.Sprintf("Mine! %d lives left", g.lives), msToastImportant)
}

// useReveal opens one random closed safe tile.
func (g *MinesweeperBuff) useReveal() {
	if g.revealLeft <= 0 || !g.board.placed {
		return
	}
	safe := g.board.safeClosed()
	if len(safe) == 0 {
		return
	}
	g.revealLeft--
	p := safe[g.rng.Intn(len(safe))]
	g.board.at(p).flag = false
	_, opened := g.board.openAt(p)
	g.collectBuffs(opened)
	g.toast("Reveal used", msToastNormal)
	g.checkWin()
}

func (g *MinesweeperBuff) toggleBlast() {
	if g.blastLeft <= 0 {
		return
	}
	g.blastArmed = !g.blastArmed
	if g.blastArmed {
		g.toast("Blast armed: click a tile", msToastNormal)
	} else {
		g.toast("Blast disarmed", msToastNormal)
	}
}

// blast opens a 3x3 area, flagging mines inside it instead of detonating.
func (g *MinesweeperBuff) blast(center point) {
	g.blastArmed = false
	g.blastLeft--
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			p := point{center.x + dx, center.y + dy}
			if !g.board.inside(p) {
				continue
			}
			c := g.board.at(p)
			if c.open || c.locked {
				continue
			}
			if c.mine {
				c.flag = true
				continue
			}
			c.flag = false
			_, opened := g.board.openAt(p)
			g.collectBuffs(opened)
		}
	}
	g.toast("Blast!", msToastNormal)
	g.checkWin()
}

// lockRandomTile applies pressure, skipped when few safe tiles remain so
// the board stays winnable.
func (g *MinesweeperBuff) lockRandomTile() {
	safe := g.board.safeClosed()
	if len(safe) <= msPressureSafeMin {
		return
	}
	p := safe[g.rng.Intn(len(safe))]
	g.board.at(p).locked = true
	g.toast("A tile was sealed shut!", msToastImportant)
	g.checkWin()
}

func (g *MinesweeperBuff) checkWin() {
	if g.phase == msPlaying && g.board.cleared() {
		g.phase = msWon
	}
}

var (
	msTileClosed = color.RGBA{65, 75, 92, 255}
	msTileOpen   = color.RGBA{215, 218, 225, 255}
	msTileFlag   = color.RGBA{245, 198, 75, 255}
	msTileBorder = color.RGBA{45, 55, 70, 255}
	msLockEdge   = color.RGBA{160, 90, 220, 255}
	msNumber     = color.RGBA{40, 45, 60, 255}
)

func (g *MinesweeperBuff) Draw(screen *ebiten.Image) {
	cfg := g.cfg
	fillRect(screen, image.Rect(0, 0, cfg.ScreenW, cfg.ScreenH), colBG)

	fillRect(screen, image.Rect(0, 0, cfg.ScreenW, msTopPanel), colPanel)
	drawText(screen, cfg.FaceBig,
		fmt.Sprintf("MINESWEEPER  lives %d  time %3.0f", g.lives, g.timeLeft),
		msMargin, 14, colUI)
	drawText(screen, cfg.Face,
		fmt.Sprintf("R: reveal (%d)   B: blast (%d)   right-click: flag   ESC: give up",
			g.revealLeft, g.blastLeft),
		msMargin, 60, colUIDim)

	for y := 0; y < msRows; y++ {
		for x := 0; x < msCols; x++ {
			c := g.board.cells[y][x]
			r := image.Rect(
				g.boardX+x*g.gridSize, g.boardY+y*g.gridSize,
				g.boardX+(x+1)*g.gridSize, g.boardY+(y+1)*g.gridSize,
			)
			inner := r.Inset(1)
			switch {
			case c.open && c.mine:
				fillRect(screen, inner, colDanger)
			case c.open:
				fillRect(screen, inner, msTileOpen)
				if c.adj > 0 {
					drawTextCenter(screen, cfg.Face, fmt.Sprintf("%d", c.adj),
						float64(r.Min.X+r.Dx()/2), float64(r.Min.Y+r.Dy()/2), msNumber)
				}
			case c.flag:
				fillRect(screen, inner, msTileFlag)
			default:
				fillRect(screen, inner, msTileClosed)
			}
			if c.locked {
				strokeRect(screen, inner, 3, msLockEdge)
			}
			strokeRect(screen, r, 1, msTileBorder)
		}
	}

	for i, t := range g.toasts {
		drawText(screen, cfg.Face, t.msg, msMargin, float64(msTopPanel+8+i*24), msTileFlag)
	}

	switch g.phase {
	case msLost:
		drawOverlay(screen, cfg, "BOOM", colDanger, "Enter to retry", "ESC to give up")
	case msWon:
		drawOverlay(screen, cfg, "FIELD CLEARED", colGood, "Enter or click to continue the story")
	}
}
