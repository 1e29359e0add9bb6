package minigame

import (
	"fmt"
	"image"
	"image/color"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type suit int

const (
	suitSpades suit = iota
	suitHearts
	suitDiamonds
	suitClubs
)

var suitGlyph = [...]string{"S", "H", "D", "C"}

func (s suit) red() bool {
	return s == suitHearts || s == suitDiamonds
}

type card struct {
	rank   int // 1 (ace) .. 13 (king)
	suit   suit
	faceUp bool
}

var rankLabel = map[int]string{1: "A", 11: "J", 12: "Q", 13: "K"}

func (c card) label() string {
	r, ok := rankLabel[c.rank]
	if !ok {
		r = fmt.Sprintf("%d", c.rank)
	}
	return r + suitGlyph[c.suit]
}

// canStackTableau reports whether moving may land on onto: alternating
// colors, descending by one. A nil onto means an empty column, kings only.
func canStackTableau(moving card, onto *card) bool {
	if onto == nil {
		return moving.rank == 13
	}
	return moving.suit.red() != onto.suit.red() && moving.rank == onto.rank-1
}

// canStackFoundation reports whether c may go on a foundation pile: aces
// open a pile, then same suit ascending.
func canStackFoundation(c card, pile []card) bool {
	if len(pile) == 0 {
		return c.rank == 1
	}
	top := pile[len(pile)-1]
	return c.suit == top.suit && c.rank == top.rank+1
}

// layout, half-scale of a 140x190 card
const (
	solCardW     = 70
	solCardH     = 95
	solGapX      = 13
	solTopGapY   = 13
	solFaceUpY   = 20
	solFaceDownY = 11
	solMargin    = 24
	solTopPanel  = 92
)

type solPhase int

const (
	solPlaying solPhase = iota
	solWonOverlay
)

type solPick struct {
	kind  int // 0 none, 1 waste, 2 tableau
	pile  int
	index int // first moved card within the tableau pile
}

// SolitaireLove is minigame 3: a pared-down Klondike (draw one, no timer).
type SolitaireLove struct {
	cfg Config
	rng *rand.Rand

	phase       solPhase
	stock       []card
	waste       []card
	foundations [4][]card
	tableau     [7][]card
	pick        solPick

	originX int
}

func NewSolitaireLove() *SolitaireLove {
	return &SolitaireLove{}
}

func (g *SolitaireLove) Name() string { return "solitaire_love" }

func (g *SolitaireLove) Reset(cfg Config) {
	g.cfg = cfg
	g.rng = cfg.newRand()
	g.phase = solPlaying
	g.pick = solPick{}

	totalW := 7*solCardW + 6*solGapX
	g.originX = (cfg.ScreenW - totalW) / 2

	deck := make([]card, 0, 52)
	for s := suitSpades; s <= suitClubs; s++ {
		for r := 1; r <= 13; r++ {
			deck = append(deck, card{rank: r, suit: s})
		}
	}
	g.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	for i := range g.tableau {
		g.tableau[i] = nil
	}
	for i := range g.foundations {
		g.foundations[i] = nil
	}
	g.waste = nil

	// classic deal: column i gets i+1 cards, top one face up
	idx := 0
	for col := 0; col < 7; col++ {
		for n := 0; n <= col; n++ {
			c := deck[idx]
			idx++
			c.faceUp = n == col
			g.tableau[col] = append(g.tableau[col], c)
		}
	}
	g.stock = deck[idx:]
}

func (g *SolitaireLove) won() bool {
	for _, f := range g.foundations {
		if len(f) != 13 {
			return false
		}
	}
	return true
}

func (g *SolitaireLove) Step(dt float64) Status {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return StatusFailed
	}

	switch g.phase {
	case solPlaying:
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.click(ebiten.CursorPosition())
		}
		if g.won() {
			g.phase = solWonOverlay
		}
	case solWonOverlay:
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
			inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			return StatusPassed
		}
	}
	return StatusRunning
}

func (g *SolitaireLove) colX(i int) int {
	return g.originX + i*(solCardW+solGapX)
}

func (g *SolitaireLove) stockRect() image.Rectangle {
	x := g.colX(0)
	return image.Rect(x, solTopPanel, x+solCardW, solTopPanel+solCardH)
}

func (g *SolitaireLove) wasteRect() image.Rectangle {
	x := g.colX(1)
	return image.Rect(x, solTopPanel, x+solCardW, solTopPanel+solCardH)
}

func (g *SolitaireLove) foundationRect(i int) image.Rectangle {
	x := g.colX(3 + i)
	return image.Rect(x, solTopPanel, x+solCardW, solTopPanel+solCardH)
}

func (g *SolitaireLove) tableauTop() int {
	return solTopPanel + solCardH + solTopGapY*2
}

// tableauCardRect extends the last card's rectangle to the column bottom so
// clicks below the fan still select the top card.
func (g *SolitaireLove) tableauCardRect(col, idx int) image.Rectangle {
	x := g.colX(col)
	y := g.tableauTop()
	for i := 0; i < idx; i++ {
		if g.tableau[col][i].faceUp {
			y += solFaceUpY
		} else {
			y += solFaceDownY
		}
	}
	h := solCardH
	if idx < len(g.tableau[col])-1 {
		if g.tableau[col][idx].faceUp {
			h = solFaceUpY
		} else {
			h = solFaceDownY
		}
	}
	return image.Rect(x, y, x+solCardW, y+h)
}

func (g *SolitaireLove) click(x, y int) {
	pt := image.Pt(x, y)

	if pt.In(g.stockRect()) {
		g.drawFromStock()
		g.pick = solPick{}
		return
	}
	if pt.In(g.wasteRect()) {
		if len(g.waste) > 0 {
			g.pick = solPick{kind: 1}
		}
		return
	}
	for i := range g.foundations {
		if pt.In(g.foundationRect(i)) {
			g.dropOnFoundation(i)
			return
		}
	}
	for col := range g.tableau {
		colRect := image.Rect(g.colX(col), g.tableauTop(), g.colX(col)+solCardW, g.cfg.ScreenH)
		if !pt.In(colRect) {
			continue
		}
		g.clickTableau(col, pt)
		return
	}
	g.pick = solPick{}
}

func (g *SolitaireLove) drawFromStock() {
	if len(g.stock) == 0 {
		// recycle the waste face down
		for i := len(g.waste) - 1; i >= 0; i-- {
			c := g.waste[i]
			c.faceUp = false
			g.stock = append(g.stock, c)
		}
		g.waste = nil
		return
	}
	c := g.stock[len(g.stock)-1]
	g.stock = g.stock[:len(g.stock)-1]
	c.faceUp = true
	g.waste = append(g.waste, c)
}

func (g *SolitaireLove) pickedCards() []card {
	switch g.pick.kind {
	case 1:
		return g.waste[len(g.waste)-1:]
	case 2:
		return g.tableau[g.pick.pile][g.pick.index:]
	default:
		return nil
	}
}

func (g *SolitaireLove) removePicked() {
	switch g.pick.kind {
	case 1:
		g.waste = g.waste[:len(g.waste)-1]
	case 2:
		pile := g.pick.pile
		g.tableau[pile] = g.tableau[pile][:g.pick.index]
		if n := len(g.tableau[pile]); n > 0 {
			g.tableau[pile][n-1].faceUp = true
		}
	}
	g.pick = solPick{}
}

func (g *SolitaireLove) dropOnFoundation(i int) {
	moving := g.pickedCards()
	if len(moving) != 1 {
		g.pick = solPick{}
		return
	}
	if canStackFoundation(moving[0], g.foundations[i]) {
		c := moving[0]
		g.removePicked()
		g.foundations[i] = append(g.foundations[i], c)
		return
	}
	g.pick = solPick{}
}

func (g *SolitaireLove) clickTableau(col int, pt image.Point) {
	pile := g.tableau[col]

	if g.pick.kind != 0 {
		moving := g.pickedCards()
		var onto *card
		if len(pile) > 0 {
			onto = &pile[len(pile)-1]
		}
		if len(moving) > 0 && moving[0].faceUp && canStackTableau(moving[0], onto) {
			cards := make([]card, len(moving))
			copy(cards, moving)
			g.removePicked()
			g.tableau[col] = append(g.tableau[col], cards...)
			return
		}
		g.pick = solPick{}
		return
	}

	// select the face-up run starting at the clicked card
	for idx := len(pile) - 1; idx >= 0; idx-- {
		if !pt.In(g.tableauCardRect(col, idx)) {
			continue
		}
		if pile[idx].faceUp {
			g.pick = solPick{kind: 2, pile: col, index: idx}
		}
		return
	}
}

var (
	solFelt      = color.RGBA{24, 58, 40, 255}
	solCardFace  = color.RGBA{235, 235, 240, 255}
	solCardBack  = color.RGBA{90, 110, 170, 255}
	solCardEdge  = color.RGBA{40, 45, 60, 255}
	solRed       = color.RGBA{200, 60, 60, 255}
	solBlack     = color.RGBA{30, 30, 38, 255}
	solHighlight = color.RGBA{245, 198, 75, 255}
	solSlot      = color.RGBA{36, 78, 56, 255}
)

func (g *SolitaireLove) drawCard(screen *ebiten.Image, c card, r image.Rectangle, picked bool) {
	if !c.faceUp {
		fillRect(screen, r, solCardBack)
		strokeRect(screen, r, 1, solCardEdge)
		return
	}
	fillRect(screen, r, solCardFace)
	strokeRect(screen, r, 1, solCardEdge)
	clr := solBlack
	if c.suit.red() {
		clr = solRed
	}
	drawText(screen, g.cfg.Face, c.label(), float64(r.Min.X+6), float64(r.Min.Y+4), clr)
	if picked {
		strokeRect(screen, r, 3, solHighlight)
	}
}

func (g *SolitaireLove) Draw(screen *ebiten.Image) {
	cfg := g.cfg
	fillRect(screen, image.Rect(0, 0, cfg.ScreenW, cfg.ScreenH), solFelt)

	done := 0
	for _, f := range g.foundations {
		done += len(f)
	}
	drawText(screen, cfg.FaceBig, fmt.Sprintf("SOLITAIRE  %d / 52", done), solMargin, 14, colUI)
	drawText(screen, cfg.Face, "Click to select, click again to move. ESC gives up.", solMargin, 54, colUIDim)

	// stock
	if len(g.stock) > 0 {
		g.drawCard(screen, card{faceUp: false}, g.stockRect(), false)
	} else {
		fillRect(screen, g.stockRect(), solSlot)
		strokeRect(screen, g.stockRect(), 1, solCardEdge)
	}
	// waste
	if len(g.waste) > 0 {
		g.drawCard(screen, g.waste[len(g.waste)-1], g.wasteRect(), g.pick.kind == 1)
	} else {
		fillRect(screen, g.wasteRect(), solSlot)
		strokeRect(screen, g.wasteRect(), 1, solCardEdge)
	}
	// foundations
	for i, f := range g.foundations {
		r := g.foundationRect(i)
		if len(f) > 0 {
			g.drawCard(screen, f[len(f)-1], r, false)
		} else {
			fillRect(screen, r, solSlot)
			strokeRect(screen, r, 1, solCardEdge)
		}
	}
	// tableau
	for col, pile := range g.tableau {
		if len(pile) == 0 {
			r := image.Rect(g.colX(col), g.tableauTop(), g.colX(col)+solCardW, g.tableauTop()+solCardH)
			fillRect(screen, r, solSlot)
			strokeRect(screen, r, 1, solCardEdge)
			continue
		}
		for idx, c := range pile {
			r := g.tableauCardRect(col, idx)
			r.Max.Y = r.Min.Y + solCardH
			picked := g.pick.kind == 2 && g.pick.pile == col && idx >= g.pick.index
			g.drawCard(screen, c, r, picked)
		}
	}

	if g.phase == solWonOverlay {
		drawOverlay(screen, cfg, "ALL SUITS HOME", solHighlight, "Enter or click to continue the story")
	}
}
