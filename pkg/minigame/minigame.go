// Package minigame holds the arcade games the story can gate progression
// on, behind one stepwise run contract. Games contain their own input
// handling, countdowns, result overlays and restart sub-states; the engine
// only ever sees running / passed / failed.
package minigame

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Status is the result of one simulation step.
type Status int

const (
	StatusRunning Status = iota
	StatusPassed
	StatusFailed
)

// Config is passed to games on Reset. Seed zero means time-seeded.
type Config struct {
	ScreenW int
	ScreenH int
	Face    text.Face // regular UI face
	FaceBig text.Face // headings, countdowns
	Seed    int64
}

func (c Config) newRand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Game is the contract every minigame implements. Reset is called once per
// session before the first Step; Step advances the simulation by one frame
// and reads its own input; Draw renders the current state.
type Game interface {
	Name() string
	Reset(cfg Config)
	Step(dt float64) Status
	Draw(screen *ebiten.Image)
}

// ErrUnknownMinigame is wrapped by Registry.Start on a lookup miss. This is
// distinct from a node that declares no minigame at all.
var ErrUnknownMinigame = errors.New("unknown minigame id")

// Registry maps small integer ids to games.
type Registry struct {
	cfg   Config
	games map[int]Game
}

func NewRegistry(cfg Config) *Registry {
	return &Registry{cfg: cfg, games: make(map[int]Game)}
}

// Register adds a game under an id. Panics on a duplicate id; registration
// happens once at startup and a collision is a programming error.
func (r *Registry) Register(id int, g Game) {
	if _, dup := r.games[id]; dup {
		panic(fmt.Sprintf("minigame id %d registered twice", id))
	}
	r.games[id] = g
}

// IDs returns the registered ids, unordered.
func (r *Registry) IDs() []int {
	out := make([]int, 0, len(r.games))
	for id := range r.games {
		out = append(out, id)
	}
	return out
}

// Start resets the game registered under id and returns a session for it.
func (r *Registry) Start(id int) (*Session, error) {
	g, ok := r.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMinigame, id)
	}
	g.Reset(r.cfg)
	return &Session{game: g}, nil
}

// Session adapts a running game to the engine's done/passed protocol.
type Session struct {
	game Game
}

// Step advances the game one frame.
func (s *Session) Step(dt float64) (done bool, passed bool) {
	switch s.game.Step(dt) {
	case StatusPassed:
		return true, true
	case StatusFailed:
		return true, false
	default:
		return false, false
	}
}

// Draw renders the session's current frame.
func (s *Session) Draw(screen *ebiten.Image) {
	s.game.Draw(screen)
}
