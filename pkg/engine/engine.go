// Package engine drives the narrative state machine: node activation,
// typewriter reveal, fades, choice selection and minigame orchestration.
// It is renderer-agnostic; a front end collects Input once per frame, calls
// Update exactly once, then draws the Frame snapshot exactly once.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"novelarcade/internal/config"
	"novelarcade/internal/logger"
	"novelarcade/pkg/script"
)

// Phase is the engine's logical state.
type Phase int

const (
	PhaseIdle       Phase = iota // before Start
	PhasePresenting              // dialogue text revealing or awaiting advance
	PhaseChoice                  // choice rows active, keyboard advance disabled
	PhaseMinigame                // a minigame session owns the frame
	PhaseTerminal                // sentinel reached, only quit remains
)

// Input is the per-frame input sample. The caller collects it once before
// Update; the engine never polls devices itself.
type Input struct {
	CursorX, CursorY int
	Click            bool // primary button went down this frame
	Advance          bool // Enter or Space went down this frame
	Escape           bool
	Quit             bool // window close requested
}

// MinigameSession is pumped once per frame until it reports completion.
// The session owns its own input and drawing; the engine treats it as
// opaque and imposes no timeout.
type MinigameSession interface {
	Step(dt float64) (done bool, passed bool)
}

// MinigameLauncher starts a session for a registered minigame id. A lookup
// miss is an error distinct from "no minigame on this node".
type MinigameLauncher interface {
	Start(id int) (MinigameSession, error)
}

type pendingAction int

const (
	pendingNone     pendingAction = iota
	pendingSwap                   // fade-out, swap to target, fade-in
	pendingMinigame               // fade-out, then hand the frame to a session
)

type pending struct {
	action pendingAction
	target *script.Node
}

// Engine is the narrative state machine. All presentation state lives here
// and is reset wholesale on every node transition.
type Engine struct {
	cfg   config.Config
	store *script.Store
	games MinigameLauncher
	log   *slog.Logger

	phase Phase
	node  *script.Node

	// background is the drawn backdrop; it persists across nodes that
	// declare no bg of their own. The fade-necessity rule compares the
	// node-declared keys, not this.
	background string

	stage        []script.Character
	typer        typewriter
	bounce       bounce
	choices      []script.Choice
	choicePrompt string
	hover        int

	fade    fade
	pending pending

	session      MinigameSession
	minigameNext string

	warnText string
	warnLeft float64
}

// New builds an engine over a loaded script store. games may be nil when
// the script uses no minigame nodes; reaching a minigame node without a
// launcher is a fatal script error.
func New(cfg config.Config, store *script.Store, games MinigameLauncher, log *slog.Logger) *Engine {
	e := &Engine{
		cfg:   cfg,
		store: store,
		games: games,
		log:   logger.WithSession(log, uuid.New().String()),
		hover: -1,
	}
	e.typer.rate = cfg.TypeSpeed
	e.bounce.duration = cfg.BounceSec
	e.bounce.height = cfg.BounceHeight
	return e
}

// Phase returns the engine's logical state.
func (e *Engine) Phase() Phase {
	return e.phase
}

// NodeID returns the current node id, or "" before Start.
func (e *Engine) NodeID() string {
	if e.node == nil {
		return ""
	}
	return e.node.ID
}

// Fading reports whether a fade transition is in flight.
func (e *Engine) Fading() bool {
	return e.fade.active()
}

// Start activates the script's start node. No fade precedes it unless the
// start node itself declares a minigame.
func (e *Engine) Start() error {
	n, ok := e.store.Get(e.store.StartID())
	if !ok {
		return &script.ReferenceError{Target: e.store.StartID()}
	}
	e.log.Info("story started", "start", n.ID, "nodes", e.store.Len())
	return e.arrive(n)
}

// ReportMissingSprite surfaces a recoverable missing-sprite condition as a
// transient on-screen warning. The renderer calls this; the engine keeps
// running without the sprite.
func (e *Engine) ReportMissingSprite(path string) {
	e.warnText = "[missing sprite] " + path
	e.warnLeft = e.cfg.WarnSeconds
	e.log.Warn("sprite not found", "path", path)
}

// Update advances the engine by one frame. It returns false when the
// program should terminate: on quit, on escape, or when a fade is cancelled
// mid-flight. A returned error is fatal and unrecoverable.
func (e *Engine) Update(dt float64, in Input) (bool, error) {
	if in.Quit {
		e.log.Info("quit requested")
		return false, nil
	}

	// A fade owns the frame until it completes. Escape cancels it, which
	// tears the engine down rather than resuming.
	if e.fade.active() {
		if in.Escape {
			e.log.Info("fade cancelled")
			return false, nil
		}
		if e.fade.update(dt) {
			dir := e.fade.dir
			e.fade = fade{}
			if err := e.afterFade(dir); err != nil {
				return false, err
			}
		}
		return true, nil
	}

	// A minigame session owns the frame until it reports completion. Its
	// boolean outcome is logged but never branches the story.
	if e.phase == PhaseMinigame {
		done, passed := e.session.Step(dt)
		if !done {
			return true, nil
		}
		e.session = nil
		e.log.Info("minigame finished", "node", e.node.ID, "passed", passed)
		if e.minigameNext != "" {
			next := e.minigameNext
			e.minigameNext = ""
			return true, e.transitionTo(next, true)
		}
		// No next: fade back in on the same node, presented normally.
		if err := e.present(e.node); err != nil {
			return false, err
		}
		e.fade = fade{dir: fadeIn, total: e.cfg.FadeInSec}
		return true, nil
	}

	e.typer.update(dt)
	e.bounce.update(dt)
	if e.warnLeft > 0 {
		e.warnLeft -= dt
		if e.warnLeft < 0 {
			e.warnLeft = 0
		}
	}

	switch e.phase {
	case PhasePresenting:
		if in.Click || in.Advance {
			if e.typer.typing {
				e.typer.finish()
				break
			}
			if e.node.Next == "" {
				return false, fmt.Errorf("node %q is a dead end: no next, no choices, and not an end node", e.node.ID)
			}
			if err := e.transitionTo(e.node.Next, false); err != nil {
				return false, err
			}
		}

	case PhaseChoice:
		e.hover = e.choiceIndexAt(in.CursorX, in.CursorY)
		// Keyboard advance is disabled here to prevent accidental skips.
		if in.Click && e.hover >= 0 {
			jump := e.choices[e.hover].Jump
			if err := e.transitionTo(jump, false); err != nil {
				return false, err
			}
		}

	case PhaseTerminal:
		if (in.Click || in.Advance) && e.typer.typing {
			e.typer.finish()
		}
	}

	if in.Escape {
		e.log.Info("escape pressed, ending")
		return false, nil
	}
	return true, nil
}

// transitionTo resolves the target and moves there. A fade wraps the swap
// when forced or when the declared background keys differ; a minigame
// target always runs its own forced fade-out, superseding that rule.
func (e *Engine) transitionTo(target string, forced bool) error {
	n, err := e.store.Resolve(target)
	if err != nil {
		return err
	}
	return e.arriveForced(n, forced)
}

func (e *Engine) arrive(n *script.Node) error {
	return e.arriveForced(n, false)
}

func (e *Engine) arriveForced(n *script.Node, forced bool) error {
	if n.Kind() != script.KindEnd && n.Minigame != nil {
		e.fade = fade{dir: fadeOut, total: e.cfg.FadeOutSec}
		e.pending = pending{action: pendingMinigame, target: n}
		return nil
	}

	needFade := forced
	if !needFade {
		cur := ""
		if e.node != nil {
			cur = e.node.BackgroundPath()
		}
		needFade = cur != n.BackgroundPath()
	}
	if !needFade || e.node == nil {
		return e.activateNow(n)
	}

	e.fade = fade{dir: fadeOut, total: e.cfg.FadeOutSec}
	e.pending = pending{action: pendingSwap, target: n}
	return nil
}

// afterFade runs the queued work once a fade completes.
func (e *Engine) afterFade(dir fadeDir) error {
	if dir == fadeIn {
		return nil
	}
	p := e.pending
	e.pending = pending{}
	switch p.action {
	case pendingSwap:
		if err := e.activateNow(p.target); err != nil {
			return err
		}
		// activateNow may itself have queued a fade (it does not today,
		// because minigame targets route through pendingMinigame), so only
		// start the fade-in when nothing else took over.
		if !e.fade.active() && e.phase != PhaseMinigame {
			e.fade = fade{dir: fadeIn, total: e.cfg.FadeInSec}
		}
	case pendingMinigame:
		if e.games == nil {
			return fmt.Errorf("node %q: no minigame launcher configured", p.target.ID)
		}
		e.swapTo(p.target)
		session, err := e.games.Start(*p.target.Minigame)
		if err != nil {
			return fmt.Errorf("node %q: %w", p.target.ID, err)
		}
		e.session = session
		e.minigameNext = p.target.Next
		e.phase = PhaseMinigame
		e.log.Info("minigame started", "node", p.target.ID, "minigame", *p.target.Minigame)
	}
	return nil
}

// activateNow swaps to the node and presents it, with no animation.
func (e *Engine) activateNow(n *script.Node) error {
	e.swapTo(n)
	return e.present(n)
}

// swapTo resets all presentation substate and installs the target node.
// Nothing survives a transition except the drawn background, which only
// changes when the new node declares one.
func (e *Engine) swapTo(n *script.Node) {
	e.typer.start("")
	e.bounce = bounce{duration: e.cfg.BounceSec, height: e.cfg.BounceHeight}
	e.choices = nil
	e.choicePrompt = ""
	e.hover = -1
	e.session = nil
	e.minigameNext = ""

	e.node = n
	e.stage = n.Stage
	if p := n.BackgroundPath(); p != "" {
		e.background = p
	}
	e.log.Debug("node activated", "node", n.ID, "kind", string(n.Kind()))
}

// present enters the node's presentation phase. Minigame dispatch has
// already been consumed by the time this runs, so a minigame node with no
// next presents as plain dialogue after its session ends.
func (e *Engine) present(n *script.Node) error {
	switch n.Kind() {
	case script.KindEnd:
		e.phase = PhaseTerminal
		text := n.Text
		if text == "" {
			text = script.TerminalText
		}
		e.typer.start(text)

	case script.KindDialogue:
		e.phase = PhasePresenting
		e.typer.start(n.Text)
		e.bounce.startFor(n.Speaker, e.stage)

	case script.KindChoice:
		e.phase = PhaseChoice
		e.choicePrompt = n.Text
		if e.choicePrompt == "" {
			e.choicePrompt = "Choose:"
		}
		e.choices = n.Choices
		e.hover = -1
		e.bounce.startFor(n.Speaker, e.stage)

	default:
		return fmt.Errorf("node %q has unsupported type %q", n.ID, n.Type)
	}
	return nil
}
