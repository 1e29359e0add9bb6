package engine

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novelarcade/internal/config"
	"novelarcade/pkg/script"
)

const testDoc = `
meta:
  start: intro
nodes:
  - id: intro
    bg: classroom
    text: "A quiet morning."
    next: greet
  - id: greet
    bg: classroom
    speaker: Aiko
    text: "You made it."
    next: fork
    ch:
      - name: Aiko
        pos: left
        expression: smile
  - id: fork
    type: choice
    bg: classroom
    text: "Well?"
    choices:
      - text: "Play a game"
        jump: arcade
      - text: "Skip ahead"
        jump: finale
  - id: arcade
    bg: classroom
    minigame: 1
    next: finale
  - id: finale
    bg: rooftop
    text: "The lights come on."
    next: END
`

type stubSession struct {
	steps  int
	passed bool
}

func (s *stubSession) Step(dt float64) (bool, bool) {
	s.steps--
	if s.steps <= 0 {
		return true, s.passed
	}
	return false, false
}

type stubLauncher struct {
	started []int
	session *stubSession
	err     error
}

func (l *stubLauncher) Start(id int) (MinigameSession, error) {
	l.started = append(l.started, id)
	if l.err != nil {
		return nil, l.err
	}
	return l.session, nil
}

func newTestEngine(t *testing.T, doc string, games MinigameLauncher) *Engine {
	t.Helper()
	store, err := script.Load([]byte(doc))
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(config.Default(), store, games, log)
}

// finishTyping pumps idle frames until the reveal completes, then snaps it
// with one advance press when needed.
func finishTyping(t *testing.T, e *Engine) {
	t.Helper()
	running, err := e.Update(1.0/60, Input{Advance: true})
	require.NoError(t, err)
	require.True(t, running)
	running, err = e.Update(1.0/60, Input{Advance: true})
	require.NoError(t, err)
	require.True(t, running)
}

// runFade pumps idle frames until no fade is in flight.
func runFade(t *testing.T, e *Engine) {
	t.Helper()
	for i := 0; e.Fading(); i++ {
		require.Less(t, i, 100, "fade never completed")
		running, err := e.Update(0.05, Input{})
		require.NoError(t, err)
		require.True(t, running)
	}
}

func TestEngine_StartPresentsStartNode(t *testing.T) {
	e := newTestEngine(t, testDoc, nil)
	assert.Equal(t, PhaseIdle, e.Phase())

	require.NoError(t, e.Start())
	assert.Equal(t, PhasePresenting, e.Phase())
	assert.Equal(t, "intro", e.NodeID())
	assert.False(t, e.Fading(), "the start node appears without a fade")

	f := e.Frame()
	assert.Equal(t, "bg/classroom.png", f.Background)
	assert.True(t, f.PanelVisible)
	assert.Empty(t, f.Speaker, "narrator suppresses the name panel")
}

func TestEngine_AdvanceThroughDialogue(t *testing.T) {
	e := newTestEngine(t, testDoc, nil)
	require.NoError(t, e.Start())

	// first press snaps the reveal, second press moves on
	running, err := e.Update(1.0/60, Input{Advance: true})
	require.NoError(t, err)
	require.True(t, running)
	assert.Equal(t, "A quiet morning.", e.Frame().Text)
	assert.Equal(t, "intro", e.NodeID())

	running, err = e.Update(1.0/60, Input{Advance: true})
	require.NoError(t, err)
	require.True(t, running)
	assert.Equal(t, "greet", e.NodeID())
	assert.False(t, e.Fading(), "same declared background means no fade")

	f := e.Frame()
	assert.Equal(t, "Aiko", f.Speaker)
	require.Len(t, f.Sprites, 1)
	assert.Equal(t, "ch/Aiko/smile.png", f.Sprites[0].Path)
	assert.Equal(t, "left", f.Sprites[0].Pos)
}

func TestEngine_ClickAlsoAdvances(t *testing.T) {
	e := newTestEngine(t, testDoc, nil)
	require.NoError(t, e.Start())

	running, err := e.Update(1.0/60, Input{Click: true})
	require.NoError(t, err)
	require.True(t, running)
	running, err = e.Update(1.0/60, Input{Click: true})
	require.NoError(t, err)
	require.True(t, running)
	assert.Equal(t, "greet", e.NodeID())
}

func TestEngine_SpeakerBounce(t *testing.T) {
	e := newTestEngine(t, testDoc, nil)
	require.NoError(t, e.Start())
	finishTyping(t, e)
	require.Equal(t, "greet", e.NodeID())

	// half-way through the arc the speaking sprite sits at peak height
	cfg := config.Default()
	_, err := e.Update(cfg.BounceSec/2, Input{})
	require.NoError(t, err)

	f := e.Frame()
	require.Len(t, f.Sprites, 1)
	assert.InDelta(t, -cfg.BounceHeight, f.Sprites[0].BounceOffset, 0.5)

	// the arc ends after BounceSec
	_, err = e.Update(cfg.BounceSec, Input{})
	require.NoError(t, err)
	assert.Zero(t, e.Frame().Sprites[0].BounceOffset)
}

func TestEngine_BounceSuppressed(t *testing.T) {
	const docFmt = `
nodes:
  - id: scene
    bg: classroom
    speaker: %q
    text: "..."
    next: END
    ch:
      - name: Aiko
        pos: left
        expression: smile
      - name: Yui
        pos: right
        expression: calm
`
	tests := []struct {
		name    string
		speaker string
	}{
		{"narrator lowercase", "narrator"},
		{"narrator mixed case", "Narrator"},
		{"case mismatch with stage name", "aiko"},
		{"speaker not on stage", "Haru"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t, fmt.Sprintf(docFmt, tc.speaker), nil)
			require.NoError(t, e.Start())

			// sample at the would-be peak of the arc
			_, err := e.Update(config.Default().BounceSec/2, Input{})
			require.NoError(t, err)

			f := e.Frame()
			require.Len(t, f.Sprites, 2)
			for _, s := range f.Sprites {
				assert.Zero(t, s.BounceOffset, "sprite %s must stay put", s.Path)
			}
		})
	}
}

func TestEngine_ChoiceSelection(t *testing.T) {
	e := newTestEngine(t, testDoc, nil)
	require.NoError(t, e.Start())
	finishTyping(t, e) // -> greet
	finishTyping(t, e) // -> fork
	require.Equal(t, PhaseChoice, e.Phase())

	f := e.Frame()
	assert.True(t, f.ChoicesActive)
	assert.Equal(t, "Well?", f.ChoicePrompt)
	require.Len(t, f.Choices, 2)

	// keyboard advance is disabled while choices are up
	running, err := e.Update(1.0/60, Input{Advance: true})
	require.NoError(t, err)
	require.True(t, running)
	assert.Equal(t, "fork", e.NodeID())

	// a click outside every row does nothing
	running, err = e.Update(1.0/60, Input{Click: true, CursorX: 1, CursorY: 1})
	require.NoError(t, err)
	require.True(t, running)
	assert.Equal(t, "fork", e.NodeID())

	// hover tracks the cursor
	pt := f.Choices[1].Rect.Min.Add(image.Pt(4, 4))
	running, err = e.Update(1.0/60, Input{CursorX: pt.X, CursorY: pt.Y})
	require.NoError(t, err)
	require.True(t, running)
	assert.True(t, e.Frame().Choices[1].Hover)

	// clicking the second row jumps to finale; the background differs so
	// the swap hides behind a fade
	running, err = e.Update(1.0/60, Input{Click: true, CursorX: pt.X, CursorY: pt.Y})
	require.NoError(t, err)
	require.True(t, running)
	assert.True(t, e.Fading())
	assert.Equal(t, "fork", e.NodeID(), "the swap waits for the fade-out")

	runFade(t, e)
	assert.Equal(t, "finale", e.NodeID())
	assert.Equal(t, PhasePresenting, e.Phase())
	assert.Equal(t, "bg/rooftop.png", e.Frame().Background)
}

func TestEngine_MinigameRoundTrip(t *testing.T) {
	launch := &stubLauncher{session: &stubSession{steps: 3, passed: true}}
	e := newTestEngine(t, testDoc, launch)
	require.NoError(t, e.Start())
	finishTyping(t, e) // -> greet
	finishTyping(t, e) // -> fork

	// pick "Play a game"
	pt := e.Frame().Choices[0].Rect.Min.Add(image.Pt(4, 4))
	_, err := e.Update(1.0/60, Input{Click: true, CursorX: pt.X, CursorY: pt.Y})
	require.NoError(t, err)
	assert.True(t, e.Fading(), "a minigame node always fades out first")

	runFade(t, e)
	require.Equal(t, PhaseMinigame, e.Phase())
	assert.Equal(t, []int{1}, launch.started)
	assert.True(t, e.Frame().MinigameActive)

	// the session owns the frames until it reports done
	for i := 0; i < 2; i++ {
		running, err := e.Update(1.0/60, Input{})
		require.NoError(t, err)
		require.True(t, running)
		assert.Equal(t, PhaseMinigame, e.Phase())
	}

	// completion hands back to the story; pass/fail never branches it
	running, err := e.Update(1.0/60, Input{})
	require.NoError(t, err)
	require.True(t, running)
	runFade(t, e)
	assert.Equal(t, "finale", e.NodeID())
	assert.Equal(t, PhasePresenting, e.Phase())
}

func TestEngine_MinigameFailureTakesSamePath(t *testing.T) {
	launch := &stubLauncher{session: &stubSession{steps: 1, passed: false}}
	e := newTestEngine(t, testDoc, launch)
	require.NoError(t, e.Start())
	finishTyping(t, e)
	finishTyping(t, e)

	pt := e.Frame().Choices[0].Rect.Min.Add(image.Pt(4, 4))
	_, err := e.Update(1.0/60, Input{Click: true, CursorX: pt.X, CursorY: pt.Y})
	require.NoError(t, err)
	runFade(t, e)
	require.Equal(t, PhaseMinigame, e.Phase())

	_, err = e.Update(1.0/60, Input{})
	require.NoError(t, err)
	runFade(t, e)
	assert.Equal(t, "finale", e.NodeID(), "failure continues to the same node")
}

func TestEngine_UnknownMinigameIsFatal(t *testing.T) {
	launch := &stubLauncher{err: errUnknown}
	e := newTestEngine(t, testDoc, launch)
	require.NoError(t, e.Start())
	finishTyping(t, e)
	finishTyping(t, e)

	pt := e.Frame().Choices[0].Rect.Min.Add(image.Pt(4, 4))
	_, err := e.Update(1.0/60, Input{Click: true, CursorX: pt.X, CursorY: pt.Y})
	require.NoError(t, err)

	for e.Fading() {
		running, uerr := e.Update(0.05, Input{})
		if uerr != nil {
			assert.False(t, running)
			assert.ErrorIs(t, uerr, errUnknown)
			return
		}
	}
	t.Fatal("expected launcher error to surface")
}

func TestEngine_MinigameWithoutLauncherIsFatal(t *testing.T) {
	e := newTestEngine(t, testDoc, nil)
	require.NoError(t, e.Start())
	finishTyping(t, e)
	finishTyping(t, e)

	pt := e.Frame().Choices[0].Rect.Min.Add(image.Pt(4, 4))
	_, err := e.Update(1.0/60, Input{Click: true, CursorX: pt.X, CursorY: pt.Y})
	require.NoError(t, err)

	for e.Fading() {
		running, uerr := e.Update(0.05, Input{})
		if uerr != nil {
			assert.False(t, running)
			assert.Contains(t, uerr.Error(), "no minigame launcher")
			return
		}
	}
	t.Fatal("expected an error instead of a panic")
}

func TestEngine_TerminalNode(t *testing.T) {
	e := newTestEngine(t, "nodes:\n  - id: solo\n    text: done\n    next: END\n", nil)
	require.NoError(t, e.Start())
	finishTyping(t, e)
	require.Equal(t, PhaseTerminal, e.Phase())

	f := e.Frame()
	assert.True(t, f.Terminal)

	// reveal the sentinel text, then confirm advance is inert
	running, err := e.Update(1.0/60, Input{Advance: true})
	require.NoError(t, err)
	require.True(t, running)
	assert.Equal(t, script.TerminalText, e.Frame().Text)

	running, err = e.Update(1.0/60, Input{Advance: true})
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, PhaseTerminal, e.Phase())

	running, err = e.Update(1.0/60, Input{Escape: true})
	require.NoError(t, err)
	assert.False(t, running, "escape leaves the terminal screen")
}

func TestEngine_DeadEndDialogue(t *testing.T) {
	e := newTestEngine(t, "nodes:\n  - id: stuck\n    text: hm\n", nil)
	require.NoError(t, e.Start())

	_, err := e.Update(1.0/60, Input{Advance: true}) // snap the reveal
	require.NoError(t, err)
	_, err = e.Update(1.0/60, Input{Advance: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dead end")
}

func TestEngine_BrokenReferenceSurfacesAtTransition(t *testing.T) {
	e := newTestEngine(t, "nodes:\n  - id: a\n    text: hi\n    next: nowhere\n", nil)
	require.NoError(t, e.Start(), "load and start succeed; the bad target is lazy")

	_, err := e.Update(1.0/60, Input{Advance: true}) // snap the reveal
	require.NoError(t, err)
	_, err = e.Update(1.0/60, Input{Advance: true})
	require.Error(t, err)
	var re *script.ReferenceError
	assert.ErrorAs(t, err, &re)
}

func TestEngine_EscapeDuringFadeCancels(t *testing.T) {
	e := newTestEngine(t, testDoc, nil)
	require.NoError(t, e.Start())
	finishTyping(t, e)
	finishTyping(t, e)

	pt := e.Frame().Choices[1].Rect.Min.Add(image.Pt(4, 4))
	_, err := e.Update(1.0/60, Input{Click: true, CursorX: pt.X, CursorY: pt.Y})
	require.NoError(t, err)
	require.True(t, e.Fading())

	running, err := e.Update(1.0/60, Input{Escape: true})
	require.NoError(t, err)
	assert.False(t, running, "escape mid-fade is teardown, not an error")
}

func TestEngine_BackgroundPersistsWithoutDeclaration(t *testing.T) {
	doc := `
nodes:
  - id: a
    bg: classroom
    text: one
    next: b
  - id: b
    text: two
    next: END
`
	e := newTestEngine(t, doc, nil)
	require.NoError(t, e.Start())
	finishTyping(t, e)

	// the declared keys differ (classroom vs none) so this swap fades,
	// but the drawn backdrop carries over
	runFade(t, e)
	assert.Equal(t, "b", e.NodeID())
	assert.Equal(t, "bg/classroom.png", e.Frame().Background)
}

func TestEngine_MissingSpriteWarningExpires(t *testing.T) {
	e := newTestEngine(t, testDoc, nil)
	require.NoError(t, e.Start())

	e.ReportMissingSprite("ch/Aiko/smile.png")
	f := e.Frame()
	assert.Contains(t, f.Warning, "ch/Aiko/smile.png")

	_, err := e.Update(config.Default().WarnSeconds+0.1, Input{})
	require.NoError(t, err)
	assert.Empty(t, e.Frame().Warning)
}

var errUnknown = errors.New("unknown minigame id")
