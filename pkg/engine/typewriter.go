package engine

// typewriter reveals text at a fixed characters-per-second rate. The
// fractional remainder of each frame carries into the next one, so many
// small deltas reveal exactly as much as one big delta.
type typewriter struct {
	full   []rune
	shown  int
	typing bool
	acc    float64
	rate   float64
}

func (t *typewriter) start(text string) {
	t.full = []rune(text)
	t.shown = 0
	t.acc = 0
	t.typing = len(t.full) > 0
}

// finish snaps the reveal to the full text.
func (t *typewriter) finish() {
	t.typing = false
	t.shown = len(t.full)
}

func (t *typewriter) update(dt float64) {
	if !t.typing || t.rate <= 0 {
		return
	}
	t.acc += dt
	add := int(t.acc * t.rate)
	if add <= 0 {
		return
	}
	t.acc -= float64(add) / t.rate
	t.shown += add
	if t.shown >= len(t.full) {
		t.shown = len(t.full)
		t.typing = false
	}
}

func (t *typewriter) text() string {
	return string(t.full[:t.shown])
}
