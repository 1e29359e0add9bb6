package engine

import (
	"math"
	"strings"

	"novelarcade/pkg/script"
)

// bounce animates the currently-speaking on-stage character. At most one
// character bounces at a time; a new node activation overrides any bounce
// still in flight.
type bounce struct {
	name     string
	t        float64
	duration float64
	height   float64
}

// startFor arms the bounce when the speaker exactly matches an on-stage
// character name. The narrator never bounces.
func (b *bounce) startFor(speaker string, stage []script.Character) {
	b.name = ""
	b.t = 0

	spk := strings.TrimSpace(speaker)
	if spk == "" || strings.EqualFold(spk, "narrator") {
		return
	}
	for _, c := range stage {
		if strings.TrimSpace(c.Name) == spk {
			b.name = spk
			return
		}
	}
}

func (b *bounce) update(dt float64) {
	if b.name == "" {
		return
	}
	b.t += dt
	if b.t > b.duration {
		b.name = ""
		b.t = 0
	}
}

// offsetFor returns the vertical offset for one character, negative while
// rising. Zero for everyone but the active bouncer.
func (b *bounce) offsetFor(name string) float64 {
	if b.name == "" || b.name != name {
		return 0
	}
	if b.t < 0 || b.t > b.duration || b.duration <= 0 {
		return 0
	}
	phase := b.t / b.duration * math.Pi
	return -math.Sin(phase) * b.height
}
