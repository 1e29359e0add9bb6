package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFade_AlphaRamp(t *testing.T) {
	out := fade{dir: fadeOut, total: 1.0}
	assert.Equal(t, 0.0, out.alpha())
	out.update(0.5)
	assert.InDelta(t, 0.5, out.alpha(), 1e-9)
	assert.True(t, out.update(0.5))
	assert.InDelta(t, 1.0, out.alpha(), 1e-9)

	in := fade{dir: fadeIn, total: 1.0}
	assert.InDelta(t, 1.0, in.alpha(), 1e-9)
	in.update(0.75)
	assert.InDelta(t, 0.25, in.alpha(), 1e-9)
}

func TestFade_AlphaClamps(t *testing.T) {
	f := fade{dir: fadeOut, total: 0.5}
	f.update(2.0)
	assert.Equal(t, 1.0, f.alpha())

	none := fade{}
	assert.False(t, none.active())
	assert.Equal(t, 0.0, none.alpha())
}
