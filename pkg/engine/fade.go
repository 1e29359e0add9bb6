package engine

type fadeDir int

const (
	fadeNone fadeDir = iota
	fadeOut          // scene to black
	fadeIn           // black to scene
)

// fade is the explicit state value for a screen transition. Instead of
// pumping its own render loop it is advanced by the engine's single
// per-frame Update, which also draws it via Frame().FadeAlpha.
type fade struct {
	dir     fadeDir
	elapsed float64
	total   float64
}

func (f *fade) active() bool {
	return f.dir != fadeNone
}

// update advances the fade and reports completion.
func (f *fade) update(dt float64) bool {
	f.elapsed += dt
	return f.elapsed >= f.total
}

// alpha is the black overlay opacity in [0, 1].
func (f *fade) alpha() float64 {
	if f.dir == fadeNone {
		return 0
	}
	p := 1.0
	if f.total > 0 {
		p = f.elapsed / f.total
	}
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	if f.dir == fadeIn {
		return 1 - p
	}
	return p
}
