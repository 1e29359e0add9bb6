package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackgroundPath(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty key", "", ""},
		{"blank key", "   ", ""},
		{"bare key", "classroom", "bg/classroom.png"},
		{"key with extension", "classroom.png", "classroom.png"},
		{"jpeg extension", "sunset.JPEG", "sunset.JPEG"},
		{"webp extension", "street.webp", "street.webp"},
		{"path-like key", "scenes/rooftop", "scenes/rooftop"},
		{"windows separators", "scenes\\rooftop.png", "scenes/rooftop.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BackgroundPath(tt.key))
		})
	}
}

func TestSpritePath(t *testing.T) {
	assert.Equal(t, "ch/aiko/smile.png", SpritePath("aiko", "smile"))
	assert.Equal(t, "ch/aiko/normal.png", SpritePath("aiko", ""))
}
