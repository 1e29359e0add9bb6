package minigame

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanStackTableau(t *testing.T) {
	tests := []struct {
		name   string
		moving card
		onto   *card
		want   bool
	}{
		{
			name:   "red on black descending",
			moving: card{rank: 6, suit: suitHearts},
			onto:   &card{rank: 7, suit: suitSpades},
			want:   true,
		},
		{
			name:   "same color rejected",
			moving: card{rank: 6, suit: suitSpades},
			onto:   &card{rank: 7, suit: suitClubs},
			want:   false,
		},
		{
			name:   "wrong rank rejected",
			moving: card{rank: 5, suit: suitHearts},
			onto:   &card{rank: 7, suit: suitSpades},
			want:   false,
		},
		{
			name:   "king to empty column",
			moving: card{rank: 13, suit: suitDiamonds},
			onto:   nil,
			want:   true,
		},
		{
			name:   "non-king to empty column",
			moving: card{rank: 12, suit: suitDiamonds},
			onto:   nil,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canStackTableau(tt.moving, tt.onto))
		})
	}
}

func TestCanStackFoundation(t *testing.T) {
	empty := []card{}
	assert.True(t, canStackFoundation(card{rank: 1, suit: suitHearts}, empty))
	assert.False(t, canStackFoundation(card{rank: 2, suit: suitHearts}, empty))

	pile := []card{{rank: 1, suit: suitHearts}, {rank: 2, suit: suitHearts}}
	assert.True(t, canStackFoundation(card{rank: 3, suit: suitHearts}, pile))
	assert.False(t, canStackFoundation(card{rank: 3, suit: suitDiamonds}, pile), "suit must match")
	assert.False(t, canStackFoundation(card{rank: 4, suit: suitHearts}, pile), "rank must ascend by one")
}

func TestSolitaireDeal(t *testing.T) {
	g := NewSolitaireLove()
	g.Reset(Config{ScreenW: 1280, ScreenH: 720, Seed: 42})

	total := len(g.stock) + len(g.waste)
	for i, col := range g.tableau {
		total += len(col)
		assert.Len(t, col, i+1, "column %d", i)
		if len(col) > 0 {
			assert.True(t, col[len(col)-1].faceUp, "column %d top card faces up", i)
		}
	}
	for _, f := range g.foundations {
		total += len(f)
	}
	assert.Equal(t, 52, total)
	assert.Empty(t, g.waste)
}

func TestCardLabel(t *testing.T) {
	assert.Equal(t, "AH", card{rank: 1, suit: suitHearts}.label())
	assert.Equal(t, "10S", card{rank: 10, suit: suitSpades}.label())
	assert.Equal(t, "KC", card{rank: 13, suit: suitClubs}.label())
	assert.Equal(t, "QD", card{rank: 12, suit: suitDiamonds}.label())
}
