package layout

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

func testLayout() Layout {
	return Layout{OffsetX: 100, OffsetY: 50, PileSpacing: 40, ObjectSize: 20, Gap: 5}
}

func TestObjectRect(t *testing.T) {
	l := testLayout()
	assert.Equal(t, image.Rect(100, 50, 120, 70), l.ObjectRect(0, 0))
	assert.Equal(t, image.Rect(150, 130, 170, 150), l.ObjectRect(2, 2))
}

func TestHitTest(t *testing.T) {
	l := testLayout()
	piles := core.Piles{1, 3, 0, 7}

	tests := []struct {
		name   string
		x, y   int
		want   core.Action
		wantOK bool
	}{
		{"only object of first pile", 105, 55, core.Action{Pile: 0, Count: 1}, true},
		{"first object takes whole pile", 101, 95, core.Action{Pile: 1, Count: 3}, true},
		{"last object takes one", 155, 95, core.Action{Pile: 1, Count: 1}, true},
		{"middle object", 130, 95, core.Action{Pile: 1, Count: 2}, true},
		{"gap between objects", 122, 95, core.Action{}, false},
		{"empty pile row", 105, 135, core.Action{}, false},
		{"past end of pile", 180, 95, core.Action{}, false},
		{"label area", 10, 55, core.Action{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := l.HitTest(piles, tt.x, tt.y)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHitTestAlwaysLegal(t *testing.T) {
	l := New(60, 24)
	piles := core.DefaultPiles()
	for i, n := range piles {
		for j := 0; j < n; j++ {
			r := l.ObjectRect(i, j)
			action, ok := l.HitTest(piles, r.Min.X, r.Min.Y)
			assert.True(t, ok)
			assert.True(t, core.IsLegal(piles, action), "%v", action)
		}
	}
}

func TestSelected(t *testing.T) {
	piles := core.Piles{1, 3}
	action := core.Action{Pile: 1, Count: 2}
	assert.False(t, Selected(action, piles, 1, 0))
	assert.True(t, Selected(action, piles, 1, 1))
	assert.True(t, Selected(action, piles, 1, 2))
	assert.False(t, Selected(action, piles, 1, 3))
	assert.False(t, Selected(action, piles, 0, 0))
	assert.False(t, Selected(core.Action{Pile: 5, Count: 1}, piles, 5, 0))
}
