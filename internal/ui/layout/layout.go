// Package layout maps piles to screen rectangles and clicks back to moves.
package layout

import (
	"image"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

// Layout places pile i on row i, one square per object, left to right
type Layout struct {
	OffsetX     int
	OffsetY     int
	PileSpacing int // distance between row tops
	ObjectSize  int
	Gap         int // space between objects in a row
}

func New(pileSpacing, objectSize int) Layout {
	return Layout{
		OffsetX:     120,
		OffsetY:     70,
		PileSpacing: pileSpacing,
		ObjectSize:  objectSize,
		Gap:         objectSize / 3,
	}
}

// ObjectRect returns the square of object index within pile
func (l Layout) ObjectRect(pile, index int) image.Rectangle {
	x := l.OffsetX + index*(l.ObjectSize+l.Gap)
	y := l.OffsetY + pile*l.PileSpacing
	return image.Rect(x, y, x+l.ObjectSize, y+l.ObjectSize)
}

// LabelPoint is the baseline origin of the label drawn left of pile
func (l Layout) LabelPoint(pile int) image.Point {
	return image.Pt(l.OffsetX-100, l.OffsetY+pile*l.PileSpacing+l.ObjectSize*2/3)
}

// HitTest returns the move selected by a click at (x, y). Clicking the
// object at index j of a pile holding n objects takes n-j objects, i.e.
// the clicked object and every object to its right.
func (l Layout) HitTest(piles core.Piles, x, y int) (core.Action, bool) {
	pt := image.Pt(x, y)
	for i, n := range piles {
		for j := 0; j < n; j++ {
			if pt.In(l.ObjectRect(i, j)) {
				return core.Action{Pile: i, Count: n - j}, true
			}
		}
	}
	return core.Action{}, false
}

// Selected reports whether object index of pile would be removed by action
func Selected(action core.Action, piles core.Piles, pile, index int) bool {
	if action.Pile != pile || pile < 0 || pile >= len(piles) {
		return false
	}
	return index >= piles[pile]-action.Count && index < piles[pile]
}
