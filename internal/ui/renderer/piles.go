package renderer

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/common"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/ui/layout"
)

// -----------------------------------------------------------------------------
// Renderer
// -----------------------------------------------------------------------------

type PileRenderer struct {
	layout      layout.Layout
	defaultFont font.Face

	// hovered move, highlighted when set
	hover    core.Action
	hasHover bool
}

func NewPileRenderer(l layout.Layout, f font.Face) *PileRenderer {
	return &PileRenderer{layout: l, defaultFont: f}
}

// SetHover highlights the objects action would remove
func (pr *PileRenderer) SetHover(action core.Action, ok bool) {
	pr.hover = action
	pr.hasHover = ok
}

// Draw renders every pile as a row of squares with a label on the left.
func (pr *PileRenderer) Draw(screen *ebiten.Image, piles core.Piles) {
	size := float32(pr.layout.ObjectSize)

	for i, n := range piles {
		label := pr.layout.LabelPoint(i)
		text.Draw(screen, fmt.Sprintf("Pile %d: %d", i, n), pr.defaultFont, label.X, label.Y, common.LabelColor)

		if n == 0 {
			r := pr.layout.ObjectRect(i, 0)
			text.Draw(screen, "-", pr.defaultFont, r.Min.X, label.Y, common.EmptyPileColor)
			continue
		}

		for j := 0; j < n; j++ {
			r := pr.layout.ObjectRect(i, j)
			x, y := float32(r.Min.X), float32(r.Min.Y)

			vector.DrawFilledRect(screen, x, y, size, size, common.ObjectColor, false)
			if pr.hasHover && layout.Selected(pr.hover, piles, i, j) {
				vector.StrokeRect(screen, x, y, size, size, 3, common.SelectionColor, false)
			}
		}
	}
}
