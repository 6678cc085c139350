package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/ui/layout"
)

// Handler turns mouse and keyboard state into Nim moves
type Handler struct {
	layout layout.Layout

	// Mouse state
	mouseX, mouseY int

	// Move chosen this frame, if any
	pending    core.Action
	hasPending bool

	restart bool
	quit    bool
}

func NewHandler(l layout.Layout) *Handler {
	return &Handler{layout: l}
}

// Update polls input for the current frame against piles
func (h *Handler) Update(piles core.Piles) {
	h.mouseX, h.mouseY = ebiten.CursorPosition()
	h.hasPending = false

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		h.pending, h.hasPending = h.layout.HitTest(piles, h.mouseX, h.mouseY)
	}

	h.restart = inpututil.IsKeyJustPressed(ebiten.KeyR)
	h.quit = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// Hovered returns the move the cursor currently points at
func (h *Handler) Hovered(piles core.Piles) (core.Action, bool) {
	return h.layout.HitTest(piles, h.mouseX, h.mouseY)
}

// PendingMove returns the move clicked this frame
func (h *Handler) PendingMove() (core.Action, bool) {
	return h.pending, h.hasPending
}

func (h *Handler) RestartRequested() bool { return h.restart }
func (h *Handler) QuitRequested() bool    { return h.quit }
