package common

import (
	"image/color"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

// PlayerColors defines the color scheme for each seat
var PlayerColors = map[int]color.Color{
	core.PlayerOne: color.RGBA{200, 50, 50, 255},  // Red
	core.PlayerTwo: color.RGBA{50, 100, 200, 255}, // Blue
}

// NeutralColor is used for seats without an entry in PlayerColors
var NeutralColor = color.RGBA{120, 120, 120, 255}

// Pile colors
var (
	ObjectColor    = color.RGBA{220, 200, 140, 255}
	SelectionColor = color.RGBA{255, 255, 100, 255}
	EmptyPileColor = color.Gray{120}
)

// UI colors
var (
	BackgroundColor = color.RGBA{50, 50, 50, 255}
	LabelColor      = color.White
	HelpTextColor   = color.Gray{200}
)

// PlayerColor returns the color for player, falling back to NeutralColor.
func PlayerColor(player int) color.Color {
	if c, ok := PlayerColors[player]; ok {
		return c
	}
	return NeutralColor
}
