package game

import (
	"fmt"
	"strings"
)

const (
	ColorReset = "\033[0m"
	ColorRed   = "\033[31m"
	ColorBlue  = "\033[34m"
	ColorGray  = "\033[90m"
)

const objectSymbol = "|"

// Board renders the piles the way the console game prints them.
func (e *Engine) Board() string {
	var sb strings.Builder
	sb.WriteString("Piles:\n")
	for i, n := range e.piles {
		sb.WriteString(fmt.Sprintf("Pile %d: %d\n", i, n))
	}
	return sb.String()
}

// ColorBoard renders the piles with one symbol per object, colored for the
// player to move.
func (e *Engine) ColorBoard() string {
	color := ColorRed
	if e.player == 1 {
		color = ColorBlue
	}

	var sb strings.Builder
	for i, n := range e.piles {
		sb.WriteString(fmt.Sprintf("%2d ", i))
		if n == 0 {
			sb.WriteString(ColorGray + "-" + ColorReset)
		} else {
			sb.WriteString(color + strings.Repeat(objectSymbol+" ", n) + ColorReset)
		}
		sb.WriteString(fmt.Sprintf(" (%d)\n", n))
	}
	return sb.String()
}
