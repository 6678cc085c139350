package ui

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/common"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/ui/input"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/ui/layout"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/ui/match"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/ui/renderer"
)

// UI configuration functions
func ScreenWidth() int {
	return config.Get().UI.Window.Width
}

func ScreenHeight() int {
	return config.Get().UI.Window.Height
}

// HumanGame is an ebiten.Game where a human plays a trained policy
type HumanGame struct {
	match        *match.Match
	pileRenderer *renderer.PileRenderer
	inputHandler *input.Handler
	defaultFont  font.Face
	logger       zerolog.Logger
}

// NewHumanGame creates a game window for a match against policy
func NewHumanGame(policy match.Policy, cfg match.Config) (*HumanGame, error) {
	m, err := match.New(policy, cfg)
	if err != nil {
		return nil, err
	}

	uiCfg := config.Get().UI
	l := layout.New(uiCfg.PileSpacing, uiCfg.ObjectSize)

	g := &HumanGame{
		match:       m,
		defaultFont: basicfont.Face7x13,
		logger:      cfg.Logger.With().Str("component", "HumanGame").Logger(),
	}
	g.pileRenderer = renderer.NewPileRenderer(l, g.defaultFont)
	g.inputHandler = input.NewHandler(l)

	return g, nil
}

// Update proceeds the game state.
func (g *HumanGame) Update() error {
	piles := g.match.Piles()
	g.inputHandler.Update(piles)

	if g.inputHandler.QuitRequested() {
		return ebiten.Termination
	}
	if g.inputHandler.RestartRequested() {
		return g.match.Restart()
	}

	if g.match.IsHumanTurn() {
		g.pileRenderer.SetHover(g.inputHandler.Hovered(piles))
		if action, ok := g.inputHandler.PendingMove(); ok {
			if err := g.match.HumanMove(action); err != nil && !errors.Is(err, match.ErrNotHumanTurn) {
				g.logger.Debug().Err(err).Stringer("action", action).Msg("Rejected human move")
			}
		}
		return nil
	}

	g.pileRenderer.SetHover(core.Action{}, false)
	return g.match.Tick()
}

// Draw renders the game screen.
func (g *HumanGame) Draw(screen *ebiten.Image) {
	screen.Fill(common.BackgroundColor)

	g.pileRenderer.Draw(screen, g.match.Piles())

	statusColor := common.PlayerColor(g.match.HumanPlayer())
	text.Draw(screen, g.match.Status(), g.defaultFont, 10, 20, statusColor)
	text.Draw(screen, fmt.Sprintf("Turn: %d", g.match.Turn()), g.defaultFont, ScreenWidth()-90, 20, common.LabelColor)

	helpY := ScreenHeight() - 40
	text.Draw(screen, "Click an object to take it and every object to its right", g.defaultFont, 10, helpY, common.HelpTextColor)
	text.Draw(screen, "R: Restart   ESC: Quit", g.defaultFont, 10, helpY+15, common.HelpTextColor)
}

// Layout defines the Ebitengine screen size.
func (g *HumanGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return ScreenWidth(), ScreenHeight()
}
