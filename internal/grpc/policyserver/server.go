package policyserver

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

// Policy is the trained agent as seen by the service
type Policy interface {
	ChooseAction(state core.Piles, explore bool) (core.Action, bool)
	ActionValues(state core.Piles) []agent.ActionValue
	Value(state core.Piles, action core.Action) float64
}

// DefaultMaxPileObjects bounds the objects a request may place on the board.
// Request cost grows with the number of legal moves, one per object.
const DefaultMaxPileObjects = 1000

// Server implements PolicyServiceServer over a trained policy
type Server struct {
	policy         Policy
	gameManager    *GameManager
	defaultPiles   core.Piles
	maxPileObjects int
	logger         zerolog.Logger
}

var _ PolicyServiceServer = (*Server)(nil)

// NewServer creates a policy server. Requests without piles use defaultPiles;
// requests with more than maxPileObjects objects are rejected
// (DefaultMaxPileObjects when maxPileObjects <= 0).
func NewServer(policy Policy, defaultPiles core.Piles, maxGames, maxPileObjects int, logger zerolog.Logger) *Server {
	if defaultPiles == nil {
		defaultPiles = core.DefaultPiles()
	}
	if maxPileObjects <= 0 {
		maxPileObjects = DefaultMaxPileObjects
	}
	return &Server{
		policy:         policy,
		gameManager:    NewGameManager(policy, maxGames, logger),
		defaultPiles:   defaultPiles.Clone(),
		maxPileObjects: maxPileObjects,
		logger:         logger.With().Str("component", "PolicyServer").Logger(),
	}
}

func (s *Server) GameManager() *GameManager { return s.gameManager }

func (s *Server) requestPiles(req *structpb.Struct) (core.Piles, error) {
	piles, err := pilesFromStruct(req, s.maxPileObjects)
	if err != nil {
		return nil, err
	}
	if piles == nil {
		return s.defaultPiles.Clone(), nil
	}
	return piles, nil
}

// ChooseAction returns the policy's move for the requested piles
func (s *Server) ChooseAction(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	piles, err := s.requestPiles(req)
	if err != nil {
		return nil, err
	}
	explore := req.GetFields()[fieldExplore].GetBoolValue()

	action, ok := s.policy.ChooseAction(piles, explore)
	if !ok {
		return nil, status.Errorf(codes.FailedPrecondition, "no legal move from %v", piles)
	}

	s.logger.Debug().
		Str("piles", piles.String()).
		Stringer("action", action).
		Bool("explore", explore).
		Msg("Chose action")

	resp := actionToStruct(action)
	resp.Fields[fieldValue] = structpb.NewNumberValue(s.policy.Value(piles, action))
	return resp, nil
}

// ActionValues returns the estimate of every legal move for the requested piles
func (s *Server) ActionValues(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	piles, err := s.requestPiles(req)
	if err != nil {
		return nil, err
	}

	avs := s.policy.ActionValues(piles)
	values := make([]*structpb.Value, len(avs))
	for i, av := range avs {
		values[i] = structpb.NewStructValue(actionValueToStruct(av))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldPiles:   pilesToValue(piles),
		fieldActions: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}, nil
}

// CreateGame starts a human-vs-agent game
func (s *Server) CreateGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	piles, err := s.requestPiles(req)
	if err != nil {
		return nil, err
	}
	human, err := optionalIntField(req, fieldHumanPlayer, core.PlayerOne)
	if err != nil {
		return nil, err
	}

	g, gameID, err := s.gameManager.CreateGame(piles, human)
	if err != nil {
		return nil, toStatus(err, "failed to create game")
	}
	return gameState(g, gameID), nil
}

// MakeMove applies the human's move; the response includes the agent's reply
func (s *Server) MakeMove(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	gameID, err := stringField(req, fieldGameID)
	if err != nil {
		return nil, err
	}
	action, err := ActionFromStruct(req)
	if err != nil {
		return nil, err
	}

	g, err := s.gameManager.MakeMove(gameID, action)
	if err != nil {
		return nil, toStatus(err, "move rejected")
	}
	return gameState(g, gameID), nil
}

func (s *Server) GetGame(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	gameID, err := stringField(req, fieldGameID)
	if err != nil {
		return nil, err
	}
	g, exists := s.gameManager.GetGame(gameID)
	if !exists {
		return nil, status.Errorf(codes.NotFound, "game %s not found", gameID)
	}
	return gameState(g, gameID), nil
}

func gameState(g *gameInstance, gameID string) *structpb.Struct {
	g.mu.Lock()
	defer g.mu.Unlock()

	winner, _ := g.engine.Winner()
	fields := map[string]*structpb.Value{
		fieldGameID:        structpb.NewStringValue(gameID),
		fieldPiles:         pilesToValue(g.engine.Piles()),
		fieldHumanPlayer:   structpb.NewNumberValue(float64(g.humanPlayer)),
		fieldCurrentPlayer: structpb.NewNumberValue(float64(g.engine.Player())),
		fieldWinner:        structpb.NewNumberValue(float64(winner)),
		fieldGameOver:      structpb.NewBoolValue(g.engine.IsGameOver()),
		fieldTurn:          structpb.NewNumberValue(float64(g.engine.Turn())),
		fieldLegalActions:  actionsToValue(g.engine.AvailableActions()),
	}
	if g.agentAction != nil {
		fields[fieldAgentAction] = structpb.NewStructValue(actionToStruct(*g.agentAction))
	}
	return &structpb.Struct{Fields: fields}
}

// toStatus maps domain errors onto gRPC codes
func toStatus(err error, msg string) error {
	code := codes.Internal
	switch {
	case errors.Is(err, ErrGameNotFound):
		code = codes.NotFound
	case errors.Is(err, ErrAtCapacity):
		code = codes.ResourceExhausted
	case errors.Is(err, core.ErrGameOver), errors.Is(err, ErrNotYourTurn):
		code = codes.FailedPrecondition
	case errors.Is(err, core.ErrInvalidMove), errors.Is(err, core.ErrInvalidPlayer), errors.Is(err, core.ErrNegativePile):
		code = codes.InvalidArgument
	}
	return status.Errorf(code, "%s: %v", msg, err)
}
