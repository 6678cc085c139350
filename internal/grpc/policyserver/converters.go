package policyserver

import (
	"fmt"
	"math"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

// Message field names
const (
	fieldPiles         = "piles"
	fieldExplore       = "explore"
	fieldPile          = "pile"
	fieldCount         = "count"
	fieldValue         = "value"
	fieldActions       = "actions"
	fieldGameID        = "game_id"
	fieldHumanPlayer   = "human_player"
	fieldCurrentPlayer = "current_player"
	fieldWinner        = "winner"
	fieldGameOver      = "game_over"
	fieldTurn          = "turn"
	fieldAgentAction   = "agent_action"
	fieldLegalActions  = "legal_actions"
)

// pilesFromStruct reads a non-negative integer list holding at most
// maxObjects objects in total; maxObjects <= 0 disables the limit. A missing
// field yields nil so callers can fall back to a default.
func pilesFromStruct(s *structpb.Struct, maxObjects int) (core.Piles, error) {
	v, ok := s.GetFields()[fieldPiles]
	if !ok {
		return nil, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, status.Errorf(codes.InvalidArgument, "%s must be a list of numbers", fieldPiles)
	}
	piles := make(core.Piles, len(list.GetValues()))
	total := 0
	for i, item := range list.GetValues() {
		n, err := toInt(item)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "%s[%d]: %v", fieldPiles, i, err)
		}
		if n < 0 {
			return nil, status.Errorf(codes.InvalidArgument, "%s[%d] must be non-negative, got %d", fieldPiles, i, n)
		}
		if maxObjects > 0 {
			if n > maxObjects-total {
				return nil, status.Errorf(codes.InvalidArgument, "%s hold more than %d objects", fieldPiles, maxObjects)
			}
			total += n
		}
		piles[i] = n
	}
	return piles, nil
}

func intField(s *structpb.Struct, name string) (int, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "missing field %s", name)
	}
	n, err := toInt(v)
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "%s: %v", name, err)
	}
	return n, nil
}

func optionalIntField(s *structpb.Struct, name string, def int) (int, error) {
	if _, ok := s.GetFields()[name]; !ok {
		return def, nil
	}
	return intField(s, name)
}

func stringField(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok || v.GetStringValue() == "" {
		return "", status.Errorf(codes.InvalidArgument, "missing field %s", name)
	}
	return v.GetStringValue(), nil
}

func toInt(v *structpb.Value) (int, error) {
	num, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("not a number")
	}
	f := num.NumberValue
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("not an integer: %v", f)
	}
	return int(f), nil
}

func pilesToValue(p core.Piles) *structpb.Value {
	values := make([]*structpb.Value, len(p))
	for i, n := range p {
		values[i] = structpb.NewNumberValue(float64(n))
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

func actionToStruct(a core.Action) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldPile:  structpb.NewNumberValue(float64(a.Pile)),
		fieldCount: structpb.NewNumberValue(float64(a.Count)),
	}}
}

func actionValueToStruct(av agent.ActionValue) *structpb.Struct {
	s := actionToStruct(av.Action)
	s.Fields[fieldValue] = structpb.NewNumberValue(av.Value)
	return s
}

func actionsToValue(actions []core.Action) *structpb.Value {
	values := make([]*structpb.Value, len(actions))
	for i, a := range actions {
		values[i] = structpb.NewStructValue(actionToStruct(a))
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

// ActionFromStruct reads the pile and count fields of a response
func ActionFromStruct(s *structpb.Struct) (core.Action, error) {
	pile, err := intField(s, fieldPile)
	if err != nil {
		return core.Action{}, err
	}
	count, err := intField(s, fieldCount)
	if err != nil {
		return core.Action{}, err
	}
	return core.Action{Pile: pile, Count: count}, nil
}

// PilesRequest builds a ChooseAction or ActionValues request
func PilesRequest(p core.Piles, explore bool) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldPiles:   pilesToValue(p),
		fieldExplore: structpb.NewBoolValue(explore),
	}}
}

// PilesFromResponse reads the piles field of a game response
func PilesFromResponse(s *structpb.Struct) (core.Piles, error) {
	return pilesFromStruct(s, 0)
}
