package core

import "fmt"

// Action removes Count objects from the pile at index Pile.
type Action struct {
	Pile  int
	Count int
}

func (a Action) String() string {
	return fmt.Sprintf("(%d, %d)", a.Pile, a.Count)
}

// Validate checks the action against a pile configuration.
func (a Action) Validate(piles Piles) error {
	if a.Pile < 0 || a.Pile >= len(piles) {
		return ErrInvalidPile
	}
	if a.Count < 1 || a.Count > piles[a.Pile] {
		return ErrInvalidCount
	}
	return nil
}

// AvailableActions enumerates every legal action for piles, ordered by pile
// then by count. The result is empty iff every pile is zero.
func AvailableActions(piles Piles) []Action {
	actions := make([]Action, 0, capacityHint(piles))
	for i, pile := range piles {
		for j := 1; j <= pile; j++ {
			actions = append(actions, Action{Pile: i, Count: j})
		}
	}
	return actions
}

// maxActionsHint caps the preallocation so oversized piles cannot overflow it
const maxActionsHint = 1 << 12

func capacityHint(piles Piles) int {
	n := 0
	for _, pile := range piles {
		if pile <= 0 {
			continue
		}
		if pile > maxActionsHint-n {
			return maxActionsHint
		}
		n += pile
	}
	return n
}

// IsLegal reports whether action appears in AvailableActions(piles).
func IsLegal(piles Piles, action Action) bool {
	return action.Validate(piles) == nil
}
