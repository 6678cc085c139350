package agent

import (
	"sort"

	"github.com/mitchelldurbincs/NimReinforcementLearning/internal/game/core"
)

// stateActionKey identifies one table entry. State is the canonical
// core.Piles key of the position the action was taken from.
type stateActionKey struct {
	state  string
	action core.Action
}

// Entry is an exported copy of one table row
type Entry struct {
	State  string
	Action core.Action
	Value  float64
}

// valueTable maps (state, action) to an estimated return. Missing entries
// read as zero. It is not safe for concurrent use; Agent locks around it.
type valueTable struct {
	values map[stateActionKey]float64
}

func newValueTable() *valueTable {
	return &valueTable{values: make(map[stateActionKey]float64)}
}

func (t *valueTable) get(state string, action core.Action) float64 {
	return t.values[stateActionKey{state: state, action: action}]
}

func (t *valueTable) set(state string, action core.Action, value float64) {
	t.values[stateActionKey{state: state, action: action}] = value
}

func (t *valueTable) len() int {
	return len(t.values)
}

// entries returns every row ordered by state, then pile, then count
func (t *valueTable) entries() []Entry {
	out := make([]Entry, 0, len(t.values))
	for k, v := range t.values {
		out = append(out, Entry{State: k.state, Action: k.action, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		if out[i].Action.Pile != out[j].Action.Pile {
			return out[i].Action.Pile < out[j].Action.Pile
		}
		return out[i].Action.Count < out[j].Action.Count
	})
	return out
}
