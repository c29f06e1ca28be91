package model

// Swap is one outgoing-for-incoming substitution. Gain is the credit freed
// by the move, NetCost what it eats from the residual budget.
type Swap struct {
	Out Player `json:"out"`
	In  Player `json:"in"`

	// Relaxed records that the incoming player was found only by the
	// relaxed pass, i.e. the club cap is temporarily violated.
	Relaxed bool `json:"relaxed,omitempty"`
}

func (s Swap) Gain() float64 {
	return s.Out.CurrentValue - s.In.CurrentValue
}

func (s Swap) NetCost() float64 {
	return s.In.CurrentValue - s.Out.CurrentValue
}

// Solution is a complete set of swaps with aggregate figures. Warnings are
// advisory only; a Solution with warnings is still a success.
type Solution struct {
	Swaps         []Swap   `json:"swaps"`
	TotalGain     float64  `json:"total_gain"`
	BudgetInitial float64  `json:"budget_initial"`
	BudgetFinal   float64  `json:"budget_final"`
	Warnings      []string `json:"warnings,omitempty"`
}

// IncomingKeys returns the identity keys of every incoming player.
func (s Solution) IncomingKeys() []string {
	keys := make([]string, 0, len(s.Swaps))
	for _, sw := range s.Swaps {
		keys = append(keys, sw.In.Key())
	}
	return keys
}

// Distinct reports whether two solutions differ in at least one incoming
// player, the distinctness rule for automatic mode.
func Distinct(a, b Solution) bool {
	seen := make(map[string]bool, len(a.Swaps))
	for _, sw := range a.Swaps {
		seen[sw.In.Key()] = true
	}
	if len(a.Swaps) != len(b.Swaps) {
		return true
	}
	for _, sw := range b.Swaps {
		if !seen[sw.In.Key()] {
			return true
		}
	}
	return false
}
