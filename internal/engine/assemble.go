package engine

import (
	"fmt"

	"fanta-market-mcp/internal/model"
)

// Assemble packages a merged swap list into a Solution with aggregate gain,
// budget figures, and advisory warnings. failed lists outgoing slots that
// found no candidate even relaxed; they become warnings, never errors — a
// requested slot is never dropped without saying why.
func Assemble(swaps []model.Swap, failed []model.Player, budgetInitial float64, cfg Config) model.Solution {
	cfg = cfg.withDefaults()

	sol := model.Solution{
		Swaps:         swaps,
		BudgetInitial: budgetInitial,
		BudgetFinal:   budgetInitial,
	}
	for _, sw := range swaps {
		sol.TotalGain += sw.Gain()
		sol.BudgetFinal -= sw.NetCost()
		if sw.Relaxed {
			sol.Warnings = append(sol.Warnings,
				fmt.Sprintf("%s puts %s over the %d-per-club cap (relaxed match)", sw.In.Name, sw.In.Club, cfg.ClubCap))
		}
		if sw.In.PlaytimeConfidence < cfg.LowConfidenceBelow {
			sol.Warnings = append(sol.Warnings,
				fmt.Sprintf("%s has low expected playtime (%.0f%%)", sw.In.Name, sw.In.PlaytimeConfidence*100))
		}
	}
	for _, out := range failed {
		sol.Warnings = append(sol.Warnings,
			fmt.Sprintf("no eligible %s in the pool for %s", out.Role.Label(), out.Name))
	}
	return sol
}
