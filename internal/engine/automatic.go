package engine

import "fanta-market-mcp/internal/model"

// ComputeAutomatic is the fully-automatic mode: up to MaxSolutions distinct
// solutions for the given outgoing slots. Each round excludes every incoming
// player proposed by earlier rounds, so successive solutions are pairwise
// distinct by construction. Returns fewer=true when the pool ran dry before
// MaxSolutions — a signal, not a failure.
func ComputeAutomatic(outs []model.Player, squad, pool []model.Player, budget float64, cfg Config) (solutions []model.Solution, fewer bool, err error) {
	cfg = cfg.withDefaults()
	if len(outs) == 0 {
		return nil, false, ErrNoOutgoingSlots
	}

	excluded := make(map[string]bool)
	for len(solutions) < cfg.MaxSolutions {
		results := Resolve(outs, nil, squad, pool, excluded, cfg)
		swaps, failed := SplitResults(results)
		if len(swaps) == 0 {
			break
		}
		solutions = append(solutions, Assemble(swaps, failed, budget, cfg))
		for _, sw := range swaps {
			excluded[sw.In.Key()] = true
		}
	}

	if len(solutions) == 0 {
		return nil, false, ErrNoCandidates
	}
	return solutions, len(solutions) < cfg.MaxSolutions, nil
}
