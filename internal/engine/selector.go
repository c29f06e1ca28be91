// Package engine computes transfer recommendations: for each player a
// manager releases, pick the best eligible replacement from the pool and
// package the chosen swaps into solutions with budget figures and warnings.
package engine

import (
	"fanta-market-mcp/internal/model"
	"fanta-market-mcp/internal/rules"
)

type Config struct {
	// CostWeight is the per-credit penalty in the candidate score. Zero is a
	// valid setting and disables the price penalty entirely.
	CostWeight   float64
	ClubCap      int
	MaxSolutions int
	// LowConfidenceBelow flags picks whose playtime confidence is under this
	// threshold. Zero disables the warning.
	LowConfidenceBelow float64
}

func DefaultConfig() Config {
	return Config{
		CostWeight:         0.05,
		ClubCap:            rules.DefaultClubCap,
		MaxSolutions:       3,
		LowConfidenceBelow: 0.5,
	}
}

// withDefaults fills only the structurally invalid fields. CostWeight and
// LowConfidenceBelow pass through untouched: zero means "off" for both, not
// "unset".
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ClubCap <= 0 {
		c.ClubCap = d.ClubCap
	}
	if c.MaxSolutions <= 0 {
		c.MaxSolutions = d.MaxSolutions
	}
	return c
}

// Score is the candidate ranking formula: performance and expected bonus
// minus a tunable penalty on acquisition cost.
func Score(p model.Player, costWeight float64) float64 {
	return p.SeasonScore + p.BonusScore - p.CurrentValue*costWeight
}

// SelectBest finds the replacement for one outgoing player. The strict pass
// enforces role match and the club cap; if it yields nothing, a relaxed pass
// drops only the cap so the slot still gets a recommendation (flagged
// relaxed). Ties keep the earliest pool entry, so identical inputs always
// produce identical picks.
func SelectBest(out model.Player, pool []model.Player, clubCounts map[string]int, used, excluded map[string]bool, cfg Config) (best model.Player, relaxed, found bool) {
	cfg = cfg.withDefaults()
	if best, found = scanPool(out, pool, clubCounts, used, excluded, cfg, true); found {
		return best, false, true
	}
	if best, found = scanPool(out, pool, clubCounts, used, excluded, cfg, false); found {
		return best, true, true
	}
	return model.Player{}, false, false
}

func scanPool(out model.Player, pool []model.Player, clubCounts map[string]int, used, excluded map[string]bool, cfg Config, enforceCap bool) (model.Player, bool) {
	var best model.Player
	bestScore := 0.0
	found := false
	for _, c := range pool {
		key := c.Key()
		if used[key] || excluded[key] {
			continue
		}
		if !rules.RoleMatches(out, c) {
			continue
		}
		if enforceCap && !rules.ClubCapRespected(clubCounts, c, cfg.ClubCap) {
			continue
		}
		s := Score(c, cfg.CostWeight)
		if !found || s > bestScore {
			best, bestScore, found = c, s, true
		}
	}
	return best, found
}

// SlotResult is the outcome for one outgoing slot.
type SlotResult struct {
	Out     model.Player
	In      model.Player
	Relaxed bool
	Found   bool
}

// Resolve runs the greedy selection over the outgoing slots, in the exact
// order supplied. fixed carries swaps already pinned by a guided session:
// their incoming players count toward the club tally and cannot be reused.
// Each chosen incoming player is consumed immediately, so later slots never
// contest it.
func Resolve(outs []model.Player, fixed []model.Swap, squad, pool []model.Player, excluded map[string]bool, cfg Config) []SlotResult {
	cfg = cfg.withDefaults()

	releasing := rules.KeySet(outs)
	for _, f := range fixed {
		releasing[f.Out.Key()] = true
	}

	clubCounts := rules.ClubCounts(squad, releasing)

	// Squad members stay ineligible as candidates unless they are being
	// released themselves; pool homonyms of owned players are degenerate
	// data, not valid targets.
	used := make(map[string]bool, len(squad))
	for _, p := range squad {
		if !releasing[p.Key()] {
			used[p.Key()] = true
		}
	}
	for _, f := range fixed {
		used[f.In.Key()] = true
		if f.In.Club != "" {
			clubCounts[f.In.Club]++
		}
	}

	results := make([]SlotResult, 0, len(outs))
	for _, out := range outs {
		in, relaxed, found := SelectBest(out, pool, clubCounts, used, excluded, cfg)
		res := SlotResult{Out: out, Found: found}
		if found {
			res.In = in
			res.Relaxed = relaxed
			used[in.Key()] = true
			if in.Club != "" {
				clubCounts[in.Club]++
			}
		}
		results = append(results, res)
	}
	return results
}

// SplitResults separates resolved swaps from the slots that failed both
// passes, preserving slot order.
func SplitResults(results []SlotResult) (swaps []model.Swap, failed []model.Player) {
	for _, r := range results {
		if r.Found {
			swaps = append(swaps, model.Swap{Out: r.Out, In: r.In, Relaxed: r.Relaxed})
		} else {
			failed = append(failed, r.Out)
		}
	}
	return swaps, failed
}
