package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"fanta-market-mcp/internal/engine"
	"fanta-market-mcp/internal/model"
	"fanta-market-mcp/internal/roster"
	"fanta-market-mcp/internal/rules"
	"fanta-market-mcp/internal/store"
)

type TransferRecommendationsArgs struct {
	LeagueID   int      `json:"league_id" jsonschema:"League id (required)"`
	Manager    string   `json:"manager" jsonschema:"Manager slug the snapshots were refreshed for (required)"`
	Outgoing   []string `json:"outgoing" jsonschema:"Names of squad players to release (required)"`
	Budget     *float64 `json:"budget,omitempty" jsonschema:"Residual credits (default: budget snapshot)"`
	CostWeight *float64 `json:"cost_weight,omitempty" jsonschema:"Per-credit score penalty (default from config)"`
	ClubCap    *int     `json:"club_cap,omitempty" jsonschema:"Max players per real club (default from config)"`
}

// SwapInfo is the wire shape of one substitution.
type SwapInfo struct {
	Out      string  `json:"out"`
	In       string  `json:"in"`
	Role     string  `json:"role"`
	InClub   string  `json:"in_club"`
	OutValue float64 `json:"out_value"`
	InValue  float64 `json:"in_value"`
	Gain     float64 `json:"gain"`
	NetCost  float64 `json:"net_cost"`
	Relaxed  bool    `json:"relaxed,omitempty"`
}

type SolutionInfo struct {
	Swaps         []SwapInfo `json:"swaps"`
	TotalGain     float64    `json:"total_gain"`
	BudgetInitial float64    `json:"budget_initial"`
	BudgetFinal   float64    `json:"budget_final"`
	OverCapClubs  []string   `json:"over_cap_clubs,omitempty"`
	Warnings      []string   `json:"warnings,omitempty"`
}

type TransferRecommendationsReport struct {
	LeagueID   int            `json:"league_id"`
	Manager    string         `json:"manager"`
	Outgoing   []string       `json:"outgoing"`
	Allowance  int            `json:"outgoing_allowance"`
	CostWeight float64        `json:"cost_weight"`
	ClubCap    int            `json:"club_cap"`
	Solutions  []SolutionInfo `json:"solutions"`
	Warning    string         `json:"warning,omitempty"`
	Notes      []string       `json:"notes"`
}

func buildTransferRecommendations(cfg ServerConfig, args TransferRecommendationsArgs) ([]byte, error) {
	if args.LeagueID == 0 {
		return nil, fmt.Errorf("league_id is required")
	}
	if args.Manager == "" {
		return nil, fmt.Errorf("manager is required")
	}

	engCfg := cfg.Engine
	if args.CostWeight != nil && *args.CostWeight >= 0 {
		engCfg.CostWeight = *args.CostWeight
	}
	if args.ClubCap != nil && *args.ClubCap > 0 {
		engCfg.ClubCap = *args.ClubCap
	}

	squad, pool, budget, err := loadSnapshots(cfg, args.LeagueID, args.Manager, args.Budget)
	if err != nil {
		return nil, err
	}

	outs, err := resolveOutgoing(squad, args.Outgoing, cfg.BaseSlots)
	if err != nil {
		return nil, err
	}

	solutions, fewer, err := engine.ComputeAutomatic(outs, squad, pool, budget, engCfg)
	if err != nil {
		return nil, err
	}

	report := TransferRecommendationsReport{
		LeagueID:   args.LeagueID,
		Manager:    args.Manager,
		Outgoing:   args.Outgoing,
		Allowance:  roster.Allowance(squad, cfg.BaseSlots),
		CostWeight: engCfg.CostWeight,
		ClubCap:    engCfg.ClubCap,
		Solutions:  make([]SolutionInfo, 0, len(solutions)),
		Notes: []string{
			"score = season_score + bonus_score - current_value*cost_weight",
			"Strict pass enforces role match and the club cap; a relaxed match drops only the cap and is flagged.",
			"Solutions are pairwise distinct: each round excludes every incoming player already proposed.",
		},
	}
	for _, sol := range solutions {
		info := solutionInfo(sol)
		for club, n := range postSwapClubCounts(squad, sol) {
			if n > engCfg.ClubCap {
				info.OverCapClubs = append(info.OverCapClubs, club)
			}
		}
		sort.Strings(info.OverCapClubs)
		report.Solutions = append(report.Solutions, info)
	}
	if fewer {
		report.Warning = fmt.Sprintf("only %d of %d distinct solutions available from the current pool", len(solutions), engCfg.MaxSolutions)
	}

	return json.MarshalIndent(report, "", "  ")
}

func solutionInfo(sol model.Solution) SolutionInfo {
	out := SolutionInfo{
		Swaps:         make([]SwapInfo, 0, len(sol.Swaps)),
		TotalGain:     sol.TotalGain,
		BudgetInitial: sol.BudgetInitial,
		BudgetFinal:   sol.BudgetFinal,
		Warnings:      sol.Warnings,
	}
	for _, sw := range sol.Swaps {
		out.Swaps = append(out.Swaps, swapInfo(sw))
	}
	return out
}

func swapInfo(sw model.Swap) SwapInfo {
	return SwapInfo{
		Out:      sw.Out.Name,
		In:       sw.In.Name,
		Role:     sw.In.Role.Label(),
		InClub:   sw.In.Club,
		OutValue: sw.Out.CurrentValue,
		InValue:  sw.In.CurrentValue,
		Gain:     sw.Gain(),
		NetCost:  sw.NetCost(),
		Relaxed:  sw.Relaxed,
	}
}

// loadSnapshots reads and normalizes the squad, pool, and budget snapshots
// for one manager. An explicit budget argument skips the budget snapshot.
func loadSnapshots(cfg ServerConfig, leagueID int, manager string, budgetArg *float64) (squad, pool []model.Player, budget float64, err error) {
	st := store.New(cfg.RawRoot)

	rawSquad, err := st.ReadRaw(store.SquadPath(leagueID, manager))
	if err != nil {
		return nil, nil, 0, err
	}
	rawPool, err := st.ReadRaw(store.PoolPath(leagueID))
	if err != nil {
		return nil, nil, 0, err
	}
	squad, pool = roster.Normalize(rawSquad, rawPool)

	if budgetArg != nil {
		return squad, pool, *budgetArg, nil
	}
	budget, err = st.ReadBudget(leagueID, manager)
	if err != nil {
		return nil, nil, 0, err
	}
	return squad, pool, budget, nil
}

// resolveOutgoing maps outgoing names onto squad players, enforcing the
// allowance and rejecting duplicates or unknown names.
func resolveOutgoing(squad []model.Player, names []string, baseSlots int) ([]model.Player, error) {
	if len(names) == 0 {
		return nil, engine.ErrNoOutgoingSlots
	}
	allowance := roster.Allowance(squad, baseSlots)
	if len(names) > allowance {
		return nil, fmt.Errorf("%d outgoing slots requested, allowance is %d: %w", len(names), allowance, engine.ErrAllowanceExceeded)
	}
	outs := make([]model.Player, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		p, ok := roster.Find(squad, name)
		if !ok {
			return nil, fmt.Errorf("%q is not in the squad: %w", name, engine.ErrUnknownPlayer)
		}
		if seen[p.Key()] {
			return nil, fmt.Errorf("%q selected twice: %w", name, engine.ErrDuplicateOutgoing)
		}
		seen[p.Key()] = true
		outs = append(outs, p)
	}
	return outs, nil
}

// postSwapClubCounts tallies clubs in the roster a solution leaves behind.
func postSwapClubCounts(squad []model.Player, sol model.Solution) map[string]int {
	releasing := make(map[string]bool, len(sol.Swaps))
	for _, sw := range sol.Swaps {
		releasing[sw.Out.Key()] = true
	}
	counts := rules.ClubCounts(squad, releasing)
	for _, sw := range sol.Swaps {
		if sw.In.Club != "" {
			counts[sw.In.Club]++
		}
	}
	return counts
}
