package main

import (
	"fmt"
	"sort"

	"fanta-market-mcp/internal/model"
	"fanta-market-mcp/internal/roster"
	"fanta-market-mcp/internal/store"
)

// RosterArgs are the input arguments for the current_roster tool.
type RosterArgs struct {
	LeagueID int    `json:"league_id" jsonschema:"League id (required)"`
	Manager  string `json:"manager" jsonschema:"Manager slug (required)"`
}

type PlayerLookupArgs struct {
	LeagueID int    `json:"league_id" jsonschema:"League id (required)"`
	Name     string `json:"name" jsonschema:"Player name, punctuation-insensitive (required)"`
}

// RosterPlayerInfo describes one normalized squad player.
type RosterPlayerInfo struct {
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	Club         string  `json:"club"`
	CurrentValue float64 `json:"current_value"`
	SeasonScore  float64 `json:"season_score"`
	BonusScore   float64 `json:"bonus_score"`
	Departed     bool    `json:"departed,omitempty"`
}

type CurrentRosterOutput struct {
	LeagueID  int                `json:"league_id"`
	Manager   string             `json:"manager"`
	Allowance int                `json:"outgoing_allowance"`
	Players   []RosterPlayerInfo `json:"players"`
	Clubs     map[string]int     `json:"clubs"`
}

func buildCurrentRoster(cfg ServerConfig, args RosterArgs) (CurrentRosterOutput, error) {
	if args.LeagueID == 0 {
		return CurrentRosterOutput{}, fmt.Errorf("league_id is required")
	}
	if args.Manager == "" {
		return CurrentRosterOutput{}, fmt.Errorf("manager is required")
	}

	st := store.New(cfg.RawRoot)
	rawSquad, err := st.ReadRaw(store.SquadPath(args.LeagueID, args.Manager))
	if err != nil {
		return CurrentRosterOutput{}, err
	}
	squad := roster.Records(rawSquad)

	out := CurrentRosterOutput{
		LeagueID:  args.LeagueID,
		Manager:   args.Manager,
		Allowance: roster.Allowance(squad, cfg.BaseSlots),
		Players:   make([]RosterPlayerInfo, 0, len(squad)),
		Clubs:     make(map[string]int),
	}
	for _, p := range squad {
		out.Players = append(out.Players, rosterPlayerInfo(p))
		if p.Club != "" {
			out.Clubs[p.Club]++
		}
	}

	// Goalkeepers first, then by club and name, the usual roster listing.
	roleOrder := map[model.Role]int{
		model.RoleGoalkeeper: 0,
		model.RoleDefender:   1,
		model.RoleMidfielder: 2,
		model.RoleForward:    3,
	}
	sort.SliceStable(out.Players, func(i, j int) bool {
		ri := roleOrder[model.ParseRole(out.Players[i].Role)]
		rj := roleOrder[model.ParseRole(out.Players[j].Role)]
		if ri != rj {
			return ri < rj
		}
		if out.Players[i].Club != out.Players[j].Club {
			return out.Players[i].Club < out.Players[j].Club
		}
		return out.Players[i].Name < out.Players[j].Name
	})
	return out, nil
}

func lookupPoolPlayer(cfg ServerConfig, args PlayerLookupArgs) (RosterPlayerInfo, error) {
	if args.LeagueID == 0 {
		return RosterPlayerInfo{}, fmt.Errorf("league_id is required")
	}
	if args.Name == "" {
		return RosterPlayerInfo{}, fmt.Errorf("name is required")
	}

	st := store.New(cfg.RawRoot)
	rawPool, err := st.ReadRaw(store.PoolPath(args.LeagueID))
	if err != nil {
		return RosterPlayerInfo{}, err
	}
	pool := roster.Records(rawPool)
	p, ok := roster.Find(pool, args.Name)
	if !ok {
		return RosterPlayerInfo{}, fmt.Errorf("player not found in pool: %s", args.Name)
	}
	return rosterPlayerInfo(p), nil
}

func rosterPlayerInfo(p model.Player) RosterPlayerInfo {
	return RosterPlayerInfo{
		Name:         p.Name,
		Role:         p.Role.Label(),
		Club:         p.Club,
		CurrentValue: p.CurrentValue,
		SeasonScore:  p.SeasonScore,
		BonusScore:   p.BonusScore,
		Departed:     p.Departed,
	}
}
