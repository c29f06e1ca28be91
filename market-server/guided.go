package main

import (
	"encoding/json"
	"fmt"

	"fanta-market-mcp/internal/session"
)

type GuidedStartArgs struct {
	LeagueID int      `json:"league_id" jsonschema:"League id (required)"`
	Manager  string   `json:"manager" jsonschema:"Manager slug the snapshots were refreshed for (required)"`
	Budget   *float64 `json:"budget,omitempty" jsonschema:"Residual credits (default: budget snapshot)"`
}

type GuidedSessionArgs struct {
	SessionID string `json:"session_id" jsonschema:"Guided session id from guided_start (required)"`
}

type GuidedOutgoingArgs struct {
	SessionID string   `json:"session_id" jsonschema:"Guided session id (required)"`
	Outgoing  []string `json:"outgoing" jsonschema:"Names of squad players to release"`
}

type GuidedPlayerArgs struct {
	SessionID string `json:"session_id" jsonschema:"Guided session id (required)"`
	Player    string `json:"player" jsonschema:"Player name (required)"`
}

type GuidedStartOutput struct {
	SessionID string `json:"session_id"`
	LeagueID  int    `json:"league_id"`
	Manager   string `json:"manager"`
	Allowance int    `json:"outgoing_allowance"`
	SquadSize int    `json:"squad_size"`
	PoolSize  int    `json:"pool_size"`
}

type GuidedStateOutput struct {
	SessionID string        `json:"session_id"`
	Outgoing  []string      `json:"outgoing"`
	Fixed     []SwapInfo    `json:"fixed_swaps,omitempty"`
	Excluded  int           `json:"excluded_count"`
	Solution  *SolutionInfo `json:"solution,omitempty"`
}

func startGuidedSession(cfg ServerConfig, sessions *session.Registry, args GuidedStartArgs) ([]byte, error) {
	if args.LeagueID == 0 {
		return nil, fmt.Errorf("league_id is required")
	}
	if args.Manager == "" {
		return nil, fmt.Errorf("manager is required")
	}
	squad, pool, budget, err := loadSnapshots(cfg, args.LeagueID, args.Manager, args.Budget)
	if err != nil {
		return nil, err
	}
	s := sessions.Create(squad, pool, budget, cfg.BaseSlots, cfg.Engine)
	out := GuidedStartOutput{
		SessionID: s.ID,
		LeagueID:  args.LeagueID,
		Manager:   args.Manager,
		Allowance: s.Allowance(),
		SquadSize: len(squad),
		PoolSize:  len(pool),
	}
	return json.MarshalIndent(out, "", "  ")
}

func lookupSession(sessions *session.Registry, id string) (*session.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("session_id is required")
	}
	s, ok := sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("unknown session: %s", id)
	}
	return s, nil
}

func setGuidedOutgoing(sessions *session.Registry, args GuidedOutgoingArgs) ([]byte, error) {
	s, err := lookupSession(sessions, args.SessionID)
	if err != nil {
		return nil, err
	}
	if err := s.SetOutgoing(args.Outgoing); err != nil {
		return nil, err
	}
	return guidedState(s)
}

func computeGuided(sessions *session.Registry, args GuidedSessionArgs) ([]byte, error) {
	s, err := lookupSession(sessions, args.SessionID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Compute(); err != nil {
		return nil, err
	}
	return guidedState(s)
}

func fixGuidedSwap(sessions *session.Registry, args GuidedPlayerArgs) ([]byte, error) {
	s, err := lookupSession(sessions, args.SessionID)
	if err != nil {
		return nil, err
	}
	if args.Player == "" {
		return nil, fmt.Errorf("player is required")
	}
	if err := s.Fix(args.Player); err != nil {
		return nil, err
	}
	return guidedState(s)
}

func dislikeGuided(sessions *session.Registry, args GuidedPlayerArgs) ([]byte, error) {
	s, err := lookupSession(sessions, args.SessionID)
	if err != nil {
		return nil, err
	}
	if args.Player == "" {
		return nil, fmt.Errorf("player is required")
	}
	s.Dislike(args.Player)
	return guidedState(s)
}

func resetGuided(sessions *session.Registry, args GuidedSessionArgs) ([]byte, error) {
	s, err := lookupSession(sessions, args.SessionID)
	if err != nil {
		return nil, err
	}
	s.Reset()
	return guidedState(s)
}

func guidedState(s *session.Session) ([]byte, error) {
	out := GuidedStateOutput{
		SessionID: s.ID,
		Outgoing:  make([]string, 0),
		Excluded:  len(s.Excluded()),
	}
	outgoing := s.Outgoing()
	fixed := s.Fixed()
	for _, p := range outgoing {
		out.Outgoing = append(out.Outgoing, p.Name)
		if sw, ok := fixed[p.Key()]; ok {
			out.Fixed = append(out.Fixed, swapInfo(sw))
		}
	}
	if sol, ok := s.Last(); ok {
		info := solutionInfo(sol)
		info.OverCapClubs = s.OverCapClubs()
		out.Solution = &info
	}
	return json.MarshalIndent(out, "", "  ")
}
