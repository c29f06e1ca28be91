// Package rules holds the stateless roster-composition predicates: role
// compatibility and the same-club ownership cap.
package rules

import "fanta-market-mcp/internal/model"

// DefaultClubCap is how many players from one real club a roster may hold.
const DefaultClubCap = 3

// RoleMatches reports whether candidate can replace out. Role equality is
// mandatory and never relaxed; an empty (unparsed) role matches nothing.
func RoleMatches(out, candidate model.Player) bool {
	return out.Role.Valid() && out.Role == candidate.Role
}

// ClubCapRespected reports whether adding candidate keeps its club under cap,
// given the running tally of the post-swap roster so far.
func ClubCapRespected(clubCounts map[string]int, candidate model.Player, cap int) bool {
	if candidate.Club == "" {
		return true
	}
	return clubCounts[candidate.Club] < cap
}

// ClubCounts tallies clubs across the post-release squad: every owned player
// except those nominated for release. The selector seeds its running tally
// from this and increments it as incoming players are chosen.
func ClubCounts(squad []model.Player, outgoing map[string]bool) map[string]int {
	counts := make(map[string]int)
	for _, p := range squad {
		if outgoing[p.Key()] {
			continue
		}
		if p.Club == "" {
			continue
		}
		counts[p.Club]++
	}
	return counts
}

// KeySet builds the identity-key set for a list of players.
func KeySet(players []model.Player) map[string]bool {
	set := make(map[string]bool, len(players))
	for _, p := range players {
		set[p.Key()] = true
	}
	return set
}
