// Package session implements the interactive refinement flow: a manager
// picks players to release, computes suggestions, pins the swaps they like,
// dislikes the ones they don't, and recomputes only the rest. The session
// remembers every player it ever proposed or the manager ever disliked and
// never suggests one of them again.
package session

import (
	"fmt"
	"sort"
	"sync"

	"fanta-market-mcp/internal/engine"
	"fanta-market-mcp/internal/model"
	"fanta-market-mcp/internal/roster"
	"fanta-market-mcp/internal/rules"
)

// Session holds the state of one guided flow. Not safe for concurrent use
// of a single instance without the internal lock; every exported method
// takes it.
type Session struct {
	ID string

	mu        sync.Mutex
	squad     []model.Player
	pool      []model.Player
	budget    float64
	baseSlots int
	allowance int
	cfg       engine.Config

	outgoing []model.Player
	fixed    map[string]model.Swap // keyed by outgoing player key
	excluded map[string]bool       // every proposed or disliked incoming, forever
	disliked map[string]bool       // pending dislikes, folded into excluded on success
	last     *model.Solution
}

func New(id string, squad, pool []model.Player, budget float64, baseSlots int, cfg engine.Config) *Session {
	return &Session{
		ID:        id,
		squad:     squad,
		pool:      pool,
		budget:    budget,
		baseSlots: baseSlots,
		allowance: roster.Allowance(squad, baseSlots),
		cfg:       cfg,
		fixed:     make(map[string]model.Swap),
		excluded:  make(map[string]bool),
		disliked:  make(map[string]bool),
	}
}

// Allowance is how many outgoing slots this squad grants.
func (s *Session) Allowance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowance
}

// SetOutgoing replaces the outgoing selection with the named squad players.
// It validates but does not compute.
func (s *Session) SetOutgoing(names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(names) > s.allowance {
		return fmt.Errorf("%d outgoing slots requested, allowance is %d: %w", len(names), s.allowance, engine.ErrAllowanceExceeded)
	}
	outs := make([]model.Player, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		p, ok := roster.Find(s.squad, name)
		if !ok {
			return fmt.Errorf("%q is not in the squad: %w", name, engine.ErrUnknownPlayer)
		}
		if seen[p.Key()] {
			return fmt.Errorf("%q selected twice: %w", name, engine.ErrDuplicateOutgoing)
		}
		seen[p.Key()] = true
		outs = append(outs, p)
	}
	s.outgoing = outs
	return nil
}

// Outgoing returns the current outgoing selection.
func (s *Session) Outgoing() []model.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Player, len(s.outgoing))
	copy(out, s.outgoing)
	return out
}

// Compute runs one refinement round. Pinned swaps whose outgoing player is
// still selected are carried verbatim; every other slot is re-resolved with
// the accumulated exclusions plus pending dislikes. On success the proposed
// incoming players and the pending dislikes join the exclusion set. A failed
// round changes nothing, so it can be retried.
func (s *Session) Compute() (model.Solution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.outgoing) == 0 {
		return model.Solution{}, engine.ErrNoOutgoingSlots
	}

	carried := make([]model.Swap, 0, len(s.fixed))
	fresh := make([]model.Player, 0, len(s.outgoing))
	for _, out := range s.outgoing {
		if sw, ok := s.fixed[out.Key()]; ok {
			carried = append(carried, sw)
		} else {
			fresh = append(fresh, out)
		}
	}

	excluded := make(map[string]bool, len(s.excluded)+len(s.disliked))
	for k := range s.excluded {
		excluded[k] = true
	}
	for k := range s.disliked {
		excluded[k] = true
	}

	results := engine.Resolve(fresh, carried, s.squad, s.pool, excluded, s.cfg)
	freshSwaps, failed := engine.SplitResults(results)

	if len(carried) == 0 && len(freshSwaps) == 0 {
		return model.Solution{}, engine.ErrNoCandidates
	}

	// Merge in outgoing-slot order: pinned swaps verbatim, fresh for the rest.
	byOut := make(map[string]model.Swap, len(carried)+len(freshSwaps))
	for _, sw := range carried {
		byOut[sw.Out.Key()] = sw
	}
	for _, sw := range freshSwaps {
		byOut[sw.Out.Key()] = sw
	}
	merged := make([]model.Swap, 0, len(byOut))
	for _, out := range s.outgoing {
		if sw, ok := byOut[out.Key()]; ok {
			merged = append(merged, sw)
		}
	}

	sol := engine.Assemble(merged, failed, s.budget, s.cfg)

	for _, sw := range freshSwaps {
		s.excluded[sw.In.Key()] = true
	}
	for k := range s.disliked {
		s.excluded[k] = true
	}
	s.disliked = make(map[string]bool)
	s.last = &sol
	return sol, nil
}

// Fix pins the last computed swap for the named outgoing player so later
// rounds carry it unchanged.
func (s *Session) Fix(outName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last == nil {
		return fmt.Errorf("nothing computed yet")
	}
	key := model.NameKey(outName)
	for _, sw := range s.last.Swaps {
		if sw.Out.Key() == key {
			s.fixed[key] = sw
			return nil
		}
	}
	return fmt.Errorf("no computed swap for %q: %w", outName, engine.ErrUnknownPlayer)
}

// Dislike marks an incoming player as rejected. It does not recompute; the
// next Compute excludes the player and, once that round succeeds, the
// rejection becomes permanent for the session.
func (s *Session) Dislike(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key := model.NameKey(name); key != "" {
		s.disliked[key] = true
	}
}

// Reset returns the session to Idle: pins, exclusions, dislikes, and the
// last result are cleared; the allowance is recomputed from the squad.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outgoing = nil
	s.fixed = make(map[string]model.Swap)
	s.excluded = make(map[string]bool)
	s.disliked = make(map[string]bool)
	s.last = nil
	s.allowance = roster.Allowance(s.squad, s.baseSlots)
}

// Excluded returns a copy of the accumulated exclusion set.
func (s *Session) Excluded() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.excluded))
	for k := range s.excluded {
		out[k] = true
	}
	return out
}

// Fixed returns a copy of the pinned swaps keyed by outgoing player.
func (s *Session) Fixed() map[string]model.Swap {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.Swap, len(s.fixed))
	for k, v := range s.fixed {
		out[k] = v
	}
	return out
}

// Last returns the most recent solution, if any.
func (s *Session) Last() (model.Solution, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return model.Solution{}, false
	}
	return *s.last, true
}

// OverCapClubs lists, sorted, the clubs the last solution would leave over
// the cap. Only relaxed matches can put a club there.
func (s *Session) OverCapClubs() []string {
	limit := s.cfg.ClubCap
	if limit <= 0 {
		limit = rules.DefaultClubCap
	}
	var over []string
	for club, n := range s.PostSwapClubs() {
		if n > limit {
			over = append(over, club)
		}
	}
	sort.Strings(over)
	return over
}

// PostSwapClubs tallies clubs across the roster the last solution would
// leave behind.
func (s *Session) PostSwapClubs() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return rules.ClubCounts(s.squad, nil)
	}
	releasing := make(map[string]bool, len(s.last.Swaps))
	for _, sw := range s.last.Swaps {
		releasing[sw.Out.Key()] = true
	}
	counts := rules.ClubCounts(s.squad, releasing)
	for _, sw := range s.last.Swaps {
		if sw.In.Club != "" {
			counts[sw.In.Club]++
		}
	}
	return counts
}
