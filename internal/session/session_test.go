package session

import (
	"errors"
	"reflect"
	"testing"

	"fanta-market-mcp/internal/engine"
	"fanta-market-mcp/internal/model"
)

func pl(name string, role model.Role, club string, value, season, bonus float64) model.Player {
	return model.Player{
		Name:               name,
		Role:               role,
		Club:               club,
		CurrentValue:       value,
		SeasonScore:        season,
		BonusScore:         bonus,
		PlaytimeConfidence: 1,
	}
}

func testSquad() []model.Player {
	return []model.Player{
		pl("Meret", model.RoleGoalkeeper, "Napoli", 10, 5.8, 0),
		pl("Di Lorenzo", model.RoleDefender, "Napoli", 18, 6.2, 0.5),
		pl("Zaccagni", model.RoleMidfielder, "Lazio", 14, 6.1, 0.4),
		pl("Kean", model.RoleForward, "Fiorentina", 22, 6.8, 1.1),
	}
}

func testPool() []model.Player {
	return []model.Player{
		pl("Carnesecchi", model.RoleGoalkeeper, "Atalanta", 12, 6.0, 0),
		pl("Provedel", model.RoleGoalkeeper, "Lazio", 9, 5.6, 0),
		pl("Bellanova", model.RoleDefender, "Atalanta", 13, 6.0, 0.6),
		pl("Dodo", model.RoleDefender, "Fiorentina", 12, 5.9, 0.3),
		pl("Pulisic", model.RoleMidfielder, "Milan", 19, 6.9, 1.0),
		pl("Thuram", model.RoleForward, "Inter", 26, 7.0, 1.4),
		pl("Retegui", model.RoleForward, "Atalanta", 24, 6.9, 1.6),
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return New("test", testSquad(), testPool(), 40, 5, engine.DefaultConfig())
}

func TestCompute_NoOutgoingIsInputError(t *testing.T) {
	s := newTestSession(t)

	before := s.Excluded()
	_, err := s.Compute()
	if !errors.Is(err, engine.ErrNoOutgoingSlots) {
		t.Fatalf("err = %v, want ErrNoOutgoingSlots", err)
	}
	if !reflect.DeepEqual(before, s.Excluded()) {
		t.Error("failed compute must not touch the exclusion set")
	}
	if _, ok := s.Last(); ok {
		t.Error("failed compute must leave no solution")
	}
}

func TestSetOutgoing_Validation(t *testing.T) {
	s := newTestSession(t)

	if err := s.SetOutgoing([]string{"Nobody"}); !errors.Is(err, engine.ErrUnknownPlayer) {
		t.Errorf("unknown name: err = %v, want ErrUnknownPlayer", err)
	}
	if err := s.SetOutgoing([]string{"Kean", "KEAN"}); !errors.Is(err, engine.ErrDuplicateOutgoing) {
		t.Errorf("duplicate: err = %v, want ErrDuplicateOutgoing", err)
	}
	if err := s.SetOutgoing([]string{"Meret", "Di Lorenzo", "Zaccagni", "Kean", "Meret", "Kean"}); err == nil {
		t.Error("six slots against allowance 5 must fail")
	}
	if err := s.SetOutgoing([]string{"kean"}); err != nil {
		t.Errorf("name-key match: err = %v, want nil", err)
	}
}

func TestCompute_DislikedNeverReproposed(t *testing.T) {
	s := newTestSession(t)
	if err := s.SetOutgoing([]string{"Kean"}); err != nil {
		t.Fatal(err)
	}

	sol, err := s.Compute()
	if err != nil {
		t.Fatal(err)
	}
	firstIn := sol.Swaps[0].In
	if firstIn.Name != "Retegui" {
		t.Fatalf("round 1 in = %s, want Retegui (7.3 beats Thuram's 7.1)", firstIn.Name)
	}

	s.Dislike(firstIn.Name)

	// Even for a different outgoing slot, a disliked player must never
	// come back.
	if err := s.SetOutgoing([]string{"Kean"}); err != nil {
		t.Fatal(err)
	}
	for round := 2; round <= 3; round++ {
		sol, err = s.Compute()
		if err != nil {
			break
		}
		for _, sw := range sol.Swaps {
			if sw.In.Key() == firstIn.Key() {
				t.Fatalf("round %d re-proposed disliked %s", round, firstIn.Name)
			}
		}
	}
}

func TestCompute_ExclusionMonotonic(t *testing.T) {
	s := newTestSession(t)
	if err := s.SetOutgoing([]string{"Meret"}); err != nil {
		t.Fatal(err)
	}

	prev := s.Excluded()
	for round := 0; round < 3; round++ {
		_, err := s.Compute()
		cur := s.Excluded()
		for k := range prev {
			if !cur[k] {
				t.Fatalf("round %d: exclusion set shrank, lost %q", round, k)
			}
		}
		prev = cur
		if err != nil {
			// Pool exhausted for the role; set must still be intact.
			if !errors.Is(err, engine.ErrNoCandidates) {
				t.Fatal(err)
			}
			break
		}
	}
}

func TestCompute_FailedRoundIsIdempotent(t *testing.T) {
	// Pool with no goalkeepers at all: the only slot fails both passes.
	s := New("test", testSquad(), []model.Player{
		pl("Thuram", model.RoleForward, "Inter", 26, 7.0, 1.4),
	}, 40, 5, engine.DefaultConfig())
	if err := s.SetOutgoing([]string{"Meret"}); err != nil {
		t.Fatal(err)
	}
	s.Dislike("Thuram")

	excludedBefore := s.Excluded()
	fixedBefore := s.Fixed()

	for i := 0; i < 2; i++ {
		_, err := s.Compute()
		if !errors.Is(err, engine.ErrNoCandidates) {
			t.Fatalf("attempt %d: err = %v, want ErrNoCandidates", i, err)
		}
		if !reflect.DeepEqual(excludedBefore, s.Excluded()) {
			t.Fatalf("attempt %d mutated the exclusion set", i)
		}
		if !reflect.DeepEqual(fixedBefore, s.Fixed()) {
			t.Fatalf("attempt %d mutated the pinned swaps", i)
		}
	}
}

func TestFix_CarriesSwapAcrossRounds(t *testing.T) {
	s := newTestSession(t)
	if err := s.SetOutgoing([]string{"Meret", "Kean"}); err != nil {
		t.Fatal(err)
	}

	sol, err := s.Compute()
	if err != nil {
		t.Fatal(err)
	}
	if len(sol.Swaps) != 2 {
		t.Fatalf("round 1 swaps = %d, want 2", len(sol.Swaps))
	}
	keeperIn := sol.Swaps[0].In.Name

	if err := s.Fix("Meret"); err != nil {
		t.Fatal(err)
	}

	sol2, err := s.Compute()
	if err != nil {
		t.Fatal(err)
	}
	if sol2.Swaps[0].In.Name != keeperIn {
		t.Errorf("pinned keeper swap changed: %s -> %s", keeperIn, sol2.Swaps[0].In.Name)
	}
	if sol2.Swaps[1].In.Name == sol.Swaps[1].In.Name {
		t.Errorf("unpinned forward swap should move on from %s", sol.Swaps[1].In.Name)
	}
}

func TestFix_UnknownSwap(t *testing.T) {
	s := newTestSession(t)
	if err := s.Fix("Meret"); err == nil {
		t.Error("fixing before any compute must fail")
	}
	if err := s.SetOutgoing([]string{"Kean"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Compute(); err != nil {
		t.Fatal(err)
	}
	if err := s.Fix("Meret"); !errors.Is(err, engine.ErrUnknownPlayer) {
		t.Errorf("err = %v, want ErrUnknownPlayer for a slot with no computed swap", err)
	}
}

func TestReset_ClearsEverything(t *testing.T) {
	s := newTestSession(t)
	if err := s.SetOutgoing([]string{"Kean"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Compute(); err != nil {
		t.Fatal(err)
	}
	if err := s.Fix("Kean"); err != nil {
		t.Fatal(err)
	}
	s.Dislike("Thuram")

	s.Reset()

	if len(s.Excluded()) != 0 {
		t.Error("reset must clear the exclusion set")
	}
	if len(s.Fixed()) != 0 {
		t.Error("reset must clear pinned swaps")
	}
	if len(s.Outgoing()) != 0 {
		t.Error("reset must clear the outgoing selection")
	}
	if _, ok := s.Last(); ok {
		t.Error("reset must drop the last solution")
	}
	if s.Allowance() != 5 {
		t.Errorf("allowance = %d, want 5 after reset", s.Allowance())
	}
}

func TestOverCapClubs(t *testing.T) {
	// Three Atalanta players already owned; the only forward in the pool is
	// a fourth, so the swap lands as a relaxed match over the cap.
	s := New("test", []model.Player{
		pl("Carnesecchi", model.RoleGoalkeeper, "Atalanta", 12, 6.0, 0),
		pl("Bellanova", model.RoleDefender, "Atalanta", 13, 6.0, 0.6),
		pl("Ederson", model.RoleMidfielder, "Atalanta", 17, 6.3, 0.5),
		pl("Kean", model.RoleForward, "Fiorentina", 22, 6.8, 1.1),
	}, []model.Player{
		pl("Retegui", model.RoleForward, "Atalanta", 24, 6.9, 1.6),
	}, 40, 5, engine.DefaultConfig())

	if got := s.OverCapClubs(); len(got) != 0 {
		t.Fatalf("before compute: over-cap clubs = %v, want none", got)
	}
	if err := s.SetOutgoing([]string{"Kean"}); err != nil {
		t.Fatal(err)
	}
	sol, err := s.Compute()
	if err != nil {
		t.Fatal(err)
	}
	if !sol.Swaps[0].Relaxed {
		t.Fatal("the fourth Atalanta pick must be a relaxed match")
	}
	got := s.OverCapClubs()
	if !reflect.DeepEqual(got, []string{"Atalanta"}) {
		t.Errorf("over-cap clubs = %v, want [Atalanta]", got)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	s := r.Create(testSquad(), testPool(), 40, 5, engine.DefaultConfig())
	if s.ID == "" {
		t.Fatal("created session must have an id")
	}
	got, ok := r.Get(s.ID)
	if !ok || got != s {
		t.Fatal("Get must return the created session")
	}
	r.Drop(s.ID)
	if _, ok := r.Get(s.ID); ok {
		t.Error("dropped session must be gone")
	}
}
