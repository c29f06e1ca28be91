package fetch

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fanta-market-mcp/internal/store"
)

func TestFetchRaw_CachesInStore(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`[{"name":"Kean"}]`))
	}))
	defer srv.Close()

	st := store.New(t.TempDir())
	c := NewClient(st, srv.URL)
	c.Sleep = 0

	if _, err := c.FetchRaw("/league/7/pool", store.PoolPath(7), false); err != nil {
		t.Fatal(err)
	}
	if _, err := c.FetchRaw("/league/7/pool", store.PoolPath(7), false); err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("hits = %d, want 1 (second read served from cache)", hits)
	}

	if _, err := c.FetchRaw("/league/7/pool", store.PoolPath(7), true); err != nil {
		t.Fatal(err)
	}
	if hits != 2 {
		t.Errorf("hits = %d, want 2 after force", hits)
	}
}

func TestFetchRaw_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(store.New(t.TempDir()), srv.URL)
	c.Sleep = 0
	if _, err := c.FetchRaw("/league/7/pool", store.PoolPath(7), false); err == nil {
		t.Fatal("502 must error")
	}
}

func TestRefreshLeague(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	st := store.New(t.TempDir())
	c := NewClient(st, srv.URL)
	c.Sleep = 0

	if err := c.RefreshLeague(7, []string{"rossi"}, false); err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("requests = %v, want pool + squad + budget", paths)
	}
	for _, rel := range []string{store.PoolPath(7), store.SquadPath(7, "rossi"), store.BudgetPath(7, "rossi")} {
		if !st.Exists(rel) {
			t.Errorf("snapshot %s not written", rel)
		}
	}
}
