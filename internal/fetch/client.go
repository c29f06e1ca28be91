// Package fetch refreshes provider snapshots from the quotation service.
// The engine never fetches; this client only keeps the snapshot store warm.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"fanta-market-mcp/internal/store"
)

type Client struct {
	HTTP         *http.Client
	Store        *store.SnapshotStore
	BaseURL      string
	UserAgent    string
	Sleep        time.Duration
	PrettyWrite  bool
	UseCache     bool
	DisableWrite bool
}

func NewClient(st *store.SnapshotStore, baseURL string) *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: 20 * time.Second},
		Store:       st,
		BaseURL:     baseURL,
		UserAgent:   "fanta-market-raw/1.0",
		Sleep:       250 * time.Millisecond,
		PrettyWrite: true,
		UseCache:    true,
	}
}

// FetchRaw downloads urlPath (like "/league/7/pool") and writes it to
// relPath in the store. Returns raw bytes (from cache or network).
func (c *Client) FetchRaw(urlPath string, relPath string, force bool) ([]byte, error) {
	if !force && c.UseCache && c.Store.Exists(relPath) {
		return c.Store.ReadRaw(relPath)
	}

	if c.Sleep > 0 {
		time.Sleep(c.Sleep)
	}

	req, err := http.NewRequest("GET", c.BaseURL+urlPath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: read body: %w", urlPath, err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("GET %s: status %d: %s", urlPath, resp.StatusCode, string(body))
	}

	if !c.DisableWrite {
		if err := c.Store.WriteRaw(relPath, body, c.PrettyWrite); err != nil {
			return nil, err
		}
	}
	return body, nil
}

// RefreshLeague pulls the transfer pool and, for each named manager, their
// squad and residual budget.
func (c *Client) RefreshLeague(leagueID int, managers []string, force bool) error {
	if _, err := c.FetchRaw(fmt.Sprintf("/league/%d/pool", leagueID), store.PoolPath(leagueID), force); err != nil {
		return err
	}
	for _, m := range managers {
		if _, err := c.FetchRaw(fmt.Sprintf("/league/%d/squad/%s", leagueID, m), store.SquadPath(leagueID, m), force); err != nil {
			return err
		}
		if _, err := c.FetchRaw(fmt.Sprintf("/league/%d/budget/%s", leagueID, m), store.BudgetPath(leagueID, m), force); err != nil {
			return err
		}
	}
	return nil
}
