// Package store is the file layout for provider snapshots: the squad, pool,
// and budget exports the engine is computed over. Snapshots are plain JSON
// under a single root so they can be refreshed and inspected by hand.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type SnapshotStore struct {
	Root string // e.g. "data/raw"
}

func New(root string) *SnapshotStore {
	return &SnapshotStore{Root: root}
}

func (s *SnapshotStore) Path(rel string) string {
	return filepath.Join(s.Root, rel)
}

func (s *SnapshotStore) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}

// Snapshot paths, relative to Root.

func SquadPath(leagueID int, manager string) string {
	return fmt.Sprintf("league/%d/squad_%s.json", leagueID, manager)
}

func PoolPath(leagueID int) string {
	return fmt.Sprintf("league/%d/pool.json", leagueID)
}

func BudgetPath(leagueID int, manager string) string {
	return fmt.Sprintf("league/%d/budget_%s.json", leagueID, manager)
}

func (s *SnapshotStore) WriteRaw(rel string, body []byte, pretty bool) error {
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	if pretty {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			buf := &bytes.Buffer{}
			enc := json.NewEncoder(buf)
			enc.SetIndent("", "  ")
			_ = enc.Encode(v)
			body = buf.Bytes()
		}
	}

	return os.WriteFile(path, body, 0o644)
}

func (s *SnapshotStore) ReadRaw(rel string) ([]byte, error) {
	b, err := os.ReadFile(s.Path(rel))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("snapshot %s missing (run refresh-quotes?): %w", rel, err)
	}
	return b, err
}

// ReadBudget reads a budget snapshot: either a bare number or an object
// with a "credits" field.
func (s *SnapshotStore) ReadBudget(leagueID int, manager string) (float64, error) {
	raw, err := s.ReadRaw(BudgetPath(leagueID, manager))
	if err != nil {
		return 0, err
	}
	var credits float64
	if err := json.Unmarshal(raw, &credits); err == nil {
		return credits, nil
	}
	var obj struct {
		Credits float64 `json:"credits"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0, fmt.Errorf("budget snapshot malformed: %w", err)
	}
	return obj.Credits, nil
}
